// Package galton is a probabilistic, clock-synchronized pattern
// generator: it tracks tempo from an irregular trigger stream and
// turns it into correlated streams of random voltages and rhythmic
// gates, with tunable randomness, repeatability, and quantization.
//
// Everything processes block-by-block, sample-synchronously, with no
// allocation in the signal path.  The Board wires the components in
// strict order: ramp extractor, then gate generator and slave ramps,
// then voltage channels, all fed from a single Vector drawn once per
// master wrap.
package galton

import (
	"math"
	"sync/atomic"
)

// TimingRange scales the master ramp against the incoming clock.
type TimingRange int

const (
	RangeQuarter TimingRange = iota // 0.25 master cycles per clock
	RangeUnity                      // 1 per clock
	RangeQuad                       // 4 per clock
)

var rangeRatios = [3]Ratio{{1, 4}, {1, 1}, {4, 1}}

// A Frame holds one block of outputs.
type Frame struct {
	Ramp     []float64
	Gates    [NumGates][]float64
	Voltages [NumVoltages][]float64
}

func NewFrame(n int) *Frame {
	f := &Frame{Ramp: make([]float64, n)}
	for i := range f.Gates {
		f.Gates[i] = make([]float64, n)
	}
	for i := range f.Voltages {
		f.Voltages[i] = make([]float64, n)
	}
	return f
}

func (f *Frame) Len() int { return len(f.Ramp) }

// An InternalClock free-runs when no external trigger is patched.
type InternalClock struct {
	Params Params
	rate   knob
	freq   float64
	phase  float64
}

func (c *InternalClock) InitAudio(p Params) {
	c.Params = p
	c.update()
}

// SetRate sets the tempo control, clamped to [0,1].  The mapping is
// exponential: 0.5 is 120 BPM, each 0.1 roughly a factor 2^0.5.
func (c *InternalClock) SetRate(x float64) { c.rate.setUnit(x) }

// update derives the per-sample increment from the rate knob; called
// once per block, not per sample.
func (c *InternalClock) update() {
	if c.Params.SampleRate == 0 {
		return
	}
	bpm := 120 * math.Exp2(5*(c.rate.get()-0.5))
	c.freq = bpm / 60 / c.Params.SampleRate
}

// Tick returns the clock level for one sample.
func (c *InternalClock) Tick() float64 {
	c.phase += c.freq
	if c.phase >= 1 {
		c.phase -= 1
	}
	if c.phase < 0.5 {
		return 1
	}
	return 0
}

// A Board is the full pattern generator.
type Board struct {
	Params Params

	rnd *RandomSource
	ext *RampExtractor
	gen *GateGenerator

	channels   [NumVoltages]*VoltageChannel
	vramps     [NumVoltages]SlaveRamp
	voltRatios [NumVoltages]Ratio
	prevVolt   [NumVoltages]float64
	lastDraw   [NumVoltages]float64

	// Ratio requests from the control thread, picked up at the next
	// block boundary so Process never sees a half-written ramp.
	pendVolt  [NumVoltages]atomic.Pointer[Ratio]
	pendRange atomic.Pointer[Ratio]

	Clock       InternalClock
	useInternal atomic.Bool

	edge      EdgeDetector
	prevPhase float64
}

func NewBoard(seed uint64) *Board {
	b := &Board{}
	b.rnd = NewRandomSource(seed)
	b.ext = NewRampExtractor()
	b.gen = NewGateGenerator(b.rnd)
	for i := range b.channels {
		b.channels[i] = NewVoltageChannel()
		b.voltRatios[i] = Ratio{1, 1}
		b.vramps[i].InitRatio(b.voltRatios[i], 1)
		b.lastDraw[i] = 0.5
	}
	return b
}

func (b *Board) InitAudio(p Params) {
	b.Params = p
	Init(&b.Clock, p)
}

// Component access for per-channel parameters.
func (b *Board) Channel(i int) *VoltageChannel { return b.channels[i] }
func (b *Board) Gates() *GateGenerator         { return b.gen }
func (b *Board) Random() *RandomSource         { return b.rnd }
func (b *Board) Extractor() *RampExtractor     { return b.ext }

// UseInternalClock selects between the internal clock and the clock
// block passed to Process.
func (b *Board) UseInternalClock(on bool) { b.useInternal.Store(on) }

// SetRange rescales the master ramp against the clock.  The change
// lands on a pattern boundary, never mid-cycle.
func (b *Board) SetRange(r TimingRange) {
	if r < RangeQuarter {
		r = RangeQuarter
	}
	if r > RangeQuad {
		r = RangeQuad
	}
	ratio := rangeRatios[r]
	b.pendRange.Store(&ratio)
}

// SetVoltageRatio clocks voltage channel i at r times the master rate,
// starting with the next block.
func (b *Board) SetVoltageRatio(i int, r Ratio) {
	r = r.Reduce()
	b.pendVolt[i].Store(&r)
}

// Process consumes one block of clock samples and fills f.  clock and
// f must be the same length; nothing is allocated.
func (b *Board) Process(clock []float64, f *Frame) {
	n := len(clock)
	if f.Len() != n {
		panic("galton: frame length mismatch")
	}
	internal := b.useInternal.Load()
	b.Clock.update()
	if r := b.pendRange.Swap(nil); r != nil {
		b.ext.SetRatio(*r)
	}
	for i, c := range b.channels {
		if r := b.pendVolt[i].Swap(nil); r != nil {
			b.voltRatios[i] = *r
			b.vramps[i].InitRatio(*r, 1)
		}
		c.BeginBlock(n)
	}

	for i := 0; i < n; i++ {
		level := clock[i]
		if internal {
			level = b.Clock.Tick()
		}
		phase := b.ext.Tick(b.edge.Tick(level))
		freq := b.ext.Freq()

		if phase < b.prevPhase {
			vec := b.rnd.NextVector()
			b.gen.Wrap(vec)
			for c := range b.lastDraw {
				b.lastDraw[c] = vec.Voltages[c]
			}
			for c := range b.vramps {
				b.vramps[c].WrapEvent()
			}
		}
		b.prevPhase = phase

		gates := b.gen.Tick(freq)
		for c := range gates {
			f.Gates[c][i] = gates[c]
		}
		for c := range b.channels {
			vphase, _ := b.vramps[c].Tick(freq)
			if vphase < b.prevVolt[c] {
				b.channels[c].Wrap(b.lastDraw[c])
			}
			b.prevVolt[c] = vphase
			f.Voltages[c][i] = b.channels[c].Tick(freq*b.voltRatios[c].Float(), vphase)
		}
		f.Ramp[i] = phase
	}
}

// Reset restarts every component without touching parameters.
func (b *Board) Reset() {
	b.ext.Reset()
	b.gen.Reset()
	for i := range b.channels {
		b.channels[i].Reset()
		b.vramps[i].InitRatio(b.voltRatios[i], 1)
		b.prevVolt[i] = 0
		b.lastDraw[i] = 0.5
	}
	b.edge.Reset()
	b.prevPhase = 0
}
