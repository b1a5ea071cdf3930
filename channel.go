package galton

import "sync/atomic"

const reacquisitionSamples = 20

// A VoltageChannel turns ramp wraps into one continuous voltage
// stream.  On every wrap it draws (or captures) a value, shapes it by
// spread and bias, and quantizes it once; per sample it crossfades
// between the held quantized level and the lag processor's glide
// depending on steps.
//
// spread sweeps the draw continuously from "always exactly bias"
// through a bell around bias to a coin flip; steps sweeps the output
// from glided through raw to hard-quantized.
type VoltageChannel struct {
	spread knob
	bias   knob
	steps  knob

	scaleIndex atomic.Int32

	registerMode  atomic.Bool
	registerValue knob
	transpose     knob
	reacquire     atomic.Int32

	quant HysteresisQuantizer
	lag   LagProcessor

	prevVoltage   float64
	voltage       float64
	prevQuantized float64
	quantized     float64

	stepsNow float64
	stepsInc float64
	started  bool
}

func NewVoltageChannel() *VoltageChannel {
	c := &VoltageChannel{}
	c.spread.set(0.5)
	c.bias.set(0.5)
	c.steps.set(0)
	c.quant.Init(len(Scales[0].Degrees)*quantOctaves+1, 0.15, false)
	c.Reset()
	return c
}

// SetSpread sets the randomness shape, clamped to [0,1].
func (c *VoltageChannel) SetSpread(x float64) { c.spread.setUnit(x) }

// SetBias sets the distribution center, clamped to [0,1].
func (c *VoltageChannel) SetBias(x float64) { c.bias.setUnit(x) }

// SetSteps sets the glide/quantize balance, clamped to [0,1].
func (c *VoltageChannel) SetSteps(x float64) { c.steps.setUnit(x) }

func (c *VoltageChannel) SetScale(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(Scales) {
		i = len(Scales) - 1
	}
	c.scaleIndex.Store(int32(i))
}

// SetRegisterMode switches between generating random values and
// re-quantizing an externally captured one.
func (c *VoltageChannel) SetRegisterMode(on bool) { c.registerMode.Store(on) }

// WriteRegister captures an external voltage.  Quantization distrusts
// the channel for a short reacquisition window afterwards so a patch
// change does not glitch.
func (c *VoltageChannel) WriteRegister(v float64) {
	c.registerValue.setUnit(v)
	c.reacquire.Store(reacquisitionSamples)
}

// SetTranspose offsets the quantized register value, in steps.
func (c *VoltageChannel) SetTranspose(t float64) { c.transpose.setClamped(t, -12, 12) }

// BeginBlock prepares per-sample interpolation of steps across a
// block of n samples.
func (c *VoltageChannel) BeginBlock(n int) {
	target := c.steps.get()
	if !c.started {
		c.stepsNow = target
		c.started = true
	}
	c.stepsInc = (target - c.stepsNow) / float64(n)
}

// Wrap consumes this channel's share of the wrap's random vector.
func (c *VoltageChannel) Wrap(u float64) {
	spread := c.spread.get()
	bias := c.bias.get()

	if c.registerMode.Load() {
		u = c.registerValue.get()
	}

	x := ShapeDistribution(u, bias, spread)
	if degenerate := clamp(1.25-25*spread, 0, 1); degenerate > 0 {
		x += degenerate * (bias - x)
	}
	if bernoulli := clamp(25*spread-23.75, 0, 1); bernoulli > 0 {
		flip := 0.0
		if u < bias {
			flip = 1
		}
		x += bernoulli * (flip - x)
	}

	c.prevVoltage = c.voltage
	c.voltage = x
	c.lag.SetTarget(x)

	// Quantize once per wrap, not per sample.
	c.prevQuantized = c.quantized
	if c.reacquire.Load() > 0 {
		return
	}
	amount := clamp(2*c.stepsNow-1, 0, 1)
	c.quantized = x + amount*(c.snap(x)-x)
}

func (c *VoltageChannel) snap(x float64) float64 {
	sc := Scales[c.scaleIndex.Load()]
	n := len(sc.Degrees)*quantOctaves + 1
	if c.quant.NumSteps() != n {
		c.quant.Init(n, 0.15, false)
	}
	base := 0.0
	if c.registerMode.Load() {
		base = c.transpose.get()
	}
	i := c.quant.ProcessBase(x, base)
	octave, degree := i/len(sc.Degrees), i%len(sc.Degrees)
	return clamp(float64(12*octave+sc.Degrees[degree])/(12*quantOctaves), 0, 1)
}

// Tick produces one output sample.  rampFreq and rampPhase come from
// the ramp driving this channel.
func (c *VoltageChannel) Tick(rampFreq, rampPhase float64) float64 {
	c.stepsNow += c.stepsInc
	if k := c.reacquire.Load(); k > 0 {
		c.reacquire.Store(k - 1)
	}
	if c.stepsNow >= 0.5 {
		// keep the glide state settled for the way back down
		c.lag.Tick(rampFreq, rampPhase, 0)
		return c.quantized
	}
	return c.lag.Tick(rampFreq, rampPhase, 1-2*c.stepsNow)
}

func (c *VoltageChannel) Reset() {
	c.voltage = 0.5
	c.prevVoltage = 0.5
	c.quantized = 0.5
	c.prevQuantized = 0.5
	c.lag.Hard(0.5)
	c.quant.Reset()
	c.reacquire.Store(0)
	c.started = false
}
