package galton

import (
	"math"
	"sync/atomic"
)

// TimingModel selects how the gate generator turns wrap events into
// rhythm.
type TimingModel int32

const (
	ModelComplementary TimingModel = iota // one coin, two complementary outputs
	ModelIndependent                      // one coin per output
	ModelThreeStates                      // coin flips with a silent third state
	ModelDrums                            // canned 8-step patterns
	ModelMarkov                           // short-memory feature model
	ModelClusters                         // ratio patterns, randomly clustered
	ModelDivider                          // ratio patterns, bias-indexed

	numModels
)

const (
	markovHistory  = 16
	maxSilentTicks = 24
	drumPatternLen = 8
)

// markovWeights are the per-channel logit weights for the four history
// features: periodic repeat, simultaneous fire, dense recent fire,
// alternation.
var markovWeights = [NumGates][4]float64{
	{2.2, -0.8, -1.6, 1.2},
	{1.8, -1.2, -1.4, 1.6},
}

// A GateGenerator produces NumGates rhythmic gate streams from the
// master ramp.  Wrap is fed exactly one Vector per master wrap; Tick
// then shapes the decisions into sample-accurate gate waveforms
// through per-channel slave ramps.
type GateGenerator struct {
	random *RandomSource

	model  atomic.Int32
	bias   knob
	jitter knob

	ramps [NumGates]SlaveRamp

	history [markovHistory]uint8
	histPos int
	histLen int
	silence [NumGates]int

	tickCount int
	drumIndex int

	countdown int
	selQuant  HysteresisQuantizer

	jitterMult float64
	jitterErr  float64

	prevModel TimingModel
}

func NewGateGenerator(r *RandomSource) *GateGenerator {
	g := &GateGenerator{random: r}
	g.bias.set(0.5)
	g.selQuant.Init(len(dividerPatterns), 0.12, true)
	g.jitterMult = 1
	g.prevModel = -1
	return g
}

func (g *GateGenerator) SetModel(m TimingModel) {
	if m < 0 {
		m = 0
	}
	if m >= numModels {
		m = numModels - 1
	}
	g.model.Store(int32(m))
}

func (g *GateGenerator) Model() TimingModel { return TimingModel(g.model.Load()) }

// SetBias sets the gate probability/pattern bias, clamped to [0,1].
func (g *GateGenerator) SetBias(b float64) { g.bias.setUnit(b) }

// SetJitter sets the timing jitter amount, clamped to [0,1].
func (g *GateGenerator) SetJitter(j float64) { g.jitter.setUnit(j) }

// Wrap advances the generator by one master wrap and returns the gate
// bitmask for this tick.  vec must be the single Vector drawn for the
// wrap.
func (g *GateGenerator) Wrap(vec Vector) uint8 {
	model := g.Model()
	if model != g.prevModel {
		g.prevModel = model
		g.countdown = 0
	}
	bias := g.bias.get()
	g.updateJitter(vec.Jitter)

	for c := range g.ramps {
		g.ramps[c].WrapEvent()
	}

	var mask uint8
	switch model {
	case ModelComplementary, ModelIndependent:
		for c := 0; c < NumGates; c++ {
			u := vec.Gates[0]
			if model == ModelIndependent {
				u = vec.Gates[c]
			}
			if (u > bias) != (c&1 == 1) {
				mask |= 1 << c
			}
		}
		g.fire(mask, vec.PulseWidth, nil)

	case ModelThreeStates:
		pSilence := 2 * math.Abs(bias-0.5)
		for c := 0; c < NumGates; c++ {
			u := vec.Gates[c]
			if u < pSilence {
				continue
			}
			u = (u - pSilence) / (1 - pSilence)
			if (u > 0.5) != (c&1 == 1) {
				mask |= 1 << c
			}
		}
		g.fire(mask, vec.PulseWidth, func(r *SlaveRamp) {
			// gates stretch across the silent ticks they expect
			r.InitBernoulli(1-pSilence, pSilence == 0)
		})

	case ModelDrums:
		step := g.tickCount % drumPatternLen
		if step == 0 {
			idx := int(clamp(vec.Gates[0]+bias-0.5, 0, 0.999) * float64(len(drumPatterns)))
			if bias <= 0.5 {
				idx &^= 1
			}
			g.drumIndex = idx
		}
		for c := 0; c < NumGates; c++ {
			if drumPatterns[g.drumIndex][c]>>step&1 != 0 {
				mask |= 1 << c
			}
		}
		g.fire(mask, vec.PulseWidth, nil)

	case ModelMarkov:
		mask = g.markov(vec, bias)
		g.fire(mask, vec.PulseWidth, nil)

	case ModelClusters, ModelDivider:
		g.countdown--
		if g.countdown <= 0 {
			var pat gatePattern
			if model == ModelDivider {
				pat = dividerPatterns[g.selQuant.Process(bias)]
			} else {
				strength := 1 - 2*math.Abs(bias-0.5)
				x := bias*17 + (vec.Gates[0]-0.5)*17*strength
				pat = clusterPatterns[int(clamp(x, 0, 16.999))]
			}
			for c := range g.ramps {
				g.ramps[c].InitRatio(pat.ratios[c], pat.length)
			}
			g.countdown = pat.length
		}
		for c := range g.ramps {
			g.ramps[c].SetPulseWidth(vec.PulseWidth)
		}
	}

	g.pushHistory(mask)
	g.tickCount++
	return mask
}

// fire triggers the one-shot ramps named by mask.  shape, if non-nil,
// reconfigures a ramp before its trigger pulse width is applied.
func (g *GateGenerator) fire(mask uint8, width float64, shape func(*SlaveRamp)) {
	for c := 0; c < NumGates; c++ {
		if mask&(1<<c) == 0 {
			continue
		}
		if shape != nil {
			shape(&g.ramps[c])
			g.ramps[c].SetPulseWidth(width)
		} else {
			g.ramps[c].Trigger(width)
		}
	}
}

func (g *GateGenerator) markov(vec Vector, bias float64) uint8 {
	length := g.random.LoopLength()
	dejaVu := g.random.DejaVu()

	var mask uint8
	for c := 0; c < NumGates; c++ {
		if vec.Gates[c] < dejaVu && g.histLen >= length {
			// Explicit loop override: replay verbatim.
			if g.maskAgo(length)&(1<<c) != 0 {
				mask |= 1 << c
				g.silence[c] = 0
			} else {
				g.silence[c]++
			}
			continue
		}

		var logit float64
		w := markovWeights[c]
		if g.maskAgo(4)&(1<<c) != 0 {
			logit += w[0] // periodic repeat
		}
		if g.maskAgo(1) == (1<<NumGates)-1 {
			logit += w[1] // simultaneous fire
		}
		if g.recentFires(c, 4) >= 3 {
			logit += w[2] // dense recent fire
		}
		other := g.maskAgo(1)
		if other&(1<<(1-c)) != 0 && other&(1<<c) == 0 {
			logit += w[3] // alternating
		}
		logit += (bias - 0.5) * 6

		fired := vec.Gates[c] < sigmoid(logit)
		if !fired && g.silence[c] >= maxSilentTicks {
			fired = true
		}
		if fired {
			mask |= 1 << c
			g.silence[c] = 0
		} else {
			g.silence[c]++
		}
	}
	return mask
}

func (g *GateGenerator) pushHistory(mask uint8) {
	g.history[g.histPos] = mask
	g.histPos = (g.histPos + 1) % markovHistory
	if g.histLen < markovHistory {
		g.histLen++
	}
}

func (g *GateGenerator) maskAgo(k int) uint8 {
	if k > g.histLen {
		return 0
	}
	return g.history[(g.histPos-k+2*markovHistory)%markovHistory]
}

func (g *GateGenerator) recentFires(c, n int) int {
	fires := 0
	for k := 1; k <= n; k++ {
		if g.maskAgo(k)&(1<<c) != 0 {
			fires++
		}
	}
	return fires
}

// updateJitter recomputes the phase-advance multiplier for this wrap.
// The draw is a fast approximate beta sample scaled by the 4th power
// of the jitter knob; a feedback term bleeds accumulated error back
// out so long-run tempo does not drift.
func (g *GateGenerator) updateJitter(u float64) {
	j := g.jitter.get()
	amount := j * j * j * j
	perturb := 2 * amount * (betaKernel(u) - 0.5)
	g.jitterMult = clamp(1+perturb-0.5*g.jitterErr, 0.25, 4)
	g.jitterErr += g.jitterMult - 1
}

// Tick advances every gate channel one sample at the (jittered) master
// rate and returns the gate levels.
func (g *GateGenerator) Tick(masterFreq float64) [NumGates]float64 {
	var out [NumGates]float64
	f := masterFreq * g.jitterMult
	for c := range g.ramps {
		if _, gate := g.ramps[c].Tick(f); gate {
			out[c] = 1
		}
	}
	return out
}

func (g *GateGenerator) Reset() {
	for c := range g.ramps {
		g.ramps[c].Reset()
	}
	g.history = [markovHistory]uint8{}
	g.histPos = 0
	g.histLen = 0
	g.silence = [NumGates]int{}
	g.tickCount = 0
	g.countdown = 0
	g.selQuant.Reset()
	g.jitterMult = 1
	g.jitterErr = 0
}
