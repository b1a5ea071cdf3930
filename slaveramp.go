package galton

const minTriggerSamples = 32

type slaveMode int

const (
	rampRatio slaveMode = iota
	rampOneShot
	rampBernoulli
)

// A SlaveRamp derives a phase and a gate for one channel from the
// master ramp's per-sample frequency.  It never touches master phase;
// it integrates the master's frequency deltas itself.
//
// Three modes:
//
//	ratio:     free-running at P/Q of the master rate, wrapping its
//	           pattern every maxPhase slave cycles.
//	one-shot:  armed by Trigger, runs one cycle at master rate, idles.
//	bernoulli: slope recomputed on every master wrap from the
//	           expected-completion heuristic, so the ramp tops out
//	           adaptively rather than on a fixed schedule.
type SlaveRamp struct {
	mode       slaveMode
	ratio      Ratio
	maxPhase   float64
	pulseWidth float64

	expected     float64
	mustComplete bool
	slope        float64

	scaled      float64
	targetCount float64
	phase       float64
	pulseLength int
	running     bool
}

// InitRatio puts the ramp in ratio mode: length master cycles per
// pattern at ratio r.
func (s *SlaveRamp) InitRatio(r Ratio, length int) {
	if length < 1 {
		length = 1
	}
	s.mode = rampRatio
	s.ratio = r.Reduce()
	s.maxPhase = float64(length) * s.ratio.Float()
	if s.maxPhase < 1 {
		s.maxPhase = 1
	}
	s.scaled = 0
	s.targetCount = 0
	s.phase = 0
	s.pulseLength = 0
	s.running = true
}

// InitBernoulli puts the ramp in adaptive mode.  expected is the
// expected fraction of the remaining distance covered per master
// cycle; mustComplete forces completion by the next wrap.
func (s *SlaveRamp) InitBernoulli(expected float64, mustComplete bool) {
	s.mode = rampBernoulli
	s.expected = clamp(expected, 0, 1)
	s.mustComplete = mustComplete
	s.phase = 0
	s.slope = 1
	s.pulseLength = 0
	s.running = true
}

// Trigger arms a single cycle at the master rate.
func (s *SlaveRamp) Trigger(pulseWidth float64) {
	s.mode = rampOneShot
	s.pulseWidth = clamp(pulseWidth, 0, 1)
	s.phase = 0
	s.pulseLength = 0
	s.running = true
}

func (s *SlaveRamp) SetPulseWidth(w float64) { s.pulseWidth = clamp(w, 0, 1) }

// WrapEvent tells the ramp the master just wrapped.  Only the
// bernoulli slope cares.
func (s *SlaveRamp) WrapEvent() {
	if s.mode != rampBernoulli {
		return
	}
	remaining := 1 - s.phase
	if s.mustComplete {
		s.slope = remaining
	} else {
		s.slope = remaining * s.expected
	}
}

// Tick advances one sample and returns the ramp phase and gate level.
func (s *SlaveRamp) Tick(masterFreq float64) (float64, bool) {
	switch s.mode {
	case rampRatio:
		s.scaled += masterFreq * s.ratio.Float()
		if s.scaled >= s.maxPhase {
			s.scaled -= s.maxPhase
			s.targetCount = 0
		}
		if s.scaled >= s.targetCount {
			s.targetCount++
			s.pulseLength = 0
		}
		s.phase = s.scaled - (s.targetCount - 1)

	case rampOneShot:
		if s.running {
			s.phase += masterFreq
			if s.phase >= 1 {
				s.phase = 1
				s.running = false
			}
		}

	case rampBernoulli:
		if s.running {
			s.phase += masterFreq * s.slope
			if s.phase >= 1 {
				s.phase = 1
				s.running = false
			}
		}
	}
	s.pulseLength++
	return s.phase, s.gate()
}

func (s *SlaveRamp) gate() bool {
	active := s.running || s.mode == rampRatio
	if s.pulseWidth == 0 {
		// minimum-length trigger, held past completion
		if active && s.phase <= 0.5 {
			return true
		}
		return s.phase > 0 && s.pulseLength <= minTriggerSamples
	}
	return active && s.phase < s.pulseWidth
}

func (s *SlaveRamp) Phase() float64 { return s.phase }

func (s *SlaveRamp) Reset() {
	s.scaled = 0
	s.targetCount = 0
	s.phase = 0
	s.pulseLength = 0
	s.running = s.mode == rampRatio
}
