package galton

import "testing"

func TestSlaveRampHalfRate(t *testing.T) {
	var s SlaveRamp
	s.InitRatio(NewRatio(1, 2), 1)
	s.SetPulseWidth(0.25)

	wraps, high := 0, 0
	prev := 1.0
	for i := 0; i < 4000; i++ {
		phase, gate := s.Tick(0.01)
		if phase < prev {
			wraps++
		}
		prev = phase
		if gate {
			high++
		}
	}
	// master period 100 samples, slave runs at half rate
	if wraps < 19 || wraps > 21 {
		t.Errorf("got %d slave cycles in 4000 samples, want ~20", wraps)
	}
	if high < 950 || high > 1050 {
		t.Errorf("gate high %d samples, want ~1000 at width 0.25", high)
	}
}

func TestSlaveRampMultiplies(t *testing.T) {
	var s SlaveRamp
	s.InitRatio(NewRatio(3, 1), 1)

	wraps := 0
	prev := 1.0
	for i := 0; i < 1000; i++ {
		phase, _ := s.Tick(0.01)
		if phase < prev {
			wraps++
		}
		prev = phase
	}
	// 10 master cycles, three slave cycles each
	if wraps < 28 || wraps > 31 {
		t.Errorf("got %d slave cycles, want ~30", wraps)
	}
}

func TestSlaveRampOneShot(t *testing.T) {
	var s SlaveRamp
	s.Trigger(0)

	high := 0
	for i := 0; i < 200; i++ {
		_, gate := s.Tick(0.1)
		if gate {
			high++
		}
	}
	if high != minTriggerSamples {
		t.Errorf("fast one-shot held gate %d samples, want %d", high, minTriggerSamples)
	}
	if p, _ := s.Tick(0.1); p != 1 {
		t.Errorf("one-shot should idle at phase 1, got %g", p)
	}
}

func TestSlaveRampOneShotSlow(t *testing.T) {
	var s SlaveRamp
	s.Trigger(0)

	high := 0
	for i := 0; i < 2000; i++ {
		_, gate := s.Tick(0.001)
		if gate {
			high++
		}
	}
	// half the 1000-sample cycle, not the 32-sample minimum
	if high < 490 || high > 510 {
		t.Errorf("slow one-shot held gate %d samples, want ~500", high)
	}
}

func TestSlaveRampBernoulliMustComplete(t *testing.T) {
	var s SlaveRamp
	s.InitBernoulli(0.3, true)

	freq := 0.01
	phase := 0.0
	ticks := 0
	for cycle := 0; cycle < 3; cycle++ {
		s.WrapEvent()
		for i := 0; i < 100; i++ {
			phase, _ = s.Tick(freq)
			ticks++
		}
	}
	// slope after the first wrap is the full remaining distance, so the
	// ramp tops out by the next wrap
	if phase != 1 {
		t.Errorf("must-complete ramp at %g after %d ticks, want 1", phase, ticks)
	}
}

func TestSlaveRampBernoulliPartial(t *testing.T) {
	var s SlaveRamp
	s.InitBernoulli(0.5, false)

	s.WrapEvent()
	var phase float64
	for i := 0; i < 100; i++ {
		phase, _ = s.Tick(0.01)
	}
	// slope 0.5 covers half the distance per master cycle
	if phase < 0.45 || phase > 0.55 {
		t.Errorf("partial ramp at %g after one cycle, want ~0.5", phase)
	}
	s.WrapEvent()
	for i := 0; i < 100; i++ {
		phase, _ = s.Tick(0.01)
	}
	if phase < 0.70 || phase > 0.80 {
		t.Errorf("partial ramp at %g after two cycles, want ~0.75", phase)
	}
}

func TestSlaveRampResetIdlesOneShot(t *testing.T) {
	var s SlaveRamp
	s.Trigger(0)
	for i := 0; i < 50; i++ {
		s.Tick(0.1)
	}
	s.Reset()
	for i := 0; i < 50; i++ {
		if _, gate := s.Tick(0.1); gate {
			t.Fatal("reset one-shot must stay low until retriggered")
		}
	}
}
