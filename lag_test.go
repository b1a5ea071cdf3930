package galton

import (
	"math"
	"testing"
)

func TestLagInstant(t *testing.T) {
	var l LagProcessor
	l.Hard(0)
	l.SetTarget(0.8)
	if got := l.Tick(0.01, 0.1, 0); got != 0.8 {
		t.Fatalf("smoothness 0 should land in one sample, got %g", got)
	}
}

func TestLagRampPath(t *testing.T) {
	var l LagProcessor
	l.Hard(0)
	l.SetTarget(1)
	for _, c := range []struct{ phase, want float64 }{
		{0, 0},
		{0.5, 0.5},
		{1, 1},
	} {
		if got := l.Tick(0.001, c.phase, 1); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("phase %g: got %g, want %g", c.phase, got, c.want)
		}
	}
}

func TestLagGlideMonotonic(t *testing.T) {
	var l LagProcessor
	l.Hard(0)
	l.SetTarget(1)
	prev := 0.0
	for i := 0; i < 5000; i++ {
		y := l.Tick(0.01, 0, 0.3)
		if y < prev || y > 1 {
			t.Fatalf("sample %d: glide not monotonic, %g after %g", i, y, prev)
		}
		prev = y
	}
	if prev < 0.99 {
		t.Fatalf("glide never converged, stuck at %g", prev)
	}
}

func TestLagGlideTracksTempo(t *testing.T) {
	reach := func(freq float64) int {
		var l LagProcessor
		l.Hard(0)
		l.SetTarget(1)
		for i := 1; ; i++ {
			if l.Tick(freq, 0, 0.4) > 0.9 {
				return i
			}
		}
	}
	fast, slow := reach(0.02), reach(0.002)
	if slow < 5*fast {
		t.Fatalf("glide time should scale with ramp period: fast %d, slow %d", fast, slow)
	}
}

func TestLagHard(t *testing.T) {
	var l LagProcessor
	l.SetTarget(0.9)
	l.Hard(0.25)
	for _, s := range []float64{0, 0.5, 1} {
		if got := l.Tick(0.01, 0.3, s); math.Abs(got-0.25) > 1e-9 {
			t.Fatalf("smoothness %g: Hard did not pin output, got %g", s, got)
		}
	}
}
