package galton

// GateFlags tags the instantaneous state of a boolean gate signal with
// its edges.  RISING and FALLING imply HIGH and LOW respectively, so a
// single bit test answers both "is it high?" and "did it just go high?".
type GateFlags int

const (
	GateLow     GateFlags = 0
	GateHigh    GateFlags = 1
	GateRising  GateFlags = 2 | GateHigh
	GateFalling GateFlags = 4 | GateLow
)

func (g GateFlags) High() bool    { return g&GateHigh != 0 }
func (g GateFlags) Rising() bool  { return g&2 != 0 }
func (g GateFlags) Falling() bool { return g&4 != 0 }

// An EdgeDetector derives per-sample GateFlags from a raw gate level.
// Callers feed it a float so that 0/1 control signals can be wired in
// directly; anything at or above 0.5 counts as high.
type EdgeDetector struct {
	prev bool
}

func (e *EdgeDetector) Tick(level float64) GateFlags {
	return e.TickBool(level >= 0.5)
}

func (e *EdgeDetector) TickBool(high bool) GateFlags {
	prev := e.prev
	e.prev = high
	switch {
	case high && !prev:
		return GateRising
	case !high && prev:
		return GateFalling
	case high:
		return GateHigh
	}
	return GateLow
}

func (e *EdgeDetector) Reset() { e.prev = false }
