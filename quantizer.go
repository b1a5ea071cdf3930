package galton

import "math"

// A HysteresisQuantizer snaps a value in [0,1] to one of numSteps
// levels.  Before rounding it biases the value toward the previous
// output, so an input hovering near a step boundary holds its level
// instead of chattering between neighbours.
type HysteresisQuantizer struct {
	numSteps   int
	hysteresis float64
	scale      float64
	offset     float64
	last       int
}

// Init configures the quantizer for numSteps levels with the given
// hysteresis band (in fractional steps, typically 0.05-0.25).  In
// symmetric mode the step range is centered on the input range; in
// asymmetric mode step 0 sits at input 0.
func (q *HysteresisQuantizer) Init(numSteps int, hysteresis float64, symmetric bool) {
	if numSteps < 1 {
		numSteps = 1
	}
	q.numSteps = numSteps
	q.hysteresis = clamp(hysteresis, 0, 0.5)
	if symmetric {
		q.scale = float64(numSteps - 1)
		q.offset = 0
	} else {
		q.scale = float64(numSteps)
		q.offset = -0.5
	}
	q.last = 0
}

func (q *HysteresisQuantizer) NumSteps() int { return q.numSteps }

// Process returns the quantized level for value in [0,1].
func (q *HysteresisQuantizer) Process(value float64) int {
	return q.ProcessBase(value, 0)
}

// ProcessBase quantizes value with an additive pre-rounding offset,
// used when the caller transposes the step range (register mode).
func (q *HysteresisQuantizer) ProcessBase(value, base float64) int {
	v := value*q.scale + q.offset + base
	if v < float64(q.last) {
		v += q.hysteresis
	} else if v > float64(q.last) {
		v -= q.hysteresis
	}
	i := int(math.Floor(v + 0.5))
	if i < 0 {
		i = 0
	}
	if i >= q.numSteps {
		i = q.numSteps - 1
	}
	q.last = i
	return i
}

func (q *HysteresisQuantizer) Reset() { q.last = 0 }
