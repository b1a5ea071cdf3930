package galton

import (
	"math"
	"sync/atomic"
)

// A knob is an externally settable parameter.  Setters run on the UI or
// control thread while the audio callback reads every block, so values
// are stored as atomic float64 bit patterns rather than behind a lock.
type knob struct {
	bits atomic.Uint64
}

func (k *knob) set(x float64) { k.bits.Store(math.Float64bits(x)) }

func (k *knob) setClamped(x, lo, hi float64) { k.set(clamp(x, lo, hi)) }

// setUnit clamps to the documented [0,1] range shared by most controls.
func (k *knob) setUnit(x float64) { k.setClamped(x, 0, 1) }

func (k *knob) get() float64 { return math.Float64frombits(k.bits.Load()) }
