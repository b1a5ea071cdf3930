package galton

import "sync/atomic"

const (
	// NumVoltages and NumGates fix the fan-out of one Vector: every
	// consumer of a given wrap event sees the same draw.
	NumVoltages = 3
	NumGates    = 2

	maxLoopLength = 16
)

// A Vector is one master-wrap's worth of randomness, drawn once and
// fanned out to the gate generator and all voltage channels.
type Vector struct {
	PulseWidth float64
	Jitter     float64
	Gates      [NumGates]float64
	Voltages   [NumVoltages]float64
}

// A RandomSource is a seedable, replayable stream of Vectors.  Déjà vu
// replays past draws from a short loop: with repeat probability p, the
// next Vector is taken verbatim from a ring of the last `length` draws
// instead of being generated.  For a fixed seed and fixed déjà-vu
// parameters the stream is bit-identical across runs, which is what
// makes a locked loop audible as a loop.
type RandomSource struct {
	seed    uint64
	counter uint64

	dejaVu knob
	length atomic.Int32

	ring   [maxLoopLength]Vector
	pos    int
	filled int
}

func NewRandomSource(seed uint64) *RandomSource {
	r := &RandomSource{}
	r.length.Store(8)
	r.Seed(seed)
	return r
}

// Seed restarts the stream.  The déjà-vu parameters are left alone.
func (r *RandomSource) Seed(seed uint64) {
	r.seed = seed
	r.counter = 0
	r.ring = [maxLoopLength]Vector{}
	r.pos = 0
	r.filled = 0
}

// SetDejaVu sets the repeat probability, clamped to [0,1].
func (r *RandomSource) SetDejaVu(p float64) { r.dejaVu.setUnit(p) }

func (r *RandomSource) DejaVu() float64 { return r.dejaVu.get() }

// SetLoopLength sets the replay loop length, clamped to [1,16].
func (r *RandomSource) SetLoopLength(n int) {
	if n < 1 {
		n = 1
	}
	if n > maxLoopLength {
		n = maxLoopLength
	}
	r.length.Store(int32(n))
}

func (r *RandomSource) LoopLength() int { return int(r.length.Load()) }

// NextVector returns the next draw.  Call exactly once per wrap event.
func (r *RandomSource) NextVector() Vector {
	n := int(r.length.Load())
	if r.pos >= n {
		r.pos = 0
	}
	if r.filled > n {
		r.filled = n
	}

	if r.nextFloat() < r.dejaVu.get() && r.filled >= n {
		v := r.ring[r.pos]
		r.pos = (r.pos + 1) % n
		return v
	}

	v := Vector{
		PulseWidth: r.nextFloat(),
		Jitter:     r.nextFloat(),
	}
	for i := range v.Gates {
		v.Gates[i] = r.nextFloat()
	}
	for i := range v.Voltages {
		v.Voltages[i] = r.nextFloat()
	}
	r.ring[r.pos] = v
	r.pos = (r.pos + 1) % n
	if r.filled < n {
		r.filled++
	}
	return v
}

func (r *RandomSource) nextFloat() float64 {
	r.counter++
	return float64(splitmix64(r.seed+r.counter*0x9e3779b97f4a7c15)>>11) / (1 << 53)
}

func splitmix64(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}
