package galton

import (
	"math"
	"math/cmplx"

	"github.com/ktye/fft"
)

// A Periodogram measures the magnitude spectrum of a block of control
// samples.  It is an analysis tool, not part of the signal path: the
// tests use it to confirm that the extracted ramp's fundamental
// matches the clock driving it.
type Periodogram struct {
	fft fft.FFT
	env []float64
	buf []complex128
}

// NewPeriodogram panics if size is not a power of two.
func NewPeriodogram(size int) *Periodogram {
	f, err := fft.New(size)
	if err != nil {
		panic("galton.NewPeriodogram: " + err.Error())
	}
	env := make([]float64, size)
	for i := range env {
		env[i] = (1 - math.Cos(2*math.Pi*float64(i)/float64(size))) / 2
	}
	return &Periodogram{fft: f, env: env, buf: make([]complex128, size)}
}

// Magnitudes returns the windowed magnitude spectrum of x below
// Nyquist.  The mean is removed first; a phase ramp is mostly DC.
func (p *Periodogram) Magnitudes(x []float64) []float64 {
	if len(x) != len(p.buf) {
		panic("galton: periodogram size mismatch")
	}
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	for i, v := range x {
		p.buf[i] = complex((v-mean)*p.env[i], 0)
	}
	out := p.fft.Transform(p.buf)
	mags := make([]float64, len(out)/2)
	for i := range mags {
		mags[i] = cmplx.Abs(out[i])
	}
	return mags
}

// DominantBin returns the strongest non-DC bin, i.e. the fundamental
// in cycles per block.
func (p *Periodogram) DominantBin(x []float64) int {
	mags := p.Magnitudes(x)
	best := 1
	for i := 2; i < len(mags); i++ {
		if mags[i] > mags[best] {
			best = i
		}
	}
	return best
}
