package galton

import "math"

// A LagProcessor turns a stepped target into a continuous trajectory.
// Two techniques are blended by smoothness: a one-pole glide whose rate
// tracks the driving ramp's tempo, and a raised-cosine interpolation
// that lands on the target in exactly one ramp cycle.  The crossfade
// between them is centered on smoothness 0.6 so neither path switches
// in audibly.
type LagProcessor struct {
	y         float64
	prev, cur float64
}

// SetTarget retires the current target and starts the approach to x.
// Call on the ramp wrap that produced x.
func (l *LagProcessor) SetTarget(x float64) {
	l.prev = l.cur
	l.cur = x
}

// Hard jumps the processor to x, e.g. on reset.
func (l *LagProcessor) Hard(x float64) {
	l.y = x
	l.prev = x
	l.cur = x
}

// Tick advances one sample.  rampFreq is the driving ramp's per-sample
// phase increment and rampPhase its current phase, so glide time scales
// with tempo.
func (l *LagProcessor) Tick(rampFreq, rampPhase, smoothness float64) float64 {
	// 84 semitones between instant and fully smoothed.
	f := rampFreq * math.Exp2(-7*smoothness)
	if smoothness < 0.05 {
		f += (0.05 - smoothness) * 4
	}
	k := 2 * math.Pi * f
	if k > 1 {
		k = 1
	}
	l.y += k * (l.cur - l.y)

	ramp := l.prev + raisedCosine(rampPhase)*(l.cur-l.prev)

	w := clamp((smoothness-0.5)/0.2, 0, 1)
	return (1-w)*l.y + w*ramp
}
