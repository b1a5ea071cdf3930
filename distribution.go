package galton

import "math"

// Distribution shaping maps a uniform draw u in [0,1) onto a bell-shaped
// value clamped to [0,1].  The warp is the logistic quantile function,
// which is cheap, monotonic in u, and close enough to a beta curve for
// musical purposes: center positions the hump, width opens it up from a
// spike to nearly flat.

const logitEpsilon = 1e-6

func logit(u float64) float64 {
	u = clamp(u, logitEpsilon, 1-logitEpsilon)
	return math.Log(u / (1 - u))
}

// ShapeDistribution draws from the shaped distribution.  width = 0
// degenerates to center exactly; width = 1 spreads draws across the
// whole range with heavy shoulders.
func ShapeDistribution(u, center, width float64) float64 {
	return clamp(center+0.12*width*logit(u), 0, 1)
}

// betaKernel is the fast approximate beta sample used for jitter: a
// fixed-width hump around 0.5, so (betaKernel(u) - 0.5) is a zero-mean
// perturbation with rare large excursions.
func betaKernel(u float64) float64 {
	return clamp(0.5+0.1*logit(u), 0, 1)
}
