package galton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShapeDistributionDegenerate(t *testing.T) {
	for _, u := range []float64{0, 0.1, 0.5, 0.9, 0.999} {
		assert.Equal(t, 0.3, ShapeDistribution(u, 0.3, 0), "width 0 must collapse to center")
	}
}

func TestShapeDistributionCentered(t *testing.T) {
	assert.InDelta(t, 0.7, ShapeDistribution(0.5, 0.7, 1), 1e-12, "median draw lands on center")
}

func TestShapeDistributionMonotonicAndBounded(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 1000; i++ {
		u := float64(i) / 1000
		x := ShapeDistribution(u, 0.4, 0.8)
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, 1.0)
		assert.GreaterOrEqual(t, x, prev, "must be monotonic in u")
		prev = x
	}
}

func TestShapeDistributionWidthOpens(t *testing.T) {
	// at a fixed off-median draw, a wider distribution lands further
	// from center
	narrow := ShapeDistribution(0.9, 0.5, 0.2)
	wide := ShapeDistribution(0.9, 0.5, 0.9)
	assert.Greater(t, wide, narrow)
}

func TestBetaKernel(t *testing.T) {
	r := NewRandomSource(11)
	sum := 0.0
	const n = 4096
	for i := 0; i < n; i++ {
		x := betaKernel(r.nextFloat())
		assert.GreaterOrEqual(t, x, 0.0)
		assert.LessOrEqual(t, x, 1.0)
		sum += x
	}
	assert.InDelta(t, 0.5, sum/n, 0.02, "kernel is centered")
}
