package galton

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelSpreadZeroIsBias(t *testing.T) {
	c := NewVoltageChannel()
	c.SetSpread(0)
	c.SetBias(0.3)

	r := NewRandomSource(2)
	for i := 0; i < 50; i++ {
		c.Wrap(r.nextFloat())
		if c.voltage != 0.3 {
			t.Fatalf("wrap %d: voltage %g, want the bias exactly", i, c.voltage)
		}
	}
}

func TestChannelSpreadOneIsCoinFlip(t *testing.T) {
	c := NewVoltageChannel()
	c.SetSpread(1)
	c.SetBias(0.7)

	r := NewRandomSource(2)
	ones := 0
	const n = 2000
	for i := 0; i < n; i++ {
		c.Wrap(r.nextFloat())
		switch c.voltage {
		case 1:
			ones++
		case 0:
		default:
			t.Fatalf("wrap %d: voltage %g, want 0 or 1", i, c.voltage)
		}
	}
	assert.InDelta(t, 0.7, float64(ones)/n, 0.05, "heads rate should match bias")
}

func TestChannelStepsCrossfadeIsContinuous(t *testing.T) {
	run := func(steps float64) []float64 {
		c := NewVoltageChannel()
		c.SetSteps(steps)
		c.SetSpread(0.5)
		r := NewRandomSource(8)
		out := make([]float64, 0, 400)
		for wrap := 0; wrap < 10; wrap++ {
			c.BeginBlock(40)
			c.Wrap(r.nextFloat())
			for i := 0; i < 40; i++ {
				phase := float64(i) / 40
				out = append(out, c.Tick(1.0/40, phase))
			}
		}
		return out
	}

	below := run(0.499)
	above := run(0.501)
	for i := 40; i < len(below); i++ {
		if d := math.Abs(below[i] - above[i]); d > 0.02 {
			t.Fatalf("sample %d: outputs differ by %g across the steps midpoint", i, d)
		}
	}
}

func TestChannelFullStepsLandsOnScale(t *testing.T) {
	c := NewVoltageChannel()
	c.SetSteps(1)
	c.SetScale(0)

	legal := map[float64]bool{}
	for i := 0; i < len(Scales[0].Degrees)*quantOctaves+1; i++ {
		octave, degree := i/len(Scales[0].Degrees), i%len(Scales[0].Degrees)
		legal[clamp(float64(12*octave+Scales[0].Degrees[degree])/(12*quantOctaves), 0, 1)] = true
	}

	r := NewRandomSource(4)
	for wrap := 0; wrap < 100; wrap++ {
		c.BeginBlock(8)
		c.Wrap(r.nextFloat())
		for i := 0; i < 8; i++ {
			y := c.Tick(0.01, float64(i)/8)
			if !legal[y] {
				t.Fatalf("wrap %d: output %g is not a scale degree", wrap, y)
			}
		}
	}
}

func TestChannelRegisterReacquisition(t *testing.T) {
	c := NewVoltageChannel()
	c.SetSteps(1)
	c.SetRegisterMode(true)
	c.BeginBlock(1)
	c.Tick(0.01, 0)

	before := c.quantized
	c.WriteRegister(0.9)

	// during the reacquisition window wraps must not move the level
	for i := 0; i < reacquisitionSamples; i++ {
		c.Wrap(0)
		if c.quantized != before {
			t.Fatalf("tick %d: level moved to %g during reacquisition", i, c.quantized)
		}
		c.BeginBlock(1)
		c.Tick(0.01, 0)
	}

	c.Wrap(0)
	if c.quantized <= before {
		t.Fatalf("requantized level %g never followed the captured value up from %g",
			c.quantized, before)
	}
}

func TestChannelTransposeShiftsRegister(t *testing.T) {
	snapAt := func(transpose float64) float64 {
		c := NewVoltageChannel()
		c.SetSteps(1)
		c.SetRegisterMode(true)
		c.SetTranspose(transpose)
		c.WriteRegister(0.5)
		for i := 0; i < reacquisitionSamples; i++ {
			c.BeginBlock(1)
			c.Tick(0.01, 0)
		}
		c.Wrap(0)
		return c.quantized
	}

	if lo, hi := snapAt(0), snapAt(4); hi <= lo {
		t.Fatalf("transpose up gave %g, want above %g", hi, lo)
	}
}

func TestChannelReset(t *testing.T) {
	c := NewVoltageChannel()
	r := NewRandomSource(6)
	c.BeginBlock(16)
	for i := 0; i < 16; i++ {
		c.Wrap(r.nextFloat())
		c.Tick(0.01, 0.5)
	}
	c.Reset()
	assert.Equal(t, 0.5, c.voltage)
	c.BeginBlock(1)
	assert.InDelta(t, 0.5, c.Tick(0.01, 0), 1e-9, "reset must recenter the output")
}
