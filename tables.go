package galton

import "math"

// Lookup tables shared by the lag processor and the gate generator.
// They are filled once at package init; the hot paths only ever index
// and interpolate.

var (
	raisedCosineTable [257]float64
	sigmoidTable      [257]float64
)

func init() {
	for i := range raisedCosineTable {
		t := float64(i) / 256
		raisedCosineTable[i] = (1 - math.Cos(math.Pi*t)) / 2
	}
	for i := range sigmoidTable {
		// logits spanning [-8, 8]
		x := 16*float64(i)/256 - 8
		sigmoidTable[i] = 1 / (1 + math.Exp(-x))
	}
}

func raisedCosine(t float64) float64 {
	return lookup(raisedCosineTable[:], clamp(t, 0, 1))
}

// sigmoid maps a logit in [-8,8] to a probability via table lookup.
func sigmoid(x float64) float64 {
	return lookup(sigmoidTable[:], (clamp(x, -8, 8)+8)/16)
}

func lookup(table []float64, t float64) float64 {
	x := t * float64(len(table)-1)
	i := int(x)
	if i >= len(table)-1 {
		return table[len(table)-1]
	}
	f := x - float64(i)
	return table[i] + f*(table[i+1]-table[i])
}

// drumPatterns are 18 canned 8-step patterns, one byte per channel,
// bit k = fire on step k.  Even-indexed patterns are the straighter
// ones; the generator restricts itself to those when bias leans low.
var drumPatterns = [18][NumGates]uint8{
	{0x01, 0x10}, // four on the floor, backbeat
	{0x11, 0x44},
	{0x55, 0x22}, // alternating eighths
	{0x45, 0x92},
	{0x51, 0x24},
	{0x8d, 0x52},
	{0x15, 0xa2},
	{0x4d, 0xb2},
	{0x57, 0xaa},
	{0x9d, 0x6a},
	{0x5d, 0xb6},
	{0xd7, 0x6d},
	{0x7d, 0xb7},
	{0xdf, 0x7e},
	{0x7f, 0xdb},
	{0xff, 0x76},
	{0xff, 0xff}, // full tilt
	{0xdb, 0xed},
}

// gatePattern pairs a clock ratio per channel with a pattern length in
// master cycles, used by the clusters and divider models.
type gatePattern struct {
	ratios [NumGates]Ratio
	length int
}

// dividerPatterns hold 17 fixed rational divisions, ordered from
// sparse to dense so the divider model can index them directly off the
// bias knob through a hysteresis quantizer.
var dividerPatterns = [17]gatePattern{
	{[NumGates]Ratio{{1, 8}, {1, 8}}, 8},
	{[NumGates]Ratio{{1, 8}, {1, 4}}, 8},
	{[NumGates]Ratio{{1, 4}, {1, 8}}, 8},
	{[NumGates]Ratio{{1, 4}, {1, 4}}, 4},
	{[NumGates]Ratio{{1, 4}, {1, 2}}, 4},
	{[NumGates]Ratio{{1, 3}, {1, 2}}, 6},
	{[NumGates]Ratio{{1, 2}, {1, 3}}, 6},
	{[NumGates]Ratio{{1, 2}, {1, 2}}, 2},
	{[NumGates]Ratio{{1, 1}, {1, 1}}, 1},
	{[NumGates]Ratio{{2, 1}, {1, 1}}, 1},
	{[NumGates]Ratio{{1, 1}, {2, 1}}, 1},
	{[NumGates]Ratio{{2, 1}, {2, 1}}, 1},
	{[NumGates]Ratio{{3, 1}, {2, 1}}, 2},
	{[NumGates]Ratio{{2, 1}, {3, 1}}, 2},
	{[NumGates]Ratio{{3, 1}, {3, 1}}, 1},
	{[NumGates]Ratio{{4, 1}, {2, 1}}, 1},
	{[NumGates]Ratio{{4, 1}, {4, 1}}, 1},
}

// clusterPatterns are the 17 looser groupings the clusters model picks
// from, weighted by how far bias sits from center.
var clusterPatterns = [17]gatePattern{
	{[NumGates]Ratio{{1, 6}, {1, 2}}, 6},
	{[NumGates]Ratio{{1, 5}, {1, 2}}, 10},
	{[NumGates]Ratio{{1, 4}, {1, 3}}, 12},
	{[NumGates]Ratio{{1, 4}, {2, 3}}, 12},
	{[NumGates]Ratio{{1, 3}, {2, 3}}, 3},
	{[NumGates]Ratio{{1, 3}, {1, 1}}, 3},
	{[NumGates]Ratio{{1, 2}, {3, 4}}, 4},
	{[NumGates]Ratio{{1, 2}, {1, 1}}, 2},
	{[NumGates]Ratio{{1, 1}, {1, 1}}, 1},
	{[NumGates]Ratio{{1, 1}, {3, 2}}, 2},
	{[NumGates]Ratio{{1, 1}, {2, 1}}, 1},
	{[NumGates]Ratio{{3, 2}, {2, 1}}, 2},
	{[NumGates]Ratio{{2, 1}, {3, 1}}, 1},
	{[NumGates]Ratio{{3, 1}, {4, 1}}, 1},
	{[NumGates]Ratio{{4, 1}, {3, 1}}, 1},
	{[NumGates]Ratio{{4, 1}, {6, 1}}, 1},
	{[NumGates]Ratio{{6, 1}, {6, 1}}, 1},
}
