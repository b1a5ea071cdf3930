package galton

// A Scale is an ordered set of semitone degrees within one octave.
// The quantizer spreads it over quantOctaves octaves of the [0,1]
// voltage range.  Adding a scale is just adding a table entry.
type Scale struct {
	Name    string
	Degrees []int
}

var Scales = []Scale{
	{"Major", []int{0, 2, 4, 5, 7, 9, 11}},
	{"Minor", []int{0, 2, 3, 5, 7, 8, 10}},
	{"Pentatonic", []int{0, 2, 4, 7, 9}},
	{"Phrygian", []int{0, 1, 3, 5, 7, 8, 10}},
	{"Whole Tone", []int{0, 2, 4, 6, 8, 10}},
	{"Chromatic", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
	{"Dorian", []int{0, 2, 3, 5, 7, 9, 10}},
	{"Blues", []int{0, 3, 5, 6, 7, 10}},
}

// quantOctaves is how many octaves the unit voltage range spans when
// quantized.
const quantOctaves = 2
