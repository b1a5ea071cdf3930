package galton

import "testing"

func TestRatioSimplify(t *testing.T) {
	for _, c := range []struct {
		in, want Ratio
		n        int
	}{
		{Ratio{4, 8}, Ratio{1, 2}, 2},
		{Ratio{8, 4}, Ratio{2, 1}, 2},
		{Ratio{9, 3}, Ratio{3, 1}, 3},
		{Ratio{5, 7}, Ratio{5, 7}, 2},
	} {
		if got := c.in.Simplify(c.n); got != c.want {
			t.Errorf("Ratio(%d,%d).Simplify(%d) = %v, want %v", c.in.P, c.in.Q, c.n, got, c.want)
		}
	}
}

func TestRatioSimplifyConverges(t *testing.T) {
	r := Ratio{64, 48}
	r = r.Simplify(2)
	if r.P%2 == 0 && r.Q%2 == 0 {
		t.Errorf("still divisible by 2: %v", r)
	}
	if r != (Ratio{4, 3}) {
		t.Errorf("got %v, want 4/3", r)
	}
}

func TestRatioReduce(t *testing.T) {
	if got := (Ratio{6, 9}).Reduce(); got != (Ratio{2, 3}) {
		t.Errorf("got %v", got)
	}
	if got := (Ratio{7, 5}).Reduce(); got != (Ratio{7, 5}) {
		t.Errorf("got %v", got)
	}
}

func TestNewRatioInvariant(t *testing.T) {
	if r := NewRatio(3, 0); r.Q <= 0 {
		t.Errorf("Q must stay positive, got %v", r)
	}
	if r := NewRatio(-2, 4); r.P < 0 {
		t.Errorf("P must not be negative, got %v", r)
	}
}

func TestRatioFloat(t *testing.T) {
	if f := (Ratio{3, 4}).Float(); f != 0.75 {
		t.Errorf("got %g", f)
	}
}
