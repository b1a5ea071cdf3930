package galton

// A Ratio relates slave cycles to master cycles: Q master cycles span P
// slave cycles.  Q is always positive.
type Ratio struct {
	P, Q int
}

func NewRatio(p, q int) Ratio {
	if q <= 0 {
		q = 1
	}
	if p < 0 {
		p = -p
	}
	return Ratio{p, q}
}

// Simplify divides out n for as long as both terms remain divisible.
func (r Ratio) Simplify(n int) Ratio {
	if n < 2 {
		return r
	}
	for r.P%n == 0 && r.Q%n == 0 {
		r.P /= n
		r.Q /= n
	}
	return r
}

// Reduce fully reduces the fraction.
func (r Ratio) Reduce() Ratio {
	d := gcd(r.P, r.Q)
	if d > 1 {
		r.P /= d
		r.Q /= d
	}
	return r
}

func (r Ratio) Float() float64 { return float64(r.P) / float64(r.Q) }

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}
