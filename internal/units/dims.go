package units

import (
	"strings"

	"github.com/san-kum/buckingham/internal/rational"
)

// Base dimension indices.
const (
	Length = iota
	Time
	Mass
	Current
	Temperature
	Currency
	NumDims
)

// baseNames are the canonical units every quantity is stored in.
var baseNames = [NumDims]string{"meter", "second", "gram", "ampere", "kelvin", "currency"}

// Dims is a vector of rational exponents over the six base dimensions.
type Dims [NumDims]rational.Rational

// DimsOf builds an integer dimension vector.
func DimsOf(l, t, m, a, k, d int) Dims {
	return Dims{
		rational.FromInt(int64(l)),
		rational.FromInt(int64(t)),
		rational.FromInt(int64(m)),
		rational.FromInt(int64(a)),
		rational.FromInt(int64(k)),
		rational.FromInt(int64(d)),
	}
}

func fromInts(v [NumDims]int) Dims {
	return DimsOf(v[0], v[1], v[2], v[3], v[4], v[5])
}

func (d Dims) Add(o Dims) Dims {
	var r Dims
	for i := range d {
		r[i] = d[i].Add(o[i])
	}
	return r
}

func (d Dims) Sub(o Dims) Dims {
	var r Dims
	for i := range d {
		r[i] = d[i].Sub(o[i])
	}
	return r
}

func (d Dims) Scale(f rational.Rational) Dims {
	var r Dims
	for i := range d {
		r[i] = d[i].Mul(f)
	}
	return r
}

// Equal compares exponents exactly.
func (d Dims) Equal(o Dims) bool {
	for i := range d {
		if !d[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// IsZero reports whether the sum of squared exponents is zero.
func (d Dims) IsZero() bool {
	sum := rational.Zero
	for _, x := range d {
		sum = sum.Add(x.Mul(x))
	}
	return sum.IsZero()
}

// String renders the vector over meter, second, gram, ampere, kelvin and
// currency, e.g. "meter*second^-1". A zero vector renders as "none".
func (d Dims) String() string {
	parts := make([]string, 0, NumDims)
	for i, x := range d {
		switch {
		case x.IsZero():
			continue
		case x == rational.One:
			parts = append(parts, baseNames[i])
		default:
			parts = append(parts, baseNames[i]+"^"+x.String())
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "*")
}
