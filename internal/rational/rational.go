// Package rational provides exact fractions used as dimension exponents.
package rational

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrZeroDenominator = errors.New("rational: zero denominator")
	ErrDivisionByZero  = errors.New("rational: division by zero")
	ErrFormat          = errors.New("rational: invalid format")
)

// Rational is a fraction in lowest terms with a positive denominator.
// The denominator is stored biased by one so the zero value is 0/1; valid
// values can be compared with == as well as Equal.
type Rational struct {
	num int64
	dm1 int64
}

var (
	Zero = Rational{}
	One  = Rational{num: 1}
)

// Try returns num/den reduced, or ErrZeroDenominator.
func Try(num, den int64) (Rational, error) {
	if den == 0 {
		return Rational{}, ErrZeroDenominator
	}
	return reduce(num, den), nil
}

// New is like Try but panics on a zero denominator.
func New(num, den int64) Rational {
	r, err := Try(num, den)
	if err != nil {
		panic(err)
	}
	return r
}

func FromInt(n int64) Rational {
	return Rational{num: n}
}

// Parse reads "n", "n/d" or a decimal string. Decimal parts are truncated
// toward zero, so "2.7" is 2 and "1.5/2.5" is 1/2.
func Parse(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Rational{}, ErrFormat
	}
	parts := strings.SplitN(s, "/", 3)
	if len(parts) > 2 {
		return Rational{}, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	num, err := parseInt(parts[0])
	if err != nil {
		return Rational{}, fmt.Errorf("%w: numerator %q", ErrFormat, parts[0])
	}
	den := int64(1)
	if len(parts) == 2 {
		den, err = parseInt(parts[1])
		if err != nil {
			return Rational{}, fmt.Errorf("%w: denominator %q", ErrFormat, parts[1])
		}
	}
	return Try(num, den)
}

func parseInt(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0, ErrFormat
	}
	return int64(f), nil
}

// FromFloat finds the fraction with denominator at most maxDen closest to f
// using continued fractions. ok is false when that fraction is further than
// 1e-9 from f.
func FromFloat(f float64, maxDen int64) (r Rational, ok bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<40 {
		return Rational{}, false
	}
	if maxDen < 1 {
		maxDen = 1
	}
	sign := int64(1)
	if f < 0 {
		sign, f = -1, -f
	}
	// convergents h/k
	h0, h1 := int64(0), int64(1)
	k0, k1 := int64(1), int64(0)
	x := f
	for {
		a := int64(math.Floor(x))
		h2, k2 := a*h1+h0, a*k1+k0
		if k2 > maxDen {
			break
		}
		h0, h1, k0, k1 = h1, h2, k1, k2
		frac := x - float64(a)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
	}
	if k1 == 0 {
		return Rational{}, false
	}
	r = New(sign*h1, k1)
	return r, math.Abs(r.Float64()-float64(sign)*f) <= 1e-9
}

func gcd(x, y int64) int64 {
	for y != 0 {
		x, y = y, x%y
	}
	return x
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func reduce(num, den int64) Rational {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Rational{}
	}
	g := gcd(abs(num), den)
	return Rational{num: num / g, dm1: den/g - 1}
}

func (r Rational) Num() int64 { return r.num }
func (r Rational) Den() int64 { return r.dm1 + 1 }

func (r Rational) Add(o Rational) Rational {
	return reduce(r.num*o.Den()+o.num*r.Den(), r.Den()*o.Den())
}

func (r Rational) Sub(o Rational) Rational {
	return reduce(r.num*o.Den()-o.num*r.Den(), r.Den()*o.Den())
}

func (r Rational) Mul(o Rational) Rational {
	return reduce(r.num*o.num, r.Den()*o.Den())
}

// Div returns r/o, or ErrDivisionByZero when o is zero.
func (r Rational) Div(o Rational) (Rational, error) {
	if o.num == 0 {
		return Rational{}, ErrDivisionByZero
	}
	return reduce(r.num*o.Den(), r.Den()*o.num), nil
}

func (r Rational) Neg() Rational {
	return Rational{num: -r.num, dm1: r.dm1}
}

func (r Rational) Equal(o Rational) bool {
	return r.num*o.Den() == o.num*r.Den()
}

func (r Rational) IsZero() bool { return r.num == 0 }

func (r Rational) IsInt() bool { return r.dm1 == 0 }

func (r Rational) Sign() int {
	switch {
	case r.num > 0:
		return 1
	case r.num < 0:
		return -1
	}
	return 0
}

func (r Rational) Float64() float64 {
	if r.num == 0 {
		return 0
	}
	return float64(r.num) / float64(r.Den())
}

func (r Rational) String() string {
	if r.dm1 == 0 {
		return strconv.FormatInt(r.num, 10)
	}
	return strconv.FormatInt(r.num, 10) + "/" + strconv.FormatInt(r.Den(), 10)
}
