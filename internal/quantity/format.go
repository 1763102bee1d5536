package quantity

import (
	"fmt"
	"math"
	"strconv"
)

type Style int

const (
	Plain Style = iota
	Latex
)

// DefaultDecimals is the minimum precision used by String.
const DefaultDecimals = 2

func (q Quantity) String() string {
	return q.AsString(DefaultDecimals)
}

func (q Quantity) AsString(decimals int) string {
	return q.Render(Plain, decimals)
}

func (q Quantity) AsLatex(decimals int) string {
	return q.Render(Latex, decimals)
}

// Render formats value and error with a shared power of ten, e.g.
// "(1.800 ± 0.509)x10^2". The precision keeps two significant digits of
// the error and never drops below decimals.
func (q Quantity) Render(style Style, decimals int) string {
	pm := " ± "
	if style == Latex {
		pm = ` \pm `
	}
	if q.err == 0 {
		return fmt.Sprintf("(%f%s0)", q.value, pm)
	}

	n := decade(math.Abs(q.value))
	m := decade(math.Abs(q.err))
	scale := math.Pow10(n)
	v, e := q.value/scale, q.err/scale

	prec := max(n-m+2, decimals, 0)
	body := strconv.FormatFloat(v, 'f', prec, 64) + pm + strconv.FormatFloat(e, 'f', prec, 64)

	if style == Latex {
		switch {
		case n == 1:
			return "(" + body + `)\times 10`
		case n != 0:
			return "(" + body + `)\times 10^{` + strconv.Itoa(n) + "}"
		}
		return body
	}

	switch {
	case n > 1:
		return "(" + body + ")x10^" + strconv.Itoa(n)
	case n == 1:
		return "(" + body + ")x10"
	case n < -1:
		return "(" + body + ")/10^" + strconv.Itoa(-n)
	case n == -1:
		return "(" + body + ")/10"
	}
	return body
}

// decade returns floor(log10(x)) for x > 0, corrected so exact powers of
// ten land on their own exponent. Zero and non-finite inputs give 0.
func decade(x float64) int {
	if x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	n := int(math.Floor(math.Log10(x)))
	if math.Pow10(n) > x {
		n--
	} else if math.Pow10(n+1) <= x {
		n++
	}
	return n
}
