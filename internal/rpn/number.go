package rpn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/buckingham/internal/quantity"
	"github.com/san-kum/buckingham/internal/units"
)

// looksNumeric reports whether tok should be read as a number rather than
// a unit expression or word.
func looksNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	if strings.Contains(tok, "±") {
		return true
	}
	c := tok[0]
	if c == '-' || c == '+' {
		if len(tok) == 1 {
			return false
		}
		c = tok[1]
	}
	return c >= '0' && c <= '9' || c == '.'
}

// splitUncertain splits "4±0.5" or "4+-0.5" into its two halves.
func splitUncertain(s string) (string, string, bool) {
	if v, e, ok := strings.Cut(s, "±"); ok {
		return v, e, true
	}
	if i := strings.Index(s, "+-"); i > 0 {
		return s[:i], s[i+2:], true
	}
	return s, "", false
}

// ParseNumber reads a pure number with an optional error, e.g. "2.5",
// "-1e3", "4±0.5" or "4+-0.5".
func ParseNumber(s string) (quantity.Quantity, error) {
	vs, es, hasErr := splitUncertain(s)
	v, err := strconv.ParseFloat(vs, 64)
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("%w: value %q", ErrBadNumber, vs)
	}
	var e float64
	if hasErr {
		e, err = strconv.ParseFloat(es, 64)
		if err != nil {
			return quantity.Quantity{}, fmt.Errorf("%w: error %q", ErrBadNumber, es)
		}
	}
	return quantity.FromDims(v, e, units.Dims{}), nil
}

// ParseVariable reads "value[±error] [units]", e.g. "10±2 meter/second".
// Whitespace inside the unit part is ignored.
func ParseVariable(reg *units.Registry, s string) (quantity.Quantity, error) {
	if reg == nil {
		reg = units.Default()
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return quantity.Quantity{}, fmt.Errorf("%w: empty", ErrBadNumber)
	}
	n, err := ParseNumber(fields[0])
	if err != nil {
		return quantity.Quantity{}, err
	}
	if len(fields) == 1 {
		return n, nil
	}
	return quantity.NewWith(reg, n.Value(), n.Uncertainty(), strings.Join(fields[1:], ""))
}
