package units

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/san-kum/buckingham/internal/rational"
)

const (
	namePattern     = `[a-zA-Z]+`
	exponentPattern = `\^(?:-?\d+(?:/\d+)?|\(-?\d+(?:/\d+)?\))`
	factorPattern   = namePattern + `(?:` + exponentPattern + `)?`
)

var (
	exprRe   = regexp.MustCompile(`^` + factorPattern + `(?:[*/]` + factorPattern + `)*$`)
	factorRe = regexp.MustCompile(`^(` + namePattern + `)(?:\^(?:(-?\d+(?:/\d+)?)|\((-?\d+(?:/\d+)?)\)))?`)
)

// Factor is one named unit raised to a power. Inverse marks factors that
// appear after a '/'.
type Factor struct {
	Name    string
	Exp     rational.Rational
	Inverse bool
}

// Resolution is a unit expression reduced to a scale factor into canonical
// base units and a dimension vector.
type Resolution struct {
	Scale float64
	Dims  Dims
}

// Normalize strips all whitespace from a unit expression.
func Normalize(expr string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, expr)
}

// Parse checks expr against the grammar
//
//	expr   := term ('/' term)*
//	term   := factor ('*' factor)*
//	factor := name ('^' exponent)?
//
// and returns its factors in order. Every term after the first '/' is
// inverted as a whole, so "a/b*c" is a/(b*c).
func Parse(expr string) ([]Factor, error) {
	expr = Normalize(expr)
	if !exprRe.MatchString(expr) {
		return nil, &ExprError{Expr: expr, Wrapped: ErrSyntax}
	}

	var factors []Factor
	inverse := false
	pos := 0
	for pos < len(expr) {
		m := factorRe.FindStringSubmatch(expr[pos:])
		if m == nil {
			return nil, &ExprError{Expr: expr, Wrapped: ErrSyntax}
		}
		f := Factor{Name: m[1], Exp: rational.One, Inverse: inverse}
		lit := m[2]
		if lit == "" {
			lit = m[3]
		}
		if lit != "" {
			exp, err := rational.Parse(lit)
			if err != nil {
				return nil, &ExprError{Expr: expr, Name: m[1], Wrapped: ErrSyntax}
			}
			f.Exp = exp
		}
		factors = append(factors, f)

		pos += len(m[0])
		if pos >= len(expr) {
			break
		}
		if expr[pos] == '/' {
			inverse = true
		}
		pos++
	}

	return factors, nil
}

// Resolve reduces a unit expression to its scale and dimensions.
func (r *Registry) Resolve(expr string) (Resolution, error) {
	factors, err := Parse(expr)
	if err != nil {
		return Resolution{}, err
	}
	return r.ResolveFactors(factors, Normalize(expr))
}

// ResolveFactors evaluates an already parsed factor list. expr is only used
// for error messages.
func (r *Registry) ResolveFactors(factors []Factor, expr string) (Resolution, error) {
	scale := 1.0
	var dims Dims
	for _, f := range factors {
		ent, ok := r.Lookup(f.Name)
		if !ok {
			return Resolution{}, &ExprError{Expr: expr, Name: f.Name, Wrapped: ErrUnknownUnits}
		}

		s := math.Pow(ent.Scale, f.Exp.Float64())
		contrib := ent.DimsVector().Scale(f.Exp)
		if f.Inverse {
			scale /= s
			dims = dims.Sub(contrib)
		} else {
			scale *= s
			dims = dims.Add(contrib)
		}
	}
	if scale == 0 {
		scale = 1
	}

	return Resolution{Scale: scale, Dims: dims}, nil
}
