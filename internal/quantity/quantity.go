package quantity

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/san-kum/buckingham/internal/rational"
	"github.com/san-kum/buckingham/internal/units"
)

// maxExponentDen bounds the denominator recovered from a float exponent.
const maxExponentDen = 1000

var origins atomic.Uint64

func nextOrigin() uint64 {
	return origins.Add(1)
}

// Quantity is an immutable value with an error and a dimension vector, held
// in canonical base units.
type Quantity struct {
	value  float64
	err    float64
	dims   units.Dims
	origin uint64
}

func newQuantity(value, err float64, dims units.Dims) Quantity {
	return Quantity{value: value, err: err, dims: dims, origin: nextOrigin()}
}

// New builds a quantity from a value and error expressed in the units of
// expr, resolved against the default registry.
func New(value, err float64, expr string) (Quantity, error) {
	return NewWith(units.Default(), value, err, expr)
}

// NewWith is like New but resolves expr against reg.
func NewWith(reg *units.Registry, value, err float64, expr string) (Quantity, error) {
	res, rerr := reg.Resolve(expr)
	if rerr != nil {
		return Quantity{}, rerr
	}
	return newQuantity(value*res.Scale, err*res.Scale, res.Dims), nil
}

// MustNew is like New but panics on error.
func MustNew(value, err float64, expr string) Quantity {
	q, e := New(value, err, expr)
	if e != nil {
		panic(e)
	}
	return q
}

// FromDims builds a quantity already in canonical units.
func FromDims(value, err float64, dims units.Dims) Quantity {
	return newQuantity(value, err, dims)
}

// Scalar builds a pure number without error.
func Scalar(x float64) Quantity {
	return newQuantity(x, 0, units.Dims{})
}

func (q Quantity) Value() float64       { return q.value }
func (q Quantity) Uncertainty() float64 { return q.err }
func (q Quantity) Dims() units.Dims     { return q.dims }

// SameOrigin reports whether q and b are copies of one value, which makes
// their errors fully correlated.
func (q Quantity) SameOrigin(b Quantity) bool {
	return q.origin != 0 && q.origin == b.origin
}

func (q Quantity) IsPure() bool {
	return q.dims.IsZero()
}

// Units renders the dimensions in canonical units, "none" when pure.
func (q Quantity) Units() string {
	return q.dims.String()
}

// Purify drops the dimensions. Unless force is set it fails on a
// dimensioned quantity.
func (q Quantity) Purify(force bool) (Quantity, error) {
	if !force && !q.IsPure() {
		return Quantity{}, fmt.Errorf("%w: %s", ErrNotPure, q.Units())
	}
	return newQuantity(q.value, q.err, units.Dims{}), nil
}

func (q Quantity) Neg() Quantity {
	return newQuantity(-q.value, q.err, q.dims)
}

func (q Quantity) Add(b Quantity) (Quantity, error) {
	if !q.dims.Equal(b.dims) {
		return Quantity{}, mismatch("add", q, b)
	}
	var dc float64
	if q.SameOrigin(b) {
		dc = 2 * q.err
	} else {
		dc = math.Sqrt(q.err*q.err + b.err*b.err)
	}
	return newQuantity(q.value+b.value, dc, q.dims), nil
}

func (q Quantity) Sub(b Quantity) (Quantity, error) {
	if !q.dims.Equal(b.dims) {
		return Quantity{}, mismatch("subtract", q, b)
	}
	var dc float64
	if !q.SameOrigin(b) {
		dc = math.Sqrt(q.err*q.err + b.err*b.err)
	}
	return newQuantity(q.value-b.value, dc, q.dims), nil
}

func (q Quantity) Mul(b Quantity) Quantity {
	a, da := q.value, q.err
	v, dv := b.value, b.err
	var dc float64
	if q.SameOrigin(b) {
		dc = 2 * da * math.Abs(a)
	} else {
		dc = math.Sqrt((da*v)*(da*v) + (dv*a)*(dv*a))
	}
	return newQuantity(a*v, dc, q.dims.Add(b.dims))
}

func (q Quantity) Div(b Quantity) Quantity {
	a, da := q.value, q.err
	v, dv := b.value, b.err
	var dc float64
	if !q.SameOrigin(b) {
		t1 := da / v
		t2 := a * dv / (v * v)
		dc = math.Sqrt(t1*t1 + t2*t2)
	}
	return newQuantity(a/v, dc, q.dims.Sub(b.dims))
}

// Pow raises q to a dimensionless exponent. The dimensions are scaled by
// the exponent as an exact fraction.
func (q Quantity) Pow(b Quantity) (Quantity, error) {
	if !b.IsPure() {
		return Quantity{}, mismatch("pow", q, b)
	}
	a, da := q.value, q.err
	x, dx := b.value, b.err

	dims, err := q.scaledDims(x)
	if err != nil {
		return Quantity{}, err
	}

	c := math.Pow(a, x)

	var t1, t2 float64
	if da != 0 {
		t1 = da * x / a
	}
	if dx != 0 {
		if a <= 0 {
			return Quantity{}, fmt.Errorf("%w: log(%v) in power error", ErrDomain, a)
		}
		t2 = dx * math.Log(a)
	}

	var dc float64
	if q.SameOrigin(b) {
		dc = math.Abs(c) * (math.Abs(t1) + t2)
	} else {
		dc = math.Abs(c) * math.Sqrt(t1*t1+t2*t2)
	}
	return newQuantity(c, dc, dims), nil
}

func (q Quantity) scaledDims(x float64) (units.Dims, error) {
	if q.IsPure() {
		return units.Dims{}, nil
	}
	r, ok := rational.FromFloat(x, maxExponentDen)
	if !ok {
		return units.Dims{}, fmt.Errorf("%w: %s^%v", ErrIrrationalExponent, q.Units(), x)
	}
	return q.dims.Scale(r), nil
}

// PowRat raises q to an exact rational power.
func (q Quantity) PowRat(r rational.Rational) Quantity {
	x := r.Float64()
	c := math.Pow(q.value, x)
	var dc float64
	if q.err != 0 {
		dc = math.Abs(c) * math.Abs(q.err*x/q.value)
	}
	return newQuantity(c, dc, q.dims.Scale(r))
}

func (q Quantity) Sqrt() Quantity {
	return q.PowRat(rational.New(1, 2))
}

// AddScalar adds a plain number taken in q's dimensions.
func (q Quantity) AddScalar(x float64) Quantity {
	r, _ := q.Add(newQuantity(x, 0, q.dims))
	return r
}

// SubScalar subtracts a plain number taken in q's dimensions.
func (q Quantity) SubScalar(x float64) Quantity {
	r, _ := q.Sub(newQuantity(x, 0, q.dims))
	return r
}

// ScalarSub returns x - q with x taken in q's dimensions.
func (q Quantity) ScalarSub(x float64) Quantity {
	r, _ := newQuantity(x, 0, q.dims).Sub(q)
	return r
}

func (q Quantity) MulScalar(x float64) Quantity {
	return q.Mul(Scalar(x))
}

func (q Quantity) DivScalar(x float64) Quantity {
	return q.Div(Scalar(x))
}

// ScalarDiv returns x / q.
func (q Quantity) ScalarDiv(x float64) Quantity {
	return Scalar(x).Div(q)
}

func (q Quantity) PowScalar(x float64) (Quantity, error) {
	return q.Pow(Scalar(x))
}

// Convert expresses q in the units of expr: the result is q divided by a
// unit quantity of expr, so its value reads in those units.
func (q Quantity) Convert(expr string) (Quantity, error) {
	return q.ConvertWith(units.Default(), expr)
}

func (q Quantity) ConvertWith(reg *units.Registry, expr string) (Quantity, error) {
	unit, err := NewWith(reg, 1, 0, expr)
	if err != nil {
		return Quantity{}, err
	}
	if !q.dims.Equal(unit.dims) {
		return Quantity{}, mismatch("convert", q, unit)
	}
	return q.Div(unit), nil
}
