package quantity

import (
	"fmt"
	"math"

	"github.com/san-kum/buckingham/internal/units"
)

func requirePure(op string, x Quantity) error {
	if !x.IsPure() {
		return &DimensionError{Op: op, Left: x.Units(), Right: "none"}
	}
	return nil
}

func Sin(x Quantity) (Quantity, error) {
	if err := requirePure("sin", x); err != nil {
		return Quantity{}, err
	}
	return newQuantity(math.Sin(x.value), math.Abs(math.Cos(x.value))*x.err, x.dims), nil
}

func Cos(x Quantity) (Quantity, error) {
	if err := requirePure("cos", x); err != nil {
		return Quantity{}, err
	}
	return newQuantity(math.Cos(x.value), math.Abs(math.Sin(x.value))*x.err, x.dims), nil
}

func Exp(x Quantity) (Quantity, error) {
	if err := requirePure("exp", x); err != nil {
		return Quantity{}, err
	}
	c := math.Exp(x.value)
	return newQuantity(c, math.Abs(c)*x.err, x.dims), nil
}

// Log is the natural logarithm.
func Log(x Quantity) (Quantity, error) {
	if err := requirePure("log", x); err != nil {
		return Quantity{}, err
	}
	if x.value <= 0 {
		return Quantity{}, fmt.Errorf("%w: log(%v)", ErrDomain, x.value)
	}
	return newQuantity(math.Log(x.value), math.Abs(x.err/x.value), x.dims), nil
}

// Pm returns the pure quantity 0 ± err, so that Scalar(4).Add(Pm(0.5))
// reads as 4 ± 0.5.
func Pm(err float64) Quantity {
	return newQuantity(0, err, units.Dims{})
}

// AllUnits returns a magnitude-one quantity for every name in the default
// registry.
func AllUnits() map[string]Quantity {
	return AllUnitsWith(units.Default())
}

func AllUnitsWith(reg *units.Registry) map[string]Quantity {
	out := make(map[string]Quantity, reg.Len())
	for _, name := range reg.Names() {
		ent, _ := reg.Lookup(name)
		out[name] = newQuantity(ent.Scale, 0, ent.DimsVector())
	}
	return out
}
