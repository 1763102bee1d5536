package quantity

import (
	"errors"
	"fmt"
)

// Domain errors for quantity operations.
var (
	// ErrIncompatibleDimensions indicates operands whose dimension vectors
	// do not allow the operation.
	ErrIncompatibleDimensions = errors.New("quantity: incompatible dimensions")

	// ErrNotPure indicates Purify on a dimensioned quantity without force.
	ErrNotPure = errors.New("quantity: not a pure number, try Purify(true)")

	// ErrIrrationalExponent indicates a power whose exponent has no small
	// rational form, applied to a dimensioned base.
	ErrIrrationalExponent = errors.New("quantity: exponent is not a small rational")

	// ErrDomain indicates a logarithm of a non-positive value.
	ErrDomain = errors.New("quantity: math domain error")
)

// DimensionError describes a dimension mismatch between two operands.
type DimensionError struct {
	Op    string
	Left  string
	Right string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%v: %s of %s and %s", ErrIncompatibleDimensions, e.Op, e.Left, e.Right)
}

func (e *DimensionError) Unwrap() error {
	return ErrIncompatibleDimensions
}

func mismatch(op string, a, b Quantity) error {
	return &DimensionError{Op: op, Left: a.Units(), Right: b.Units()}
}
