package units

import (
	"errors"
	"fmt"
)

// Domain errors for unit resolution.
var (
	// ErrSyntax indicates a unit expression that does not match the grammar.
	ErrSyntax = errors.New("units: invalid unit expression")

	// ErrUnknownUnits indicates a unit name missing from the registry.
	ErrUnknownUnits = errors.New("units: unknown units")

	// ErrDuplicateUnit indicates an extra entry that redefines a registered name.
	ErrDuplicateUnit = errors.New("units: duplicate unit name")

	// ErrInvalidEntry indicates an extra entry with an unusable name or scale.
	ErrInvalidEntry = errors.New("units: invalid unit entry")
)

// ExprError wraps an error with the expression being resolved.
type ExprError struct {
	Expr    string
	Name    string
	Wrapped error
}

func (e *ExprError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%v: %q in %q", e.Wrapped, e.Name, e.Expr)
	}
	return fmt.Sprintf("%v: %q", e.Wrapped, e.Expr)
}

func (e *ExprError) Unwrap() error {
	return e.Wrapped
}
