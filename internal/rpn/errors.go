package rpn

import (
	"errors"
	"fmt"
)

var (
	ErrStackUnderflow  = errors.New("rpn: not enough values on the stack")
	ErrUnknownToken    = errors.New("rpn: unknown token")
	ErrUnknownVariable = errors.New("rpn: unknown variable")
	ErrBadNumber       = errors.New("rpn: invalid number")
	ErrLeftover        = errors.New("rpn: expression must leave exactly one value")
)

// TokenError records which token of an expression failed.
type TokenError struct {
	Pos   int
	Token string
	Err   error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token %d %q: %v", e.Pos+1, e.Token, e.Err)
}

func (e *TokenError) Unwrap() error {
	return e.Err
}
