package rpn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"

	"github.com/san-kum/buckingham/internal/logging"
	"github.com/san-kum/buckingham/internal/quantity"
	"github.com/san-kum/buckingham/internal/units"
)

// ConvertPrefix introduces a conversion token such as "to:kilometer/hour".
const ConvertPrefix = "to:"

type binaryFunc func(a, b quantity.Quantity) (quantity.Quantity, error)

type unaryFunc func(x quantity.Quantity) (quantity.Quantity, error)

var binaryOps = map[string]binaryFunc{
	"+": func(a, b quantity.Quantity) (quantity.Quantity, error) { return a.Add(b) },
	"-": func(a, b quantity.Quantity) (quantity.Quantity, error) { return a.Sub(b) },
	"*": func(a, b quantity.Quantity) (quantity.Quantity, error) { return a.Mul(b), nil },
	"/": func(a, b quantity.Quantity) (quantity.Quantity, error) { return a.Div(b), nil },
	"^": func(a, b quantity.Quantity) (quantity.Quantity, error) { return a.Pow(b) },
}

var unaryOps = map[string]unaryFunc{
	"sin":  quantity.Sin,
	"cos":  quantity.Cos,
	"exp":  quantity.Exp,
	"log":  quantity.Log,
	"sqrt": func(x quantity.Quantity) (quantity.Quantity, error) { return x.Sqrt(), nil },
	"neg":  func(x quantity.Quantity) (quantity.Quantity, error) { return x.Neg(), nil },
	"pm":   func(x quantity.Quantity) (quantity.Quantity, error) { return quantity.Pm(x.Value()), nil },
}

var stackOps = map[string]func(*Stack) error{
	"dup":  (*Stack).Dup,
	"swap": (*Stack).Swap,
	"drop": (*Stack).Drop,
}

// Operators lists every built-in word, for help output.
func Operators() []string {
	return []string{
		"+", "-", "*", "/", "^",
		"sin", "cos", "exp", "log", "sqrt", "neg", "pm",
		"dup", "swap", "drop",
		ConvertPrefix + "<units>",
	}
}

// Evaluator runs postfix expressions over quantities. Variables shadow
// unit names. A nil Registry means units.Default().
type Evaluator struct {
	Registry *units.Registry
	Vars     map[string]quantity.Quantity
	Log      logr.Logger
}

func (e *Evaluator) registry() *units.Registry {
	if e.Registry == nil {
		return units.Default()
	}
	return e.Registry
}

// Eval evaluates tokens on a fresh stack, which must end up holding exactly
// one value.
func (e *Evaluator) Eval(tokens []string) (quantity.Quantity, error) {
	s := NewStack()
	if err := e.Run(s, tokens); err != nil {
		return quantity.Quantity{}, err
	}
	switch s.Len() {
	case 0:
		return quantity.Quantity{}, ErrStackUnderflow
	case 1:
		return s.Pop()
	}
	return quantity.Quantity{}, fmt.Errorf("%w: %d values left", ErrLeftover, s.Len())
}

// EvalString splits expr on whitespace and evaluates it.
func (e *Evaluator) EvalString(expr string) (quantity.Quantity, error) {
	return e.Eval(strings.Fields(expr))
}

// Run applies tokens to s in order and stops at the first failure. The
// stack keeps whatever was computed before the failing token.
func (e *Evaluator) Run(s *Stack, tokens []string) error {
	for i, tok := range tokens {
		if err := e.Apply(s, tok); err != nil {
			return &TokenError{Pos: i, Token: tok, Err: err}
		}
	}
	return nil
}

// Apply evaluates a single token against s.
func (e *Evaluator) Apply(s *Stack, tok string) error {
	log := e.Log.WithValues("token", tok)

	if op, ok := binaryOps[tok]; ok {
		a, b, err := s.pop2()
		if err != nil {
			return err
		}
		r, err := op(a, b)
		if err != nil {
			s.Push(a)
			s.Push(b)
			return err
		}
		s.Push(r)
		log.V(logging.TRACE).Info("binary", "result", r.String(), "units", r.Units())
		return nil
	}

	if op, ok := unaryOps[tok]; ok {
		x, err := s.Pop()
		if err != nil {
			return err
		}
		r, err := op(x)
		if err != nil {
			s.Push(x)
			return err
		}
		s.Push(r)
		log.V(logging.TRACE).Info("unary", "result", r.String())
		return nil
	}

	if op, ok := stackOps[tok]; ok {
		return op(s)
	}

	if target, ok := strings.CutPrefix(tok, ConvertPrefix); ok {
		x, err := s.Pop()
		if err != nil {
			return err
		}
		r, err := x.ConvertWith(e.registry(), target)
		if err != nil {
			s.Push(x)
			return err
		}
		s.Push(r)
		log.V(logging.TRACE).Info("convert", "to", target, "result", r.String())
		return nil
	}

	if v, ok := e.Vars[tok]; ok {
		s.Push(v)
		return nil
	}

	if looksNumeric(tok) {
		q, err := ParseNumber(tok)
		if err != nil {
			return err
		}
		s.Push(q)
		return nil
	}

	return e.applyUnits(s, tok)
}

// applyUnits multiplies the top of the stack by a unit quantity, or pushes
// the unit quantity itself on an empty stack.
func (e *Evaluator) applyUnits(s *Stack, tok string) error {
	unit, err := quantity.NewWith(e.registry(), 1, 0, tok)
	if err != nil {
		if isIdentifier(tok) && errors.Is(err, units.ErrUnknownUnits) {
			return fmt.Errorf("%w, not a unit either: %w", ErrUnknownVariable, err)
		}
		return fmt.Errorf("%w: %w", ErrUnknownToken, err)
	}
	if s.Len() == 0 {
		s.Push(unit)
		return nil
	}
	x, _ := s.Pop()
	s.Push(x.Mul(unit))
	e.Log.V(logging.TRACE).Info("units", "token", tok, "units", unit.Units())
	return nil
}

func isIdentifier(tok string) bool {
	for _, r := range tok {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_') {
			return false
		}
	}
	return tok != ""
}
