package rpn

import (
	"fmt"
	"strings"

	"github.com/san-kum/buckingham/internal/quantity"
)

// Stack holds the operands of a postfix expression. It survives across
// evaluations, which is what the REPL relies on.
type Stack struct {
	values []quantity.Quantity
}

func NewStack() *Stack {
	return &Stack{values: []quantity.Quantity{}}
}

func (s *Stack) Push(q quantity.Quantity) {
	s.values = append(s.values, q)
}

func (s *Stack) Pop() (quantity.Quantity, error) {
	if len(s.values) == 0 {
		return quantity.Quantity{}, ErrStackUnderflow
	}
	q := s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-1]
	return q, nil
}

// pop2 returns the two topmost values, deepest first.
func (s *Stack) pop2() (quantity.Quantity, quantity.Quantity, error) {
	if len(s.values) < 2 {
		return quantity.Quantity{}, quantity.Quantity{}, ErrStackUnderflow
	}
	a, b := s.values[len(s.values)-2], s.values[len(s.values)-1]
	s.values = s.values[:len(s.values)-2]
	return a, b, nil
}

func (s *Stack) Peek() (quantity.Quantity, error) {
	if len(s.values) == 0 {
		return quantity.Quantity{}, ErrStackUnderflow
	}
	return s.values[len(s.values)-1], nil
}

// Dup pushes the top value again. Both copies share an origin, so
// combining them uses the correlated error formulas.
func (s *Stack) Dup() error {
	top, err := s.Peek()
	if err != nil {
		return err
	}
	s.Push(top)
	return nil
}

func (s *Stack) Swap() error {
	n := len(s.values)
	if n < 2 {
		return ErrStackUnderflow
	}
	s.values[n-1], s.values[n-2] = s.values[n-2], s.values[n-1]
	return nil
}

func (s *Stack) Drop() error {
	_, err := s.Pop()
	return err
}

func (s *Stack) Clear() {
	s.values = s.values[:0]
}

func (s *Stack) Len() int {
	return len(s.values)
}

// Values returns a copy of the stack, bottom first.
func (s *Stack) Values() []quantity.Quantity {
	out := make([]quantity.Quantity, len(s.values))
	copy(out, s.values)
	return out
}

func (s *Stack) String() string {
	parts := make([]string, len(s.values))
	for i, q := range s.values {
		parts[i] = fmt.Sprintf("%s %s", q, q.Units())
	}
	return strings.Join(parts, " | ")
}
