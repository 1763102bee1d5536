package rpn

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/buckingham/internal/quantity"
	"github.com/san-kum/buckingham/internal/units"
)

func TestEval(t *testing.T) {
	vars := map[string]quantity.Quantity{
		"a":   quantity.MustNew(10, 2, "meter/second"),
		"b":   quantity.MustNew(5, 1, "hour"),
		"day": quantity.Scalar(7),
	}
	ev := &Evaluator{Vars: vars}

	tests := []struct {
		expr    string
		value   float64
		err     float64
		units   string
		display string
	}{
		{"4±2 N 7±3 N *", 28, math.Sqrt(340), "none", "(2.80 ± 1.84)x10"},
		{"10 meter/second 2 yard/minute + to:kilometer/hour", 36.109728, 0, "none", "(36.109728 ± 0)"},
		{"3±1 meter dup +", 6, 2, "meter", ""},
		{"3±1 meter dup -", 0, 0, "meter", ""},
		{"3±1 meter dup *", 9, 6, "meter^2", ""},
		{"4 0.5 pm +", 4, 0.5, "none", ""},
		{"4+-0.5 meter", 4, 0.5, "meter", ""},
		{"2 3 swap -", 1, 0, "none", ""},
		{"1 2 drop", 1, 0, "none", ""},
		{"meter", 1, 0, "meter", ""},
		{"kilometer", 1000, 0, "meter", ""},
		{"9 meter^2 sqrt", 3, 0, "meter", ""},
		{"2 neg", -2, 0, "none", ""},
		{"2 10 ^", 1024, 0, "none", ""},
		{"a b * to:kilometer", 180, 50.9116882454, "none", "(1.800 ± 0.509)x10^2"},
		{"day", 7, 0, "none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ev.EvalString(tt.expr)
			if err != nil {
				t.Fatalf("EvalString(%q) error: %v", tt.expr, err)
			}
			if math.Abs(got.Value()-tt.value) > 1e-9*math.Max(1, math.Abs(tt.value)) {
				t.Errorf("value = %v, want %v", got.Value(), tt.value)
			}
			if math.Abs(got.Uncertainty()-tt.err) > 1e-9 {
				t.Errorf("error = %v, want %v", got.Uncertainty(), tt.err)
			}
			if got.Units() != tt.units {
				t.Errorf("units = %q, want %q", got.Units(), tt.units)
			}
			if tt.display != "" && got.String() != tt.display {
				t.Errorf("String() = %q, want %q", got.String(), tt.display)
			}
		})
	}
}

func TestEvalTranscendental(t *testing.T) {
	ev := &Evaluator{}
	for name, fn := range map[string]func(float64) float64{
		"sin": math.Sin, "cos": math.Cos, "exp": math.Exp, "log": math.Log,
	} {
		got, err := ev.EvalString("0.5 " + name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got.Value() != fn(0.5) {
			t.Errorf("%s(0.5) = %v, want %v", name, got.Value(), fn(0.5))
		}
	}
}

func TestEvalErrors(t *testing.T) {
	ev := &Evaluator{}

	tests := []struct {
		expr string
		want []error
		pos  int
	}{
		{"+", []error{ErrStackUnderflow}, 0},
		{"1 2 meter +", []error{quantity.ErrIncompatibleDimensions}, 3},
		{"1 meter sin", []error{quantity.ErrIncompatibleDimensions}, 2},
		{"1 meter to:second", []error{quantity.ErrIncompatibleDimensions}, 2},
		{"1 parsec", []error{ErrUnknownVariable, units.ErrUnknownUnits}, 1},
		{"1 meter//second", []error{ErrUnknownToken, units.ErrSyntax}, 1},
		{"4±x", []error{ErrBadNumber}, 0},
		{"1e", []error{ErrBadNumber}, 0},
		{"dup", []error{ErrStackUnderflow}, 0},
		{"0 log", []error{quantity.ErrDomain}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := ev.EvalString(tt.expr)
			if err == nil {
				t.Fatalf("EvalString(%q) succeeded, want error", tt.expr)
			}
			for _, want := range tt.want {
				if !errors.Is(err, want) {
					t.Errorf("error %v does not wrap %v", err, want)
				}
			}
			var te *TokenError
			if !errors.As(err, &te) {
				t.Fatalf("error %v is not a *TokenError", err)
			}
			if te.Pos != tt.pos {
				t.Errorf("Pos = %d, want %d", te.Pos, tt.pos)
			}
		})
	}
}

func TestEvalStackSize(t *testing.T) {
	ev := &Evaluator{}

	if _, err := ev.EvalString(""); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("empty expression: got %v, want ErrStackUnderflow", err)
	}
	if _, err := ev.EvalString("1 2"); !errors.Is(err, ErrLeftover) {
		t.Errorf("two values: got %v, want ErrLeftover", err)
	}
}

func TestRunKeepsStackOnFailure(t *testing.T) {
	ev := &Evaluator{}
	s := NewStack()

	err := ev.Run(s, strings.Fields("1 2 meter +"))
	if !errors.Is(err, quantity.ErrIncompatibleDimensions) {
		t.Fatalf("Run() error = %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("stack has %d values, want 2", s.Len())
	}

	if err := ev.Run(s, []string{"drop"}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	top, _ := s.Peek()
	if top.Value() != 1 || !top.IsPure() {
		t.Errorf("top = %v %s, want 1 none", top, top.Units())
	}
}

func TestStack(t *testing.T) {
	s := NewStack()
	if _, err := s.Pop(); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("Pop on empty stack: %v", err)
	}
	if err := s.Swap(); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("Swap on empty stack: %v", err)
	}

	x := quantity.MustNew(3, 1, "meter")
	s.Push(x)
	if err := s.Dup(); err != nil {
		t.Fatal(err)
	}
	vals := s.Values()
	if len(vals) != 2 || !vals[0].SameOrigin(vals[1]) {
		t.Errorf("Dup should push a copy sharing the origin")
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("Len after Clear = %d", s.Len())
	}
}

func TestParseVariable(t *testing.T) {
	tests := []struct {
		in    string
		value float64
		err   float64
		units string
	}{
		{"10±2 meter/second", 10, 2, "meter*second^-1"},
		{"200+-1 dollar / day", 200.0 / 86400, 1.0 / 86400, "second^-1*currency"},
		{"4", 4, 0, "none"},
		{"-2.5e3 kilometer", -2.5e6, 0, "meter"},
	}

	for _, tt := range tests {
		got, err := ParseVariable(nil, tt.in)
		if err != nil {
			t.Errorf("ParseVariable(%q) error: %v", tt.in, err)
			continue
		}
		if math.Abs(got.Value()-tt.value) > 1e-12*math.Max(1, math.Abs(tt.value)) {
			t.Errorf("ParseVariable(%q) value = %v, want %v", tt.in, got.Value(), tt.value)
		}
		if math.Abs(got.Uncertainty()-tt.err) > 1e-15 {
			t.Errorf("ParseVariable(%q) error = %v, want %v", tt.in, got.Uncertainty(), tt.err)
		}
		if got.Units() != tt.units {
			t.Errorf("ParseVariable(%q) units = %q, want %q", tt.in, got.Units(), tt.units)
		}
	}

	bad := []struct {
		in   string
		want error
	}{
		{"", ErrBadNumber},
		{"x meter", ErrBadNumber},
		{"3±y", ErrBadNumber},
		{"3 parsec", units.ErrUnknownUnits},
	}
	for _, tt := range bad {
		if _, err := ParseVariable(nil, tt.in); !errors.Is(err, tt.want) {
			t.Errorf("ParseVariable(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}
