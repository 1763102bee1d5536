package viz

import (
	"errors"
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/buckingham/internal/quantity"
	"github.com/san-kum/buckingham/internal/rpn"
	"github.com/san-kum/buckingham/internal/units"
)

var ErrSweepPoints = errors.New("viz: a sweep needs at least two points")

// Range describes the variable being swept. From and To, and the error
// attached at every point, are read in Units.
type Range struct {
	Name  string
	From  float64
	To    float64
	Error float64
	Units string
}

// Series holds a sweep's samples: the swept values in the range's units and
// the result's value with its one-sigma band, in canonical units.
type Series struct {
	Var   string
	X     []float64
	Value []float64
	Upper []float64
	Lower []float64
	Units string
}

// Sweep evaluates tokens at evenly spaced values of r, leaving ev's own
// variables untouched.
func Sweep(ev *rpn.Evaluator, tokens []string, r Range, points int) (*Series, error) {
	if points < 2 {
		return nil, ErrSweepPoints
	}
	unitsExpr := r.Units
	if unitsExpr == "" {
		unitsExpr = "none"
	}

	vars := make(map[string]quantity.Quantity, len(ev.Vars)+1)
	for k, v := range ev.Vars {
		vars[k] = v
	}
	reg := ev.Registry
	if reg == nil {
		reg = units.Default()
	}
	local := &rpn.Evaluator{Registry: reg, Vars: vars, Log: ev.Log}

	s := &Series{Var: r.Name}
	step := (r.To - r.From) / float64(points-1)
	for i := range points {
		x := r.From + float64(i)*step
		if i == points-1 {
			x = r.To
		}
		q, err := quantity.NewWith(reg, x, r.Error, unitsExpr)
		if err != nil {
			return nil, err
		}
		vars[r.Name] = q

		y, err := local.Eval(tokens)
		if err != nil {
			return nil, fmt.Errorf("%s = %g: %w", r.Name, x, err)
		}
		if i == 0 {
			s.Units = y.Units()
		}
		e := math.Abs(y.Uncertainty())
		s.X = append(s.X, x)
		s.Value = append(s.Value, y.Value())
		s.Upper = append(s.Upper, y.Value()+e)
		s.Lower = append(s.Lower, y.Value()-e)
	}
	return s, nil
}

// PlotSweep draws the value between its lower and upper bands.
func PlotSweep(s *Series, height, width int) string {
	caption := fmt.Sprintf("%s from %g to %g, result in %s (band: ±1σ)", s.Var, s.X[0], s.X[len(s.X)-1], s.Units)
	return asciigraph.PlotMany(
		[][]float64{s.Lower, s.Value, s.Upper},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Default, asciigraph.Blue),
	)
}
