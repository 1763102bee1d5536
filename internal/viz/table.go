package viz

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/san-kum/buckingham/internal/montecarlo"
	"github.com/san-kum/buckingham/internal/quantity"
	"github.com/san-kum/buckingham/internal/units"
)

func (s Styles) table(headers ...string) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Foreground(s.Theme.Accent).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(s.Theme.Muted)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
}

// UnitsTable lists registry entries with their scale to canonical units
// and their dimensions.
func (s Styles) UnitsTable(entries []units.Entry) string {
	t := s.table("UNIT", "SCALE", "DIMENSIONS", "PREFIX")
	for _, e := range entries {
		t.Row(e.Name, strconv.FormatFloat(e.Scale, 'g', 10, 64), e.DimsVector().String(), e.Prefix)
	}
	return t.Render()
}

// MonteCarloTable compares the linear result with the sampled one.
func (s Styles) MonteCarloTable(res *montecarlo.Result, decimals int) string {
	sampled := quantity.FromDims(res.Mean, res.StdDev, res.Linear.Dims())
	rel := "n/a"
	if d := res.RelDiff(); !math.IsNaN(d) {
		rel = fmt.Sprintf("%.2f%%", 100*d)
	}

	t := s.table("METHOD", "RESULT", "UNITS")
	t.Row("linear", res.Linear.AsString(decimals), res.Units)
	t.Row("monte carlo", sampled.AsString(decimals), res.Units)
	return t.Render() + "\n" + s.Muted.Render(fmt.Sprintf("samples %d, failed %d, spread differs by %s", res.Samples, res.Failed, rel))
}
