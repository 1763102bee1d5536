// Package viz renders quantities for the terminal.
//
//   - [Styles]: lipgloss styles derived from a [Theme], shared with the REPL
//   - [Styles.UnitsTable]: the unit registry as a table
//   - [Sweep] and [PlotSweep]: an expression evaluated over a range of one
//     variable, drawn with its one-sigma band
//   - [Styles.MonteCarloTable]: linear propagation next to sampling
package viz
