package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/buckingham/internal/config"
	"github.com/san-kum/buckingham/internal/montecarlo"
	"github.com/san-kum/buckingham/internal/quantity"
	"github.com/san-kum/buckingham/internal/rpn"
	"github.com/san-kum/buckingham/internal/tui"
	"github.com/san-kum/buckingham/internal/viz"
)

// expression gathers the tokens and variables for eval, sweep and mc: the
// preset first, then the config variables, then --var/--set assignments.
func expression(args []string) ([]string, map[string]quantity.Quantity, error) {
	var p *config.Preset
	if presetName != "" {
		p = current.cfg.Preset(presetName)
		if p == nil {
			return nil, nil, fmt.Errorf("unknown preset: %s (available: %v)", presetName, current.cfg.PresetNames())
		}
	}

	vars, err := current.cfg.Scope(current.reg, p)
	if err != nil {
		return nil, nil, err
	}
	for _, a := range assigns {
		name, text, ok := strings.Cut(a, "=")
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q is not name=value", config.ErrInvalidVariable, a)
		}
		q, err := config.ParseVariable(current.reg, strings.TrimSpace(name), text)
		if err != nil {
			return nil, nil, err
		}
		vars[strings.TrimSpace(name)] = q
	}

	var tokens []string
	if p != nil {
		tokens = append(tokens, p.Tokens()...)
	}
	for _, arg := range args {
		tokens = append(tokens, strings.Fields(arg)...)
	}
	if len(tokens) == 0 {
		return nil, nil, fmt.Errorf("%w: empty expression", rpn.ErrStackUnderflow)
	}
	return tokens, vars, nil
}

func evaluator(vars map[string]quantity.Quantity) *rpn.Evaluator {
	return &rpn.Evaluator{Registry: current.reg, Vars: vars, Log: current.log}
}

func outputStyle() quantity.Style {
	if latex {
		return quantity.Latex
	}
	return current.cfg.Style()
}

func runEval(cmd *cobra.Command, args []string) error {
	tokens, vars, err := expression(args)
	if err != nil {
		return err
	}
	if target != "" {
		tokens = append(tokens, rpn.ConvertPrefix+target)
	}

	q, err := evaluator(vars).Eval(tokens)
	if err != nil {
		return err
	}
	current.log.V(1).Info("evaluated", "tokens", tokens, "value", q.Value(), "error", q.Uncertainty())

	fmt.Fprintln(cmd.OutOrStdout(), current.styles.Quantity(q, outputStyle(), current.cfg.Decimals))
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	value, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("%w: %q", rpn.ErrBadNumber, args[0])
	}
	q, err := quantity.NewWith(current.reg, value, convError, args[1])
	if err != nil {
		return err
	}
	out, err := q.ConvertWith(current.reg, args[2])
	if err != nil {
		return err
	}

	s := current.styles
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s = %s %s\n",
		s.Value.Render(quantity.FromDims(value, convError, out.Dims()).AsString(current.cfg.Decimals)), s.Units.Render(args[1]),
		s.Value.Render(out.AsString(current.cfg.Decimals)), s.Units.Render(args[2]))
	return nil
}

func runUnits(cmd *cobra.Command, args []string) error {
	substr := ""
	if len(args) == 1 {
		substr = args[0]
	}
	entries := current.reg.Entries(substr, withPrefixed)
	if len(entries) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no units match %q\n", substr)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), current.styles.UnitsTable(entries))
	fmt.Fprintln(cmd.OutOrStdout(), current.styles.Muted.Render(fmt.Sprintf("%d of %d units", len(entries), current.reg.Len())))
	return nil
}

func runPresets(cmd *cobra.Command, args []string) error {
	s := current.styles
	for _, name := range current.cfg.PresetNames() {
		p := current.cfg.Preset(name)
		line := fmt.Sprintf("  %s  %s", s.Value.Render(fmt.Sprintf("%-12s", name)), p.Description)
		fmt.Fprintln(cmd.OutOrStdout(), line)
		fmt.Fprintln(cmd.OutOrStdout(), s.Muted.Render("      "+strings.Join(p.Tokens(), " ")))
		if len(p.Variables) > 0 {
			names := make([]string, 0, len(p.Variables))
			for v := range p.Variables {
				names = append(names, v)
			}
			sort.Strings(names)
			for _, v := range names {
				fmt.Fprintln(cmd.OutOrStdout(), s.Muted.Render(fmt.Sprintf("      %s = %s", v, p.Variables[v])))
			}
		}
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	tokens, vars, err := expression(args)
	if err != nil {
		return err
	}

	n := points
	if n == 0 {
		n = current.cfg.Sweep.Points
	}
	series, err := viz.Sweep(evaluator(vars), tokens, viz.Range{
		Name:  sweepVar,
		From:  sweepFrom,
		To:    sweepTo,
		Error: sweepError,
		Units: sweepUnits,
	}, n)
	if err != nil {
		return err
	}

	h, w := height, width
	if h == 0 {
		h = current.cfg.Sweep.Height
	}
	if w == 0 {
		w = current.cfg.Sweep.Width
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.PlotSweep(series, h, w))
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	tokens, vars, err := expression(args)
	if err != nil {
		return err
	}

	mc := current.cfg.MonteCarlo
	if samples > 0 {
		mc.Samples = samples
	}
	if cmd.Flags().Changed("seed") {
		mc.Seed = seed
	}
	if workers > 0 {
		mc.Workers = workers
	}

	res, err := montecarlo.Run(cmd.Context(), montecarlo.Config{
		Tokens:   tokens,
		Vars:     vars,
		Registry: current.reg,
		To:       target,
		Samples:  mc.Samples,
		Seed:     mc.Seed,
		Workers:  mc.Workers,
		Log:      current.log,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), current.styles.MonteCarloTable(res, current.cfg.Decimals))
	return nil
}

func runREPL(cmd *cobra.Command, args []string) error {
	var presets []tui.Preset
	for _, name := range current.cfg.PresetNames() {
		p := current.cfg.Preset(name)
		vars, err := current.cfg.Scope(current.reg, p)
		if err != nil {
			return err
		}
		presets = append(presets, tui.Preset{Name: name, Description: p.Description, Tokens: p.Tokens(), Vars: vars})
	}

	vars, err := current.cfg.Scope(current.reg, nil)
	if err != nil {
		return err
	}
	return tui.RunREPL(tui.Options{
		Evaluator: evaluator(vars),
		Decimals:  current.cfg.Decimals,
		Style:     current.cfg.Style(),
		Theme:     current.styles.Theme,
		Presets:   presets,
	})
}
