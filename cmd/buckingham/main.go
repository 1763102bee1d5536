package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/san-kum/buckingham/internal/config"
	"github.com/san-kum/buckingham/internal/logging"
	"github.com/san-kum/buckingham/internal/units"
	"github.com/san-kum/buckingham/internal/viz"
)

const envPrefix = "BUCKINGHAM"

var (
	configFile string
	logLevel   string
	decimals   int
	theme      string

	// eval, mc
	presetName string
	assigns    []string
	target     string
	latex      bool

	// convert
	convError float64

	// units
	withPrefixed bool

	// sweep
	sweepVar   string
	sweepFrom  float64
	sweepTo    float64
	sweepUnits string
	sweepError float64
	points     int
	height     int
	width      int

	// mc
	samples int
	seed    uint64
	workers int
)

// env is what every command needs once flags, environment and the config
// file have been merged.
type env struct {
	cfg    *config.Config
	reg    *units.Registry
	log    logr.Logger
	styles viz.Styles
}

var current env

func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "buckingham",
		Short:         "units, dimensions and error propagation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, v)
		},
		RunE: runREPL,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: "+strings.Join(logging.Levels, "|"))
	pf.IntVar(&decimals, "decimals", config.DefaultDecimals, "minimum decimals in results")
	pf.StringVar(&theme, "theme", viz.ThemeLab.Name, "color theme: "+strings.Join(viz.ThemeNames(), "|"))

	bindEnv(v, pf)

	evalCmd := &cobra.Command{
		Use:   "eval [tokens...]",
		Short: "evaluate a postfix expression",
		Example: `  buckingham eval 4±2 N 7±3 N '*'
  buckingham eval --var 'a=10±2 meter/second' --var 'b=5±1 hour' a b '*' --to kilometer
  buckingham eval --preset coupon --latex`,
		RunE: runEval,
	}
	evalCmd.Flags().StringVar(&presetName, "preset", "", "start from a preset expression")
	evalCmd.Flags().StringArrayVar(&assigns, "var", nil, "variable as name=value±error units (repeatable)")
	evalCmd.Flags().StringVar(&target, "to", "", "convert the result to these units")
	evalCmd.Flags().BoolVar(&latex, "latex", false, "print LaTeX")

	convertCmd := &cobra.Command{
		Use:   "convert [value] [from] [to]",
		Short: "convert a value between units",
		Args:  cobra.ExactArgs(3),
		RunE:  runConvert,
	}
	convertCmd.Flags().Float64Var(&convError, "error", 0, "absolute error of value, in the source units")

	unitsCmd := &cobra.Command{
		Use:   "units [substring]",
		Short: "list known units",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runUnits,
	}
	unitsCmd.Flags().BoolVar(&withPrefixed, "prefixed", false, "include SI-prefixed names")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list worked examples",
		Args:  cobra.NoArgs,
		RunE:  runPresets,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [tokens...]",
		Short: "plot an expression over a range of one variable",
		Example: `  buckingham sweep --var L --from 0.1 --to-value 2 --units meter --error 0.01 \
    L 9.81 meter/second^2 / sqrt 6.283185307179586 '*'`,
		RunE: runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepVar, "var", "x", "name of the swept variable")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to-value", 1, "last value")
	sweepCmd.Flags().StringVar(&sweepUnits, "units", "", "units of the swept variable")
	sweepCmd.Flags().Float64Var(&sweepError, "error", 0, "error attached to every point")
	sweepCmd.Flags().IntVar(&points, "points", 0, "number of points (default from config)")
	sweepCmd.Flags().IntVar(&height, "height", 0, "plot height")
	sweepCmd.Flags().IntVar(&width, "width", 0, "plot width")
	sweepCmd.Flags().StringArrayVar(&assigns, "set", nil, "other variables as name=value±error units")
	sweepCmd.Flags().StringVar(&presetName, "preset", "", "start from a preset expression")

	mcCmd := &cobra.Command{
		Use:   "mc [tokens...]",
		Short: "compare linear error propagation with Monte Carlo sampling",
		RunE:  runMonteCarlo,
	}
	mcCmd.Flags().StringVar(&presetName, "preset", "", "start from a preset expression")
	mcCmd.Flags().StringArrayVar(&assigns, "var", nil, "variable as name=value±error units (repeatable)")
	mcCmd.Flags().StringVar(&target, "to", "", "convert the result to these units")
	mcCmd.Flags().IntVar(&samples, "samples", 0, "number of samples (default from config)")
	mcCmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default from config)")
	mcCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (default GOMAXPROCS)")

	replCmd := &cobra.Command{
		Use:   "repl",
		Short: "interactive RPN calculator",
		Args:  cobra.NoArgs,
		RunE:  runREPL,
	}

	rootCmd.AddCommand(evalCmd, convertCmd, unitsCmd, presetsCmd, sweepCmd, mcCmd, replCmd)
	return rootCmd
}

// bindEnv exposes every flag in fs as BUCKINGHAM_<FLAG>, dashes becoming
// underscores.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

// setup layers flags over BUCKINGHAM_* variables over the config file over
// defaults.
func setup(cmd *cobra.Command, v *viper.Viper) error {
	log, err := logging.New(v.GetString("log-level"))
	if err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if path := v.GetString("config"); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		log.V(logging.DEBUG).Info("loaded config", "path", path)
	}
	if v.IsSet("decimals") {
		cfg.Decimals = v.GetInt("decimals")
	}
	if cfg.Decimals < 0 || cfg.Decimals > config.MaxDecimals {
		return fmt.Errorf("%w: decimals %d", config.ErrInvalidConfig, cfg.Decimals)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	log.V(logging.DEBUG).Info("registry ready", "units", reg.Len(), "decimals", cfg.Decimals)

	current = env{
		cfg:    cfg,
		reg:    reg,
		log:    log,
		styles: viz.NewStyles(viz.GetTheme(v.GetString("theme"))),
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if current.log.GetSink() != nil {
			current.log.Error(err, "command failed")
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}
