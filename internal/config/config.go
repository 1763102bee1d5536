package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/buckingham/internal/quantity"
	"github.com/san-kum/buckingham/internal/rpn"
	"github.com/san-kum/buckingham/internal/units"
)

const (
	DefaultDecimals = quantity.DefaultDecimals
	DefaultFormat   = "plain"
	DefaultSamples  = 10000
	DefaultPoints   = 40
	MaxDecimals     = 15
)

var (
	ErrInvalidVariable = errors.New("config: invalid variable")
	ErrInvalidUnit     = errors.New("config: invalid unit definition")
	ErrInvalidConfig   = errors.New("config: invalid configuration")
)

var varNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

type Config struct {
	Decimals   int                `yaml:"decimals"`
	Format     string             `yaml:"format"`
	Units      map[string]UnitDef `yaml:"units,omitempty"`
	Variables  map[string]string  `yaml:"variables,omitempty"`
	Presets    map[string]*Preset `yaml:"presets,omitempty"`
	MonteCarlo MonteCarloConfig   `yaml:"montecarlo"`
	Sweep      SweepConfig        `yaml:"sweep"`
}

// UnitDef defines a unit as a multiple of an expression over the built-in
// units, e.g. furlong: {value: 201.168, units: meter}.
type UnitDef struct {
	Value float64 `yaml:"value"`
	Units string  `yaml:"units"`
}

type MonteCarloConfig struct {
	Samples int    `yaml:"samples"`
	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"`
}

type SweepConfig struct {
	Points int `yaml:"points"`
	Height int `yaml:"height"`
	Width  int `yaml:"width"`
}

func DefaultConfig() *Config {
	return &Config{
		Decimals: DefaultDecimals,
		Format:   DefaultFormat,
		MonteCarlo: MonteCarloConfig{
			Samples: DefaultSamples,
			Seed:    1,
		},
		Sweep: SweepConfig{
			Points: DefaultPoints,
			Height: 15,
			Width:  60,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Style maps the configured format to a quantity rendering style.
func (c *Config) Style() quantity.Style {
	if c.Format == "latex" {
		return quantity.Latex
	}
	return quantity.Plain
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Decimals < 0 || c.Decimals > MaxDecimals {
		errs = append(errs, fmt.Errorf("%w: decimals %d out of range [0, %d]", ErrInvalidConfig, c.Decimals, MaxDecimals))
	}
	if c.Format != "plain" && c.Format != "latex" {
		errs = append(errs, fmt.Errorf("%w: format %q (want plain or latex)", ErrInvalidConfig, c.Format))
	}
	if c.MonteCarlo.Samples < 0 || c.MonteCarlo.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: negative montecarlo settings", ErrInvalidConfig))
	}
	if c.Sweep.Points < 0 {
		errs = append(errs, fmt.Errorf("%w: negative sweep points", ErrInvalidConfig))
	}

	reg, err := c.Registry()
	if err != nil {
		return errors.Join(append(errs, err)...)
	}
	if _, err := c.Scope(reg, nil); err != nil {
		errs = append(errs, err)
	}
	for name, p := range c.Presets {
		if p == nil || p.Expr == "" {
			errs = append(errs, fmt.Errorf("%w: preset %q has no expression", ErrInvalidConfig, name))
			continue
		}
		if _, err := c.Scope(reg, p); err != nil {
			errs = append(errs, fmt.Errorf("preset %q: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Registry builds the unit registry with the user-defined units added.
// Definitions must resolve against the built-in units to integer
// dimensions.
func (c *Config) Registry() (*units.Registry, error) {
	if len(c.Units) == 0 {
		return units.Default(), nil
	}

	names := make([]string, 0, len(c.Units))
	for name := range c.Units {
		names = append(names, name)
	}
	sort.Strings(names)

	extra := make([]units.Entry, 0, len(names))
	for _, name := range names {
		def := c.Units[name]
		if def.Value == 0 {
			return nil, fmt.Errorf("%w: %q has zero value", ErrInvalidUnit, name)
		}
		res, err := units.Default().Resolve(def.Units)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidUnit, name, err)
		}
		var dims [units.NumDims]int
		for i, d := range res.Dims {
			if !d.IsInt() {
				return nil, fmt.Errorf("%w: %q has fractional dimension %s", ErrInvalidUnit, name, res.Dims)
			}
			dims[i] = int(d.Num())
		}
		extra = append(extra, units.Entry{Name: name, Scale: def.Value * res.Scale, Dims: dims})
	}

	reg, err := units.NewRegistry(extra...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUnit, err)
	}
	return reg, nil
}

// Scope parses the global variables, overlaid with the preset's own
// variables when p is non-nil.
func (c *Config) Scope(reg *units.Registry, p *Preset) (map[string]quantity.Quantity, error) {
	vars := make(map[string]quantity.Quantity, len(c.Variables))
	if err := parseVariables(reg, c.Variables, vars); err != nil {
		return nil, err
	}
	if p != nil {
		if err := parseVariables(reg, p.Variables, vars); err != nil {
			return nil, err
		}
	}
	return vars, nil
}

func parseVariables(reg *units.Registry, in map[string]string, out map[string]quantity.Quantity) error {
	for name, text := range in {
		q, err := ParseVariable(reg, name, text)
		if err != nil {
			return err
		}
		out[name] = q
	}
	return nil
}

// ParseVariable checks the variable name and parses its "value±error units"
// text.
func ParseVariable(reg *units.Registry, name, text string) (quantity.Quantity, error) {
	if !varNameRe.MatchString(name) {
		return quantity.Quantity{}, fmt.Errorf("%w: bad name %q", ErrInvalidVariable, name)
	}
	q, err := rpn.ParseVariable(reg, text)
	if err != nil {
		return quantity.Quantity{}, fmt.Errorf("%w %s=%q: %w", ErrInvalidVariable, name, text, err)
	}
	return q, nil
}
