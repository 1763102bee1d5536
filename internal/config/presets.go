package config

import (
	"sort"
	"strings"

	"github.com/san-kum/buckingham/internal/rpn"
)

// Preset is a named expression with its own variables and an optional
// target unit.
type Preset struct {
	Description string            `yaml:"description"`
	Expr        string            `yaml:"expr"`
	Variables   map[string]string `yaml:"variables,omitempty"`
	To          string            `yaml:"to,omitempty"`
}

// Tokens splits the expression and appends the conversion, if any.
func (p *Preset) Tokens() []string {
	tokens := strings.Fields(p.Expr)
	if p.To != "" {
		tokens = append(tokens, rpn.ConvertPrefix+p.To)
	}
	return tokens
}

var tripVars = map[string]string{
	"a": "10±2 meter/second",
	"b": "5±1 hour",
}

var Presets = map[string]*Preset{
	"speed": {
		Description: "add two speeds in different units",
		Expr:        "10 meter/second 2 yard/minute +",
		To:          "kilometer/hour",
	},
	"energy": {
		Description: "one joule in electron volts",
		Expr:        "1 joule",
		To:          "eV",
	},
	"density": {
		Description: "mass of three liters at 5 g/cm^3",
		Expr:        "1 decimeter^3 2 liter + 5 gram/centimeter^3 *",
		To:          "kilogram",
	},
	"force": {
		Description: "product of two uncertain forces",
		Expr:        "4±2 N 7±3 N *",
	},
	"trip": {
		Description: "distance covered at an uncertain speed",
		Expr:        "a b *",
		Variables:   tripVars,
		To:          "kilometer",
	},
	"lightyears": {
		Description: "the same trip in light years",
		Expr:        "a b *",
		Variables:   tripVars,
		To:          "lightyear",
	},
	"power": {
		Description: "a^4 / (7 b)",
		Expr:        "a 4 ^ 7 b * /",
		Variables:   tripVars,
	},
	"coupon": {
		Description: "a daily coupon paid for a year",
		Expr:        "coupon expiration *",
		Variables: map[string]string{
			"coupon":     "200±1 dollar/day",
			"expiration": "1 year",
		},
		To: "dollar",
	},
	"pendulum": {
		Description: "small-angle period 2π sqrt(L/g)",
		Expr:        "L g / sqrt 6.283185307179586 *",
		Variables: map[string]string{
			"L": "1±0.01 meter",
			"g": "9.81±0.02 meter/second^2",
		},
		To: "second",
	},
}

// GetPreset looks up a built-in preset.
func GetPreset(name string) *Preset {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p
}

// ListPresets returns the built-in preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset looks up name among the configured presets first, then the
// built-in ones.
func (c *Config) Preset(name string) *Preset {
	if p, ok := c.Presets[name]; ok {
		return p
	}
	return GetPreset(name)
}

// PresetNames lists configured and built-in presets together, sorted.
func (c *Config) PresetNames() []string {
	seen := make(map[string]bool, len(Presets)+len(c.Presets))
	for name := range Presets {
		seen[name] = true
	}
	for name := range c.Presets {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
