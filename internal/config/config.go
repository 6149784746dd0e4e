package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	VariantEmber   = "ember"
	VariantFlicker = "flicker"
)

const (
	DefaultFontSize      = 10.0
	DefaultSquareSize    = 4.0
	DefaultGap           = 6.0
	DefaultCooling       = 1.4
	DefaultWind          = 1.0
	DefaultIgnition      = 255.0
	DefaultAccentColor   = "rgb(230, 59, 46)"
	DefaultBaseColor     = "rgb(0, 0, 0)"
	DefaultMaxOpacity    = 0.3
	DefaultFlickerChance = 0.3
	DefaultEmberFPS      = 24.0

	// BackdropOpacity is the whole-surface opacity for an ember layer sitting
	// behind page content.
	BackdropOpacity = 0.12
)

var ErrInvalidOption = errors.New("gridfx: invalid option")

// Options are the tunables of one animated surface. CellSize is the font
// size for glyph variants and the square size for fill variants; TargetFPS
// of zero is uncapped and Cols/Rows of zero are derived from the box.
// Opacity scales the alpha of the whole surface; zero leaves it opaque.
type Options struct {
	Variant       string  `yaml:"variant" json:"variant"`
	CellSize      float64 `yaml:"cell_size" json:"cell_size"`
	Gap           float64 `yaml:"gap" json:"gap"`
	Cooling       float64 `yaml:"cooling" json:"cooling"`
	Wind          float64 `yaml:"wind" json:"wind"`
	Ignition      float64 `yaml:"ignition" json:"ignition"`
	AccentColor   string  `yaml:"accent_color" json:"accent_color"`
	BaseColor     string  `yaml:"base_color" json:"base_color"`
	MaxOpacity    float64 `yaml:"max_opacity" json:"max_opacity"`
	FlickerChance float64 `yaml:"flicker_chance" json:"flicker_chance"`
	TargetFPS     float64 `yaml:"target_fps" json:"target_fps"`
	Opacity       float64 `yaml:"opacity,omitempty" json:"opacity,omitempty"`
	Cols          int     `yaml:"cols" json:"cols"`
	Rows          int     `yaml:"rows" json:"rows"`
	Seed          int64   `yaml:"seed" json:"seed"`
}

func DefaultOptions(variant string) *Options {
	opts := &Options{
		Variant:       variant,
		Cooling:       DefaultCooling,
		Wind:          DefaultWind,
		Ignition:      DefaultIgnition,
		AccentColor:   DefaultAccentColor,
		BaseColor:     DefaultBaseColor,
		MaxOpacity:    DefaultMaxOpacity,
		FlickerChance: DefaultFlickerChance,
	}
	switch variant {
	case VariantFlicker:
		opts.CellSize = DefaultSquareSize
		opts.Gap = DefaultGap
	default:
		opts.Variant = VariantEmber
		opts.CellSize = DefaultFontSize
		opts.TargetFPS = DefaultEmberFPS
	}
	return opts
}

// Load reads a yaml file over the defaults of the variant it names.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var head struct {
		Variant string `yaml:"variant"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	opts := DefaultOptions(head.Variant)
	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// Overlay reads a yaml file over opts. Keys the file omits keep their value.
func Overlay(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, opts)
}

func Save(path string, opts *Options) error {
	data, err := yaml.Marshal(opts)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (o *Options) Validate() error {
	if o.Variant != VariantEmber && o.Variant != VariantFlicker {
		return fmt.Errorf("%w: variant %q", ErrInvalidOption, o.Variant)
	}
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"cell_size", o.CellSize, o.CellSize > 0},
		{"gap", o.Gap, o.Gap >= 0},
		{"cooling", o.Cooling, o.Cooling >= 0},
		{"wind", o.Wind, o.Wind >= 0},
		{"ignition", o.Ignition, o.Ignition >= 0 && o.Ignition <= 255},
		{"max_opacity", o.MaxOpacity, o.MaxOpacity >= 0 && o.MaxOpacity <= 1},
		{"flicker_chance", o.FlickerChance, o.FlickerChance >= 0},
		{"target_fps", o.TargetFPS, o.TargetFPS >= 0},
		{"opacity", o.Opacity, o.Opacity >= 0 && o.Opacity <= 1},
	}
	for _, c := range checks {
		if !c.ok || math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidOption, c.name, c.v)
		}
	}
	if o.Cols < 0 || o.Rows < 0 {
		return fmt.Errorf("%w: cols/rows override %dx%d", ErrInvalidOption, o.Cols, o.Rows)
	}
	return nil
}

// Primary is the tunable adjusted interactively for the variant.
func (o *Options) Primary() (string, float64) {
	if o.Variant == VariantFlicker {
		return "flicker_chance", o.FlickerChance
	}
	return "cooling", o.Cooling
}

// Nudge returns a copy with the primary tunable moved by delta, floored at 0.
func (o Options) Nudge(delta float64) Options {
	if o.Variant == VariantFlicker {
		o.FlickerChance = math.Max(0, o.FlickerChance+delta)
	} else {
		o.Cooling = math.Max(0, o.Cooling+delta)
	}
	return o
}
