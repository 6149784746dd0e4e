package engine

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"sort"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/ember"
	"github.com/san-kum/gridfx/internal/flicker"
	"github.com/san-kum/gridfx/internal/grid"
	"github.com/san-kum/gridfx/internal/palette"
	"github.com/san-kum/gridfx/internal/surface"
)

// Simulation is a per-cell update rule over a grid.
type Simulation interface {
	Seed(g *grid.Grid, rng *rand.Rand)
	Step(g *grid.Grid, dt float64, rng *rand.Rand)
}

// Variant pairs a simulation policy with the mapper that draws it.
type Variant struct {
	Name        string
	Description string
	// Lit is the smallest cell value the mapper draws.
	Lit       float32
	Footprint func(o *config.Options) surface.Footprint
	Build     func(o *config.Options, colors *palette.Cache) (Simulation, surface.Mapper)
	// Reseed reports whether an options change invalidates the grid values.
	Reseed func(prev, next *config.Options) bool
}

type Registry struct {
	variants map[string]Variant
}

func NewRegistry() *Registry {
	r := &Registry{variants: make(map[string]Variant)}

	r.Register(Variant{
		Name:        config.VariantEmber,
		Description: "rising ASCII fire, glyphs over a heat gradient",
		Lit:         palette.VisibleHeat,
		Footprint: func(o *config.Options) surface.Footprint {
			return surface.GlyphFootprint(o.CellSize)
		},
		Build: func(o *config.Options, colors *palette.Cache) (Simulation, surface.Mapper) {
			accent := resolve(colors, o.AccentColor, palette.DefaultAccent, "accent_color")
			sim := ember.New(ember.Params{Cooling: o.Cooling, Wind: o.Wind, Ignition: o.Ignition})
			return sim, palette.Glyphs{Accent: accent}
		},
		Reseed: func(prev, next *config.Options) bool {
			return next.Ignition < prev.Ignition
		},
	})
	r.Register(Variant{
		Name:        config.VariantFlicker,
		Description: "flickering square grid in one base color",
		Lit:         0,
		Footprint: func(o *config.Options) surface.Footprint {
			return surface.SquareFootprint(o.CellSize, o.Gap)
		},
		Build: func(o *config.Options, colors *palette.Cache) (Simulation, surface.Mapper) {
			base := resolve(colors, o.BaseColor, palette.Neutral, "base_color")
			sim := flicker.New(flicker.Params{Chance: o.FlickerChance, MaxOpacity: o.MaxOpacity})
			return sim, palette.Fills{Base: base}
		},
		Reseed: func(prev, next *config.Options) bool {
			return next.MaxOpacity < prev.MaxOpacity
		},
	})

	return r
}

func (r *Registry) Register(v Variant) {
	r.variants[v.Name] = v
}

func (r *Registry) Get(name string) (Variant, error) {
	v, ok := r.variants[name]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
	return v, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.variants))
	for name := range r.variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Variants lists the built-in variants.
func Variants() []Variant {
	out := make([]Variant, 0, len(defaultRegistry.variants))
	for _, name := range defaultRegistry.Names() {
		out = append(out, defaultRegistry.variants[name])
	}
	return out
}

func LookupVariant(name string) (Variant, error) {
	return defaultRegistry.Get(name)
}

func resolve(colors *palette.Cache, s string, fallback color.NRGBA, field string) color.NRGBA {
	c, err := colors.Resolve(s)
	if err != nil {
		Logger().Warn("color fallback", slog.String("option", field), slog.String("value", s), slog.Any("err", err))
		return fallback
	}
	return c
}
