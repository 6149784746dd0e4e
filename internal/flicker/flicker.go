// Package flicker implements a memoryless opacity field: every frame each
// cell is independently redrawn with probability Chance*dt.
package flicker

import (
	"math"
	"math/rand"

	"github.com/san-kum/gridfx/internal/grid"
)

const (
	DefaultChance     = 0.3
	DefaultMaxOpacity = 0.3
)

type Params struct {
	// Chance is the per-second probability that a cell is redrawn.
	Chance     float64
	MaxOpacity float64
}

func DefaultParams() Params {
	return Params{Chance: DefaultChance, MaxOpacity: DefaultMaxOpacity}
}

type Field struct {
	params Params
}

func New(p Params) *Field {
	return &Field{params: p}
}

func (f *Field) Params() Params { return f.params }

// Seed gives every cell an independent opacity in [0, MaxOpacity).
func (f *Field) Seed(g *grid.Grid, rng *rand.Rand) {
	cells := g.Cells()
	for i := range cells {
		cells[i] = f.draw(rng)
	}
}

// Step expects dt already clamped by the caller.
func (f *Field) Step(g *grid.Grid, dt float64, rng *rand.Rand) {
	p := f.params.Chance * dt
	if p <= 0 {
		return
	}
	cells := g.Cells()
	for i := range cells {
		if rng.Float64() < p {
			cells[i] = f.draw(rng)
		}
	}
}

// draw returns a value in [0, MaxOpacity). The float32 conversion can round
// up onto the bound, so that case is nudged back below it.
func (f *Field) draw(rng *rand.Rand) float32 {
	bound := float32(f.params.MaxOpacity)
	v := float32(rng.Float64() * f.params.MaxOpacity)
	if v >= bound && bound > 0 {
		v = math.Nextafter32(bound, 0)
	}
	return v
}
