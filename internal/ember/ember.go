// Package ember implements the fire propagation rule: the two bottom rows are
// re-ignited every frame and heat rises by averaging the cells below, losing
// a randomised cooling amount per row.
package ember

import (
	"math"
	"math/rand"

	"github.com/san-kum/gridfx/internal/grid"
)

const (
	// MaxHeat is the upper bound of the heat scale.
	MaxHeat = 255.0

	DefaultCooling  = 1.4
	DefaultWind     = 1.0
	DefaultIgnition = MaxHeat

	// fuelChance is the probability that a bottom cell burns at full fuel
	// rather than as a low ember.
	fuelChance = 0.85
)

type Params struct {
	Cooling  float64
	Wind     float64
	Ignition float64
}

func DefaultParams() Params {
	return Params{Cooling: DefaultCooling, Wind: DefaultWind, Ignition: DefaultIgnition}
}

// Propagation is the ember simulation. Every step reads from a snapshot of
// the previous frame, so no cell ever sees a value written in the same step.
type Propagation struct {
	params Params
	prev   []float32
}

func New(p Params) *Propagation {
	return &Propagation{params: p}
}

func (p *Propagation) Params() Params { return p.params }

// Seed starts the grid cold.
func (p *Propagation) Seed(g *grid.Grid, _ *rand.Rand) {
	g.Fill(0)
}

func (p *Propagation) Step(g *grid.Grid, _ float64, rng *rand.Rand) {
	if g.Empty() {
		return
	}
	p.prev = g.Snapshot(p.prev)

	cols, rows := g.Width(), g.Height()
	cells := g.Cells()
	ignition := p.params.Ignition

	base := (rows - 1) * cols
	for x := 0; x < cols; x++ {
		if rng.Float64() < fuelChance {
			cells[base+x] = float32(ignition * (0.7 + rng.Float64()*0.3))
		} else {
			cells[base+x] = float32(ignition * rng.Float64() * 0.3)
		}
	}

	if rows >= 2 {
		second := (rows - 2) * cols
		for x := 0; x < cols; x++ {
			lit := float32(ignition * (0.4 + rng.Float64()*0.4))
			if cur := p.prev[second+x]; cur > lit {
				lit = cur
			}
			cells[second+x] = lit
		}
	}

	for y := 0; y < rows-2; y++ {
		below := (y + 1) * cols
		twoBelow := min(rows-1, y+2) * cols
		for x := 0; x < cols; x++ {
			offset := int(math.Floor((rng.Float64()-0.5)*p.params.Wind*2 + 0.5))
			sx := clampCol(x+offset, cols)

			sum := p.prev[below+sx] +
				p.prev[twoBelow+x] +
				p.prev[below+clampCol(sx-1, cols)] +
				p.prev[below+clampCol(sx+1, cols)]
			avg := float64(sum) / 4

			cooled := avg - p.params.Cooling*(1+rng.Float64()*0.6)
			if cooled < 0 {
				cooled = 0
			}
			cells[y*cols+x] = float32(cooled)
		}
	}
}

func clampCol(x, cols int) int {
	if x < 0 {
		return 0
	}
	if x >= cols {
		return cols - 1
	}
	return x
}
