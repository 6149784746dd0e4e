package flicker

import (
	"math/rand"
	"testing"

	"github.com/san-kum/gridfx/internal/grid"
)

func TestSeedWithinBounds(t *testing.T) {
	g := grid.Allocate(40, 30)
	f := New(Params{Chance: 0.3, MaxOpacity: 0.3})
	f.Seed(g, rand.New(rand.NewSource(1)))

	distinct := make(map[float32]struct{})
	for i, v := range g.Cells() {
		if v < 0 || v >= 0.3 {
			t.Fatalf("cell %d = %v outside [0, 0.3)", i, v)
		}
		distinct[v] = struct{}{}
	}
	if len(distinct) < 100 {
		t.Errorf("seeded field looks constant: %d distinct values", len(distinct))
	}
}

func TestFullChanceRedrawsEveryCell(t *testing.T) {
	g := grid.Allocate(25, 20)
	g.Fill(-1)

	f := New(Params{Chance: 1.0, MaxOpacity: 0.3})
	f.Step(g, 1.0, rand.New(rand.NewSource(2)))

	for i, v := range g.Cells() {
		if v == -1 {
			t.Fatalf("cell %d kept its previous value", i)
		}
		if v < 0 || v >= 0.3 {
			t.Fatalf("cell %d = %v outside [0, 0.3)", i, v)
		}
	}
}

func TestZeroDeltaKeepsField(t *testing.T) {
	g := grid.Allocate(10, 10)
	f := New(DefaultParams())
	rng := rand.New(rand.NewSource(3))
	f.Seed(g, rng)
	before := g.Clone()

	f.Step(g, 0, rng)

	for i := range g.Cells() {
		if g.Cells()[i] != before.Cells()[i] {
			t.Fatalf("cell %d changed with dt=0", i)
		}
	}
}

func TestRedrawRateTracksChance(t *testing.T) {
	g := grid.Allocate(100, 100)
	g.Fill(-1)
	f := New(Params{Chance: 0.3, MaxOpacity: 0.5})

	f.Step(g, 0.1, rand.New(rand.NewSource(4)))

	changed := 0
	for _, v := range g.Cells() {
		if v != -1 {
			changed++
		}
	}
	// expected 3% of 10000 cells
	if changed < 200 || changed > 400 {
		t.Errorf("changed %d cells, expected about 300", changed)
	}
}

func TestBoundHoldsOverManyFrames(t *testing.T) {
	g := grid.Allocate(30, 30)
	f := New(Params{Chance: 5, MaxOpacity: 0.05})
	rng := rand.New(rand.NewSource(5))
	f.Seed(g, rng)

	for frame := 0; frame < 200; frame++ {
		f.Step(g, 0.1, rng)
		for i, v := range g.Cells() {
			if v < 0 || v >= 0.05 {
				t.Fatalf("frame %d cell %d = %v outside [0, 0.05)", frame, i, v)
			}
		}
	}
}

func TestZeroMaxOpacity(t *testing.T) {
	g := grid.Allocate(3, 3)
	f := New(Params{Chance: 1, MaxOpacity: 0})
	f.Seed(g, rand.New(rand.NewSource(6)))
	for _, v := range g.Cells() {
		if v != 0 {
			t.Errorf("expected 0 with zero max opacity, got %v", v)
		}
	}
}
