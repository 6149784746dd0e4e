package surface

import "math"

// GlyphAspect is the width of a monospace cell relative to its height.
const GlyphAspect = 0.6

// Footprint is the logical pixel pitch of one cell. Inset is the gap left
// empty on the right and bottom of filled cells; FontSize is set for glyph
// cells only.
type Footprint struct {
	CellWidth  float64
	CellHeight float64
	Inset      float64
	FontSize   float64
}

func GlyphFootprint(fontSize float64) Footprint {
	return Footprint{
		CellWidth:  fontSize * GlyphAspect,
		CellHeight: fontSize,
		FontSize:   fontSize,
	}
}

func SquareFootprint(square, gap float64) Footprint {
	return Footprint{
		CellWidth:  square + gap,
		CellHeight: square + gap,
		Inset:      gap,
	}
}

// Dims overrides the derived grid size on any axis set above zero.
type Dims struct {
	Cols, Rows int
}

type Geometry struct {
	Cols, Rows            int
	CellWidth, CellHeight float64
	Inset, FontSize       float64
	DPR                   float64

	DisplayWidth, DisplayHeight float64
	BackingWidth, BackingHeight int
}

// Compute derives grid and backing store dimensions for a box.
func Compute(box Size, fp Footprint, override Dims) Geometry {
	w, h := math.Max(0, box.Width), math.Max(0, box.Height)
	dpr := box.DPR
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		dpr = 1
	}

	g := Geometry{
		Cols:          cells(w, fp.CellWidth),
		Rows:          cells(h, fp.CellHeight),
		CellWidth:     fp.CellWidth,
		CellHeight:    fp.CellHeight,
		Inset:         fp.Inset,
		FontSize:      fp.FontSize,
		DPR:           dpr,
		DisplayWidth:  w,
		DisplayHeight: h,
	}
	if override.Cols > 0 {
		g.Cols = override.Cols
	}
	if override.Rows > 0 {
		g.Rows = override.Rows
	}

	g.BackingWidth = int(math.Ceil(float64(g.Cols) * g.CellWidth * dpr))
	g.BackingHeight = int(math.Ceil(float64(g.Rows) * g.CellHeight * dpr))
	return g
}

func cells(extent, pitch float64) int {
	if pitch <= 0 || extent <= 0 || math.IsNaN(extent) || math.IsInf(extent, 0) {
		return 0
	}
	return int(math.Ceil(extent / pitch))
}

func (g Geometry) Empty() bool { return g.Cols == 0 || g.Rows == 0 }

// SameGrid reports whether both geometries need the same grid allocation.
func (g Geometry) SameGrid(o Geometry) bool {
	return g.Cols == o.Cols && g.Rows == o.Rows
}

// Origin is the logical top-left corner of cell (x, y).
func (g Geometry) Origin(x, y int) (float64, float64) {
	return float64(x) * g.CellWidth, float64(y) * g.CellHeight
}
