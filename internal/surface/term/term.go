// Package term implements surface.Surface on a grid of terminal cells, one
// terminal cell per engine cell. Translucent marks are blended against the
// terminal background since terminals have no alpha.
package term

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gridfx/internal/surface"
)

// FillRune stands in for a filled rectangle.
const FillRune = '■'

type Cell struct {
	Rune  rune
	Color colorful.Color
	Set   bool
}

type Surface struct {
	geom       surface.Geometry
	cols, rows int
	cells      []Cell
	background colorful.Color
}

func New(background color.Color) *Surface {
	s := &Surface{}
	s.SetBackground(background)
	return s
}

func (s *Surface) SetBackground(c color.Color) {
	bg, ok := colorful.MakeColor(c)
	if !ok {
		bg = colorful.Color{}
	}
	s.background = bg
}

func (s *Surface) Background() colorful.Color { return s.background }

func (s *Surface) Resize(_, _ int, _, _ float64) error { return nil }
func (s *Surface) SetScale(float64)                    {}

func (s *Surface) SetGeometry(g surface.Geometry) {
	s.geom = g
	if g.Cols != s.cols || g.Rows != s.rows {
		s.cols, s.rows = g.Cols, g.Rows
		s.cells = make([]Cell, g.Cols*g.Rows)
	}
}

func (s *Surface) Size() (cols, rows int) { return s.cols, s.rows }

func (s *Surface) Clear() {
	clear(s.cells)
}

func (s *Surface) FillRect(x, y, _, _ float64, c color.NRGBA) {
	s.put(x, y, FillRune, c)
}

func (s *Surface) DrawGlyph(x, y float64, r rune, c color.NRGBA) {
	s.put(x, y, r, c)
}

func (s *Surface) put(x, y float64, r rune, c color.NRGBA) {
	if s.geom.CellWidth <= 0 || s.geom.CellHeight <= 0 {
		return
	}
	col, row := int(math.Floor(x/s.geom.CellWidth)), int(math.Floor(y/s.geom.CellHeight))
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return
	}
	s.cells[row*s.cols+col] = Cell{Rune: r, Color: s.blend(c), Set: true}
}

// At returns the cell at (col, row); cells outside the surface are unset.
func (s *Surface) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= s.cols || row >= s.rows {
		return Cell{}
	}
	return s.cells[row*s.cols+col]
}

func (s *Surface) blend(c color.NRGBA) colorful.Color {
	fg := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	return s.background.BlendRgb(fg, float64(c.A)/255).Clamped()
}
