package surface

import (
	"fmt"

	"github.com/san-kum/gridfx/internal/grid"
)

// Manager owns a surface, the current geometry and the grid sized to it.
// A manager whose surface failed is disabled for good; every call on it is
// then a no-op.
type Manager struct {
	surface  Surface
	geom     Geometry
	grid     *grid.Grid
	disabled bool
}

func NewManager(s Surface) *Manager {
	return &Manager{
		surface:  s,
		grid:     grid.Allocate(0, 0),
		disabled: s == nil,
	}
}

func (m *Manager) Available() bool    { return !m.disabled }
func (m *Manager) Geometry() Geometry { return m.geom }
func (m *Manager) Grid() *grid.Grid   { return m.grid }

// Resize applies a new box. It reports whether the grid was reallocated;
// the old grid's values are never carried over.
func (m *Manager) Resize(box Size, fp Footprint, override Dims) (bool, error) {
	if m.disabled {
		return false, ErrUnavailable
	}

	geom := Compute(box, fp, override)
	if err := m.surface.Resize(geom.BackingWidth, geom.BackingHeight, geom.DisplayWidth, geom.DisplayHeight); err != nil {
		m.disabled = true
		m.grid = grid.Allocate(0, 0)
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	m.surface.SetScale(geom.DPR)
	if sizer, ok := m.surface.(GlyphSizer); ok && geom.FontSize > 0 {
		sizer.SetGlyphSize(geom.FontSize)
	}
	if target, ok := m.surface.(CellTarget); ok {
		target.SetGeometry(geom)
	}

	realloc := !geom.SameGrid(m.geom) || m.grid.Len() != geom.Cols*geom.Rows
	if realloc {
		m.grid = grid.Allocate(geom.Cols, geom.Rows)
	}
	m.geom = geom
	return realloc, nil
}

// Draw clears the surface and paints every visible cell of the current grid.
func (m *Manager) Draw(mapper Mapper) int {
	if m.disabled {
		return 0
	}
	m.surface.Clear()

	g := m.grid
	cols, rows := min(g.Width(), m.geom.Cols), min(g.Height(), m.geom.Rows)
	cells := g.Cells()
	w, h := m.geom.CellWidth-m.geom.Inset, m.geom.CellHeight-m.geom.Inset

	drawn := 0
	for y := 0; y < rows; y++ {
		row := y * g.Width()
		for x := 0; x < cols; x++ {
			mark, ok := mapper.Map(cells[row+x])
			if !ok {
				continue
			}
			px, py := m.geom.Origin(x, y)
			if mark.Fill {
				m.surface.FillRect(px, py, w, h, mark.Color)
			} else {
				m.surface.DrawGlyph(px, py, mark.Glyph, mark.Color)
			}
			drawn++
		}
	}
	return drawn
}
