// Package surface turns a container box into grid geometry and owns the
// drawing target the engine renders onto.
package surface

import (
	"errors"
	"image/color"

	"github.com/san-kum/gridfx/internal/palette"
)

// ErrUnavailable reports that no drawing context could be acquired.
var ErrUnavailable = errors.New("surface: drawing context unavailable")

// Surface is a raster target. Coordinates passed to FillRect and DrawGlyph
// are logical pixels; the surface applies the scale set by SetScale.
type Surface interface {
	// Resize replaces the backing store (device pixels) and records the
	// displayed size (logical pixels). The new store is blank.
	Resize(backingWidth, backingHeight int, displayWidth, displayHeight float64) error
	SetScale(dpr float64)
	Clear()
	FillRect(x, y, w, h float64, c color.NRGBA)
	// DrawGlyph draws r with its top edge at y.
	DrawGlyph(x, y float64, r rune, c color.NRGBA)
}

// GlyphSizer is implemented by surfaces that render text and need the
// logical font size.
type GlyphSizer interface {
	SetGlyphSize(px float64)
}

// CellTarget is implemented by surfaces that address whole cells, such as
// terminals; they receive the geometry after every resize.
type CellTarget interface {
	SetGeometry(g Geometry)
}

// Mapper converts one cell value into a mark.
type Mapper interface {
	Map(v float32) (palette.Mark, bool)
}

// Size is a container box in logical pixels plus its device pixel ratio.
type Size struct {
	Width, Height float64
	DPR           float64
}
