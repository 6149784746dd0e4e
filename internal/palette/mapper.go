package palette

import "image/color"

// VisibleHeat is the heat below which an ember cell draws nothing.
const VisibleHeat = 3

// Mark is the drawable form of one cell: a glyph, or a filled rectangle when
// Fill is set.
type Mark struct {
	Glyph rune
	Color color.NRGBA
	Fill  bool
}

// Glyphs maps ember heat to a ramp glyph and gradient color.
type Glyphs struct {
	Accent color.NRGBA
}

func (m Glyphs) Map(heat float32) (Mark, bool) {
	if heat < VisibleHeat {
		return Mark{}, false
	}
	t := float64(heat) / 255
	if t > 1 {
		t = 1
	}
	c := HeatToColor(t, m.Accent)
	if c.A == 0 {
		return Mark{}, false
	}
	return Mark{Glyph: Glyph(t), Color: c}, true
}

// Fills maps an opacity in [0, 1] to the base color at that alpha.
type Fills struct {
	Base color.NRGBA
}

func (m Fills) Map(opacity float32) (Mark, bool) {
	if opacity <= 0 {
		return Mark{}, false
	}
	c := m.Base
	c.A = channel(float64(opacity) * 255)
	return Mark{Color: c, Fill: true}, true
}
