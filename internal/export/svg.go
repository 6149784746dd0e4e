package export

import (
	"fmt"
	"html"
	"image/color"
	"strings"

	"github.com/san-kum/gridfx/internal/grid"
	"github.com/san-kum/gridfx/internal/surface"
)

// GridToSVG draws one frame of g as SVG in logical pixels. Glyph marks
// become text elements and fill marks become rectangles.
func GridToSVG(g *grid.Grid, geom surface.Geometry, mapper surface.Mapper, background string) string {
	if g == nil {
		return ""
	}

	width := geom.DisplayWidth
	height := geom.DisplayHeight

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, width, height, width, height))
	if background != "" {
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>
`, html.EscapeString(background)))
	}
	sb.WriteString(fmt.Sprintf(`<g font-family="Go Mono, Courier New, monospace" font-size="%.1f" dominant-baseline="text-before-edge">
`, geom.FontSize))

	cells := g.Cells()
	w, h := geom.CellWidth-geom.Inset, geom.CellHeight-geom.Inset
	for y := 0; y < min(g.Height(), geom.Rows); y++ {
		for x := 0; x < min(g.Width(), geom.Cols); x++ {
			mark, ok := mapper.Map(cells[g.Index(x, y)])
			if !ok {
				continue
			}
			px, py := geom.Origin(x, y)
			if mark.Fill {
				sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" fill-opacity="%.2f"/>
`, px, py, w, h, hex(mark.Color), alpha(mark.Color)))
				continue
			}
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" fill-opacity="%.2f">%s</text>
`, px, py, hex(mark.Color), alpha(mark.Color), html.EscapeString(string(mark.Glyph))))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG draws values as a polyline scaled to fit width x height.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, html.EscapeString(strokeColor)))

	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func alpha(c color.NRGBA) float64 {
	return float64(c.A) / 255
}
