package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gridfx/internal/surface/term"
)

// RenderCells draws at most cols x rows cells of s, merging runs of equal
// color into one styled segment.
func RenderCells(s *term.Surface, cols, rows int, background lipgloss.Color) string {
	sc, sr := s.Size()
	cols, rows = min(cols, sc), min(rows, sr)
	if cols <= 0 || rows <= 0 {
		return ""
	}

	base := lipgloss.NewStyle().Background(background)
	styles := make(map[colorful.Color]lipgloss.Style)
	styleFor := func(c colorful.Color) lipgloss.Style {
		st, ok := styles[c]
		if !ok {
			st = base.Foreground(lipgloss.Color(c.Hex()))
			styles[c] = st
		}
		return st
	}

	var b strings.Builder
	var run strings.Builder
	for y := 0; y < rows; y++ {
		var runColor colorful.Color
		runSet := false
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runSet {
				b.WriteString(styleFor(runColor).Render(run.String()))
			} else {
				b.WriteString(base.Render(run.String()))
			}
			run.Reset()
		}

		for x := 0; x < cols; x++ {
			cell := s.At(x, y)
			if cell.Set != runSet || (cell.Set && cell.Color != runColor) {
				flush()
				runSet, runColor = cell.Set, cell.Color
			}
			if cell.Set {
				run.WriteRune(cell.Rune)
			} else {
				run.WriteByte(' ')
			}
		}
		flush()
		if y < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
