package viz

import (
	"image/color"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme colors the chrome around the canvas. Translucent cells blend
// against Background.
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
}

var (
	ThemeHearth     = Theme{"hearth", "#e63b2e", "#ff8c1e", "#0a0a0a", "#666666"}
	ThemeRetroGreen = Theme{"retro", "#00ff00", "#00cc00", "#001100", "#005500"}
	ThemePaper      = Theme{"paper", "#222222", "#555555", "#f4f1ea", "#999999"}
	ThemeOcean      = Theme{"ocean", "#0077be", "#00a8cc", "#001a33", "#4488aa"}

	CurrentTheme = ThemeHearth

	Themes = []Theme{ThemeHearth, ThemeRetroGreen, ThemePaper, ThemeOcean}
)

// GetTheme falls back to hearth for unknown names.
func GetTheme(name string) Theme {
	if i := slices.IndexFunc(Themes, func(t Theme) bool { return t.Name == name }); i >= 0 {
		return Themes[i]
	}
	return ThemeHearth
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme cycles CurrentTheme and returns it.
func NextTheme() Theme {
	i := slices.IndexFunc(Themes, func(t Theme) bool { return t.Name == CurrentTheme.Name })
	CurrentTheme = Themes[(i+1)%len(Themes)]
	return CurrentTheme
}

func (t Theme) BackgroundColor() color.Color {
	c, err := colorful.Hex(string(t.Background))
	if err != nil {
		return color.Black
	}
	return c
}
