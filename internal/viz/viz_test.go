package viz

import (
	"image/color"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/palette"
	"github.com/san-kum/gridfx/internal/scheduler"
	"github.com/san-kum/gridfx/internal/surface"
	"github.com/san-kum/gridfx/internal/surface/term"
)

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func newModel(t *testing.T, variant string) Model {
	t.Helper()
	opts := config.DefaultOptions(variant)
	opts.Seed = 3
	opts.TargetFPS = 0
	m, err := NewModel(*opts, 60)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestWindowSizeMapsOneCellPerTerminalCell(t *testing.T) {
	m := update(t, newModel(t, config.VariantEmber), tea.WindowSizeMsg{Width: 100, Height: 30})

	geom := m.Engine().Geometry()
	wantCols := 100 - statsWidth - 3
	if geom.Cols < wantCols || geom.Cols > wantCols+1 || geom.Rows != 28 {
		t.Errorf("grid %dx%d, want %dx28", geom.Cols, geom.Rows, wantCols)
	}

	m = update(t, m, key("s"))
	if geom := m.Engine().Geometry(); geom.Cols < 100 {
		t.Errorf("hiding stats should widen the grid, got %d cols", geom.Cols)
	}
}

func TestTicksStepEngine(t *testing.T) {
	m := update(t, newModel(t, config.VariantEmber), tea.WindowSizeMsg{Width: 80, Height: 24})
	start := time.Unix(100, 0)
	for i := range 10 {
		m = update(t, m, TickMsg(start.Add(time.Duration(i)*16*time.Millisecond)))
	}
	if m.Engine().Frames() != 10 {
		t.Fatalf("frames = %d, want 10", m.Engine().Frames())
	}
	view := m.View()
	if !strings.Contains(view, "RUNNING") || !strings.Contains(view, "frames") {
		t.Errorf("view missing status or stats:\n%s", view)
	}
}

func TestVisibilityStreams(t *testing.T) {
	m := update(t, newModel(t, config.VariantFlicker), tea.WindowSizeMsg{Width: 80, Height: 24})
	if m.Engine().State() != scheduler.Running {
		t.Fatalf("state = %v", m.Engine().State())
	}

	m = update(t, m, tea.BlurMsg{})
	if m.Engine().State() != scheduler.Observing {
		t.Errorf("blur: state = %v", m.Engine().State())
	}
	m = update(t, m, tea.FocusMsg{}, key(" "))
	if m.Engine().State() != scheduler.Observing || !strings.Contains(m.View(), "PAUSED") {
		t.Errorf("pause: state = %v", m.Engine().State())
	}
	m = update(t, m, key(" "), key("v"))
	if m.Engine().State() != scheduler.Observing || !strings.Contains(m.View(), "HIDDEN") {
		t.Errorf("hide: state = %v", m.Engine().State())
	}
	m = update(t, m, key("v"))
	if m.Engine().State() != scheduler.Running {
		t.Errorf("shown: state = %v", m.Engine().State())
	}
}

func TestNudgeConfigures(t *testing.T) {
	m := newModel(t, config.VariantEmber)
	m = update(t, m, key("up"), key("up"))
	if got := m.Engine().Options().Cooling; got < 1.59 || got > 1.61 {
		t.Errorf("cooling = %v, want 1.6", got)
	}
	f := update(t, newModel(t, config.VariantFlicker), key("down"))
	if got := f.Engine().Options().FlickerChance; got < 0.24 || got > 0.26 {
		t.Errorf("chance = %v, want 0.25", got)
	}
}

func TestQuitUnmounts(t *testing.T) {
	m := newModel(t, config.VariantEmber)
	next, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).Engine().State() != scheduler.Stopped {
		t.Error("engine should be stopped")
	}
}

func TestThemeCycle(t *testing.T) {
	defer SetTheme(ThemeHearth.Name)
	m := newModel(t, config.VariantEmber)
	update(t, m, key("t"))
	if CurrentTheme.Name != ThemeRetroGreen.Name {
		t.Errorf("theme = %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != ThemeHearth.Name {
		t.Error("unknown theme should fall back")
	}
}

func TestRenderCells(t *testing.T) {
	s := term.New(color.Black)
	mgr := surface.NewManager(s)
	mgr.Resize(surface.Size{Width: 40, Height: 20, DPR: 1}, surface.SquareFootprint(4, 6), surface.Dims{})
	mgr.Grid().Set(1, 0, 0.3)
	mgr.Draw(palette.Fills{Base: color.NRGBA{R: 255, A: 255}})

	out := RenderCells(s, 3, 5, ThemeHearth.Background)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want clamped to 2", len(lines))
	}
	if !strings.Contains(lines[0], string(term.FillRune)) {
		t.Errorf("fill rune missing: %q", lines[0])
	}
	if RenderCells(s, 0, 5, ThemeHearth.Background) != "" {
		t.Error("zero columns should render nothing")
	}
}

func TestStyleHelpers(t *testing.T) {
	if SparklineChart(nil, 4) != "────" {
		t.Error("empty sparkline")
	}
	if GradientText("", ThemeHearth.Primary, ThemeHearth.Secondary) != "" {
		t.Error("empty gradient")
	}
	if !strings.Contains(ProgressBar(2, 5), "█████") {
		t.Error("progress bar should clamp to full")
	}
}

func TestInteractiveLaunch(t *testing.T) {
	app := NewInteractiveApp(60)
	var m tea.Model = *app
	for _, msg := range []tea.Msg{tea.WindowSizeMsg{Width: 80, Height: 24}, key("j"), key("enter"), key("j")} {
		m, _ = m.Update(msg)
	}
	menu := m.(model)
	if menu.state != statePresets || menu.selected.Name != config.VariantFlicker {
		t.Fatalf("state=%d selected=%s", menu.state, menu.selected.Name)
	}
	if !strings.Contains(m.View(), "dense") {
		t.Errorf("presets view:\n%s", m.View())
	}

	m, cmd := m.Update(key("enter"))
	live := m.(model)
	if live.state != stateLive || cmd == nil {
		t.Fatalf("state = %d", live.state)
	}
	if got := live.live.Engine().Options().FlickerChance; got != 0.6 {
		t.Errorf("dense preset not applied, chance = %v", got)
	}
	live.live.Engine().Unmount()
}
