package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/metrics"
	"github.com/san-kum/gridfx/internal/surface"
	"github.com/san-kum/gridfx/internal/surface/term"
)

const (
	DefaultHostHz   = 60
	historyCapacity = 600
	statsWidth      = 34
	chromeRows      = 2
)

type TickMsg time.Time

// Model hosts one engine. Terminal focus, the pause key and the hide key
// all feed the engine's visibility stream.
type Model struct {
	eng       *engine.Engine
	surf      *term.Surface
	stats     *metrics.GridStats
	hostHz    float64
	width     int
	height    int
	focused   bool
	paused    bool
	hidden    bool
	showStats bool
}

// NewModel builds and mounts an engine for opts. The grid is sized on the
// first WindowSizeMsg.
func NewModel(opts config.Options, hostHz float64) (Model, error) {
	if hostHz <= 0 {
		hostHz = DefaultHostHz
	}
	v, err := engine.LookupVariant(opts.Variant)
	if err != nil {
		return Model{}, err
	}

	surf := term.New(CurrentTheme.BackgroundColor())
	stats := metrics.NewGridStats(v.Lit, historyCapacity)
	eng, err := engine.New(surf, opts, engine.WithObserver(stats))
	if err != nil {
		return Model{}, err
	}
	if err := eng.Mount(surface.Size{}); err != nil {
		return Model{}, err
	}

	m := Model{
		eng:       eng,
		surf:      surf,
		stats:     stats,
		hostHz:    hostHz,
		focused:   true,
		showStats: true,
	}
	m.syncVisibility()
	return m, nil
}

func (m Model) Engine() *engine.Engine { return m.eng }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(float64(time.Second)/m.hostHz), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update routes terminal events into the engine's event streams.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.eng.Unmount()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			m.syncVisibility()
		case "v":
			m.hidden = !m.hidden
			m.syncVisibility()
		case "t":
			m.surf.SetBackground(NextTheme().BackgroundColor())
		case "s":
			m.showStats = !m.showStats
			m.resize()
		case "up", "k":
			m.nudge(1)
		case "down", "j":
			m.nudge(-1)
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
	case tea.FocusMsg:
		m.focused = true
		m.syncVisibility()
	case tea.BlurMsg:
		m.focused = false
		m.syncVisibility()
	case TickMsg:
		m.eng.HandleFrame(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) syncVisibility() {
	m.eng.HandleVisibility(m.focused && !m.paused && !m.hidden)
}

func (m Model) canvasSize() (cols, rows int) {
	cols, rows = m.width, m.height-chromeRows
	if m.showStats {
		cols -= statsWidth + 3
	}
	return max(0, cols), max(0, rows)
}

// resize reports the canvas area as a box in the engine's logical pixels,
// so one grid cell lands on one terminal cell.
func (m *Model) resize() {
	opts := m.eng.Options()
	fp := m.eng.Variant().Footprint(&opts)
	cols, rows := m.canvasSize()
	m.eng.HandleResize(surface.Size{
		Width:  float64(cols) * fp.CellWidth,
		Height: float64(rows) * fp.CellHeight,
		DPR:    1,
	})
}

func (m *Model) nudge(dir float64) {
	opts := m.eng.Options()
	step := 0.1
	if opts.Variant == config.VariantFlicker {
		step = 0.05
	}
	if err := m.eng.Configure(opts.Nudge(dir * step)); err != nil {
		engine.Logger().Warn("configure rejected", "err", err)
	}
}

func (m Model) status() string {
	switch {
	case m.hidden:
		return StatusPaused.Render("HIDDEN")
	case m.paused:
		return StatusPaused.Render("PAUSED")
	case !m.focused:
		return StatusPaused.Render("UNFOCUSED")
	case !m.eng.Available():
		return StatusPaused.Render("NO SURFACE")
	}
	return StatusRunning.Render("RUNNING")
}

// View renders the canvas, the stats panel and the key hints.
func (m Model) View() string {
	theme := CurrentTheme
	opts := m.eng.Options()

	header := GradientText("GRIDFX", theme.Primary, theme.Secondary) + "  " +
		Subtle.Render(opts.Variant) + "  " + m.status()

	cols, rows := m.canvasSize()
	canvas := ""
	if !m.hidden {
		canvas = RenderCells(m.surf, cols, rows, theme.Background)
	}
	canvas = lipgloss.NewStyle().Width(cols).Height(rows).Render(canvas)

	body := canvas
	if m.showStats {
		body = lipgloss.JoinHorizontal(lipgloss.Top, canvas, panelStyle.Width(statsWidth).Render(m.statsView(opts)))
	}

	hints := KeyHint.Foreground(theme.Muted).Render("q quit  space pause  v hide  t theme  s stats  ↑/↓ " + primaryName(opts))
	return header + "\n" + body + "\n" + hints
}

func (m Model) statsView(opts config.Options) string {
	var s strings.Builder
	geom := m.eng.Geometry()
	last, _ := m.stats.Last()
	name, value := opts.Primary()

	s.WriteString(MetricLabel.Render("frames") + MetricValue.Render(fmt.Sprintf("%d", m.eng.Frames())) + "\n")
	s.WriteString(MetricLabel.Render("grid") + MetricValue.Render(fmt.Sprintf("%dx%d", geom.Cols, geom.Rows)) + "\n")
	s.WriteString(MetricLabel.Render("fps") + MetricValue.Render(fpsLabel(opts.TargetFPS)) + "\n")
	s.WriteString(MetricLabel.Render(shortName(name)) + MetricValue.Render(fmt.Sprintf("%.2f", value)) + "\n")
	s.WriteString(MetricLabel.Render("step") + MetricValue.Render(last.Cost.Round(time.Microsecond).String()) + "\n")
	s.WriteString(Separator(statsWidth-2) + "\n")

	litFrac := 0.0
	if last.Cells > 0 {
		litFrac = float64(last.Lit) / float64(last.Cells)
	}
	s.WriteString(MetricLabel.Render("lit") + ProgressBar(litFrac, statsWidth-14) + "\n")

	samples := m.stats.Samples()
	costs := make([]float64, len(samples))
	for i, sm := range samples {
		costs[i] = float64(sm.Cost.Microseconds())
	}
	s.WriteString(MetricLabel.Render("cost") + SparklineChart(costs, statsWidth-14) + "\n")

	series := m.stats.MeanSeries()
	if len(series) > 1 {
		if len(series) > statsWidth-10 {
			series = series[len(series)-(statsWidth-10):]
		}
		chart := asciigraph.Plot(series, asciigraph.Height(6), asciigraph.Width(statsWidth-10), asciigraph.Caption("mean value"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}
	return s.String()
}

func primaryName(opts config.Options) string {
	name, _ := opts.Primary()
	return shortName(name)
}

func shortName(name string) string {
	return strings.TrimPrefix(name, "flicker_")
}

func fpsLabel(fps float64) string {
	if fps <= 0 {
		return "uncapped"
	}
	return fmt.Sprintf("%.0f", fps)
}

// RunLive runs opts in the alternate screen until the user quits.
func RunLive(opts config.Options, hostHz float64) error {
	m, err := NewModel(opts, hostHz)
	if err != nil {
		return err
	}
	defer m.eng.Unmount()
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus()).Run()
	return err
}
