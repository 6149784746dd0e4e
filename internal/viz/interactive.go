package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/engine"
)

const (
	stateMenu = iota
	statePresets
	stateLive
)

const defaultPreset = "default"

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	idleDescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// model is the launcher: pick a variant, then a preset, then run it live.
type model struct {
	state    int
	cursor   int
	variants []engine.Variant
	presets  []string
	selected engine.Variant
	hostHz   float64
	width    int
	height   int
	live     Model
	err      error
}

func NewInteractiveApp(hostHz float64) *model {
	return &model{
		state:    stateMenu,
		variants: engine.Variants(),
		hostHz:   hostHz,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	n := len(m.variants)
	if m.state == statePresets {
		n = len(m.presets)
	}
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < n-1 {
			m.cursor++
		}
	case "esc":
		if m.state == statePresets {
			m.state, m.cursor = stateMenu, 0
		}
	case "enter", " ":
		if m.state == stateMenu {
			m.selected = m.variants[m.cursor]
			m.presets = append([]string{defaultPreset}, config.ListPresets(m.selected.Name)...)
			m.state, m.cursor = statePresets, 0
			return m, nil
		}
		return m.start(m.presets[m.cursor])
	}
	return m, nil
}

func (m model) start(preset string) (model, tea.Cmd) {
	opts := config.DefaultOptions(m.selected.Name)
	if p := config.GetPreset(m.selected.Name, preset); p != nil {
		opts = p
	}
	live, err := NewModel(*opts, m.hostHz)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state = live, stateLive
	next, _ := m.live.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	m.live = next.(Model)
	return m, m.live.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		items := make([][2]string, len(m.variants))
		for i, v := range m.variants {
			items[i] = [2]string{v.Name, v.Description}
		}
		return m.viewList("GRIDFX", "procedural grid animations", items, "select")
	case statePresets:
		items := make([][2]string, len(m.presets))
		for i, p := range m.presets {
			items[i] = [2]string{p, presetSummary(m.selected.Name, p)}
		}
		return m.viewList(strings.ToUpper(m.selected.Name), m.selected.Description, items, "run")
	case stateLive:
		return m.live.View()
	}
	return ""
}

func (m model) viewList(title, subtitle string, items [][2]string, action string) string {
	var b strings.Builder
	h := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	b.WriteString("\n\n    " + h.Render(title) + "\n    " + Subtle.Render(subtitle) + "\n    " + Subtle.Render("─────────────────────────") + "\n\n")
	for i, item := range items {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", item[0])), descStyle.Render(item[1])))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-12s", item[0])), idleDescStyle.Render(item[1])))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + StatusPaused.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyStyle.Render("j/k") + idleStyle.Render(" navigate  ") + keyStyle.Render("enter") + idleStyle.Render(" "+action+"  "))
	if m.state == statePresets {
		b.WriteString(keyStyle.Render("esc") + idleStyle.Render(" back  "))
	}
	b.WriteString(keyStyle.Render("q") + idleStyle.Render(" quit") + "\n")
	return b.String()
}

func presetSummary(variant, name string) string {
	opts := config.GetPreset(variant, name)
	if opts == nil {
		opts = config.DefaultOptions(variant)
	}
	if variant == config.VariantFlicker {
		return fmt.Sprintf("chance %.2f  opacity %.2f  %s", opts.FlickerChance, opts.MaxOpacity, opts.BaseColor)
	}
	return fmt.Sprintf("cooling %.1f  wind %.1f  %s fps", opts.Cooling, opts.Wind, fpsLabel(opts.TargetFPS))
}

func RunInteractive(hostHz float64) error {
	_, err := tea.NewProgram(NewInteractiveApp(hostHz), tea.WithAltScreen(), tea.WithReportFocus()).Run()
	return err
}
