// Package tui hosts an engine on a raw tcell screen. Frames are driven by
// the engine's own event loop rather than a bubbletea program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/scheduler"
	"github.com/san-kum/gridfx/internal/surface"
	"github.com/san-kum/gridfx/internal/surface/term"
)

const statusRows = 1

var (
	background = tcell.NewRGBColor(10, 10, 10)
	baseStyle  = tcell.StyleDefault.Background(background).Foreground(tcell.ColorWhite)
	hintStyle  = baseStyle.Foreground(tcell.NewRGBColor(102, 102, 136)).Italic(true)
)

// Host owns a screen and the engine drawing onto it.
type Host struct {
	screen tcell.Screen
	surf   *term.Surface
	eng    *engine.Engine
	hz     float64

	focused bool
	paused  bool
}

func NewHost(screen tcell.Screen, opts config.Options, hz float64) (*Host, error) {
	h := &Host{
		screen:  screen,
		surf:    term.New(colorful.Color{R: 10.0 / 255, G: 10.0 / 255, B: 10.0 / 255}),
		hz:      hz,
		focused: true,
	}
	eng, err := engine.New(h.surf, opts, engine.WithObserver(engine.ObserverFunc(h.blit)))
	if err != nil {
		return nil, err
	}
	h.eng = eng
	return h, nil
}

func (h *Host) Engine() *engine.Engine { return h.eng }

// Run initialises the screen and blocks until ctx ends or the user quits.
func (h *Host) Run(ctx context.Context) error {
	if err := h.screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer h.screen.Fini()
	h.screen.SetStyle(baseStyle)
	h.screen.EnableFocus()
	h.screen.HideCursor()
	h.screen.Clear()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	clock, stop := scheduler.Ticker(h.hz)
	defer stop()

	resize := make(chan surface.Size)
	visible := make(chan bool, 1)
	visible <- true

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go h.screen.ChannelEvents(events, quit)
	defer close(quit)
	go h.pump(ctx, cancel, events, resize, visible)

	w, ht := h.screen.Size()
	err := h.eng.Run(ctx, h.box(w, ht), scheduler.Events{Clock: clock, Resize: resize, Visible: visible})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// pump translates terminal events into the engine's streams.
func (h *Host) pump(ctx context.Context, cancel context.CancelFunc, events <-chan tcell.Event, resize chan<- surface.Size, visible chan<- bool) {
	send := func(v bool) {
		select {
		case visible <- v:
		case <-ctx.Done():
		}
	}
	for {
		var ev tcell.Event
		select {
		case <-ctx.Done():
			return
		case ev = <-events:
		}
		switch ev := ev.(type) {
		case nil:
			cancel()
			return
		case *tcell.EventResize:
			h.screen.Sync()
			select {
			case resize <- h.box(ev.Size()):
			case <-ctx.Done():
			}
		case *tcell.EventFocus:
			h.focused = ev.Focused
			send(h.focused && !h.paused)
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				cancel()
				return
			case ev.Rune() == ' ':
				h.paused = !h.paused
				send(h.focused && !h.paused)
			}
		}
	}
}

// box reports the canvas as logical pixels so one grid cell maps onto one
// terminal cell.
func (h *Host) box(w, ht int) surface.Size {
	opts := h.eng.Options()
	fp := h.eng.Variant().Footprint(&opts)
	rows := max(0, ht-statusRows)
	return surface.Size{Width: float64(w) * fp.CellWidth, Height: float64(rows) * fp.CellHeight, DPR: 1}
}

// blit copies the drawn frame onto the screen. It runs on the engine's
// goroutine after every step.
func (h *Host) blit(f engine.Frame) {
	w, ht := h.screen.Size()
	rows := max(0, ht-statusRows)
	sc, sr := h.surf.Size()
	for y := 0; y < rows; y++ {
		for x := 0; x < w; x++ {
			if x >= sc || y >= sr {
				h.screen.SetContent(x, y, ' ', nil, baseStyle)
				continue
			}
			cell := h.surf.At(x, y)
			if !cell.Set {
				h.screen.SetContent(x, y, ' ', nil, baseStyle)
				continue
			}
			r, g, b := cell.Color.RGB255()
			h.screen.SetContent(x, y, cell.Rune, nil, baseStyle.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b))))
		}
	}
	h.status(w, rows, f)
	h.screen.Show()
}

func (h *Host) status(w, y int, f engine.Frame) {
	opts := h.eng.Options()
	name, value := opts.Primary()
	line := fmt.Sprintf(" %s  frame %d  %s %.2f  step %s  q quit  space pause",
		opts.Variant, f.Index, name, value, f.Cost.Round(time.Microsecond))
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		h.screen.SetContent(x, y, r, nil, hintStyle)
		x++
	}
	for ; x < w; x++ {
		h.screen.SetContent(x, y, ' ', nil, baseStyle)
	}
}

// Run hosts opts on the process terminal.
func Run(ctx context.Context, opts config.Options, hz float64) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	h, err := NewHost(screen, opts, hz)
	if err != nil {
		return err
	}
	return h.Run(ctx)
}
