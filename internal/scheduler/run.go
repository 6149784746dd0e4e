package scheduler

import (
	"context"
	"time"

	"github.com/san-kum/gridfx/internal/surface"
)

// Handler receives the clock and both event streams, always from the
// goroutine running Run.
type Handler interface {
	HandleFrame(now time.Time)
	HandleResize(size surface.Size)
	HandleVisibility(visible bool)
}

// Events are the inbound streams of one mounted instance. A nil channel is
// never selected.
type Events struct {
	Clock   <-chan time.Time
	Resize  <-chan surface.Size
	Visible <-chan bool
}

// Run serialises events onto h until ctx is done or the clock closes. A
// closed resize or visibility stream is dropped without stopping the loop.
func Run(ctx context.Context, h Handler, ev Events) error {
	resize, visible := ev.Resize, ev.Visible
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now, ok := <-ev.Clock:
			if !ok {
				return nil
			}
			h.HandleFrame(now)
		case size, ok := <-resize:
			if !ok {
				resize = nil
				continue
			}
			h.HandleResize(size)
		case v, ok := <-visible:
			if !ok {
				visible = nil
				continue
			}
			h.HandleVisibility(v)
		}
	}
}

// DefaultClockHz is the host clock rate when none is given.
const DefaultClockHz = 60

// Ticker returns a clock stream ticking at hz and its stop function.
func Ticker(hz float64) (<-chan time.Time, func()) {
	if hz <= 0 {
		hz = DefaultClockHz
	}
	t := time.NewTicker(IntervalForFPS(hz))
	return t.C, t.Stop
}
