package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/san-kum/gridfx/internal/surface"
)

var epoch = time.Unix(1000, 0)

type counter struct {
	steps []time.Time
	dts   []float64
	clock *MockTimeProvider
}

func (c *counter) step(dt float64) {
	c.dts = append(c.dts, dt)
	c.steps = append(c.steps, c.clock.Now())
}

func running(t *testing.T, interval time.Duration) (*Scheduler, *counter) {
	t.Helper()
	c := &counter{clock: NewMockTimeProvider(epoch)}
	s := New(c.step, interval)
	s.Mount()
	s.SetVisible(true)
	if s.State() != Running {
		t.Fatalf("state = %v, want running", s.State())
	}
	return s, c
}

func TestThrottle24FPSOn240HzClock(t *testing.T) {
	interval := IntervalForFPS(24)
	s, c := running(t, interval)

	for k := 1; k <= 240; k++ {
		now := epoch.Add(time.Duration(k) * time.Second / 240)
		c.clock.SetTime(now)
		s.Tick(now)
	}

	if n := len(c.steps); n < 23 || n > 25 {
		t.Errorf("steps in one second = %d, want 24±1", n)
	}
	tick := time.Second / 240
	for i := 1; i < len(c.steps); i++ {
		if gap := c.steps[i].Sub(c.steps[i-1]); gap < interval-tick {
			t.Errorf("steps %d and %d only %v apart", i-1, i, gap)
		}
	}
}

func TestUncappedStepsEveryTick(t *testing.T) {
	s, c := running(t, 0)
	for k := 1; k <= 10; k++ {
		s.Tick(c.clock.Advance(time.Second / 60))
	}
	if len(c.steps) != 10 {
		t.Errorf("steps = %d, want 10", len(c.steps))
	}
}

func TestDeltaClamped(t *testing.T) {
	s, c := running(t, 0)

	s.Tick(c.clock.Advance(time.Millisecond))
	s.Tick(c.clock.Advance(16 * time.Millisecond))
	s.Tick(c.clock.Advance(5 * time.Second))

	want := []float64{MaxDelta.Seconds(), 0.016, MaxDelta.Seconds()}
	for i, dt := range c.dts {
		if d := dt - want[i]; d > 1e-9 || d < -1e-9 {
			t.Errorf("dt[%d] = %v, want %v", i, dt, want[i])
		}
	}
}

func TestVisibilityGating(t *testing.T) {
	s, c := running(t, 0)
	s.Tick(c.clock.Advance(time.Millisecond))

	s.SetVisible(false)
	if s.State() != Observing {
		t.Fatalf("state = %v, want observing", s.State())
	}
	for range 100 {
		if s.Tick(c.clock.Advance(time.Millisecond)) {
			t.Fatal("stepped while hidden")
		}
	}

	s.SetVisible(true)
	s.SetVisible(true)
	if !s.Tick(c.clock.Advance(time.Millisecond)) {
		t.Error("first tick after becoming visible should step")
	}
	if s.Frames() != 2 {
		t.Errorf("frames = %d, want 2", s.Frames())
	}
}

func TestStopIsTerminal(t *testing.T) {
	var order []int
	s := New(func(float64) {}, 0)
	if s.Tick(epoch) {
		t.Error("idle scheduler stepped")
	}
	s.Mount(func() { order = append(order, 1) }, func() { order = append(order, 2) })
	if s.Mount() {
		t.Error("second mount accepted")
	}
	s.SetVisible(true)

	s.Stop()
	s.Stop()
	if s.State() != Stopped {
		t.Fatalf("state = %v", s.State())
	}
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("detach order = %v, want [2 1]", order)
	}
	s.SetVisible(true)
	if s.State() != Stopped || s.Tick(epoch.Add(time.Hour)) {
		t.Error("stopped scheduler resumed")
	}
}

type recordingHandler struct {
	frames  int
	sizes   []surface.Size
	visible []bool
	cancel  context.CancelFunc
	stopAt  int
}

func (h *recordingHandler) HandleFrame(time.Time) {
	h.frames++
	if h.frames == h.stopAt {
		h.cancel()
	}
}
func (h *recordingHandler) HandleResize(s surface.Size) { h.sizes = append(h.sizes, s) }
func (h *recordingHandler) HandleVisibility(v bool)     { h.visible = append(h.visible, v) }

func TestRunSerialisesEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clock := make(chan time.Time)
	resize := make(chan surface.Size)
	visible := make(chan bool)

	h := &recordingHandler{cancel: cancel, stopAt: 3}
	done := make(chan error, 1)
	go func() { done <- Run(ctx, h, Events{Clock: clock, Resize: resize, Visible: visible}) }()

	resize <- surface.Size{Width: 10, Height: 10, DPR: 1}
	close(resize)
	visible <- true
	for i := range 3 {
		clock <- epoch.Add(time.Duration(i) * time.Millisecond)
	}

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if h.frames != 3 || len(h.sizes) != 1 || len(h.visible) != 1 {
		t.Errorf("frames=%d sizes=%v visible=%v", h.frames, h.sizes, h.visible)
	}
}

func TestRunEndsWhenClockCloses(t *testing.T) {
	clock := make(chan time.Time)
	close(clock)
	if err := Run(context.Background(), &recordingHandler{}, Events{Clock: clock}); err != nil {
		t.Errorf("err = %v", err)
	}
}
