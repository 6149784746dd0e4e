// Package scheduler drives a frame step from a monotonic clock, throttled to
// a target rate and gated on visibility.
package scheduler

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// MaxDelta caps the elapsed time handed to a step.
const MaxDelta = 100 * time.Millisecond

type State int32

const (
	Idle State = iota
	Observing
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Observing:
		return "observing"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// StepFunc simulates and draws one frame. dt is in seconds.
type StepFunc func(dt float64)

// Scheduler is not safe for concurrent use apart from State and Frames;
// every other call belongs to the host's loop.
type Scheduler struct {
	state    atomic.Int32
	frames   atomic.Uint64
	step     StepFunc
	interval time.Duration
	logger   *slog.Logger

	last     time.Time
	prevStep time.Time
	primed   bool
	detach   []func()
}

type Option func(*Scheduler)

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// New returns an idle scheduler. An interval of zero runs a step on every
// clock tick.
func New(step StepFunc, interval time.Duration, opts ...Option) *Scheduler {
	s := &Scheduler{
		step:     step,
		interval: max(0, interval),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IntervalForFPS converts a frame rate to a throttle interval; fps <= 0
// means uncapped.
func IntervalForFPS(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

func (s *Scheduler) State() State            { return State(s.state.Load()) }
func (s *Scheduler) Frames() uint64          { return s.frames.Load() }
func (s *Scheduler) Interval() time.Duration { return s.interval }

func (s *Scheduler) SetInterval(d time.Duration) { s.interval = max(0, d) }

// Mount attaches the watchers' detach functions and moves Idle to
// Observing. It reports false when the scheduler was already mounted.
func (s *Scheduler) Mount(detach ...func()) bool {
	if s.State() != Idle {
		return false
	}
	s.detach = append(s.detach, detach...)
	s.transition(Observing)
	return true
}

// SetVisible moves between Observing and Running. Repeated calls with the
// same value do nothing.
func (s *Scheduler) SetVisible(visible bool) {
	switch s.State() {
	case Observing:
		if visible {
			s.primed = false
			s.transition(Running)
		}
	case Running:
		if !visible {
			s.transition(Observing)
		}
	}
}

// Tick handles one clock tick and reports whether a step ran.
func (s *Scheduler) Tick(now time.Time) bool {
	if s.State() != Running {
		return false
	}

	dt := MaxDelta
	if s.primed {
		elapsed := now.Sub(s.last)
		if elapsed < s.interval {
			return false
		}
		if s.interval > 0 {
			s.last = now.Add(-(elapsed % s.interval))
		} else {
			s.last = now
		}
		dt = min(MaxDelta, max(0, now.Sub(s.prevStep)))
	} else {
		s.last = now
		s.primed = true
	}
	s.prevStep = now

	s.frames.Add(1)
	s.step(dt.Seconds())
	return true
}

// Stop is terminal. Watchers are detached in reverse mount order before it
// returns.
func (s *Scheduler) Stop() {
	if s.State() == Stopped {
		return
	}
	s.transition(Stopped)
	for i := len(s.detach) - 1; i >= 0; i-- {
		s.detach[i]()
	}
	s.detach = nil
}

func (s *Scheduler) transition(to State) {
	from := State(s.state.Swap(int32(to)))
	s.logger.Debug("scheduler transition", "from", from, "to", to)
}
