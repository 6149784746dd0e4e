// Package engine runs one animated grid: a simulation policy and a value
// mapper over a surface, driven by the frame scheduler.
package engine

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/grid"
	"github.com/san-kum/gridfx/internal/palette"
	"github.com/san-kum/gridfx/internal/scheduler"
	"github.com/san-kum/gridfx/internal/surface"
)

// Frame describes one executed step.
type Frame struct {
	Index uint64
	Grid  *grid.Grid
	DT    float64
	Drawn int
	Cost  time.Duration
}

type Observer interface {
	OnFrame(f Frame)
}

type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

// snapshot is everything a frame reads from the options, built once per
// Configure and swapped atomically.
type snapshot struct {
	opts      config.Options
	variant   Variant
	sim       Simulation
	mapper    surface.Mapper
	footprint surface.Footprint
	dims      surface.Dims
	interval  time.Duration
}

// Engine is driven from a single goroutine: HandleFrame, HandleResize,
// HandleVisibility, Mount and Unmount must not run concurrently.
// Configure and the read-only accessors are safe from anywhere.
type Engine struct {
	registry  *Registry
	colors    *palette.Cache
	rng       *rand.Rand
	observers []Observer
	logger    *slog.Logger

	sched   *scheduler.Scheduler
	surf    *surface.Manager
	current atomic.Pointer[snapshot]
	applied *snapshot

	box    surface.Size
	hasBox bool
}

type Option func(*Engine)

func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// WithColorCache shares a color cache between engines.
func WithColorCache(c *palette.Cache) Option {
	return func(e *Engine) { e.colors = c }
}

func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// New validates opts and returns an idle engine drawing onto s. A nil s
// yields an engine that never draws.
func New(s surface.Surface, opts config.Options, options ...Option) (*Engine, error) {
	e := &Engine{
		registry: defaultRegistry,
		logger:   Logger(),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.colors == nil {
		e.colors = palette.NewCache(palette.DefaultCacheSize)
	}
	if e.rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}

	snap, err := e.build(opts)
	if err != nil {
		return nil, err
	}
	e.current.Store(snap)
	e.applied = snap

	e.surf = surface.NewManager(s)
	e.sched = scheduler.New(e.step, snap.interval, scheduler.WithLogger(e.logger))
	if !e.surf.Available() {
		e.logger.Warn("surface unavailable", slog.String("variant", opts.Variant))
	}
	return e, nil
}

func (e *Engine) build(opts config.Options) (*snapshot, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	v, err := e.registry.Get(opts.Variant)
	if err != nil {
		return nil, err
	}
	sim, mapper := v.Build(&opts, e.colors)
	if opts.Opacity > 0 && opts.Opacity < 1 {
		mapper = faded{inner: mapper, opacity: opts.Opacity}
	}
	return &snapshot{
		opts:      opts,
		variant:   v,
		sim:       sim,
		mapper:    mapper,
		footprint: v.Footprint(&opts),
		dims:      surface.Dims{Cols: opts.Cols, Rows: opts.Rows},
		interval:  scheduler.IntervalForFPS(opts.TargetFPS),
	}, nil
}

// Configure swaps in new options. They take effect at the start of the
// next executed frame.
func (e *Engine) Configure(opts config.Options) error {
	snap, err := e.build(opts)
	if err != nil {
		return err
	}
	e.current.Store(snap)
	return nil
}

// Options returns the most recently configured options.
func (e *Engine) Options() config.Options { return e.current.Load().opts }

func (e *Engine) Variant() Variant       { return e.current.Load().variant }
func (e *Engine) State() scheduler.State { return e.sched.State() }
func (e *Engine) Frames() uint64         { return e.sched.Frames() }
func (e *Engine) Available() bool        { return e.surf.Available() }

func (e *Engine) Scheduler() *scheduler.Scheduler { return e.sched }

// Geometry and Grid belong to the engine's goroutine.
func (e *Engine) Geometry() surface.Geometry { return e.surf.Geometry() }
func (e *Engine) Grid() *grid.Grid           { return e.surf.Grid() }

// Mount performs the initial sizing against box and moves the engine to
// Observing. detach functions run once at Unmount.
func (e *Engine) Mount(box surface.Size, detach ...func()) error {
	switch e.sched.State() {
	case scheduler.Stopped:
		return ErrStopped
	case scheduler.Idle:
	default:
		return ErrMounted
	}
	e.sched.Mount(detach...)
	e.logger.Info("mounted", slog.String("variant", e.applied.variant.Name))
	e.HandleResize(box)
	return nil
}

// Unmount stops the engine for good.
func (e *Engine) Unmount() {
	if e.sched.State() == scheduler.Stopped {
		return
	}
	e.sched.Stop()
	e.logger.Info("unmounted", slog.Uint64("frames", e.sched.Frames()))
}

func (e *Engine) HandleFrame(now time.Time) {
	if !e.surf.Available() {
		return
	}
	e.sched.Tick(now)
}

// HandleResize re-sizes the surface and reallocates the grid if its
// dimensions changed. Before Mount the box is only remembered.
func (e *Engine) HandleResize(box surface.Size) {
	if e.sched.State() == scheduler.Stopped {
		return
	}
	e.box, e.hasBox = box, true
	if e.sched.State() == scheduler.Idle {
		return
	}
	e.resize(e.applied, false)
}

func (e *Engine) HandleVisibility(visible bool) {
	e.sched.SetVisible(visible)
}

// Run mounts the engine against box, serialises the event streams onto it
// and unmounts when ctx is done or the clock closes.
func (e *Engine) Run(ctx context.Context, box surface.Size, ev scheduler.Events) error {
	if err := e.Mount(box); err != nil {
		return err
	}
	defer e.Unmount()
	return scheduler.Run(ctx, e, ev)
}

func (e *Engine) resize(snap *snapshot, reseed bool) {
	if !e.hasBox || !e.surf.Available() {
		return
	}
	realloc, err := e.surf.Resize(e.box, snap.footprint, snap.dims)
	if err != nil {
		e.logger.Warn("surface unavailable", slog.Any("err", err))
		return
	}
	geom := e.surf.Geometry()
	if realloc || reseed {
		snap.sim.Seed(e.surf.Grid(), e.rng)
		e.logger.Debug("grid allocated",
			slog.Int("cols", geom.Cols), slog.Int("rows", geom.Rows),
			slog.Int("backing_w", geom.BackingWidth), slog.Int("backing_h", geom.BackingHeight),
			slog.Float64("dpr", geom.DPR))
	}
}

// apply brings a newly configured snapshot into effect on the engine's
// goroutine, ahead of the step that first reads it.
func (e *Engine) apply(next *snapshot) {
	prev := e.applied
	e.applied = next
	e.sched.SetInterval(next.interval)

	reseed := prev.variant.Name != next.variant.Name
	if !reseed && next.variant.Reseed != nil {
		reseed = next.variant.Reseed(&prev.opts, &next.opts)
	}
	if prev.footprint != next.footprint || prev.dims != next.dims || reseed {
		e.resize(next, reseed)
	}
}

func (e *Engine) step(dt float64) {
	if next := e.current.Load(); next != e.applied {
		e.apply(next)
	}
	snap := e.applied
	g := e.surf.Grid()
	if g.Empty() {
		return
	}

	start := time.Now()
	snap.sim.Step(g, dt, e.rng)
	drawn := e.surf.Draw(snap.mapper)
	cost := time.Since(start)

	if len(e.observers) == 0 {
		return
	}
	f := Frame{Index: e.sched.Frames(), Grid: g, DT: dt, Drawn: drawn, Cost: cost}
	for _, o := range e.observers {
		o.OnFrame(f)
	}
}

// faded scales every mark's alpha, which for non-overlapping cells is the
// same as compositing the finished surface at that opacity.
type faded struct {
	inner   surface.Mapper
	opacity float64
}

func (f faded) Map(v float32) (palette.Mark, bool) {
	m, ok := f.inner.Map(v)
	if !ok {
		return m, false
	}
	m.Color.A = uint8(math.Round(float64(m.Color.A) * f.opacity))
	return m, m.Color.A > 0
}
