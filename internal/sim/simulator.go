package sim

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/metrics"
	"github.com/san-kum/gridfx/internal/scheduler"
	"github.com/san-kum/gridfx/internal/surface"
)

// Simulator runs an engine against a mock clock as fast as it can step.
type Simulator struct {
	surf      surface.Surface
	opts      config.Options
	metrics   []metrics.Metric
	observers []engine.Observer
	cues      []Cue
}

// Cue reconfigures the running engine once the simulated clock reaches At.
type Cue struct {
	At    time.Duration
	Apply func(o *config.Options)
}

func New(s surface.Surface, opts config.Options) *Simulator {
	return &Simulator{surf: s, opts: opts}
}

func (s *Simulator) AddMetric(m metrics.Metric)    { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o engine.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) AddCue(at time.Duration, apply func(o *config.Options)) {
	s.cues = append(s.cues, Cue{At: at, Apply: apply})
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	v, err := engine.LookupVariant(s.opts.Variant)
	if err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}
	stats := metrics.NewGridStats(v.Lit, 0)
	opts := []engine.Option{engine.WithObserver(stats)}
	for _, m := range s.metrics {
		opts = append(opts, engine.WithObserver(engine.ObserverFunc(m.Observe)))
	}
	for _, o := range s.observers {
		opts = append(opts, engine.WithObserver(o))
	}

	eng, err := engine.New(s.surf, s.opts, opts...)
	if err != nil {
		return nil, err
	}
	if err := eng.Mount(cfg.Box); err != nil {
		return nil, err
	}
	defer eng.Unmount()
	if !eng.Available() {
		return nil, engine.ErrSurfaceUnavailable
	}
	eng.HandleVisibility(true)

	clock := scheduler.NewMockTimeProvider(cfg.Start)
	period := time.Duration(float64(time.Second) / cfg.HostHz)
	ticks := cfg.Ticks()

	cues := slices.Clone(s.cues)
	slices.SortStableFunc(cues, func(a, b Cue) int { return cmp.Compare(a.At, b.At) })

	result := &Result{Options: eng.Options(), Ticks: ticks}
	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}
		for len(cues) > 0 && cues[0].At <= clock.Now().Sub(cfg.Start) {
			next := eng.Options()
			cues[0].Apply(&next)
			if err := eng.Configure(next); err != nil {
				return result, fmt.Errorf("cue at %v: %w", cues[0].At, err)
			}
			cues = cues[1:]
		}
		eng.HandleFrame(clock.Now())
		clock.Advance(period)
	}

	result.Options = eng.Options()
	result.Frames = eng.Frames()
	result.Geometry = eng.Geometry()
	result.Grid = eng.Grid().Clone()
	result.Samples = stats.Samples()
	result.Metrics = stats.Summary()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.HostHz <= 0 {
		return fmt.Errorf("%w: host rate must be positive, got %v", ErrInvalidConfig, cfg.HostHz)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Box.Width < 0 || cfg.Box.Height < 0 {
		return fmt.Errorf("%w: negative box %vx%v", ErrInvalidConfig, cfg.Box.Width, cfg.Box.Height)
	}
	return s.opts.Validate()
}
