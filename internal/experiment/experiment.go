// Package experiment sweeps one option across a range of values and
// collects the headless metrics of each point.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/sim"
	"github.com/san-kum/gridfx/internal/surface"
)

type Config struct {
	Base   config.Options
	Param  string
	From   float64
	To     float64
	Points int
	Run    sim.Config
}

// Point is one sweep value and its run.
type Point struct {
	Value  float64
	Result *sim.Result
}

type Experiment struct {
	cfg        Config
	param      Param
	newSurface func() (surface.Surface, error)
}

func New(cfg Config, registry *Registry) (*Experiment, error) {
	p, err := registry.GetParam(cfg.Base.Variant, cfg.Param)
	if err != nil {
		return nil, err
	}
	if cfg.Points < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one point", config.ErrInvalidOption)
	}
	return &Experiment{cfg: cfg, param: p}, nil
}

// Setup sets the surface factory; each point draws on a fresh surface.
func (e *Experiment) Setup(newSurface func() (surface.Surface, error)) {
	e.newSurface = newSurface
}

// Values are the evenly spaced sweep points, From and To included.
func (e *Experiment) Values() []float64 {
	if e.cfg.Points == 1 {
		return []float64{e.cfg.From}
	}
	out := make([]float64, e.cfg.Points)
	step := (e.cfg.To - e.cfg.From) / float64(e.cfg.Points-1)
	for i := range out {
		out[i] = e.cfg.From + float64(i)*step
	}
	return out
}

func (e *Experiment) Run(ctx context.Context) ([]Point, error) {
	if e.newSurface == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	var points []Point
	for _, v := range e.Values() {
		opts := e.cfg.Base
		e.param(&opts, v)
		s, err := e.newSurface()
		if err != nil {
			return points, err
		}
		res, err := sim.New(s, opts).Run(ctx, e.cfg.Run)
		if err != nil {
			return points, fmt.Errorf("%s=%g: %w", e.cfg.Param, v, err)
		}
		points = append(points, Point{Value: v, Result: res})
	}
	return points, nil
}
