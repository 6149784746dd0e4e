package sim

import (
	"errors"
	"time"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/grid"
	"github.com/san-kum/gridfx/internal/metrics"
	"github.com/san-kum/gridfx/internal/surface"
)

var ErrInvalidConfig = errors.New("sim: invalid config")

// Config describes one headless run: a fixed container box observed by a
// simulated host clock.
type Config struct {
	HostHz   float64
	Duration time.Duration
	Box      surface.Size
	Start    time.Time
}

// Ticks is the number of host frames the run spans.
func (c Config) Ticks() int {
	return int(c.Duration.Seconds() * c.HostHz)
}

type Result struct {
	Options  config.Options
	Ticks    int
	Frames   uint64
	Geometry surface.Geometry
	Grid     *grid.Grid
	Samples  []metrics.Sample
	Metrics  map[string]float64
}
