package metrics

import (
	"sync"
	"time"

	"github.com/san-kum/gridfx/internal/engine"
)

// Sample is the per-frame record kept by GridStats.
type Sample struct {
	Frame uint64
	Time  float64
	Mean  float64
	Max   float64
	Lit   int
	Cells int
	Cost  time.Duration
}

// GridStats observes an engine, keeps the most recent samples and feeds a
// set of aggregate metrics. Reads are safe while the engine runs.
type GridStats struct {
	mu        sync.Mutex
	threshold float32
	limit     int
	elapsed   float64
	samples   []Sample
	metrics   []Metric
}

// NewGridStats keeps at most limit samples; limit <= 0 keeps all of them.
func NewGridStats(threshold float32, limit int) *GridStats {
	return &GridStats{
		threshold: threshold,
		limit:     limit,
		metrics: []Metric{
			NewMeanValue(),
			NewPeakValue(),
			NewLitFraction(threshold),
			NewStepCost(),
		},
	}
}

func (s *GridStats) OnFrame(f engine.Frame) {
	cells := f.Grid.Cells()
	sample := Sample{
		Frame: f.Index,
		Cells: len(cells),
		Cost:  f.Cost,
	}
	if len(cells) > 0 {
		sample.Mean = mean(cells)
		sample.Lit = lit(cells, s.threshold)
		for _, v := range cells {
			sample.Max = max(sample.Max, float64(v))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed += f.DT
	sample.Time = s.elapsed
	s.samples = append(s.samples, sample)
	if s.limit > 0 && len(s.samples) > s.limit {
		s.samples = append(s.samples[:0], s.samples[len(s.samples)-s.limit:]...)
	}
	for _, m := range s.metrics {
		m.Observe(f)
	}
}

func (s *GridStats) Samples() []Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sample(nil), s.samples...)
}

func (s *GridStats) Last() (Sample, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.samples) == 0 {
		return Sample{}, false
	}
	return s.samples[len(s.samples)-1], true
}

// MeanSeries is the per-frame mean of the kept samples.
func (s *GridStats) MeanSeries() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.samples))
	for i, sm := range s.samples {
		out[i] = sm.Mean
	}
	return out
}

// Summary returns every aggregate metric by name.
func (s *GridStats) Summary() map[string]float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *GridStats) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = nil
	s.elapsed = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}
