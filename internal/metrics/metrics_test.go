package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/grid"
)

func frame(index uint64, values ...float32) engine.Frame {
	g := grid.Allocate(len(values), 1)
	copy(g.Cells(), values)
	return engine.Frame{Index: index, Grid: g, DT: 0.05, Cost: 200 * time.Microsecond}
}

func TestMetrics(t *testing.T) {
	tests := []struct {
		metric Metric
		want   float64
	}{
		{NewMeanValue(), 2.5},
		{NewPeakValue(), 8},
		{NewLitFraction(3), 0.5},
		{NewStepCost(), 200},
	}
	frames := []engine.Frame{frame(1, 0, 2, 3, 3), frame(2, 8, 0, 1, 3)}

	for _, tt := range tests {
		t.Run(tt.metric.Name(), func(t *testing.T) {
			for _, f := range frames {
				tt.metric.Observe(f)
			}
			if got := tt.metric.Value(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
			tt.metric.Reset()
			if tt.metric.Value() != 0 {
				t.Error("expected zero after reset")
			}
		})
	}
}

func TestEmptyGrid(t *testing.T) {
	m := NewMeanValue()
	m.Observe(engine.Frame{Grid: grid.Allocate(0, 0)})
	if m.Value() != 0 {
		t.Errorf("mean of empty grid = %v", m.Value())
	}
}

func TestGridStats(t *testing.T) {
	s := NewGridStats(0, 2)
	s.OnFrame(frame(1, 0.1, 0.3))
	s.OnFrame(frame(2, 0, 0))
	s.OnFrame(frame(3, 0.2, 0))

	samples := s.Samples()
	if len(samples) != 2 || samples[0].Frame != 2 {
		t.Fatalf("samples = %+v", samples)
	}
	last, ok := s.Last()
	if !ok || last.Lit != 1 || last.Max < 0.19 || math.Abs(last.Time-0.15) > 1e-9 {
		t.Errorf("last = %+v", last)
	}
	if series := s.MeanSeries(); len(series) != 2 || series[0] != 0 {
		t.Errorf("series = %v", series)
	}
	if sum := s.Summary(); math.Abs(sum["peak_value"]-0.3) > 1e-6 {
		t.Errorf("summary = %v", sum)
	}

	s.Reset()
	if _, ok := s.Last(); ok {
		t.Error("expected no samples after reset")
	}
}
