package metrics

import "github.com/san-kum/gridfx/internal/engine"

// Metric folds executed frames into a single value.
type Metric interface {
	Name() string
	Observe(f engine.Frame)
	Value() float64
	Reset()
}

type MeanValue struct {
	name    string
	sum     float64
	samples int
}

func NewMeanValue() *MeanValue {
	return &MeanValue{name: "mean_value"}
}

func (m *MeanValue) Name() string { return m.name }

func (m *MeanValue) Observe(f engine.Frame) {
	cells := f.Grid.Cells()
	if len(cells) == 0 {
		return
	}
	m.sum += mean(cells)
	m.samples++
}

func (m *MeanValue) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanValue) Reset() {
	m.sum = 0
	m.samples = 0
}

type PeakValue struct {
	name string
	peak float64
}

func NewPeakValue() *PeakValue {
	return &PeakValue{name: "peak_value"}
}

func (p *PeakValue) Name() string { return p.name }

func (p *PeakValue) Observe(f engine.Frame) {
	for _, v := range f.Grid.Cells() {
		p.peak = max(p.peak, float64(v))
	}
}

func (p *PeakValue) Value() float64 { return p.peak }
func (p *PeakValue) Reset()         { p.peak = 0 }

// LitFraction is the average share of cells at or above the lit threshold.
type LitFraction struct {
	name      string
	threshold float32
	sum       float64
	samples   int
}

func NewLitFraction(threshold float32) *LitFraction {
	return &LitFraction{name: "lit_fraction", threshold: threshold}
}

func (l *LitFraction) Name() string { return l.name }

func (l *LitFraction) Observe(f engine.Frame) {
	cells := f.Grid.Cells()
	if len(cells) == 0 {
		return
	}
	l.sum += float64(lit(cells, l.threshold)) / float64(len(cells))
	l.samples++
}

func (l *LitFraction) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return l.sum / float64(l.samples)
}

func (l *LitFraction) Reset() {
	l.sum = 0
	l.samples = 0
}

// StepCost is the mean simulate-and-draw time in microseconds.
type StepCost struct {
	name    string
	total   float64
	samples int
}

func NewStepCost() *StepCost {
	return &StepCost{name: "step_cost_us"}
}

func (s *StepCost) Name() string { return s.name }

func (s *StepCost) Observe(f engine.Frame) {
	s.total += float64(f.Cost.Microseconds())
	s.samples++
}

func (s *StepCost) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *StepCost) Reset() {
	s.total = 0
	s.samples = 0
}

func mean(cells []float32) float64 {
	var sum float64
	for _, v := range cells {
		sum += float64(v)
	}
	return sum / float64(len(cells))
}

func lit(cells []float32, threshold float32) int {
	n := 0
	for _, v := range cells {
		if v > 0 && v >= threshold {
			n++
		}
	}
	return n
}
