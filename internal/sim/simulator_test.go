package sim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/metrics"
	"github.com/san-kum/gridfx/internal/surface"
	"github.com/san-kum/gridfx/internal/surface/raster"
)

func rasterSurface(t *testing.T) surface.Surface {
	t.Helper()
	s, err := raster.New()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func testConfig() Config {
	return Config{
		HostHz:   60,
		Duration: 2 * time.Second,
		Box:      surface.Size{Width: 120, Height: 80, DPR: 1},
		Start:    time.Unix(1000, 0),
	}
}

func TestSimulatorRunThrottled(t *testing.T) {
	opts := config.DefaultOptions(config.VariantEmber)
	opts.Seed = 5

	peak := metrics.NewPeakValue()
	s := New(rasterSurface(t), *opts)
	s.AddMetric(peak)

	result, err := s.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Ticks != 120 {
		t.Errorf("expected 120 ticks, got %d", result.Ticks)
	}
	if result.Frames < 46 || result.Frames > 50 {
		t.Errorf("expected ~48 frames at 24fps, got %d", result.Frames)
	}
	if len(result.Samples) != int(result.Frames) {
		t.Errorf("samples %d != frames %d", len(result.Samples), result.Frames)
	}
	if result.Geometry.Cols != 20 || result.Geometry.Rows != 8 {
		t.Errorf("grid %dx%d, want 20x8", result.Geometry.Cols, result.Geometry.Rows)
	}
	if result.Metrics["peak_value"] != peak.Value() || peak.Value() <= 0 {
		t.Errorf("peak metric not reported: %v", result.Metrics)
	}
	if _, ok := result.Metrics["mean_value"]; !ok {
		t.Error("grid stats summary missing")
	}
}

func TestSimulatorUncapped(t *testing.T) {
	opts := config.DefaultOptions(config.VariantFlicker)
	opts.Seed = 1

	var frames int
	s := New(rasterSurface(t), *opts)
	s.AddObserver(engine.ObserverFunc(func(engine.Frame) { frames++ }))

	result, err := s.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if result.Frames != 120 || frames != 120 {
		t.Errorf("uncapped run stepped %d (observed %d), want 120", result.Frames, frames)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s := New(nil, *config.DefaultOptions(config.VariantEmber))

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero host rate", Config{HostHz: 0, Duration: time.Second}},
		{"negative duration", Config{HostHz: 60, Duration: -time.Second}},
		{"negative box", Config{HostHz: 60, Duration: time.Second, Box: surface.Size{Width: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSimulatorNoSurface(t *testing.T) {
	s := New(nil, *config.DefaultOptions(config.VariantEmber))
	if _, err := s.Run(context.Background(), testConfig()); !errors.Is(err, engine.ErrSurfaceUnavailable) {
		t.Errorf("expected ErrSurfaceUnavailable, got %v", err)
	}
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := New(rasterSurface(t), *config.DefaultOptions(config.VariantFlicker))
	result, err := s.Run(ctx, testConfig())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.Frames != 0 {
		t.Errorf("cancelled run should return an empty partial result")
	}
}

func TestEnsembleSeeds(t *testing.T) {
	newSurface := func() (surface.Surface, error) { return raster.New() }
	e := NewEnsemble(newSurface, *config.DefaultOptions(config.VariantFlicker), 3, 40)

	results, err := e.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Options.Seed != int64(40+i) {
			t.Errorf("run %d seed = %d", i, r.Options.Seed)
		}
	}
}

func TestSimulatorCues(t *testing.T) {
	opts := config.DefaultOptions(config.VariantFlicker)
	opts.Seed = 2

	s := New(rasterSurface(t), *opts)
	s.AddCue(1500*time.Millisecond, func(o *config.Options) { o.MaxOpacity = 0.9 })
	s.AddCue(time.Second, func(o *config.Options) { o.TargetFPS = 10 })

	result, err := s.Run(context.Background(), testConfig())
	if err != nil {
		t.Fatal(err)
	}
	if result.Frames < 68 || result.Frames > 72 {
		t.Errorf("frames = %d, want 60 uncapped then ~10 at 10fps", result.Frames)
	}
	if result.Options.TargetFPS != 10 || result.Options.MaxOpacity != 0.9 {
		t.Errorf("final options = %+v", result.Options)
	}

	bad := New(rasterSurface(t), *opts)
	bad.AddCue(0, func(o *config.Options) { o.Cooling = -1 })
	if _, err := bad.Run(context.Background(), testConfig()); !errors.Is(err, config.ErrInvalidOption) {
		t.Errorf("invalid cue: got %v", err)
	}
}
