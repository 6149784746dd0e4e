package main

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gridfx/internal/analysis"
	"github.com/san-kum/gridfx/internal/automation"
	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/experiment"
	"github.com/san-kum/gridfx/internal/export"
	"github.com/san-kum/gridfx/internal/optim"
	"github.com/san-kum/gridfx/internal/sim"
	"github.com/san-kum/gridfx/internal/storage"
	"github.com/san-kum/gridfx/internal/surface/raster"
)

var (
	analyzeSeries string
	tuneParams    []string
	tuneMetric    string
	tuneTarget    float64
	scriptSave    bool
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "analyze [run_id]",
		Short:       "frequency analysis of a recorded run",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{headless: "true"},
		RunE:        analyzeRun,
	}
	cmd.Flags().StringVar(&analyzeSeries, "series", "mean", "series to analyse (mean, max, lit)")
	return cmd
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("run %s has too few samples (%d)", args[0], len(samples))
	}

	series := make([]float64, len(samples))
	times := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.Time
		switch analyzeSeries {
		case "mean":
			series[i] = s.Mean
		case "max":
			series[i] = s.Max
		case "lit":
			series[i] = float64(s.Lit)
		default:
			return fmt.Errorf("unknown series %q", analyzeSeries)
		}
	}

	rate := analysis.SampleRate(times)
	freq, mag := analysis.DominantFrequency(series, rate)
	_, psd := analysis.Welch(series, rate, 64)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "samples   %d\n", len(series))
	fmt.Fprintf(out, "step rate %.2f Hz\n", rate)
	fmt.Fprintf(out, "dominant  %.3f Hz (magnitude %.2f)\n\n", freq, mag)
	if len(psd) > 1 {
		fmt.Fprintln(out, asciigraph.Plot(psd[1:], asciigraph.Height(10), asciigraph.Caption(analyzeSeries+" power spectral density")))
	}
	return nil
}

func scriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "script [scenario.yaml]",
		Short:       "run a scripted scenario headless",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{headless: "true"},
		RunE:        scriptRun,
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the last frame (.png) or all frames (.gif)")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 240, "gif frame limit (0 is unlimited)")
	cmd.Flags().BoolVar(&scriptSave, "save", false, "store the run's stats")
	return cmd
}

func scriptRun(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	surf, err := raster.New()
	if err != nil {
		return err
	}

	var observers []engine.Observer
	var rec *export.GIFRecorder
	ext := strings.ToLower(filepath.Ext(outPath))
	switch ext {
	case "", ".png":
	case ".gif":
		rec = export.NewGIFRecorder(func() image.Image { return surf.Displayed() }, 4, maxFrames)
		observers = append(observers, rec)
	default:
		return fmt.Errorf("unsupported output %q: want .png or .gif", outPath)
	}

	ctx, cancel := signalContext()
	defer cancel()
	res, err := automation.RunScenario(ctx, sc, surf, observers...)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d frames, %d cues, mean %.2f\n", sc.Name, res.Frames, len(sc.Cues), res.Metrics["mean_value"])
	switch {
	case rec != nil:
		err = rec.Write(outPath)
	case ext == ".png":
		err = export.WritePNG(outPath, surf.Displayed())
	}
	if err != nil {
		return err
	}

	if scriptSave {
		store := storage.New(dataDir)
		if err := store.Init(); err != nil {
			return err
		}
		id, err := store.Save(storage.Run{
			Options:  res.Options,
			HostHz:   sc.HostHz,
			Duration: sc.Duration.Seconds(),
			Cols:     res.Geometry.Cols,
			Rows:     res.Geometry.Rows,
			Samples:  res.Samples,
			Metrics:  res.Metrics,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "saved %s\n", id)
	}
	return nil
}

func tuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "tune [variant]",
		Short:       "grid search options for a target metric",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{headless: "true"},
		RunE:        tuneRun,
	}
	boxFlags(cmd)
	cmd.Flags().StringArrayVar(&tuneParams, "param", nil, "name=lo:hi:n, repeatable")
	cmd.Flags().StringVar(&tuneMetric, "metric", "lit_fraction", "metric to steer")
	cmd.Flags().Float64Var(&tuneTarget, "target", 0.3, "desired metric value")
	return cmd
}

func tuneRun(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()

	var names []string
	var ranges [][]float64
	setters := make(map[string]experiment.Param)
	for _, arg := range tuneParams {
		name, values, err := parseRange(arg)
		if err != nil {
			return err
		}
		p, err := registry.GetParam(opts.Variant, name)
		if err != nil {
			return err
		}
		names, ranges, setters[name] = append(names, name), append(ranges, values), p
	}
	if len(names) == 0 {
		return fmt.Errorf("at least one --param is required (one of %s)", strings.Join(registry.ListParams(opts.Variant), ", "))
	}

	cfg := runConfig()
	eval := func(ctx context.Context, params map[string]float64) (map[string]float64, error) {
		o := *opts
		for name, v := range params {
			setters[name](&o, v)
		}
		s, err := newRaster()
		if err != nil {
			return nil, err
		}
		res, err := sim.New(s, o).Run(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return res.Metrics, nil
	}

	ctx, cancel := signalContext()
	defer cancel()
	search := optim.NewGridSearch(names, ranges)
	engine.Logger().Info("tuning", "points", search.Combinations(), "metric", tuneMetric, "target", tuneTarget)
	best, loss, err := search.Search(ctx, eval, optim.Target(tuneMetric, tuneTarget))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "best %s distance %.4f\n", tuneMetric, loss)
	for _, name := range names {
		fmt.Fprintf(out, "  --%s %.4g\n", strings.ReplaceAll(name, "_", "-"), best[name])
	}
	return nil
}

// parseRange reads name=lo:hi:n.
func parseRange(arg string) (string, []float64, error) {
	name, rng, ok := strings.Cut(arg, "=")
	parts := strings.Split(rng, ":")
	if !ok || name == "" || len(parts) != 3 {
		return "", nil, fmt.Errorf("bad --param %q: want name=lo:hi:n", arg)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	n, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || n < 1 {
		return "", nil, fmt.Errorf("bad --param %q: want name=lo:hi:n", arg)
	}
	return name, optim.Linspace(lo, hi, n), nil
}
