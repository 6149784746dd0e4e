package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/experiment"
	"github.com/san-kum/gridfx/internal/export"
	"github.com/san-kum/gridfx/internal/palette"
	"github.com/san-kum/gridfx/internal/sim"
	"github.com/san-kum/gridfx/internal/storage"
	"github.com/san-kum/gridfx/internal/surface"
	"github.com/san-kum/gridfx/internal/surface/raster"
)

var (
	duration  time.Duration
	boxWidth  float64
	boxHeight float64
	dpr       float64
	outPath   string
	runs      int
	svgOut    string
	maxFrames int
)

func boxFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&duration, "duration", 3*time.Second, "simulated duration")
	cmd.Flags().Float64Var(&boxWidth, "width", 480, "container width in logical pixels")
	cmd.Flags().Float64Var(&boxHeight, "height", 270, "container height in logical pixels")
	cmd.Flags().Float64Var(&dpr, "dpr", 1, "device pixel ratio")
}

func runConfig() sim.Config {
	return sim.Config{
		HostHz:   hostHz,
		Duration: duration,
		Box:      surface.Size{Width: boxWidth, Height: boxHeight, DPR: dpr},
		Start:    time.Now(),
	}
}

func newRaster() (surface.Surface, error) { return raster.New() }

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "render [variant]",
		Short:       "render headless to png, gif or svg",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{headless: "true"},
		RunE:        renderRun,
	}
	boxFlags(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "gridfx.png", "output file (.png, .gif or .svg)")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 240, "gif frame limit (0 is unlimited)")
	return cmd
}

func renderRun(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd, args)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(outPath))
	if ext != ".png" && ext != ".gif" && ext != ".svg" {
		return fmt.Errorf("unsupported output %q: want .png, .gif or .svg", outPath)
	}

	surf, err := raster.New()
	if err != nil {
		return err
	}
	s := sim.New(surf, *opts)

	var rec *export.GIFRecorder
	if ext == ".gif" {
		delay := 4
		if opts.TargetFPS > 0 {
			delay = max(2, int(100/opts.TargetFPS))
		}
		rec = export.NewGIFRecorder(func() image.Image { return surf.Displayed() }, delay, maxFrames)
		s.AddObserver(rec)
	}

	ctx, cancel := signalContext()
	defer cancel()
	res, err := s.Run(ctx, runConfig())
	if err != nil {
		return err
	}

	switch ext {
	case ".png":
		err = export.WritePNG(outPath, surf.Displayed())
	case ".gif":
		err = rec.Write(outPath)
	case ".svg":
		err = writeGridSVG(outPath, res)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d grid, %d frames)\n", outPath, res.Geometry.Cols, res.Geometry.Rows, res.Frames)
	return nil
}

func writeGridSVG(path string, res *sim.Result) error {
	v, err := engine.LookupVariant(res.Options.Variant)
	if err != nil {
		return err
	}
	_, mapper := v.Build(&res.Options, palette.NewCache(palette.DefaultCacheSize))
	svg := export.GridToSVG(res.Grid, res.Geometry, mapper, "#0a0a0a")
	return os.WriteFile(path, []byte(svg), 0644)
}

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "record [variant]",
		Short:       "record per-frame stats of headless runs",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{headless: "true"},
		RunE:        recordRun,
	}
	boxFlags(cmd)
	cmd.Flags().IntVar(&runs, "runs", 1, "number of runs with consecutive seeds")
	return cmd
}

func recordRun(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd, args)
	if err != nil {
		return err
	}
	store := storage.New(dataDir)
	if err := store.Init(); err != nil {
		return err
	}

	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	ctx, cancel := signalContext()
	defer cancel()
	cfg := runConfig()
	results, err := sim.NewEnsemble(newRaster, *opts, max(1, runs), opts.Seed).Run(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, res := range results {
		id, err := store.Save(storage.Run{
			Options:  res.Options,
			HostHz:   cfg.HostHz,
			Duration: cfg.Duration.Seconds(),
			Cols:     res.Geometry.Cols,
			Rows:     res.Geometry.Rows,
			Samples:  res.Samples,
			Metrics:  res.Metrics,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s  frames=%d mean=%.2f lit=%.1f%%\n", id, res.Frames, res.Metrics["mean_value"], 100*res.Metrics["lit_fraction"])
	}
	return nil
}

var (
	sweepParam  string
	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
)

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "sweep [variant]",
		Short:       "sweep one option and compare run metrics",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{headless: "true"},
		RunE:        sweepRun,
	}
	boxFlags(cmd)
	cmd.Flags().StringVar(&sweepParam, "param", "", "option to sweep")
	cmd.Flags().Float64Var(&sweepFrom, "from", 0, "first value")
	cmd.Flags().Float64Var(&sweepTo, "to", 1, "last value")
	cmd.Flags().IntVar(&sweepPoints, "points", 5, "number of values")
	return cmd
}

func sweepRun(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions(cmd, args)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	if sweepParam == "" {
		return fmt.Errorf("--param is required (one of %s)", strings.Join(registry.ListParams(opts.Variant), ", "))
	}

	exp, err := experiment.New(experiment.Config{
		Base:   *opts,
		Param:  sweepParam,
		From:   sweepFrom,
		To:     sweepTo,
		Points: sweepPoints,
		Run:    runConfig(),
	}, registry)
	if err != nil {
		return err
	}
	exp.Setup(newRaster)

	ctx, cancel := signalContext()
	defer cancel()
	points, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tframes\tmean\tpeak\tlit\tstep_us\n", sweepParam)
	means := make([]float64, len(points))
	for i, p := range points {
		m := p.Result.Metrics
		means[i] = m["mean_value"]
		fmt.Fprintf(w, "%.3f\t%d\t%.2f\t%.2f\t%.1f%%\t%.1f\n", p.Value, p.Result.Frames, m["mean_value"], m["peak_value"], 100*m["lit_fraction"], m["step_cost_us"])
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(means) > 1 {
		fmt.Fprintln(cmd.OutOrStdout(), asciigraph.Plot(means, asciigraph.Height(8), asciigraph.Caption("mean value by "+sweepParam)))
	}
	return nil
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "list recorded runs",
		Annotations: map[string]string{headless: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			metas, err := storage.New(dataDir).List()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVARIANT\tGRID\tFRAMES\tMEAN\tTIME")
			for _, m := range metas {
				fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%.2f\t%s\n", m.ID, m.Variant, m.Cols, m.Rows, m.Frames, m.Metrics["mean_value"], m.Timestamp.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
}

func plotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "plot [run_id]",
		Short:       "plot the mean value of a recorded run",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{headless: "true"},
		RunE:        plotRun,
	}
	cmd.Flags().StringVar(&svgOut, "svg", "", "also write the series as svg")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	store := storage.New(dataDir)
	meta, err := store.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := store.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("run %s has no samples", args[0])
	}

	series := make([]float64, len(samples))
	for i, s := range samples {
		series[i] = s.Mean
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  %s  %dx%d  seed %d\n\n", meta.ID, meta.Variant, meta.Cols, meta.Rows, meta.Seed)
	fmt.Fprintln(out, asciigraph.Plot(series, asciigraph.Height(12), asciigraph.Width(72), asciigraph.Caption("mean value per frame")))

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.SeriesToSVG(series, 720, 240, "#e63b2e")), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nwrote %s\n", svgOut)
	}
	return nil
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "export [run_id]",
		Short:       "print run metadata as json",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{headless: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := storage.New(dataDir).Load(args[0])
			if err != nil {
				return err
			}
			return storage.WriteJSON(cmd.OutOrStdout(), meta)
		},
	}
}
