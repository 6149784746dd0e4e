package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/gui"
	"github.com/san-kum/gridfx/internal/tui"
	"github.com/san-kum/gridfx/internal/viz"
)

var (
	dataDir    string
	logFile    string
	logLevel   string
	configFile string
	preset     string
	seed       int64
	hostHz     float64
	themeName  string
	logOut     *os.File

	cellSize      float64
	gap           float64
	cooling       float64
	wind          float64
	ignition      float64
	accentColor   string
	baseColor     string
	maxOpacity    float64
	flickerChance float64
	targetFPS     float64
	opacity       float64
	cols          int
	rows          int
)

// headless commands may log to stderr; the rest own the terminal.
const headless = "headless"

func main() {
	err := newRootCmd().Execute()
	closeLogging(nil, nil)
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:                "gridfx",
		Short:              "procedural grid animations",
		SilenceUsage:       true,
		PersistentPreRunE:  setupLogging,
		PersistentPostRunE: closeLogging,
		RunE: func(cmd *cobra.Command, args []string) error {
			viz.SetTheme(themeName)
			return viz.RunInteractive(hostHz)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".gridfx", "data directory")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 is time based)")
	pf.Float64Var(&hostHz, "hz", viz.DefaultHostHz, "host frame clock rate")
	pf.StringVar(&themeName, "theme", viz.ThemeHearth.Name, "terminal theme (hearth, retro, paper, ocean)")

	pf.Float64Var(&cellSize, "cell-size", 0, "font size (ember) or square size (flicker)")
	pf.Float64Var(&gap, "gap", 0, "gap between flicker squares")
	pf.Float64Var(&cooling, "cooling", 0, "ember cooling per step")
	pf.Float64Var(&wind, "wind", 0, "ember sideways drift")
	pf.Float64Var(&ignition, "ignition", 0, "ember fuel heat (0-255)")
	pf.StringVar(&accentColor, "accent", "", "ember glyph color")
	pf.StringVar(&baseColor, "base", "", "flicker square color")
	pf.Float64Var(&maxOpacity, "max-opacity", 0, "flicker opacity ceiling (0-1)")
	pf.Float64Var(&flickerChance, "flicker-chance", 0, "flicker re-roll probability per second")
	pf.Float64Var(&targetFPS, "fps", 0, "simulation step cap (0 is uncapped)")
	pf.Float64Var(&opacity, "opacity", 0, "whole-surface opacity (0-1, 0 is opaque)")
	pf.IntVar(&cols, "cols", 0, "fixed column count")
	pf.IntVar(&rows, "rows", 0, "fixed row count")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "live [variant]",
			Short: "animate in the terminal (bubbletea)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, err := resolveOptions(cmd, args)
				if err != nil {
					return err
				}
				viz.SetTheme(themeName)
				return viz.RunLive(*opts, hostHz)
			},
		},
		&cobra.Command{
			Use:   "screen [variant]",
			Short: "animate full screen (tcell)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, err := resolveOptions(cmd, args)
				if err != nil {
					return err
				}
				ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
				defer stop()
				return tui.Run(ctx, *opts, hostHz)
			},
		},
		&cobra.Command{
			Use:   "window [variant]",
			Short: "animate in a desktop window (raylib)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				opts, err := resolveOptions(cmd, args)
				if err != nil {
					return err
				}
				return gui.RunWindow(*opts, int32(hostHz))
			},
		},
		renderCmd(),
		recordCmd(),
		sweepCmd(),
		tuneCmd(),
		scriptCmd(),
		analyzeCmd(),
		listCmd(),
		plotCmd(),
		exportCmd(),
		&cobra.Command{
			Use:   "presets [variant]",
			Short: "list presets",
			Args:  cobra.MaximumNArgs(1),
			RunE:  listPresets,
		},
		&cobra.Command{
			Use:   "variants",
			Short: "list animation variants",
			RunE: func(cmd *cobra.Command, args []string) error {
				for _, v := range engine.Variants() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", v.Name, v.Description)
				}
				return nil
			},
		},
	)

	return rootCmd
}

func setupLogging(cmd *cobra.Command, args []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	var w io.Writer
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		logOut, w = f, f
	case cmd.Annotations[headless] != "":
		w = os.Stderr
	default:
		return nil
	}
	engine.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return nil
}

// closeLogging detaches the engine logger and closes the --log-file handle.
// It runs after a successful command and again from main, so it must be
// idempotent.
func closeLogging(*cobra.Command, []string) error {
	if logOut == nil {
		return nil
	}
	engine.SetLogger(nil)
	err := logOut.Close()
	logOut = nil
	return err
}

// resolveOptions layers the variant defaults, the preset, the config file
// and any flag set on the command line, in that order.
func resolveOptions(cmd *cobra.Command, args []string) (*config.Options, error) {
	variant := ""
	if len(args) > 0 {
		variant = args[0]
	}
	if variant == "" && configFile != "" {
		if fileOpts, err := config.Load(configFile); err == nil {
			variant = fileOpts.Variant
		}
	}
	if variant == "" {
		variant = config.VariantEmber
	}
	if _, err := engine.LookupVariant(variant); err != nil {
		return nil, err
	}

	opts := config.DefaultOptions(variant)
	if preset != "" {
		p := config.GetPreset(variant, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown %s preset: %s (have %s)", variant, preset, strings.Join(config.ListPresets(variant), ", "))
		}
		opts = p
	}
	if configFile != "" {
		if err := config.Overlay(configFile, opts); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		opts.Variant = variant
	}

	flags := cmd.Flags()
	setFloat := func(name string, dst *float64, v float64) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	setFloat("cell-size", &opts.CellSize, cellSize)
	setFloat("gap", &opts.Gap, gap)
	setFloat("cooling", &opts.Cooling, cooling)
	setFloat("wind", &opts.Wind, wind)
	setFloat("ignition", &opts.Ignition, ignition)
	setFloat("max-opacity", &opts.MaxOpacity, maxOpacity)
	setFloat("flicker-chance", &opts.FlickerChance, flickerChance)
	setFloat("fps", &opts.TargetFPS, targetFPS)
	setFloat("opacity", &opts.Opacity, opacity)
	if flags.Changed("accent") {
		opts.AccentColor = accentColor
	}
	if flags.Changed("base") {
		opts.BaseColor = baseColor
	}
	if flags.Changed("cols") {
		opts.Cols = cols
	}
	if flags.Changed("rows") {
		opts.Rows = rows
	}
	if flags.Changed("seed") {
		opts.Seed = seed
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	variants := []string{config.VariantEmber, config.VariantFlicker}
	if len(args) > 0 {
		variants = args[:1]
	}
	out := cmd.OutOrStdout()
	for _, v := range variants {
		names := config.ListPresets(v)
		if len(names) == 0 {
			return fmt.Errorf("no presets for %q", v)
		}
		fmt.Fprintf(out, "%s:\n", v)
		for _, name := range names {
			p := config.GetPreset(v, name)
			primary, value := p.Primary()
			fmt.Fprintf(out, "  %-10s %s=%.2f fps=%.0f\n", name, primary, value, p.TargetFPS)
		}
	}
	return nil
}
