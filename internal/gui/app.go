package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/gridfx/internal/config"
	"github.com/san-kum/gridfx/internal/engine"
	"github.com/san-kum/gridfx/internal/scheduler"
	"github.com/san-kum/gridfx/internal/surface"
	"github.com/san-kum/gridfx/internal/surface/raster"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPaused  = rl.NewColor(255, 170, 0, 255)
)

// App drives one engine from the raylib frame loop. The loop's goroutine is
// the engine's goroutine.
type App struct {
	eng    *engine.Engine
	surf   *raster.Surface
	canvas canvas

	hz      int32
	paused  bool
	showHUD bool
	visible bool
}

// initWindow opens a resizable, DPI-aware window. Escape is handled by the
// app rather than closing the window.
func initWindow(width, height int32, hz int32) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagWindowHighdpi | rl.FlagVsyncHint)
	rl.InitWindow(width, height, "gridfx")
	rl.SetWindowMinSize(160, 120)
	rl.SetTargetFPS(hz)
	rl.SetExitKey(0)
}

func NewApp(opts config.Options, hz int32) (*App, error) {
	if hz <= 0 {
		hz = 60
	}
	surf, err := raster.New()
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(surf, opts)
	if err != nil {
		return nil, err
	}
	return &App{eng: eng, surf: surf, hz: hz, showHUD: true}, nil
}

// Run opens the window and blocks until it is closed.
func (a *App) Run(width, height int32) error {
	initWindow(width, height, a.hz)
	defer rl.CloseWindow()

	if err := a.eng.Mount(windowBox(), a.canvas.unload); err != nil {
		return err
	}
	defer a.eng.Unmount()
	a.syncVisibility()

	clock := scheduler.NewMonotonicTimeProvider()
	for !rl.WindowShouldClose() {
		if a.handleInput() {
			break
		}
		if rl.IsWindowResized() {
			a.eng.HandleResize(windowBox())
		}
		a.syncVisibility()

		before := a.eng.Frames()
		a.eng.HandleFrame(clock.Now())
		if a.eng.Frames() != before {
			a.canvas.upload(a.surf.Image())
		}

		rl.BeginDrawing()
		rl.ClearBackground(ColBg)
		a.canvas.draw(a.eng.Geometry())
		if a.showHUD {
			a.drawHUD()
		}
		rl.EndDrawing()
	}
	return nil
}

// handleInput reports whether the user asked to quit.
func (a *App) handleInput() bool {
	switch {
	case rl.IsKeyPressed(rl.KeyEscape), rl.IsKeyPressed(rl.KeyQ):
		return true
	case rl.IsKeyPressed(rl.KeySpace):
		a.paused = !a.paused
	case rl.IsKeyPressed(rl.KeyH):
		a.showHUD = !a.showHUD
	case rl.IsKeyPressed(rl.KeyV):
		a.switchVariant()
	case rl.IsKeyPressed(rl.KeyUp):
		a.nudge(1)
	case rl.IsKeyPressed(rl.KeyDown):
		a.nudge(-1)
	}
	return false
}

// syncVisibility treats a minimized window as off screen.
func (a *App) syncVisibility() {
	visible := !a.paused && !rl.IsWindowMinimized()
	if visible != a.visible {
		a.visible = visible
		a.eng.HandleVisibility(visible)
	}
}

func (a *App) nudge(dir float64) {
	opts := a.eng.Options()
	step := 0.1
	if opts.Variant == config.VariantFlicker {
		step = 0.05
	}
	if err := a.eng.Configure(opts.Nudge(dir * step)); err != nil {
		engine.Logger().Warn("configure rejected", "err", err)
	}
}

func (a *App) switchVariant() {
	names := engine.Variants()
	current := a.eng.Options().Variant
	next := names[0].Name
	for i, v := range names {
		if v.Name == current {
			next = names[(i+1)%len(names)].Name
			break
		}
	}
	if err := a.eng.Configure(*config.DefaultOptions(next)); err != nil {
		engine.Logger().Warn("switch variant", "variant", next, "err", err)
	}
}

// windowBox is the window's logical size and device pixel ratio.
func windowBox() surface.Size {
	scale := rl.GetWindowScaleDPI()
	return surface.Size{
		Width:  float64(rl.GetScreenWidth()),
		Height: float64(rl.GetScreenHeight()),
		DPR:    float64(scale.X),
	}
}

func (a *App) drawHUD() {
	opts := a.eng.Options()
	geom := a.eng.Geometry()
	name, value := opts.Primary()

	status, col := "running", ColText
	if a.paused {
		status, col = "paused", ColPaused
	}
	rl.DrawText(fmt.Sprintf("%s  %s", opts.Variant, status), 12, 10, 20, col)
	rl.DrawText(fmt.Sprintf("grid %dx%d  dpr %.1f  frame %d  %s %.2f  %d fps",
		geom.Cols, geom.Rows, geom.DPR, a.eng.Frames(), name, value, rl.GetFPS()), 12, 34, 10, ColText)
	rl.DrawText("space pause  up/down tune  v variant  h hud  q quit", 12, int32(rl.GetScreenHeight())-20, 10, ColTextDim)
}

// RunWindow hosts opts in a desktop window.
func RunWindow(opts config.Options, hz int32) error {
	app, err := NewApp(opts, hz)
	if err != nil {
		return err
	}
	return app.Run(1280, 720)
}
