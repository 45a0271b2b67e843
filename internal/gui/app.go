// Package gui renders a running fluid in a raylib window.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/experiment"
	"github.com/san-kum/sphfluid/internal/metrics"
	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColFluid   = rl.NewColor(0, 168, 204, 255)
)

const (
	screenW    = 1280
	screenH    = 720
	maxHistory = 200
)

type App struct {
	Cfg       *config.Config
	Fluid     *sph.Simulation
	View      View
	Running   bool
	Dam       bool
	DamBreak  int // frame at which a raised dam breaks
	Telemetry []float64 // kinetic energy ring buffer
}

// initWindow opens the 1280x720 window at 60 FPS and disables the default exit key.
func initWindow() {
	rl.InitWindow(screenW, screenH, "sphfluid")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(cfg *config.Config) (*App, error) {
	fluid, err := experiment.Build(cfg)
	if err != nil {
		return nil, err
	}
	return &App{
		Cfg:       cfg,
		Fluid:     fluid,
		View:      NewView(cfg.Physics, screenW, screenH),
		Running:   true,
		Dam:       cfg.Run.Dam,
		DamBreak:  cfg.Run.DamBreak,
		Telemetry: make([]float64, 0, maxHistory),
	}, nil
}

// Run opens the window for cfg and blocks until it is closed.
func Run(cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	initWindow()
	defer rl.CloseWindow()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

// Update applies input, then steps once if running. It reports whether the
// user asked to quit.
func (a *App) Update() bool {
	switch {
	case rl.IsKeyPressed(rl.KeyQ):
		return true
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyB):
		a.Dam = !a.Dam
		if a.Dam {
			a.DamBreak = a.Fluid.Frame() + a.Cfg.Run.DamBreak
		}
	case rl.IsKeyPressed(rl.KeyX):
		if n := a.Fluid.Len(); n > 0 {
			_ = a.Fluid.Remove(n - 1)
		}
	case rl.IsKeyPressed(rl.KeyA):
		p := a.Fluid.Params()
		top := p.BoundaryCenter.Add(sph.Vec2{Y: p.BoundaryRadius * 0.85})
		a.Fluid.Add(sph.NewParticle(top.X, top.Y, p.Gravity))
	case rl.IsKeyPressed(rl.KeyR):
		if fluid, err := experiment.Build(a.Cfg); err == nil {
			a.Fluid = fluid
			a.Dam = a.Cfg.Run.Dam
			a.DamBreak = a.Cfg.Run.DamBreak
			a.Telemetry = a.Telemetry[:0]
		}
	}

	// pour with the left mouse button
	if rl.IsMouseButtonDown(rl.MouseLeftButton) {
		m := rl.GetMousePosition()
		w := a.View.ToWorld(float64(m.X), float64(m.Y))
		if w.Sub(a.Fluid.Params().BoundaryCenter).Len() < a.Fluid.Params().BoundaryRadius {
			a.Fluid.Add(sph.NewParticle(w.X, w.Y, a.Fluid.Params().Gravity))
		}
	}

	if a.Running {
		run := sim.Config{Dam: a.Dam, DamBreak: a.DamBreak}
		a.Dam = run.DamActive(a.Fluid.Frame())
		a.Fluid.Step(a.Dam)
		a.Telemetry = append(a.Telemetry, metrics.Kinetic(a.Fluid.Particles()))
		if len(a.Telemetry) > maxHistory {
			a.Telemetry = a.Telemetry[1:]
		}
	}
	return false
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawSim()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	rl.DrawText("sphfluid", 30, 30, 24, ColSelect)
	name := a.Cfg.Name
	if name == "" {
		name = "custom"
	}
	rl.DrawText(fmt.Sprintf(":: %s", name), 150, 34, 16, ColText)

	status := "RUNNING"
	col := ColSelect
	if !a.Running {
		status = "PAUSED"
		col = ColTextDim
	}
	rl.DrawText(status, 1150, 30, 16, col)
	if a.Dam {
		rl.DrawText("DAM", 1150, 52, 16, ColAccent)
	}

	rl.DrawText(fmt.Sprintf("frame %d", a.Fluid.Frame()), 30, 70, 16, ColText)
	rl.DrawText(fmt.Sprintf("particles %d", a.Fluid.Len()), 30, 90, 16, ColText)

	a.DrawTelemetry()

	rl.DrawText("[SPACE] PAUSE  [A] ADD  [X] REMOVE  [B] DAM  [R] RESET  [Q] QUIT  [MOUSE] POUR", 560, 680, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}
