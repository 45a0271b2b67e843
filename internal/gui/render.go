package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/sphfluid/internal/experiment"
	"github.com/san-kum/sphfluid/internal/sph"
)

// View maps world coordinates to screen pixels, y up, fitting the boundary
// circle in the shorter screen side.
type View struct {
	center sph.Vec2
	scale  float64
	w, h   float64
}

func NewView(p sph.Params, w, h int) View {
	side := math.Min(float64(w), float64(h))
	return View{
		center: p.BoundaryCenter,
		scale:  side / (2.2 * p.BoundaryRadius),
		w:      float64(w),
		h:      float64(h),
	}
}

func (v View) ToScreen(p sph.Vec2) rl.Vector2 {
	return rl.NewVector2(
		float32(v.w/2+(p.X-v.center.X)*v.scale),
		float32(v.h/2-(p.Y-v.center.Y)*v.scale),
	)
}

func (v View) ToWorld(x, y float64) sph.Vec2 {
	return sph.Vec2{
		X: v.center.X + (x-v.w/2)/v.scale,
		Y: v.center.Y - (y-v.h/2)/v.scale,
	}
}

// drawSim draws the container and one disc per particle, brighter where
// the fluid is compressed above rest density.
func (a *App) drawSim() {
	p := a.Fluid.Params()
	c := a.View.ToScreen(p.BoundaryCenter)
	rl.DrawCircleLines(int32(c.X), int32(c.Y), float32(p.BoundaryRadius*a.View.scale), ColTextDim)
	if a.Dam {
		if top, bottom, ok := experiment.DamSegment(a.Cfg.Run.DamX, p); ok {
			rl.DrawLineEx(a.View.ToScreen(top), a.View.ToScreen(bottom), 3, ColAccent)
		}
	}

	radius := float32(math.Max(2, p.InteractionRadius*a.View.scale*0.25))
	for _, pt := range a.Fluid.Particles() {
		if !pt.VisualPosition.IsFinite() {
			continue
		}
		rl.DrawCircleV(a.View.ToScreen(pt.VisualPosition), radius, densityColor(pt.Density, p.RestDensity))
	}
}

func densityColor(rho, rest float64) rl.Color {
	t := 0.0
	if rest > 0 {
		t = math.Min(1, math.Max(0, rho/rest-0.5))
	}
	lerp := func(a, b uint8) uint8 { return uint8(float64(a) + (float64(b)-float64(a))*t) }
	return rl.NewColor(lerp(ColFluid.R, 255), lerp(ColFluid.G, 255), lerp(ColFluid.B, 255), 255)
}

// DrawTelemetry plots the kinetic energy history as a line graph.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}
	const (
		x0, y0 = 30, 600
		gw, gh = 200, 60
	)
	hi := a.Telemetry[0]
	for _, v := range a.Telemetry {
		hi = math.Max(hi, v)
	}
	if hi <= 0 {
		hi = 1
	}

	step := float32(gw) / float32(maxHistory-1)
	prev := rl.NewVector2(x0, y0-float32(a.Telemetry[0]/hi)*gh)
	for i := 1; i < len(a.Telemetry); i++ {
		next := rl.NewVector2(x0+float32(i)*step, y0-float32(a.Telemetry[i]/hi)*gh)
		rl.DrawLineV(prev, next, ColAccent)
		prev = next
	}
	rl.DrawText("kinetic energy", x0, y0+8, 12, ColTextDim)
}
