package experiment

import (
	"math"

	"github.com/san-kum/sphfluid/internal/sph"
)

// DamWall is a vertical wall at x that keeps the fluid on its left. A
// particle past the wall is drawn on it and pushed back by a spring force
// of the given stiffness, the same response the circular boundary uses.
func DamWall(x, wallDamping float64) sph.ContainerFunc {
	return func(p *sph.Particle) {
		over := p.Position.X - x
		if over <= 0 {
			return
		}
		p.VisualPosition.X = x
		p.Force.X -= wallDamping * over
	}
}

// DamSegment returns the part of the wall at x that lies inside the
// container, for drawing. ok is false when the wall misses the container.
func DamSegment(x float64, p sph.Params) (top, bottom sph.Vec2, ok bool) {
	dx := x - p.BoundaryCenter.X
	if math.Abs(dx) >= p.BoundaryRadius {
		return sph.Vec2{}, sph.Vec2{}, false
	}
	h := math.Sqrt(p.BoundaryRadius*p.BoundaryRadius - dx*dx)
	return sph.Vec2{X: x, Y: p.BoundaryCenter.Y + h}, sph.Vec2{X: x, Y: p.BoundaryCenter.Y - h}, true
}
