// Package fill generates initial particle packings.
package fill

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/sph"
)

// Circle packs particles on a square lattice inside the circle of radius r
// around (cx, cy), keeping only rows at or below top. A limit <= 0 means no
// limit. Rows fill bottom-up so a limit leaves a flat surface.
func Circle(cx, cy, r, top, spacing float64, limit int, gravity float64) []*sph.Particle {
	var ps []*sph.Particle
	inner := r - spacing/2
	if inner <= 0 || spacing <= 0 {
		return ps
	}

	for y := cy - inner; y <= math.Min(top, cy+inner); y += spacing {
		half := math.Sqrt(math.Max(0, inner*inner-(y-cy)*(y-cy)))
		for x := cx - half; x <= cx+half; x += spacing {
			if limit > 0 && len(ps) >= limit {
				return ps
			}
			ps = append(ps, sph.NewParticle(x, y, gravity))
		}
	}
	return ps
}

// Rect packs particles on a square lattice inside the given rectangle,
// bottom row first.
func Rect(minX, minY, maxX, maxY, spacing float64, limit int, gravity float64) []*sph.Particle {
	var ps []*sph.Particle
	if spacing <= 0 {
		return ps
	}
	for y := minY; y <= maxY; y += spacing {
		for x := minX; x <= maxX; x += spacing {
			if limit > 0 && len(ps) >= limit {
				return ps
			}
			ps = append(ps, sph.NewParticle(x, y, gravity))
		}
	}
	return ps
}

// Jitter nudges every particle by up to amount in each axis. Previous and
// visual positions follow so the particles start at rest.
func Jitter(ps []*sph.Particle, amount float64, rng *rand.Rand) {
	if amount <= 0 {
		return
	}
	for _, p := range ps {
		d := sph.Vec2{X: (rng.Float64()*2 - 1) * amount, Y: (rng.Float64()*2 - 1) * amount}
		p.Position = p.Position.Add(d)
		p.PreviousPosition = p.Position
		p.VisualPosition = p.Position
	}
}

// FromConfig builds the initial collection described by cfg.
func FromConfig(cfg *config.Config) ([]*sph.Particle, error) {
	phys := cfg.Physics
	f := cfg.Fill

	var ps []*sph.Particle
	switch f.Shape {
	case "rect":
		ps = Rect(f.Rect.MinX, f.Rect.MinY, f.Rect.MaxX, f.Rect.MaxY, f.Spacing, f.Count, phys.Gravity)
	case "circle", "":
		c := phys.BoundaryCenter
		ps = Circle(c.X, c.Y, phys.BoundaryRadius, f.Top, f.Spacing, f.Count, phys.Gravity)
	default:
		return nil, fmt.Errorf("%w: unknown fill shape %q", config.ErrInvalidConfig, f.Shape)
	}

	if len(ps) == 0 {
		return nil, fmt.Errorf("fill %s: %w", f.Shape, sph.ErrNoParticles)
	}

	Jitter(ps, f.Jitter, rand.New(rand.NewSource(cfg.Run.Seed)))
	return ps, nil
}
