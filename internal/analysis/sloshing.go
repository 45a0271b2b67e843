package analysis

import (
	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
)

// CenterOfMass averages every frame's positions. Empty frames yield the
// origin so indexes stay aligned with the input.
func CenterOfMass(frames []sim.Frame) []sph.Vec2 {
	out := make([]sph.Vec2, len(frames))
	for i, f := range frames {
		if len(f.Positions) == 0 {
			continue
		}
		var sum sph.Vec2
		for _, p := range f.Positions {
			sum = sum.Add(p)
		}
		out[i] = sum.Scale(1 / float64(len(f.Positions)))
	}
	return out
}

func Xs(ps []sph.Vec2) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.X
	}
	return out
}

func Ys(ps []sph.Vec2) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Y
	}
	return out
}

// PhasePortrait pairs each sample with its forward difference, giving
// len(series)-1 points of (value, rate).
func PhasePortrait(series []float64) []sph.Vec2 {
	if len(series) < 2 {
		return nil
	}
	points := make([]sph.Vec2, len(series)-1)
	for i := range points {
		points[i] = sph.Vec2{X: series[i], Y: series[i+1] - series[i]}
	}
	return points
}
