package sim

import (
	"fmt"

	"github.com/san-kum/sphfluid/internal/sph"
)

// Metric summarizes a run from the particles seen after each frame.
type Metric interface {
	Name() string
	Observe(ps []*sph.Particle, frame int)
	Value() float64
	Reset()
}

// Observer is notified after every completed frame. It must not keep
// references to particles past the call.
type Observer interface {
	OnFrame(frame int, s *sph.Simulation)
}

type Config struct {
	Frames      int
	SampleEvery int
	Dam         bool
	DamBreak    int
}

// DamActive reports whether the container hook applies at frame.
func (c Config) DamActive(frame int) bool {
	return c.Dam && frame < c.DamBreak
}

// Frame is a rendered snapshot: the visual positions after a step.
type Frame struct {
	Index     int
	Positions []sph.Vec2
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// FrameError reports a particle that left the finite numbers.
type FrameError struct {
	Frame    int
	Particle int
	Message  string
}

func (e FrameError) Error() string {
	return fmt.Sprintf("frame %d (particle %d): %s", e.Frame, e.Particle, e.Message)
}
