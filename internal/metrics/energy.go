package metrics

import (
	"math"

	"github.com/san-kum/sphfluid/internal/sph"
)

// KineticEnergy is the mean over frames of the per-particle kinetic energy
// ½|v|² (unit mass, unit frame).
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(ps []*sph.Particle, frame int) {
	if len(ps) == 0 {
		return
	}
	e.last = Kinetic(ps)
	e.total += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last returns the energy of the most recent frame.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}

// Kinetic returns the mean ½|v|² of ps.
func Kinetic(ps []*sph.Particle) float64 {
	if len(ps) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range ps {
		sum += 0.5 * p.Velocity.Dot(p.Velocity)
	}
	return sum / float64(len(ps))
}

// MaxSpeed tracks the fastest particle seen over the run.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(ps []*sph.Particle, frame int) {
	for _, p := range ps {
		m.max = math.Max(m.max, p.Velocity.Len())
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()        { m.max = 0 }
