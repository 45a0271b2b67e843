package metrics

import "github.com/san-kum/sphfluid/internal/sph"

// Stability is the fraction of frames in which no particle exceeded the
// speed threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(ps []*sph.Particle, frame int) {
	s.samples++
	for _, p := range ps {
		if !p.Velocity.IsFinite() || p.Velocity.Len() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Containment is the fraction of particle-frames whose simulated position
// was inside the boundary circle.
type Containment struct {
	name    string
	params  sph.Params
	inside  int
	samples int
}

func NewContainment(params sph.Params) *Containment {
	return &Containment{name: "containment", params: params}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(ps []*sph.Particle, frame int) {
	for _, p := range ps {
		if p.Position.Sub(c.params.BoundaryCenter).Len() <= c.params.BoundaryRadius {
			c.inside++
		}
	}
	c.samples += len(ps)
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return float64(c.inside) / float64(c.samples)
}

func (c *Containment) Reset() {
	c.inside = 0
	c.samples = 0
}
