package sph

// Neighbor is an entry in a particle's per-step neighbor list. Index points
// into the owning Simulation's particle slice.
type Neighbor struct {
	Index  int
	Weight float64 // 1 - distance/radius
}

// Particle is one fluid element. Force, Density, NearDensity and Neighbors
// are scratch fields: reset by UpdateState, written by the density pass and
// read by the force passes of the same step.
type Particle struct {
	Position         Vec2
	PreviousPosition Vec2
	VisualPosition   Vec2
	Velocity         Vec2
	Force            Vec2

	Density      float64
	NearDensity  float64
	Pressure     float64
	NearPressure float64

	Neighbors []Neighbor
}

// NewParticle creates a particle at rest, already carrying the gravity force
// for its first integration.
func NewParticle(x, y, gravity float64) *Particle {
	pos := Vec2{x, y}
	return &Particle{
		Position:         pos,
		PreviousPosition: pos,
		VisualPosition:   pos,
		Force:            Vec2{0, -gravity},
	}
}

// UpdateState integrates the particle over one frame and resets its scratch
// fields. It touches no other particle.
func (p *Particle) UpdateState(params Params) {
	p.PreviousPosition = p.Position

	// mass = 1, dt = 1
	p.Velocity = p.Velocity.Add(p.Force)
	p.Position = p.Position.Add(p.Velocity)
	p.VisualPosition = p.Position

	p.Force = Vec2{0, -params.Gravity}

	// corrections made later in this step reach velocity only next frame
	p.Velocity = p.Position.Sub(p.PreviousPosition)
	p.ClampVelocity(params.MaxVelocity, params.VelocityDamping)

	p.contain(params)

	p.Density = 0
	p.NearDensity = 0
	p.Neighbors = p.Neighbors[:0]
}

// ClampVelocity scales both components by damping when the speed exceeds
// limit. Direction is preserved; the result is not guaranteed to be below
// limit. It is idempotent only when one damping brings the speed to at most
// limit: with limit 1.5 and damping 0.5, a speed of 5 becomes 2.5 and then
// 1.25 on a second call.
func (p *Particle) ClampVelocity(limit, damping float64) {
	if p.Velocity.Len() > limit {
		p.Velocity = p.Velocity.Scale(damping)
	}
}

// contain keeps the particle visually on the circular boundary and pushes it
// back with a spring force applied on the next integration.
func (p *Particle) contain(params Params) {
	c := params.BoundaryCenter
	offset := p.Position.Sub(c)
	dist := offset.Len()
	if dist <= params.BoundaryRadius {
		return
	}

	dir := offset.Scale(1 / dist)
	p.VisualPosition = c.Add(dir.Scale(params.BoundaryRadius))

	push := params.WallDamping * (dist - params.BoundaryRadius)
	p.Force = p.Force.Sub(dir.Scale(push))
}

// ComputePressure derives both pressures from this step's densities.
// Pressure is negative below rest density; near pressure never is.
func (p *Particle) ComputePressure(params Params) {
	p.Pressure = params.Stiffness * (p.Density - params.RestDensity)
	p.NearPressure = params.NearStiffness * p.NearDensity
}
