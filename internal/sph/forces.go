package sph

// minSeparation is the distance below which two particles are treated as
// coincident and exchange no directional force or impulse.
const minSeparation = 1e-12

// separation returns the unit vector from a to b. ok is false for
// coincident particles.
func separation(a, b *Particle) (dir Vec2, ok bool) {
	d := b.Position.Sub(a.Position)
	dist := d.Len()
	if dist < minSeparation {
		return Vec2{}, false
	}
	return d.Scale(1 / dist), true
}

// forEachPair visits every unordered neighbor pair exactly once, from the
// list of the lower index.
func (s *Simulation) forEachPair(fn func(a, b *Particle, w float64)) {
	for i, a := range s.particles {
		for _, n := range a.Neighbors {
			if n.Index <= i {
				continue
			}
			fn(a, s.particles[n.Index], n.Weight)
		}
	}
}

// pressurePass pushes each pair apart (or pulls it together, below rest
// density) with equal and opposite forces.
func (s *Simulation) pressurePass() {
	s.forEachPair(applyPressure)
}

func applyPressure(a, b *Particle, w float64) {
	dir, ok := separation(a, b)
	if !ok {
		return
	}
	m := (a.Pressure+b.Pressure)*w + (a.NearPressure+b.NearPressure)*w*w
	f := dir.Scale(m * 0.5)
	a.Force = a.Force.Sub(f)
	b.Force = b.Force.Add(f)
}

// viscosityPass removes part of the approach speed of each pair. It writes
// velocities directly: the exchange is an impulse, not a force.
func (s *Simulation) viscosityPass() {
	sigma := s.params.ViscositySigma
	s.forEachPair(func(a, b *Particle, w float64) {
		applyViscosity(a, b, w, sigma)
	})
}

func applyViscosity(a, b *Particle, w, sigma float64) {
	dir, ok := separation(a, b)
	if !ok {
		return
	}
	inward := a.Velocity.Sub(b.Velocity).Dot(dir)
	if inward <= 0 {
		return
	}
	impulse := dir.Scale(0.5 * sigma * w * inward)
	a.Velocity = a.Velocity.Sub(impulse)
	b.Velocity = b.Velocity.Add(impulse)
}
