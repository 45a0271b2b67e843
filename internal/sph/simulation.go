package sph

import "fmt"

// Container constrains particles while the dam flag is set. It runs right
// after each particle's state update.
type Container interface {
	Constrain(p *Particle)
}

// ContainerFunc adapts a function to Container.
type ContainerFunc func(p *Particle)

func (f ContainerFunc) Constrain(p *Particle) { f(p) }

// Option configures a Simulation.
type Option func(*Simulation)

// WithNeighborSearch selects the density pass strategy.
func WithNeighborSearch(n NeighborSearch) Option {
	return func(s *Simulation) { s.search = n }
}

// WithWorkers spreads the per-particle passes over n goroutines. Pairwise
// passes always run on the calling goroutine.
func WithWorkers(n int) Option {
	return func(s *Simulation) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithContainer installs the hook consulted when Step is called with the dam
// flag set.
func WithContainer(c Container) Option {
	return func(s *Simulation) { s.container = c }
}

// Simulation owns a particle collection and advances it frame by frame.
type Simulation struct {
	params    Params
	particles []*Particle
	search    NeighborSearch
	workers   int
	container Container
	grid      *grid
	frame     int
}

// New takes ownership of particles. params should already be validated.
func New(params Params, particles []*Particle, opts ...Option) *Simulation {
	s := &Simulation{
		params:    params,
		particles: particles,
		workers:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Step advances the simulation by one frame. Each pass finishes for every
// particle before the next one starts.
func (s *Simulation) Step(dam bool) {
	if len(s.particles) == 0 {
		return
	}

	s.updatePass(dam)
	s.densityPass()
	s.pressureDerivation()
	s.pressurePass()
	s.viscosityPass()

	s.frame++
}

func (s *Simulation) updatePass(dam bool) {
	constrain := dam && s.container != nil
	parallelFor(len(s.particles), s.workers, func(start, end int) {
		for _, p := range s.particles[start:end] {
			p.UpdateState(s.params)
			if constrain {
				s.container.Constrain(p)
			}
		}
	})
}

func (s *Simulation) pressureDerivation() {
	parallelFor(len(s.particles), s.workers, func(start, end int) {
		for _, p := range s.particles[start:end] {
			p.ComputePressure(s.params)
		}
	})
}

// Particles exposes the live collection. Do not hold on to it across Step.
func (s *Simulation) Particles() []*Particle { return s.particles }

func (s *Simulation) Len() int       { return len(s.particles) }
func (s *Simulation) Frame() int     { return s.frame }
func (s *Simulation) Params() Params { return s.params }

// SetParams replaces the physics bundle between steps.
func (s *Simulation) SetParams(p Params) { s.params = p }

// Add appends a particle. Call only between steps.
func (s *Simulation) Add(p *Particle) {
	p.Neighbors = p.Neighbors[:0]
	s.particles = append(s.particles, p)
}

// Remove deletes the particle at index i by moving the last particle into
// its slot. Call only between steps.
func (s *Simulation) Remove(i int) error {
	n := len(s.particles)
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, i, n)
	}
	s.particles[i] = s.particles[n-1]
	s.particles[n-1] = nil
	s.particles = s.particles[:n-1]
	return nil
}

// VisualPositions appends every particle's display position to dst.
func (s *Simulation) VisualPositions(dst []Vec2) []Vec2 {
	dst = dst[:0]
	for _, p := range s.particles {
		dst = append(dst, p.VisualPosition)
	}
	return dst
}
