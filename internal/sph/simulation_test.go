package sph

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func randomParticles(n int, seed int64, gravity float64) []*Particle {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]*Particle, n)
	for i := range ps {
		ps[i] = NewParticle(rng.Float64()*0.6-0.3, rng.Float64()*0.6-0.3, gravity)
	}
	return ps
}

func neighborIndices(p *Particle) []int {
	idx := make([]int, len(p.Neighbors))
	for i, n := range p.Neighbors {
		idx[i] = n.Index
	}
	sort.Ints(idx)
	return idx
}

var _ = Describe("Simulation", func() {
	var params Params

	BeforeEach(func() {
		params = DefaultParams()
	})

	Describe("Step", func() {
		It("is a no-op on an empty collection", func() {
			s := New(params, nil)
			Expect(func() { s.Step(false) }).NotTo(Panic())
			Expect(s.Frame()).To(Equal(0))
			Expect(s.VisualPositions(nil)).To(BeEmpty())
		})

		It("moves a lone particle by gravity alone", func() {
			p := NewParticle(0, 0.1, params.Gravity)
			s := New(params, []*Particle{p})
			s.Step(false)

			Expect(p.Velocity.X).To(BeNumerically("~", 0, 1e-15))
			Expect(p.Velocity.Y).To(BeNumerically("~", -params.Gravity, 1e-15))
			Expect(p.Position.X).To(BeNumerically("~", p.PreviousPosition.X, 1e-15))
			Expect(p.Position.Y).To(BeNumerically("~", p.PreviousPosition.Y-params.Gravity, 1e-15))
			Expect(p.Neighbors).To(BeEmpty())
			Expect(s.Frame()).To(Equal(1))
		})

		It("projects escaped particles onto the boundary and pulls them back", func() {
			params.Gravity = 0
			r := params.BoundaryRadius
			dir := Vec2{3, 4}.Scale(1.0 / 5)
			p := NewParticle(dir.X*1.5*r, dir.Y*1.5*r, 0)
			s := New(params, []*Particle{p})
			s.Step(false)

			Expect(p.VisualPosition.Len()).To(BeNumerically("~", r, 1e-12))
			Expect(p.VisualPosition.X).To(BeNumerically("~", dir.X*r, 1e-12))
			Expect(p.VisualPosition.Y).To(BeNumerically("~", dir.Y*r, 1e-12))

			Expect(p.Force.Len()).To(BeNumerically(">", 0))
			Expect(p.Force.Dot(dir)).To(BeNumerically("<", 0))
			Expect(p.Force.Len()).To(BeNumerically("~", params.WallDamping*0.5*r, 1e-12))

			Expect(p.Position.Len()).To(BeNumerically("~", 1.5*r, 1e-12))
		})

		It("keeps density and near density non-negative", func() {
			s := New(params, randomParticles(300, 7, params.Gravity))
			for i := 0; i < 20; i++ {
				s.Step(false)
				for _, p := range s.Particles() {
					Expect(p.Density).To(BeNumerically(">=", 0))
					Expect(p.NearDensity).To(BeNumerically(">=", 0))
				}
			}
		})

		It("builds symmetric neighbor lists", func() {
			s := New(params, randomParticles(200, 11, params.Gravity))
			s.Step(false)

			ps := s.Particles()
			for i, p := range ps {
				for _, n := range p.Neighbors {
					Expect(n.Index).NotTo(Equal(i))
					var back *Neighbor
					for k := range ps[n.Index].Neighbors {
						if ps[n.Index].Neighbors[k].Index == i {
							back = &ps[n.Index].Neighbors[k]
						}
					}
					Expect(back).NotTo(BeNil())
					Expect(back.Weight).To(BeNumerically("~", n.Weight, 1e-12))

					dist := ps[n.Index].Position.Sub(p.Position).Len()
					Expect(dist).To(BeNumerically("<", params.InteractionRadius))
				}
			}
		})

		It("stays finite with coincident particles", func() {
			ps := []*Particle{
				NewParticle(0.1, 0.1, params.Gravity),
				NewParticle(0.1, 0.1, params.Gravity),
				NewParticle(0.1, 0.1, params.Gravity),
			}
			s := New(params, ps)
			for i := 0; i < 5; i++ {
				s.Step(false)
			}
			for _, p := range ps {
				Expect(p.Position.IsFinite()).To(BeTrue())
				Expect(p.Velocity.IsFinite()).To(BeTrue())
				Expect(p.Force.IsFinite()).To(BeTrue())
			}
		})
	})

	Describe("density pass", func() {
		place := func(d float64) (*Simulation, *Particle, *Particle) {
			a := &Particle{Position: Vec2{0, 0}}
			b := &Particle{Position: Vec2{d, 0}}
			return New(params, []*Particle{a, b}), a, b
		}

		It("gives both particles the same kernel contribution", func() {
			d := 0.4 * params.InteractionRadius
			s, a, b := place(d)
			s.densityPass()

			w := 1 - d/params.InteractionRadius
			Expect(a.Density).To(BeNumerically("~", w*w, 1e-12))
			Expect(b.Density).To(Equal(a.Density))
			Expect(a.NearDensity).To(BeNumerically("~", w*w*w, 1e-12))
			Expect(b.NearDensity).To(Equal(a.NearDensity))
			Expect(a.Neighbors).To(ConsistOf(Neighbor{Index: 1, Weight: a.Neighbors[0].Weight}))
			Expect(b.Neighbors).To(HaveLen(1))
			Expect(b.Neighbors[0].Index).To(Equal(0))
		})

		It("ignores pairs at or beyond the interaction radius", func() {
			for _, d := range []float64{params.InteractionRadius, 2 * params.InteractionRadius} {
				s, a, b := place(d)
				s.densityPass()
				Expect(a.Density).To(BeZero())
				Expect(b.Density).To(BeZero())
				Expect(a.Neighbors).To(BeEmpty())
				Expect(b.Neighbors).To(BeEmpty())
			}
		})

		It("finds the same neighbors with the grid as with the naive scan", func() {
			naive := New(params, randomParticles(400, 3, params.Gravity))
			gridded := New(params, randomParticles(400, 3, params.Gravity), WithNeighborSearch(SearchGrid))

			for frame := 0; frame < 3; frame++ {
				naive.Step(false)
				gridded.Step(false)

				for i, p := range naive.Particles() {
					q := gridded.Particles()[i]
					Expect(neighborIndices(q)).To(Equal(neighborIndices(p)))
					Expect(q.Density).To(BeNumerically("~", p.Density, 1e-9))
					Expect(q.NearDensity).To(BeNumerically("~", p.NearDensity, 1e-9))
				}
			}
		})
	})

	Describe("pressure force pass", func() {
		It("applies equal and opposite forces to a pair", func() {
			a := &Particle{Position: Vec2{0, 0}, Pressure: 0.3, NearPressure: 0.2}
			b := &Particle{Position: Vec2{0.05, 0.02}, Pressure: -0.1, NearPressure: 0.4}
			s := New(params, []*Particle{a, b})
			s.densityPass()
			Expect(a.Neighbors).To(HaveLen(1))

			s.pressurePass()
			Expect(a.Force.X).To(Equal(-b.Force.X))
			Expect(a.Force.Y).To(Equal(-b.Force.Y))
			Expect(a.Force.Len()).To(BeNumerically(">", 0))
		})

		It("pushes compressed particles apart", func() {
			a := &Particle{Position: Vec2{0, 0}}
			b := &Particle{Position: Vec2{0.01, 0}}
			s := New(params, []*Particle{a, b})
			s.densityPass()
			a.Pressure, b.Pressure = 1, 1
			s.pressurePass()

			Expect(a.Force.X).To(BeNumerically("<", 0))
			Expect(b.Force.X).To(BeNumerically(">", 0))
		})

		It("conserves total force across a crowd", func() {
			s := New(params, randomParticles(150, 5, params.Gravity))
			s.updatePass(false)
			s.densityPass()
			s.pressureDerivation()

			before := Vec2{}
			for _, p := range s.Particles() {
				before = before.Add(p.Force)
			}
			s.pressurePass()
			after := Vec2{}
			for _, p := range s.Particles() {
				after = after.Add(p.Force)
			}
			Expect(after.X).To(BeNumerically("~", before.X, 1e-12))
			Expect(after.Y).To(BeNumerically("~", before.Y, 1e-12))
		})
	})

	Describe("viscosity pass", func() {
		pair := func(va, vb Vec2) (*Simulation, *Particle, *Particle) {
			a := &Particle{Position: Vec2{0, 0}, Velocity: va}
			b := &Particle{Position: Vec2{0.05, 0}, Velocity: vb}
			s := New(params, []*Particle{a, b})
			s.densityPass()
			return s, a, b
		}

		It("slows approaching particles symmetrically", func() {
			s, a, b := pair(Vec2{0.01, 0}, Vec2{-0.01, 0})
			s.viscosityPass()

			Expect(a.Velocity.X).To(BeNumerically("<", 0.01))
			Expect(b.Velocity.X).To(BeNumerically(">", -0.01))
			Expect(a.Velocity.X + b.Velocity.X).To(BeNumerically("~", 0, 1e-15))
			Expect(a.Velocity.Y).To(BeZero())
		})

		It("leaves separating particles alone", func() {
			s, a, b := pair(Vec2{-0.01, 0}, Vec2{0.01, 0})
			s.viscosityPass()

			Expect(a.Velocity).To(Equal(Vec2{-0.01, 0}))
			Expect(b.Velocity).To(Equal(Vec2{0.01, 0}))
		})
	})

	Describe("container hook", func() {
		It("runs only while the dam flag is set", func() {
			calls := 0
			hook := ContainerFunc(func(p *Particle) { calls++ })
			s := New(params, randomParticles(10, 1, params.Gravity), WithContainer(hook))

			s.Step(false)
			Expect(calls).To(BeZero())
			s.Step(true)
			Expect(calls).To(Equal(10))
		})

		It("tolerates the dam flag without a container", func() {
			s := New(params, randomParticles(10, 1, params.Gravity))
			Expect(func() { s.Step(true) }).NotTo(Panic())
		})
	})

	Describe("mutation hooks", func() {
		It("adds and removes particles between steps", func() {
			s := New(params, randomParticles(5, 2, params.Gravity))
			s.Step(false)

			s.Add(NewParticle(0, 0.2, params.Gravity))
			Expect(s.Len()).To(Equal(6))

			last := s.Particles()[5]
			Expect(s.Remove(0)).To(Succeed())
			Expect(s.Len()).To(Equal(5))
			Expect(s.Particles()[0]).To(BeIdenticalTo(last))

			Expect(func() { s.Step(false) }).NotTo(Panic())
		})

		It("rejects out of range indices", func() {
			s := New(params, randomParticles(2, 2, params.Gravity))
			err := s.Remove(2)
			Expect(errors.Is(err, ErrIndexOutOfRange)).To(BeTrue())
			Expect(errors.Is(s.Remove(-1), ErrIndexOutOfRange)).To(BeTrue())
		})
	})

	Describe("workers", func() {
		It("produces the same frame as a single goroutine", func() {
			serial := New(params, randomParticles(500, 9, params.Gravity))
			parallel := New(params, randomParticles(500, 9, params.Gravity), WithWorkers(4))
			for i := 0; i < 5; i++ {
				serial.Step(false)
				parallel.Step(false)
			}
			Expect(parallel.VisualPositions(nil)).To(Equal(serial.VisualPositions(nil)))
		})
	})

	It("settles a blob without diverging", func() {
		s := New(params, randomParticles(200, 13, params.Gravity), WithNeighborSearch(SearchGrid))
		for i := 0; i < 300; i++ {
			s.Step(false)
		}
		for _, p := range s.Particles() {
			Expect(p.VisualPosition.IsFinite()).To(BeTrue())
			Expect(p.VisualPosition.Sub(params.BoundaryCenter).Len()).To(BeNumerically("<=", params.BoundaryRadius+1e-9))
		}
		Expect(math.IsNaN(s.Particles()[0].Density)).To(BeFalse())
	})
})
