package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/fill"
	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
)

// Experiment is one configured run: fill, fluid, metrics.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Build creates the fluid cfg describes, with the dam wall installed at
// cfg.Run.DamX. The config is validated first.
func Build(cfg *config.Config) (*sph.Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	particles, err := fill.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return sph.New(cfg.Physics, particles,
		sph.WithNeighborSearch(cfg.Search()),
		sph.WithWorkers(cfg.Run.Workers),
		sph.WithContainer(DamWall(cfg.Run.DamX, cfg.Physics.WallDamping)),
	), nil
}

// EnsembleJitter is the fill jitter, as a fraction of the fill spacing,
// that Builder applies to configs without any. The seed only reaches the
// fill through jitter, so a bare lattice would make every run identical.
const EnsembleJitter = 0.05

// Builder returns a sim.Builder that copies cfg and overrides the seed.
func Builder(cfg *config.Config) sim.Builder {
	return func(seed int64) (*sph.Simulation, error) {
		c := *cfg
		c.Run.Seed = seed
		if c.Fill.Jitter == 0 {
			c.Fill.Jitter = EnsembleJitter * c.Fill.Spacing
		}
		return Build(&c)
	}
}

// SimConfig maps the run section onto the simulator's settings.
func SimConfig(cfg *config.Config) sim.Config {
	return sim.Config{
		Frames:      cfg.Run.Frames,
		SampleEvery: cfg.Run.SampleEvery,
		Dam:         cfg.Run.Dam,
		DamBreak:    cfg.Run.DamBreak,
	}
}

func (e *Experiment) Setup(metrics []sim.Metric) error {
	fluid, err := Build(e.cfg)
	if err != nil {
		return err
	}
	e.simulator = sim.New(fluid)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, SimConfig(e.cfg))
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
