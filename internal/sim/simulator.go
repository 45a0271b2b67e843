package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/sphfluid/internal/sph"
)

// Simulator drives an sph.Simulation for a fixed number of frames, sampling
// visual positions and feeding metrics and observers between steps.
type Simulator struct {
	fluid     *sph.Simulation
	metrics   []Metric
	observers []Observer
}

func New(fluid *sph.Simulation) *Simulator {
	return &Simulator{
		fluid:     fluid,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Fluid() *sph.Simulation { return s.fluid }

// Run steps the fluid cfg.Frames times. The context is checked between
// frames only; a step is never interrupted halfway.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.Frames/cfg.SampleEvery+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, s.snapshot())

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		s.fluid.Step(cfg.DamActive(s.fluid.Frame()))
		result.StepsTaken++

		if err := checkFinite(s.fluid); err != nil {
			result.Errors = append(result.Errors, err)
			break
		}

		for _, m := range s.metrics {
			m.Observe(s.fluid.Particles(), s.fluid.Frame())
		}
		for _, obs := range s.observers {
			obs.OnFrame(s.fluid.Frame(), s.fluid)
		}

		if (i+1)%cfg.SampleEvery == 0 {
			result.Frames = append(result.Frames, s.snapshot())
		}
	}

	s.collect(result)
	return result, nil
}

// RunWithCallback steps until the context ends or fn returns false. fn runs
// between steps, so it may add or remove particles.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, fn func(frame int, fluid *sph.Simulation) bool) error {
	for cfg.Frames <= 0 || s.fluid.Frame() < cfg.Frames {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !fn(s.fluid.Frame(), s.fluid) {
			return nil
		}

		s.fluid.Step(cfg.DamActive(s.fluid.Frame()))

		if err := checkFinite(s.fluid); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) snapshot() Frame {
	return Frame{Index: s.fluid.Frame(), Positions: s.fluid.VisualPositions(nil)}
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.SampleEvery <= 0 {
		return fmt.Errorf("sample_every must be positive, got %d", cfg.SampleEvery)
	}
	return nil
}

func checkFinite(fluid *sph.Simulation) error {
	for i, p := range fluid.Particles() {
		if !p.VisualPosition.IsFinite() {
			return FrameError{Frame: fluid.Frame(), Particle: i, Message: "invalid position (NaN/Inf)"}
		}
	}
	return nil
}
