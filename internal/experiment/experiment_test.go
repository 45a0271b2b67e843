package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Fill.Count = 40
	cfg.Run.Frames = 20
	cfg.Run.SampleEvery = 5
	return cfg
}

func TestExperimentRun(t *testing.T) {
	cfg := smallConfig()
	exp := New(cfg)

	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}

	if err := exp.Setup(NewRegistry().DefaultMetrics(cfg.Physics)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 20 {
		t.Errorf("expected 20 steps, got %d", result.StepsTaken)
	}
	// initial frame plus one every five steps
	if len(result.Frames) != 5 {
		t.Errorf("expected 5 sampled frames, got %d", len(result.Frames))
	}
	if len(result.Metrics) != 5 {
		t.Errorf("expected every metric recorded, got %v", result.Metrics)
	}
	if exp.GetSimulator().Fluid().Len() != 40 {
		t.Errorf("expected 40 particles, got %d", exp.GetSimulator().Fluid().Len())
	}
}

func TestBuildRejectsInvalid(t *testing.T) {
	cfg := smallConfig()
	cfg.Physics.InteractionRadius = -1
	if _, err := Build(cfg); !errors.Is(err, sph.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}

	cfg = smallConfig()
	cfg.Fill.Top = -10
	if _, err := Build(cfg); !errors.Is(err, sph.ErrNoParticles) {
		t.Errorf("expected ErrNoParticles for an empty fill, got %v", err)
	}
}

func TestBuilderOverridesSeed(t *testing.T) {
	cfg := smallConfig()
	cfg.Fill.Jitter = 0.005
	build := Builder(cfg)

	a, err := build(1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := build(2)
	if err != nil {
		t.Fatal(err)
	}
	again, err := build(1)
	if err != nil {
		t.Fatal(err)
	}

	if a.Particles()[0].Position == b.Particles()[0].Position {
		t.Error("different seeds should jitter differently")
	}
	if a.Particles()[0].Position != again.Particles()[0].Position {
		t.Error("same seed should reproduce the fill")
	}
	if cfg.Run.Seed != 1 {
		t.Error("builder must not modify the shared config")
	}
}

func TestBuilderJittersBareLattice(t *testing.T) {
	cfg := smallConfig()
	cfg.Fill.Jitter = 0
	build := Builder(cfg)

	a, err := build(1)
	if err != nil {
		t.Fatal(err)
	}
	b, err := build(2)
	if err != nil {
		t.Fatal(err)
	}

	same := true
	for i := range a.Particles() {
		if a.Particles()[i].Position != b.Particles()[i].Position {
			same = false
			break
		}
	}
	if same {
		t.Error("seeds should give different fills even without configured jitter")
	}
	if cfg.Fill.Jitter != 0 {
		t.Error("builder must not modify the shared config")
	}
}

func TestEnsembleSeedsDiffer(t *testing.T) {
	cfg := smallConfig()
	reg := NewRegistry()
	ens := sim.NewEnsemble(Builder(cfg), func() []sim.Metric { return reg.DefaultMetrics(cfg.Physics) }, 2, 1)

	results, err := ens.Run(context.Background(), SimConfig(cfg))
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if results[0].Metrics["kinetic_energy"] == results[1].Metrics["kinetic_energy"] {
		t.Errorf("runs with different seeds should not be identical: %v", results[0].Metrics)
	}
}

func TestEnsemble(t *testing.T) {
	cfg := smallConfig()
	reg := NewRegistry()
	ens := sim.NewEnsemble(Builder(cfg), func() []sim.Metric { return reg.DefaultMetrics(cfg.Physics) }, 3, 10)

	results, err := ens.Run(context.Background(), SimConfig(cfg))
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != cfg.Run.Frames {
			t.Errorf("run %d took %d steps", i, r.StepsTaken)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	params := sph.DefaultParams()

	names := r.ListMetrics()
	if len(names) != 5 {
		t.Fatalf("expected 5 metrics, got %v", names)
	}

	ms, err := r.Metrics([]string{"max_speed", "stability"}, params)
	if err != nil {
		t.Fatal(err)
	}
	if len(ms) != 2 || ms[0].Name() != "max_speed" || ms[1].Name() != "stability" {
		t.Errorf("metrics not resolved in order: %v", ms)
	}

	if _, err := r.GetMetric("entropy", params); err == nil {
		t.Error("expected error for unknown metric")
	}

	seen := map[string]bool{}
	for _, m := range r.DefaultMetrics(params) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != len(names) {
		t.Errorf("defaults should cover every metric, got %v", seen)
	}

	// fresh instances per lookup
	a, _ := r.GetMetric("kinetic_energy", params)
	b, _ := r.GetMetric("kinetic_energy", params)
	if a == b {
		t.Error("lookups should not share metric state")
	}
}
