package optim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/experiment"
	"github.com/san-kum/sphfluid/internal/sim"
)

func baseConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Fill.Count = 30
	cfg.Run.Frames = 10
	return cfg
}

func runOne(t *testing.T, reg *experiment.Registry, sigma, vmax float64) float64 {
	t.Helper()
	cfg := baseConfig()
	cfg.Physics.ViscositySigma = sigma
	cfg.Physics.MaxVelocity = vmax
	m, _ := reg.GetMetric("max_speed", cfg.Physics)
	exp := experiment.New(cfg)
	if err := exp.Setup([]sim.Metric{m}); err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return res.Metrics["max_speed"]
}

func TestGridSearchFindsMinimum(t *testing.T) {
	reg := experiment.NewRegistry()
	sigmas := []float64{0, 0.5}
	vmaxes := []float64{0.01, 1.5}

	want := math.Inf(1)
	for _, s := range sigmas {
		for _, v := range vmaxes {
			want = math.Min(want, runOne(t, reg, s, v))
		}
	}

	g := NewGridSearch([]string{"viscosity_sigma", "max_velocity"}, [][]float64{sigmas, vmaxes})
	params, best, err := g.Search(context.Background(), baseConfig(), reg, "max_speed")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if best != want {
		t.Errorf("expected best %g, got %g", want, best)
	}
	if len(params) != 2 {
		t.Errorf("expected both parameters in result, got %v", params)
	}
	if got := runOne(t, reg, params["viscosity_sigma"], params["max_velocity"]); got != best {
		t.Errorf("best params reproduce %g, reported %g", got, best)
	}
}

func TestGridSearchErrors(t *testing.T) {
	reg := experiment.NewRegistry()
	g := NewGridSearch([]string{"viscosity_sigma"}, [][]float64{{0.1}})

	if _, _, err := g.Search(context.Background(), baseConfig(), reg, "entropy"); err == nil {
		t.Error("expected error for unknown metric")
	}

	bad := NewGridSearch([]string{"interaction_radius"}, [][]float64{{-1}})
	params, best, err := bad.Search(context.Background(), baseConfig(), reg, "max_speed")
	if err != nil {
		t.Fatalf("invalid combinations should be skipped, got %v", err)
	}
	if params != nil || !math.IsInf(best, 1) {
		t.Errorf("expected no result, got %v %g", params, best)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := g.Search(ctx, baseConfig(), reg, "max_speed"); err == nil {
		t.Error("expected context error")
	}
}
