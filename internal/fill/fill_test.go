package fill

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/sph"
)

func TestCircleStaysInside(t *testing.T) {
	ps := Circle(0, 0, 0.5, 0.1, 0.03, 0, 0.005)
	if len(ps) == 0 {
		t.Fatal("expected particles")
	}
	for _, p := range ps {
		if d := p.Position.Len(); d > 0.5 {
			t.Errorf("particle at distance %g outside radius", d)
		}
		if p.Position.Y > 0.1+1e-9 {
			t.Errorf("particle at y=%g above top", p.Position.Y)
		}
		if p.Velocity != (sph.Vec2{}) {
			t.Errorf("expected particle at rest, got %v", p.Velocity)
		}
	}
}

func TestCircleLimit(t *testing.T) {
	ps := Circle(0, 0, 0.5, 0.5, 0.03, 25, 0.005)
	if len(ps) != 25 {
		t.Errorf("expected 25 particles, got %d", len(ps))
	}
}

func TestRect(t *testing.T) {
	ps := Rect(0, 0, 0.1, 0.1, 0.05, 0, 0.005)
	if len(ps) != 9 {
		t.Errorf("expected 3x3 lattice, got %d", len(ps))
	}
	if got := Rect(0, 0, 1, 1, 0, 0, 0); len(got) != 0 {
		t.Errorf("zero spacing should generate nothing, got %d", len(got))
	}
}

func TestJitterDeterministic(t *testing.T) {
	a := Rect(0, 0, 0.1, 0.1, 0.05, 0, 0)
	b := Rect(0, 0, 0.1, 0.1, 0.05, 0, 0)
	Jitter(a, 0.01, rand.New(rand.NewSource(3)))
	Jitter(b, 0.01, rand.New(rand.NewSource(3)))

	for i := range a {
		if a[i].Position != b[i].Position {
			t.Fatalf("particle %d differs: %v vs %v", i, a[i].Position, b[i].Position)
		}
		if a[i].PreviousPosition != a[i].Position {
			t.Errorf("jittered particle %d should start at rest", i)
		}
	}
}

func TestFromConfig(t *testing.T) {
	for _, name := range config.ListPresets() {
		ps, err := FromConfig(config.GetPreset(name))
		if err != nil {
			t.Errorf("preset %s: %v", name, err)
			continue
		}
		if len(ps) == 0 {
			t.Errorf("preset %s: no particles", name)
		}
	}
}

func TestFromConfigEmpty(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Fill.Top = -10

	_, err := FromConfig(cfg)
	if !errors.Is(err, sph.ErrNoParticles) {
		t.Errorf("expected ErrNoParticles, got %v", err)
	}
}
