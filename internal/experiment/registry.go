package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/sphfluid/internal/metrics"
	"github.com/san-kum/sphfluid/internal/sim"
	"github.com/san-kum/sphfluid/internal/sph"
)

// Registry maps metric names to constructors. Metrics are stateful, so each
// lookup returns a fresh instance.
type Registry struct {
	metrics map[string]func(sph.Params) sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func(sph.Params) sim.Metric),
	}

	r.metrics["kinetic_energy"] = func(sph.Params) sim.Metric { return metrics.NewKineticEnergy() }
	r.metrics["max_speed"] = func(sph.Params) sim.Metric { return metrics.NewMaxSpeed() }
	r.metrics["mean_density"] = func(sph.Params) sim.Metric { return metrics.NewMeanDensity() }
	r.metrics["stability"] = func(p sph.Params) sim.Metric { return metrics.NewStability(p.MaxVelocity) }
	r.metrics["containment"] = func(p sph.Params) sim.Metric { return metrics.NewContainment(p) }

	return r
}

func (r *Registry) GetMetric(name string, params sph.Params) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(params), nil
}

// Metrics resolves names in order; an empty list means every metric.
func (r *Registry) Metrics(names []string, params sph.Params) ([]sim.Metric, error) {
	if len(names) == 0 {
		return r.DefaultMetrics(params), nil
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		m, err := r.GetMetric(name, params)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(params sph.Params) []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name](params))
	}
	return out
}
