package automation

import (
	"context"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/sphfluid/internal/config"
	"github.com/san-kum/sphfluid/internal/experiment"
	"github.com/san-kum/sphfluid/internal/sim"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset plus overrides.
type ScenarioStep struct {
	Preset         string             `yaml:"preset"`
	Frames         int                `yaml:"frames"`
	Count          int                `yaml:"count"`
	Seed           int64              `yaml:"seed"`
	NeighborSearch string             `yaml:"neighbor_search"`
	Dam            *bool              `yaml:"dam"`
	Params         map[string]float64 `yaml:"params"`
	SaveAs         string             `yaml:"save_as"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step against its preset. Zero fields keep the
// preset's value.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = "circle"
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}

	if s.Frames > 0 {
		cfg.Run.Frames = s.Frames
	}
	if s.Count > 0 {
		cfg.Fill.Count = s.Count
	}
	if s.Seed != 0 {
		cfg.Run.Seed = s.Seed
	}
	if s.NeighborSearch != "" {
		cfg.Run.NeighborSearch = s.NeighborSearch
	}
	if s.Dam != nil {
		cfg.Run.Dam = *s.Dam
	}
	for k, v := range s.Params {
		if err := cfg.Physics.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, cfg.Validate()
}

// StepResult is one finished scenario step.
type StepResult struct {
	Config *config.Config
	Result *sim.Result
}

// RunScenario executes all steps in a scenario
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Printf("Running step %d/%d: %s\n", i+1, len(scenario.Steps), cfg.Name)

		exp := experiment.New(cfg)
		if err := exp.Setup(registry.DefaultMetrics(cfg.Physics)); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep runs the base scenario across evenly spaced values of one
// physics parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Diverged   bool
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *sweep.Base
		if err := cfg.Physics.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(&cfg)
		if err := exp.Setup(registry.DefaultMetrics(cfg.Physics)); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		diverged := len(result.Errors) > 0
		for _, v := range result.Metrics {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				diverged = true
			}
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Diverged:   diverged,
		})

		fmt.Printf("Sweep %d/%d: %s=%.4g\n", i+1, sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}
