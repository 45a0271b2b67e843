package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/sphfluid/internal/sph"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFrames      = 600
	DefaultCount       = 250
	DefaultFillTop     = 0.1
	DefaultFillSpacing = 0.03
	DefaultDamBreak    = 200
	DefaultDamX        = -0.1
	DefaultSampleEvery = 1
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name    string     `yaml:"name,omitempty"`
	Physics sph.Params `yaml:"physics"`
	Fill    FillConfig `yaml:"fill"`
	Run     RunConfig  `yaml:"run"`
}

// FillConfig describes the initial particle packing.
type FillConfig struct {
	Shape   string     `yaml:"shape"` // circle | rect
	Count   int        `yaml:"count"`
	Spacing float64    `yaml:"spacing"`
	Top     float64    `yaml:"top"`
	Jitter  float64    `yaml:"jitter"`
	Rect    RectConfig `yaml:"rect"`
}

type RectConfig struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

type RunConfig struct {
	Frames         int     `yaml:"frames"`
	Seed           int64   `yaml:"seed"`
	Workers        int     `yaml:"workers"`
	NeighborSearch string  `yaml:"neighbor_search"`
	Dam            bool    `yaml:"dam"`
	DamX           float64 `yaml:"dam_x"`
	DamBreak       int     `yaml:"dam_break"`
	SampleEvery    int     `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Physics: sph.DefaultParams(),
		Fill: FillConfig{
			Shape:   "circle",
			Count:   DefaultCount,
			Spacing: DefaultFillSpacing,
			Top:     DefaultFillTop,
			Rect: RectConfig{
				MinX: -0.45, MinY: -0.3,
				MaxX: -0.15, MaxY: 0.2,
			},
		},
		Run: RunConfig{
			Frames:         DefaultFrames,
			Seed:           1,
			Workers:        1,
			NeighborSearch: "grid",
			DamX:           DefaultDamX,
			DamBreak:       DefaultDamBreak,
			SampleEvery:    DefaultSampleEvery,
		},
	}
}

// Load reads a yaml file on top of the defaults, so partial files are fine.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if err := c.Physics.Validate(); err != nil {
		return err
	}
	if _, ok := sph.ParseNeighborSearch(c.Run.NeighborSearch); !ok {
		return fmt.Errorf("%w: unknown neighbor_search %q", ErrInvalidConfig, c.Run.NeighborSearch)
	}
	switch {
	case c.Run.Frames <= 0:
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, c.Run.Frames)
	case c.Run.SampleEvery <= 0:
		return fmt.Errorf("%w: sample_every must be positive, got %d", ErrInvalidConfig, c.Run.SampleEvery)
	case math.IsNaN(c.Run.DamX) || math.Abs(c.Run.DamX-c.Physics.BoundaryCenter.X) >= c.Physics.BoundaryRadius:
		return fmt.Errorf("%w: dam_x %g is outside the container", ErrInvalidConfig, c.Run.DamX)
	case c.Run.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	case c.Fill.Count < 0:
		return fmt.Errorf("%w: fill count must not be negative", ErrInvalidConfig)
	case c.Fill.Spacing <= 0:
		return fmt.Errorf("%w: fill spacing must be positive, got %g", ErrInvalidConfig, c.Fill.Spacing)
	case c.Fill.Shape != "circle" && c.Fill.Shape != "rect":
		return fmt.Errorf("%w: unknown fill shape %q", ErrInvalidConfig, c.Fill.Shape)
	}
	return nil
}

// Search returns the neighbor search strategy; Validate has already
// rejected unknown names.
func (c *Config) Search() sph.NeighborSearch {
	s, _ := sph.ParseNeighborSearch(c.Run.NeighborSearch)
	return s
}
