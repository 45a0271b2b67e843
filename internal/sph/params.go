package sph

import (
	"fmt"
	"sort"
)

// Params is the fixed-for-the-run physics bundle.
type Params struct {
	Gravity           float64 `yaml:"gravity" json:"gravity"`
	InteractionRadius float64 `yaml:"interaction_radius" json:"interaction_radius"`
	RestDensity       float64 `yaml:"rest_density" json:"rest_density"`
	Stiffness         float64 `yaml:"stiffness" json:"stiffness"`
	NearStiffness     float64 `yaml:"near_stiffness" json:"near_stiffness"`
	ViscositySigma    float64 `yaml:"viscosity_sigma" json:"viscosity_sigma"`
	MaxVelocity       float64 `yaml:"max_velocity" json:"max_velocity"`
	VelocityDamping   float64 `yaml:"velocity_damping" json:"velocity_damping"`
	WallDamping       float64 `yaml:"wall_damping" json:"wall_damping"`
	BoundaryRadius    float64 `yaml:"boundary_radius" json:"boundary_radius"`
	BoundaryCenter    Vec2    `yaml:"boundary_center" json:"boundary_center"`
}

const (
	DefaultSpacing = 0.10

	DefaultGravity         = 0.02 * 0.25
	DefaultStiffness       = DefaultSpacing / 1000.0
	DefaultNearStiffness   = DefaultStiffness * 10
	DefaultRestDensity     = 2.0
	DefaultRadius          = DefaultSpacing * 1.5
	DefaultViscositySigma  = 0.2
	DefaultMaxVelocity     = 1.5
	DefaultWallDamping     = 0.05
	DefaultVelocityDamping = 0.5
	DefaultBoundaryRadius  = 0.5
)

// DefaultParams returns a small, stable container of water in a unit-ish
// circle. Units are simulation units per frame.
func DefaultParams() Params {
	return Params{
		Gravity:           DefaultGravity,
		InteractionRadius: DefaultRadius,
		RestDensity:       DefaultRestDensity,
		Stiffness:         DefaultStiffness,
		NearStiffness:     DefaultNearStiffness,
		ViscositySigma:    DefaultViscositySigma,
		MaxVelocity:       DefaultMaxVelocity,
		VelocityDamping:   DefaultVelocityDamping,
		WallDamping:       DefaultWallDamping,
		BoundaryRadius:    DefaultBoundaryRadius,
	}
}

// Validate rejects bundles that would divide by zero or diverge. Step never
// validates; call this once before a run.
func (p Params) Validate() error {
	fields := p.GetParams()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !isFinite(fields[k]) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidParams, k)
		}
	}

	switch {
	case p.InteractionRadius <= 0:
		return fmt.Errorf("%w: interaction_radius must be positive, got %g", ErrInvalidParams, p.InteractionRadius)
	case p.BoundaryRadius <= 0:
		return fmt.Errorf("%w: boundary_radius must be positive, got %g", ErrInvalidParams, p.BoundaryRadius)
	case p.Stiffness < 0 || p.NearStiffness < 0:
		return fmt.Errorf("%w: stiffness must be non-negative", ErrInvalidParams)
	case p.ViscositySigma < 0:
		return fmt.Errorf("%w: viscosity_sigma must be non-negative, got %g", ErrInvalidParams, p.ViscositySigma)
	case p.MaxVelocity <= 0:
		return fmt.Errorf("%w: max_velocity must be positive, got %g", ErrInvalidParams, p.MaxVelocity)
	case p.VelocityDamping <= 0 || p.VelocityDamping >= 1:
		return fmt.Errorf("%w: velocity_damping must be in (0, 1), got %g", ErrInvalidParams, p.VelocityDamping)
	case p.WallDamping < 0:
		return fmt.Errorf("%w: wall_damping must be non-negative, got %g", ErrInvalidParams, p.WallDamping)
	}
	return nil
}

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity":            p.Gravity,
		"interaction_radius": p.InteractionRadius,
		"rest_density":       p.RestDensity,
		"stiffness":          p.Stiffness,
		"near_stiffness":     p.NearStiffness,
		"viscosity_sigma":    p.ViscositySigma,
		"max_velocity":       p.MaxVelocity,
		"velocity_damping":   p.VelocityDamping,
		"wall_damping":       p.WallDamping,
		"boundary_radius":    p.BoundaryRadius,
		"boundary_cx":        p.BoundaryCenter.X,
		"boundary_cy":        p.BoundaryCenter.Y,
	}
}

// SetParam updates a single named parameter.
func (p *Params) SetParam(name string, v float64) error {
	switch name {
	case "gravity":
		p.Gravity = v
	case "interaction_radius":
		p.InteractionRadius = v
	case "rest_density":
		p.RestDensity = v
	case "stiffness":
		p.Stiffness = v
	case "near_stiffness":
		p.NearStiffness = v
	case "viscosity_sigma":
		p.ViscositySigma = v
	case "max_velocity":
		p.MaxVelocity = v
	case "velocity_damping":
		p.VelocityDamping = v
	case "wall_damping":
		p.WallDamping = v
	case "boundary_radius":
		p.BoundaryRadius = v
	case "boundary_cx":
		p.BoundaryCenter.X = v
	case "boundary_cy":
		p.BoundaryCenter.Y = v
	default:
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidParams, name)
	}
	return nil
}
