package config

import "sort"

// Presets holds named starting points. GetPreset returns a copy, so callers
// may modify the result.
var Presets = map[string]func() *Config{
	"circle": func() *Config {
		c := DefaultConfig()
		c.Name = "circle"
		return c
	},
	"dam-break": func() *Config {
		c := DefaultConfig()
		c.Name = "dam-break"
		c.Fill.Shape = "rect"
		c.Fill.Count = 300
		c.Run.Dam = true
		c.Run.DamBreak = DefaultDamBreak
		return c
	},
	"drizzle": func() *Config {
		c := DefaultConfig()
		c.Name = "drizzle"
		c.Fill.Count = 80
		c.Fill.Top = -0.2
		c.Fill.Jitter = 0.005
		c.Physics.Gravity *= 0.5
		return c
	},
	"viscous": func() *Config {
		c := DefaultConfig()
		c.Name = "viscous"
		c.Physics.ViscositySigma = 0.8
		c.Physics.MaxVelocity = 0.5
		c.Run.Frames = 900
		return c
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
