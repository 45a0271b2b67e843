package main

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestParseGrid(t *testing.T) {
	names, ranges, err := parseGrid([]string{"viscosity_sigma=0,0.5, 1", "stiffness=1e-4"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(names) != 2 || names[0] != "viscosity_sigma" || names[1] != "stiffness" {
		t.Errorf("unexpected names %v", names)
	}
	if len(ranges[0]) != 3 || ranges[0][2] != 1 || ranges[1][0] != 1e-4 {
		t.Errorf("unexpected ranges %v", ranges)
	}

	for _, bad := range []string{"novalues", "=1,2", "gravity=", "gravity=a,b"} {
		if _, _, err := parseGrid([]string{bad}); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	scenarioFlags(cmd)
	if err := cmd.ParseFlags([]string{"--preset", "dam-break", "--frames", "12", "--search", "naive"}); err != nil {
		t.Fatal(err)
	}
	defer func() { preset = "" }()

	cfg, err := loadConfig(cmd)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Name != "dam-break" || !cfg.Run.Dam {
		t.Errorf("preset not applied: %+v", cfg.Run)
	}
	if cfg.Run.Frames != 12 || cfg.Run.NeighborSearch != "naive" {
		t.Errorf("flags not applied: %+v", cfg.Run)
	}
	if cfg.Fill.Count != 300 {
		t.Errorf("unset flags should keep the preset's count, got %d", cfg.Fill.Count)
	}
}

func TestLoadConfigUnknownPreset(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	scenarioFlags(cmd)
	if err := cmd.ParseFlags([]string{"--preset", "lake"}); err != nil {
		t.Fatal(err)
	}
	defer func() { preset = "" }()

	if _, err := loadConfig(cmd); err == nil {
		t.Error("expected error for unknown preset")
	}
}
