package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.DT != 0.005 {
		t.Errorf("dt = %v, want 0.005", cfg.Physics.DT)
	}
	if cfg.Derived.TicksPerWindow != 2000 {
		t.Errorf("ticks per window = %v, want 2000", cfg.Derived.TicksPerWindow)
	}
	if got := len(cfg.Sea.Flow.Depths); got != 8 {
		t.Errorf("flow depths = %d, want 8", got)
	}
	if got := len(cfg.Sea.Temperature); got != 7 {
		t.Errorf("temperature points = %d, want 7", got)
	}
	if cfg.Ship.Engine.Max != 5000000 || !cfg.Ship.Rudder.ReturnToZero {
		t.Errorf("ship spec not loaded: %+v", cfg.Ship)
	}
	if cfg.Submarine.DiveDepth != 10 || cfg.Submarine.Battery.Capacity != 10000 {
		t.Errorf("submarine spec not loaded: %+v", cfg.Submarine)
	}
}

func TestLoad_UserFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("physics:\n  dt: 0.01\nsubmarine:\n  dive_depth: 25\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.DT != 0.01 || cfg.Submarine.DiveDepth != 25 {
		t.Errorf("overrides not applied: dt %v dive depth %v", cfg.Physics.DT, cfg.Submarine.DiveDepth)
	}
	if cfg.Submarine.MaxDensity != 1300 {
		t.Errorf("untouched field lost its default: %v", cfg.Submarine.MaxDensity)
	}
	if cfg.Derived.TicksPerWindow != 1000 {
		t.Errorf("derived values not recomputed: %v", cfg.Derived.TicksPerWindow)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file accepted")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("physics:\n  dt: 0\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("zero dt accepted")
	}

	os.WriteFile(path, []byte("bubbles:\n  max_surface_radius: 0\n"), 0644)
	if _, err := Load(path); err == nil {
		t.Error("zero bubble surface radius accepted")
	}
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if again.Sea.Flow.Surface[0] != cfg.Sea.Flow.Surface[0] || again.Enemy != cfg.Enemy {
		t.Error("written config does not reload to the same values")
	}
}

func TestCfgAfterInit(t *testing.T) {
	MustInit("")
	if Cfg().World.InitialEnemies != 10 {
		t.Errorf("initial enemies = %v", Cfg().World.InitialEnemies)
	}
}
