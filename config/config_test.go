package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/pasture/debugtree"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.World.Size != 1024 {
		t.Errorf("expected world size 1024, got %v", cfg.World.Size)
	}
	if cfg.Derived.WorldSize32 != 1024 {
		t.Errorf("expected derived world size 1024, got %v", cfg.Derived.WorldSize32)
	}
	if cfg.Derived.Capacities != [3]int{64, 512, 256} {
		t.Errorf("unexpected capacities %v", cfg.Derived.Capacities)
	}
	if cfg.Derived.Overlay != debugtree.ModeOff {
		t.Errorf("expected overlay off, got %v", cfg.Derived.Overlay)
	}
	if !cfg.Camera.Tracking.SubstituteHover {
		t.Error("expected hover substitution on by default")
	}
}

func TestDefaultCapacitiesCoverPopulationCaps(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.World.MaxPredators >= cfg.Pools.Predator || cfg.World.MaxPrey >= cfg.Pools.Prey ||
		cfg.World.MaxForage >= cfg.Pools.Forage {
		t.Errorf("population caps %d/%d/%d must stay below pool capacities %+v",
			cfg.World.MaxPredators, cfg.World.MaxPrey, cfg.World.MaxForage, cfg.Pools)
	}
}

func TestLoadOverridesOnlyGivenFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("pools:\n  prey: 10\ndebug:\n  overlay: tree\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Pools.Prey != 10 {
		t.Errorf("expected prey capacity 10, got %d", cfg.Pools.Prey)
	}
	if cfg.Pools.Predator != 64 {
		t.Errorf("expected predator capacity to keep default 64, got %d", cfg.Pools.Predator)
	}
	if cfg.Derived.Overlay != debugtree.ModeTree {
		t.Errorf("expected tree overlay, got %v", cfg.Derived.Overlay)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.Pools.Forage = 0 }},
		{"zero window", func(c *Config) { c.Stats.Window = 0 }},
		{"negative world", func(c *Config) { c.World.Size = -1 }},
		{"inverted zoom", func(c *Config) { c.Camera.Tracking.MinZoom, c.Camera.Tracking.MaxZoom = 3, 1 }},
		{"inverted distance", func(c *Config) { c.Camera.Orbit.MinDistance = 1000 }},
		{"bad overlay", func(c *Config) { c.Debug.Overlay = "sparkles" }},
		{"far before near", func(c *Config) { c.Camera.Far = 0.01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSetOverlay(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetOverlay("leaves"); err != nil {
		t.Fatal(err)
	}
	if cfg.Derived.Overlay != debugtree.ModeLeaves || cfg.Debug.Overlay != "leaves" {
		t.Errorf("overlay not applied: %q %v", cfg.Debug.Overlay, cfg.Derived.Overlay)
	}
	if err := cfg.SetOverlay("nope"); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestWriteYAMLReloads(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Pools.Prey = 77

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if again.Pools.Prey != 77 {
		t.Errorf("expected prey capacity 77, got %d", again.Pools.Prey)
	}
}
