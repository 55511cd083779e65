package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/dropsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Stepper.Dt != 1.0/60.0 {
		t.Errorf("expected dt 1/60, got %f", cfg.Stepper.Dt)
	}
	if cfg.Stepper.VelocityIterations != 6 || cfg.Stepper.PositionIterations != 2 {
		t.Errorf("expected 6/2 iterations, got %d/%d", cfg.Stepper.VelocityIterations, cfg.Stepper.PositionIterations)
	}
	if cfg.Spawn.MinInterval != 100*time.Millisecond {
		t.Errorf("expected 100ms interval, got %v", cfg.Spawn.MinInterval)
	}
	if cfg.Spawn.Position != dynamo.V(0, 1) {
		t.Errorf("expected spawn at (0,1), got %v", cfg.Spawn.Position)
	}
	if cfg.Camera2D().VisibilityBound() != -3 {
		t.Errorf("expected visibility bound -3, got %f", cfg.Camera2D().VisibilityBound())
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	doc := `
name: custom
spawn:
  min_interval: 250ms
  radius: 0.2
stepper:
  mode: accumulator
run:
  triggers:
    - {from: 1s, to: 2s}
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Name != "custom" || cfg.Spawn.MinInterval != 250*time.Millisecond || cfg.Spawn.Radius != 0.2 {
		t.Errorf("expected overrides applied, got %+v", cfg.Spawn)
	}
	if cfg.Spawn.Material.Density != DefaultDensity {
		t.Errorf("expected untouched density default, got %f", cfg.Spawn.Material.Density)
	}
	if cfg.Stepper.Dt != 1.0/60.0 {
		t.Errorf("expected default dt kept, got %f", cfg.Stepper.Dt)
	}
	if len(cfg.Run.Triggers) != 1 || cfg.Run.Triggers[0].From != time.Second {
		t.Errorf("expected one trigger window from 1s, got %+v", cfg.Run.Triggers)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := GetPreset("bursts")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Name != "bursts" || len(got.Run.Triggers) != 3 || got.Spawn.MinInterval != cfg.Spawn.MinInterval {
		t.Errorf("expected bursts preset back, got %+v", got.Run)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Stepper.Dt = 0 }},
		{"zero iterations", func(c *Config) { c.Stepper.PositionIterations = 0 }},
		{"bad mode", func(c *Config) { c.Stepper.Mode = "variable" }},
		{"zero radius", func(c *Config) { c.Spawn.Radius = 0 }},
		{"friction above one", func(c *Config) { c.Spawn.Material.Friction = 1.1 }},
		{"negative restitution", func(c *Config) { c.Spawn.Material.Restitution = -0.1 }},
		{"zero density", func(c *Config) { c.Spawn.Material.Density = 0 }},
		{"negative interval", func(c *Config) { c.Spawn.MinInterval = -time.Millisecond }},
		{"flat viewport", func(c *Config) { c.Camera.Height = 0 }},
		{"zero scale", func(c *Config) { c.Primary.Scale = 0 }},
		{"kinematic primary", func(c *Config) { c.Primary.Type = "kinematic" }},
		{"inverted window", func(c *Config) { c.Run.Triggers = []TriggerWindow{{From: 2 * time.Second, To: time.Second}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("drizzle")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Spawn.MinInterval != 400*time.Millisecond {
		t.Errorf("expected 400ms, got %v", cfg.Spawn.MinInterval)
	}

	// Presets hand out fresh copies.
	cfg.Spawn.Radius = 9
	if GetPreset("drizzle").Spawn.Radius == 9 {
		t.Error("expected preset mutation not to leak")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != len(Presets) {
		t.Errorf("expected %d presets, got %d", len(Presets), len(presets))
	}
	for _, name := range presets {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", name, err)
		}
	}
}
