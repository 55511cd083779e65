package config

import (
	"sort"
	"time"

	"github.com/san-kum/dropsim/internal/dynamo"
)

var Presets = map[string]func() *Config{
	"default": DefaultConfig,
	"drizzle": func() *Config {
		c := DefaultConfig()
		c.Name = "drizzle"
		c.Spawn.MinInterval = 400 * time.Millisecond
		c.Run.Frames = 900
		c.Run.Triggers = []TriggerWindow{{From: 0, To: 12 * time.Second}}
		return c
	},
	"downpour": func() *Config {
		c := DefaultConfig()
		c.Name = "downpour"
		c.Spawn.MinInterval = 20 * time.Millisecond
		c.Spawn.Radius = 0.05
		c.Run.Frames = 1200
		c.Run.Triggers = []TriggerWindow{{From: 0, To: 10 * time.Second}}
		return c
	},
	"bursts": func() *Config {
		c := DefaultConfig()
		c.Name = "bursts"
		c.Run.Frames = 900
		c.Run.Triggers = []TriggerWindow{
			{From: 0, To: time.Second},
			{From: 4 * time.Second, To: 5 * time.Second},
			{From: 9 * time.Second, To: 10 * time.Second},
		}
		return c
	},
	"freefall": func() *Config {
		c := DefaultConfig()
		c.Name = "freefall"
		c.Primary.Type = "dynamic"
		c.Primary.Position = dynamo.V(0, -1)
		c.Run.Frames = 300
		return c
	},
	"smooth": func() *Config {
		c := DefaultConfig()
		c.Name = "smooth"
		c.Stepper.Mode = "accumulator"
		c.Stepper.Dt = 1.0 / 120
		return c
	},
}

// GetPreset returns a fresh copy of the named preset, or nil.
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
