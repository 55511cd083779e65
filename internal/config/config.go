package config

import (
	"fmt"
	"os"
	"time"

	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/physics"
	"github.com/san-kum/dropsim/internal/spawn"
	"github.com/san-kum/dropsim/internal/stepper"
	"github.com/san-kum/dropsim/internal/xform"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGravityY      = -10.0
	DefaultSpawnInterval = 100 * time.Millisecond
	DefaultSpawnY        = 1.0
	DefaultRadius        = 0.1
	DefaultDensity       = 0.5
	DefaultFriction      = 0.4
	DefaultRestitution   = 0.6
	DefaultViewWidth     = 4.8
	DefaultViewHeight    = 6.0
	DefaultPixelsPerUnit = 100.0
	DefaultBottleScale   = 2.0
	DefaultBottleY       = -2.8
	DefaultFrames        = 600
)

type Config struct {
	Name    string        `yaml:"name"`
	World   WorldConfig   `yaml:"world"`
	Stepper StepperConfig `yaml:"stepper"`
	Spawn   SpawnConfig   `yaml:"spawn"`
	Camera  CameraConfig  `yaml:"camera"`
	Primary PrimaryConfig `yaml:"primary"`
	Run     RunConfig     `yaml:"run"`
}

type WorldConfig struct {
	Gravity       dynamo.Vec2 `yaml:"gravity"`
	AllowSleeping bool        `yaml:"allow_sleeping"`
}

type StepperConfig struct {
	Dt                 float64 `yaml:"dt"`
	VelocityIterations int     `yaml:"velocity_iterations"`
	PositionIterations int     `yaml:"position_iterations"`
	Mode               string  `yaml:"mode"`
	MaxStepsPerFrame   int     `yaml:"max_steps_per_frame"`
}

type SpawnConfig struct {
	MinInterval time.Duration    `yaml:"min_interval"`
	Position    dynamo.Vec2      `yaml:"position"`
	Radius      float64          `yaml:"radius"`
	Material    physics.Material `yaml:"material"`
}

type CameraConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
}

type PrimaryConfig struct {
	Outline  string           `yaml:"outline"`
	Body     string           `yaml:"body"`
	Scale    float64          `yaml:"scale"`
	Position dynamo.Vec2      `yaml:"position"`
	Type     string           `yaml:"type"`
	Texture  string           `yaml:"texture"`
	Material physics.Material `yaml:"material"`
}

// TriggerWindow holds the trigger down from From until To, measured from
// the start of a headless run.
type TriggerWindow struct {
	From time.Duration `yaml:"from"`
	To   time.Duration `yaml:"to"`
}

type RunConfig struct {
	Frames        int             `yaml:"frames"`
	FrameInterval time.Duration   `yaml:"frame_interval"`
	Triggers      []TriggerWindow `yaml:"triggers"`
}

func DefaultConfig() *Config {
	return &Config{
		Name: "default",
		World: WorldConfig{
			Gravity:       dynamo.V(0, DefaultGravityY),
			AllowSleeping: true,
		},
		Stepper: StepperConfig{
			Dt:                 stepper.DefaultDt,
			VelocityIterations: stepper.DefaultVelocityIterations,
			PositionIterations: stepper.DefaultPositionIterations,
			Mode:               string(stepper.ModeFrame),
			MaxStepsPerFrame:   stepper.DefaultMaxStepsPerFrame,
		},
		Spawn: SpawnConfig{
			MinInterval: DefaultSpawnInterval,
			Position:    dynamo.V(0, DefaultSpawnY),
			Radius:      DefaultRadius,
			Material: physics.Material{
				Density:     DefaultDensity,
				Friction:    DefaultFriction,
				Restitution: DefaultRestitution,
			},
		},
		Camera: CameraConfig{
			Width:         DefaultViewWidth,
			Height:        DefaultViewHeight,
			PixelsPerUnit: DefaultPixelsPerUnit,
		},
		Primary: PrimaryConfig{
			Body:     "bottle",
			Scale:    DefaultBottleScale,
			Position: dynamo.V(0, DefaultBottleY),
			Type:     "static",
			Material: physics.Material{Density: 1, Friction: 0.5, Restitution: 0.1},
		},
		Run: RunConfig{
			Frames:        DefaultFrames,
			FrameInterval: time.Second / 60,
			Triggers:      []TriggerWindow{{From: 0, To: 3 * time.Second}},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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
	if err := c.StepperConfig().Validate(); err != nil {
		return err
	}
	if err := c.SpawnSpec().Validate(); err != nil {
		return err
	}
	if c.Spawn.MinInterval < 0 {
		return fmt.Errorf("spawn interval must not be negative, got %v", c.Spawn.MinInterval)
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return fmt.Errorf("camera viewport must be positive, got %.2fx%.2f", c.Camera.Width, c.Camera.Height)
	}
	if c.Primary.Scale <= 0 {
		return fmt.Errorf("primary scale must be positive, got %f", c.Primary.Scale)
	}
	if _, err := dynamo.ParseBodyType(c.Primary.Type); err != nil {
		return err
	}
	if err := c.Primary.Material.Validate(); err != nil {
		return err
	}
	if c.Run.Frames < 0 || c.Run.FrameInterval < 0 {
		return fmt.Errorf("run frames and interval must not be negative")
	}
	for _, w := range c.Run.Triggers {
		if w.To < w.From {
			return fmt.Errorf("trigger window ends before it starts: %v..%v", w.From, w.To)
		}
	}
	return nil
}

func (c *Config) StepperConfig() stepper.Config {
	return stepper.Config{
		Dt:                 c.Stepper.Dt,
		VelocityIterations: c.Stepper.VelocityIterations,
		PositionIterations: c.Stepper.PositionIterations,
		Mode:               stepper.Mode(c.Stepper.Mode),
		MaxStepsPerFrame:   c.Stepper.MaxStepsPerFrame,
	}
}

func (c *Config) SpawnSpec() spawn.Spec {
	return spawn.Spec{
		Position:      c.Spawn.Position,
		Radius:        c.Spawn.Radius,
		Material:      c.Spawn.Material,
		PixelsPerUnit: c.Camera.PixelsPerUnit,
	}
}

func (c *Config) Camera2D() xform.Camera {
	return xform.Camera{
		Width:         c.Camera.Width,
		Height:        c.Camera.Height,
		PixelsPerUnit: c.Camera.PixelsPerUnit,
	}
}
