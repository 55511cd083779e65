// Package stepper advances the physics world once per frame.
//
// In [ModeFrame] the simulation rate is tied to the frame rate: every call
// to [Stepper.Advance] performs exactly one fixed step whatever the elapsed
// time. [ModeAccumulator] decouples the two by banking real elapsed time and
// spending it in whole fixed steps.
package stepper

import (
	"fmt"
	"time"

	"github.com/san-kum/dropsim/internal/dynamo"
)

type Mode string

const (
	ModeFrame       Mode = "frame"
	ModeAccumulator Mode = "accumulator"
)

const (
	DefaultDt                 = 1.0 / 60.0
	DefaultVelocityIterations = 6
	DefaultPositionIterations = 2
	DefaultMaxStepsPerFrame   = 5
)

// Steppable is the simulation being advanced.
type Steppable interface {
	Step(dt float64, velocityIterations, positionIterations int) error
}

type Config struct {
	Dt                 float64
	VelocityIterations int
	PositionIterations int
	Mode               Mode
	MaxStepsPerFrame   int
}

func DefaultConfig() Config {
	return Config{
		Dt:                 DefaultDt,
		VelocityIterations: DefaultVelocityIterations,
		PositionIterations: DefaultPositionIterations,
		Mode:               ModeFrame,
		MaxStepsPerFrame:   DefaultMaxStepsPerFrame,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if c.VelocityIterations <= 0 || c.PositionIterations <= 0 {
		return fmt.Errorf("iterations must be positive, got %d/%d: %w",
			c.VelocityIterations, c.PositionIterations, dynamo.ErrParameterBounds)
	}
	switch c.Mode {
	case ModeFrame:
	case ModeAccumulator:
		if c.MaxStepsPerFrame <= 0 {
			return fmt.Errorf("max steps per frame must be positive, got %d: %w",
				c.MaxStepsPerFrame, dynamo.ErrParameterBounds)
		}
	default:
		return fmt.Errorf("unknown stepping mode %q: %w", c.Mode, dynamo.ErrParameterBounds)
	}
	return nil
}

type Stepper struct {
	sim   Steppable
	cfg   Config
	acc   float64
	steps uint64
}

func New(sim Steppable, cfg Config) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Stepper{sim: sim, cfg: cfg}, nil
}

// Step performs one fixed step.
func (s *Stepper) Step() error {
	if err := s.sim.Step(s.cfg.Dt, s.cfg.VelocityIterations, s.cfg.PositionIterations); err != nil {
		return err
	}
	s.steps++
	return nil
}

// Advance runs the steps owed for one frame and returns how many ran.
func (s *Stepper) Advance(elapsed time.Duration) (int, error) {
	if s.cfg.Mode == ModeFrame {
		if err := s.Step(); err != nil {
			return 0, err
		}
		return 1, nil
	}

	s.acc += elapsed.Seconds()
	n := 0
	for s.acc >= s.cfg.Dt && n < s.cfg.MaxStepsPerFrame {
		if err := s.Step(); err != nil {
			return n, err
		}
		s.acc -= s.cfg.Dt
		n++
	}
	// Drop time we could not catch up on instead of spiralling.
	if n == s.cfg.MaxStepsPerFrame && s.acc > s.cfg.Dt {
		s.acc = 0
	}
	return n, nil
}

// Alpha is the fraction of a step left in the accumulator.
func (s *Stepper) Alpha() float64 {
	return s.acc / s.cfg.Dt
}

func (s *Stepper) Steps() uint64 { return s.steps }

func (s *Stepper) Config() Config { return s.cfg }
