package stepper

import (
	"errors"
	"testing"
	"time"

	"github.com/san-kum/dropsim/internal/dynamo"
)

type countingSim struct {
	calls   int
	dt      float64
	vel     int
	pos     int
	failOn  int
	failErr error
}

func (c *countingSim) Step(dt float64, vel, pos int) error {
	c.calls++
	c.dt, c.vel, c.pos = dt, vel, pos
	if c.failOn != 0 && c.calls == c.failOn {
		return c.failErr
	}
	return nil
}

func TestFrameModeStepsOncePerFrame(t *testing.T) {
	sim := &countingSim{}
	s, err := New(sim, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	elapsed := []time.Duration{0, time.Millisecond, 16 * time.Millisecond, 250 * time.Millisecond}
	for _, e := range elapsed {
		n, err := s.Advance(e)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if n != 1 {
			t.Errorf("elapsed %v: expected 1 step, got %d", e, n)
		}
	}

	if sim.calls != len(elapsed) {
		t.Errorf("expected %d steps, got %d", len(elapsed), sim.calls)
	}
	if sim.dt != 1.0/60.0 || sim.vel != 6 || sim.pos != 2 {
		t.Errorf("expected (1/60, 6, 2), got (%f, %d, %d)", sim.dt, sim.vel, sim.pos)
	}
}

func TestAccumulatorMode(t *testing.T) {
	sim := &countingSim{}
	cfg := DefaultConfig()
	cfg.Mode = ModeAccumulator
	cfg.Dt = 0.01
	s, _ := New(sim, cfg)

	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{5 * time.Millisecond, 0},
		{6 * time.Millisecond, 1},
		{25 * time.Millisecond, 2},
		{time.Second, cfg.MaxStepsPerFrame},
	}
	for _, tt := range tests {
		n, err := s.Advance(tt.elapsed)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if n != tt.want {
			t.Errorf("elapsed %v: expected %d steps, got %d", tt.elapsed, tt.want, n)
		}
	}
	if s.Alpha() >= 1 {
		t.Errorf("expected spiral guard to drop backlog, alpha=%f", s.Alpha())
	}
}

func TestStepErrorPropagates(t *testing.T) {
	boom := errors.New("solver exploded")
	sim := &countingSim{failOn: 2, failErr: boom}
	s, _ := New(sim, DefaultConfig())

	if _, err := s.Advance(0); err != nil {
		t.Fatalf("first frame: %v", err)
	}
	if _, err := s.Advance(0); !errors.Is(err, boom) {
		t.Errorf("expected solver error, got %v", err)
	}
	if s.Steps() != 1 {
		t.Errorf("expected 1 completed step, got %d", s.Steps())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative dt", func(c *Config) { c.Dt = -1.0 / 60 }},
		{"zero velocity iterations", func(c *Config) { c.VelocityIterations = 0 }},
		{"unknown mode", func(c *Config) { c.Mode = "variable" }},
		{"accumulator without cap", func(c *Config) { c.Mode = ModeAccumulator; c.MaxStepsPerFrame = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mod(&cfg)
			if err := cfg.Validate(); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds from Validate, got %v", err)
			}
			if _, err := New(&countingSim{}, cfg); !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds from New, got %v", err)
			}
		})
	}
}
