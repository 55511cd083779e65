package input

import (
	"testing"
	"time"

	"github.com/san-kum/dropsim/internal/config"
)

func TestManualClock(t *testing.T) {
	start := time.Unix(100, 0)
	c := NewManualClock(start)
	c.Advance(16 * time.Millisecond)
	c.Advance(17 * time.Millisecond)

	if got := c.Elapsed(); got != 33*time.Millisecond {
		t.Errorf("expected 33ms, got %v", got)
	}
	if !c.Now().Equal(start.Add(33 * time.Millisecond)) {
		t.Errorf("expected start+33ms, got %v", c.Now())
	}
}

func TestScriptWindows(t *testing.T) {
	c := NewManualClock(time.Unix(0, 0))
	s := NewScript([]config.TriggerWindow{
		{From: 0, To: 100 * time.Millisecond},
		{From: time.Second, To: 2 * time.Second},
	}, c.Elapsed)

	tests := []struct {
		at   time.Duration
		want bool
	}{
		{0, true},
		{99 * time.Millisecond, true},
		{100 * time.Millisecond, false},
		{500 * time.Millisecond, false},
		{time.Second, true},
		{2 * time.Second, false},
	}
	for _, tt := range tests {
		if got := s.ActiveAt(tt.at); got != tt.want {
			t.Errorf("at %v: expected %v, got %v", tt.at, tt.want, got)
		}
	}

	if !s.Active() {
		t.Error("expected active at clock start")
	}
	c.Advance(500 * time.Millisecond)
	if s.Active() {
		t.Error("expected inactive between windows")
	}
}

func TestToggleAndFunc(t *testing.T) {
	var tg Toggle
	tg.Flip()
	if !tg.Active() {
		t.Error("expected toggle on after flip")
	}
	tg.Set(false)
	if tg.Active() {
		t.Error("expected toggle off")
	}

	held := true
	var tr Trigger = TriggerFunc(func() bool { return held })
	if !tr.Active() {
		t.Error("expected func trigger active")
	}
}
