// Package input supplies the trigger signal and the monotonic time source
// the spawn controller polls once per frame.
package input

import (
	"time"

	"github.com/san-kum/dropsim/internal/config"
)

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when advanced. Headless runs and tests drive it.
type ManualClock struct {
	start time.Time
	now   time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{start: start, now: start}
}

func (c *ManualClock) Now() time.Time { return c.now }

func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Elapsed is the time since the clock was created.
func (c *ManualClock) Elapsed() time.Duration { return c.now.Sub(c.start) }

// Trigger reports whether the primary action is engaged.
type Trigger interface {
	Active() bool
}

// TriggerFunc adapts a polling function, such as a mouse-button query.
type TriggerFunc func() bool

func (f TriggerFunc) Active() bool { return f() }

// Script holds the trigger during configured windows of elapsed time.
type Script struct {
	windows []config.TriggerWindow
	elapsed func() time.Duration
}

func NewScript(windows []config.TriggerWindow, elapsed func() time.Duration) *Script {
	return &Script{windows: windows, elapsed: elapsed}
}

// Active is true when elapsed time falls in [From, To) of any window.
func (s *Script) Active() bool {
	return s.ActiveAt(s.elapsed())
}

func (s *Script) ActiveAt(t time.Duration) bool {
	for _, w := range s.windows {
		if t >= w.From && t < w.To {
			return true
		}
	}
	return false
}

// Toggle is a latching trigger for inputs without key-up events.
type Toggle struct {
	on bool
}

func (t *Toggle) Flip()        { t.on = !t.on }
func (t *Toggle) Set(on bool)  { t.on = on }
func (t *Toggle) Active() bool { return t.on }
