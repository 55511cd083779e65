package spawn

import "time"

// Throttle admits at most one event per MinInterval. An event is admitted
// only when strictly more than MinInterval has passed since the last one;
// the very first event is always admitted.
type Throttle struct {
	MinInterval time.Duration

	last  time.Time
	armed bool
}

func NewThrottle(min time.Duration) *Throttle {
	return &Throttle{MinInterval: min}
}

// Ready reports whether an event at now would be admitted, without
// recording it.
func (t *Throttle) Ready(now time.Time) bool {
	return !t.armed || now.Sub(t.last) > t.MinInterval
}

// Commit records an admitted event at now.
func (t *Throttle) Commit(now time.Time) {
	t.last = now
	t.armed = true
}

// Last returns the time of the last admitted event.
func (t *Throttle) Last() (time.Time, bool) {
	return t.last, t.armed
}
