// Package metrics summarises a run from its per-frame stats.
package metrics

import "github.com/san-kum/dropsim/internal/scene"

type Metric interface {
	Name() string
	Observe(st scene.FrameStats)
	Value() float64
	Reset()
}

// Set feeds every frame to its metrics. It is a scene.Observer.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set {
	return &Set{metrics: ms}
}

// Standard is the set recorded with every stored run.
func Standard() *Set {
	return NewSet(NewPeakLive(), NewMeanLive(), NewSpawned(), NewReclaimed(), NewPrimaryUptime())
}

func (s *Set) OnFrame(st scene.FrameStats) {
	for _, m := range s.metrics {
		m.Observe(st)
	}
}

// Values returns the current value of every metric keyed by name.
func (s *Set) Values() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}
