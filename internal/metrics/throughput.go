package metrics

import "github.com/san-kum/dropsim/internal/scene"

type Spawned struct {
	count int
}

func NewSpawned() *Spawned { return &Spawned{} }

func (s *Spawned) Name() string { return "spawned" }

func (s *Spawned) Observe(st scene.FrameStats) {
	if st.Spawned {
		s.count++
	}
}

func (s *Spawned) Value() float64 { return float64(s.count) }

func (s *Spawned) Reset() { s.count = 0 }

type Reclaimed struct {
	count int
}

func NewReclaimed() *Reclaimed { return &Reclaimed{} }

func (r *Reclaimed) Name() string { return "reclaimed" }

func (r *Reclaimed) Observe(st scene.FrameStats) { r.count += st.Reclaimed }

func (r *Reclaimed) Value() float64 { return float64(r.count) }

func (r *Reclaimed) Reset() { r.count = 0 }
