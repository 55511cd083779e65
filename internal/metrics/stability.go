package metrics

import "github.com/san-kum/dropsim/internal/scene"

// PrimaryUptime is the fraction of frames that ended with the primary body
// alive. An empty run counts as fully up.
type PrimaryUptime struct {
	alive   int
	samples int
}

func NewPrimaryUptime() *PrimaryUptime { return &PrimaryUptime{} }

func (p *PrimaryUptime) Name() string { return "primary_uptime" }

func (p *PrimaryUptime) Observe(st scene.FrameStats) {
	p.samples++
	if st.PrimaryAlive {
		p.alive++
	}
}

func (p *PrimaryUptime) Value() float64 {
	if p.samples == 0 {
		return 1.0
	}
	return float64(p.alive) / float64(p.samples)
}

func (p *PrimaryUptime) Reset() {
	p.alive = 0
	p.samples = 0
}
