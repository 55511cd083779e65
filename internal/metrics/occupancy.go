package metrics

import "github.com/san-kum/dropsim/internal/scene"

// PeakLive is the largest number of live bodies seen after any frame.
type PeakLive struct {
	peak int
}

func NewPeakLive() *PeakLive { return &PeakLive{} }

func (p *PeakLive) Name() string { return "peak_live" }

func (p *PeakLive) Observe(st scene.FrameStats) {
	p.peak = max(p.peak, st.Live)
}

func (p *PeakLive) Value() float64 { return float64(p.peak) }

func (p *PeakLive) Reset() { p.peak = 0 }

type MeanLive struct {
	sum     float64
	samples int
}

func NewMeanLive() *MeanLive { return &MeanLive{} }

func (m *MeanLive) Name() string { return "mean_live" }

func (m *MeanLive) Observe(st scene.FrameStats) {
	m.sum += float64(st.Live)
	m.samples++
}

func (m *MeanLive) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanLive) Reset() {
	m.sum = 0
	m.samples = 0
}
