package render

import "github.com/go-gl/mathgl/mgl64"

// Recorder is a Renderer that keeps the sprites of the last completed frame.
type Recorder struct {
	Projection mgl64.Mat4
	Frames     int

	pending []Sprite
	last    []Sprite
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Begin(proj mgl64.Mat4) {
	r.Projection = proj
	r.pending = r.pending[:0]
}

func (r *Recorder) Draw(s Sprite) {
	r.pending = append(r.pending, s)
}

func (r *Recorder) End() {
	r.last = append(r.last[:0], r.pending...)
	r.Frames++
}

// Sprites returns the sprites drawn in the last completed frame.
func (r *Recorder) Sprites() []Sprite {
	out := make([]Sprite, len(r.last))
	copy(out, r.last)
	return out
}
