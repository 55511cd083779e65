package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/render"
	"github.com/san-kum/dropsim/internal/xform"
)

// CanvasRenderer rasterises sprites onto a Canvas. Square sprites are drawn
// as filled discs, anything else as its rotated outline.
type CanvasRenderer struct {
	Canvas *Canvas

	view  xform.Viewport
	drawn int
}

func NewCanvasRenderer(cols, rows int) *CanvasRenderer {
	return &CanvasRenderer{Canvas: NewCanvas(cols, rows)}
}

func (r *CanvasRenderer) Begin(proj mgl64.Mat4) {
	w, h := r.Canvas.Size()
	r.view = xform.NewViewport(proj, float64(w), float64(h))
	r.Canvas.Clear()
	r.drawn = 0
}

func (r *CanvasRenderer) Draw(s render.Sprite) {
	r.drawn++
	if s.Size.X == s.Size.Y {
		centre := r.point(s.Position.Add(s.Size.Scale(0.5)))
		rad := r.view.ScaleToScreen(s.Size.Scale(0.5))
		r.Canvas.Disc(centre[0], centre[1], int(math.Round(rad.X)))
		return
	}

	corners := s.Corners()
	for i := range corners {
		a := r.point(corners[i])
		b := r.point(corners[(i+1)%len(corners)])
		r.Canvas.Line(a[0], a[1], b[0], b[1])
	}
}

func (r *CanvasRenderer) End() {}

// Drawn is the number of sprites submitted since the last Begin.
func (r *CanvasRenderer) Drawn() int { return r.drawn }

func (r *CanvasRenderer) point(p dynamo.Vec2) [2]int {
	sp := r.view.ToScreen(p)
	return [2]int{int(math.Floor(sp.X)), int(math.Floor(sp.Y))}
}
