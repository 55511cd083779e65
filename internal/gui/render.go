package gui

import (
	"fmt"
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropsim/internal/render"
	"github.com/san-kum/dropsim/internal/xform"
)

// Texture is a GPU texture. It needs a live window to create and dispose.
type Texture struct {
	tex      rl.Texture2D
	disposed bool
}

func (t *Texture) Width() int  { return int(t.tex.Width) }
func (t *Texture) Height() int { return int(t.tex.Height) }

func (t *Texture) Dispose() {
	if t.disposed {
		panic("gui: texture disposed twice")
	}
	t.disposed = true
	rl.UnloadTexture(t.tex)
}

// Textures creates GPU textures. Use it only between InitWindow and
// CloseWindow.
type Textures struct{}

func (Textures) Load(path string) (render.Texture, error) {
	tex := rl.LoadTexture(path)
	if tex.ID == 0 {
		return nil, fmt.Errorf("gui: load texture %q", path)
	}
	return &Texture{tex: tex}, nil
}

func (Textures) Circle(diameter int, c color.RGBA) (render.Texture, error) {
	if diameter <= 0 {
		return nil, fmt.Errorf("gui: circle diameter %d", diameter)
	}
	img := rl.GenImageColor(diameter, diameter, rl.Blank)
	defer rl.UnloadImage(img)
	r := int32(diameter / 2)
	rl.ImageDrawCircle(img, r, r, r, c)
	return &Texture{tex: rl.LoadTextureFromImage(img)}, nil
}

func (Textures) Rect(w, h int, c color.RGBA) (render.Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("gui: rect %dx%d", w, h)
	}
	img := rl.GenImageColor(w, h, c)
	defer rl.UnloadImage(img)
	return &Texture{tex: rl.LoadTextureFromImage(img)}, nil
}

// Renderer draws sprites into the window with DrawTexturePro.
type Renderer struct {
	width, height float64
	view          xform.Viewport
}

func NewRenderer(width, height float64) *Renderer {
	return &Renderer{width: width, height: height}
}

func (r *Renderer) Begin(proj mgl64.Mat4) {
	r.view = xform.NewViewport(proj, r.width, r.height)
}

func (r *Renderer) Draw(s render.Sprite) {
	t, ok := s.Texture.(*Texture)
	if !ok || t.disposed {
		return
	}
	pivot := r.view.ToScreen(s.Pivot())
	size := r.view.ScaleToScreen(s.Size)
	origin := r.view.ScaleToScreen(s.Origin)

	src := rl.NewRectangle(0, 0, float32(t.tex.Width), float32(t.tex.Height))
	dst := rl.NewRectangle(float32(pivot.X), float32(pivot.Y), float32(size.X), float32(size.Y))
	// Texture space is y-down, so the pivot is measured from the top edge.
	org := rl.NewVector2(float32(origin.X), float32(size.Y-origin.Y))
	rl.DrawTexturePro(t.tex, src, dst, org, float32(xform.ScreenRotation(s.Rotation)), rl.White)
}

func (r *Renderer) End() {}
