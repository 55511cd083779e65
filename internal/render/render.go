// Package render defines the renderer and texture collaborators the scene
// feeds, plus headless implementations used by runs and tests.
package render

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropsim/internal/dynamo"
)

// Texture is a disposable GPU or memory resource. Dispose must be called
// exactly once by whoever currently owns the texture.
type Texture interface {
	Width() int
	Height() int
	Dispose()
}

// TextureProvider loads or generates textures.
type TextureProvider interface {
	Load(path string) (Texture, error)
	Circle(diameter int, c color.RGBA) (Texture, error)
	Rect(w, h int, c color.RGBA) (Texture, error)
}

// Sprite is one draw call in camera space. Position is the sprite's
// bottom-left corner; Origin is the rotation pivot relative to it.
type Sprite struct {
	Body     dynamo.BodyID
	Position dynamo.Vec2
	Origin   dynamo.Vec2
	Size     dynamo.Vec2
	Rotation float64 // degrees, counter-clockwise
	Texture  Texture
}

// Pivot is the camera-space point the sprite rotates about.
func (s Sprite) Pivot() dynamo.Vec2 {
	return s.Position.Add(s.Origin)
}

// Corners returns the sprite's rectangle in camera space, counter-clockwise
// from the bottom-left corner, rotated about the pivot.
func (s Sprite) Corners() [4]dynamo.Vec2 {
	pivot := s.Pivot()
	sin, cos := math.Sincos(s.Rotation * math.Pi / 180)
	local := [4]dynamo.Vec2{
		dynamo.V(0, 0),
		dynamo.V(s.Size.X, 0),
		dynamo.V(s.Size.X, s.Size.Y),
		dynamo.V(0, s.Size.Y),
	}
	var out [4]dynamo.Vec2
	for i, c := range local {
		d := c.Sub(s.Origin)
		out[i] = pivot.Add(dynamo.V(d.X*cos-d.Y*sin, d.X*sin+d.Y*cos))
	}
	return out
}

// Renderer draws sprites under a projection.
type Renderer interface {
	Begin(proj mgl64.Mat4)
	Draw(s Sprite)
	End()
}

var (
	ColorDrop   = color.RGBA{R: 90, G: 170, B: 255, A: 255}
	ColorBottle = color.RGBA{R: 200, G: 230, B: 210, A: 160}
)
