// Package xform maps simulation state between physics space, camera space
// and screen space.
//
// Every function here is pure. Render state is recomputed from the
// authoritative body transform each frame, never integrated.
package xform

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropsim/internal/dynamo"
)

const radToDeg = 180 / math.Pi

// Degrees converts an angle in radians to degrees.
func Degrees(rad float64) float64 {
	return rad * radToDeg
}

// ToRender places a bound entity from its body's simulation position p and
// angle theta: position p - origin, rotation theta in degrees.
func ToRender(p dynamo.Vec2, theta float64, origin dynamo.Vec2) dynamo.Pose {
	return dynamo.Pose{
		Position: p.Sub(origin),
		Rotation: Degrees(theta),
	}
}

// FromTransform is ToRender over a body transform.
func FromTransform(tr dynamo.Transform, origin dynamo.Vec2) dynamo.Pose {
	return ToRender(tr.Position, tr.Angle, origin)
}

// Camera is an orthographic camera centred on the physics origin. Width and
// Height are the viewport extent in world units.
type Camera struct {
	Width         float64
	Height        float64
	PixelsPerUnit float64
}

// VisibilityBound is the lowest camera-space y still considered on screen.
func (c Camera) VisibilityBound() float64 {
	return -c.Height / 2
}

// ScreenSize returns the viewport extent in pixels.
func (c Camera) ScreenSize() (w, h float64) {
	return c.Width * c.PixelsPerUnit, c.Height * c.PixelsPerUnit
}

// Projection returns the camera-space to clip-space matrix.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Ortho2D(-c.Width/2, c.Width/2, -c.Height/2, c.Height/2)
}

// Viewport converts clip space to a screen of w by h pixels with y down.
type Viewport struct {
	Proj   mgl64.Mat4
	Width  float64
	Height float64
}

// NewViewport pairs a projection with a pixel-sized screen.
func NewViewport(proj mgl64.Mat4, w, h float64) Viewport {
	return Viewport{Proj: proj, Width: w, Height: h}
}

// Viewport returns the camera's own screen mapping.
func (c Camera) Viewport() Viewport {
	w, h := c.ScreenSize()
	return NewViewport(c.Projection(), w, h)
}

// ToScreen maps a camera-space point to screen pixels, origin top-left.
func (v Viewport) ToScreen(p dynamo.Vec2) dynamo.Vec2 {
	ndc := v.Proj.Mul4x1(mgl64.Vec4{p.X, p.Y, 0, 1})
	return dynamo.Vec2{
		X: (ndc.X() + 1) / 2 * v.Width,
		Y: (1 - ndc.Y()) / 2 * v.Height,
	}
}

// ToCamera is the inverse of ToScreen, used to map pointer positions.
func (v Viewport) ToCamera(s dynamo.Vec2) dynamo.Vec2 {
	ndc := mgl64.Vec4{s.X/v.Width*2 - 1, 1 - s.Y/v.Height*2, 0, 1}
	p := v.Proj.Inv().Mul4x1(ndc)
	return dynamo.Vec2{X: p.X(), Y: p.Y()}
}

// ScaleToScreen converts a camera-space extent to pixels.
func (v Viewport) ScaleToScreen(size dynamo.Vec2) dynamo.Vec2 {
	return dynamo.Vec2{
		X: size.X * v.Proj.At(0, 0) / 2 * v.Width,
		Y: size.Y * v.Proj.At(1, 1) / 2 * v.Height,
	}
}

// ScreenRotation converts a counter-clockwise camera rotation to the
// clockwise convention of a y-down screen.
func ScreenRotation(deg float64) float64 {
	return -deg
}
