package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector. Physics space and camera space share units (metres).
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string { return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y) }

// BodyID names a body in a physics world. IDs are never reused within a world.
type BodyID uint64

// NoBody is the zero handle; no live body ever carries it.
const NoBody BodyID = 0

type BodyType uint8

const (
	Static BodyType = iota
	Dynamic
)

func (t BodyType) String() string {
	switch t {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return fmt.Sprintf("BodyType(%d)", uint8(t))
	}
}

// ParseBodyType accepts "static" or "dynamic".
func ParseBodyType(s string) (BodyType, error) {
	switch s {
	case "static", "":
		return Static, nil
	case "dynamic":
		return Dynamic, nil
	}
	return Static, fmt.Errorf("unknown body type: %s", s)
}

// Transform is the authoritative simulation state of a body.
type Transform struct {
	Position Vec2
	Angle    float64 // radians
}

// Pose is a render-side placement: position in camera space and rotation in
// degrees, counter-clockwise.
type Pose struct {
	Position Vec2
	Rotation float64
}
