package physics

import (
	"fmt"
	"slices"

	"github.com/ByteArena/box2d"
	"github.com/san-kum/dropsim/internal/dynamo"
)

// MaxPolygonVertices is the engine's per-polygon vertex limit.
const MaxPolygonVertices = 8

// linearSlop matches the engine's collision tolerance; polygon vertices
// closer than half of it are welded together.
const linearSlop = 0.005

type ShapeKind uint8

const (
	Circle ShapeKind = iota
	Polygon
)

// Shape records a fixture attached to a body, in body-local coordinates.
type Shape struct {
	Kind     ShapeKind
	Center   dynamo.Vec2
	Radius   float64
	Vertices []dynamo.Vec2
	Material Material
}

// Material holds fixture properties. Friction and restitution are in [0,1].
type Material struct {
	Density     float64 `yaml:"density"`
	Friction    float64 `yaml:"friction"`
	Restitution float64 `yaml:"restitution"`
}

func (m Material) Validate() error {
	if m.Density < 0 {
		return fmt.Errorf("density %f: %w", m.Density, dynamo.ErrParameterBounds)
	}
	if m.Friction < 0 || m.Friction > 1 {
		return fmt.Errorf("friction %f: %w", m.Friction, dynamo.ErrParameterBounds)
	}
	if m.Restitution < 0 || m.Restitution > 1 {
		return fmt.Errorf("restitution %f: %w", m.Restitution, dynamo.ErrParameterBounds)
	}
	return nil
}

func fixtureDef(m Material) box2d.B2FixtureDef {
	fd := box2d.MakeB2FixtureDef()
	fd.Density = m.Density
	fd.Friction = m.Friction
	fd.Restitution = m.Restitution
	return fd
}

// AddCircle attaches a circle fixture centred at center (body-local).
func (w *World) AddCircle(id dynamo.BodyID, center dynamo.Vec2, radius float64, m Material) error {
	e, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("add circle to %d: %w", id, dynamo.ErrBodyNotFound)
	}
	if radius <= 0 {
		return fmt.Errorf("circle radius %f: %w", radius, dynamo.ErrInvalidShape)
	}
	if err := m.Validate(); err != nil {
		return err
	}

	shape := box2d.MakeB2CircleShape()
	shape.M_radius = radius
	shape.M_p = box2d.MakeB2Vec2(center.X, center.Y)

	fd := fixtureDef(m)
	fd.Shape = &shape
	e.body.CreateFixtureFromDef(&fd)
	e.shapes = append(e.shapes, Shape{Kind: Circle, Center: center, Radius: radius, Material: m})
	return nil
}

// AddPolygon attaches a convex polygon fixture (body-local vertices).
func (w *World) AddPolygon(id dynamo.BodyID, vertices []dynamo.Vec2, m Material) error {
	e, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("add polygon to %d: %w", id, dynamo.ErrBodyNotFound)
	}
	if len(vertices) < 3 || len(vertices) > MaxPolygonVertices {
		return fmt.Errorf("polygon with %d vertices: %w", len(vertices), dynamo.ErrInvalidShape)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if hullArea(vertices) <= linearSlop*linearSlop {
		return fmt.Errorf("degenerate polygon %v: %w", vertices, dynamo.ErrInvalidShape)
	}

	verts := make([]box2d.B2Vec2, len(vertices))
	for i, v := range vertices {
		verts[i] = box2d.MakeB2Vec2(v.X, v.Y)
	}
	shape := box2d.MakeB2PolygonShape()
	shape.Set(verts, len(verts))

	fd := fixtureDef(m)
	fd.Shape = &shape
	e.body.CreateFixtureFromDef(&fd)

	local := make([]dynamo.Vec2, len(vertices))
	copy(local, vertices)
	e.shapes = append(e.shapes, Shape{Kind: Polygon, Vertices: local, Material: m})
	return nil
}

// hullArea welds near-coincident vertices the way the engine does and
// returns the area of their convex hull. Fewer than three distinct points
// give zero.
func hullArea(vertices []dynamo.Vec2) float64 {
	const weld = 0.5 * linearSlop * 0.5 * linearSlop
	pts := make([]dynamo.Vec2, 0, len(vertices))
	for _, v := range vertices {
		unique := true
		for _, p := range pts {
			if d := v.Sub(p); d.X*d.X+d.Y*d.Y < weld {
				unique = false
				break
			}
		}
		if unique {
			pts = append(pts, v)
		}
	}
	if len(pts) < 3 {
		return 0
	}

	// Monotone chain; collinear points are dropped from the hull.
	slices.SortFunc(pts, func(a, b dynamo.Vec2) int {
		switch {
		case a.X < b.X || (a.X == b.X && a.Y < b.Y):
			return -1
		case a.X == b.X && a.Y == b.Y:
			return 0
		}
		return 1
	})
	cross := func(o, a, b dynamo.Vec2) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}
	hull := make([]dynamo.Vec2, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	for i, lower := len(pts)-2, len(hull)+1; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	hull = hull[:len(hull)-1]
	if len(hull) < 3 {
		return 0
	}

	var area float64
	for i, p := range hull {
		q := hull[(i+1)%len(hull)]
		area += p.X*q.Y - q.X*p.Y
	}
	return area / 2
}
