package physics

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ByteArena/box2d"
	"github.com/san-kum/dropsim/internal/dynamo"
)

// stepMu serializes engine steps across worlds. The engine keeps its
// distance and time-of-impact statistics in package-level counters.
var stepMu sync.Mutex

// World owns every simulated body. Bodies are addressed by [dynamo.BodyID]
// and kept in insertion order; the engine's own body list is not used for
// iteration because it runs newest-first.
type World struct {
	b2     *box2d.B2World
	bodies map[dynamo.BodyID]*entry
	order  []dynamo.BodyID
	next   dynamo.BodyID
	steps  uint64
}

type entry struct {
	body   *box2d.B2Body
	kind   dynamo.BodyType
	shapes []Shape
}

// BodyDef describes a body to create.
type BodyDef struct {
	Type     dynamo.BodyType
	Position dynamo.Vec2
	Angle    float64
}

// NewWorld creates a world with a fixed gravity vector.
func NewWorld(gravity dynamo.Vec2, allowSleeping bool) *World {
	b2 := box2d.MakeB2World(box2d.MakeB2Vec2(gravity.X, gravity.Y))
	b2.SetAllowSleeping(allowSleeping)
	return &World{
		b2:     &b2,
		bodies: make(map[dynamo.BodyID]*entry),
		order:  make([]dynamo.BodyID, 0, 64),
	}
}

// CreateBody adds a body without fixtures and returns its handle.
func (w *World) CreateBody(def BodyDef) dynamo.BodyID {
	bd := box2d.MakeB2BodyDef()
	bd.Position = box2d.MakeB2Vec2(def.Position.X, def.Position.Y)
	bd.Angle = def.Angle
	if def.Type == dynamo.Dynamic {
		bd.Type = box2d.B2BodyType.B2_dynamicBody
	} else {
		bd.Type = box2d.B2BodyType.B2_staticBody
	}

	w.next++
	id := w.next
	w.bodies[id] = &entry{body: w.b2.CreateBody(&bd), kind: def.Type}
	w.order = append(w.order, id)
	return id
}

// DestroyBody removes a body and its fixtures from the simulation.
func (w *World) DestroyBody(id dynamo.BodyID) error {
	e, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("destroy %d: %w", id, dynamo.ErrBodyNotFound)
	}
	w.b2.DestroyBody(e.body)
	delete(w.bodies, id)
	if i := slices.Index(w.order, id); i >= 0 {
		w.order = slices.Delete(w.order, i, i+1)
	}
	return nil
}

// IsAlive reports whether id names a body this world still owns.
func (w *World) IsAlive(id dynamo.BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

// Bodies returns a snapshot of live handles in insertion order. Callers may
// destroy bodies while ranging over it.
func (w *World) Bodies() []dynamo.BodyID {
	return slices.Clone(w.order)
}

func (w *World) BodyCount() int { return len(w.order) }

// Steps is the number of completed Step calls.
func (w *World) Steps() uint64 { return w.steps }

// Transform returns the body's current position and angle.
func (w *World) Transform(id dynamo.BodyID) (dynamo.Transform, bool) {
	e, ok := w.bodies[id]
	if !ok {
		return dynamo.Transform{}, false
	}
	p := e.body.GetPosition()
	return dynamo.Transform{Position: dynamo.V(p.X, p.Y), Angle: e.body.GetAngle()}, true
}

// SetTransform teleports a body.
func (w *World) SetTransform(id dynamo.BodyID, tr dynamo.Transform) error {
	e, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("set transform %d: %w", id, dynamo.ErrBodyNotFound)
	}
	e.body.SetTransform(box2d.MakeB2Vec2(tr.Position.X, tr.Position.Y), tr.Angle)
	return nil
}

// SetLinearVelocity sets the body's velocity and wakes it.
func (w *World) SetLinearVelocity(id dynamo.BodyID, v dynamo.Vec2) error {
	e, ok := w.bodies[id]
	if !ok {
		return fmt.Errorf("set velocity %d: %w", id, dynamo.ErrBodyNotFound)
	}
	e.body.SetLinearVelocity(box2d.MakeB2Vec2(v.X, v.Y))
	return nil
}

func (w *World) LinearVelocity(id dynamo.BodyID) (dynamo.Vec2, bool) {
	e, ok := w.bodies[id]
	if !ok {
		return dynamo.Vec2{}, false
	}
	v := e.body.GetLinearVelocity()
	return dynamo.V(v.X, v.Y), true
}

func (w *World) Type(id dynamo.BodyID) (dynamo.BodyType, bool) {
	e, ok := w.bodies[id]
	if !ok {
		return dynamo.Static, false
	}
	return e.kind, true
}

// Shapes lists the collision shapes attached to a body.
func (w *World) Shapes(id dynamo.BodyID) []Shape {
	e, ok := w.bodies[id]
	if !ok {
		return nil
	}
	return slices.Clone(e.shapes)
}

// Step advances the simulation by dt with the given solver iteration counts.
// A non-finite body transform afterwards is reported as ErrUnstable.
func (w *World) Step(dt float64, velocityIterations, positionIterations int) error {
	stepMu.Lock()
	w.b2.Step(dt, velocityIterations, positionIterations)
	stepMu.Unlock()
	w.steps++

	for _, id := range w.order {
		p := w.bodies[id].body.GetPosition()
		if !dynamo.V(p.X, p.Y).IsValid() {
			return &dynamo.StepError{Frame: w.steps, Body: id, Wrapped: dynamo.ErrUnstable}
		}
	}
	return nil
}

// Destroy removes every remaining body. Render resources bound to those
// bodies must be released by the caller first.
func (w *World) Destroy() {
	for _, id := range slices.Backward(w.order) {
		w.b2.DestroyBody(w.bodies[id].body)
		delete(w.bodies, id)
	}
	w.order = w.order[:0]
}
