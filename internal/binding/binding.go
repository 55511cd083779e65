// Package binding associates simulated bodies with their renderable entities.
package binding

import (
	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/render"
)

// Entity is the render-side record carried by exactly one body. It owns its
// texture until the binding is released.
type Entity struct {
	Position dynamo.Vec2
	Rotation float64
	Origin   dynamo.Vec2
	Size     dynamo.Vec2
	Texture  render.Texture
}

// Place updates the entity from a render pose.
func (e *Entity) Place(p dynamo.Pose) {
	e.Position = p.Position
	e.Rotation = p.Rotation
}

// Sprite returns the draw call for this entity.
func (e *Entity) Sprite(id dynamo.BodyID) render.Sprite {
	return render.Sprite{
		Body:     id,
		Position: e.Position,
		Origin:   e.Origin,
		Size:     e.Size,
		Rotation: e.Rotation,
		Texture:  e.Texture,
	}
}

func (e *Entity) release() {
	if e.Texture != nil {
		e.Texture.Dispose()
		e.Texture = nil
	}
}

// Table maps body handles to entities. A body has at most one entity.
type Table struct {
	entries map[dynamo.BodyID]*Entity
}

func NewTable() *Table {
	return &Table{entries: make(map[dynamo.BodyID]*Entity)}
}

// Bind attaches e to id. A previous binding is replaced and its texture
// released, unless it is the same entity.
func (t *Table) Bind(id dynamo.BodyID, e *Entity) {
	if old, ok := t.entries[id]; ok && old != e {
		old.release()
	}
	t.entries[id] = e
}

// Lookup returns the entity bound to id, if any.
func (t *Table) Lookup(id dynamo.BodyID) (*Entity, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// UnbindAndRelease detaches the entity from id and disposes its texture
// before returning. The body itself is handed back to the caller, who is
// responsible for destroying it. ok is false when id was not bound.
func (t *Table) UnbindAndRelease(id dynamo.BodyID) (body dynamo.BodyID, ok bool) {
	e, ok := t.entries[id]
	if !ok {
		return dynamo.NoBody, false
	}
	delete(t.entries, id)
	e.release()
	return id, true
}

// ReleaseAll unbinds every entity and disposes every texture. It returns the
// number of bindings released.
func (t *Table) ReleaseAll() int {
	n := 0
	for id, e := range t.entries {
		delete(t.entries, id)
		e.release()
		n++
	}
	return n
}

func (t *Table) Len() int { return len(t.entries) }
