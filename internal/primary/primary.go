// Package primary holds the non-owning reference to the scene's one
// always-drawn body.
package primary

import (
	"github.com/san-kum/dropsim/internal/binding"
	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/render"
	"github.com/san-kum/dropsim/internal/xform"
)

type State uint8

const (
	Unset State = iota
	Bound
	Dead
)

func (s State) String() string {
	switch s {
	case Unset:
		return "unset"
	case Bound:
		return "bound"
	case Dead:
		return "dead"
	}
	return "unknown"
}

// World answers liveness and transform queries. The world is the only
// authority on whether the referenced body exists.
type World interface {
	IsAlive(id dynamo.BodyID) bool
	Transform(id dynamo.BodyID) (dynamo.Transform, bool)
}

// Reference moves Unset -> Bound once, then Bound -> Dead the first time
// the body is found gone. Dead is permanent.
type Reference struct {
	world World
	table *binding.Table
	id    dynamo.BodyID
	state State
}

func New(world World, table *binding.Table) *Reference {
	return &Reference{world: world, table: table}
}

// Set binds the reference to id. Only the first call has any effect.
func (r *Reference) Set(id dynamo.BodyID) bool {
	if r.state != Unset || id == dynamo.NoBody {
		return false
	}
	r.id = id
	r.state = Bound
	return true
}

// IsAlive checks the world. Finding the body gone moves the reference to
// Dead and releases any entity still bound to the old handle.
func (r *Reference) IsAlive() bool {
	if r.state != Bound {
		return false
	}
	if r.world.IsAlive(r.id) {
		return true
	}
	r.state = Dead
	r.table.UnbindAndRelease(r.id)
	return false
}

func (r *Reference) State() State { return r.state }

// ID returns the referenced handle while the body is alive.
func (r *Reference) ID() (dynamo.BodyID, bool) {
	if !r.IsAlive() {
		return dynamo.NoBody, false
	}
	return r.id, true
}

// Keep is the handle to exclude from reclamation, or NoBody.
func (r *Reference) Keep() dynamo.BodyID {
	id, _ := r.ID()
	return id
}

// Draw places the primary entity from its body and draws it. It is a no-op
// when the body is gone or has no entity.
func (r *Reference) Draw(rd render.Renderer) bool {
	if !r.IsAlive() {
		return false
	}
	e, ok := r.table.Lookup(r.id)
	if !ok {
		return false
	}
	tr, ok := r.world.Transform(r.id)
	if !ok {
		return false
	}
	e.Place(xform.FromTransform(tr, e.Origin))
	rd.Draw(e.Sprite(r.id))
	return true
}
