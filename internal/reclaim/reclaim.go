// Package reclaim destroys bound bodies that have fallen out of view.
package reclaim

import (
	"errors"
	"fmt"

	"github.com/san-kum/dropsim/internal/binding"
	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/logging"
	"github.com/san-kum/dropsim/internal/xform"
)

// Bodies is the part of the physics world the sweep needs.
type Bodies interface {
	Bodies() []dynamo.BodyID
	Transform(id dynamo.BodyID) (dynamo.Transform, bool)
	DestroyBody(id dynamo.BodyID) error
}

// Policy reclaims any bound body whose render position drops below Bound.
type Policy struct {
	Bound float64
	log   logging.Logger
}

func NewPolicy(bound float64, log logging.Logger) *Policy {
	if log == nil {
		log = logging.Nop()
	}
	return &Policy{Bound: bound, log: log}
}

// Report partitions the visited bodies. A body appears in at most one list.
type Report struct {
	Retained  []dynamo.BodyID
	Reclaimed []dynamo.BodyID
}

// Sweep visits every bound body except keep, in world insertion order.
// Retained entities are placed from their body's current transform;
// reclaimed ones are unbound, their textures released, and their bodies
// destroyed. Unbound bodies are skipped.
func (p *Policy) Sweep(world Bodies, table *binding.Table, keep dynamo.BodyID) (Report, error) {
	var (
		rep  Report
		errs []error
	)
	for _, id := range world.Bodies() {
		if id == keep {
			continue
		}
		e, ok := table.Lookup(id)
		if !ok {
			continue
		}
		tr, ok := world.Transform(id)
		if !ok {
			continue
		}

		pose := xform.FromTransform(tr, e.Origin)
		if pose.Position.Y >= p.Bound {
			e.Place(pose)
			rep.Retained = append(rep.Retained, id)
			continue
		}

		body, _ := table.UnbindAndRelease(id)
		if err := world.DestroyBody(body); err != nil {
			errs = append(errs, fmt.Errorf("reclaim: %w", err))
		}
		rep.Reclaimed = append(rep.Reclaimed, id)
		p.log.Debug("reclaimed body", "body", id, "y", pose.Position.Y)
	}
	return rep, errors.Join(errs...)
}
