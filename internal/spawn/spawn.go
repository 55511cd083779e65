// Package spawn creates new dynamic bodies and their entities in response to
// trigger events, rate limited by a [Throttle].
package spawn

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/dropsim/internal/binding"
	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/logging"
	"github.com/san-kum/dropsim/internal/physics"
	"github.com/san-kum/dropsim/internal/render"
)

// Spec fixes what every spawned body looks like.
type Spec struct {
	Position      dynamo.Vec2
	Radius        float64
	Material      physics.Material
	PixelsPerUnit float64
}

func (s Spec) Validate() error {
	if s.Radius <= 0 {
		return fmt.Errorf("spawn radius %f: %w", s.Radius, dynamo.ErrParameterBounds)
	}
	if s.Material.Density <= 0 {
		return fmt.Errorf("spawn density %f: %w", s.Material.Density, dynamo.ErrParameterBounds)
	}
	if s.PixelsPerUnit <= 0 {
		return fmt.Errorf("pixels per unit %f: %w", s.PixelsPerUnit, dynamo.ErrParameterBounds)
	}
	return s.Material.Validate()
}

// Controller is the only admission point for new bodies.
type Controller struct {
	spec     Spec
	throttle *Throttle
	world    *physics.World
	table    *binding.Table
	textures render.TextureProvider
	log      logging.Logger

	spawned uint64
}

func NewController(spec Spec, minInterval time.Duration, world *physics.World, table *binding.Table, textures render.TextureProvider, log logging.Logger) (*Controller, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if minInterval < 0 {
		return nil, fmt.Errorf("spawn interval %v: %w", minInterval, dynamo.ErrParameterBounds)
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Controller{
		spec:     spec,
		throttle: NewThrottle(minInterval),
		world:    world,
		table:    table,
		textures: textures,
		log:      log,
	}, nil
}

// TrySpawn creates one drop when trigger is held and the throttle window
// has elapsed. ok is false when nothing was spawned; in that case no state
// changed. An error means the texture provider failed, also with no state
// change.
func (c *Controller) TrySpawn(trigger bool, now time.Time) (id dynamo.BodyID, ok bool, err error) {
	if !trigger || !c.throttle.Ready(now) {
		return dynamo.NoBody, false, nil
	}

	diameter := int(math.Ceil(2*c.spec.Radius*c.spec.PixelsPerUnit - 1e-9))
	tex, err := c.textures.Circle(diameter, render.ColorDrop)
	if err != nil {
		return dynamo.NoBody, false, fmt.Errorf("spawn texture: %w", err)
	}

	id = c.world.CreateBody(physics.BodyDef{Type: dynamo.Dynamic, Position: c.spec.Position})
	if err := c.world.AddCircle(id, dynamo.Vec2{}, c.spec.Radius, c.spec.Material); err != nil {
		tex.Dispose()
		_ = c.world.DestroyBody(id)
		return dynamo.NoBody, false, err
	}

	r := c.spec.Radius
	c.table.Bind(id, &binding.Entity{
		Position: c.spec.Position.Sub(dynamo.V(r, r)),
		Origin:   dynamo.V(r, r),
		Size:     dynamo.V(2*r, 2*r),
		Texture:  tex,
	})
	c.throttle.Commit(now)
	c.spawned++

	c.log.Debug("spawned drop", "body", id, "position", c.spec.Position, "total", c.spawned)
	return id, true, nil
}

// Spawned is the number of successful spawns.
func (c *Controller) Spawned() uint64 { return c.spawned }

func (c *Controller) Throttle() *Throttle { return c.throttle }
