// Package scene is the single construction and teardown point for a running
// scene. Each frame runs spawn, step and reclamation in that order, and
// Draw then hands the surviving entities to a renderer.
package scene

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/dropsim/internal/binding"
	"github.com/san-kum/dropsim/internal/config"
	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/fixture"
	"github.com/san-kum/dropsim/internal/logging"
	"github.com/san-kum/dropsim/internal/physics"
	"github.com/san-kum/dropsim/internal/primary"
	"github.com/san-kum/dropsim/internal/reclaim"
	"github.com/san-kum/dropsim/internal/render"
	"github.com/san-kum/dropsim/internal/spawn"
	"github.com/san-kum/dropsim/internal/stepper"
	"github.com/san-kum/dropsim/internal/xform"
)

// Deps are the collaborators a scene is built with.
type Deps struct {
	Textures render.TextureProvider
	// Outlines overrides the outline source named in the config.
	Outlines *fixture.Loader
	Logger   logging.Logger
}

// FrameInput is what the frame loop polls once per frame.
type FrameInput struct {
	Trigger bool
	Now     time.Time
	Elapsed time.Duration
}

// FrameStats summarises one frame.
type FrameStats struct {
	Frame        uint64
	Time         time.Duration
	Spawned      bool
	Steps        int
	Retained     int
	Reclaimed    int
	Live         int
	PrimaryAlive bool
	PrimaryY     float64
}

type Observer interface {
	OnFrame(st FrameStats)
}

type Scene struct {
	cfg      *config.Config
	camera   xform.Camera
	world    *physics.World
	table    *binding.Table
	spawner  *spawn.Controller
	stepper  *stepper.Stepper
	policy   *reclaim.Policy
	primary  *primary.Reference
	textures render.TextureProvider
	log      logging.Logger

	observers []Observer
	drawList  []dynamo.BodyID
	frame     uint64
	start     time.Time
	started   bool
	closed    bool
}

func New(cfg *config.Config, deps Deps) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Textures == nil {
		return nil, fmt.Errorf("scene: texture provider required")
	}
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}

	world := physics.NewWorld(cfg.World.Gravity, cfg.World.AllowSleeping)
	table := binding.NewTable()
	camera := cfg.Camera2D()

	st, err := stepper.New(world, cfg.StepperConfig())
	if err != nil {
		return nil, err
	}
	sp, err := spawn.NewController(cfg.SpawnSpec(), cfg.Spawn.MinInterval, world, table, deps.Textures, log)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		cfg:      cfg,
		camera:   camera,
		world:    world,
		table:    table,
		spawner:  sp,
		stepper:  st,
		policy:   reclaim.NewPolicy(camera.VisibilityBound(), log),
		primary:  primary.New(world, table),
		textures: deps.Textures,
		log:      log,
	}
	if err := s.buildPrimary(deps.Outlines); err != nil {
		s.Close()
		return nil, err
	}
	log.Info("scene ready", "name", cfg.Name, "bound", camera.VisibilityBound(), "mode", cfg.Stepper.Mode)
	return s, nil
}

func (s *Scene) buildPrimary(outlines *fixture.Loader) error {
	pc := s.cfg.Primary
	if outlines == nil {
		if pc.Outline == "" {
			outlines = fixture.Builtin()
		} else {
			l, err := fixture.LoadFile(pc.Outline)
			if err != nil {
				return fmt.Errorf("primary outline: %w", err)
			}
			outlines = l
		}
	}

	origin, err := outlines.Origin(pc.Body, pc.Scale)
	if err != nil {
		return err
	}
	size, err := outlines.Size(pc.Body, pc.Scale)
	if err != nil {
		return err
	}
	bt, err := dynamo.ParseBodyType(pc.Type)
	if err != nil {
		return err
	}

	var tex render.Texture
	if pc.Texture != "" {
		tex, err = s.textures.Load(pc.Texture)
	} else {
		ppu := s.camera.PixelsPerUnit
		tex, err = s.textures.Rect(int(math.Ceil(size.X*ppu)), int(math.Ceil(size.Y*ppu)), render.ColorBottle)
	}
	if err != nil {
		return fmt.Errorf("primary texture: %w", err)
	}

	id := s.world.CreateBody(physics.BodyDef{Type: bt, Position: pc.Position})
	if err := outlines.Attach(s.world, id, pc.Body, pc.Material, pc.Scale); err != nil {
		tex.Dispose()
		return err
	}
	s.table.Bind(id, &binding.Entity{
		Position: pc.Position.Sub(origin),
		Origin:   origin,
		Size:     size,
		Texture:  tex,
	})
	s.primary.Set(id)
	return nil
}

func (s *Scene) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Frame runs one frame: spawn, step, reclaim. A step failure is fatal and
// returned; a failed spawn is logged and the frame goes on.
func (s *Scene) Frame(in FrameInput) (FrameStats, error) {
	if s.closed {
		return FrameStats{}, dynamo.ErrClosed
	}
	if !s.started {
		s.start = in.Now
		s.started = true
	}
	s.frame++
	st := FrameStats{Frame: s.frame, Time: in.Now.Sub(s.start)}

	_, spawned, err := s.spawner.TrySpawn(in.Trigger, in.Now)
	if err != nil {
		s.log.Warn("spawn failed", "frame", s.frame, "err", err)
	}
	st.Spawned = spawned

	n, err := s.stepper.Advance(in.Elapsed)
	st.Steps = n
	if err != nil {
		return st, fmt.Errorf("frame %d: %w", s.frame, err)
	}

	rep, err := s.policy.Sweep(s.world, s.table, s.primary.Keep())
	s.drawList = rep.Retained
	st.Retained = len(rep.Retained)
	st.Reclaimed = len(rep.Reclaimed)
	if err != nil {
		return st, fmt.Errorf("frame %d: %w", s.frame, err)
	}

	st.Live = s.world.BodyCount()
	if id, ok := s.primary.ID(); ok {
		st.PrimaryAlive = true
		if tr, ok := s.world.Transform(id); ok {
			st.PrimaryY = tr.Position.Y
		}
	}

	for _, o := range s.observers {
		o.OnFrame(st)
	}
	return st, nil
}

// Draw submits the primary entity and every entity retained by the last
// sweep. It draws nothing after Close.
func (s *Scene) Draw(r render.Renderer) {
	if s.closed {
		return
	}
	r.Begin(s.camera.Projection())
	s.primary.Draw(r)
	for _, id := range s.drawList {
		if e, ok := s.table.Lookup(id); ok {
			r.Draw(e.Sprite(id))
		}
	}
	r.End()
}

// Close releases every remaining texture, then destroys every body. It is
// safe to call more than once.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	n := s.table.ReleaseAll()
	bodies := s.world.BodyCount()
	s.world.Destroy()
	s.drawList = nil
	s.log.Info("scene closed", "frames", s.frame, "released", n, "bodies", bodies)
}

func (s *Scene) World() *physics.World       { return s.world }
func (s *Scene) Table() *binding.Table       { return s.table }
func (s *Scene) Primary() *primary.Reference { return s.primary }
func (s *Scene) Spawner() *spawn.Controller  { return s.spawner }
func (s *Scene) Stepper() *stepper.Stepper   { return s.stepper }
func (s *Scene) Camera() xform.Camera        { return s.camera }
func (s *Scene) Config() *config.Config      { return s.cfg }
func (s *Scene) Frames() uint64              { return s.frame }
func (s *Scene) Closed() bool                { return s.closed }
func (s *Scene) DrawList() []dynamo.BodyID   { return append([]dynamo.BodyID(nil), s.drawList...) }
