// Package fixture loads pre-authored body outlines and attaches them to
// physics bodies as collision fixtures.
//
// Outline files list named rigid bodies with convex polygons and circles in
// coordinates normalised to a unit width. YAML and JSON both parse:
//
//	rigid_bodies:
//	  - name: bottle
//	    origin: {x: 0.5, y: 0}
//	    polygons: [[{x: 0, y: 0}, {x: 1, y: 0}, {x: 1, y: 0.1}]]
//	    circles: [{cx: 0.5, cy: 1, r: 0.05}]
package fixture

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/physics"
	"gopkg.in/yaml.v3"
)

var ErrUnknownBody = errors.New("fixture: unknown body")

//go:embed bottle.yaml
var bottleOutline []byte

// BottleName is the body defined by the built-in outline.
const BottleName = "bottle"

type circleModel struct {
	CX float64 `yaml:"cx"`
	CY float64 `yaml:"cy"`
	R  float64 `yaml:"r"`
}

type bodyModel struct {
	Name     string          `yaml:"name"`
	Origin   dynamo.Vec2     `yaml:"origin"`
	Polygons [][]dynamo.Vec2 `yaml:"polygons"`
	Circles  []circleModel   `yaml:"circles"`
}

type document struct {
	RigidBodies []bodyModel `yaml:"rigid_bodies"`
}

// Loader holds parsed outlines by name.
type Loader struct {
	bodies map[string]*bodyModel
}

// Load parses an outline document.
func Load(r io.Reader) (*Loader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// LoadFile parses the outline file at path.
func LoadFile(path string) (*Loader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data)
}

// Builtin returns a loader for the embedded bottle outline.
func Builtin() *Loader {
	l, err := parse(bottleOutline)
	if err != nil {
		panic(fmt.Sprintf("fixture: embedded outline: %v", err))
	}
	return l
}

func parse(data []byte) (*Loader, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("fixture: parse outline: %w", err)
	}
	l := &Loader{bodies: make(map[string]*bodyModel, len(doc.RigidBodies))}
	for i := range doc.RigidBodies {
		b := &doc.RigidBodies[i]
		if b.Name == "" {
			return nil, fmt.Errorf("fixture: rigid body %d has no name", i)
		}
		for j, poly := range b.Polygons {
			if len(poly) < 3 || len(poly) > physics.MaxPolygonVertices {
				return nil, fmt.Errorf("fixture: %s polygon %d has %d vertices: %w",
					b.Name, j, len(poly), dynamo.ErrInvalidShape)
			}
		}
		l.bodies[b.Name] = b
	}
	return l, nil
}

// Names lists the bodies in the document, sorted.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.bodies))
	for n := range l.bodies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (l *Loader) body(name string) (*bodyModel, error) {
	b, ok := l.bodies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBody, name)
	}
	return b, nil
}

// Attach adds one fixture per polygon and circle of name to the body,
// scaled uniformly and shifted so the outline origin sits on the body
// position.
func (l *Loader) Attach(w *physics.World, id dynamo.BodyID, name string, m physics.Material, scale float64) error {
	b, err := l.body(name)
	if err != nil {
		return err
	}
	origin := b.Origin.Scale(scale)

	for _, poly := range b.Polygons {
		verts := make([]dynamo.Vec2, len(poly))
		for i, v := range poly {
			verts[i] = v.Scale(scale).Sub(origin)
		}
		if err := w.AddPolygon(id, verts, m); err != nil {
			return fmt.Errorf("attach %s: %w", name, err)
		}
	}
	for _, c := range b.Circles {
		center := dynamo.V(c.CX, c.CY).Scale(scale).Sub(origin)
		if err := w.AddCircle(id, center, c.R*scale, m); err != nil {
			return fmt.Errorf("attach %s: %w", name, err)
		}
	}
	return nil
}

// Origin returns the outline origin at scale.
func (l *Loader) Origin(name string, scale float64) (dynamo.Vec2, error) {
	b, err := l.body(name)
	if err != nil {
		return dynamo.Vec2{}, err
	}
	return b.Origin.Scale(scale), nil
}

// Size returns the extent of the outline's bounding box from (0,0) at scale.
func (l *Loader) Size(name string, scale float64) (dynamo.Vec2, error) {
	b, err := l.body(name)
	if err != nil {
		return dynamo.Vec2{}, err
	}
	var maxX, maxY float64
	for _, poly := range b.Polygons {
		for _, v := range poly {
			maxX = math.Max(maxX, v.X)
			maxY = math.Max(maxY, v.Y)
		}
	}
	for _, c := range b.Circles {
		maxX = math.Max(maxX, c.CX+c.R)
		maxY = math.Max(maxY, c.CY+c.R)
	}
	return dynamo.V(maxX, maxY).Scale(scale), nil
}
