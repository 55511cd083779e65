package primary

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropsim/internal/binding"
	"github.com/san-kum/dropsim/internal/dynamo"
	"github.com/san-kum/dropsim/internal/physics"
	"github.com/san-kum/dropsim/internal/render"
)

func setup(t *testing.T) (*physics.World, *binding.Table, *render.MemoryTextures, dynamo.BodyID) {
	t.Helper()
	w := physics.NewWorld(dynamo.V(0, -10), true)
	table := binding.NewTable()
	textures := render.NewMemoryTextures()
	id := w.CreateBody(physics.BodyDef{Type: dynamo.Static, Position: dynamo.V(0, -2)})
	tex, err := textures.Rect(200, 360, render.ColorBottle)
	if err != nil {
		t.Fatal(err)
	}
	table.Bind(id, &binding.Entity{Origin: dynamo.V(1, 0), Size: dynamo.V(2, 3.6), Texture: tex})
	return w, table, textures, id
}

func TestReferenceLifecycle(t *testing.T) {
	w, table, textures, id := setup(t)
	ref := New(w, table)

	if ref.State() != Unset || ref.IsAlive() {
		t.Fatal("expected fresh reference unset and not alive")
	}
	if !ref.Set(id) {
		t.Fatal("expected first Set to succeed")
	}
	if ref.Set(99) {
		t.Error("expected second Set to be ignored")
	}
	if !ref.IsAlive() || ref.State() != Bound {
		t.Fatalf("expected bound and alive, got %v", ref.State())
	}

	table.UnbindAndRelease(id)
	_ = w.DestroyBody(id)

	if ref.IsAlive() {
		t.Error("expected dead after destroy")
	}
	if ref.State() != Dead {
		t.Errorf("expected Dead, got %v", ref.State())
	}
	if textures.Live() != 0 {
		t.Errorf("expected no live textures, got %d", textures.Live())
	}
	if ref.Keep() != dynamo.NoBody {
		t.Error("dead reference must not exclude any body")
	}
}

func TestReferenceDeadIsPermanent(t *testing.T) {
	w, table, _, id := setup(t)
	ref := New(w, table)
	ref.Set(id)

	table.UnbindAndRelease(id)
	w.Destroy()
	ref.IsAlive()

	// A new body cannot revive the reference.
	w.CreateBody(physics.BodyDef{})
	if ref.IsAlive() || ref.Set(id) {
		t.Error("expected Dead to be terminal")
	}
}

func TestReferenceReleasesOrphanedEntity(t *testing.T) {
	w, table, textures, id := setup(t)
	ref := New(w, table)
	ref.Set(id)

	// Destroyed elsewhere without unbinding first.
	_ = w.DestroyBody(id)
	if ref.IsAlive() {
		t.Fatal("expected dead")
	}
	if textures.Live() != 0 {
		t.Errorf("expected orphaned texture released, %d live", textures.Live())
	}
	if _, ok := table.Lookup(id); ok {
		t.Error("expected binding removed")
	}
}

func TestReferenceDraw(t *testing.T) {
	w, table, _, id := setup(t)
	ref := New(w, table)
	rec := render.NewRecorder()

	rec.Begin(mgl64.Ident4())
	if ref.Draw(rec) {
		t.Error("unset reference must not draw")
	}
	ref.Set(id)
	if !ref.Draw(rec) {
		t.Error("expected draw while alive")
	}
	rec.End()

	sprites := rec.Sprites()
	if len(sprites) != 1 || sprites[0].Position != dynamo.V(-1, -2) {
		t.Fatalf("expected one sprite at (-1,-2), got %+v", sprites)
	}

	_ = w.DestroyBody(id)
	rec.Begin(mgl64.Ident4())
	if ref.Draw(rec) {
		t.Error("expected no-op draw once dead")
	}
	rec.End()
	if len(rec.Sprites()) != 0 {
		t.Error("expected nothing drawn")
	}
}
