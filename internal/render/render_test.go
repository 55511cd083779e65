package render

import (
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dropsim/internal/dynamo"
)

func TestMemoryTexturesCircle(t *testing.T) {
	p := NewMemoryTextures()
	tex, err := p.Circle(20, ColorDrop)
	if err != nil {
		t.Fatalf("circle failed: %v", err)
	}
	if tex.Width() != 20 || tex.Height() != 20 {
		t.Errorf("expected 20x20, got %dx%d", tex.Width(), tex.Height())
	}

	img := tex.(*MemoryTexture).Image
	if img.RGBAAt(10, 10) != ColorDrop {
		t.Error("expected centre pixel filled")
	}
	if img.RGBAAt(0, 0) != (color.RGBA{}) {
		t.Error("expected corner pixel transparent")
	}

	if p.Live() != 1 {
		t.Errorf("expected 1 live texture, got %d", p.Live())
	}
	tex.Dispose()
	if p.Live() != 0 || p.Disposed() != 1 {
		t.Errorf("expected 0 live / 1 disposed, got %d / %d", p.Live(), p.Disposed())
	}
}

func TestMemoryTextureDoubleDisposePanics(t *testing.T) {
	p := NewMemoryTextures()
	tex, _ := p.Rect(2, 2, ColorBottle)
	tex.Dispose()

	defer func() {
		if recover() == nil {
			t.Error("expected panic on second dispose")
		}
	}()
	tex.Dispose()
}

func TestMemoryTexturesLoad(t *testing.T) {
	p := NewMemoryTextures()
	src, _ := p.Rect(3, 5, ColorBottle)

	path := filepath.Join(t.TempDir(), "bottle.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, src.(*MemoryTexture).Image); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := p.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if tex.Width() != 3 || tex.Height() != 5 {
		t.Errorf("expected 3x5, got %dx%d", tex.Width(), tex.Height())
	}

	if _, err := p.Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInvalidSizes(t *testing.T) {
	p := NewMemoryTextures()
	if _, err := p.Circle(0, ColorDrop); err == nil {
		t.Error("expected error for zero diameter")
	}
	if _, err := p.Rect(0, 4, ColorDrop); err == nil {
		t.Error("expected error for zero width")
	}
	if p.Created() != 0 {
		t.Errorf("expected no textures created, got %d", p.Created())
	}
}

func TestRecorderKeepsLastFrame(t *testing.T) {
	r := NewRecorder()
	r.Begin(mgl64.Ident4())
	r.Draw(Sprite{Body: 1})
	r.Draw(Sprite{Body: 2})
	r.End()

	r.Begin(mgl64.Ident4())
	r.Draw(Sprite{Body: 3})
	r.End()

	got := r.Sprites()
	if len(got) != 1 || got[0].Body != 3 {
		t.Errorf("expected only body 3, got %+v", got)
	}
	if r.Frames != 2 {
		t.Errorf("expected 2 frames, got %d", r.Frames)
	}
}

func TestSpritePivot(t *testing.T) {
	s := Sprite{Position: dynamo.V(-0.25, 0.75), Origin: dynamo.V(0.25, 0.25)}
	if got := s.Pivot(); got != dynamo.V(0, 1) {
		t.Errorf("expected (0,1), got %v", got)
	}
}

func TestSpriteCorners(t *testing.T) {
	s := Sprite{Position: dynamo.V(-1, -1), Origin: dynamo.V(1, 1), Size: dynamo.V(2, 2)}
	want := [4]dynamo.Vec2{dynamo.V(-1, -1), dynamo.V(1, -1), dynamo.V(1, 1), dynamo.V(-1, 1)}
	if got := s.Corners(); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}

	s.Rotation = 90
	got := s.Corners()
	rotated := [4]dynamo.Vec2{dynamo.V(1, -1), dynamo.V(1, 1), dynamo.V(-1, 1), dynamo.V(-1, -1)}
	for i := range rotated {
		if math.Abs(got[i].X-rotated[i].X) > 1e-12 || math.Abs(got[i].Y-rotated[i].Y) > 1e-12 {
			t.Errorf("corner %d: expected %v, got %v", i, rotated[i], got[i])
		}
	}
}
