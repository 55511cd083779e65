package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"sync/atomic"
)

// MemoryTexture is an in-memory RGBA texture.
type MemoryTexture struct {
	Image    *image.RGBA
	owner    *MemoryTextures
	disposed atomic.Bool
}

func (t *MemoryTexture) Width() int  { return t.Image.Bounds().Dx() }
func (t *MemoryTexture) Height() int { return t.Image.Bounds().Dy() }

// Dispose panics on a second call: a double release is a programming error.
func (t *MemoryTexture) Dispose() {
	if !t.disposed.CompareAndSwap(false, true) {
		panic("render: texture disposed twice")
	}
	t.owner.live.Add(-1)
	t.owner.disposed.Add(1)
}

func (t *MemoryTexture) Disposed() bool { return t.disposed.Load() }

// MemoryTextures is a headless TextureProvider that counts live textures.
type MemoryTextures struct {
	created  atomic.Int64
	disposed atomic.Int64
	live     atomic.Int64
}

func NewMemoryTextures() *MemoryTextures {
	return &MemoryTextures{}
}

func (p *MemoryTextures) track(img *image.RGBA) *MemoryTexture {
	p.created.Add(1)
	p.live.Add(1)
	return &MemoryTexture{Image: img, owner: p}
}

// Load decodes a PNG file.
func (p *MemoryTextures) Load(path string) (Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)
	return p.track(img), nil
}

// Circle generates a filled circle inscribed in a diameter-sized square.
func (p *MemoryTextures) Circle(diameter int, c color.RGBA) (Texture, error) {
	if diameter <= 0 {
		return nil, fmt.Errorf("render: circle diameter %d", diameter)
	}
	img := image.NewRGBA(image.Rect(0, 0, diameter, diameter))
	r := float64(diameter) / 2
	for y := 0; y < diameter; y++ {
		for x := 0; x < diameter; x++ {
			dx := float64(x) + 0.5 - r
			dy := float64(y) + 0.5 - r
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, c)
			}
		}
	}
	return p.track(img), nil
}

func (p *MemoryTextures) Rect(w, h int, c color.RGBA) (Texture, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: rect size %dx%d", w, h)
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return p.track(img), nil
}

func (p *MemoryTextures) Created() int64  { return p.created.Load() }
func (p *MemoryTextures) Disposed() int64 { return p.disposed.Load() }
func (p *MemoryTextures) Live() int64     { return p.live.Load() }
