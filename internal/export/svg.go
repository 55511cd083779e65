// Package export renders scene frames and run traces as SVG.
package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/dropsim/internal/render"
	"github.com/san-kum/dropsim/internal/xform"
)

func svgHeader(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h)
}

func fill(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// FrameToSVG draws one frame of sprites as seen by cam. Square sprites are
// drops and become circles; the rest become their rotated rectangle.
func FrameToSVG(sprites []render.Sprite, cam xform.Camera) string {
	view := cam.Viewport()
	var sb strings.Builder
	svgHeader(&sb, view.Width, view.Height)

	for _, s := range sprites {
		if s.Size.X == s.Size.Y {
			c := view.ToScreen(s.Position.Add(s.Size.Scale(0.5)))
			r := view.ScaleToScreen(s.Size.Scale(0.5))
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, c.X, c.Y, r.X, fill(render.ColorDrop))
			continue
		}

		pts := make([]string, 0, 4)
		for _, p := range s.Corners() {
			sp := view.ToScreen(p)
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", sp.X, sp.Y))
		}
		fmt.Fprintf(&sb, `<polygon points="%s" fill="none" stroke="%s" stroke-width="2"/>
`, strings.Join(pts, " "), fill(render.ColorBottle))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// SeriesToSVG plots values against their index as a single polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo, hi = min(lo, v), max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	lo -= rng * 0.1
	rng *= 1.2

	var sb strings.Builder
	svgHeader(&sb, float64(width), float64(height))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)

	n := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / n * float64(width)
		y := float64(height) - (v-lo)/rng*float64(height)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}

	sb.WriteString("\"/>\n</svg>\n")
	return sb.String()
}
