package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/sphfluid/internal/sph"
	"github.com/san-kum/sphfluid/internal/viz"
)

const (
	background  = "#0a0a0a"
	fluidColor  = "#00a8cc"
	vesselColor = "#4488aa"
)

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(`<g fill="` + fluidColor + "\">\n")

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// FrameToSVG draws the containment circle and one dot per position in a
// size x size image, y up. Non-finite positions are skipped.
func FrameToSVG(positions []sph.Vec2, params sph.Params, size int) string {
	s := float64(size)
	extent := params.BoundaryRadius * 1.1
	scale := s / (2 * extent)
	toScreen := func(p sph.Vec2) (float64, float64) {
		return s/2 + (p.X-params.BoundaryCenter.X)*scale, s/2 - (p.Y-params.BoundaryCenter.Y)*scale
	}

	var sb strings.Builder
	header(&sb, s, s)

	cx, cy := toScreen(params.BoundaryCenter)
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s" stroke-width="1.5"/>
`, cx, cy, params.BoundaryRadius*scale, vesselColor))

	dotRadius := params.InteractionRadius * scale * 0.25
	if dotRadius < 1 {
		dotRadius = 1
	}
	sb.WriteString(`<g fill="` + fluidColor + "\">\n")
	for _, p := range positions {
		if !p.IsFinite() {
			continue
		}
		x, y := toScreen(p)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, x, y, dotRadius))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TrackToSVG draws the path of one particle across frames, fitted to the
// image with 10% padding.
func TrackToSVG(points []sph.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	// Find bounds
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
