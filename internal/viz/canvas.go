package viz

import (
	"math"
	"strings"

	"github.com/san-kum/sphfluid/internal/sph"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a grid of braille cells. Each cell holds 2x4 sub-pixels, so the
// drawable area is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
	return c
}

// Set lights the sub-pixel at (x, y). Out of range pixels are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

// IsSet reports whether the sub-pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Viewport maps simulation coordinates onto a canvas, y up, keeping the
// aspect ratio square in sub-pixels.
type Viewport struct {
	Center sph.Vec2
	Extent float64 // half-width of the visible square, in world units
}

// ViewportFor frames the containment circle with a small margin.
func ViewportFor(p sph.Params) Viewport {
	return Viewport{Center: p.BoundaryCenter, Extent: p.BoundaryRadius * 1.1}
}

// ToPixel returns the sub-pixel coordinates of a world point.
func (v Viewport) ToPixel(c *Canvas, p sph.Vec2) (int, int) {
	w, h := float64(c.Width*2), float64(c.Height*4)
	scale := math.Min(w, h) / (2 * v.Extent)
	x := w/2 + (p.X-v.Center.X)*scale
	y := h/2 - (p.Y-v.Center.Y)*scale
	return int(math.Floor(x)), int(math.Floor(y))
}

// Plot draws a world point.
func (v Viewport) Plot(c *Canvas, p sph.Vec2) {
	if !p.IsFinite() {
		return
	}
	x, y := v.ToPixel(c, p)
	c.Set(x, y)
}

// Circle outlines a world-space circle with line segments.
func (v Viewport) Circle(c *Canvas, center sph.Vec2, r float64, segments int) {
	if segments < 3 {
		segments = 3
	}
	px, py := v.ToPixel(c, sph.Vec2{X: center.X + r, Y: center.Y})
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		x, y := v.ToPixel(c, sph.Vec2{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)})
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
