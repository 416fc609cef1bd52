// Package render provides software rasterization for prism.
package render

import (
	"fmt"
	"image"
)

// RenderTarget holds a packed RGBA color buffer and a float32 depth buffer.
// Pixels are row-major, row 0 at the top. Each color is 0xRRGGBBAA
// (premultiplied). Depth starts at 1.0 (the far plane).
type RenderTarget struct {
	width  int
	height int
	color  []uint32
	depth  []float32
}

// NewRenderTarget creates a cleared render target. Negative sizes are
// treated as zero.
func NewRenderTarget(width, height int) *RenderTarget {
	width, height = max(width, 0), max(height, 0)
	t := &RenderTarget{
		width:  width,
		height: height,
		color:  make([]uint32, width*height),
		depth:  make([]float32, width*height),
	}
	t.ClearDepth()
	return t
}

// Width returns the width in pixels.
func (t *RenderTarget) Width() int { return t.width }

// Height returns the height in pixels.
func (t *RenderTarget) Height() int { return t.height }

// Aspect returns width/height, used to initialise the camera.
func (t *RenderTarget) Aspect() float32 {
	if t.height == 0 {
		return 1
	}
	return float32(t.width) / float32(t.height)
}

// Pixels returns the packed color buffer (row-major). It aliases the
// target's storage.
func (t *RenderTarget) Pixels() []uint32 {
	return t.color
}

func (t *RenderTarget) inBounds(x, y int) bool {
	return x >= 0 && x < t.width && y >= 0 && y < t.height
}

// index returns the buffer offset of (x, y). Out-of-range writes are
// programming errors and panic.
func (t *RenderTarget) index(x, y int) int {
	if !t.inBounds(x, y) {
		panic(fmt.Sprintf("render: pixel (%d, %d) outside %dx%d target", x, y, t.width, t.height))
	}
	return y*t.width + x
}

// Clear fills the color buffer with c.
func (t *RenderTarget) Clear(c Color) {
	fillCopy(t.color, c.Pack())
}

// ClearDepth resets every depth value to 1.0.
func (t *RenderTarget) ClearDepth() {
	fillCopy(t.depth, 1)
}

// fillCopy fills s with v using copy-doubling.
func fillCopy[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}

// Get returns the packed color at (x, y).
// Returns 0 (transparent black) if out of bounds.
func (t *RenderTarget) Get(x, y int) uint32 {
	if !t.inBounds(x, y) {
		return 0
	}
	return t.color[y*t.width+x]
}

// ColorAt returns the unpacked color at (x, y).
func (t *RenderTarget) ColorAt(x, y int) Color {
	return UnpackColor(t.Get(x, y))
}

// DepthAt returns the stored depth at (x, y), 1.0 if out of bounds.
func (t *RenderTarget) DepthAt(x, y int) float32 {
	if !t.inBounds(x, y) {
		return 1
	}
	return t.depth[y*t.width+x]
}

// CheckDepth stores depth and returns true iff depth is strictly less than
// the stored value. Equal depths do not overwrite.
func (t *RenderTarget) CheckDepth(x, y int, depth float32) bool {
	i := t.index(x, y)
	if depth < t.depth[i] {
		t.depth[i] = depth
		return true
	}
	return false
}

// Paint composites c onto the stored pixel using mode.
func (t *RenderTarget) Paint(x, y int, c Color, mode BlendMode) {
	i := t.index(x, y)
	dst := UnpackColor(t.color[i])
	t.color[i] = mode.Blend(c, dst).Pack()
}

// SetPixel paints (x, y) source-over, silently clipping out-of-range
// coordinates. Used by line drawing.
func (t *RenderTarget) SetPixel(x, y int, c Color) {
	if !t.inBounds(x, y) {
		return
	}
	t.Paint(x, y, c, BlendSourceOver)
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (t *RenderTarget) DrawLine(x0, y0, x1, y1 int, c Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		t.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the color buffer to a premultiplied image.RGBA.
func (t *RenderTarget) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			img.SetRGBA(x, y, PackedRGBA(t.color[y*t.width+x]))
		}
	}
	return img
}
