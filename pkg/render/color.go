package render

import (
	"image/color"

	"github.com/chewxy/math32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is a premultiplied-alpha RGBA color with float32 channels nominally
// in [0, 1]. Accumulation may leave the range temporarily; Pack clamps.
type Color struct {
	R, G, B, A float32
}

// Colors for convenience
var (
	Transparent  = Color{}
	ColorBlack   = Color{0, 0, 0, 1}
	ColorWhite   = Color{1, 1, 1, 1}
	ColorRed     = Color{1, 0, 0, 1}
	ColorGreen   = Color{0, 1, 0, 1}
	ColorBlue    = Color{0, 0, 1, 1}
	ColorYellow  = Color{1, 1, 0, 1}
	ColorCyan    = Color{0, 1, 1, 1}
	ColorMagenta = Color{1, 0, 1, 1}
)

// RGB creates an opaque color.
func RGB(r, g, b float32) Color {
	return Color{r, g, b, 1}
}

// NRGBA creates a color from straight (non-premultiplied) channels.
func NRGBA(r, g, b, a float32) Color {
	return Color{r * a, g * a, b * a, a}
}

// ParseHex parses "#rgb" or "#rrggbb" and applies alpha.
func ParseHex(s string, alpha float32) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, err
	}
	return NRGBA(float32(c.R), float32(c.G), float32(c.B), alpha), nil
}

// Add returns the component-wise sum.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Scale multiplies every channel by s.
func (c Color) Scale(s float32) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A * s}
}

// Over composites c (source) over dst with the source-over operator:
// dst*(1-c.A) + c.
func (c Color) Over(dst Color) Color {
	k := 1 - c.A
	return Color{
		dst.R*k + c.R,
		dst.G*k + c.G,
		dst.B*k + c.B,
		dst.A*k + c.A,
	}
}

// Clamp limits every channel to [0, 1]. NaN becomes 0.
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

func clamp01(v float32) float32 {
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Pack converts the clamped color to 0xRRGGBBAA, truncating each channel
// scaled by 255.
func (c Color) Pack() uint32 {
	c = c.Clamp()
	return uint32(c.R*255)<<24 | uint32(c.G*255)<<16 | uint32(c.B*255)<<8 | uint32(c.A*255)
}

// UnpackColor converts 0xRRGGBBAA back to a Color.
func UnpackColor(p uint32) Color {
	return Color{
		R: float32(p>>24&0xff) / 255,
		G: float32(p>>16&0xff) / 255,
		B: float32(p>>8&0xff) / 255,
		A: float32(p&0xff) / 255,
	}
}

// PackedRGBA converts a packed pixel to Go's premultiplied color.RGBA.
func PackedRGBA(p uint32) color.RGBA {
	return color.RGBA{R: uint8(p >> 24), G: uint8(p >> 16), B: uint8(p >> 8), A: uint8(p)}
}

// Hex formats the straight (unpremultiplied) RGB part as "#rrggbb".
func (c Color) Hex() string {
	c = c.Clamp()
	if c.A == 0 {
		return "#000000"
	}
	return colorful.Color{
		R: float64(math32.Min(1, c.R/c.A)),
		G: float64(math32.Min(1, c.G/c.A)),
		B: float64(math32.Min(1, c.B/c.A)),
	}.Hex()
}
