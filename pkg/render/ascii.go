package render

import (
	"bufio"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// ASCIIRamp maps quantized alpha to glyphs, from empty to fully covered.
const ASCIIRamp = " .:-=+*#%@"

// Glyph returns the ramp glyph for an 8-bit alpha.
func Glyph(alpha uint8) byte {
	return ASCIIRamp[int(alpha)*(len(ASCIIRamp)-1)/255]
}

// ASCII renders the color buffer as one glyph per pixel keyed by alpha,
// rows separated by newlines.
func (t *RenderTarget) ASCII() string {
	var sb strings.Builder
	sb.Grow((t.width + 1) * t.height)
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			sb.WriteByte(Glyph(uint8(t.Get(x, y))))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteASCII writes the glyph dump to w. With a color profile other than
// termenv.Ascii every glyph is tinted with its pixel's color.
func (t *RenderTarget) WriteASCII(w io.Writer, profile termenv.Profile) error {
	if profile == termenv.Ascii {
		_, err := io.WriteString(w, t.ASCII())
		return err
	}

	bw := bufio.NewWriter(w)
	out := termenv.NewOutput(bw, termenv.WithProfile(profile))
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			p := t.Get(x, y)
			g := string(Glyph(uint8(p)))
			if uint8(p) == 0 {
				bw.WriteString(g)
				continue
			}
			bw.WriteString(out.String(g).Foreground(out.Color(t.ColorAt(x, y).Hex())).String())
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
