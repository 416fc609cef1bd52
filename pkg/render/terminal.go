package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the color buffer to terminal cells and draws them on the
// screen. Each cell shows two rows with ▀ (fg = top, bg = bottom), so the
// target height should be 2x the area height.
func (t *RenderTarget) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < t.width; col++ {
			x := col - area.Min.X
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(t.Get(x, topY)),
					Bg: cellColor(t.Get(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// cellColor converts a packed pixel to a terminal color. Transparent pixels
// keep the terminal default.
func cellColor(p uint32) color.Color {
	if uint8(p) == 0 {
		return nil
	}
	return PackedRGBA(p)
}

// TerminalRenderer presents render targets on a terminal.
type TerminalRenderer struct {
	term          *uv.Terminal
	width, height int
}

// NewTerminalRenderer creates a renderer for a terminal of width x height
// cells.
func NewTerminalRenderer(term *uv.Terminal, width, height int) *TerminalRenderer {
	return &TerminalRenderer{term: term, width: width, height: height}
}

// FramebufferSize returns the render target size that fills the terminal.
func (r *TerminalRenderer) FramebufferSize() (width, height int) {
	return r.width, r.height * 2
}

// Render draws target over the whole terminal.
func (r *TerminalRenderer) Render(target *RenderTarget) {
	target.Draw(r.term, uv.Rect(0, 0, r.width, r.height))
}

// Flush pushes pending cell changes to the terminal.
func (r *TerminalRenderer) Flush() error {
	return r.term.Display()
}
