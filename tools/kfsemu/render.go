package main

import (
	"image/color"

	"github.com/gdamore/tcell/v2"
	"github.com/rmouduri/kfs/device/tty"
	"github.com/rmouduri/kfs/device/video/console"
)

// renderer copies the emulated framebuffer to a tcell screen.
type renderer struct {
	screen tcell.Screen
	styles [256]tcell.Style
}

// newRenderer precomputes a style for every console attribute using the
// supplied 16-color palette.
func newRenderer(screen tcell.Screen, palette color.Palette) *renderer {
	r := &renderer{screen: screen}

	colors := make([]tcell.Color, len(palette))
	for i, c := range palette {
		red, green, blue, _ := c.RGBA()
		colors[i] = tcell.NewRGBColor(int32(red>>8), int32(green>>8), int32(blue>>8))
	}

	for attr := range r.styles {
		a := console.Attr(attr)
		style := tcell.StyleDefault
		if int(a.Fg()) < len(colors) {
			style = style.Foreground(colors[a.Fg()])
		}
		if int(a.Bg()) < len(colors) {
			style = style.Background(colors[a.Bg()])
		}
		r.styles[attr] = style
	}

	return r
}

// Draw renders the display of m and its hardware cursor.
func (r *renderer) Draw(m *machine) {
	for y := uint32(0); y < tty.Height; y++ {
		for x := uint32(0); x < tty.Width; x++ {
			cell := m.Cell(x, y)
			r.screen.SetContent(int(x), int(y), glyph(cell.Char()), nil, r.styles[cell.Attr()])
		}
	}

	cx, cy := m.Cursor()
	r.screen.ShowCursor(int(cx), int(cy))
	r.screen.Show()
}

// glyph maps a VGA character code to a printable rune.
func glyph(ch byte) rune {
	if ch < ' ' || ch > '~' {
		return ' '
	}
	return rune(ch)
}
