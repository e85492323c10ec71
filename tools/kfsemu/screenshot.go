package main

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/rmouduri/kfs/device/tty"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Dimensions of a character cell in the screenshot.
const (
	cellWidth  = 7
	cellHeight = 13
)

// screenshot renders the display of m to an image using the supplied
// palette. The cell under the hardware cursor is drawn inverted.
func screenshot(m *machine, palette color.Palette) *image.RGBA {
	face := basicfont.Face7x13
	img := image.NewRGBA(image.Rect(0, 0, tty.Width*cellWidth, tty.Height*cellHeight))
	ascent := face.Metrics().Ascent.Ceil()

	for y := uint32(0); y < tty.Height; y++ {
		for x := uint32(0); x < tty.Width; x++ {
			cell := m.Cell(x, y)
			fg := palette[cell.Attr().Fg()]
			bg := palette[cell.Attr().Bg()]
			px, py := int(x)*cellWidth, int(y)*cellHeight

			for dy := 0; dy < cellHeight; dy++ {
				for dx := 0; dx < cellWidth; dx++ {
					img.Set(px+dx, py+dy, bg)
				}
			}

			ch := glyph(cell.Char())
			if ch == ' ' {
				continue
			}

			d := &font.Drawer{
				Dst:  img,
				Src:  image.NewUniform(fg),
				Face: face,
				Dot:  fixed.P(px, py+ascent),
			}
			d.DrawString(string(ch))
		}
	}

	cx, cy := m.Cursor()
	px, py := int(cx)*cellWidth, int(cy)*cellHeight
	for dy := 0; dy < cellHeight; dy++ {
		for dx := 0; dx < cellWidth; dx++ {
			c := img.RGBAAt(px+dx, py+dy)
			img.SetRGBA(px+dx, py+dy, color.RGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: 255})
		}
	}

	return img
}

// writeScreenshot saves a screenshot of m as a PNG file.
func writeScreenshot(path string, m *machine, palette color.Palette) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(f, screenshot(m, palette)); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
