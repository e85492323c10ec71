package console

// Color is one of the 16 colors supported by the VGA text mode.
type Color uint8

// The VGA text mode color indices.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Orange
	LightGrey
	DarkGrey
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	Yellow
	White
)

// colorNames maps each color index to the name accepted by ColorByName.
var colorNames = [...]string{
	"black",
	"blue",
	"green",
	"cyan",
	"red",
	"magenta",
	"orange",
	"light_grey",
	"dark_grey",
	"light_blue",
	"light_green",
	"light_cyan",
	"light_red",
	"light_magenta",
	"yellow",
	"white",
}

// String returns the name of the color.
func (c Color) String() string {
	if int(c) >= len(colorNames) {
		return "unknown"
	}
	return colorNames[c]
}

// ColorByName looks up a color by its name. The comparison is
// case-sensitive.
func ColorByName(name string) (Color, bool) {
	for i, n := range colorNames {
		if n == name {
			return Color(i), true
		}
	}
	return Black, false
}

// ColorNames returns the names of all supported colors in index order.
func ColorNames() []string {
	return colorNames[:]
}

// Attr encodes a foreground and a background color using 4 bits for each.
type Attr uint8

// MakeAttr returns the attribute for the fg/bg color pair.
func MakeAttr(fg, bg Color) Attr {
	return Attr(fg&0xf) | Attr(bg&0xf)<<4
}

// Fg returns the foreground color of the attribute.
func (a Attr) Fg() Color { return Color(a & 0xf) }

// Bg returns the background color of the attribute.
func (a Attr) Bg() Color { return Color(a >> 4) }

// Cell is a single character of the text console, stored in the VGA
// hardware layout: the low byte holds the character code and the high byte
// holds its attribute.
type Cell uint16

// MakeCell returns a cell containing ch rendered with attr.
func MakeCell(ch byte, attr Attr) Cell {
	return Cell(ch) | Cell(attr)<<8
}

// Char returns the character code stored in the cell.
func (c Cell) Char() byte { return byte(c) }

// Attr returns the attribute stored in the cell.
func (c Cell) Attr() Attr { return Attr(c >> 8) }
