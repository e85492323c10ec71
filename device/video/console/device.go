package console

import "image/color"

// ScrollDir defines a scroll direction.
type ScrollDir uint8

// The supported list of scroll directions for the console Scroll() calls.
const (
	ScrollDirUp ScrollDir = iota
	ScrollDirDown
)

// The Device interface is implemented by objects that can function as the
// display surface of the system console. All coordinates are 0-based
// (top-left corner has coordinates 0,0).
type Device interface {
	// Dimensions returns the width and height of the console in
	// characters.
	Dimensions() (uint32, uint32)

	// DefaultAttr returns the attribute used for clearing the console.
	DefaultAttr() Attr

	// Put writes a cell to the specified location. Writes outside the
	// console bounds are ignored.
	Put(cell Cell, x, y uint32)

	// Read returns the cell stored at the specified location. Reads
	// outside the console bounds return the zero Cell.
	Read(x, y uint32) Cell

	// Fill sets the contents of the specified rectangular region to blank
	// cells using the requested attribute.
	Fill(x, y, width, height uint32, attr Attr)

	// Scroll the console contents to the specified direction. The caller
	// is responsible for updating (e.g. clear or replace) the contents of
	// the region that was scrolled.
	Scroll(dir ScrollDir, lines uint32)

	// SetCursor moves the hardware cursor to the specified location.
	SetCursor(x, y uint32)

	// Palette returns the active color palette for this console.
	Palette() color.Palette
}
