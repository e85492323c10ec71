package tty

import (
	"github.com/rmouduri/kfs/device/input/ps2"
	"github.com/rmouduri/kfs/device/video/console"
)

const (
	// Width and Height define the dimensions of the display surface that a
	// Terminal can attach to.
	Width  = 80
	Height = 25

	// MaxSessions defines the number of sessions; they are selected with
	// the F1 to F10 keys.
	MaxSessions = 10

	// MaxHistory defines the number of lines remembered by each session.
	MaxHistory = 32

	// Prompt is rendered at the start of the edit line.
	Prompt = "kfs> "

	// PromptLen is the number of cells occupied by the prompt.
	PromptLen = uint32(len(Prompt))

	// editRow is the display row that holds the edit line.
	editRow = Height - 1

	// outputRow is the display row that receives terminal output.
	outputRow = Height - 2
)

// State defines the supported session state values.
type State uint8

const (
	// StateInactive marks the session as inactive. Its contents live in
	// its backing grid and are not visible.
	StateInactive State = iota

	// StateActive marks the session as active. Its contents are mirrored
	// on the display surface.
	StateActive
)

// Keyboard is implemented by input devices that produce decoded key events.
type Keyboard interface {
	// ReadEvent returns the next pending key event, if any.
	ReadEvent() (ps2.Event, bool)

	// Reset reboots the machine through the keyboard controller.
	Reset()
}

// InterruptController is implemented by devices that need to be told when an
// interrupt has been handled.
type InterruptController interface {
	Acknowledge(irq uint8)
}

// surface is the cell-level view shared by the display and the session
// backing grids.
type surface interface {
	Put(cell console.Cell, x, y uint32)
	Read(x, y uint32) console.Cell
}
