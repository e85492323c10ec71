package tty

import (
	"io"

	"github.com/rmouduri/kfs/device/input/ps2"
	"github.com/rmouduri/kfs/device/pic"
	"github.com/rmouduri/kfs/device/video/console"
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/hal/multiboot"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

const (
	// CmdLineColor selects the default input color of all sessions.
	CmdLineColor = "consoleColor"

	// CmdLineSession selects the session that is active after Start.
	CmdLineSession = "consoleSession"

	// tabWidth defines the number of spaces that tabs expand to.
	tabWidth = 4
)

var (
	errNoConsole   = &kernel.Error{Module: "tty", Message: "no console attached"}
	errNoKeyboard  = &kernel.Error{Module: "tty", Message: "no keyboard attached"}
	errDimensions  = &kernel.Error{Module: "tty", Message: "console dimensions must be 80x25"}
	errBadColor    = &kernel.Error{Module: "tty", Message: "unknown console color"}
	errBadSession  = &kernel.Error{Module: "tty", Message: "console session out of range"}
	errStarted     = &kernel.Error{Module: "tty", Message: "terminal already started"}
	errRegionLimit = &kernel.Error{Module: "tty", Message: "too many memory regions"}

	// promptColors defines the prompt color of each session.
	promptColors = [MaxSessions]console.Color{
		console.LightGreen,
		console.Blue,
		console.Red,
		console.Orange,
		console.Cyan,
		console.Magenta,
		console.LightBlue,
		console.LightCyan,
		console.LightRed,
		console.LightMagenta,
	}
)

// MemoryRegion describes a named block of memory that can be inspected with
// the dump command.
type MemoryRegion struct {
	Name string
	Base uintptr
	Data []byte
}

// maxRegions defines the number of memory regions that can be registered.
const maxRegions = 8

// Terminal multiplexes MaxSessions line-editing sessions onto a single
// display surface. All terminal state is owned by the Terminal value and is
// mutated from the keyboard interrupt handler; Write may also be used before
// interrupts are enabled.
type Terminal struct {
	cons console.Device
	kbd  Keyboard
	pic  InterruptController

	sessions [MaxSessions]Session
	active   uint8

	regions    [maxRegions]MemoryRegion
	numRegions int

	// submitted holds the input of the line being submitted. Commands
	// receive slices of it.
	submitted [Width]byte

	started bool
}

// NewTerminal creates a new terminal with MaxSessions sessions. The zero
// Terminal is also ready to use.
func NewTerminal() *Terminal {
	return &Terminal{}
}

// AttachTo connects the terminal to its display surface and input devices.
// The interrupt controller is optional.
func (t *Terminal) AttachTo(cons console.Device, kbd Keyboard, ctrl InterruptController) *kernel.Error {
	if cons == nil {
		return errNoConsole
	}

	if kbd == nil {
		return errNoKeyboard
	}

	if w, h := cons.Dimensions(); w != Width || h != Height {
		return errDimensions
	}

	t.cons, t.kbd, t.pic = cons, kbd, ctrl

	defAttr := cons.DefaultAttr()
	for i := range t.sessions {
		s := &t.sessions[i]
		*s = Session{
			attr:       defAttr,
			promptAttr: console.MakeAttr(promptColors[i], defAttr.Bg()),
			cursorY:    editRow,
		}
	}
	t.sessions[t.active].state = StateActive

	return nil
}

// Configure applies the console options passed on the kernel command line.
// It must be called before Start.
func (t *Terminal) Configure(cmdLine *multiboot.CmdLine) *kernel.Error {
	if t.started {
		return errStarted
	}

	if name, ok := cmdLine.Lookup(CmdLineColor); ok {
		fg, valid := console.ColorByName(name)
		if !valid {
			return errBadColor
		}

		for i := range t.sessions {
			s := &t.sessions[i]
			s.attr = console.MakeAttr(fg, s.attr.Bg())
		}
	}

	if val, ok := cmdLine.Lookup(CmdLineSession); ok {
		index, valid := parseSession(val)
		if !valid {
			return errBadSession
		}

		t.sessions[t.active].state = StateInactive
		t.active = index
		t.sessions[t.active].state = StateActive
	}

	return nil
}

// parseSession parses a decimal session index.
func parseSession(val string) (uint8, bool) {
	if len(val) == 0 {
		return 0, false
	}

	var index uint32
	for i := 0; i < len(val); i++ {
		if val[i] < '0' || val[i] > '9' {
			return 0, false
		}

		if index = index*10 + uint32(val[i]-'0'); index >= MaxSessions {
			return 0, false
		}
	}

	return uint8(index), true
}

// Start renders a prompt on every session and shows the edit line of the
// active session. The display contents at the time of the call become the
// contents of the active session.
func (t *Terminal) Start() *kernel.Error {
	if t.cons == nil {
		return errNoConsole
	}

	if t.started {
		return errStarted
	}

	for i := range t.sessions {
		if uint8(i) == t.active {
			continue
		}

		s := &t.sessions[i]
		s.grid.fill(s.blank())
		s.drawPrompt(&s.grid)
	}

	s := t.activeSession()
	s.drawPrompt(t.cons)
	t.cons.SetCursor(s.cursorX, s.cursorY)
	t.started = true

	return nil
}

// HandleInterrupt is the keyboard interrupt entry point. It reads and
// processes the next key event and acknowledges the interrupt.
func (t *Terminal) HandleInterrupt() {
	if t.kbd != nil {
		if ev, ok := t.kbd.ReadEvent(); ok {
			t.Dispatch(ev)
		}
	}

	if t.pic != nil {
		t.pic.Acknowledge(pic.KeyboardIRQ)
	}
}

// Dispatch applies a decoded key event to the active session.
func (t *Terminal) Dispatch(ev ps2.Event) {
	if !t.started {
		return
	}

	switch ev.Action {
	case ps2.ActionInsert:
		t.insert(ev.Char)
	case ps2.ActionSubmit:
		t.submit()
	case ps2.ActionBackspace:
		t.deleteBeforeCursor()
	case ps2.ActionDelete:
		t.deleteAtCursor()
	case ps2.ActionCursorLeft:
		t.moveLeft()
	case ps2.ActionCursorRight:
		t.moveRight()
	case ps2.ActionHistoryOlder:
		if line, ok := t.activeSession().history.Older(); ok {
			t.replaceLine(line)
		}
	case ps2.ActionHistoryNewer:
		if line, ok := t.activeSession().history.Newer(); ok {
			t.replaceLine(line)
		}
	case ps2.ActionSwitchSession:
		t.switchTo(ev.Session)
	}
}

// submit records the edit line, scrolls it into the output area, runs any
// built-in command it names and renders a fresh prompt.
func (t *Terminal) submit() {
	line := &t.submitted

	s := t.activeSession()
	n := t.editLine(line[:])
	s.history.Record(line[:n])

	t.cons.Scroll(console.ScrollDirUp, 1)
	t.cons.Fill(0, editRow, Width, 1, s.attr)
	s.outOpen = false

	t.runCommand(line[:n])

	// The command may have switched the active session's colors.
	s = t.activeSession()
	s.drawPrompt(t.cons)
	t.cons.SetCursor(s.cursorX, s.cursorY)
	s.history.Reset()
}

// Write implements io.Writer. Output is rendered on the rows above the edit
// line of the active session.
func (t *Terminal) Write(data []byte) (int, error) {
	for count, b := range data {
		if err := t.WriteByte(b); err != nil {
			return count, err
		}
	}

	return len(data), nil
}

// WriteByte implements io.ByteWriter. The terminal interprets the following
// special characters:
//   - \r (carriage-return)
//   - \n (line-feed)
//   - \b (backspace)
//   - \t (tab; expanded to tabWidth spaces)
func (t *Terminal) WriteByte(b byte) error {
	if t.cons == nil {
		return io.ErrClosedPipe
	}

	s := t.activeSession()
	switch b {
	case '\r':
		s.outX = 0
	case '\n':
		if !s.outOpen {
			t.lf(s)
		}
		s.outOpen = false
	case '\b':
		if s.outOpen && s.outX > 0 {
			s.outX--
			t.cons.Put(s.blank(), s.outX, outputRow)
		}
	case '\t':
		for i := 0; i < tabWidth; i++ {
			t.doWrite(s, ' ')
		}
	default:
		t.doWrite(s, b)
	}

	return nil
}

// doWrite places b at the output cursor of s, starting a new output line
// first if required.
func (t *Terminal) doWrite(s *Session, b byte) {
	if !s.outOpen {
		t.lf(s)
	}

	t.cons.Put(console.MakeCell(b, s.attr), s.outX, outputRow)
	if s.outX++; s.outX == Width {
		s.outOpen = false
	}
}

// lf scrolls the output area up by one row leaving the edit line in place
// and opens a blank output line for s.
func (t *Terminal) lf(s *Session) {
	var edit [Width]console.Cell
	for x := uint32(0); x < Width; x++ {
		edit[x] = t.cons.Read(x, editRow)
	}

	t.cons.Scroll(console.ScrollDirUp, 1)
	t.cons.Fill(0, outputRow, Width, 1, s.attr)
	for x := uint32(0); x < Width; x++ {
		t.cons.Put(edit[x], x, editRow)
	}

	s.outX, s.outOpen = 0, true
}

// RegisterRegion makes a memory region available to the dump command.
func (t *Terminal) RegisterRegion(region MemoryRegion) *kernel.Error {
	if t.numRegions == maxRegions {
		return errRegionLimit
	}

	t.regions[t.numRegions] = region
	t.numRegions++
	return nil
}

// ActiveSession returns the index of the active session.
func (t *Terminal) ActiveSession() uint8 {
	return t.active
}

// Session returns the session with the specified index or nil if the index
// is out of range.
func (t *Terminal) Session(index uint8) *Session {
	if index >= MaxSessions {
		return nil
	}
	return &t.sessions[index]
}

func (t *Terminal) activeSession() *Session {
	return &t.sessions[t.active]
}

// DriverName returns the name of this driver.
func (t *Terminal) DriverName() string {
	return "tty"
}

// DriverVersion returns the version of this driver.
func (t *Terminal) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit initializes this driver.
func (t *Terminal) DriverInit(w io.Writer) *kernel.Error {
	kfmt.Fprintf(w, "%d sessions, %d history lines each\n", MaxSessions, MaxHistory)
	return nil
}
