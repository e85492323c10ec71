package tty

import "github.com/rmouduri/kfs/device/video/console"

// grid is an off-screen copy of the display surface.
type grid [Width * Height]console.Cell

// Put writes a cell to the specified location. Writes outside the grid are
// ignored.
func (g *grid) Put(cell console.Cell, x, y uint32) {
	if x < Width && y < Height {
		g[y*Width+x] = cell
	}
}

// Read returns the cell stored at the specified location.
func (g *grid) Read(x, y uint32) console.Cell {
	if x < Width && y < Height {
		return g[y*Width+x]
	}
	return 0
}

// fill sets every cell of the grid to cell.
func (g *grid) fill(cell console.Cell) {
	for i := range g {
		g[i] = cell
	}
}

// Session holds the state of a virtual terminal. Only the active session is
// mirrored on the display surface; the grid of the active session is stale
// until the session is switched out.
type Session struct {
	grid grid

	cursorX, cursorY uint32

	// written is the column after the last input character on the edit
	// line.
	written uint32

	// attr is used for input and output text; promptAttr for the prompt.
	attr       console.Attr
	promptAttr console.Attr

	// outX is the output column on outputRow. When outOpen is false the
	// next output byte starts a new line.
	outX    uint32
	outOpen bool

	history History
	state   State
}

// State returns the session state.
func (s *Session) State() State {
	return s.state
}

// CursorPosition returns the 0-based cursor coordinates of the session.
func (s *Session) CursorPosition() (uint32, uint32) {
	return s.cursorX, s.cursorY
}

// Written returns the column after the last input character on the edit
// line.
func (s *Session) Written() uint32 {
	return s.written
}

// Attr returns the attribute used for session text.
func (s *Session) Attr() console.Attr {
	return s.attr
}

// History returns the session history.
func (s *Session) History() *History {
	return &s.history
}

// blank returns an empty cell in the session colors.
func (s *Session) blank() console.Cell {
	return console.MakeCell(' ', s.attr)
}

// drawPrompt renders the prompt followed by a blank edit line onto dst and
// places the session cursor right after the prompt.
func (s *Session) drawPrompt(dst surface) {
	var x uint32
	for ; x < PromptLen; x++ {
		dst.Put(console.MakeCell(Prompt[x], s.promptAttr), x, editRow)
	}

	for blank := s.blank(); x < Width; x++ {
		dst.Put(blank, x, editRow)
	}

	s.cursorX, s.cursorY = PromptLen, editRow
	s.written = PromptLen
}

// switchTo saves the display contents into the active session, restores the
// target session onto the display and makes it the active session.
func (t *Terminal) switchTo(target uint8) {
	if target >= MaxSessions || target == t.active {
		return
	}

	cur, next := &t.sessions[t.active], &t.sessions[target]

	var x, y uint32
	for y = 0; y < Height; y++ {
		for x = 0; x < Width; x++ {
			cur.grid.Put(t.cons.Read(x, y), x, y)
		}
	}

	for y = 0; y < Height; y++ {
		for x = 0; x < Width; x++ {
			t.cons.Put(next.grid.Read(x, y), x, y)
		}
	}

	cur.state, next.state = StateInactive, StateActive
	t.active = target
	t.cons.SetCursor(next.cursorX, next.cursorY)
}
