package tty

import "github.com/rmouduri/kfs/device/video/console"

// The edit operations below act on the edit line of the active session
// directly on the display surface. Columns [0, PromptLen) hold the prompt and
// are never modified; columns [PromptLen, written) hold the input.

// insert places ch at the cursor shifting the rest of the input one column to
// the right. Input is dropped when the edit line is full.
func (t *Terminal) insert(ch byte) {
	s := t.activeSession()
	if s.written == Width {
		return
	}

	for x := s.written; x > s.cursorX; x-- {
		t.cons.Put(t.cons.Read(x-1, editRow), x, editRow)
	}

	t.cons.Put(console.MakeCell(ch, s.attr), s.cursorX, editRow)
	s.written++
	t.moveCursor(s, s.cursorX+1)
}

// deleteBeforeCursor removes the character left of the cursor.
func (t *Terminal) deleteBeforeCursor() {
	s := t.activeSession()
	if s.cursorX == PromptLen {
		return
	}

	t.shiftLeft(s, s.cursorX-1)
	t.moveCursor(s, s.cursorX-1)
}

// deleteAtCursor removes the character under the cursor.
func (t *Terminal) deleteAtCursor() {
	s := t.activeSession()
	if s.cursorX >= s.written {
		return
	}

	t.shiftLeft(s, s.cursorX)
}

// shiftLeft removes the cell at column x by moving all cells to its right
// one column to the left and clearing the rightmost cell.
func (t *Terminal) shiftLeft(s *Session, x uint32) {
	for ; x < Width-1; x++ {
		t.cons.Put(t.cons.Read(x+1, editRow), x, editRow)
	}

	t.cons.Put(s.blank(), Width-1, editRow)
	s.written--
}

func (t *Terminal) moveLeft() {
	s := t.activeSession()
	if s.cursorX > PromptLen {
		t.moveCursor(s, s.cursorX-1)
	}
}

func (t *Terminal) moveRight() {
	s := t.activeSession()
	if s.cursorX < s.written && s.cursorX < Width-1 {
		t.moveCursor(s, s.cursorX+1)
	}
}

// moveCursor updates the session cursor column and the hardware cursor.
// A cursor that moves past the last column stays on the last column.
func (t *Terminal) moveCursor(s *Session, x uint32) {
	if x > Width-1 {
		x = Width - 1
	}

	s.cursorX, s.cursorY = x, editRow
	t.cons.SetCursor(s.cursorX, s.cursorY)
}

// replaceLine overwrites the input with line, pads the rest of the edit line
// with blanks and moves the cursor after the restored text.
func (t *Terminal) replaceLine(line []byte) {
	s := t.activeSession()

	x := PromptLen
	for i := 0; i < len(line) && x < Width; i, x = i+1, x+1 {
		t.cons.Put(console.MakeCell(line[i], s.attr), x, editRow)
	}

	s.written = x
	for blank := s.blank(); x < Width; x++ {
		t.cons.Put(blank, x, editRow)
	}

	t.moveCursor(s, s.written)
}

// editLine copies the input characters of the edit line into buf and returns
// the number of bytes copied.
func (t *Terminal) editLine(buf []byte) int {
	s := t.activeSession()

	var n int
	for x := PromptLen; x < s.written && n < len(buf); x, n = x+1, n+1 {
		buf[n] = t.cons.Read(x, editRow).Char()
	}
	return n
}
