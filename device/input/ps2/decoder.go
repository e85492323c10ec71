package ps2

// Action describes what a decoded key event asks the terminal to do.
type Action uint8

// The list of actions emitted by the Decoder. Each control code maps to
// exactly one action.
const (
	ActionNone Action = iota
	ActionInsert
	ActionSubmit
	ActionBackspace
	ActionDelete
	ActionCursorLeft
	ActionCursorRight
	ActionHistoryOlder
	ActionHistoryNewer
	ActionSwitchSession
)

// Event is a decoded keyboard event.
type Event struct {
	Action Action

	// Char is set for ActionInsert.
	Char byte

	// Session is set for ActionSwitchSession and holds the zero-based index
	// of the selected session.
	Session uint8
}

type decoderState uint8

const (
	stateAwaitingByte decoderState = iota
	stateAwaitingExtendedByte
)

// Decoder converts a stream of scancode set 1 bytes into key events while
// tracking the shift and caps lock modifiers. The zero value is ready to use.
type Decoder struct {
	state decoderState

	lshift, rshift bool

	capsLock bool

	// capsDebounce is armed by the first caps lock release after a press.
	// The keyboard repeats the release code while the key is held so the
	// second consecutive release is the one that toggles caps lock off.
	capsDebounce bool
}

// Feed processes a single scancode byte. It returns the decoded event and
// true if the byte completed an event that needs handling.
func (d *Decoder) Feed(code byte) (Event, bool) {
	if d.state == stateAwaitingExtendedByte {
		d.state = stateAwaitingByte
		return d.feedExtended(code)
	}

	if code&breakBit == 0 {
		if ch := d.translate(code); ch != 0 {
			return Event{Action: ActionInsert, Char: ch}, true
		}
	}

	switch code {
	case codeEnter:
		return Event{Action: ActionSubmit}, true
	case codeBackspace:
		return Event{Action: ActionBackspace}, true
	case codeExtended:
		d.state = stateAwaitingExtendedByte
	case codeLeftShift:
		d.lshift = true
	case codeLeftShiftUp:
		d.lshift = false
	case codeRightShift:
		d.rshift = true
	case codeRightShiftUp:
		d.rshift = false
	case codeCapsLock:
		if !d.capsDebounce {
			d.capsLock = true
		}
	case codeCapsLockUp:
		if !d.capsDebounce {
			d.capsDebounce = true
		} else {
			d.capsLock = false
			d.capsDebounce = false
		}
	default:
		if code >= codeF1 && code <= codeF10 {
			return Event{Action: ActionSwitchSession, Session: code - codeF1}, true
		}
	}

	return Event{}, false
}

func (d *Decoder) feedExtended(code byte) (Event, bool) {
	switch code {
	case extDelete:
		return Event{Action: ActionDelete}, true
	case extLeft:
		return Event{Action: ActionCursorLeft}, true
	case extRight:
		return Event{Action: ActionCursorRight}, true
	case extUp:
		return Event{Action: ActionHistoryOlder}, true
	case extDown:
		return Event{Action: ActionHistoryNewer}, true
	case extEnter:
		return Event{Action: ActionSubmit}, true
	}

	return Event{}, false
}

// translate maps a make code to a character applying the active modifiers.
// Caps lock only affects letters and is inverted by shift.
func (d *Decoder) translate(code byte) byte {
	shifted := d.Shift()
	if d.capsLock && isLetter(code) {
		shifted = !shifted
	}

	return lookup(code, shifted)
}

// Pending returns true if the decoder consumed an extended marker and is
// waiting for the second byte of the sequence.
func (d *Decoder) Pending() bool {
	return d.state == stateAwaitingExtendedByte
}

// Shift returns true if either shift key is held down.
func (d *Decoder) Shift() bool {
	return d.lshift || d.rshift
}

// CapsLock returns true if caps lock is active.
func (d *Decoder) CapsLock() bool {
	return d.capsLock
}
