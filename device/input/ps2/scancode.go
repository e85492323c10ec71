package ps2

// Scancode set 1 make/break codes recognized by the decoder. Break codes
// are the make code with bit 7 set.
const (
	codeBackspace    byte = 0x0e
	codeEnter        byte = 0x1c
	codeLeftShift    byte = 0x2a
	codeRightShift   byte = 0x36
	codeCapsLock     byte = 0x3a
	codeF1           byte = 0x3b
	codeF10          byte = 0x44
	codeExtended     byte = 0xe0
	codeLeftShiftUp  byte = 0xaa
	codeRightShiftUp byte = 0xb6
	codeCapsLockUp   byte = 0xba

	// Second byte of an extended (0xe0-prefixed) sequence.
	extEnter  byte = 0x1c
	extUp     byte = 0x48
	extLeft   byte = 0x4b
	extRight  byte = 0x4d
	extDown   byte = 0x50
	extDelete byte = 0x53

	breakBit byte = 0x80
)

// keymap maps make codes to their unshifted and shifted characters for a
// US QWERTY layout. A zero entry means the code produces no character.
var keymap = [128][2]byte{
	0x02: {'1', '!'}, 0x03: {'2', '@'}, 0x04: {'3', '#'}, 0x05: {'4', '$'},
	0x06: {'5', '%'}, 0x07: {'6', '^'}, 0x08: {'7', '&'}, 0x09: {'8', '*'},
	0x0a: {'9', '('}, 0x0b: {'0', ')'}, 0x0c: {'-', '_'}, 0x0d: {'=', '+'},

	0x10: {'q', 'Q'}, 0x11: {'w', 'W'}, 0x12: {'e', 'E'}, 0x13: {'r', 'R'},
	0x14: {'t', 'T'}, 0x15: {'y', 'Y'}, 0x16: {'u', 'U'}, 0x17: {'i', 'I'},
	0x18: {'o', 'O'}, 0x19: {'p', 'P'}, 0x1a: {'[', '{'}, 0x1b: {']', '}'},

	0x1e: {'a', 'A'}, 0x1f: {'s', 'S'}, 0x20: {'d', 'D'}, 0x21: {'f', 'F'},
	0x22: {'g', 'G'}, 0x23: {'h', 'H'}, 0x24: {'j', 'J'}, 0x25: {'k', 'K'},
	0x26: {'l', 'L'}, 0x27: {';', ':'}, 0x28: {'\'', '"'}, 0x29: {'`', '~'},

	0x2b: {'\\', '|'}, 0x2c: {'z', 'Z'}, 0x2d: {'x', 'X'}, 0x2e: {'c', 'C'},
	0x2f: {'v', 'V'}, 0x30: {'b', 'B'}, 0x31: {'n', 'N'}, 0x32: {'m', 'M'},
	0x33: {',', '<'}, 0x34: {'.', '>'}, 0x35: {'/', '?'},

	0x37: {'*', '*'},
	0x39: {' ', ' '},
}

// lookup returns the character produced by code for the given shift state
// or 0 if the code has no character mapping.
func lookup(code byte, shifted bool) byte {
	if int(code) >= len(keymap) {
		return 0
	}

	if shifted {
		return keymap[code][1]
	}
	return keymap[code][0]
}

// isLetter reports whether code is a make code for an alphabetic key.
func isLetter(code byte) bool {
	ch := lookup(code, false)
	return ch >= 'a' && ch <= 'z'
}

// ScanCodeFor performs the reverse keymap lookup for ch. It returns the make
// code of the key producing ch and whether shift must be held to produce it.
func ScanCodeFor(ch byte) (code byte, shifted, ok bool) {
	for i := range keymap {
		switch ch {
		case 0:
			return 0, false, false
		case keymap[i][0]:
			return byte(i), false, true
		case keymap[i][1]:
			return byte(i), true, true
		}
	}

	return 0, false, false
}
