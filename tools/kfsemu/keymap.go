package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rmouduri/kfs/device/input/ps2"
)

// Scancode set 1 codes sent by the emulated keyboard.
const (
	scanEnter     byte = 0x1c
	scanBackspace byte = 0x0e
	scanLeftShift byte = 0x2a
	scanCapsLock  byte = 0x3a
	scanF1        byte = 0x3b
	scanExtended  byte = 0xe0
	scanBreak     byte = 0x80
	scanExtUp     byte = 0x48
	scanExtLeft   byte = 0x4b
	scanExtRight  byte = 0x4d
	scanExtDown   byte = 0x50
	scanExtDelete byte = 0x53
)

// numFunctionKeys is the number of function keys that select a session.
const numFunctionKeys = 10

// tap returns the press and release codes of a key.
func tap(code byte) []byte {
	return []byte{code, code | scanBreak}
}

// tapExtended returns the press and release codes of an extended key.
func tapExtended(code byte) []byte {
	return []byte{scanExtended, code, scanExtended, code | scanBreak}
}

// scancodesFor translates a key event into the scancodes a PS/2 keyboard
// sends when the key is pressed and released. Characters that require shift
// are wrapped in a left shift press and release. Caps lock has no host
// equivalent that tcell reports so it is bound to Ctrl-L.
func scancodesFor(ev *tcell.EventKey) []byte {
	switch key := ev.Key(); key {
	case tcell.KeyRune:
		return scancodesForRune(ev.Rune())
	case tcell.KeyEnter:
		return tap(scanEnter)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return tap(scanBackspace)
	case tcell.KeyCtrlL:
		return tap(scanCapsLock)
	case tcell.KeyUp:
		return tapExtended(scanExtUp)
	case tcell.KeyDown:
		return tapExtended(scanExtDown)
	case tcell.KeyLeft:
		return tapExtended(scanExtLeft)
	case tcell.KeyRight:
		return tapExtended(scanExtRight)
	case tcell.KeyDelete:
		return tapExtended(scanExtDelete)
	default:
		if key >= tcell.KeyF1 && key < tcell.KeyF1+numFunctionKeys {
			return tap(scanF1 + byte(key-tcell.KeyF1))
		}
	}

	return nil
}

func scancodesForRune(r rune) []byte {
	if r <= 0 || r > 0x7f {
		return nil
	}

	code, shifted, ok := ps2.ScanCodeFor(byte(r))
	if !ok {
		return nil
	}

	if !shifted {
		return tap(code)
	}

	return []byte{scanLeftShift, code, code | scanBreak, scanLeftShift | scanBreak}
}
