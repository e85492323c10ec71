package ps2

import (
	"io"

	"github.com/rmouduri/kfs/device"
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

const (
	// DataPort is the port for reading scancodes from the controller.
	DataPort uint16 = 0x60

	// StatusPort is the controller status (read) and command (write) port.
	StatusPort uint16 = 0x64

	statusOutputFull uint8 = 1 << 0
	cmdPulseReset    uint8 = 0xfe

	// maxFlush bounds the number of stale bytes drained during init.
	maxFlush = 16
)

// Keyboard is a driver for a PS/2 keyboard attached to the first port of
// an 8042 controller.
type Keyboard struct {
	ports   device.PortIO
	decoder Decoder
}

// MakeKeyboard returns a PS/2 keyboard driver value that talks to the
// controller through ports.
func MakeKeyboard(ports device.PortIO) Keyboard {
	return Keyboard{ports: ports}
}

// NewKeyboard creates a new PS/2 keyboard driver that talks to the
// controller through ports.
func NewKeyboard(ports device.PortIO) *Keyboard {
	kb := MakeKeyboard(ports)
	return &kb
}

// ReadEvent reads the next scancode from the controller and feeds it to the
// decoder. If the byte is an extended marker and the second byte is already
// available, it is consumed in the same call. ReadEvent returns false if no
// byte was available or the bytes read did not complete an event.
func (kb *Keyboard) ReadEvent() (Event, bool) {
	if !kb.hasData() {
		return Event{}, false
	}

	ev, ok := kb.decoder.Feed(kb.ports.PortReadByte(DataPort))
	if kb.decoder.Pending() && kb.hasData() {
		ev, ok = kb.decoder.Feed(kb.ports.PortReadByte(DataPort))
	}

	return ev, ok
}

// Decoder returns the decoder used by the keyboard.
func (kb *Keyboard) Decoder() *Decoder {
	return &kb.decoder
}

// Reset pulses the CPU reset line through the keyboard controller.
func (kb *Keyboard) Reset() {
	kb.ports.PortWriteByte(StatusPort, cmdPulseReset)
}

func (kb *Keyboard) hasData() bool {
	return kb.ports.PortReadByte(StatusPort)&statusOutputFull != 0
}

// DriverName returns the name of this driver.
func (kb *Keyboard) DriverName() string {
	return "ps2_keyboard"
}

// DriverVersion returns the version of this driver.
func (kb *Keyboard) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit initializes this driver. Any scancodes left in the controller
// output buffer by the firmware are discarded.
func (kb *Keyboard) DriverInit(w io.Writer) *kernel.Error {
	var flushed int
	for ; flushed < maxFlush && kb.hasData(); flushed++ {
		kb.ports.PortReadByte(DataPort)
	}

	kfmt.Fprintf(w, "discarded %d stale bytes\n", flushed)
	return nil
}
