package main

import (
	"errors"
	"strings"

	"github.com/rmouduri/kfs/device"
	"github.com/rmouduri/kfs/device/input/ps2"
	"github.com/rmouduri/kfs/device/pic"
	"github.com/rmouduri/kfs/device/tty"
	"github.com/rmouduri/kfs/device/video/console"
	"github.com/rmouduri/kfs/kernel/hal"
	"github.com/rmouduri/kfs/kernel/hal/multiboot"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

var errNotLinked = errors.New("terminal could not be linked to the emulated devices")

// machine wires the kernel drivers to an emulated port bus and an in-memory
// text framebuffer.
type machine struct {
	bus  *portBus
	fb   []uint16
	cons *console.VgaTextConsole
	kbd  *ps2.Keyboard
	ctrl *pic.Controller
	term *tty.Terminal
}

// newMachine probes the emulated devices through the hal and boots the
// terminal using cmdLine as the boot command line.
func newMachine(cmdLine *multiboot.CmdLine) (*machine, error) {
	m := &machine{
		bus: newPortBus(),
		fb:  make([]uint16, tty.Width*tty.Height),
	}
	m.cons = console.NewVgaTextConsoleWithBuffer(tty.Width, tty.Height, m.fb, m.bus)
	m.kbd = ps2.NewKeyboard(m.bus)
	m.ctrl = pic.NewController(m.bus)
	m.term = tty.NewTerminal()

	drivers := device.DriverInfoList{
		{Order: device.DetectOrderEarly, Probe: func() device.Driver { return m.cons }},
		{Order: device.DetectOrderBeforeInput, Probe: func() device.Driver { return m.ctrl }},
		{Order: device.DetectOrderInput, Probe: func() device.Driver { return m.kbd }},
		{Order: device.DetectOrderLast, Probe: func() device.Driver { return m.term }},
	}

	// Boot messages are buffered until the terminal is linked.
	hal.Reset()
	kfmt.SetOutputSink(nil)
	if err := hal.Probe(drivers, cmdLine); err != nil {
		return nil, err
	}

	if hal.ActiveTerminal() != m.term {
		return nil, errNotLinked
	}

	return m, nil
}

// Press queues scancodes and runs the keyboard interrupt handler until the
// controller stops raising interrupts.
func (m *machine) Press(codes ...byte) {
	m.bus.Push(codes...)
	m.Run()
}

// Run delivers pending interrupts to their handlers.
func (m *machine) Run() {
	for {
		irq, ok := m.bus.NextInterrupt()
		if !ok {
			return
		}

		if irq == pic.KeyboardIRQ {
			m.term.HandleInterrupt()
			continue
		}

		// Spurious lines have no handler; acknowledge them so that
		// lower priority requests are not blocked.
		m.ctrl.Acknowledge(irq)
	}
}

// Cursor returns the hardware cursor position.
func (m *machine) Cursor() (uint32, uint32) {
	off := m.bus.CursorOffset()
	return off % tty.Width, off / tty.Width
}

// Cell returns the framebuffer cell at (x, y).
func (m *machine) Cell(x, y uint32) console.Cell {
	return m.cons.Read(x, y)
}

// Row returns the characters of row y with trailing blanks removed.
func (m *machine) Row(y uint32) string {
	var sb strings.Builder
	for x := uint32(0); x < tty.Width; x++ {
		sb.WriteByte(m.cons.Read(x, y).Char())
	}
	return strings.TrimRight(sb.String(), " \x00")
}

// Text returns the display contents as newline-terminated rows.
func (m *machine) Text() string {
	var sb strings.Builder
	for y := uint32(0); y < tty.Height; y++ {
		sb.WriteString(m.Row(y))
		sb.WriteByte('\n')
	}
	return sb.String()
}
