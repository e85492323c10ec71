package main

import (
	"github.com/rmouduri/kfs/device/input/ps2"
	"github.com/rmouduri/kfs/device/pic"
)

// CRT controller ports and the cursor location registers.
const (
	crtcIndexPort    uint16 = 0x3d4
	crtcDataPort     uint16 = 0x3d5
	crtcCursorHiReg  uint8  = 0x0e
	crtcCursorLowReg uint8  = 0x0f

	ps2StatusOutputFull uint8 = 1 << 0
	ps2CmdPulseReset    uint8 = 0xfe
)

// interruptController models the master 8259A of a PC. Only the registers
// touched by the kernel are emulated.
type interruptController struct {
	irr uint8 // interrupt request register
	isr uint8 // in-service register
	imr uint8 // interrupt mask register

	// slaveIMR is stored so that mask reads return what was written.
	slaveIMR uint8
}

// raise latches a request on irq.
func (c *interruptController) raise(irq uint8) {
	c.irr |= 1 << irq
}

// next returns the highest priority unmasked request that is not blocked by
// an interrupt of equal or higher priority already in service. The request
// is moved to the in-service register.
func (c *interruptController) next() (uint8, bool) {
	for irq := uint8(0); irq < 8; irq++ {
		bit := uint8(1) << irq
		if c.isr&bit != 0 {
			return 0, false
		}

		if c.irr&bit != 0 && c.imr&bit == 0 {
			c.irr &^= bit
			c.isr |= bit
			return irq, true
		}
	}

	return 0, false
}

// endOfInterrupt clears the highest priority in-service bit.
func (c *interruptController) endOfInterrupt() {
	for irq := uint8(0); irq < 8; irq++ {
		if bit := uint8(1) << irq; c.isr&bit != 0 {
			c.isr &^= bit
			return
		}
	}
}

// portBus emulates the I/O port space seen by the kernel drivers: the 8042
// keyboard controller, the 8259A interrupt controllers and the CRT
// controller cursor registers.
type portBus struct {
	scancodes []byte
	pic       interruptController

	crtcIndex uint8
	crtcRegs  [0x10]uint8

	resetRequested bool
}

func newPortBus() *portBus {
	return &portBus{
		// All lines are masked until the interrupt controller driver
		// enables them.
		pic: interruptController{imr: 0xff, slaveIMR: 0xff},
	}
}

// Push queues scancodes in the keyboard controller output buffer and raises
// the keyboard IRQ.
func (b *portBus) Push(codes ...byte) {
	if len(codes) == 0 {
		return
	}

	b.scancodes = append(b.scancodes, codes...)
	b.pic.raise(pic.KeyboardIRQ)
}

// Pending returns the number of scancodes that have not been read yet.
func (b *portBus) Pending() int {
	return len(b.scancodes)
}

// NextInterrupt returns the next IRQ that the interrupt controller delivers
// to the CPU.
func (b *portBus) NextInterrupt() (uint8, bool) {
	return b.pic.next()
}

// CursorOffset returns the linear cursor offset programmed into the CRT
// controller.
func (b *portBus) CursorOffset() uint32 {
	return uint32(b.crtcRegs[crtcCursorHiReg])<<8 | uint32(b.crtcRegs[crtcCursorLowReg])
}

// ResetRequested returns true if the kernel pulsed the reset line.
func (b *portBus) ResetRequested() bool {
	return b.resetRequested
}

// PortReadByte implements device.PortIO.
func (b *portBus) PortReadByte(port uint16) uint8 {
	switch port {
	case ps2.DataPort:
		if len(b.scancodes) == 0 {
			return 0
		}

		code := b.scancodes[0]
		b.scancodes = b.scancodes[1:]

		// The controller interrupts again once the next byte reaches
		// its output buffer.
		if len(b.scancodes) != 0 {
			b.pic.raise(pic.KeyboardIRQ)
		}
		return code
	case ps2.StatusPort:
		if len(b.scancodes) != 0 {
			return ps2StatusOutputFull
		}
		return 0
	case pic.MasterDataPort:
		return b.pic.imr
	case pic.SlaveDataPort:
		return b.pic.slaveIMR
	case crtcIndexPort:
		return b.crtcIndex
	case crtcDataPort:
		return b.crtcRegs[b.crtcIndex&0xf]
	}

	return 0xff
}

// PortWriteByte implements device.PortIO.
func (b *portBus) PortWriteByte(port uint16, val uint8) {
	switch port {
	case ps2.StatusPort:
		if val == ps2CmdPulseReset {
			b.resetRequested = true
		}
	case pic.MasterCommandPort:
		if val == pic.EndOfInterrupt {
			b.pic.endOfInterrupt()
		}
	case pic.MasterDataPort:
		b.pic.imr = val
	case pic.SlaveDataPort:
		b.pic.slaveIMR = val
	case crtcIndexPort:
		b.crtcIndex = val
	case crtcDataPort:
		b.crtcRegs[b.crtcIndex&0xf] = val
	}
}
