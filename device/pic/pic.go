// Package pic drives the interrupt acknowledgment side of a cascaded pair of
// 8259A programmable interrupt controllers.
package pic

import (
	"io"

	"github.com/rmouduri/kfs/device"
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

const (
	// MasterCommandPort is the command port of the master controller.
	MasterCommandPort uint16 = 0x20

	// MasterDataPort is the data (mask) port of the master controller.
	MasterDataPort uint16 = 0x21

	// SlaveCommandPort is the command port of the slave controller.
	SlaveCommandPort uint16 = 0xa0

	// SlaveDataPort is the data (mask) port of the slave controller.
	SlaveDataPort uint16 = 0xa1

	// EndOfInterrupt is the non-specific EOI command.
	EndOfInterrupt uint8 = 0x20

	// KeyboardIRQ is the IRQ line of the PS/2 keyboard.
	KeyboardIRQ uint8 = 1

	// slaveIRQBase is the first IRQ line routed through the slave controller.
	slaveIRQBase uint8 = 8
)

// Controller acknowledges interrupts at a master/slave 8259A pair. The
// controllers are expected to be initialized and remapped by the boot code.
type Controller struct {
	ports device.PortIO
}

// MakeController returns a Controller value that talks to the hardware
// through ports.
func MakeController(ports device.PortIO) Controller {
	return Controller{ports: ports}
}

// NewController returns a Controller that talks to the hardware through
// ports.
func NewController(ports device.PortIO) *Controller {
	c := MakeController(ports)
	return &c
}

// Acknowledge signals the end of interrupt for irq so that the controller
// can deliver further interrupts on that line. IRQs served by the slave
// controller must be acknowledged at both controllers.
func (c *Controller) Acknowledge(irq uint8) {
	if irq >= slaveIRQBase {
		c.ports.PortWriteByte(SlaveCommandPort, EndOfInterrupt)
	}
	c.ports.PortWriteByte(MasterCommandPort, EndOfInterrupt)
}

// Unmask enables delivery of irq by clearing its bit in the interrupt mask
// register of the owning controller.
func (c *Controller) Unmask(irq uint8) {
	port := MasterDataPort
	if irq >= slaveIRQBase {
		port = SlaveDataPort
		irq -= slaveIRQBase
	}

	c.ports.PortWriteByte(port, c.ports.PortReadByte(port)&^(1<<irq))
}

// DriverName returns the name of this driver.
func (c *Controller) DriverName() string {
	return "i8259a"
}

// DriverVersion returns the version of this driver.
func (c *Controller) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit reports the interrupt masks left by the boot code and enables
// the keyboard IRQ line.
func (c *Controller) DriverInit(w io.Writer) *kernel.Error {
	kfmt.Fprintf(w, "irq mask master: 0x%2x slave: 0x%2x\n",
		c.ports.PortReadByte(MasterDataPort),
		c.ports.PortReadByte(SlaveDataPort),
	)

	c.Unmask(KeyboardIRQ)
	return nil
}
