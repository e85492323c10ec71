package cpu

// EnableInterrupts enables interrupt handling.
func EnableInterrupts()

// DisableInterrupts disables interrupt handling.
func DisableInterrupts()

// Halt stops instruction execution until the next interrupt arrives.
func Halt()

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8

// readGDTR stores the GDTR pseudo-descriptor into dst (SGDT).
func readGDTR(dst *[PseudoDescriptorSize]byte)

// readIDTR stores the IDTR pseudo-descriptor into dst (SIDT).
func readIDTR(dst *[PseudoDescriptorSize]byte)

// GDTR returns the base address and limit of the active global descriptor
// table.
func GDTR() (base uintptr, limit uint16) {
	var buf [PseudoDescriptorSize]byte
	readGDTR(&buf)
	return ParsePseudoDescriptor(buf)
}

// IDTR returns the base address and limit of the active interrupt
// descriptor table.
func IDTR() (base uintptr, limit uint16) {
	var buf [PseudoDescriptorSize]byte
	readIDTR(&buf)
	return ParsePseudoDescriptor(buf)
}

// Ports provides access to the x86 I/O port space using the IN and OUT
// instructions. It implements device.PortIO.
type Ports struct{}

// PortReadByte reads a uint8 value from the requested port.
func (Ports) PortReadByte(port uint16) uint8 {
	return PortReadByte(port)
}

// PortWriteByte writes a uint8 value to the requested port.
func (Ports) PortWriteByte(port uint16, val uint8) {
	PortWriteByte(port, val)
}
