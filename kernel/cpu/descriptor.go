package cpu

// PseudoDescriptorSize is the size of the value stored by SGDT/SIDT in
// 64-bit mode: a 16-bit limit followed by a 64-bit linear base address.
const PseudoDescriptorSize = 10

// ParsePseudoDescriptor decodes a little-endian GDTR/IDTR pseudo-descriptor.
func ParsePseudoDescriptor(buf [PseudoDescriptorSize]byte) (base uintptr, limit uint16) {
	limit = uint16(buf[0]) | uint16(buf[1])<<8

	var b uint64
	for i := PseudoDescriptorSize - 1; i >= 2; i-- {
		b = b<<8 | uint64(buf[i])
	}

	return uintptr(b), limit
}
