package cpu

import "testing"

func TestParsePseudoDescriptor(t *testing.T) {
	specs := []struct {
		in       [PseudoDescriptorSize]byte
		expBase  uintptr
		expLimit uint16
	}{
		{
			[PseudoDescriptorSize]byte{0x37, 0x00, 0x00, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
			0x800, 0x37,
		},
		{
			[PseudoDescriptorSize]byte{0xff, 0x0f, 0x78, 0x56, 0x34, 0x12, 0x00, 0x00, 0x00, 0x00},
			0x12345678, 0xfff,
		},
		{
			[PseudoDescriptorSize]byte{},
			0, 0,
		},
	}

	for specIndex, spec := range specs {
		base, limit := ParsePseudoDescriptor(spec.in)
		if base != spec.expBase || limit != spec.expLimit {
			t.Errorf("[spec %d] expected base 0x%x, limit 0x%x; got base 0x%x, limit 0x%x", specIndex, spec.expBase, spec.expLimit, base, limit)
		}
	}
}
