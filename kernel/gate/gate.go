// Package gate routes interrupts raised by the CPU to Go handlers. The IDT
// entry stubs installed by the boot code save the register state and call
// Dispatch with the interrupt number.
package gate

import (
	"io"

	"github.com/rmouduri/kfs/kernel/kfmt"
)

// Registers holds the CPU state saved by an interrupt entry stub. The field
// order matches the push order of the stub.
type Registers struct {
	RAX, RBX, RCX, RDX uint64
	RSI, RDI, RBP      uint64
	R8, R9, R10, R11   uint64
	R12, R13, R14, R15 uint64

	// Info is the interrupt number of the gate that was taken.
	Info uint64

	// IRETQ frame.
	RIP, CS, RFlags, RSP, SS uint64
}

// DumpTo writes the saved registers to w, two per line.
func (r *Registers) DumpTo(w io.Writer) {
	rows := [...]struct {
		names  [2]string
		values [2]uint64
	}{
		{[2]string{"RAX", "RBX"}, [2]uint64{r.RAX, r.RBX}},
		{[2]string{"RCX", "RDX"}, [2]uint64{r.RCX, r.RDX}},
		{[2]string{"RSI", "RDI"}, [2]uint64{r.RSI, r.RDI}},
		{[2]string{"RBP", ""}, [2]uint64{r.RBP}},
		{[2]string{"R8 ", "R9 "}, [2]uint64{r.R8, r.R9}},
		{[2]string{"R10", "R11"}, [2]uint64{r.R10, r.R11}},
		{[2]string{"R12", "R13"}, [2]uint64{r.R12, r.R13}},
		{[2]string{"R14", "R15"}, [2]uint64{r.R14, r.R15}},
		{[2]string{"", ""}, [2]uint64{}},
		{[2]string{"RIP", "CS "}, [2]uint64{r.RIP, r.CS}},
		{[2]string{"RSP", "SS "}, [2]uint64{r.RSP, r.SS}},
		{[2]string{"RFL", ""}, [2]uint64{r.RFlags}},
	}

	for _, row := range rows {
		if row.names[0] != "" {
			kfmt.Fprintf(w, "%s = %16x", row.names[0], row.values[0])
		}
		if row.names[1] != "" {
			kfmt.Fprintf(w, " %s = %16x", row.names[1], row.values[1])
		}
		kfmt.Fprintf(w, "\n")
	}
}

// InterruptNumber is an IDT slot.
type InterruptNumber uint8

// CPU exceptions that the kernel treats as fatal.
const (
	DivideByZero       = InterruptNumber(0)
	InvalidOpcode      = InterruptNumber(6)
	DoubleFault        = InterruptNumber(8)
	InvalidTSS         = InterruptNumber(10)
	SegmentNotPresent  = InterruptNumber(11)
	StackSegmentFault  = InterruptNumber(12)
	GPFException       = InterruptNumber(13)
	PageFaultException = InterruptNumber(14)
)

const (
	// IRQBase is the slot where the boot code remaps IRQ 0 of the master
	// PIC. IRQ n is delivered to slot IRQBase+n.
	IRQBase = InterruptNumber(0x20)

	// KeyboardInterrupt is raised by the PS/2 keyboard (IRQ 1).
	KeyboardInterrupt = IRQBase + 1
)

// numGates is the number of IDT slots.
const numGates = 256

// handlers maps each IDT slot to its registered handler.
var handlers [numGates]struct {
	fn        func(*Registers)
	istOffset uint8
}

// HandleInterrupt ensures that the provided handler will be invoked when a
// particular interrupt number occurs. The value of the istOffset argument
// specifies the offset in the interrupt stack table (if 0 then IST is not
// used). Passing a nil handler removes any existing handler.
func HandleInterrupt(intNumber InterruptNumber, istOffset uint8, handler func(*Registers)) {
	handlers[intNumber].fn = handler
	handlers[intNumber].istOffset = istOffset
}

// StackOffset returns the interrupt stack table offset registered for
// intNumber. The entry stubs use it when building the IDT.
func StackOffset(intNumber InterruptNumber) uint8 {
	return handlers[intNumber].istOffset
}

// Dispatch is invoked by the interrupt entry stubs to route an incoming
// interrupt to its handler. It returns false if no handler is registered.
func Dispatch(intNumber InterruptNumber, regs *Registers) bool {
	fn := handlers[intNumber].fn
	if fn == nil {
		return false
	}

	if regs != nil {
		regs.Info = uint64(intNumber)
	}

	fn(regs)
	return true
}
