// Package kmain contains the kernel entry point that brings up the system
// console.
package kmain

import (
	"unsafe"

	"github.com/rmouduri/kfs/device/tty"
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/cpu"
	"github.com/rmouduri/kfs/kernel/gate"
	"github.com/rmouduri/kfs/kernel/hal"
	"github.com/rmouduri/kfs/kernel/hal/multiboot"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

var (
	errKmainReturned      = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
	errUnhandledException = &kernel.Error{Module: "kmain", Message: "unhandled CPU exception"}
	errNoActiveTerminal   = &kernel.Error{Module: "kmain", Message: "no active terminal"}

	// The following functions are mocked by tests.
	detectHardwareFn   = hal.DetectHardware
	activeTerminalFn   = hal.ActiveTerminal
	handleInterruptFn  = gate.HandleInterrupt
	gdtrFn             = cpu.GDTR
	idtrFn             = cpu.IDTR
	enableInterruptsFn = cpu.EnableInterrupts

	// haltLoopIterations bounds the idle loop; a negative value keeps the
	// CPU halted between interrupts forever.
	haltLoopIterations = -1

	// activeTerm receives keyboard interrupts.
	activeTerm *tty.Terminal

	// fatalExceptions lists the CPU exceptions that halt the system.
	fatalExceptions = []gate.InterruptNumber{
		gate.DivideByZero,
		gate.InvalidOpcode,
		gate.DoubleFault,
		gate.InvalidTSS,
		gate.SegmentNotPresent,
		gate.StackSegmentFault,
		gate.GPFException,
		gate.PageFaultException,
	}
)

// Kmain is called by the rt0 assembly code once the GDT and IDT are loaded,
// the PIC is remapped and a minimal g0 lets Go code run on the boot stack.
// multibootInfoPtr is the address of the multiboot info block.
//
// The Go runtime is never initialized: there is no heap and package init
// functions do not run. Everything reachable from Kmain uses statically
// initialized package data and stack values only.
//
// Kmain does not return. If it does, the rt0 code halts the CPU.
//
//go:noinline
func Kmain(multibootInfoPtr uintptr) {
	disableInterruptsFn()
	multiboot.SetInfoPtr(multibootInfoPtr)

	if err := detectHardwareFn(); err != nil {
		Panic(err)
		return
	}

	term := activeTerminalFn()
	if term == nil {
		Panic(errNoActiveTerminal)
		return
	}

	if name := multiboot.GetBootLoaderName(); name != "" {
		kfmt.Printf("booted by %s\n", name)
	}

	registerDescriptorTables(term)
	installHandlers(term)

	enableInterruptsFn()
	for i := 0; i != haltLoopIterations; i++ {
		cpuHaltFn()
	}

	// Use Panic instead of panic to prevent the compiler from treating
	// Panic as dead-code and eliminating it.
	Panic(errKmainReturned)
}

// registerDescriptorTables makes the loaded GDT and IDT available to the dump
// command of the terminal.
func registerDescriptorTables(term *tty.Terminal) {
	for _, table := range []struct {
		name string
		fn   func() (uintptr, uint16)
	}{
		{"gdt", gdtrFn},
		{"idt", idtrFn},
	} {
		base, limit := table.fn()
		if base == 0 {
			continue
		}

		region := tty.MemoryRegion{
			Name: table.name,
			Base: base,
			Data: unsafe.Slice((*byte)(unsafe.Pointer(base)), int(limit)+1),
		}

		if err := term.RegisterRegion(region); err != nil {
			kfmt.Printf("[kmain] %s: %s\n", table.name, err.Message)
		}
	}
}

// installHandlers routes the keyboard IRQ to the terminal and installs
// handlers for CPU exceptions that cannot be recovered from.
func installHandlers(term *tty.Terminal) {
	activeTerm = term
	handleInterruptFn(gate.KeyboardInterrupt, 0, keyboardInterruptHandler)

	for _, intNumber := range fatalExceptions {
		handleInterruptFn(intNumber, 0, fatalExceptionHandler)
	}
}

// keyboardInterruptHandler forwards IRQ1 to the active terminal. A named
// function is used since a capturing closure would be heap allocated.
func keyboardInterruptHandler(_ *gate.Registers) {
	activeTerm.HandleInterrupt()
}

// fatalExceptionHandler reports the CPU state when an exception occurs and
// halts the system.
func fatalExceptionHandler(regs *gate.Registers) {
	kfmt.Printf("\nunhandled exception %d\n", regs.Info)
	kfmt.Printf("Registers:\n")
	regs.DumpTo(kfmt.GetOutputSink())

	Panic(errUnhandledException)
}
