package kmain

import (
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/cpu"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

var (
	// cpuHaltFn and disableInterruptsFn are mocked by tests and are
	// automatically inlined by the compiler.
	cpuHaltFn           = cpu.Halt
	disableInterruptsFn = cpu.DisableInterrupts

	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic outputs the supplied error (if not nil) to the console and halts the
// CPU. Calls to Panic never return.
func Panic(e interface{}) {
	var err *kernel.Error

	switch t := e.(type) {
	case *kernel.Error:
		err = t
	case string:
		errRuntimePanic.Message = t
		err = errRuntimePanic
	case error:
		errRuntimePanic.Message = t.Error()
		err = errRuntimePanic
	}

	kfmt.Printf("\n-----------------------------------\n")
	if err != nil {
		kfmt.Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	kfmt.Printf("*** kernel panic: system halted ***")
	kfmt.Printf("\n-----------------------------------\n")

	// With interrupts disabled only an NMI can wake up the CPU.
	disableInterruptsFn()
	cpuHaltFn()
}
