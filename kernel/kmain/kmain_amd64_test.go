package kmain

import (
	"bytes"
	"strings"
	"testing"
	"unsafe"

	"github.com/rmouduri/kfs/device/input/ps2"
	"github.com/rmouduri/kfs/device/tty"
	"github.com/rmouduri/kfs/device/video/console"
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/cpu"
	"github.com/rmouduri/kfs/kernel/gate"
	"github.com/rmouduri/kfs/kernel/hal"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

// scancodePorts feeds queued scancodes to a PS/2 keyboard driver.
type scancodePorts struct {
	pending []byte
}

func (p *scancodePorts) PortReadByte(port uint16) uint8 {
	switch port {
	case ps2.StatusPort:
		if len(p.pending) != 0 {
			return 1
		}
	case ps2.DataPort:
		if len(p.pending) != 0 {
			b := p.pending[0]
			p.pending = p.pending[1:]
			return b
		}
	}
	return 0
}

func (p *scancodePorts) PortWriteByte(_ uint16, _ uint8) {}

func restoreMocks() {
	detectHardwareFn = hal.DetectHardware
	activeTerminalFn = hal.ActiveTerminal
	handleInterruptFn = gate.HandleInterrupt
	gdtrFn = cpu.GDTR
	idtrFn = cpu.IDTR
	enableInterruptsFn = cpu.EnableInterrupts
	disableInterruptsFn = cpu.DisableInterrupts
	cpuHaltFn = cpu.Halt
	haltLoopIterations = -1
	activeTerm = nil
	kfmt.SetOutputSink(nil)
}

func row(cons console.Device, y uint32) string {
	var buf [tty.Width]byte
	for x := uint32(0); x < tty.Width; x++ {
		buf[x] = cons.Read(x, y).Char()
	}
	return strings.TrimRight(string(buf[:]), " ")
}

func TestKmain(t *testing.T) {
	defer restoreMocks()

	var (
		ports    = &scancodePorts{}
		cons     = console.NewVgaTextConsoleWithBuffer(tty.Width, tty.Height, make([]uint16, tty.Width*tty.Height), nil)
		term     = tty.NewTerminal()
		gdt      = []byte{0xff, 0xff, 0x00, 0x00, 0x00, 0x9a, 0xcf, 0x00}
		handlers = make(map[gate.InterruptNumber]func(*gate.Registers))

		haltCount    int
		interruptsOn bool
	)

	if err := term.AttachTo(cons, ps2.NewKeyboard(ports), nil); err != nil {
		t.Fatal(err)
	}
	if err := term.Start(); err != nil {
		t.Fatal(err)
	}
	kfmt.SetOutputSink(term)

	detectHardwareFn = func() *kernel.Error { return nil }
	activeTerminalFn = func() *tty.Terminal { return term }
	handleInterruptFn = func(n gate.InterruptNumber, _ uint8, fn func(*gate.Registers)) {
		handlers[n] = fn
	}
	gdtrFn = func() (uintptr, uint16) {
		return uintptr(unsafe.Pointer(&gdt[0])), uint16(len(gdt) - 1)
	}
	idtrFn = func() (uintptr, uint16) { return 0, 0 }
	enableInterruptsFn = func() { interruptsOn = true }
	disableInterruptsFn = func() { interruptsOn = false }
	cpuHaltFn = func() { haltCount++ }
	haltLoopIterations = 3

	Kmain(0)

	// 3 idle iterations followed by the halt in Panic
	if haltCount != 4 {
		t.Fatalf("expected cpu.Halt to be called 4 times; got %d", haltCount)
	}

	if interruptsOn {
		t.Fatal("expected interrupts to be disabled when Kmain returns")
	}

	if _, ok := handlers[gate.KeyboardInterrupt]; !ok || activeTerm != term {
		t.Fatal("expected a keyboard interrupt handler to be installed for the terminal")
	}

	for _, n := range fatalExceptions {
		if _, ok := handlers[n]; !ok {
			t.Errorf("expected a handler for exception %d", n)
		}
	}

	// Type "dump gdt" and submit through the installed IRQ handler.
	ports.pending = []byte{0x20, 0x16, 0x32, 0x19, 0x39, 0x22, 0x20, 0x14, 0x1c}
	for len(ports.pending) != 0 {
		handlers[gate.KeyboardInterrupt](&gate.Registers{})
	}

	exp := "ff ff 00 00 00 9a cf 00"
	found := false
	for y := uint32(0); y < tty.Height; y++ {
		if strings.Contains(row(cons, y), exp) {
			found = true
			break
		}
	}

	if !found {
		t.Fatalf("expected the gdt dump to contain %q", exp)
	}
}

func TestKmainDetectHardwareError(t *testing.T) {
	defer restoreMocks()

	var buf bytes.Buffer
	kfmt.SetOutputSink(&buf)

	expErr := &kernel.Error{Module: "hal", Message: "no devices"}
	detectHardwareFn = func() *kernel.Error { return expErr }
	disableInterruptsFn = func() {}
	cpuHaltFn = func() {}
	handleInterruptFn = func(_ gate.InterruptNumber, _ uint8, _ func(*gate.Registers)) {
		t.Error("unexpected call to gate.HandleInterrupt")
	}

	Kmain(0)

	if exp := "[hal] unrecoverable error: no devices"; !strings.Contains(buf.String(), exp) {
		t.Fatalf("expected output to contain %q; got:\n%s", exp, buf.String())
	}
}

func TestFatalExceptionHandler(t *testing.T) {
	defer restoreMocks()

	var (
		buf    bytes.Buffer
		halted bool
	)
	kfmt.SetOutputSink(&buf)
	disableInterruptsFn = func() {}
	cpuHaltFn = func() { halted = true }

	fatalExceptionHandler(&gate.Registers{Info: uint64(gate.GPFException), RIP: 0x100000})

	for _, exp := range []string{
		"unhandled exception 13",
		"RIP = 0000000000100000",
		"[kmain] unrecoverable error: unhandled CPU exception",
	} {
		if !strings.Contains(buf.String(), exp) {
			t.Errorf("expected output to contain %q; got:\n%s", exp, buf.String())
		}
	}

	if !halted {
		t.Fatal("expected the CPU to be halted")
	}
}
