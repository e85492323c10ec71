package hal

import (
	"io"
	"strings"
	"testing"

	"github.com/rmouduri/kfs/device"
	"github.com/rmouduri/kfs/device/input/ps2"
	"github.com/rmouduri/kfs/device/pic"
	"github.com/rmouduri/kfs/device/tty"
	"github.com/rmouduri/kfs/device/video/console"
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/hal/multiboot"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

type nopPorts struct{}

func (nopPorts) PortReadByte(_ uint16) uint8     { return 0 }
func (nopPorts) PortWriteByte(_ uint16, _ uint8) {}

type failingDriver struct{}

func (failingDriver) DriverName() string                      { return "broken" }
func (failingDriver) DriverVersion() (uint16, uint16, uint16) { return 1, 2, 3 }
func (failingDriver) DriverInit(_ io.Writer) *kernel.Error {
	return &kernel.Error{Module: "broken", Message: "device not responding"}
}

func resetDevices() {
	Reset()
	kfmt.SetOutputSink(nil)
}

func probeFor(drv device.Driver) device.ProbeFn {
	return func() device.Driver { return drv }
}

// screenText returns the contents of the console as a newline separated
// list of rows.
func screenText(cons console.Device) string {
	var sb strings.Builder
	w, h := cons.Dimensions()
	for y := uint32(0); y < h; y++ {
		for x := uint32(0); x < w; x++ {
			sb.WriteByte(cons.Read(x, y).Char())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func TestProbe(t *testing.T) {
	defer resetDevices()

	cons := console.NewVgaTextConsoleWithBuffer(tty.Width, tty.Height, make([]uint16, tty.Width*tty.Height), nil)
	kbd := ps2.NewKeyboard(nopPorts{})
	ctrl := pic.NewController(nopPorts{})
	term := tty.NewTerminal()

	drivers := device.DriverInfoList{
		{Order: device.DetectOrderEarly, Probe: probeFor(cons)},
		{Order: device.DetectOrderEarly, Probe: func() device.Driver { return nil }},
		{Order: device.DetectOrderBeforeInput, Probe: probeFor(ctrl)},
		{Order: device.DetectOrderBeforeInput, Probe: probeFor(failingDriver{})},
		{Order: device.DetectOrderInput, Probe: probeFor(kbd)},
		{Order: device.DetectOrderLast, Probe: probeFor(term)},
	}

	cmdLine := multiboot.ParseCmdLine([]byte("consoleColor=white consoleSession=2"))
	err := Probe(drivers, &cmdLine)
	if err != nil {
		t.Fatal(err)
	}

	if ActiveTerminal() != term {
		t.Fatal("expected terminal to become the active terminal")
	}

	if got := kfmt.GetOutputSink(); got != term {
		t.Fatal("expected terminal to become the kfmt output sink")
	}

	if exp, got := 4, len(ActiveDrivers()); got != exp {
		t.Fatalf("expected %d active drivers; got %d", exp, got)
	}

	if got := term.ActiveSession(); got != 2 {
		t.Fatalf("expected command line to select session 2; got %d", got)
	}

	if fg := term.Session(0).Attr().Fg(); fg != console.White {
		t.Fatalf("expected command line to set the input color; got %s", fg)
	}

	screen := screenText(cons)
	for _, exp := range []string{
		"[hal] vga_text_console(0.0.1): 80x25 text mode",
		"[hal] i8259a(0.0.1): initialized",
		"[hal] broken(1.2.3): init failed: device not responding",
		"[hal] ps2_keyboard(0.0.1): discarded 0 stale bytes",
		"[hal] tty(0.1.0): initialized",
	} {
		if !strings.Contains(screen, exp) {
			t.Errorf("expected console to contain %q; got:\n%s", exp, screen)
		}
	}

	// the keyboard and interrupt controller are wired to the terminal
	term.HandleInterrupt()
	if session := term.Session(2); session.Written() != tty.PromptLen {
		t.Fatal("expected an idle keyboard not to modify the edit line")
	}
}

func TestProbeWithoutKeyboard(t *testing.T) {
	defer resetDevices()

	cons := console.NewVgaTextConsoleWithBuffer(tty.Width, tty.Height, make([]uint16, tty.Width*tty.Height), nil)
	drivers := device.DriverInfoList{
		{Order: device.DetectOrderEarly, Probe: probeFor(cons)},
		{Order: device.DetectOrderLast, Probe: probeFor(tty.NewTerminal())},
	}

	if err := Probe(drivers, nil); err != errNoTerminal {
		t.Fatalf("expected error %v; got %v", errNoTerminal, err)
	}

	if ActiveTerminal() != nil {
		t.Fatal("expected no active terminal")
	}
}

func TestProbeWithBadConsole(t *testing.T) {
	defer resetDevices()

	cons := console.NewVgaTextConsoleWithBuffer(40, 25, make([]uint16, 40*25), nil)
	drivers := device.DriverInfoList{
		{Order: device.DetectOrderEarly, Probe: probeFor(cons)},
		{Order: device.DetectOrderInput, Probe: probeFor(ps2.NewKeyboard(nopPorts{}))},
		{Order: device.DetectOrderLast, Probe: probeFor(tty.NewTerminal())},
	}

	if err := Probe(drivers, nil); err != errNoTerminal {
		t.Fatalf("expected error %v; got %v", errNoTerminal, err)
	}
}

func TestProbePrefixTruncation(t *testing.T) {
	defer resetDevices()

	strBuf.Reset()
	long := make([]byte, maxPrefixLen+10)
	for i := range long {
		long[i] = 'x'
	}

	if n, err := strBuf.Write(long); n != len(long) || err != nil {
		t.Fatalf("expected Write to report %d bytes; got %d, %v", len(long), n, err)
	}

	if got := len(strBuf.Bytes()); got != maxPrefixLen {
		t.Fatalf("expected prefix to be truncated to %d bytes; got %d", maxPrefixLen, got)
	}
}
