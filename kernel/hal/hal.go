// Package hal probes for the devices needed by the system console and links
// them together.
package hal

import (
	"github.com/rmouduri/kfs/device"
	"github.com/rmouduri/kfs/device/input/ps2"
	"github.com/rmouduri/kfs/device/pic"
	"github.com/rmouduri/kfs/device/tty"
	"github.com/rmouduri/kfs/device/video/console"
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/hal/multiboot"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

// managedDevices contains the devices discovered by the HAL.
type managedDevices struct {
	activeConsole  console.Device
	activeKeyboard tty.Keyboard
	activePIC      tty.InterruptController
	activeTerminal *tty.Terminal

	// linked is set once the terminal has been attached to its devices.
	linked bool

	// activeDrivers tracks all initialized device drivers.
	activeDrivers    [device.MaxDrivers]device.Driver
	numActiveDrivers int
}

// maxPrefixLen bounds the length of the log prefix of a driver.
const maxPrefixLen = 64

// prefixBuffer is a fixed-size io.Writer used to format driver log
// prefixes. Bytes past its capacity are dropped.
type prefixBuffer struct {
	data [maxPrefixLen]byte
	len  int
}

func (b *prefixBuffer) Write(p []byte) (int, error) {
	b.len += copy(b.data[b.len:], p)
	return len(p), nil
}

func (b *prefixBuffer) Bytes() []byte { return b.data[:b.len] }

func (b *prefixBuffer) Reset() { b.len = 0 }

var (
	devices managedDevices

	// strBuf and driverLog format and tag the log output of each driver.
	// They are package variables since a writer passed to DriverInit
	// would otherwise escape to the heap.
	strBuf    prefixBuffer
	driverLog kfmt.PrefixWriter

	errNoTerminal = &kernel.Error{Module: "hal", Message: "no terminal could be linked to a console and keyboard"}
)

// ActiveTerminal returns the terminal that receives keyboard interrupts or
// nil if no terminal has been linked yet.
func ActiveTerminal() *tty.Terminal {
	if !devices.linked {
		return nil
	}
	return devices.activeTerminal
}

// Reset forgets the devices discovered by earlier calls to Probe so that a
// new set of drivers can be probed and linked.
func Reset() {
	devices = managedDevices{}
}

// ActiveDrivers returns the list of successfully initialized drivers.
func ActiveDrivers() []device.Driver {
	return devices.activeDrivers[:devices.numActiveDrivers]
}

// Probe executes the probe function for each driver in the order they appear
// in the list and initializes the detected devices. Once a console, a
// keyboard and a terminal have been found, the terminal is attached to them,
// configured using cmdLine and started. The terminal also becomes the output
// sink for kfmt.Printf. At most device.MaxDrivers drivers are tracked as
// active.
func Probe(driverInfoList device.DriverInfoList, cmdLine *multiboot.CmdLine) *kernel.Error {
	w := &driverLog

	for _, info := range driverInfoList {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		strBuf.Reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&strBuf, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		*w = kfmt.PrefixWriter{Prefix: strBuf.Bytes(), Sink: kfmt.GetOutputSink()}

		if err := drv.DriverInit(w); err != nil {
			kfmt.Fprintf(w, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(w, "initialized\n")
		onDriverInit(drv, cmdLine)
		if devices.numActiveDrivers < device.MaxDrivers {
			devices.activeDrivers[devices.numActiveDrivers] = drv
			devices.numActiveDrivers++
		}
	}

	if !devices.linked {
		return errNoTerminal
	}

	return nil
}

// onDriverInit is invoked by Probe whenever a piece of hardware is detected
// and successfully initialized. The first device of each kind becomes the
// active one. Only concrete driver types are matched; asserting to an
// interface type needs the runtime itab tables, which the kernel never
// initializes.
func onDriverInit(drv device.Driver, cmdLine *multiboot.CmdLine) {
	switch drvImpl := drv.(type) {
	case *tty.Terminal:
		if devices.activeTerminal == nil {
			devices.activeTerminal = drvImpl
		}
	case *console.VgaTextConsole:
		if devices.activeConsole == nil {
			devices.activeConsole = drvImpl
		}
	case *ps2.Keyboard:
		if devices.activeKeyboard == nil {
			devices.activeKeyboard = drvImpl
		}
	case *pic.Controller:
		if devices.activePIC == nil {
			devices.activePIC = drvImpl
		}
	}

	if !devices.linked && devices.activeTerminal != nil && devices.activeConsole != nil && devices.activeKeyboard != nil {
		linkTerminal(cmdLine)
	}
}

// linkTerminal connects the active terminal to the active console, keyboard
// and interrupt controller, redirects kfmt output to it and starts it.
func linkTerminal(cmdLine *multiboot.CmdLine) {
	term := devices.activeTerminal

	if err := term.AttachTo(devices.activeConsole, devices.activeKeyboard, devices.activePIC); err != nil {
		kfmt.Printf("[hal] unable to attach terminal: %s\n", err.Message)
		return
	}

	kfmt.SetOutputSink(term)
	if err := term.Configure(cmdLine); err != nil {
		kfmt.Printf("[hal] ignoring console options: %s\n", err.Message)
	}

	if err := term.Start(); err != nil {
		kfmt.Printf("[hal] unable to start terminal: %s\n", err.Message)
		return
	}

	devices.linked = true
}
