package hal

import (
	"github.com/rmouduri/kfs/device"
	"github.com/rmouduri/kfs/device/input/ps2"
	"github.com/rmouduri/kfs/device/pic"
	"github.com/rmouduri/kfs/device/tty"
	"github.com/rmouduri/kfs/device/video/console"
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/cpu"
	"github.com/rmouduri/kfs/kernel/hal/multiboot"
)

// vgaTextFramebuffer is the physical address of the VGA text mode
// framebuffer used when the boot loader does not report one.
const vgaTextFramebuffer uintptr = 0xb8000

var (
	getFramebufferInfoFn = multiboot.GetFramebufferInfo
	getBootCmdLineFn     = multiboot.GetBootCmdLine

	// platformDrivers lists the drivers probed by DetectHardware. The
	// kernel does not run package init functions, so the list is
	// registered by DetectHardware itself.
	platformDrivers = [...]device.DriverInfo{
		{Order: device.DetectOrderEarly, Probe: probeForVgaTextConsole},
		{Order: device.DetectOrderBeforeInput, Probe: probeForPIC},
		{Order: device.DetectOrderInput, Probe: probeForKeyboard},
		{Order: device.DetectOrderLast, Probe: probeForTerminal},
	}

	// platform holds the driver instances returned by the probe functions.
	// There is no heap, so they live in package storage.
	platform struct {
		console  console.VgaTextConsole
		pic      pic.Controller
		keyboard ps2.Keyboard
		terminal tty.Terminal
	}
)

// DetectHardware registers the platform drivers, probes for the hardware
// they drive and initializes the detected devices.
func DetectHardware() *kernel.Error {
	for i := range platformDrivers {
		device.RegisterDriver(&platformDrivers[i])
	}

	return Probe(device.DriverList(), getBootCmdLineFn())
}

// probeForVgaTextConsole returns a VGA text console driver if the boot loader
// left the display in EGA text mode.
func probeForVgaTextConsole() device.Driver {
	fbInfo := getFramebufferInfoFn()
	switch {
	case fbInfo == nil:
		platform.console = console.MakeVgaTextConsole(tty.Width, tty.Height, vgaTextFramebuffer, cpu.Ports{})
	case fbInfo.Type == multiboot.FramebufferTypeEGA:
		platform.console = console.MakeVgaTextConsole(fbInfo.Width, fbInfo.Height, uintptr(fbInfo.PhysAddr), cpu.Ports{})
	default:
		return nil
	}

	return &platform.console
}

func probeForPIC() device.Driver {
	platform.pic = pic.MakeController(cpu.Ports{})
	return &platform.pic
}

func probeForKeyboard() device.Driver {
	platform.keyboard = ps2.MakeKeyboard(cpu.Ports{})
	return &platform.keyboard
}

func probeForTerminal() device.Driver {
	platform.terminal = tty.Terminal{}
	return &platform.terminal
}
