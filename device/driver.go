package device

import (
	"io"

	"github.com/rmouduri/kfs/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error
}

// PortIO is implemented by objects that provide access to the x86 I/O port
// space. Drivers talk to their hardware exclusively through this interface.
type PortIO interface {
	// PortReadByte reads a uint8 value from the requested port.
	PortReadByte(port uint16) uint8

	// PortWriteByte writes a uint8 value to the requested port.
	PortWriteByte(port uint16, val uint8)
}

// ProbeFn is a function that scans for the presence of a particular
// piece of hardware and returns a driver for it.
type ProbeFn func() Driver

// DetectOrder specifies when each driver's probe function will be invoked
// by the hal package.
type DetectOrder int8

const (
	// DetectOrderEarly drivers are probed first (e.g. the display so
	// that the output of later drivers can be shown).
	DetectOrderEarly DetectOrder = -128

	// DetectOrderBeforeInput drivers are probed before the input devices.
	DetectOrderBeforeInput DetectOrder = -127

	// DetectOrderInput drivers (keyboards) are probed after the
	// interrupt controller.
	DetectOrderInput DetectOrder = 0

	// DetectOrderLast drivers are probed after all other drivers. The
	// terminal is registered here so it can be linked to the devices
	// discovered before it.
	DetectOrderLast DetectOrder = 127
)

// DriverInfo is a driver-defined struct that is passed to calls to RegisterDriver.
type DriverInfo struct {
	// Order specifies at which stage of the HW detection step should
	// the probe function be invoked.
	Order DetectOrder

	// Probe is a function that checks for the presence of a particular
	// piece of hardware and returns back a driver for it.
	Probe ProbeFn
}

// DriverInfoList is a list of registered drivers ordered by DetectOrder.
type DriverInfoList []*DriverInfo

// MaxDrivers is the number of drivers that can be registered.
const MaxDrivers = 16

var (
	// registeredDrivers tracks the drivers registered via a call to
	// RegisterDriver, sorted by detection order.
	registeredDrivers    [MaxDrivers]*DriverInfo
	numRegisteredDrivers int
)

// RegisterDriver adds the supplied driver info object to the list of
// registered drivers. Drivers with the same detection order keep their
// registration order. Registrations past MaxDrivers are ignored.
func RegisterDriver(info *DriverInfo) {
	if numRegisteredDrivers == MaxDrivers {
		return
	}

	i := numRegisteredDrivers
	for ; i > 0 && registeredDrivers[i-1].Order > info.Order; i-- {
		registeredDrivers[i] = registeredDrivers[i-1]
	}

	registeredDrivers[i] = info
	numRegisteredDrivers++
}

// DriverList returns the registered drivers in detection order.
func DriverList() DriverInfoList {
	return registeredDrivers[:numRegisteredDrivers]
}

// ResetDrivers clears the list of registered drivers.
func ResetDrivers() {
	registeredDrivers = [MaxDrivers]*DriverInfo{}
	numRegisteredDrivers = 0
}
