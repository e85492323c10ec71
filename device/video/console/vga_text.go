package console

import (
	"image/color"
	"io"
	"unsafe"

	"github.com/rmouduri/kfs/device"
	"github.com/rmouduri/kfs/kernel"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

// CRT controller registers used for updating the hardware cursor.
const (
	crtcIndexPort    = 0x3d4
	crtcDataPort     = 0x3d5
	crtcCursorLowReg = 0x0f
	crtcCursorHiReg  = 0x0e
)

var (
	// overlayFramebufferFn returns a slice that overlays the framebuffer
	// memory at the specified physical address. The kernel runs with an
	// identity-mapped address space so no page mapping is required.
	overlayFramebufferFn = func(physAddr uintptr, cells int) []uint16 {
		return unsafe.Slice((*uint16)(unsafe.Pointer(physAddr)), cells)
	}

	errNoFramebuffer = &kernel.Error{Module: "vga_text_console", Message: "framebuffer address not set"}
)

// VgaTextConsole implements an EGA-compatible 80x25 text console using VGA
// mode 0x3. The console supports the default 16 EGA colors.
//
// Each character in the console framebuffer is represented using two bytes,
// a byte for the character ASCII code and a byte that encodes the foreground
// and background colors (4 bits for each). A cell at column x and row y is
// stored at offset y*width+x.
//
// The default settings for the console are:
//   - light gray text (color 7) on black background (color 0).
//   - space as the clear character
type VgaTextConsole struct {
	width  uint32
	height uint32

	fbPhysAddr uintptr
	fb         []uint16
	ports      device.PortIO

	palette     color.Palette
	defaultAttr Attr
	clearChar   byte
}

// egaPalette holds the 16 default EGA colors.
var egaPalette = color.Palette{
	color.RGBA{R: 0, G: 0, B: 0, A: 255},       /* black */
	color.RGBA{R: 0, G: 0, B: 170, A: 255},     /* blue */
	color.RGBA{R: 0, G: 170, B: 0, A: 255},     /* green */
	color.RGBA{R: 0, G: 170, B: 170, A: 255},   /* cyan */
	color.RGBA{R: 170, G: 0, B: 0, A: 255},     /* red */
	color.RGBA{R: 170, G: 0, B: 170, A: 255},   /* magenta */
	color.RGBA{R: 170, G: 85, B: 0, A: 255},    /* orange */
	color.RGBA{R: 170, G: 170, B: 170, A: 255}, /* light gray */
	color.RGBA{R: 85, G: 85, B: 85, A: 255},    /* dark gray */
	color.RGBA{R: 85, G: 85, B: 255, A: 255},   /* light blue */
	color.RGBA{R: 85, G: 255, B: 85, A: 255},   /* light green */
	color.RGBA{R: 85, G: 255, B: 255, A: 255},  /* light cyan */
	color.RGBA{R: 255, G: 85, B: 85, A: 255},   /* light red */
	color.RGBA{R: 255, G: 85, B: 255, A: 255},  /* light magenta */
	color.RGBA{R: 255, G: 255, B: 85, A: 255},  /* yellow */
	color.RGBA{R: 255, G: 255, B: 255, A: 255}, /* white */
}

// MakeVgaTextConsole returns a vga text console with its framebuffer mapped
// to fbPhysAddr. The framebuffer is attached when the driver gets
// initialized. The kernel stores the result in a package variable since it
// runs without a heap.
func MakeVgaTextConsole(columns, rows uint32, fbPhysAddr uintptr, ports device.PortIO) VgaTextConsole {
	return VgaTextConsole{
		width:       columns,
		height:      rows,
		fbPhysAddr:  fbPhysAddr,
		ports:       ports,
		clearChar:   ' ',
		defaultAttr: MakeAttr(LightGrey, Black),
		palette:     egaPalette,
	}
}

// NewVgaTextConsole creates a new vga text console with its framebuffer
// mapped to fbPhysAddr.
func NewVgaTextConsole(columns, rows uint32, fbPhysAddr uintptr, ports device.PortIO) *VgaTextConsole {
	cons := MakeVgaTextConsole(columns, rows, fbPhysAddr, ports)
	return &cons
}

// NewVgaTextConsoleWithBuffer creates a vga text console that renders into
// the supplied buffer instead of a physical framebuffer. The buffer must hold
// at least columns*rows cells.
func NewVgaTextConsoleWithBuffer(columns, rows uint32, fb []uint16, ports device.PortIO) *VgaTextConsole {
	cons := NewVgaTextConsole(columns, rows, 0, ports)
	cons.fb = fb[:columns*rows]
	return cons
}

// Dimensions returns the console width and height in characters.
func (cons *VgaTextConsole) Dimensions() (uint32, uint32) {
	return cons.width, cons.height
}

// DefaultAttr returns the attribute used for clearing the console.
func (cons *VgaTextConsole) DefaultAttr() Attr {
	return cons.defaultAttr
}

// offset returns the framebuffer offset for (x, y) and whether the
// coordinates are inside the console.
func (cons *VgaTextConsole) offset(x, y uint32) (uint32, bool) {
	if x >= cons.width || y >= cons.height {
		return 0, false
	}
	return y*cons.width + x, true
}

// Put writes a cell to the specified location.
func (cons *VgaTextConsole) Put(cell Cell, x, y uint32) {
	if off, ok := cons.offset(x, y); ok {
		cons.fb[off] = uint16(cell)
	}
}

// Read returns the cell stored at the specified location.
func (cons *VgaTextConsole) Read(x, y uint32) Cell {
	if off, ok := cons.offset(x, y); ok {
		return Cell(cons.fb[off])
	}
	return 0
}

// Fill sets the contents of the specified rectangular region to blank cells
// using the requested attribute. The rectangle is clipped to the console.
func (cons *VgaTextConsole) Fill(x, y, width, height uint32, attr Attr) {
	if x >= cons.width || y >= cons.height {
		return
	}

	if x+width > cons.width {
		width = cons.width - x
	}

	if y+height > cons.height {
		height = cons.height - y
	}

	clr := uint16(MakeCell(cons.clearChar, attr))
	rowOffset := y*cons.width + x
	for ; height > 0; height, rowOffset = height-1, rowOffset+cons.width {
		for colOffset := rowOffset; colOffset < rowOffset+width; colOffset++ {
			cons.fb[colOffset] = clr
		}
	}
}

// Scroll the console contents to the specified direction. The caller
// is responsible for updating (e.g. clear or replace) the contents of
// the region that was scrolled.
func (cons *VgaTextConsole) Scroll(dir ScrollDir, lines uint32) {
	if lines == 0 || lines > cons.height {
		return
	}

	offset := lines * cons.width
	switch dir {
	case ScrollDirUp:
		copy(cons.fb, cons.fb[offset:cons.height*cons.width])
	case ScrollDirDown:
		copy(cons.fb[offset:], cons.fb[:(cons.height-lines)*cons.width])
	}
}

// SetCursor moves the hardware cursor to (x, y) by writing its linear
// offset to the CRT controller cursor location registers.
func (cons *VgaTextConsole) SetCursor(x, y uint32) {
	off, ok := cons.offset(x, y)
	if !ok || cons.ports == nil {
		return
	}

	cons.ports.PortWriteByte(crtcIndexPort, crtcCursorLowReg)
	cons.ports.PortWriteByte(crtcDataPort, uint8(off&0xff))
	cons.ports.PortWriteByte(crtcIndexPort, crtcCursorHiReg)
	cons.ports.PortWriteByte(crtcDataPort, uint8((off>>8)&0xff))
}

// Palette returns the active color palette for this console.
func (cons *VgaTextConsole) Palette() color.Palette {
	return cons.palette
}

// DriverName returns the name of this driver.
func (cons *VgaTextConsole) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (cons *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 0, 1
}

// DriverInit initializes this driver.
func (cons *VgaTextConsole) DriverInit(w io.Writer) *kernel.Error {
	if cons.fb == nil {
		if cons.fbPhysAddr == 0 {
			return errNoFramebuffer
		}

		cons.fb = overlayFramebufferFn(cons.fbPhysAddr, int(cons.width*cons.height))
		kfmt.Fprintf(w, "framebuffer at 0x%x\n", cons.fbPhysAddr)
	}

	kfmt.Fprintf(w, "%dx%d text mode\n", cons.width, cons.height)
	cons.Fill(0, 0, cons.width, cons.height, cons.defaultAttr)
	return nil
}
