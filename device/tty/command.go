package tty

import (
	"github.com/rmouduri/kfs/device/video/console"
	"github.com/rmouduri/kfs/kernel/kfmt"
)

// dumpBytesPerRow defines the number of bytes shown on each dump row.
const dumpBytesPerRow = 16

// command is a built-in command that runs when a submitted line starts with
// its name.
type command struct {
	name string
	run  func(t *Terminal, args []byte)
}

// commands is statically initialized; the kernel does not run package init
// functions.
var commands = [...]command{
	{"color", cmdColor},
	{"dump", cmdDump},
	{"clear", cmdClear},
	{"history", cmdHistory},
	{"reboot", cmdReboot},
	{"help", cmdHelp},
}

// commandUsage lists the help text of each entry in commands. It is kept
// apart from commands so that cmdHelp does not depend on the table that
// refers to it.
var commandUsage = [...]string{
	"color <name>     set the input color",
	"dump [region]    hex dump a memory region",
	"clear            clear the screen",
	"history          list remembered lines",
	"reboot           restart the machine",
	"help             list commands",
}

// runCommand executes the built-in command named by the first word of line.
// Lines that do not name a command are ignored.
func (t *Terminal) runCommand(line []byte) {
	name, args := nextField(line)
	if len(name) == 0 {
		return
	}

	for i := range commands {
		if string(name) == commands[i].name {
			commands[i].run(t, args)
			return
		}
	}
}

// nextField splits off the first space-separated word of line and returns it
// together with the remainder of the line.
func nextField(line []byte) (field, rest []byte) {
	start := 0
	for ; start < len(line) && isBlank(line[start]); start++ {
	}

	end := start
	for ; end < len(line) && !isBlank(line[end]); end++ {
	}

	return line[start:end], line[end:]
}

func cmdColor(t *Terminal, args []byte) {
	name, _ := nextField(args)

	fg, ok := colorByName(name)
	if !ok {
		kfmt.Fprintf(t, "Invalid color\n")
		return
	}

	s := t.activeSession()
	s.attr = console.MakeAttr(fg, s.attr.Bg())
}

// colorByName looks up a color without converting name to a string.
func colorByName(name []byte) (console.Color, bool) {
	for i, n := range console.ColorNames() {
		if string(name) == n {
			return console.Color(i), true
		}
	}
	return console.Black, false
}

func cmdDump(t *Terminal, args []byte) {
	name, _ := nextField(args)
	if len(name) == 0 {
		for i := 0; i < t.numRegions; i++ {
			r := &t.regions[i]
			kfmt.Fprintf(t, "%s: 0x%16x (%d bytes)\n", r.Name, r.Base, len(r.Data))
		}
		return
	}

	for i := 0; i < t.numRegions; i++ {
		if string(name) == t.regions[i].Name {
			hexDump(t, &t.regions[i])
			return
		}
	}

	kfmt.Fprintf(t, "Unknown region\n")
}

// hexDump prints the contents of region, dumpBytesPerRow bytes per row, each
// row prefixed by the address of its first byte.
func hexDump(t *Terminal, region *MemoryRegion) {
	for off := 0; off < len(region.Data); off += dumpBytesPerRow {
		end := off + dumpBytesPerRow
		if end > len(region.Data) {
			end = len(region.Data)
		}

		kfmt.Fprintf(t, "%8x:", region.Base+uintptr(off))
		for i := off; i < off+dumpBytesPerRow; i++ {
			if i < end {
				kfmt.Fprintf(t, " %2x", region.Data[i])
			} else {
				kfmt.Fprintf(t, "   ")
			}
		}

		kfmt.Fprintf(t, "  ")
		for i := off; i < end; i++ {
			ch := region.Data[i]
			if ch < ' ' || ch > '~' {
				ch = '.'
			}
			kfmt.Fprintf(t, "%c", ch)
		}
		kfmt.Fprintf(t, "\n")
	}
}

func cmdClear(t *Terminal, _ []byte) {
	s := t.activeSession()
	t.cons.Fill(0, 0, Width, editRow, s.attr)
	s.outOpen = false
}

func cmdHistory(t *Terminal, _ []byte) {
	t.activeSession().history.Each(func(seq uint64, line []byte) {
		kfmt.Fprintf(t, "%4d  %s\n", seq, line)
	})
}

func cmdReboot(t *Terminal, _ []byte) {
	kfmt.Fprintf(t, "rebooting...\n")
	t.kbd.Reset()
}

func cmdHelp(t *Terminal, _ []byte) {
	for i := range commandUsage {
		kfmt.Fprintf(t, "%s\n", commandUsage[i])
	}
}
