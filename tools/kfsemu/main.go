// Command kfsemu runs the kernel console drivers on top of an emulated PC
// keyboard controller, interrupt controller and VGA text framebuffer,
// rendering the display inside a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rmouduri/kfs/kernel/kfmt"
	"golang.org/x/term"
)

var errResetRequested = errors.New("machine reset requested")

func exit(err error) {
	fmt.Fprintf(os.Stderr, "[kfsemu] error: %s\n", err.Error())
	os.Exit(1)
}

// run boots a machine and forwards key events from screen to it until the
// user quits or the kernel requests a reset.
func run(screen tcell.Screen, m *machine, palette color.Palette) error {
	r := newRenderer(screen, palette)
	r.Draw(m)

	for {
		switch ev := screen.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return nil
			}

			m.Press(scancodesFor(ev)...)
			if m.bus.ResetRequested() {
				return errResetRequested
			}
		}

		r.Draw(m)
	}
}

func main() {
	configPath := flag.String("config", "kfsemu.toml", "the TOML file with the emulator settings")
	cmdLine := flag.String("cmdline", "", "the boot command line; overrides the config file")
	logPath := flag.String("log", "", "a file that receives the kernel log; overrides the config file")
	shotPath := flag.String("screenshot", "", "a PNG file that captures the display on exit; overrides the config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: kfsemu [options]\n")
		fmt.Fprintf(os.Stderr, "Press Esc or Ctrl-C to quit and Ctrl-L to toggle caps lock.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		exit(errors.New("stdout is not a terminal"))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		exit(err)
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cmdline":
			cfg.CmdLine = *cmdLine
		case "log":
			cfg.Log = *logPath
		case "screenshot":
			cfg.Screenshot = *shotPath
		}
	})

	m, err := newMachine(cfg.BootCmdLine())
	if err != nil {
		exit(err)
	}

	palette, err := cfg.ApplyPalette(m.cons.Palette())
	if err != nil {
		exit(err)
	}

	if cfg.Log != "" {
		logFile, err := os.Create(cfg.Log)
		if err != nil {
			exit(err)
		}
		defer logFile.Close()

		io.WriteString(logFile, m.Text())
		kfmt.SetOutputSink(io.MultiWriter(m.term, logFile))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		exit(err)
	}

	if err := screen.Init(); err != nil {
		exit(err)
	}

	runErr := run(screen, m, palette)
	screen.Fini()

	if cfg.Screenshot != "" {
		if err := writeScreenshot(cfg.Screenshot, m, palette); err != nil {
			exit(err)
		}
	}

	if runErr != nil {
		fmt.Println(runErr.Error())
	}
}
