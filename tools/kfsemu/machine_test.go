package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/rmouduri/kfs/device/tty"
	"github.com/rmouduri/kfs/device/video/console"
)

func bootMachine(t *testing.T, cmdLine string) *machine {
	t.Helper()

	cfg := Config{CmdLine: cmdLine}
	m, err := newMachine(cfg.BootCmdLine())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

// typeText sends the key presses needed to type text followed by enter.
func typeText(m *machine, text string) {
	for _, ch := range text {
		m.Press(scancodesForRune(ch)...)
	}
	m.Press(scancodesFor(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))...)
}

func pressKey(m *machine, key tcell.Key) {
	m.Press(scancodesFor(tcell.NewEventKey(key, 0, tcell.ModNone))...)
}

func TestMachineBoot(t *testing.T) {
	m := bootMachine(t, "")

	if got := m.Row(tty.Height - 1); got != "kfs>" {
		t.Fatalf("expected prompt on the last row; got %q", got)
	}

	if x, y := m.Cursor(); x != tty.PromptLen || y != tty.Height-1 {
		t.Fatalf("expected cursor at (%d, %d); got (%d, %d)", tty.PromptLen, tty.Height-1, x, y)
	}

	for _, exp := range []string{
		"[hal] vga_text_console(0.0.1): initialized",
		"[hal] i8259a(0.0.1): initialized",
		"[hal] ps2_keyboard(0.0.1): initialized",
		"[hal] tty(0.1.0): initialized",
	} {
		if !strings.Contains(m.Text(), exp) {
			t.Errorf("expected boot log to contain %q; got:\n%s", exp, m.Text())
		}
	}

	if m.bus.Pending() != 0 {
		t.Fatalf("expected no pending scancodes; got %d", m.bus.Pending())
	}
}

func TestMachineBootCmdLine(t *testing.T) {
	m := bootMachine(t, "consoleSession=4 consoleColor=yellow")

	if got := m.term.ActiveSession(); got != 4 {
		t.Fatalf("expected session 4 to be active; got %d", got)
	}

	typeText(m, "x")
	if got := m.Cell(tty.PromptLen, tty.Height-2).Attr().Fg(); got != console.Yellow {
		t.Fatalf("expected input to be rendered in yellow; got %s", got)
	}
}

func TestMachineHelp(t *testing.T) {
	m := bootMachine(t, "")
	typeText(m, "help")

	expRows := []string{
		"kfs> help",
		"color <name>     set the input color",
		"dump [region]    hex dump a memory region",
		"clear            clear the screen",
		"history          list remembered lines",
		"reboot           restart the machine",
		"help             list commands",
		"kfs>",
	}

	for i, exp := range expRows {
		y := uint32(tty.Height - len(expRows) + i)
		if got := m.Row(y); got != exp {
			t.Errorf("expected row %d to be %q; got %q", y, exp, got)
		}
	}
}

func TestMachineEditing(t *testing.T) {
	specs := []struct {
		keys   []tcell.Key
		text   string
		expRow string
		expX   uint32
	}{
		{nil, "ls", "kfs> ls", tty.PromptLen + 2},
		{[]tcell.Key{tcell.KeyLeft}, "x", "kfs> lxs", tty.PromptLen + 2},
		{[]tcell.Key{tcell.KeyLeft, tcell.KeyLeft, tcell.KeyDelete}, "", "kfs> s", tty.PromptLen},
		{[]tcell.Key{tcell.KeyBackspace2}, "", "kfs> l", tty.PromptLen + 1},
		{[]tcell.Key{tcell.KeyLeft, tcell.KeyLeft, tcell.KeyLeft, tcell.KeyRight}, "", "kfs> ls", tty.PromptLen + 1},
	}

	for specIndex, spec := range specs {
		m := bootMachine(t, "")
		for _, ch := range "ls" {
			m.Press(scancodesForRune(ch)...)
		}

		for _, key := range spec.keys {
			pressKey(m, key)
		}

		for _, ch := range spec.text {
			m.Press(scancodesForRune(ch)...)
		}

		if got := m.Row(tty.Height - 1); got != spec.expRow {
			t.Errorf("[spec %d] expected edit row %q; got %q", specIndex, spec.expRow, got)
		}

		if x, _ := m.Cursor(); x != spec.expX {
			t.Errorf("[spec %d] expected cursor column %d; got %d", specIndex, spec.expX, x)
		}
	}
}

func TestMachineModifiers(t *testing.T) {
	m := bootMachine(t, "")

	m.Press(scancodesForRune('a')...)
	m.Press(scancodesForRune('A')...)

	capsLock := scancodesFor(tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl))
	m.Press(capsLock...)
	m.Press(scancodesForRune('b')...)
	m.Press(scancodesForRune('B')...)
	m.Press(scancodesForRune('1')...)

	// The first release after a press arms the debounce; the next
	// press and release turn caps lock off.
	m.Press(capsLock...)
	m.Press(scancodesForRune('c')...)

	if exp, got := "kfs> aABb1c", m.Row(tty.Height-1); got != exp {
		t.Fatalf("expected edit row %q; got %q", exp, got)
	}
}

func TestMachineHistory(t *testing.T) {
	m := bootMachine(t, "")
	typeText(m, "first")
	typeText(m, "second")

	specs := []struct {
		key    tcell.Key
		expRow string
	}{
		{tcell.KeyUp, "kfs> second"},
		{tcell.KeyUp, "kfs> first"},
		{tcell.KeyUp, "kfs> first"},
		{tcell.KeyDown, "kfs> second"},
		{tcell.KeyDown, "kfs>"},
	}

	for specIndex, spec := range specs {
		pressKey(m, spec.key)
		if got := m.Row(tty.Height - 1); got != spec.expRow {
			t.Errorf("[spec %d] expected edit row %q; got %q", specIndex, spec.expRow, got)
		}
	}
}

func TestMachineSessionSwitch(t *testing.T) {
	m := bootMachine(t, "")
	for _, ch := range "draft" {
		m.Press(scancodesForRune(ch)...)
	}
	before := m.Text()

	pressKey(m, tcell.KeyF2)
	if got := m.term.ActiveSession(); got != 1 {
		t.Fatalf("expected session 1 to be active; got %d", got)
	}

	if got := m.Row(tty.Height - 1); got != "kfs>" {
		t.Fatalf("expected a fresh prompt on session 1; got %q", got)
	}

	if prompt := m.Cell(0, tty.Height-1).Attr().Fg(); prompt != console.Blue {
		t.Fatalf("expected session 1 prompt to be blue; got %s", prompt)
	}

	pressKey(m, tcell.KeyF1)
	if got := m.Text(); got != before {
		t.Fatalf("expected session 0 contents to be restored; got:\n%s", got)
	}

	if x, _ := m.Cursor(); x != tty.PromptLen+5 {
		t.Fatalf("expected cursor column %d; got %d", tty.PromptLen+5, x)
	}
}

func TestMachineReboot(t *testing.T) {
	m := bootMachine(t, "")
	typeText(m, "reboot")

	if !m.bus.ResetRequested() {
		t.Fatal("expected reboot to pulse the reset line")
	}

	if got := m.Row(tty.Height - 2); got != "rebooting..." {
		t.Fatalf("expected reboot message; got %q", got)
	}
}
