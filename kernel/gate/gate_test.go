package gate

import (
	"bytes"
	"strings"
	"testing"
)

func TestDispatch(t *testing.T) {
	defer HandleInterrupt(KeyboardInterrupt, 0, nil)

	var (
		calls   int
		gotInfo uint64
	)

	if Dispatch(KeyboardInterrupt, &Registers{}) {
		t.Fatal("expected Dispatch to return false when no handler is registered")
	}

	HandleInterrupt(KeyboardInterrupt, 2, func(regs *Registers) {
		calls++
		gotInfo = regs.Info
	})

	if got := StackOffset(KeyboardInterrupt); got != 2 {
		t.Fatalf("expected IST offset 2; got %d", got)
	}

	if !Dispatch(KeyboardInterrupt, &Registers{}) {
		t.Fatal("expected Dispatch to invoke the registered handler")
	}

	if calls != 1 || gotInfo != uint64(KeyboardInterrupt) {
		t.Fatalf("expected handler to be called once with Info %d; got %d calls with Info %d", KeyboardInterrupt, calls, gotInfo)
	}

	if Dispatch(KeyboardInterrupt+1, &Registers{}) {
		t.Fatal("expected Dispatch to ignore other interrupt numbers")
	}
}

func TestRegistersDumpTo(t *testing.T) {
	regs := Registers{
		RAX: 1, RBX: 2, RCX: 3, RDX: 4,
		RIP: 0xdeadbeef, RFlags: 0x202,
	}

	var buf bytes.Buffer
	regs.DumpTo(&buf)

	for _, exp := range []string{
		"RAX = 0000000000000001 RBX = 0000000000000002\n",
		"RCX = 0000000000000003 RDX = 0000000000000004\n",
		"RIP = 00000000deadbeef",
		"RFL = 0000000000000202\n",
	} {
		if !strings.Contains(buf.String(), exp) {
			t.Errorf("expected register dump to contain %q; got:\n%s", exp, buf.String())
		}
	}
}
