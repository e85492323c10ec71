//go:build amd64

package main

import "github.com/rmouduri/kfs/kernel/kmain"

// multibootInfoPtr is a variable so the call below is not inlined away.
var multibootInfoPtr uintptr

// main keeps Kmain reachable so the linker emits it. The boot code jumps to
// Kmain directly; main itself never runs on the target.
func main() {
	kmain.Kmain(multibootInfoPtr)
}
