package kernel

import "testing"

func TestKernelError(t *testing.T) {
	var err error = &Error{
		Module:  "tty",
		Message: "console dimensions do not match the terminal grid",
	}

	if got, exp := err.Error(), "console dimensions do not match the terminal grid"; got != exp {
		t.Fatalf("expected err.Error() to return %q; got %q", exp, got)
	}
}
