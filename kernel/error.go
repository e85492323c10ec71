package kernel

// Error describes a kernel error. Kernel errors are defined as global
// variables that are pointers to the Error structure so that reporting them
// from interrupt context never allocates.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
