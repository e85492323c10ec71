package multiboot

import "unsafe"

// MaxCmdLineOptions is the number of distinct options kept from a command
// line. Additional options are ignored.
const MaxCmdLineOptions = 16

// CmdLineOption is a single key=value pair. Bare flags use their own name
// as the value.
type CmdLineOption struct {
	Key   string
	Value string
}

// CmdLine holds the options parsed from a kernel command line. Keys and
// values refer to the parsed buffer, so the buffer must not be modified
// while the CmdLine is in use. Parsing does not allocate.
type CmdLine struct {
	options [MaxCmdLineOptions]CmdLineOption
	count   int
}

// ParseCmdLine splits a list of key=value pairs separated by spaces or tabs.
// A key that appears more than once keeps its last value. Pairs with an
// empty key are skipped.
func ParseCmdLine(cmdLine []byte) CmdLine {
	var c CmdLine

	for start, end := 0, 0; start < len(cmdLine); start = end + 1 {
		for end = start; end < len(cmdLine) && cmdLine[end] != ' ' && cmdLine[end] != '\t'; end++ {
		}

		pair := cmdLine[start:end]
		if len(pair) == 0 {
			continue
		}

		sep := -1
		for i, b := range pair {
			if b == '=' {
				sep = i
				break
			}
		}

		switch {
		case sep == -1: // nofoo
			c.set(bytesToString(pair), bytesToString(pair))
		case sep > 0: // foo=bar
			c.set(bytesToString(pair[:sep]), bytesToString(pair[sep+1:]))
		}
	}

	return c
}

func (c *CmdLine) set(key, value string) {
	for i := 0; i < c.count; i++ {
		if c.options[i].Key == key {
			c.options[i].Value = value
			return
		}
	}

	if c.count == MaxCmdLineOptions {
		return
	}

	c.options[c.count] = CmdLineOption{Key: key, Value: value}
	c.count++
}

// Lookup returns the value of key and whether the key was present. Lookup
// can be called on a nil CmdLine.
func (c *CmdLine) Lookup(key string) (string, bool) {
	if c == nil {
		return "", false
	}

	for i := 0; i < c.count; i++ {
		if c.options[i].Key == key {
			return c.options[i].Value, true
		}
	}

	return "", false
}

// Len returns the number of options.
func (c *CmdLine) Len() int {
	if c == nil {
		return 0
	}
	return c.count
}

// Option returns the i-th option in command line order.
func (c *CmdLine) Option(i int) CmdLineOption {
	return c.options[i]
}

// bytesToString returns a string sharing the memory of b.
func bytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}
