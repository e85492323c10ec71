package kfmt

import "io"

// PrefixWriter is an io.Writer that wraps another io.Writer and injects a
// prefix at the beginning of each line. Lines may span multiple calls to
// Write.
type PrefixWriter struct {
	// Sink receives the prefixed output. If nil, output is sent to the
	// early print buffer.
	Sink io.Writer

	// Prefix is injected at the beginning of each line.
	Prefix []byte

	// midLine is set when the last byte passed to the sink did not end
	// a line.
	midLine bool
}

// Write writes len(p) bytes from p to the sink and returns the number of
// bytes from p that were written. Injected prefixes are not included in the
// returned count.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var written int

	for len(p) != 0 {
		if !w.midLine {
			if _, err := w.write(w.Prefix); err != nil {
				return written, err
			}
			w.midLine = true
		}

		end := len(p)
		for i, b := range p {
			if b == '\n' {
				end = i + 1
				break
			}
		}

		n, err := w.write(p[:end])
		written += n
		if err != nil {
			return written, err
		}

		w.midLine = p[end-1] != '\n'
		p = p[end:]
	}

	return written, nil
}

func (w *PrefixWriter) write(p []byte) (int, error) {
	if w.Sink == nil {
		return earlyPrintBuffer.Write(p)
	}
	return w.Sink.Write(p)
}
