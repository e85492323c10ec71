package kfmt

import "io"

// ringBufferSize defines the number of bytes of early Printf output that are
// retained until an output sink is attached. It is large enough to hold the
// contents of a full 80x25 text screen.
const ringBufferSize = 2048

// ringBuffer retains the most recent ringBufferSize bytes written to it. Once
// the buffer is full, each new byte discards the oldest one.
type ringBuffer struct {
	buffer [ringBufferSize]byte

	// start is the index of the oldest buffered byte.
	start  int
	length int
}

// Write appends p to the buffer. It never fails.
func (rb *ringBuffer) Write(p []byte) (int, error) {
	for _, b := range p {
		rb.buffer[(rb.start+rb.length)%ringBufferSize] = b
		if rb.length == ringBufferSize {
			rb.start = (rb.start + 1) % ringBufferSize
			continue
		}
		rb.length++
	}

	return len(p), nil
}

// Read moves up to len(p) of the oldest buffered bytes into p. It returns
// io.EOF once the buffer is empty.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.length == 0 {
		return 0, io.EOF
	}

	var n int
	for ; n < len(p) && rb.length > 0; n++ {
		p[n] = rb.buffer[rb.start]
		rb.start = (rb.start + 1) % ringBufferSize
		rb.length--
	}

	return n, nil
}

// WriteTo drains the buffer into w. The contents are passed to w in at most
// two calls so no intermediate buffer is needed.
func (rb *ringBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for rb.length > 0 {
		end := rb.start + rb.length
		if end > ringBufferSize {
			end = ringBufferSize
		}

		chunk := rb.buffer[rb.start:end]
		n, err := w.Write(chunk)
		total += int64(n)
		rb.start = (rb.start + n) % ringBufferSize
		rb.length -= n

		if err == nil && n < len(chunk) {
			err = io.ErrShortWrite
		}

		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// Len returns the number of buffered bytes.
func (rb *ringBuffer) Len() int {
	return rb.length
}

// Reset discards the buffered bytes.
func (rb *ringBuffer) Reset() {
	rb.start, rb.length = 0, 0
}
