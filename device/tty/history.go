package tty

// historyEntry holds the characters of a submitted line.
type historyEntry struct {
	line   [Width]byte
	length uint32
}

// History is a fixed-capacity ring buffer of submitted lines. Once more than
// MaxHistory lines have been recorded, new lines overwrite the oldest ones.
//
// Slot validity is derived from the total number of recorded lines and never
// from slot contents.
type History struct {
	entries [MaxHistory]historyEntry

	// count is the total number of lines recorded so far.
	count uint64

	// index is the slot currently shown in the edit line. It is only
	// meaningful when navigating is true.
	index      uint32
	navigating bool
}

// Record stores line in the next slot after trimming any trailing blanks.
// Blank lines are not recorded. Record returns true if the line was stored.
// Navigation state is left untouched.
func (h *History) Record(line []byte) bool {
	end := len(line)
	for ; end > 0 && isBlank(line[end-1]); end-- {
	}

	if end == 0 {
		return false
	}

	entry := &h.entries[h.count%MaxHistory]
	entry.length = uint32(copy(entry.line[:], line[:end]))
	h.count++
	return true
}

// Older moves the navigation index one entry back in time and returns the
// entry it points to. The first call after a Reset selects the most recent
// entry. Older refuses to move past the oldest retrievable entry and returns
// false if nothing has been recorded yet.
func (h *History) Older() ([]byte, bool) {
	if h.count == 0 {
		return nil, false
	}

	switch {
	case !h.navigating:
		h.index = h.newest()
		h.navigating = true
	case h.index != h.oldest():
		h.index = (h.index + MaxHistory - 1) % MaxHistory
	}

	return h.entry(h.index), true
}

// Newer moves the navigation index one entry forward in time. When already at
// the most recent entry, navigation ends and Newer returns a nil line with
// true so the caller can present an empty edit line. Newer returns false if
// no navigation is in progress.
func (h *History) Newer() ([]byte, bool) {
	if !h.navigating {
		return nil, false
	}

	if h.index == h.newest() {
		h.navigating = false
		return nil, true
	}

	h.index = (h.index + 1) % MaxHistory
	return h.entry(h.index), true
}

// Reset ends any navigation in progress.
func (h *History) Reset() {
	h.navigating = false
	h.index = 0
}

// Count returns the total number of lines recorded.
func (h *History) Count() uint64 {
	return h.count
}

// Navigating returns true if an entry is currently selected.
func (h *History) Navigating() bool {
	return h.navigating
}

// Each invokes fn for each retrievable entry from the oldest to the most
// recent one. The seq argument is the 1-based submission number of the entry.
func (h *History) Each(fn func(seq uint64, line []byte)) {
	var first uint64 = 1
	if h.count > MaxHistory {
		first = h.count - MaxHistory + 1
	}

	for seq := first; seq <= h.count; seq++ {
		fn(seq, h.entry(uint32((seq-1)%MaxHistory)))
	}
}

func (h *History) entry(slot uint32) []byte {
	if slot >= MaxHistory {
		return nil
	}

	e := &h.entries[slot]
	return e.line[:e.length]
}

func (h *History) newest() uint32 {
	return uint32((h.count - 1) % MaxHistory)
}

func (h *History) oldest() uint32 {
	if h.count > MaxHistory {
		return uint32(h.count % MaxHistory)
	}
	return 0
}

func isBlank(b byte) bool {
	return b == ' ' || b == 0
}
