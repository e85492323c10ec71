package tty

import (
	"fmt"
	"testing"
)

func TestHistoryRecord(t *testing.T) {
	specs := []struct {
		input    string
		exp      string
		expSaved bool
	}{
		{"ls", "ls", true},
		{"ls   ", "ls", true},
		{"  ls", "  ls", true},
		{"color red\x00\x00", "color red", true},
		{"", "", false},
		{"     ", "", false},
		{"\x00 \x00", "", false},
	}

	for specIndex, spec := range specs {
		var h History
		if saved := h.Record([]byte(spec.input)); saved != spec.expSaved {
			t.Errorf("[spec %d] expected Record to return %t; got %t", specIndex, spec.expSaved, saved)
			continue
		}

		if !spec.expSaved {
			if h.Count() != 0 {
				t.Errorf("[spec %d] expected blank line not to advance the counter", specIndex)
			}
			continue
		}

		line, ok := h.Older()
		if !ok || string(line) != spec.exp {
			t.Errorf("[spec %d] expected recorded line %q; got %q", specIndex, spec.exp, line)
		}
	}
}

func TestHistoryRecordTruncatesLongLines(t *testing.T) {
	var (
		h    History
		long = make([]byte, Width+10)
	)
	for i := range long {
		long[i] = 'a'
	}

	h.Record(long)
	if line, _ := h.Older(); len(line) != Width {
		t.Fatalf("expected entry to be capped at %d bytes; got %d", Width, len(line))
	}
}

func TestHistoryEmpty(t *testing.T) {
	var h History

	if _, ok := h.Older(); ok {
		t.Fatal("expected Older to be a no-op on an empty history")
	}

	if _, ok := h.Newer(); ok {
		t.Fatal("expected Newer to be a no-op when not navigating")
	}

	if h.Navigating() {
		t.Fatal("expected history not to be navigating")
	}
}

func TestHistoryNavigation(t *testing.T) {
	var h History
	for _, line := range []string{"one", "two", "three"} {
		h.Record([]byte(line))
	}

	steps := []struct {
		older  bool
		exp    string
		expNav bool
	}{
		{true, "three", true},
		{true, "two", true},
		{true, "one", true},
		// refuse to move past the oldest entry
		{true, "one", true},
		{false, "two", true},
		{false, "three", true},
		// moving past the newest entry ends navigation
		{false, "", false},
	}

	for stepIndex, step := range steps {
		var (
			line []byte
			ok   bool
		)

		if step.older {
			line, ok = h.Older()
		} else {
			line, ok = h.Newer()
		}

		if !ok {
			t.Fatalf("[step %d] expected navigation to succeed", stepIndex)
		}

		if string(line) != step.exp {
			t.Fatalf("[step %d] expected line %q; got %q", stepIndex, step.exp, line)
		}

		if h.Navigating() != step.expNav {
			t.Fatalf("[step %d] expected navigating to be %t", stepIndex, step.expNav)
		}
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	for _, submissions := range []int{1, 5, MaxHistory, MaxHistory + 7} {
		var h History
		for i := 1; i <= submissions; i++ {
			h.Record([]byte(fmt.Sprintf("cmd%d", i)))
		}

		maxK := submissions
		if maxK > MaxHistory {
			maxK = MaxHistory
		}

		for k := 1; k <= maxK; k++ {
			for i := 0; i < k; i++ {
				h.Older()
			}

			var (
				line []byte
				ok   bool
			)
			for i := 0; i < k; i++ {
				line, ok = h.Newer()
			}

			if !ok || line != nil || h.Navigating() {
				t.Fatalf("[%d submissions] expected %d older/newer steps to return to an empty line", submissions, k)
			}
		}
	}
}

func TestHistoryWraparound(t *testing.T) {
	for _, m := range []int{1, 2, 17, MaxHistory, MaxHistory + 3} {
		var h History
		for i := 1; i <= MaxHistory+m; i++ {
			h.Record([]byte(fmt.Sprintf("cmd%d", i)))
		}

		var line []byte
		for i := 0; i < 2*MaxHistory; i++ {
			line, _ = h.Older()
		}

		if exp := fmt.Sprintf("cmd%d", m+1); string(line) != exp {
			t.Errorf("[m=%d] expected oldest retrievable entry to be %q; got %q", m, exp, line)
		}

		var seqs []uint64
		h.Each(func(seq uint64, _ []byte) {
			seqs = append(seqs, seq)
		})

		if len(seqs) != MaxHistory || seqs[0] != uint64(m+1) || seqs[len(seqs)-1] != uint64(MaxHistory+m) {
			t.Errorf("[m=%d] expected Each to visit submissions %d to %d; got %v", m, m+1, MaxHistory+m, seqs)
		}
	}
}

func TestHistoryReset(t *testing.T) {
	var h History
	h.Record([]byte("a"))
	h.Record([]byte("b"))

	h.Older()
	h.Older()
	h.Reset()

	if line, _ := h.Older(); string(line) != "b" {
		t.Fatalf("expected navigation to restart from the newest entry; got %q", line)
	}
}
