package window

import (
	"bytes"
	"testing"
)

func TestWriteAndOccupied(t *testing.T) {
	w := New(8)
	n := w.Write([]byte("hello"))
	if n != 5 {
		t.Fatalf("expected 5 bytes written, got %d", n)
	}
	if w.Occupied() != 5 {
		t.Fatalf("expected occupied 5, got %d", w.Occupied())
	}
	if w.Summary() != 5 {
		t.Fatalf("expected summary 5, got %d", w.Summary())
	}
}

func TestRotatePreservesTail(t *testing.T) {
	w := New(4) // capacity = 6
	w.Write([]byte("abcdef"))
	if w.Occupied() != 4 {
		t.Fatalf("expected occupied 4, got %d", w.Occupied())
	}
	w.Rotate()
	// "ef" straddled the size boundary and should now sit at the front.
	if got := w.Data()[:2]; !bytes.Equal(got, []byte("ef")) {
		t.Fatalf("expected rotated tail 'ef', got %q", got)
	}
	if w.last != 2 {
		t.Fatalf("expected last=2 after rotate, got %d", w.last)
	}
}

func TestRotateWithNoTailResetsLast(t *testing.T) {
	w := New(8)
	w.Write([]byte("abc"))
	w.Rotate()
	if w.last != 0 {
		t.Fatalf("expected last=0 after rotating with no overrun, got %d", w.last)
	}
}

func TestFindByte(t *testing.T) {
	w := New(16)
	w.Write([]byte("foo,bar,baz"))
	idx := w.FindByte(',', 0)
	if idx != 3 {
		t.Fatalf("expected comma at 3, got %d", idx)
	}
	idx = w.FindByte(',', 4)
	if idx != 7 {
		t.Fatalf("expected comma at 7, got %d", idx)
	}
	if w.FindByte('z', 8) != 10 {
		t.Fatalf("expected z at 10, got %d", w.FindByte('z', 8))
	}
	if w.FindByte('q', 0) != -1 {
		t.Fatalf("expected -1 for missing byte")
	}
}

func TestFindNeedle(t *testing.T) {
	w := New(32)
	w.Write([]byte(`int x = 0; // comment`))
	idx := w.Find([]byte("//"), 0)
	if idx != 11 {
		t.Fatalf("expected // at 11, got %d", idx)
	}
}

func TestFindMask(t *testing.T) {
	w := New(16)
	w.Write([]byte("abc-def"))
	var mask [256]bool
	mask['-'] = true
	idx := w.FindMask(&mask, 0)
	if idx != 3 {
		t.Fatalf("expected hint hit at 3, got %d", idx)
	}
}

func TestCount(t *testing.T) {
	w := New(32)
	w.Write([]byte("a,b,c,d"))
	if got := w.CountByte(',', 0); got != 3 {
		t.Fatalf("expected 3 commas, got %d", got)
	}
}

// TestRotationSafety exercises Property 1: for any sequence of writes
// totaling <= capacity, rotating preserves the logical byte stream.
func TestRotationSafety(t *testing.T) {
	w := New(4) // capacity 6
	input := []byte("abcdefghij")
	var out []byte
	pos := 0
	for pos < len(input) {
		n := w.Write(input[pos:])
		pos += int(n)
		occ := w.Occupied()
		out = append(out, w.Data()[:occ]...)
		w.Rotate()
	}
	out = append(out, w.Data()[:w.Occupied()]...)
	if !bytes.Equal(out, input) {
		t.Fatalf("rotation lost bytes: got %q want %q", out, input)
	}
}
