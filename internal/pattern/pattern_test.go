package pattern

import "testing"

func TestLongestMatchWins(t *testing.T) {
	s := New([]string{"foo", "foobar"})
	data := []byte("xx foobar yy")
	m, ok := s.FindFirst(data, 0, len(data))
	if !ok {
		t.Fatal("expected a match")
	}
	if got := string(data[m.Index : m.Index+len(s.Patterns()[m.PatternIndex].Bytes)]); got != "foobar" {
		t.Fatalf("expected longest match 'foobar', got %q", got)
	}
}

func TestNoMatchOnEmptySetOrCorpus(t *testing.T) {
	s := New(nil)
	if _, ok := s.FindFirst([]byte("anything"), 0, 8); ok {
		t.Fatal("expected no match for empty pattern set")
	}
	s2 := New([]string{"x"})
	if _, ok := s2.FindFirst(nil, 0, 0); ok {
		t.Fatal("expected no match for empty corpus")
	}
}

func TestFindAll(t *testing.T) {
	s := New([]string{"foo"})
	data := []byte("foo bar foo baz foo")
	matches := s.FindAll(data, 0, len(data))
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
}
