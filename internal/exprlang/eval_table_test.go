package exprlang

import (
	"testing"

	"github.com/perghosh/filecleaner/internal/table"
	"github.com/perghosh/filecleaner/internal/value"
)

func newRowTable(t *testing.T) *table.Table {
	t.Helper()
	tb := table.New([]table.Column{
		{Name: "filename", Type: table.ColRStr},
		{Name: "row", Type: table.ColInt64},
		{Name: "column", Type: table.ColInt64},
		{Name: "pattern", Type: table.ColStr},
	})
	add := func(name string, row, col int64, pattern string) {
		r := tb.RowAdd()
		tb.SetStr(r, "filename", name)
		tb.SetInt64(r, "row", row)
		tb.SetInt64(r, "column", col)
		tb.SetStr(r, "pattern", pattern)
	}
	add("a.c", 1, 0, "TODO")
	add("a.c", 5, 2, "FIXME")
	add("b.c", 3, 1, "TODO")
	return tb
}

func TestFilterRowsByColumn(t *testing.T) {
	tb := newRowTable(t)
	prog, err := Compile(`pattern == "TODO"`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	kept, err := FilterRows(prog, tb, NewRuntime())
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if len(kept) != 2 {
		t.Fatalf("got %d kept rows, want 2: %v", len(kept), kept)
	}
}

func TestPruneFilteredCompactsTable(t *testing.T) {
	tb := newRowTable(t)
	prog, err := Compile(`row > 2`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := PruneFiltered(prog, tb, NewRuntime()); err != nil {
		t.Fatalf("prune: %v", err)
	}
	if tb.RowCount() != 2 {
		t.Fatalf("got %d rows after prune, want 2", tb.RowCount())
	}
	for r := 0; r < tb.RowCount(); r++ {
		cv, err := tb.CellGet(r, "row")
		if err != nil {
			t.Fatal(err)
		}
		if cv.Int64 <= 2 {
			t.Fatalf("row %d: got row=%d, want > 2", r, cv.Int64)
		}
	}
}

func TestEmitSnippetsAppendsDerivedColumn(t *testing.T) {
	src := newRowTable(t)
	prog, err := Compile(`str::toupper(pattern)`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	dest := table.New(append(append([]table.Column{}, src.Columns()...), table.Column{Name: "snippet", Type: table.ColStr}))
	if err := EmitSnippets(src, dest, []SnippetSpec{{Column: "snippet", Expr: prog}}, NewRuntime()); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if dest.RowCount() != src.RowCount() {
		t.Fatalf("got %d dest rows, want %d", dest.RowCount(), src.RowCount())
	}
	cv, err := dest.CellGet(0, "snippet")
	if err != nil {
		t.Fatal(err)
	}
	if cv.Str != "TODO" {
		t.Fatalf("got snippet %q, want TODO", cv.Str)
	}
	fn, err := dest.CellGet(0, "filename")
	if err != nil {
		t.Fatal(err)
	}
	if fn.Str != "a.c" {
		t.Fatalf("expected shared column copied through, got %q", fn.Str)
	}
}

func TestEmitSnippetsDropsNullResults(t *testing.T) {
	src := newRowTable(t)
	rt := NewRuntime()
	rt.RegisterMethod("skip", func(recv value.Value, args []value.Value) (value.Value, error) {
		return value.Null(), nil
	})
	prog, err := Compile(`if(pattern == "TODO", pattern, skip())`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	dest := table.New(append(append([]table.Column{}, src.Columns()...), table.Column{Name: "snippet", Type: table.ColStr}))
	if err := EmitSnippets(src, dest, []SnippetSpec{{Column: "snippet", Expr: prog}}, rt); err != nil {
		t.Fatalf("emit: %v", err)
	}
	// Only the two TODO rows out of three survive; the FIXME row's branch
	// evaluates to skip()'s Null and is dropped.
	if dest.RowCount() != 2 {
		t.Fatalf("got %d dest rows, want 2", dest.RowCount())
	}
}
