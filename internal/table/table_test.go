package table

import (
	"bytes"
	"testing"
)

func sample() *Table {
	t := New([]Column{
		{Name: "key", Type: ColInt64},
		{Name: "name", Type: ColRStr},
		{Name: "score", Type: ColF64},
	})
	for i, s := range []string{"a", "b", "a"} {
		r := t.RowAdd()
		t.SetInt64(r, "key", int64(i))
		t.SetStr(r, "name", s)
		t.SetF64(r, "score", float64(i)*10)
	}
	return t
}

func TestRowAddAndCellRoundTrip(t *testing.T) {
	tbl := sample()
	if tbl.RowCount() != 3 {
		t.Fatalf("got %d rows, want 3", tbl.RowCount())
	}
	v, err := tbl.CellGet(1, "name")
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "b" {
		t.Fatalf("got %q, want b", v.Str)
	}
}

func TestAggregates(t *testing.T) {
	tbl := sample()
	sum, err := tbl.Sum("score", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if sum != 30 {
		t.Fatalf("got sum %v, want 30", sum)
	}
	avg, _ := tbl.Average("score", 0, -1)
	if avg != 10 {
		t.Fatalf("got avg %v, want 10", avg)
	}
	min, _ := tbl.Min("score", 0, -1)
	max, _ := tbl.Max("score", 0, -1)
	if min != 0 || max != 20 {
		t.Fatalf("got min=%v max=%v, want 0/20", min, max)
	}
	uniq, _ := tbl.CountUnique("name", 0, -1)
	if uniq != 2 {
		t.Fatalf("got %d unique names, want 2", uniq)
	}
}

func TestMedianAndPercentile(t *testing.T) {
	tbl := New([]Column{{Name: "v", Type: ColInt64}})
	for _, v := range []int64{1, 2, 3, 4, 5} {
		r := tbl.RowAdd()
		tbl.SetInt64(r, "v", v)
	}
	median, err := tbl.Median("v", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if median != 3 {
		t.Fatalf("got median %v, want 3", median)
	}
	p0, _ := tbl.Percentile("v", 0, 0, -1)
	p100, _ := tbl.Percentile("v", 100, 0, -1)
	if p0 != 1 || p100 != 5 {
		t.Fatalf("got p0=%v p100=%v, want 1/5", p0, p100)
	}
}

func TestCountContains(t *testing.T) {
	tbl := New([]Column{{Name: "line", Type: ColStr}})
	for _, s := range []string{"foo bar", "baz", "foobar"} {
		r := tbl.RowAdd()
		tbl.SetStr(r, "line", s)
	}
	n, err := tbl.CountContains("line", "foo", 0, -1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("got %d, want 2", n)
	}
}

func TestMaxLengthsTextUsesLongestLine(t *testing.T) {
	tbl := New([]Column{{Name: "text", Type: ColStr}})
	r := tbl.RowAdd()
	tbl.SetStr(r, "text", "short\na much longer line\nx")
	lengths := tbl.MaxLengthsText()
	want := len("a much longer line")
	if lengths[0] != want {
		t.Fatalf("got %d, want %d", lengths[0], want)
	}
}

func TestAppendSumRowAndPruneZeroRows(t *testing.T) {
	tbl := New([]Column{{Name: "a", Type: ColInt64}, {Name: "b", Type: ColInt64}})
	r0 := tbl.RowAdd()
	tbl.SetInt64(r0, "a", 0)
	tbl.SetInt64(r0, "b", 0)
	r1 := tbl.RowAdd()
	tbl.SetInt64(r1, "a", 5)
	tbl.SetInt64(r1, "b", 7)

	sumRow, err := tbl.AppendSumRow([]any{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	v, _ := tbl.CellGet(sumRow, "a")
	if v.Int64 != 5 {
		t.Fatalf("got sum-row a=%v, want 5", v.Int64)
	}

	if err := tbl.PruneZeroRows([]any{"a", "b"}); err != nil {
		t.Fatal(err)
	}
	if tbl.RowCount() != 2 {
		t.Fatalf("got %d rows after prune, want 2 (all-zero row 0 removed)", tbl.RowCount())
	}
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	tbl := sample()
	var buf bytes.Buffer
	if err := Serialize(&buf, tbl); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got, err := Deserialize(&buf)
	if err != nil {
		t.Fatalf("deserialize: %v", err)
	}
	if got.RowCount() != tbl.RowCount() {
		t.Fatalf("got %d rows, want %d", got.RowCount(), tbl.RowCount())
	}
	if len(got.Columns()) != len(tbl.Columns()) {
		t.Fatalf("got %d columns, want %d", len(got.Columns()), len(tbl.Columns()))
	}
	for i, c := range tbl.Columns() {
		if got.Columns()[i] != c {
			t.Fatalf("column %d mismatch: got %+v, want %+v", i, got.Columns()[i], c)
		}
	}
	v, err := got.CellGet(2, "name")
	if err != nil {
		t.Fatal(err)
	}
	if v.Str != "a" {
		t.Fatalf("got %q, want a", v.Str)
	}
	score, _ := got.CellGet(2, "score")
	if score.F64 != 20 {
		t.Fatalf("got score %v, want 20", score.F64)
	}
}

func TestSerializeDeserializeWithNulls(t *testing.T) {
	tbl := New([]Column{{Name: "v", Type: ColInt64}})
	tbl.RowAdd() // leave null
	r := tbl.RowAdd()
	tbl.SetInt64(r, "v", 42)

	var buf bytes.Buffer
	if err := Serialize(&buf, tbl); err != nil {
		t.Fatal(err)
	}
	got, err := Deserialize(&buf)
	if err != nil {
		t.Fatal(err)
	}
	isNull, err := got.IsNull(0, "v")
	if err != nil {
		t.Fatal(err)
	}
	if !isNull {
		t.Fatal("expected row 0 to be null")
	}
	v, _ := got.CellGet(1, "v")
	if v.Int64 != 42 {
		t.Fatalf("got %v, want 42", v.Int64)
	}
}
