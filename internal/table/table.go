// Package table implements TableStore (§4.8): the in-memory columnar store
// that is the sole intermediate substrate between FileCleaner's passes.
// Every discovered fact becomes a row; every post-processing step is either
// a column-wise aggregate or a row-wise predicate.
//
// Grounded on indexer.IndexRecord's fixed-width record shape and
// query.QueryEngine's column/aggregate split (entreya-csvquery), generalized
// from a single fixed record type to named, typed, variable-width columns.
package table

import "fmt"

// ColumnType identifies the type a Column's cells hold (§4.8).
type ColumnType uint8

const (
	ColInt64 ColumnType = iota
	ColF64
	ColBool
	ColStr
	ColRStr // owned/referenced string, deduplicated through the string pool
	ColBinary
	ColNullptr
	ColPair // (int64, int64) pair, e.g. (row, col) locations
)

func (t ColumnType) String() string {
	switch t {
	case ColInt64:
		return "int64"
	case ColF64:
		return "f64"
	case ColBool:
		return "bool"
	case ColStr:
		return "str"
	case ColRStr:
		return "rstr"
	case ColBinary:
		return "binary"
	case ColNullptr:
		return "nullptr"
	case ColPair:
		return "pair"
	default:
		return "unknown"
	}
}

// Column describes one column's name, type, and fixed width (0 means a
// reference/variable-width column rather than an inline fixed-size one).
type Column struct {
	Name  string
	Type  ColumnType
	Width int
}

// Pair is the ColPair cell payload.
type Pair struct{ A, B int64 }

// cell holds one column's value for one row. Only the field matching the
// column's Type is meaningful; null is tracked separately in Table.null.
type cell struct {
	i    int64
	f    float64
	b    bool
	s    string
	bin  []byte
	pair Pair
}

// Table is a columnar store: column metadata plus one cell-slice per column,
// indexed in parallel by row number 0..N-1. A null bitmap and an optional
// string intern pool (for RStr columns) are carried alongside.
type Table struct {
	columns []Column
	index   map[string]int // column name -> index
	rows    [][]cell       // rows[r][c]
	null    [][]bool       // null[r][c]

	intern map[string]string // RStr interning: canonical-text -> canonical-text
}

// New returns an empty Table with the given column schema.
func New(columns []Column) *Table {
	t := &Table{
		columns: append([]Column(nil), columns...),
		index:   make(map[string]int, len(columns)),
		intern:  make(map[string]string),
	}
	for i, c := range columns {
		t.index[c.Name] = i
	}
	return t
}

// Columns returns the table's column schema.
func (t *Table) Columns() []Column { return t.columns }

// RowCount returns the number of rows currently stored.
func (t *Table) RowCount() int { return len(t.rows) }

// ColumnIndex resolves a column name to its index, or -1 if unknown.
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// RowAdd appends one new, all-null row and returns its index.
func (t *Table) RowAdd() int {
	row := make([]cell, len(t.columns))
	nullRow := make([]bool, len(t.columns))
	for i := range nullRow {
		nullRow[i] = true
	}
	t.rows = append(t.rows, row)
	t.null = append(t.null, nullRow)
	return len(t.rows) - 1
}

// resolve accepts either a column index or a column name and returns the index.
func (t *Table) resolve(col any) (int, error) {
	switch v := col.(type) {
	case int:
		if v < 0 || v >= len(t.columns) {
			return 0, fmt.Errorf("table: column index %d out of range", v)
		}
		return v, nil
	case string:
		i, ok := t.index[v]
		if !ok {
			return 0, fmt.Errorf("table: unknown column %q", v)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("table: column selector must be int or string, got %T", col)
	}
}

func (t *Table) checkRow(row int) error {
	if row < 0 || row >= len(t.rows) {
		return fmt.Errorf("table: row %d out of range", row)
	}
	return nil
}

// SetInt64 stores v at (row, col).
func (t *Table) SetInt64(row int, col any, v int64) error {
	c, err := t.resolve(col)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}
	t.rows[row][c] = cell{i: v}
	t.null[row][c] = false
	return nil
}

// SetF64 stores v at (row, col).
func (t *Table) SetF64(row int, col any, v float64) error {
	c, err := t.resolve(col)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}
	t.rows[row][c] = cell{f: v}
	t.null[row][c] = false
	return nil
}

// SetBool stores v at (row, col).
func (t *Table) SetBool(row int, col any, v bool) error {
	c, err := t.resolve(col)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}
	t.rows[row][c] = cell{b: v}
	t.null[row][c] = false
	return nil
}

// SetStr stores v at (row, col). If the column is ColRStr the text is
// interned: repeated equal strings across rows share one backing string.
func (t *Table) SetStr(row int, col any, v string) error {
	c, err := t.resolve(col)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}
	if t.columns[c].Type == ColRStr {
		if canon, ok := t.intern[v]; ok {
			v = canon
		} else {
			t.intern[v] = v
		}
	}
	t.rows[row][c] = cell{s: v}
	t.null[row][c] = false
	return nil
}

// SetBinary stores v at (row, col).
func (t *Table) SetBinary(row int, col any, v []byte) error {
	c, err := t.resolve(col)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}
	t.rows[row][c] = cell{bin: append([]byte(nil), v...)}
	t.null[row][c] = false
	return nil
}

// SetPair stores v at (row, col).
func (t *Table) SetPair(row int, col any, v Pair) error {
	c, err := t.resolve(col)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}
	t.rows[row][c] = cell{pair: v}
	t.null[row][c] = false
	return nil
}

// CellView is a read-only snapshot of one cell, returned by CellGet (the
// Go analogue of the original's cell_get_variant_view).
type CellView struct {
	Type ColumnType
	Null bool

	Int64  int64
	F64    float64
	Bool   bool
	Str    string
	Binary []byte
	Pair   Pair
}

// CellGet returns a view of the cell at (row, col).
func (t *Table) CellGet(row int, col any) (CellView, error) {
	c, err := t.resolve(col)
	if err != nil {
		return CellView{}, err
	}
	if err := t.checkRow(row); err != nil {
		return CellView{}, err
	}
	cl := t.rows[row][c]
	return CellView{
		Type:   t.columns[c].Type,
		Null:   t.null[row][c],
		Int64:  cl.i,
		F64:    cl.f,
		Bool:   cl.b,
		Str:    cl.s,
		Binary: cl.bin,
		Pair:   cl.pair,
	}, nil
}

// IsNull reports whether (row, col) is unset.
func (t *Table) IsNull(row int, col any) (bool, error) {
	v, err := t.CellGet(row, col)
	if err != nil {
		return false, err
	}
	return v.Null, nil
}

// AsF64 coerces a non-null numeric cell to float64 for aggregate math.
func (v CellView) AsF64() float64 {
	switch v.Type {
	case ColInt64:
		return float64(v.Int64)
	case ColF64:
		return v.F64
	case ColBool:
		if v.Bool {
			return 1
		}
		return 0
	default:
		return 0
	}
}
