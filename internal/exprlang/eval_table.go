package exprlang

import (
	"fmt"

	"github.com/perghosh/filecleaner/internal/table"
	"github.com/perghosh/filecleaner/internal/value"
)

// BindRow installs a Runtime.finder that resolves an identifier to the
// named column's cell value for row of t (§2 Data flow: "ExprLang is
// invoked ... for filter predicates on tables and for transformation
// expressions"; §4.7 intro: "evaluated per row of a table"). It returns a
// restore func that must be called once the row has been evaluated, so a
// Runtime shared across rows (or with a caller-supplied finder of its own)
// is left the way it was found.
func BindRow(rt *Runtime, t *table.Table, row int) (restore func()) {
	prev := rt.finder
	rt.SetFinder(func(name string) (value.Value, bool) {
		idx := t.ColumnIndex(name)
		if idx < 0 {
			return value.Null(), false
		}
		cv, err := t.CellGet(row, idx)
		if err != nil || cv.Null {
			return value.Null(), false
		}
		return cellToValue(cv), true
	})
	return func() { rt.finder = prev }
}

func cellToValue(c table.CellView) value.Value {
	switch c.Type {
	case table.ColInt64:
		return value.NewInt64(c.Int64)
	case table.ColF64:
		return value.NewF64(c.F64)
	case table.ColBool:
		return value.NewBool(c.Bool)
	case table.ColStr, table.ColRStr:
		return value.NewString(c.Str)
	default:
		return value.Null()
	}
}

// FilterRows evaluates predicate once per row of t, with the row's columns
// bound as variables via BindRow, and returns the indices of rows whose
// predicate evaluated truthy. It does not mutate t; pair it with
// Table.PruneWhere (or PruneFiltered below) to drop the rest.
func FilterRows(predicate Program, t *table.Table, rt *Runtime) ([]int, error) {
	var kept []int
	for row := 0; row < t.RowCount(); row++ {
		restore := BindRow(rt, t, row)
		v, err := Run(predicate, rt)
		restore()
		if err != nil {
			return nil, fmt.Errorf("exprlang: filter row %d: %w", row, err)
		}
		if v.AsBool() {
			kept = append(kept, row)
		}
	}
	return kept, nil
}

// PruneFiltered is the combined filter-then-prune pass: every row of t
// whose predicate evaluates falsy is removed (§2 Data flow's "expression
// filter" post-processing pass, alongside AppendSumRow and PruneZeroRows).
func PruneFiltered(predicate Program, t *table.Table, rt *Runtime) error {
	kept, err := FilterRows(predicate, t, rt)
	if err != nil {
		return err
	}
	t.PruneWhere(kept)
	return nil
}

// SnippetSpec describes one derived column of an EmitSnippets pass: Column
// is the destination table's column, Expr is evaluated once per source row
// (with that row's columns bound as variables) to produce the value
// written there.
type SnippetSpec struct {
	Column string
	Expr   Program
}

// EmitSnippets evaluates every spec once per row of src and, for rows where
// none of the expressions evaluate to Null, appends a row to dest: columns
// src and dest share by name are copied through unchanged, then each
// spec's computed value is written to its Column (§2 Data flow:
// "transformation expressions that emit synthesised 'snippet' rows"). A
// spec result of Null drops that source row from dest entirely, so a
// snippet transform can double as a filter.
func EmitSnippets(src *table.Table, dest *table.Table, specs []SnippetSpec, rt *Runtime) error {
	shared := sharedColumns(src, dest)
	for row := 0; row < src.RowCount(); row++ {
		restore := BindRow(rt, src, row)
		computed := make(map[string]value.Value, len(specs))
		skip := false
		for _, spec := range specs {
			v, err := Run(spec.Expr, rt)
			if err != nil {
				restore()
				return fmt.Errorf("exprlang: snippet row %d column %q: %w", row, spec.Column, err)
			}
			if v.IsNull() {
				skip = true
				break
			}
			computed[spec.Column] = v
		}
		restore()
		if skip {
			continue
		}

		destRow := dest.RowAdd()
		for _, name := range shared {
			cv, err := src.CellGet(row, name)
			if err != nil {
				return err
			}
			if cv.Null {
				continue
			}
			if err := copyCell(dest, destRow, name, cv); err != nil {
				return err
			}
		}
		for col, v := range computed {
			if err := setCellFromValue(dest, destRow, col, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func sharedColumns(src, dest *table.Table) []string {
	var out []string
	for _, c := range src.Columns() {
		if dest.ColumnIndex(c.Name) >= 0 {
			out = append(out, c.Name)
		}
	}
	return out
}

func copyCell(t *table.Table, row int, col string, cv table.CellView) error {
	switch cv.Type {
	case table.ColInt64:
		return t.SetInt64(row, col, cv.Int64)
	case table.ColF64:
		return t.SetF64(row, col, cv.F64)
	case table.ColBool:
		return t.SetBool(row, col, cv.Bool)
	case table.ColStr, table.ColRStr:
		return t.SetStr(row, col, cv.Str)
	case table.ColBinary:
		return t.SetBinary(row, col, cv.Binary)
	case table.ColPair:
		return t.SetPair(row, col, cv.Pair)
	default:
		return nil
	}
}

func setCellFromValue(t *table.Table, row int, col string, v value.Value) error {
	idx := t.ColumnIndex(col)
	if idx < 0 {
		return fmt.Errorf("exprlang: unknown destination column %q", col)
	}
	switch t.Columns()[idx].Type {
	case table.ColInt64:
		return t.SetInt64(row, col, v.AsInt64())
	case table.ColF64:
		return t.SetF64(row, col, v.AsF64())
	case table.ColBool:
		return t.SetBool(row, col, v.AsBool())
	case table.ColStr, table.ColRStr:
		return t.SetStr(row, col, v.AsString())
	default:
		return fmt.Errorf("exprlang: cannot set column %q of type %s from an expression result", col, t.Columns()[idx].Type)
	}
}
