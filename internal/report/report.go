// Package report renders a table.Table as human- or tool-consumable
// output: an aligned text table, CSV, or the Visual Studio error-list
// flavour (§6 CLI surface: output=<path>, print, table=<name>, vs).
//
// Grounded on original_source/target/TOOLS/FileCleaner/playground/PLAY_table.cpp
// (the table/CSV split this package mirrors) and
// original_source/target/TOOLS/FileCleaner/win/VS_Command.cpp (the
// "file(line,column): message" convention VS's error list parses, supplied
// directly by §6 since VS_Command.cpp itself only plumbs the string into a
// COM automation call this package has no use for).
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/perghosh/filecleaner/internal/table"
)

// WriteTable renders t as an aligned, fixed-width text table: a header row,
// a rule line, then one line per data row. Column widths come from
// table.Table.MaxLengthsText (§4.8's text-aware max), so an embedded
// newline in a matched source line never blows out the column width.
func WriteTable(w io.Writer, t *table.Table) error {
	cols := t.Columns()
	widths := t.MaxLengthsText()
	for i, c := range cols {
		if len(c.Name) > widths[i] {
			widths[i] = len(c.Name)
		}
	}

	if err := writeRow(w, headerCells(cols), widths); err != nil {
		return err
	}
	if err := writeRule(w, widths); err != nil {
		return err
	}
	for r := 0; r < t.RowCount(); r++ {
		cells := make([]string, len(cols))
		for c := range cols {
			cells[c] = cellText(t, r, c)
		}
		if err := writeRow(w, cells, widths); err != nil {
			return err
		}
	}
	return nil
}

func headerCells(cols []table.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

func writeRow(w io.Writer, cells []string, widths []int) error {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = padRight(c, widths[i])
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "  "))
	return err
}

func writeRule(w io.Writer, widths []int) error {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat("-", width)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "  "))
	return err
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func cellText(t *table.Table, row, col int) string {
	v, err := t.CellGet(row, col)
	if err != nil || v.Null {
		return ""
	}
	switch v.Type {
	case table.ColStr, table.ColRStr:
		return v.Str
	case table.ColBinary:
		return fmt.Sprintf("<%d bytes>", len(v.Binary))
	case table.ColInt64:
		return fmt.Sprintf("%d", v.Int64)
	case table.ColF64:
		return fmt.Sprintf("%g", v.F64)
	case table.ColBool:
		return fmt.Sprintf("%t", v.Bool)
	case table.ColPair:
		return fmt.Sprintf("(%d,%d)", v.Pair.A, v.Pair.B)
	default:
		return ""
	}
}

// WriteCSV renders t as RFC 4180 CSV via encoding/csv, header row first.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for r := 0; r < t.RowCount(); r++ {
		record := make([]string, len(cols))
		for c := range cols {
			record[c] = cellText(t, r, c)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteVS renders t in the Visual Studio error-list flavour: one
// "file(line,column): message" line per row. nameCol/rowCol/colCol/msgCol
// select which of t's columns hold the filename, 1-based row, 0-based
// column, and message text respectively — matching the line-list table
// schema of §6 (filename, row, column, pattern).
func WriteVS(w io.Writer, t *table.Table, nameCol, rowCol, colCol, msgCol any) error {
	for r := 0; r < t.RowCount(); r++ {
		name, err := t.CellGet(r, nameCol)
		if err != nil {
			return err
		}
		row, err := t.CellGet(r, rowCol)
		if err != nil {
			return err
		}
		column, err := t.CellGet(r, colCol)
		if err != nil {
			return err
		}
		msg, err := t.CellGet(r, msgCol)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s(%d,%d): %s\n", name.Str, row.Int64, column.Int64, msg.Str); err != nil {
			return err
		}
	}
	return nil
}
