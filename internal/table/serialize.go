package table

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Serialisation (§4.8): a table round-trips to/from a byte buffer with
// separable "columns" and "body" sections, plus a "reference" section for
// RStr columns' interned pool. The body is LZ4-compressed exactly as
// indexer.Sorter compresses its spill chunks — a streaming lz4.Writer/Reader
// wrapping a buffered writer, never the whole-buffer block API.
//
// Section order on the wire is not significant: Deserialize reads a leading
// section tag before each chunk and accepts "columns" and "body" (and,
// when present, "reference") in either order, per §4.8's explicit
// round-trip requirement.
const (
	sectionColumns   = "COLS"
	sectionBody      = "BODY"
	sectionReference = "REFS"
)

// Serialize writes t to w: a columns section (name/type/width), a body
// section (row count, then length-prefixed cells in column order,
// LZ4-compressed), and a reference section (the RStr intern pool).
func Serialize(w io.Writer, t *Table) error {
	if err := writeSection(w, sectionColumns, func(bw *bufio.Writer) error {
		return writeColumns(bw, t.columns)
	}); err != nil {
		return err
	}
	if err := writeSection(w, sectionReference, func(bw *bufio.Writer) error {
		return writeReference(bw, t.intern)
	}); err != nil {
		return err
	}
	return writeSection(w, sectionBody, func(bw *bufio.Writer) error {
		return writeBody(bw, t)
	})
}

func writeSection(w io.Writer, tag string, fn func(*bufio.Writer) error) error {
	if _, err := io.WriteString(w, tag); err != nil {
		return fmt.Errorf("table: writing section tag %q: %w", tag, err)
	}
	var buf bytes.Buffer
	lzWriter := lz4.NewWriter(&buf)
	bw := bufio.NewWriter(lzWriter)
	if err := fn(bw); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("table: flushing section %q: %w", tag, err)
	}
	if err := lzWriter.Close(); err != nil {
		return fmt.Errorf("table: closing lz4 writer for section %q: %w", tag, err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(buf.Len())); err != nil {
		return fmt.Errorf("table: writing section %q length: %w", tag, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("table: writing section %q body: %w", tag, err)
	}
	return nil
}

func writeColumns(bw *bufio.Writer, cols []Column) error {
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(cols))); err != nil {
		return err
	}
	for _, c := range cols {
		if err := writeString(bw, c.Name); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint8(c.Type)); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, int32(c.Width)); err != nil {
			return err
		}
	}
	return nil
}

func writeReference(bw *bufio.Writer, intern map[string]string) error {
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(intern))); err != nil {
		return err
	}
	for canon := range intern {
		if err := writeString(bw, canon); err != nil {
			return err
		}
	}
	return nil
}

func writeBody(bw *bufio.Writer, t *Table) error {
	if err := binary.Write(bw, binary.LittleEndian, uint64(len(t.rows))); err != nil {
		return err
	}
	for r := range t.rows {
		for c, col := range t.columns {
			isNull := t.null[r][c]
			if err := bw.WriteByte(boolByte(isNull)); err != nil {
				return err
			}
			if isNull {
				continue
			}
			cl := t.rows[r][c]
			if err := writeCell(bw, col.Type, cl); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCell(bw *bufio.Writer, typ ColumnType, cl cell) error {
	switch typ {
	case ColInt64:
		return binary.Write(bw, binary.LittleEndian, cl.i)
	case ColF64:
		return binary.Write(bw, binary.LittleEndian, cl.f)
	case ColBool:
		return bw.WriteByte(boolByte(cl.b))
	case ColStr, ColRStr:
		return writeString(bw, cl.s)
	case ColBinary:
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(cl.bin))); err != nil {
			return err
		}
		_, err := bw.Write(cl.bin)
		return err
	case ColPair:
		if err := binary.Write(bw, binary.LittleEndian, cl.pair.A); err != nil {
			return err
		}
		return binary.Write(bw, binary.LittleEndian, cl.pair.B)
	case ColNullptr:
		return nil
	default:
		return fmt.Errorf("table: cannot serialize column type %v", typ)
	}
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// Deserialize reads a Table previously written by Serialize. Every section
// is first decompressed into memory keyed by its leading tag, so "columns",
// "reference" and "body" may appear in either order on the wire; they are
// then interpreted in the fixed logical order columns -> reference -> body,
// since the body's cell layout depends on knowing each column's type.
func Deserialize(r io.Reader) (*Table, error) {
	sections := make(map[string][]byte)
	for {
		tag := make([]byte, 4)
		_, err := io.ReadFull(r, tag)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("table: reading section tag: %w", err)
		}
		var length uint64
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("table: reading section length: %w", err)
		}
		compressed := make([]byte, length)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, fmt.Errorf("table: reading section %q body: %w", tag, err)
		}
		raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(compressed)))
		if err != nil {
			return nil, fmt.Errorf("table: decompressing section %q: %w", tag, err)
		}
		sections[string(tag)] = raw
	}

	colsRaw, ok := sections[sectionColumns]
	if !ok {
		return nil, fmt.Errorf("table: missing %q section", sectionColumns)
	}
	cols, err := readColumns(bufio.NewReader(bytes.NewReader(colsRaw)))
	if err != nil {
		return nil, err
	}

	t := New(cols)
	if refRaw, ok := sections[sectionReference]; ok {
		m, err := readReference(bufio.NewReader(bytes.NewReader(refRaw)))
		if err != nil {
			return nil, err
		}
		t.intern = m
	}

	if bodyRaw, ok := sections[sectionBody]; ok {
		if err := readBody(bufio.NewReader(bytes.NewReader(bodyRaw)), t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func readColumns(br *bufio.Reader) ([]Column, error) {
	var n uint32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	out := make([]Column, n)
	for i := range out {
		name, err := readString(br)
		if err != nil {
			return nil, err
		}
		var typ uint8
		if err := binary.Read(br, binary.LittleEndian, &typ); err != nil {
			return nil, err
		}
		var width int32
		if err := binary.Read(br, binary.LittleEndian, &width); err != nil {
			return nil, err
		}
		out[i] = Column{Name: name, Type: ColumnType(typ), Width: int(width)}
	}
	return out, nil
}

func readReference(br *bufio.Reader) (map[string]string, error) {
	var n uint32
	if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	out := make(map[string]string, n)
	for i := uint32(0); i < n; i++ {
		s, err := readString(br)
		if err != nil {
			return nil, err
		}
		out[s] = s
	}
	return out, nil
}

// readBody parses the body section directly into t, whose column schema
// must already be populated (columns are read before the body, regardless
// of their order on the wire; see Deserialize).
func readBody(br *bufio.Reader, t *Table) error {
	var rowCount uint64
	if err := binary.Read(br, binary.LittleEndian, &rowCount); err != nil {
		return err
	}
	for r := uint64(0); r < rowCount; r++ {
		row := t.RowAdd()
		for c, col := range t.columns {
			isNull, err := br.ReadByte()
			if err != nil {
				return fmt.Errorf("table: reading null flag at row %d col %d: %w", row, c, err)
			}
			if isNull != 0 {
				continue
			}
			if err := readCellInto(br, t, row, c, col.Type); err != nil {
				return fmt.Errorf("table: reading cell at row %d col %d: %w", row, c, err)
			}
		}
	}
	return nil
}

func readCellInto(br *bufio.Reader, t *Table, row, c int, typ ColumnType) error {
	switch typ {
	case ColInt64:
		var v int64
		if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
			return err
		}
		return t.SetInt64(row, c, v)
	case ColF64:
		var v float64
		if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
			return err
		}
		return t.SetF64(row, c, v)
	case ColBool:
		b, err := br.ReadByte()
		if err != nil {
			return err
		}
		return t.SetBool(row, c, b != 0)
	case ColStr, ColRStr:
		s, err := readString(br)
		if err != nil {
			return err
		}
		return t.SetStr(row, c, s)
	case ColBinary:
		var n uint32
		if err := binary.Read(br, binary.LittleEndian, &n); err != nil {
			return err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(br, buf); err != nil {
			return err
		}
		return t.SetBinary(row, c, buf)
	case ColPair:
		var p Pair
		if err := binary.Read(br, binary.LittleEndian, &p.A); err != nil {
			return err
		}
		if err := binary.Read(br, binary.LittleEndian, &p.B); err != nil {
			return err
		}
		return t.SetPair(row, c, p)
	case ColNullptr:
		return nil
	default:
		return fmt.Errorf("table: cannot deserialize column type %v", typ)
	}
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

