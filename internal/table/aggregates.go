package table

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Range resolves a (begin, count) window against the table's current row
// count; count < 0 means "through the last row" (the full-range overload).
func (t *Table) Range(begin, count int) (int, int) {
	n := len(t.rows)
	if begin < 0 {
		begin = 0
	}
	if begin > n {
		begin = n
	}
	end := n
	if count >= 0 && begin+count < n {
		end = begin + count
	}
	return begin, end
}

func (t *Table) numericValues(col any, begin, count int) ([]float64, int, error) {
	c, err := t.resolve(col)
	if err != nil {
		return nil, 0, err
	}
	b, e := t.Range(begin, count)
	var out []float64
	nullCount := 0
	for r := b; r < e; r++ {
		if t.null[r][c] {
			nullCount++
			continue
		}
		v, _ := t.CellGet(r, c)
		out = append(out, v.AsF64())
	}
	return out, nullCount, nil
}

// Min returns the smallest value in column col over [begin, begin+count).
func (t *Table) Min(col any, begin, count int) (float64, error) {
	vals, _, err := t.numericValues(col, begin, count)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, nil
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m, nil
}

// Max returns the largest value in column col over [begin, begin+count).
func (t *Table) Max(col any, begin, count int) (float64, error) {
	vals, _, err := t.numericValues(col, begin, count)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, nil
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m, nil
}

// Sum totals column col over [begin, begin+count).
func (t *Table) Sum(col any, begin, count int) (float64, error) {
	vals, _, err := t.numericValues(col, begin, count)
	if err != nil {
		return 0, err
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s, nil
}

// Average is Sum divided by the number of non-null cells.
func (t *Table) Average(col any, begin, count int) (float64, error) {
	vals, _, err := t.numericValues(col, begin, count)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, nil
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals)), nil
}

// Count returns the number of rows in [begin, begin+count) regardless of
// null state.
func (t *Table) Count(begin, count int) int {
	b, e := t.Range(begin, count)
	return e - b
}

// CountNotNull returns the number of non-null cells in col.
func (t *Table) CountNotNull(col any, begin, count int) (int, error) {
	return t.numericOrStringCount(col, begin, count)
}

func (t *Table) numericOrStringCount(col any, begin, count int) (int, error) {
	c, err := t.resolve(col)
	if err != nil {
		return 0, err
	}
	b, e := t.Range(begin, count)
	n := 0
	for r := b; r < e; r++ {
		if !t.null[r][c] {
			n++
		}
	}
	return n, nil
}

// CountNull returns the number of null cells in col.
func (t *Table) CountNull(col any, begin, count int) (int, error) {
	c, err := t.resolve(col)
	if err != nil {
		return 0, err
	}
	b, e := t.Range(begin, count)
	n := 0
	for r := b; r < e; r++ {
		if t.null[r][c] {
			n++
		}
	}
	return n, nil
}

// textOf renders the cell at (r, c) as a comparable string key, used by the
// unique/count_unique family regardless of column type.
func (t *Table) textOf(r, c int) string {
	if t.null[r][c] {
		return "\x00null"
	}
	v, _ := t.CellGet(r, c)
	switch v.Type {
	case ColStr, ColRStr:
		return v.Str
	case ColBinary:
		return string(v.Binary)
	default:
		return v.asTextFallback()
	}
}

func (v CellView) asTextFallback() string {
	switch v.Type {
	case ColInt64:
		return itoa(v.Int64)
	case ColF64:
		return ftoa(v.F64)
	case ColBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Unique returns the distinct textual values present in col over the range,
// in first-seen order (§4.8's "unique -> sequence").
func (t *Table) Unique(col any, begin, count int) ([]string, error) {
	c, err := t.resolve(col)
	if err != nil {
		return nil, err
	}
	b, e := t.Range(begin, count)
	seen := make(map[string]bool)
	var out []string
	for r := b; r < e; r++ {
		key := t.textOf(r, c)
		if !seen[key] {
			seen[key] = true
			out = append(out, key)
		}
	}
	return out, nil
}

// CountUnique is len(Unique(...)).
func (t *Table) CountUnique(col any, begin, count int) (int, error) {
	u, err := t.Unique(col, begin, count)
	if err != nil {
		return 0, err
	}
	return len(u), nil
}

// Variance is the population variance of col's non-null numeric cells.
func (t *Table) Variance(col any, begin, count int) (float64, error) {
	vals, _, err := t.numericValues(col, begin, count)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, nil
	}
	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(vals)), nil
}

// StdDeviation is sqrt(Variance(...)).
func (t *Table) StdDeviation(col any, begin, count int) (float64, error) {
	v, err := t.Variance(col, begin, count)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// Median is Percentile(col, 50, begin, count).
func (t *Table) Median(col any, begin, count int) (float64, error) {
	return t.Percentile(col, 50, begin, count)
}

// Percentile returns the p-th percentile (0<=p<=100) of col's non-null
// values via linear interpolation between closest ranks.
func (t *Table) Percentile(col any, p float64, begin, count int) (float64, error) {
	vals, _, err := t.numericValues(col, begin, count)
	if err != nil {
		return 0, err
	}
	if len(vals) == 0 {
		return 0, nil
	}
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0], nil
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac, nil
}

// CountContains counts the rows in col whose text representation contains
// substr.
func (t *Table) CountContains(col any, substr string, begin, count int) (int, error) {
	c, err := t.resolve(col)
	if err != nil {
		return 0, err
	}
	b, e := t.Range(begin, count)
	n := 0
	for r := b; r < e; r++ {
		if t.null[r][c] {
			continue
		}
		if strings.Contains(t.textOf(r, c), substr) {
			n++
		}
	}
	return n, nil
}

// MaxLengths returns, per column, the longest textual representation found
// across all rows (plain variant: the whole cell's length).
func (t *Table) MaxLengths() []int {
	out := make([]int, len(t.columns))
	for r := range t.rows {
		for c := range t.columns {
			if t.null[r][c] {
				continue
			}
			l := len(t.textOf(r, c))
			if l > out[c] {
				out[c] = l
			}
		}
	}
	return out
}

// MaxLengthsText is the text-aware variant (§4.8): for Str/RStr columns the
// measured length is that of the cell's *longest line* (split on '\n'), not
// its total byte length — used to size table-formatted output so an
// embedded newline in a matched source line does not blow out the column
// width.
func (t *Table) MaxLengthsText() []int {
	out := make([]int, len(t.columns))
	for r := range t.rows {
		for c := range t.columns {
			if t.null[r][c] {
				continue
			}
			v, _ := t.CellGet(r, c)
			var l int
			switch v.Type {
			case ColStr, ColRStr:
				l = longestLine(v.Str)
			default:
				l = len(t.textOf(r, c))
			}
			if l > out[c] {
				out[c] = l
			}
		}
	}
	return out
}

func longestLine(s string) int {
	max := 0
	for _, line := range strings.Split(s, "\n") {
		if len(line) > max {
			max = len(line)
		}
	}
	return max
}

// AppendSumRow appends a terminal row holding column-wise sums for cols,
// leaving every other column null (§4.8's "Sum-row append").
func (t *Table) AppendSumRow(cols []any) (int, error) {
	row := t.RowAdd()
	for _, col := range cols {
		s, err := t.Sum(col, 0, -1)
		if err != nil {
			return row, err
		}
		c, _ := t.resolve(col)
		switch t.columns[c].Type {
		case ColInt64:
			if err := t.SetInt64(row, col, int64(s)); err != nil {
				return row, err
			}
		default:
			if err := t.SetF64(row, col, s); err != nil {
				return row, err
			}
		}
	}
	return row, nil
}

// PruneZeroRows erases every row whose selected columns are all zero
// (§4.8's "Zero-row prune") and compacts the remaining rows.
func (t *Table) PruneZeroRows(cols []any) error {
	idxs := make([]int, len(cols))
	for i, col := range cols {
		c, err := t.resolve(col)
		if err != nil {
			return err
		}
		idxs[i] = c
	}
	keptRows := t.rows[:0:0]
	keptNull := t.null[:0:0]
	for r := range t.rows {
		allZero := true
		for _, c := range idxs {
			if t.null[r][c] {
				continue
			}
			v, _ := t.CellGet(r, c)
			if v.AsF64() != 0 {
				allZero = false
				break
			}
		}
		if !allZero {
			keptRows = append(keptRows, t.rows[r])
			keptNull = append(keptNull, t.null[r])
		}
	}
	t.rows = keptRows
	t.null = keptNull
	return nil
}

// PruneWhere keeps only the rows listed in kept (in any order, e.g. as
// produced by exprlang.FilterRows) and compacts the rest away, using the
// same slice-rebuild shape as PruneZeroRows. This is the ExprLang
// "expression filter" post-processing pass named alongside sum-row append
// and zero-row prune in §2's data flow.
func (t *Table) PruneWhere(kept []int) {
	keepSet := make(map[int]bool, len(kept))
	for _, r := range kept {
		keepSet[r] = true
	}
	keptRows := t.rows[:0:0]
	keptNull := t.null[:0:0]
	for r := range t.rows {
		if keepSet[r] {
			keptRows = append(keptRows, t.rows[r])
			keptNull = append(keptNull, t.null[r])
		}
	}
	t.rows = keptRows
	t.null = keptNull
}

func itoa(i int64) string   { return strconv.FormatInt(i, 10) }
func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
