// Package pivot reshapes (row, column, value) triples into week-indexed
// tables with one column per category. Absent cells read as zero.
package pivot

import (
	"slices"
)

// Triple is one long-form observation.
type Triple struct {
	Row    int
	Column string
	Value  float64
}

// Table is the wide form of a set of triples. Rows and Columns fix the
// output order.
type Table struct {
	Rows    []int
	Columns []string
	cells   map[int]map[string]float64
}

// Build pivots triples into a table. A nil rows slice uses the sorted
// distinct row keys of the triples, a nil columns slice the sorted distinct
// column keys. Triples sharing a cell are summed; triples outside the given
// rows or columns are ignored.
func Build(triples []Triple, rows []int, columns []string) Table {
	if rows == nil {
		rows = distinctRows(triples)
	}
	if columns == nil {
		columns = distinctColumns(triples)
	}
	t := Table{
		Rows:    slices.Clone(rows),
		Columns: slices.Clone(columns),
		cells:   make(map[int]map[string]float64, len(rows)),
	}
	for _, r := range t.Rows {
		t.cells[r] = make(map[string]float64, len(columns))
	}
	for _, tr := range triples {
		row, ok := t.cells[tr.Row]
		if !ok || !slices.Contains(t.Columns, tr.Column) {
			continue
		}
		row[tr.Column] += tr.Value
	}
	return t
}

// Span returns the contiguous keys first..last; it is empty, not nil, when
// last < first so Build keeps the table empty.
func Span(first, last int) []int {
	out := make([]int, 0, max(last-first+1, 0))
	for r := first; r <= last; r++ {
		out = append(out, r)
	}
	return out
}

// Value returns one cell, 0 when absent.
func (t Table) Value(row int, column string) float64 {
	return t.cells[row][column]
}

// Column returns the values of one column in row order.
func (t Table) Column(column string) []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = t.Value(r, column)
	}
	return out
}

// Cumulative replaces every column with its running sum in row order.
func (t Table) Cumulative() Table {
	triples := make([]Triple, 0, len(t.Rows)*len(t.Columns))
	for _, c := range t.Columns {
		running := 0.0
		for _, r := range t.Rows {
			running += t.Value(r, c)
			triples = append(triples, Triple{Row: r, Column: c, Value: running})
		}
	}
	return Build(triples, t.Rows, t.Columns)
}

// RowTotals returns the sum of every column for each row, in row order.
func (t Table) RowTotals() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		for _, c := range t.Columns {
			out[i] += t.Value(r, c)
		}
	}
	return out
}

// Triples returns the table in long form, row-major.
func (t Table) Triples() []Triple {
	out := make([]Triple, 0, len(t.Rows)*len(t.Columns))
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			out = append(out, Triple{Row: r, Column: c, Value: t.Value(r, c)})
		}
	}
	return out
}

func distinctRows(triples []Triple) []int {
	rows := make([]int, 0, len(triples))
	for _, tr := range triples {
		rows = append(rows, tr.Row)
	}
	slices.Sort(rows)
	return slices.Compact(rows)
}

func distinctColumns(triples []Triple) []string {
	cols := make([]string, 0, len(triples))
	for _, tr := range triples {
		cols = append(cols, tr.Column)
	}
	slices.Sort(cols)
	return slices.Compact(cols)
}
