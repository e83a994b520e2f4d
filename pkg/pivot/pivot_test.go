package pivot

import (
	"slices"
	"testing"
)

func TestBuild_DerivedKeys(t *testing.T) {
	tbl := Build([]Triple{
		{Row: 2, Column: "b", Value: 1},
		{Row: 1, Column: "a", Value: 3},
		{Row: 2, Column: "a", Value: 4},
		{Row: 2, Column: "a", Value: 1},
	}, nil, nil)

	if !slices.Equal(tbl.Rows, []int{1, 2}) {
		t.Fatalf("rows = %v", tbl.Rows)
	}
	if !slices.Equal(tbl.Columns, []string{"a", "b"}) {
		t.Fatalf("columns = %v", tbl.Columns)
	}
	if got := tbl.Value(2, "a"); got != 5 {
		t.Fatalf("duplicate cells should sum, got %v", got)
	}
	if got := tbl.Value(1, "b"); got != 0 {
		t.Fatalf("absent cell should be 0, got %v", got)
	}
}

func TestBuild_FixedKeysZeroFill(t *testing.T) {
	tbl := Build([]Triple{
		{Row: 3, Column: "x", Value: 2},
		{Row: 9, Column: "x", Value: 5}, // outside rows
		{Row: 1, Column: "z", Value: 5}, // outside columns
	}, Span(1, 4), []string{"y", "x"})

	if !slices.Equal(tbl.Rows, []int{1, 2, 3, 4}) {
		t.Fatalf("rows = %v", tbl.Rows)
	}
	if !slices.Equal(tbl.Columns, []string{"y", "x"}) {
		t.Fatalf("columns should keep given order, got %v", tbl.Columns)
	}
	if !slices.Equal(tbl.Column("x"), []float64{0, 0, 2, 0}) {
		t.Fatalf("column x = %v", tbl.Column("x"))
	}
	if !slices.Equal(tbl.Column("y"), []float64{0, 0, 0, 0}) {
		t.Fatalf("column y = %v", tbl.Column("y"))
	}
}

func TestBuild_DoesNotAliasInputs(t *testing.T) {
	rows := []int{1, 2}
	cols := []string{"a"}
	tbl := Build(nil, rows, cols)
	rows[0] = 99
	cols[0] = "changed"
	if tbl.Rows[0] != 1 || tbl.Columns[0] != "a" {
		t.Fatalf("table aliases caller slices: %v %v", tbl.Rows, tbl.Columns)
	}
}

func TestSpan(t *testing.T) {
	if got := Span(1, 3); !slices.Equal(got, []int{1, 2, 3}) {
		t.Fatalf("Span(1,3) = %v", got)
	}
	if got := Span(1, 0); got == nil || len(got) != 0 {
		t.Fatalf("Span(1,0) = %v, want empty", got)
	}
	if tbl := Build([]Triple{{Row: 1, Column: "a", Value: 1}}, Span(1, 0), nil); len(tbl.Rows) != 0 {
		t.Fatalf("empty span should give no rows, got %v", tbl.Rows)
	}
}

func TestCumulativeAndTotal(t *testing.T) {
	tbl := Build([]Triple{
		{Row: 1, Column: "MEEN 210", Value: 2},
		{Row: 2, Column: "MEEN 210", Value: 3},
		{Row: 3, Column: "MEEN 210", Value: 5},
		{Row: 2, Column: "MEEN 402", Value: 1},
	}, Span(1, 3), nil)

	cum := tbl.Cumulative()

	if got := cum.Column("MEEN 210"); !slices.Equal(got, []float64{2, 5, 10}) {
		t.Fatalf("cumulative MEEN 210 = %v", got)
	}
	if got := cum.Column("MEEN 402"); !slices.Equal(got, []float64{0, 1, 1}) {
		t.Fatalf("cumulative MEEN 402 = %v", got)
	}
	if got := cum.RowTotals(); !slices.Equal(got, []float64{2, 6, 11}) {
		t.Fatalf("row totals = %v", got)
	}
	if !slices.Equal(cum.Columns, []string{"MEEN 210", "MEEN 402"}) {
		t.Fatalf("columns = %v", cum.Columns)
	}
	// the source table is unchanged
	if got := tbl.Column("MEEN 210"); !slices.Equal(got, []float64{2, 3, 5}) {
		t.Fatalf("source mutated: %v", got)
	}
}

func TestTriples(t *testing.T) {
	tbl := Build([]Triple{{Row: 1, Column: "a", Value: 1}}, Span(1, 2), []string{"a"})
	got := tbl.Triples()
	want := []Triple{{Row: 1, Column: "a", Value: 1}, {Row: 2, Column: "a", Value: 0}}
	if !slices.Equal(got, want) {
		t.Fatalf("triples = %v, want %v", got, want)
	}
}
