package cumulative

import (
	"fab-weekly/pkg/pivot"
)

const totalPrefix = "Total_"

// SemesterTable is one semester's per-course weekly mass.
type SemesterTable struct {
	Tag   string
	Table pivot.Table
}

// TotalColumn names the merged column of a semester.
func TotalColumn(tag string) string {
	return totalPrefix + tag
}

// Running turns a per-course weekly table into running sums per course.
func Running(t pivot.Table) pivot.Table {
	return t.Cumulative()
}

// Totals sums the running course columns of t, one value per week in row
// order. It is kept apart from the course columns so any course name is safe.
func Totals(t pivot.Table) []float64 {
	return Running(t).RowTotals()
}

// Combine outer-joins the running totals of each semester on week. Only the
// Total_<tag> columns are kept; a week missing from a semester reads 0.
func Combine(semesters []SemesterTable) pivot.Table {
	var triples []pivot.Triple
	columns := make([]string, 0, len(semesters))
	for _, s := range semesters {
		col := TotalColumn(s.Tag)
		columns = append(columns, col)
		for i, total := range Totals(s.Table) {
			triples = append(triples, pivot.Triple{
				Row:    s.Table.Rows[i],
				Column: col,
				Value:  total,
			})
		}
	}
	return pivot.Build(triples, nil, columns)
}
