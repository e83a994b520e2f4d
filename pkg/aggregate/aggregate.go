package aggregate

import (
	"fab-weekly/pkg/models"
	"fab-weekly/pkg/pivot"
)

// OrdersPerWeek counts records by semester week: one row per week from 1 to
// the latest week seen, one column per semester tag.
func OrdersPerWeek(records []models.ClassifiedRecord, tags []string) pivot.Table {
	triples := make([]pivot.Triple, 0, len(records))
	for _, r := range records {
		triples = append(triples, pivot.Triple{Row: r.Week, Column: r.Semester, Value: 1})
	}
	return pivot.Build(triples, pivot.Span(1, maxWeek(records)), tags)
}

type courseWeek struct {
	course string
	week   int
}

// OrdersPerCourse counts each course's orders per semester week and averages
// the counts over the semesters in which the course had orders that week.
// Records without a course are skipped.
func OrdersPerCourse(records []models.ClassifiedRecord) pivot.Table {
	counts := make(map[courseWeek]map[string]int)
	last := 0
	for _, r := range records {
		if r.Course == "" {
			continue
		}
		key := courseWeek{course: r.Course, week: r.Week}
		if counts[key] == nil {
			counts[key] = make(map[string]int)
		}
		counts[key][r.Semester]++
		last = max(last, r.Week)
	}

	triples := make([]pivot.Triple, 0, len(counts))
	for key, bySemester := range counts {
		total := 0
		for _, n := range bySemester {
			total += n
		}
		triples = append(triples, pivot.Triple{
			Row:    key.week,
			Column: key.course,
			Value:  float64(total) / float64(len(bySemester)),
		})
	}
	return pivot.Build(triples, pivot.Span(1, last), nil)
}

// MassPerCourse sums kilograms by course and week for one semester, over
// weeks 1..weeks.
func MassPerCourse(records []models.ClassifiedRecord, tag string, weeks int) pivot.Table {
	triples := make([]pivot.Triple, 0, len(records))
	for _, r := range records {
		if r.Semester != tag || r.Course == "" {
			continue
		}
		triples = append(triples, pivot.Triple{Row: r.Week, Column: r.Course, Value: r.MassKg})
	}
	return pivot.Build(triples, pivot.Span(1, weeks), nil)
}

func maxWeek(records []models.ClassifiedRecord) int {
	last := 0
	for _, r := range records {
		last = max(last, r.Week)
	}
	return last
}
