package normalize

import (
	"time"

	"fab-weekly/pkg/calendar"
	"fab-weekly/pkg/models"
)

// Result holds the classified records and how many raw records were dropped.
type Result struct {
	Records   []models.ClassifiedRecord
	Unparsed  int // timestamp had no readable date
	Unmatched int // date outside every semester window
}

// Normalize places every raw record in a semester week. Records that cannot
// be placed are dropped; the input slice is left untouched.
func Normalize(raw []models.OrderRecord, windows calendar.Windows) Result {
	res := Result{Records: make([]models.ClassifiedRecord, 0, len(raw))}
	for _, rec := range raw {
		d, err := calendar.ParseDate(rec.Timestamp)
		if err != nil {
			res.Unparsed++
			continue
		}
		week, tag, ok := windows.Classify(d)
		if !ok {
			res.Unmatched++
			continue
		}
		res.Records = append(res.Records, models.ClassifiedRecord{
			OrderRecord: rec,
			Date:        d,
			Week:        week,
			Semester:    tag,
		})
	}
	return res
}

// FilterFuture drops records from weeks that have not happened yet in a
// semester still in progress. Records with a tag no window knows are dropped
// and counted as anomalies.
func FilterFuture(records []models.ClassifiedRecord, windows calendar.Windows, today time.Time) (kept []models.ClassifiedRecord, anomalies int) {
	kept = make([]models.ClassifiedRecord, 0, len(records))
	for _, rec := range records {
		ok, err := windows.Eligible(rec.Semester, rec.Week, today)
		if err != nil {
			anomalies++
			continue
		}
		if ok {
			kept = append(kept, rec)
		}
	}
	return kept, anomalies
}
