package calculator

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"fab-weekly/pkg/aggregate"
	"fab-weekly/pkg/calendar"
	"fab-weekly/pkg/cumulative"
	"fab-weekly/pkg/massjoin"
	"fab-weekly/pkg/models"
	"fab-weekly/pkg/normalize"
	"fab-weekly/pkg/pivot"
	"fab-weekly/pkg/report"
	"fab-weekly/pkg/sheets"
)

const (
	OrdersPerWeekFile   = "orders_per_week.csv"
	OrdersPerCourseFile = "orders_per_course.csv"
	MassUpToWeekFile    = "semester_mass_upto_week.csv"
)

func MassPerCourseFile(tag string) string {
	return fmt.Sprintf("mass_per_course_%s.csv", tag)
}

// Reports holds every output table of a run.
type Reports struct {
	OrdersPerWeek   pivot.Table
	OrdersPerCourse pivot.Table
	MassPerCourse   []cumulative.SemesterTable
	MassUpToWeek    pivot.Table
	Join            massjoin.Stats
}

// Files lists the reports in the order they are written.
func (r *Reports) Files() []report.File {
	files := []report.File{
		{Name: OrdersPerWeekFile, Table: r.OrdersPerWeek, Format: report.Integer},
		{Name: OrdersPerCourseFile, Table: r.OrdersPerCourse, Format: report.Float},
	}
	for _, s := range r.MassPerCourse {
		files = append(files, report.File{Name: MassPerCourseFile(s.Tag), Table: s.Table, Format: report.Float})
	}
	return append(files, report.File{Name: MassUpToWeekFile, Table: r.MassUpToWeek, Format: report.Float})
}

const stages = 3

// Run fetches the sheets through client and builds every report. Nothing is
// written; a failing fetch aborts the whole run.
func Run(ctx context.Context, client *sheets.Client, windows calendar.Windows, cfg models.Config, logger *slog.Logger) (*Reports, error) {
	if logger == nil {
		logger = slog.Default()
	}
	today := calendar.DateOnly(cfg.Today)
	bar := newBar(cfg.Progress)
	r := &Reports{}

	// Orders per week
	stamps, err := client.FetchTimestamps(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders per week: %w", err)
	}
	records := classify(stamps, windows, today, logger.With("report", "orders_per_week"))
	r.OrdersPerWeek = aggregate.OrdersPerWeek(records, windows.Tags())
	_ = bar.Add(1)

	// Orders per course, averaged over semesters
	courseRows, err := client.FetchTimeCourseRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("orders per course: %w", err)
	}
	records = classify(courseRows, windows, today, logger.With("report", "orders_per_course"))
	r.OrdersPerCourse = aggregate.OrdersPerCourse(records)
	_ = bar.Add(1)

	// Mass per course and cumulative mass
	massRows, stats, err := client.FetchCompletedPrintBatchesWithCourse(ctx)
	if err != nil {
		return nil, fmt.Errorf("mass per course: %w", err)
	}
	r.Join = stats
	records = classify(massRows, windows, today, logger.With("report", "mass_per_course"))
	for _, tag := range windows.Tags() {
		r.MassPerCourse = append(r.MassPerCourse, cumulative.SemesterTable{
			Tag:   tag,
			Table: aggregate.MassPerCourse(records, tag, windows.Weeks(tag)),
		})
	}
	r.MassUpToWeek = cumulative.Combine(r.MassPerCourse)
	_ = bar.Add(1)

	return r, nil
}

func classify(raw []models.OrderRecord, windows calendar.Windows, today time.Time, logger *slog.Logger) []models.ClassifiedRecord {
	res := normalize.Normalize(raw, windows)
	kept, anomalies := normalize.FilterFuture(res.Records, windows, today)
	if anomalies > 0 {
		logger.Error("classified records carry an unknown semester tag; excluded", "count", anomalies)
	}
	logger.Info("classified records",
		"fetched", len(raw),
		"classified", len(res.Records),
		"unparsed", res.Unparsed,
		"outside_semesters", res.Unmatched,
		"future_weeks", len(res.Records)-len(kept)-anomalies,
		"kept", len(kept),
	)
	return kept
}

func newBar(enabled bool) *progressbar.ProgressBar {
	var w io.Writer = io.Discard
	if enabled {
		w = os.Stderr
	}
	return progressbar.NewOptions(stages,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("building reports"),
	)
}
