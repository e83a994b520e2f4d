package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fab-weekly/pkg/apperr"
	"fab-weekly/pkg/models"
)

// boundaryLayout accepts non-padded month and day ("2024-05-5").
const boundaryLayout = "2006-1-2"

const day = 24 * time.Hour

// ErrUnknownSemester is returned when a record carries a tag that no
// configured window has. Normalized records never do.
var ErrUnknownSemester = errors.New("semester tag matches no window")

// Window is an inclusive date range labelled with a semester tag.
type Window struct {
	Start time.Time
	End   time.Time
	Tag   string
}

// Windows is checked in configured order; the first match wins.
type Windows []Window

// ParseWindows validates configured semester windows. Any bad boundary makes
// the whole set unusable.
func ParseWindows(specs []models.SemesterSpec) (Windows, error) {
	if len(specs) == 0 {
		return nil, apperr.Config("no semester windows configured")
	}
	seen := make(map[string]bool, len(specs))
	out := make(Windows, 0, len(specs))
	for i, s := range specs {
		tag := strings.TrimSpace(s.Tag)
		if tag == "" {
			return nil, apperr.Config(fmt.Sprintf("semester %d: empty tag", i+1))
		}
		if seen[tag] {
			return nil, apperr.Config(fmt.Sprintf("semester %s: duplicate tag", tag))
		}
		seen[tag] = true

		start, err := time.Parse(boundaryLayout, strings.TrimSpace(s.Start))
		if err != nil {
			return nil, apperr.ConfigWrap(err, fmt.Sprintf("semester %s: invalid start date %q", tag, s.Start))
		}
		end, err := time.Parse(boundaryLayout, strings.TrimSpace(s.End))
		if err != nil {
			return nil, apperr.ConfigWrap(err, fmt.Sprintf("semester %s: invalid end date %q", tag, s.End))
		}
		if end.Before(start) {
			return nil, apperr.Config(fmt.Sprintf("semester %s: end %s before start %s", tag, s.End, s.Start))
		}
		out = append(out, Window{Start: start, End: end, Tag: tag})
	}
	return out, nil
}

// Contains reports whether d falls inside the window, bounds included.
func (w Window) Contains(d time.Time) bool {
	d = DateOnly(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// WeekOf returns the 1-based week of d counted from Start. Dates before
// Start give 0 or less.
func (w Window) WeekOf(d time.Time) int {
	days := daysBetween(w.Start, DateOnly(d))
	if days < 0 {
		return 0
	}
	return days/7 + 1
}

// Weeks is the week number of the window's last day.
func (w Window) Weeks() int {
	return w.WeekOf(w.End)
}

// Classify maps a date to its week and semester tag.
func (ws Windows) Classify(d time.Time) (week int, tag string, ok bool) {
	for _, w := range ws {
		if w.Contains(d) {
			return w.WeekOf(d), w.Tag, true
		}
	}
	return 0, "", false
}

// Lookup returns the window labelled tag.
func (ws Windows) Lookup(tag string) (Window, bool) {
	for _, w := range ws {
		if w.Tag == tag {
			return w, true
		}
	}
	return Window{}, false
}

// Tags lists the semester tags in configured order.
func (ws Windows) Tags() []string {
	tags := make([]string, len(ws))
	for i, w := range ws {
		tags[i] = w.Tag
	}
	return tags
}

// Eligible tells whether a record in the given week of semester tag may be
// reported as of today. Records of a semester still in progress are kept up
// to the current week; finished semesters keep everything.
func (ws Windows) Eligible(tag string, week int, today time.Time) (bool, error) {
	w, ok := ws.Lookup(tag)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownSemester, tag)
	}
	today = DateOnly(today)
	if !today.Before(w.End) {
		return true, nil
	}
	return week <= w.WeekOf(today), nil
}

// Weeks is the number of weeks in the window of tag, 0 for an unknown tag.
func (ws Windows) Weeks(tag string) int {
	w, ok := ws.Lookup(tag)
	if !ok {
		return 0
	}
	return w.Weeks()
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(DateOnly(to).Sub(DateOnly(from)) / day)
}

var dateLayouts = []string{
	"1/2/2006",
	"2006-1-2",
	"2006/1/2",
	"1-2-2006",
}

// ParseDate parses the date part of a sheet timestamp such as
// "8/15/2023 11:11:28".
func ParseDate(timestamp string) (time.Time, error) {
	fields := strings.Fields(timestamp)
	if len(fields) == 0 {
		return time.Time{}, errors.New("empty timestamp")
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, fields[0]); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported date format: %s", fields[0])
}
