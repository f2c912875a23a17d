package cashbook

import (
	"time"
)

// Period selects the aggregation window of a cash statement
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

// IsValid checks if the period is a known aggregation window
func (p Period) IsValid() bool {
	switch p {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return true
	}
	return false
}

// ParsePeriod maps a query string to a Period. Empty and unrecognized
// selectors fall back to the all-time window.
func ParsePeriod(s string) Period {
	p := Period(s)
	if !p.IsValid() {
		return PeriodAll
	}
	return p
}

// Boundary returns the inclusive lower bound of the period relative to
// now, in now's location. The second return is false for the all-time
// window, which has no bound.
//
// The week boundary is the most recent Monday at midnight; on a Monday
// that is the same day.
func (p Period) Boundary(now time.Time) (time.Time, bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch p {
	case PeriodToday:
		return midnight, true
	case PeriodWeek:
		offset := (int(now.Weekday()) + 6) % 7
		return midnight.AddDate(0, 0, -offset), true
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case PeriodYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}
