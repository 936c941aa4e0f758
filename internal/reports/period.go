// Package reports implements the analytics aggregation engine: a pure,
// synchronous batch computation that turns raw transactional records into
// derived business reports for a caller-supplied date window.
package reports

import (
	"errors"
	"time"
)

// ErrInvalidRange indicates the requested end date precedes the start date.
var ErrInvalidRange = errors.New("reports: end date before start date")

// Period is an inclusive day-normalized date window.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod normalizes both dates to day boundaries and validates ordering.
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: DayStart(start), End: DayStart(end)}
	if p.End.Before(p.Start) {
		return Period{}, ErrInvalidRange
	}
	return p, nil
}

// Days returns the period length in days, inclusive of both endpoints.
func (p Period) Days() int {
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// Previous returns the window of identical length immediately preceding
// this one: prevEnd = start-1d, prevStart keeps the length equal.
func (p Period) Previous() Period {
	prevEnd := p.Start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -(p.Days() - 1))
	return Period{Start: prevStart, End: prevEnd}
}

// Contains reports whether the calendar day of t falls inside the window.
func (p Period) Contains(t time.Time) bool {
	d := DayStart(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// TrailingWindow returns the n-day window ending at this period's end date.
func (p Period) TrailingWindow(days int) Period {
	if days < 1 {
		days = 1
	}
	return Period{Start: p.End.AddDate(0, 0, -(days - 1)), End: p.End}
}

// DayStart truncates t to its UTC calendar day.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
