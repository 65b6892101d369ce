package model

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses an ISO calendar date as midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, invalid("date", "is required")
	}
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, invalid("date", "must be YYYY-MM-DD")
	}
	return d, nil
}

// CivilDate truncates t to its calendar day in loc, returned as midnight UTC.
func CivilDate(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar days. A zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange builds a range from optional ISO bounds.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if strings.TrimSpace(from) != "" {
		d, err := ParseDate(from)
		if err != nil {
			return DateRange{}, &ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
		}
		r.From = d
	}
	if strings.TrimSpace(to) != "" {
		d, err := ParseDate(to)
		if err != nil {
			return DateRange{}, &ValidationError{Field: "end_date", Reason: "must be YYYY-MM-DD"}
		}
		r.To = d
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		return DateRange{}, &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}
	return r, nil
}

// Single is the range holding exactly one day.
func Single(day time.Time) DateRange {
	return DateRange{From: day, To: day}
}

// LastDays is the n-day range ending at (and including) day.
func LastDays(day time.Time, n int) DateRange {
	return DateRange{From: day.AddDate(0, 0, -(n - 1)), To: day}
}

func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

func (r DateRange) Contains(day time.Time) bool {
	if !r.From.IsZero() && day.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To) {
		return false
	}
	return true
}

// ContainsDate parses an ISO date and checks membership; malformed dates are never contained.
func (r DateRange) ContainsDate(raw string) bool {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		return false
	}
	return r.Contains(d)
}
