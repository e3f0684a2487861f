package valueobjects

import (
	"errors"
	"time"
)

// DateRange is an inclusive time interval
type DateRange struct {
	start time.Time
	end   time.Time
}

// NewDateRange creates a DateRange, rejecting inverted intervals
func NewDateRange(start, end time.Time) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, errors.New("end date cannot precede start date")
	}
	return DateRange{start: start, end: end}, nil
}

// YearRange builds the full-year interval covering yearStart through yearEnd, UTC
func YearRange(yearStart, yearEnd int) (DateRange, error) {
	if yearEnd < yearStart {
		return DateRange{}, errors.New("end year cannot precede start year")
	}
	return DateRange{
		start: time.Date(yearStart, time.January, 1, 0, 0, 0, 0, time.UTC),
		end:   time.Date(yearEnd, time.December, 31, 23, 59, 59, 0, time.UTC),
	}, nil
}

// Start returns the inclusive lower bound
func (r DateRange) Start() time.Time {
	return r.start
}

// End returns the inclusive upper bound
func (r DateRange) End() time.Time {
	return r.end
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// SpanDays returns the number of whole days between start and end
func (r DateRange) SpanDays() int {
	return int(r.end.Sub(r.start).Hours() / 24)
}

// IsZero reports whether the range is unset
func (r DateRange) IsZero() bool {
	return r.start.IsZero() && r.end.IsZero()
}
