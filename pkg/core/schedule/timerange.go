package schedule

import (
	"fmt"
	"time"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

const (
	// DateFormat is the calendar-day format used across the scheduling core
	DateFormat = "2006-01-02"
	// ClockFormat is the time-of-day format used in shift and slot windows
	ClockFormat = "15:04"
)

// ParseDate parses a calendar day, normalized to midnight UTC
func ParseDate(s string) (time.Time, error) {
	day, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return day, nil
}

// ParseClock parses an HH:MM clock time into minutes since midnight
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidateTimeRange checks that both ends parse and the range is non-empty
func ValidateTimeRange(r model.TimeRange) error {
	start, err := ParseClock(r.Start)
	if err != nil {
		return err
	}
	end, err := ParseClock(r.End)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("time range %s-%s is empty or inverted", r.Start, r.End)
	}
	return nil
}

// Overlaps reports whether two clock-time windows intersect under the
// half-open interval test: start1 < end2 && start2 < end1. Windows that only
// touch at an edge do not overlap.
func Overlaps(a, b model.TimeRange) (bool, error) {
	aStart, err := ParseClock(a.Start)
	if err != nil {
		return false, err
	}
	aEnd, err := ParseClock(a.End)
	if err != nil {
		return false, err
	}
	bStart, err := ParseClock(b.Start)
	if err != nil {
		return false, err
	}
	bEnd, err := ParseClock(b.End)
	if err != nil {
		return false, err
	}
	return aStart < bEnd && bStart < aEnd, nil
}

// Intersect returns the true common window of two overlapping ranges,
// max(start1,start2)..min(end1,end2). The second return is false when the
// ranges do not overlap.
func Intersect(a, b model.TimeRange) (model.TimeRange, bool, error) {
	overlap, err := Overlaps(a, b)
	if err != nil || !overlap {
		return model.TimeRange{}, false, err
	}

	start := a.Start
	if laterClock(b.Start, a.Start) {
		start = b.Start
	}
	end := a.End
	if laterClock(a.End, b.End) {
		end = b.End
	}
	return model.TimeRange{Start: start, End: end}, true, nil
}

// laterClock reports whether x is strictly later than y. Both are assumed
// already validated HH:MM strings, which compare correctly as text.
func laterClock(x, y string) bool {
	return x > y
}

// DateWithin reports whether date falls inside the inclusive day interval
func DateWithin(date string, dr model.DateRange) (bool, error) {
	d, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	start, err := ParseDate(dr.Start)
	if err != nil {
		return false, err
	}
	end, err := ParseDate(dr.End)
	if err != nil {
		return false, err
	}
	return !d.Before(start) && !d.After(end), nil
}

// RangesIntersect reports whether two inclusive day intervals share a day
func RangesIntersect(a, b model.DateRange) (bool, error) {
	aStart, err := ParseDate(a.Start)
	if err != nil {
		return false, err
	}
	aEnd, err := ParseDate(a.End)
	if err != nil {
		return false, err
	}
	bStart, err := ParseDate(b.Start)
	if err != nil {
		return false, err
	}
	bEnd, err := ParseDate(b.End)
	if err != nil {
		return false, err
	}
	return !aStart.After(bEnd) && !bStart.After(aEnd), nil
}
