package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

// rruleWeekdays maps time.Weekday (Sunday=0) onto rrule weekday constants
var rruleWeekdays = [...]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// ValidateRecurrence checks that a recurrence spec is internally consistent
func ValidateRecurrence(spec model.RecurrenceSpec) error {
	if !spec.Frequency.IsValid() {
		return fmt.Errorf("unknown recurrence frequency %q", spec.Frequency)
	}

	switch spec.Frequency {
	case model.FrequencyWeekly, model.FrequencyBiweekly:
		if len(spec.DaysOfWeek) == 0 {
			return fmt.Errorf("%s recurrence requires at least one day of week", spec.Frequency)
		}
		for _, day := range spec.DaysOfWeek {
			if day < time.Sunday || day > time.Saturday {
				return fmt.Errorf("invalid day of week %d", day)
			}
		}
	case model.FrequencyMonthly:
		if spec.DayOfMonth < 1 || spec.DayOfMonth > 31 {
			return fmt.Errorf("monthly recurrence requires day of month 1-31, got %d", spec.DayOfMonth)
		}
	}

	if spec.AnchorDate != "" {
		if _, err := ParseDate(spec.AnchorDate); err != nil {
			return err
		}
	}
	if spec.EndDate != "" {
		if _, err := ParseDate(spec.EndDate); err != nil {
			return err
		}
	}
	return nil
}

// RecurrenceMatches reports whether the spec applies on the given calendar
// day. The recurrence end date, when present, excludes any later day.
//
// Daily matches every day. Monthly matches when the day-of-month equals the
// spec's DayOfMonth. Weekly matches on weekday membership alone, regardless
// of the anchor. Biweekly is evaluated as an RRULE anchored at the spec's
// AnchorDate so it alternates weeks against the anchor; with no anchor it
// degrades to weekly matching.
func RecurrenceMatches(spec model.RecurrenceSpec, date string) (bool, error) {
	day, err := ParseDate(date)
	if err != nil {
		return false, err
	}

	if spec.EndDate != "" {
		end, err := ParseDate(spec.EndDate)
		if err != nil {
			return false, err
		}
		if day.After(end) {
			return false, nil
		}
	}

	switch spec.Frequency {
	case model.FrequencyDaily:
		return true, nil

	case model.FrequencyMonthly:
		return day.Day() == spec.DayOfMonth, nil

	case model.FrequencyWeekly:
		return weekdayMatches(spec, day), nil

	case model.FrequencyBiweekly:
		if spec.AnchorDate == "" {
			return weekdayMatches(spec, day), nil
		}
		rule, err := compileBiweeklyRule(spec, day)
		if err != nil {
			return false, err
		}
		occurrences := rule.Between(day, day.AddDate(0, 0, 1), true)
		for _, occurrence := range occurrences {
			if occurrence.Format(DateFormat) == date {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown recurrence frequency %q", spec.Frequency)
	}
}

func weekdayMatches(spec model.RecurrenceSpec, day time.Time) bool {
	for _, weekday := range spec.DaysOfWeek {
		if day.Weekday() == weekday {
			return true
		}
	}
	return false
}

// compileBiweeklyRule builds the alternating-week RRULE for a biweekly spec.
// The anchor date becomes DTSTART, which fixes the week parity: weekdays in
// the anchor's week are "on", the following week is "off". When the queried
// day precedes the anchor, DTSTART is rebased backwards by whole two-week
// periods so the parity extends before the anchor as well.
func compileBiweeklyRule(spec model.RecurrenceSpec, day time.Time) (*rrule.RRule, error) {
	anchor, err := ParseDate(spec.AnchorDate)
	if err != nil {
		return nil, err
	}
	for day.Before(anchor) {
		anchor = anchor.AddDate(0, 0, -14)
	}

	byWeekday := make([]rrule.Weekday, 0, len(spec.DaysOfWeek))
	for _, weekday := range spec.DaysOfWeek {
		byWeekday = append(byWeekday, rruleWeekdays[weekday])
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Interval:  2,
		Byweekday: byWeekday,
		Dtstart:   anchor,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build recurrence rule: %w", err)
	}
	return rule, nil
}
