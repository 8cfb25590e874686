package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

func TestValidateRecurrence(t *testing.T) {
	assert.NoError(t, ValidateRecurrence(model.RecurrenceSpec{
		Frequency:  model.FrequencyWeekly,
		DaysOfWeek: []time.Weekday{time.Tuesday, time.Thursday},
	}))
	assert.NoError(t, ValidateRecurrence(model.RecurrenceSpec{
		Frequency:  model.FrequencyMonthly,
		DayOfMonth: 15,
	}))
	assert.NoError(t, ValidateRecurrence(model.RecurrenceSpec{
		Frequency: model.FrequencyDaily,
		EndDate:   "2026-06-30",
	}))

	assert.Error(t, ValidateRecurrence(model.RecurrenceSpec{Frequency: "fortnightly"}))
	assert.Error(t, ValidateRecurrence(model.RecurrenceSpec{Frequency: model.FrequencyWeekly}),
		"weekly without days of week")
	assert.Error(t, ValidateRecurrence(model.RecurrenceSpec{
		Frequency:  model.FrequencyMonthly,
		DayOfMonth: 32,
	}))
	assert.Error(t, ValidateRecurrence(model.RecurrenceSpec{
		Frequency: model.FrequencyDaily,
		EndDate:   "soon",
	}))
}

func TestRecurrenceMatches_Daily(t *testing.T) {
	spec := model.RecurrenceSpec{Frequency: model.FrequencyDaily}

	for _, date := range []string{"2026-03-01", "2026-03-02", "2026-12-25"} {
		got, err := RecurrenceMatches(spec, date)
		require.NoError(t, err)
		assert.True(t, got, "date %s", date)
	}
}

func TestRecurrenceMatches_EndDate(t *testing.T) {
	spec := model.RecurrenceSpec{
		Frequency: model.FrequencyDaily,
		EndDate:   "2026-03-10",
	}

	got, err := RecurrenceMatches(spec, "2026-03-10")
	require.NoError(t, err)
	assert.True(t, got, "the end date itself still matches")

	got, err = RecurrenceMatches(spec, "2026-03-11")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRecurrenceMatches_Weekly(t *testing.T) {
	// 2026-03-03 is a Tuesday, 2026-03-05 a Thursday
	spec := model.RecurrenceSpec{
		Frequency:  model.FrequencyWeekly,
		DaysOfWeek: []time.Weekday{time.Tuesday, time.Thursday},
		AnchorDate: "2026-03-03",
	}

	for date, want := range map[string]bool{
		"2026-03-03": true,  // Tuesday
		"2026-03-05": true,  // Thursday
		"2026-03-10": true,  // Tuesday the following week
		"2026-03-04": false, // Wednesday
		"2026-03-07": false, // Saturday
	} {
		got, err := RecurrenceMatches(spec, date)
		require.NoError(t, err)
		assert.Equal(t, want, got, "date %s", date)
	}
}

func TestRecurrenceMatches_WeeklyIgnoresAnchor(t *testing.T) {
	// Weekly matching is weekday membership only; the anchor exists for
	// biweekly parity and must not gate days before it
	spec := model.RecurrenceSpec{
		Frequency:  model.FrequencyWeekly,
		DaysOfWeek: []time.Weekday{time.Tuesday},
		AnchorDate: "2026-03-10",
	}

	got, err := RecurrenceMatches(spec, "2026-03-03")
	require.NoError(t, err)
	assert.True(t, got, "Tuesday before the anchor still matches")

	got, err = RecurrenceMatches(spec, "2026-03-04")
	require.NoError(t, err)
	assert.False(t, got, "Wednesday before the anchor")
}

func TestRecurrenceMatches_BiweeklyAlternates(t *testing.T) {
	spec := model.RecurrenceSpec{
		Frequency:  model.FrequencyBiweekly,
		DaysOfWeek: []time.Weekday{time.Tuesday, time.Thursday},
		AnchorDate: "2026-03-03",
	}

	for date, want := range map[string]bool{
		"2026-03-03": true,  // anchor week Tuesday
		"2026-03-05": true,  // anchor week Thursday
		"2026-03-10": false, // off week Tuesday
		"2026-03-12": false, // off week Thursday
		"2026-03-17": true,  // on week again
		"2026-03-19": true,
		"2026-03-18": false, // on week but Wednesday
	} {
		got, err := RecurrenceMatches(spec, date)
		require.NoError(t, err)
		assert.Equal(t, want, got, "date %s", date)
	}
}

func TestRecurrenceMatches_BiweeklyBeforeAnchor(t *testing.T) {
	// Parity extends backwards: two weeks before the anchor is an on week,
	// one week before is off
	spec := model.RecurrenceSpec{
		Frequency:  model.FrequencyBiweekly,
		DaysOfWeek: []time.Weekday{time.Tuesday},
		AnchorDate: "2026-03-17",
	}

	for date, want := range map[string]bool{
		"2026-03-03": true,  // on week, two weeks back
		"2026-03-10": false, // off week
	} {
		got, err := RecurrenceMatches(spec, date)
		require.NoError(t, err)
		assert.Equal(t, want, got, "date %s", date)
	}
}

func TestRecurrenceMatches_BiweeklyWithoutAnchor(t *testing.T) {
	// Without an anchor there is no parity to alternate against, so every
	// matching weekday counts
	spec := model.RecurrenceSpec{
		Frequency:  model.FrequencyBiweekly,
		DaysOfWeek: []time.Weekday{time.Tuesday},
	}

	for _, date := range []string{"2026-03-03", "2026-03-10", "2026-03-17"} {
		got, err := RecurrenceMatches(spec, date)
		require.NoError(t, err)
		assert.True(t, got, "date %s", date)
	}

	got, err := RecurrenceMatches(spec, "2026-03-04")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRecurrenceMatches_Monthly(t *testing.T) {
	spec := model.RecurrenceSpec{
		Frequency:  model.FrequencyMonthly,
		DayOfMonth: 15,
	}

	got, err := RecurrenceMatches(spec, "2026-03-15")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = RecurrenceMatches(spec, "2026-04-15")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = RecurrenceMatches(spec, "2026-03-16")
	require.NoError(t, err)
	assert.False(t, got)
}

func TestRecurrenceMatches_InvalidDate(t *testing.T) {
	_, err := RecurrenceMatches(model.RecurrenceSpec{Frequency: model.FrequencyDaily}, "tomorrow")
	assert.Error(t, err)
}
