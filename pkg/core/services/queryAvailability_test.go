package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/memstore"
)

func seedSlot(t *testing.T, store *memstore.Store, slot model.AvailabilitySlot) model.AvailabilitySlot {
	t.Helper()
	if slot.MaxBookings == 0 {
		slot.MaxBookings = 1
	}
	require.NoError(t, store.InsertSlot(context.Background(), &slot))
	return slot
}

func TestQuerySlots_TemporalMatching(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	seedSlot(t, store, model.AvailabilitySlot{
		ID: "single-day", UserID: "alice", Active: true,
		Date:       "2026-03-07",
		TimeRanges: []model.TimeRange{{Start: "09:00", End: "12:00"}},
	})
	seedSlot(t, store, model.AvailabilitySlot{
		ID: "date-range", UserID: "bob", Active: true,
		DateRange:  &model.DateRange{Start: "2026-03-05", End: "2026-03-10"},
		TimeRanges: []model.TimeRange{{Start: "13:00", End: "17:00"}},
	})
	seedSlot(t, store, model.AvailabilitySlot{
		ID: "recurring-tuesdays", UserID: "carol", Active: true,
		Recurrence: &model.RecurrenceSpec{
			Frequency:  model.FrequencyWeekly,
			DaysOfWeek: []time.Weekday{time.Tuesday},
			AnchorDate: "2026-03-03",
		},
		TimeRanges: []model.TimeRange{{Start: "18:00", End: "20:00"}},
	})
	seedSlot(t, store, model.AvailabilitySlot{
		ID: "outside-window", UserID: "dave", Active: true,
		Date:       "2026-04-01",
		TimeRanges: []model.TimeRange{{Start: "09:00", End: "12:00"}},
	})
	seedSlot(t, store, model.AvailabilitySlot{
		ID: "inactive", UserID: "erin", Active: false,
		Date:       "2026-03-07",
		TimeRanges: []model.TimeRange{{Start: "09:00", End: "12:00"}},
	})

	// The window covers Mar 6-8: the single day, the range, but no Tuesday
	slots, err := QuerySlots(ctx, store, testLogger(),
		model.DateRange{Start: "2026-03-06", End: "2026-03-08"}, SlotFilters{})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "date-range", slots[0].ID)
	assert.Equal(t, "single-day", slots[1].ID)

	// Widening to Mar 6-10 picks up Tuesday Mar 10
	slots, err = QuerySlots(ctx, store, testLogger(),
		model.DateRange{Start: "2026-03-06", End: "2026-03-10"}, SlotFilters{})
	require.NoError(t, err)
	require.Len(t, slots, 3)
}

func TestQuerySlots_Filters(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	window := model.DateRange{Start: "2026-03-01", End: "2026-03-31"}

	seedSlot(t, store, model.AvailabilitySlot{
		ID: "gardener", UserID: "alice", Active: true,
		Date:                   "2026-03-07",
		TimeRanges:             []model.TimeRange{{Start: "09:00", End: "12:00"}},
		PreferredActivityTypes: []string{"gardening"},
		Location:               model.Location{Name: "Allotment"},
	})
	seedSlot(t, store, model.AvailabilitySlot{
		ID: "anything-anywhere", UserID: "bob", Active: true,
		Date:       "2026-03-07",
		TimeRanges: []model.TimeRange{{Start: "09:00", End: "12:00"}},
		Location:   model.Location{Flexible: true},
	})

	// Activity filter: a slot with no preference accepts any activity
	slots, err := QuerySlots(ctx, store, testLogger(), window, SlotFilters{ActivityType: "cooking"})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "anything-anywhere", slots[0].ID)

	slots, err = QuerySlots(ctx, store, testLogger(), window, SlotFilters{ActivityType: "Gardening"})
	require.NoError(t, err)
	require.Len(t, slots, 2, "activity matching is case-insensitive")

	// Location filter: flexible slots match everything
	slots, err = QuerySlots(ctx, store, testLogger(), window, SlotFilters{LocationName: "Library"})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "anything-anywhere", slots[0].ID)
}

func TestQuerySlots_SkipsFullyBooked(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	seedSlot(t, store, model.AvailabilitySlot{
		ID: "booked-out", UserID: "alice", Active: true,
		Date:            "2026-03-07",
		TimeRanges:      []model.TimeRange{{Start: "09:00", End: "12:00"}},
		MaxBookings:     2,
		CurrentBookings: 2,
	})

	slots, err := QuerySlots(ctx, store, testLogger(),
		model.DateRange{Start: "2026-03-01", End: "2026-03-31"}, SlotFilters{})
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestQuerySlots_InvalidWindow(t *testing.T) {
	_, err := QuerySlots(context.Background(), memstore.New(), testLogger(),
		model.DateRange{Start: "soon", End: "2026-03-31"}, SlotFilters{})
	assert.True(t, errs.IsValidation(err))
}

func TestIsUserAvailable(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	seedSlot(t, store, model.AvailabilitySlot{
		ID: "a1", UserID: "alice", Active: true,
		Date:       "2026-03-07",
		TimeRanges: []model.TimeRange{{Start: "09:00", End: "12:00"}},
	})

	got, err := IsUserAvailable(ctx, store, testLogger(), "alice", "2026-03-07", model.TimeRange{Start: "11:00", End: "13:00"})
	require.NoError(t, err)
	assert.True(t, got)

	// Touching windows do not overlap
	got, err = IsUserAvailable(ctx, store, testLogger(), "alice", "2026-03-07", model.TimeRange{Start: "12:00", End: "14:00"})
	require.NoError(t, err)
	assert.False(t, got)

	// Wrong day
	got, err = IsUserAvailable(ctx, store, testLogger(), "alice", "2026-03-08", model.TimeRange{Start: "09:00", End: "12:00"})
	require.NoError(t, err)
	assert.False(t, got)

	// Unknown user simply has no slots
	got, err = IsUserAvailable(ctx, store, testLogger(), "nobody", "2026-03-07", model.TimeRange{Start: "09:00", End: "12:00"})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestIsUserAvailable_IgnoresInactiveAndFull(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	seedSlot(t, store, model.AvailabilitySlot{
		ID: "inactive", UserID: "alice", Active: false,
		Date:       "2026-03-07",
		TimeRanges: []model.TimeRange{{Start: "09:00", End: "12:00"}},
	})
	seedSlot(t, store, model.AvailabilitySlot{
		ID: "full", UserID: "alice", Active: true,
		Date:            "2026-03-07",
		TimeRanges:      []model.TimeRange{{Start: "09:00", End: "12:00"}},
		MaxBookings:     1,
		CurrentBookings: 1,
	})

	got, err := IsUserAvailable(ctx, store, testLogger(), "alice", "2026-03-07", model.TimeRange{Start: "09:00", End: "12:00"})
	require.NoError(t, err)
	assert.False(t, got)
}

func TestAvailableWindows_ReturnsTrueIntersections(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	seedSlot(t, store, model.AvailabilitySlot{
		ID: "morning", UserID: "alice", Active: true,
		Date:       "2026-03-07",
		TimeRanges: []model.TimeRange{{Start: "08:00", End: "11:00"}, {Start: "15:00", End: "18:00"}},
	})

	windows, err := AvailableWindows(ctx, store, testLogger(), "alice", "2026-03-07", model.TimeRange{Start: "10:00", End: "16:00"})
	require.NoError(t, err)
	require.Len(t, windows, 2)
	assert.Equal(t, model.TimeRange{Start: "10:00", End: "11:00"}, windows[0])
	assert.Equal(t, model.TimeRange{Start: "15:00", End: "16:00"}, windows[1])
}

func TestAvailableWindows_Empty(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	seedSlot(t, store, model.AvailabilitySlot{
		ID: "morning", UserID: "alice", Active: true,
		Date:       "2026-03-07",
		TimeRanges: []model.TimeRange{{Start: "08:00", End: "10:00"}},
	})

	windows, err := AvailableWindows(ctx, store, testLogger(), "alice", "2026-03-07", model.TimeRange{Start: "10:00", End: "16:00"})
	require.NoError(t, err)
	assert.Empty(t, windows)
}
