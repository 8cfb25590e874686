package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/core/schedule"
)

// SlotFilters narrows an availability query. Empty fields match everything.
type SlotFilters struct {
	ActivityType string
	LocationName string
}

// QuerySlotsStore defines the database operations needed to query slots
type QuerySlotsStore interface {
	ListSlots(ctx context.Context) ([]model.AvailabilitySlot, error)
}

// AvailabilityCheckStore defines the database operations needed to check one
// user's availability
type AvailabilityCheckStore interface {
	ListSlotsForUser(ctx context.Context, userID string) ([]model.AvailabilitySlot, error)
}

// QuerySlots returns the active slots whose temporal specification intersects
// the window, filtered by preferred activity type, location, and remaining
// booking capacity. A slot with no activity preference accepts any activity;
// a flexible location matches any location filter.
func QuerySlots(ctx context.Context, store QuerySlotsStore, logger *zap.Logger, window model.DateRange, filters SlotFilters) ([]model.AvailabilitySlot, error) {
	if _, err := schedule.ParseDate(window.Start); err != nil {
		return nil, errs.NewValidation("window.start", err.Error())
	}
	if _, err := schedule.ParseDate(window.End); err != nil {
		return nil, errs.NewValidation("window.end", err.Error())
	}

	slots, err := store.ListSlots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability slots: %w", err)
	}
	logger.Debug("Querying availability slots",
		zap.Int("candidates", len(slots)),
		zap.String("window_start", window.Start),
		zap.String("window_end", window.End))

	matched := make([]model.AvailabilitySlot, 0)
	for _, slot := range slots {
		if !slot.Active || !slot.HasSpareCapacity() {
			continue
		}

		intersects, err := slotIntersectsWindow(slot, window)
		if err != nil {
			return nil, err
		}
		if !intersects {
			continue
		}
		if !matchesActivity(slot, filters.ActivityType) {
			continue
		}
		if !matchesLocation(slot, filters.LocationName) {
			continue
		}
		matched = append(matched, slot)
	}

	logger.Debug("Availability query complete", zap.Int("matched", len(matched)))
	return matched, nil
}

// IsUserAvailable reports whether any of the user's active slots covers the
// given day and overlaps the clock-time window with spare booking capacity
func IsUserAvailable(ctx context.Context, store AvailabilityCheckStore, logger *zap.Logger, userID, date string, window model.TimeRange) (bool, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return false, errs.NewValidation("date", err.Error())
	}
	if err := schedule.ValidateTimeRange(window); err != nil {
		return false, errs.NewValidation("timeRange", err.Error())
	}

	slots, err := store.ListSlotsForUser(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to list slots for user %s: %w", userID, err)
	}

	for _, slot := range slots {
		if !slot.Active || !slot.HasSpareCapacity() {
			continue
		}

		covers, err := slotCoversDate(slot, date)
		if err != nil {
			return false, err
		}
		if !covers {
			continue
		}

		for _, tr := range slot.TimeRanges {
			overlap, err := schedule.Overlaps(tr, window)
			if err != nil {
				return false, err
			}
			if overlap {
				logger.Debug("User is available",
					zap.String("user_id", userID),
					zap.String("date", date),
					zap.String("slot_id", slot.ID))
				return true, nil
			}
		}
	}

	return false, nil
}

// AvailableWindows returns, for each of the user's slot windows that overlaps
// the requested window on the given day, the true common interval
// max(start1,start2)..min(end1,end2) rather than either party's raw range.
func AvailableWindows(ctx context.Context, store AvailabilityCheckStore, logger *zap.Logger, userID, date string, window model.TimeRange) ([]model.TimeRange, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, errs.NewValidation("date", err.Error())
	}
	if err := schedule.ValidateTimeRange(window); err != nil {
		return nil, errs.NewValidation("timeRange", err.Error())
	}

	slots, err := store.ListSlotsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots for user %s: %w", userID, err)
	}

	windows := make([]model.TimeRange, 0)
	for _, slot := range slots {
		if !slot.Active || !slot.HasSpareCapacity() {
			continue
		}

		covers, err := slotCoversDate(slot, date)
		if err != nil {
			return nil, err
		}
		if !covers {
			continue
		}

		for _, tr := range slot.TimeRanges {
			common, ok, err := schedule.Intersect(tr, window)
			if err != nil {
				return nil, err
			}
			if ok {
				windows = append(windows, common)
			}
		}
	}

	return windows, nil
}

// slotCoversDate applies the slot's temporal specification to one calendar day
func slotCoversDate(slot model.AvailabilitySlot, date string) (bool, error) {
	switch {
	case slot.Date != "":
		return slot.Date == date, nil
	case slot.DateRange != nil:
		return schedule.DateWithin(date, *slot.DateRange)
	case slot.Recurrence != nil:
		return schedule.RecurrenceMatches(*slot.Recurrence, date)
	default:
		return false, nil
	}
}

// slotIntersectsWindow reports whether the slot's temporal specification
// touches any day of the inclusive window. Recurring slots are scanned day by
// day; the recurrence end date is respected by the matcher.
func slotIntersectsWindow(slot model.AvailabilitySlot, window model.DateRange) (bool, error) {
	switch {
	case slot.Date != "":
		return schedule.DateWithin(slot.Date, window)
	case slot.DateRange != nil:
		return schedule.RangesIntersect(*slot.DateRange, window)
	case slot.Recurrence != nil:
		start, err := schedule.ParseDate(window.Start)
		if err != nil {
			return false, err
		}
		end, err := schedule.ParseDate(window.End)
		if err != nil {
			return false, err
		}
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			match, err := schedule.RecurrenceMatches(*slot.Recurrence, day.Format(schedule.DateFormat))
			if err != nil {
				return false, err
			}
			if match {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, nil
	}
}

// matchesActivity applies the preferred-activity filter: an empty slot
// preference accepts all activity types
func matchesActivity(slot model.AvailabilitySlot, activityType string) bool {
	if activityType == "" || len(slot.PreferredActivityTypes) == 0 {
		return true
	}
	for _, preferred := range slot.PreferredActivityTypes {
		if strings.EqualFold(preferred, activityType) {
			return true
		}
	}
	return false
}

// matchesLocation applies the location filter: flexible slots always match
func matchesLocation(slot model.AvailabilitySlot, locationName string) bool {
	if locationName == "" || slot.Location.Flexible {
		return true
	}
	return strings.EqualFold(slot.Location.Name, locationName)
}
