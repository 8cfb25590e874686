package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/core/schedule"
)

// SlotSpec describes an availability slot to create. Exactly one of Date,
// DateRange, Recurrence must be set.
type SlotSpec struct {
	UserID                 string `validate:"required"`
	SkillOfferID           string
	Date                   string
	DateRange              *model.DateRange
	Recurrence             *model.RecurrenceSpec
	TimeRanges             []model.TimeRange `validate:"required,min=1"`
	Location               model.Location
	PreferredActivityTypes []string
	MaxBookings            int `validate:"min=0"`
	Visibility             string
}

// SlotUpdate carries the fields to change on a slot; nil fields are left
// untouched. The temporal specification is fixed at creation.
type SlotUpdate struct {
	TimeRanges             *[]model.TimeRange
	Location               *model.Location
	PreferredActivityTypes *[]string
	MaxBookings            *int
	Visibility             *string
}

// SlotCRUDStore defines the database operations for slot management
type SlotCRUDStore interface {
	InsertSlot(ctx context.Context, slot *model.AvailabilitySlot) error
	MutateSlot(ctx context.Context, id string, fn func(*model.AvailabilitySlot) error) (*model.AvailabilitySlot, error)
}

// CreateSlot validates and stores an active availability slot. MaxBookings
// defaults to 1. A recurrence without an anchor date is anchored at the
// creation day so that biweekly parity is well defined.
func CreateSlot(ctx context.Context, store SlotCRUDStore, logger *zap.Logger, spec SlotSpec) (*model.AvailabilitySlot, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}

	temporalSpecs := 0
	if spec.Date != "" {
		temporalSpecs++
		if err := validateShiftDate("date", spec.Date); err != nil {
			return nil, err
		}
	}
	if spec.DateRange != nil {
		temporalSpecs++
		if err := validateShiftDate("dateRange.start", spec.DateRange.Start); err != nil {
			return nil, err
		}
		if err := validateShiftDate("dateRange.end", spec.DateRange.End); err != nil {
			return nil, err
		}
		if spec.DateRange.End < spec.DateRange.Start {
			return nil, errs.NewValidation("dateRange", "end date is before start date")
		}
	}
	if spec.Recurrence != nil {
		temporalSpecs++
	}
	if temporalSpecs != 1 {
		return nil, errs.NewValidation("temporal", "exactly one of date, dateRange, recurrence is required")
	}

	for i, tr := range spec.TimeRanges {
		if err := validateTimeRange(fmt.Sprintf("timeRanges[%d]", i), tr); err != nil {
			return nil, err
		}
	}

	maxBookings := spec.MaxBookings
	if maxBookings == 0 {
		maxBookings = 1
	}
	if maxBookings < 1 {
		return nil, errs.NewValidation("maxBookings", "must be at least 1")
	}

	now := time.Now().UTC()
	var recurrence *model.RecurrenceSpec
	if spec.Recurrence != nil {
		rec := *spec.Recurrence
		if rec.AnchorDate == "" {
			rec.AnchorDate = now.Format(schedule.DateFormat)
		}
		if err := schedule.ValidateRecurrence(rec); err != nil {
			return nil, errs.NewValidation("recurrence", err.Error())
		}
		recurrence = &rec
	}

	slot := &model.AvailabilitySlot{
		ID:                     uuid.New().String(),
		UserID:                 spec.UserID,
		SkillOfferID:           spec.SkillOfferID,
		Date:                   spec.Date,
		DateRange:              spec.DateRange,
		Recurrence:             recurrence,
		TimeRanges:             spec.TimeRanges,
		Location:               spec.Location,
		PreferredActivityTypes: spec.PreferredActivityTypes,
		MaxBookings:            maxBookings,
		CurrentBookings:        0,
		Visibility:             spec.Visibility,
		Active:                 true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	logger.Info("Creating availability slot",
		zap.String("id", slot.ID),
		zap.String("user_id", slot.UserID),
		zap.Int("time_ranges", len(slot.TimeRanges)),
		zap.Int("max_bookings", slot.MaxBookings))

	if err := store.InsertSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to insert availability slot: %w", err)
	}
	return slot, nil
}

// UpdateSlot applies the non-nil fields of update to a slot. Only the owning
// user may update their slot.
func UpdateSlot(ctx context.Context, store SlotCRUDStore, logger *zap.Logger, slotID, userID string, update SlotUpdate) (*model.AvailabilitySlot, error) {
	slot, err := store.MutateSlot(ctx, slotID, func(slot *model.AvailabilitySlot) error {
		if slot.UserID != userID {
			return errs.NewAuthorization(userID, "only the owning user can update a slot")
		}

		if update.TimeRanges != nil {
			if len(*update.TimeRanges) == 0 {
				return errs.NewValidation("timeRanges", "at least one time range is required")
			}
			for i, tr := range *update.TimeRanges {
				if err := validateTimeRange(fmt.Sprintf("timeRanges[%d]", i), tr); err != nil {
					return err
				}
			}
			slot.TimeRanges = *update.TimeRanges
		}
		if update.Location != nil {
			slot.Location = *update.Location
		}
		if update.PreferredActivityTypes != nil {
			slot.PreferredActivityTypes = *update.PreferredActivityTypes
		}
		if update.MaxBookings != nil {
			if *update.MaxBookings < 1 {
				return errs.NewValidation("maxBookings", "must be at least 1")
			}
			slot.MaxBookings = *update.MaxBookings
		}
		if update.Visibility != nil {
			slot.Visibility = *update.Visibility
		}

		slot.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Updated availability slot", zap.String("slot_id", slotID))
	return slot, nil
}

// DeactivateSlot withdraws a slot from matching. Only the owning user may
// deactivate their slot.
func DeactivateSlot(ctx context.Context, store SlotCRUDStore, logger *zap.Logger, slotID, userID string) (*model.AvailabilitySlot, error) {
	slot, err := store.MutateSlot(ctx, slotID, func(slot *model.AvailabilitySlot) error {
		if slot.UserID != userID {
			return errs.NewAuthorization(userID, "only the owning user can deactivate a slot")
		}
		slot.Active = false
		slot.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Deactivated availability slot", zap.String("slot_id", slotID))
	return slot, nil
}

// ReserveSlotBooking increments a slot's booking count, failing once the slot
// is at its booking capacity
func ReserveSlotBooking(ctx context.Context, store SlotCRUDStore, logger *zap.Logger, slotID string) (*model.AvailabilitySlot, error) {
	slot, err := store.MutateSlot(ctx, slotID, func(slot *model.AvailabilitySlot) error {
		if !slot.Active {
			return errs.NewStateConflict("slot is not active")
		}
		if !slot.HasSpareCapacity() {
			return errs.NewCapacity("availability slot " + slot.ID)
		}
		slot.CurrentBookings++
		slot.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Reserved slot booking",
		zap.String("slot_id", slotID),
		zap.Int("current_bookings", slot.CurrentBookings))
	return slot, nil
}

// ReleaseSlotBooking decrements a slot's booking count
func ReleaseSlotBooking(ctx context.Context, store SlotCRUDStore, logger *zap.Logger, slotID string) (*model.AvailabilitySlot, error) {
	slot, err := store.MutateSlot(ctx, slotID, func(slot *model.AvailabilitySlot) error {
		if slot.CurrentBookings == 0 {
			return errs.NewStateConflict("slot has no bookings to release")
		}
		slot.CurrentBookings--
		slot.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Released slot booking",
		zap.String("slot_id", slotID),
		zap.Int("current_bookings", slot.CurrentBookings))
	return slot, nil
}
