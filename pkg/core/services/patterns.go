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

// PatternSpec describes a recurring shift template to create. Patterns are
// stored templates only; nothing here generates dated shift instances.
type PatternSpec struct {
	OrganizerID      string `validate:"required"`
	Title            string `validate:"required"`
	Description      string
	Category         string
	Location         model.Location
	Recurrence       model.RecurrenceSpec
	ShiftTime        model.TimeRange
	VolunteersNeeded int `validate:"required,min=1"`
}

// PatternUpdate carries the fields to change on a pattern; nil fields are
// left untouched
type PatternUpdate struct {
	Title            *string
	Description      *string
	Category         *string
	Location         *model.Location
	Recurrence       *model.RecurrenceSpec
	ShiftTime        *model.TimeRange
	VolunteersNeeded *int
}

// PatternCRUDStore defines the database operations for pattern management
type PatternCRUDStore interface {
	InsertPattern(ctx context.Context, pattern *model.RecurringShiftPattern) error
	MutatePattern(ctx context.Context, id string, fn func(*model.RecurringShiftPattern) error) (*model.RecurringShiftPattern, error)
}

// CreatePattern validates and stores an active recurring shift template. A
// recurrence without an anchor date is anchored at the creation day so that
// biweekly parity is well defined.
func CreatePattern(ctx context.Context, store PatternCRUDStore, logger *zap.Logger, spec PatternSpec) (*model.RecurringShiftPattern, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	if err := validateTimeRange("shiftTime", spec.ShiftTime); err != nil {
		return nil, err
	}
	if err := validateLocation(spec.Location); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	recurrence := spec.Recurrence
	if recurrence.AnchorDate == "" {
		recurrence.AnchorDate = now.Format(schedule.DateFormat)
	}
	if err := schedule.ValidateRecurrence(recurrence); err != nil {
		return nil, errs.NewValidation("recurrence", err.Error())
	}

	pattern := &model.RecurringShiftPattern{
		ID:               uuid.New().String(),
		OrganizerID:      spec.OrganizerID,
		Title:            spec.Title,
		Description:      spec.Description,
		Category:         spec.Category,
		Location:         spec.Location,
		Recurrence:       recurrence,
		ShiftTime:        spec.ShiftTime,
		VolunteersNeeded: spec.VolunteersNeeded,
		Active:           true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	logger.Info("Creating recurring shift pattern",
		zap.String("id", pattern.ID),
		zap.String("organizer_id", pattern.OrganizerID),
		zap.String("frequency", string(pattern.Recurrence.Frequency)))

	if err := store.InsertPattern(ctx, pattern); err != nil {
		return nil, fmt.Errorf("failed to insert pattern: %w", err)
	}
	return pattern, nil
}

// UpdatePattern applies the non-nil fields of update to a pattern. Only the
// organizer may update their pattern. Updated fields go through the same
// validation as creation.
func UpdatePattern(ctx context.Context, store PatternCRUDStore, logger *zap.Logger, patternID, organizerID string, update PatternUpdate) (*model.RecurringShiftPattern, error) {
	pattern, err := store.MutatePattern(ctx, patternID, func(pattern *model.RecurringShiftPattern) error {
		if pattern.OrganizerID != organizerID {
			return errs.NewAuthorization(organizerID, "only the organizer can update a pattern")
		}

		if update.Title != nil {
			if *update.Title == "" {
				return errs.NewValidation("title", "title cannot be empty")
			}
			pattern.Title = *update.Title
		}
		if update.Description != nil {
			pattern.Description = *update.Description
		}
		if update.Category != nil {
			pattern.Category = *update.Category
		}
		if update.Location != nil {
			if err := validateLocation(*update.Location); err != nil {
				return err
			}
			pattern.Location = *update.Location
		}
		if update.Recurrence != nil {
			recurrence := *update.Recurrence
			if recurrence.AnchorDate == "" {
				recurrence.AnchorDate = pattern.Recurrence.AnchorDate
			}
			if err := schedule.ValidateRecurrence(recurrence); err != nil {
				return errs.NewValidation("recurrence", err.Error())
			}
			pattern.Recurrence = recurrence
		}
		if update.ShiftTime != nil {
			if err := validateTimeRange("shiftTime", *update.ShiftTime); err != nil {
				return err
			}
			pattern.ShiftTime = *update.ShiftTime
		}
		if update.VolunteersNeeded != nil {
			if *update.VolunteersNeeded < 1 {
				return errs.NewValidation("volunteersNeeded", "must be at least 1")
			}
			pattern.VolunteersNeeded = *update.VolunteersNeeded
		}

		pattern.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Updated pattern", zap.String("pattern_id", patternID))
	return pattern, nil
}

// TogglePattern switches a pattern between active and paused. Only the
// organizer may toggle their pattern.
func TogglePattern(ctx context.Context, store PatternCRUDStore, logger *zap.Logger, patternID, organizerID string, active bool) (*model.RecurringShiftPattern, error) {
	pattern, err := store.MutatePattern(ctx, patternID, func(pattern *model.RecurringShiftPattern) error {
		if pattern.OrganizerID != organizerID {
			return errs.NewAuthorization(organizerID, "only the organizer can toggle a pattern")
		}
		pattern.Active = active
		pattern.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Toggled pattern", zap.String("pattern_id", patternID), zap.Bool("active", active))
	return pattern, nil
}
