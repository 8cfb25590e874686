package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
)

// LifecycleStore defines the database operations needed for shift lifecycle
// transitions
type LifecycleStore interface {
	MutateShift(ctx context.Context, id string, fn func(*model.VolunteerShift) error) (*model.VolunteerShift, error)
}

// StartShift moves a shift to in_progress. Only the organizer may start a
// shift, and a closed shift can never be started.
func StartShift(ctx context.Context, store LifecycleStore, logger *zap.Logger, shiftID, actorID string) (*model.VolunteerShift, error) {
	shift, err := store.MutateShift(ctx, shiftID, func(shift *model.VolunteerShift) error {
		if shift.OrganizerID != actorID {
			return errs.NewAuthorization(actorID, "only the organizer can start a shift")
		}
		if shift.Status.IsClosed() {
			return errs.NewStateConflict(fmt.Sprintf("cannot start a %s shift", shift.Status))
		}
		shift.Status = model.ShiftInProgress
		shift.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Started shift", zap.String("shift_id", shiftID), zap.String("actor_id", actorID))
	return shift, nil
}

// CompleteShift moves a shift to completed and attaches optional notes and an
// impact summary. Only the organizer may complete a shift; a cancelled shift
// stays cancelled.
func CompleteShift(ctx context.Context, store LifecycleStore, logger *zap.Logger, shiftID, actorID, notes, impact string) (*model.VolunteerShift, error) {
	shift, err := store.MutateShift(ctx, shiftID, func(shift *model.VolunteerShift) error {
		if shift.OrganizerID != actorID {
			return errs.NewAuthorization(actorID, "only the organizer can complete a shift")
		}
		if shift.Status == model.ShiftCancelled {
			return errs.NewStateConflict("cannot complete a cancelled shift")
		}
		now := time.Now().UTC()
		shift.Status = model.ShiftCompleted
		shift.CompletionNotes = notes
		shift.ImpactSummary = impact
		shift.CompletedAt = &now
		shift.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Completed shift", zap.String("shift_id", shiftID), zap.String("actor_id", actorID))
	return shift, nil
}

// CancelShift moves a shift to cancelled and attaches an optional reason.
// Only the organizer may cancel a shift; a completed shift stays completed.
func CancelShift(ctx context.Context, store LifecycleStore, logger *zap.Logger, shiftID, actorID, reason string) (*model.VolunteerShift, error) {
	shift, err := store.MutateShift(ctx, shiftID, func(shift *model.VolunteerShift) error {
		if shift.OrganizerID != actorID {
			return errs.NewAuthorization(actorID, "only the organizer can cancel a shift")
		}
		if shift.Status == model.ShiftCompleted {
			return errs.NewStateConflict("cannot cancel a completed shift")
		}
		now := time.Now().UTC()
		shift.Status = model.ShiftCancelled
		shift.CancellationReason = reason
		shift.CancelledAt = &now
		shift.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cancelled shift",
		zap.String("shift_id", shiftID),
		zap.String("actor_id", actorID),
		zap.String("reason", reason))
	return shift, nil
}
