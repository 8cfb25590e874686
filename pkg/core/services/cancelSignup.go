package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
)

// CancelSignupStore defines the database operations needed to cancel a signup
type CancelSignupStore interface {
	MutateShift(ctx context.Context, id string, fn func(*model.VolunteerShift) error) (*model.VolunteerShift, error)
}

// CancelSignup removes a member from a shift's signup set and from any role
// assignment. A filled shift whose count drops below capacity reverts to open.
func CancelSignup(ctx context.Context, store CancelSignupStore, logger *zap.Logger, shiftID, userID string) (*model.VolunteerShift, error) {
	logger.Debug("Cancelling signup",
		zap.String("shift_id", shiftID),
		zap.String("user_id", userID))

	shift, err := store.MutateShift(ctx, shiftID, func(shift *model.VolunteerShift) error {
		if !shift.RemoveVolunteer(userID) {
			return errs.NewStateConflict(fmt.Sprintf("user %s is not signed up", userID))
		}
		if shift.Status == model.ShiftFilled && len(shift.VolunteersSignedUp) < shift.VolunteersNeeded {
			shift.Status = model.ShiftOpen
		}
		shift.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cancelled signup",
		zap.String("shift_id", shiftID),
		zap.String("user_id", userID),
		zap.String("status", string(shift.Status)),
		zap.Int("signed_up", len(shift.VolunteersSignedUp)))

	return shift, nil
}
