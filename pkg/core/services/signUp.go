package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
)

// SignUpStore defines the database operations needed to sign up for a shift
type SignUpStore interface {
	MutateShift(ctx context.Context, id string, fn func(*model.VolunteerShift) error) (*model.VolunteerShift, error)
}

// SignUp adds a member to a shift, optionally into a specific role. Role and
// shift-wide membership are committed in a single structural edit. When the
// shift-wide set reaches capacity the status moves from open to filled.
func SignUp(ctx context.Context, store SignUpStore, logger *zap.Logger, shiftID, userID string, roleIndex *int) (*model.VolunteerShift, error) {
	logger.Debug("Signing up for shift",
		zap.String("shift_id", shiftID),
		zap.String("user_id", userID),
		zap.Bool("has_role", roleIndex != nil))

	shift, err := store.MutateShift(ctx, shiftID, func(shift *model.VolunteerShift) error {
		if shift.Status.IsClosed() {
			return errs.NewStateConflict(fmt.Sprintf("cannot sign up for a %s shift", shift.Status))
		}
		if shift.HasVolunteer(userID) {
			return errs.NewStateConflict(fmt.Sprintf("user %s is already signed up", userID))
		}

		if roleIndex != nil {
			idx := *roleIndex
			if idx < 0 || idx >= len(shift.Roles) {
				return errs.NewValidation("roleIndex", fmt.Sprintf("shift has no role at index %d", idx))
			}
			role := &shift.Roles[idx]
			if len(role.VolunteersAssigned) >= role.VolunteersNeeded {
				return errs.NewCapacity("role " + role.Name)
			}
			role.VolunteersAssigned = append(role.VolunteersAssigned, userID)
		}

		shift.AddVolunteer(userID)
		promoteToFilledIfFull(shift)
		shift.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Signed up for shift",
		zap.String("shift_id", shiftID),
		zap.String("user_id", userID),
		zap.String("status", string(shift.Status)),
		zap.Int("signed_up", len(shift.VolunteersSignedUp)))

	return shift, nil
}
