package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
)

// AcceptSwapStore defines the database operations needed to accept a swap
type AcceptSwapStore interface {
	GetSwapRequest(ctx context.Context, id string) (*model.ShiftSwapRequest, error)
	MutateSwapExchange(ctx context.Context, requestID string, shiftIDs []string, fn func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error) (*model.ShiftSwapRequest, error)
}

// AcceptSwap executes a swap: the requester leaves the shift's signup and
// role sets and the acceptor takes their place; a direct proposal with a
// paired shift performs the mirror substitution there. All of it commits in
// one atomic exchange, and every precondition is re-validated inside the
// exchange, so of two concurrent accepts exactly one wins and the other fails
// with a state conflict. The winning request is marked accepted and
// immediately completed.
func AcceptSwap(ctx context.Context, store AcceptSwapStore, logger *zap.Logger, requestID, acceptingUserID string) (*model.ShiftSwapRequest, error) {
	// First read resolves which shift aggregates the exchange spans. All
	// state checks happen again under the exchange locks.
	request, err := store.GetSwapRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	shiftIDs := []string{request.ShiftID}
	if request.ProposedShiftID != "" {
		shiftIDs = append(shiftIDs, request.ProposedShiftID)
	}

	result, err := store.MutateSwapExchange(ctx, requestID, shiftIDs, func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error {
		if request.Status != model.SwapPending {
			return errs.NewStateConflict(fmt.Sprintf("swap request is %s, not pending", request.Status))
		}
		if acceptingUserID == request.RequesterID {
			return errs.NewAuthorization(acceptingUserID, "requester cannot accept their own swap request")
		}
		if request.ProposedToUserID != "" && request.ProposedToUserID != acceptingUserID {
			return errs.NewAuthorization(acceptingUserID, "swap request is proposed to a different user")
		}

		shift, ok := shifts[request.ShiftID]
		if !ok {
			return errs.NewNotFound("shift", request.ShiftID)
		}
		if shift.Status.IsClosed() {
			return errs.NewStateConflict(fmt.Sprintf("cannot swap on a %s shift", shift.Status))
		}
		if !shift.HasVolunteer(request.RequesterID) {
			return errs.NewStateConflict("requester is no longer signed up on the shift")
		}
		if shift.HasVolunteer(acceptingUserID) {
			return errs.NewStateConflict("accepting user is already signed up on the shift")
		}

		now := time.Now().UTC()

		substitute(shift, request.RequesterID, acceptingUserID, now)

		if request.ProposedShiftID != "" {
			proposedShift, ok := shifts[request.ProposedShiftID]
			if !ok {
				return errs.NewNotFound("shift", request.ProposedShiftID)
			}
			if proposedShift.Status.IsClosed() {
				return errs.NewStateConflict(fmt.Sprintf("cannot swap on a %s shift", proposedShift.Status))
			}
			if !proposedShift.HasVolunteer(acceptingUserID) {
				return errs.NewStateConflict("accepting user is not signed up on the proposed shift")
			}
			if proposedShift.HasVolunteer(request.RequesterID) {
				return errs.NewStateConflict("requester is already signed up on the proposed shift")
			}
			substitute(proposedShift, acceptingUserID, request.RequesterID, now)
		}

		request.Status = model.SwapCompleted
		request.AcceptedByUserID = acceptingUserID
		request.AcceptedAt = &now
		request.CompletedAt = &now
		request.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Accepted swap request",
		zap.String("request_id", requestID),
		zap.String("accepted_by", acceptingUserID),
		zap.Int("shifts_exchanged", len(shiftIDs)))

	return result, nil
}

// substitute replaces outgoing with incoming in the shift's signup set,
// mirroring any role assignment the outgoing member held
func substitute(shift *model.VolunteerShift, outgoing, incoming string, now time.Time) {
	roleIndex := shift.RoleIndexOf(outgoing)
	shift.RemoveVolunteer(outgoing)
	shift.AddVolunteer(incoming)
	if roleIndex >= 0 {
		shift.Roles[roleIndex].VolunteersAssigned = append(shift.Roles[roleIndex].VolunteersAssigned, incoming)
	}
	shift.UpdatedAt = now
}
