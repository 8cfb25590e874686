package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
)

// ResolveSwapStore defines the database operations needed to decline or
// cancel a swap request
type ResolveSwapStore interface {
	MutateSwapRequest(ctx context.Context, id string, fn func(*model.ShiftSwapRequest) error) (*model.ShiftSwapRequest, error)
}

// DeclineSwap records a decline. For an open request the declining user is
// appended to the declined set idempotently and the request stays pending for
// other members. For a direct proposal only the proposed user may decline,
// and doing so terminates the request.
func DeclineSwap(ctx context.Context, store ResolveSwapStore, logger *zap.Logger, requestID, decliningUserID string) (*model.ShiftSwapRequest, error) {
	request, err := store.MutateSwapRequest(ctx, requestID, func(request *model.ShiftSwapRequest) error {
		if request.Status != model.SwapPending {
			return errs.NewStateConflict(fmt.Sprintf("swap request is %s, not pending", request.Status))
		}

		if request.ProposedToUserID != "" {
			if decliningUserID != request.ProposedToUserID {
				return errs.NewAuthorization(decliningUserID, "only the proposed user can decline a direct swap proposal")
			}
			request.Status = model.SwapDeclined
			request.UpdatedAt = time.Now().UTC()
			return nil
		}

		if !request.HasDeclined(decliningUserID) {
			request.DeclinedByUserIDs = append(request.DeclinedByUserIDs, decliningUserID)
		}
		request.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Declined swap request",
		zap.String("request_id", requestID),
		zap.String("declined_by", decliningUserID),
		zap.String("status", string(request.Status)))

	return request, nil
}

// CancelSwap withdraws a pending request. Only the original requester may
// cancel, and cancellation is terminal.
func CancelSwap(ctx context.Context, store ResolveSwapStore, logger *zap.Logger, requestID, requesterID string) (*model.ShiftSwapRequest, error) {
	request, err := store.MutateSwapRequest(ctx, requestID, func(request *model.ShiftSwapRequest) error {
		if request.Status != model.SwapPending {
			return errs.NewStateConflict(fmt.Sprintf("swap request is %s, not pending", request.Status))
		}
		if requesterID != request.RequesterID {
			return errs.NewAuthorization(requesterID, "only the requester can cancel a swap request")
		}
		request.Status = model.SwapCancelled
		request.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Cancelled swap request",
		zap.String("request_id", requestID),
		zap.String("requester_id", requesterID))

	return request, nil
}
