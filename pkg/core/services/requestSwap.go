package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
)

// SwapProposal describes how a swap request is addressed: openly to any
// eligible member, or directly to one member, optionally paired with one of
// their shifts for a two-way exchange.
type SwapProposal struct {
	IsOpenRequest    bool
	ProposedToUserID string
	ProposedShiftID  string
	Reason           string
}

// RequestSwapStore defines the database operations needed to open a swap
// request
type RequestSwapStore interface {
	GetShift(ctx context.Context, id string) (*model.VolunteerShift, error)
	ListSwapRequests(ctx context.Context) ([]model.ShiftSwapRequest, error)
	InsertSwapRequest(ctx context.Context, request *model.ShiftSwapRequest) error
}

// RequestSwap opens a pending swap request for one of the requester's shifts.
// A requester can hold at most one pending request per shift.
func RequestSwap(ctx context.Context, store RequestSwapStore, logger *zap.Logger, shiftID, requesterID string, proposal SwapProposal) (*model.ShiftSwapRequest, error) {
	if !proposal.IsOpenRequest && proposal.ProposedToUserID == "" {
		return nil, errs.NewValidation("proposal", "either an open request or a proposed user is required")
	}
	if proposal.ProposedToUserID == requesterID {
		return nil, errs.NewValidation("proposedToUserId", "cannot propose a swap to yourself")
	}
	if proposal.IsOpenRequest && proposal.ProposedShiftID != "" {
		return nil, errs.NewValidation("proposedShiftId", "an exchange shift requires a direct proposal")
	}

	shift, err := store.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if shift.Status.IsClosed() {
		return nil, errs.NewStateConflict(fmt.Sprintf("cannot request a swap on a %s shift", shift.Status))
	}
	if !shift.HasVolunteer(requesterID) {
		return nil, errs.NewStateConflict(fmt.Sprintf("user %s is not signed up on shift %s", requesterID, shiftID))
	}

	existing, err := store.ListSwapRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list swap requests: %w", err)
	}
	for _, req := range existing {
		if req.ShiftID == shiftID && req.RequesterID == requesterID && req.Status == model.SwapPending {
			return nil, errs.NewStateConflict(fmt.Sprintf("user %s already has a pending swap request for shift %s", requesterID, shiftID))
		}
	}

	if proposal.ProposedShiftID != "" {
		proposedShift, err := store.GetShift(ctx, proposal.ProposedShiftID)
		if err != nil {
			return nil, err
		}
		if proposedShift.Status.IsClosed() {
			return nil, errs.NewStateConflict(fmt.Sprintf("cannot propose an exchange with a %s shift", proposedShift.Status))
		}
		if !proposedShift.HasVolunteer(proposal.ProposedToUserID) {
			return nil, errs.NewStateConflict(fmt.Sprintf("user %s is not signed up on proposed shift %s", proposal.ProposedToUserID, proposal.ProposedShiftID))
		}
	}

	now := time.Now().UTC()
	request := &model.ShiftSwapRequest{
		ID:                uuid.New().String(),
		ShiftID:           shiftID,
		RequesterID:       requesterID,
		Status:            model.SwapPending,
		IsOpenRequest:     proposal.IsOpenRequest,
		ProposedToUserID:  proposal.ProposedToUserID,
		ProposedShiftID:   proposal.ProposedShiftID,
		DeclinedByUserIDs: []string{},
		Reason:            proposal.Reason,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	logger.Info("Opening swap request",
		zap.String("request_id", request.ID),
		zap.String("shift_id", shiftID),
		zap.String("requester_id", requesterID),
		zap.Bool("open", proposal.IsOpenRequest),
		zap.String("proposed_to", proposal.ProposedToUserID),
		zap.String("proposed_shift", proposal.ProposedShiftID))

	if err := store.InsertSwapRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to insert swap request: %w", err)
	}
	return request, nil
}
