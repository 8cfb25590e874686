package db

import (
	"context"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

// ShiftStore defines the interface for volunteer shift persistence.
// MutateShift is the atomic structural-edit primitive: the implementation
// serializes concurrent mutations per shift id, and a non-nil error from fn
// aborts the edit with no partial state.
type ShiftStore interface {
	GetShift(ctx context.Context, id string) (*model.VolunteerShift, error)
	ListShifts(ctx context.Context) ([]model.VolunteerShift, error)
	InsertShift(ctx context.Context, shift *model.VolunteerShift) error
	MutateShift(ctx context.Context, id string, fn func(*model.VolunteerShift) error) (*model.VolunteerShift, error)
}

// PatternStore defines the interface for recurring shift pattern persistence
type PatternStore interface {
	GetPattern(ctx context.Context, id string) (*model.RecurringShiftPattern, error)
	ListPatterns(ctx context.Context) ([]model.RecurringShiftPattern, error)
	InsertPattern(ctx context.Context, pattern *model.RecurringShiftPattern) error
	MutatePattern(ctx context.Context, id string, fn func(*model.RecurringShiftPattern) error) (*model.RecurringShiftPattern, error)
}

// AvailabilityStore defines the interface for availability slot persistence
type AvailabilityStore interface {
	GetSlot(ctx context.Context, id string) (*model.AvailabilitySlot, error)
	ListSlots(ctx context.Context) ([]model.AvailabilitySlot, error)
	ListSlotsForUser(ctx context.Context, userID string) ([]model.AvailabilitySlot, error)
	InsertSlot(ctx context.Context, slot *model.AvailabilitySlot) error
	MutateSlot(ctx context.Context, id string, fn func(*model.AvailabilitySlot) error) (*model.AvailabilitySlot, error)
}

// SwapStore defines the interface for swap request persistence.
// MutateSwapExchange spans the request and up to two shift aggregates in one
// atomic edit; either every mutation commits or none does. Implementations
// must guarantee that of two concurrent edits on the same request exactly one
// observes the pre-edit state.
type SwapStore interface {
	GetSwapRequest(ctx context.Context, id string) (*model.ShiftSwapRequest, error)
	ListSwapRequests(ctx context.Context) ([]model.ShiftSwapRequest, error)
	InsertSwapRequest(ctx context.Context, request *model.ShiftSwapRequest) error
	MutateSwapRequest(ctx context.Context, id string, fn func(*model.ShiftSwapRequest) error) (*model.ShiftSwapRequest, error)
	MutateSwapExchange(ctx context.Context, requestID string, shiftIDs []string, fn func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error) (*model.ShiftSwapRequest, error)
}

// Store is the full persistence collaborator consumed by the scheduling core
type Store interface {
	ShiftStore
	PatternStore
	AvailabilityStore
	SwapStore
}
