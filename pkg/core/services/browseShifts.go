package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/core/schedule"
)

// BrowseFilters narrows a shift browse. Empty fields match everything; From
// and To bound the shift date inclusively.
type BrowseFilters struct {
	Category string
	From     string
	To       string
}

// BrowseShiftsStore defines the database operations needed for shift browsing
type BrowseShiftsStore interface {
	ListShifts(ctx context.Context) ([]model.VolunteerShift, error)
}

// PartnerSearchStore defines the database operations needed to find swap
// partners
type PartnerSearchStore interface {
	GetShift(ctx context.Context, id string) (*model.VolunteerShift, error)
	ListShifts(ctx context.Context) ([]model.VolunteerShift, error)
}

// BrowseOpenShifts returns open shifts matching the filters, sorted by shift
// date ascending
func BrowseOpenShifts(ctx context.Context, store BrowseShiftsStore, logger *zap.Logger, filters BrowseFilters) ([]model.VolunteerShift, error) {
	if filters.From != "" {
		if _, err := schedule.ParseDate(filters.From); err != nil {
			return nil, errs.NewValidation("from", err.Error())
		}
	}
	if filters.To != "" {
		if _, err := schedule.ParseDate(filters.To); err != nil {
			return nil, errs.NewValidation("to", err.Error())
		}
	}

	shifts, err := store.ListShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	matched := make([]model.VolunteerShift, 0)
	for _, shift := range shifts {
		if shift.Status != model.ShiftOpen {
			continue
		}
		if filters.Category != "" && !strings.EqualFold(shift.Category, filters.Category) {
			continue
		}
		if filters.From != "" && shift.ShiftDate < filters.From {
			continue
		}
		if filters.To != "" && shift.ShiftDate > filters.To {
			continue
		}
		matched = append(matched, shift)
	}

	// Shift dates share one fixed format, so they sort correctly as text
	sort.Slice(matched, func(i, j int) bool { return matched[i].ShiftDate < matched[j].ShiftDate })

	logger.Debug("Browsed open shifts",
		zap.Int("candidates", len(shifts)),
		zap.Int("matched", len(matched)),
		zap.String("category", filters.Category))

	return matched, nil
}

// FindPotentialSwapPartners returns shifts whose volunteers could cover the
// requester: same category, still live, at least one volunteer, and the
// requester not already on them. Sorted by shift date ascending.
func FindPotentialSwapPartners(ctx context.Context, store PartnerSearchStore, logger *zap.Logger, shiftID, requesterID string) ([]model.VolunteerShift, error) {
	source, err := store.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}

	shifts, err := store.ListShifts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	matched := make([]model.VolunteerShift, 0)
	for _, shift := range shifts {
		if shift.ID == shiftID {
			continue
		}
		if shift.Status.IsClosed() {
			continue
		}
		if !strings.EqualFold(shift.Category, source.Category) {
			continue
		}
		if shift.HasVolunteer(requesterID) {
			continue
		}
		if len(shift.VolunteersSignedUp) == 0 {
			continue
		}
		matched = append(matched, shift)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].ShiftDate < matched[j].ShiftDate })

	logger.Debug("Searched for swap partners",
		zap.String("shift_id", shiftID),
		zap.String("requester_id", requesterID),
		zap.Int("matched", len(matched)))

	return matched, nil
}
