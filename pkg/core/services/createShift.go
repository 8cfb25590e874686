package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

// RoleSpec describes a sub-role to create within a shift
type RoleSpec struct {
	Name             string `validate:"required"`
	VolunteersNeeded int    `validate:"required,min=1"`
}

// ShiftSpec describes a volunteer shift to create
type ShiftSpec struct {
	OrganizerID      string `validate:"required"`
	Title            string `validate:"required"`
	Description      string
	Category         string
	ShiftDate        string `validate:"required"`
	ShiftTime        model.TimeRange
	EstimatedMinutes int `validate:"min=0"`
	Location         model.Location
	VolunteersNeeded int        `validate:"required,min=1"`
	Roles            []RoleSpec `validate:"dive"`
}

// CreateShiftStore defines the database operations needed to create a shift
type CreateShiftStore interface {
	InsertShift(ctx context.Context, shift *model.VolunteerShift) error
}

// CreateShift validates the spec and stores a new open shift with empty
// signup and role-assignment sets
func CreateShift(ctx context.Context, store CreateShiftStore, logger *zap.Logger, spec ShiftSpec) (*model.VolunteerShift, error) {
	if err := validateSpec(spec); err != nil {
		return nil, err
	}
	if err := validateShiftDate("shiftDate", spec.ShiftDate); err != nil {
		return nil, err
	}
	if err := validateTimeRange("shiftTime", spec.ShiftTime); err != nil {
		return nil, err
	}
	if err := validateLocation(spec.Location); err != nil {
		return nil, err
	}

	roles := make([]model.ShiftRole, len(spec.Roles))
	for i, role := range spec.Roles {
		roles[i] = model.ShiftRole{
			Name:               role.Name,
			VolunteersNeeded:   role.VolunteersNeeded,
			VolunteersAssigned: []string{},
		}
	}

	now := time.Now().UTC()
	shift := &model.VolunteerShift{
		ID:                 uuid.New().String(),
		OrganizerID:        spec.OrganizerID,
		Title:              spec.Title,
		Description:        spec.Description,
		Category:           spec.Category,
		ShiftDate:          spec.ShiftDate,
		ShiftTime:          spec.ShiftTime,
		EstimatedMinutes:   spec.EstimatedMinutes,
		Location:           spec.Location,
		VolunteersNeeded:   spec.VolunteersNeeded,
		VolunteersSignedUp: []string{},
		Roles:              roles,
		Status:             model.ShiftOpen,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	logger.Info("Creating shift",
		zap.String("id", shift.ID),
		zap.String("organizer_id", shift.OrganizerID),
		zap.String("date", shift.ShiftDate),
		zap.Int("volunteers_needed", shift.VolunteersNeeded),
		zap.Int("roles", len(shift.Roles)))

	if err := store.InsertShift(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to insert shift: %w", err)
	}

	return shift, nil
}

// helper shared by signup paths: move an open shift to filled once the
// shift-wide set reaches capacity, never overriding a later status
func promoteToFilledIfFull(shift *model.VolunteerShift) {
	if shift.Status == model.ShiftOpen && len(shift.VolunteersSignedUp) >= shift.VolunteersNeeded {
		shift.Status = model.ShiftFilled
	}
}
