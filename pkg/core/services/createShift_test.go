package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/memstore"
)

// failingInsertStore injects an insert failure
type failingInsertStore struct {
	err error
}

func (f *failingInsertStore) InsertShift(ctx context.Context, shift *model.VolunteerShift) error {
	return f.err
}

func validShiftSpec() ShiftSpec {
	return ShiftSpec{
		OrganizerID:      "org-1",
		Title:            "Community kitchen",
		Description:      "Prep and serve lunch",
		Category:         "food",
		ShiftDate:        "2026-03-07",
		ShiftTime:        model.TimeRange{Start: "09:00", End: "12:00"},
		EstimatedMinutes: 180,
		Location:         model.Location{Name: "Town hall"},
		VolunteersNeeded: 3,
		Roles: []RoleSpec{
			{Name: "cook", VolunteersNeeded: 2},
			{Name: "driver", VolunteersNeeded: 1},
		},
	}
}

func TestCreateShift(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	shift, err := CreateShift(ctx, store, testLogger(), validShiftSpec())
	require.NoError(t, err)
	require.NotNil(t, shift)

	assert.NotEmpty(t, shift.ID)
	assert.Equal(t, model.ShiftOpen, shift.Status)
	assert.Empty(t, shift.VolunteersSignedUp)
	require.Len(t, shift.Roles, 2)
	assert.Equal(t, "cook", shift.Roles[0].Name)
	assert.Equal(t, 2, shift.Roles[0].VolunteersNeeded)
	assert.Empty(t, shift.Roles[0].VolunteersAssigned)
	assert.False(t, shift.CreatedAt.IsZero())

	// The shift is retrievable from the store
	stored, err := store.GetShift(ctx, shift.ID)
	require.NoError(t, err)
	assert.Equal(t, shift.Title, stored.Title)
}

func TestCreateShift_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ShiftSpec)
	}{
		{"missing organizer", func(s *ShiftSpec) { s.OrganizerID = "" }},
		{"missing title", func(s *ShiftSpec) { s.Title = "" }},
		{"zero volunteers needed", func(s *ShiftSpec) { s.VolunteersNeeded = 0 }},
		{"malformed date", func(s *ShiftSpec) { s.ShiftDate = "March 7th" }},
		{"inverted time range", func(s *ShiftSpec) { s.ShiftTime = model.TimeRange{Start: "12:00", End: "09:00"} }},
		{"nameless fixed location", func(s *ShiftSpec) { s.Location = model.Location{} }},
		{"nameless role", func(s *ShiftSpec) { s.Roles = []RoleSpec{{Name: "", VolunteersNeeded: 1}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validShiftSpec()
			tt.mutate(&spec)

			_, err := CreateShift(context.Background(), memstore.New(), testLogger(), spec)
			assert.True(t, errs.IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestCreateShift_FlexibleLocationNeedsNoName(t *testing.T) {
	spec := validShiftSpec()
	spec.Location = model.Location{Flexible: true}

	shift, err := CreateShift(context.Background(), memstore.New(), testLogger(), spec)
	require.NoError(t, err)
	assert.True(t, shift.Location.Flexible)
}

func TestCreateShift_InsertError(t *testing.T) {
	sentinel := errors.New("connection lost")
	_, err := CreateShift(context.Background(), &failingInsertStore{err: sentinel}, testLogger(), validShiftSpec())
	assert.ErrorIs(t, err, sentinel)
}
