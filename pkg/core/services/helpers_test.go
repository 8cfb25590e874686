package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/memstore"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

// seedShift inserts a ready-made open shift and returns it
func seedShift(t *testing.T, store *memstore.Store, shift model.VolunteerShift) model.VolunteerShift {
	t.Helper()
	if shift.Status == "" {
		shift.Status = model.ShiftOpen
	}
	if shift.VolunteersSignedUp == nil {
		shift.VolunteersSignedUp = []string{}
	}
	require.NoError(t, store.InsertShift(context.Background(), &shift))
	return shift
}

func testShift(id string) model.VolunteerShift {
	return model.VolunteerShift{
		ID:               id,
		OrganizerID:      "org-1",
		Title:            "Community kitchen",
		Category:         "food",
		ShiftDate:        "2026-03-07",
		ShiftTime:        model.TimeRange{Start: "09:00", End: "12:00"},
		Location:         model.Location{Name: "Town hall"},
		VolunteersNeeded: 2,
		Status:           model.ShiftOpen,
	}
}

func testLogger() *zap.Logger { return zap.NewNop() }
