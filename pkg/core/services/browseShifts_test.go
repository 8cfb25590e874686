package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
	"github.com/communityroots/mutualaid/pkg/memstore"
)

func TestBrowseOpenShifts(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	later := testShift("s1")
	later.ShiftDate = "2026-03-14"
	seedShift(t, store, later)

	earlier := testShift("s2")
	earlier.ShiftDate = "2026-03-07"
	seedShift(t, store, earlier)

	filled := testShift("s3")
	filled.Status = model.ShiftFilled
	seedShift(t, store, filled)

	gardening := testShift("s4")
	gardening.Category = "gardening"
	gardening.ShiftDate = "2026-03-10"
	seedShift(t, store, gardening)

	// No filters: every open shift, earliest first
	shifts, err := BrowseOpenShifts(ctx, store, testLogger(), BrowseFilters{})
	require.NoError(t, err)
	require.Len(t, shifts, 3)
	assert.Equal(t, "s2", shifts[0].ID)
	assert.Equal(t, "s4", shifts[1].ID)
	assert.Equal(t, "s1", shifts[2].ID)

	// Category filter is case-insensitive
	shifts, err = BrowseOpenShifts(ctx, store, testLogger(), BrowseFilters{Category: "Gardening"})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "s4", shifts[0].ID)

	// Date window is inclusive at both ends
	shifts, err = BrowseOpenShifts(ctx, store, testLogger(), BrowseFilters{From: "2026-03-07", To: "2026-03-10"})
	require.NoError(t, err)
	require.Len(t, shifts, 2)
	assert.Equal(t, "s2", shifts[0].ID)
	assert.Equal(t, "s4", shifts[1].ID)
}

func TestBrowseOpenShifts_InvalidBounds(t *testing.T) {
	_, err := BrowseOpenShifts(context.Background(), memstore.New(), testLogger(), BrowseFilters{From: "yesterday"})
	assert.True(t, errs.IsValidation(err))

	_, err = BrowseOpenShifts(context.Background(), memstore.New(), testLogger(), BrowseFilters{To: "2026/03/07"})
	assert.True(t, errs.IsValidation(err))
}

func TestFindPotentialSwapPartners(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()

	source := testShift("source")
	source.VolunteersSignedUp = []string{"alice"}
	seedShift(t, store, source)

	candidate := testShift("candidate")
	candidate.ShiftDate = "2026-03-14"
	candidate.VolunteersSignedUp = []string{"bob"}
	seedShift(t, store, candidate)

	earlierCandidate := testShift("earlier")
	earlierCandidate.ShiftDate = "2026-03-01"
	earlierCandidate.Status = model.ShiftFilled
	earlierCandidate.VolunteersSignedUp = []string{"carol", "dave"}
	seedShift(t, store, earlierCandidate)

	wrongCategory := testShift("wrong-category")
	wrongCategory.Category = "gardening"
	wrongCategory.VolunteersSignedUp = []string{"erin"}
	seedShift(t, store, wrongCategory)

	empty := testShift("empty")
	seedShift(t, store, empty)

	closed := testShift("closed")
	closed.Status = model.ShiftCompleted
	closed.VolunteersSignedUp = []string{"frank"}
	seedShift(t, store, closed)

	withRequester := testShift("with-requester")
	withRequester.VolunteersSignedUp = []string{"alice", "bob"}
	seedShift(t, store, withRequester)

	partners, err := FindPotentialSwapPartners(ctx, store, testLogger(), "source", "alice")
	require.NoError(t, err)
	require.Len(t, partners, 2)
	assert.Equal(t, "earlier", partners[0].ID, "sorted by shift date ascending")
	assert.Equal(t, "candidate", partners[1].ID)
}

func TestFindPotentialSwapPartners_MissingSource(t *testing.T) {
	_, err := FindPotentialSwapPartners(context.Background(), memstore.New(), testLogger(), "ghost", "alice")
	assert.True(t, errs.IsNotFound(err))
}
