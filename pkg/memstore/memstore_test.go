package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
)

func newShift(id string, volunteers ...string) *model.VolunteerShift {
	return &model.VolunteerShift{
		ID:                 id,
		OrganizerID:        "org-1",
		Title:              "Food bank shift",
		ShiftDate:          "2026-03-07",
		ShiftTime:          model.TimeRange{Start: "09:00", End: "12:00"},
		VolunteersNeeded:   3,
		VolunteersSignedUp: volunteers,
		Status:             model.ShiftOpen,
	}
}

func TestInsertAndGetShift(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertShift(ctx, newShift("s1", "alice")))

	got, err := store.GetShift(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, []string{"alice"}, got.VolunteersSignedUp)

	// Duplicate insert conflicts
	err = store.InsertShift(ctx, newShift("s1"))
	assert.True(t, errs.IsStateConflict(err))

	_, err = store.GetShift(ctx, "missing")
	assert.True(t, errs.IsNotFound(err))
}

func TestGetShift_ReturnsCopy(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertShift(ctx, newShift("s1", "alice")))

	got, err := store.GetShift(ctx, "s1")
	require.NoError(t, err)
	got.VolunteersSignedUp[0] = "mallory"
	got.Title = "changed"

	fresh, err := store.GetShift(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, fresh.VolunteersSignedUp)
	assert.Equal(t, "Food bank shift", fresh.Title)
}

func TestMutateShift(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertShift(ctx, newShift("s1")))

	updated, err := store.MutateShift(ctx, "s1", func(shift *model.VolunteerShift) error {
		shift.VolunteersSignedUp = append(shift.VolunteersSignedUp, "bob")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, updated.VolunteersSignedUp)

	// A failing mutation leaves the document untouched
	sentinel := errors.New("nope")
	_, err = store.MutateShift(ctx, "s1", func(shift *model.VolunteerShift) error {
		shift.VolunteersSignedUp = nil
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	got, err := store.GetShift(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, got.VolunteersSignedUp)
}

func TestMutateShift_VersionIncrements(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertShift(ctx, newShift("s1")))
	assert.Equal(t, int64(1), store.shifts["s1"].version)

	_, err := store.MutateShift(ctx, "s1", func(shift *model.VolunteerShift) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, int64(2), store.shifts["s1"].version)

	// Aborted mutations do not bump the version
	_, err = store.MutateShift(ctx, "s1", func(shift *model.VolunteerShift) error {
		return errors.New("abort")
	})
	require.Error(t, err)
	assert.Equal(t, int64(2), store.shifts["s1"].version)
}

func TestMutateShift_ConcurrentAppends(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertShift(ctx, newShift("s1")))

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.MutateShift(ctx, "s1", func(shift *model.VolunteerShift) error {
				shift.VolunteersNeeded++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.GetShift(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3+workers, got.VolunteersNeeded)
	assert.Equal(t, int64(1+workers), store.shifts["s1"].version)
}

func TestListShifts_SortedByID(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertShift(ctx, newShift("s3")))
	require.NoError(t, store.InsertShift(ctx, newShift("s1")))
	require.NoError(t, store.InsertShift(ctx, newShift("s2")))

	shifts, err := store.ListShifts(ctx)
	require.NoError(t, err)
	require.Len(t, shifts, 3)
	assert.Equal(t, "s1", shifts[0].ID)
	assert.Equal(t, "s2", shifts[1].ID)
	assert.Equal(t, "s3", shifts[2].ID)
}

func TestListSlotsForUser(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertSlot(ctx, &model.AvailabilitySlot{ID: "a1", UserID: "alice", MaxBookings: 1, Active: true}))
	require.NoError(t, store.InsertSlot(ctx, &model.AvailabilitySlot{ID: "a2", UserID: "bob", MaxBookings: 1, Active: true}))
	require.NoError(t, store.InsertSlot(ctx, &model.AvailabilitySlot{ID: "a3", UserID: "alice", MaxBookings: 1, Active: true}))

	slots, err := store.ListSlotsForUser(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "a1", slots[0].ID)
	assert.Equal(t, "a3", slots[1].ID)

	slots, err = store.ListSlotsForUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestInsertSwapRequest_DuplicatePendingConflicts(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertSwapRequest(ctx, &model.ShiftSwapRequest{
		ID: "r1", ShiftID: "s1", RequesterID: "alice", Status: model.SwapPending,
	}))

	// Same requester, same shift, still pending
	err := store.InsertSwapRequest(ctx, &model.ShiftSwapRequest{
		ID: "r2", ShiftID: "s1", RequesterID: "alice", Status: model.SwapPending,
	})
	assert.True(t, errs.IsStateConflict(err))

	// A different requester on the same shift is fine
	require.NoError(t, store.InsertSwapRequest(ctx, &model.ShiftSwapRequest{
		ID: "r3", ShiftID: "s1", RequesterID: "bob", Status: model.SwapPending,
	}))

	// Once the first request is resolved the requester may open another
	_, err = store.MutateSwapRequest(ctx, "r1", func(request *model.ShiftSwapRequest) error {
		request.Status = model.SwapCancelled
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, store.InsertSwapRequest(ctx, &model.ShiftSwapRequest{
		ID: "r4", ShiftID: "s1", RequesterID: "alice", Status: model.SwapPending,
	}))
}

func TestMutateSwapExchange_CommitsAllOrNothing(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertShift(ctx, newShift("s1", "alice")))
	require.NoError(t, store.InsertShift(ctx, newShift("s2", "bob")))
	require.NoError(t, store.InsertSwapRequest(ctx, &model.ShiftSwapRequest{
		ID:          "r1",
		ShiftID:     "s1",
		RequesterID: "alice",
		Status:      model.SwapPending,
	}))

	// A failing exchange leaves both shifts and the request untouched
	sentinel := errors.New("validation failed")
	_, err := store.MutateSwapExchange(ctx, "r1", []string{"s1", "s2"}, func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error {
		shifts["s1"].VolunteersSignedUp = []string{"bob"}
		shifts["s2"].VolunteersSignedUp = []string{"alice"}
		request.Status = model.SwapCompleted
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	s1, err := store.GetShift(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, s1.VolunteersSignedUp)
	r1, err := store.GetSwapRequest(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, model.SwapPending, r1.Status)

	// A successful exchange commits everything
	committed, err := store.MutateSwapExchange(ctx, "r1", []string{"s1", "s2"}, func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error {
		shifts["s1"].VolunteersSignedUp = []string{"bob"}
		shifts["s2"].VolunteersSignedUp = []string{"alice"}
		request.Status = model.SwapCompleted
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.SwapCompleted, committed.Status)

	s1, err = store.GetShift(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, s1.VolunteersSignedUp)
	s2, err := store.GetShift(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, s2.VolunteersSignedUp)
}

func TestMutateSwapExchange_MissingShift(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertSwapRequest(ctx, &model.ShiftSwapRequest{
		ID:     "r1",
		Status: model.SwapPending,
	}))

	_, err := store.MutateSwapExchange(ctx, "r1", []string{"ghost"}, func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error {
		return nil
	})
	assert.True(t, errs.IsNotFound(err))
}

func TestMutateSwapExchange_ConcurrentExchangesDoNotDeadlock(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.InsertShift(ctx, newShift("s1", "alice")))
	require.NoError(t, store.InsertShift(ctx, newShift("s2", "bob")))
	require.NoError(t, store.InsertSwapRequest(ctx, &model.ShiftSwapRequest{ID: "r1", ShiftID: "s1", RequesterID: "alice", Status: model.SwapPending}))
	require.NoError(t, store.InsertSwapRequest(ctx, &model.ShiftSwapRequest{ID: "r2", ShiftID: "s2", RequesterID: "bob", Status: model.SwapPending}))

	// Two exchanges over the same pair of shifts, named in opposite orders.
	// Sorted lock acquisition means both finish.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := store.MutateSwapExchange(ctx, "r1", []string{"s1", "s2"}, func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error {
			return nil
		})
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := store.MutateSwapExchange(ctx, "r2", []string{"s2", "s1"}, func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error {
			return nil
		})
		assert.NoError(t, err)
	}()
	wg.Wait()
}
