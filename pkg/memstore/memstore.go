// Package memstore holds all scheduling state as versioned in-memory
// documents. Every read-validate-write goes through a Mutate method, which
// serializes edits per aggregate id: the mutation function receives a private
// copy, and only a nil return commits it. Multi-aggregate edits lock every
// involved aggregate before applying anything, so a swap exchange is applied
// atomically or not at all.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
)

type shiftDoc struct {
	mu      sync.Mutex
	version int64
	shift   model.VolunteerShift
}

type patternDoc struct {
	mu      sync.Mutex
	version int64
	pattern model.RecurringShiftPattern
}

type slotDoc struct {
	mu      sync.Mutex
	version int64
	slot    model.AvailabilitySlot
}

type swapDoc struct {
	mu      sync.Mutex
	version int64
	request model.ShiftSwapRequest
}

// Store is an in-memory implementation of the persistence interfaces
type Store struct {
	mu       sync.RWMutex
	shifts   map[string]*shiftDoc
	patterns map[string]*patternDoc
	slots    map[string]*slotDoc
	swaps    map[string]*swapDoc
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		shifts:   make(map[string]*shiftDoc),
		patterns: make(map[string]*patternDoc),
		slots:    make(map[string]*slotDoc),
		swaps:    make(map[string]*swapDoc),
	}
}

// GetShift returns a copy of the shift with the given id
func (s *Store) GetShift(ctx context.Context, id string) (*model.VolunteerShift, error) {
	s.mu.RLock()
	doc, ok := s.shifts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("shift", id)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	shift := cloneShift(doc.shift)
	return &shift, nil
}

// ListShifts returns copies of all shifts, ordered by id for determinism
func (s *Store) ListShifts(ctx context.Context) ([]model.VolunteerShift, error) {
	s.mu.RLock()
	docs := make([]*shiftDoc, 0, len(s.shifts))
	for _, doc := range s.shifts {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	shifts := make([]model.VolunteerShift, 0, len(docs))
	for _, doc := range docs {
		doc.mu.Lock()
		shifts = append(shifts, cloneShift(doc.shift))
		doc.mu.Unlock()
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].ID < shifts[j].ID })
	return shifts, nil
}

// InsertShift adds a new shift. Inserting an existing id is a state conflict.
func (s *Store) InsertShift(ctx context.Context, shift *model.VolunteerShift) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.shifts[shift.ID]; exists {
		return errs.NewStateConflict("shift " + shift.ID + " already exists")
	}
	s.shifts[shift.ID] = &shiftDoc{version: 1, shift: cloneShift(*shift)}
	return nil
}

// MutateShift applies fn to a private copy of the shift under the shift's
// serialization lock. A non-nil error from fn aborts the edit unchanged.
func (s *Store) MutateShift(ctx context.Context, id string, fn func(*model.VolunteerShift) error) (*model.VolunteerShift, error) {
	s.mu.RLock()
	doc, ok := s.shifts[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("shift", id)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	working := cloneShift(doc.shift)
	if err := fn(&working); err != nil {
		return nil, err
	}
	doc.shift = working
	doc.version++

	committed := cloneShift(doc.shift)
	return &committed, nil
}

// GetPattern returns a copy of the pattern with the given id
func (s *Store) GetPattern(ctx context.Context, id string) (*model.RecurringShiftPattern, error) {
	s.mu.RLock()
	doc, ok := s.patterns[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("pattern", id)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	pattern := clonePattern(doc.pattern)
	return &pattern, nil
}

// ListPatterns returns copies of all patterns, ordered by id
func (s *Store) ListPatterns(ctx context.Context) ([]model.RecurringShiftPattern, error) {
	s.mu.RLock()
	docs := make([]*patternDoc, 0, len(s.patterns))
	for _, doc := range s.patterns {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	patterns := make([]model.RecurringShiftPattern, 0, len(docs))
	for _, doc := range docs {
		doc.mu.Lock()
		patterns = append(patterns, clonePattern(doc.pattern))
		doc.mu.Unlock()
	}
	sort.Slice(patterns, func(i, j int) bool { return patterns[i].ID < patterns[j].ID })
	return patterns, nil
}

// InsertPattern adds a new pattern
func (s *Store) InsertPattern(ctx context.Context, pattern *model.RecurringShiftPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.patterns[pattern.ID]; exists {
		return errs.NewStateConflict("pattern " + pattern.ID + " already exists")
	}
	s.patterns[pattern.ID] = &patternDoc{version: 1, pattern: clonePattern(*pattern)}
	return nil
}

// MutatePattern applies fn to a private copy of the pattern atomically
func (s *Store) MutatePattern(ctx context.Context, id string, fn func(*model.RecurringShiftPattern) error) (*model.RecurringShiftPattern, error) {
	s.mu.RLock()
	doc, ok := s.patterns[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("pattern", id)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	working := clonePattern(doc.pattern)
	if err := fn(&working); err != nil {
		return nil, err
	}
	doc.pattern = working
	doc.version++

	committed := clonePattern(doc.pattern)
	return &committed, nil
}

// GetSlot returns a copy of the availability slot with the given id
func (s *Store) GetSlot(ctx context.Context, id string) (*model.AvailabilitySlot, error) {
	s.mu.RLock()
	doc, ok := s.slots[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("availability slot", id)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	slot := cloneSlot(doc.slot)
	return &slot, nil
}

// ListSlots returns copies of all availability slots, ordered by id
func (s *Store) ListSlots(ctx context.Context) ([]model.AvailabilitySlot, error) {
	s.mu.RLock()
	docs := make([]*slotDoc, 0, len(s.slots))
	for _, doc := range s.slots {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	slots := make([]model.AvailabilitySlot, 0, len(docs))
	for _, doc := range docs {
		doc.mu.Lock()
		slots = append(slots, cloneSlot(doc.slot))
		doc.mu.Unlock()
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].ID < slots[j].ID })
	return slots, nil
}

// ListSlotsForUser returns copies of the user's availability slots
func (s *Store) ListSlotsForUser(ctx context.Context, userID string) ([]model.AvailabilitySlot, error) {
	all, err := s.ListSlots(ctx)
	if err != nil {
		return nil, err
	}
	slots := make([]model.AvailabilitySlot, 0)
	for _, slot := range all {
		if slot.UserID == userID {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

// InsertSlot adds a new availability slot
func (s *Store) InsertSlot(ctx context.Context, slot *model.AvailabilitySlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.slots[slot.ID]; exists {
		return errs.NewStateConflict("availability slot " + slot.ID + " already exists")
	}
	s.slots[slot.ID] = &slotDoc{version: 1, slot: cloneSlot(*slot)}
	return nil
}

// MutateSlot applies fn to a private copy of the slot atomically
func (s *Store) MutateSlot(ctx context.Context, id string, fn func(*model.AvailabilitySlot) error) (*model.AvailabilitySlot, error) {
	s.mu.RLock()
	doc, ok := s.slots[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("availability slot", id)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	working := cloneSlot(doc.slot)
	if err := fn(&working); err != nil {
		return nil, err
	}
	doc.slot = working
	doc.version++

	committed := cloneSlot(doc.slot)
	return &committed, nil
}

// GetSwapRequest returns a copy of the swap request with the given id
func (s *Store) GetSwapRequest(ctx context.Context, id string) (*model.ShiftSwapRequest, error) {
	s.mu.RLock()
	doc, ok := s.swaps[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("swap request", id)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()
	request := cloneSwapRequest(doc.request)
	return &request, nil
}

// ListSwapRequests returns copies of all swap requests, ordered by id
func (s *Store) ListSwapRequests(ctx context.Context) ([]model.ShiftSwapRequest, error) {
	s.mu.RLock()
	docs := make([]*swapDoc, 0, len(s.swaps))
	for _, doc := range s.swaps {
		docs = append(docs, doc)
	}
	s.mu.RUnlock()

	requests := make([]model.ShiftSwapRequest, 0, len(docs))
	for _, doc := range docs {
		doc.mu.Lock()
		requests = append(requests, cloneSwapRequest(doc.request))
		doc.mu.Unlock()
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].ID < requests[j].ID })
	return requests, nil
}

// InsertSwapRequest adds a new swap request. At most one pending request per
// requester per shift is enforced here so concurrent inserts cannot slip a
// duplicate past the services layer.
func (s *Store) InsertSwapRequest(ctx context.Context, request *model.ShiftSwapRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.swaps[request.ID]; exists {
		return errs.NewStateConflict("swap request " + request.ID + " already exists")
	}
	if request.Status == model.SwapPending {
		for _, doc := range s.swaps {
			doc.mu.Lock()
			duplicate := doc.request.ShiftID == request.ShiftID &&
				doc.request.RequesterID == request.RequesterID &&
				doc.request.Status == model.SwapPending
			doc.mu.Unlock()
			if duplicate {
				return errs.NewStateConflict("user " + request.RequesterID + " already has a pending swap request for shift " + request.ShiftID)
			}
		}
	}
	s.swaps[request.ID] = &swapDoc{version: 1, request: cloneSwapRequest(*request)}
	return nil
}

// MutateSwapRequest applies fn to a private copy of the request atomically
func (s *Store) MutateSwapRequest(ctx context.Context, id string, fn func(*model.ShiftSwapRequest) error) (*model.ShiftSwapRequest, error) {
	s.mu.RLock()
	doc, ok := s.swaps[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewNotFound("swap request", id)
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	working := cloneSwapRequest(doc.request)
	if err := fn(&working); err != nil {
		return nil, err
	}
	doc.request = working
	doc.version++

	committed := cloneSwapRequest(doc.request)
	return &committed, nil
}

// MutateSwapExchange applies fn to private copies of the swap request and
// every named shift under all of their serialization locks. The request lock
// is taken first, then shift locks in ascending id order, which keeps lock
// acquisition deadlock-free across concurrent exchanges. Commit is
// all-or-nothing.
func (s *Store) MutateSwapExchange(ctx context.Context, requestID string, shiftIDs []string, fn func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error) (*model.ShiftSwapRequest, error) {
	s.mu.RLock()
	requestDoc, ok := s.swaps[requestID]
	if !ok {
		s.mu.RUnlock()
		return nil, errs.NewNotFound("swap request", requestID)
	}
	shiftDocs := make(map[string]*shiftDoc, len(shiftIDs))
	for _, id := range shiftIDs {
		doc, ok := s.shifts[id]
		if !ok {
			s.mu.RUnlock()
			return nil, errs.NewNotFound("shift", id)
		}
		shiftDocs[id] = doc
	}
	s.mu.RUnlock()

	orderedIDs := make([]string, 0, len(shiftDocs))
	for id := range shiftDocs {
		orderedIDs = append(orderedIDs, id)
	}
	sort.Strings(orderedIDs)

	requestDoc.mu.Lock()
	defer requestDoc.mu.Unlock()
	for _, id := range orderedIDs {
		shiftDocs[id].mu.Lock()
		defer shiftDocs[id].mu.Unlock()
	}

	workingRequest := cloneSwapRequest(requestDoc.request)
	workingShifts := make(map[string]*model.VolunteerShift, len(orderedIDs))
	for _, id := range orderedIDs {
		shift := cloneShift(shiftDocs[id].shift)
		workingShifts[id] = &shift
	}

	if err := fn(&workingRequest, workingShifts); err != nil {
		return nil, err
	}

	requestDoc.request = workingRequest
	requestDoc.version++
	for _, id := range orderedIDs {
		shiftDocs[id].shift = *workingShifts[id]
		shiftDocs[id].version++
	}

	committed := cloneSwapRequest(requestDoc.request)
	return &committed, nil
}
