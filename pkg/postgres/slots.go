package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

const slotTable = "availability_slot"

// GetSlot retrieves one availability slot by id
func (d *DB) GetSlot(ctx context.Context, id string) (*model.AvailabilitySlot, error) {
	var slot model.AvailabilitySlot
	if err := d.getDoc(ctx, slotTable, "availability slot", id, &slot); err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListSlots retrieves all availability slots ordered by id
func (d *DB) ListSlots(ctx context.Context) ([]model.AvailabilitySlot, error) {
	docs, err := d.listDocs(ctx, slotTable, "availability slot")
	if err != nil {
		return nil, err
	}
	return decodeSlots(docs)
}

// ListSlotsForUser retrieves the availability slots owned by userID
func (d *DB) ListSlotsForUser(ctx context.Context, userID string) ([]model.AvailabilitySlot, error) {
	rows, err := d.pool.Query(ctx, `SELECT doc FROM `+slotTable+` WHERE doc ->> 'UserID' = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability slots for user %s: %w", userID, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan availability slot record: %w", err)
		}
		docs = append(docs, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating availability slot records: %w", err)
	}
	return decodeSlots(docs)
}

// InsertSlot stores a new availability slot
func (d *DB) InsertSlot(ctx context.Context, slot *model.AvailabilitySlot) error {
	return d.insertDoc(ctx, slotTable, "availability slot", slot.ID, slot)
}

// MutateSlot applies fn to the slot under its row lock
func (d *DB) MutateSlot(ctx context.Context, id string, fn func(*model.AvailabilitySlot) error) (*model.AvailabilitySlot, error) {
	var result model.AvailabilitySlot
	_, err := d.mutateDoc(ctx, slotTable, "availability slot", id, func(raw []byte) ([]byte, error) {
		var slot model.AvailabilitySlot
		if err := json.Unmarshal(raw, &slot); err != nil {
			return nil, fmt.Errorf("failed to decode availability slot %s: %w", id, err)
		}
		if err := fn(&slot); err != nil {
			return nil, err
		}
		result = slot
		return json.Marshal(slot)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func decodeSlots(docs [][]byte) ([]model.AvailabilitySlot, error) {
	slots := make([]model.AvailabilitySlot, 0, len(docs))
	for _, raw := range docs {
		var slot model.AvailabilitySlot
		if err := json.Unmarshal(raw, &slot); err != nil {
			return nil, fmt.Errorf("failed to decode availability slot record: %w", err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}
