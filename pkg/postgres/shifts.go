package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

const shiftTable = "volunteer_shift"

// GetShift retrieves one volunteer shift by id
func (d *DB) GetShift(ctx context.Context, id string) (*model.VolunteerShift, error) {
	var shift model.VolunteerShift
	if err := d.getDoc(ctx, shiftTable, "shift", id, &shift); err != nil {
		return nil, err
	}
	return &shift, nil
}

// ListShifts retrieves all volunteer shifts ordered by id
func (d *DB) ListShifts(ctx context.Context) ([]model.VolunteerShift, error) {
	docs, err := d.listDocs(ctx, shiftTable, "shift")
	if err != nil {
		return nil, err
	}
	shifts := make([]model.VolunteerShift, 0, len(docs))
	for _, raw := range docs {
		var shift model.VolunteerShift
		if err := json.Unmarshal(raw, &shift); err != nil {
			return nil, fmt.Errorf("failed to decode shift record: %w", err)
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

// InsertShift stores a new volunteer shift
func (d *DB) InsertShift(ctx context.Context, shift *model.VolunteerShift) error {
	return d.insertDoc(ctx, shiftTable, "shift", shift.ID, shift)
}

// MutateShift applies fn to the shift under its row lock
func (d *DB) MutateShift(ctx context.Context, id string, fn func(*model.VolunteerShift) error) (*model.VolunteerShift, error) {
	var result model.VolunteerShift
	_, err := d.mutateDoc(ctx, shiftTable, "shift", id, func(raw []byte) ([]byte, error) {
		var shift model.VolunteerShift
		if err := json.Unmarshal(raw, &shift); err != nil {
			return nil, fmt.Errorf("failed to decode shift %s: %w", id, err)
		}
		if err := fn(&shift); err != nil {
			return nil, err
		}
		result = shift
		return json.Marshal(shift)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
