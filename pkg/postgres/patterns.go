package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/communityroots/mutualaid/pkg/core/model"
)

const patternTable = "recurring_pattern"

// GetPattern retrieves one recurring shift pattern by id
func (d *DB) GetPattern(ctx context.Context, id string) (*model.RecurringShiftPattern, error) {
	var pattern model.RecurringShiftPattern
	if err := d.getDoc(ctx, patternTable, "pattern", id, &pattern); err != nil {
		return nil, err
	}
	return &pattern, nil
}

// ListPatterns retrieves all recurring shift patterns ordered by id
func (d *DB) ListPatterns(ctx context.Context) ([]model.RecurringShiftPattern, error) {
	docs, err := d.listDocs(ctx, patternTable, "pattern")
	if err != nil {
		return nil, err
	}
	patterns := make([]model.RecurringShiftPattern, 0, len(docs))
	for _, raw := range docs {
		var pattern model.RecurringShiftPattern
		if err := json.Unmarshal(raw, &pattern); err != nil {
			return nil, fmt.Errorf("failed to decode pattern record: %w", err)
		}
		patterns = append(patterns, pattern)
	}
	return patterns, nil
}

// InsertPattern stores a new recurring shift pattern
func (d *DB) InsertPattern(ctx context.Context, pattern *model.RecurringShiftPattern) error {
	return d.insertDoc(ctx, patternTable, "pattern", pattern.ID, pattern)
}

// MutatePattern applies fn to the pattern under its row lock
func (d *DB) MutatePattern(ctx context.Context, id string, fn func(*model.RecurringShiftPattern) error) (*model.RecurringShiftPattern, error) {
	var result model.RecurringShiftPattern
	_, err := d.mutateDoc(ctx, patternTable, "pattern", id, func(raw []byte) ([]byte, error) {
		var pattern model.RecurringShiftPattern
		if err := json.Unmarshal(raw, &pattern); err != nil {
			return nil, fmt.Errorf("failed to decode pattern %s: %w", id, err)
		}
		if err := fn(&pattern); err != nil {
			return nil, err
		}
		result = pattern
		return json.Marshal(pattern)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
