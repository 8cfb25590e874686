package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/communityroots/mutualaid/pkg/core/errs"
	"github.com/communityroots/mutualaid/pkg/core/model"
)

const swapTable = "swap_request"

// GetSwapRequest retrieves one swap request by id
func (d *DB) GetSwapRequest(ctx context.Context, id string) (*model.ShiftSwapRequest, error) {
	var request model.ShiftSwapRequest
	if err := d.getDoc(ctx, swapTable, "swap request", id, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// ListSwapRequests retrieves all swap requests ordered by id
func (d *DB) ListSwapRequests(ctx context.Context) ([]model.ShiftSwapRequest, error) {
	docs, err := d.listDocs(ctx, swapTable, "swap request")
	if err != nil {
		return nil, err
	}
	requests := make([]model.ShiftSwapRequest, 0, len(docs))
	for _, raw := range docs {
		var request model.ShiftSwapRequest
		if err := json.Unmarshal(raw, &request); err != nil {
			return nil, fmt.Errorf("failed to decode swap request record: %w", err)
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// InsertSwapRequest stores a new swap request. The partial unique index on
// pending requests rejects a concurrent duplicate by the same requester for
// the same shift.
func (d *DB) InsertSwapRequest(ctx context.Context, request *model.ShiftSwapRequest) error {
	raw, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("failed to encode swap request %s: %w", request.ID, err)
	}

	_, err = d.pool.Exec(ctx, `INSERT INTO swap_request (id, doc) VALUES ($1, $2)`, request.ID, raw)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		if pgErr.ConstraintName == "swap_request_pending_idx" {
			return errs.NewStateConflict(fmt.Sprintf("user %s already has a pending swap request for shift %s", request.RequesterID, request.ShiftID))
		}
		return errs.NewStateConflict("swap request " + request.ID + " already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to insert swap request %s: %w", request.ID, err)
	}
	return nil
}

// MutateSwapRequest applies fn to the request under its row lock
func (d *DB) MutateSwapRequest(ctx context.Context, id string, fn func(*model.ShiftSwapRequest) error) (*model.ShiftSwapRequest, error) {
	var result model.ShiftSwapRequest
	_, err := d.mutateDoc(ctx, swapTable, "swap request", id, func(raw []byte) ([]byte, error) {
		var request model.ShiftSwapRequest
		if err := json.Unmarshal(raw, &request); err != nil {
			return nil, fmt.Errorf("failed to decode swap request %s: %w", id, err)
		}
		if err := fn(&request); err != nil {
			return nil, err
		}
		result = request
		return json.Marshal(request)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// MutateSwapExchange applies fn to the swap request and every named shift in
// one transaction. Rows are locked with SELECT ... FOR UPDATE, the request
// first and then shifts in ascending id order, so concurrent exchanges
// serialize without deadlocking. Either every document commits or none does.
func (d *DB) MutateSwapExchange(ctx context.Context, requestID string, shiftIDs []string, fn func(request *model.ShiftSwapRequest, shifts map[string]*model.VolunteerShift) error) (*model.ShiftSwapRequest, error) {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var rawRequest []byte
	err = tx.QueryRow(ctx, `SELECT doc FROM `+swapTable+` WHERE id = $1 FOR UPDATE`, requestID).Scan(&rawRequest)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.NewNotFound("swap request", requestID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock swap request %s: %w", requestID, err)
	}

	var request model.ShiftSwapRequest
	if err := json.Unmarshal(rawRequest, &request); err != nil {
		return nil, fmt.Errorf("failed to decode swap request %s: %w", requestID, err)
	}

	orderedIDs := make([]string, len(shiftIDs))
	copy(orderedIDs, shiftIDs)
	sort.Strings(orderedIDs)

	shifts := make(map[string]*model.VolunteerShift, len(orderedIDs))
	for _, id := range orderedIDs {
		var raw []byte
		err = tx.QueryRow(ctx, `SELECT doc FROM `+shiftTable+` WHERE id = $1 FOR UPDATE`, id).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NewNotFound("shift", id)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to lock shift %s: %w", id, err)
		}
		var shift model.VolunteerShift
		if err := json.Unmarshal(raw, &shift); err != nil {
			return nil, fmt.Errorf("failed to decode shift %s: %w", id, err)
		}
		shifts[id] = &shift
	}

	if err := fn(&request, shifts); err != nil {
		return nil, err
	}

	updatedRequest, err := json.Marshal(&request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode swap request %s: %w", requestID, err)
	}
	if _, err := tx.Exec(ctx, `UPDATE `+swapTable+` SET doc = $1, version = version + 1 WHERE id = $2`, updatedRequest, requestID); err != nil {
		return nil, fmt.Errorf("failed to update swap request %s: %w", requestID, err)
	}

	for _, id := range orderedIDs {
		raw, err := json.Marshal(shifts[id])
		if err != nil {
			return nil, fmt.Errorf("failed to encode shift %s: %w", id, err)
		}
		if _, err := tx.Exec(ctx, `UPDATE `+shiftTable+` SET doc = $1, version = version + 1 WHERE id = $2`, raw, id); err != nil {
			return nil, fmt.Errorf("failed to update shift %s: %w", id, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit swap exchange: %w", err)
	}
	return &request, nil
}
