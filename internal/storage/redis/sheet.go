// Package redis stores character sheets in Redis as JSON documents with a
// per-user index set.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/spacegothic/internal/game/character"
)

// ErrSheetNotFound is returned when a sheet key does not exist.
var ErrSheetNotFound = errors.New("character sheet not found")

// Options configures a SheetRepository. Zero fields take defaults.
type Options struct {
	// TTL expires saved sheets; zero keeps them forever.
	TTL time.Duration
	// Now returns the creation timestamp of new sheets. Defaults to time.Now in UTC.
	Now func() time.Time
	// NewID returns the ID of new sheets. Defaults to a random UUID.
	NewID func() string
}

// SheetRepository persists character sheets on any Redis topology.
type SheetRepository struct {
	client goredis.UniversalClient
	ttl    time.Duration
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// NewSheetRepository creates a SheetRepository.
//
// Precondition: client and logger must be non-nil; opts.TTL >= 0.
func NewSheetRepository(client goredis.UniversalClient, opts Options, logger *zap.Logger) *SheetRepository {
	if client == nil {
		panic("redis: NewSheetRepository: client must not be nil")
	}
	if opts.TTL < 0 {
		panic("redis: NewSheetRepository: ttl must be >= 0")
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return time.Now().UTC() }
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &SheetRepository{
		client: client,
		ttl:    opts.TTL,
		now:    opts.Now,
		newID:  opts.NewID,
		logger: logger,
	}
}

func sheetKey(id string) string {
	return fmt.Sprintf("sheet:%s", id)
}

func userSheetsKey(userID string) string {
	return fmt.Sprintf("user:%s:sheets", userID)
}

// SaveSheet stores sheet under a new ID and adds it to the user's index in
// one transaction.
//
// Precondition: sheet must be non-nil with a non-empty UserID.
// Postcondition: Returns a copy of sheet with ID and CreatedAt set. On error
// neither the sheet nor the index entry is written.
func (r *SheetRepository) SaveSheet(ctx context.Context, sheet *character.Sheet) (*character.Sheet, error) {
	if sheet == nil {
		return nil, errors.New("sheet must not be nil")
	}
	if sheet.UserID == "" {
		return nil, errors.New("sheet user id must not be empty")
	}
	out := *sheet
	out.ID = r.newID()
	out.CreatedAt = r.now()

	data, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("marshalling sheet: %w", err)
	}
	// MULTI/EXEC so a sheet is never stored without its index entry.
	_, err = r.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, sheetKey(out.ID), string(data), r.ttl)
		pipe.SAdd(ctx, userSheetsKey(out.UserID), out.ID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storing sheet %s: %w", out.ID, err)
	}
	return &out, nil
}

// GetByID retrieves one sheet.
//
// Postcondition: Returns the Sheet or ErrSheetNotFound.
func (r *SheetRepository) GetByID(ctx context.Context, id string) (*character.Sheet, error) {
	if id == "" {
		return nil, errors.New("sheet id must not be empty")
	}
	raw, err := r.client.Get(ctx, sheetKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrSheetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting sheet: %w", err)
	}
	var s character.Sheet
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshalling sheet %s: %w", id, err)
	}
	return &s, nil
}

// ListByUser returns every live sheet of userID, oldest first. Index entries
// whose sheet has expired are pruned.
func (r *SheetRepository) ListByUser(ctx context.Context, userID string) ([]*character.Sheet, error) {
	if userID == "" {
		return nil, errors.New("user id must not be empty")
	}
	ids, err := r.client.SMembers(ctx, userSheetsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("listing sheet ids: %w", err)
	}

	sheets := make([]*character.Sheet, 0, len(ids))
	for _, id := range ids {
		s, err := r.GetByID(ctx, id)
		if errors.Is(err, ErrSheetNotFound) {
			if err := r.client.SRem(ctx, userSheetsKey(userID), id).Err(); err != nil {
				r.logger.Warn("pruning expired sheet", zap.String("sheet_id", id), zap.Error(err))
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, s)
	}
	sort.SliceStable(sheets, func(i, j int) bool {
		return sheets[i].CreatedAt.Before(sheets[j].CreatedAt)
	})
	return sheets, nil
}
