package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a round is not found.
var ErrNotFound = errors.New("round not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a settled round and fills in its id.
func (r *Impl) Create(ctx context.Context, db bun.IDB, round *Round) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(round).
		ExcludeColumn("id").
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

// GetByID retrieves a round.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

// ListByGame retrieves a game's rounds in play order.
func (r *Impl) ListByGame(ctx context.Context, db bun.IDB, gameID int64) ([]Round, error) {
	db = r.resolveDB(db)
	var rounds []Round
	err := db.NewSelect().
		Model(&rounds).
		Where("game_id = ?", gameID).
		Order("round_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rounds: %w", err)
	}
	return rounds, nil
}

// CountByGame returns how many rounds a game has.
func (r *Impl) CountByGame(ctx context.Context, db bun.IDB, gameID int64) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().
		Model((*Round)(nil)).
		Where("game_id = ?", gameID).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count rounds: %w", err)
	}
	return n, nil
}

// GetByRequestID retrieves the round created for a client request id.
func (r *Impl) GetByRequestID(ctx context.Context, db bun.IDB, requestID string) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Where("request_id = ?", requestID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round by request id: %w", err)
	}
	return round, nil
}
