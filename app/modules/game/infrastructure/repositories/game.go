package gamedb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound is returned when a game is not found.
	ErrNotFound = errors.New("game not found")

	// ErrNoActiveGame is returned when no game is active.
	ErrNoActiveGame = errors.New("no active game")
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Create inserts a game and fills in its id.
func (r *Impl) Create(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(game).
		ExcludeColumn("id").
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

// GetByID retrieves a game.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Game, error) {
	return r.get(ctx, r.resolveDB(db), id, false)
}

// GetByIDForUpdate retrieves a game and locks its row.
func (r *Impl) GetByIDForUpdate(ctx context.Context, db bun.IDB, id int64) (*Game, error) {
	return r.get(ctx, r.resolveDB(db), id, true)
}

func (r *Impl) get(ctx context.Context, db bun.IDB, id int64, lock bool) (*Game, error) {
	game := new(Game)
	q := db.NewSelect().
		Model(game).
		Where("id = ?", id)
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// GetActive retrieves the active game.
func (r *Impl) GetActive(ctx context.Context, db bun.IDB) (*Game, error) {
	db = r.resolveDB(db)
	game := new(Game)
	err := db.NewSelect().
		Model(game).
		Where("active = TRUE").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveGame
		}
		return nil, fmt.Errorf("failed to get active game: %w", err)
	}
	return game, nil
}

// List retrieves games, newest first.
func (r *Impl) List(ctx context.Context, db bun.IDB, limit int) ([]Game, error) {
	db = r.resolveDB(db)
	var games []Game
	q := db.NewSelect().
		Model(&games).
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// UpdateScores stores a new score table.
func (r *Impl) UpdateScores(ctx context.Context, db bun.IDB, id int64, scores map[int64]int) error {
	db = r.resolveDB(db)
	raw, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("failed to encode game scores: %w", err)
	}
	result, err := db.NewUpdate().
		Model((*Game)(nil)).
		Set("scores = ?::jsonb", string(raw)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update game scores: %w", err)
	}
	return checkAffected(result)
}

// Finish marks a game finished.
func (r *Impl) Finish(ctx context.Context, db bun.IDB, id int64) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Game)(nil)).
		Set("active = FALSE").
		Set("finished_at = ?", time.Now()).
		Where("id = ?", id).
		Where("active = TRUE").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to finish game: %w", err)
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
