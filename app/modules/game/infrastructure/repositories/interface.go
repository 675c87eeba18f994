package gamedb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for game persistence.
type Repository interface {
	// Create inserts a game and fills in its id.
	Create(ctx context.Context, db bun.IDB, game *Game) error

	// GetByID retrieves a game.
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Game, error)

	// GetByIDForUpdate retrieves a game and locks its row for the transaction.
	GetByIDForUpdate(ctx context.Context, db bun.IDB, id int64) (*Game, error)

	// GetActive retrieves the active game, or ErrNoActiveGame.
	GetActive(ctx context.Context, db bun.IDB) (*Game, error)

	// List retrieves games, newest first.
	List(ctx context.Context, db bun.IDB, limit int) ([]Game, error)

	// UpdateScores stores a new score table.
	UpdateScores(ctx context.Context, db bun.IDB, id int64, scores map[int64]int) error

	// Finish marks a game finished.
	Finish(ctx context.Context, db bun.IDB, id int64) error
}
