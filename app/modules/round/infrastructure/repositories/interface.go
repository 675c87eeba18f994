package rounddb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for round persistence.
type Repository interface {
	// Create inserts a settled round and fills in its id.
	Create(ctx context.Context, db bun.IDB, round *Round) error

	// GetByID retrieves a round.
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Round, error)

	// ListByGame retrieves a game's rounds in play order.
	ListByGame(ctx context.Context, db bun.IDB, gameID int64) ([]Round, error)

	// CountByGame returns how many rounds a game has.
	CountByGame(ctx context.Context, db bun.IDB, gameID int64) (int, error)

	// GetByRequestID retrieves the round created for a client request id.
	GetByRequestID(ctx context.Context, db bun.IDB, requestID string) (*Round, error)
}
