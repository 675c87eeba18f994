package roundservice

import (
	"context"

	roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"
)

// Service settles rounds and reads them back.
type Service interface {
	// CreateRound settles a declaration and appends it to a game. A zero
	// gameID falls back to req.GameID and then to the active game.
	CreateRound(ctx context.Context, gameID int64, req roundtypes.CreateRoundRequest) (*roundtypes.RoundInfo, error)

	GetRound(ctx context.Context, id int64) (*roundtypes.RoundInfo, error)

	// ListRounds returns a game's rounds in play order. A zero gameID means the active game.
	ListRounds(ctx context.Context, gameID int64) ([]roundtypes.RoundInfo, error)
}
