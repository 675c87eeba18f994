package gameservice

import (
	"context"

	gametypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/game"
)

// Service manages the game lifecycle and exposes score tables.
type Service interface {
	CreateGame(ctx context.Context, req gametypes.CreateGameRequest) (*gametypes.GameInfo, error)
	GetActiveGame(ctx context.Context) (*gametypes.GameInfo, error)
	GetGame(ctx context.Context, id int64) (*gametypes.GameInfo, error)
	ListGames(ctx context.Context, limit int) ([]gametypes.GameInfo, error)
	FinishGame(ctx context.Context) (*gametypes.GameInfo, error)
	Standings(ctx context.Context, id int64) ([]gametypes.Standing, error)

	// ExportScoresheet renders the game as an XLSX workbook.
	ExportScoresheet(ctx context.Context, id int64) ([]byte, error)

	// ScoreChart renders cumulative scores per round as a PNG.
	ScoreChart(ctx context.Context, id int64) ([]byte, error)
}
