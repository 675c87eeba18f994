package gameservice

import (
	"context"
	"errors"
	"strconv"

	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	gametypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/game"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/operation"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/results"
	"github.com/uptrace/bun"
)

// DefaultListLimit bounds ListGames when the caller passes no limit.
const DefaultListLimit = 20

// GetActiveGame returns the game in progress.
func (s *GameService) GetActiveGame(ctx context.Context) (*gametypes.GameInfo, error) {
	return operation.Run(s.runner, ctx, "GetActiveGame", "active", func(ctx context.Context, db bun.IDB) (results.OperationResult[*gametypes.GameInfo, error], error) {
		return s.snapshotResult(ctx, db, func() (*gamedb.Game, error) { return s.games.GetActive(ctx, db) })
	})
}

// GetGame returns any game, active or finished.
func (s *GameService) GetGame(ctx context.Context, id int64) (*gametypes.GameInfo, error) {
	return operation.Run(s.runner, ctx, "GetGame", strconv.FormatInt(id, 10), func(ctx context.Context, db bun.IDB) (results.OperationResult[*gametypes.GameInfo, error], error) {
		return s.snapshotResult(ctx, db, func() (*gamedb.Game, error) { return s.games.GetByID(ctx, db, id) })
	})
}

// ListGames returns games newest first without their round details.
func (s *GameService) ListGames(ctx context.Context, limit int) ([]gametypes.GameInfo, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return operation.Run(s.runner, ctx, "ListGames", strconv.Itoa(limit), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]gametypes.GameInfo, error], error) {
		rows, err := s.games.List(ctx, db, limit)
		if err != nil {
			return results.OperationResult[[]gametypes.GameInfo, error]{}, err
		}

		out := make([]gametypes.GameInfo, 0, len(rows))
		for i := range rows {
			row := &rows[i]
			n, err := s.rounds.CountByGame(ctx, db, row.ID)
			if err != nil {
				return results.OperationResult[[]gametypes.GameInfo, error]{}, err
			}
			out = append(out, gametypes.GameInfo{
				ID:         row.ID,
				PlayerIDs:  row.PlayerIDs,
				Scores:     row.Scores,
				Standings:  storedStandings(row),
				Active:     row.Active,
				RoundCount: n,
				CreatedAt:  row.CreatedAt,
				FinishedAt: row.FinishedAt,
			})
		}
		return results.SuccessResult[[]gametypes.GameInfo, error](out), nil
	})
}

// Standings returns the ranked score table of a game.
func (s *GameService) Standings(ctx context.Context, id int64) ([]gametypes.Standing, error) {
	info, err := s.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	return info.Standings, nil
}

// snapshotResult loads a game row and replays it. Missing games are domain failures.
func (s *GameService) snapshotResult(ctx context.Context, db bun.IDB, get func() (*gamedb.Game, error)) (results.OperationResult[*gametypes.GameInfo, error], error) {
	row, err := get()
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) || errors.Is(err, gamedb.ErrNoActiveGame) {
			return results.FailureResult[*gametypes.GameInfo, error](err), nil
		}
		return results.OperationResult[*gametypes.GameInfo, error]{}, err
	}

	snap, err := s.load(ctx, db, row)
	if err != nil {
		return results.OperationResult[*gametypes.GameInfo, error]{}, err
	}
	return results.SuccessResult[*gametypes.GameInfo, error](s.info(snap)), nil
}

func storedStandings(row *gamedb.Game) []gametypes.Standing {
	g, err := fromRow(row)
	if err != nil {
		return nil
	}
	return toStandings(g.Standings())
}
