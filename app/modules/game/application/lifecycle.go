package gameservice

import (
	"context"
	"errors"
	"fmt"

	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	gameevents "github.com/Black-And-White-Club/ulti-bot/pkg/events/game"
	"github.com/Black-And-White-Club/ulti-bot/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	gametypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/game"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/operation"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/results"
	"github.com/uptrace/bun"
)

// CreateGame starts a game for the roster. Only one game may be active.
func (s *GameService) CreateGame(ctx context.Context, req gametypes.CreateGameRequest) (*gametypes.GameInfo, error) {
	info, err := operation.Run(s.runner, ctx, "CreateGame", fmt.Sprint(req.PlayerIDs), func(ctx context.Context, db bun.IDB) (results.OperationResult[*gametypes.GameInfo, error], error) {
		return s.createGameLogic(ctx, db, req)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordGameStarted(ctx, len(info.PlayerIDs))
	s.publishLifecycle(ctx, gameevents.GameStartedV1, info)
	return info, nil
}

func (s *GameService) createGameLogic(ctx context.Context, db bun.IDB, req gametypes.CreateGameRequest) (results.OperationResult[*gametypes.GameInfo, error], error) {
	active, err := s.games.GetActive(ctx, db)
	switch {
	case err == nil:
		return results.FailureResult[*gametypes.GameInfo, error](fmt.Errorf("%w: game %d", ErrActiveGameExists, active.ID)), nil
	case !errors.Is(err, gamedb.ErrNoActiveGame):
		return results.OperationResult[*gametypes.GameInfo, error]{}, fmt.Errorf("failed to check active game: %w", err)
	}

	g, err := gamedomain.NewGame(0, toPlayers(req.PlayerIDs))
	if err != nil {
		return results.FailureResult[*gametypes.GameInfo, error](err), nil
	}

	row := &gamedb.Game{
		PlayerIDs: req.PlayerIDs,
		Scores:    fromScores(g.Scores),
		Active:    true,
	}
	if err := s.games.Create(ctx, db, row); err != nil {
		return results.OperationResult[*gametypes.GameInfo, error]{}, err
	}

	g.ID = gamedomain.ID(row.ID)
	return results.SuccessResult[*gametypes.GameInfo, error](s.info(snapshot{row: row, game: g})), nil
}

// FinishGame closes the active game. Its scores stay readable.
func (s *GameService) FinishGame(ctx context.Context) (*gametypes.GameInfo, error) {
	info, err := operation.Run(s.runner, ctx, "FinishGame", "active", s.finishGameLogic)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordGameFinished(ctx, info.RoundCount)
	s.publishLifecycle(ctx, gameevents.GameFinishedV1, info)
	return info, nil
}

func (s *GameService) finishGameLogic(ctx context.Context, db bun.IDB) (results.OperationResult[*gametypes.GameInfo, error], error) {
	active, err := s.games.GetActive(ctx, db)
	if err != nil {
		if errors.Is(err, gamedb.ErrNoActiveGame) {
			return results.FailureResult[*gametypes.GameInfo, error](err), nil
		}
		return results.OperationResult[*gametypes.GameInfo, error]{}, err
	}

	row, err := s.games.GetByIDForUpdate(ctx, db, active.ID)
	if err != nil {
		return results.OperationResult[*gametypes.GameInfo, error]{}, err
	}
	if !row.Active {
		return results.FailureResult[*gametypes.GameInfo, error](gamedomain.ErrGameFinished), nil
	}

	if err := s.games.Finish(ctx, db, row.ID); err != nil {
		return results.OperationResult[*gametypes.GameInfo, error]{}, err
	}
	row, err = s.games.GetByID(ctx, db, row.ID)
	if err != nil {
		return results.OperationResult[*gametypes.GameInfo, error]{}, err
	}

	snap, err := s.load(ctx, db, row)
	if err != nil {
		return results.OperationResult[*gametypes.GameInfo, error]{}, err
	}
	return results.SuccessResult[*gametypes.GameInfo, error](s.info(snap)), nil
}

func (s *GameService) publishLifecycle(ctx context.Context, topic string, info *gametypes.GameInfo) {
	if s.publisher == nil {
		return
	}
	msg, err := handlerwrapper.NewMessage(ctx, topic, gameevents.GameLifecyclePayloadV1{Game: *info})
	if err == nil {
		err = s.publisher.Publish(topic, msg)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish game event",
			attr.ExtractCorrelationID(ctx),
			attr.String("topic", topic),
			attr.GameID(info.ID),
			attr.Error(err),
		)
	}
}
