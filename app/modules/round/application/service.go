package roundservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/ulti-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/metrics"
	roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/operation"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RoundService implements the Service interface.
type RoundService struct {
	games   gamedb.Repository
	rounds  rounddb.Repository
	catalog *biddingdomain.Catalog
	silent  *biddingdomain.SilentBidCatalog
	logger  *slog.Logger
	metrics metrics.ScoringMetrics
	runner  *operation.Runner
}

// NewRoundService creates a new RoundService.
func NewRoundService(
	games gamedb.Repository,
	rounds rounddb.Repository,
	catalog *biddingdomain.Catalog,
	silent *biddingdomain.SilentBidCatalog,
	logger *slog.Logger,
	m metrics.ScoringMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RoundService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &RoundService{
		games:   games,
		rounds:  rounds,
		catalog: catalog,
		silent:  silent,
		logger:  logger,
		metrics: m,
		runner: &operation.Runner{
			Service: "RoundService",
			Logger:  logger,
			Metrics: m,
			Tracer:  tracer,
			DB:      db,
		},
	}
}

// CreateRound settles a declaration against the game and stores it. The game
// row is locked for the whole transaction so concurrent rounds serialise and
// round numbers stay dense.
func (s *RoundService) CreateRound(ctx context.Context, gameID int64, req roundtypes.CreateRoundRequest) (*roundtypes.RoundInfo, error) {
	if gameID == 0 {
		gameID = req.GameID
	}

	var replayed bool
	info, err := operation.Run(s.runner, ctx, "CreateRound", strconv.FormatInt(gameID, 10), func(ctx context.Context, db bun.IDB) (results.OperationResult[*roundtypes.RoundInfo, error], error) {
		existing, err := s.roundForRequest(ctx, db, req.RequestID)
		if err != nil {
			return results.OperationResult[*roundtypes.RoundInfo, error]{}, err
		}
		if existing != nil {
			replayed = true
			return results.SuccessResult[*roundtypes.RoundInfo, error](existing), nil
		}
		return s.createRoundLogic(ctx, db, gameID, req)
	})
	if err != nil {
		if reason := rejectReason(err); reason != "" {
			s.metrics.RecordDeclarationRejected(ctx, reason)
		}
		return nil, err
	}

	if replayed {
		s.logger.InfoContext(ctx, "Round request already settled",
			attr.ExtractCorrelationID(ctx),
			attr.String("request_id", req.RequestID),
			attr.Int64("round_id", info.ID),
		)
		return info, nil
	}
	s.metrics.RecordRoundSettled(ctx, info.BidName, info.AttackerWon)
	return info, nil
}

// roundForRequest returns the round already stored for requestID, or nil.
func (s *RoundService) roundForRequest(ctx context.Context, db bun.IDB, requestID string) (*roundtypes.RoundInfo, error) {
	if requestID == "" {
		return nil, nil
	}
	round, err := s.rounds.GetByRequestID(ctx, db, requestID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	info := round.Info(s.bidName(round.BidID))
	return &info, nil
}

func (s *RoundService) createRoundLogic(ctx context.Context, db bun.IDB, gameID int64, req roundtypes.CreateRoundRequest) (results.OperationResult[*roundtypes.RoundInfo, error], error) {
	failure := results.FailureResult[*roundtypes.RoundInfo, error]

	row, err := s.lockGame(ctx, db, gameID)
	if err != nil {
		if isMissingGame(err) {
			return failure(err), nil
		}
		return results.OperationResult[*roundtypes.RoundInfo, error]{}, err
	}
	if !row.Active {
		return failure(fmt.Errorf("%w: game %d", gamedomain.ErrGameFinished, row.ID)), nil
	}

	decl, err := BuildDeclaration(s.catalog, s.silent, req)
	if err != nil {
		return failure(err), nil
	}

	history, err := s.rounds.ListByGame(ctx, db, row.ID)
	if err != nil {
		return results.OperationResult[*roundtypes.RoundInfo, error]{}, err
	}
	game, err := gamedomain.Replay(gamedomain.ID(row.ID), toPlayers(row.PlayerIDs), rounddb.ToRecords(history))
	if err != nil {
		return results.OperationResult[*roundtypes.RoundInfo, error]{}, fmt.Errorf("failed to replay game %d: %w", row.ID, err)
	}

	rec, err := rounddomain.Settle(decl)
	if err != nil {
		return failure(err), nil
	}
	next, err := game.Apply(rec)
	if err != nil {
		return failure(err), nil
	}

	round := rounddb.FromSettlement(row.ID, len(history)+1, decl, rec)
	round.RequestID = req.RequestID
	if err := s.rounds.Create(ctx, db, &round); err != nil {
		return results.OperationResult[*roundtypes.RoundInfo, error]{}, err
	}

	scores := make(map[int64]int, len(next.Scores))
	for p, v := range next.Scores {
		scores[int64(p)] = v
	}
	if err := s.games.UpdateScores(ctx, db, row.ID, scores); err != nil {
		return results.OperationResult[*roundtypes.RoundInfo, error]{}, err
	}

	info := round.Info(decl.Bid.DisplayName())
	s.logger.InfoContext(ctx, "Round settled",
		attr.ExtractCorrelationID(ctx),
		attr.GameID(row.ID),
		attr.Int("round_number", round.RoundNumber),
		attr.String("summary", info.Summary),
	)
	return results.SuccessResult[*roundtypes.RoundInfo, error](&info), nil
}

// lockGame resolves and locks the target game. A zero id means the active game.
func (s *RoundService) lockGame(ctx context.Context, db bun.IDB, gameID int64) (*gamedb.Game, error) {
	if gameID == 0 {
		active, err := s.games.GetActive(ctx, db)
		if err != nil {
			return nil, err
		}
		gameID = active.ID
	}
	return s.games.GetByIDForUpdate(ctx, db, gameID)
}

// GetRound returns one stored round.
func (s *RoundService) GetRound(ctx context.Context, id int64) (*roundtypes.RoundInfo, error) {
	return operation.Run(s.runner, ctx, "GetRound", strconv.FormatInt(id, 10), func(ctx context.Context, db bun.IDB) (results.OperationResult[*roundtypes.RoundInfo, error], error) {
		round, err := s.rounds.GetByID(ctx, db, id)
		if err != nil {
			if errors.Is(err, rounddb.ErrNotFound) {
				return results.FailureResult[*roundtypes.RoundInfo, error](err), nil
			}
			return results.OperationResult[*roundtypes.RoundInfo, error]{}, err
		}
		info := round.Info(s.bidName(round.BidID))
		return results.SuccessResult[*roundtypes.RoundInfo, error](&info), nil
	})
}

// ListRounds returns a game's rounds in play order.
func (s *RoundService) ListRounds(ctx context.Context, gameID int64) ([]roundtypes.RoundInfo, error) {
	return operation.Run(s.runner, ctx, "ListRounds", strconv.FormatInt(gameID, 10), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]roundtypes.RoundInfo, error], error) {
		var (
			row *gamedb.Game
			err error
		)
		if gameID == 0 {
			row, err = s.games.GetActive(ctx, db)
		} else {
			row, err = s.games.GetByID(ctx, db, gameID)
		}
		if err != nil {
			if isMissingGame(err) {
				return results.FailureResult[[]roundtypes.RoundInfo, error](err), nil
			}
			return results.OperationResult[[]roundtypes.RoundInfo, error]{}, err
		}

		rows, err := s.rounds.ListByGame(ctx, db, row.ID)
		if err != nil {
			return results.OperationResult[[]roundtypes.RoundInfo, error]{}, err
		}
		out := make([]roundtypes.RoundInfo, 0, len(rows))
		for _, r := range rows {
			out = append(out, r.Info(s.bidName(r.BidID)))
		}
		return results.SuccessResult[[]roundtypes.RoundInfo, error](out), nil
	})
}

func (s *RoundService) bidName(id int) string {
	b, err := s.catalog.FindByID(biddingdomain.BidID(id))
	if err != nil {
		return fmt.Sprintf("#%d", id)
	}
	return b.DisplayName()
}

func isMissingGame(err error) bool {
	return errors.Is(err, gamedb.ErrNotFound) || errors.Is(err, gamedb.ErrNoActiveGame)
}

// IsRejection reports whether err is a declaration the caller must fix rather
// than an infrastructure failure worth retrying.
func IsRejection(err error) bool {
	return rejectReason(err) != ""
}

// rejectReason labels a domain rejection for metrics. Infrastructure errors
// get no label.
func rejectReason(err error) string {
	switch {
	case isMissingGame(err):
		return "no_game"
	case errors.Is(err, gamedomain.ErrGameFinished):
		return "game_finished"
	case errors.Is(err, gamedomain.ErrNotInRoster):
		return "not_in_roster"
	case errors.Is(err, rounddomain.ErrInvalidDeclaration):
		return "invalid_declaration"
	default:
		return ""
	}
}

func toPlayers(ids []int64) []rounddomain.PlayerID {
	out := make([]rounddomain.PlayerID, 0, len(ids))
	for _, id := range ids {
		out = append(out, rounddomain.PlayerID(id))
	}
	return out
}

var _ Service = (*RoundService)(nil)
