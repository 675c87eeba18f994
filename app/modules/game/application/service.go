package gameservice

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/ulti-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/metrics"
	gametypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/game"
	roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/operation"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// RecentRoundsShown is how many rounds a game view carries.
const RecentRoundsShown = 3

// GameService implements the Service interface.
type GameService struct {
	games     gamedb.Repository
	rounds    rounddb.Repository
	catalog   *biddingdomain.Catalog
	publisher message.Publisher
	logger    *slog.Logger
	metrics   metrics.ScoringMetrics
	runner    *operation.Runner
	palette   ChartPalette
}

// NewGameService creates a new GameService. publisher may be nil, in which
// case lifecycle events are not published.
func NewGameService(
	games gamedb.Repository,
	rounds rounddb.Repository,
	catalog *biddingdomain.Catalog,
	publisher message.Publisher,
	logger *slog.Logger,
	m metrics.ScoringMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &GameService{
		games:     games,
		rounds:    rounds,
		catalog:   catalog,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		runner: &operation.Runner{
			Service: "GameService",
			Logger:  logger,
			Metrics: m,
			Tracer:  tracer,
			DB:      db,
		},
		palette: DefaultPalette,
	}
}

// snapshot is a stored game together with its replayed history.
type snapshot struct {
	row    *gamedb.Game
	game   gamedomain.Game
	rounds []rounddb.Round
}

// load replays a game's rounds. The replayed scores win over the stored
// score column; a mismatch is logged.
func (s *GameService) load(ctx context.Context, db bun.IDB, row *gamedb.Game) (snapshot, error) {
	rounds, err := s.rounds.ListByGame(ctx, db, row.ID)
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to load rounds: %w", err)
	}

	g, err := gamedomain.Replay(gamedomain.ID(row.ID), toPlayers(row.PlayerIDs), rounddb.ToRecords(rounds))
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to replay game %d: %w", row.ID, err)
	}
	if !row.Active {
		g = g.Finish()
	}

	if !maps.Equal(fromScores(g.Scores), row.Scores) {
		s.logger.WarnContext(ctx, "Stored scores differ from round history",
			attr.ExtractCorrelationID(ctx),
			attr.GameID(row.ID),
			attr.Any("stored", row.Scores),
		)
	}

	return snapshot{row: row, game: g, rounds: rounds}, nil
}

// bidName resolves a bid's display name, falling back to its id for rows that
// predate a catalog change.
func (s *GameService) bidName(id int) string {
	b, err := s.catalog.FindByID(biddingdomain.BidID(id))
	if err != nil {
		return fmt.Sprintf("#%d", id)
	}
	return b.DisplayName()
}

func (s *GameService) roundInfos(rows []rounddb.Round) []roundtypes.RoundInfo {
	out := make([]roundtypes.RoundInfo, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Info(s.bidName(r.BidID)))
	}
	return out
}

func (s *GameService) info(snap snapshot) *gametypes.GameInfo {
	recent := snap.rounds[max(len(snap.rounds)-RecentRoundsShown, 0):]
	return &gametypes.GameInfo{
		ID:           snap.row.ID,
		PlayerIDs:    slices.Clone(snap.row.PlayerIDs),
		Scores:       fromScores(snap.game.Scores),
		Standings:    toStandings(snap.game.Standings()),
		Active:       snap.game.Active,
		RoundCount:   snap.game.RoundCount(),
		RecentRounds: s.roundInfos(recent),
		CreatedAt:    snap.row.CreatedAt,
		FinishedAt:   snap.row.FinishedAt,
	}
}

// fromRow builds a game from the stored score column alone.
func fromRow(row *gamedb.Game) (gamedomain.Game, error) {
	g, err := gamedomain.NewGame(gamedomain.ID(row.ID), toPlayers(row.PlayerIDs))
	if err != nil {
		return gamedomain.Game{}, err
	}
	for p, v := range row.Scores {
		g.Scores[rounddomain.PlayerID(p)] = v
	}
	g.Active = row.Active
	return g, nil
}

func toPlayers(ids []int64) []rounddomain.PlayerID {
	out := make([]rounddomain.PlayerID, 0, len(ids))
	for _, id := range ids {
		out = append(out, rounddomain.PlayerID(id))
	}
	return out
}

func fromScores(scores map[rounddomain.PlayerID]int) map[int64]int {
	out := make(map[int64]int, len(scores))
	for p, v := range scores {
		out[int64(p)] = v
	}
	return out
}

func toStandings(rows []gamedomain.Standing) []gametypes.Standing {
	out := make([]gametypes.Standing, 0, len(rows))
	for _, r := range rows {
		out = append(out, gametypes.Standing{Rank: r.Rank, PlayerID: int64(r.PlayerID), Score: r.Score})
	}
	return out
}

var _ Service = (*GameService)(nil)
