package roundservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/ulti-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories"
	roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func activeGame() gamedb.Game {
	return gamedb.Game{
		ID:        1,
		PlayerIDs: []int64{1, 2, 3, 4},
		Scores:    map[int64]int{1: 0, 2: 0, 3: 0, 4: 0},
		Active:    true,
	}
}

func newTestService(games *FakeGameRepo, rounds *FakeRoundRepo, m *FakeMetrics) *RoundService {
	return NewRoundService(
		games,
		rounds,
		biddingdomain.MustDefaultCatalog(),
		biddingdomain.MustDefaultSilentBids(),
		slog.Default(),
		m,
		nil,
		nil,
	)
}

// ultiParti is bid 5 played by 1 against 2 and 3, with both constituents won.
func ultiParti() roundtypes.CreateRoundRequest {
	return roundtypes.CreateRoundRequest{
		BidID:                 5,
		AttackerID:            1,
		Defender1ID:           2,
		Defender2ID:           int64Ptr(3),
		AttackerWon:           true,
		AttackerWonBidTypeIDs: []int{1, 4},
	}
}

func TestCreateRound(t *testing.T) {
	tests := []struct {
		name        string
		req         func() roundtypes.CreateRoundRequest
		wantDelta   map[int64]int
		wantSummary string
	}{
		{
			name:        "ulti parti won",
			req:         ultiParti,
			wantDelta:   map[int64]int{1: 5, 2: -5, 3: -5},
			wantSummary: "Ulti - Parti: #1 +5, #2 -5, #3 -5",
		},
		{
			name: "ulti parti lost",
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.AttackerWon = false
				return r
			},
			wantDelta: map[int64]int{1: -5, 2: 5, 3: 5},
		},
		{
			name: "kontra by defender 1 on ulti",
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.Contras = []roundtypes.ContraInput{{BidTypeID: 4, Defender1Multiplier: 1}}
				return r
			},
			wantDelta: map[int64]int{1: 9, 2: -9, 3: -5},
		},
		{
			name: "silent durchmars defaults to the attacker",
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.SilentBids = []roundtypes.SilentBidInput{{SilentBidID: 4, AttackerWon: true}}
				return r
			},
			wantDelta: map[int64]int{1: 8, 2: -5, 3: -5},
		},
		{
			name: "silent bid by a defender",
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.SilentBids = []roundtypes.SilentBidInput{{SilentBidID: 1, AttackerWon: false, PlayerID: int64Ptr(3)}}
				return r
			},
			wantDelta: map[int64]int{1: 5, 2: -5, 3: -7},
		},
		{
			name: "two player round",
			req: func() roundtypes.CreateRoundRequest {
				return roundtypes.CreateRoundRequest{
					BidID:                 6,
					AttackerID:            4,
					Defender1ID:           1,
					AttackerWon:           true,
					AttackerWonBidTypeIDs: []int{5},
				}
			},
			wantDelta:   map[int64]int{4: 5, 1: -5},
			wantSummary: "Betli: #4 +5, #1 -5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games := NewFakeGameRepo(activeGame())
			rounds := NewFakeRoundRepo()
			m := &FakeMetrics{}
			svc := newTestService(games, rounds, m)

			got, err := svc.CreateRound(context.Background(), 0, tt.req())
			require.NoError(t, err)

			assert.Equal(t, tt.wantDelta, got.PointDelta)
			assert.Equal(t, 1, got.RoundNumber)
			assert.Equal(t, int64(1), got.GameID)
			assert.Equal(t, string(rounddomain.StatusSettled), got.Status)
			if tt.wantSummary != "" {
				assert.Equal(t, tt.wantSummary, got.Summary)
			}

			want := map[int64]int{1: 0, 2: 0, 3: 0, 4: 0}
			for p, d := range tt.wantDelta {
				want[p] += d
			}
			assert.Equal(t, want, games.Scores(1))
			assert.Len(t, rounds.Stored(), 1)
			assert.Equal(t, []string{"GetActive", "GetByIDForUpdate", "UpdateScores"}, games.Trace())
			assert.Len(t, m.Settled, 1)
			assert.Empty(t, m.Rejected)
		})
	}
}

func TestCreateRoundAccumulates(t *testing.T) {
	games := NewFakeGameRepo(activeGame())
	rounds := NewFakeRoundRepo()
	svc := newTestService(games, rounds, &FakeMetrics{})

	_, err := svc.CreateRound(context.Background(), 1, ultiParti())
	require.NoError(t, err)

	second := roundtypes.CreateRoundRequest{
		BidID:                 1,
		AttackerID:            2,
		Defender1ID:           3,
		Defender2ID:           int64Ptr(4),
		AttackerWon:           true,
		AttackerWonBidTypeIDs: []int{1},
	}
	got, err := svc.CreateRound(context.Background(), 1, second)
	require.NoError(t, err)

	assert.Equal(t, 2, got.RoundNumber)
	assert.Equal(t, map[int64]int{1: 5, 2: -4, 3: -6, 4: -1}, games.Scores(1))

	listed, err := svc.ListRounds(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "Ulti - Parti", listed[0].BidName)
	assert.Equal(t, "Parti", listed[1].BidName)
}

func TestCreateRoundUsesRequestGameID(t *testing.T) {
	other := activeGame()
	other.ID = 2
	other.Active = false
	games := NewFakeGameRepo(activeGame(), other)
	svc := newTestService(games, NewFakeRoundRepo(), &FakeMetrics{})

	req := ultiParti()
	req.GameID = 2
	_, err := svc.CreateRound(context.Background(), 0, req)
	assert.ErrorIs(t, err, gamedomain.ErrGameFinished)
}

func TestCreateRoundRejects(t *testing.T) {
	finished := activeGame()
	finished.Active = false

	tests := []struct {
		name       string
		games      []gamedb.Game
		gameID     int64
		req        func() roundtypes.CreateRoundRequest
		wantErr    error
		wantReason string
	}{
		{
			name:       "no active game",
			req:        ultiParti,
			wantErr:    gamedb.ErrNoActiveGame,
			wantReason: "no_game",
		},
		{
			name:       "unknown game",
			games:      []gamedb.Game{activeGame()},
			gameID:     99,
			req:        ultiParti,
			wantErr:    gamedb.ErrNotFound,
			wantReason: "no_game",
		},
		{
			name:       "finished game",
			games:      []gamedb.Game{finished},
			gameID:     1,
			req:        ultiParti,
			wantErr:    gamedomain.ErrGameFinished,
			wantReason: "game_finished",
		},
		{
			name:  "unknown bid",
			games: []gamedb.Game{activeGame()},
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.BidID = 77
				return r
			},
			wantErr:    rounddomain.ErrInvalidDeclaration,
			wantReason: "invalid_declaration",
		},
		{
			name:  "unknown silent bid",
			games: []gamedb.Game{activeGame()},
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.SilentBids = []roundtypes.SilentBidInput{{SilentBidID: 9}}
				return r
			},
			wantErr:    rounddomain.ErrInvalidDeclaration,
			wantReason: "invalid_declaration",
		},
		{
			name:  "won bid type outside the bid",
			games: []gamedb.Game{activeGame()},
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.AttackerWonBidTypeIDs = []int{5}
				return r
			},
			wantErr:    rounddomain.ErrInvalidDeclaration,
			wantReason: "invalid_declaration",
		},
		{
			name:  "multiplier out of range",
			games: []gamedb.Game{activeGame()},
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.Contras = []roundtypes.ContraInput{{BidTypeID: 1, Defender1Multiplier: 6}}
				return r
			},
			wantErr:    rounddomain.ErrInvalidDeclaration,
			wantReason: "invalid_declaration",
		},
		{
			name:  "player not on the roster",
			games: []gamedb.Game{activeGame()},
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.Defender2ID = int64Ptr(9)
				return r
			},
			wantErr:    gamedomain.ErrNotInRoster,
			wantReason: "not_in_roster",
		},
		{
			name: "three player game without defender 2",
			games: []gamedb.Game{{
				ID:        1,
				PlayerIDs: []int64{1, 2, 3},
				Scores:    map[int64]int{1: 0, 2: 0, 3: 0},
				Active:    true,
			}},
			req: func() roundtypes.CreateRoundRequest {
				r := ultiParti()
				r.Defender2ID = nil
				return r
			},
			wantErr:    rounddomain.ErrInvalidDeclaration,
			wantReason: "invalid_declaration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			games := NewFakeGameRepo(tt.games...)
			rounds := NewFakeRoundRepo()
			m := &FakeMetrics{}
			svc := newTestService(games, rounds, m)

			got, err := svc.CreateRound(context.Background(), tt.gameID, tt.req())

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
			assert.Empty(t, rounds.Stored())
			assert.NotContains(t, games.Trace(), "UpdateScores")
			assert.Equal(t, []string{tt.wantReason}, m.Rejected)
			assert.Empty(t, m.Settled)
		})
	}
}

func TestCreateRoundRequestIDIsIdempotent(t *testing.T) {
	games := NewFakeGameRepo(activeGame())
	rounds := NewFakeRoundRepo()
	m := &FakeMetrics{}
	svc := newTestService(games, rounds, m)

	req := ultiParti()
	req.RequestID = "msg-1"

	first, err := svc.CreateRound(context.Background(), 0, req)
	require.NoError(t, err)
	again, err := svc.CreateRound(context.Background(), 0, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 1, again.RoundNumber)
	assert.Equal(t, "msg-1", again.RequestID)
	assert.Equal(t, first.PointDelta, again.PointDelta)
	assert.Len(t, rounds.Stored(), 1)
	assert.Equal(t, map[int64]int{1: 5, 2: -5, 3: -5, 4: 0}, games.Scores(1))
	assert.Equal(t, []string{"Ulti - Parti"}, m.Settled)
	assert.Equal(t, []string{"GetByRequestID", "ListByGame", "Create", "GetByRequestID"}, rounds.Trace())

	other := ultiParti()
	other.RequestID = "msg-2"
	third, err := svc.CreateRound(context.Background(), 0, other)
	require.NoError(t, err)
	assert.Equal(t, 2, third.RoundNumber)
	assert.Equal(t, map[int64]int{1: 10, 2: -10, 3: -10, 4: 0}, games.Scores(1))
}

func TestCreateRoundInfrastructureError(t *testing.T) {
	games := NewFakeGameRepo(activeGame())
	games.UpdateScoresFunc = func(ctx context.Context, db bun.IDB, id int64, scores map[int64]int) error {
		return errors.New("deadlock detected")
	}
	m := &FakeMetrics{}
	svc := newTestService(games, NewFakeRoundRepo(), m)

	_, err := svc.CreateRound(context.Background(), 0, ultiParti())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "CreateRound")
	assert.NotErrorIs(t, err, rounddomain.ErrInvalidDeclaration)
	assert.Empty(t, m.Rejected)
	assert.Empty(t, m.Settled)
}

func TestGetRound(t *testing.T) {
	stored := rounddb.Round{
		ID: 1, GameID: 1, RoundNumber: 1, BidID: 2,
		AttackerID: 1, Defender1ID: 2, Defender2ID: int64Ptr(3),
		AttackerWon: true, WonBidTypeIDs: []int{1},
		PointDelta: map[int64]int{1: 1, 2: -1, 3: -1},
		Status:     string(rounddomain.StatusSettled),
	}
	svc := newTestService(NewFakeGameRepo(activeGame()), NewFakeRoundRepo(stored), &FakeMetrics{})

	got, err := svc.GetRound(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Piros Parti", got.BidName)
	assert.Equal(t, 1, got.AttackerPoints)
	require.NotNil(t, got.Defender2Points)
	assert.Equal(t, -1, *got.Defender2Points)

	_, err = svc.GetRound(context.Background(), 2)
	assert.ErrorIs(t, err, rounddb.ErrNotFound)
}

func TestListRoundsActiveGame(t *testing.T) {
	svc := newTestService(NewFakeGameRepo(), NewFakeRoundRepo(), &FakeMetrics{})

	_, err := svc.ListRounds(context.Background(), 0)
	assert.ErrorIs(t, err, gamedb.ErrNoActiveGame)

	svc = newTestService(NewFakeGameRepo(activeGame()), NewFakeRoundRepo(), &FakeMetrics{})
	got, err := svc.ListRounds(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func int64Ptr(v int64) *int64 { return &v }
