package roundservice

import (
	"context"
	"maps"
	"slices"
	"sync"

	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/metrics"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repo
// ------------------------

type FakeGameRepo struct {
	trace []string
	games map[int64]*gamedb.Game

	UpdateScoresFunc func(ctx context.Context, db bun.IDB, id int64, scores map[int64]int) error
}

func NewFakeGameRepo(games ...gamedb.Game) *FakeGameRepo {
	f := &FakeGameRepo{trace: []string{}, games: map[int64]*gamedb.Game{}}
	for _, g := range games {
		g.Scores = maps.Clone(g.Scores)
		f.games[g.ID] = &g
	}
	return f
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGameRepo) get(id int64) (*gamedb.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, gamedb.ErrNotFound
	}
	out := *g
	out.PlayerIDs = slices.Clone(g.PlayerIDs)
	out.Scores = maps.Clone(g.Scores)
	return &out, nil
}

func (f *FakeGameRepo) Create(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("Create")
	return nil
}

func (f *FakeGameRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*gamedb.Game, error) {
	f.record("GetByID")
	return f.get(id)
}

func (f *FakeGameRepo) GetByIDForUpdate(ctx context.Context, db bun.IDB, id int64) (*gamedb.Game, error) {
	f.record("GetByIDForUpdate")
	return f.get(id)
}

func (f *FakeGameRepo) GetActive(ctx context.Context, db bun.IDB) (*gamedb.Game, error) {
	f.record("GetActive")
	for id, g := range f.games {
		if g.Active {
			return f.get(id)
		}
	}
	return nil, gamedb.ErrNoActiveGame
}

func (f *FakeGameRepo) List(ctx context.Context, db bun.IDB, limit int) ([]gamedb.Game, error) {
	f.record("List")
	return nil, nil
}

func (f *FakeGameRepo) UpdateScores(ctx context.Context, db bun.IDB, id int64, scores map[int64]int) error {
	f.record("UpdateScores")
	if f.UpdateScoresFunc != nil {
		return f.UpdateScoresFunc(ctx, db, id, scores)
	}
	g, ok := f.games[id]
	if !ok {
		return gamedb.ErrNotFound
	}
	g.Scores = maps.Clone(scores)
	return nil
}

func (f *FakeGameRepo) Finish(ctx context.Context, db bun.IDB, id int64) error {
	f.record("Finish")
	return nil
}

// Scores returns the stored score column of a game.
func (f *FakeGameRepo) Scores(id int64) map[int64]int {
	return maps.Clone(f.games[id].Scores)
}

func (f *FakeGameRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ gamedb.Repository = (*FakeGameRepo)(nil)

// ------------------------
// Fake Round Repo
// ------------------------

type FakeRoundRepo struct {
	trace  []string
	rounds []rounddb.Round

	CreateFunc func(ctx context.Context, db bun.IDB, round *rounddb.Round) error
}

func NewFakeRoundRepo(rounds ...rounddb.Round) *FakeRoundRepo {
	return &FakeRoundRepo{trace: []string{}, rounds: rounds}
}

func (f *FakeRoundRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, round)
	}
	round.ID = int64(len(f.rounds) + 1)
	f.rounds = append(f.rounds, *round)
	return nil
}

func (f *FakeRoundRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*rounddb.Round, error) {
	f.record("GetByID")
	for i := range f.rounds {
		if f.rounds[i].ID == id {
			r := f.rounds[i]
			return &r, nil
		}
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) ListByGame(ctx context.Context, db bun.IDB, gameID int64) ([]rounddb.Round, error) {
	f.record("ListByGame")
	var out []rounddb.Round
	for _, r := range f.rounds {
		if r.GameID == gameID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakeRoundRepo) CountByGame(ctx context.Context, db bun.IDB, gameID int64) (int, error) {
	f.record("CountByGame")
	rounds, _ := f.ListByGame(ctx, db, gameID)
	return len(rounds), nil
}

func (f *FakeRoundRepo) Stored() []rounddb.Round {
	return slices.Clone(f.rounds)
}

func (f *FakeRoundRepo) GetByRequestID(ctx context.Context, db bun.IDB, requestID string) (*rounddb.Round, error) {
	f.record("GetByRequestID")
	for i := range f.rounds {
		if f.rounds[i].RequestID == requestID {
			r := f.rounds[i]
			return &r, nil
		}
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ rounddb.Repository = (*FakeRoundRepo)(nil)

// ------------------------
// Fake Metrics
// ------------------------

// FakeMetrics counts scoring events and ignores the rest.
type FakeMetrics struct {
	metrics.Noop

	mu       sync.Mutex
	Settled  []string
	Rejected []string
}

func (m *FakeMetrics) RecordRoundSettled(_ context.Context, bidName string, _ bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Settled = append(m.Settled, bidName)
}

func (m *FakeMetrics) RecordDeclarationRejected(_ context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rejected = append(m.Rejected, reason)
}

var _ metrics.ScoringMetrics = (*FakeMetrics)(nil)
