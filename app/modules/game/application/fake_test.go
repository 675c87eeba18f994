package gameservice

import (
	"context"
	"maps"
	"slices"
	"time"

	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repo
// ------------------------

// FakeGameRepo keeps games in memory unless a Func override is set.
type FakeGameRepo struct {
	trace  []string
	games  map[int64]*gamedb.Game
	nextID int64

	CreateFunc           func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	GetByIDFunc          func(ctx context.Context, db bun.IDB, id int64) (*gamedb.Game, error)
	GetByIDForUpdateFunc func(ctx context.Context, db bun.IDB, id int64) (*gamedb.Game, error)
	GetActiveFunc        func(ctx context.Context, db bun.IDB) (*gamedb.Game, error)
	ListFunc             func(ctx context.Context, db bun.IDB, limit int) ([]gamedb.Game, error)
	UpdateScoresFunc     func(ctx context.Context, db bun.IDB, id int64, scores map[int64]int) error
	FinishFunc           func(ctx context.Context, db bun.IDB, id int64) error
}

func NewFakeGameRepo() *FakeGameRepo {
	return &FakeGameRepo{
		trace: []string{},
		games: map[int64]*gamedb.Game{},
	}
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// Seed stores a game as-is.
func (f *FakeGameRepo) Seed(g gamedb.Game) {
	f.games[g.ID] = &g
	f.nextID = max(f.nextID, g.ID)
}

func (f *FakeGameRepo) copyOf(id int64) (*gamedb.Game, error) {
	g, ok := f.games[id]
	if !ok {
		return nil, gamedb.ErrNotFound
	}
	out := *g
	out.PlayerIDs = slices.Clone(g.PlayerIDs)
	out.Scores = maps.Clone(g.Scores)
	return &out, nil
}

// --- Repository Interface Implementation ---

func (f *FakeGameRepo) Create(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, game)
	}
	f.nextID++
	game.ID = f.nextID
	game.CreatedAt = time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC)
	f.Seed(*game)
	return nil
}

func (f *FakeGameRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*gamedb.Game, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	return f.copyOf(id)
}

func (f *FakeGameRepo) GetByIDForUpdate(ctx context.Context, db bun.IDB, id int64) (*gamedb.Game, error) {
	f.record("GetByIDForUpdate")
	if f.GetByIDForUpdateFunc != nil {
		return f.GetByIDForUpdateFunc(ctx, db, id)
	}
	return f.copyOf(id)
}

func (f *FakeGameRepo) GetActive(ctx context.Context, db bun.IDB) (*gamedb.Game, error) {
	f.record("GetActive")
	if f.GetActiveFunc != nil {
		return f.GetActiveFunc(ctx, db)
	}
	for id, g := range f.games {
		if g.Active {
			return f.copyOf(id)
		}
	}
	return nil, gamedb.ErrNoActiveGame
}

func (f *FakeGameRepo) List(ctx context.Context, db bun.IDB, limit int) ([]gamedb.Game, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db, limit)
	}
	ids := slices.Sorted(maps.Keys(f.games))
	slices.Reverse(ids)
	out := []gamedb.Game{}
	for _, id := range ids {
		if len(out) == limit {
			break
		}
		g, _ := f.copyOf(id)
		out = append(out, *g)
	}
	return out, nil
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
	if f.FinishFunc != nil {
		return f.FinishFunc(ctx, db, id)
	}
	g, ok := f.games[id]
	if !ok || !g.Active {
		return gamedb.ErrNotFound
	}
	now := time.Date(2026, 10, 1, 23, 0, 0, 0, time.UTC)
	g.Active = false
	g.FinishedAt = &now
	return nil
}

// --- Accessors for assertions ---

func (f *FakeGameRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ gamedb.Repository = (*FakeGameRepo)(nil)

// ------------------------
// Fake Round Repo
// ------------------------

// FakeRoundRepo keeps rounds in memory unless a Func override is set.
type FakeRoundRepo struct {
	trace  []string
	rounds []rounddb.Round

	ListByGameFunc  func(ctx context.Context, db bun.IDB, gameID int64) ([]rounddb.Round, error)
	CountByGameFunc func(ctx context.Context, db bun.IDB, gameID int64) (int, error)
}

func NewFakeRoundRepo(rounds ...rounddb.Round) *FakeRoundRepo {
	return &FakeRoundRepo{trace: []string{}, rounds: rounds}
}

func (f *FakeRoundRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRoundRepo) Create(ctx context.Context, db bun.IDB, round *rounddb.Round) error {
	f.record("Create")
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
	if f.ListByGameFunc != nil {
		return f.ListByGameFunc(ctx, db, gameID)
	}
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
	if f.CountByGameFunc != nil {
		return f.CountByGameFunc(ctx, db, gameID)
	}
	rounds, _ := f.ListByGame(ctx, db, gameID)
	return len(rounds), nil
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
// Fake Publisher
// ------------------------

type FakePublisher struct {
	Published map[string][]*message.Message
	Err       error
}

func NewFakePublisher() *FakePublisher {
	return &FakePublisher{Published: map[string][]*message.Message{}}
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	if p.Err != nil {
		return p.Err
	}
	p.Published[topic] = append(p.Published[topic], messages...)
	return nil
}

func (p *FakePublisher) Close() error { return nil }

var _ message.Publisher = (*FakePublisher)(nil)
