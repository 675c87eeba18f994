package gamehandlers

import (
	"context"

	gameservice "github.com/Black-And-White-Club/ulti-bot/app/modules/game/application"
	gametypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/game"
)

// FakeGameService records calls and delegates to the Func fields.
type FakeGameService struct {
	trace []string

	CreateGameFunc       func(ctx context.Context, req gametypes.CreateGameRequest) (*gametypes.GameInfo, error)
	GetActiveGameFunc    func(ctx context.Context) (*gametypes.GameInfo, error)
	GetGameFunc          func(ctx context.Context, id int64) (*gametypes.GameInfo, error)
	ListGamesFunc        func(ctx context.Context, limit int) ([]gametypes.GameInfo, error)
	FinishGameFunc       func(ctx context.Context) (*gametypes.GameInfo, error)
	StandingsFunc        func(ctx context.Context, id int64) ([]gametypes.Standing, error)
	ExportScoresheetFunc func(ctx context.Context, id int64) ([]byte, error)
	ScoreChartFunc       func(ctx context.Context, id int64) ([]byte, error)
}

func NewFakeGameService() *FakeGameService {
	return &FakeGameService{trace: []string{}}
}

func (f *FakeGameService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGameService) CreateGame(ctx context.Context, req gametypes.CreateGameRequest) (*gametypes.GameInfo, error) {
	f.record("CreateGame")
	if f.CreateGameFunc != nil {
		return f.CreateGameFunc(ctx, req)
	}
	return &gametypes.GameInfo{ID: 1, PlayerIDs: req.PlayerIDs, Active: true}, nil
}

func (f *FakeGameService) GetActiveGame(ctx context.Context) (*gametypes.GameInfo, error) {
	f.record("GetActiveGame")
	if f.GetActiveGameFunc != nil {
		return f.GetActiveGameFunc(ctx)
	}
	return &gametypes.GameInfo{ID: 1, Active: true}, nil
}

func (f *FakeGameService) GetGame(ctx context.Context, id int64) (*gametypes.GameInfo, error) {
	f.record("GetGame")
	if f.GetGameFunc != nil {
		return f.GetGameFunc(ctx, id)
	}
	return &gametypes.GameInfo{ID: id}, nil
}

func (f *FakeGameService) ListGames(ctx context.Context, limit int) ([]gametypes.GameInfo, error) {
	f.record("ListGames")
	if f.ListGamesFunc != nil {
		return f.ListGamesFunc(ctx, limit)
	}
	return []gametypes.GameInfo{}, nil
}

func (f *FakeGameService) FinishGame(ctx context.Context) (*gametypes.GameInfo, error) {
	f.record("FinishGame")
	if f.FinishGameFunc != nil {
		return f.FinishGameFunc(ctx)
	}
	return &gametypes.GameInfo{ID: 1}, nil
}

func (f *FakeGameService) Standings(ctx context.Context, id int64) ([]gametypes.Standing, error) {
	f.record("Standings")
	if f.StandingsFunc != nil {
		return f.StandingsFunc(ctx, id)
	}
	return []gametypes.Standing{}, nil
}

func (f *FakeGameService) ExportScoresheet(ctx context.Context, id int64) ([]byte, error) {
	f.record("ExportScoresheet")
	if f.ExportScoresheetFunc != nil {
		return f.ExportScoresheetFunc(ctx, id)
	}
	return []byte("PK"), nil
}

func (f *FakeGameService) ScoreChart(ctx context.Context, id int64) ([]byte, error) {
	f.record("ScoreChart")
	if f.ScoreChartFunc != nil {
		return f.ScoreChartFunc(ctx, id)
	}
	return []byte("\x89PNG"), nil
}

func (f *FakeGameService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ gameservice.Service = (*FakeGameService)(nil)
