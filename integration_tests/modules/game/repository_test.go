//go:build integration

package gameintegrationtests

import (
	"testing"

	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository(t *testing.T) {
	env := suite.Env(t)
	env.ResetDatabase(t)
	ctx := env.Ctx
	repo := env.DBService.GameDB

	first := &gamedb.Game{
		PlayerIDs: []int64{11, 12, 13},
		Scores:    map[int64]int{11: 0, 12: 0, 13: 0},
		Active:    true,
	}
	require.NoError(t, repo.Create(ctx, nil, first))
	assert.Positive(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())

	active, err := repo.GetActive(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)
	assert.Equal(t, []int64{11, 12, 13}, active.PlayerIDs)

	scores := map[int64]int{11: 10, 12: -5, 13: -5}
	require.NoError(t, repo.UpdateScores(ctx, nil, first.ID, scores))

	got, err := repo.GetByID(ctx, nil, first.ID)
	require.NoError(t, err)
	assert.Equal(t, scores, got.Scores)
	assert.True(t, got.Active)
	assert.Nil(t, got.FinishedAt)

	require.NoError(t, repo.Finish(ctx, nil, first.ID))
	assert.ErrorIs(t, repo.Finish(ctx, nil, first.ID), gamedb.ErrNotFound)

	_, err = repo.GetActive(ctx, nil)
	assert.ErrorIs(t, err, gamedb.ErrNoActiveGame)

	finished, err := repo.GetByID(ctx, nil, first.ID)
	require.NoError(t, err)
	assert.False(t, finished.Active)
	assert.NotNil(t, finished.FinishedAt)

	second := &gamedb.Game{
		PlayerIDs: []int64{21, 22, 23, 24},
		Scores:    map[int64]int{21: 0, 22: 0, 23: 0, 24: 0},
		Active:    true,
	}
	require.NoError(t, repo.Create(ctx, nil, second))

	games, err := repo.List(ctx, nil, 0)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, second.ID, games[0].ID)
	assert.Equal(t, first.ID, games[1].ID)

	games, err = repo.List(ctx, nil, 1)
	require.NoError(t, err)
	assert.Len(t, games, 1)

	_, err = repo.GetByID(ctx, nil, second.ID+100)
	assert.ErrorIs(t, err, gamedb.ErrNotFound)
	assert.ErrorIs(t, repo.UpdateScores(ctx, nil, second.ID+100, scores), gamedb.ErrNotFound)
}

func TestGameRepositorySingleActiveGame(t *testing.T) {
	env := suite.Env(t)
	env.ResetDatabase(t)
	ctx := env.Ctx
	repo := env.DBService.GameDB

	require.NoError(t, repo.Create(ctx, nil, &gamedb.Game{
		PlayerIDs: []int64{1, 2, 3},
		Scores:    map[int64]int{1: 0, 2: 0, 3: 0},
		Active:    true,
	}))
	err := repo.Create(ctx, nil, &gamedb.Game{
		PlayerIDs: []int64{4, 5, 6},
		Scores:    map[int64]int{4: 0, 5: 0, 6: 0},
		Active:    true,
	})
	assert.Error(t, err)
}
