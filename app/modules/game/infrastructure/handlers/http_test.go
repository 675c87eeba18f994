package gamehandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	gameservice "github.com/Black-And-White-Club/ulti-bot/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	gametypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/game"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(svc *FakeGameService, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	NewHTTPHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Routes(r)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, path, reader))
	return rr
}

func TestHTTPHandlers_CreateGame(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*FakeGameService)
		wantStatus int
		wantTrace  []string
	}{
		{
			name:       "created",
			body:       `{"playerIds":[1,2,3]}`,
			wantStatus: http.StatusCreated,
			wantTrace:  []string{"CreateGame"},
		},
		{
			name:       "malformed body",
			body:       `{"playerIds":`,
			wantStatus: http.StatusBadRequest,
			wantTrace:  []string{},
		},
		{
			name: "invalid roster",
			body: `{"playerIds":[1]}`,
			setup: func(f *FakeGameService) {
				f.CreateGameFunc = func(context.Context, gametypes.CreateGameRequest) (*gametypes.GameInfo, error) {
					return nil, fmt.Errorf("%w: need at least two players", gamedomain.ErrInvalidGame)
				}
			},
			wantStatus: http.StatusBadRequest,
			wantTrace:  []string{"CreateGame"},
		},
		{
			name: "already active",
			body: `{"playerIds":[1,2]}`,
			setup: func(f *FakeGameService) {
				f.CreateGameFunc = func(context.Context, gametypes.CreateGameRequest) (*gametypes.GameInfo, error) {
					return nil, gameservice.ErrActiveGameExists
				}
			},
			wantStatus: http.StatusConflict,
			wantTrace:  []string{"CreateGame"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeGameService()
			if tt.setup != nil {
				tt.setup(svc)
			}
			rr := serve(svc, http.MethodPost, "/game", tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, tt.wantTrace, svc.Trace())
		})
	}
}

func TestHTTPHandlers_CreateGameBody(t *testing.T) {
	rr := serve(NewFakeGameService(), http.MethodPost, "/game", `{"playerIds":[4,5,6]}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	var got gametypes.GameInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Equal(t, []int64{4, 5, 6}, got.PlayerIDs)
	assert.True(t, got.Active)
}

func TestHTTPHandlers_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		setup      func(*FakeGameService)
		wantStatus int
	}{
		{
			name:   "no active game",
			method: http.MethodGet,
			path:   "/game/active",
			setup: func(f *FakeGameService) {
				f.GetActiveGameFunc = func(context.Context) (*gametypes.GameInfo, error) {
					return nil, gamedb.ErrNoActiveGame
				}
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "finish without active game",
			method: http.MethodPost,
			path:   "/game/finish",
			setup: func(f *FakeGameService) {
				f.FinishGameFunc = func(context.Context) (*gametypes.GameInfo, error) {
					return nil, gamedb.ErrNoActiveGame
				}
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:   "unknown game",
			method: http.MethodGet,
			path:   "/game/9",
			setup: func(f *FakeGameService) {
				f.GetGameFunc = func(context.Context, int64) (*gametypes.GameInfo, error) {
					return nil, fmt.Errorf("GetGame: %w", gamedb.ErrNotFound)
				}
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "bad id",
			method:     http.MethodGet,
			path:       "/game/abc/standings",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "bad limit",
			method:     http.MethodGet,
			path:       "/game?limit=x",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:   "infrastructure error",
			method: http.MethodGet,
			path:   "/game",
			setup: func(f *FakeGameService) {
				f.ListGamesFunc = func(context.Context, int) ([]gametypes.GameInfo, error) {
					return nil, errors.New("connection reset")
				}
			},
			wantStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeGameService()
			if tt.setup != nil {
				tt.setup(svc)
			}
			rr := serve(svc, tt.method, tt.path, "")
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHTTPHandlers_ListGamesLimit(t *testing.T) {
	svc := NewFakeGameService()
	var gotLimit int
	svc.ListGamesFunc = func(_ context.Context, limit int) ([]gametypes.GameInfo, error) {
		gotLimit = limit
		return []gametypes.GameInfo{{ID: 2}, {ID: 1}}, nil
	}

	rr := serve(svc, http.MethodGet, "/game?limit=2", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 2, gotLimit)

	var got []gametypes.GameInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	assert.Len(t, got, 2)
}

func TestHTTPHandlers_Downloads(t *testing.T) {
	svc := NewFakeGameService()
	var exported int64
	svc.ExportScoresheetFunc = func(_ context.Context, id int64) ([]byte, error) {
		exported = id
		return []byte("PK\x03\x04"), nil
	}

	rr := serve(svc, http.MethodGet, "/game/3/scoresheet.xlsx", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(3), exported)
	assert.Equal(t, xlsxContentType, rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "ulti-game-3.xlsx")
	assert.Equal(t, "PK\x03\x04", rr.Body.String())

	rr = serve(svc, http.MethodGet, "/game/3/chart.png", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", rr.Body.String())
}

func TestHTTPHandlers_Standings(t *testing.T) {
	svc := NewFakeGameService()
	svc.StandingsFunc = func(_ context.Context, id int64) ([]gametypes.Standing, error) {
		return []gametypes.Standing{
			{Rank: 1, PlayerID: 1, Score: 8},
			{Rank: 2, PlayerID: 2, Score: -1},
		}, nil
	}

	rr := serve(svc, http.MethodGet, "/game/1/standings", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"rank":1,"playerId":1,"score":8},{"rank":2,"playerId":2,"score":-1}]`, rr.Body.String())
}
