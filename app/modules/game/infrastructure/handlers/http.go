package gamehandlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	gameservice "github.com/Black-And-White-Club/ulti-bot/app/modules/game/application"
	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/ulti-bot/pkg/httpapi"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	gametypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/game"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var statusRules = []httpapi.StatusRule{
	{Err: gamedb.ErrNotFound, Status: http.StatusNotFound},
	{Err: gamedb.ErrNoActiveGame, Status: http.StatusConflict},
	{Err: gameservice.ErrActiveGameExists, Status: http.StatusConflict},
	{Err: gamedomain.ErrGameFinished, Status: http.StatusConflict},
	{Err: gamedomain.ErrInvalidGame, Status: http.StatusBadRequest},
}

// HTTPHandlers serves the game endpoints.
type HTTPHandlers struct {
	service gameservice.Service
	logger  *slog.Logger
}

// NewHTTPHandlers creates a new HTTPHandlers.
func NewHTTPHandlers(service gameservice.Service, logger *slog.Logger) *HTTPHandlers {
	return &HTTPHandlers{service: service, logger: logger}
}

// Routes mounts the game endpoints on r.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Get("/", h.HandleListGames)
		r.Post("/", h.HandleCreateGame)
		r.Get("/active", h.HandleGetActiveGame)
		r.Post("/finish", h.HandleFinishGame)
		r.Get("/{id}", h.HandleGetGame)
		r.Get("/{id}/standings", h.HandleStandings)
		r.Get("/{id}/scoresheet.xlsx", h.HandleScoresheet)
		r.Get("/{id}/chart.png", h.HandleScoreChart)
	})
}

// HandleListGames lists recent games; ?limit= caps the count.
func (h *HTTPHandlers) HandleListGames(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpapi.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	games, err := h.service.ListGames(r.Context(), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, games)
}

func (h *HTTPHandlers) HandleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req gametypes.CreateGameRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	game, err := h.service.CreateGame(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, game)
}

func (h *HTTPHandlers) HandleGetActiveGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.GetActiveGame(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, game)
}

func (h *HTTPHandlers) HandleFinishGame(w http.ResponseWriter, r *http.Request) {
	game, err := h.service.FinishGame(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, game)
}

func (h *HTTPHandlers) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	game, err := h.service.GetGame(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, game)
}

func (h *HTTPHandlers) HandleStandings(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	standings, err := h.service.Standings(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, standings)
}

func (h *HTTPHandlers) HandleScoresheet(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := h.service.ExportScoresheet(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteBlob(w, xlsxContentType, fmt.Sprintf("ulti-game-%d.xlsx", id), body)
}

func (h *HTTPHandlers) HandleScoreChart(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	body, err := h.service.ScoreChart(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteBlob(w, "image/png", "", body)
}

func (h *HTTPHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httpapi.StatusFor(err, statusRules...)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Game request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
	}
	httpapi.WriteError(w, status, err.Error())
}
