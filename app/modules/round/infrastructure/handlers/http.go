package roundhandlers

import (
	"context"
	"log/slog"
	"net/http"

	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	roundservice "github.com/Black-And-White-Club/ulti-bot/app/modules/round/application"
	rounddomain "github.com/Black-And-White-Club/ulti-bot/app/modules/round/domain"
	rounddb "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/ulti-bot/pkg/eventbus"
	roundevents "github.com/Black-And-White-Club/ulti-bot/pkg/events/round"
	"github.com/Black-And-White-Club/ulti-bot/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/ulti-bot/pkg/httpapi"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
)

var statusRules = []httpapi.StatusRule{
	{Err: rounddb.ErrNotFound, Status: http.StatusNotFound},
	{Err: gamedb.ErrNotFound, Status: http.StatusNotFound},
	{Err: gamedb.ErrNoActiveGame, Status: http.StatusConflict},
	{Err: gamedomain.ErrGameFinished, Status: http.StatusConflict},
	{Err: gamedomain.ErrNotInRoster, Status: http.StatusBadRequest},
	{Err: rounddomain.ErrInvalidDeclaration, Status: http.StatusBadRequest},
}

// HTTPHandlers serves the round endpoints. Rounds created over HTTP are
// announced on the same topics as rounds created from events.
type HTTPHandlers struct {
	service   roundservice.Service
	publisher message.Publisher
	logger    *slog.Logger
}

// NewHTTPHandlers creates a new HTTPHandlers. publisher may be nil.
func NewHTTPHandlers(service roundservice.Service, publisher message.Publisher, logger *slog.Logger) *HTTPHandlers {
	return &HTTPHandlers{service: service, publisher: publisher, logger: logger}
}

// Routes mounts the round endpoints on r.
func (h *HTTPHandlers) Routes(r chi.Router) {
	r.Route("/round", func(r chi.Router) {
		r.Get("/", h.HandleListRounds)
		r.Post("/", h.HandleCreateRound)
		r.Get("/{id}", h.HandleGetRound)
	})
}

// HandleCreateRound settles a declaration. ?gameId= overrides the body's game.
// The Idempotency-Key header stands in for a missing body requestId.
func (h *HTTPHandlers) HandleCreateRound(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.QueryInt64(r, "gameId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req roundtypes.CreateRoundRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.RequestID == "" {
		req.RequestID = r.Header.Get(httpapi.IdempotencyKeyHeader)
	}

	info, err := h.service.CreateRound(r.Context(), gameID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.publishSettled(r.Context(), info)
	httpapi.WriteJSON(w, http.StatusCreated, info)
}

// HandleListRounds lists a game's rounds; without ?gameId= the active game's.
func (h *HTTPHandlers) HandleListRounds(w http.ResponseWriter, r *http.Request) {
	gameID, err := httpapi.QueryInt64(r, "gameId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rounds, err := h.service.ListRounds(r.Context(), gameID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if rounds == nil {
		rounds = []roundtypes.RoundInfo{}
	}
	httpapi.WriteJSON(w, http.StatusOK, rounds)
}

func (h *HTTPHandlers) HandleGetRound(w http.ResponseWriter, r *http.Request) {
	id, err := httpapi.PathInt64(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	info, err := h.service.GetRound(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, info)
}

// publishSettled announces the round. The round is already stored, so a
// publish failure is logged and the request still succeeds.
func (h *HTTPHandlers) publishSettled(ctx context.Context, info *roundtypes.RoundInfo) {
	if h.publisher == nil {
		return
	}
	payload := &roundevents.RoundSettledPayloadV1{Round: *info}

	for _, topic := range []string{
		roundevents.RoundSettledV1,
		eventbus.FormatGameScopedTopic(roundevents.RoundSettledV1, info.GameID),
	} {
		msg, err := handlerwrapper.NewMessage(ctx, topic, payload)
		if err == nil {
			err = h.publisher.Publish(topic, msg)
		}
		if err != nil {
			h.logger.ErrorContext(ctx, "Failed to publish settled round",
				attr.ExtractCorrelationID(ctx),
				attr.String("topic", topic),
				attr.GameID(info.GameID),
				attr.Int64("round_id", info.ID),
				attr.Error(err),
			)
		}
	}
}

func (h *HTTPHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httpapi.StatusFor(err, statusRules...)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Round request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
	}
	httpapi.WriteError(w, status, err.Error())
}
