package roundhandlers

import (
	"context"
	"log/slog"

	roundservice "github.com/Black-And-White-Club/ulti-bot/app/modules/round/application"
	"github.com/Black-And-White-Club/ulti-bot/pkg/eventbus"
	roundevents "github.com/Black-And-White-Club/ulti-bot/pkg/events/round"
	"github.com/Black-And-White-Club/ulti-bot/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	"go.opentelemetry.io/otel/trace"
)

// RoundHandlers implements the Handlers interface.
type RoundHandlers struct {
	service roundservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRoundHandlers creates a new RoundHandlers.
func NewRoundHandlers(
	service roundservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &RoundHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleRoundCreateRequested settles the round. A rejected declaration is
// answered on RoundCreateFailedV1; infrastructure errors are returned so the
// message is retried. A request without its own id is keyed by the message
// UUID so a redelivery returns the stored round.
func (h *RoundHandlers) HandleRoundCreateRequested(ctx context.Context, payload *roundevents.RoundCreateRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "RoundHandlers.HandleRoundCreateRequested")
	defer span.End()

	gameID := payload.GameID
	if gameID == 0 {
		gameID = payload.Round.GameID
	}

	req := payload.Round
	if req.RequestID == "" {
		req.RequestID = handlerwrapper.MessageID(ctx)
	}

	info, err := h.service.CreateRound(ctx, gameID, req)
	if err != nil {
		if !roundservice.IsRejection(err) {
			return nil, err
		}
		h.logger.WarnContext(ctx, "Round declaration rejected",
			attr.ExtractCorrelationID(ctx),
			attr.GameID(gameID),
			attr.Error(err),
		)
		return []handlerwrapper.Result{{
			Topic: roundevents.RoundCreateFailedV1,
			Payload: &roundevents.RoundCreateFailedPayloadV1{
				GameID: gameID,
				Reason: err.Error(),
			},
		}}, nil
	}

	settled := &roundevents.RoundSettledPayloadV1{Round: *info}
	return []handlerwrapper.Result{
		{Topic: roundevents.RoundSettledV1, Payload: settled},
		{Topic: eventbus.FormatGameScopedTopic(roundevents.RoundSettledV1, info.GameID), Payload: settled},
	}, nil
}
