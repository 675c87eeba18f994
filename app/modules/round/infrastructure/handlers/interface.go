package roundhandlers

import (
	"context"

	roundevents "github.com/Black-And-White-Club/ulti-bot/pkg/events/round"
	"github.com/Black-And-White-Club/ulti-bot/pkg/handlerwrapper"
)

// Handlers defines the round event handlers.
type Handlers interface {
	// HandleRoundCreateRequested settles a declared round and announces the outcome.
	HandleRoundCreateRequested(ctx context.Context, payload *roundevents.RoundCreateRequestedPayloadV1) ([]handlerwrapper.Result, error)
}
