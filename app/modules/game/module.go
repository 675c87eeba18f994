package game

import (
	"context"
	"sync"

	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	gameservice "github.com/Black-And-White-Club/ulti-bot/app/modules/game/application"
	gamehandlers "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/handlers"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	rounddb "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the game module.
type Module struct {
	GameService   gameservice.Service
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewGameModule creates the game service and mounts the game endpoints when
// httpRouter is not nil.
func NewGameModule(
	ctx context.Context,
	obs observability.Observability,
	gameDB gamedb.Repository,
	roundDB rounddb.Repository,
	catalog *biddingdomain.Catalog,
	publisher message.Publisher,
	httpRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "game.NewGameModule initializing")

	service := gameservice.NewGameService(gameDB, roundDB, catalog, publisher, logger, obs.Registry.Metrics, tracer, db)

	if httpRouter != nil {
		gamehandlers.NewHTTPHandlers(service, logger).Routes(httpRouter)
	}

	return &Module{
		GameService:   service,
		observability: obs,
	}, nil
}

// Run starts the game module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting game module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Game module goroutine stopped")
}

// Close stops the game module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping game module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
