package round

import (
	"context"
	"fmt"
	"sync"

	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	roundservice "github.com/Black-And-White-Club/ulti-bot/app/modules/round/application"
	roundhandlers "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/handlers"
	rounddb "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories"
	roundrouter "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/router"
	"github.com/Black-And-White-Club/ulti-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
)

// Module represents the round module.
type Module struct {
	RoundService  roundservice.Service
	RoundRouter   *roundrouter.RoundRouter
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewRoundModule wires the round service to the event router and, when
// httpRouter is not nil, to the round endpoints.
func NewRoundModule(
	ctx context.Context,
	obs observability.Observability,
	gameDB gamedb.Repository,
	roundDB rounddb.Repository,
	catalog *biddingdomain.Catalog,
	silent *biddingdomain.SilentBidCatalog,
	eventBus eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "round.NewRoundModule initializing")

	service := roundservice.NewRoundService(gameDB, roundDB, catalog, silent, logger, obs.Registry.Metrics, tracer, db)

	handlers := roundhandlers.NewRoundHandlers(service, logger, tracer)

	var registry prometheus.Registerer
	if obs.Registry.Prometheus != nil {
		registry = obs.Registry.Prometheus
	}
	roundRouter := roundrouter.NewRoundRouter(logger, router, eventBus, eventBus, tracer, registry)
	if err := roundRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure round router: %w", err)
	}

	if httpRouter != nil {
		roundhandlers.NewHTTPHandlers(service, eventBus, logger).Routes(httpRouter)
	}

	return &Module{
		RoundService:  service,
		RoundRouter:   roundRouter,
		observability: obs,
	}, nil
}

// Run starts the round module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting round module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Round module goroutine stopped")
}

// Close stops the round module. The shared message router is closed by the app.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping round module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
