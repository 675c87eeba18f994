package bidding

import (
	"context"
	"fmt"
	"sync"

	biddingservice "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/application"
	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	biddinghandlers "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/infrastructure/handlers"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability"
	"github.com/go-chi/chi/v5"
)

// Module represents the bidding module. It owns the bid catalog the other
// modules settle against.
type Module struct {
	BiddingService *biddingservice.BiddingService
	cancelFunc     context.CancelFunc
	observability  observability.Observability
}

// NewBiddingModule builds and checks the catalog and mounts the catalog
// endpoints when httpRouter is not nil.
func NewBiddingModule(
	ctx context.Context,
	obs observability.Observability,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "bidding.NewBiddingModule initializing")

	catalog, err := biddingdomain.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to build bid catalog: %w", err)
	}
	silent, err := biddingdomain.NewSilentBidCatalog(biddingdomain.DefaultSilentBids())
	if err != nil {
		return nil, fmt.Errorf("failed to build silent bid catalog: %w", err)
	}

	service := biddingservice.NewBiddingService(catalog, silent, logger, obs.Registry.Metrics, tracer)

	if httpRouter != nil {
		biddinghandlers.NewHTTPHandlers(service, logger).Routes(httpRouter)
	}

	return &Module{
		BiddingService: service,
		observability:  obs,
	}, nil
}

// Run starts the bidding module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting bidding module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Bidding module goroutine stopped")
}

// Close stops the bidding module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
