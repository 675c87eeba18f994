package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/ulti-bot/app/modules/bidding"
	"github.com/Black-And-White-Club/ulti-bot/app/modules/game"
	"github.com/Black-And-White-Club/ulti-bot/app/modules/round"
	"github.com/Black-And-White-Club/ulti-bot/config"
	"github.com/Black-And-White-Club/ulti-bot/db/bundb"
	"github.com/Black-And-White-Club/ulti-bot/pkg/eventbus"
	gameevents "github.com/Black-And-White-Club/ulti-bot/pkg/events/game"
	roundevents "github.com/Black-And-White-Club/ulti-bot/pkg/events/round"
	"github.com/Black-And-White-Club/ulti-bot/pkg/httpapi"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// App wires configuration, infrastructure and modules together.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	Logger        *slog.Logger
	DB            *bundb.DBService
	EventBus      eventbus.EventBus
	Router        *message.Router
	Server        *httpapi.Server
	Modules       *Modules
}

// Modules holds the application modules.
type Modules struct {
	BiddingModule *bidding.Module
	GameModule    *game.Module
	RoundModule   *round.Module
}

// Initialize connects to Postgres and NATS and builds every module.
func (app *App) Initialize(ctx context.Context, cfg *config.Config) error {
	app.Config = cfg
	app.Observability = observability.Init(observability.Config{
		ServiceName:      cfg.Observability.ServiceName,
		Version:          cfg.Observability.Version,
		Environment:      cfg.Observability.Environment,
		LogLevel:         cfg.Observability.LogLevel,
		MetricsNamespace: cfg.Observability.MetricsNamespace,
	})
	app.Logger = app.Observability.Provider.Logger
	logger := app.Logger

	logger.InfoContext(ctx, "Initializing ulti-bot")

	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	app.DB = dbService

	if cfg.Postgres.AutoMigrate {
		if err := bundb.Migrate(ctx, dbService.GetDB(), logger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	bus, err := eventbus.NewNATSEventBus(ctx, eventbus.Config{
		URL:              cfg.NATS.URL,
		QueueGroup:       cfg.NATS.QueueGroup,
		SubscribersCount: cfg.NATS.SubscribersCount,
		JetStream:        cfg.NATS.JetStream,
		StreamName:       cfg.NATS.StreamName,
		StreamSubjects:   []string{"ulti.>"},
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	app.EventBus = bus

	router, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create Watermill router: %w", err)
	}
	app.Router = router

	app.Server = httpapi.NewServer(httpapi.Config{
		Address:         cfg.HTTP.Address,
		AllowedOrigins:  cfg.HTTP.AllowedOrigins,
		RateLimit:       cfg.HTTP.RateLimit,
		RateBurst:       cfg.HTTP.RateBurst,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, logger, app.Observability.Registry.Metrics, app.Observability.Registry.Prometheus)

	return app.initializeModules(ctx)
}

func (app *App) initializeModules(ctx context.Context) error {
	obs := app.Observability
	db := app.DB.GetDB()
	api := app.Server.API

	biddingModule, err := bidding.NewBiddingModule(ctx, obs, api)
	if err != nil {
		return fmt.Errorf("failed to initialize bidding module: %w", err)
	}
	catalog := biddingModule.BiddingService.Catalog()
	silent := biddingModule.BiddingService.SilentBids()

	gameModule, err := game.NewGameModule(ctx, obs, app.DB.GameDB, app.DB.RoundDB, catalog, app.EventBus, api, db)
	if err != nil {
		return fmt.Errorf("failed to initialize game module: %w", err)
	}

	roundModule, err := round.NewRoundModule(ctx, obs, app.DB.GameDB, app.DB.RoundDB, catalog, silent, app.EventBus, app.Router, api, db)
	if err != nil {
		return fmt.Errorf("failed to initialize round module: %w", err)
	}

	app.Modules = &Modules{
		BiddingModule: biddingModule,
		GameModule:    gameModule,
		RoundModule:   roundModule,
	}

	app.Logger.InfoContext(ctx, "Modules initialized",
		attr.String("subscribes", roundevents.RoundCreateRequestedV1),
		attr.Any("publishes", []string{
			roundevents.RoundSettledV1,
			roundevents.RoundCreateFailedV1,
			gameevents.GameStartedV1,
			gameevents.GameFinishedV1,
		}),
	)
	return nil
}

// Run starts the modules, the message router and the HTTP server, and blocks
// until ctx is canceled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go app.Modules.BiddingModule.Run(ctx, &wg)
	go app.Modules.GameModule.Run(ctx, &wg)
	go app.Modules.RoundModule.Run(ctx, &wg)

	errCh := make(chan error, 2)
	go func() {
		if err := app.Router.Run(ctx); err != nil {
			errCh <- fmt.Errorf("watermill router: %w", err)
			return
		}
		errCh <- nil
	}()
	go func() {
		errCh <- app.Server.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		if runErr != nil {
			app.Logger.ErrorContext(ctx, "Component stopped", attr.Error(runErr))
		}
	}

	cancel()
	wg.Wait()
	return runErr
}

// Close releases every resource. Safe to call after a failed Initialize.
func (app *App) Close() error {
	var errs []error

	if app.Modules != nil {
		for _, closer := range []interface{ Close() error }{
			app.Modules.RoundModule,
			app.Modules.GameModule,
			app.Modules.BiddingModule,
		} {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if app.Router != nil {
		if err := app.Router.Close(); err != nil {
			errs = append(errs, fmt.Errorf("router: %w", err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}
	return errors.Join(errs...)
}
