//go:build integration

// Package testutils starts the containers shared by the integration suites.
package testutils

import (
	"context"
	"errors"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/Black-And-White-Club/ulti-bot/config"
	"github.com/Black-And-White-Club/ulti-bot/db/bundb"
	"github.com/Black-And-White-Club/ulti-bot/integration_tests/containers"
	"github.com/Black-And-White-Club/ulti-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
)

// TestEnvironment holds everything a suite needs: both containers, the
// migrated database and an event bus on the NATS container.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DBService     *bundb.DBService
	DB            *bun.DB
	EventBus      *eventbus.NATSEventBus
	Config        *config.Config
	Observability observability.Observability
}

// NewTestEnvironment starts Postgres and NATS and runs the migrations.
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())
	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		Observability: observability.NewTest(),
	}

	if err := env.setup(ctx); err != nil {
		env.Cleanup()
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) setup(ctx context.Context) error {
	logger := env.Observability.Provider.Logger

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: dsn, AutoMigrate: true},
		NATS:     config.NATSConfig{URL: natsURL, QueueGroup: "ulti-bot-test", SubscribersCount: 1},
	}

	dbService, err := bundb.NewBunDBService(ctx, env.Config.Postgres, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	env.DBService = dbService
	env.DB = dbService.GetDB()

	if err := bundb.Migrate(ctx, env.DB, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	bus, err := eventbus.NewNATSEventBus(ctx, eventbus.Config{
		URL:              natsURL,
		QueueGroup:       env.Config.NATS.QueueGroup,
		SubscribersCount: env.Config.NATS.SubscribersCount,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create event bus: %w", err)
	}
	env.EventBus = bus

	return nil
}

// ResetDatabase empties every table and restarts the id sequences.
func (env *TestEnvironment) ResetDatabase(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(env.Ctx, 10*time.Second)
	defer cancel()
	if _, err := env.DB.ExecContext(ctx, "TRUNCATE TABLE rounds, games RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("failed to reset database: %v", err)
	}
}

// Cleanup closes connections and terminates the containers.
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}

	var errs []error
	if env.EventBus != nil {
		if err := env.EventBus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event bus: %w", err))
		}
	}
	if env.DBService != nil {
		if err := env.DBService.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database: %w", err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("nats container: %w", err))
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres container: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		log.Printf("Test environment cleanup finished with errors: %v", err)
	}
}
