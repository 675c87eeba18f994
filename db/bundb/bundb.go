// Package bundb opens the Postgres connection and owns the module migrators.
package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	gamemigrations "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories/migrations"
	rounddb "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories"
	roundmigrations "github.com/Black-And-White-Club/ulti-bot/app/modules/round/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/ulti-bot/config"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/attr"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

// DBService holds the connection pool and the repositories built on it.
type DBService struct {
	GameDB  gamedb.Repository
	RoundDB rounddb.Repository
	db      *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the connection pool.
func (s *DBService) Close() error {
	return s.db.Close()
}

// NewBunDBService connects to Postgres and builds the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := NewDB(sqldb)
	logger.InfoContext(ctx, "Database connection established",
		attr.Int("max_open_conns", sqldb.Stats().MaxOpenConnections),
	)

	return &DBService{
		GameDB:  gamedb.NewRepository(db),
		RoundDB: rounddb.NewRepository(db),
		db:      db,
	}, nil
}

// NewDB wraps an open pool in bun with the models registered.
func NewDB(sqldb *sql.DB) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel(&gamedb.Game{}, &rounddb.Round{})
	return db
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}

// ModuleMigrator is one module's migrator.
type ModuleMigrator struct {
	Module   string
	Migrator *migrate.Migrator
}

// Migrators returns the module migrators in dependency order: rounds
// reference games.
func Migrators(db *bun.DB) []ModuleMigrator {
	return []ModuleMigrator{
		{Module: "game", Migrator: migrate.NewMigrator(db, gamemigrations.Migrations)},
		{Module: "round", Migrator: migrate.NewMigrator(db, roundmigrations.Migrations)},
	}
}

// Migrate creates the migration tables and applies every pending migration.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("init migrations for %s: %w", m.Module, err)
		}
		group, err := m.Migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", m.Module, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", attr.String("module", m.Module))
			continue
		}
		logger.InfoContext(ctx, "Migrated module",
			attr.String("module", m.Module),
			attr.String("group", group.String()),
		)
	}
	return nil
}
