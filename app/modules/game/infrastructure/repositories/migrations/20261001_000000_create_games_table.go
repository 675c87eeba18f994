package gamemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating games table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS games (
					id BIGSERIAL PRIMARY KEY,
					player_ids BIGINT[] NOT NULL,
					scores JSONB NOT NULL DEFAULT '{}'::jsonb,
					active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					finished_at TIMESTAMPTZ,
					CONSTRAINT games_roster_size CHECK (cardinality(player_ids) BETWEEN 3 AND 5)
				);
			`); err != nil {
				return fmt.Errorf("failed to create games table: %w", err)
			}

			// At most one game is active at a time.
			if _, err := tx.ExecContext(ctx, `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_games_single_active ON games (active) WHERE active;
			`); err != nil {
				return fmt.Errorf("failed to create active game index: %w", err)
			}

			fmt.Println("Games table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back games table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS games CASCADE;`); err != nil {
			return fmt.Errorf("failed to drop games table: %w", err)
		}
		return nil
	})
}
