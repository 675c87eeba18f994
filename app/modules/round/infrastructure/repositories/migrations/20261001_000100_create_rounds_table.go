package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rounds table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rounds (
					id BIGSERIAL PRIMARY KEY,
					game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					round_number INT NOT NULL,
					bid_id INT NOT NULL,
					attacker_id BIGINT NOT NULL,
					defender1_id BIGINT NOT NULL,
					defender2_id BIGINT,
					won_bid_type_ids INT[] NOT NULL DEFAULT '{}',
					attacker_won BOOLEAN NOT NULL,
					contras JSONB NOT NULL DEFAULT '[]'::jsonb,
					silent_bids JSONB NOT NULL DEFAULT '[]'::jsonb,
					point_delta JSONB NOT NULL,
					status VARCHAR(16) NOT NULL DEFAULT 'SETTLED',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (game_id, round_number)
				);
				CREATE INDEX IF NOT EXISTS idx_rounds_game_id ON rounds(game_id);
			`); err != nil {
				return fmt.Errorf("failed to create rounds table: %w", err)
			}

			fmt.Println("Rounds table created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back rounds table...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS rounds;`); err != nil {
			return fmt.Errorf("failed to drop rounds table: %w", err)
		}
		return nil
	})
}
