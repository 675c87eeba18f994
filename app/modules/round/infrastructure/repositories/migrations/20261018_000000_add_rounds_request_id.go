package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding request_id to rounds...")

		if _, err := db.ExecContext(ctx, `
			ALTER TABLE rounds ADD COLUMN IF NOT EXISTS request_id TEXT;
			CREATE UNIQUE INDEX IF NOT EXISTS idx_rounds_request_id ON rounds(request_id) WHERE request_id IS NOT NULL;
		`); err != nil {
			return fmt.Errorf("failed to add rounds.request_id: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping request_id from rounds...")

		if _, err := db.ExecContext(ctx, `
			DROP INDEX IF EXISTS idx_rounds_request_id;
			ALTER TABLE rounds DROP COLUMN IF EXISTS request_id;
		`); err != nil {
			return fmt.Errorf("failed to drop rounds.request_id: %w", err)
		}
		return nil
	})
}
