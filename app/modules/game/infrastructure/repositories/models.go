package gamedb

import (
	"time"

	"github.com/uptrace/bun"
)

// Game is the persisted game row. Scores is the folded score table and is
// rewritten whenever a round is appended.
type Game struct {
	bun.BaseModel `bun:"table:games,alias:g"`
	ID            int64         `bun:"id,pk,autoincrement"`
	PlayerIDs     []int64       `bun:"player_ids,array,notnull"`
	Scores        map[int64]int `bun:"scores,type:jsonb,notnull"`
	Active        bool          `bun:"active,notnull"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	FinishedAt    *time.Time    `bun:"finished_at"`
}
