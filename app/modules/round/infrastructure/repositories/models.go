package rounddb

import (
	"time"

	"github.com/uptrace/bun"
)

// Round is a settled round row. It stores the declaration next to the
// outcome so a game can be audited and replayed.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`
	ID            int64         `bun:"id,pk,autoincrement"`
	GameID        int64         `bun:"game_id,notnull"`
	RoundNumber   int           `bun:"round_number,notnull"`
	BidID         int           `bun:"bid_id,notnull"`
	AttackerID    int64         `bun:"attacker_id,notnull"`
	Defender1ID   int64         `bun:"defender1_id,notnull"`
	Defender2ID   *int64        `bun:"defender2_id"`
	WonBidTypeIDs []int         `bun:"won_bid_type_ids,array"`
	AttackerWon   bool          `bun:"attacker_won,notnull"`
	Contras       []Contra      `bun:"contras,type:jsonb"`
	SilentBids    []SilentBid   `bun:"silent_bids,type:jsonb"`
	PointDelta    map[int64]int `bun:"point_delta,type:jsonb,notnull"`
	Status        string        `bun:"status,notnull"`
	RequestID     string        `bun:"request_id,nullzero"`
	CreatedAt     time.Time     `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

// Contra is the stored form of a contra declaration.
type Contra struct {
	BidTypeID           int  `json:"bid_type_id"`
	Defender1Multiplier int  `json:"defender1_multiplier"`
	Defender2Multiplier *int `json:"defender2_multiplier,omitempty"`
}

// SilentBid is the stored form of a silent bid outcome.
type SilentBid struct {
	SilentBidID int   `json:"silent_bid_id"`
	PlayerID    int64 `json:"player_id"`
	Won         bool  `json:"won"`
}
