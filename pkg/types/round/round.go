// Package roundtypes holds the wire shapes of round declarations and settled rounds.
package roundtypes

import "time"

// ContraInput is one contra as submitted by a client.
type ContraInput struct {
	BidTypeID           int  `json:"bidTypeId"`
	Defender1Multiplier int  `json:"defender1Multiplier"`
	Defender2Multiplier *int `json:"defender2Multiplier,omitempty"`
}

// SilentBidInput is one silent bid outcome. PlayerID defaults to the attacker.
type SilentBidInput struct {
	SilentBidID int    `json:"silentBidId"`
	AttackerWon bool   `json:"attackerWon"`
	PlayerID    *int64 `json:"playerId,omitempty"`
}

// CreateRoundRequest is the declaration of a finished round. RequestID makes
// the request idempotent: a repeated id returns the round already stored.
type CreateRoundRequest struct {
	RequestID             string           `json:"requestId,omitempty"`
	GameID                int64            `json:"gameId,omitempty"`
	BidID                 int              `json:"bidId"`
	AttackerID            int64            `json:"attackerId"`
	Defender1ID           int64            `json:"defender1Id"`
	Defender2ID           *int64           `json:"defender2Id,omitempty"`
	AttackerWon           bool             `json:"attackerWon"`
	AttackerWonBidTypeIDs []int            `json:"attackerWonIds"`
	Contras               []ContraInput    `json:"contras,omitempty"`
	SilentBids            []SilentBidInput `json:"silentBids,omitempty"`
}

// RoundInfo is a settled round as returned to clients.
type RoundInfo struct {
	ID              int64            `json:"id"`
	RequestID       string           `json:"requestId,omitempty"`
	GameID          int64            `json:"gameId"`
	RoundNumber     int              `json:"roundNumber"`
	BidID           int              `json:"bidId"`
	BidName         string           `json:"bidName"`
	AttackerID      int64            `json:"attackerId"`
	Defender1ID     int64            `json:"defender1Id"`
	Defender2ID     *int64           `json:"defender2Id,omitempty"`
	AttackerWon     bool             `json:"attackerWon"`
	AttackerPoints  int              `json:"attackerPoints"`
	Defender1Points int              `json:"defender1Points"`
	Defender2Points *int             `json:"defender2Points,omitempty"`
	PointDelta      map[int64]int    `json:"pointDelta"`
	Summary         string           `json:"summary"`
	Status          string           `json:"status"`
	CreatedAt       time.Time        `json:"createdAt"`
	Contras         []ContraInput    `json:"contras,omitempty"`
	SilentBids      []SilentBidInput `json:"silentBids,omitempty"`
}
