// Package gametypes holds the wire shapes of games and standings.
package gametypes

import (
	"time"

	roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"
)

// CreateGameRequest starts a game for the given players.
type CreateGameRequest struct {
	PlayerIDs []int64 `json:"playerIds"`
}

// Standing is one row of a game's score table.
type Standing struct {
	Rank     int   `json:"rank"`
	PlayerID int64 `json:"playerId"`
	Score    int   `json:"score"`
}

// GameInfo is a game as returned to clients.
type GameInfo struct {
	ID           int64                  `json:"id"`
	PlayerIDs    []int64                `json:"playerIds"`
	Scores       map[int64]int          `json:"scores"`
	Standings    []Standing             `json:"standings"`
	Active       bool                   `json:"active"`
	RoundCount   int                    `json:"roundCount"`
	RecentRounds []roundtypes.RoundInfo `json:"recentRounds,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	FinishedAt   *time.Time             `json:"finishedAt,omitempty"`
}
