// Package roundevents defines round topics and payloads.
package roundevents

import roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"

const (
	// RoundCreateRequestedV1 carries a declaration to settle.
	RoundCreateRequestedV1 = "ulti.round.create.requested.v1"

	// RoundSettledV1 is published after a round is settled and stored.
	// It is also published game-scoped as RoundSettledV1.{gameID}.
	RoundSettledV1 = "ulti.round.settled.v1"

	// RoundCreateFailedV1 is published when a declaration is rejected.
	RoundCreateFailedV1 = "ulti.round.create.failed.v1"
)

// RoundCreateRequestedPayloadV1 is the payload of RoundCreateRequestedV1.
// A zero GameID means the active game.
type RoundCreateRequestedPayloadV1 struct {
	GameID int64                         `json:"gameId"`
	Round  roundtypes.CreateRoundRequest `json:"round"`
}

// RoundSettledPayloadV1 is the payload of RoundSettledV1.
type RoundSettledPayloadV1 struct {
	Round roundtypes.RoundInfo `json:"round"`
}

// RoundCreateFailedPayloadV1 is the payload of RoundCreateFailedV1.
type RoundCreateFailedPayloadV1 struct {
	GameID int64  `json:"gameId"`
	Reason string `json:"reason"`
}
