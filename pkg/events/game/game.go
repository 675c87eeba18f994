// Package gameevents defines game lifecycle topics and payloads.
package gameevents

import gametypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/game"

const (
	GameStartedV1  = "ulti.game.started.v1"
	GameFinishedV1 = "ulti.game.finished.v1"
)

// GameLifecyclePayloadV1 is the payload of GameStartedV1 and GameFinishedV1.
type GameLifecyclePayloadV1 struct {
	Game gametypes.GameInfo `json:"game"`
}
