package rounddomain

import (
	"maps"

	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
)

// Status is the lifecycle state of a round. Draft rounds live with the caller
// and are never stored; every stored round is Settled.
type Status string

const (
	StatusDraft   Status = "DRAFT"
	StatusSettled Status = "SETTLED"
)

// Record is the immutable outcome of one settlement. PointDelta has an entry
// for every participant and for nobody else.
type Record struct {
	BidID       biddingdomain.BidID
	AttackerID  PlayerID
	Defender1ID PlayerID
	Defender2ID *PlayerID
	PointDelta  map[PlayerID]int
}

// Delta returns the player's change and whether they played the round.
func (r Record) Delta(p PlayerID) (int, bool) {
	d, ok := r.PointDelta[p]
	return d, ok
}

// Participants returns attacker, defender 1 and, when present, defender 2.
func (r Record) Participants() []PlayerID {
	ps := []PlayerID{r.AttackerID, r.Defender1ID}
	if r.Defender2ID != nil {
		ps = append(ps, *r.Defender2ID)
	}
	return ps
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	out := r
	out.PointDelta = maps.Clone(r.PointDelta)
	if r.Defender2ID != nil {
		d2 := *r.Defender2ID
		out.Defender2ID = &d2
	}
	return out
}
