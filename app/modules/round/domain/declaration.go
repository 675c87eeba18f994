package rounddomain

import (
	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
)

// PlayerID is an opaque player identifier supplied by callers.
type PlayerID int64

// MaxContraMultiplier caps the doubling exponent of a contra (2^5 = 32x).
const MaxContraMultiplier = 5

// Contra is a defender's challenge on one bid type. Multipliers are doubling
// exponents: 0 is no contra, 1 is kontra (x2), 2 is rekontra (x4) and so on.
type Contra struct {
	BidTypeID           biddingdomain.BidTypeID
	Defender1Multiplier int
	Defender2Multiplier *int
}

// SilentBidOutcome is one player's silent bid and whether it came off.
type SilentBidOutcome struct {
	PlayerID  PlayerID
	SilentBid biddingdomain.SilentBid
	Won       bool
}

// Declaration is everything needed to settle a finished round.
type Declaration struct {
	Bid         biddingdomain.Bid
	AttackerID  PlayerID
	Defender1ID PlayerID
	Defender2ID *PlayerID

	// WonBidTypeIDs is the subset of the bid the attacker fulfilled. Only these
	// bid types are paid out.
	WonBidTypeIDs []biddingdomain.BidTypeID

	// AttackerWon is the pass/fail verdict for the round as a whole. The
	// threshold is a rules question the caller answers.
	AttackerWon bool

	Contras    []Contra
	SilentBids []SilentBidOutcome
}

// Participants returns attacker, defender 1 and, when present, defender 2.
func (d Declaration) Participants() []PlayerID {
	ps := []PlayerID{d.AttackerID, d.Defender1ID}
	if d.Defender2ID != nil {
		ps = append(ps, *d.Defender2ID)
	}
	return ps
}

func (d Declaration) isParticipant(p PlayerID) bool {
	for _, q := range d.Participants() {
		if q == p {
			return true
		}
	}
	return false
}
