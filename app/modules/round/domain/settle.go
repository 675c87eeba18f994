package rounddomain

import (
	"errors"
	"fmt"

	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
)

// ErrInvalidDeclaration is returned by Settle when a declaration breaks its
// invariants. Nothing is applied when it is returned.
var ErrInvalidDeclaration = errors.New("invalid declaration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidDeclaration, fmt.Sprintf(format, args...))
}

// Settle turns a finished round into signed point deltas.
//
// The attacker is paid only for the bid types in WonBidTypeIDs, positive when
// AttackerWon and negative otherwise. Scoring is pairwise: each defender
// mirrors the attacker on every bid type, doubled 2^m times by the contra that
// defender declared on it, while the attacker's portion is doubled by the
// larger of the two defenders' multipliers.
//
// Contras are per bid type. On a combination with three or more constituents
// each contra scales only its own bid type's portion and the portions are
// summed, so raising any multiplier never shrinks anyone's exposure and never
// flips a sign.
//
// Silent bids are a side ledger: the declaring player gains or loses the silent
// bid's score on top of whatever the main bid did to them.
//
// Settle is pure and safe for concurrent use.
func Settle(d Declaration) (Record, error) {
	contras, err := validate(d)
	if err != nil {
		return Record{}, err
	}

	sign := -1
	if d.AttackerWon {
		sign = 1
	}

	var attacker, defender1, defender2 int
	for _, id := range d.WonBidTypeIDs {
		bt, _ := d.Bid.Constituent(id)
		c := contras[id]
		m1, m2 := c.Defender1Multiplier, 0
		if c.Defender2Multiplier != nil {
			m2 = *c.Defender2Multiplier
		}

		attacker += bt.BaseScore << max(m1, m2)
		defender1 += bt.BaseScore << m1
		defender2 += bt.BaseScore << m2
	}

	rec := Record{
		BidID:       d.Bid.ID,
		AttackerID:  d.AttackerID,
		Defender1ID: d.Defender1ID,
		PointDelta: map[PlayerID]int{
			d.AttackerID:  sign * attacker,
			d.Defender1ID: -sign * defender1,
		},
	}
	if d.Defender2ID != nil {
		d2 := *d.Defender2ID
		rec.Defender2ID = &d2
		rec.PointDelta[d2] = -sign * defender2
	}

	for _, sb := range d.SilentBids {
		if sb.Won {
			rec.PointDelta[sb.PlayerID] += sb.SilentBid.BaseScore
		} else {
			rec.PointDelta[sb.PlayerID] -= sb.SilentBid.BaseScore
		}
	}

	return rec, nil
}

// validate checks the declaration and indexes contras by bid type.
func validate(d Declaration) (map[biddingdomain.BidTypeID]Contra, error) {
	if len(d.Bid.BidTypes) == 0 {
		return nil, invalid("bid %d has no bid types", d.Bid.ID)
	}

	seen := make(map[PlayerID]struct{}, 3)
	for _, p := range d.Participants() {
		if _, dup := seen[p]; dup {
			return nil, invalid("player %d appears more than once", p)
		}
		seen[p] = struct{}{}
	}

	won := make(map[biddingdomain.BidTypeID]struct{}, len(d.WonBidTypeIDs))
	for _, id := range d.WonBidTypeIDs {
		if !d.Bid.Contains(id) {
			return nil, invalid("bid type %d is not part of bid %d", id, d.Bid.ID)
		}
		if _, dup := won[id]; dup {
			return nil, invalid("bid type %d won more than once", id)
		}
		won[id] = struct{}{}
	}

	contras := make(map[biddingdomain.BidTypeID]Contra, len(d.Contras))
	for _, c := range d.Contras {
		if _, ok := won[c.BidTypeID]; !ok {
			return nil, invalid("contra on bid type %d which the attacker did not win", c.BidTypeID)
		}
		if _, dup := contras[c.BidTypeID]; dup {
			return nil, invalid("more than one contra on bid type %d", c.BidTypeID)
		}
		if err := checkMultiplier(c.Defender1Multiplier); err != nil {
			return nil, err
		}
		if c.Defender2Multiplier != nil {
			if d.Defender2ID == nil {
				return nil, invalid("defender 2 multiplier on bid type %d without a defender 2", c.BidTypeID)
			}
			if err := checkMultiplier(*c.Defender2Multiplier); err != nil {
				return nil, err
			}
		}
		contras[c.BidTypeID] = c
	}

	for _, sb := range d.SilentBids {
		if !d.isParticipant(sb.PlayerID) {
			return nil, invalid("silent bid %d declared by player %d who is not in the round", sb.SilentBid.ID, sb.PlayerID)
		}
		if sb.SilentBid.BaseScore <= 0 {
			return nil, invalid("silent bid %d has no score", sb.SilentBid.ID)
		}
	}

	return contras, nil
}

func checkMultiplier(m int) error {
	if m < 0 || m > MaxContraMultiplier {
		return invalid("contra multiplier %d outside 0..%d", m, MaxContraMultiplier)
	}
	return nil
}
