package rounddb

import (
	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	rounddomain "github.com/Black-And-White-Club/ulti-bot/app/modules/round/domain"
	roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"
)

// FromSettlement builds the row for a settled declaration.
func FromSettlement(gameID int64, roundNumber int, d rounddomain.Declaration, rec rounddomain.Record) Round {
	row := Round{
		GameID:      gameID,
		RoundNumber: roundNumber,
		BidID:       int(rec.BidID),
		AttackerID:  int64(rec.AttackerID),
		Defender1ID: int64(rec.Defender1ID),
		AttackerWon: d.AttackerWon,
		PointDelta:  make(map[int64]int, len(rec.PointDelta)),
		Status:      string(rounddomain.StatusSettled),
	}
	if rec.Defender2ID != nil {
		d2 := int64(*rec.Defender2ID)
		row.Defender2ID = &d2
	}
	for _, id := range d.WonBidTypeIDs {
		row.WonBidTypeIDs = append(row.WonBidTypeIDs, int(id))
	}
	for _, c := range d.Contras {
		row.Contras = append(row.Contras, Contra{
			BidTypeID:           int(c.BidTypeID),
			Defender1Multiplier: c.Defender1Multiplier,
			Defender2Multiplier: c.Defender2Multiplier,
		})
	}
	for _, sb := range d.SilentBids {
		row.SilentBids = append(row.SilentBids, SilentBid{
			SilentBidID: int(sb.SilentBid.ID),
			PlayerID:    int64(sb.PlayerID),
			Won:         sb.Won,
		})
	}
	for p, delta := range rec.PointDelta {
		row.PointDelta[int64(p)] = delta
	}
	return row
}

// ToRecord rebuilds the settlement record stored in the row.
func (r Round) ToRecord() rounddomain.Record {
	rec := rounddomain.Record{
		BidID:       biddingdomain.BidID(r.BidID),
		AttackerID:  rounddomain.PlayerID(r.AttackerID),
		Defender1ID: rounddomain.PlayerID(r.Defender1ID),
		PointDelta:  make(map[rounddomain.PlayerID]int, len(r.PointDelta)),
	}
	if r.Defender2ID != nil {
		d2 := rounddomain.PlayerID(*r.Defender2ID)
		rec.Defender2ID = &d2
	}
	for p, delta := range r.PointDelta {
		rec.PointDelta[rounddomain.PlayerID(p)] = delta
	}
	return rec
}

// ToRecords maps rows in order.
func ToRecords(rows []Round) []rounddomain.Record {
	out := make([]rounddomain.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToRecord())
	}
	return out
}

// Info renders the row for clients.
func (r Round) Info(bidName string) roundtypes.RoundInfo {
	info := roundtypes.RoundInfo{
		ID:              r.ID,
		RequestID:       r.RequestID,
		GameID:          r.GameID,
		RoundNumber:     r.RoundNumber,
		BidID:           r.BidID,
		BidName:         bidName,
		AttackerID:      r.AttackerID,
		Defender1ID:     r.Defender1ID,
		Defender2ID:     r.Defender2ID,
		AttackerWon:     r.AttackerWon,
		AttackerPoints:  r.PointDelta[r.AttackerID],
		Defender1Points: r.PointDelta[r.Defender1ID],
		PointDelta:      make(map[int64]int, len(r.PointDelta)),
		Summary:         gamedomain.Summarize(bidName, r.ToRecord()),
		Status:          r.Status,
		CreatedAt:       r.CreatedAt,
	}
	if r.Defender2ID != nil {
		d2 := r.PointDelta[*r.Defender2ID]
		info.Defender2Points = &d2
	}
	for p, delta := range r.PointDelta {
		info.PointDelta[p] = delta
	}
	for _, c := range r.Contras {
		info.Contras = append(info.Contras, roundtypes.ContraInput{
			BidTypeID:           c.BidTypeID,
			Defender1Multiplier: c.Defender1Multiplier,
			Defender2Multiplier: c.Defender2Multiplier,
		})
	}
	for _, sb := range r.SilentBids {
		player := sb.PlayerID
		info.SilentBids = append(info.SilentBids, roundtypes.SilentBidInput{
			SilentBidID: sb.SilentBidID,
			AttackerWon: sb.Won,
			PlayerID:    &player,
		})
	}
	return info
}
