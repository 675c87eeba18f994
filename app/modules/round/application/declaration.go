package roundservice

import (
	"fmt"

	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	rounddomain "github.com/Black-And-White-Club/ulti-bot/app/modules/round/domain"
	roundtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/round"
)

// BuildDeclaration resolves catalog ids in a request. Unknown ids are
// invalid declarations, not missing resources.
func BuildDeclaration(
	catalog *biddingdomain.Catalog,
	silent *biddingdomain.SilentBidCatalog,
	req roundtypes.CreateRoundRequest,
) (rounddomain.Declaration, error) {
	bid, err := catalog.FindByID(biddingdomain.BidID(req.BidID))
	if err != nil {
		return rounddomain.Declaration{}, fmt.Errorf("%w: %v", rounddomain.ErrInvalidDeclaration, err)
	}

	d := rounddomain.Declaration{
		Bid:         bid,
		AttackerID:  rounddomain.PlayerID(req.AttackerID),
		Defender1ID: rounddomain.PlayerID(req.Defender1ID),
		AttackerWon: req.AttackerWon,
	}
	if req.Defender2ID != nil {
		d2 := rounddomain.PlayerID(*req.Defender2ID)
		d.Defender2ID = &d2
	}

	for _, id := range req.AttackerWonBidTypeIDs {
		d.WonBidTypeIDs = append(d.WonBidTypeIDs, biddingdomain.BidTypeID(id))
	}

	for _, c := range req.Contras {
		d.Contras = append(d.Contras, rounddomain.Contra{
			BidTypeID:           biddingdomain.BidTypeID(c.BidTypeID),
			Defender1Multiplier: c.Defender1Multiplier,
			Defender2Multiplier: c.Defender2Multiplier,
		})
	}

	for _, sb := range req.SilentBids {
		resolved, err := silent.Lookup(biddingdomain.SilentBidID(sb.SilentBidID))
		if err != nil {
			return rounddomain.Declaration{}, fmt.Errorf("%w: %v", rounddomain.ErrInvalidDeclaration, err)
		}
		player := d.AttackerID
		if sb.PlayerID != nil {
			player = rounddomain.PlayerID(*sb.PlayerID)
		}
		d.SilentBids = append(d.SilentBids, rounddomain.SilentBidOutcome{
			PlayerID:  player,
			SilentBid: resolved,
			Won:       sb.AttackerWon,
		})
	}

	return d, nil
}
