package biddingdomain

import (
	"fmt"
	"slices"
)

// SilentBidID identifies a silent bid.
type SilentBidID int

// SilentBid is a side declaration made without announcing it during play.
// Its value goes to the declaring player alone.
type SilentBid struct {
	ID        SilentBidID `json:"id"`
	Name      string      `json:"name"`
	BaseScore int         `json:"score"`
}

// SilentBidCatalog is the fixed set of silent bids.
type SilentBidCatalog struct {
	bids []SilentBid
	byID map[SilentBidID]int
}

// NewSilentBidCatalog validates and indexes the given silent bids.
func NewSilentBidCatalog(bids []SilentBid) (*SilentBidCatalog, error) {
	c := &SilentBidCatalog{byID: make(map[SilentBidID]int, len(bids))}
	for _, sb := range bids {
		if _, dup := c.byID[sb.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate silent bid id %d", ErrInvalidBidType, sb.ID)
		}
		if sb.BaseScore <= 0 {
			return nil, fmt.Errorf("%w: silent bid %d has non-positive score %d", ErrInvalidBidType, sb.ID, sb.BaseScore)
		}
		c.byID[sb.ID] = len(c.bids)
		c.bids = append(c.bids, sb)
	}
	return c, nil
}

// Lookup returns the silent bid with the given id.
func (c *SilentBidCatalog) Lookup(id SilentBidID) (SilentBid, error) {
	i, ok := c.byID[id]
	if !ok {
		return SilentBid{}, fmt.Errorf("silent bid %d: %w", id, ErrNotFound)
	}
	return c.bids[i], nil
}

// All returns the silent bids in catalog order.
func (c *SilentBidCatalog) All() []SilentBid {
	return slices.Clone(c.bids)
}
