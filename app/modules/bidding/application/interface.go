package biddingservice

import (
	"context"

	biddingtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/bidding"
)

// Service is the read-only view of the bid catalog.
type Service interface {
	ListBidTypes(ctx context.Context) []biddingtypes.BidTypeInfo
	GetBidType(ctx context.Context, id int) (biddingtypes.BidTypeInfo, error)
	GetBidTypeByName(ctx context.Context, name string) (biddingtypes.BidTypeInfo, error)

	ListBids(ctx context.Context) []biddingtypes.BidInfo
	GetBid(ctx context.Context, id int) (biddingtypes.BidInfo, error)

	ListSilentBids(ctx context.Context) []biddingtypes.SilentBidInfo
	GetSilentBid(ctx context.Context, id int) (biddingtypes.SilentBidInfo, error)
}
