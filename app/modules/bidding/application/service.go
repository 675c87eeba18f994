package biddingservice

import (
	"context"
	"log/slog"
	"strconv"

	biddingdomain "github.com/Black-And-White-Club/ulti-bot/app/modules/bidding/domain"
	"github.com/Black-And-White-Club/ulti-bot/pkg/observability/metrics"
	biddingtypes "github.com/Black-And-White-Club/ulti-bot/pkg/types/bidding"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/operation"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
)

// BiddingService serves the in-memory catalog. It never touches the database.
type BiddingService struct {
	catalog *biddingdomain.Catalog
	silent  *biddingdomain.SilentBidCatalog
	logger  *slog.Logger
	runner  *operation.Runner
}

// NewBiddingService creates a new BiddingService.
func NewBiddingService(
	catalog *biddingdomain.Catalog,
	silent *biddingdomain.SilentBidCatalog,
	logger *slog.Logger,
	metrics metrics.OperationMetrics,
	tracer trace.Tracer,
) *BiddingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BiddingService{
		catalog: catalog,
		silent:  silent,
		logger:  logger,
		runner: &operation.Runner{
			Service: "BiddingService",
			Logger:  logger,
			Metrics: metrics,
			Tracer:  tracer,
		},
	}
}

// Catalog exposes the bid catalog to other modules.
func (s *BiddingService) Catalog() *biddingdomain.Catalog { return s.catalog }

// SilentBids exposes the silent bid catalog to other modules.
func (s *BiddingService) SilentBids() *biddingdomain.SilentBidCatalog { return s.silent }

func (s *BiddingService) ListBidTypes(ctx context.Context) []biddingtypes.BidTypeInfo {
	all := s.catalog.Registry().All()
	out := make([]biddingtypes.BidTypeInfo, 0, len(all))
	for _, bt := range all {
		out = append(out, BidTypeInfo(bt))
	}
	return out
}

func (s *BiddingService) GetBidType(ctx context.Context, id int) (biddingtypes.BidTypeInfo, error) {
	return operation.Run(s.runner, ctx, "GetBidType", strconv.Itoa(id), func(ctx context.Context, _ bun.IDB) (results.OperationResult[biddingtypes.BidTypeInfo, error], error) {
		bt, err := s.catalog.Registry().Lookup(biddingdomain.BidTypeID(id))
		if err != nil {
			return results.FailureResult[biddingtypes.BidTypeInfo, error](err), nil
		}
		return results.SuccessResult[biddingtypes.BidTypeInfo, error](BidTypeInfo(bt)), nil
	})
}

func (s *BiddingService) GetBidTypeByName(ctx context.Context, name string) (biddingtypes.BidTypeInfo, error) {
	return operation.Run(s.runner, ctx, "GetBidTypeByName", name, func(ctx context.Context, _ bun.IDB) (results.OperationResult[biddingtypes.BidTypeInfo, error], error) {
		bt, err := s.catalog.Registry().LookupByName(name)
		if err != nil {
			return results.FailureResult[biddingtypes.BidTypeInfo, error](err), nil
		}
		return results.SuccessResult[biddingtypes.BidTypeInfo, error](BidTypeInfo(bt)), nil
	})
}

func (s *BiddingService) ListBids(ctx context.Context) []biddingtypes.BidInfo {
	all := s.catalog.All()
	out := make([]biddingtypes.BidInfo, 0, len(all))
	for _, b := range all {
		out = append(out, BidInfo(b))
	}
	return out
}

func (s *BiddingService) GetBid(ctx context.Context, id int) (biddingtypes.BidInfo, error) {
	return operation.Run(s.runner, ctx, "GetBid", strconv.Itoa(id), func(ctx context.Context, _ bun.IDB) (results.OperationResult[biddingtypes.BidInfo, error], error) {
		b, err := s.catalog.FindByID(biddingdomain.BidID(id))
		if err != nil {
			return results.FailureResult[biddingtypes.BidInfo, error](err), nil
		}
		return results.SuccessResult[biddingtypes.BidInfo, error](BidInfo(b)), nil
	})
}

func (s *BiddingService) ListSilentBids(ctx context.Context) []biddingtypes.SilentBidInfo {
	all := s.silent.All()
	out := make([]biddingtypes.SilentBidInfo, 0, len(all))
	for _, sb := range all {
		out = append(out, SilentBidInfo(sb))
	}
	return out
}

func (s *BiddingService) GetSilentBid(ctx context.Context, id int) (biddingtypes.SilentBidInfo, error) {
	return operation.Run(s.runner, ctx, "GetSilentBid", strconv.Itoa(id), func(ctx context.Context, _ bun.IDB) (results.OperationResult[biddingtypes.SilentBidInfo, error], error) {
		sb, err := s.silent.Lookup(biddingdomain.SilentBidID(id))
		if err != nil {
			return results.FailureResult[biddingtypes.SilentBidInfo, error](err), nil
		}
		return results.SuccessResult[biddingtypes.SilentBidInfo, error](SilentBidInfo(sb)), nil
	})
}

// BidTypeInfo maps a bid type to its wire shape.
func BidTypeInfo(bt biddingdomain.BidType) biddingtypes.BidTypeInfo {
	return biddingtypes.BidTypeInfo{ID: int(bt.ID), Name: bt.Name, Score: bt.BaseScore}
}

// BidInfo maps a bid to its wire shape.
func BidInfo(b biddingdomain.Bid) biddingtypes.BidInfo {
	types := make([]biddingtypes.BidTypeInfo, 0, len(b.BidTypes))
	for _, bt := range b.BidTypes {
		types = append(types, BidTypeInfo(bt))
	}
	return biddingtypes.BidInfo{
		ID:       int(b.ID),
		Name:     b.DisplayName(),
		BidTypes: types,
		Red:      b.Red.Ptr(),
		Score:    b.TotalScore(),
	}
}

// SilentBidInfo maps a silent bid to its wire shape.
func SilentBidInfo(sb biddingdomain.SilentBid) biddingtypes.SilentBidInfo {
	return biddingtypes.SilentBidInfo{ID: int(sb.ID), Name: sb.Name, Score: sb.BaseScore}
}

var _ Service = (*BiddingService)(nil)
