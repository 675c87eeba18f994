package biddingdomain

import "fmt"

// Bid type ids of the standard table.
const (
	Parti                   BidTypeID = 1
	FortyHundred            BidTypeID = 2
	FourAces                BidTypeID = 3
	Ulti                    BidTypeID = 4
	Betli                   BidTypeID = 5
	Durchmars               BidTypeID = 6
	ColourlessDurchmars     BidTypeID = 7
	TwentyHundred           BidTypeID = 8
	Rebetli                 BidTypeID = 9
	OpenDurchmars           BidTypeID = 10
	Redurchmars             BidTypeID = 11
	OpenBetli               BidTypeID = 12
	OpenColourlessDurchmars BidTypeID = 13
)

// DefaultBidTypes is the standard Ulti scoring table.
func DefaultBidTypes() []BidType {
	return []BidType{
		{ID: Parti, Name: "Parti", BaseScore: 1},
		{ID: FortyHundred, Name: "40-100", BaseScore: 4},
		{ID: FourAces, Name: "Négy ász", BaseScore: 4},
		{ID: Ulti, Name: "Ulti", BaseScore: 4},
		{ID: Betli, Name: "Betli", BaseScore: 5},
		{ID: Durchmars, Name: "Durchmars", BaseScore: 6},
		{ID: ColourlessDurchmars, Name: "Színnélküli durchmars", BaseScore: 6},
		{ID: TwentyHundred, Name: "20-100", BaseScore: 8},
		{ID: Rebetli, Name: "Rebetli", BaseScore: 10},
		{ID: OpenDurchmars, Name: "Terített durchmars", BaseScore: 12},
		{ID: Redurchmars, Name: "Redurchmars (szín nélküli)", BaseScore: 12},
		{ID: OpenBetli, Name: "Terített betli", BaseScore: 20},
		{ID: OpenColourlessDurchmars, Name: "Terített színnélküli durchmars", BaseScore: 24},
	}
}

func raw(id BidID, red Red, ids ...BidTypeID) RawBid {
	return RawBid{ID: id, BidTypeIDs: ids, Red: red}
}

// DefaultRawBids is the standard list of legal combinations. The list is data
// and is kept as played, including combinations that repeat another row.
func DefaultRawBids() []RawBid {
	return []RawBid{
		raw(1, RedNo, 1),
		raw(2, RedYes, 1),
		raw(3, RedNo, 2),
		raw(4, RedNo, 3, 1),
		raw(5, RedNo, 4, 1),
		raw(6, RedUnspecified, 5),
		raw(7, RedNo, 6),
		raw(8, RedUnspecified, 7),
		raw(9, RedNo, 2, 3),
		raw(10, RedNo, 2, 4),
		raw(11, RedYes, 2),
		raw(12, RedNo, 8),
		raw(13, RedNo, 4, 3, 1),
		raw(14, RedYes, 3, 1),
		raw(15, RedYes, 4, 1),
		raw(16, RedNo, 2, 6),
		raw(17, RedNo, 4, 6),
		raw(18, RedUnspecified, 9),
		raw(19, RedNo, 2, 4, 3),
		raw(20, RedNo, 8, 3),
		raw(21, RedNo, 8, 4),
		raw(22, RedYes, 6),
		raw(23, RedNo, 9),
		raw(24, RedUnspecified, 8),
		raw(25, RedNo, 2, 4, 6),
		raw(26, RedNo, 8, 6),
		raw(27, RedNo, 8, 4, 3),
		raw(28, RedNo, 2, 10),
		raw(29, RedNo, 4, 10),
		raw(30, RedYes, 2, 3),
		raw(31, RedYes, 2, 4),
		raw(32, RedYes, 2),
		raw(33, RedYes, 4, 3),
		raw(34, RedNo, 8, 4, 6),
		raw(35, RedNo, 2, 4, 10),
		raw(36, RedNo, 8, 10),
		raw(37, RedYes, 2, 6),
		raw(38, RedYes, 4, 6),
		raw(39, RedNo, 10),
		raw(40, RedNo, 8, 4, 10),
		raw(41, RedYes, 2, 4, 3),
		raw(42, RedYes, 8, 3),
		raw(43, RedYes, 8, 4),
		raw(44, RedYes, 10),
		raw(45, RedUnspecified, 13),
		raw(46, RedYes, 2, 4, 6),
		raw(47, RedYes, 8, 6),
		raw(48, RedYes, 8, 4, 3),
		raw(49, RedYes, 3, 10),
		raw(50, RedYes, 4, 10),
		raw(51, RedYes, 8, 4, 6),
		raw(52, RedYes, 3, 4, 10),
		raw(53, RedYes, 8, 10),
		raw(54, RedYes, 8, 4, 10),
	}
}

// DefaultSilentBids is the standard silent bid table.
func DefaultSilentBids() []SilentBid {
	return []SilentBid{
		{ID: 1, Name: "100", BaseScore: 2},
		{ID: 2, Name: "Négy Ász", BaseScore: 2},
		{ID: 3, Name: "Ulti", BaseScore: 2},
		{ID: 4, Name: "Durchmars", BaseScore: 3},
	}
}

// DefaultRegistry builds the standard registry.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(DefaultBidTypes())
}

// DefaultCatalog builds the standard catalog over the standard registry.
func DefaultCatalog() (*Catalog, error) {
	reg, err := DefaultRegistry()
	if err != nil {
		return nil, err
	}
	return NewCatalog(reg, DefaultRawBids())
}

// MustDefaultCatalog is DefaultCatalog for process start; it panics if the
// built-in data fails its integrity check.
func MustDefaultCatalog() *Catalog {
	c, err := DefaultCatalog()
	if err != nil {
		panic(fmt.Sprintf("bid catalog integrity check failed: %v", err))
	}
	return c
}

// MustDefaultSilentBids is the silent bid counterpart of MustDefaultCatalog.
func MustDefaultSilentBids() *SilentBidCatalog {
	c, err := NewSilentBidCatalog(DefaultSilentBids())
	if err != nil {
		panic(fmt.Sprintf("silent bid catalog integrity check failed: %v", err))
	}
	return c
}
