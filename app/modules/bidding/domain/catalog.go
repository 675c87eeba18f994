package biddingdomain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// BidID identifies a bid combination in the catalog.
type BidID int

// RawBid is one row of catalog source data.
type RawBid struct {
	ID         BidID
	BidTypeIDs []BidTypeID
	Red        Red
}

// Bid is a legal combination of bid types. Values are immutable once the
// catalog is built.
type Bid struct {
	ID       BidID
	BidTypes []BidType
	Red      Red

	registry *Registry
}

// BidTypeIDs returns the constituent ids in declared order.
func (b Bid) BidTypeIDs() []BidTypeID {
	ids := make([]BidTypeID, len(b.BidTypes))
	for i, bt := range b.BidTypes {
		ids[i] = bt.ID
	}
	return ids
}

// Contains reports whether id is a constituent of the bid.
func (b Bid) Contains(id BidTypeID) bool {
	return slices.ContainsFunc(b.BidTypes, func(bt BidType) bool { return bt.ID == id })
}

// Constituent returns the constituent bid type with the given id.
func (b Bid) Constituent(id BidTypeID) (BidType, bool) {
	i := slices.IndexFunc(b.BidTypes, func(bt BidType) bool { return bt.ID == id })
	if i < 0 {
		return BidType{}, false
	}
	return b.BidTypes[i], true
}

// DisplayName is ComposeName for this bid.
func (b Bid) DisplayName() string { return ComposeName(b) }

// TotalScore is the nominal stake: the sum of constituent base scores.
// Settlement never uses it; it pays out only what the attacker fulfilled.
func (b Bid) TotalScore() int {
	total := 0
	for _, bt := range b.BidTypes {
		total += bt.BaseScore
	}
	return total
}

// namePriority is the canonical display order of bid type names.
// Names not listed sort after these, by registry order.
var namePriority = map[string]int{
	"20-100":             0,
	"40-100":             1,
	"Ulti":               2,
	"Négy ász":           3,
	"Durchmars":          4,
	"Parti":              5,
	"Terített durchmars": 6,
}

// ComposeName joins constituent names in canonical priority order with " - ",
// prefixed with "Piros " when the bid is red. The result does not depend on the
// order the constituents were declared in.
func ComposeName(b Bid) string {
	sorted := slices.Clone(b.BidTypes)
	slices.SortStableFunc(sorted, func(x, y BidType) int {
		return cmp.Compare(nameRank(b.registry, x), nameRank(b.registry, y))
	})

	names := make([]string, len(sorted))
	for i, bt := range sorted {
		names[i] = bt.Name
	}
	name := strings.Join(names, " - ")
	if b.Red.IsRed() {
		return "Piros " + name
	}
	return name
}

// nameRank orders a bid type inside a composed name: fixed priorities first,
// then registry order. Bids built outside a catalog have no registry, so their
// unlisted types sort by id.
func nameRank(reg *Registry, bt BidType) int {
	if p, ok := namePriority[bt.Name]; ok {
		return p
	}
	pos := int(bt.ID)
	if reg != nil {
		if i := reg.position(bt.ID); i >= 0 {
			pos = i
		}
	}
	return len(namePriority) + pos
}

// Catalog is the closed list of legal bid combinations. It is built once and
// only read afterwards.
type Catalog struct {
	registry *Registry
	bids     []Bid
	byID     map[BidID]int
}

// NewCatalog resolves every raw row against the registry. Any unresolvable
// bid type id fails the whole build with a *MalformedCatalogEntryError.
func NewCatalog(reg *Registry, raw []RawBid) (*Catalog, error) {
	c := &Catalog{
		registry: reg,
		bids:     make([]Bid, 0, len(raw)),
		byID:     make(map[BidID]int, len(raw)),
	}
	for _, rb := range raw {
		if _, dup := c.byID[rb.ID]; dup {
			return nil, &MalformedCatalogEntryError{BidID: rb.ID, Reason: "duplicate bid id"}
		}
		if len(rb.BidTypeIDs) == 0 {
			return nil, &MalformedCatalogEntryError{BidID: rb.ID, Reason: "no bid types"}
		}

		bid := Bid{ID: rb.ID, Red: rb.Red, registry: reg, BidTypes: make([]BidType, 0, len(rb.BidTypeIDs))}
		for _, id := range rb.BidTypeIDs {
			bt, err := reg.Lookup(id)
			if err != nil {
				return nil, &MalformedCatalogEntryError{BidID: rb.ID, BidTypeID: id, Reason: "unknown bid type"}
			}
			if bid.Contains(id) {
				return nil, &MalformedCatalogEntryError{BidID: rb.ID, BidTypeID: id, Reason: "duplicate bid type"}
			}
			bid.BidTypes = append(bid.BidTypes, bt)
		}

		c.byID[rb.ID] = len(c.bids)
		c.bids = append(c.bids, bid)
	}
	return c, nil
}

// Registry returns the registry the catalog was built from.
func (c *Catalog) Registry() *Registry { return c.registry }

// FindByID returns the bid with the given id.
func (c *Catalog) FindByID(id BidID) (Bid, error) {
	i, ok := c.byID[id]
	if !ok {
		return Bid{}, fmt.Errorf("bid %d: %w", id, ErrNotFound)
	}
	return c.bids[i], nil
}

// All returns the bids in catalog order.
func (c *Catalog) All() []Bid {
	return slices.Clone(c.bids)
}

// Len is the number of bids in the catalog.
func (c *Catalog) Len() int { return len(c.bids) }
