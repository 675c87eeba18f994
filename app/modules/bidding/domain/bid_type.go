package biddingdomain

import (
	"fmt"
	"strings"
)

// BidTypeID identifies an atomic scoring unit.
type BidTypeID int

// BidType is an atomic scoring unit such as Parti, Ulti or Betli.
type BidType struct {
	ID        BidTypeID `json:"id"`
	Name      string    `json:"name"`
	BaseScore int       `json:"score"`
}

// Registry is the read-only table of bid types. Safe for concurrent reads.
type Registry struct {
	types []BidType
	byID  map[BidTypeID]int
}

// NewRegistry validates the given bid types and indexes them by id.
// Registry order is the order of the input slice.
func NewRegistry(types []BidType) (*Registry, error) {
	r := &Registry{
		types: make([]BidType, 0, len(types)),
		byID:  make(map[BidTypeID]int, len(types)),
	}
	for _, bt := range types {
		if _, dup := r.byID[bt.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate bid type id %d", ErrInvalidBidType, bt.ID)
		}
		if bt.BaseScore <= 0 {
			return nil, fmt.Errorf("%w: bid type %d has non-positive score %d", ErrInvalidBidType, bt.ID, bt.BaseScore)
		}
		if strings.TrimSpace(bt.Name) == "" {
			return nil, fmt.Errorf("%w: bid type %d has no name", ErrInvalidBidType, bt.ID)
		}
		r.byID[bt.ID] = len(r.types)
		r.types = append(r.types, bt)
	}
	return r, nil
}

// Lookup returns the bid type with the given id.
func (r *Registry) Lookup(id BidTypeID) (BidType, error) {
	i, ok := r.byID[id]
	if !ok {
		return BidType{}, fmt.Errorf("bid type %d: %w", id, ErrNotFound)
	}
	return r.types[i], nil
}

// LookupByName matches names case-insensitively.
func (r *Registry) LookupByName(name string) (BidType, error) {
	for _, bt := range r.types {
		if strings.EqualFold(bt.Name, strings.TrimSpace(name)) {
			return bt, nil
		}
	}
	return BidType{}, fmt.Errorf("bid type %q: %w", name, ErrNotFound)
}

// All returns a copy of the registry in registry order.
func (r *Registry) All() []BidType {
	out := make([]BidType, len(r.types))
	copy(out, r.types)
	return out
}

// position returns the registry index of id, or -1.
func (r *Registry) position(id BidTypeID) int {
	i, ok := r.byID[id]
	if !ok {
		return -1
	}
	return i
}
