package biddingdomain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a registry or catalog lookup misses.
	ErrNotFound = errors.New("not found")

	// ErrMalformedCatalogEntry indicates the catalog data references something that does not exist.
	// It is a startup integrity failure and the catalog must not be used.
	ErrMalformedCatalogEntry = errors.New("malformed catalog entry")

	// ErrInvalidBidType indicates a bad registry row.
	ErrInvalidBidType = errors.New("invalid bid type")
)

// MalformedCatalogEntryError names the catalog row that failed to resolve.
type MalformedCatalogEntryError struct {
	BidID     BidID
	BidTypeID BidTypeID
	Reason    string
}

func (e *MalformedCatalogEntryError) Error() string {
	if e.BidTypeID != 0 {
		return fmt.Sprintf("malformed catalog entry: bid %d: %s (bid type %d)", e.BidID, e.Reason, e.BidTypeID)
	}
	return fmt.Sprintf("malformed catalog entry: bid %d: %s", e.BidID, e.Reason)
}

func (e *MalformedCatalogEntryError) Unwrap() error {
	return ErrMalformedCatalogEntry
}
