// Package biddingtypes holds the wire shapes of the bid catalog.
package biddingtypes

// BidTypeInfo is one atomic contract.
type BidTypeInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// BidInfo is a declarable combination with its composed name.
// Red is null when the catalog row leaves it unspecified.
type BidInfo struct {
	ID       int           `json:"id"`
	Name     string        `json:"name"`
	BidTypes []BidTypeInfo `json:"bidTypes"`
	Red      *bool         `json:"red"`
	Score    int           `json:"score"`
}

// SilentBidInfo is one silent bid.
type SilentBidInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}
