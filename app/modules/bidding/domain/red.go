package biddingdomain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Red is the tri-state "piros" modifier of a bid. RedUnspecified marks bids
// that carry no colour concept at all (Betli, Durchmars) and is kept distinct
// from RedNo even though both render without a prefix.
type Red int8

const (
	RedUnspecified Red = iota
	RedNo
	RedYes
)

// RedFromPtr maps nil/false/true onto the tri-state.
func RedFromPtr(v *bool) Red {
	switch {
	case v == nil:
		return RedUnspecified
	case *v:
		return RedYes
	default:
		return RedNo
	}
}

// Ptr is the inverse of RedFromPtr.
func (r Red) Ptr() *bool {
	switch r {
	case RedYes:
		v := true
		return &v
	case RedNo:
		v := false
		return &v
	default:
		return nil
	}
}

// IsRed reports whether the bid is played in hearts.
func (r Red) IsRed() bool { return r == RedYes }

// Specified reports whether the bid has a colour concept at all.
func (r Red) Specified() bool { return r != RedUnspecified }

func (r Red) String() string {
	switch r {
	case RedYes:
		return "red"
	case RedNo:
		return "plain"
	default:
		return "unspecified"
	}
}

// MarshalJSON encodes the tri-state as true, false or null.
func (r Red) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Ptr())
}

// UnmarshalJSON accepts true, false or null.
func (r *Red) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = RedUnspecified
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("red flag: %w", err)
	}
	*r = RedFromPtr(&v)
	return nil
}
