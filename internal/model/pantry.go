package model

import "time"

// PantryItem is a pantry entry as returned by the server. Name is the unique
// key within a user's pantry, compared case-insensitively.
type PantryItem struct {
	Name       string     `json:"name"`
	Quantity   string     `json:"quantity"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	AddedAt    time.Time  `json:"added_at"`
}

// PantryList wraps the pantry collection returned by GET /pantry.
type PantryList struct {
	Items []PantryItem `json:"items"`
}

// PantryUpsertRequest is the payload for PUT /pantry. The server performs
// create-or-replace keyed by the case-normalized name; partial patches are not
// supported, so callers always send the full desired state.
type PantryUpsertRequest struct {
	Name       string     `json:"name"`
	Quantity   string     `json:"quantity"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
}
