package model

import (
	"github.com/google/uuid"
)

// MembershipResponse reports whether the business is in the caller's favorites.
type MembershipResponse struct {
	BusinessID uuid.UUID `json:"business_id"`
	Favorited  bool      `json:"favorited"`
}

// ListResponse carries the caller's favorites. Order is unspecified.
type ListResponse struct {
	BusinessIDs []uuid.UUID `json:"business_ids"`
	Count       int         `json:"count"`
}
