package types

import (
	"time"

	"github.com/google/uuid"
)

// Recommendation is a career a user chose to keep.
type Recommendation struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	CareerID  uuid.UUID `json:"careerId"`
	Saved     bool      `json:"saved"`
	CreatedAt time.Time `json:"createdAt"`
	Career    *Career   `json:"career,omitempty"`
}

// SaveRecommendationRequest is the body of POST /recommendations/save.
type SaveRecommendationRequest struct {
	CareerID string `json:"careerId" validate:"required,uuid"`
}
