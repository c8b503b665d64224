package repository

import (
	"context"

	"github.com/google/uuid"

	"accessrating-backend/internal/domains/review/model"
)

// =====================================================
// REVIEW REPOSITORY INTERFACE
// =====================================================

type ReviewRepository interface {
	// Create inserts a review; one per (business, author)
	Create(ctx context.Context, review *model.Review) error

	// ToggleVote flips the caller's helpful vote and recounts, atomically
	ToggleVote(ctx context.Context, reviewID, userID uuid.UUID) (*model.VoteResult, error)

	// ListByBusiness returns newest first; viewerID may be nil
	ListByBusiness(ctx context.Context, businessID uuid.UUID, viewerID *uuid.UUID, page, limit int) ([]*model.Review, int, error)
}
