package service

import (
	"context"

	"github.com/google/uuid"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/domains/review/model"
)

// =====================================================
// REVIEW SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// CreateReview creates a review with helpful_count 0
	CreateReview(ctx context.Context, actor *access.Identity, businessID uuid.UUID, req model.CreateReviewRequest) (*model.ReviewResponse, error)

	// ToggleHelpfulVote adds the caller's vote, or removes it if present
	ToggleHelpfulVote(ctx context.Context, actor *access.Identity, reviewID uuid.UUID) (*model.VoteResult, error)

	// ListReviews lists newest first, flagging the viewer's own votes
	ListReviews(ctx context.Context, viewer *access.Identity, businessID uuid.UUID, page, limit int) ([]model.ReviewResponse, int, error)
}
