package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"accessrating-backend/internal/domains/access"
	bizmodel "accessrating-backend/internal/domains/business/model"
	bizservice "accessrating-backend/internal/domains/business/service"
	"accessrating-backend/internal/domains/review/model"
	"accessrating-backend/internal/domains/review/repository"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/pkg/metrics"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	businesses bizservice.Lookup
	metrics    *metrics.Registry
	now        func() time.Time
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	businesses bizservice.Lookup,
	m *metrics.Registry,
) ServiceInterface {
	return &reviewService{
		reviewRepo: reviewRepo,
		businesses: businesses,
		metrics:    m,
		now:        time.Now,
	}
}

// =====================================================
// CREATE REVIEW
// =====================================================

func (s *reviewService) CreateReview(
	ctx context.Context,
	actor *access.Identity,
	businessID uuid.UUID,
	req model.CreateReviewRequest,
) (*model.ReviewResponse, error) {
	// Step 1: any identity may review
	if err := access.Check(actor, access.ActionCreate, access.Resource{Kind: access.KindReview}); err != nil {
		return nil, err
	}

	// Step 2: business must exist
	if err := s.businesses.EnsureExists(ctx, businessID); err != nil {
		return nil, err
	}

	// Step 3: validate
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(model.ErrCodeValidation, err)
	}

	// Step 4: create review entity
	photos := req.Photos
	if photos == nil {
		photos = []string{}
	}
	review := &model.Review{
		ID:           uuid.New(),
		BusinessID:   businessID,
		AuthorID:     actor.ID,
		Sentiment:    model.Sentiment(req.Sentiment),
		Comment:      req.Comment,
		Photos:       photos,
		HelpfulCount: 0,
		CreatedAt:    s.now().UTC(),
	}

	// Step 5: save
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyReviewed):
			return nil, model.NewAlreadyReviewedError()
		case errors.Is(err, model.ErrBusinessNotFound):
			return nil, bizmodel.NewNotFoundError()
		}
		return nil, apperror.Internal("failed to create review", err)
	}

	resp := review.ToResponse()
	return &resp, nil
}

// =====================================================
// HELPFUL VOTE
// =====================================================

func (s *reviewService) ToggleHelpfulVote(
	ctx context.Context,
	actor *access.Identity,
	reviewID uuid.UUID,
) (*model.VoteResult, error) {
	if err := access.Check(actor, access.ActionVote, access.Resource{Kind: access.KindReview}); err != nil {
		return nil, err
	}

	result, err := s.reviewRepo.ToggleVote(ctx, reviewID, actor.ID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, apperror.Internal("failed to toggle vote", err)
	}

	direction := "removed"
	if result.UserHasVoted {
		direction = "added"
	}
	if s.metrics != nil {
		s.metrics.VoteToggles.WithLabelValues(direction).Inc()
	}

	log.Debug().
		Str("review_id", reviewID.String()).
		Str("user_id", actor.ID.String()).
		Str("direction", direction).
		Int("helpful_count", result.HelpfulCount).
		Msg("Helpful vote toggled")

	return result, nil
}

// =====================================================
// LIST REVIEWS
// =====================================================

func (s *reviewService) ListReviews(
	ctx context.Context,
	viewer *access.Identity,
	businessID uuid.UUID,
	page, limit int,
) ([]model.ReviewResponse, int, error) {
	if err := s.businesses.EnsureExists(ctx, businessID); err != nil {
		return nil, 0, err
	}

	var viewerID *uuid.UUID
	if viewer != nil {
		id := viewer.ID
		viewerID = &id
	}

	reviews, total, err := s.reviewRepo.ListByBusiness(ctx, businessID, viewerID, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list reviews", err)
	}

	out := make([]model.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		if viewerID == nil {
			r.ViewerVoted = false
		}
		out = append(out, r.ToResponse())
	}
	return out, total, nil
}
