package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/domains/business/model"
	"accessrating-backend/internal/domains/business/repository"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/pkg/metrics"
)

// BusinessService owns business records and is the registry other domains read through.
type BusinessService struct {
	repo    repository.Repository
	metrics *metrics.Registry
	now     func() time.Time
}

// Option customizes the service; used by tests to pin the clock.
type Option func(*BusinessService)

func WithClock(now func() time.Time) Option {
	return func(s *BusinessService) { s.now = now }
}

func NewBusinessService(repo repository.Repository, m *metrics.Registry, opts ...Option) *BusinessService {
	s := &BusinessService{repo: repo, metrics: m, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ ServiceInterface = (*BusinessService)(nil)
	_ Lookup           = (*BusinessService)(nil)
)

// =====================================================
// CREATE
// =====================================================

func (s *BusinessService) Create(
	ctx context.Context,
	actor *access.Identity,
	req model.CreateBusinessRequest,
) (*model.BusinessResponse, error) {
	// Step 1: any identity may list a business
	if err := access.Check(actor, access.ActionCreate, access.Business(nil)); err != nil {
		return nil, err
	}

	// Step 2: normalize + validate the record it would produce
	req.Normalize()
	now := s.now().UTC()
	b := req.ToBusiness(uuid.New(), actor.ID, now)
	if err := model.ValidateBusiness(b); err != nil {
		return nil, apperror.FromValidation(model.ErrCodeValidation, err)
	}

	// Step 3: persist unclaimed
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, apperror.Internal("failed to create business", err)
	}

	log.Info().
		Str("business_id", b.ID.String()).
		Str("created_by", actor.ID.String()).
		Msg("Business created")

	return b.ToResponse(now), nil
}

// =====================================================
// READ
// =====================================================

func (s *BusinessService) Get(ctx context.Context, id uuid.UUID) (*model.BusinessResponse, error) {
	b, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return b.ToResponse(s.now()), nil
}

func (s *BusinessService) Lookup(ctx context.Context, id uuid.UUID) (*model.Business, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "failed to get business")
	}
	return b, nil
}

func (s *BusinessService) EnsureExists(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return apperror.Internal("failed to check business", err)
	}
	if !exists {
		return model.NewNotFoundError()
	}
	return nil
}

// =====================================================
// UPDATE
// =====================================================

func (s *BusinessService) Update(
	ctx context.Context,
	actor *access.Identity,
	id uuid.UUID,
	req model.UpdateBusinessRequest,
) (*model.BusinessResponse, error) {
	// Step 1: load
	b, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	// Step 2: only the claimed owner (or an admin) edits
	if err := access.Check(actor, access.ActionEdit, b.Resource()); err != nil {
		return nil, err
	}
	if field := req.AdminOnlyField(); field != "" && !actor.Admin {
		return nil, model.NewAdminOnlyFieldError(field)
	}

	// Step 3: merge then validate the result as a whole
	req.ApplyTo(b)
	if err := model.ValidateBusiness(b); err != nil {
		return nil, apperror.FromValidation(model.ErrCodeValidation, err)
	}

	now := s.now().UTC()
	b.UpdatedAt = now
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, mapRepoError(err, "failed to update business")
	}

	return b.ToResponse(now), nil
}

// =====================================================
// CLAIM
// =====================================================

func (s *BusinessService) Claim(ctx context.Context, actor *access.Identity, id uuid.UUID) (*model.BusinessResponse, error) {
	b, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	// An existing owner always means Conflict, whoever asks.
	if b.IsClaimed() {
		s.recordClaim("conflict")
		return nil, model.NewAlreadyClaimedError()
	}
	if err := access.Check(actor, access.ActionClaim, b.Resource()); err != nil {
		s.recordClaim("denied")
		return nil, err
	}

	claimed, err := s.repo.Claim(ctx, id, actor.ID, s.now().UTC())
	if err != nil {
		if errors.Is(err, model.ErrAlreadyClaimed) {
			s.recordClaim("conflict")
		}
		return nil, mapRepoError(err, "failed to claim business")
	}
	s.recordClaim("claimed")

	log.Info().
		Str("business_id", id.String()).
		Str("owner_id", actor.ID.String()).
		Msg("Business claimed")

	return claimed.ToResponse(s.now()), nil
}

func (s *BusinessService) recordClaim(outcome string) {
	if s.metrics != nil {
		s.metrics.ClaimAttempts.WithLabelValues(outcome).Inc()
	}
}

// =====================================================
// DELETE
// =====================================================

func (s *BusinessService) Delete(ctx context.Context, actor *access.Identity, id uuid.UUID) error {
	if err := access.Check(actor, access.ActionDelete, access.Business(nil)); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapRepoError(err, "failed to delete business")
	}

	log.Warn().
		Str("business_id", id.String()).
		Str("deleted_by", actor.ID.String()).
		Msg("Business deleted with its assessments, reviews, photos and favorites")
	return nil
}

// =====================================================
// PHOTOS
// =====================================================

func (s *BusinessService) AddPhoto(
	ctx context.Context,
	actor *access.Identity,
	id uuid.UUID,
	req model.AddPhotoRequest,
) (*model.PhotoResponse, error) {
	b, err := s.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.ActionEdit, b.Resource()); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(model.ErrCodePhotoValidation, err)
	}

	photo := &model.Photo{
		ID:         uuid.New(),
		BusinessID: id,
		URL:        req.URL,
		PhotoType:  model.PhotoType(req.PhotoType),
		Caption:    req.Caption,
		IsPrimary:  req.IsPrimary,
		UploadedBy: actor.ID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.AddPhoto(ctx, photo); err != nil {
		return nil, mapRepoError(err, "failed to add photo")
	}

	resp := photo.ToResponse()
	return &resp, nil
}

func (s *BusinessService) ListPhotos(ctx context.Context, id uuid.UUID) ([]model.PhotoResponse, error) {
	if err := s.EnsureExists(ctx, id); err != nil {
		return nil, err
	}
	photos, err := s.repo.ListPhotos(ctx, id)
	if err != nil {
		return nil, apperror.Internal("failed to list photos", err)
	}

	out := make([]model.PhotoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, p.ToResponse())
	}
	return out, nil
}

func mapRepoError(err error, msg string) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.NewNotFoundError()
	case errors.Is(err, model.ErrAlreadyClaimed):
		return model.NewAlreadyClaimedError()
	}
	return apperror.Internal(msg, err)
}
