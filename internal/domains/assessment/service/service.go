package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/domains/assessment/model"
	"accessrating-backend/internal/domains/assessment/repository"
	bizmodel "accessrating-backend/internal/domains/business/model"
	bizrepo "accessrating-backend/internal/domains/business/repository"
	bizservice "accessrating-backend/internal/domains/business/service"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/pkg/metrics"
)

type assessmentService struct {
	repo              repository.Repository
	ratings           bizrepo.RatingWriter
	businesses        bizservice.Lookup
	metrics           *metrics.Registry
	reassessmentYears int
	now               func() time.Time
}

type Option func(*assessmentService)

func WithClock(now func() time.Time) Option {
	return func(s *assessmentService) { s.now = now }
}

func NewAssessmentService(
	repo repository.Repository,
	ratings bizrepo.RatingWriter,
	businesses bizservice.Lookup,
	m *metrics.Registry,
	reassessmentYears int,
	opts ...Option,
) ServiceInterface {
	s := &assessmentService{
		repo:              repo,
		ratings:           ratings,
		businesses:        businesses,
		metrics:           m,
		reassessmentYears: reassessmentYears,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// =====================================================
// CREATE
// =====================================================

func (s *assessmentService) Create(
	ctx context.Context,
	actor *access.Identity,
	businessID uuid.UUID,
	req model.CreateAssessmentRequest,
) (*model.AssessmentResponse, error) {
	// Step 1: experts only
	if err := access.Check(actor, access.ActionCreate, access.Assessment(uuid.Nil, string(model.StateDraft))); err != nil {
		return nil, err
	}

	// Step 2: validate + parent check
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(model.ErrCodeValidation, err)
	}
	b, err := s.businesses.Lookup(ctx, businessID)
	if err != nil {
		return nil, err
	}

	// Step 3: create the draft
	now := s.now().UTC()
	a := &model.Assessment{
		ID:             uuid.New(),
		BusinessID:     businessID,
		ProposedRating: req.ProposedRating,
		Report:         req.Report,
		SubmittedBy:    actor.ID,
		State:          model.StateDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.Submit && !a.Complete() {
		return nil, model.NewIncompleteError(a.MissingForSubmit())
	}
	if err := s.repo.Create(ctx, a); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, bizmodel.NewNotFoundError()
		}
		return nil, apperror.Internal("failed to create assessment", err)
	}
	s.recordTransition(model.StateDraft)

	// Step 4: optional immediate submission
	if req.Submit {
		if err := s.submit(ctx, a); err != nil {
			return nil, err
		}
	}

	resp := a.ToResponse(b.NextAssessmentDue, now)
	return &resp, nil
}

// =====================================================
// READ
// =====================================================

func (s *assessmentService) Get(ctx context.Context, actor *access.Identity, id uuid.UUID) (*model.AssessmentResponse, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.ActionView, a.Resource()); err != nil {
		return nil, err
	}

	b, err := s.businesses.Lookup(ctx, a.BusinessID)
	if err != nil {
		return nil, err
	}
	resp := a.ToResponse(b.NextAssessmentDue, s.now())
	return &resp, nil
}

func (s *assessmentService) ListByBusiness(ctx context.Context, actor *access.Identity, businessID uuid.UUID) ([]model.AssessmentResponse, error) {
	b, err := s.businesses.Lookup(ctx, businessID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, apperror.Internal("failed to list assessments", err)
	}

	now := s.now()
	out := make([]model.AssessmentResponse, 0, len(items))
	for _, a := range items {
		if !access.Authorize(actor, access.ActionView, a.Resource()).Allowed {
			continue
		}
		out = append(out, a.ToResponse(b.NextAssessmentDue, now))
	}
	return out, nil
}

func (s *assessmentService) ListPending(ctx context.Context, actor *access.Identity, page, limit int) ([]model.AssessmentResponse, int, error) {
	if err := access.Check(actor, access.ActionApproveAssessment, access.Resource{Kind: access.KindAssessment}); err != nil {
		return nil, 0, err
	}

	items, total, err := s.repo.ListPending(ctx, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list pending assessments", err)
	}

	now := s.now()
	out := make([]model.AssessmentResponse, 0, len(items))
	for _, a := range items {
		out = append(out, a.ToResponse(nil, now))
	}
	return out, total, nil
}

// =====================================================
// DRAFT EDITING + SUBMIT
// =====================================================

func (s *assessmentService) UpdateDraft(
	ctx context.Context,
	actor *access.Identity,
	id uuid.UUID,
	req model.UpdateAssessmentRequest,
) (*model.AssessmentResponse, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkDraftEdit(actor, a, "edit"); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(model.ErrCodeValidation, err)
	}

	req.ApplyTo(a)
	a.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateDraft(ctx, a); err != nil {
		return nil, s.mapStateError(err, "edit")
	}

	resp := a.ToResponse(nil, s.now())
	return &resp, nil
}

func (s *assessmentService) Submit(ctx context.Context, actor *access.Identity, id uuid.UUID) (*model.AssessmentResponse, error) {
	a, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkDraftEdit(actor, a, "submit"); err != nil {
		return nil, err
	}
	if !a.Complete() {
		return nil, model.NewIncompleteError(a.MissingForSubmit())
	}

	if err := s.submit(ctx, a); err != nil {
		return nil, err
	}

	resp := a.ToResponse(nil, s.now())
	return &resp, nil
}

func (s *assessmentService) submit(ctx context.Context, a *model.Assessment) error {
	now := s.now().UTC()
	a.SubmittedAt = &now
	if err := s.repo.Submit(ctx, a); err != nil {
		return s.mapStateError(err, "submit")
	}
	a.State = model.StatePendingApproval
	a.UpdatedAt = now
	s.recordTransition(a.State)

	log.Info().
		Str("assessment_id", a.ID.String()).
		Str("business_id", a.BusinessID.String()).
		Msg("Assessment submitted for approval")
	return nil
}

// checkDraftEdit lets the authoring expert (or an admin) act on a draft.
// A non-draft seen by someone allowed to act on it is a state error.
func (s *assessmentService) checkDraftEdit(actor *access.Identity, a *model.Assessment, action string) error {
	d := access.Authorize(actor, access.ActionEdit, a.Resource())
	if !d.Allowed && d.Reason != access.ReasonNotDraft {
		return d.Err()
	}
	if a.State != model.StateDraft {
		return model.NewInvalidStateError(a.State, action)
	}
	return nil
}

// =====================================================
// APPROVE / REJECT
// =====================================================

func (s *assessmentService) Approve(ctx context.Context, actor *access.Identity, id uuid.UUID) (*model.ApprovalResponse, error) {
	// Step 1: administrators only
	if err := access.Check(actor, access.ActionApproveAssessment, access.Resource{Kind: access.KindAssessment}); err != nil {
		return nil, err
	}

	var (
		approved *model.Assessment
		rating   *bizmodel.RatingUpdate
	)

	// Step 2: one transaction for the state change and the business rating
	err := s.repo.WithLocked(ctx, id, func(tx pgx.Tx, a *model.Assessment) error {
		if !model.CanTransition(a.State, model.StateApproved) {
			return model.NewInvalidStateError(a.State, "approve")
		}
		if a.ProposedRating == nil {
			return model.NewIncompleteError(a.MissingForSubmit())
		}

		now := s.now().UTC()
		a.State = model.StateApproved
		a.ApprovedBy = &actor.ID
		a.ApprovedAt = &now
		a.UpdatedAt = now
		if err := s.repo.SaveDecision(ctx, tx, a); err != nil {
			return err
		}

		nextDue := now.AddDate(s.reassessmentYears, 0, 0)
		upd, err := s.ratings.ApplyApprovedRating(ctx, tx, a.BusinessID, *a.ProposedRating, now, nextDue)
		if err != nil {
			return err
		}

		approved, rating = a, upd
		return nil
	})
	if err != nil {
		return nil, s.mapStateError(err, "approve")
	}
	s.recordTransition(model.StateApproved)

	event := log.Info()
	if !rating.Applied {
		event = log.Warn().Interface("superseded_by", rating.SupersededBy)
	}
	event.
		Str("assessment_id", approved.ID.String()).
		Str("business_id", approved.BusinessID.String()).
		Str("approved_by", actor.ID.String()).
		Int("rating", *approved.ProposedRating).
		Bool("rating_applied", rating.Applied).
		Msg("Assessment approved")

	nextDue := rating.NextAssessmentDue
	return &model.ApprovalResponse{
		Assessment: approved.ToResponse(&nextDue, s.now()),
		Business:   rating,
	}, nil
}

func (s *assessmentService) Reject(
	ctx context.Context,
	actor *access.Identity,
	id uuid.UUID,
	req model.RejectAssessmentRequest,
) (*model.AssessmentResponse, error) {
	if err := access.Check(actor, access.ActionApproveAssessment, access.Resource{Kind: access.KindAssessment}); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, apperror.FromValidation(model.ErrCodeReasonRequired, err)
	}

	var rejected *model.Assessment
	err := s.repo.WithLocked(ctx, id, func(tx pgx.Tx, a *model.Assessment) error {
		if !model.CanTransition(a.State, model.StateRejected) {
			return model.NewInvalidStateError(a.State, "reject")
		}

		now := s.now().UTC()
		reason := req.Reason
		a.State = model.StateRejected
		a.RejectedBy = &actor.ID
		a.RejectedAt = &now
		a.RejectionReason = &reason
		a.UpdatedAt = now
		if err := s.repo.SaveDecision(ctx, tx, a); err != nil {
			return err
		}
		rejected = a
		return nil
	})
	if err != nil {
		return nil, s.mapStateError(err, "reject")
	}
	s.recordTransition(model.StateRejected)

	log.Info().
		Str("assessment_id", rejected.ID.String()).
		Str("rejected_by", actor.ID.String()).
		Msg("Assessment rejected")

	resp := rejected.ToResponse(nil, s.now())
	return &resp, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *assessmentService) load(ctx context.Context, id uuid.UUID) (*model.Assessment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewNotFoundError()
		}
		return nil, apperror.Internal("failed to get assessment", err)
	}
	return a, nil
}

func (s *assessmentService) mapStateError(err error, action string) error {
	if _, ok := apperror.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, model.ErrNotFound):
		return model.NewNotFoundError()
	case errors.Is(err, bizmodel.ErrNotFound):
		return bizmodel.NewNotFoundError()
	case errors.Is(err, model.ErrStateChanged):
		return apperror.Conflict(model.ErrCodeInvalidState, "Assessment changed concurrently; cannot "+action)
	}
	return apperror.Internal("failed to "+action+" assessment", err)
}

func (s *assessmentService) recordTransition(state model.State) {
	if s.metrics != nil {
		s.metrics.AssessmentTransitions.WithLabelValues(string(state)).Inc()
	}
}
