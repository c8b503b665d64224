package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	bizmodel "accessrating-backend/internal/domains/business/model"
)

const MaxReportLength = 20000

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateAssessmentRequest starts a draft; Submit moves it straight to
// pending approval when the draft is complete.
type CreateAssessmentRequest struct {
	ProposedRating *int   `json:"proposed_rating"`
	Report         string `json:"report"`
	Submit         bool   `json:"submit"`
}

func (r CreateAssessmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProposedRating, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Report, validation.Length(0, MaxReportLength)),
	)
}

// UpdateAssessmentRequest edits a draft; nil fields are unchanged.
type UpdateAssessmentRequest struct {
	ProposedRating *int    `json:"proposed_rating"`
	Report         *string `json:"report"`
}

func (r UpdateAssessmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProposedRating, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Report, validation.Length(0, MaxReportLength)),
	)
}

func (r UpdateAssessmentRequest) ApplyTo(a *Assessment) {
	if r.ProposedRating != nil {
		v := *r.ProposedRating
		a.ProposedRating = &v
	}
	if r.Report != nil {
		a.Report = *r.Report
	}
}

type RejectAssessmentRequest struct {
	Reason string `json:"reason"`
}

func (r RejectAssessmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Reason, validation.Required, validation.Length(1, 2000)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type AssessmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	BusinessID      uuid.UUID  `json:"business_id"`
	ProposedRating  *int       `json:"proposed_rating"`
	Report          string     `json:"report"`
	SubmittedBy     uuid.UUID  `json:"submitted_by"`
	State           State      `json:"state"`
	Status          string     `json:"status"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	RejectedBy      *uuid.UUID `json:"rejected_by,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
}

func (a *Assessment) ToResponse(nextDue *time.Time, now time.Time) AssessmentResponse {
	return AssessmentResponse{
		ID:              a.ID,
		BusinessID:      a.BusinessID,
		ProposedRating:  a.ProposedRating,
		Report:          a.Report,
		SubmittedBy:     a.SubmittedBy,
		State:           a.State,
		Status:          a.Status(nextDue, now),
		ApprovedBy:      a.ApprovedBy,
		RejectedBy:      a.RejectedBy,
		RejectionReason: a.RejectionReason,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
		SubmittedAt:     a.SubmittedAt,
		ApprovedAt:      a.ApprovedAt,
		RejectedAt:      a.RejectedAt,
	}
}

// ApprovalResponse carries the approved assessment and the rating fields
// written to its business in the same transaction.
type ApprovalResponse struct {
	Assessment AssessmentResponse     `json:"assessment"`
	Business   *bizmodel.RatingUpdate `json:"business"`
}

// MissingForSubmit lists the fields submission still needs.
func (a *Assessment) MissingForSubmit() map[string]error {
	missing := map[string]error{}
	if a.ProposedRating == nil {
		missing["proposed_rating"] = errors.New("is required")
	}
	if !hasText(a.Report) {
		missing["report"] = errors.New("is required")
	}
	return missing
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
