package service

import (
	"context"

	"github.com/google/uuid"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/domains/assessment/model"
)

// =====================================================
// ASSESSMENT WORKFLOW INTERFACE
// =====================================================

type ServiceInterface interface {
	// Create starts a draft (optionally submitting it in the same call)
	Create(ctx context.Context, actor *access.Identity, businessID uuid.UUID, req model.CreateAssessmentRequest) (*model.AssessmentResponse, error)

	// Get applies visibility: approved for anyone, otherwise author or admin
	Get(ctx context.Context, actor *access.Identity, id uuid.UUID) (*model.AssessmentResponse, error)

	// UpdateDraft edits rating/report while in Draft (author only)
	UpdateDraft(ctx context.Context, actor *access.Identity, id uuid.UUID, req model.UpdateAssessmentRequest) (*model.AssessmentResponse, error)

	// Submit: Draft -> PendingApproval
	Submit(ctx context.Context, actor *access.Identity, id uuid.UUID) (*model.AssessmentResponse, error)

	// Approve: PendingApproval -> Approved, rewriting the business rating atomically
	Approve(ctx context.Context, actor *access.Identity, id uuid.UUID) (*model.ApprovalResponse, error)

	// Reject: PendingApproval -> Rejected, business untouched
	Reject(ctx context.Context, actor *access.Identity, id uuid.UUID, req model.RejectAssessmentRequest) (*model.AssessmentResponse, error)

	ListByBusiness(ctx context.Context, actor *access.Identity, businessID uuid.UUID) ([]model.AssessmentResponse, error)
	ListPending(ctx context.Context, actor *access.Identity, page, limit int) ([]model.AssessmentResponse, int, error)
}
