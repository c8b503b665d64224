package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"accessrating-backend/internal/domains/assessment/model"
)

// LockedFunc runs while the assessment row is held FOR UPDATE.
type LockedFunc func(tx pgx.Tx, a *model.Assessment) error

type Repository interface {
	Create(ctx context.Context, a *model.Assessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Assessment, error)

	// UpdateDraft writes rating/report only while the row is still a draft.
	// Returns model.ErrStateChanged otherwise.
	UpdateDraft(ctx context.Context, a *model.Assessment) error

	// Submit moves a complete draft to pending approval atomically.
	Submit(ctx context.Context, a *model.Assessment) error

	// WithLocked opens a transaction, locks the row and runs fn. fn's error
	// rolls everything back.
	WithLocked(ctx context.Context, id uuid.UUID, fn LockedFunc) error

	// SaveDecision persists an approve/reject inside WithLocked.
	SaveDecision(ctx context.Context, tx pgx.Tx, a *model.Assessment) error

	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*model.Assessment, error)
	ListPending(ctx context.Context, page, limit int) ([]*model.Assessment, int, error)
}
