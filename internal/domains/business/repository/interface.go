package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"accessrating-backend/internal/domains/business/model"
)

// =====================================================
// BUSINESS REPOSITORY INTERFACE
// =====================================================

type Repository interface {
	// Create inserts a new, unclaimed business
	Create(ctx context.Context, b *model.Business) error

	// GetByID returns model.ErrNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*model.Business, error)

	// Exists is a cheap parent check for child records
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// Update writes editable fields only; rating and ownership columns are untouched
	Update(ctx context.Context, b *model.Business) error

	// Claim sets claimed_by only while it is still NULL.
	// Returns model.ErrAlreadyClaimed if another owner won.
	Claim(ctx context.Context, id, ownerID uuid.UUID, now time.Time) (*model.Business, error)

	// Delete removes the business; children cascade
	Delete(ctx context.Context, id uuid.UUID) error

	// ========================================
	// PHOTOS
	// ========================================

	AddPhoto(ctx context.Context, p *model.Photo) error
	ListPhotos(ctx context.Context, businessID uuid.UUID) ([]*model.Photo, error)
}

// RatingWriter is the only write path for the denormalized rating fields.
// It runs inside the caller's approval transaction.
type RatingWriter interface {
	ApplyApprovedRating(ctx context.Context, tx pgx.Tx, businessID uuid.UUID, rating int, approvedAt, nextDue time.Time) (*model.RatingUpdate, error)
}
