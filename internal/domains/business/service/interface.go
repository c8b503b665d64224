package service

import (
	"context"

	"github.com/google/uuid"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/domains/business/model"
)

// =====================================================
// BUSINESS SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	Create(ctx context.Context, actor *access.Identity, req model.CreateBusinessRequest) (*model.BusinessResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*model.BusinessResponse, error)
	Update(ctx context.Context, actor *access.Identity, id uuid.UUID, req model.UpdateBusinessRequest) (*model.BusinessResponse, error)
	Claim(ctx context.Context, actor *access.Identity, id uuid.UUID) (*model.BusinessResponse, error)
	Delete(ctx context.Context, actor *access.Identity, id uuid.UUID) error

	AddPhoto(ctx context.Context, actor *access.Identity, id uuid.UUID, req model.AddPhotoRequest) (*model.PhotoResponse, error)
	ListPhotos(ctx context.Context, id uuid.UUID) ([]model.PhotoResponse, error)
}

// Lookup is the read-only view other domains use for parent checks.
type Lookup interface {
	Lookup(ctx context.Context, id uuid.UUID) (*model.Business, error)
	EnsureExists(ctx context.Context, id uuid.UUID) error
}
