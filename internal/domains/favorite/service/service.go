package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"accessrating-backend/internal/domains/access"
	bizmodel "accessrating-backend/internal/domains/business/model"
	bizservice "accessrating-backend/internal/domains/business/service"
	"accessrating-backend/internal/domains/favorite/model"
	"accessrating-backend/internal/domains/favorite/repository"
	"accessrating-backend/internal/shared/apperror"
)

type ServiceInterface interface {
	Add(ctx context.Context, actor *access.Identity, businessID uuid.UUID) (*model.MembershipResponse, error)
	Remove(ctx context.Context, actor *access.Identity, businessID uuid.UUID) (*model.MembershipResponse, error)
	Toggle(ctx context.Context, actor *access.Identity, businessID uuid.UUID) (*model.MembershipResponse, error)
	List(ctx context.Context, actor *access.Identity) (*model.ListResponse, error)
}

type favoriteService struct {
	repo       repository.Repository
	businesses bizservice.Lookup
}

func NewFavoriteService(repo repository.Repository, businesses bizservice.Lookup) ServiceInterface {
	return &favoriteService{repo: repo, businesses: businesses}
}

var favoriteResource = access.Resource{Kind: access.KindFavorite}

func (s *favoriteService) Add(ctx context.Context, actor *access.Identity, businessID uuid.UUID) (*model.MembershipResponse, error) {
	if err := access.Check(actor, access.ActionFavorite, favoriteResource); err != nil {
		return nil, err
	}
	if err := s.businesses.EnsureExists(ctx, businessID); err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, actor.ID, businessID); err != nil {
		return nil, mapError(err, "failed to add favorite")
	}
	return &model.MembershipResponse{BusinessID: businessID, Favorited: true}, nil
}

// Remove does not check the business: removing a missing pair is a no-op.
func (s *favoriteService) Remove(ctx context.Context, actor *access.Identity, businessID uuid.UUID) (*model.MembershipResponse, error) {
	if err := access.Check(actor, access.ActionFavorite, favoriteResource); err != nil {
		return nil, err
	}
	if err := s.repo.Remove(ctx, actor.ID, businessID); err != nil {
		return nil, mapError(err, "failed to remove favorite")
	}
	return &model.MembershipResponse{BusinessID: businessID, Favorited: false}, nil
}

func (s *favoriteService) Toggle(ctx context.Context, actor *access.Identity, businessID uuid.UUID) (*model.MembershipResponse, error) {
	if err := access.Check(actor, access.ActionFavorite, favoriteResource); err != nil {
		return nil, err
	}
	if err := s.businesses.EnsureExists(ctx, businessID); err != nil {
		return nil, err
	}
	favorited, err := s.repo.Toggle(ctx, actor.ID, businessID)
	if err != nil {
		return nil, mapError(err, "failed to toggle favorite")
	}
	return &model.MembershipResponse{BusinessID: businessID, Favorited: favorited}, nil
}

func (s *favoriteService) List(ctx context.Context, actor *access.Identity) (*model.ListResponse, error) {
	if err := access.Check(actor, access.ActionView, favoriteResource); err != nil {
		return nil, err
	}
	ids, err := s.repo.List(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal("failed to list favorites", err)
	}
	return &model.ListResponse{BusinessIDs: ids, Count: len(ids)}, nil
}

func mapError(err error, msg string) error {
	if errors.Is(err, repository.ErrBusinessNotFound) {
		return bizmodel.NewNotFoundError()
	}
	return apperror.Internal(msg, err)
}
