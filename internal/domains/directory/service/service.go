package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"accessrating-backend/internal/domains/access"
	bizmodel "accessrating-backend/internal/domains/business/model"
	"accessrating-backend/internal/domains/directory/model"
	"accessrating-backend/internal/domains/directory/repository"
	"accessrating-backend/internal/shared/apperror"
)

type ServiceInterface interface {
	Search(ctx context.Context, actor *access.Identity, req model.SearchRequest, page, limit int) ([]bizmodel.BusinessSummary, int, error)
	RecentSearches(ctx context.Context, actor *access.Identity) ([]model.SearchEntry, error)
}

type directoryService struct {
	repo    repository.Repository
	history repository.HistoryStore
	now     func() time.Time
}

// NewDirectoryService builds the search service. history may be nil.
func NewDirectoryService(repo repository.Repository, history repository.HistoryStore) ServiceInterface {
	return &directoryService{repo: repo, history: history, now: time.Now}
}

func (s *directoryService) Search(ctx context.Context, actor *access.Identity, req model.SearchRequest, page, limit int) ([]bizmodel.BusinessSummary, int, error) {
	// Step 1: Validate filters
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, 0, model.NewInvalidFilterError(err)
	}

	// Step 2: owner=me is only meaningful for a known caller
	var ownerID *uuid.UUID
	if req.Owner == model.OwnerMe {
		if actor == nil {
			return nil, 0, apperror.Unauthenticated(apperror.CodeUnauthenticated, "owner=me requires authentication")
		}
		ownerID = &actor.ID
	}
	filter := req.ToFilter(ownerID, page, limit)

	// Step 3: Query
	items, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, 0, apperror.Internal("failed to search businesses", err)
	}

	// Step 4: Remember the search, best effort
	s.remember(ctx, actor, req)

	out := make([]bizmodel.BusinessSummary, 0, len(items))
	for _, b := range items {
		out = append(out, b.ToSummary())
	}
	return out, total, nil
}

func (s *directoryService) remember(ctx context.Context, actor *access.Identity, req model.SearchRequest) {
	if s.history == nil || actor == nil || !req.HasFilters() {
		return
	}
	entry := model.SearchEntry{Query: req.Encode(), SearchedAt: s.now().UTC()}
	if err := s.history.Record(ctx, actor.ID, entry); err != nil {
		log.Warn().Err(err).Str("user_id", actor.ID.String()).Msg("failed to record search history")
	}
}

func (s *directoryService) RecentSearches(ctx context.Context, actor *access.Identity) ([]model.SearchEntry, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated(apperror.CodeUnauthenticated, "authentication required")
	}
	if s.history == nil {
		return []model.SearchEntry{}, nil
	}
	entries, err := s.history.Recent(ctx, actor.ID)
	if err != nil {
		return nil, apperror.Internal("failed to load search history", err)
	}
	return entries, nil
}
