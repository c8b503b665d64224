package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accessrating-backend/internal/domains/access"
	bizmodel "accessrating-backend/internal/domains/business/model"
	"accessrating-backend/internal/domains/review/model"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/pkg/metrics"
)

// memRepo mirrors the storage contract: unique (business, author) reviews
// and a unique (review, user) vote key, all under one lock.
type memRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*model.Review
	votes   map[uuid.UUID]map[uuid.UUID]struct{}
}

func newMemRepo() *memRepo {
	return &memRepo{
		reviews: map[uuid.UUID]*model.Review{},
		votes:   map[uuid.UUID]map[uuid.UUID]struct{}{},
	}
}

func (m *memRepo) Create(ctx context.Context, review *model.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.reviews {
		if r.BusinessID == review.BusinessID && r.AuthorID == review.AuthorID {
			return model.ErrAlreadyReviewed
		}
	}
	cp := *review
	m.reviews[review.ID] = &cp
	m.votes[review.ID] = map[uuid.UUID]struct{}{}
	return nil
}

func (m *memRepo) ToggleVote(ctx context.Context, reviewID, userID uuid.UUID) (*model.VoteResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reviews[reviewID]
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	votes := m.votes[reviewID]
	_, had := votes[userID]
	if had {
		delete(votes, userID)
	} else {
		votes[userID] = struct{}{}
	}
	r.HelpfulCount = len(votes)
	return &model.VoteResult{ReviewID: reviewID, HelpfulCount: r.HelpfulCount, UserHasVoted: !had}, nil
}

func (m *memRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID, viewerID *uuid.UUID, page, limit int) ([]*model.Review, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Review
	for _, r := range m.reviews {
		if r.BusinessID != businessID {
			continue
		}
		cp := *r
		if viewerID != nil {
			_, cp.ViewerVoted = m.votes[r.ID][*viewerID]
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

type fakeBusinesses struct {
	known map[uuid.UUID]bool
}

func (f *fakeBusinesses) Lookup(ctx context.Context, id uuid.UUID) (*bizmodel.Business, error) {
	if !f.known[id] {
		return nil, bizmodel.NewNotFoundError()
	}
	return &bizmodel.Business{ID: id}, nil
}

func (f *fakeBusinesses) EnsureExists(ctx context.Context, id uuid.UUID) error {
	_, err := f.Lookup(ctx, id)
	return err
}

func setup() (*reviewService, *memRepo, uuid.UUID) {
	businessID := uuid.New()
	repo := newMemRepo()
	svc := NewReviewService(repo, &fakeBusinesses{known: map[uuid.UUID]bool{businessID: true}}, metrics.New()).(*reviewService)
	return svc, repo, businessID
}

func user() *access.Identity {
	return access.NewIdentity(uuid.New(), false)
}

func kindOf(t *testing.T, err error) apperror.Kind {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %v", err)
	return appErr.Kind
}

func TestScenario_ToggleTwiceReturnsToStart(t *testing.T) {
	svc, _, businessID := setup()
	u := user()
	ctx := context.Background()

	review, err := svc.CreateReview(ctx, u, businessID, model.CreateReviewRequest{Sentiment: "positive"})
	require.NoError(t, err)
	assert.Equal(t, 0, review.HelpfulCount)

	first, err := svc.ToggleHelpfulVote(ctx, u, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.HelpfulCount)
	assert.True(t, first.UserHasVoted)

	second, err := svc.ToggleHelpfulVote(ctx, u, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, second.HelpfulCount)
	assert.False(t, second.UserHasVoted)
}

func TestToggle_ConcurrentVotersNoDrift(t *testing.T) {
	svc, repo, businessID := setup()
	ctx := context.Background()
	review, err := svc.CreateReview(ctx, user(), businessID, model.CreateReviewRequest{Sentiment: "neutral"})
	require.NoError(t, err)

	const voters = 50
	identities := make([]*access.Identity, voters)
	for i := range identities {
		identities[i] = user()
	}

	var wg sync.WaitGroup
	for i, id := range identities {
		wg.Add(1)
		go func(i int, id *access.Identity) {
			defer wg.Done()
			// odd voters toggle twice and end un-voted
			times := 1 + i%2
			for n := 0; n < times; n++ {
				_, err := svc.ToggleHelpfulVote(ctx, id, review.ID)
				assert.NoError(t, err)
			}
		}(i, id)
	}
	wg.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, voters/2, len(repo.votes[review.ID]))
	assert.Equal(t, len(repo.votes[review.ID]), repo.reviews[review.ID].HelpfulCount)
}

func TestToggle_AnonymousAndMissingReview(t *testing.T) {
	svc, _, _ := setup()

	_, err := svc.ToggleHelpfulVote(context.Background(), nil, uuid.New())
	assert.Equal(t, apperror.KindUnauthenticated, kindOf(t, err))

	_, err = svc.ToggleHelpfulVote(context.Background(), user(), uuid.New())
	assert.Equal(t, apperror.KindNotFound, kindOf(t, err))
}

func TestCreateReview_Failures(t *testing.T) {
	svc, _, businessID := setup()
	u := user()
	comment := "Great ramp"

	_, err := svc.CreateReview(context.Background(), u, uuid.New(), model.CreateReviewRequest{Sentiment: "positive"})
	assert.Equal(t, apperror.KindNotFound, kindOf(t, err))

	_, err = svc.CreateReview(context.Background(), u, businessID, model.CreateReviewRequest{Comment: &comment})
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))

	_, err = svc.CreateReview(context.Background(), u, businessID, model.CreateReviewRequest{Sentiment: "ecstatic"})
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))

	tooMany := []string{"https://a/1", "https://a/2", "https://a/3", "https://a/4", "https://a/5", "https://a/6"}
	_, err = svc.CreateReview(context.Background(), u, businessID, model.CreateReviewRequest{Sentiment: "positive", Photos: tooMany})
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))

	_, err = svc.CreateReview(context.Background(), nil, businessID, model.CreateReviewRequest{Sentiment: "positive"})
	assert.Equal(t, apperror.KindUnauthenticated, kindOf(t, err))
}

func TestCreateReview_OnePerAuthor(t *testing.T) {
	svc, _, businessID := setup()
	u := user()

	_, err := svc.CreateReview(context.Background(), u, businessID, model.CreateReviewRequest{Sentiment: "Negative"})
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), u, businessID, model.CreateReviewRequest{Sentiment: "positive"})
	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindConflict, appErr.Kind)
	assert.Equal(t, model.ErrCodeAlreadyReviewed, appErr.Code)
}

func TestListReviews_NewestFirstWithViewerFlag(t *testing.T) {
	svc, _, businessID := setup()
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { clock = clock.Add(time.Minute); return clock }

	older, err := svc.CreateReview(ctx, user(), businessID, model.CreateReviewRequest{Sentiment: "positive"})
	require.NoError(t, err)
	newer, err := svc.CreateReview(ctx, user(), businessID, model.CreateReviewRequest{Sentiment: "negative"})
	require.NoError(t, err)

	viewer := user()
	_, err = svc.ToggleHelpfulVote(ctx, viewer, older.ID)
	require.NoError(t, err)

	items, total, err := svc.ListReviews(ctx, viewer, businessID, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	assert.Equal(t, newer.ID, items[0].ID)
	assert.False(t, items[0].UserHasVoted)
	assert.Equal(t, older.ID, items[1].ID)
	assert.True(t, items[1].UserHasVoted)
	assert.Equal(t, 1, items[1].HelpfulCount)

	anon, _, err := svc.ListReviews(ctx, nil, businessID, 1, 20)
	require.NoError(t, err)
	for _, r := range anon {
		assert.False(t, r.UserHasVoted)
	}
}
