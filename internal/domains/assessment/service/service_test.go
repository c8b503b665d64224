package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/domains/assessment/model"
	"accessrating-backend/internal/domains/assessment/repository"
	bizmodel "accessrating-backend/internal/domains/business/model"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/pkg/metrics"
)

// =====================================================
// MOCKS
// =====================================================

type mockRepo struct {
	mock.Mock
	stored map[uuid.UUID]*model.Assessment
}

func newMockRepo() *mockRepo {
	return &mockRepo{stored: map[uuid.UUID]*model.Assessment{}}
}

func (m *mockRepo) put(a *model.Assessment) {
	cp := *a
	m.stored[a.ID] = &cp
}

func (m *mockRepo) Create(ctx context.Context, a *model.Assessment) error {
	err := m.Called(ctx, a).Error(0)
	if err == nil {
		m.put(a)
	}
	return err
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Assessment, error) {
	a, ok := m.stored[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) UpdateDraft(ctx context.Context, a *model.Assessment) error {
	if m.stored[a.ID].State != model.StateDraft {
		return model.ErrStateChanged
	}
	m.put(a)
	return nil
}

func (m *mockRepo) Submit(ctx context.Context, a *model.Assessment) error {
	cur := m.stored[a.ID]
	if cur.State != model.StateDraft {
		return model.ErrStateChanged
	}
	cur.State = model.StatePendingApproval
	cur.SubmittedAt = a.SubmittedAt
	return nil
}

// WithLocked hands fn a copy and only stores it when fn succeeds, the way a
// rolled-back transaction would leave the row untouched.
func (m *mockRepo) WithLocked(ctx context.Context, id uuid.UUID, fn repository.LockedFunc) error {
	a, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := fn(nil, a); err != nil {
		return err
	}
	m.put(a)
	return nil
}

func (m *mockRepo) SaveDecision(ctx context.Context, tx pgx.Tx, a *model.Assessment) error {
	return m.Called(ctx, tx, a).Error(0)
}

func (m *mockRepo) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*model.Assessment, error) {
	var out []*model.Assessment
	for _, a := range m.stored {
		if a.BusinessID == businessID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) ListPending(ctx context.Context, page, limit int) ([]*model.Assessment, int, error) {
	args := m.Called(ctx, page, limit)
	items, _ := args.Get(0).([]*model.Assessment)
	return items, args.Int(1), args.Error(2)
}

type mockRatings struct {
	mock.Mock
}

func (m *mockRatings) ApplyApprovedRating(ctx context.Context, tx pgx.Tx, businessID uuid.UUID, rating int, approvedAt, nextDue time.Time) (*bizmodel.RatingUpdate, error) {
	args := m.Called(ctx, tx, businessID, rating, approvedAt, nextDue)
	upd, _ := args.Get(0).(*bizmodel.RatingUpdate)
	return upd, args.Error(1)
}

type fakeBusinesses struct {
	items map[uuid.UUID]*bizmodel.Business
}

func (f *fakeBusinesses) Lookup(ctx context.Context, id uuid.UUID) (*bizmodel.Business, error) {
	b, ok := f.items[id]
	if !ok {
		return nil, bizmodel.NewNotFoundError()
	}
	return b, nil
}

func (f *fakeBusinesses) EnsureExists(ctx context.Context, id uuid.UUID) error {
	_, err := f.Lookup(ctx, id)
	return err
}

// =====================================================
// FIXTURES
// =====================================================

var today = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

type fixture struct {
	svc        ServiceInterface
	repo       *mockRepo
	ratings    *mockRatings
	metrics    *metrics.Registry
	business   *bizmodel.Business
	expert     *access.Identity
	admin      *access.Identity
	otherUser  *access.Identity
	businesses *fakeBusinesses
}

func newFixture() *fixture {
	f := &fixture{
		repo:      newMockRepo(),
		ratings:   &mockRatings{},
		metrics:   metrics.New(),
		business:  &bizmodel.Business{ID: uuid.New(), Name: "Harbour Pub"},
		expert:    access.NewIdentity(uuid.New(), false, access.RoleAccessibilityExpert),
		admin:     access.NewIdentity(uuid.New(), true),
		otherUser: access.NewIdentity(uuid.New(), false),
	}
	f.businesses = &fakeBusinesses{items: map[uuid.UUID]*bizmodel.Business{f.business.ID: f.business}}
	f.svc = NewAssessmentService(f.repo, f.ratings, f.businesses, f.metrics, 3, WithClock(func() time.Time { return today }))
	f.repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.repo.On("SaveDecision", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return f
}

func (f *fixture) seed(state model.State, rating *int) *model.Assessment {
	a := &model.Assessment{
		ID:             uuid.New(),
		BusinessID:     f.business.ID,
		ProposedRating: rating,
		Report:         "Step-free entrance, accessible toilet with grab rails.",
		SubmittedBy:    f.expert.ID,
		State:          state,
		CreatedAt:      today.Add(-48 * time.Hour),
		UpdatedAt:      today.Add(-48 * time.Hour),
	}
	f.repo.put(a)
	return a
}

func intPtr(v int) *int { return &v }

func kindOf(t *testing.T, err error) apperror.Kind {
	t.Helper()
	appErr, ok := apperror.As(err)
	require.True(t, ok, "expected *apperror.Error, got %v", err)
	return appErr.Kind
}

// =====================================================
// TESTS
// =====================================================

func TestScenario_SubmitThenApproveRatesBusiness(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.expert, f.business.ID, model.CreateAssessmentRequest{
		ProposedRating: intPtr(4),
		Report:         "Level entrance, wide aisles, accessible toilet.",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StateDraft, created.State)

	submitted, err := f.svc.Submit(ctx, f.expert, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatePendingApproval, submitted.State)

	due := today.AddDate(3, 0, 0)
	f.ratings.On("ApplyApprovedRating", mock.Anything, mock.Anything, f.business.ID, 4, today, due).
		Return(&bizmodel.RatingUpdate{
			BusinessID:        f.business.ID,
			CurrentRating:     4,
			FirstAssessedDate: today,
			NextAssessmentDue: due,
			Applied:           true,
		}, nil).Once()

	approved, err := f.svc.Approve(ctx, f.admin, created.ID)
	require.NoError(t, err)

	assert.Equal(t, model.StateApproved, approved.Assessment.State)
	assert.Equal(t, string(model.StateApproved), approved.Assessment.Status)
	assert.Equal(t, f.admin.ID, *approved.Assessment.ApprovedBy)
	assert.Equal(t, 4, approved.Business.CurrentRating)
	assert.Equal(t, today, approved.Business.FirstAssessedDate)
	assert.Equal(t, due, approved.Business.NextAssessmentDue)
	assert.Equal(t, model.StateApproved, f.repo.stored[created.ID].State)
	f.ratings.AssertExpectations(t)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AssessmentTransitions.WithLabelValues("approved")))
}

func TestSubmit_RequiresRatingAndReport(t *testing.T) {
	f := newFixture()
	a := f.seed(model.StateDraft, nil)

	_, err := f.svc.Submit(context.Background(), f.expert, a.ID)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, model.ErrCodeIncomplete, appErr.Code)
	assert.Equal(t, model.StateDraft, f.repo.stored[a.ID].State)
}

func TestSubmit_BlankReportIsIncomplete(t *testing.T) {
	f := newFixture()
	a := f.seed(model.StateDraft, intPtr(3))
	f.repo.stored[a.ID].Report = "   "

	_, err := f.svc.Submit(context.Background(), f.expert, a.ID)

	appErr, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, model.ErrCodeIncomplete, appErr.Code)
	assert.Equal(t, map[string]string{"report": "is required"}, appErr.Details)
	assert.Equal(t, model.StateDraft, f.repo.stored[a.ID].State)
}

func TestSubmit_OnlyAuthorAndOnlyDraft(t *testing.T) {
	f := newFixture()
	a := f.seed(model.StateDraft, intPtr(3))

	otherExpert := access.NewIdentity(uuid.New(), false, access.RoleAccessibilityExpert)
	_, err := f.svc.Submit(context.Background(), otherExpert, a.ID)
	assert.Equal(t, apperror.KindPermission, kindOf(t, err))

	_, err = f.svc.Submit(context.Background(), f.otherUser, a.ID)
	assert.Equal(t, apperror.KindPermission, kindOf(t, err))

	pending := f.seed(model.StatePendingApproval, intPtr(3))
	_, err = f.svc.Submit(context.Background(), f.expert, pending.ID)
	assert.Equal(t, apperror.KindInvalidState, kindOf(t, err))
}

func TestCreate_ExpertsOnly(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), f.otherUser, f.business.ID, model.CreateAssessmentRequest{})
	assert.Equal(t, apperror.KindPermission, kindOf(t, err))

	_, err = f.svc.Create(context.Background(), nil, f.business.ID, model.CreateAssessmentRequest{})
	assert.Equal(t, apperror.KindUnauthenticated, kindOf(t, err))

	_, err = f.svc.Create(context.Background(), f.expert, uuid.New(), model.CreateAssessmentRequest{})
	assert.Equal(t, apperror.KindNotFound, kindOf(t, err))

	_, err = f.svc.Create(context.Background(), f.expert, f.business.ID, model.CreateAssessmentRequest{ProposedRating: intPtr(6)})
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))
}

func TestCreate_WithSubmitGoesStraightToPending(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.Create(context.Background(), f.expert, f.business.ID, model.CreateAssessmentRequest{
		ProposedRating: intPtr(2),
		Report:         "Ramp at side door.",
		Submit:         true,
	})

	require.NoError(t, err)
	assert.Equal(t, model.StatePendingApproval, resp.State)
	assert.NotNil(t, resp.SubmittedAt)
}

func TestApprove_NonAdminIsPermissionError(t *testing.T) {
	f := newFixture()
	a := f.seed(model.StatePendingApproval, intPtr(4))

	_, err := f.svc.Approve(context.Background(), f.expert, a.ID)

	assert.Equal(t, apperror.KindPermission, kindOf(t, err))
	f.ratings.AssertNumberOfCalls(t, "ApplyApprovedRating", 0)
}

func TestApproveAndReject_WrongStateIsInvalidState(t *testing.T) {
	for _, state := range []model.State{model.StateDraft, model.StateApproved, model.StateRejected} {
		t.Run(string(state), func(t *testing.T) {
			f := newFixture()
			a := f.seed(state, intPtr(4))

			_, err := f.svc.Approve(context.Background(), f.admin, a.ID)
			assert.Equal(t, apperror.KindInvalidState, kindOf(t, err))
			appErr, _ := apperror.As(err)
			if state.IsTerminal() {
				assert.Equal(t, "Cannot approve an assessment that is already "+string(state), appErr.Message)
			} else {
				assert.Equal(t, "Cannot approve an assessment in state draft", appErr.Message)
			}

			_, err = f.svc.Reject(context.Background(), f.admin, a.ID, model.RejectAssessmentRequest{Reason: "photos missing"})
			assert.Equal(t, apperror.KindInvalidState, kindOf(t, err))

			assert.Equal(t, state, f.repo.stored[a.ID].State)
			f.ratings.AssertNumberOfCalls(t, "ApplyApprovedRating", 0)
		})
	}
}

func TestApprove_RatingWriteFailureRollsBack(t *testing.T) {
	f := newFixture()
	a := f.seed(model.StatePendingApproval, intPtr(5))
	f.ratings.On("ApplyApprovedRating", mock.Anything, mock.Anything, f.business.ID, 5, mock.Anything, mock.Anything).
		Return(nil, bizmodel.ErrNotFound)

	_, err := f.svc.Approve(context.Background(), f.admin, a.ID)

	assert.Equal(t, apperror.KindNotFound, kindOf(t, err))
	assert.Equal(t, model.StatePendingApproval, f.repo.stored[a.ID].State)
}

func TestReject_LeavesBusinessUntouched(t *testing.T) {
	f := newFixture()
	a := f.seed(model.StatePendingApproval, intPtr(2))

	_, err := f.svc.Reject(context.Background(), f.admin, a.ID, model.RejectAssessmentRequest{})
	assert.Equal(t, apperror.KindValidation, kindOf(t, err))

	resp, err := f.svc.Reject(context.Background(), f.admin, a.ID, model.RejectAssessmentRequest{Reason: "No photos of the entrance"})
	require.NoError(t, err)
	assert.Equal(t, model.StateRejected, resp.State)
	assert.Equal(t, "No photos of the entrance", *resp.RejectionReason)
	f.ratings.AssertNumberOfCalls(t, "ApplyApprovedRating", 0)
}

func TestVisibility_ApprovedPublicOthersHidden(t *testing.T) {
	f := newFixture()
	approved := f.seed(model.StateApproved, intPtr(4))
	draft := f.seed(model.StateDraft, intPtr(4))

	resp, err := f.svc.Get(context.Background(), nil, approved.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)

	_, err = f.svc.Get(context.Background(), nil, draft.ID)
	assert.Equal(t, apperror.KindNotFound, kindOf(t, err))
	_, err = f.svc.Get(context.Background(), f.otherUser, draft.ID)
	assert.Equal(t, apperror.KindNotFound, kindOf(t, err))

	_, err = f.svc.Get(context.Background(), f.expert, draft.ID)
	assert.NoError(t, err)

	public, err := f.svc.ListByBusiness(context.Background(), nil, f.business.ID)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, approved.ID, public[0].ID)

	all, err := f.svc.ListByBusiness(context.Background(), f.admin, f.business.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStatus_ExpiredDerivedFromBusinessDueDate(t *testing.T) {
	f := newFixture()
	past := today.Add(-time.Hour)
	f.business.NextAssessmentDue = &past
	a := f.seed(model.StateApproved, intPtr(3))

	resp, err := f.svc.Get(context.Background(), nil, a.ID)

	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, resp.Status)
	assert.Equal(t, model.StateApproved, resp.State)
	assert.Equal(t, model.StateApproved, f.repo.stored[a.ID].State)
}

func TestUpdateDraft(t *testing.T) {
	f := newFixture()
	a := f.seed(model.StateDraft, nil)

	resp, err := f.svc.UpdateDraft(context.Background(), f.expert, a.ID, model.UpdateAssessmentRequest{ProposedRating: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, *resp.ProposedRating)

	f.repo.stored[a.ID].State = model.StatePendingApproval
	_, err = f.svc.UpdateDraft(context.Background(), f.expert, a.ID, model.UpdateAssessmentRequest{ProposedRating: intPtr(1)})
	assert.Equal(t, apperror.KindInvalidState, kindOf(t, err))
}

func TestListPending_AdminOnly(t *testing.T) {
	f := newFixture()
	p := f.seed(model.StatePendingApproval, intPtr(4))
	f.repo.On("ListPending", mock.Anything, 1, 20).Return([]*model.Assessment{p}, 1, nil)

	_, _, err := f.svc.ListPending(context.Background(), f.expert, 1, 20)
	assert.Equal(t, apperror.KindPermission, kindOf(t, err))

	items, total, err := f.svc.ListPending(context.Background(), f.admin, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, items, 1)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, model.CanTransition(model.StateDraft, model.StatePendingApproval))
	assert.True(t, model.CanTransition(model.StatePendingApproval, model.StateApproved))
	assert.True(t, model.CanTransition(model.StatePendingApproval, model.StateRejected))
	assert.False(t, model.CanTransition(model.StateDraft, model.StateApproved))
	assert.False(t, model.CanTransition(model.StateApproved, model.StateRejected))
	assert.True(t, model.StateApproved.IsTerminal())
	assert.True(t, model.StateRejected.IsTerminal())
	assert.False(t, model.StateDraft.IsTerminal())
	assert.False(t, model.StatePendingApproval.IsTerminal())
}
