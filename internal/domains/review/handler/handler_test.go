package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/domains/review/model"
	"accessrating-backend/internal/shared/apperror"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateReview(ctx context.Context, actor *access.Identity, businessID uuid.UUID, req model.CreateReviewRequest) (*model.ReviewResponse, error) {
	args := m.Called(ctx, actor, businessID, req)
	resp, _ := args.Get(0).(*model.ReviewResponse)
	return resp, args.Error(1)
}

func (m *mockService) ToggleHelpfulVote(ctx context.Context, actor *access.Identity, reviewID uuid.UUID) (*model.VoteResult, error) {
	args := m.Called(ctx, actor, reviewID)
	resp, _ := args.Get(0).(*model.VoteResult)
	return resp, args.Error(1)
}

func (m *mockService) ListReviews(ctx context.Context, viewer *access.Identity, businessID uuid.UUID, page, limit int) ([]model.ReviewResponse, int, error) {
	args := m.Called(ctx, viewer, businessID, page, limit)
	resp, _ := args.Get(0).([]model.ReviewResponse)
	return resp, args.Int(1), args.Error(2)
}

func router(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewReviewHandler(svc)
	r := gin.New()
	r.POST("/reviews/:id/vote", h.ToggleHelpfulVote)
	r.GET("/businesses/:id/reviews", h.ListReviews)
	return r
}

func TestToggleHelpfulVote_AnonymousIs401(t *testing.T) {
	svc := &mockService{}
	id := uuid.New()
	var anonymous *access.Identity
	svc.On("ToggleHelpfulVote", mock.Anything, anonymous, id).
		Return(nil, apperror.Unauthenticated(apperror.CodeUnauthenticated, "authentication required"))

	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reviews/"+id.String()+"/vote", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestToggleHelpfulVote_ReturnsPair(t *testing.T) {
	svc := &mockService{}
	id := uuid.New()
	svc.On("ToggleHelpfulVote", mock.Anything, mock.Anything, id).
		Return(&model.VoteResult{ReviewID: id, HelpfulCount: 1, UserHasVoted: true}, nil)

	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reviews/"+id.String()+"/vote", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"helpful_count":1`)
	assert.Contains(t, w.Body.String(), `"user_has_voted":true`)
}

func TestListReviews_PaginationMeta(t *testing.T) {
	svc := &mockService{}
	id := uuid.New()
	svc.On("ListReviews", mock.Anything, mock.Anything, id, 2, 10).
		Return([]model.ReviewResponse{}, 15, nil)

	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/businesses/"+id.String()+"/reviews?page=2&limit=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_pages":2`)
	assert.Contains(t, w.Body.String(), `"has_prev":true`)
}

func TestListReviews_BadLimitIs400(t *testing.T) {
	w := httptest.NewRecorder()
	router(&mockService{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/businesses/"+uuid.NewString()+"/reviews?limit=1000", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
