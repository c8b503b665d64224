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
	bizmodel "accessrating-backend/internal/domains/business/model"
	"accessrating-backend/internal/domains/directory/model"
	"accessrating-backend/internal/shared/apperror"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) Search(ctx context.Context, actor *access.Identity, req model.SearchRequest, page, limit int) ([]bizmodel.BusinessSummary, int, error) {
	args := m.Called(ctx, actor, req, page, limit)
	items, _ := args.Get(0).([]bizmodel.BusinessSummary)
	return items, args.Int(1), args.Error(2)
}

func (m *mockService) RecentSearches(ctx context.Context, actor *access.Identity) ([]model.SearchEntry, error) {
	args := m.Called(ctx, actor)
	entries, _ := args.Get(0).([]model.SearchEntry)
	return entries, args.Error(1)
}

func router(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDirectoryHandler(svc)
	r := gin.New()
	r.GET("/businesses", h.SearchBusinesses)
	r.GET("/me/searches", h.RecentSearches)
	return r
}

func TestSearchBusinesses_BindsFilters(t *testing.T) {
	svc := &mockService{}
	want := model.SearchRequest{AccessibilityLevel: "4", BusinessType: "cafe", City: "Leeds", Text: "step free"}
	svc.On("Search", mock.Anything, mock.Anything, want, 2, 5).
		Return([]bizmodel.BusinessSummary{{ID: uuid.New(), Name: "Corner Cafe"}}, 6, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/businesses?accessibility_level=4&business_type=cafe&city=Leeds&text=step+free&page=2&limit=5", nil)
	router(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Corner Cafe"`)
	assert.Contains(t, w.Body.String(), `"total":6`)
	assert.Contains(t, w.Body.String(), `"has_prev":true`)
	svc.AssertExpectations(t)
}

func TestSearchBusinesses_InvalidFilterIs400(t *testing.T) {
	svc := &mockService{}
	svc.On("Search", mock.Anything, mock.Anything, mock.Anything, 1, 20).
		Return(nil, 0, apperror.Validation(model.CodeInvalidFilter, "validation failed"))

	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/businesses?accessibility_level=9", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), model.CodeInvalidFilter)
}

func TestSearchBusinesses_BadPaginationIs400(t *testing.T) {
	svc := &mockService{}

	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/businesses?limit=500", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecentSearches_AnonymousIs401(t *testing.T) {
	svc := &mockService{}
	var anonymous *access.Identity
	svc.On("RecentSearches", mock.Anything, anonymous).
		Return(nil, apperror.Unauthenticated(apperror.CodeUnauthenticated, "authentication required"))

	w := httptest.NewRecorder()
	router(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/searches", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
