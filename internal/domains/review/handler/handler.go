package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accessrating-backend/internal/domains/review/model"
	"accessrating-backend/internal/domains/review/service"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/internal/shared/middleware"
	"accessrating-backend/internal/shared/response"
	"accessrating-backend/internal/shared/utils"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// CreateReview creates new review
// POST /api/v1/businesses/:id/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	// Step 1: Parse business ID
	businessID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	// Step 2: Bind request body
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, apperror.CodeInvalidBody, err.Error())
		return
	}

	// Step 3: Call service
	resp, err := h.reviewService.CreateReview(c.Request.Context(), middleware.Identity(c), businessID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	// Step 4: Return success
	response.Success(c, http.StatusCreated, resp)
}

// ListReviews lists reviews for a business, newest first
// GET /api/v1/businesses/:id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	businessID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	page, limit, err := utils.ParsePagination(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	items, total, err := h.reviewService.ListReviews(c.Request.Context(), middleware.Identity(c), businessID, page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, response.NewMeta(page, limit, total))
}

// ToggleHelpfulVote adds or removes the caller's helpful vote
// POST /api/v1/reviews/:id/vote
func (h *ReviewHandler) ToggleHelpfulVote(c *gin.Context) {
	reviewID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	result, err := h.reviewService.ToggleHelpfulVote(c.Request.Context(), middleware.Identity(c), reviewID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
