package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accessrating-backend/internal/domains/business/model"
	"accessrating-backend/internal/domains/business/service"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/internal/shared/middleware"
	"accessrating-backend/internal/shared/response"
	"accessrating-backend/internal/shared/utils"
)

// =====================================================
// BUSINESS HANDLER
// =====================================================

type BusinessHandler struct {
	businessService service.ServiceInterface
}

func NewBusinessHandler(businessService service.ServiceInterface) *BusinessHandler {
	return &BusinessHandler{businessService: businessService}
}

// CreateBusiness lists a new, unclaimed business
// POST /api/v1/businesses
func (h *BusinessHandler) CreateBusiness(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, apperror.CodeInvalidBody, err.Error())
		return
	}

	// Step 2: Call service
	resp, err := h.businessService.Create(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	// Step 3: Return success
	response.Success(c, http.StatusCreated, resp)
}

// GetBusiness returns the full record with its current rating
// GET /api/v1/businesses/:id
func (h *BusinessHandler) GetBusiness(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	resp, err := h.businessService.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// UpdateBusiness edits fields (claimed owner or admin)
// PATCH /api/v1/businesses/:id
func (h *BusinessHandler) UpdateBusiness(c *gin.Context) {
	// Step 1: Parse business ID
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	// Step 2: Bind request body
	var req model.UpdateBusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, apperror.CodeInvalidBody, err.Error())
		return
	}

	// Step 3: Call service
	resp, err := h.businessService.Update(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ClaimBusiness associates the caller as owner
// POST /api/v1/businesses/:id/claim
func (h *BusinessHandler) ClaimBusiness(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	resp, err := h.businessService.Claim(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// DeleteBusiness removes a business and everything attached to it (admin)
// DELETE /api/v1/businesses/:id
func (h *BusinessHandler) DeleteBusiness(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.businessService.Delete(c.Request.Context(), middleware.Identity(c), id); err != nil {
		response.Fail(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// =====================================================
// PHOTOS
// =====================================================

// AddPhoto attaches a photo reference
// POST /api/v1/businesses/:id/photos
func (h *BusinessHandler) AddPhoto(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req model.AddPhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, apperror.CodeInvalidBody, err.Error())
		return
	}

	resp, err := h.businessService.AddPhoto(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ListPhotos lists photos, primary first
// GET /api/v1/businesses/:id/photos
func (h *BusinessHandler) ListPhotos(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	photos, err := h.businessService.ListPhotos(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, photos)
}
