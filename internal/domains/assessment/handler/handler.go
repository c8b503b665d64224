package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accessrating-backend/internal/domains/assessment/model"
	"accessrating-backend/internal/domains/assessment/service"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/internal/shared/middleware"
	"accessrating-backend/internal/shared/response"
	"accessrating-backend/internal/shared/utils"
)

// =====================================================
// ASSESSMENT HANDLER
// =====================================================

type AssessmentHandler struct {
	assessmentService service.ServiceInterface
}

func NewAssessmentHandler(assessmentService service.ServiceInterface) *AssessmentHandler {
	return &AssessmentHandler{assessmentService: assessmentService}
}

// CreateAssessment starts a draft for a business
// POST /api/v1/businesses/:id/assessments
func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	// Step 1: Parse business ID
	businessID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	// Step 2: Bind request body
	var req model.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, apperror.CodeInvalidBody, err.Error())
		return
	}

	// Step 3: Call service
	resp, err := h.assessmentService.Create(c.Request.Context(), middleware.Identity(c), businessID, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ListBusinessAssessments lists assessments visible to the caller
// GET /api/v1/businesses/:id/assessments
func (h *AssessmentHandler) ListBusinessAssessments(c *gin.Context) {
	businessID, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	items, err := h.assessmentService.ListByBusiness(c.Request.Context(), middleware.Identity(c), businessID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// GetAssessment
// GET /api/v1/assessments/:id
func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	resp, err := h.assessmentService.Get(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// UpdateAssessment edits a draft
// PATCH /api/v1/assessments/:id
func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req model.UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, apperror.CodeInvalidBody, err.Error())
		return
	}

	resp, err := h.assessmentService.UpdateDraft(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// SubmitAssessment moves a draft to pending approval
// POST /api/v1/assessments/:id/submit
func (h *AssessmentHandler) SubmitAssessment(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	resp, err := h.assessmentService.Submit(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// =====================================================
// ADMIN DECISIONS
// =====================================================

// ApproveAssessment
// POST /api/v1/assessments/:id/approve
func (h *AssessmentHandler) ApproveAssessment(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	resp, err := h.assessmentService.Approve(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// RejectAssessment
// POST /api/v1/assessments/:id/reject
func (h *AssessmentHandler) RejectAssessment(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	var req model.RejectAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, apperror.CodeInvalidBody, err.Error())
		return
	}

	resp, err := h.assessmentService.Reject(c.Request.Context(), middleware.Identity(c), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ListPending is the approval queue, oldest submission first
// GET /api/v1/admin/assessments/pending
func (h *AssessmentHandler) ListPending(c *gin.Context) {
	page, limit, err := utils.ParsePagination(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	items, total, err := h.assessmentService.ListPending(c.Request.Context(), middleware.Identity(c), page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, response.NewMeta(page, limit, total))
}
