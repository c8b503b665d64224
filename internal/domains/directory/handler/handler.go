package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accessrating-backend/internal/domains/directory/model"
	"accessrating-backend/internal/domains/directory/service"
	"accessrating-backend/internal/shared/middleware"
	"accessrating-backend/internal/shared/response"
	"accessrating-backend/internal/shared/utils"
)

type DirectoryHandler struct {
	directoryService service.ServiceInterface
}

func NewDirectoryHandler(directoryService service.ServiceInterface) *DirectoryHandler {
	return &DirectoryHandler{directoryService: directoryService}
}

// SearchBusinesses lists businesses matching the query filters
// GET /api/v1/businesses?accessibility_level=&business_type=&text=&owner=me&page=&limit=
func (h *DirectoryHandler) SearchBusinesses(c *gin.Context) {
	// Step 1: Bind filters
	var req model.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, model.CodeInvalidFilter, err.Error())
		return
	}

	// Step 2: Pagination
	page, limit, err := utils.ParsePagination(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	// Step 3: Search
	items, total, err := h.directoryService.Search(c.Request.Context(), middleware.Identity(c), req, page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, items, response.NewMeta(page, limit, total))
}

// RecentSearches returns the caller's latest searches, newest first
// GET /api/v1/me/searches
func (h *DirectoryHandler) RecentSearches(c *gin.Context) {
	entries, err := h.directoryService.RecentSearches(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}
