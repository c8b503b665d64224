package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"accessrating-backend/internal/domains/favorite/service"
	"accessrating-backend/internal/shared/middleware"
	"accessrating-backend/internal/shared/response"
	"accessrating-backend/internal/shared/utils"
)

type FavoriteHandler struct {
	favoriteService service.ServiceInterface
}

func NewFavoriteHandler(favoriteService service.ServiceInterface) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// ListFavorites
// GET /api/v1/me/favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	resp, err := h.favoriteService.List(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// AddFavorite
// PUT /api/v1/me/favorites/:business_id
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	businessID, err := utils.ParseUUIDParam(c, "business_id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	resp, err := h.favoriteService.Add(c.Request.Context(), middleware.Identity(c), businessID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// RemoveFavorite
// DELETE /api/v1/me/favorites/:business_id
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	businessID, err := utils.ParseUUIDParam(c, "business_id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	resp, err := h.favoriteService.Remove(c.Request.Context(), middleware.Identity(c), businessID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}

// ToggleFavorite
// POST /api/v1/me/favorites/:business_id/toggle
func (h *FavoriteHandler) ToggleFavorite(c *gin.Context) {
	businessID, err := utils.ParseUUIDParam(c, "business_id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	resp, err := h.favoriteService.Toggle(c.Request.Context(), middleware.Identity(c), businessID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp)
}
