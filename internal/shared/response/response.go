package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"accessrating-backend/internal/shared/apperror"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Error struct {
	Kind    string      `json:"kind"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewMeta computes pagination metadata for a 1-based page.
func NewMeta(page, limit, total int) *Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// ErrorResponse writes the error envelope without touching the request chain.
func ErrorResponse(c *gin.Context, statusCode int, kind apperror.Kind, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Kind:    string(kind),
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Fail maps any error returned by a service to its status category.
// Errors outside the application taxonomy are logged and hidden behind a 500.
func Fail(c *gin.Context, err error) {
	appErr, ok := apperror.As(err)
	if !ok || appErr.Kind == apperror.KindInternal {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		ErrorResponse(c, http.StatusInternalServerError, apperror.KindInternal,
			apperror.CodeInternal, "Internal server error", nil)
		return
	}

	ErrorResponse(c, apperror.HTTPStatus(appErr.Kind), appErr.Kind,
		appErr.Code, appErr.Message, appErr.Details)
}

// Abort writes err and stops the middleware chain.
func Abort(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}

// BadRequest reports a body or query that could not be decoded.
func BadRequest(c *gin.Context, code, message string) {
	ErrorResponse(c, http.StatusBadRequest, apperror.KindValidation, code, message, nil)
}
