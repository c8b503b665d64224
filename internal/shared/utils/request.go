package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"accessrating-backend/internal/shared/apperror"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParseUUIDParam reads a path parameter as a UUID.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.Validation(apperror.CodeInvalidID, "invalid "+name)
	}
	return id, nil
}

// ParsePagination reads page/limit query values. Malformed or out-of-range
// values are a validation error rather than silently clamped.
func ParsePagination(c *gin.Context) (page, limit int, err error) {
	page, err = queryInt(c, "page", DefaultPage)
	if err != nil || page < 1 {
		return 0, 0, apperror.Validation(apperror.CodeInvalidQuery, "page must be a positive integer")
	}
	limit, err = queryInt(c, "limit", DefaultLimit)
	if err != nil || limit < 1 || limit > MaxLimit {
		return 0, 0, apperror.Validation(apperror.CodeInvalidQuery, "limit must be between 1 and 100")
	}
	return page, limit, nil
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// EscapeLike escapes LIKE wildcards so user text matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
