package middleware

import (
	"github.com/gin-gonic/gin"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/internal/shared/response"
)

// AdminOnly guards administrative routes. Must run after Authenticate.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := access.FromContext(c.Request.Context())
		if identity == nil {
			response.Abort(c, apperror.Unauthenticated(apperror.CodeUnauthenticated, "authentication required"))
			return
		}
		if !identity.Admin {
			response.Abort(c, apperror.Permission(apperror.CodeForbidden, "Access denied: admin role required"))
			return
		}
		c.Next()
	}
}
