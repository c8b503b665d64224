package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"accessrating-backend/internal/domains/access"
	"accessrating-backend/internal/shared/apperror"
	"accessrating-backend/internal/shared/response"
	"accessrating-backend/pkg/jwt"
)

// TokenVerifier is satisfied by *jwt.Manager.
type TokenVerifier interface {
	ValidateAccessToken(token string) (*jwt.Claims, error)
}

// Authenticate resolves the optional caller identity. No Authorization
// header means anonymous; a malformed or invalid token is rejected with 401.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. No header: anonymous request
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 2. Extract token from "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, apperror.Unauthenticated(apperror.CodeInvalidToken, "invalid authorization header format"))
			return
		}

		// 3. Verify
		claims, err := verifier.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("Token rejected")
			response.Abort(c, apperror.Unauthenticated(apperror.CodeInvalidToken, "invalid token"))
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			response.Abort(c, apperror.Unauthenticated(apperror.CodeInvalidToken, "invalid user ID in token"))
			return
		}

		// 4. Unknown role names are ignored
		roles := make([]access.Role, 0, len(claims.Roles))
		for _, r := range claims.Roles {
			roles = append(roles, access.Role(r))
		}
		identity := access.NewIdentity(userID, claims.IsAdmin, roles...)

		c.Set("user_id", userID.String())
		c.Request = c.Request.WithContext(access.WithIdentity(c.Request.Context(), identity))
		c.Next()
	}
}

// RequireIdentity answers 401 for anonymous callers.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if access.FromContext(c.Request.Context()) == nil {
			response.Abort(c, apperror.Unauthenticated(apperror.CodeUnauthenticated, "authentication required"))
			return
		}
		c.Next()
	}
}

// Identity returns the caller resolved by Authenticate, or nil.
func Identity(c *gin.Context) *access.Identity {
	return access.FromContext(c.Request.Context())
}
