// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"atlas-service/internal/pkg/jwt"
	"atlas-service/internal/pkg/response"
	"atlas-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	tokens   *jwt.Manager
	sessions *session.Store
}

func NewAuthMiddleware(tokens *jwt.Manager, sessions *session.Store) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
	}
}

// Auth validates the bearer token and checks that its session is still live,
// so revoked tokens stop working before their JWT expiry.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		live, err := m.sessions.Exists(c.Request.Context(), claims.ID)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "session check failed", err)
			return
		}
		if !live {
			response.Error(c, http.StatusUnauthorized, "session revoked or expired", nil)
			return
		}

		c.Set("token_id", claims.ID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminOnly stacks Auth with the admin-role check.
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole("admin"),
	}
}

// RequireRole must run after Auth().
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			response.Error(c, http.StatusForbidden, "insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

// extractToken pulls the Bearer token from the Authorization header, with a
// query-param fallback for clients that cannot set headers.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	return c.Query("token")
}
