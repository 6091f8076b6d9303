// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// TokenID returns the jti of the authenticated token, or "" when the request
// did not pass Auth().
func TokenID(c *gin.Context) string {
	v, exists := c.Get("token_id")
	if !exists {
		return ""
	}
	id, ok := v.(string)
	if !ok {
		return ""
	}
	return id
}

// Role returns the authenticated role, or "" for anonymous requests.
func Role(c *gin.Context) string {
	v, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, ok := v.(string)
	if !ok {
		return ""
	}
	return role
}

// IsAdmin reports whether the request carries a live admin session.
func IsAdmin(c *gin.Context) bool {
	return Role(c) == "admin"
}
