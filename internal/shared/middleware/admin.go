package middleware

import (
	"github.com/gin-gonic/gin"

	"manifest-analyzer/internal/shared/response"
)

// AdminMiddleware gates admin-only routes. AuthMiddleware must run first so
// the role claim is present in the context.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok || role != "admin" {
			response.Forbidden(c, "admin role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
