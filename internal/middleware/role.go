package middleware

import (
	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/intern-management-api/internal/errors"
	"github.com/yukikurage/intern-management-api/internal/models"
)

// RequireRole allows the request only when the authenticated user holds role.
// It must run after RequireAuth.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetCurrentUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		if user.Role != role {
			apierrors.InsufficientRole(c, string(role))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin is RequireRole for the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
