package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apierrors "github.com/yukikurage/intern-management-api/internal/errors"
)

// RequireUUIDParam rejects requests whose path parameter is not a UUID
func RequireUUIDParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := uuid.Validate(c.Param(name)); err != nil {
			apierrors.InvalidFormat(c, "Invalid "+name+": must be a UUID")
			c.Abort()
			return
		}
		c.Next()
	}
}
