package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-management-api/internal/constants"
	apierrors "github.com/yukikurage/intern-management-api/internal/errors"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/services"
)

// Authenticator resolves a bearer token to the current user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth checks the bearer token and loads the caller from storage
func RequireAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(constants.AuthorizationHeader))
		if !ok {
			apierrors.Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrInvalidToken) {
				apierrors.Unauthorized(c, "Invalid or expired token")
			} else {
				_ = c.Error(err)
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store the user and its identity in context for handlers
		c.Set(constants.ContextKeyUser, user)
		c.Set(constants.ContextKeyIdentity, user.Email)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, constants.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetCurrentUser retrieves the authenticated user from context
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// GetIdentity retrieves the email of the authenticated user from context
func GetIdentity(c *gin.Context) (string, bool) {
	identity := c.GetString(constants.ContextKeyIdentity)
	return identity, identity != ""
}
