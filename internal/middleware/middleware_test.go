package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apierrors "github.com/yukikurage/intern-management-api/internal/errors"
	"github.com/yukikurage/intern-management-api/internal/logging"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/services"
)

type fakeAuthenticator struct {
	users map[string]*models.User
	err   error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[token]
	if !ok {
		return nil, services.ErrInvalidToken
	}
	return user, nil
}

func newTestRouter(authenticator Authenticator, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	handlers := append([]gin.HandlerFunc{RequireAuth(authenticator)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		user, _ := GetCurrentUser(c)
		identity, _ := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email, "identity": identity})
	})
	router.GET("/items/:id", handlers...)
	return router
}

func doRequest(router *gin.Engine, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()

	var body apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const validID = "3f1c2a9e-8d6b-4c1f-9a2e-5b7d8c9e0f12"

func testAuthenticator() *fakeAuthenticator {
	return &fakeAuthenticator{users: map[string]*models.User{
		"admin-token":  {Email: "boss@x.com", Role: models.RoleAdmin},
		"intern-token": {Email: "a@x.com", Role: models.RoleIntern},
	}}
}

func TestRequireAuth(t *testing.T) {
	router := newTestRouter(testAuthenticator())

	tests := []struct {
		name          string
		authorization string
		status        int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic intern-token", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "Bearer intern-token", http.StatusOK},
		{"scheme is case-insensitive", "bearer intern-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "/items/"+validID, tt.authorization)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, apierrors.ErrCodeUnauthorized, decodeError(t, w).Code)
			}
		})
	}
}

func TestRequireAuth_SetsIdentity(t *testing.T) {
	router := newTestRouter(testAuthenticator())

	w := doRequest(router, "/items/"+validID, "Bearer admin-token")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "boss@x.com", body["email"])
	assert.Equal(t, "boss@x.com", body["identity"])
}

func TestRequireAuth_StorageFailure(t *testing.T) {
	router := newTestRouter(&fakeAuthenticator{err: errors.New("db down")})

	w := doRequest(router, "/items/"+validID, "Bearer intern-token")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, apierrors.ErrCodeInternalError, decodeError(t, w).Code)
}

func TestRequireRole(t *testing.T) {
	router := newTestRouter(testAuthenticator(), RequireAdmin())

	w := doRequest(router, "/items/"+validID, "Bearer admin-token")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "/items/"+validID, "Bearer intern-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, apierrors.ErrCodeInsufficientRole, body.Code)
	assert.Equal(t, map[string]interface{}{"required_role": "admin"}, body.Details)
}

func TestRequireRole_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(router, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUUIDParam(t *testing.T) {
	router := newTestRouter(testAuthenticator(), RequireUUIDParam("id"))

	w := doRequest(router, "/items/"+validID, "Bearer intern-token")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "/items/42", "Bearer intern-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apierrors.ErrCodeInvalidFormat, decodeError(t, w).Code)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, "debug", "json")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/items/:id", RequireAuth(testAuthenticator()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	doRequest(router, "/items/"+validID, "Bearer intern-token")
	doRequest(router, "/items/"+validID, "")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "request handled", first["msg"])
	assert.Equal(t, float64(http.StatusNoContent), first["status"])
	assert.Equal(t, "a@x.com", first["identity"])
	assert.Equal(t, "GET", first["method"])

	assert.Equal(t, "request rejected", second["msg"])
	assert.NotContains(t, second, "identity")
}
