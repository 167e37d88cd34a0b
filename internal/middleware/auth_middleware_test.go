package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appauth "github.com/yigit/scholarhub/internal/app/auth"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/auth"
)

type fakeUsers map[string]models.RoleType

func (f fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	role, ok := f[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &models.User{ID: "id-" + email, Email: email, Role: role}, nil
}

func newAuthRouter(t *testing.T, capability appauth.Capability) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenExp: time.Hour, TokenIssuer: "scholarhub"})
	users := fakeUsers{
		"student@example.com":   models.RoleStudent,
		"moderator@example.com": models.RoleModerator,
	}
	m := NewAuthMiddleware(jwtService, users)

	r := gin.New()
	r.GET("/protected", m.Authenticate(), m.Require(capability), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": c.GetString(ContextKeyEmail), "role": CurrentRole(c)})
	})
	return r, jwtService
}

func doRequest(r *gin.Engine, target, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsMissingAndBadTokens(t *testing.T) {
	r, _ := newAuthRouter(t, appauth.CapabilityAuthenticated)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/protected", "Bearer").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "/protected", "Bearer not-a-jwt").Code)
}

func TestAuthenticatedCapabilityNeedsNoStoredUser(t *testing.T) {
	r, jwtService := newAuthRouter(t, appauth.CapabilityAuthenticated)
	token, err := jwtService.IssueToken(auth.Identity{Email: "new@example.com"})
	require.NoError(t, err)

	w := doRequest(r, "/protected", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new@example.com")
}

func TestTokenFromQueryParameter(t *testing.T) {
	r, jwtService := newAuthRouter(t, appauth.CapabilityAuthenticated)
	token, err := jwtService.IssueToken(auth.Identity{Email: "ws@example.com"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(r, "/protected?token="+token, "").Code)
}

func TestRequireChecksStoredRole(t *testing.T) {
	tests := []struct {
		name       string
		capability appauth.Capability
		email      string
		wantStatus int
	}{
		{"student applies", appauth.CapabilityApply, "student@example.com", http.StatusOK},
		{"moderator cannot apply", appauth.CapabilityApply, "moderator@example.com", http.StatusForbidden},
		{"moderator moderates", appauth.CapabilityModerate, "moderator@example.com", http.StatusOK},
		{"student cannot moderate", appauth.CapabilityModerate, "student@example.com", http.StatusForbidden},
		{"moderator cannot administer", appauth.CapabilityAdminister, "moderator@example.com", http.StatusForbidden},
		{"unknown user", appauth.CapabilityApply, "ghost@example.com", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, jwtService := newAuthRouter(t, tt.capability)
			token, err := jwtService.IssueToken(auth.Identity{Email: tt.email})
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, doRequest(r, "/protected", "Bearer "+token).Code)
		})
	}
}
