package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarhub/internal/app/controllers"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/middleware"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/auth"
	"github.com/yigit/scholarhub/internal/pkg/websocket"
)

type roleTable map[string]models.RoleType

func (r roleTable) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	role, ok := r[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return &models.User{ID: "id-" + email, Email: email, Role: role}, nil
}

// denyAll rejects every request it sees
type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func newTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService(auth.JWTConfig{SecretKey: "secret", TokenExp: time.Hour, TokenIssuer: "scholarhub"})
	roles := roleTable{
		"student@example.com":   models.RoleStudent,
		"moderator@example.com": models.RoleModerator,
		"admin@example.com":     models.RoleAdmin,
	}

	// Handlers behind denied routes must never run, so services stay nil.
	c := Controllers{
		Scholarship:  controllers.NewScholarshipController(nil),
		Application:  controllers.NewApplicationController(nil),
		Payment:      controllers.NewPaymentController(nil, nil),
		Review:       controllers.NewReviewController(nil),
		User:         controllers.NewUserController(nil),
		Analytics:    controllers.NewAnalyticsController(nil),
		Notification: controllers.NewNotificationController(websocket.NewHub(zerolog.Nop()), nil, nil, zerolog.Nop()),
		Health: controllers.NewHealthController(controllers.PingFunc(func(context.Context) error { return nil }), nil),
	}

	r := gin.New()
	SetupRouter(r, c, middleware.NewAuthMiddleware(jwtService, roles), denyAll{})
	return r, jwtService
}

func call(t *testing.T, r *gin.Engine, jwtService *auth.JWTService, method, target, email string) int {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if email != "" {
		token, err := jwtService.IssueToken(auth.Identity{Email: email})
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestPublicRoutesNeedNoToken(t *testing.T) {
	r, jwtService := newTestRouter(t)
	assert.Equal(t, http.StatusOK, call(t, r, jwtService, http.MethodGet, "/health", ""))
}

func TestCapabilityEnforcement(t *testing.T) {
	r, jwtService := newTestRouter(t)

	tests := []struct {
		method string
		target string
		email  string
		status int
	}{
		{http.MethodPost, "/save-application", "", http.StatusUnauthorized},
		{http.MethodPost, "/save-application", "unknown@example.com", http.StatusForbidden},
		{http.MethodPost, "/save-application", "moderator@example.com", http.StatusForbidden},
		{http.MethodGet, "/moderator/applications", "student@example.com", http.StatusForbidden},
		{http.MethodPut, "/moderator/applications/a/status", "student@example.com", http.StatusForbidden},
		{http.MethodPost, "/scholarships", "moderator@example.com", http.StatusForbidden},
		{http.MethodGet, "/analytics", "moderator@example.com", http.StatusForbidden},
		{http.MethodDelete, "/users/u1", "student@example.com", http.StatusForbidden},
		{http.MethodGet, "/admin/users", "", http.StatusUnauthorized},
		{http.MethodGet, "/moderator/review", "student@example.com", http.StatusForbidden},
		{http.MethodGet, "/my-applications/student@example.com", "", http.StatusUnauthorized},
		{http.MethodGet, "/my-applications/moderator@example.com", "moderator@example.com", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target+" as "+tt.email, func(t *testing.T) {
			assert.Equal(t, tt.status, call(t, r, jwtService, tt.method, tt.target, tt.email))
		})
	}
}

func TestPaymentRoutesAreRateLimited(t *testing.T) {
	r, jwtService := newTestRouter(t)

	assert.Equal(t, http.StatusTooManyRequests, call(t, r, jwtService, http.MethodPost, "/create-checkout-session", "student@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, call(t, r, jwtService, http.MethodPost, "/payment-success", "student@example.com"))
	// the limiter runs after authorization
	assert.Equal(t, http.StatusForbidden, call(t, r, jwtService, http.MethodPost, "/payment-success", "moderator@example.com"))
}
