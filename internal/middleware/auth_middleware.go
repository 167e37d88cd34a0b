package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/yigit/scholarhub/internal/app/auth"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/auth"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

// Context keys set by the auth middleware
const (
	ContextKeyIdentity = "identity"
	ContextKeyEmail    = "email"
	ContextKeyRole     = "roleType"
	ContextKeyUserID   = "userID"
)

// RoleLookup resolves the stored role of a verified caller
type RoleLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	verifier auth.TokenVerifier
	users    RoleLookup
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(verifier auth.TokenVerifier, users RoleLookup) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		users:    users,
	}
}

// Authenticate verifies the identity token from the Authorization header, or
// from the token query parameter for websocket upgrades.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Invalid token format")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		identity, err := m.verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			errorDetails := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				errorDetails = "Token has expired"
			} else if errors.Is(err, auth.ErrInvalidFormat) {
				errorDetails = "Invalid token format"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextKeyIdentity, identity)
		c.Set(ContextKeyEmail, identity.Email)
		c.Next()
	}
}

// Require checks that the authenticated caller holds capability. Capabilities
// bound to roles read the caller's role from the user directory.
func (m *AuthMiddleware) Require(capability appauth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}
		if !capability.NeedsRole() {
			c.Next()
			return
		}

		user, err := m.users.GetUserByEmail(c.Request.Context(), identity.Email)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
				errorDetail = errorDetail.WithDetails("User is not registered")
				c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
				return
			}
			logger.Error().Err(err).Str("email", identity.Email).Msg("Failed to resolve caller role")
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Set(ContextKeyRole, user.Role)
		c.Set(ContextKeyUserID, user.ID)

		if !appauth.Allows(user.Role, capability) {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// CurrentIdentity returns the verified caller
func CurrentIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, exists := c.Get(ContextKeyIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok && identity != nil
}

// CurrentRole returns the caller's role when Require resolved it
func CurrentRole(c *gin.Context) models.RoleType {
	if v, exists := c.Get(ContextKeyRole); exists {
		if role, ok := v.(models.RoleType); ok {
			return role
		}
	}
	return ""
}

// CurrentUserID returns the caller's user id when Require resolved it
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}
