package auth

import (
	"context"
	"errors"
	"strings"
)

// Verification errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// Identity is the verified caller extracted from an identity token
type Identity struct {
	UID     string
	Email   string
	Name    string
	Picture string
}

// TokenVerifier verifies an identity token and returns the caller it names
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// ExtractBearerToken extracts the token from an Authorization header value.
// Both "Bearer <token>" and a bare token are accepted.
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.Trim(strings.TrimSpace(authHeader), "\"'")
	parts := strings.Fields(authHeader)
	switch len(parts) {
	case 1:
		if strings.EqualFold(parts[0], "bearer") {
			return "", ErrInvalidFormat
		}
		return parts[0], nil
	case 2:
		if !strings.EqualFold(parts[0], "bearer") {
			return "", ErrInvalidFormat
		}
		return parts[1], nil
	default:
		return "", ErrInvalidFormat
	}
}
