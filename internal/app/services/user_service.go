package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/helpers"
	"github.com/yigit/scholarhub/internal/pkg/validation"
)

// UserService defines the user directory operations
type UserService interface {
	// UpsertUser records a login. created reports a first login.
	UpsertUser(ctx context.Context, email, name, photoURL string) (*models.User, bool, error)
	GetRole(ctx context.Context, email string) (models.RoleType, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, role string, page, size int) ([]*models.User, int64, error)
	UpdateRole(ctx context.Context, id, role string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	EnsureAdmin(ctx context.Context, email string) error
}

type userServiceImpl struct {
	repo   UserStore
	logger zerolog.Logger
}

// NewUserService creates a new user service instance
func NewUserService(repo UserStore, logger zerolog.Logger) UserService {
	return &userServiceImpl{
		repo:   repo,
		logger: logger.With().Str("service", "user").Logger(),
	}
}

func normalizeEmail(email string) (string, error) {
	email = validation.NormalizeEmail(email)
	if !validation.IsValidEmail(email) {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidEmail, email)
	}
	return email, nil
}

func (s *userServiceImpl) UpsertUser(ctx context.Context, email, name, photoURL string) (*models.User, bool, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, false, err
	}

	user, created, err := s.repo.Upsert(ctx, email, strings.TrimSpace(name), strings.TrimSpace(photoURL))
	if err != nil {
		return nil, false, err
	}
	if created {
		s.logger.Info().Str("email", email).Msg("User registered on first login")
	}
	return user, created, nil
}

func (s *userServiceImpl) GetRole(ctx context.Context, email string) (models.RoleType, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}

func (s *userServiceImpl) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByEmail(ctx, email)
}

// ListUsers pages through users, optionally only those holding role
func (s *userServiceImpl) ListUsers(ctx context.Context, role string, page, size int) ([]*models.User, int64, error) {
	var roleFilter models.RoleType
	if v, ok := helpers.FilterValue(role); ok {
		roleFilter = models.RoleType(v)
		if !roleFilter.IsValid() {
			return nil, 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, role)
		}
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.repo.List(ctx, roleFilter, offset, limit)
}

func (s *userServiceImpl) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	r := models.RoleType(role)
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, role)
	}

	if err := s.repo.UpdateRole(ctx, id, r); err != nil {
		return nil, err
	}
	s.logger.Info().Str("userID", id).Str("role", role).Msg("User role changed")
	return s.repo.GetByID(ctx, id)
}

// DeleteUser removes the account. Logging in again re-creates it as a student.
func (s *userServiceImpl) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin grants the admin role to email, creating the user if needed
func (s *userServiceImpl) EnsureAdmin(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	return s.repo.EnsureRole(ctx, email, models.RoleAdmin)
}
