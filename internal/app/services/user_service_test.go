package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
)

func TestUpsertCreatesThenRefreshes(t *testing.T) {
	svc := NewUserService(newMemUsers(), zerolog.Nop())
	ctx := context.Background()

	user, created, err := svc.UpsertUser(ctx, "Jane@Example.com", "Jane", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)

	again, created, err := svc.UpsertUser(ctx, "jane@example.com", "", "http://img")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "Jane", again.Name)
	assert.Equal(t, "http://img", again.PhotoURL)

	_, _, err = svc.UpsertUser(ctx, "not-an-email", "", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)
}

func TestDeletedUserIsRecreatedWithDefaultRole(t *testing.T) {
	svc := NewUserService(newMemUsers(), zerolog.Nop())
	ctx := context.Background()

	user, _, err := svc.UpsertUser(ctx, "mod@example.com", "Mod", "")
	require.NoError(t, err)
	_, err = svc.UpdateRole(ctx, user.ID, "moderator")
	require.NoError(t, err)

	role, err := svc.GetRole(ctx, "mod@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, role)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))
	_, err = svc.GetRole(ctx, "mod@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)

	recreated, created, err := svc.UpsertUser(ctx, "mod@example.com", "Mod", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, user.ID, recreated.ID)
	assert.Equal(t, models.RoleStudent, recreated.Role)
}

func TestUpdateRoleValidation(t *testing.T) {
	svc := NewUserService(newMemUsers(), zerolog.Nop())

	_, err := svc.UpdateRole(context.Background(), "any", "superuser")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)

	_, err = svc.UpdateRole(context.Background(), "missing", "admin")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestListUsersByRole(t *testing.T) {
	svc := NewUserService(newMemUsers(), zerolog.Nop())
	ctx := context.Background()

	_, _, err := svc.UpsertUser(ctx, "a@example.com", "", "")
	require.NoError(t, err)
	require.NoError(t, svc.EnsureAdmin(ctx, "root@example.com"))

	admins, total, err := svc.ListUsers(ctx, "admin", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "root@example.com", admins[0].Email)

	_, total, err = svc.ListUsers(ctx, "all", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, _, err = svc.ListUsers(ctx, "guest", 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
}
