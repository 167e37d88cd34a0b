package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/dberrors"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

var userColumns = []string{"id", "email", "name", "photo_url", "role", "created_at", "last_logged_in"}

// UserRepository handles user database operations
type UserRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt, &u.LastLoggedIn); err != nil {
		return nil, err
	}
	return u, nil
}

// Upsert inserts a student with the given e-mail or, when one exists, refreshes
// last_logged_in and any non-empty profile fields. created reports an insert.
func (r *UserRepository) Upsert(ctx context.Context, email, name, photoURL string) (*models.User, bool, error) {
	now := time.Now()
	sql, args, err := r.sb.Insert("users").
		Columns("id", "email", "name", "photo_url", "role", "created_at", "last_logged_in").
		Values(uuid.NewString(), email, name, photoURL, models.RoleStudent, now, now).
		Suffix(`ON CONFLICT ON CONSTRAINT `+dberrors.UsersEmailKey+` DO UPDATE SET
			last_logged_in = EXCLUDED.last_logged_in,
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			photo_url = COALESCE(NULLIF(EXCLUDED.photo_url, ''), users.photo_url)
			RETURNING id, email, name, photo_url, role, created_at, last_logged_in, (xmax = 0) AS inserted`).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building upsert user SQL")
		return nil, false, fmt.Errorf("failed to build upsert user query: %w", err)
	}

	u := &models.User{}
	var inserted bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&u.ID, &u.Email, &u.Name, &u.PhotoURL, &u.Role, &u.CreatedAt, &u.LastLoggedIn, &inserted)
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error executing upsert user query")
		return nil, false, fmt.Errorf("error upserting user: %w", err)
	}
	return u, inserted, nil
}

// EnsureRole makes sure a user with email exists and holds role
func (r *UserRepository) EnsureRole(ctx context.Context, email string, role models.RoleType) error {
	sql, args, err := r.sb.Insert("users").
		Columns("id", "email", "role", "created_at").
		Values(uuid.NewString(), email, role, time.Now()).
		Suffix("ON CONFLICT ON CONSTRAINT " + dberrors.UsersEmailKey + " DO UPDATE SET role = EXCLUDED.role").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ensure role query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error ensuring user role")
		return fmt.Errorf("error ensuring user role: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by e-mail
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *UserRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	sql, args, err := r.sb.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get user query: %w", err)
	}

	u, err := scanUser(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Msg("Error scanning user row")
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

// List returns one page of users, optionally restricted to a role
func (r *UserRepository) List(ctx context.Context, role models.RoleType, offset uint64, limit int) ([]*models.User, int64, error) {
	where := squirrel.And{}
	if role != "" {
		where = append(where, squirrel.Eq{"role": role})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("users").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count users query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting users")
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	sql, args, err := r.sb.Select(userColumns...).
		From("users").
		Where(where).
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list users query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list users query")
		return nil, 0, fmt.Errorf("error querying users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, total, nil
}

// UpdateRole changes the role of a user
func (r *UserRepository) UpdateRole(ctx context.Context, id string, role models.RoleType) error {
	sql, args, err := r.sb.Update("users").Set("role", role).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update role query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", id).Msg("Error executing update role query")
		return fmt.Errorf("error updating user role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes a user. Applications and reviews keep their denormalized copy.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("users").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete user query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("userID", id).Msg("Error executing delete user query")
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
