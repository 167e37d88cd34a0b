package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

var reviewColumns = []string{
	"id", "scholarship_id", "university_name", "user_name", "user_email",
	"user_image", "rating_point", "review_comment", "review_date",
}

// ReviewRepository handles review database operations
type ReviewRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanReview(row rowScanner) (*models.Review, error) {
	rv := &models.Review{}
	err := row.Scan(&rv.ID, &rv.ScholarshipID, &rv.UniversityName, &rv.UserName, &rv.UserEmail,
		&rv.UserImage, &rv.RatingPoint, &rv.ReviewComment, &rv.ReviewDate)
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// Create inserts a review
func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	sql, args, err := r.sb.Insert("reviews").
		Columns(reviewColumns...).
		Values(rv.ID, rv.ScholarshipID, rv.UniversityName, rv.UserName, rv.UserEmail,
			rv.UserImage, rv.RatingPoint, rv.ReviewComment, rv.ReviewDate).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create review SQL")
		return fmt.Errorf("failed to build create review query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("scholarshipID", rv.ScholarshipID).Msg("Error executing create review query")
		return fmt.Errorf("error creating review: %w", err)
	}
	return nil
}

// GetByID retrieves a review by ID
func (r *ReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	sql, args, err := r.sb.Select(reviewColumns...).From("reviews").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get review query: %w", err)
	}

	rv, err := scanReview(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrReviewNotFound
		}
		logger.Error().Err(err).Str("reviewID", id).Msg("Error scanning review row")
		return nil, fmt.Errorf("error getting review: %w", err)
	}
	return rv, nil
}

// ListByScholarship returns the reviews of a scholarship, newest first
func (r *ReviewRepository) ListByScholarship(ctx context.Context, scholarshipID string) ([]*models.Review, error) {
	return r.list(ctx, squirrel.Eq{"scholarship_id": scholarshipID})
}

// ListByEmail returns the reviews written by a user, newest first
func (r *ReviewRepository) ListByEmail(ctx context.Context, email string) ([]*models.Review, error) {
	return r.list(ctx, squirrel.Eq{"user_email": email})
}

// ListAll returns every review, newest first
func (r *ReviewRepository) ListAll(ctx context.Context) ([]*models.Review, error) {
	return r.list(ctx, nil)
}

func (r *ReviewRepository) list(ctx context.Context, where squirrel.Eq) ([]*models.Review, error) {
	query := r.sb.Select(reviewColumns...).From("reviews").OrderBy("review_date DESC")
	if len(where) > 0 {
		query = query.Where(where)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list reviews query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list reviews query")
		return nil, fmt.Errorf("error querying reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*models.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating review rows: %w", err)
	}
	return reviews, nil
}

// Update rewrites rating and comment of a review
func (r *ReviewRepository) Update(ctx context.Context, rv *models.Review) error {
	sql, args, err := r.sb.Update("reviews").
		Set("rating_point", rv.RatingPoint).
		Set("review_comment", rv.ReviewComment).
		Set("review_date", rv.ReviewDate).
		Where(squirrel.Eq{"id": rv.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update review query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("reviewID", rv.ID).Msg("Error executing update review query")
		return fmt.Errorf("error updating review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}
	return nil
}

// Delete removes a review
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	sql, args, err := r.sb.Delete("reviews").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete review query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("reviewID", id).Msg("Error executing delete review query")
		return fmt.Errorf("error deleting review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrReviewNotFound
	}
	return nil
}
