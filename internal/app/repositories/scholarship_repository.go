package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/dberrors"
	"github.com/yigit/scholarhub/internal/pkg/helpers"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

var scholarshipColumns = []string{
	"id", "scholarship_name", "university_name", "university_image", "university_country",
	"university_city", "university_world_rank", "scholarship_category", "subject_category",
	"degree", "tuition_fees", "application_fees", "service_charge", "application_deadline",
	"scholarship_post_date", "posted_user_email", "created_at", "updated_at",
}

// ScholarshipRepository handles scholarship database operations
type ScholarshipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewScholarshipRepository creates a new ScholarshipRepository
func NewScholarshipRepository(db *pgxpool.Pool) *ScholarshipRepository {
	return &ScholarshipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanScholarship(row rowScanner) (*models.Scholarship, error) {
	s := &models.Scholarship{}
	err := row.Scan(
		&s.ID, &s.ScholarshipName, &s.UniversityName, &s.UniversityImage, &s.UniversityCountry,
		&s.UniversityCity, &s.UniversityWorldRank, &s.ScholarshipCategory, &s.SubjectCategory,
		&s.Degree, &s.TuitionFees, &s.ApplicationFees, &s.ServiceCharge, &s.ApplicationDeadline,
		&s.ScholarshipPostDate, &s.PostedUserEmail, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create inserts a scholarship. ID and timestamps must already be set.
func (r *ScholarshipRepository) Create(ctx context.Context, s *models.Scholarship) error {
	sql, args, err := r.sb.Insert("scholarships").
		Columns(scholarshipColumns...).
		Values(
			s.ID, s.ScholarshipName, s.UniversityName, s.UniversityImage, s.UniversityCountry,
			s.UniversityCity, s.UniversityWorldRank, s.ScholarshipCategory, s.SubjectCategory,
			s.Degree, s.TuitionFees, s.ApplicationFees, s.ServiceCharge, s.ApplicationDeadline,
			s.ScholarshipPostDate, s.PostedUserEmail, s.CreatedAt, s.UpdatedAt,
		).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create scholarship SQL")
		return fmt.Errorf("failed to build create scholarship query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("scholarshipID", s.ID).Msg("Error executing create scholarship query")
		return fmt.Errorf("error creating scholarship: %w", err)
	}
	return nil
}

// GetByID retrieves a scholarship by ID
func (r *ScholarshipRepository) GetByID(ctx context.Context, id string) (*models.Scholarship, error) {
	sql, args, err := r.sb.Select(scholarshipColumns...).
		From("scholarships").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get scholarship by ID SQL")
		return nil, fmt.Errorf("failed to build get scholarship query: %w", err)
	}

	s, err := scanScholarship(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrScholarshipNotFound
		}
		logger.Error().Err(err).Str("scholarshipID", id).Msg("Error scanning scholarship row")
		return nil, fmt.Errorf("error getting scholarship by ID: %w", err)
	}
	return s, nil
}

// List returns scholarships matching filter, cheapest first then newest first.
func (r *ScholarshipRepository) List(ctx context.Context, filter models.ScholarshipFilter) ([]*models.Scholarship, error) {
	return r.query(ctx, r.listQuery(filter), "list")
}

func (r *ScholarshipRepository) listQuery(filter models.ScholarshipFilter) squirrel.SelectBuilder {
	query := r.sb.Select(scholarshipColumns...).From("scholarships")

	if search, ok := helpers.FilterValue(filter.Search); ok {
		pattern := "%" + escapeLike(search) + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"scholarship_name": pattern},
			squirrel.ILike{"university_name": pattern},
			squirrel.ILike{"degree": pattern},
		})
	}
	if v, ok := helpers.FilterValue(filter.Category); ok {
		query = query.Where(squirrel.Eq{"scholarship_category": v})
	}
	if v, ok := helpers.FilterValue(filter.Subject); ok {
		query = query.Where(squirrel.Eq{"subject_category": v})
	}
	if v, ok := helpers.FilterValue(filter.Country); ok {
		query = query.Where(squirrel.Eq{"university_country": v})
	}
	if v, ok := helpers.FilterValue(filter.Degree); ok {
		query = query.Where(squirrel.Eq{"degree": v})
	}

	return query.OrderBy("application_fees ASC", "scholarship_post_date DESC")
}

// Top returns at most limit scholarships in the requested order
func (r *ScholarshipRepository) Top(ctx context.Context, sortBy models.TopSort, limit int) ([]*models.Scholarship, error) {
	return r.query(ctx, r.topQuery(sortBy, limit), "top")
}

func (r *ScholarshipRepository) topQuery(sortBy models.TopSort, limit int) squirrel.SelectBuilder {
	query := r.sb.Select(scholarshipColumns...).From("scholarships")
	if sortBy == models.TopSortByRecent {
		query = query.OrderBy("scholarship_post_date DESC", "application_fees ASC")
	} else {
		query = query.OrderBy("application_fees ASC", "scholarship_post_date DESC")
	}
	return query.Limit(uint64(limit))
}

// ListAll returns every scholarship, newest first
func (r *ScholarshipRepository) ListAll(ctx context.Context) ([]*models.Scholarship, error) {
	query := r.sb.Select(scholarshipColumns...).From("scholarships").OrderBy("scholarship_post_date DESC")
	return r.query(ctx, query, "list all")
}

func (r *ScholarshipRepository) query(ctx context.Context, query squirrel.SelectBuilder, op string) ([]*models.Scholarship, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building scholarship query SQL")
		return nil, fmt.Errorf("failed to build %s scholarships query: %w", op, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing scholarship query")
		return nil, fmt.Errorf("error querying scholarships: %w", err)
	}
	defer rows.Close()

	scholarships := []*models.Scholarship{}
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			logger.Error().Err(err).Str("op", op).Msg("Error scanning scholarship row")
			return nil, fmt.Errorf("error scanning scholarship row: %w", err)
		}
		scholarships = append(scholarships, s)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error iterating scholarship rows")
		return nil, fmt.Errorf("error iterating scholarship rows: %w", err)
	}

	return scholarships, nil
}

// Facets returns the distinct, non-empty, sorted filter values
func (r *ScholarshipRepository) Facets(ctx context.Context) (*models.ScholarshipFacets, error) {
	facets := &models.ScholarshipFacets{}
	targets := []struct {
		column string
		dst    *[]string
	}{
		{"scholarship_category", &facets.Categories},
		{"subject_category", &facets.Subjects},
		{"university_country", &facets.Countries},
		{"degree", &facets.Degrees},
	}

	for _, t := range targets {
		values, err := r.distinct(ctx, t.column)
		if err != nil {
			return nil, err
		}
		*t.dst = values
	}
	return facets, nil
}

func (r *ScholarshipRepository) distinct(ctx context.Context, column string) ([]string, error) {
	sql, args, err := r.sb.Select(column).
		Distinct().
		From("scholarships").
		Where(squirrel.NotEq{column: ""}).
		OrderBy(column + " ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build distinct %s query: %w", column, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error executing distinct query")
		return nil, fmt.Errorf("error querying distinct %s: %w", column, err)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error collecting distinct %s: %w", column, err)
	}
	return values, nil
}

// Update overwrites the editable fields of a scholarship
func (r *ScholarshipRepository) Update(ctx context.Context, s *models.Scholarship) error {
	sql, args, err := r.sb.Update("scholarships").
		SetMap(map[string]interface{}{
			"scholarship_name":      s.ScholarshipName,
			"university_name":       s.UniversityName,
			"university_image":      s.UniversityImage,
			"university_country":    s.UniversityCountry,
			"university_city":       s.UniversityCity,
			"university_world_rank": s.UniversityWorldRank,
			"scholarship_category":  s.ScholarshipCategory,
			"subject_category":      s.SubjectCategory,
			"degree":                s.Degree,
			"tuition_fees":          s.TuitionFees,
			"application_fees":      s.ApplicationFees,
			"service_charge":        s.ServiceCharge,
			"application_deadline":  s.ApplicationDeadline,
			"scholarship_post_date": s.ScholarshipPostDate,
			"updated_at":            s.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": s.ID}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update scholarship SQL")
		return fmt.Errorf("failed to build update scholarship query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("scholarshipID", s.ID).Msg("Error executing update scholarship query")
		return fmt.Errorf("error updating scholarship: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScholarshipNotFound
	}
	return nil
}

// UpdateImage sets the university image URL
func (r *ScholarshipRepository) UpdateImage(ctx context.Context, id, imageURL string) error {
	sql, args, err := r.sb.Update("scholarships").
		Set("university_image", imageURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update scholarship image query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("scholarshipID", id).Msg("Error updating scholarship image")
		return fmt.Errorf("error updating scholarship image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScholarshipNotFound
	}
	return nil
}

// Delete removes a scholarship. Scholarships that already have applications are kept.
func (r *ScholarshipRepository) Delete(ctx context.Context, id string) error {
	checkSQL, checkArgs, err := r.sb.Select("1").
		From("applications").
		Where(squirrel.Eq{"scholarship_id": id}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build check applications query: %w", err)
	}

	var hasApplications bool
	if err := r.db.QueryRow(ctx, checkSQL, checkArgs...).Scan(&hasApplications); err != nil {
		logger.Error().Err(err).Str("scholarshipID", id).Msg("Error checking scholarship applications")
		return fmt.Errorf("error checking scholarship applications: %w", err)
	}
	if hasApplications {
		return apperrors.ErrScholarshipHasApplications
	}

	sql, args, err := r.sb.Delete("scholarships").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete scholarship query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		err = scholarshipDeleteError(err)
		if !errors.Is(err, apperrors.ErrScholarshipHasApplications) {
			logger.Error().Err(err).Str("scholarshipID", id).Msg("Error executing delete scholarship query")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrScholarshipNotFound
	}
	return nil
}

// scholarshipDeleteError maps a failed delete. An application inserted after
// the existence check still trips the foreign key.
func scholarshipDeleteError(err error) error {
	if dberrors.IsForeignKeyViolation(err, dberrors.ApplicationScholarshipFKey) {
		return apperrors.ErrScholarshipHasApplications
	}
	return fmt.Errorf("error deleting scholarship: %w", err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
