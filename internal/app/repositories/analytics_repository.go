package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

// AnalyticsRepository runs the aggregate queries behind the admin dashboard
type AnalyticsRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewAnalyticsRepository creates a new AnalyticsRepository
func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Summary collects totals and per-university / per-category application counts
func (r *AnalyticsRepository) Summary(ctx context.Context) (*models.Analytics, error) {
	a := &models.Analytics{}

	totals := `SELECT
		(SELECT COUNT(*) FROM users),
		(SELECT COUNT(*) FROM scholarships),
		(SELECT COUNT(*) FROM applications),
		(SELECT COALESCE(SUM(application_fees), 0)::float8 FROM applications WHERE payment_status = 'paid')`
	if err := r.db.QueryRow(ctx, totals).Scan(&a.TotalUsers, &a.TotalScholarships, &a.TotalApplications, &a.TotalFees); err != nil {
		logger.Error().Err(err).Msg("Error querying analytics totals")
		return nil, fmt.Errorf("error querying analytics totals: %w", err)
	}

	var err error
	if a.AppsPerUniversity, err = r.countBy(ctx, "university_name"); err != nil {
		return nil, err
	}
	if a.AppsPerCategory, err = r.countBy(ctx, "scholarship_category"); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AnalyticsRepository) countBy(ctx context.Context, column string) ([]models.NameCount, error) {
	sql, args, err := r.sb.Select(column+" AS name", "COUNT(*) AS count").
		From("applications").
		GroupBy(column).
		OrderBy("count DESC", column+" ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build count by %s query: %w", column, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("column", column).Msg("Error executing count by query")
		return nil, fmt.Errorf("error counting applications by %s: %w", column, err)
	}
	buckets, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.NameCount])
	if err != nil {
		return nil, fmt.Errorf("error collecting counts by %s: %w", column, err)
	}
	return buckets, nil
}
