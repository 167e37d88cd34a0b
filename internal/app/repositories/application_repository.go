package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/dberrors"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

var applicationColumns = []string{
	"id", "scholarship_id", "user_id", "user_name", "user_email",
	"scholarship_name", "university_name", "scholarship_category", "subject_category", "degree",
	"application_fees", "service_charge", "application_status", "payment_status", "feedback",
	"application_date", "contact_number", "address", "additional_info",
	"transaction_id", "payment_session_id", "updated_at",
}

// PaymentUpdate describes how an application is moved to paid
type PaymentUpdate struct {
	TransactionID    *string
	PaymentSessionID *string
	// RefreshApplicationDate resets application_date to the update time
	RefreshApplicationDate bool
}

// ApplicationRepository handles application database operations
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanApplication(row rowScanner) (*models.Application, error) {
	a := &models.Application{}
	err := row.Scan(
		&a.ID, &a.ScholarshipID, &a.UserID, &a.UserName, &a.UserEmail,
		&a.ScholarshipName, &a.UniversityName, &a.ScholarshipCategory, &a.SubjectCategory, &a.Degree,
		&a.ApplicationFees, &a.ServiceCharge, &a.ApplicationStatus, &a.PaymentStatus, &a.Feedback,
		&a.ApplicationDate, &a.ContactNumber, &a.Address, &a.AdditionalInfo,
		&a.TransactionID, &a.PaymentSessionID, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts an application. A second application for the same
// (scholarship, email) pair fails with apperrors.ErrApplicationAlreadyExists.
func (r *ApplicationRepository) Create(ctx context.Context, a *models.Application) error {
	sql, args, err := r.sb.Insert("applications").
		Columns(applicationColumns...).
		Values(
			a.ID, a.ScholarshipID, a.UserID, a.UserName, a.UserEmail,
			a.ScholarshipName, a.UniversityName, a.ScholarshipCategory, a.SubjectCategory, a.Degree,
			a.ApplicationFees, a.ServiceCharge, a.ApplicationStatus, a.PaymentStatus, a.Feedback,
			a.ApplicationDate, a.ContactNumber, a.Address, a.AdditionalInfo,
			a.TransactionID, a.PaymentSessionID, a.UpdatedAt,
		).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create application SQL")
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		err = applicationCreateError(err)
		if !errors.Is(err, apperrors.ErrApplicationAlreadyExists) {
			logger.Error().Err(err).Str("scholarshipID", a.ScholarshipID).Msg("Error executing create application query")
		}
		return err
	}
	return nil
}

func applicationCreateError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, dberrors.ApplicationScholarshipUserKey):
		return apperrors.ErrApplicationAlreadyExists
	case dberrors.IsForeignKeyViolation(err, dberrors.ApplicationScholarshipFKey):
		return apperrors.ErrScholarshipNotFound
	default:
		return fmt.Errorf("error creating application: %w", err)
	}
}

// GetByID retrieves an application by ID
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*models.Application, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// FindByScholarshipAndEmail retrieves the single application of a user for a scholarship
func (r *ApplicationRepository) FindByScholarshipAndEmail(ctx context.Context, scholarshipID, email string) (*models.Application, error) {
	return r.getOne(ctx, squirrel.Eq{"scholarship_id": scholarshipID, "user_email": email})
}

func (r *ApplicationRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Application, error) {
	sql, args, err := r.sb.Select(applicationColumns...).
		From("applications").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get application SQL")
		return nil, fmt.Errorf("failed to build get application query: %w", err)
	}

	a, err := scanApplication(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Msg("Error scanning application row")
		return nil, fmt.Errorf("error getting application: %w", err)
	}
	return a, nil
}

// ListByEmail returns a user's applications, newest first
func (r *ApplicationRepository) ListByEmail(ctx context.Context, email string) ([]*models.Application, error) {
	query := r.sb.Select(applicationColumns...).
		From("applications").
		Where(squirrel.Eq{"user_email": email}).
		OrderBy("application_date DESC")
	return r.query(ctx, query)
}

// List returns one page of applications and the total matching count
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter, offset uint64, limit int) ([]*models.Application, int64, error) {
	where := squirrel.And{}
	if filter.Status != "" {
		where = append(where, squirrel.Eq{"application_status": filter.Status})
	}

	countSQL, countArgs, err := r.sb.Select("COUNT(*)").From("applications").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count applications query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting applications")
		return nil, 0, fmt.Errorf("error counting applications: %w", err)
	}

	query := r.sb.Select(applicationColumns...).
		From("applications").
		Where(where).
		OrderBy("application_date DESC").
		Offset(offset).
		Limit(uint64(limit))
	apps, err := r.query(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

func (r *ApplicationRepository) query(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Application, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list applications SQL")
		return nil, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list applications query")
		return nil, fmt.Errorf("error querying applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning application row")
			return nil, fmt.Errorf("error scanning application row: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application rows: %w", err)
	}
	return apps, nil
}

// MarkPaid sets payment_status to paid for the (scholarship, email) pair.
// application_status is never touched.
func (r *ApplicationRepository) MarkPaid(ctx context.Context, scholarshipID, email string, upd PaymentUpdate) (models.UpdateResult, error) {
	return r.exec(ctx, r.markPaidQuery(scholarshipID, email, upd, time.Now()), "mark paid")
}

func (r *ApplicationRepository) markPaidQuery(scholarshipID, email string, upd PaymentUpdate, now time.Time) squirrel.UpdateBuilder {
	query := r.sb.Update("applications").
		Set("payment_status", models.PaymentStatusPaid).
		Set("updated_at", now).
		Where(squirrel.Eq{"scholarship_id": scholarshipID, "user_email": email})

	if upd.RefreshApplicationDate {
		query = query.Set("application_date", now)
	}
	if upd.TransactionID != nil {
		query = query.Set("transaction_id", *upd.TransactionID)
	}
	if upd.PaymentSessionID != nil {
		query = query.Set("payment_session_id", *upd.PaymentSessionID)
	}
	return query
}

// UpdateStatus sets application_status. When expected is non-empty the row is
// only changed if its current status still equals expected.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status, expected models.ApplicationStatus) (models.UpdateResult, error) {
	where := squirrel.Eq{"id": id}
	if expected != "" {
		where["application_status"] = expected
	}

	query := r.sb.Update("applications").
		Set("application_status", status).
		Set("updated_at", time.Now()).
		Where(where)
	return r.exec(ctx, query, "update status")
}

// UpdateFeedback stores moderator feedback
func (r *ApplicationRepository) UpdateFeedback(ctx context.Context, id, feedback string) (models.UpdateResult, error) {
	query := r.sb.Update("applications").
		Set("feedback", feedback).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id})
	return r.exec(ctx, query, "update feedback")
}

// UpdateDetails edits the applicant fields of a pending application owned by email.
// Nil fields are left unchanged.
func (r *ApplicationRepository) UpdateDetails(ctx context.Context, id, email string, d models.ApplicantDetails) (models.UpdateResult, error) {
	query := r.sb.Update("applications").
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{
			"id":                 id,
			"user_email":         email,
			"application_status": models.ApplicationStatusPending,
		})

	if d.ContactNumber != nil {
		query = query.Set("contact_number", *d.ContactNumber)
	}
	if d.Address != nil {
		query = query.Set("address", *d.Address)
	}
	if d.AdditionalInfo != nil {
		query = query.Set("additional_info", *d.AdditionalInfo)
	}

	return r.exec(ctx, query, "update details")
}

// DeletePending removes an application only while it is pending and owned by email
func (r *ApplicationRepository) DeletePending(ctx context.Context, id, email string) (int64, error) {
	sql, args, err := r.sb.Delete("applications").
		Where(squirrel.Eq{
			"id":                 id,
			"user_email":         email,
			"application_status": models.ApplicationStatusPending,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build delete application query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("applicationID", id).Msg("Error executing delete application query")
		return 0, fmt.Errorf("error deleting application: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ApplicationRepository) exec(ctx context.Context, query squirrel.UpdateBuilder, op string) (models.UpdateResult, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error building application update SQL")
		return models.UpdateResult{}, fmt.Errorf("failed to build %s query: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("op", op).Msg("Error executing application update")
		return models.UpdateResult{}, fmt.Errorf("error executing %s: %w", op, err)
	}

	n := tag.RowsAffected()
	return models.UpdateResult{MatchedCount: n, ModifiedCount: n}, nil
}
