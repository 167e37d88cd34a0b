package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// Constraint names declared in migrations/.
const (
	ApplicationScholarshipUserKey = "applications_scholarship_user_key"
	ApplicationScholarshipFKey    = "applications_scholarship_id_fkey"
	UsersEmailKey                 = "users_email_key"
)

func constraintError(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code && pgErr.ConstraintName == constraintName
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return constraintError(err, uniqueViolation, constraintName)
}

// IsForeignKeyViolation reports a write rejected by the named foreign key
func IsForeignKeyViolation(err error, constraintName string) bool {
	return constraintError(err, foreignKeyViolation, constraintName)
}
