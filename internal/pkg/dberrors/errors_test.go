package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestConstraintErrors(t *testing.T) {
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: ApplicationScholarshipUserKey})
	fk := &pgconn.PgError{Code: "23503", ConstraintName: ApplicationScholarshipFKey}

	assert.True(t, IsDuplicateConstraintError(dup, ApplicationScholarshipUserKey))
	assert.False(t, IsDuplicateConstraintError(dup, UsersEmailKey))
	assert.False(t, IsDuplicateConstraintError(fk, ApplicationScholarshipFKey))

	assert.True(t, IsForeignKeyViolation(fk, ApplicationScholarshipFKey))
	assert.False(t, IsForeignKeyViolation(dup, ApplicationScholarshipUserKey))
	assert.False(t, IsForeignKeyViolation(errors.New("plain"), ApplicationScholarshipFKey))
}
