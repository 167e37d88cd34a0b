package repositories

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/helpers"
)

func TestMarkPaidQueryLeavesApplicationStatus(t *testing.T) {
	r := NewApplicationRepository(nil)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	sql, args, err := r.markPaidQuery("s-1", "a@example.com", PaymentUpdate{}, now).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "UPDATE applications SET payment_status = $1, updated_at = $2")
	assert.Contains(t, sql, "WHERE scholarship_id = $3 AND user_email = $4")
	assert.NotContains(t, sql, "application_status")
	assert.NotContains(t, sql, "application_date")
	assert.Equal(t, []interface{}{models.PaymentStatusPaid, now, "s-1", "a@example.com"}, args)
}

func TestMarkPaidQueryWithSessionFields(t *testing.T) {
	r := NewApplicationRepository(nil)
	now := time.Now()

	sql, args, err := r.markPaidQuery("s-1", "a@example.com", PaymentUpdate{
		TransactionID:          helpers.StringPtr("pi_123"),
		PaymentSessionID:       helpers.StringPtr("cs_123"),
		RefreshApplicationDate: true,
	}, now).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "application_date = $3, transaction_id = $4, payment_session_id = $5")
	assert.NotContains(t, sql, "application_status")
	assert.Equal(t, "pi_123", args[3])
	assert.Equal(t, "cs_123", args[4])
}

func TestApplicationCreateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate pair", &pgconn.PgError{Code: "23505", ConstraintName: "applications_scholarship_user_key"}, apperrors.ErrApplicationAlreadyExists},
		{"unknown scholarship", &pgconn.PgError{Code: "23503", ConstraintName: "applications_scholarship_id_fkey"}, apperrors.ErrScholarshipNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, applicationCreateError(tt.err), tt.want)
		})
	}

	other := &pgconn.PgError{Code: "23505", ConstraintName: "applications_pkey"}
	err := applicationCreateError(other)
	assert.NotErrorIs(t, err, apperrors.ErrApplicationAlreadyExists)
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))
}
