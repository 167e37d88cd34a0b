package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/metrics"
	"github.com/yigit/scholarhub/internal/pkg/payment"
)

// Applicant identifies the caller of an application or payment operation
type Applicant struct {
	UserID string
	Name   string
	Email  string
}

// PaymentConfig is the checkout configuration of the payment bridge
type PaymentConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// PaymentService bridges application fees to the hosted checkout
type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, scholarshipID string, applicant Applicant) (*payment.CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*payment.SessionRecord, error)
}

type paymentServiceImpl struct {
	gateway      payment.Gateway
	scholarships ScholarshipStore
	config       PaymentConfig
	logger       zerolog.Logger
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(gateway payment.Gateway, scholarships ScholarshipStore, config PaymentConfig, logger zerolog.Logger) PaymentService {
	if config.Currency == "" {
		config.Currency = "usd"
	}
	return &paymentServiceImpl{
		gateway:      gateway,
		scholarships: scholarships,
		config:       config,
		logger:       logger.With().Str("service", "payment").Logger(),
	}
}

// CreateCheckoutSession opens a hosted checkout for the scholarship's
// application fee, loaded from storage.
func (s *paymentServiceImpl) CreateCheckoutSession(ctx context.Context, scholarshipID string, applicant Applicant) (*payment.CheckoutSession, error) {
	if applicant.Email == "" {
		return nil, apperrors.ErrUnauthenticated
	}

	scholarship, err := s.scholarships.GetByID(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}
	if scholarship.IsFree() {
		return nil, apperrors.ErrZeroFeeNotPayable
	}

	amount, err := payment.ToMinorUnits(scholarship.ApplicationFees)
	if err != nil {
		return nil, apperrors.ErrZeroFeeNotPayable
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		ProductName:   scholarship.ScholarshipName,
		AmountMinor:   amount,
		Currency:      strings.ToLower(s.config.Currency),
		CustomerEmail: applicant.Email,
		SuccessURL:    s.config.SuccessURL,
		CancelURL:     s.config.CancelURL,
		Metadata: map[string]string{
			payment.MetaScholarshipID: scholarship.ID,
			payment.MetaUserEmail:     applicant.Email,
			payment.MetaUserName:      applicant.Name,
			payment.MetaUserID:        applicant.UserID,
		},
	})
	metrics.CheckoutSession(err == nil)
	if err != nil {
		s.logger.Error().Err(err).Str("scholarshipID", scholarshipID).Msg("Checkout session creation failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPaymentSessionCreationFailed, err)
	}

	s.logger.Info().
		Str("sessionID", session.ID).
		Str("scholarshipID", scholarship.ID).
		Int64("amount", amount).
		Msg("Checkout session created")
	return session, nil
}

func (s *paymentServiceImpl) RetrieveSession(ctx context.Context, sessionID string) (*payment.SessionRecord, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, apperrors.NewValidationError("sessionId", "session id is required")
	}

	record, err := s.gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payment.ErrSessionNotFound) {
			return nil, apperrors.ErrPaymentSessionNotFound
		}
		s.logger.Error().Err(err).Str("sessionID", sessionID).Msg("Failed to retrieve checkout session")
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}
	return record, nil
}
