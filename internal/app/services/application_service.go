package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/scholarhub/internal/app/models"
	"github.com/yigit/scholarhub/internal/app/repositories"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/helpers"
	"github.com/yigit/scholarhub/internal/pkg/metrics"
	"github.com/yigit/scholarhub/internal/pkg/payment"
	"github.com/yigit/scholarhub/internal/pkg/validation"
)

// CreateApplicationInput is an application as requested by an applicant
type CreateApplicationInput struct {
	ScholarshipID string
	Applicant     Applicant
	PaymentStatus string
	Details       models.ApplicantDetails
}

// ReconcileResult identifies the application a paid session settled
type ReconcileResult struct {
	ApplicationID string `json:"applicationId"`
	ScholarshipID string `json:"scholarshipId"`
	Created       bool   `json:"created"`
}

// ApplicationService drives the application lifecycle
type ApplicationService interface {
	// CreateApplication returns the existing application unchanged when the
	// applicant already applied. created reports an insert.
	CreateApplication(ctx context.Context, in CreateApplicationInput) (*models.Application, bool, error)
	MarkFreeApplicationPaid(ctx context.Context, scholarshipID, email string) (models.UpdateResult, error)
	// ReconcilePaidSession settles a paid checkout session. A non-empty
	// callerEmail must match the session's applicant.
	ReconcilePaidSession(ctx context.Context, sessionID, callerEmail string) (*ReconcileResult, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Application, error)
	UpdateFeedback(ctx context.Context, id, feedback string) (*models.Application, error)
	RejectApplication(ctx context.Context, id string) (*models.Application, error)
	UpdateApplicationDetails(ctx context.Context, id, requesterEmail string, details models.ApplicantDetails) (*models.Application, error)
	DeleteApplication(ctx context.Context, id, requesterEmail string) error
	GetApplication(ctx context.Context, id, requesterEmail string) (*models.Application, error)
	ListMyApplications(ctx context.Context, email string) ([]*models.Application, error)
	ListApplications(ctx context.Context, status string, page, size int) ([]*models.Application, int64, error)
}

// ApplicationOptions tunes lifecycle rules
type ApplicationOptions struct {
	// StrictTransitions only allows forward status changes
	StrictTransitions bool
}

type applicationServiceImpl struct {
	apps         ApplicationStore
	scholarships ScholarshipStore
	payments     PaymentService
	notifier     ApplicationNotifier
	opts         ApplicationOptions
	logger       zerolog.Logger
}

// NewApplicationService creates a new application service instance
func NewApplicationService(
	apps ApplicationStore,
	scholarships ScholarshipStore,
	payments PaymentService,
	notifier ApplicationNotifier,
	opts ApplicationOptions,
	logger zerolog.Logger,
) ApplicationService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &applicationServiceImpl{
		apps:         apps,
		scholarships: scholarships,
		payments:     payments,
		notifier:     notifier,
		opts:         opts,
		logger:       logger.With().Str("service", "application").Logger(),
	}
}

var forwardTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationStatusPending:    {models.ApplicationStatusProcessing, models.ApplicationStatusRejected},
	models.ApplicationStatusProcessing: {models.ApplicationStatusCompleted, models.ApplicationStatusRejected},
}

// CanTransition reports whether from -> to is a forward status change
func CanTransition(from, to models.ApplicationStatus) bool {
	if from == to {
		return true
	}
	if from.IsFinal() {
		return false
	}
	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *applicationServiceImpl) CreateApplication(ctx context.Context, in CreateApplicationInput) (*models.Application, bool, error) {
	if strings.TrimSpace(in.ScholarshipID) == "" {
		return nil, false, apperrors.NewValidationError("scholarshipId", "scholarship id is required")
	}
	email := validation.NormalizeEmail(in.Applicant.Email)
	if !validation.IsValidEmail(email) {
		return nil, false, fmt.Errorf("%w: %q", apperrors.ErrInvalidEmail, in.Applicant.Email)
	}

	if err := validateApplicant(in.Applicant.Name, in.Details); err != nil {
		return nil, false, err
	}

	paymentStatus := models.PaymentStatus(in.PaymentStatus)
	switch {
	case paymentStatus == "":
		paymentStatus = models.PaymentStatusUnpaid
	case !paymentStatus.IsValid():
		return nil, false, fmt.Errorf("%w: %q", apperrors.ErrInvalidPaymentStatus, in.PaymentStatus)
	case paymentStatus == models.PaymentStatusPaid:
		s.logger.Warn().Str("email", email).Str("scholarshipID", in.ScholarshipID).
			Msg("Ignoring client-supplied paid status, application created unpaid")
		paymentStatus = models.PaymentStatusUnpaid
	}

	existing, err := s.apps.FindByScholarshipAndEmail(ctx, in.ScholarshipID, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrApplicationNotFound) {
		return nil, false, err
	}

	scholarship, err := s.scholarships.GetByID(ctx, in.ScholarshipID)
	if err != nil {
		return nil, false, err
	}

	app := newApplication(scholarship, in.Applicant, email, paymentStatus)
	app.ContactNumber = in.Details.ContactNumber
	app.Address = in.Details.Address
	app.AdditionalInfo = in.Details.AdditionalInfo

	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, apperrors.ErrApplicationAlreadyExists) {
			existing, findErr := s.apps.FindByScholarshipAndEmail(ctx, in.ScholarshipID, email)
			if findErr != nil {
				return nil, false, findErr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	metrics.ApplicationCreated("direct")
	s.logger.Info().Str("applicationID", app.ID).Str("scholarshipID", app.ScholarshipID).Msg("Application created")
	s.notifier.Notify(ctx, EventApplicationSubmitted, app)
	return app, true, nil
}

// validateApplicant checks the free-form fields an applicant controls. Empty values pass.
func validateApplicant(name string, d models.ApplicantDetails) error {
	if !validation.NewStringValidation(name).WithRequired(false).WithMaxLength(validation.NameMaxLength).Validate() {
		return apperrors.NewValidationError("userName", fmt.Sprintf("name must be at most %d characters", validation.NameMaxLength))
	}
	if d.ContactNumber != nil &&
		!validation.NewStringValidation(*d.ContactNumber).WithRequired(false).WithPattern(validation.CompiledPatterns.Phone).Validate() {
		return apperrors.NewValidationError("contactNumber", "contact number may only hold digits, spaces, dashes, parentheses and a leading plus")
	}
	if d.AdditionalInfo != nil &&
		!validation.NewStringValidation(*d.AdditionalInfo).WithRequired(false).WithMaxLength(validation.AdditionalInfoMaxLength).Validate() {
		return apperrors.NewValidationError("additionalInfo", fmt.Sprintf("additional info must be at most %d characters", validation.AdditionalInfoMaxLength))
	}
	return nil
}

func newApplication(scholarship *models.Scholarship, applicant Applicant, email string, paymentStatus models.PaymentStatus) *models.Application {
	now := time.Now()
	app := &models.Application{
		ID:                uuid.NewString(),
		ScholarshipID:     scholarship.ID,
		UserID:            applicant.UserID,
		UserName:          applicant.Name,
		UserEmail:         email,
		ApplicationStatus: models.ApplicationStatusPending,
		PaymentStatus:     paymentStatus,
		ApplicationDate:   now,
		UpdatedAt:         now,
	}
	app.ApplyScholarshipSnapshot(scholarship)
	return app
}

// MarkFreeApplicationPaid settles an application whose scholarship has no fee
func (s *applicationServiceImpl) MarkFreeApplicationPaid(ctx context.Context, scholarshipID, email string) (models.UpdateResult, error) {
	email = validation.NormalizeEmail(email)

	scholarship, err := s.scholarships.GetByID(ctx, scholarshipID)
	if err != nil {
		return models.UpdateResult{}, err
	}
	if !scholarship.IsFree() {
		return models.UpdateResult{}, apperrors.ErrFeeRequired
	}

	result, err := s.apps.MarkPaid(ctx, scholarshipID, email, repositories.PaymentUpdate{RefreshApplicationDate: true})
	if err != nil {
		return models.UpdateResult{}, err
	}
	if result.MatchedCount == 0 {
		return result, apperrors.ErrApplicationNotFound
	}

	metrics.PaymentReconciled("free")
	if app, err := s.apps.FindByScholarshipAndEmail(ctx, scholarshipID, email); err == nil {
		s.notifier.Notify(ctx, EventApplicationPaid, app)
	}
	return result, nil
}

func (s *applicationServiceImpl) ReconcilePaidSession(ctx context.Context, sessionID, callerEmail string) (*ReconcileResult, error) {
	record, err := s.payments.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !record.IsPaid() {
		return nil, fmt.Errorf("%w: session %s is %s", apperrors.ErrPaymentIncomplete, record.ID, record.PaymentStatus)
	}

	scholarshipID := record.Metadata[payment.MetaScholarshipID]
	email := validation.NormalizeEmail(record.Metadata[payment.MetaUserEmail])
	if scholarshipID == "" || email == "" {
		return nil, apperrors.ErrPaymentMetadataMissing
	}
	if callerEmail != "" && validation.NormalizeEmail(callerEmail) != email {
		return nil, apperrors.NewForbiddenError("payment session belongs to another user")
	}

	upd := repositories.PaymentUpdate{
		TransactionID:    helpers.StringPtr(record.PaymentIntentID),
		PaymentSessionID: helpers.StringPtr(record.ID),
	}

	existing, err := s.apps.FindByScholarshipAndEmail(ctx, scholarshipID, email)
	switch {
	case err == nil:
		return s.markExistingPaid(ctx, existing, upd)
	case !errors.Is(err, apperrors.ErrApplicationNotFound):
		return nil, err
	}

	scholarship, err := s.scholarships.GetByID(ctx, scholarshipID)
	if err != nil {
		return nil, err
	}

	applicant := Applicant{
		UserID: record.Metadata[payment.MetaUserID],
		Name:   record.Metadata[payment.MetaUserName],
		Email:  email,
	}
	app := newApplication(scholarship, applicant, email, models.PaymentStatusPaid)
	app.TransactionID = upd.TransactionID
	app.PaymentSessionID = upd.PaymentSessionID

	if err := s.apps.Create(ctx, app); err != nil {
		if !errors.Is(err, apperrors.ErrApplicationAlreadyExists) {
			return nil, err
		}
		existing, findErr := s.apps.FindByScholarshipAndEmail(ctx, scholarshipID, email)
		if findErr != nil {
			return nil, findErr
		}
		return s.markExistingPaid(ctx, existing, upd)
	}

	metrics.ApplicationCreated("checkout")
	metrics.PaymentReconciled("checkout")
	s.logger.Info().Str("applicationID", app.ID).Str("sessionID", record.ID).Msg("Paid application created from checkout session")
	s.notifier.Notify(ctx, EventApplicationPaid, app)
	return &ReconcileResult{ApplicationID: app.ID, ScholarshipID: app.ScholarshipID, Created: true}, nil
}

// markExistingPaid flips payment status only; repeated reconciliation is a no-op
func (s *applicationServiceImpl) markExistingPaid(ctx context.Context, app *models.Application, upd repositories.PaymentUpdate) (*ReconcileResult, error) {
	result := &ReconcileResult{ApplicationID: app.ID, ScholarshipID: app.ScholarshipID}
	if app.PaymentStatus == models.PaymentStatusPaid {
		return result, nil
	}

	if _, err := s.apps.MarkPaid(ctx, app.ScholarshipID, app.UserEmail, upd); err != nil {
		return nil, err
	}

	app.PaymentStatus = models.PaymentStatusPaid
	app.TransactionID = upd.TransactionID
	app.PaymentSessionID = upd.PaymentSessionID

	metrics.PaymentReconciled("checkout")
	s.notifier.Notify(ctx, EventApplicationPaid, app)
	return result, nil
}

func (s *applicationServiceImpl) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	next := models.ApplicationStatus(status)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidApplicationStatus, status)
	}

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var expected models.ApplicationStatus
	if s.opts.StrictTransitions {
		if !CanTransition(app.ApplicationStatus, next) {
			return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidStatusTransition, app.ApplicationStatus, next)
		}
		expected = app.ApplicationStatus
	}

	result, err := s.apps.UpdateStatus(ctx, id, next, expected)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		if s.opts.StrictTransitions {
			return nil, fmt.Errorf("%w: status changed concurrently", apperrors.ErrInvalidStatusTransition)
		}
		return nil, apperrors.ErrApplicationNotFound
	}

	app.ApplicationStatus = next
	metrics.StatusTransition(string(next))
	s.logger.Info().Str("applicationID", id).Str("status", status).Msg("Application status updated")
	s.notifier.Notify(ctx, EventApplicationStatus, app)
	return app, nil
}

func (s *applicationServiceImpl) UpdateFeedback(ctx context.Context, id, feedback string) (*models.Application, error) {
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, apperrors.NewValidationError("feedback", "feedback cannot be empty")
	}

	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	result, err := s.apps.UpdateFeedback(ctx, id, feedback)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, apperrors.ErrApplicationNotFound
	}

	app.Feedback = feedback
	s.notifier.Notify(ctx, EventApplicationFeedback, app)
	return app, nil
}

func (s *applicationServiceImpl) RejectApplication(ctx context.Context, id string) (*models.Application, error) {
	return s.UpdateStatus(ctx, id, string(models.ApplicationStatusRejected))
}

func (s *applicationServiceImpl) UpdateApplicationDetails(ctx context.Context, id, requesterEmail string, details models.ApplicantDetails) (*models.Application, error) {
	if err := validateApplicant("", details); err != nil {
		return nil, err
	}

	app, err := s.ownedPending(ctx, id, requesterEmail)
	if err != nil {
		return nil, err
	}

	result, err := s.apps.UpdateDetails(ctx, id, app.UserEmail, details)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, apperrors.ErrApplicationNotPending
	}
	return s.apps.GetByID(ctx, id)
}

// DeleteApplication withdraws an application its owner has not seen processed yet
func (s *applicationServiceImpl) DeleteApplication(ctx context.Context, id, requesterEmail string) error {
	app, err := s.ownedPending(ctx, id, requesterEmail)
	if err != nil {
		return err
	}

	n, err := s.apps.DeletePending(ctx, id, app.UserEmail)
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrApplicationNotPending
	}

	s.logger.Info().Str("applicationID", id).Msg("Application withdrawn")
	s.notifier.Notify(ctx, EventApplicationDeleted, app)
	return nil
}

func (s *applicationServiceImpl) ownedPending(ctx context.Context, id, requesterEmail string) (*models.Application, error) {
	app, err := s.GetApplication(ctx, id, requesterEmail)
	if err != nil {
		return nil, err
	}
	if app.ApplicationStatus != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationNotPending
	}
	return app, nil
}

// GetApplication returns an application visible to requesterEmail.
// An empty requesterEmail skips the ownership check.
func (s *applicationServiceImpl) GetApplication(ctx context.Context, id, requesterEmail string) (*models.Application, error) {
	app, err := s.apps.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if requesterEmail != "" && validation.NormalizeEmail(requesterEmail) != app.UserEmail {
		return nil, apperrors.NewForbiddenError("application belongs to another user")
	}
	return app, nil
}

func (s *applicationServiceImpl) ListMyApplications(ctx context.Context, email string) ([]*models.Application, error) {
	return s.apps.ListByEmail(ctx, validation.NormalizeEmail(email))
}

func (s *applicationServiceImpl) ListApplications(ctx context.Context, status string, page, size int) ([]*models.Application, int64, error) {
	var filter models.ApplicationFilter
	if v, ok := helpers.FilterValue(status); ok {
		filter.Status = models.ApplicationStatus(v)
		if !filter.Status.IsValid() {
			return nil, 0, fmt.Errorf("%w: %q", apperrors.ErrInvalidApplicationStatus, status)
		}
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)
	return s.apps.List(ctx, filter, offset, limit)
}
