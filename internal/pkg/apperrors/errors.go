package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrInvalidRole  = errors.New("invalid role")
)

// Scholarship errors
var (
	ErrScholarshipNotFound        = errors.New("scholarship not found")
	ErrScholarshipHasApplications = errors.New("scholarship has applications and cannot be deleted")
)

// Review errors
var (
	ErrReviewNotFound = errors.New("review not found")
)

// Application errors
var (
	ErrApplicationNotFound      = errors.New("application not found")
	ErrApplicationAlreadyExists = errors.New("application already exists for this scholarship and user")
	ErrApplicationNotPending    = errors.New("application is no longer pending")
	ErrInvalidApplicationStatus = errors.New("invalid application status")
	ErrInvalidStatusTransition  = errors.New("invalid application status transition")
	ErrInvalidPaymentStatus     = errors.New("invalid payment status")
)

// Payment errors
var (
	ErrZeroFeeNotPayable            = errors.New("scholarship has no application fee and cannot be paid through checkout")
	ErrFeeRequired                  = errors.New("scholarship requires an application fee payment")
	ErrPaymentIncomplete            = errors.New("payment has not been completed")
	ErrPaymentSessionNotFound       = errors.New("payment session not found")
	ErrPaymentSessionCreationFailed = errors.New("payment session creation failed")
	ErrPaymentMetadataMissing       = errors.New("payment session metadata is incomplete")
)

// Rate limiting
var (
	ErrRateLimited = errors.New("too many requests")
)

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError wraps ErrValidationFailed with a field-level message
func NewValidationError(field, message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// Is returns whether err matches target or any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
