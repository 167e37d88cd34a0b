package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/logger"
)

type errorMapping struct {
	targets []error
	status  int
	code    dto.ErrorCode
	message string
}

// Checked in order; the first match wins.
var errorMappings = []errorMapping{
	{[]error{apperrors.ErrZeroFeeNotPayable}, http.StatusBadRequest, dto.ErrorCodePaymentNotRequired, "Scholarship has no application fee"},
	{[]error{apperrors.ErrFeeRequired}, http.StatusBadRequest, dto.ErrorCodePaymentRequired, "Scholarship requires an application fee"},
	{[]error{apperrors.ErrPaymentIncomplete}, http.StatusPaymentRequired, dto.ErrorCodePaymentIncomplete, "Payment has not been completed"},
	{[]error{apperrors.ErrPaymentSessionCreationFailed}, http.StatusBadGateway, dto.ErrorCodePaymentSession, "Could not create payment session"},
	{[]error{apperrors.ErrPaymentMetadataMissing}, http.StatusBadGateway, dto.ErrorCodeExternalServiceError, "Payment session is missing metadata"},
	{[]error{apperrors.ErrValidationFailed, apperrors.ErrInvalidEmail, apperrors.ErrBadRequest, apperrors.ErrInvalidRole,
		apperrors.ErrInvalidApplicationStatus, apperrors.ErrInvalidPaymentStatus}, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{[]error{apperrors.ErrUnauthenticated}, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required"},
	{[]error{apperrors.ErrTokenExpired}, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{[]error{apperrors.ErrTokenInvalid}, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{[]error{apperrors.ErrPermissionDenied}, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{[]error{apperrors.ErrResourceNotFound, apperrors.ErrUserNotFound, apperrors.ErrScholarshipNotFound,
		apperrors.ErrReviewNotFound, apperrors.ErrApplicationNotFound, apperrors.ErrPaymentSessionNotFound}, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{[]error{apperrors.ErrResourceAlreadyExists, apperrors.ErrApplicationAlreadyExists}, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{[]error{apperrors.ErrConflict, apperrors.ErrScholarshipHasApplications, apperrors.ErrApplicationNotPending,
		apperrors.ErrInvalidStatusTransition}, http.StatusConflict, dto.ErrorCodeConflict, "Request conflicts with current state"},
	{[]error{apperrors.ErrRateLimited}, http.StatusTooManyRequests, dto.ErrorCodeRateLimited, "Too many requests"},
}

// StatusFor returns the HTTP status and error code for err
func StatusFor(err error) (int, dto.ErrorCode, string) {
	for _, m := range errorMappings {
		if apperrors.Is(err, m.targets[0], m.targets[1:]...) {
			return m.status, m.code, m.message
		}
	}
	return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
}

// HandleAPIError translates a service error into the JSON error envelope
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := StatusFor(err)

	errorDetail := dto.NewErrorDetail(code, message)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
	} else {
		errorDetail = errorDetail.WithDetails(err.Error())
	}

	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if field, ok := custom.Details["field"].(string); ok {
			errorDetail = errorDetail.WithField(field)
		}
	}

	c.JSON(status, dto.NewErrorResponse(errorDetail))
}
