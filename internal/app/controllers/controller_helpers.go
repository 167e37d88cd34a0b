package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/middleware"
)

// currentApplicant builds the applicant identity from the verified token.
// name overrides the token's display name when set.
func currentApplicant(ctx *gin.Context, name string) (services.Applicant, bool) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok || identity.Email == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return services.Applicant{}, false
	}

	if name == "" {
		name = identity.Name
	}
	return services.Applicant{
		UserID: middleware.CurrentUserID(ctx),
		Name:   name,
		Email:  identity.Email,
	}, true
}
