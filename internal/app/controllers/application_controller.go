package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/middleware"
	"github.com/yigit/scholarhub/internal/pkg/apperrors"
	"github.com/yigit/scholarhub/internal/pkg/helpers"
)

// ApplicationController handles the application lifecycle endpoints
type ApplicationController struct {
	applicationService services.ApplicationService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService services.ApplicationService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
	}
}

// SaveApplication creates the caller's application, or returns the existing one
// @Summary Save application
// @Description Idempotent per scholarship and applicant. A client supplied "paid" status is stored as "unpaid".
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveApplicationRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=dto.SaveApplicationResponse} "Application created"
// @Success 200 {object} dto.APIResponse{data=dto.SaveApplicationResponse} "Application already exists"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Router /save-application [post]
func (c *ApplicationController) SaveApplication(ctx *gin.Context) {
	var req dto.SaveApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}

	app, created, err := c.applicationService.CreateApplication(ctx.Request.Context(), services.CreateApplicationInput{
		ScholarshipID: req.ScholarshipID,
		Applicant:     applicant,
		PaymentStatus: req.PaymentStatus,
		Details:       req.Details(),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	message := "Application already exists"
	if created {
		status = http.StatusCreated
		message = "Application saved successfully"
	}
	ctx.JSON(status, dto.NewMessageResponse(message, dto.SaveApplicationResponse{Application: app, Created: created}))
}

// UpdateFreeApplication marks the caller's zero-fee application as paid
// @Summary Complete free application
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.FreeApplicationRequest true "Scholarship"
// @Success 200 {object} dto.APIResponse{data=models.UpdateResult} "Application marked paid"
// @Failure 400 {object} dto.ErrorResponse "Scholarship requires a fee"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /update-free-application [post]
func (c *ApplicationController) UpdateFreeApplication(ctx *gin.Context) {
	var req dto.FreeApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}

	result, err := c.applicationService.MarkFreeApplicationPaid(ctx.Request.Context(), req.ScholarshipID, applicant.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// ListMyApplications returns the caller's applications
// @Summary My applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Application} "Applications retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Email does not match the token"
// @Router /my-applications [get]
// @Router /my-applications/{email} [get]
func (c *ApplicationController) ListMyApplications(ctx *gin.Context) {
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}
	// the path email is accepted but never trusted over the token
	if email := ctx.Param("email"); email != "" && !strings.EqualFold(email, applicant.Email) {
		middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("cannot list another user's applications"))
		return
	}

	apps, err := c.applicationService.ListMyApplications(ctx.Request.Context(), applicant.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(apps))
}

// GetApplication returns one of the caller's applications
// @Summary Application details
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application retrieved successfully"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /application-details/{id} [get]
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}

	app, err := c.applicationService.GetApplication(ctx.Request.Context(), id, applicant.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(app))
}

// UpdateApplication edits contact details of a pending application
// @Summary Update application details
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateApplicationRequest true "Contact details"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application updated"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application is no longer pending"
// @Router /applications/{id} [put]
func (c *ApplicationController) UpdateApplication(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}

	app, err := c.applicationService.UpdateApplicationDetails(ctx.Request.Context(), id, applicant.Email, req.Details())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Application updated successfully", app))
}

// DeleteApplication withdraws a pending application
// @Summary Delete application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.APIResponse "Application deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the owner"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Application is no longer pending"
// @Router /applications/{id} [delete]
func (c *ApplicationController) DeleteApplication(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}

	if err := c.applicationService.DeleteApplication(ctx.Request.Context(), id, applicant.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Application deleted successfully", nil))
}

// ListApplications is the moderator queue
// @Summary List applications (moderator)
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, processing, completed, rejected or all"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.Application}} "Applications"
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /moderator/applications [get]
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	apps, total, err := c.applicationService.ListApplications(ctx.Request.Context(), ctx.Query("status"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      apps,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// UpdateStatus changes the review status of an application
// @Summary Update application status (moderator)
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /moderator/applications/{id}/status [put]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.applicationService.UpdateStatus(ctx.Request.Context(), id, req.ApplicationStatus)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Application status updated", app))
}

// UpdateFeedback records moderator feedback
// @Summary Update application feedback (moderator)
// @Tags moderation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param request body dto.UpdateFeedbackRequest true "Feedback"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Feedback saved"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /moderator/applications/{id}/feedback [put]
func (c *ApplicationController) UpdateFeedback(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateFeedbackRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.applicationService.UpdateFeedback(ctx.Request.Context(), id, req.Feedback)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Feedback saved", app))
}

// RejectApplication sets an application to rejected
// @Summary Reject application (moderator)
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application rejected"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed"
// @Router /moderator/applications/{id}/reject [put]
func (c *ApplicationController) RejectApplication(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}

	app, err := c.applicationService.RejectApplication(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Application rejected", app))
}
