package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/middleware"
)

// PaymentController bridges the client to the hosted checkout
type PaymentController struct {
	paymentService     services.PaymentService
	applicationService services.ApplicationService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService services.PaymentService, applicationService services.ApplicationService) *PaymentController {
	return &PaymentController{
		paymentService:     paymentService,
		applicationService: applicationService,
	}
}

// CreateCheckoutSession starts a checkout for a scholarship's application fee
// @Summary Create checkout session
// @Description The fee is read from the stored scholarship. Free scholarships must use /update-free-application.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CheckoutSessionRequest true "Scholarship"
// @Success 200 {object} dto.CheckoutEnvelope{data=dto.CheckoutSessionResponse} "Checkout session created"
// @Failure 400 {object} dto.ErrorResponse "Scholarship is free"
// @Failure 404 {object} dto.ErrorResponse "Scholarship not found"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 502 {object} dto.ErrorResponse "Payment processor failure"
// @Router /create-checkout-session [post]
func (c *PaymentController) CreateCheckoutSession(ctx *gin.Context) {
	var req dto.CheckoutSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	applicant, ok := currentApplicant(ctx, req.UserName)
	if !ok {
		return
	}

	session, err := c.paymentService.CreateCheckoutSession(ctx.Request.Context(), req.ScholarshipID, applicant)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewCheckoutEnvelope(dto.CheckoutSessionResponse{
		URL:       session.URL,
		SessionID: session.ID,
	}))
}

// PaymentSuccess reconciles a completed checkout into a paid application
// @Summary Reconcile paid checkout session
// @Description Safe to repeat. Creates the application when none exists.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PaymentSuccessRequest true "Checkout session"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentSuccessResponse} "Payment reconciled"
// @Failure 402 {object} dto.ErrorResponse "Session not paid"
// @Failure 403 {object} dto.ErrorResponse "Session belongs to another user"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /payment-success [post]
func (c *PaymentController) PaymentSuccess(ctx *gin.Context) {
	var req dto.PaymentSuccessRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	applicant, ok := currentApplicant(ctx, "")
	if !ok {
		return
	}

	result, err := c.applicationService.ReconcilePaidSession(ctx.Request.Context(), req.SessionID, applicant.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Payment confirmed", dto.PaymentSuccessResponse{
		ApplicationID: result.ApplicationID,
		ScholarshipID: result.ScholarshipID,
	}))
}
