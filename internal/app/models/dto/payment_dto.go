package dto

// CheckoutSessionRequest starts a hosted checkout for a scholarship's application fee
type CheckoutSessionRequest struct {
	ScholarshipID string `json:"scholarshipId" binding:"required"`
	UserName      string `json:"userName"`
}

// CheckoutSessionResponse carries the redirect target
type CheckoutSessionResponse struct {
	URL       string `json:"url" example:"https://checkout.stripe.com/c/pay/cs_test_123"`
	SessionID string `json:"sessionId" example:"cs_test_123"`
}

// CheckoutEnvelope repeats the redirect URL at the top level for clients
// that read `url` outside of `data`.
type CheckoutEnvelope struct {
	APIResponse
	URL string `json:"url" example:"https://checkout.stripe.com/c/pay/cs_test_123"`
}

// NewCheckoutEnvelope wraps a checkout session response
func NewCheckoutEnvelope(session CheckoutSessionResponse) CheckoutEnvelope {
	return CheckoutEnvelope{APIResponse: NewSuccessResponse(session), URL: session.URL}
}

// PaymentSuccessRequest reconciles a completed checkout session
type PaymentSuccessRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// PaymentSuccessResponse identifies the reconciled application
type PaymentSuccessResponse struct {
	ApplicationID string `json:"applicationId"`
	ScholarshipID string `json:"scholarshipId"`
}
