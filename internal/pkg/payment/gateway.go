package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Gateway errors
var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
)

// Session payment statuses reported by the processor
const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"
)

// Metadata keys attached to every checkout session
const (
	MetaScholarshipID = "scholarshipId"
	MetaUserEmail     = "userEmail"
	MetaUserName      = "userName"
	MetaUserID        = "userId"
)

// CheckoutRequest describes a hosted checkout for one application fee
type CheckoutRequest struct {
	ProductName   string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the redirect target of a created session
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionRecord is the processor's view of a checkout session
type SessionRecord struct {
	ID              string
	PaymentStatus   string
	AmountTotal     int64
	Currency        string
	PaymentIntentID string
	Metadata        map[string]string
}

// IsPaid reports whether the processor considers the session settled
func (s *SessionRecord) IsPaid() bool {
	return s.PaymentStatus == StatusPaid
}

// Gateway is a hosted-checkout payment processor
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	RetrieveSession(ctx context.Context, sessionID string) (*SessionRecord, error)
}

// ToMinorUnits converts a decimal amount to the smallest currency unit,
// rounding half away from zero (50 => 5000, 19.999 => 2000).
func ToMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	minor := int64(math.Round(amount * 100))
	if minor <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAmount, amount)
	}
	return minor, nil
}
