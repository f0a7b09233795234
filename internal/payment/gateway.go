// Package payment is the boundary to the hosted checkout processor. The core
// consumes only two operations: create a checkout session and retrieve its
// current status. Session data coming back is treated as untrusted input;
// the confirm flow may be retried with the same session any number of times.
package payment

import (
	"context"
	"time"
)

// SessionStatusComplete is the processor's status value for a paid session.
const SessionStatusComplete = "complete"

// CheckoutInput describes the payment page to create.
type CheckoutInput struct {
	AmountMinorUnits int64
	Currency         string
	Purpose          string
	CustomerEmail    string
	CustomerName     string
	CustomerPhoto    string
	SuccessURL       string
	CancelURL        string
}

// Session is the processor's view of a checkout session.
type Session struct {
	ID               string
	URL              string
	Status           string
	PaymentStatus    string
	PaymentIntentID  string
	CustomerName     string
	CustomerEmail    string
	AmountMinorUnits int64
	Currency         string
	CreatedAt        time.Time
	Metadata         map[string]string
}

// Complete reports whether the session has been paid.
func (s *Session) Complete() bool { return s.Status == SessionStatusComplete }

// Amount converts the processor's minor units into the currency amount.
func (s *Session) Amount() float64 { return float64(s.AmountMinorUnits) / 100 }

// Gateway is implemented by the Stripe client and by test stubs.
type Gateway interface {
	CreateSession(ctx context.Context, in CheckoutInput) (*Session, error)
	GetSession(ctx context.Context, sessionID string) (*Session, error)
}
