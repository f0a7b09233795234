package entity

import "time"

// FundingRecord is a confirmed platform contribution. PaymentIntentID is the
// payment processor's transaction identifier and doubles as the idempotency
// key: at most one record exists per intent, enforced by a unique index.
// Records are append-only.
type FundingRecord struct {
	ID                string
	DonorName         string
	DonorEmail        string
	PhotoURL          string
	Amount            float64
	Currency          string
	PaymentIntentID   string
	CheckoutSessionID string
	PaymentStatus     string
	PaidAt            time.Time
	CreatedAt         time.Time
}
