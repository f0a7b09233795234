package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	repo "github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/internal/payment"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

// FundingService proxies checkout to the payment processor and applies
// confirmations to the append-only funding ledger at most once.
type FundingService struct {
	Funding      repo.FundingRepository
	Accounts     repo.AccountRepository
	Gateway      payment.Gateway
	ClientDomain string
	Logger       *logrus.Logger
}

func NewFundingService(funding repo.FundingRepository, accounts repo.AccountRepository, gateway payment.Gateway, clientDomain string, logger *logrus.Logger) *FundingService {
	return &FundingService{
		Funding:      funding,
		Accounts:     accounts,
		Gateway:      gateway,
		ClientDomain: clientDomain,
		Logger:       logger,
	}
}

// CreateCheckoutSession opens a hosted payment page for the caller's
// contribution and returns its URL.
func (s *FundingService) CreateCheckoutSession(ctx context.Context, callerEmail string, amount float64) (*payment.Session, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, apperr.New(apperr.Invalid, "amount must be positive")
	}
	sess, err := s.Gateway.CreateSession(ctx, payment.CheckoutInput{
		AmountMinorUnits: int64(amount * 100),
		Currency:         "usd",
		Purpose:          "BloodLink platform contribution",
		CustomerEmail:    caller.Email,
		CustomerName:     caller.Name,
		CustomerPhoto:    caller.PhotoURL,
		SuccessURL:       s.ClientDomain + "/funding/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:        s.ClientDomain + "/funding",
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// ConfirmResult reports the outcome of applying one payment confirmation.
// Applied is false when the payment was not completed or the record already
// existed; both are successes, not errors.
type ConfirmResult struct {
	Applied bool
	Record  *entity.FundingRecord
}

// Confirm retrieves the checkout session and records the contribution.
// Confirm may be called any number of times with the same session: the
// storage-level unique index on the payment intent id guarantees at most one
// record regardless of interleaving. The lookup before insert is only an
// optimization.
func (s *FundingService) Confirm(ctx context.Context, callerEmail, sessionID string) (*ConfirmResult, error) {
	if _, err := loadCaller(ctx, s.Accounts, callerEmail); err != nil {
		return nil, err
	}
	if sessionID == "" {
		return nil, apperr.New(apperr.Invalid, "missing session id")
	}
	sess, err := s.Gateway.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Complete() {
		return &ConfirmResult{Applied: false}, nil
	}
	if sess.PaymentIntentID == "" {
		return nil, apperr.New(apperr.Invalid, "session carries no payment intent")
	}

	if existing, gErr := s.Funding.GetByPaymentIntent(ctx, sess.PaymentIntentID); gErr == nil {
		return &ConfirmResult{Applied: false, Record: existing}, nil
	}

	rec := &entity.FundingRecord{
		DonorName:         sess.CustomerName,
		DonorEmail:        sess.CustomerEmail,
		PhotoURL:          sess.Metadata["donor_photo"],
		Amount:            sess.Amount(),
		Currency:          sess.Currency,
		PaymentIntentID:   sess.PaymentIntentID,
		CheckoutSessionID: sess.ID,
		PaymentStatus:     sess.PaymentStatus,
		PaidAt:            time.Now().UTC(),
	}
	if name := sess.Metadata["donor_name"]; name != "" {
		rec.DonorName = name
	}
	if err := s.Funding.Insert(ctx, rec); err != nil {
		if apperr.IsKind(err, apperr.AlreadyExists) {
			// Lost the insert race; the winner's record is authoritative.
			existing, gErr := s.Funding.GetByPaymentIntent(ctx, sess.PaymentIntentID)
			if gErr != nil {
				return nil, gErr
			}
			return &ConfirmResult{Applied: false, Record: existing}, nil
		}
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"payment_intent": rec.PaymentIntentID,
			"amount":         rec.Amount,
		}).Info("funding recorded")
	}
	return &ConfirmResult{Applied: true, Record: rec}, nil
}

// List returns recent funding records, optionally narrowed to one checkout
// session.
func (s *FundingService) List(ctx context.Context, callerEmail string, limit int, checkoutSessionID string) ([]*entity.FundingRecord, error) {
	if _, err := loadCaller(ctx, s.Accounts, callerEmail); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.Funding.List(ctx, limit, checkoutSessionID)
}
