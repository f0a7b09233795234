package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/internal/domain/repository"
)

type FundingRepository struct {
	pool *pgxpool.Pool
}

func NewFundingRepository(pool *pgxpool.Pool) *FundingRepository {
	return &FundingRepository{pool: pool}
}

const fundingColumns = `id, donor_name, donor_email, photo_url, amount, currency,
	payment_intent_id, checkout_session_id, payment_status, paid_at, created_at`

// Insert writes one ledger entry. The unique index on payment_intent_id is
// the idempotency guarantee: a duplicate insert surfaces as AlreadyExists,
// which the funding service treats as "already applied", not a failure.
func (r *FundingRepository) Insert(ctx context.Context, rec *entity.FundingRecord) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO funding_records
			(donor_name, donor_email, photo_url, amount, currency,
			 payment_intent_id, checkout_session_id, payment_status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, rec.DonorName, rec.DonorEmail, rec.PhotoURL, rec.Amount, rec.Currency,
		rec.PaymentIntentID, rec.CheckoutSessionID, rec.PaymentStatus, rec.PaidAt)
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return translate(err, "funding record")
	}
	return nil
}

func (r *FundingRepository) GetByPaymentIntent(ctx context.Context, intentID string) (*entity.FundingRecord, error) {
	rec := &entity.FundingRecord{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+fundingColumns+` FROM funding_records WHERE payment_intent_id = $1
	`, intentID)
	if err := row.Scan(&rec.ID, &rec.DonorName, &rec.DonorEmail, &rec.PhotoURL, &rec.Amount,
		&rec.Currency, &rec.PaymentIntentID, &rec.CheckoutSessionID, &rec.PaymentStatus,
		&rec.PaidAt, &rec.CreatedAt); err != nil {
		return nil, translate(err, "funding record")
	}
	return rec, nil
}

func (r *FundingRepository) List(ctx context.Context, limit int, checkoutSessionID string) ([]*entity.FundingRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `SELECT ` + fundingColumns + ` FROM funding_records`
	args := []any{}
	if checkoutSessionID != "" {
		args = append(args, checkoutSessionID)
		query += ` WHERE checkout_session_id = $1`
	}
	args = append(args, limit)
	query += ` ORDER BY paid_at DESC LIMIT $` + itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "funding records")
	}
	defer rows.Close()

	out := []*entity.FundingRecord{}
	for rows.Next() {
		rec := &entity.FundingRecord{}
		if err := rows.Scan(&rec.ID, &rec.DonorName, &rec.DonorEmail, &rec.PhotoURL, &rec.Amount,
			&rec.Currency, &rec.PaymentIntentID, &rec.CheckoutSessionID, &rec.PaymentStatus,
			&rec.PaidAt, &rec.CreatedAt); err != nil {
			return nil, translate(err, "funding record")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "funding records")
	}
	return out, nil
}

var _ repository.FundingRepository = (*FundingRepository)(nil)
