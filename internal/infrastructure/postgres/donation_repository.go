package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/internal/domain/repository"
)

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

const donationColumns = `id, requester_email, requester_name, recipient_name, district, upazila,
	hospital_name, full_address, blood_group, donation_date, donation_time, request_message,
	status, created_at, updated_at`

func (r *DonationRepository) Insert(ctx context.Context, d *entity.DonationRequest) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO donation_requests
			(requester_email, requester_name, recipient_name, district, upazila,
			 hospital_name, full_address, blood_group, donation_date, donation_time,
			 request_message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at
	`, d.RequesterEmail, d.RequesterName, d.RecipientName, d.District, d.Upazila,
		d.HospitalName, d.FullAddress, d.BloodGroup, d.DonationDate, d.DonationTime,
		d.RequestMessage, d.Status)
	if err := row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return translate(err, "donation request")
	}
	return nil
}

func (r *DonationRepository) GetByID(ctx context.Context, id string) (*entity.DonationRequest, error) {
	d := &entity.DonationRequest{}
	row := r.pool.QueryRow(ctx, `SELECT `+donationColumns+` FROM donation_requests WHERE id = $1`, id)
	if err := row.Scan(&d.ID, &d.RequesterEmail, &d.RequesterName, &d.RecipientName,
		&d.District, &d.Upazila, &d.HospitalName, &d.FullAddress, &d.BloodGroup,
		&d.DonationDate, &d.DonationTime, &d.RequestMessage, &d.Status,
		&d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, translate(err, "donation request")
	}
	return d, nil
}

// Update writes content fields only. Status is deliberately absent: the sole
// path that can move it is UpdateStatus.
func (r *DonationRepository) Update(ctx context.Context, d *entity.DonationRequest) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE donation_requests
		SET recipient_name = $1, district = $2, upazila = $3, hospital_name = $4,
		    full_address = $5, blood_group = $6, donation_date = $7, donation_time = $8,
		    request_message = $9, updated_at = now()
		WHERE id = $10
	`, d.RecipientName, d.District, d.Upazila, d.HospitalName, d.FullAddress,
		d.BloodGroup, d.DonationDate, d.DonationTime, d.RequestMessage, d.ID)
	if err != nil {
		return translate(err, "donation request")
	}
	if res.RowsAffected() == 0 {
		return translate(errNoRows(), "donation request")
	}
	return nil
}

// UpdateStatus is the compare-and-set transition write. The WHERE clause is
// keyed on the expected prior status so two concurrent transitions cannot
// both succeed; the loser sees zero rows affected.
func (r *DonationRepository) UpdateStatus(ctx context.Context, id string, from, to entity.DonationStatus, at time.Time) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		UPDATE donation_requests
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, to, at, id, from)
	if err != nil {
		return false, translate(err, "donation request")
	}
	return res.RowsAffected() > 0, nil
}

func (r *DonationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM donation_requests WHERE id = $1`, id)
	if err != nil {
		return translate(err, "donation request")
	}
	if res.RowsAffected() == 0 {
		return translate(errNoRows(), "donation request")
	}
	return nil
}

func (r *DonationRepository) List(ctx context.Context, f repository.DonationFilter, p repository.Page) ([]*entity.DonationRequest, int, error) {
	where := `WHERE 1=1`
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		where += ` AND status = $` + itoa(len(args))
	}
	if f.RequesterEmail != "" {
		args = append(args, f.RequesterEmail)
		where += ` AND requester_email = $` + itoa(len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := itoa(len(args))
		where += ` AND (recipient_name ILIKE $` + n + ` OR requester_name ILIKE $` + n +
			` OR hospital_name ILIKE $` + n + ` OR blood_group ILIKE $` + n + `)`
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM donation_requests `+where, args...).Scan(&total); err != nil {
		return nil, 0, translate(err, "donation requests")
	}

	args = append(args, p.Limit, p.Offset())
	n := len(args)
	rows, err := r.pool.Query(ctx, `
		SELECT `+donationColumns+` FROM donation_requests `+where+`
		ORDER BY created_at DESC
		LIMIT $`+itoa(n-1)+` OFFSET $`+itoa(n), args...)
	if err != nil {
		return nil, 0, translate(err, "donation requests")
	}
	defer rows.Close()

	out, err := scanDonations(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *DonationRepository) CountByRequester(ctx context.Context, email string) (map[entity.DonationStatus]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, count(*) FROM donation_requests
		WHERE requester_email = $1
		GROUP BY status
	`, email)
	if err != nil {
		return nil, translate(err, "donation requests")
	}
	defer rows.Close()

	out := map[entity.DonationStatus]int{}
	for rows.Next() {
		var status entity.DonationStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, translate(err, "donation requests")
		}
		out[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "donation requests")
	}
	return out, nil
}

var _ repository.DonationRepository = (*DonationRepository)(nil)
