package postgres

import (
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
)

func itoa(n int) string { return strconv.Itoa(n) }

func errNoRows() error { return pgx.ErrNoRows }

func scanAccounts(rows pgx.Rows) ([]*entity.Account, error) {
	out := []*entity.Account{}
	for rows.Next() {
		a := &entity.Account{}
		if err := rows.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Phone, &a.BloodGroup,
			&a.District, &a.Upazila, &a.PhotoURL, &a.Role, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, translate(err, "account")
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "accounts")
	}
	return out, nil
}

func scanDonations(rows pgx.Rows) ([]*entity.DonationRequest, error) {
	out := []*entity.DonationRequest{}
	for rows.Next() {
		d := &entity.DonationRequest{}
		if err := rows.Scan(&d.ID, &d.RequesterEmail, &d.RequesterName, &d.RecipientName,
			&d.District, &d.Upazila, &d.HospitalName, &d.FullAddress, &d.BloodGroup,
			&d.DonationDate, &d.DonationTime, &d.RequestMessage, &d.Status,
			&d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, translate(err, "donation request")
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "donation requests")
	}
	return out, nil
}
