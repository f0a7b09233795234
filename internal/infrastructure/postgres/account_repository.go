package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/internal/domain/repository"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, email, password_hash, name, phone, blood_group, district, upazila, photo_url, role, status, created_at, updated_at`

func (r *AccountRepository) Insert(ctx context.Context, a *entity.Account) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO accounts (email, password_hash, name, phone, blood_group, district, upazila, photo_url, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`, a.Email, a.PasswordHash, a.Name, a.Phone, a.BloodGroup, a.District, a.Upazila, a.PhotoURL, a.Role, a.Status)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return translate(err, "account")
	}
	return nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg any) (*entity.Account, error) {
	a := &entity.Account{}
	row := r.pool.QueryRow(ctx, query, arg)
	if err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Name, &a.Phone, &a.BloodGroup,
		&a.District, &a.Upazila, &a.PhotoURL, &a.Role, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, translate(err, "account")
	}
	return a, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *entity.Account) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE accounts
		SET name = $1, phone = $2, blood_group = $3, district = $4, upazila = $5,
		    photo_url = $6, role = $7, status = $8, updated_at = now()
		WHERE id = $9
	`, a.Name, a.Phone, a.BloodGroup, a.District, a.Upazila, a.PhotoURL, a.Role, a.Status, a.ID)
	if err != nil {
		return translate(err, "account")
	}
	if res.RowsAffected() == 0 {
		return translate(errNoRows(), "account")
	}
	return nil
}

func (r *AccountRepository) List(ctx context.Context, f repository.AccountFilter, p repository.Page) ([]*entity.Account, int, error) {
	where := ``
	args := []any{}
	if f.Search != "" {
		where = `WHERE name ILIKE $1 OR email ILIKE $1 OR phone ILIKE $1`
		args = append(args, "%"+f.Search+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM accounts `+where, args...).Scan(&total); err != nil {
		return nil, 0, translate(err, "accounts")
	}

	args = append(args, p.Limit, p.Offset())
	n := len(args)
	rows, err := r.pool.Query(ctx, `
		SELECT `+accountColumns+` FROM accounts `+where+`
		ORDER BY created_at DESC
		LIMIT $`+itoa(n-1)+` OFFSET $`+itoa(n), args...)
	if err != nil {
		return nil, 0, translate(err, "accounts")
	}
	defer rows.Close()

	out, err := scanAccounts(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *AccountRepository) SearchDonors(ctx context.Context, f repository.DonorFilter) ([]*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE role = 'donor' AND status = 'active'`
	args := []any{}
	if f.BloodGroup != "" {
		args = append(args, f.BloodGroup)
		query += ` AND blood_group = $` + itoa(len(args))
	}
	if f.District != "" {
		args = append(args, f.District)
		query += ` AND district = $` + itoa(len(args))
	}
	if f.Upazila != "" {
		args = append(args, f.Upazila)
		query += ` AND upazila = $` + itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "donors")
	}
	defer rows.Close()
	return scanAccounts(rows)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)
