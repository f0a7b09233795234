package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

const uniqueViolation = "23505"

// translate maps pgx errors into the shared taxonomy: missing rows become
// NotFound, unique-index rejections become AlreadyExists, and anything else
// is a retryable storage failure.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.New(apperr.NotFound, "%s not found", what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperr.Wrap(err, apperr.AlreadyExists, "%s already exists", what)
	}
	return apperr.Wrap(err, apperr.Unavailable, "storage failure on %s", what)
}
