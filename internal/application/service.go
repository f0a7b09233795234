// Package application holds the lifecycle orchestrators. Each service loads
// state, asks the authorization engine for a decision, and only then mutates
// through its repositories. Optional collaborators (queue, search index,
// object storage) are nil-safe: a missing one degrades the feature, never the
// request.
package application

import (
	"context"
	"time"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	repo "github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
)

// JobQueue publishes notification jobs. Implemented by
// helpers.RabbitPublisher and by test stubs.
type JobQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// loadCaller resolves a verified email to its account. An email with no
// account is an authentication failure, not a lookup miss: the credential
// identifies nobody.
func loadCaller(ctx context.Context, accounts repo.AccountRepository, email string) (*entity.Account, error) {
	if email == "" {
		return nil, apperr.New(apperr.Unauthenticated, "missing caller identity")
	}
	a, err := accounts.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return nil, apperr.New(apperr.Unauthenticated, "no account for caller identity")
		}
		return nil, err
	}
	return a, nil
}
