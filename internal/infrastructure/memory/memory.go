// Package memory holds in-memory repository implementations. They back unit
// tests and local development without Postgres, and intentionally favor
// clarity over performance. The mutex on each store stands in for the
// storage-level guarantees the SQL schema provides: the funding store's
// insert is atomic with its uniqueness check, and the donation store's
// conditional status update is atomic with its read.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
)

func newID() string { return uuid.NewString() }

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortAccountsNewestFirst(accounts []*entity.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
}

func sortDonationsNewestFirst(donations []*entity.DonationRequest) {
	sort.Slice(donations, func(i, j int) bool {
		return donations[i].CreatedAt.After(donations[j].CreatedAt)
	})
}

// guard is embedded by each store for a uniform locking surface.
type guard struct {
	mu sync.RWMutex
}
