package repository

import (
	"context"
	"time"

	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
)

// Page is a 1-based pagination window shared by all listing operations.
type Page struct {
	Number int
	Limit  int
}

func (p Page) Offset() int {
	n := p.Number
	if n < 1 {
		n = 1
	}
	return (n - 1) * p.Limit
}

// AccountFilter narrows account listings. Search matches name, email, or
// phone case-insensitively.
type AccountFilter struct {
	Search string
}

// DonorFilter narrows the public donor search. Empty fields mean no filter;
// only active donors are ever returned.
type DonorFilter struct {
	BloodGroup string
	District   string
	Upazila    string
}

// AccountRepository is the keyed accounts collection. Insert fails with
// apperr.AlreadyExists when an account for the email already exists.
type AccountRepository interface {
	Insert(ctx context.Context, a *entity.Account) error
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	Update(ctx context.Context, a *entity.Account) error
	List(ctx context.Context, f AccountFilter, p Page) ([]*entity.Account, int, error)
	SearchDonors(ctx context.Context, f DonorFilter) ([]*entity.Account, error)
}

// DonationFilter narrows donation listings. Search matches recipient,
// requester, hospital, and blood group.
type DonationFilter struct {
	Status         entity.DonationStatus
	RequesterEmail string
	Search         string
}

// DonationRepository owns donation-request persistence. UpdateStatus is a
// conditional update keyed on the expected prior status: it returns false
// with a nil error when no row matched, which the orchestrator translates to
// Conflict or NotFound after a re-read.
type DonationRepository interface {
	Insert(ctx context.Context, d *entity.DonationRequest) error
	GetByID(ctx context.Context, id string) (*entity.DonationRequest, error)
	Update(ctx context.Context, d *entity.DonationRequest) error
	UpdateStatus(ctx context.Context, id string, from, to entity.DonationStatus, at time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f DonationFilter, p Page) ([]*entity.DonationRequest, int, error)
	CountByRequester(ctx context.Context, email string) (map[entity.DonationStatus]int, error)
}

// FundingRepository is the append-only payment ledger. Insert fails with
// apperr.AlreadyExists when a record with the same payment intent id exists;
// that uniqueness is enforced at the storage layer, not just checked here.
type FundingRepository interface {
	Insert(ctx context.Context, r *entity.FundingRecord) error
	GetByPaymentIntent(ctx context.Context, intentID string) (*entity.FundingRecord, error)
	List(ctx context.Context, limit int, checkoutSessionID string) ([]*entity.FundingRecord, error)
}

// DailyFunding is one day's confirmed contribution total.
type DailyFunding struct {
	Day     time.Time
	Funding float64
}

// BloodGroupCount is the number of donation requests for one blood group.
type BloodGroupCount struct {
	BloodGroup string
	Count      int
}

// DashboardStats is the admin dashboard aggregate snapshot.
type DashboardStats struct {
	TotalDonors            int
	TotalDonationRequests  int
	TotalFunding           float64
	BloodGroupDistribution []BloodGroupCount
	DailyFunding           []DailyFunding
}

// DashboardRepository computes read-only projections over stored state.
type DashboardRepository interface {
	Stats(ctx context.Context, since time.Time) (*DashboardStats, error)
}
