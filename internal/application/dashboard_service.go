package application

import (
	"context"
	"time"

	"github.com/bloodlink/bloodlink-backend/internal/authz"
	repo "github.com/bloodlink/bloodlink-backend/internal/domain/repository"
)

// DashboardService computes the staff overview: totals, blood-group
// distribution, and daily funding for the trailing window.
type DashboardService struct {
	Dashboard repo.DashboardRepository
	Accounts  repo.AccountRepository
}

func NewDashboardService(dashboard repo.DashboardRepository, accounts repo.AccountRepository) *DashboardService {
	return &DashboardService{Dashboard: dashboard, Accounts: accounts}
}

// Stats returns the aggregate snapshot. Volunteer or admin.
func (s *DashboardService) Stats(ctx context.Context, callerEmail string) (*repo.DashboardStats, error) {
	caller, err := loadCaller(ctx, s.Accounts, callerEmail)
	if err != nil {
		return nil, err
	}
	if err := authz.Decide(caller, authz.VolunteerOrAdmin, ""); err != nil {
		return nil, err
	}
	since := time.Now().UTC().AddDate(0, 0, -30)
	return s.Dashboard.Stats(ctx, since)
}
