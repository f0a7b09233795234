package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bloodlink/bloodlink-backend/internal/domain/repository"
)

// DashboardStore derives the stats projection from the other in-memory
// stores, mirroring what the SQL aggregates compute.
type DashboardStore struct {
	Accounts  *AccountStore
	Donations *DonationStore
	Funding   *FundingStore
}

func NewDashboardStore(a *AccountStore, d *DonationStore, f *FundingStore) *DashboardStore {
	return &DashboardStore{Accounts: a, Donations: d, Funding: f}
}

func (s *DashboardStore) Stats(ctx context.Context, since time.Time) (*repository.DashboardStats, error) {
	stats := &repository.DashboardStats{}

	donors, err := s.Accounts.SearchDonors(ctx, repository.DonorFilter{})
	if err != nil {
		return nil, err
	}
	stats.TotalDonors = len(donors)

	donations, total, err := s.Donations.List(ctx, repository.DonationFilter{}, repository.Page{})
	if err != nil {
		return nil, err
	}
	stats.TotalDonationRequests = total

	byGroup := map[string]int{}
	for _, d := range donations {
		byGroup[d.BloodGroup]++
	}
	for bg, n := range byGroup {
		stats.BloodGroupDistribution = append(stats.BloodGroupDistribution,
			repository.BloodGroupCount{BloodGroup: bg, Count: n})
	}
	sort.Slice(stats.BloodGroupDistribution, func(i, j int) bool {
		return stats.BloodGroupDistribution[i].Count > stats.BloodGroupDistribution[j].Count
	})

	records, err := s.Funding.List(ctx, s.Funding.Len()+1, "")
	if err != nil {
		return nil, err
	}
	byDay := map[time.Time]float64{}
	for _, rec := range records {
		stats.TotalFunding += rec.Amount
		if rec.PaidAt.Before(since) {
			continue
		}
		day := rec.PaidAt.UTC().Truncate(24 * time.Hour)
		byDay[day] += rec.Amount
	}
	for day, sum := range byDay {
		stats.DailyFunding = append(stats.DailyFunding,
			repository.DailyFunding{Day: day, Funding: sum})
	}
	sort.Slice(stats.DailyFunding, func(i, j int) bool {
		return stats.DailyFunding[i].Day.Before(stats.DailyFunding[j].Day)
	})

	return stats, nil
}

var _ repository.DashboardRepository = (*DashboardStore)(nil)
