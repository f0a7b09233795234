package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bloodlink/bloodlink-backend/internal/domain/repository"
)

type DashboardRepository struct {
	pool *pgxpool.Pool
}

func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// Stats aggregates the admin dashboard snapshot in a handful of read-only
// queries. No invariants here beyond reflecting current stored state.
func (r *DashboardRepository) Stats(ctx context.Context, since time.Time) (*repository.DashboardStats, error) {
	stats := &repository.DashboardStats{}

	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM accounts WHERE role = 'donor'`).Scan(&stats.TotalDonors); err != nil {
		return nil, translate(err, "dashboard stats")
	}
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM donation_requests`).Scan(&stats.TotalDonationRequests); err != nil {
		return nil, translate(err, "dashboard stats")
	}
	if err := r.pool.QueryRow(ctx,
		`SELECT coalesce(sum(amount), 0) FROM funding_records`).Scan(&stats.TotalFunding); err != nil {
		return nil, translate(err, "dashboard stats")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT blood_group, count(*) FROM donation_requests
		GROUP BY blood_group ORDER BY count(*) DESC
	`)
	if err != nil {
		return nil, translate(err, "dashboard stats")
	}
	defer rows.Close()
	for rows.Next() {
		var bg repository.BloodGroupCount
		if err := rows.Scan(&bg.BloodGroup, &bg.Count); err != nil {
			return nil, translate(err, "dashboard stats")
		}
		stats.BloodGroupDistribution = append(stats.BloodGroupDistribution, bg)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "dashboard stats")
	}

	daily, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', paid_at) AS day, sum(amount)
		FROM funding_records
		WHERE paid_at >= $1
		GROUP BY day ORDER BY day
	`, since)
	if err != nil {
		return nil, translate(err, "dashboard stats")
	}
	defer daily.Close()
	for daily.Next() {
		var df repository.DailyFunding
		if err := daily.Scan(&df.Day, &df.Funding); err != nil {
			return nil, translate(err, "dashboard stats")
		}
		stats.DailyFunding = append(stats.DailyFunding, df)
	}
	if err := daily.Err(); err != nil {
		return nil, translate(err, "dashboard stats")
	}

	return stats, nil
}

var _ repository.DashboardRepository = (*DashboardRepository)(nil)
