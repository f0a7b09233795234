package router

import (
	"github.com/bloodlink/bloodlink-backend/internal/application"
	"github.com/bloodlink/bloodlink-backend/internal/container"
	pginfra "github.com/bloodlink/bloodlink-backend/internal/infrastructure/postgres"
	handlers "github.com/bloodlink/bloodlink-backend/internal/interface/http"
	"github.com/bloodlink/bloodlink-backend/internal/router/modules"
)

// queue hands the rabbit publisher to services as the JobQueue interface,
// keeping the interface nil when the publisher was never built so the
// services' nil checks work.
func queue() application.JobQueue {
	if p := container.GetRabbitPub(); p != nil {
		return p
	}
	return nil
}

// InitModules builds every feature module from the container singletons and
// registers it. Called once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	pool := container.GetPGPool()
	logger := container.GetLogger()

	accounts := pginfra.NewAccountRepository(pool)
	donations := pginfra.NewDonationRepository(pool)
	funding := pginfra.NewFundingRepository(pool)
	dashboard := pginfra.NewDashboardRepository(pool)

	accountSvc := application.NewAccountService(
		accounts,
		container.GetJWT(),
		container.GetRedis(),
		container.GetGCS(),
		cfg.GCSBucket,
		queue(),
		logger,
	)
	donationSvc := application.NewDonationService(
		donations,
		accounts,
		container.GetES(),
		cfg.ESDonationsIndex,
		queue(),
		logger,
	)
	fundingSvc := application.NewFundingService(
		funding,
		accounts,
		container.GetGateway(),
		cfg.ClientDomain,
		logger,
	)
	dashboardSvc := application.NewDashboardService(dashboard, accounts)

	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(accountSvc, logger)))
	r.Add(modules.NewDonationModule(handlers.NewDonationHandler(donationSvc, logger)))
	r.Add(modules.NewFundingModule(handlers.NewFundingHandler(fundingSvc, logger)))
	r.Add(modules.NewLocationModule(handlers.NewLocationHandler()))
	r.Add(modules.NewDashboardModule(handlers.NewDashboardHandler(dashboardSvc, logger)))
}
