package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-backend/internal/container"
	handlers "github.com/bloodlink/bloodlink-backend/internal/interface/http"
	"github.com/bloodlink/bloodlink-backend/internal/interface/middleware"
)

// DonationModule wires the donation-request lifecycle.
//
// Public:    GET /api/donations/pending
// Protected: POST /api/donations, GET /api/donations/mine, GET /api/donations/summary,
//            GET/PATCH/DELETE /api/donations/:id, PATCH /api/donations/:id/status,
//            GET /api/all-donations (staff)
type DonationModule struct {
	Handler *handlers.DonationHandler
}

func NewDonationModule(h *handlers.DonationHandler) *DonationModule {
	return &DonationModule{Handler: h}
}

func (m *DonationModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	rg.GET("/donations/pending", m.Handler.ListPublic)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetResolver(), rdb))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByEmail(), middleware.AllowPrivateIP()))
	{
		auth.POST("/donations", m.Handler.Create)
		auth.GET("/donations/mine", m.Handler.ListMine)
		auth.GET("/donations/summary", m.Handler.Summary)
		auth.GET("/donations/:id", m.Handler.Get)
		auth.PATCH("/donations/:id", m.Handler.Update)
		auth.PATCH("/donations/:id/status", m.Handler.Transition)
		auth.DELETE("/donations/:id", m.Handler.Delete)
		auth.GET("/all-donations", m.Handler.ListAll)
	}
}
