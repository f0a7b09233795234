package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-backend/internal/container"
	handlers "github.com/bloodlink/bloodlink-backend/internal/interface/http"
	"github.com/bloodlink/bloodlink-backend/internal/interface/middleware"
)

// FundingModule wires platform contributions: checkout session creation,
// payment confirmation, and the funding ledger listing. All protected.
type FundingModule struct {
	Handler *handlers.FundingHandler
}

func NewFundingModule(h *handlers.FundingHandler) *FundingModule {
	return &FundingModule{Handler: h}
}

func (m *FundingModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetResolver(), rdb))
	auth.Use(middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByEmail(), middleware.AllowPrivateIP()))
	{
		auth.POST("/funding/checkout", m.Handler.CreateCheckout)
		auth.POST("/funding/confirm", m.Handler.Confirm)
		auth.GET("/funding", m.Handler.List)
	}
}
