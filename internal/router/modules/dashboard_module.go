package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-backend/internal/container"
	handlers "github.com/bloodlink/bloodlink-backend/internal/interface/http"
	"github.com/bloodlink/bloodlink-backend/internal/interface/middleware"
)

// DashboardModule wires the staff statistics endpoint.
type DashboardModule struct {
	Handler *handlers.DashboardHandler
}

func NewDashboardModule(h *handlers.DashboardHandler) *DashboardModule {
	return &DashboardModule{Handler: h}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetResolver(), rdb))
	auth.Use(middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByEmail(), middleware.AllowPrivateIP()))
	{
		auth.GET("/dashboard/stats", m.Handler.Stats)
	}
}
