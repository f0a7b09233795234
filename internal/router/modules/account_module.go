// Package modules groups the route registrations per feature. Each module
// pulls shared middleware dependencies from the container at registration
// time.
package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-backend/internal/container"
	handlers "github.com/bloodlink/bloodlink-backend/internal/interface/http"
	"github.com/bloodlink/bloodlink-backend/internal/interface/middleware"
)

// AccountModule wires registration, login, and account management.
//
// Public:    POST /api/register, /api/login, /api/refresh, GET /api/donors/search
// Protected: POST /api/logout, GET /api/me, GET /api/me/role,
//            GET/PATCH /api/users/:id, POST /api/me/photo,
//            GET /api/users (admin), PATCH /api/users/:id/role|status (admin)
type AccountModule struct {
	Handler *handlers.AccountHandler
}

func NewAccountModule(h *handlers.AccountHandler) *AccountModule {
	return &AccountModule{Handler: h}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	registerLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	rg.GET("/donors/search", m.Handler.SearchDonors)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetResolver(), rdb))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByEmail(), middleware.AllowPrivateIP()))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
		auth.GET("/me/role", m.Handler.Role)
		auth.POST("/me/photo", m.Handler.UploadPhoto)
		auth.GET("/users", m.Handler.List)
		auth.GET("/users/:id", m.Handler.Get)
		auth.PATCH("/users/:id", m.Handler.UpdateProfile)
		auth.PATCH("/users/:id/role", m.Handler.UpdateRole)
		auth.PATCH("/users/:id/status", m.Handler.UpdateStatus)
	}
}
