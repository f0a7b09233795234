package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bloodlink/bloodlink-backend/internal/application"
	"github.com/bloodlink/bloodlink-backend/pkg/response"
)

type DashboardHandler struct {
	Svc    *application.DashboardService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context(), callerEmail(c))
	if err != nil {
		response.FromError(c, err)
		return
	}

	groups := make([]gin.H, 0, len(stats.BloodGroupDistribution))
	for _, g := range stats.BloodGroupDistribution {
		groups = append(groups, gin.H{"blood_group": g.BloodGroup, "count": g.Count})
	}
	daily := make([]gin.H, 0, len(stats.DailyFunding))
	for _, d := range stats.DailyFunding {
		daily = append(daily, gin.H{"day": d.Day.Format("2006-01-02"), "funding": d.Funding})
	}

	response.OK(c, http.StatusOK, gin.H{
		"total_donors":             stats.TotalDonors,
		"total_donation_requests":  stats.TotalDonationRequests,
		"total_funding":            stats.TotalFunding,
		"blood_group_distribution": groups,
		"daily_funding":            daily,
	}, "dashboard stats", nil)
}
