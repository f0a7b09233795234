package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bloodlink/bloodlink-backend/internal/application"
	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	"github.com/bloodlink/bloodlink-backend/pkg/response"
	"github.com/bloodlink/bloodlink-backend/pkg/validation"
)

type FundingHandler struct {
	Svc    *application.FundingService
	Logger *logrus.Logger
}

func NewFundingHandler(svc *application.FundingService, logger *logrus.Logger) *FundingHandler {
	return &FundingHandler{Svc: svc, Logger: logger}
}

func (h *FundingHandler) CreateCheckout(c *gin.Context) {
	var req struct {
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	sess, err := h.Svc.CreateCheckoutSession(c.Request.Context(), callerEmail(c), req.Amount)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, gin.H{
		"session_id":   sess.ID,
		"checkout_url": sess.URL,
	}, "checkout session created", nil)
}

// Confirm applies a completed checkout session to the funding ledger.
// Safe to call repeatedly; a replay answers applied=false with the original
// record.
func (h *FundingHandler) Confirm(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Confirm(c.Request.Context(), callerEmail(c), req.SessionID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	data := gin.H{"applied": res.Applied}
	if res.Record != nil {
		data["record"] = fundingJSON(res.Record)
	}
	msg := "payment recorded"
	if !res.Applied {
		msg = "payment already recorded or not completed"
	}
	response.OK(c, http.StatusOK, data, msg, nil)
}

func (h *FundingHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	recs, err := h.Svc.List(c.Request.Context(), callerEmail(c), limit, c.Query("session_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]gin.H, 0, len(recs))
	for _, r := range recs {
		out = append(out, fundingJSON(r))
	}
	response.OK(c, http.StatusOK, out, "funding records", nil)
}

func fundingJSON(r *entity.FundingRecord) gin.H {
	return gin.H{
		"id":                  r.ID,
		"donor_name":          r.DonorName,
		"donor_email":         r.DonorEmail,
		"photo_url":           r.PhotoURL,
		"amount":              r.Amount,
		"currency":            r.Currency,
		"payment_intent_id":   r.PaymentIntentID,
		"checkout_session_id": r.CheckoutSessionID,
		"payment_status":      r.PaymentStatus,
		"paid_at":             r.PaidAt,
		"created_at":          r.CreatedAt,
	}
}
