package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bloodlink/bloodlink-backend/internal/application"
	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	repo "github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/pkg/response"
	"github.com/bloodlink/bloodlink-backend/pkg/validation"
)

type DonationHandler struct {
	Svc    *application.DonationService
	Logger *logrus.Logger
}

func NewDonationHandler(svc *application.DonationService, logger *logrus.Logger) *DonationHandler {
	return &DonationHandler{Svc: svc, Logger: logger}
}

func donationJSON(d *entity.DonationRequest) gin.H {
	return gin.H{
		"id":              d.ID,
		"requester_email": d.RequesterEmail,
		"requester_name":  d.RequesterName,
		"recipient_name":  d.RecipientName,
		"district":        d.District,
		"upazila":         d.Upazila,
		"hospital_name":   d.HospitalName,
		"full_address":    d.FullAddress,
		"blood_group":     d.BloodGroup,
		"donation_date":   d.DonationDate,
		"donation_time":   d.DonationTime,
		"request_message": d.RequestMessage,
		"status":          d.Status,
		"created_at":      d.CreatedAt,
		"updated_at":      d.UpdatedAt,
	}
}

func donationListJSON(ds []*entity.DonationRequest) []gin.H {
	out := make([]gin.H, 0, len(ds))
	for _, d := range ds {
		out = append(out, donationJSON(d))
	}
	return out
}

type createDonationRequest struct {
	RecipientName  string `json:"recipient_name" binding:"required"`
	District       string `json:"district" binding:"required"`
	Upazila        string `json:"upazila" binding:"required"`
	HospitalName   string `json:"hospital_name" binding:"required"`
	FullAddress    string `json:"full_address" binding:"required"`
	BloodGroup     string `json:"blood_group" binding:"required,bloodgroup"`
	DonationDate   string `json:"donation_date" binding:"required"`
	DonationTime   string `json:"donation_time" binding:"required"`
	RequestMessage string `json:"request_message"`
}

func (h *DonationHandler) Create(c *gin.Context) {
	var req createDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	d, err := h.Svc.Create(c.Request.Context(), callerEmail(c), application.CreateDonationInput{
		RecipientName:  req.RecipientName,
		District:       req.District,
		Upazila:        req.Upazila,
		HospitalName:   req.HospitalName,
		FullAddress:    req.FullAddress,
		BloodGroup:     req.BloodGroup,
		DonationDate:   req.DonationDate,
		DonationTime:   req.DonationTime,
		RequestMessage: req.RequestMessage,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, donationJSON(d), "donation request created", nil)
}

func (h *DonationHandler) Get(c *gin.Context) {
	d, err := h.Svc.Get(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, donationJSON(d), "donation request", nil)
}

type updateDonationRequest struct {
	RecipientName  *string `json:"recipient_name"`
	District       *string `json:"district"`
	Upazila        *string `json:"upazila"`
	HospitalName   *string `json:"hospital_name"`
	FullAddress    *string `json:"full_address"`
	BloodGroup     *string `json:"blood_group" binding:"omitempty,bloodgroup"`
	DonationDate   *string `json:"donation_date"`
	DonationTime   *string `json:"donation_time"`
	RequestMessage *string `json:"request_message"`
}

func (h *DonationHandler) Update(c *gin.Context) {
	var req updateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	d, err := h.Svc.Update(c.Request.Context(), callerEmail(c), c.Param("id"), entity.DonationPatch{
		RecipientName:  req.RecipientName,
		District:       req.District,
		Upazila:        req.Upazila,
		HospitalName:   req.HospitalName,
		FullAddress:    req.FullAddress,
		BloodGroup:     req.BloodGroup,
		DonationDate:   req.DonationDate,
		DonationTime:   req.DonationTime,
		RequestMessage: req.RequestMessage,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, donationJSON(d), "donation request updated", nil)
}

func (h *DonationHandler) Transition(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required,donationstatus"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	d, err := h.Svc.Transition(c.Request.Context(), callerEmail(c), c.Param("id"), entity.DonationStatus(req.Status))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, donationJSON(d), "status updated", nil)
}

func (h *DonationHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), callerEmail(c), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, gin.H{"deleted": true}, "donation request deleted", nil)
}

// ListPublic is the unauthenticated browse page for pending requests.
func (h *DonationHandler) ListPublic(c *gin.Context) {
	p := pageFromQuery(c)
	ds, total, err := h.Svc.ListPublicPending(c.Request.Context(), p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, donationListJSON(ds), "pending donation requests", response.NewMeta(p.Number, p.Limit, int64(total)))
}

func (h *DonationHandler) ListMine(c *gin.Context) {
	p := pageFromQuery(c)
	ds, total, err := h.Svc.ListMine(c.Request.Context(), callerEmail(c), entity.DonationStatus(c.Query("status")), p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, donationListJSON(ds), "my donation requests", response.NewMeta(p.Number, p.Limit, int64(total)))
}

func (h *DonationHandler) ListAll(c *gin.Context) {
	p := pageFromQuery(c)
	f := repo.DonationFilter{
		Status: entity.DonationStatus(c.Query("status")),
		Search: c.Query("search"),
	}
	ds, total, err := h.Svc.ListAll(c.Request.Context(), callerEmail(c), f, p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, donationListJSON(ds), "donation requests", response.NewMeta(p.Number, p.Limit, int64(total)))
}

// Summary is the donor home screen payload.
func (h *DonationHandler) Summary(c *gin.Context) {
	sum, err := h.Svc.Summary(c.Request.Context(), callerEmail(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	totals := gin.H{}
	for status, n := range sum.Totals {
		totals[string(status)] = n
	}
	response.OK(c, http.StatusOK, gin.H{
		"totals": totals,
		"recent": donationListJSON(sum.Recent),
	}, "summary", nil)
}
