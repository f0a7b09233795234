package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bloodlink/bloodlink-backend/internal/application"
	"github.com/bloodlink/bloodlink-backend/internal/domain/entity"
	repo "github.com/bloodlink/bloodlink-backend/internal/domain/repository"
	"github.com/bloodlink/bloodlink-backend/internal/interface/middleware"
	"github.com/bloodlink/bloodlink-backend/pkg/response"
	"github.com/bloodlink/bloodlink-backend/pkg/validation"
)

type AccountHandler struct {
	Svc    *application.AccountService
	Logger *logrus.Logger
}

func NewAccountHandler(svc *application.AccountService, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Svc: svc, Logger: logger}
}

func callerEmail(c *gin.Context) string {
	return c.GetString(middleware.CtxEmailKey)
}

func pageFromQuery(c *gin.Context) repo.Page {
	number, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if number < 1 {
		number = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return repo.Page{Number: number, Limit: limit}
}

func accountJSON(a *entity.Account) gin.H {
	return gin.H{
		"id":          a.ID,
		"email":       a.Email,
		"name":        a.Name,
		"phone":       a.Phone,
		"blood_group": a.BloodGroup,
		"district":    a.District,
		"upazila":     a.Upazila,
		"photo_url":   a.PhotoURL,
		"role":        a.Role,
		"status":      a.Status,
		"created_at":  a.CreatedAt,
		"updated_at":  a.UpdatedAt,
	}
}

type registerRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,pwd"`
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	BloodGroup string `json:"blood_group" binding:"omitempty,bloodgroup"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
	PhotoURL   string `json:"photo_url"`
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Name:       req.Name,
		Phone:      req.Phone,
		BloodGroup: req.BloodGroup,
		District:   req.District,
		Upazila:    req.Upazila,
		PhotoURL:   req.PhotoURL,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, accountJSON(a), "account registered", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"account":       accountJSON(a),
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, "login successful", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *AccountHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	}, "token refreshed", gin.H{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	})
}

func (h *AccountHandler) Logout(c *gin.Context) {
	if err := h.Svc.Logout(c.Request.Context(), callerEmail(c)); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Me returns the caller's own account.
func (h *AccountHandler) Me(c *gin.Context) {
	a, err := h.Svc.Caller(c.Request.Context(), callerEmail(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, accountJSON(a), "profile", nil)
}

// Role tells the client which dashboard to render.
func (h *AccountHandler) Role(c *gin.Context) {
	role, err := h.Svc.GetRole(c.Request.Context(), callerEmail(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"role": role}, "role", nil)
}

func (h *AccountHandler) Get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), callerEmail(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, accountJSON(a), "account", nil)
}

func (h *AccountHandler) List(c *gin.Context) {
	p := pageFromQuery(c)
	accounts, total, err := h.Svc.List(c.Request.Context(), callerEmail(c), repo.AccountFilter{Search: c.Query("search")}, p)
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]gin.H, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountJSON(a))
	}
	response.OK(c, http.StatusOK, out, "accounts", response.NewMeta(p.Number, p.Limit, int64(total)))
}

type updateProfileRequest struct {
	Name       *string `json:"name"`
	Phone      *string `json:"phone"`
	BloodGroup *string `json:"blood_group" binding:"omitempty,bloodgroup"`
	District   *string `json:"district"`
	Upazila    *string `json:"upazila"`
	PhotoURL   *string `json:"photo_url"`
}

func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.UpdateProfile(c.Request.Context(), callerEmail(c), c.Param("id"), entity.ProfilePatch{
		Name:       req.Name,
		Phone:      req.Phone,
		BloodGroup: req.BloodGroup,
		District:   req.District,
		Upazila:    req.Upazila,
		PhotoURL:   req.PhotoURL,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, accountJSON(a), "profile updated", nil)
}

func (h *AccountHandler) UploadPhoto(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "missing photo file", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "unreadable photo file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadPhoto(c.Request.Context(), callerEmail(c), f, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"photo_url": url}, "photo uploaded", nil)
}

func (h *AccountHandler) UpdateRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required,oneof=donor volunteer admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.UpdateRole(c.Request.Context(), callerEmail(c), c.Param("id"), entity.Role(req.Role))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, accountJSON(a), "role updated", nil)
}

func (h *AccountHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required,oneof=active blocked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.UpdateStatus(c.Request.Context(), callerEmail(c), c.Param("id"), entity.AccountStatus(req.Status))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, http.StatusOK, accountJSON(a), "status updated", nil)
}

// SearchDonors is public: active donors by blood group and location.
func (h *AccountHandler) SearchDonors(c *gin.Context) {
	donors, err := h.Svc.SearchDonors(c.Request.Context(), repo.DonorFilter{
		BloodGroup: c.Query("blood_group"),
		District:   c.Query("district"),
		Upazila:    c.Query("upazila"),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]gin.H, 0, len(donors))
	for _, a := range donors {
		out = append(out, gin.H{
			"id":          a.ID,
			"name":        a.Name,
			"email":       a.Email,
			"blood_group": a.BloodGroup,
			"district":    a.District,
			"upazila":     a.Upazila,
			"photo_url":   a.PhotoURL,
		})
	}
	response.OK(c, http.StatusOK, out, "donors", nil)
}
