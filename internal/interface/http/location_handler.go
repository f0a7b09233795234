package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bloodlink/bloodlink-backend/internal/referencedata"
	"github.com/bloodlink/bloodlink-backend/pkg/response"
)

// LocationHandler serves the static reference data: blood groups, districts,
// and upazilas. All endpoints are public and read-only.
type LocationHandler struct{}

func NewLocationHandler() *LocationHandler {
	return &LocationHandler{}
}

func (h *LocationHandler) BloodGroups(c *gin.Context) {
	response.OK(c, http.StatusOK, referencedata.BloodGroups, "blood groups", nil)
}

func (h *LocationHandler) Districts(c *gin.Context) {
	response.OK(c, http.StatusOK, referencedata.Districts(), "districts", nil)
}

func (h *LocationHandler) Upazilas(c *gin.Context) {
	response.OK(c, http.StatusOK, referencedata.Upazilas(), "upazilas", nil)
}

func (h *LocationHandler) UpazilasByDistrict(c *gin.Context) {
	response.OK(c, http.StatusOK, referencedata.UpazilasByDistrict(c.Param("districtId")), "upazilas", nil)
}
