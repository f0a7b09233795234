package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/bloodlink/bloodlink-backend/internal/interface/http"
)

// LocationModule serves the public reference data endpoints.
type LocationModule struct {
	Handler *handlers.LocationHandler
}

func NewLocationModule(h *handlers.LocationHandler) *LocationModule {
	return &LocationModule{Handler: h}
}

func (m *LocationModule) Register(rg *gin.RouterGroup) {
	rg.GET("/blood-groups", m.Handler.BloodGroups)
	rg.GET("/districts", m.Handler.Districts)
	rg.GET("/upazilas", m.Handler.Upazilas)
	rg.GET("/upazilas/:districtId", m.Handler.UpazilasByDistrict)
}
