package handler

import (
	"net/http"

	"github.com/vetstock/vetstock-backend/internal/inventory/service"
	"github.com/vetstock/vetstock-backend/pkg/httputil"
	"github.com/vetstock/vetstock-backend/pkg/logger"
)

// DashboardHandler handles the dashboard summary endpoint
type DashboardHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.InventoryService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: svc, logger: log}
}

// Stats handles GET /dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	facilityType := r.URL.Query().Get("facility_type")

	summary, err := h.service.GetDashboardStats(r.Context(), facilityType)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, summary)
}
