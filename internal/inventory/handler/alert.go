package handler

import (
	"net/http"

	"github.com/vetstock/vetstock-backend/internal/inventory/service"
	"github.com/vetstock/vetstock-backend/pkg/httputil"
	"github.com/vetstock/vetstock-backend/pkg/logger"
)

// AlertHandler handles the pull-based alert listing
type AlertHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(svc *service.InventoryService, log *logger.Logger) *AlertHandler {
	return &AlertHandler{service: svc, logger: log}
}

// List handles GET /alerts. Alerts are computed from current stock data
// on every call; nothing is persisted.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	facilityType := r.URL.Query().Get("facility_type")

	alerts, err := h.service.ListAlerts(r.Context(), facilityType)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, alerts)
}
