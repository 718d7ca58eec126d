package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vetstock/vetstock-backend/internal/inventory/repository"
	"github.com/vetstock/vetstock-backend/internal/inventory/service"
	"github.com/vetstock/vetstock-backend/pkg/errors"
	"github.com/vetstock/vetstock-backend/pkg/httputil"
	"github.com/vetstock/vetstock-backend/pkg/logger"
)

// FacilityHandler handles facility endpoints
type FacilityHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewFacilityHandler creates a new facility handler
func NewFacilityHandler(svc *service.InventoryService, log *logger.Logger) *FacilityHandler {
	return &FacilityHandler{service: svc, logger: log}
}

// FacilityRequest is the create/update payload
type FacilityRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
	Type string `json:"type" validate:"required,oneof=Dispensary Hospital ClinicianCenter Polyclinic"`
}

// List handles GET /facilities
func (h *FacilityHandler) List(w http.ResponseWriter, r *http.Request) {
	facilities, err := h.service.ListFacilities(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, facilities)
}

// Get handles GET /facilities/{id}
func (h *FacilityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	facility, err := h.service.GetFacility(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, facility)
}

// Create handles POST /facilities
func (h *FacilityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req FacilityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	facility := &repository.Facility{Name: req.Name, Type: req.Type}
	if err := h.service.CreateFacility(r.Context(), facility); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, facility)
}

// Update handles PUT /facilities/{id}
func (h *FacilityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req FacilityRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	facility := &repository.Facility{ID: id, Name: req.Name, Type: req.Type}
	if err := h.service.UpdateFacility(r.Context(), facility); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, facility)
}

// Delete handles DELETE /facilities/{id}
func (h *FacilityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.DeleteFacility(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// pathID parses a numeric chi path parameter
func pathID(r *http.Request, name string) (int, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest("invalid " + name)
	}
	return id, nil
}
