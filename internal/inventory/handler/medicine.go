package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vetstock/vetstock-backend/internal/inventory/report"
	"github.com/vetstock/vetstock-backend/internal/inventory/repository"
	"github.com/vetstock/vetstock-backend/internal/inventory/service"
	"github.com/vetstock/vetstock-backend/pkg/errors"
	"github.com/vetstock/vetstock-backend/pkg/httputil"
	"github.com/vetstock/vetstock-backend/pkg/logger"
)

// MedicineHandler handles medicine and usage ledger endpoints
type MedicineHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(svc *service.InventoryService, log *logger.Logger) *MedicineHandler {
	return &MedicineHandler{service: svc, logger: log}
}

// MedicineRequest is the create/update payload. The expiry date uses the
// product's DD/MM/YYYY display format and may be omitted.
type MedicineRequest struct {
	Name              string `json:"name" validate:"required,min=1,max=255"`
	Stock             int    `json:"stock" validate:"gte=0"`
	WeeklyRequirement int    `json:"weekly_requirement" validate:"required,gt=0"`
	ExpiryDate        string `json:"expiry_date"`
	FacilityID        int    `json:"facility_id" validate:"required,gt=0"`
}

func (req *MedicineRequest) toMedicine(id int) (*repository.Medicine, error) {
	var expiry *time.Time
	if req.ExpiryDate != "" {
		parsed, err := report.ParseDate(req.ExpiryDate)
		if err != nil {
			return nil, errors.Validation(map[string]string{
				"expiry_date": "must be a DD/MM/YYYY date",
			})
		}
		expiry = &parsed
	}

	return &repository.Medicine{
		ID:                id,
		Name:              req.Name,
		Stock:             req.Stock,
		WeeklyRequirement: req.WeeklyRequirement,
		ExpiryDate:        expiry,
		FacilityID:        req.FacilityID,
	}, nil
}

// List handles GET /medicines
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.MedicineFilter{
		FacilityType: r.URL.Query().Get("facility_type"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			httputil.Error(w, errors.BadRequest("invalid limit"))
			return
		}
		filter.Limit = limit

		if rawOffset := r.URL.Query().Get("offset"); rawOffset != "" {
			offset, err := strconv.Atoi(rawOffset)
			if err != nil || offset < 0 {
				httputil.Error(w, errors.BadRequest("invalid offset"))
				return
			}
			filter.Offset = offset
		}
	}

	medicines, err := h.service.ListMedicines(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if filter.Limit > 0 {
		httputil.JSONWithMeta(w, http.StatusOK, medicines, &httputil.Meta{
			Limit:  filter.Limit,
			Offset: filter.Offset,
			Count:  len(medicines),
		})
		return
	}

	httputil.JSON(w, http.StatusOK, medicines)
}

// Get handles GET /medicines/{id}
func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	medicine, err := h.service.GetMedicine(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, medicine)
}

// Create handles POST /medicines
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req MedicineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	medicine, err := req.toMedicine(0)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.CreateMedicine(r.Context(), medicine); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, medicine)
}

// Update handles PUT /medicines/{id}
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req MedicineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	medicine, err := req.toMedicine(id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.UpdateMedicine(r.Context(), medicine); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, medicine)
}

// Delete handles DELETE /medicines/{id}
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.DeleteMedicine(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// UsageRequest is the usage submission payload
type UsageRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// ListUsage handles GET /medicines/{id}/usage
func (h *MedicineHandler) ListUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	records, err := h.service.ListUsage(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, records)
}

// RecordUsage handles POST /medicines/{id}/usage
func (h *MedicineHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UsageRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	record, err := h.service.RecordUsage(r.Context(), id, req.Quantity)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, record)
}
