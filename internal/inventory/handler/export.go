package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/vetstock/vetstock-backend/internal/inventory/export"
	"github.com/vetstock/vetstock-backend/internal/inventory/service"
	"github.com/vetstock/vetstock-backend/pkg/logger"
)

// ExportHandler serves the inventory report downloads
type ExportHandler struct {
	service *service.InventoryService
	pdf     *export.PDFRenderer
	xlsx    *export.XLSXRenderer
	logger  *logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(svc *service.InventoryService, log *logger.Logger) *ExportHandler {
	return &ExportHandler{
		service: svc,
		pdf:     export.NewPDFRenderer(),
		xlsx:    export.NewXLSXRenderer(),
		logger:  log,
	}
}

// InventoryPDF handles GET /reports/inventory/pdf
func (h *ExportHandler) InventoryPDF(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.BuildReport(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build inventory report")
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	pdfBytes, err := h.pdf.Render(rep)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render inventory PDF")
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	serveAttachment(w, pdfBytes, "application/pdf", "pdf")
}

// InventoryXLSX handles GET /reports/inventory/xlsx
func (h *ExportHandler) InventoryXLSX(w http.ResponseWriter, r *http.Request) {
	rep, err := h.service.BuildReport(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to build inventory report")
		http.Error(w, "Failed to generate workbook", http.StatusInternalServerError)
		return
	}

	xlsxBytes, err := h.xlsx.Render(rep)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to render inventory workbook")
		http.Error(w, "Failed to generate workbook", http.StatusInternalServerError)
		return
	}

	serveAttachment(w, xlsxBytes,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx")
}

func serveAttachment(w http.ResponseWriter, body []byte, contentType, ext string) {
	filename := fmt.Sprintf("inventory-report-%s.%s", time.Now().Format("2006-01-02-150405"), ext)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(body)))
	w.Write(body)
}
