package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/vetstock/vetstock-backend/internal/inventory/report"
)

// XLSXRenderer renders inventory reports as Excel workbooks
type XLSXRenderer struct{}

// NewXLSXRenderer constructs the renderer
func NewXLSXRenderer() *XLSXRenderer { return &XLSXRenderer{} }

// Render generates the workbook and returns its bytes. The workbook
// carries a summary sheet plus one sheet per report section.
func (g *XLSXRenderer) Render(r *report.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: rename default sheet: %w", err)
	}

	if err := writeSummarySheet(f, summarySheet, r); err != nil {
		return nil, err
	}
	if err := writeRowsSheet(f, "Available", availableXLSXHeader, r.AvailableRows, false); err != nil {
		return nil, err
	}
	if err := writeRowsSheet(f, "Expired", expiredXLSXHeader, r.ExpiredRows, true); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	availableXLSXHeader = []string{"Medicine", "Stock", "Weekly Requirement", "Expiry Date", "Facility"}
	expiredXLSXHeader   = []string{"Medicine", "Stock", "Expired On", "Facility"}
)

func writeSummarySheet(f *excelize.File, sheet string, r *report.Report) error {
	rows := [][]any{
		{"Medicine Inventory Report"},
		{"Generated", r.GeneratedAt.Format("02/01/2006")},
		{},
		{"Total medicines", r.Summary.TotalMedicines},
		{"Total stock", r.Summary.TotalStock},
		{"Low stock", r.Summary.LowStockCount},
		{"Expiring soon", r.Summary.ExpiringSoonCount},
		{"Expired", r.Summary.ExpiredCount},
	}

	for i, row := range rows {
		cell := "A" + strconv.Itoa(i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: summary row %d: %w", i+1, err)
		}
	}

	return f.SetColWidth(sheet, "A", "A", 22)
}

func writeRowsSheet(f *excelize.File, sheet string, header []string, rows []report.Row, expired bool) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx: create sheet %s: %w", sheet, err)
	}

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return fmt.Errorf("xlsx: header for %s: %w", sheet, err)
	}

	for i, r := range rows {
		var values []any
		if expired {
			values = []any{r.Name, mustAtoi(r.Stock), r.ExpiryDate, r.FacilityName}
		} else {
			values = []any{r.Name, mustAtoi(r.Stock), mustAtoi(r.WeeklyRequirement), r.ExpiryDate, r.FacilityName}
		}
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: row %d of %s: %w", i+2, sheet, err)
		}
	}

	lastCol := string(rune('A' + len(header) - 1))
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

// mustAtoi keeps numeric report cells numeric in the workbook. Report
// rows are rendered from ints so the parse cannot fail.
func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
