// Package export renders prepared inventory reports into downloadable
// PDF and XLSX documents.
package export

import (
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/vetstock/vetstock-backend/internal/inventory/report"
)

var (
	colorPrimary = &props.Color{Red: 13, Green: 71, Blue: 161}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 183, Green: 28, Blue: 28}
)

// PDFRenderer renders inventory reports with Maroto v2
type PDFRenderer struct{}

// NewPDFRenderer constructs the renderer
func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

// Render generates the PDF and returns its bytes
func (g *PDFRenderer) Render(r *report.Report) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Medicine Inventory Report", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(titleRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(r))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionRow("AVAILABLE MEDICINES", colorPrimary))
	m.AddRows(availableHeaderRow())
	for _, rw := range availableRows(r.AvailableRows) {
		m.AddRows(rw)
	}

	if len(r.ExpiredRows) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionRow("EXPIRED MEDICINES", colorAlert))
		m.AddRows(expiredHeaderRow())
		for _, rw := range expiredRows(r.ExpiredRows) {
			m.AddRows(rw)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate document: %w", err)
	}
	return doc.GetBytes(), nil
}

func titleRow(r *report.Report) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("Medicine Inventory Report", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(4).Add(
			text.New("Generated: "+r.GeneratedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 4, Color: colorGray,
			}),
		),
	)
}

func summaryRow(r *report.Report) core.Row {
	stat := func(label string, value int) core.Col {
		return col.New(3).Add(
			text.New(strconv.Itoa(value), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Center, Top: 1,
			}),
			text.New(label, props.Text{
				Size: 7, Align: align.Center, Top: 8, Color: colorGray,
			}),
		)
	}
	return row.New(14).Add(
		stat("Total stock", r.Summary.TotalStock),
		stat("Low stock", r.Summary.LowStockCount),
		stat("Expiring soon", r.Summary.ExpiringSoonCount),
		stat("Expired", r.Summary.ExpiredCount),
	)
}

func sectionRow(title string, color *props.Color) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: color, Top: 2,
		}),
	))
}

func availableHeaderRow() core.Row {
	return row.New(7).Add(
		headerCol("Medicine", 4, align.Left),
		headerCol("Stock", 2, align.Right),
		headerCol("Weekly Req.", 2, align.Right),
		headerCol("Expiry", 2, align.Center),
		headerCol("Facility", 2, align.Left),
	)
}

func availableRows(rows []report.Row) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, row.New(6).Add(
			cellCol(r.Name, 4, align.Left),
			cellCol(r.Stock, 2, align.Right),
			cellCol(r.WeeklyRequirement, 2, align.Right),
			cellCol(r.ExpiryDate, 2, align.Center),
			cellCol(r.FacilityName, 2, align.Left),
		))
	}
	return result
}

func expiredHeaderRow() core.Row {
	return row.New(7).Add(
		headerCol("Medicine", 5, align.Left),
		headerCol("Stock", 2, align.Right),
		headerCol("Expired On", 2, align.Center),
		headerCol("Facility", 3, align.Left),
	)
}

func expiredRows(rows []report.Row) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, row.New(6).Add(
			cellCol(r.Name, 5, align.Left),
			cellCol(r.Stock, 2, align.Right),
			cellCol(r.ExpiryDate, 2, align.Center),
			cellCol(r.FacilityName, 3, align.Left),
		))
	}
	return result
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Color: colorGray,
	}))
}

func cellCol(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{
		Size: 8, Align: a, Top: 1,
	}))
}
