// Package report builds the printable inventory report consumed by the
// PDF and XLSX export sinks.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/vetstock/vetstock-backend/internal/inventory/stock"
)

// DateLayout is the display format for expiry dates (en-GB, zero-padded)
const DateLayout = "02/01/2006"

// Medicine is the report input. FacilityName comes from the medicine's
// facility join.
type Medicine struct {
	Name              string
	Stock             int
	WeeklyRequirement int
	ExpiryDate        *time.Time
	FacilityName      string
}

// Row is a single rendered report line
type Row struct {
	Name              string
	Stock             string
	WeeklyRequirement string
	ExpiryDate        string
	FacilityName      string
}

// Report is the fully prepared inventory report
type Report struct {
	GeneratedAt   time.Time
	Summary       stock.Summary
	AvailableRows []Row
	ExpiredRows   []Row
}

// Build renders medicines into a report as of the given day. Medicines
// whose expiry is missing or on/after today land in the available
// section; the rest land in the expired section, which omits the weekly
// requirement column.
func Build(medicines []Medicine, today time.Time) *Report {
	r := &Report{
		GeneratedAt:   today,
		AvailableRows: make([]Row, 0, len(medicines)),
		ExpiredRows:   make([]Row, 0),
	}

	entries := make([]stock.Entry, 0, len(medicines))
	for _, m := range medicines {
		entries = append(entries, stock.Entry{
			Stock:             m.Stock,
			WeeklyRequirement: m.WeeklyRequirement,
			ExpiryDate:        m.ExpiryDate,
		})

		row := Row{
			Name:         m.Name,
			Stock:        strconv.Itoa(m.Stock),
			ExpiryDate:   FormatDate(m.ExpiryDate),
			FacilityName: m.FacilityName,
		}

		if stock.IsExpired(m.ExpiryDate, today) {
			r.ExpiredRows = append(r.ExpiredRows, row)
		} else {
			row.WeeklyRequirement = strconv.Itoa(m.WeeklyRequirement)
			r.AvailableRows = append(r.AvailableRows, row)
		}
	}

	r.Summary = stock.Aggregate(entries, today)
	return r
}

// FormatDate renders a date as DD/MM/YYYY. A nil date renders as "N/A".
func FormatDate(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(DateLayout)
}

// ParseDate parses a DD/MM/YYYY string into a UTC date
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
