package report_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetstock/vetstock-backend/internal/inventory/report"
)

var today = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuild_SplitsAvailableAndExpired(t *testing.T) {
	medicines := []report.Medicine{
		{Name: "Amoxicillin", Stock: 120, WeeklyRequirement: 20, ExpiryDate: datePtr(2025, 9, 1), FacilityName: "Central Dispensary"},
		{Name: "Ivermectin", Stock: 8, WeeklyRequirement: 15, ExpiryDate: datePtr(2025, 1, 31), FacilityName: "District Hospital"},
		{Name: "Oxytetracycline", Stock: 40, WeeklyRequirement: 10, ExpiryDate: nil, FacilityName: "Central Dispensary"},
	}

	r := report.Build(medicines, today)

	require.Len(t, r.AvailableRows, 2)
	require.Len(t, r.ExpiredRows, 1)

	assert.Equal(t, "Amoxicillin", r.AvailableRows[0].Name)
	assert.Equal(t, "120", r.AvailableRows[0].Stock)
	assert.Equal(t, "20", r.AvailableRows[0].WeeklyRequirement)
	assert.Equal(t, "01/09/2025", r.AvailableRows[0].ExpiryDate)

	assert.Equal(t, "N/A", r.AvailableRows[1].ExpiryDate)

	expired := r.ExpiredRows[0]
	assert.Equal(t, "Ivermectin", expired.Name)
	assert.Equal(t, "31/01/2025", expired.ExpiryDate)
	assert.Empty(t, expired.WeeklyRequirement, "expired rows omit the weekly requirement")
}

func TestBuild_Summary(t *testing.T) {
	medicines := []report.Medicine{
		{Name: "A", Stock: 100, WeeklyRequirement: 10, ExpiryDate: datePtr(2025, 9, 1)},
		{Name: "B", Stock: 3, WeeklyRequirement: 10, ExpiryDate: datePtr(2025, 9, 1)},
		{Name: "C", Stock: 40, WeeklyRequirement: 10, ExpiryDate: datePtr(2025, 1, 1)},
	}

	r := report.Build(medicines, today)

	assert.Equal(t, 3, r.Summary.TotalMedicines)
	assert.Equal(t, 143, r.Summary.TotalStock)
	assert.Equal(t, 1, r.Summary.LowStockCount)
	assert.Equal(t, 1, r.Summary.ExpiredCount)
	assert.Equal(t, today, r.GeneratedAt)
}

func TestBuild_Empty(t *testing.T) {
	r := report.Build(nil, today)
	assert.Empty(t, r.AvailableRows)
	assert.Empty(t, r.ExpiredRows)
	assert.Equal(t, 0, r.Summary.TotalMedicines)
}

func TestFormatDate_ZeroPadded(t *testing.T) {
	assert.Equal(t, "05/02/2025", report.FormatDate(datePtr(2025, 2, 5)))
	assert.Equal(t, "N/A", report.FormatDate(nil))
}

func TestParseDate_RoundTrip(t *testing.T) {
	for _, s := range []string{"01/01/2024", "29/02/2024", "31/12/2025", "05/02/2025"} {
		parsed, err := report.ParseDate(s)
		require.NoError(t, err)
		assert.Equal(t, s, report.FormatDate(&parsed))
		assert.Equal(t, time.UTC, parsed.Location())
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"2025-01-01", "32/01/2025", "", "not a date"} {
		_, err := report.ParseDate(s)
		assert.Error(t, err, s)
	}
}
