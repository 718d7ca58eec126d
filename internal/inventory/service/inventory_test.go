package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetstock/vetstock-backend/internal/inventory/events"
	"github.com/vetstock/vetstock-backend/internal/inventory/repository"
	"github.com/vetstock/vetstock-backend/internal/inventory/service"
	"github.com/vetstock/vetstock-backend/internal/inventory/stock"
	"github.com/vetstock/vetstock-backend/pkg/database"
	"github.com/vetstock/vetstock-backend/pkg/errors"
	"github.com/vetstock/vetstock-backend/pkg/logger"
	"github.com/vetstock/vetstock-backend/pkg/messaging"
	"github.com/vetstock/vetstock-backend/pkg/testutil"
)

var medicineCols = []string{
	"id", "name", "stock", "weekly_requirement", "expiry_date", "facility_id",
	"created_at", "updated_at", "facility_name", "facility_type",
}

func newService(t *testing.T) (*service.InventoryService, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	log := logger.New("test", "development")
	db := database.NewFromSqlx(mockDB.DB, log)
	facilities := repository.NewFacilityRepository(db)
	medicines := repository.NewMedicineRepository(db)
	usage := repository.NewUsageRepository(db, medicines)

	// nil publisher: broker-less, publishing is skipped
	return service.NewInventoryService(facilities, medicines, usage, nil, log), mockDB
}

func newServiceWithPublisher(t *testing.T) (*service.InventoryService, *testutil.MockDB, *testutil.MockPublisher) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	log := logger.New("test", "development")
	db := database.NewFromSqlx(mockDB.DB, log)
	facilities := repository.NewFacilityRepository(db)
	medicines := repository.NewMedicineRepository(db)
	usage := repository.NewUsageRepository(db, medicines)

	pub := testutil.NewMockPublisher()
	eventPub := events.NewWithPublisher(pub, log)
	return service.NewInventoryService(facilities, medicines, usage, eventPub, log), mockDB, pub
}

func TestInventoryService_GetMedicine_Status(t *testing.T) {
	svc, mockDB := newService(t)

	now := time.Now()
	expired := now.AddDate(0, 0, -10)
	mockDB.ExpectQuery("JOIN facilities f ON f.id = m.facility_id").
		WithArgs(3).
		WillReturnRows(testutil.MockRows(medicineCols...).
			AddRow(3, "Ivermectin", 50, 10, expired, 1, now, now, "Central Dispensary", "Dispensary"))

	m, err := svc.GetMedicine(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, stock.StatusExpired, m.Status)
	assert.False(t, m.ExpiringSoon)
}

func TestInventoryService_ListMedicines_FilterPassthrough(t *testing.T) {
	svc, mockDB := newService(t)

	now := time.Now()
	future := now.AddDate(0, 6, 0)
	mockDB.ExpectQuery("WHERE f.type = $1").
		WithArgs("Hospital").
		WillReturnRows(testutil.MockRows(medicineCols...).
			AddRow(1, "Amoxicillin", 5, 10, future, 2, now, now, "District Hospital", "Hospital"))

	medicines, err := svc.ListMedicines(context.Background(), repository.MedicineFilter{FacilityType: "Hospital"})
	require.NoError(t, err)
	require.Len(t, medicines, 1)
	assert.Equal(t, stock.StatusLowStock, medicines[0].Status)
}

func TestInventoryService_GetDashboardStats(t *testing.T) {
	svc, mockDB := newService(t)

	now := time.Now()
	future := now.AddDate(0, 6, 0)
	soon := now.AddDate(0, 0, 3)
	expired := now.AddDate(0, 0, -3)

	mockDB.ExpectQuery("ORDER BY m.name").
		WillReturnRows(testutil.MockRows(medicineCols...).
			AddRow(1, "A", 100, 10, future, 1, now, now, "Central", "Dispensary").
			AddRow(2, "B", 2, 10, future, 1, now, now, "Central", "Dispensary").
			AddRow(3, "C", 30, 10, expired, 1, now, now, "Central", "Dispensary").
			AddRow(4, "D", 25, 10, soon, 1, now, now, "Central", "Dispensary"))

	summary, err := svc.GetDashboardStats(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalMedicines)
	assert.Equal(t, 157, summary.TotalStock)
	assert.Equal(t, 1, summary.LowStockCount)
	assert.Equal(t, 1, summary.ExpiredCount)
	assert.Equal(t, 1, summary.ExpiringSoonCount)
}

func TestInventoryService_ListAlerts(t *testing.T) {
	svc, mockDB := newService(t)

	now := time.Now()
	future := now.AddDate(0, 6, 0)
	soon := now.AddDate(0, 0, 2)
	expired := now.AddDate(0, 0, -3)

	mockDB.ExpectQuery("ORDER BY m.name").
		WillReturnRows(testutil.MockRows(medicineCols...).
			AddRow(1, "Fine", 100, 10, future, 1, now, now, "Central", "Dispensary").
			AddRow(2, "Low", 2, 10, future, 1, now, now, "Central", "Dispensary").
			AddRow(3, "Gone", 30, 10, expired, 1, now, now, "Central", "Dispensary").
			AddRow(4, "Soon", 25, 10, soon, 1, now, now, "Central", "Dispensary"))

	alerts, err := svc.ListAlerts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	types := make(map[string]string)
	for _, a := range alerts {
		types[a.MedicineName] = a.Type
	}
	assert.Equal(t, service.AlertLowStock, types["Low"])
	assert.Equal(t, service.AlertExpired, types["Gone"])
	assert.Equal(t, service.AlertExpiringSoon, types["Soon"])
}

func TestInventoryService_RecordUsage(t *testing.T) {
	svc, mockDB := newService(t)

	now := time.Now()
	future := now.AddDate(0, 6, 0)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("FOR UPDATE").
		WithArgs(5).
		WillReturnRows(testutil.MockRows(
			"id", "name", "stock", "weekly_requirement", "expiry_date", "facility_id",
			"created_at", "updated_at",
		).AddRow(5, "Amoxicillin", 20, 10, future, 1, now, now))
	mockDB.ExpectExec("UPDATE medicines SET stock").
		WithArgs(14, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("INSERT INTO usage_records").
		WithArgs(5, 6).
		WillReturnRows(testutil.MockRows("id", "medicine_id", "quantity", "usage_date").
			AddRow(9, 5, 6, now))
	mockDB.ExpectCommit()

	// reload for event payload
	mockDB.ExpectQuery("JOIN facilities f ON f.id = m.facility_id").
		WithArgs(5).
		WillReturnRows(testutil.MockRows(medicineCols...).
			AddRow(5, "Amoxicillin", 14, 10, future, 1, now, now, "Central", "Dispensary"))

	record, err := svc.RecordUsage(context.Background(), 5, 6)
	require.NoError(t, err)
	assert.Equal(t, 9, record.ID)
	assert.Equal(t, 6, record.Quantity)

	mockDB.ExpectationsWereMet(t)
}

func TestInventoryService_RecordUsage_PublishesEvents(t *testing.T) {
	svc, mockDB, pub := newServiceWithPublisher(t)

	now := time.Now()
	future := now.AddDate(0, 6, 0)

	mockDB.ExpectBegin()
	mockDB.ExpectQuery("FOR UPDATE").
		WithArgs(5).
		WillReturnRows(testutil.MockRows(
			"id", "name", "stock", "weekly_requirement", "expiry_date", "facility_id",
			"created_at", "updated_at",
		).AddRow(5, "Amoxicillin", 20, 10, future, 1, now, now))
	mockDB.ExpectExec("UPDATE medicines SET stock").
		WithArgs(5, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectQuery("INSERT INTO usage_records").
		WithArgs(5, 15).
		WillReturnRows(testutil.MockRows("id", "medicine_id", "quantity", "usage_date").
			AddRow(9, 5, 15, now))
	mockDB.ExpectCommit()

	// reload for event payload; remaining stock is below the weekly requirement
	mockDB.ExpectQuery("JOIN facilities f ON f.id = m.facility_id").
		WithArgs(5).
		WillReturnRows(testutil.MockRows(medicineCols...).
			AddRow(5, "Amoxicillin", 5, 10, future, 1, now, now, "Central", "Dispensary"))

	_, err := svc.RecordUsage(context.Background(), 5, 15)
	require.NoError(t, err)

	pub.AssertEventPublished(t, messaging.EventUsageRecorded)
	pub.AssertEventPublished(t, messaging.EventStockLow)
}

func TestInventoryService_RecordUsage_InsufficientStock(t *testing.T) {
	svc, mockDB := newService(t)

	now := time.Now()
	mockDB.ExpectBegin()
	mockDB.ExpectQuery("FOR UPDATE").
		WithArgs(5).
		WillReturnRows(testutil.MockRows(
			"id", "name", "stock", "weekly_requirement", "expiry_date", "facility_id",
			"created_at", "updated_at",
		).AddRow(5, "Amoxicillin", 2, 10, nil, 1, now, now))
	mockDB.ExpectRollback()

	_, err := svc.RecordUsage(context.Background(), 5, 6)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientStock))

	mockDB.ExpectationsWereMet(t)
}

func TestInventoryService_ListUsage_MedicineMissing(t *testing.T) {
	svc, mockDB := newService(t)

	mockDB.ExpectQuery("JOIN facilities f ON f.id = m.facility_id").
		WithArgs(404).
		WillReturnRows(testutil.MockRows(medicineCols...))

	_, err := svc.ListUsage(context.Background(), 404)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
