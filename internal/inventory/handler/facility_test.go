package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetstock/vetstock-backend/internal/inventory/handler"
	"github.com/vetstock/vetstock-backend/internal/inventory/repository"
	"github.com/vetstock/vetstock-backend/internal/inventory/service"
	"github.com/vetstock/vetstock-backend/pkg/database"
	"github.com/vetstock/vetstock-backend/pkg/logger"
	"github.com/vetstock/vetstock-backend/pkg/testutil"
)

func newTestService(t *testing.T) (*service.InventoryService, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	log := logger.New("test", "development")
	db := database.NewFromSqlx(mockDB.DB, log)
	facilities := repository.NewFacilityRepository(db)
	medicines := repository.NewMedicineRepository(db)
	usage := repository.NewUsageRepository(db, medicines)

	return service.NewInventoryService(facilities, medicines, usage, nil, log), mockDB
}

func facilityRouter(t *testing.T) (chi.Router, *testutil.MockDB) {
	t.Helper()
	svc, mockDB := newTestService(t)
	h := handler.NewFacilityHandler(svc, logger.New("test", "development"))

	r := chi.NewRouter()
	r.Route("/facilities", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})

	return r, mockDB
}

func TestFacilityHandler_Create(t *testing.T) {
	router, mockDB := facilityRouter(t)

	now := time.Now()
	mockDB.ExpectQuery("INSERT INTO facilities").
		WithArgs("Central Dispensary", "Dispensary").
		WillReturnRows(testutil.MockRows("id", "created_at", "updated_at").AddRow(1, now, now))

	body := bytes.NewBufferString(`{"name":"Central Dispensary","type":"Dispensary"}`)
	req := httptest.NewRequest(http.MethodPost, "/facilities", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Success bool                `json:"success"`
		Data    repository.Facility `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.ID)
	assert.Equal(t, "Central Dispensary", resp.Data.Name)
}

func TestFacilityHandler_Create_InvalidType(t *testing.T) {
	router, _ := facilityRouter(t)

	body := bytes.NewBufferString(`{"name":"Somewhere","type":"Warehouse"}`)
	req := httptest.NewRequest(http.MethodPost, "/facilities", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFacilityHandler_Get_BadID(t *testing.T) {
	router, _ := facilityRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/facilities/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFacilityHandler_Get_NotFound(t *testing.T) {
	router, mockDB := facilityRouter(t)

	mockDB.ExpectQuery("FROM facilities WHERE id = $1").
		WithArgs(42).
		WillReturnRows(testutil.MockRows("id", "name", "type", "created_at", "updated_at"))

	req := httptest.NewRequest(http.MethodGet, "/facilities/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFacilityHandler_Delete_Conflict(t *testing.T) {
	router, mockDB := facilityRouter(t)

	mockDB.ExpectExec("DELETE FROM facilities WHERE id = $1").
		WithArgs(7).
		WillReturnError(&pq.Error{
			Code:       "23503",
			Constraint: "medicines_facility_id_fkey",
			Message:    `update or delete on table "facilities" violates foreign key constraint: still referenced from table "medicines"`,
		})

	req := httptest.NewRequest(http.MethodDelete, "/facilities/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestFacilityHandler_Delete(t *testing.T) {
	router, mockDB := facilityRouter(t)

	mockDB.ExpectExec("DELETE FROM facilities WHERE id = $1").
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodDelete, "/facilities/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
