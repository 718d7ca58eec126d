package service

import (
	"context"
	"time"

	"github.com/vetstock/vetstock-backend/internal/inventory/events"
	"github.com/vetstock/vetstock-backend/internal/inventory/report"
	"github.com/vetstock/vetstock-backend/internal/inventory/repository"
	"github.com/vetstock/vetstock-backend/internal/inventory/stock"
	"github.com/vetstock/vetstock-backend/pkg/logger"
	"github.com/vetstock/vetstock-backend/pkg/messaging"
)

// InventoryService handles inventory business logic
type InventoryService struct {
	facilityRepo *repository.FacilityRepository
	medicineRepo *repository.MedicineRepository
	usageRepo    *repository.UsageRepository
	publisher    *events.InventoryEventPublisher
	logger       *logger.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	facilityRepo *repository.FacilityRepository,
	medicineRepo *repository.MedicineRepository,
	usageRepo *repository.UsageRepository,
	publisher *events.InventoryEventPublisher,
	log *logger.Logger,
) *InventoryService {
	return &InventoryService{
		facilityRepo: facilityRepo,
		medicineRepo: medicineRepo,
		usageRepo:    usageRepo,
		publisher:    publisher,
		logger:       log,
	}
}

// MedicineWithStatus decorates a medicine with its computed stock status
type MedicineWithStatus struct {
	*repository.Medicine
	Status       stock.Status `json:"status"`
	ExpiringSoon bool         `json:"expiring_soon"`
}

// Alert is one entry in the pull-based alert listing
type Alert struct {
	Type         string       `json:"type"`
	MedicineID   int          `json:"medicine_id"`
	MedicineName string       `json:"medicine_name"`
	FacilityName string       `json:"facility_name"`
	Stock        int          `json:"stock"`
	Status       stock.Status `json:"status"`
	ExpiryDate   *time.Time   `json:"expiry_date,omitempty"`
}

// Alert types
const (
	AlertLowStock     = "low_stock"
	AlertExpiringSoon = "expiring_soon"
	AlertExpired      = "expired"
)

// Facility operations

// CreateFacility creates a new facility
func (s *InventoryService) CreateFacility(ctx context.Context, f *repository.Facility) error {
	return s.facilityRepo.Create(ctx, f)
}

// GetFacility gets a facility by id
func (s *InventoryService) GetFacility(ctx context.Context, id int) (*repository.Facility, error) {
	return s.facilityRepo.GetByID(ctx, id)
}

// ListFacilities lists all facilities
func (s *InventoryService) ListFacilities(ctx context.Context) ([]repository.Facility, error) {
	return s.facilityRepo.List(ctx)
}

// UpdateFacility updates a facility
func (s *InventoryService) UpdateFacility(ctx context.Context, f *repository.Facility) error {
	return s.facilityRepo.Update(ctx, f)
}

// DeleteFacility deletes a facility. Fails with a Conflict while
// medicines still reference it.
func (s *InventoryService) DeleteFacility(ctx context.Context, id int) error {
	return s.facilityRepo.Delete(ctx, id)
}

// Medicine operations

// CreateMedicine creates a new medicine
func (s *InventoryService) CreateMedicine(ctx context.Context, m *repository.Medicine) error {
	if err := s.medicineRepo.Create(ctx, m); err != nil {
		return err
	}

	s.logger.Info().Int("medicine_id", m.ID).Str("name", m.Name).Msg("medicine created")
	return nil
}

// GetMedicine gets a medicine with its computed status
func (s *InventoryService) GetMedicine(ctx context.Context, id int) (*MedicineWithStatus, error) {
	m, err := s.medicineRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withStatus(m, time.Now()), nil
}

// ListMedicines lists medicines with computed statuses
func (s *InventoryService) ListMedicines(ctx context.Context, filter repository.MedicineFilter) ([]*MedicineWithStatus, error) {
	medicines, err := s.medicineRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := make([]*MedicineWithStatus, len(medicines))
	for i := range medicines {
		result[i] = s.withStatus(&medicines[i], now)
	}

	return result, nil
}

// UpdateMedicine updates a medicine
func (s *InventoryService) UpdateMedicine(ctx context.Context, m *repository.Medicine) error {
	return s.medicineRepo.Update(ctx, m)
}

// DeleteMedicine deletes a medicine and its usage ledger
func (s *InventoryService) DeleteMedicine(ctx context.Context, id int) error {
	if err := s.medicineRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int("medicine_id", id).Msg("medicine deleted")
	return nil
}

// Usage ledger

// RecordUsage applies a usage submission and publishes the resulting events
func (s *InventoryService) RecordUsage(ctx context.Context, medicineID, quantity int) (*repository.UsageRecord, error) {
	record, err := s.usageRepo.ApplyUsage(ctx, medicineID, quantity)
	if err != nil {
		return nil, err
	}

	m, err := s.medicineRepo.GetByID(ctx, medicineID)
	if err != nil {
		// The ledger transaction already committed; the record stands.
		s.logger.Warn().Err(err).Int("medicine_id", medicineID).Msg("failed to reload medicine after usage")
		return record, nil
	}

	s.publisher.PublishUsageRecorded(ctx, &messaging.UsageRecordedEvent{
		MedicineID:     m.ID,
		MedicineName:   m.Name,
		Quantity:       quantity,
		RemainingStock: m.Stock,
		FacilityID:     m.FacilityID,
	})

	if m.Stock < m.WeeklyRequirement {
		s.publisher.PublishStockAlert(ctx, messaging.EventStockLow, &messaging.StockAlertEvent{
			MedicineID:   m.ID,
			MedicineName: m.Name,
			AlertType:    AlertLowStock,
			Stock:        m.Stock,
			Threshold:    m.WeeklyRequirement,
		})
	}

	return record, nil
}

// ListUsage returns a medicine's usage history
func (s *InventoryService) ListUsage(ctx context.Context, medicineID int) ([]repository.UsageRecord, error) {
	if _, err := s.medicineRepo.GetByID(ctx, medicineID); err != nil {
		return nil, err
	}
	return s.usageRepo.ListByMedicine(ctx, medicineID)
}

// Dashboard and alerts

// GetDashboardStats computes the stock summary, optionally narrowed to
// one facility type
func (s *InventoryService) GetDashboardStats(ctx context.Context, facilityType string) (*stock.Summary, error) {
	medicines, err := s.medicineRepo.List(ctx, repository.MedicineFilter{FacilityType: facilityType})
	if err != nil {
		return nil, err
	}

	entries := make([]stock.Entry, len(medicines))
	for i, m := range medicines {
		entries[i] = stock.Entry{
			Stock:             m.Stock,
			WeeklyRequirement: m.WeeklyRequirement,
			ExpiryDate:        m.ExpiryDate,
		}
	}

	summary := stock.Aggregate(entries, time.Now())
	return &summary, nil
}

// ListAlerts computes the current alert list from live data
func (s *InventoryService) ListAlerts(ctx context.Context, facilityType string) ([]Alert, error) {
	medicines, err := s.medicineRepo.List(ctx, repository.MedicineFilter{FacilityType: facilityType})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	alerts := make([]Alert, 0)

	for i := range medicines {
		m := &medicines[i]
		status := stock.Classify(stock.Entry{
			Stock:             m.Stock,
			WeeklyRequirement: m.WeeklyRequirement,
			ExpiryDate:        m.ExpiryDate,
		}, now)

		switch status {
		case stock.StatusExpired:
			alerts = append(alerts, s.alert(AlertExpired, m, status))
		case stock.StatusLowStock:
			alerts = append(alerts, s.alert(AlertLowStock, m, status))
		}

		if stock.ExpiringSoon(m.ExpiryDate, now) {
			alerts = append(alerts, s.alert(AlertExpiringSoon, m, status))
		}
	}

	return alerts, nil
}

// Reports

// BuildReport prepares the inventory report over all medicines
func (s *InventoryService) BuildReport(ctx context.Context) (*report.Report, error) {
	medicines, err := s.medicineRepo.List(ctx, repository.MedicineFilter{})
	if err != nil {
		return nil, err
	}

	input := make([]report.Medicine, len(medicines))
	for i, m := range medicines {
		input[i] = report.Medicine{
			Name:              m.Name,
			Stock:             m.Stock,
			WeeklyRequirement: m.WeeklyRequirement,
			ExpiryDate:        m.ExpiryDate,
			FacilityName:      m.FacilityName,
		}
	}

	return report.Build(input, time.Now()), nil
}

func (s *InventoryService) withStatus(m *repository.Medicine, now time.Time) *MedicineWithStatus {
	entry := stock.Entry{
		Stock:             m.Stock,
		WeeklyRequirement: m.WeeklyRequirement,
		ExpiryDate:        m.ExpiryDate,
	}
	return &MedicineWithStatus{
		Medicine:     m,
		Status:       stock.Classify(entry, now),
		ExpiringSoon: stock.ExpiringSoon(m.ExpiryDate, now),
	}
}

func (s *InventoryService) alert(alertType string, m *repository.Medicine, status stock.Status) Alert {
	return Alert{
		Type:         alertType,
		MedicineID:   m.ID,
		MedicineName: m.Name,
		FacilityName: m.FacilityName,
		Stock:        m.Stock,
		Status:       status,
		ExpiryDate:   m.ExpiryDate,
	}
}
