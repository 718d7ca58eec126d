package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Exchange and routing keys for inventory events
const (
	ExchangeInventoryEvents = "inventory.events"

	EventMedicineCreated = "inventory.medicine.created"
	EventMedicineDeleted = "inventory.medicine.deleted"
	EventUsageRecorded   = "inventory.usage.recorded"
	EventStockLow        = "inventory.stock.low"
	EventStockExpired    = "inventory.stock.expired"
)

// Event is the envelope for all published messages
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// NewEvent creates an event envelope with a generated ID and current timestamp
func NewEvent(eventType, source string, data json.RawMessage) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// UsageRecordedEvent is published after a successful ledger transaction
type UsageRecordedEvent struct {
	MedicineID     int    `json:"medicine_id"`
	MedicineName   string `json:"medicine_name"`
	Quantity       int    `json:"quantity"`
	RemainingStock int    `json:"remaining_stock"`
	FacilityID     int    `json:"facility_id"`
}

// StockAlertEvent is published when a deduction crosses an alert threshold
type StockAlertEvent struct {
	MedicineID   int    `json:"medicine_id"`
	MedicineName string `json:"medicine_name"`
	AlertType    string `json:"alert_type"`
	Stock        int    `json:"stock"`
	Threshold    int    `json:"threshold"`
}
