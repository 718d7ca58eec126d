package events

import (
	"context"

	"github.com/vetstock/vetstock-backend/pkg/logger"
	"github.com/vetstock/vetstock-backend/pkg/messaging"
)

// Publisher is the transport the inventory events go out on. Satisfied by
// messaging.Publisher and by testutil.MockPublisher.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// InventoryEventPublisher publishes inventory events. A nil publisher is
// valid and publishes nothing, for deployments without a broker.
type InventoryEventPublisher struct {
	publisher Publisher
	logger    *logger.Logger
}

// NewInventoryEventPublisher creates a publisher bound to the inventory
// topic exchange.
func NewInventoryEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*InventoryEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeInventoryEvents, "vetstock", log)
	if err != nil {
		return nil, err
	}

	return &InventoryEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// NewWithPublisher wires an alternative transport, used by tests.
func NewWithPublisher(publisher Publisher, log *logger.Logger) *InventoryEventPublisher {
	return &InventoryEventPublisher{
		publisher: publisher,
		logger:    log,
	}
}

// PublishUsageRecorded publishes a usage recorded event
func (p *InventoryEventPublisher) PublishUsageRecorded(ctx context.Context, event *messaging.UsageRecordedEvent) {
	if p == nil {
		return
	}

	if err := p.publisher.Publish(ctx, messaging.EventUsageRecorded, event); err != nil {
		p.logger.Error().Err(err).Int("medicine_id", event.MedicineID).Msg("failed to publish usage recorded event")
	}
}

// PublishStockAlert publishes a low stock or expired stock alert event
func (p *InventoryEventPublisher) PublishStockAlert(ctx context.Context, eventType string, event *messaging.StockAlertEvent) {
	if p == nil {
		return
	}

	if err := p.publisher.Publish(ctx, eventType, event); err != nil {
		p.logger.Error().Err(err).Int("medicine_id", event.MedicineID).Msg("failed to publish stock alert event")
	}
}
