// Package messaging provides RabbitMQ connectivity and event publishing.
package messaging

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/vetstock/vetstock-backend/pkg/config"
	"github.com/vetstock/vetstock-backend/pkg/logger"
)

// RabbitMQ manages a publish-only connection to the broker. A lost
// connection is re-established in the background; publishes that race a
// reconnect fail and are logged by the caller, never retried.
type RabbitMQ struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	config    *config.RabbitMQConfig
	logger    *logger.Logger
	mu        sync.RWMutex
	closed    bool
	exchanges []string
}

// New connects to RabbitMQ and starts the reconnect watcher
func New(cfg *config.RabbitMQConfig, log *logger.Logger) (*RabbitMQ, error) {
	rmq := &RabbitMQ{
		config: cfg,
		logger: log,
	}

	if err := rmq.connect(); err != nil {
		return nil, err
	}

	go rmq.watch()
	return rmq, nil
}

// connect dials the broker and opens the publishing channel. Callers hold mu.
func (r *RabbitMQ) connect() error {
	conn, err := amqp.Dial(r.config.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	r.conn = conn
	r.channel = channel
	r.logger.Info().Msg("connected to RabbitMQ")
	return nil
}

// watch blocks on connection close notifications and reconnects until the
// retry budget runs out or Close is called.
func (r *RabbitMQ) watch() {
	for {
		r.mu.RLock()
		conn := r.conn
		r.mu.RUnlock()

		amqpErr, ok := <-conn.NotifyClose(make(chan *amqp.Error, 1))
		if !ok || amqpErr == nil {
			return
		}
		r.logger.Warn().Err(amqpErr).Msg("RabbitMQ connection lost")

		if !r.reconnect() {
			return
		}
	}
}

func (r *RabbitMQ) reconnect() bool {
	for attempt := 1; attempt <= r.config.MaxRetries; attempt++ {
		r.mu.Lock()
		if r.closed {
			r.mu.Unlock()
			return false
		}

		r.logger.Info().Int("attempt", attempt).Msg("reconnecting to RabbitMQ")
		err := r.connect()
		if err == nil {
			err = r.redeclareExchanges()
		}
		r.mu.Unlock()

		if err == nil {
			return true
		}
		r.logger.Warn().Err(err).Msg("reconnection attempt failed")
		time.Sleep(r.config.ReconnectDelay)
	}

	r.logger.Error().Int("attempts", r.config.MaxRetries).Msg("giving up on RabbitMQ reconnection")
	return false
}

func (r *RabbitMQ) redeclareExchanges() error {
	for _, name := range r.exchanges {
		if err := r.declareExchange(name); err != nil {
			return err
		}
	}
	return nil
}

func (r *RabbitMQ) declareExchange(name string) error {
	return r.channel.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
}

// DeclareExchange declares a durable topic exchange and remembers it so it
// is redeclared after a reconnect.
func (r *RabbitMQ) DeclareExchange(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.declareExchange(name); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", name, err)
	}
	r.exchanges = append(r.exchanges, name)
	return nil
}

// Channel returns the current publishing channel
func (r *RabbitMQ) Channel() *amqp.Channel {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.channel
}

// Close shuts the connection down permanently
func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			r.logger.Warn().Err(err).Msg("failed to close channel")
		}
	}

	if r.conn != nil {
		if err := r.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}

	r.logger.Info().Msg("RabbitMQ connection closed")
	return nil
}

// Health reports the broker connection state for the health endpoint
func (r *RabbitMQ) Health() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.conn == nil || r.conn.IsClosed() {
		return map[string]string{
			"status": "down",
			"error":  "connection closed",
		}
	}

	return map[string]string{"status": "up"}
}
