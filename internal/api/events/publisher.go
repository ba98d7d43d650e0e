package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/jobly-be/internal/api/domain"
	"github.com/google/uuid"
)

const contentTypeJSON = "application/json"

// Broker is the part of the RabbitMQ client used to publish events
type Broker interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Publisher announces job mutations
type Publisher interface {
	Publish(ctx context.Context, eventType string, jobID int) error
}

// BrokerPublisher publishes job events as JSON through a Broker
type BrokerPublisher struct {
	broker Broker
	logger *slog.Logger
	now    func() time.Time
}

// NewBrokerPublisher creates a new BrokerPublisher
func NewBrokerPublisher(broker Broker, logger *slog.Logger) *BrokerPublisher {
	return &BrokerPublisher{
		broker: broker,
		logger: logger,
		now:    time.Now,
	}
}

// Publish sends a single event
func (p *BrokerPublisher) Publish(ctx context.Context, eventType string, jobID int) error {
	if !domain.IsKnownEventType(eventType) {
		return fmt.Errorf("unknown job event type %q", eventType)
	}

	event := domain.JobEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		JobID:      jobID,
		OccurredAt: p.now().UTC(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal job event: %w", err)
	}

	if err := p.broker.PublishWithRetry(ctx, body, contentTypeJSON); err != nil {
		return fmt.Errorf("failed to publish job event: %w", err)
	}

	p.logger.Debug("Job event published",
		slog.String("event_id", event.EventID),
		slog.String("type", event.Type),
		slog.Int("job_id", jobID),
	)

	return nil
}

// NopPublisher drops every event. Used when RabbitMQ is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, int) error {
	return nil
}
