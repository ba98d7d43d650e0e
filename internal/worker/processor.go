package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobly-be/internal/worker/domain"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// handleDelivery processes one message and acks or nacks it
func (w *Worker) handleDelivery(ctx context.Context, workerName string, d amqp.Delivery) {
	err := w.processEvent(ctx, d.Body)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			w.logger.Error("Failed to ACK message",
				slog.String("worker_name", workerName),
				slog.Any("error", ackErr),
			)
		}
		return
	}

	requeue := shouldRequeue(err, d.Redelivered)
	w.logger.Error("Job event processing failed",
		slog.String("worker_name", workerName),
		slog.Uint64("delivery_tag", d.DeliveryTag),
		slog.Bool("requeue", requeue),
		slog.Any("error", err),
	)

	if nackErr := d.Nack(false, requeue); nackErr != nil {
		w.logger.Error("Failed to NACK message",
			slog.String("worker_name", workerName),
			slog.Any("error", nackErr),
		)
	}
}

// processEvent decodes, validates and records a job event
func (w *Worker) processEvent(ctx context.Context, body []byte) error {
	event, err := decodeEvent(body)
	if err != nil {
		return err
	}

	eventCtx := ctx
	if w.eventTimeout > 0 {
		var cancel context.CancelFunc
		eventCtx, cancel = context.WithTimeout(ctx, w.eventTimeout)
		defer cancel()
	}

	recorded, err := w.store.RecordEvent(eventCtx, event)
	if err != nil {
		return domain.NewRetryableError(err)
	}

	if recorded {
		w.logger.Info("Job event recorded",
			slog.String("event_id", event.EventID),
			slog.String("type", event.Type),
			slog.Int("job_id", event.JobID),
		)
	}

	return nil
}

func decodeEvent(body []byte) (*domain.JobEvent, error) {
	var event domain.JobEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidEvent, err)
	}

	switch event.Type {
	case domain.EventJobCreated, domain.EventJobUpdated, domain.EventJobDeleted:
	default:
		return nil, fmt.Errorf("%w: unknown type %q", domain.ErrInvalidEvent, event.Type)
	}

	if event.JobID <= 0 {
		return nil, fmt.Errorf("%w: job_id must be positive", domain.ErrInvalidEvent)
	}

	if _, err := uuid.Parse(event.EventID); err != nil {
		return nil, fmt.Errorf("%w: event_id: %v", domain.ErrInvalidEvent, err)
	}

	if event.OccurredAt.IsZero() {
		return nil, fmt.Errorf("%w: occurred_at is required", domain.ErrInvalidEvent)
	}

	return &event, nil
}

// shouldRequeue requeues transient failures once. A redelivered message that
// fails again is dropped so a broken database does not spin the queue.
func shouldRequeue(err error, redelivered bool) bool {
	if errors.Is(err, domain.ErrInvalidEvent) {
		return false
	}

	var retryableErr *domain.RetryableError
	if errors.As(err, &retryableErr) {
		return !redelivered
	}

	return false
}
