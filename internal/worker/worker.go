package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuongbtq/jobly-be/internal/worker/domain"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
)

// DeliverySource is implemented by *rabbitmq.Client
type DeliverySource interface {
	Consume(consumerTag string, prefetch int) (<-chan amqp.Delivery, error)
}

// EventStore is implemented by *storage.Storage
type EventStore interface {
	RecordEvent(ctx context.Context, event *domain.JobEvent) (bool, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Source        DeliverySource
	Store         EventStore
	Concurrency   int
	PrefetchCount int
	EventTimeout  time.Duration
}

// Worker consumes job events and records them
type Worker struct {
	logger        *slog.Logger
	source        DeliverySource
	store         EventStore
	concurrency   int
	prefetchCount int
	eventTimeout  time.Duration
	workerID      string
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		logger:        cfg.Logger,
		source:        cfg.Source,
		store:         cfg.Store,
		concurrency:   concurrency,
		prefetchCount: cfg.PrefetchCount,
		eventTimeout:  cfg.EventTimeout,
		workerID:      "worker-" + uuid.NewString()[:8],
	}
}

// Start consumes until ctx is canceled or the delivery channel closes.
// Events already handed to the pool are finished before Start returns.
func (w *Worker) Start(ctx context.Context) error {
	deliveries, err := w.source.Consume(w.workerID, w.prefetchCount)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("event_timeout", w.eventTimeout),
	)

	return w.run(ctx, deliveries)
}

func (w *Worker) run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	jobs := make(chan amqp.Delivery)

	// processing uses a context that outlives ctx so that in-flight events
	// are recorded and acked during shutdown
	processCtx := context.WithoutCancel(ctx)

	var g errgroup.Group

	g.Go(func() error {
		defer close(jobs)
		w.dispatch(ctx, deliveries, jobs)
		return nil
	})

	for i := 0; i < w.concurrency; i++ {
		workerName := fmt.Sprintf("%s-%d", w.workerID, i)
		g.Go(func() error {
			for d := range jobs {
				w.handleDelivery(processCtx, workerName, d)
			}
			w.logger.Debug("Worker goroutine stopped", slog.String("worker_name", workerName))
			return nil
		})
	}

	err := g.Wait()
	w.logger.Info("Worker stopped", slog.String("worker_id", w.workerID))
	return err
}

// dispatch forwards deliveries to the pool until ctx is done or deliveries closes
func (w *Worker) dispatch(ctx context.Context, deliveries <-chan amqp.Delivery, jobs chan<- amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return

		case d, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			select {
			case jobs <- d:
			case <-ctx.Done():
				if err := d.Nack(false, true); err != nil {
					w.logger.Error("Failed to NACK message on shutdown",
						slog.Any("error", err),
					)
				}
				return
			}
		}
	}
}
