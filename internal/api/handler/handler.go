package handler

import (
	"context"
	"log/slog"

	"github.com/cuongbtq/jobly-be/internal/api/events"
	"github.com/cuongbtq/jobly-be/internal/api/model"
	"github.com/cuongbtq/jobly-be/internal/api/storage"
	"github.com/cuongbtq/jobly-be/internal/api/storage/sqlbuild"
)

// JobRepository is implemented by *storage.Storage
type JobRepository interface {
	CreateJob(ctx context.Context, job *model.Job) (*model.Job, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]model.JobListing, error)
	GetJob(ctx context.Context, id int) (*model.JobDetail, error)
	UpdateJob(ctx context.Context, id int, data sqlbuild.Payload) (*model.Job, error)
	DeleteJob(ctx context.Context, id int) (int, error)
}

// HealthChecker reports whether the database is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Jobs      JobRepository
	Publisher events.Publisher
	Health    HealthChecker
}

// JobHandler handles job-related HTTP requests
type JobHandler struct {
	logger    *slog.Logger
	jobs      JobRepository
	publisher events.Publisher
}

// NewJobHandler creates a new JobHandler instance
func NewJobHandler(deps *Dependencies) *JobHandler {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}

	return &JobHandler{
		logger:    deps.Logger,
		jobs:      deps.Jobs,
		publisher: publisher,
	}
}
