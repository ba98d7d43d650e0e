package domain

import "time"

// Job event types consumed from RabbitMQ
const (
	EventJobCreated = "job.created"
	EventJobUpdated = "job.updated"
	EventJobDeleted = "job.deleted"
)

// JobEvent is a job-listing change announced by the API service
type JobEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	JobID      int       `json:"job_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
