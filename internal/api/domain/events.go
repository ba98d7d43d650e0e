package domain

import "time"

// Job event types published after a successful mutation
const (
	EventJobCreated = "job.created"
	EventJobUpdated = "job.updated"
	EventJobDeleted = "job.deleted"
)

// JobEvent is the message body published to RabbitMQ
type JobEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	JobID      int       `json:"job_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// IsKnownEventType reports whether t is one of the job event types
func IsKnownEventType(t string) bool {
	switch t {
	case EventJobCreated, EventJobUpdated, EventJobDeleted:
		return true
	default:
		return false
	}
}
