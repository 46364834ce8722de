package types

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the closed set of classification job states. The store
// persists the text form; everything above the persistence edge works
// with this type, never raw strings.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the job may never leave this state again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// CanTransitionTo encodes the pending -> processing -> completed/failed
// lifecycle. Terminal states accept no further transitions.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusPending:
		return next == JobStatusProcessing || next == JobStatusFailed
	case JobStatusProcessing:
		return next == JobStatusCompleted || next == JobStatusFailed
	default:
		return false
	}
}

// ClassificationJob is one attempt to classify an Input against a
// Collection, carrying provider/model info and token/cost telemetry.
type ClassificationJob struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	InputID      uuid.UUID `gorm:"type:uuid;not null;index" json:"input_id"`
	CollectionID uuid.UUID `gorm:"type:uuid;not null;index" json:"collection_id"`

	Status       JobStatus `gorm:"type:text;not null;default:'pending';column:status" json:"status"`
	Priority     int       `gorm:"not null;default:0;column:priority" json:"priority"`
	AttemptCount int       `gorm:"not null;default:0;column:attempt_count" json:"attempt_count"`
	MaxAttempts  int       `gorm:"not null;default:3;column:max_attempts" json:"max_attempts"`
	ErrorMessage string    `gorm:"column:error_message" json:"error_message,omitempty"`

	Provider         string   `gorm:"column:provider" json:"provider"`
	Model            string   `gorm:"column:model" json:"model"`
	ResponseStatus   *int     `gorm:"column:response_status" json:"response_status,omitempty"`
	LatencyMs        *int     `gorm:"column:latency_ms" json:"latency_ms,omitempty"`
	PromptTokens     *int     `gorm:"column:prompt_tokens" json:"prompt_tokens,omitempty"`
	CompletionTokens *int     `gorm:"column:completion_tokens" json:"completion_tokens,omitempty"`
	TotalTokens      *int     `gorm:"column:total_tokens" json:"total_tokens,omitempty"`
	CostUSD          *float64 `gorm:"column:cost_usd" json:"cost_usd,omitempty"`

	ScheduledAt *time.Time `gorm:"column:scheduled_at;default:now()" json:"scheduled_at,omitempty"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
}

func (ClassificationJob) TableName() string {
	return "classification_jobs"
}
