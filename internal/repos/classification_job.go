package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

// JobStatusUpdate carries a status transition. Timestamps are only
// written when set, so a completed/failed transition stamps CompletedAt
// without touching StartedAt.
type JobStatusUpdate struct {
	Status       types.JobStatus
	StartedAt    *time.Time
	CompletedAt  *time.Time
	ErrorMessage string
}

// JobMetricsUpdate carries the post-call telemetry written onto a job.
type JobMetricsUpdate struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	CostUSD          float64
	LatencyMs        int
	ResponseStatus   int
}

type ClassificationJobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, jobs []*types.ClassificationJob) ([]*types.ClassificationJob, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ClassificationJob, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, update JobStatusUpdate) error
	UpdateMetrics(ctx context.Context, tx *gorm.DB, id uuid.UUID, update JobMetricsUpdate) error
}

type classificationJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassificationJobRepo(db *gorm.DB, baseLog *logger.Logger) ClassificationJobRepo {
	repoLog := baseLog.With("repo", "ClassificationJobRepo")
	return &classificationJobRepo{db: db, log: repoLog}
}

func (jr *classificationJobRepo) Create(ctx context.Context, tx *gorm.DB, jobs []*types.ClassificationJob) ([]*types.ClassificationJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	if len(jobs) == 0 {
		return []*types.ClassificationJob{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (jr *classificationJobRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ClassificationJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	var results []*types.ClassificationJob
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (jr *classificationJobRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, update JobStatusUpdate) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	updates := map[string]interface{}{
		"status": update.Status,
	}
	if update.StartedAt != nil {
		updates["started_at"] = *update.StartedAt
	}
	if update.CompletedAt != nil {
		updates["completed_at"] = *update.CompletedAt
	}
	if update.ErrorMessage != "" {
		updates["error_message"] = update.ErrorMessage
	}
	return transaction.WithContext(ctx).
		Model(&types.ClassificationJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (jr *classificationJobRepo) UpdateMetrics(ctx context.Context, tx *gorm.DB, id uuid.UUID, update JobMetricsUpdate) error {
	transaction := tx
	if transaction == nil {
		transaction = jr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.ClassificationJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"prompt_tokens":     update.PromptTokens,
			"completion_tokens": update.CompletionTokens,
			"total_tokens":      update.TotalTokens,
			"cost_usd":          update.CostUSD,
			"latency_ms":        update.LatencyMs,
			"response_status":   update.ResponseStatus,
		}).Error
}
