package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type ClassificationFeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, feedback []*types.ClassificationFeedback) ([]*types.ClassificationFeedback, error)
}

type classificationFeedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassificationFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) ClassificationFeedbackRepo {
	repoLog := baseLog.With("repo", "ClassificationFeedbackRepo")
	return &classificationFeedbackRepo{db: db, log: repoLog}
}

func (fr *classificationFeedbackRepo) Create(ctx context.Context, tx *gorm.DB, feedback []*types.ClassificationFeedback) ([]*types.ClassificationFeedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(feedback) == 0 {
		return []*types.ClassificationFeedback{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}
