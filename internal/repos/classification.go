package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

// ClassificationListFilter narrows List; zero values mean "no filter".
type ClassificationListFilter struct {
	InputID    *uuid.UUID
	JobID      *uuid.UUID
	CategoryID *uuid.UUID
	Limit      int
	Offset     int
}

type ClassificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, classifications []*types.Classification) ([]*types.Classification, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Classification, error)
	GetByInputID(ctx context.Context, tx *gorm.DB, inputID uuid.UUID) (*types.Classification, error)
	List(ctx context.Context, tx *gorm.DB, filter ClassificationListFilter) ([]*types.Classification, error)
}

type classificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassificationRepo(db *gorm.DB, baseLog *logger.Logger) ClassificationRepo {
	repoLog := baseLog.With("repo", "ClassificationRepo")
	return &classificationRepo{db: db, log: repoLog}
}

func (cr *classificationRepo) Create(ctx context.Context, tx *gorm.DB, classifications []*types.Classification) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(classifications) == 0 {
		return []*types.Classification{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&classifications).Error; err != nil {
		return nil, err
	}
	return classifications, nil
}

func (cr *classificationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Classification
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

// GetByInputID returns the most recent classification for an input, or
// nil, nil when the input has never been successfully classified.
func (cr *classificationRepo) GetByInputID(ctx context.Context, tx *gorm.DB, inputID uuid.UUID) (*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Classification
	err := transaction.WithContext(ctx).
		Where("input_id = ?", inputID).
		Order("created_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *classificationRepo) List(ctx context.Context, tx *gorm.DB, filter ClassificationListFilter) ([]*types.Classification, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Classification{})
	if filter.InputID != nil {
		query = query.Where("input_id = ?", *filter.InputID)
	}
	if filter.JobID != nil {
		query = query.Where("job_id = ?", *filter.JobID)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var results []*types.Classification
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
