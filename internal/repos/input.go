package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type InputRepo interface {
	Create(ctx context.Context, tx *gorm.DB, inputs []*types.Input) ([]*types.Input, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Input, error)
	FindByRawText(ctx context.Context, tx *gorm.DB, rawText string) (*types.Input, error)
}

type inputRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInputRepo(db *gorm.DB, baseLog *logger.Logger) InputRepo {
	repoLog := baseLog.With("repo", "InputRepo")
	return &inputRepo{db: db, log: repoLog}
}

func (ir *inputRepo) Create(ctx context.Context, tx *gorm.DB, inputs []*types.Input) ([]*types.Input, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(inputs) == 0 {
		return []*types.Input{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&inputs).Error; err != nil {
		return nil, err
	}
	return inputs, nil
}

func (ir *inputRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Input, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Input
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

// FindByRawText is the dedup lookup: exact text match, oldest row wins.
// Returns nil, nil on a cache miss.
func (ir *inputRepo) FindByRawText(ctx context.Context, tx *gorm.DB, rawText string) (*types.Input, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var result types.Input
	err := transaction.WithContext(ctx).
		Where("raw_text = ?", rawText).
		Order("created_at ASC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
