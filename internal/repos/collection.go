package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type CollectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, collections []*types.Collection) ([]*types.Collection, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Collection, error)
	GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Collection, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Collection, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type collectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollectionRepo(db *gorm.DB, baseLog *logger.Logger) CollectionRepo {
	repoLog := baseLog.With("repo", "CollectionRepo")
	return &collectionRepo{db: db, log: repoLog}
}

func (cr *collectionRepo) Create(ctx context.Context, tx *gorm.DB, collections []*types.Collection) ([]*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(collections) == 0 {
		return []*types.Collection{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

func (cr *collectionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Collection
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

// GetByName returns nil, nil when no collection carries the name.
func (cr *collectionRepo) GetByName(ctx context.Context, tx *gorm.DB, name string) (*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.Collection
	err := transaction.WithContext(ctx).
		Where("name = ?", name).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *collectionRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Collection, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.Collection
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *collectionRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Collection{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (cr *collectionRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Collection{}).Error
}
