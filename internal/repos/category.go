package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type CategoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, categories []*types.CollectionCategory) ([]*types.CollectionCategory, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CollectionCategory, error)
	ListByCollection(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) ([]*types.CollectionCategory, error)
	FindTopLevelByName(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID, name string) (*types.CollectionCategory, error)
	FindChildByName(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID, parentID uuid.UUID, name string) (*types.CollectionCategory, error)
	Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type categoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
	repoLog := baseLog.With("repo", "CategoryRepo")
	return &categoryRepo{db: db, log: repoLog}
}

func (cr *categoryRepo) Create(ctx context.Context, tx *gorm.DB, categories []*types.CollectionCategory) ([]*types.CollectionCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(categories) == 0 {
		return []*types.CollectionCategory{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (cr *categoryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CollectionCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.CollectionCategory
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

func (cr *categoryRepo) ListByCollection(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID) ([]*types.CollectionCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var results []*types.CollectionCategory
	if err := transaction.WithContext(ctx).
		Where("collection_id = ?", collectionID).
		Order("order_index ASC NULLS LAST, created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// FindTopLevelByName matches a parentless row by exact name. Returns
// nil, nil when absent; the caller decides whether that is an error.
func (cr *categoryRepo) FindTopLevelByName(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID, name string) (*types.CollectionCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.CollectionCategory
	err := transaction.WithContext(ctx).
		Where("collection_id = ? AND name = ? AND parent_id IS NULL", collectionID, name).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindChildByName matches a subcategory by exact name under the given
// parent. The collection filter keeps the lookup hierarchy-strict even
// if two collections reuse a name.
func (cr *categoryRepo) FindChildByName(ctx context.Context, tx *gorm.DB, collectionID uuid.UUID, parentID uuid.UUID, name string) (*types.CollectionCategory, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.CollectionCategory
	err := transaction.WithContext(ctx).
		Where("collection_id = ? AND name = ? AND parent_id = ?", collectionID, name, parentID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *categoryRepo) Update(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(updates) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.CollectionCategory{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (cr *categoryRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.CollectionCategory{}).Error
}
