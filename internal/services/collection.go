package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/repos"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type CreateCollectionParams struct {
	Name        string
	Description string
	WorkspaceID *uuid.UUID
}

type CreateCategoryParams struct {
	CollectionID uuid.UUID
	Name         string
	Description  string
	ParentID     *uuid.UUID
	OrderIndex   *int
}

// CollectionService is the admin CRUD surface over collections and
// their category rows. It mutates the same rows the taxonomy store
// reads; no cache invalidation is needed because taxonomy reads are
// always fresh per request.
type CollectionService interface {
	ListCollections(ctx context.Context) ([]*types.Collection, error)
	GetCollection(ctx context.Context, id uuid.UUID) (*types.Collection, error)
	CreateCollection(ctx context.Context, params CreateCollectionParams) (*types.Collection, error)
	UpdateCollection(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Collection, error)
	DeleteCollection(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context, collectionID uuid.UUID) ([]*types.CollectionCategory, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*types.CollectionCategory, error)
	CreateCategory(ctx context.Context, params CreateCategoryParams) (*types.CollectionCategory, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.CollectionCategory, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type collectionService struct {
	db             *gorm.DB
	log            *logger.Logger
	collectionRepo repos.CollectionRepo
	categoryRepo   repos.CategoryRepo
}

func NewCollectionService(db *gorm.DB, log *logger.Logger, collectionRepo repos.CollectionRepo, categoryRepo repos.CategoryRepo) CollectionService {
	serviceLog := log.With("service", "CollectionService")
	return &collectionService{
		db:             db,
		log:            serviceLog,
		collectionRepo: collectionRepo,
		categoryRepo:   categoryRepo,
	}
}

func (cs *collectionService) ListCollections(ctx context.Context) ([]*types.Collection, error) {
	return cs.collectionRepo.List(ctx, nil)
}

func (cs *collectionService) GetCollection(ctx context.Context, id uuid.UUID) (*types.Collection, error) {
	rows, err := cs.collectionRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (cs *collectionService) CreateCollection(ctx context.Context, params CreateCollectionParams) (*types.Collection, error) {
	collection := &types.Collection{
		ID:          uuid.New(),
		WorkspaceID: params.WorkspaceID,
		Name:        params.Name,
		Description: params.Description,
	}
	if _, err := cs.collectionRepo.Create(ctx, nil, []*types.Collection{collection}); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return collection, nil
}

func (cs *collectionService) UpdateCollection(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.Collection, error) {
	if err := cs.collectionRepo.Update(ctx, nil, id, updates); err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}
	return cs.GetCollection(ctx, id)
}

// DeleteCollection removes the collection and all of its category rows.
func (cs *collectionService) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_id = ?", id).Delete(&types.CollectionCategory{}).Error; err != nil {
			return fmt.Errorf("delete collection categories: %w", err)
		}
		if err := cs.collectionRepo.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("delete collection: %w", err)
		}
		return nil
	})
}

func (cs *collectionService) ListCategories(ctx context.Context, collectionID uuid.UUID) ([]*types.CollectionCategory, error) {
	return cs.categoryRepo.ListByCollection(ctx, nil, collectionID)
}

func (cs *collectionService) GetCategory(ctx context.Context, id uuid.UUID) (*types.CollectionCategory, error) {
	rows, err := cs.categoryRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// CreateCategory enforces the two-level hierarchy invariant: a parent
// reference must point at a top-level row in the same collection.
func (cs *collectionService) CreateCategory(ctx context.Context, params CreateCategoryParams) (*types.CollectionCategory, error) {
	if params.ParentID != nil {
		parents, err := cs.categoryRepo.GetByIDs(ctx, nil, []uuid.UUID{*params.ParentID})
		if err != nil {
			return nil, fmt.Errorf("load parent category: %w", err)
		}
		if len(parents) == 0 {
			return nil, fmt.Errorf("parent category not found: %s", *params.ParentID)
		}
		parent := parents[0]
		if parent.CollectionID != params.CollectionID {
			return nil, fmt.Errorf("parent category %s belongs to a different collection", parent.ID)
		}
		if parent.ParentID != nil {
			return nil, fmt.Errorf("parent category %s is itself a subcategory", parent.ID)
		}
	}
	category := &types.CollectionCategory{
		ID:           uuid.New(),
		CollectionID: params.CollectionID,
		Name:         params.Name,
		Description:  params.Description,
		ParentID:     params.ParentID,
		OrderIndex:   params.OrderIndex,
	}
	if _, err := cs.categoryRepo.Create(ctx, nil, []*types.CollectionCategory{category}); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func (cs *collectionService) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*types.CollectionCategory, error) {
	if err := cs.categoryRepo.Update(ctx, nil, id, updates); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return cs.GetCategory(ctx, id)
}

// DeleteCategory removes a category row and, for top-level rows, its
// children with it.
func (cs *collectionService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("parent_id = ?", id).Delete(&types.CollectionCategory{}).Error; err != nil {
			return fmt.Errorf("delete subcategories: %w", err)
		}
		if err := cs.categoryRepo.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}
