package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/repos"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

// TaxonomyService rebuilds the two-level category tree the classifier
// consumes from the flat collection_categories rows.
type TaxonomyService interface {
	GetTaxonomy(ctx context.Context, collectionName string) ([]types.TaxonomyCategory, error)
}

type taxonomyService struct {
	db             *gorm.DB
	log            *logger.Logger
	collectionRepo repos.CollectionRepo
	categoryRepo   repos.CategoryRepo
}

func NewTaxonomyService(db *gorm.DB, log *logger.Logger, collectionRepo repos.CollectionRepo, categoryRepo repos.CategoryRepo) TaxonomyService {
	serviceLog := log.With("service", "TaxonomyService")
	return &taxonomyService{
		db:             db,
		log:            serviceLog,
		collectionRepo: collectionRepo,
		categoryRepo:   categoryRepo,
	}
}

// GetTaxonomy fails softly on a missing collection: it logs a warning
// and returns an empty tree. Callers must treat an empty taxonomy as a
// hard error before invoking the model, since classifying against zero
// categories is meaningless.
func (ts *taxonomyService) GetTaxonomy(ctx context.Context, collectionName string) ([]types.TaxonomyCategory, error) {
	collection, err := ts.collectionRepo.GetByName(ctx, nil, collectionName)
	if err != nil {
		return nil, err
	}
	if collection == nil {
		ts.log.Warn("Collection not found, returning empty taxonomy", "collection_name", collectionName)
		return []types.TaxonomyCategory{}, nil
	}

	rows, err := ts.categoryRepo.ListByCollection(ctx, nil, collection.ID)
	if err != nil {
		return nil, err
	}

	var parents []*types.CollectionCategory
	var children []*types.CollectionCategory
	for _, row := range rows {
		if row.ParentID == nil {
			parents = append(parents, row)
		} else {
			children = append(children, row)
		}
	}

	result := make([]types.TaxonomyCategory, 0, len(parents))
	for _, parent := range parents {
		var subcats []types.TaxonomySubcategory
		for _, child := range children {
			if *child.ParentID == parent.ID {
				subcats = append(subcats, types.TaxonomySubcategory{
					Name:        child.Name,
					Description: child.Description,
				})
			}
		}
		result = append(result, types.TaxonomyCategory{
			Category:      parent.Name,
			Description:   parent.Description,
			Subcategories: subcats,
		})
	}
	return result, nil
}
