package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type WorkspaceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, workspaces []*types.Workspace) ([]*types.Workspace, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Workspace, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Workspace, error)
}

type workspaceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWorkspaceRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceRepo {
	repoLog := baseLog.With("repo", "WorkspaceRepo")
	return &workspaceRepo{db: db, log: repoLog}
}

func (wr *workspaceRepo) Create(ctx context.Context, tx *gorm.DB, workspaces []*types.Workspace) ([]*types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	if len(workspaces) == 0 {
		return []*types.Workspace{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&workspaces).Error; err != nil {
		return nil, err
	}
	return workspaces, nil
}

func (wr *workspaceRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	var results []*types.Workspace
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

func (wr *workspaceRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Workspace, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	var results []*types.Workspace
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
