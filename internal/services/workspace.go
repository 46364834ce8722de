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

type WorkspaceService interface {
	ListWorkspaces(ctx context.Context) ([]*types.Workspace, error)
	GetWorkspace(ctx context.Context, id uuid.UUID) (*types.Workspace, error)
	CreateWorkspace(ctx context.Context, name, description string) (*types.Workspace, error)
}

type workspaceService struct {
	db            *gorm.DB
	log           *logger.Logger
	workspaceRepo repos.WorkspaceRepo
}

func NewWorkspaceService(db *gorm.DB, log *logger.Logger, workspaceRepo repos.WorkspaceRepo) WorkspaceService {
	serviceLog := log.With("service", "WorkspaceService")
	return &workspaceService{db: db, log: serviceLog, workspaceRepo: workspaceRepo}
}

func (ws *workspaceService) ListWorkspaces(ctx context.Context) ([]*types.Workspace, error) {
	return ws.workspaceRepo.List(ctx, nil)
}

func (ws *workspaceService) GetWorkspace(ctx context.Context, id uuid.UUID) (*types.Workspace, error) {
	rows, err := ws.workspaceRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (ws *workspaceService) CreateWorkspace(ctx context.Context, name, description string) (*types.Workspace, error) {
	if name == "" {
		return nil, fmt.Errorf("workspace name is required")
	}
	workspace := &types.Workspace{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
	}
	if _, err := ws.workspaceRepo.Create(ctx, nil, []*types.Workspace{workspace}); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return workspace, nil
}
