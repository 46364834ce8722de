package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrdesk/hrdesk-backend/internal/services"
)

type WorkspaceHandler struct {
	workspaceService services.WorkspaceService
}

func NewWorkspaceHandler(workspaceService services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

func (wh *WorkspaceHandler) ListWorkspaces(c *gin.Context) {
	workspaces, err := wh.workspaceService.ListWorkspaces(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces, "total": len(workspaces)})
}

type createWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (wh *WorkspaceHandler) CreateWorkspace(c *gin.Context) {
	var req createWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		badRequest(c, "name is required")
		return
	}
	workspace, err := wh.workspaceService.CreateWorkspace(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"workspace": workspace})
}
