package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrdesk/hrdesk-backend/internal/services"
)

type CollectionHandler struct {
	collectionService services.CollectionService
}

func NewCollectionHandler(collectionService services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

func (h *CollectionHandler) ListCollections(c *gin.Context) {
	collections, err := h.collectionService.ListCollections(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collections": collections, "total": len(collections)})
}

func (h *CollectionHandler) GetCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid collection id")
		return
	}
	collection, err := h.collectionService.GetCollection(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if collection == nil {
		notFound(c, "collection not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

type createCollectionRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	WorkspaceID *uuid.UUID `json:"workspaceId"`
}

func (h *CollectionHandler) CreateCollection(c *gin.Context) {
	var req createCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		badRequest(c, "name is required")
		return
	}
	collection, err := h.collectionService.CreateCollection(c.Request.Context(), services.CreateCollectionParams{
		Name:        req.Name,
		Description: req.Description,
		WorkspaceID: req.WorkspaceID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"collection": collection})
}

type updateCollectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *CollectionHandler) UpdateCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid collection id")
		return
	}
	var req updateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be JSON")
		return
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			badRequest(c, "name must not be empty")
			return
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	collection, err := h.collectionService.UpdateCollection(c.Request.Context(), id, updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"collection": collection})
}

func (h *CollectionHandler) DeleteCollection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid collection id")
		return
	}
	if err := h.collectionService.DeleteCollection(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func (h *CollectionHandler) ListCategories(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid collection id")
		return
	}
	categories, err := h.collectionService.ListCategories(c.Request.Context(), collectionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories, "total": len(categories)})
}

func (h *CollectionHandler) GetCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid category id")
		return
	}
	category, err := h.collectionService.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if category == nil {
		notFound(c, "category not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

type createCategoryRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
	OrderIndex  *int       `json:"orderIndex"`
}

func (h *CollectionHandler) CreateCategory(c *gin.Context) {
	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid collection id")
		return
	}
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		badRequest(c, "name is required")
		return
	}
	category, err := h.collectionService.CreateCategory(c.Request.Context(), services.CreateCategoryParams{
		CollectionID: collectionID,
		Name:         req.Name,
		Description:  req.Description,
		ParentID:     req.ParentID,
		OrderIndex:   req.OrderIndex,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

type updateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"orderIndex"`
}

func (h *CollectionHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid category id")
		return
	}
	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be JSON")
		return
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			badRequest(c, "name must not be empty")
			return
		}
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.OrderIndex != nil {
		updates["order_index"] = *req.OrderIndex
	}
	category, err := h.collectionService.UpdateCategory(c.Request.Context(), id, updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (h *CollectionHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid category id")
		return
	}
	if err := h.collectionService.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
