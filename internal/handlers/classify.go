package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/repos"
	"github.com/hrdesk/hrdesk-backend/internal/requestdata"
	"github.com/hrdesk/hrdesk-backend/internal/services"
)

const maxIssueTextLength = 10000

type ClassifyHandler struct {
	log                   *logger.Logger
	classificationService services.ClassificationService
	feedbackService       services.FeedbackService
	defaultCollection     string
}

func NewClassifyHandler(log *logger.Logger, classificationService services.ClassificationService, feedbackService services.FeedbackService, defaultCollection string) *ClassifyHandler {
	handlerLog := log.With("handler", "ClassifyHandler")
	return &ClassifyHandler{
		log:                   handlerLog,
		classificationService: classificationService,
		feedbackService:       feedbackService,
		defaultCollection:     defaultCollection,
	}
}

type classifyIssueRequest struct {
	Text string `json:"text"`
}

func (ch *ClassifyHandler) ClassifyIssue(c *gin.Context) {
	var req classifyIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be JSON with a text field")
		return
	}
	if len(req.Text) == 0 || len(req.Text) > maxIssueTextLength {
		badRequest(c, "text must be between 1 and 10000 characters")
		return
	}

	resp, err := ch.classificationService.ClassifyAndStore(c.Request.Context(), services.ClassifyAndStoreParams{
		Text:           req.Text,
		CollectionName: ch.defaultCollection,
		Source:         "api",
	})
	if err != nil {
		ch.log.Error("Classification request failed", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

type classifyBatchRequest struct {
	Texts []string `json:"texts"`
}

func (ch *ClassifyHandler) ClassifyIssueBatch(c *gin.Context) {
	var req classifyBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be JSON with a texts array")
		return
	}
	if len(req.Texts) == 0 {
		badRequest(c, "texts must contain at least one entry")
		return
	}
	for _, text := range req.Texts {
		if len(text) == 0 || len(text) > maxIssueTextLength {
			badRequest(c, "every text must be between 1 and 10000 characters")
			return
		}
	}

	resp, err := ch.classificationService.ClassifyBatch(c.Request.Context(), req.Texts, services.ClassifyAndStoreParams{
		CollectionName: ch.defaultCollection,
		Source:         "batch",
	})
	if err != nil {
		ch.log.Error("Batch classification request failed", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (ch *ClassifyHandler) GetClassification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid classification id")
		return
	}
	classification, err := ch.classificationService.GetClassificationByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if classification == nil {
		notFound(c, "classification not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"classification": classification})
}

func (ch *ClassifyHandler) ListClassifications(c *gin.Context) {
	filter := repos.ClassificationListFilter{}
	if raw := c.Query("inputId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid inputId filter")
			return
		}
		filter.InputID = &id
	}
	if raw := c.Query("jobId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid jobId filter")
			return
		}
		filter.JobID = &id
	}
	if raw := c.Query("categoryId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			badRequest(c, "invalid categoryId filter")
			return
		}
		filter.CategoryID = &id
	}
	results, err := ch.classificationService.ListClassifications(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classifications": results, "total": len(results)})
}

func (ch *ClassifyHandler) GetInput(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid input id")
		return
	}
	input, err := ch.classificationService.GetInputByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if input == nil {
		notFound(c, "input not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"input": input})
}

type feedbackRequest struct {
	CorrectCategoryID *uuid.UUID `json:"correctCategoryId"`
	IsCorrect         *bool      `json:"isCorrect"`
}

func (ch *ClassifyHandler) RecordFeedback(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid classification id")
		return
	}
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "request body must be JSON")
		return
	}
	var userID *uuid.UUID
	if rd := requestdata.GetRequestData(c.Request.Context()); rd != nil {
		userID = &rd.UserID
	}
	feedback, err := ch.feedbackService.RecordFeedback(c.Request.Context(), services.RecordFeedbackParams{
		ClassificationID:  id,
		UserID:            userID,
		CorrectCategoryID: req.CorrectCategoryID,
		IsCorrect:         req.IsCorrect,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"feedback": feedback})
}
