package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/repos"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

type ClassifyAndStoreParams struct {
	Text           string
	WorkspaceID    *uuid.UUID
	APIKeyID       *uuid.UUID
	CollectionName string
	Source         string
	Provider       string
	Model          string
}

type ClassificationResponse struct {
	InputID          uuid.UUID            `json:"inputId"`
	JobID            uuid.UUID            `json:"jobId"`
	ClassificationID uuid.UUID            `json:"classificationId"`
	Result           ClassificationResult `json:"result"`
	TokenUsage       TokenUsage           `json:"tokenUsage"`
}

type BatchClassificationResponse struct {
	Results     []ClassificationResponse `json:"results"`
	TotalTokens int                      `json:"totalTokens"`
	TotalCost   float64                  `json:"totalCost"`
}

// ClassificationService is the orchestrator: dedup check, input and job
// lifecycle, LLM invocation, category resolution, result persistence,
// and metric accounting for one classification request.
type ClassificationService interface {
	ClassifyAndStore(ctx context.Context, params ClassifyAndStoreParams) (*ClassificationResponse, error)
	ClassifyBatch(ctx context.Context, texts []string, params ClassifyAndStoreParams) (*BatchClassificationResponse, error)
	GetClassificationByID(ctx context.Context, id uuid.UUID) (*types.Classification, error)
	ListClassifications(ctx context.Context, filter repos.ClassificationListFilter) ([]*types.Classification, error)
	GetInputByID(ctx context.Context, id uuid.UUID) (*types.Input, error)
}

type classificationService struct {
	db              *gorm.DB
	log             *logger.Logger
	taxonomyService TaxonomyService
	classifier      ClassifierService
	collectionRepo  repos.CollectionRepo
	categoryRepo    repos.CategoryRepo
	inputRepo       repos.InputRepo
	jobRepo         repos.ClassificationJobRepo
	resultRepo      repos.ClassificationRepo
	defaultProvider string
	defaultModel    string
	llmTimeout      time.Duration
}

func NewClassificationService(
	db *gorm.DB,
	log *logger.Logger,
	taxonomyService TaxonomyService,
	classifier ClassifierService,
	collectionRepo repos.CollectionRepo,
	categoryRepo repos.CategoryRepo,
	inputRepo repos.InputRepo,
	jobRepo repos.ClassificationJobRepo,
	resultRepo repos.ClassificationRepo,
	defaultProvider string,
	defaultModel string,
	llmTimeout time.Duration,
) ClassificationService {
	serviceLog := log.With("service", "ClassificationService")
	if llmTimeout <= 0 {
		llmTimeout = 60 * time.Second
	}
	return &classificationService{
		db:              db,
		log:             serviceLog,
		taxonomyService: taxonomyService,
		classifier:      classifier,
		collectionRepo:  collectionRepo,
		categoryRepo:    categoryRepo,
		inputRepo:       inputRepo,
		jobRepo:         jobRepo,
		resultRepo:      resultRepo,
		defaultProvider: defaultProvider,
		defaultModel:    defaultModel,
		llmTimeout:      llmTimeout,
	}
}

// ClassifyAndStore runs the full request lifecycle:
//
//	taxonomy fetch -> dedup check -> input row -> job (pending ->
//	processing) -> LLM call -> category resolution -> classification row
//	-> metrics -> job completed/failed
//
// The dedup check is a read-then-act sequence with no locking: two
// concurrent requests with identical text can both miss the cache and
// each produce their own input/job/classification. Accepted tradeoff;
// adding a unique constraint or advisory lock here would change the
// store contract.
func (cs *classificationService) ClassifyAndStore(ctx context.Context, params ClassifyAndStoreParams) (*ClassificationResponse, error) {
	startTime := time.Now()

	taxonomy, err := cs.taxonomyService.GetTaxonomy(ctx, params.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("fetch taxonomy: %w", err)
	}
	if len(taxonomy) == 0 {
		return nil, &TaxonomyNotFoundError{CollectionName: params.CollectionName}
	}

	if cached, err := cs.lookupCached(ctx, params.Text); err != nil {
		return nil, err
	} else if cached != nil {
		return cached, nil
	}

	source := params.Source
	if source == "" {
		source = "api"
	}
	metadata, _ := json.Marshal(map[string]string{"collectionName": params.CollectionName})
	input := &types.Input{
		ID:          uuid.New(),
		WorkspaceID: params.WorkspaceID,
		APIKeyID:    params.APIKeyID,
		Source:      source,
		RawText:     params.Text,
		RawMetadata: metadata,
	}
	if _, err := cs.inputRepo.Create(ctx, nil, []*types.Input{input}); err != nil {
		return nil, fmt.Errorf("create input: %w", err)
	}

	collection, err := cs.collectionRepo.GetByName(ctx, nil, params.CollectionName)
	if err != nil {
		return nil, fmt.Errorf("resolve collection: %w", err)
	}
	if collection == nil {
		return nil, &CollectionNotFoundError{CollectionName: params.CollectionName}
	}

	provider := params.Provider
	if provider == "" {
		provider = cs.defaultProvider
	}
	model := params.Model
	if model == "" {
		model = cs.defaultModel
	}

	job := &types.ClassificationJob{
		ID:           uuid.New(),
		InputID:      input.ID,
		CollectionID: collection.ID,
		Status:       types.JobStatusPending,
		MaxAttempts:  3,
		Provider:     provider,
		Model:        model,
	}
	if _, err := cs.jobRepo.Create(ctx, nil, []*types.ClassificationJob{job}); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	// The job is marked processing before the LLM call so a crash
	// mid-call leaves a durable processing record instead of silently
	// vanishing. There is no reaper: a crash here can leave the job in
	// processing indefinitely.
	if err := cs.transitionJob(ctx, job, types.JobStatusProcessing, ""); err != nil {
		return nil, err
	}

	llmCtx, cancel := context.WithTimeout(ctx, cs.llmTimeout)
	defer cancel()

	outcome, err := cs.classifier.Classify(llmCtx, params.Text, taxonomy, model)
	if err != nil {
		return nil, cs.failJob(ctx, job, err)
	}

	categoryID, err := cs.resolveCategoryID(ctx, collection.ID, outcome.Result.Category, outcome.Result.Subcategory)
	if err != nil {
		return nil, cs.failJob(ctx, job, err)
	}

	classification := &types.Classification{
		ID:          uuid.New(),
		JobID:       job.ID,
		InputID:     input.ID,
		CategoryID:  categoryID,
		Explanation: outcome.Result.Reason,
	}
	if _, err := cs.resultRepo.Create(ctx, nil, []*types.Classification{classification}); err != nil {
		return nil, fmt.Errorf("create classification: %w", err)
	}

	responseStatus := outcome.ResponseStatus
	if responseStatus == 0 {
		responseStatus = http.StatusOK
	}
	latencyMs := int(time.Since(startTime).Milliseconds())
	if err := cs.jobRepo.UpdateMetrics(ctx, nil, job.ID, repos.JobMetricsUpdate{
		PromptTokens:     outcome.Usage.InputTokens,
		CompletionTokens: outcome.Usage.EstimatedOutputTokens,
		TotalTokens:      outcome.Usage.TotalTokens,
		CostUSD:          outcome.Usage.EstimatedCost,
		LatencyMs:        latencyMs,
		ResponseStatus:   responseStatus,
	}); err != nil {
		return nil, fmt.Errorf("update job metrics: %w", err)
	}

	if err := cs.transitionJob(ctx, job, types.JobStatusCompleted, ""); err != nil {
		return nil, err
	}

	cs.log.Info("Classification completed",
		"job_id", job.ID,
		"collection", params.CollectionName,
		"category", outcome.Result.Category,
		"subcategory", outcome.Result.Subcategory,
		"latency_ms", latencyMs,
		"total_tokens", outcome.Usage.TotalTokens)

	return &ClassificationResponse{
		InputID:          input.ID,
		JobID:            job.ID,
		ClassificationID: classification.ID,
		Result:           outcome.Result,
		TokenUsage:       outcome.Usage,
	}, nil
}

// lookupCached returns the prior completed result for identical raw
// text, with zero token usage, or nil on a cache miss. Inputs whose
// earlier attempts all failed do not count as cached.
func (cs *classificationService) lookupCached(ctx context.Context, text string) (*ClassificationResponse, error) {
	existingInput, err := cs.inputRepo.FindByRawText(ctx, nil, text)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}
	if existingInput == nil {
		return nil, nil
	}
	existing, err := cs.resultRepo.GetByInputID(ctx, nil, existingInput.ID)
	if err != nil {
		return nil, fmt.Errorf("dedup classification lookup: %w", err)
	}
	if existing == nil {
		return nil, nil
	}

	rows, err := cs.categoryRepo.GetByIDs(ctx, nil, []uuid.UUID{existing.CategoryID})
	if err != nil {
		return nil, fmt.Errorf("load cached category: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cached classification %s references missing category %s", existing.ID, existing.CategoryID)
	}
	subcategory := rows[0]
	categoryName := subcategory.Name
	subcategoryName := subcategory.Name
	if subcategory.ParentID != nil {
		parents, err := cs.categoryRepo.GetByIDs(ctx, nil, []uuid.UUID{*subcategory.ParentID})
		if err != nil {
			return nil, fmt.Errorf("load cached parent category: %w", err)
		}
		if len(parents) > 0 {
			categoryName = parents[0].Name
		}
	}

	cs.log.Info("Returning cached classification for duplicate input", "input_id", existingInput.ID)
	return &ClassificationResponse{
		InputID:          existingInput.ID,
		JobID:            existing.JobID,
		ClassificationID: existing.ID,
		Result: ClassificationResult{
			Category:    categoryName,
			Subcategory: subcategoryName,
			Reason:      existing.Explanation,
		},
		TokenUsage: TokenUsage{},
	}, nil
}

// resolveCategoryID maps the model's textual answer back to a taxonomy
// row: a two-hop exact-string-match lookup, case-sensitive, no fuzzy
// matching. The subcategory must sit under the named top-level category
// in the same collection.
func (cs *classificationService) resolveCategoryID(ctx context.Context, collectionID uuid.UUID, categoryName, subcategoryName string) (uuid.UUID, error) {
	parent, err := cs.categoryRepo.FindTopLevelByName(ctx, nil, collectionID, categoryName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve category: %w", err)
	}
	if parent == nil {
		return uuid.Nil, &CategoryResolutionError{Category: categoryName, Subcategory: subcategoryName}
	}
	child, err := cs.categoryRepo.FindChildByName(ctx, nil, collectionID, parent.ID, subcategoryName)
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolve subcategory: %w", err)
	}
	if child == nil {
		return uuid.Nil, &CategoryResolutionError{Category: categoryName, Subcategory: subcategoryName}
	}
	return child.ID, nil
}

// transitionJob applies a lifecycle transition, refusing anything the
// state machine does not allow. Terminal states are write-once.
func (cs *classificationService) transitionJob(ctx context.Context, job *types.ClassificationJob, next types.JobStatus, errorMessage string) error {
	if !job.Status.CanTransitionTo(next) {
		return fmt.Errorf("invalid job transition %s -> %s", job.Status, next)
	}
	update := repos.JobStatusUpdate{Status: next, ErrorMessage: errorMessage}
	now := time.Now()
	switch next {
	case types.JobStatusProcessing:
		update.StartedAt = &now
	case types.JobStatusCompleted, types.JobStatusFailed:
		update.CompletedAt = &now
	}
	if err := cs.jobRepo.UpdateStatus(ctx, nil, job.ID, update); err != nil {
		return fmt.Errorf("update job status to %s: %w", next, err)
	}
	job.Status = next
	return nil
}

// failJob closes the job out as failed with the original error message
// and re-raises the original error. No classification row is written on
// any failure path.
func (cs *classificationService) failJob(ctx context.Context, job *types.ClassificationJob, cause error) error {
	if err := cs.transitionJob(ctx, job, types.JobStatusFailed, cause.Error()); err != nil {
		cs.log.Error("Failed to mark job failed", "job_id", job.ID, "error", err)
	}
	cs.log.Warn("Classification job failed", "job_id", job.ID, "error", cause)
	return cause
}

// ClassifyBatch runs texts sequentially, accumulating token and cost
// totals. Strict all-or-nothing: the first failure aborts the batch and
// no partial aggregate is returned.
func (cs *classificationService) ClassifyBatch(ctx context.Context, texts []string, params ClassifyAndStoreParams) (*BatchClassificationResponse, error) {
	results := make([]ClassificationResponse, 0, len(texts))
	totalTokens := 0
	totalCost := 0.0
	for i, text := range texts {
		itemParams := params
		itemParams.Text = text
		resp, err := cs.ClassifyAndStore(ctx, itemParams)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		results = append(results, *resp)
		totalTokens += resp.TokenUsage.TotalTokens
		totalCost += resp.TokenUsage.EstimatedCost
	}
	return &BatchClassificationResponse{
		Results:     results,
		TotalTokens: totalTokens,
		TotalCost:   totalCost,
	}, nil
}

func (cs *classificationService) GetClassificationByID(ctx context.Context, id uuid.UUID) (*types.Classification, error) {
	rows, err := cs.resultRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (cs *classificationService) ListClassifications(ctx context.Context, filter repos.ClassificationListFilter) ([]*types.Classification, error) {
	return cs.resultRepo.List(ctx, nil, filter)
}

func (cs *classificationService) GetInputByID(ctx context.Context, id uuid.UUID) (*types.Input, error) {
	rows, err := cs.inputRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
