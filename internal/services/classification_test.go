package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/platform/openrouter"
	"github.com/hrdesk/hrdesk-backend/internal/repos"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

// The production schema leans on postgres defaults (uuid_generate_v4,
// now()), so the sqlite fixture declares the tables explicitly. All IDs
// are assigned in code, never by the database.
var testSchema = []string{
	`CREATE TABLE collections (
		id text PRIMARY KEY,
		workspace_id text,
		name text NOT NULL,
		description text,
		created_at datetime
	)`,
	`CREATE TABLE collection_categories (
		id text PRIMARY KEY,
		collection_id text NOT NULL,
		name text NOT NULL,
		description text,
		parent_id text,
		order_index integer,
		created_at datetime
	)`,
	`CREATE TABLE inputs (
		id text PRIMARY KEY,
		workspace_id text,
		api_key_id text,
		source text,
		raw_text text NOT NULL,
		raw_metadata text,
		created_at datetime
	)`,
	`CREATE TABLE classification_jobs (
		id text PRIMARY KEY,
		input_id text NOT NULL,
		collection_id text NOT NULL,
		status text NOT NULL DEFAULT 'pending',
		priority integer NOT NULL DEFAULT 0,
		attempt_count integer NOT NULL DEFAULT 0,
		max_attempts integer NOT NULL DEFAULT 3,
		error_message text,
		provider text,
		model text,
		response_status integer,
		latency_ms integer,
		prompt_tokens integer,
		completion_tokens integer,
		total_tokens integer,
		cost_usd real,
		scheduled_at datetime,
		started_at datetime,
		completed_at datetime,
		created_at datetime
	)`,
	`CREATE TABLE classifications (
		id text PRIMARY KEY,
		job_id text NOT NULL,
		input_id text NOT NULL,
		category_id text NOT NULL,
		confidence real,
		explanation text,
		created_at datetime
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	for _, stmt := range testSchema {
		if err := gdb.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return gdb
}

type seededTaxonomy struct {
	collection      *types.Collection
	salaryDeduction *types.CollectionCategory
	passwordReset   *types.CollectionCategory
}

func seedTestTaxonomy(t *testing.T, gdb *gorm.DB) seededTaxonomy {
	t.Helper()
	collection := &types.Collection{ID: uuid.New(), Name: "HR Issues"}
	if err := gdb.Create(collection).Error; err != nil {
		t.Fatalf("seed collection: %v", err)
	}

	payroll := &types.CollectionCategory{ID: uuid.New(), CollectionID: collection.ID, Name: "Payroll"}
	systemAccess := &types.CollectionCategory{ID: uuid.New(), CollectionID: collection.ID, Name: "System Access"}
	for _, parent := range []*types.CollectionCategory{payroll, systemAccess} {
		if err := gdb.Create(parent).Error; err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}

	salary := &types.CollectionCategory{ID: uuid.New(), CollectionID: collection.ID, Name: "Salary deduction", ParentID: &payroll.ID}
	reset := &types.CollectionCategory{ID: uuid.New(), CollectionID: collection.ID, Name: "Password reset", ParentID: &systemAccess.ID}
	for _, child := range []*types.CollectionCategory{salary, reset} {
		if err := gdb.Create(child).Error; err != nil {
			t.Fatalf("seed subcategory: %v", err)
		}
	}
	return seededTaxonomy{collection: collection, salaryDeduction: salary, passwordReset: reset}
}

// stubClassifier replays canned gateway outcomes in order and counts
// invocations, so tests can assert the dedup path skipped the model.
type stubClassifier struct {
	outcomes []*ClassifyOutcome
	errs     []error
	calls    int
}

func (s *stubClassifier) Classify(ctx context.Context, text string, taxonomy []types.TaxonomyCategory, model string) (*ClassifyOutcome, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	if idx < len(s.outcomes) {
		return s.outcomes[idx], nil
	}
	return nil, fmt.Errorf("stub classifier exhausted after %d calls", idx)
}

func okOutcome(category, subcategory string, tokens int) *ClassifyOutcome {
	return &ClassifyOutcome{
		Result: ClassificationResult{Category: category, Subcategory: subcategory, Reason: "stub reasoning"},
		Usage: TokenUsage{
			InputTokens:           tokens,
			EstimatedOutputTokens: tokens / 2,
			TotalTokens:           tokens + tokens/2,
			EstimatedCost:         0,
		},
		ResponseStatus: 200,
	}
}

func newTestClassificationService(t *testing.T, gdb *gorm.DB, classifier ClassifierService) ClassificationService {
	t.Helper()
	log := newTestLogger()
	collectionRepo := repos.NewCollectionRepo(gdb, log)
	categoryRepo := repos.NewCategoryRepo(gdb, log)
	taxonomy := NewTaxonomyService(gdb, log, collectionRepo, categoryRepo)
	return NewClassificationService(
		gdb, log,
		taxonomy,
		classifier,
		collectionRepo,
		categoryRepo,
		repos.NewInputRepo(gdb, log),
		repos.NewClassificationJobRepo(gdb, log),
		repos.NewClassificationRepo(gdb, log),
		"openrouter",
		"mistralai/mistral-7b-instruct:free",
		10*time.Second,
	)
}

func TestClassifyAndStoreSuccess(t *testing.T) {
	gdb := newTestDB(t)
	seeded := seedTestTaxonomy(t, gdb)
	classifier := &stubClassifier{outcomes: []*ClassifyOutcome{okOutcome("Payroll", "Salary deduction", 100)}}
	svc := newTestClassificationService(t, gdb, classifier)

	resp, err := svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{
		Text:           "My salary this month has an unexplained deduction",
		CollectionName: "HR Issues",
	})
	if err != nil {
		t.Fatalf("ClassifyAndStore: %v", err)
	}
	if resp.Result.Category != "Payroll" || resp.Result.Subcategory != "Salary deduction" {
		t.Fatalf("result = %+v", resp.Result)
	}
	if resp.TokenUsage.TotalTokens != 150 {
		t.Fatalf("token usage = %+v", resp.TokenUsage)
	}

	var inputCount int64
	gdb.Model(&types.Input{}).Count(&inputCount)
	if inputCount != 1 {
		t.Fatalf("inputs = %d, want 1", inputCount)
	}

	var job types.ClassificationJob
	if err := gdb.First(&job, "id = ?", resp.JobID).Error; err != nil {
		t.Fatalf("load job: %v", err)
	}
	if job.Status != types.JobStatusCompleted {
		t.Fatalf("job status = %s, want completed", job.Status)
	}
	if job.StartedAt == nil || job.CompletedAt == nil {
		t.Fatalf("job timestamps not stamped: started=%v completed=%v", job.StartedAt, job.CompletedAt)
	}
	if job.PromptTokens == nil || *job.PromptTokens != 100 {
		t.Fatalf("prompt tokens = %v", job.PromptTokens)
	}
	if job.ResponseStatus == nil || *job.ResponseStatus != 200 {
		t.Fatalf("response status = %v", job.ResponseStatus)
	}
	if job.Provider != "openrouter" || job.Model != "mistralai/mistral-7b-instruct:free" {
		t.Fatalf("job provider/model = %q/%q", job.Provider, job.Model)
	}

	var classification types.Classification
	if err := gdb.First(&classification, "id = ?", resp.ClassificationID).Error; err != nil {
		t.Fatalf("load classification: %v", err)
	}
	if classification.CategoryID != seeded.salaryDeduction.ID {
		t.Fatalf("category id = %s, want %s", classification.CategoryID, seeded.salaryDeduction.ID)
	}
	if classification.Explanation != "stub reasoning" {
		t.Fatalf("explanation = %q", classification.Explanation)
	}
}

func TestClassifyAndStoreUnknownTaxonomy(t *testing.T) {
	gdb := newTestDB(t)
	seedTestTaxonomy(t, gdb)
	svc := newTestClassificationService(t, gdb, &stubClassifier{})

	_, err := svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{
		Text:           "anything",
		CollectionName: "No Such Collection",
	})
	var notFound *TaxonomyNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *TaxonomyNotFoundError", err)
	}

	var jobCount int64
	gdb.Model(&types.ClassificationJob{}).Count(&jobCount)
	if jobCount != 0 {
		t.Fatalf("jobs = %d, want 0 before taxonomy validation", jobCount)
	}
}

func TestClassifyAndStoreResolutionFailure(t *testing.T) {
	gdb := newTestDB(t)
	seedTestTaxonomy(t, gdb)
	classifier := &stubClassifier{outcomes: []*ClassifyOutcome{okOutcome("Unknown", "X", 50)}}
	svc := newTestClassificationService(t, gdb, classifier)

	_, err := svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{
		Text:           "gibberish issue",
		CollectionName: "HR Issues",
	})
	var resErr *CategoryResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("error = %v, want *CategoryResolutionError", err)
	}

	var job types.ClassificationJob
	if err := gdb.First(&job).Error; err != nil {
		t.Fatalf("load job: %v", err)
	}
	if job.Status != types.JobStatusFailed {
		t.Fatalf("job status = %s, want failed", job.Status)
	}
	if !strings.Contains(job.ErrorMessage, "Unknown") || !strings.Contains(job.ErrorMessage, "X") {
		t.Fatalf("error message = %q, want both names", job.ErrorMessage)
	}

	var classificationCount int64
	gdb.Model(&types.Classification{}).Count(&classificationCount)
	if classificationCount != 0 {
		t.Fatalf("classifications = %d, want 0 on failure", classificationCount)
	}
}

func TestClassifyAndStoreHierarchyStrictResolution(t *testing.T) {
	gdb := newTestDB(t)
	seedTestTaxonomy(t, gdb)
	// Subcategory exists, but under a different parent.
	classifier := &stubClassifier{outcomes: []*ClassifyOutcome{okOutcome("System Access", "Salary deduction", 50)}}
	svc := newTestClassificationService(t, gdb, classifier)

	_, err := svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{
		Text:           "cross-branch answer",
		CollectionName: "HR Issues",
	})
	var resErr *CategoryResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("error = %v, want *CategoryResolutionError", err)
	}
}

func TestClassifyAndStoreLLMFailureMarksJobFailed(t *testing.T) {
	gdb := newTestDB(t)
	seedTestTaxonomy(t, gdb)
	classifier := &stubClassifier{errs: []error{&LLMInvocationError{Err: fmt.Errorf("connection refused")}}}
	svc := newTestClassificationService(t, gdb, classifier)

	_, err := svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{
		Text:           "network trouble",
		CollectionName: "HR Issues",
	})
	var invErr *LLMInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *LLMInvocationError", err)
	}

	var job types.ClassificationJob
	if err := gdb.First(&job).Error; err != nil {
		t.Fatalf("load job: %v", err)
	}
	if job.Status != types.JobStatusFailed {
		t.Fatalf("job status = %s, want failed", job.Status)
	}
	if job.CompletedAt == nil {
		t.Fatal("failed job missing completed_at")
	}
}

func TestClassifyAndStoreLLMTimeout(t *testing.T) {
	gdb := newTestDB(t)
	seedTestTaxonomy(t, gdb)

	// The provider never answers within the deadline; it unblocks as
	// soon as the client gives up so the server can shut down cleanly.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	log := newTestLogger()
	llmClient, err := openrouter.NewClient(log, openrouter.Config{APIKey: "test-key", BaseURL: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("init client: %v", err)
	}

	collectionRepo := repos.NewCollectionRepo(gdb, log)
	categoryRepo := repos.NewCategoryRepo(gdb, log)
	svc := NewClassificationService(
		gdb, log,
		NewTaxonomyService(gdb, log, collectionRepo, categoryRepo),
		NewClassifierService(log, llmClient),
		collectionRepo,
		categoryRepo,
		repos.NewInputRepo(gdb, log),
		repos.NewClassificationJobRepo(gdb, log),
		repos.NewClassificationRepo(gdb, log),
		"openrouter",
		"mistralai/mistral-7b-instruct:free",
		100*time.Millisecond,
	)

	_, err = svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{
		Text:           "the provider hangs past the deadline",
		CollectionName: "HR Issues",
	})
	var invErr *LLMInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *LLMInvocationError", err)
	}

	var job types.ClassificationJob
	if err := gdb.First(&job).Error; err != nil {
		t.Fatalf("load job: %v", err)
	}
	if job.Status != types.JobStatusFailed {
		t.Fatalf("job status = %s, want failed", job.Status)
	}
	if job.CompletedAt == nil {
		t.Fatal("timed-out job missing completed_at")
	}
	if job.ErrorMessage == "" {
		t.Fatal("timed-out job missing error message")
	}
}

func TestClassifyAndStoreDedup(t *testing.T) {
	gdb := newTestDB(t)
	seedTestTaxonomy(t, gdb)
	classifier := &stubClassifier{outcomes: []*ClassifyOutcome{okOutcome("Payroll", "Salary deduction", 100)}}
	svc := newTestClassificationService(t, gdb, classifier)

	text := "Why was my overtime unpaid in March?"
	first, err := svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{Text: text, CollectionName: "HR Issues"})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{Text: text, CollectionName: "HR Issues"})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if classifier.calls != 1 {
		t.Fatalf("classifier called %d times, want 1", classifier.calls)
	}
	if second.ClassificationID != first.ClassificationID {
		t.Fatalf("cached id = %s, want %s", second.ClassificationID, first.ClassificationID)
	}
	if second.TokenUsage != (TokenUsage{}) {
		t.Fatalf("cached usage = %+v, want zero", second.TokenUsage)
	}
	if second.Result.Category != "Payroll" || second.Result.Subcategory != "Salary deduction" {
		t.Fatalf("cached result = %+v", second.Result)
	}

	var inputCount int64
	gdb.Model(&types.Input{}).Count(&inputCount)
	if inputCount != 1 {
		t.Fatalf("inputs = %d, want 1 after dedup", inputCount)
	}
}

func TestClassifyAndStoreFailedAttemptIsNotCached(t *testing.T) {
	gdb := newTestDB(t)
	seedTestTaxonomy(t, gdb)
	classifier := &stubClassifier{
		errs:     []error{&LLMInvocationError{Err: fmt.Errorf("timeout")}},
		outcomes: []*ClassifyOutcome{nil, okOutcome("Payroll", "Salary deduction", 80)},
	}
	svc := newTestClassificationService(t, gdb, classifier)

	text := "retry after failure"
	if _, err := svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{Text: text, CollectionName: "HR Issues"}); err == nil {
		t.Fatal("first call succeeded, want failure")
	}
	resp, err := svc.ClassifyAndStore(context.Background(), ClassifyAndStoreParams{Text: text, CollectionName: "HR Issues"})
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if classifier.calls != 2 {
		t.Fatalf("classifier called %d times, want 2: a failed attempt must not populate the cache", classifier.calls)
	}
	if resp.TokenUsage.TotalTokens == 0 {
		t.Fatal("second call returned zero usage, expected a fresh model call")
	}
}

func TestClassifyBatch(t *testing.T) {
	gdb := newTestDB(t)
	seedTestTaxonomy(t, gdb)
	classifier := &stubClassifier{outcomes: []*ClassifyOutcome{
		okOutcome("Payroll", "Salary deduction", 100),
		okOutcome("System Access", "Password reset", 60),
	}}
	svc := newTestClassificationService(t, gdb, classifier)

	resp, err := svc.ClassifyBatch(context.Background(), []string{"salary issue", "cannot log in"}, ClassifyAndStoreParams{CollectionName: "HR Issues"})
	if err != nil {
		t.Fatalf("ClassifyBatch: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	if resp.TotalTokens != 150+90 {
		t.Fatalf("total tokens = %d, want %d", resp.TotalTokens, 150+90)
	}
}

func TestClassifyBatchAbortsOnFirstFailure(t *testing.T) {
	gdb := newTestDB(t)
	seedTestTaxonomy(t, gdb)
	classifier := &stubClassifier{
		outcomes: []*ClassifyOutcome{okOutcome("Payroll", "Salary deduction", 100)},
		errs:     []error{nil, &LLMInvocationError{Err: fmt.Errorf("provider down")}},
	}
	svc := newTestClassificationService(t, gdb, classifier)

	resp, err := svc.ClassifyBatch(context.Background(), []string{"first ok", "second fails", "never reached"}, ClassifyAndStoreParams{CollectionName: "HR Issues"})
	if err == nil {
		t.Fatal("batch succeeded, want abort")
	}
	if resp != nil {
		t.Fatalf("partial response returned: %+v", resp)
	}
	if !strings.Contains(err.Error(), "batch item 1") {
		t.Fatalf("error = %v, want failing index", err)
	}
	if classifier.calls != 2 {
		t.Fatalf("classifier called %d times, want 2: the third item must not run", classifier.calls)
	}
}
