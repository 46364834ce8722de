package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/platform/openrouter"
	"github.com/hrdesk/hrdesk-backend/internal/platform/tokencost"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

// ClassificationResult is the structured answer the model must return.
type ClassificationResult struct {
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Reason      string `json:"reason"`
}

// TokenUsage is the post-call accounting for one LLM invocation. The
// dedup cache path returns the zero value.
type TokenUsage struct {
	InputTokens           int     `json:"inputTokens"`
	EstimatedOutputTokens int     `json:"estimatedOutputTokens"`
	TotalTokens           int     `json:"totalTokens"`
	EstimatedCost         float64 `json:"estimatedCost"`
}

// ClassifyOutcome bundles the parsed result with the actual token usage
// and the provider HTTP status.
type ClassifyOutcome struct {
	Result         ClassificationResult
	Usage          TokenUsage
	ResponseStatus int
}

// ClassifierService is the LLM gateway: prompt construction, provider
// invocation, content extraction, and strict JSON parsing. It never
// retries; failures propagate to the orchestrator, which owns the job
// state transition.
type ClassifierService interface {
	Classify(ctx context.Context, text string, taxonomy []types.TaxonomyCategory, model string) (*ClassifyOutcome, error)
}

type classifierService struct {
	log    *logger.Logger
	client openrouter.Client
}

func NewClassifierService(log *logger.Logger, client openrouter.Client) ClassifierService {
	serviceLog := log.With("service", "ClassifierService")
	return &classifierService{log: serviceLog, client: client}
}

func (cs *classifierService) Classify(ctx context.Context, text string, taxonomy []types.TaxonomyCategory, model string) (*ClassifyOutcome, error) {
	prompt := BuildClassificationPrompt(text, taxonomy)

	inputTokens := tokencost.EstimateTokens(prompt, model)
	estimatedCost := tokencost.CalculateCost(inputTokens, tokencost.DefaultOutputTokenEstimate, model)
	cs.log.Debug("Token estimation before call",
		"input_tokens", inputTokens,
		"estimated_output_tokens", tokencost.DefaultOutputTokenEstimate,
		"estimated_cost_usd", estimatedCost,
		"model", model)

	resp, err := cs.client.ChatCompletion(ctx, openrouter.ChatRequest{
		Model: model,
		Messages: []openrouter.Message{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return nil, &LLMInvocationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &LLMInvocationError{Err: fmt.Errorf("provider returned no choices")}
	}

	content := resp.Choices[0].Message.Content.PlainText()
	cleaned := stripJSONFences(content)

	var result ClassificationResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		cs.log.Error("Failed to parse LLM response as JSON", "raw_content", content, "error", err)
		return nil, &LLMFormatError{Err: err}
	}

	// Actual figures, recomputed from the real response text. These
	// supersede the pre-call estimates.
	outputTokens := tokencost.EstimateTokens(content, model)
	actualCost := tokencost.CalculateCost(inputTokens, outputTokens, model)
	cs.log.Debug("Actual token usage",
		"input_tokens", inputTokens,
		"output_tokens", outputTokens,
		"total_tokens", inputTokens+outputTokens,
		"actual_cost_usd", actualCost)

	return &ClassifyOutcome{
		Result: result,
		Usage: TokenUsage{
			InputTokens:           inputTokens,
			EstimatedOutputTokens: outputTokens,
			TotalTokens:           inputTokens + outputTokens,
			EstimatedCost:         actualCost,
		},
		ResponseStatus: resp.StatusCode,
	}, nil
}

var fenceRe = regexp.MustCompile("```json\n?|\n?```")

// stripJSONFences tolerates models that wrap the JSON object in a
// markdown code fence despite the prompt contract.
func stripJSONFences(content string) string {
	return strings.TrimSpace(fenceRe.ReplaceAllString(content, ""))
}
