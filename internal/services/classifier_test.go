package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/platform/openrouter"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// stubLLMClient replays canned provider responses in order.
type stubLLMClient struct {
	responses []*openrouter.ChatResponse
	errs      []error
	calls     int
}

func (s *stubLLMClient) ChatCompletion(ctx context.Context, req openrouter.ChatRequest) (*openrouter.ChatResponse, error) {
	idx := s.calls
	s.calls++
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	if err != nil {
		return nil, err
	}
	if idx < len(s.responses) {
		return s.responses[idx], nil
	}
	return nil, fmt.Errorf("stub exhausted after %d calls", idx)
}

func chatResponseWithContent(content string) *openrouter.ChatResponse {
	var choice openrouter.Choice
	choice.Message.Role = "assistant"
	choice.Message.Content = openrouter.MessageContent{Kind: openrouter.ContentString, Text: content}
	return &openrouter.ChatResponse{Choices: []openrouter.Choice{choice}, StatusCode: 200}
}

func TestStripJSONFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"category":"Payroll"}`, `{"category":"Payroll"}`},
		{"json fence", "```json\n{\"category\":\"Payroll\"}\n```", `{"category":"Payroll"}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripJSONFences(tt.in); got != tt.want {
				t.Fatalf("stripJSONFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyParsesResult(t *testing.T) {
	client := &stubLLMClient{responses: []*openrouter.ChatResponse{
		chatResponseWithContent(`{"category":"Payroll","subcategory":"Salary deduction","reason":"mentions missing salary"}`),
	}}
	svc := NewClassifierService(newTestLogger(), client)

	outcome, err := svc.Classify(context.Background(), "my salary was cut", sampleTaxonomy(), "gpt-3.5-turbo")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if outcome.Result.Category != "Payroll" || outcome.Result.Subcategory != "Salary deduction" {
		t.Fatalf("result = %+v", outcome.Result)
	}
	if outcome.Usage.InputTokens <= 0 || outcome.Usage.EstimatedOutputTokens <= 0 {
		t.Fatalf("usage not computed: %+v", outcome.Usage)
	}
	if outcome.Usage.TotalTokens != outcome.Usage.InputTokens+outcome.Usage.EstimatedOutputTokens {
		t.Fatalf("total tokens inconsistent: %+v", outcome.Usage)
	}
	if outcome.ResponseStatus != 200 {
		t.Fatalf("response status = %d", outcome.ResponseStatus)
	}
}

func TestClassifyStripsMarkdownFences(t *testing.T) {
	client := &stubLLMClient{responses: []*openrouter.ChatResponse{
		chatResponseWithContent("```json\n{\"category\":\"Payroll\",\"subcategory\":\"Overtime payment\",\"reason\":\"overtime\"}\n```"),
	}}
	svc := NewClassifierService(newTestLogger(), client)

	outcome, err := svc.Classify(context.Background(), "unpaid overtime", sampleTaxonomy(), "gpt-3.5-turbo")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if outcome.Result.Subcategory != "Overtime payment" {
		t.Fatalf("result = %+v", outcome.Result)
	}
}

func TestClassifyInvalidJSONIsFormatError(t *testing.T) {
	client := &stubLLMClient{responses: []*openrouter.ChatResponse{
		chatResponseWithContent("Sure! The category is Payroll."),
	}}
	svc := NewClassifierService(newTestLogger(), client)

	_, err := svc.Classify(context.Background(), "anything", sampleTaxonomy(), "gpt-3.5-turbo")
	var formatErr *LLMFormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("error = %v, want *LLMFormatError", err)
	}
	if got := formatErr.Error(); got != "llm returned invalid JSON" {
		t.Fatalf("message = %q, raw content must not leak into the error", got)
	}
}

func TestClassifyProviderErrorIsInvocationError(t *testing.T) {
	providerErr := &openrouter.RequestError{StatusCode: 502, Body: "bad gateway"}
	client := &stubLLMClient{errs: []error{providerErr}}
	svc := NewClassifierService(newTestLogger(), client)

	_, err := svc.Classify(context.Background(), "anything", sampleTaxonomy(), "gpt-3.5-turbo")
	var invErr *LLMInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *LLMInvocationError", err)
	}
	var reqErr *openrouter.RequestError
	if !errors.As(err, &reqErr) || reqErr.StatusCode != 502 {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestClassifyNoChoicesIsInvocationError(t *testing.T) {
	client := &stubLLMClient{responses: []*openrouter.ChatResponse{
		{Choices: nil, StatusCode: 200},
	}}
	svc := NewClassifierService(newTestLogger(), client)

	_, err := svc.Classify(context.Background(), "anything", sampleTaxonomy(), "gpt-3.5-turbo")
	var invErr *LLMInvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want *LLMInvocationError", err)
	}
}
