package tokencost

import (
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// ModelPricing is USD per 1M tokens, input and output priced separately.
type ModelPricing struct {
	Input  float64
	Output float64
}

// Pricing for the models the service is expected to run against.
// Unknown models deliberately price at zero in both directions.
var modelPricing = map[string]ModelPricing{
	"mistralai/mistral-nemo:free":          {Input: 0, Output: 0},
	"mistralai/mistral-7b-instruct:free":   {Input: 0, Output: 0},
	"deepseek/deepseek-chat-v3-0324:free":  {Input: 0, Output: 0},
	"gpt-3.5-turbo":                        {Input: 0.5, Output: 1.5},
	"gpt-4":                                {Input: 30, Output: 60},
	"gpt-4-turbo":                          {Input: 10, Output: 30},
}

// DefaultOutputTokenEstimate is the pre-call guess for completion size,
// used only for the pre-call cost log line.
const DefaultOutputTokenEstimate = 150

// EstimateTokens counts tokens for text under the given model's
// tokenizer family. Any tokenizer failure (unknown encoding, missing
// BPE data) falls back to the rough 4-chars-per-token heuristic; this
// function never fails.
func EstimateTokens(text, model string) int {
	encodingModel := "gpt-3.5-turbo"
	if strings.Contains(model, "gpt-4") {
		encodingModel = "gpt-4"
	}
	enc, err := tiktoken.EncodingForModel(encodingModel)
	if err != nil {
		return fallbackEstimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func fallbackEstimate(text string) int {
	return (len(text) + 3) / 4
}

// CalculateCost is a pure function of its three inputs. Models absent
// from the price table cost exactly 0.
func CalculateCost(inputTokens, outputTokens int, model string) float64 {
	pricing := modelPricing[model]
	inputCost := float64(inputTokens) / 1_000_000 * pricing.Input
	outputCost := float64(outputTokens) / 1_000_000 * pricing.Output
	return inputCost + outputCost
}
