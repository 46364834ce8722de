package services

import "fmt"

// TaxonomyNotFoundError means the named collection is absent or carries
// zero categories. Raised before any job row exists.
type TaxonomyNotFoundError struct {
	CollectionName string
}

func (e *TaxonomyNotFoundError) Error() string {
	return fmt.Sprintf("no categories found for collection: %s", e.CollectionName)
}

// LLMInvocationError wraps a network failure, timeout, or non-2xx
// response from the provider.
type LLMInvocationError struct {
	Err error
}

func (e *LLMInvocationError) Error() string {
	return fmt.Sprintf("llm invocation failed: %v", e.Err)
}

func (e *LLMInvocationError) Unwrap() error { return e.Err }

// LLMFormatError means the provider answered but the content was not
// valid JSON after fence stripping. The raw text is logged at the
// gateway, never surfaced to callers.
type LLMFormatError struct {
	Err error
}

func (e *LLMFormatError) Error() string {
	return "llm returned invalid JSON"
}

func (e *LLMFormatError) Unwrap() error { return e.Err }

// CategoryResolutionError means the LLM named a category/subcategory
// pair that does not exist in the taxonomy. Both strings are kept in
// the message to aid taxonomy and prompt tuning.
type CategoryResolutionError struct {
	Category    string
	Subcategory string
}

func (e *CategoryResolutionError) Error() string {
	return fmt.Sprintf("category/subcategory not found in collection: %s / %s", e.Category, e.Subcategory)
}

// CollectionNotFoundError means the collection row itself is missing;
// no job is created.
type CollectionNotFoundError struct {
	CollectionName string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection not found: %s", e.CollectionName)
}
