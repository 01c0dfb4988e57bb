// Package llm contains the completion pipeline: a single-attempt HTTP client
// for the two interchangeable completion providers, the ordered-model
// fallback/retry controller, and the tolerant structured-output extractor.
// All types here are shared between the client, the controller, and callers.
package llm

import "fmt"

// Message represents a single turn in a conversation (role + content).
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// CompletionRequest is the input for one logical completion. Immutable once
// constructed; Models is ordered by preference (first = most preferred).
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Models       []string // e.g. "mistralai/mistral-7b-instruct:free"
	Temperature  float32  // 0..2
	MaxTokens    int
}

// CompletionResult is produced by CompleteWithFallback on success.
// AttemptCount is the total number of attempts across all models tried.
type CompletionResult struct {
	RawText      string
	ModelUsed    string
	AttemptCount int
}

// ProviderError reports a single failed provider attempt: a non-2xx HTTP
// response, a transport failure, or a missing API credential.
type ProviderError struct {
	Provider string
	Status   int // 0 when the request never reached the provider
	Message  string
}

func (e *ProviderError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, e.Message)
}

// ExhaustedError is returned when every candidate model has been retried up
// to its budget and all attempts failed. LastErr is the final attempt's error.
type ExhaustedError struct {
	Models   []string
	Attempts int
	LastErr  error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all %d candidate models exhausted after %d attempts: %v", len(e.Models), e.Attempts, e.LastErr)
}

func (e *ExhaustedError) Unwrap() error { return e.LastErr }

// MalformedOutputError is returned when no JSON value can be recovered from
// a completion. RawText carries the original completion for diagnostics.
type MalformedOutputError struct {
	RawText string
}

func (e *MalformedOutputError) Error() string {
	return "completion contains no parseable JSON value"
}
