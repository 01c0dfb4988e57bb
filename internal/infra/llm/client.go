// Completion HTTP client. Both providers (OpenRouter and Groq) speak the
// same OpenAI-style chat-completions wire format:
//
//	POST <base>/chat/completions
//	{"model": ..., "messages": [{"role","content"}], "temperature", "max_tokens"}
//
// so a single Client covers both; only the base URL, credential, and a few
// OpenRouter attribution headers differ. One call = one outbound request.
// No retry, no fallback — that is the Controller's job.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	openRouterBaseURL = "https://openrouter.ai/api/v1"
	groqBaseURL       = "https://api.groq.com/openai/v1"

	// Per-attempt budget; a hung provider counts as a failed attempt.
	defaultTimeout = 30 * time.Second
)

// Client issues a single chat-completion request against one provider.
type Client struct {
	provider   string // "openrouter" | "groq"
	baseURL    string
	apiKey     string
	referer    string // OpenRouter attribution, optional
	title      string // OpenRouter attribution, optional
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the provider endpoint (tests, proxies).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewOpenRouterClient creates a client for the OpenRouter endpoint.
// referer and title are forwarded as the HTTP-Referer / X-Title attribution
// headers OpenRouter uses to identify calling apps.
func NewOpenRouterClient(apiKey, referer, title string, opts ...ClientOption) *Client {
	c := &Client{
		provider:   "openrouter",
		baseURL:    openRouterBaseURL,
		apiKey:     apiKey,
		referer:    referer,
		title:      title,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewGroqClient creates a client for the Groq endpoint.
func NewGroqClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		provider:   "groq",
		baseURL:    groqBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider name ("openrouter" or "groq").
func (c *Client) Provider() string { return c.provider }

// ─── wire types ──────────────────────────────────────────────────────────────

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ─── single attempt ──────────────────────────────────────────────────────────

// Complete sends one chat-completion request for the given model and returns
// the raw completion text. A missing or empty choices[0].message.content is
// returned as an empty string, not an error: downstream parsing treats an
// empty completion as malformed output, not as a transport failure.
func (c *Client) Complete(ctx context.Context, req CompletionRequest, model string) (string, error) {
	if c.apiKey == "" {
		return "", &ProviderError{Provider: c.provider, Message: "missing API key"}
	}

	body, err := json.Marshal(chatCompletionRequest{
		Model:       model,
		Messages:    buildMessages(req),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("llm: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Provider: c.provider, Message: err.Error()}
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ProviderError{Provider: c.provider, Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{Provider: c.provider, Status: resp.StatusCode, Message: errorMessage(respBody, resp.Status)}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", &ProviderError{Provider: c.provider, Status: resp.StatusCode, Message: "decode response: " + err.Error()}
	}
	if len(parsed.Choices) == 0 {
		return "", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// buildMessages assembles the system+user turn list, trimming content the
// way the dashboard always has before sending it upstream.
func buildMessages(req CompletionRequest) []Message {
	msgs := make([]Message, 0, 2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, Message{Role: "system", Content: strings.TrimSpace(req.SystemPrompt)})
	}
	msgs = append(msgs, Message{Role: "user", Content: strings.TrimSpace(req.UserPrompt)})
	return msgs
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}
}

// errorMessage extracts the provider's error.message if the error body is
// JSON, falling back to the HTTP status line.
func errorMessage(body []byte, statusLine string) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return statusLine
}
