// Ordered-model fallback with bounded per-model retry.
//
// The control flow is an explicit state machine rather than nested recursive
// closures: a pure transition function advances FallbackState on each failed
// attempt, and the Controller drives it with real sleeps. This keeps the
// retry/backoff logic unit-testable without network calls or timers.
package llm

import (
	"context"
	"time"
)

const (
	// maxRetriesPerModel is the retry budget after the initial attempt,
	// so each model gets maxRetriesPerModel+1 total attempts.
	maxRetriesPerModel = 2

	// baseDelay feeds the linear backoff: delay = attemptNumber × baseDelay.
	baseDelay = time.Second
)

// Completer is the single-attempt contract the Controller drives.
// *Client satisfies it; tests inject stubs.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest, model string) (string, error)
}

// FallbackState tracks progress through the candidate-model list for one
// invocation. Transient: created per call, destroyed when the call resolves.
type FallbackState struct {
	ModelIndex int // which candidate model is being attempted
	RetryCount int // retries already spent on the current model
	Attempts   int // total attempts made across all models
}

// Exhausted reports whether every candidate has used its full retry budget.
func (s FallbackState) Exhausted(modelCount int) bool {
	return s.ModelIndex >= modelCount
}

// Delay returns how long to wait before the next attempt on the current
// model. Linear backoff; resets when advancing to a new model.
func (s FallbackState) Delay() time.Duration {
	return time.Duration(s.RetryCount) * baseDelay
}

// advance is the pure transition applied after a failed attempt: retry the
// current model while budget remains, otherwise move to the next model with
// a fresh retry counter. Delay state never carries across models.
func advance(s FallbackState) FallbackState {
	s.Attempts++
	if s.RetryCount < maxRetriesPerModel {
		s.RetryCount++
		return s
	}
	s.ModelIndex++
	s.RetryCount = 0
	return s
}

// Controller wraps a Completer with retry and ordered-model fallback.
type Controller struct {
	completer Completer
	sleep     func(ctx context.Context, d time.Duration) error
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithSleeper replaces the backoff sleep. Tests use this to run without
// real timers.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) ControllerOption {
	return func(c *Controller) { c.sleep = sleep }
}

// NewController creates a Controller over the given single-attempt completer.
func NewController(completer Completer, opts ...ControllerOption) *Controller {
	c := &Controller{completer: completer, sleep: sleepContext}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompleteWithFallback tries each candidate model in order, each with up to
// maxRetriesPerModel+1 attempts and linear backoff between attempts. The
// first success returns immediately; total exhaustion returns
// *ExhaustedError. Context cancellation aborts both attempts and sleeps.
func (c *Controller) CompleteWithFallback(ctx context.Context, req CompletionRequest) (*CompletionResult, error) {
	state := FallbackState{}
	var lastErr error

	for !state.Exhausted(len(req.Models)) {
		if d := state.Delay(); d > 0 {
			if err := c.sleep(ctx, d); err != nil {
				return nil, err
			}
		}

		model := req.Models[state.ModelIndex]
		raw, err := c.completer.Complete(ctx, req, model)
		if err == nil {
			return &CompletionResult{
				RawText:      raw,
				ModelUsed:    model,
				AttemptCount: state.Attempts + 1,
			}, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		state = advance(state)
	}

	return nil, &ExhaustedError{Models: req.Models, Attempts: state.Attempts, LastErr: lastErr}
}

// sleepContext waits for d or until ctx is cancelled, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
