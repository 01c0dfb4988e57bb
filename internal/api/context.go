// Shared context helpers for API middleware.
package api

import (
	"context"

	"github.com/startupcopilot/copilot/internal/api/ctxkeys"
)

// WithOwnerID adds owner_id to the request context. Same key the
// middleware and handlers use.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ctxkeys.OwnerID, ownerID)
}

// GetOwnerID retrieves owner_id from context.
func GetOwnerID(ctx context.Context) (string, error) {
	ownerID, ok := ctx.Value(ctxkeys.OwnerID).(string)
	if !ok || ownerID == "" {
		return "", ErrMissingOwnerID
	}
	return ownerID, nil
}
