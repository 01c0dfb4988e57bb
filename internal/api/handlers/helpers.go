// Handler helper functions and context access.
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/startupcopilot/copilot/internal/api/ctxkeys"
)

const (
	defaultUsageLimit = 100
	maxUsageLimit     = 500
)

// getOwnerID retrieves owner_id from context. Uses ctxkeys.OwnerID, the
// same type+value OwnerMiddleware injects.
func getOwnerID(ctx context.Context) (string, error) {
	ownerID, ok := ctx.Value(ctxkeys.OwnerID).(string)
	if !ok || ownerID == "" {
		return "", fmt.Errorf("owner_id not found in context")
	}
	return ownerID, nil
}

// parseLimit extracts and bounds the limit query param.
func parseLimit(r *http.Request) int {
	limit := defaultUsageLimit
	if lim, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && lim > 0 {
		if lim > maxUsageLimit {
			lim = maxUsageLimit
		}
		limit = lim
	}
	return limit
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		http.Error(w, `{"error":"failed to encode error response"}`, http.StatusInternalServerError)
	}
}
