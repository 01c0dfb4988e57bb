// Owner scoping middleware.
// Reads the X-Owner-ID header and injects owner_id into context. Every
// /api/v1/* resource (projects, generation, usage) is scoped to this owner.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/startupcopilot/copilot/internal/api/ctxkeys"
)

// OwnerHeader carries the caller's owner identity.
const OwnerHeader = "X-Owner-ID"

// OwnerMiddleware requires the X-Owner-ID header and injects it into the
// request context under the typed owner key. Missing or blank header → 401.
func OwnerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := strings.TrimSpace(r.Header.Get(OwnerHeader))
		if ownerID == "" {
			writeUnauthorized(w, "missing "+OwnerHeader+" header")
			return
		}

		ctx := ctxkeys.WithValue(r.Context(), ctxkeys.OwnerID, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeUnauthorized writes a 401 JSON response.
// Uses the same format as writeError in the handlers package.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message}) //nolint:errcheck
}
