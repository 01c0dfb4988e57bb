package handlers

import (
	"fmt"
	"net/http"

	"github.com/startupcopilot/copilot/internal/domain/usage"
)

// UsageHandler handles requests against the generation usage trail.
type UsageHandler struct {
	svc *usage.Service
}

func NewUsageHandler(svc *usage.Service) *UsageHandler {
	return &UsageHandler{svc: svc}
}

// ListUsageResponse wraps the event list.
type ListUsageResponse struct {
	Data []usage.Event `json:"data"`
}

// ListUsage handles GET /api/v1/usage
func (h *UsageHandler) ListUsage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	events, listErr := h.svc.ListByOwner(ctx, ownerID, usage.ListInput{Limit: parseLimit(r)})
	if listErr != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list usage events: %v", listErr))
		return
	}
	if events == nil {
		events = []usage.Event{}
	}

	writeJSON(w, http.StatusOK, ListUsageResponse{Data: events})
}
