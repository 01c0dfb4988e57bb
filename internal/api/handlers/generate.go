// HTTP handlers for the generation endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/startupcopilot/copilot/internal/domain/generate"
	"github.com/startupcopilot/copilot/internal/infra/llm"
)

// GenerateHandler handles POST /api/v1/generate/* requests.
type GenerateHandler struct {
	svc *generate.Service
}

func NewGenerateHandler(svc *generate.Service) *GenerateHandler {
	return &GenerateHandler{svc: svc}
}

// AnalysisErrorResponse is returned when the model output could not be
// parsed. RawOutput lets the client show what the model actually said and
// offer a retry.
type AnalysisErrorResponse struct {
	Error     string `json:"error"`
	RawOutput string `json:"rawOutput,omitempty"`
}

// Ideas handles POST /api/v1/generate/ideas
func (h *GenerateHandler) Ideas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	var in generate.IdeasInput
	if decodeErr := json.NewDecoder(r.Body).Decode(&in); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, svcErr := h.svc.GenerateIdeas(ctx, ownerID, in)
	if svcErr != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("idea generation failed: %v", svcErr))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Analysis handles POST /api/v1/generate/analysis
func (h *GenerateHandler) Analysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	var in generate.AnalysisInput
	if decodeErr := json.NewDecoder(r.Body).Decode(&in); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Title == "" {
		writeError(w, http.StatusBadRequest, "idea title is required")
		return
	}

	result, svcErr := h.svc.Analyze(ctx, ownerID, in)
	if svcErr != nil {
		var malformed *llm.MalformedOutputError
		if errors.As(svcErr, &malformed) {
			writeJSON(w, http.StatusBadGateway, AnalysisErrorResponse{
				Error:     "model did not return valid JSON",
				RawOutput: malformed.RawText,
			})
			return
		}
		writeError(w, http.StatusBadGateway, fmt.Sprintf("analysis failed: %v", svcErr))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Budget handles POST /api/v1/generate/budget
func (h *GenerateHandler) Budget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	var in generate.BudgetInput
	if decodeErr := json.NewDecoder(r.Body).Decode(&in); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, svcErr := h.svc.PlanBudget(ctx, ownerID, in)
	if svcErr != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("budget generation failed: %v", svcErr))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// BOM handles POST /api/v1/generate/bom
func (h *GenerateHandler) BOM(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	var in generate.BOMInput
	if decodeErr := json.NewDecoder(r.Body).Decode(&in); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, svcErr := h.svc.GenerateBOM(ctx, ownerID, in)
	if svcErr != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("bill of materials generation failed: %v", svcErr))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Timeline handles POST /api/v1/generate/timeline
func (h *GenerateHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	var in generate.TimelineInput
	if decodeErr := json.NewDecoder(r.Body).Decode(&in); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, svcErr := h.svc.PlanTimeline(ctx, ownerID, in)
	if svcErr != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("timeline generation failed: %v", svcErr))
		return
	}

	writeJSON(w, http.StatusOK, result)
}
