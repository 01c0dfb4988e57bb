package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/startupcopilot/copilot/internal/domain/generate"
	"github.com/startupcopilot/copilot/internal/infra/cache"
	"github.com/startupcopilot/copilot/internal/infra/llm"
)

// stubHandlerCompleter returns a canned completion or error.
type stubHandlerCompleter struct {
	raw string
	err error
}

func (s *stubHandlerCompleter) CompleteWithFallback(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.CompletionResult{RawText: s.raw, ModelUsed: "model-x", AttemptCount: 1}, nil
}

func newGenerateHandler(completer generate.Completer) *GenerateHandler {
	return NewGenerateHandler(generate.NewService(completer, cache.NewMemoryStore(), nil))
}

const handlerIdeasJSON = `[
  {"title": "Idea One", "description": "d1", "investment": "$1,000", "timeframe": "1 month", "difficulty": "Easy"},
  {"title": "Idea Two", "description": "d2", "investment": "$2,000", "timeframe": "2 months", "difficulty": "Medium"},
  {"title": "Idea Three", "description": "d3", "investment": "$3,000", "timeframe": "3 months", "difficulty": "Hard"}
]`

// TestGenerateHandler_Ideas tests POST /api/v1/generate/ideas
func TestGenerateHandler_Ideas(t *testing.T) {
	t.Parallel()

	handler := newGenerateHandler(&stubHandlerCompleter{raw: handlerIdeasJSON})

	body, _ := json.Marshal(map[string]any{"budget": "5000", "interests": "food", "skills": "cooking"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/ideas", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))

	w := httptest.NewRecorder()
	handler.Ideas(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp generate.IdeasResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(resp.Ideas) != 3 {
		t.Errorf("len(ideas) = %d; want 3", len(resp.Ideas))
	}
	if resp.Fallback {
		t.Error("fallback = true; want false")
	}
	if resp.ModelUsed != "model-x" {
		t.Errorf("modelUsed = %q; want 'model-x'", resp.ModelUsed)
	}
}

func TestGenerateHandler_Ideas_MissingOwner_Returns400(t *testing.T) {
	t.Parallel()

	handler := newGenerateHandler(&stubHandlerCompleter{raw: handlerIdeasJSON})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/ideas", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	handler.Ideas(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusBadRequest)
	}
}

func TestGenerateHandler_Ideas_InvalidJSON_Returns400(t *testing.T) {
	t.Parallel()

	handler := newGenerateHandler(&stubHandlerCompleter{raw: handlerIdeasJSON})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/ideas", bytes.NewBufferString(`{"budget":`))
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.Ideas(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusBadRequest)
	}
}

// TestGenerateHandler_Ideas_AllModelsFail_ReturnsFallback verifies the
// endpoint still answers 200 with the static idea set when every model is
// down.
func TestGenerateHandler_Ideas_AllModelsFail_ReturnsFallback(t *testing.T) {
	t.Parallel()

	handler := newGenerateHandler(&stubHandlerCompleter{
		err: &llm.ExhaustedError{Models: []string{"m"}, Attempts: 2},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/ideas", bytes.NewBufferString(`{}`))
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.Ideas(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusOK)
	}

	var resp generate.IdeasResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if !resp.Fallback {
		t.Error("fallback = false; want true")
	}
	if len(resp.Ideas) != 3 {
		t.Errorf("len(ideas) = %d; want 3", len(resp.Ideas))
	}
}

// TestGenerateHandler_Analysis_MissingTitle_Returns400 exercises input
// validation ahead of any model call.
func TestGenerateHandler_Analysis_MissingTitle_Returns400(t *testing.T) {
	t.Parallel()

	handler := newGenerateHandler(&stubHandlerCompleter{raw: `{}`})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/analysis", bytes.NewBufferString(`{"description":"x"}`))
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.Analysis(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusBadRequest)
	}
}

// TestGenerateHandler_Analysis_MalformedOutput_Returns502WithRaw verifies
// the raw model text is surfaced so the client can show it and retry.
func TestGenerateHandler_Analysis_MalformedOutput_Returns502WithRaw(t *testing.T) {
	t.Parallel()

	handler := newGenerateHandler(&stubHandlerCompleter{raw: "I am sorry, I cannot produce JSON today."})

	body := bytes.NewBufferString(`{"title": "Meal kits", "description": "weekly boxes"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/analysis", body)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.Analysis(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusBadGateway)
	}

	var resp AnalysisErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if resp.RawOutput != "I am sorry, I cannot produce JSON today." {
		t.Errorf("rawOutput = %q; want the original model text", resp.RawOutput)
	}
}

func TestGenerateHandler_Analysis_Success(t *testing.T) {
	t.Parallel()

	raw := `{"opportunity": "big market", "pros": ["p"], "cons": ["c"]}`
	handler := newGenerateHandler(&stubHandlerCompleter{raw: raw})

	body := bytes.NewBufferString(`{"title": "Meal kits"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/analysis", body)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.Analysis(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp generate.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if resp.Analysis.Opportunity != "big market" {
		t.Errorf("opportunity = %q; want 'big market'", resp.Analysis.Opportunity)
	}
	if len(resp.Missing) == 0 {
		t.Error("expected missing sections to be flagged")
	}
}

func TestGenerateHandler_Budget(t *testing.T) {
	t.Parallel()

	raw := `[
	  {"category": "Development", "amount": "4000", "type": "startup"},
	  {"category": "Hosting", "amount": 120, "type": "monthly"}
	]`
	handler := newGenerateHandler(&stubHandlerCompleter{raw: raw})

	body := bytes.NewBufferString(`{"businessType": "saas", "expectedRevenue": "10000"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/budget", body)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.Budget(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp generate.BudgetResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if resp.StartupCosts != 4000 {
		t.Errorf("startupCosts = %d; want 4000", resp.StartupCosts)
	}
	if resp.MonthlyCosts != 120 {
		t.Errorf("monthlyCosts = %d; want 120", resp.MonthlyCosts)
	}
}

func TestGenerateHandler_BOM(t *testing.T) {
	t.Parallel()

	raw := `[
	  {"category": "Electronics", "items": [
	    {"name": "Sensor", "quantity": "10", "supplier": "Acme", "cost": "$300", "lead_time": "2 weeks", "priority": "High"}
	  ]}
	]`
	handler := newGenerateHandler(&stubHandlerCompleter{raw: raw})

	body := bytes.NewBufferString(`{"productType": "iot device"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/bom", body)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.BOM(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp generate.BOMResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if resp.TotalCost != 300 {
		t.Errorf("totalCost = %d; want 300", resp.TotalCost)
	}
}

func TestGenerateHandler_Timeline(t *testing.T) {
	t.Parallel()

	raw := `[
	  {"id": 1, "title": "Validate", "description": "d", "deadline": "2026-09-15", "status": "pending", "priority": "high", "estimatedHours": 20}
	]`
	handler := newGenerateHandler(&stubHandlerCompleter{raw: raw})

	body := bytes.NewBufferString(`{"projectName": "Meal kits", "projectType": "saas", "targetLaunchDate": "2026-12-01"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/generate/timeline", body)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.Timeline(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp generate.TimelineResult
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(resp.Milestones) != 1 {
		t.Fatalf("len(milestones) = %d; want 1", len(resp.Milestones))
	}
	if resp.Milestones[0].ID != "1" {
		t.Errorf("milestone id = %q; want '1'", resp.Milestones[0].ID)
	}
}
