package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/startupcopilot/copilot/internal/api/ctxkeys"
	"github.com/startupcopilot/copilot/internal/domain/project"
	"github.com/startupcopilot/copilot/internal/infra/sqlite"
)

// mustOpenHandlerDB opens an in-memory SQLite DB with all migrations applied.
func mustOpenHandlerDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.NewDB(":memory:")
	if err != nil {
		t.Fatalf("mustOpenHandlerDB: NewDB: %v", err)
	}
	if err := sqlite.MigrateUp(db); err != nil {
		t.Fatalf("mustOpenHandlerDB: MigrateUp: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func contextWithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ctxkeys.OwnerID, ownerID)
}

// withURLParam injects a chi route parameter so handlers can be exercised
// without the full router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestProjectHandler_CreateProject tests POST /api/v1/projects
func TestProjectHandler_CreateProject(t *testing.T) {
	t.Parallel()

	db := mustOpenHandlerDB(t)
	handler := NewProjectHandler(project.NewService(db))

	body, _ := json.Marshal(map[string]any{
		"name":        "Meal Prep Service",
		"description": "Subscription meal prep for busy professionals",
		"status":      "active",
		"category":    "food",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))

	w := httptest.NewRecorder()
	handler.CreateProject(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("CreateProject status = %d; want %d; body = %s", w.Code, http.StatusCreated, w.Body.String())
	}

	var resp project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if resp.ID == "" {
		t.Error("response missing project id")
	}
	if resp.Document.Name != "Meal Prep Service" {
		t.Errorf("response name = %q; want 'Meal Prep Service'", resp.Document.Name)
	}
	if resp.OwnerID != "owner-1" {
		t.Errorf("response ownerId = %q; want 'owner-1'", resp.OwnerID)
	}
}

func TestProjectHandler_CreateProject_MissingOwner_Returns400(t *testing.T) {
	t.Parallel()

	db := mustOpenHandlerDB(t)
	handler := NewProjectHandler(project.NewService(db))

	body, _ := json.Marshal(map[string]any{"name": "A"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewReader(body))
	w := httptest.NewRecorder()
	handler.CreateProject(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusBadRequest)
	}
}

func TestProjectHandler_CreateProject_InvalidJSON_Returns400(t *testing.T) {
	t.Parallel()

	db := mustOpenHandlerDB(t)
	handler := NewProjectHandler(project.NewService(db))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewBufferString(`{"name":`))
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.CreateProject(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusBadRequest)
	}
}

func TestProjectHandler_CreateProject_MissingName_Returns400(t *testing.T) {
	t.Parallel()

	db := mustOpenHandlerDB(t)
	handler := NewProjectHandler(project.NewService(db))

	body, _ := json.Marshal(map[string]any{"description": "no name"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", bytes.NewReader(body))
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.CreateProject(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusBadRequest)
	}
}

// TestProjectHandler_ListProjects tests GET /api/v1/projects owner scoping.
func TestProjectHandler_ListProjects(t *testing.T) {
	t.Parallel()

	db := mustOpenHandlerDB(t)
	svc := project.NewService(db)
	handler := NewProjectHandler(svc)

	ctx := context.Background()
	if _, err := svc.Create(ctx, "owner-1", project.Document{Name: "P1"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "owner-1", project.Document{Name: "P2"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, "owner-2", project.Document{Name: "other"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	w := httptest.NewRecorder()
	handler.ListProjects(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusOK)
	}

	var resp ListProjectsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if len(resp.Data) != 2 {
		t.Errorf("len(data) = %d; want 2", len(resp.Data))
	}
}

func TestProjectHandler_GetProject_NotFound_Returns404(t *testing.T) {
	t.Parallel()

	db := mustOpenHandlerDB(t)
	handler := NewProjectHandler(project.NewService(db))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/nope", nil)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	req = withURLParam(req, "id", "nope")
	w := httptest.NewRecorder()
	handler.GetProject(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusNotFound)
	}
}

// TestProjectHandler_UpdateProject verifies a partial patch through the
// handler keeps untouched document fields.
func TestProjectHandler_UpdateProject(t *testing.T) {
	t.Parallel()

	db := mustOpenHandlerDB(t)
	svc := project.NewService(db)
	handler := NewProjectHandler(svc)

	created, err := svc.Create(context.Background(), "owner-1", project.Document{
		Name:        "Original",
		Description: "keep me",
		Status:      "active",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := bytes.NewBufferString(`{"status": "completed", "progress": 100}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/projects/"+created.ID, body)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	req = withURLParam(req, "id", created.ID)
	w := httptest.NewRecorder()
	handler.UpdateProject(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=%d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp project.Project
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if resp.Document.Status != "completed" {
		t.Errorf("status = %q; want 'completed'", resp.Document.Status)
	}
	if resp.Document.Description != "keep me" {
		t.Errorf("description = %q; want 'keep me'", resp.Document.Description)
	}
}

func TestProjectHandler_UpdateProject_UnknownField_Returns400(t *testing.T) {
	t.Parallel()

	db := mustOpenHandlerDB(t)
	svc := project.NewService(db)
	handler := NewProjectHandler(svc)

	created, err := svc.Create(context.Background(), "owner-1", project.Document{Name: "P"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	body := bytes.NewBufferString(`{"bogus": true}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/projects/"+created.ID, body)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	req = withURLParam(req, "id", created.ID)
	w := httptest.NewRecorder()
	handler.UpdateProject(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusBadRequest)
	}
}

func TestProjectHandler_DeleteProject(t *testing.T) {
	t.Parallel()

	db := mustOpenHandlerDB(t)
	svc := project.NewService(db)
	handler := NewProjectHandler(svc)

	created, err := svc.Create(context.Background(), "owner-1", project.Document{Name: "P"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/projects/"+created.ID, nil)
	req = req.WithContext(contextWithOwnerID(req.Context(), "owner-1"))
	req = withURLParam(req, "id", created.ID)
	w := httptest.NewRecorder()
	handler.DeleteProject(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d want=%d", w.Code, http.StatusNoContent)
	}

	// Deleting again must 404.
	w = httptest.NewRecorder()
	handler.DeleteProject(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("second delete status=%d want=%d", w.Code, http.StatusNotFound)
	}
}
