// HTTP handlers for project CRUD endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/startupcopilot/copilot/internal/domain/project"
)

// ProjectHandler handles HTTP requests for saved-project operations.
type ProjectHandler struct {
	projects *project.Service
}

func NewProjectHandler(projects *project.Service) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// ListProjectsResponse is the response body for listing projects.
type ListProjectsResponse struct {
	Data []*project.Project `json:"data"`
}

// CreateProject handles POST /api/v1/projects
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	var doc project.Document
	if decodeErr := json.NewDecoder(r.Body).Decode(&doc); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if doc.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, svcErr := h.projects.Create(ctx, ownerID, doc)
	if svcErr != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to create project: %v", svcErr))
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListProjects handles GET /api/v1/projects
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	projects, listErr := h.projects.ListByOwner(ctx, ownerID)
	if listErr != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list projects: %v", listErr))
		return
	}

	writeJSON(w, http.StatusOK, ListProjectsResponse{Data: projects})
}

// GetProject handles GET /api/v1/projects/{id}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "project id is required")
		return
	}

	p, svcErr := h.projects.Get(ctx, ownerID, projectID)
	if errors.Is(svcErr, project.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if svcErr != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to get project: %v", svcErr))
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// UpdateProject handles PATCH /api/v1/projects/{id}.
// The body is a partial document; given top-level fields are merged into
// the stored document.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "project id is required")
		return
	}

	var partial map[string]any
	if decodeErr := json.NewDecoder(r.Body).Decode(&partial); decodeErr != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(partial) == 0 {
		writeError(w, http.StatusBadRequest, "empty update")
		return
	}

	updated, svcErr := h.projects.Update(ctx, ownerID, projectID, partial)
	switch {
	case errors.Is(svcErr, project.ErrNotFound):
		writeError(w, http.StatusNotFound, "project not found")
		return
	case errors.Is(svcErr, project.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid update: %v", svcErr))
		return
	case svcErr != nil:
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to update project: %v", svcErr))
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// DeleteProject handles DELETE /api/v1/projects/{id}
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ownerID, ownerErr := getOwnerID(ctx)
	if ownerErr != nil {
		writeError(w, http.StatusBadRequest, "missing owner_id in context")
		return
	}

	projectID := chi.URLParam(r, "id")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "project id is required")
		return
	}

	svcErr := h.projects.Delete(ctx, ownerID, projectID)
	if errors.Is(svcErr, project.ErrNotFound) {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if svcErr != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete project: %v", svcErr))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
