// Package project provides the saved-project document store. Projects are
// JSON documents keyed by UUID and scoped to an owner; partial updates
// merge top-level fields into the stored document, last write wins.
package project

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the project does not exist or belongs to a
// different owner.
var ErrNotFound = errors.New("project not found")

// ErrInvalidInput is returned for empty owner IDs or unparseable documents.
var ErrInvalidInput = errors.New("invalid project input")

// Budget is the money section of a project document.
type Budget struct {
	Allocated float64 `json:"allocated"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

// Timeline is the schedule section of a project document.
type Timeline struct {
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	DaysRemaining int    `json:"daysRemaining"`
}

// Analytics is the traction section of a project document.
type Analytics struct {
	Revenue   float64 `json:"revenue"`
	Customers int     `json:"customers"`
	Growth    float64 `json:"growth"`
}

// Document is the saved project payload.
type Document struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // Planning, In Progress, Launched, ...
	Progress    int       `json:"progress"`
	Budget      Budget    `json:"budget"`
	Timeline    Timeline  `json:"timeline"`
	Analytics   Analytics `json:"analytics"`
	Category    string    `json:"category"`
}

// Project is a stored document plus its identity and timestamps.
type Project struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Document  Document  `json:"document"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Service provides project operations over SQLite.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Create stores a new project document for the owner and returns it with a
// generated UUID.
func (s *Service) Create(ctx context.Context, ownerID string, doc Document) (*Project, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrInvalidInput
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("create project: encode document: %w", err)
	}

	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO projects (id, owner_id, doc, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		id, ownerID, string(payload), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	return s.Get(ctx, ownerID, id)
}

// Get retrieves one project scoped to the owner.
func (s *Service) Get(ctx context.Context, ownerID, projectID string) (*Project, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, owner_id, doc, created_at, updated_at FROM projects WHERE id = ? AND owner_id = ?",
		projectID, ownerID,
	)
	return scanProject(row)
}

// ListByOwner returns all of the owner's projects, most recently updated
// first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]*Project, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, owner_id, doc, created_at, updated_at FROM projects WHERE owner_id = ? ORDER BY updated_at DESC, id",
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*Project, 0, 8)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Update applies a partial update: the given top-level fields are merged
// into the stored document, last write wins. Unknown fields are rejected by
// decoding against the document schema.
func (s *Service) Update(ctx context.Context, ownerID, projectID string, partial map[string]any) (*Project, error) {
	current, err := s.Get(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}

	merged, err := mergeDocument(current.Document, partial)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("update project: encode document: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		"UPDATE projects SET doc = ?, updated_at = ? WHERE id = ? AND owner_id = ?",
		string(payload), now, projectID, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, ownerID, projectID)
}

// Delete removes the project. Deleting a missing project is an ErrNotFound.
func (s *Service) Delete(ctx context.Context, ownerID, projectID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM projects WHERE id = ? AND owner_id = ?",
		projectID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- internal ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*Project, error) {
	var (
		p          Project
		docJSON    string
		createdRaw string
		updatedRaw string
	)
	err := row.Scan(&p.ID, &p.OwnerID, &docJSON, &createdRaw, &updatedRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan project: %w", err)
	}

	if err := json.Unmarshal([]byte(docJSON), &p.Document); err != nil {
		return nil, fmt.Errorf("scan project %s: decode document: %w", p.ID, err)
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedRaw)
	return &p, nil
}

// mergeDocument overlays the partial fields onto the current document and
// re-decodes against the schema so a bad field type surfaces as an error
// instead of silently corrupting the stored document.
func mergeDocument(current Document, partial map[string]any) (Document, error) {
	base := map[string]any{}
	currentJSON, err := json.Marshal(current)
	if err != nil {
		return Document{}, fmt.Errorf("merge document: %w", err)
	}
	if err := json.Unmarshal(currentJSON, &base); err != nil {
		return Document{}, fmt.Errorf("merge document: %w", err)
	}

	for key, value := range partial {
		base[key] = value
	}

	mergedJSON, err := json.Marshal(base)
	if err != nil {
		return Document{}, fmt.Errorf("merge document: %w", err)
	}
	dec := json.NewDecoder(strings.NewReader(string(mergedJSON)))
	dec.DisallowUnknownFields()
	var merged Document
	if err := dec.Decode(&merged); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return merged, nil
}
