// Package usage records the generation trail: one append-only event per
// orchestrator run, consumed from the event bus and queryable per owner.
package usage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/startupcopilot/copilot/internal/infra/eventbus"
)

// Event is one recorded generation run.
type Event struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Feature     string    `json:"feature"`
	Fingerprint string    `json:"fingerprint"`
	ModelUsed   string    `json:"modelUsed,omitempty"`
	Attempts    int       `json:"attempts"`
	CacheHit    bool      `json:"cacheHit"`
	Outcome     string    `json:"outcome"`
	DurationMS  int64     `json:"durationMs"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListInput bounds a usage listing.
type ListInput struct {
	Limit int // default 100
}

// Service persists and lists generation events.
type Service struct {
	db *sql.DB
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Record appends one event. Events are immutable once written.
func (s *Service) Record(ctx context.Context, evt eventbus.GenerationEvent) error {
	occurredAt := evt.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_events
			(id, owner_id, feature, fingerprint, model_used, attempts, cache_hit, outcome, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), evt.OwnerID, evt.Feature, evt.Fingerprint, evt.ModelUsed,
		evt.Attempts, boolToInt(evt.CacheHit), evt.Outcome, evt.Duration.Milliseconds(),
		occurredAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record usage event: %w", err)
	}
	return nil
}

// ListByOwner returns the owner's events, newest first.
func (s *Service) ListByOwner(ctx context.Context, ownerID string, in ListInput) ([]Event, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, feature, fingerprint, model_used, attempts, cache_hit, outcome, duration_ms, created_at
		FROM usage_events
		WHERE owner_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?`,
		ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list usage events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var (
			evt        Event
			cacheHit   int
			createdRaw string
		)
		if err := rows.Scan(
			&evt.ID, &evt.OwnerID, &evt.Feature, &evt.Fingerprint, &evt.ModelUsed,
			&evt.Attempts, &cacheHit, &evt.Outcome, &evt.DurationMS, &createdRaw,
		); err != nil {
			return nil, fmt.Errorf("scan usage event: %w", err)
		}
		evt.CacheHit = cacheHit != 0
		evt.CreatedAt, _ = time.Parse(time.RFC3339, createdRaw)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list usage events: %w", err)
	}
	return events, nil
}

// Consume drains generation events from the bus channel into the store
// until the context is cancelled. Run it in its own goroutine; recording
// failures are dropped, the trail is best-effort.
func (s *Service) Consume(ctx context.Context, events <-chan eventbus.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			ge, isGen := evt.Payload.(eventbus.GenerationEvent)
			if !isGen {
				continue
			}
			_ = s.Record(ctx, ge)
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
