package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/metrodocs/docflow/internal/core/domain"
)

// EventRepository is the append-only store for the processing audit trail.
// There is deliberately no update or delete.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Append(ctx context.Context, event *domain.ProcessingEvent) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO document_processing_events (id, document_id, stage, status, message, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`, event.ID, event.DocumentID, string(event.Stage), string(event.Status), event.Message, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert processing event: %w", err)
	}
	return nil
}

func (r *EventRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.ProcessingEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, stage, status, message, created_at
FROM document_processing_events
WHERE document_id = $1
ORDER BY created_at
`, documentID)
	if err != nil {
		return nil, fmt.Errorf("query processing events: %w", err)
	}
	defer rows.Close()

	var events []domain.ProcessingEvent
	for rows.Next() {
		var event domain.ProcessingEvent
		var stage, status string
		if err := rows.Scan(&event.ID, &event.DocumentID, &stage, &status, &event.Message, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan processing event: %w", err)
		}
		event.Stage = domain.Stage(stage)
		event.Status = domain.EventStatus(status)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate processing events: %w", err)
	}
	return events, nil
}
