package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Repository implements outbox data access against Postgres.
type Repository struct {
	sqlDB *sql.DB
}

// NewRepository creates a new outbox repository
func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		sqlDB: sqlDB,
	}
}

func (r *Repository) InsertOutboxEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error {
	_, err := r.sqlDB.ExecContext(ctx, `
		INSERT INTO outbox (id, draft_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, now())`,
		uuid.New(), draftID, eventType, payload)
	if err != nil {
		return fmt.Errorf("failed to insert %s outbox event: %w", eventType, err)
	}
	return nil
}

// FetchUnsentOutbox locks and returns up to limit unsent events inside the
// given transaction. SKIP LOCKED keeps concurrent relay instances from
// double-publishing.
func (r *Repository) FetchUnsentOutbox(ctx context.Context, tx *sql.Tx, limit int32) ([]OutboxEvent, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, draft_id, event_type, payload, created_at, sent_at
		FROM outbox
		WHERE sent_at IS NULL
		ORDER BY created_at ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var out []OutboxEvent
	for rows.Next() {
		var (
			ev     OutboxEvent
			sentAt sql.NullTime
		)
		if err := rows.Scan(&ev.ID, &ev.DraftID, &ev.EventType, &ev.Payload, &ev.CreatedAt, &sentAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		if sentAt.Valid {
			ev.SentAt = &sentAt.Time
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read outbox events: %w", err)
	}
	return out, nil
}

// MarkOutboxSent stamps the given events as sent inside the transaction.
func (r *Repository) MarkOutboxSent(ctx context.Context, tx *sql.Tx, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE outbox SET sent_at = $2 WHERE id = ANY($1)`,
		pq.Array(ids), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to mark outbox events sent: %w", err)
	}
	return nil
}
