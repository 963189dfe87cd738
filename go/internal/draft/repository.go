package draft

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
	"github.com/tgrail/draftroom/go/internal/models"
)

// Repository implements draft data access against Postgres. The board
// (draft order and rounds) is embedded in the draft row as JSONB so every
// draft read and write is a single-document operation; a version column
// guards writes against lost updates.
type Repository struct {
	sqlDB *sql.DB
}

// NewRepository creates a new draft repository
func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		sqlDB: sqlDB,
	}
}

const draftColumns = `id, year, draft_type, snake, active, draft_order, rounds,
	current_round, current_pick, current_overall_pick,
	active_round, active_pick, active_overall_pick,
	version, created_at, updated_at`

func (r *Repository) CreateDraft(ctx context.Context, draft *models.Draft) (*models.Draft, error) {
	orderJSON, roundsJSON, err := marshalBoard(draft)
	if err != nil {
		return nil, err
	}

	row := r.sqlDB.QueryRowContext(ctx, `
		INSERT INTO drafts (
			id, year, draft_type, snake, active, draft_order, rounds,
			current_round, current_pick, current_overall_pick,
			active_round, active_pick, active_overall_pick,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1, now(), now())
		RETURNING `+draftColumns,
		draft.ID, draft.Year, string(draft.DraftType), draft.Snake, draft.Active,
		orderJSON, roundsJSON,
		draft.CurrentRound, draft.CurrentPick, draft.CurrentOverallPick,
		draft.ActiveRound, draft.ActivePick, draft.ActiveOverallPick,
	)

	created, err := scanDraft(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return created, nil
}

func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	row := r.sqlDB.QueryRowContext(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id)

	draft, err := scanDraft(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("draft %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

func (r *Repository) GetActiveDraft(ctx context.Context) (*models.Draft, error) {
	row := r.sqlDB.QueryRowContext(ctx,
		`SELECT `+draftColumns+` FROM drafts WHERE active ORDER BY created_at DESC LIMIT 1`)

	draft, err := scanDraft(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveDraft
		}
		return nil, fmt.Errorf("failed to get active draft: %w", err)
	}
	return draft, nil
}

// UpdateDraft writes the full aggregate back with a compare-and-swap on the
// version column. Zero rows affected means a concurrent writer won; the
// caller gets ErrVersionConflict and nothing was written.
func (r *Repository) UpdateDraft(ctx context.Context, draft *models.Draft) (*models.Draft, error) {
	orderJSON, roundsJSON, err := marshalBoard(draft)
	if err != nil {
		return nil, err
	}

	result, err := r.sqlDB.ExecContext(ctx, `
		UPDATE drafts SET
			year = $3, draft_type = $4, snake = $5, active = $6,
			draft_order = $7, rounds = $8,
			current_round = $9, current_pick = $10, current_overall_pick = $11,
			active_round = $12, active_pick = $13, active_overall_pick = $14,
			version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2`,
		draft.ID, draft.Version,
		draft.Year, string(draft.DraftType), draft.Snake, draft.Active,
		orderJSON, roundsJSON,
		draft.CurrentRound, draft.CurrentPick, draft.CurrentOverallPick,
		draft.ActiveRound, draft.ActivePick, draft.ActiveOverallPick,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected count: %w", err)
	}
	if rowsAffected == 0 {
		if _, getErr := r.GetDraft(ctx, draft.ID); getErr != nil {
			return nil, getErr
		}
		return nil, fmt.Errorf("draft %s: %w", draft.ID, ErrVersionConflict)
	}

	return r.GetDraft(ctx, draft.ID)
}

func (r *Repository) DeactivateDrafts(ctx context.Context) error {
	_, err := r.sqlDB.ExecContext(ctx,
		`UPDATE drafts SET active = FALSE, version = version + 1, updated_at = now() WHERE active`)
	if err != nil {
		return fmt.Errorf("failed to deactivate drafts: %w", err)
	}
	return nil
}

func (r *Repository) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	result, err := r.sqlDB.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected count: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("draft %s: %w", id, ErrNotFound)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func marshalBoard(draft *models.Draft) (pqtype.NullRawMessage, pqtype.NullRawMessage, error) {
	orderBytes, err := json.Marshal(draft.DraftOrder)
	if err != nil {
		return pqtype.NullRawMessage{}, pqtype.NullRawMessage{}, fmt.Errorf("failed to marshal draft order: %w", err)
	}
	roundsBytes, err := json.Marshal(draft.Rounds)
	if err != nil {
		return pqtype.NullRawMessage{}, pqtype.NullRawMessage{}, fmt.Errorf("failed to marshal rounds: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: orderBytes, Valid: true},
		pqtype.NullRawMessage{RawMessage: roundsBytes, Valid: true}, nil
}

func scanDraft(row rowScanner) (*models.Draft, error) {
	var (
		draft      models.Draft
		draftType  string
		orderJSON  pqtype.NullRawMessage
		roundsJSON pqtype.NullRawMessage
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := row.Scan(
		&draft.ID, &draft.Year, &draftType, &draft.Snake, &draft.Active,
		&orderJSON, &roundsJSON,
		&draft.CurrentRound, &draft.CurrentPick, &draft.CurrentOverallPick,
		&draft.ActiveRound, &draft.ActivePick, &draft.ActiveOverallPick,
		&draft.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	draft.DraftType = models.DraftType(draftType)
	draft.CreatedAt = createdAt
	draft.UpdatedAt = updatedAt

	if orderJSON.Valid {
		if err := json.Unmarshal(orderJSON.RawMessage, &draft.DraftOrder); err != nil {
			return nil, fmt.Errorf("failed to unmarshal draft order: %w", err)
		}
	}
	if roundsJSON.Valid {
		if err := json.Unmarshal(roundsJSON.RawMessage, &draft.Rounds); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rounds: %w", err)
		}
	}

	return &draft, nil
}
