package trade

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

// Repository implements trade data access against Postgres. Parties and the
// asset distribution are embedded in the trade row as JSONB, one document
// per trade. The seq column is a BIGSERIAL assigned on insert; listing and
// the later-trade query order on it so trades created at the same instant
// still resolve deterministically.
type Repository struct {
	sqlDB *sql.DB
}

// NewRepository creates a new trade repository
func NewRepository(sqlDB *sql.DB) *Repository {
	return &Repository{
		sqlDB: sqlDB,
	}
}

const tradeColumns = `id, status, notes, parties, asset_distribution, seq, created_at`

func (r *Repository) CreateTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	partiesBytes, err := json.Marshal(trade.Parties)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parties: %w", err)
	}
	distBytes, err := json.Marshal(trade.Distribution)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal distribution: %w", err)
	}

	var notes sql.NullString
	if trade.Notes != nil {
		notes = sql.NullString{String: *trade.Notes, Valid: true}
	}

	row := r.sqlDB.QueryRowContext(ctx, `
		INSERT INTO trades (id, status, notes, parties, asset_distribution, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+tradeColumns,
		trade.ID, string(trade.Status), notes,
		pqtype.NullRawMessage{RawMessage: partiesBytes, Valid: true},
		pqtype.NullRawMessage{RawMessage: distBytes, Valid: true},
		trade.CreatedAt,
	)

	created, err := scanTrade(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}
	return created, nil
}

func (r *Repository) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	row := r.sqlDB.QueryRowContext(ctx,
		`SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id)

	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trade %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return trade, nil
}

func (r *Repository) GetTrades(ctx context.Context) ([]models.Trade, error) {
	rows, err := r.sqlDB.QueryContext(ctx,
		`SELECT `+tradeColumns+` FROM trades ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

func (r *Repository) GetCompletedTradesAfter(ctx context.Context, afterSeq int64) ([]models.Trade, error) {
	rows, err := r.sqlDB.QueryContext(ctx, `
		SELECT `+tradeColumns+` FROM trades
		WHERE status = $1 AND seq > $2
		ORDER BY seq ASC`,
		string(models.TradeStatusCompleted), afterSeq)
	if err != nil {
		return nil, fmt.Errorf("failed to list later trades: %w", err)
	}
	defer rows.Close()

	return collectTrades(rows)
}

func (r *Repository) UpdateTradeStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus) (*models.Trade, error) {
	row := r.sqlDB.QueryRowContext(ctx, `
		UPDATE trades SET status = $2 WHERE id = $1
		RETURNING `+tradeColumns,
		id, string(status))

	trade, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trade %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update trade status: %w", err)
	}
	return trade, nil
}

func (r *Repository) DeleteTrade(ctx context.Context, id uuid.UUID) error {
	result, err := r.sqlDB.ExecContext(ctx, `DELETE FROM trades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected count: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("trade %s: %w", id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var (
		trade     models.Trade
		status    string
		notes     sql.NullString
		parties   pqtype.NullRawMessage
		dist      pqtype.NullRawMessage
		createdAt time.Time
	)

	if err := row.Scan(&trade.ID, &status, &notes, &parties, &dist, &trade.Seq, &createdAt); err != nil {
		return nil, err
	}

	trade.Status = models.TradeStatus(status)
	trade.CreatedAt = createdAt
	if notes.Valid {
		trade.Notes = &notes.String
	}
	if parties.Valid {
		if err := json.Unmarshal(parties.RawMessage, &trade.Parties); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parties: %w", err)
		}
	}
	if dist.Valid {
		if err := json.Unmarshal(dist.RawMessage, &trade.Distribution); err != nil {
			return nil, fmt.Errorf("failed to unmarshal distribution: %w", err)
		}
	}

	return &trade, nil
}

func collectTrades(rows *sql.Rows) ([]models.Trade, error) {
	var trades []models.Trade
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *trade)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trades: %w", err)
	}
	return trades, nil
}
