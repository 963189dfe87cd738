package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tgrail/draftroom/go/internal/events"
)

// OutboxRepository defines what the app layer needs from the repository
type OutboxRepository interface {
	InsertOutboxEvent(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error
}

// App handles outbox business logic
type App struct {
	repo OutboxRepository
}

// NewApp creates a new outbox App
func NewApp(repo OutboxRepository) *App {
	return &App{
		repo: repo,
	}
}

// InsertOutboxDraftCreated inserts a DraftCreated event into the outbox
func (a *App) InsertOutboxDraftCreated(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return a.insert(ctx, draftID, events.TypeDraftCreated, payload)
}

// InsertOutboxDraftActivated inserts a DraftActivated event into the outbox
func (a *App) InsertOutboxDraftActivated(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return a.insert(ctx, draftID, events.TypeDraftActivated, payload)
}

// InsertOutboxDraftReset inserts a DraftReset event into the outbox
func (a *App) InsertOutboxDraftReset(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return a.insert(ctx, draftID, events.TypeDraftReset, payload)
}

// InsertOutboxPickMade inserts a PickMade event into the outbox
func (a *App) InsertOutboxPickMade(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return a.insert(ctx, draftID, events.TypePickMade, payload)
}

// InsertOutboxTradeCompleted inserts a TradeCompleted event into the outbox
func (a *App) InsertOutboxTradeCompleted(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return a.insert(ctx, draftID, events.TypeTradeCompleted, payload)
}

// InsertOutboxTradeCancelled inserts a TradeCancelled event into the outbox
func (a *App) InsertOutboxTradeCancelled(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return a.insert(ctx, draftID, events.TypeTradeCancelled, payload)
}

func (a *App) insert(ctx context.Context, draftID uuid.UUID, eventType string, payload []byte) error {
	if err := a.validateEventPayload(payload); err != nil {
		return fmt.Errorf("invalid %s payload: %w", eventType, err)
	}

	if err := a.repo.InsertOutboxEvent(ctx, draftID, eventType, payload); err != nil {
		return fmt.Errorf("failed to insert %s event: %w", eventType, err)
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Str("event_type", eventType).
		Msg("outbox event inserted")

	return nil
}

// validateEventPayload ensures the payload is valid JSON before it hits the
// outbox table.
func (a *App) validateEventPayload(payload []byte) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload is empty")
	}
	if !json.Valid(payload) {
		return fmt.Errorf("payload is not valid JSON")
	}
	return nil
}
