package trade

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/tgrail/draftroom/go/internal/events"
	"github.com/tgrail/draftroom/go/internal/models"
)

// TradeRepository defines what the ledger needs from the trade repository
type TradeRepository interface {
	CreateTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error)
	GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error)
	GetTrades(ctx context.Context) ([]models.Trade, error)
	GetCompletedTradesAfter(ctx context.Context, afterSeq int64) ([]models.Trade, error)
	UpdateTradeStatus(ctx context.Context, id uuid.UUID, status models.TradeStatus) (*models.Trade, error)
	DeleteTrade(ctx context.Context, id uuid.UUID) error
}

// DraftApp defines what the ledger needs from the draft application
type DraftApp interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	GetActiveDraft(ctx context.Context) (*models.Draft, error)
	TransferOwnership(ctx context.Context, draftID uuid.UUID, overallPick int, newManagerID uuid.UUID) (*models.Draft, error)
	RevertOwnership(ctx context.Context, draftID uuid.UUID, overallPick int) (*models.Draft, error)
}

// OutboxApp defines what the ledger needs from the outbox
type OutboxApp interface {
	InsertOutboxTradeCompleted(ctx context.Context, draftID uuid.UUID, payload []byte) error
	InsertOutboxTradeCancelled(ctx context.Context, draftID uuid.UUID, payload []byte) error
}

// App is the trade ledger: it applies validated trades against the draft's
// ownership state, records the trade history and handles reversal. All
// checks run before the first ownership mutation, so a rejected trade leaves
// the draft untouched.
type App struct {
	repo      TradeRepository
	drafts    DraftApp
	outbox    OutboxApp
	clock     clockwork.Clock
	validator Validator
}

// NewApp creates a new trade App
func NewApp(repo TradeRepository, drafts DraftApp, outbox OutboxApp, clock clockwork.Clock) *App {
	return &App{
		repo:   repo,
		drafts: drafts,
		outbox: outbox,
		clock:  clock,
	}
}

// pickTransfer is one resolved ownership move, computed during validation
// and applied only after every check has passed.
type pickTransfer struct {
	draftID     uuid.UUID
	overallPick int
	newOwner    uuid.UUID
}

// CreateTrade validates and applies a trade. Structural validation runs
// first, then every draft-pick asset is re-verified against the live board:
// the draft must be the active draft, the pick must exist, must not be
// complete, and must currently belong to the contributing party.
func (a *App) CreateTrade(ctx context.Context, req CreateTradeRequest) (*models.Trade, error) {
	trade := &models.Trade{
		ID:           req.ID,
		Notes:        req.Notes,
		Parties:      req.Parties,
		Distribution: req.Distribution,
	}
	if trade.ID == uuid.Nil {
		trade.ID = uuid.New()
	}

	dist, err := a.validator.Validate(trade)
	if err != nil {
		return nil, err
	}
	trade.Distribution = dist

	transfers, err := a.resolveTransfers(ctx, dist)
	if err != nil {
		return nil, err
	}

	for _, t := range transfers {
		if _, err := a.drafts.TransferOwnership(ctx, t.draftID, t.overallPick, t.newOwner); err != nil {
			return nil, fmt.Errorf("failed to transfer pick %d: %w", t.overallPick, err)
		}
	}

	trade.Status = models.TradeStatusCompleted
	trade.CreatedAt = a.clock.Now().UTC()

	created, err := a.repo.CreateTrade(ctx, trade)
	if err != nil {
		return nil, fmt.Errorf("failed to persist trade: %w", err)
	}

	if err := a.emitTradeCompletedEvent(ctx, created); err != nil {
		log.Printf("Failed to emit TradeCompleted event: %v", err)
	}

	log.Printf("Completed trade %s between %d managers (%d assets)",
		created.ID, len(created.Parties), len(created.AllAssets()))
	return created, nil
}

// resolveTransfers re-verifies live ownership for every draft-pick asset and
// returns the full set of ownership moves. Nothing is mutated here; this is
// the last gate before the ledger starts writing.
func (a *App) resolveTransfers(ctx context.Context, dist models.AssetDistribution) ([]pickTransfer, error) {
	active, err := a.drafts.GetActiveDraft(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active draft: %w", err)
	}

	var transfers []pickTransfer
	for receiver, fromMap := range dist {
		for contributor, assets := range fromMap {
			for _, asset := range assets {
				if asset.Type != models.TradeAssetDraftPick {
					continue
				}
				if asset.DraftID != active.ID {
					return nil, &OwnershipError{Reason: fmt.Sprintf(
						"draft %s is not the active draft", asset.DraftID)}
				}
				pos := active.PositionByOverall(asset.OverallPick)
				if pos == nil {
					return nil, &OwnershipError{Reason: fmt.Sprintf(
						"pick %d does not exist in draft %s", asset.OverallPick, asset.DraftID)}
				}
				if pos.Complete {
					return nil, &OwnershipError{Reason: fmt.Sprintf(
						"pick %d has already been used", asset.OverallPick)}
				}
				if owner := pos.CurrentOwner(); owner != contributor {
					return nil, &OwnershipError{Reason: fmt.Sprintf(
						"pick %d belongs to %s, not %s", asset.OverallPick, owner, contributor)}
				}
				transfers = append(transfers, pickTransfer{
					draftID:     asset.DraftID,
					overallPick: asset.OverallPick,
					newOwner:    receiver,
				})
			}
		}
	}
	return transfers, nil
}

// GetTrades returns all trades, newest first.
func (a *App) GetTrades(ctx context.Context) ([]models.Trade, error) {
	trades, err := a.repo.GetTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get trades: %w", err)
	}
	return trades, nil
}

// GetTrade retrieves a trade by ID
func (a *App) GetTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	trade, err := a.repo.GetTrade(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	return trade, nil
}

// CanCancelTrade reports whether a trade is still reversible: none of the
// assets it moved may have been moved again by a later completed trade.
// Ordering is judged on the persisted ledger sequence, not wall clock, so
// trades created at the same instant still order deterministically.
func (a *App) CanCancelTrade(ctx context.Context, id uuid.UUID) (bool, error) {
	trade, err := a.repo.GetTrade(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to get trade: %w", err)
	}
	if trade.Status != models.TradeStatusCompleted {
		return false, nil
	}

	later, err := a.repo.GetCompletedTradesAfter(ctx, trade.Seq)
	if err != nil {
		return false, fmt.Errorf("failed to fetch later trades: %w", err)
	}

	for _, lt := range later {
		for _, asset := range trade.AllAssets() {
			for _, laterAsset := range lt.AllAssets() {
				if asset.SameIdentity(laterAsset) {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

// CancelTrade reverses a completed trade: every draft-pick asset pops its
// most recent ownership transfer (LIFO) and the trade is marked CANCELLED.
// Blocked while any of its assets appears in a later completed trade.
func (a *App) CancelTrade(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	trade, err := a.repo.GetTrade(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get trade: %w", err)
	}
	if trade.Status != models.TradeStatusCompleted {
		return nil, fmt.Errorf("trade %s has status %s: %w", id, trade.Status, ErrNotCompleted)
	}

	can, err := a.CanCancelTrade(ctx, id)
	if err != nil {
		return nil, err
	}
	if !can {
		return nil, fmt.Errorf("trade %s: %w", id, ErrCancelBlocked)
	}

	active, err := a.drafts.GetActiveDraft(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve active draft: %w", err)
	}

	for _, asset := range trade.AllAssets() {
		if asset.Type != models.TradeAssetDraftPick {
			continue
		}
		if asset.DraftID != active.ID {
			return nil, &OwnershipError{Reason: fmt.Sprintf(
				"draft %s is not the active draft", asset.DraftID)}
		}
	}

	// Ownership reverts are not transactional with the status update; an
	// error here is surfaced as-is so the operator can inspect state before
	// retrying.
	for _, asset := range trade.AllAssets() {
		if asset.Type != models.TradeAssetDraftPick {
			continue
		}
		if _, err := a.drafts.RevertOwnership(ctx, asset.DraftID, asset.OverallPick); err != nil {
			return nil, fmt.Errorf("failed to revert pick %d: %w", asset.OverallPick, err)
		}
	}

	cancelled, err := a.repo.UpdateTradeStatus(ctx, id, models.TradeStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to mark trade cancelled: %w", err)
	}

	if err := a.emitTradeCancelledEvent(ctx, cancelled); err != nil {
		log.Printf("Failed to emit TradeCancelled event: %v", err)
	}

	log.Printf("Cancelled trade %s", id)
	return cancelled, nil
}

// DeleteTrade permanently removes a trade record. A trade that still affects
// live ownership is cancelled first, so deletion can never strand transfers.
func (a *App) DeleteTrade(ctx context.Context, id uuid.UUID) error {
	trade, err := a.repo.GetTrade(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get trade: %w", err)
	}

	if trade.Status != models.TradeStatusCancelled {
		if _, err := a.CancelTrade(ctx, id); err != nil {
			return fmt.Errorf("failed to cancel trade before delete: %w", err)
		}
	}

	if err := a.repo.DeleteTrade(ctx, id); err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}

	log.Printf("Deleted trade %s", id)
	return nil
}

// Event emission helper methods

func (a *App) emitTradeCompletedEvent(ctx context.Context, trade *models.Trade) error {
	payload := events.TradeCompletedPayload{
		TradeID:     trade.ID.String(),
		CompletedAt: trade.CreatedAt,
	}
	for _, p := range trade.Parties {
		payload.Managers = append(payload.Managers, p.ManagerID.String())
	}
	draftID := uuid.Nil
	for _, asset := range trade.AllAssets() {
		payload.Assets = append(payload.Assets, events.TradeAssetPayload{
			Type:        string(asset.Type),
			DraftID:     asset.DraftID.String(),
			OverallPick: asset.OverallPick,
			Round:       asset.Round,
			Pick:        asset.Pick,
		})
		if asset.Type == models.TradeAssetDraftPick {
			draftID = asset.DraftID
		}
	}
	if draftID == uuid.Nil {
		// Player-only trade: no draft room to notify
		return nil
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal TradeCompleted payload: %w", err)
	}

	return a.outbox.InsertOutboxTradeCompleted(ctx, draftID, payloadBytes)
}

func (a *App) emitTradeCancelledEvent(ctx context.Context, trade *models.Trade) error {
	payload := events.TradeCancelledPayload{
		TradeID:     trade.ID.String(),
		CancelledAt: a.clock.Now().UTC(),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal TradeCancelled payload: %w", err)
	}

	draftID := uuid.Nil
	for _, asset := range trade.AllAssets() {
		if asset.Type == models.TradeAssetDraftPick {
			draftID = asset.DraftID
			break
		}
	}
	if draftID == uuid.Nil {
		// Player-only trade: no draft room to notify
		return nil
	}
	return a.outbox.InsertOutboxTradeCancelled(ctx, draftID, payloadBytes)
}
