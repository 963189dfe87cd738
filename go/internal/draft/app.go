package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/tgrail/draftroom/go/internal/events"
	"github.com/tgrail/draftroom/go/internal/models"
)

// DraftRepository defines what the draft app layer needs from the draft repository
type DraftRepository interface {
	CreateDraft(ctx context.Context, draft *models.Draft) (*models.Draft, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	GetActiveDraft(ctx context.Context) (*models.Draft, error)
	UpdateDraft(ctx context.Context, draft *models.Draft) (*models.Draft, error)
	DeactivateDrafts(ctx context.Context) error
	DeleteDraft(ctx context.Context, id uuid.UUID) error
}

// OutboxApp defines what the draft app layer needs from the outbox
type OutboxApp interface {
	InsertOutboxDraftCreated(ctx context.Context, draftID uuid.UUID, payload []byte) error
	InsertOutboxDraftActivated(ctx context.Context, draftID uuid.UUID, payload []byte) error
	InsertOutboxDraftReset(ctx context.Context, draftID uuid.UUID, payload []byte) error
	InsertOutboxPickMade(ctx context.Context, draftID uuid.UUID, payload []byte) error
}

// App handles draft business logic: board generation, the two-cursor pick
// progression and per-pick ownership history.
type App struct {
	repo   DraftRepository
	outbox OutboxApp
}

// NewApp creates a new draft App
func NewApp(repo DraftRepository, outbox OutboxApp) *App {
	return &App{
		repo:   repo,
		outbox: outbox,
	}
}

// CreateDraft creates a new draft with a fully generated board. The new
// draft becomes the active draft; creation fails while another draft is
// still active.
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	if err := a.validateCreateDraftRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	existing, err := a.repo.GetActiveDraft(ctx)
	if err != nil && !errors.Is(err, ErrNoActiveDraft) {
		return nil, fmt.Errorf("failed to check for active draft: %w", err)
	}
	if existing != nil {
		return nil, &StateConflictError{Reason: fmt.Sprintf("draft %s is already active", existing.ID)}
	}

	d := &models.Draft{
		ID:         req.ID,
		Year:       req.Year,
		DraftType:  req.DraftType,
		Snake:      req.Snake,
		Active:     true,
		DraftOrder: req.Order,
		Rounds:     GenerateRounds(req.Order, req.Rounds, req.Snake),
	}
	resetCursors(d)

	created, err := a.repo.CreateDraft(ctx, d)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	if err := a.emitDraftCreatedEvent(ctx, created); err != nil {
		log.Printf("Failed to emit DraftCreated event: %v", err)
	}

	log.Printf("Created draft: %d %s draft with %d rounds", created.Year, created.DraftType, len(created.Rounds))
	return created, nil
}

// GetDraft retrieves a draft by ID
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// GetActiveDraft retrieves the currently active draft
func (a *App) GetActiveDraft(ctx context.Context) (*models.Draft, error) {
	draft, err := a.repo.GetActiveDraft(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active draft: %w", err)
	}
	return draft, nil
}

// ToggleActive flips a draft's active flag. Activating a draft deactivates
// whichever draft was active before it.
func (a *App) ToggleActive(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("draft not found: %w", err)
	}

	if !draft.Active {
		if err := a.repo.DeactivateDrafts(ctx); err != nil {
			return nil, fmt.Errorf("failed to deactivate drafts: %w", err)
		}
	}
	draft.Active = !draft.Active

	updated, err := a.repo.UpdateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	if updated.Active {
		if err := a.emitDraftActivatedEvent(ctx, updated); err != nil {
			log.Printf("Failed to emit DraftActivated event: %v", err)
		}
	}

	log.Printf("Toggled draft %s active=%v", updated.ID, updated.Active)
	return updated, nil
}

// DeleteDraft permanently deletes a draft and its board
func (a *App) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	draft, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return fmt.Errorf("draft not found: %w", err)
	}

	if err := a.repo.DeleteDraft(ctx, draft.ID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	log.Printf("Deleted draft: %s (%d)", draft.ID, draft.Year)
	return nil
}

// GetCurrentPick returns the pick slot under the current cursor, or nil when
// the cursor has run off the end of the board.
func (a *App) GetCurrentPick(ctx context.Context, draftID uuid.UUID) (*models.DraftPosition, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft.PositionByOverall(draft.CurrentOverallPick), nil
}

// GetNextPick scans forward from the given overall pick number and returns
// the first slot after it, optionally skipping completed picks. Returns nil
// when no slot qualifies.
func (a *App) GetNextPick(ctx context.Context, draftID uuid.UUID, fromOverall int, skipCompleted bool) (*models.DraftPosition, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	var next *models.DraftPosition
	for ri := range draft.Rounds {
		for pi := range draft.Rounds[ri].Picks {
			p := &draft.Rounds[ri].Picks[pi]
			if p.OverallPick <= fromOverall {
				continue
			}
			if skipCompleted && p.Complete {
				continue
			}
			if next == nil || p.OverallPick < next.OverallPick {
				next = p
			}
		}
	}
	return next, nil
}

// UpdatePickState moves the active cursor to the slot at (round, pick) and
// advances or clamps the current cursor per the progression rules.
func (a *App) UpdatePickState(ctx context.Context, draftID uuid.UUID, req UpdatePickStateRequest) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	target := draft.PositionByRoundPick(req.Round, req.Pick)
	if target == nil {
		return nil, fmt.Errorf("pick round %d pick %d: %w", req.Round, req.Pick, ErrNotFound)
	}

	advanceCursors(draft, target)

	updated, err := a.repo.UpdateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return updated, nil
}

// MarkPickComplete records a player selection on a pick slot. Cursor
// advancement is a separate explicit UpdatePickState call.
func (a *App) MarkPickComplete(ctx context.Context, draftID uuid.UUID, req MarkPickCompleteRequest) (*models.Draft, error) {
	if req.PlayerID == uuid.Nil {
		return nil, fmt.Errorf("%w: player_id is required", ErrInvalidRequest)
	}

	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	pos := draft.PositionByOverall(req.OverallPick)
	if pos == nil {
		return nil, fmt.Errorf("pick overall %d: %w", req.OverallPick, ErrNotFound)
	}

	playerID := req.PlayerID
	pos.Complete = true
	pos.PlayerID = &playerID

	updated, err := a.repo.UpdateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	if err := a.emitPickMadeEvent(ctx, updated, pos, req.ManagerID); err != nil {
		log.Printf("Failed to emit PickMade event: %v", err)
	}

	log.Printf("Marked pick %d complete in draft %s", req.OverallPick, draftID)
	return updated, nil
}

// ClearPickSelection undoes a completed pick, clearing the player and the
// completion flag. The current cursor self-heals on the next
// UpdatePickState call via the completed-pick floor.
func (a *App) ClearPickSelection(ctx context.Context, draftID uuid.UUID, overallPick int) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	pos := draft.PositionByOverall(overallPick)
	if pos == nil {
		return nil, fmt.Errorf("pick overall %d: %w", overallPick, ErrNotFound)
	}

	pos.Complete = false
	pos.PlayerID = nil

	updated, err := a.repo.UpdateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	log.Printf("Cleared selection on pick %d in draft %s", overallPick, draftID)
	return updated, nil
}

// AddRound appends one more round to the board using the same numbering
// rule as draft creation.
func (a *App) AddRound(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	next := len(draft.Rounds) + 1
	draft.Rounds = append(draft.Rounds, GenerateRound(draft.DraftOrder, next, draft.Snake))

	updated, err := a.repo.UpdateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	log.Printf("Added round %d to draft %s", next, draftID)
	return updated, nil
}

// RemoveRound deletes the highest-numbered round. It refuses to remove the
// last remaining round, and refuses to discard a round holding completed
// picks or picks with ownership history.
func (a *App) RemoveRound(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	if len(draft.Rounds) <= 1 {
		return nil, &StateConflictError{Reason: "cannot remove the only round"}
	}

	tail := draft.Rounds[len(draft.Rounds)-1]
	for _, p := range tail.Picks {
		if p.Complete {
			return nil, &StateConflictError{Reason: fmt.Sprintf("round %d contains completed picks", tail.RoundNumber)}
		}
		if len(p.TradedTo) > 0 {
			return nil, &StateConflictError{Reason: fmt.Sprintf("round %d contains traded picks", tail.RoundNumber)}
		}
	}

	draft.Rounds = draft.Rounds[:len(draft.Rounds)-1]

	updated, err := a.repo.UpdateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	log.Printf("Removed round %d from draft %s", tail.RoundNumber, draftID)
	return updated, nil
}

// ResetDraft wipes every selection and every ownership transfer and points
// both cursors back at the first pick. Irreversible.
func (a *App) ResetDraft(ctx context.Context, draftID uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	for ri := range draft.Rounds {
		for pi := range draft.Rounds[ri].Picks {
			p := &draft.Rounds[ri].Picks[pi]
			p.Complete = false
			p.PlayerID = nil
			p.TradedTo = nil
		}
	}
	resetCursors(draft)

	updated, err := a.repo.UpdateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}

	if err := a.emitDraftResetEvent(ctx, updated); err != nil {
		log.Printf("Failed to emit DraftReset event: %v", err)
	}

	log.Printf("Reset draft %s", draftID)
	return updated, nil
}

// TransferOwnership appends a new owner to a pick's transfer history. Used
// by the trade ledger; completed picks cannot change hands.
func (a *App) TransferOwnership(ctx context.Context, draftID uuid.UUID, overallPick int, newManagerID uuid.UUID) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	pos := draft.PositionByOverall(overallPick)
	if pos == nil {
		return nil, fmt.Errorf("pick overall %d: %w", overallPick, ErrNotFound)
	}
	if pos.Complete {
		return nil, &StateConflictError{Reason: fmt.Sprintf("pick %d is already complete", overallPick)}
	}

	pos.TradedTo = append(pos.TradedTo, newManagerID)

	updated, err := a.repo.UpdateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return updated, nil
}

// RevertOwnership pops the most recent transfer off a pick's history. LIFO:
// reversing a trade must undo the latest transfer first.
func (a *App) RevertOwnership(ctx context.Context, draftID uuid.UUID, overallPick int) (*models.Draft, error) {
	draft, err := a.repo.GetDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	pos := draft.PositionByOverall(overallPick)
	if pos == nil {
		return nil, fmt.Errorf("pick overall %d: %w", overallPick, ErrNotFound)
	}
	if len(pos.TradedTo) == 0 {
		return nil, &StateConflictError{Reason: fmt.Sprintf("pick %d has no ownership transfers", overallPick)}
	}

	pos.TradedTo = pos.TradedTo[:len(pos.TradedTo)-1]

	updated, err := a.repo.UpdateDraft(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	return updated, nil
}

// Validation methods

func (a *App) validateCreateDraftRequest(req CreateDraftRequest) error {
	if req.ID == uuid.Nil {
		return fmt.Errorf("id is required")
	}
	if req.Year <= 0 {
		return fmt.Errorf("year is required")
	}
	switch req.DraftType {
	case models.DraftTypeRegular, models.DraftTypeRookie:
	default:
		return fmt.Errorf("invalid draft type: %s", req.DraftType)
	}
	if req.Rounds <= 0 {
		return fmt.Errorf("rounds must be greater than 0")
	}
	if len(req.Order) == 0 {
		return fmt.Errorf("draft order is required")
	}

	seenManagers := make(map[uuid.UUID]bool, len(req.Order))
	seenPicks := make(map[int]bool, len(req.Order))
	for _, slot := range req.Order {
		if slot.ManagerID == uuid.Nil {
			return fmt.Errorf("draft order contains an empty manager id")
		}
		if seenManagers[slot.ManagerID] {
			return fmt.Errorf("manager %s appears twice in the draft order", slot.ManagerID)
		}
		seenManagers[slot.ManagerID] = true
		if slot.PickNumber < 1 || slot.PickNumber > len(req.Order) {
			return fmt.Errorf("pick number %d is out of range", slot.PickNumber)
		}
		if seenPicks[slot.PickNumber] {
			return fmt.Errorf("pick number %d appears twice in the draft order", slot.PickNumber)
		}
		seenPicks[slot.PickNumber] = true
	}
	return nil
}

// Event emission helper methods

func (a *App) emitDraftCreatedEvent(ctx context.Context, draft *models.Draft) error {
	payload := events.DraftCreatedPayload{
		DraftID:     draft.ID.String(),
		Year:        draft.Year,
		DraftType:   string(draft.DraftType),
		TotalRounds: len(draft.Rounds),
		TotalPicks:  draft.TotalPicks(),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal DraftCreated payload: %w", err)
	}

	return a.outbox.InsertOutboxDraftCreated(ctx, draft.ID, payloadBytes)
}

func (a *App) emitDraftActivatedEvent(ctx context.Context, draft *models.Draft) error {
	payload := events.DraftActivatedPayload{
		DraftID: draft.ID.String(),
		Year:    draft.Year,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal DraftActivated payload: %w", err)
	}

	return a.outbox.InsertOutboxDraftActivated(ctx, draft.ID, payloadBytes)
}

func (a *App) emitDraftResetEvent(ctx context.Context, draft *models.Draft) error {
	payload := events.DraftResetPayload{
		DraftID: draft.ID.String(),
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal DraftReset payload: %w", err)
	}

	return a.outbox.InsertOutboxDraftReset(ctx, draft.ID, payloadBytes)
}

func (a *App) emitPickMadeEvent(ctx context.Context, draft *models.Draft, pos *models.DraftPosition, managerID uuid.UUID) error {
	payload := events.PickMadePayload{
		DraftID:     draft.ID.String(),
		ManagerID:   managerID.String(),
		Round:       roundOf(draft, pos),
		Pick:        pos.PickNumber,
		OverallPick: pos.OverallPick,
	}
	if pos.PlayerID != nil {
		payload.PlayerID = pos.PlayerID.String()
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal PickMade payload: %w", err)
	}

	return a.outbox.InsertOutboxPickMade(ctx, draft.ID, payloadBytes)
}
