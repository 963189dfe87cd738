package draft

import (
	"github.com/google/uuid"
	"github.com/tgrail/draftroom/go/internal/models"
)

// CreateDraftRequest represents a request to create a new draft
type CreateDraftRequest struct {
	ID        uuid.UUID               `json:"id"`
	Year      int                     `json:"year"`
	DraftType models.DraftType        `json:"draft_type"`
	Snake     bool                    `json:"snake"`
	Rounds    int                     `json:"rounds"`
	Order     []models.DraftOrderSlot `json:"draft_order"`
}

// UpdatePickStateRequest represents a request to move the draft cursors to a
// pick slot
type UpdatePickStateRequest struct {
	Round int `json:"round"`
	Pick  int `json:"pick"`
}

// MarkPickCompleteRequest represents a request to record a selection on a
// pick slot
type MarkPickCompleteRequest struct {
	OverallPick int       `json:"overall_pick"`
	ManagerID   uuid.UUID `json:"manager_id"`
	PlayerID    uuid.UUID `json:"player_id"`
}

// ClearPickSelectionRequest represents a request to undo a recorded selection
type ClearPickSelectionRequest struct {
	OverallPick int `json:"overall_pick"`
}
