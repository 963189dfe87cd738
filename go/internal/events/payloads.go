package events

import (
	"time"
)

// Event payload types shared between the draft, trade and gateway packages

// Event type names used for outbox records and message subjects.
const (
	TypeDraftCreated   = "DraftCreated"
	TypeDraftActivated = "DraftActivated"
	TypeDraftReset     = "DraftReset"
	TypePickMade       = "PickMade"
	TypeTradeCompleted = "TradeCompleted"
	TypeTradeCancelled = "TradeCancelled"
)

// DraftCreatedPayload is the payload for a DraftCreated event
type DraftCreatedPayload struct {
	DraftID     string `json:"draft_id"`
	Year        int    `json:"year"`
	DraftType   string `json:"draft_type"`
	TotalRounds int    `json:"total_rounds"`
	TotalPicks  int    `json:"total_picks"`
}

// DraftActivatedPayload is the payload for a DraftActivated event
type DraftActivatedPayload struct {
	DraftID string `json:"draft_id"`
	Year    int    `json:"year"`
}

// DraftResetPayload is the payload for a DraftReset event
type DraftResetPayload struct {
	DraftID string `json:"draft_id"`
}

// PickMadePayload is the payload for a PickMade event
type PickMadePayload struct {
	DraftID     string `json:"draft_id"`
	ManagerID   string `json:"manager_id"`
	PlayerID    string `json:"player_id,omitempty"`
	Round       int    `json:"round"`
	Pick        int    `json:"pick"`
	OverallPick int    `json:"overall_pick"`
}

// TradeAssetPayload describes one asset inside a trade event
type TradeAssetPayload struct {
	Type        string `json:"type"`
	DraftID     string `json:"draft_id"`
	OverallPick int    `json:"overall_pick"`
	Round       int    `json:"round,omitempty"`
	Pick        int    `json:"pick,omitempty"`
}

// TradeCompletedPayload is the payload for a TradeCompleted event
type TradeCompletedPayload struct {
	TradeID     string              `json:"trade_id"`
	Managers    []string            `json:"managers"`
	Assets      []TradeAssetPayload `json:"assets"`
	CompletedAt time.Time           `json:"completed_at"`
}

// TradeCancelledPayload is the payload for a TradeCancelled event
type TradeCancelledPayload struct {
	TradeID     string    `json:"trade_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}
