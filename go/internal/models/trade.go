package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeStatus defines the lifecycle state of a trade. Only COMPLETED and
// CANCELLED are reachable through the ledger; the remaining states are
// reserved for a future approval workflow.
type TradeStatus string

const (
	TradeStatusProposed  TradeStatus = "PROPOSED"
	TradeStatusAccepted  TradeStatus = "ACCEPTED"
	TradeStatusApproved  TradeStatus = "APPROVED"
	TradeStatusCompleted TradeStatus = "COMPLETED"
	TradeStatusReversed  TradeStatus = "REVERSED"
	TradeStatusCancelled TradeStatus = "CANCELLED"
)

// TradeAssetType defines what kind of asset is being moved.
type TradeAssetType string

const (
	TradeAssetDraftPick TradeAssetType = "DRAFT_PICK"
	TradeAssetPlayer    TradeAssetType = "PLAYER"
)

// TradeAsset is a single tradable asset. For draft picks, identity is
// (Type, DraftID, OverallPick); Round and Pick are carried for display.
type TradeAsset struct {
	Type        TradeAssetType `json:"type"`
	DraftID     uuid.UUID      `json:"draft_id"`
	OverallPick int            `json:"overall_pick"`
	Pick        int            `json:"pick,omitempty"`
	Round       int            `json:"round,omitempty"`
	PlayerID    *uuid.UUID     `json:"player_id,omitempty"` // set for PLAYER assets
}

// SameIdentity reports whether two assets refer to the same underlying asset.
func (a TradeAsset) SameIdentity(b TradeAsset) bool {
	return a.Type == b.Type && a.DraftID == b.DraftID && a.OverallPick == b.OverallPick
}

// TradeParty is one manager's side of a trade: the assets they give up.
type TradeParty struct {
	ManagerID uuid.UUID    `json:"manager_id"`
	Assets    []TradeAsset `json:"assets"`
}

// AssetDistribution maps receiving manager -> contributing manager -> assets
// received. For two-party trades the ledger derives it automatically.
type AssetDistribution map[uuid.UUID]map[uuid.UUID][]TradeAsset

// Trade is an ownership-transfer record between two or more managers.
// Seq is the ledger insertion sequence assigned by storage; it orders trades
// even when several are created at the same instant.
type Trade struct {
	ID           uuid.UUID         `json:"id"`
	Status       TradeStatus       `json:"status"`
	Notes        *string           `json:"notes,omitempty"`
	Parties      []TradeParty      `json:"parties"`
	Distribution AssetDistribution `json:"asset_distribution,omitempty"`
	Seq          int64             `json:"seq"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Party returns the party entry for the given manager, or nil.
func (t *Trade) Party(managerID uuid.UUID) *TradeParty {
	for i := range t.Parties {
		if t.Parties[i].ManagerID == managerID {
			return &t.Parties[i]
		}
	}
	return nil
}

// AllAssets returns every asset contributed across all parties.
func (t *Trade) AllAssets() []TradeAsset {
	var assets []TradeAsset
	for _, p := range t.Parties {
		assets = append(assets, p.Assets...)
	}
	return assets
}
