package trade

import (
	"github.com/google/uuid"
	"github.com/tgrail/draftroom/go/internal/models"
)

// CreateTradeRequest represents a request to record a new trade
type CreateTradeRequest struct {
	ID           uuid.UUID                `json:"id"`
	Notes        *string                  `json:"notes,omitempty"`
	Parties      []models.TradeParty      `json:"parties"`
	Distribution models.AssetDistribution `json:"asset_distribution,omitempty"`
}
