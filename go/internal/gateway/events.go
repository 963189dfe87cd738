package gateway

import (
	"encoding/json"
	"time"
)

// RoomEvent is the envelope pushed to draft-room WebSocket clients.
type RoomEvent struct {
	ID        string          `json:"id"`        // Event UUID
	DraftID   string          `json:"draft_id"`  // Draft UUID
	Type      string          `json:"type"`      // Event type
	Timestamp time.Time       `json:"timestamp"` // Event creation time
	Data      json.RawMessage `json:"data"`      // Event-specific payload
}
