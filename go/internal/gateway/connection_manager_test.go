package gateway

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestConnection(cm *ConnectionManager, draftID uuid.UUID) *Connection {
	return &Connection{
		ID:          uuid.New().String(),
		DraftID:     draftID,
		Send:        make(chan []byte, 8),
		Manager:     cm,
		ConnectedAt: time.Now(),
	}
}

func TestHandleBroadcastReachesDraftPoolOnly(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	draftA, draftB := uuid.New(), uuid.New()

	connA := newTestConnection(cm, draftA)
	connB := newTestConnection(cm, draftB)
	cm.registerConnection(connA)
	cm.registerConnection(connB)

	event := &RoomEvent{
		ID:      uuid.New().String(),
		DraftID: draftA.String(),
		Type:    "PickMade",
		Data:    json.RawMessage(`{"overall":3}`),
	}
	cm.handleBroadcast(BroadcastMessage{DraftID: draftA, Event: event})

	select {
	case raw := <-connA.Send:
		var got RoomEvent
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		if got.Type != "PickMade" || got.DraftID != draftA.String() {
			t.Errorf("got event %+v", got)
		}
	default:
		t.Fatal("connection in the draft pool received nothing")
	}

	select {
	case <-connB.Send:
		t.Fatal("connection for another draft received the event")
	default:
	}
}

func TestHandleBroadcastUnknownDraftIsNoop(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())

	// Must not panic or block
	cm.handleBroadcast(BroadcastMessage{
		DraftID: uuid.New(),
		Event:   &RoomEvent{Type: "DraftReset"},
	})
}

func TestConnectionStats(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	draftA, draftB := uuid.New(), uuid.New()

	cm.registerConnection(newTestConnection(cm, draftA))
	cm.registerConnection(newTestConnection(cm, draftA))
	cm.registerConnection(newTestConnection(cm, draftB))

	stats := cm.GetConnectionStats()
	if got := stats["total_connections"].(int); got != 3 {
		t.Errorf("total_connections = %d, want 3", got)
	}
	if got := stats["active_drafts"].(int); got != 2 {
		t.Errorf("active_drafts = %d, want 2", got)
	}
}

func TestUnregisterConnectionDrainsPool(t *testing.T) {
	cm := NewConnectionManager(DefaultConnectionConfig())
	draftID := uuid.New()
	conn := newTestConnection(cm, draftID)
	cm.registerConnection(conn)

	cm.unregisterConnection(conn)

	stats := cm.GetConnectionStats()
	if got := stats["total_connections"].(int); got != 0 {
		t.Errorf("total_connections = %d, want 0", got)
	}
	if _, ok := <-conn.Send; ok {
		t.Error("send channel should be closed")
	}

	// A second unregister of the same connection is a no-op
	cm.unregisterConnection(conn)
}
