package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftType defines the kind of draft board.
type DraftType string

const (
	DraftTypeRegular DraftType = "REGULAR"
	DraftTypeRookie  DraftType = "ROOKIE"
)

// DraftOrderSlot is one manager's place in the original draft order.
type DraftOrderSlot struct {
	ManagerID  uuid.UUID `json:"manager_id"`
	PickNumber int       `json:"pick_number"`
}

// DraftPosition is a single pick slot in a round. ManagerID is the original
// owner from the draft order and never changes after the round is generated;
// ownership transfers are appended to TradedTo.
type DraftPosition struct {
	ManagerID   uuid.UUID   `json:"manager_id"`
	PickNumber  int         `json:"pick_number"`  // pick number in the round
	OverallPick int         `json:"overall_pick"` // pick number overall, never reassigned
	Complete    bool        `json:"complete"`
	PlayerID    *uuid.UUID  `json:"player_id,omitempty"` // nil until the pick is made
	TradedTo    []uuid.UUID `json:"traded_to,omitempty"` // ownership history, oldest first
}

// CurrentOwner returns the most recent manager in the pick's transfer
// history, or the original assignee if the pick was never traded.
func (p *DraftPosition) CurrentOwner() uuid.UUID {
	if n := len(p.TradedTo); n > 0 {
		return p.TradedTo[n-1]
	}
	return p.ManagerID
}

// DraftRound holds one pick slot per manager. Array order reflects the
// physical selection order for the round, which for even snake rounds is the
// reverse of the draft order.
type DraftRound struct {
	RoundNumber int             `json:"round_number"`
	Picks       []DraftPosition `json:"picks"`
}

// Draft is the draft aggregate: order, rounds and both pick cursors.
// Current* tracks genuine draft progress; Active* tracks the operator's
// selection and may sit anywhere on the board.
type Draft struct {
	ID        uuid.UUID `json:"id"`
	Year      int       `json:"year"`
	DraftType DraftType `json:"draft_type"`
	Snake     bool      `json:"snake"`
	Active    bool      `json:"active"`

	DraftOrder []DraftOrderSlot `json:"draft_order"`
	Rounds     []DraftRound     `json:"rounds"`

	CurrentRound       int `json:"current_round"`
	CurrentPick        int `json:"current_pick"`
	CurrentOverallPick int `json:"current_overall_pick"`
	ActiveRound        int `json:"active_round"`
	ActivePick         int `json:"active_pick"`
	ActiveOverallPick  int `json:"active_overall_pick"`

	// Version guards draft writes with compare-and-swap semantics.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ManagerCount returns the number of slots in the draft order.
func (d *Draft) ManagerCount() int {
	return len(d.DraftOrder)
}

// PositionByOverall returns the pick slot with the given overall pick number,
// or nil if no such slot exists.
func (d *Draft) PositionByOverall(overall int) *DraftPosition {
	for ri := range d.Rounds {
		for pi := range d.Rounds[ri].Picks {
			if d.Rounds[ri].Picks[pi].OverallPick == overall {
				return &d.Rounds[ri].Picks[pi]
			}
		}
	}
	return nil
}

// PositionByRoundPick returns the pick slot identified by round number and
// pick-number-within-round, or nil if absent. Pick numbers are
// manager-intrinsic, so the slot is searched rather than indexed.
func (d *Draft) PositionByRoundPick(round, pick int) *DraftPosition {
	for ri := range d.Rounds {
		if d.Rounds[ri].RoundNumber != round {
			continue
		}
		for pi := range d.Rounds[ri].Picks {
			if d.Rounds[ri].Picks[pi].PickNumber == pick {
				return &d.Rounds[ri].Picks[pi]
			}
		}
	}
	return nil
}

// HighestCompletedOverall returns the largest overall pick number among
// completed picks, or 0 when nothing has been selected yet.
func (d *Draft) HighestCompletedOverall() int {
	highest := 0
	for ri := range d.Rounds {
		for pi := range d.Rounds[ri].Picks {
			p := &d.Rounds[ri].Picks[pi]
			if p.Complete && p.OverallPick > highest {
				highest = p.OverallPick
			}
		}
	}
	return highest
}

// TotalPicks returns the number of pick slots on the board.
func (d *Draft) TotalPicks() int {
	return len(d.Rounds) * len(d.DraftOrder)
}
