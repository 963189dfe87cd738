package draft

import (
	"github.com/tgrail/draftroom/go/internal/models"
)

// Cursor advancement rules for the two-cursor progression model.
//
// The active cursor is a free-roaming pointer at whatever slot the operator
// is looking at. The current cursor represents genuine draft progress and is
// never allowed to sit further ahead than one past the last completed pick,
// self-healing if a completed pick was undone elsewhere.

// advanceCursors applies an UpdatePickState move targeting the given slot.
// It always moves the active cursor; the current cursor advances on forward
// moves and is clamped back to max(target, highestCompleted+1) otherwise.
func advanceCursors(d *models.Draft, target *models.DraftPosition) {
	setActiveCursor(d, target)

	if target.OverallPick > d.CurrentOverallPick {
		setCurrentCursor(d, target)
		return
	}

	floor := d.HighestCompletedOverall() + 1
	if d.CurrentOverallPick <= floor {
		return
	}

	dest := target.OverallPick
	if floor > dest {
		dest = floor
	}
	if pos := d.PositionByOverall(dest); pos != nil {
		setCurrentCursor(d, pos)
	}
}

func setActiveCursor(d *models.Draft, pos *models.DraftPosition) {
	d.ActiveRound = roundOf(d, pos)
	d.ActivePick = pos.PickNumber
	d.ActiveOverallPick = pos.OverallPick
}

func setCurrentCursor(d *models.Draft, pos *models.DraftPosition) {
	d.CurrentRound = roundOf(d, pos)
	d.CurrentPick = pos.PickNumber
	d.CurrentOverallPick = pos.OverallPick
}

// roundOf derives the round number a slot belongs to from its overall pick
// number. Overall numbers are assigned sequentially across rounds, so with N
// managers the slot lives in round ((overall-1) / N) + 1.
func roundOf(d *models.Draft, pos *models.DraftPosition) int {
	n := d.ManagerCount()
	if n == 0 {
		return 0
	}
	return (pos.OverallPick-1)/n + 1
}

// resetCursors points both cursors at the first slot of the board.
func resetCursors(d *models.Draft) {
	d.CurrentRound, d.CurrentPick, d.CurrentOverallPick = 1, 1, 1
	d.ActiveRound, d.ActivePick, d.ActiveOverallPick = 1, 1, 1
	if pos := d.PositionByOverall(1); pos != nil {
		d.CurrentPick = pos.PickNumber
		d.ActivePick = pos.PickNumber
	}
}
