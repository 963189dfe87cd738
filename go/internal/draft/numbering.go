package draft

import (
	"github.com/tgrail/draftroom/go/internal/models"
)

// GenerateRound builds the pick slots for one round of a draft.
//
// Odd rounds (and every round of a non-snake draft) lay picks out in draft
// order with overall numbers continuing sequentially. Even snake rounds
// reverse the physical array so the last manager in the order picks first,
// but each slot keeps the manager's original pick number: pick numbers are
// manager-intrinsic, overall numbers are round-intrinsic.
func GenerateRound(order []models.DraftOrderSlot, roundNumber int, snake bool) models.DraftRound {
	n := len(order)
	round := models.DraftRound{
		RoundNumber: roundNumber,
		Picks:       make([]models.DraftPosition, n),
	}

	base := (roundNumber - 1) * n
	reversed := snake && roundNumber%2 == 0

	for j, slot := range order {
		pos := models.DraftPosition{
			ManagerID:  slot.ManagerID,
			PickNumber: slot.PickNumber,
		}
		if reversed {
			pos.OverallPick = roundNumber*n - j
			round.Picks[n-1-j] = pos
		} else {
			pos.OverallPick = base + j + 1
			round.Picks[j] = pos
		}
	}

	return round
}

// GenerateRounds builds rounds 1..count for a new draft.
func GenerateRounds(order []models.DraftOrderSlot, count int, snake bool) []models.DraftRound {
	rounds := make([]models.DraftRound, 0, count)
	for r := 1; r <= count; r++ {
		rounds = append(rounds, GenerateRound(order, r, snake))
	}
	return rounds
}
