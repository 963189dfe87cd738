package draft

import (
	"testing"

	"github.com/google/uuid"
	"github.com/tgrail/draftroom/go/internal/models"
)

func testOrder(n int) []models.DraftOrderSlot {
	order := make([]models.DraftOrderSlot, n)
	for i := range order {
		order[i] = models.DraftOrderSlot{
			ManagerID:  uuid.New(),
			PickNumber: i + 1,
		}
	}
	return order
}

func TestGenerateRoundLinear(t *testing.T) {
	order := testOrder(4)

	round := GenerateRound(order, 2, false)

	if round.RoundNumber != 2 {
		t.Fatalf("round number = %d, want 2", round.RoundNumber)
	}
	for j, p := range round.Picks {
		wantOverall := 4 + j + 1
		if p.OverallPick != wantOverall {
			t.Errorf("slot %d overall = %d, want %d", j, p.OverallPick, wantOverall)
		}
		if p.ManagerID != order[j].ManagerID {
			t.Errorf("slot %d manager = %s, want %s", j, p.ManagerID, order[j].ManagerID)
		}
		if p.PickNumber != order[j].PickNumber {
			t.Errorf("slot %d pick number = %d, want %d", j, p.PickNumber, order[j].PickNumber)
		}
	}
}

func TestGenerateRoundSnakeReversal(t *testing.T) {
	order := testOrder(4)

	round := GenerateRound(order, 2, true)

	// The last manager in the order picks first in an even snake round
	for j, slot := range order {
		pos := round.Picks[len(order)-1-j]
		if pos.ManagerID != slot.ManagerID {
			t.Errorf("reversed slot for manager %d holds %s, want %s", j, pos.ManagerID, slot.ManagerID)
		}
		// Pick numbers stay with the manager through the reversal
		if pos.PickNumber != slot.PickNumber {
			t.Errorf("manager %d pick number = %d, want %d", j, pos.PickNumber, slot.PickNumber)
		}
		wantOverall := 2*4 - j
		if pos.OverallPick != wantOverall {
			t.Errorf("manager %d overall = %d, want %d", j, pos.OverallPick, wantOverall)
		}
	}

	// Physical array order must carry descending pick numbers
	for i := 1; i < len(round.Picks); i++ {
		if round.Picks[i].PickNumber >= round.Picks[i-1].PickNumber {
			t.Fatalf("even snake round is not reversed: %d then %d",
				round.Picks[i-1].PickNumber, round.Picks[i].PickNumber)
		}
	}
}

func TestGenerateRoundsFourManagersTwoRounds(t *testing.T) {
	order := testOrder(4)
	overallOf := func(rounds []models.DraftRound, managerIdx, roundIdx int) int {
		for _, p := range rounds[roundIdx].Picks {
			if p.ManagerID == order[managerIdx].ManagerID {
				return p.OverallPick
			}
		}
		t.Fatalf("manager %d not found in round %d", managerIdx, roundIdx+1)
		return 0
	}

	rounds := GenerateRounds(order, 2, true)

	// Round 1: managers A..D take overall 1..4; round 2 mirrors to 8..5
	cases := []struct {
		manager     int
		round       int
		wantOverall int
	}{
		{0, 0, 1}, {1, 0, 2}, {2, 0, 3}, {3, 0, 4},
		{0, 1, 8}, {1, 1, 7}, {2, 1, 6}, {3, 1, 5},
	}
	for _, tc := range cases {
		if got := overallOf(rounds, tc.manager, tc.round); got != tc.wantOverall {
			t.Errorf("manager %d round %d overall = %d, want %d",
				tc.manager, tc.round+1, got, tc.wantOverall)
		}
	}
}

func TestGenerateRoundsOverallNumbersUniqueAndDense(t *testing.T) {
	cases := []struct {
		name   string
		n      int
		rounds int
		snake  bool
	}{
		{"3 managers 5 rounds snake", 3, 5, true},
		{"5 managers 4 rounds linear", 5, 4, false},
		{"1 manager 3 rounds snake", 1, 3, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rounds := GenerateRounds(testOrder(tc.n), tc.rounds, tc.snake)

			seen := make(map[int]bool)
			for _, r := range rounds {
				for _, p := range r.Picks {
					if seen[p.OverallPick] {
						t.Fatalf("overall %d assigned twice", p.OverallPick)
					}
					seen[p.OverallPick] = true
				}
			}
			for overall := 1; overall <= tc.n*tc.rounds; overall++ {
				if !seen[overall] {
					t.Fatalf("overall %d missing", overall)
				}
			}
		})
	}
}
