package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tgrail/draftroom/go/internal/dbconfig"
	"github.com/tgrail/draftroom/go/internal/draft"
	"github.com/tgrail/draftroom/go/internal/models"
)

// SeedFile mirrors the JSON snapshot: one draft board to insert.
type SeedFile struct {
	DraftID   string   `json:"draft_id"`
	Year      int      `json:"year"`
	DraftType string   `json:"draft_type"`
	Snake     bool     `json:"snake"`
	Rounds    int      `json:"rounds"`
	Managers  []string `json:"managers"` // in pick order
}

func main() {
	path := "go/internal/assets/board.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	// 1) Load the JSON snapshot
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}

	draftID, err := uuid.Parse(seed.DraftID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid draft_id: %v\n", err)
		os.Exit(1)
	}

	order := make([]models.DraftOrderSlot, 0, len(seed.Managers))
	for i, m := range seed.Managers {
		managerID, err := uuid.Parse(m)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid manager id %q: %v\n", m, err)
			os.Exit(1)
		}
		order = append(order, models.DraftOrderSlot{
			ManagerID:  managerID,
			PickNumber: i + 1,
		})
	}

	// 2) Generate the full board
	rounds := draft.GenerateRounds(order, seed.Rounds, seed.Snake)

	orderJSON, err := json.Marshal(order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal draft order: %v\n", err)
		os.Exit(1)
	}
	roundsJSON, err := json.Marshal(rounds)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal rounds: %v\n", err)
		os.Exit(1)
	}

	// 3) Connect using shared dbconfig
	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	// 4) Insert; an existing board with this id is left untouched
	cmdTag, err := pool.Exec(context.Background(), `
        INSERT INTO drafts (
          id, year, draft_type, snake, active, draft_order, rounds,
          current_round, current_pick, current_overall_pick,
          active_round, active_pick, active_overall_pick,
          version, created_at, updated_at
        ) VALUES (
          $1,$2,$3,$4,FALSE,$5,$6,1,1,1,1,1,1,1,now(),now()
        )
        ON CONFLICT (id) DO NOTHING
    `, draftID, seed.Year, seed.DraftType, seed.Snake, orderJSON, roundsJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error inserting draft %s: %v\n", draftID, err)
		os.Exit(1)
	}

	if cmdTag.RowsAffected() == 1 {
		fmt.Printf("Board seed complete: draft %s, %d managers, %d rounds\n",
			draftID, len(order), seed.Rounds)
	} else {
		fmt.Printf("Board seed skipped: draft %s already exists\n", draftID)
	}
}
