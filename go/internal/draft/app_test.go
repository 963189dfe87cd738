package draft

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tgrail/draftroom/go/internal/models"
)

// fakeRepo is an in-memory DraftRepository for app tests.
type fakeRepo struct {
	drafts map[uuid.UUID]*models.Draft
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{drafts: make(map[uuid.UUID]*models.Draft)}
}

func (r *fakeRepo) store(d *models.Draft) *models.Draft {
	copied := *d
	r.drafts[d.ID] = &copied
	return d
}

func (r *fakeRepo) CreateDraft(ctx context.Context, d *models.Draft) (*models.Draft, error) {
	d.Version = 1
	return r.store(d), nil
}

func (r *fakeRepo) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, ok := r.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *d
	return &copied, nil
}

func (r *fakeRepo) GetActiveDraft(ctx context.Context) (*models.Draft, error) {
	for _, d := range r.drafts {
		if d.Active {
			copied := *d
			return &copied, nil
		}
	}
	return nil, ErrNoActiveDraft
}

func (r *fakeRepo) UpdateDraft(ctx context.Context, d *models.Draft) (*models.Draft, error) {
	existing, ok := r.drafts[d.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if existing.Version != d.Version {
		return nil, ErrVersionConflict
	}
	d.Version++
	return r.store(d), nil
}

func (r *fakeRepo) DeactivateDrafts(ctx context.Context) error {
	for _, d := range r.drafts {
		d.Active = false
	}
	return nil
}

func (r *fakeRepo) DeleteDraft(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.drafts[id]; !ok {
		return ErrNotFound
	}
	delete(r.drafts, id)
	return nil
}

// fakeOutbox records inserted event types.
type fakeOutbox struct {
	events []string
}

func (o *fakeOutbox) record(eventType string) error {
	o.events = append(o.events, eventType)
	return nil
}

func (o *fakeOutbox) InsertOutboxDraftCreated(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return o.record("DraftCreated")
}

func (o *fakeOutbox) InsertOutboxDraftActivated(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return o.record("DraftActivated")
}

func (o *fakeOutbox) InsertOutboxDraftReset(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return o.record("DraftReset")
}

func (o *fakeOutbox) InsertOutboxPickMade(ctx context.Context, draftID uuid.UUID, payload []byte) error {
	return o.record("PickMade")
}

func (o *fakeOutbox) has(eventType string) bool {
	for _, e := range o.events {
		if e == eventType {
			return true
		}
	}
	return false
}

func newTestApp() (*App, *fakeRepo, *fakeOutbox) {
	repo := newFakeRepo()
	outbox := &fakeOutbox{}
	return NewApp(repo, outbox), repo, outbox
}

func createTestDraft(t *testing.T, app *App, managers, rounds int) *models.Draft {
	t.Helper()
	d, err := app.CreateDraft(context.Background(), CreateDraftRequest{
		ID:        uuid.New(),
		Year:      2026,
		DraftType: models.DraftTypeRookie,
		Snake:     true,
		Rounds:    rounds,
		Order:     testOrder(managers),
	})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	return d
}

func TestCreateDraftGeneratesBoard(t *testing.T) {
	app, _, outbox := newTestApp()

	d := createTestDraft(t, app, 4, 3)

	if !d.Active {
		t.Error("new draft should be active")
	}
	if got := d.TotalPicks(); got != 12 {
		t.Errorf("total picks = %d, want 12", got)
	}
	if d.CurrentOverallPick != 1 || d.ActiveOverallPick != 1 {
		t.Errorf("cursors = %d/%d, want 1/1", d.CurrentOverallPick, d.ActiveOverallPick)
	}
	if !outbox.has("DraftCreated") {
		t.Error("DraftCreated event not emitted")
	}
}

func TestCreateDraftRejectsSecondActive(t *testing.T) {
	app, _, _ := newTestApp()
	createTestDraft(t, app, 4, 2)

	_, err := app.CreateDraft(context.Background(), CreateDraftRequest{
		ID:        uuid.New(),
		Year:      2026,
		DraftType: models.DraftTypeRegular,
		Snake:     false,
		Rounds:    2,
		Order:     testOrder(4),
	})

	var conflict *StateConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want StateConflictError", err)
	}
}

func TestCreateDraftValidation(t *testing.T) {
	app, _, _ := newTestApp()
	order := testOrder(4)
	dupManagers := []models.DraftOrderSlot{
		{ManagerID: order[0].ManagerID, PickNumber: 1},
		{ManagerID: order[0].ManagerID, PickNumber: 2},
	}
	dupPicks := []models.DraftOrderSlot{
		{ManagerID: order[0].ManagerID, PickNumber: 1},
		{ManagerID: order[1].ManagerID, PickNumber: 1},
	}

	cases := []struct {
		name string
		req  CreateDraftRequest
	}{
		{
			name: "missing id",
			req:  CreateDraftRequest{Year: 2026, DraftType: models.DraftTypeRegular, Rounds: 2, Order: order},
		},
		{
			name: "bad draft type",
			req:  CreateDraftRequest{ID: uuid.New(), Year: 2026, DraftType: "KEEPER", Rounds: 2, Order: order},
		},
		{
			name: "zero rounds",
			req:  CreateDraftRequest{ID: uuid.New(), Year: 2026, DraftType: models.DraftTypeRegular, Order: order},
		},
		{
			name: "empty order",
			req:  CreateDraftRequest{ID: uuid.New(), Year: 2026, DraftType: models.DraftTypeRegular, Rounds: 2},
		},
		{
			name: "duplicate manager",
			req:  CreateDraftRequest{ID: uuid.New(), Year: 2026, DraftType: models.DraftTypeRegular, Rounds: 2, Order: dupManagers},
		},
		{
			name: "duplicate pick number",
			req:  CreateDraftRequest{ID: uuid.New(), Year: 2026, DraftType: models.DraftTypeRegular, Rounds: 2, Order: dupPicks},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := app.CreateDraft(context.Background(), tc.req)
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestToggleActiveDeactivatesOthers(t *testing.T) {
	app, _, _ := newTestApp()
	first := createTestDraft(t, app, 4, 2)

	// Deactivate the first, create a second, reactivate the first
	if _, err := app.ToggleActive(context.Background(), first.ID); err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	second := createTestDraft(t, app, 4, 2)

	reactivated, err := app.ToggleActive(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("ToggleActive: %v", err)
	}
	if !reactivated.Active {
		t.Error("first draft should be active again")
	}

	secondNow, err := app.GetDraft(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if secondNow.Active {
		t.Error("second draft should have been deactivated")
	}
}

func TestUpdatePickStateMovesCursors(t *testing.T) {
	app, _, _ := newTestApp()
	d := createTestDraft(t, app, 4, 3)

	// Round 2 of a snake draft runs in reverse; pick number 4 sits at overall 5
	updated, err := app.UpdatePickState(context.Background(), d.ID, UpdatePickStateRequest{Round: 2, Pick: 4})
	if err != nil {
		t.Fatalf("UpdatePickState: %v", err)
	}

	if updated.ActiveOverallPick != 5 || updated.CurrentOverallPick != 5 {
		t.Errorf("cursors = %d/%d, want 5/5", updated.ActiveOverallPick, updated.CurrentOverallPick)
	}
}

func TestUpdatePickStateUnknownSlot(t *testing.T) {
	app, _, _ := newTestApp()
	d := createTestDraft(t, app, 4, 2)

	_, err := app.UpdatePickState(context.Background(), d.ID, UpdatePickStateRequest{Round: 9, Pick: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkPickCompleteRecordsPlayer(t *testing.T) {
	app, _, outbox := newTestApp()
	d := createTestDraft(t, app, 4, 2)
	playerID := uuid.New()

	updated, err := app.MarkPickComplete(context.Background(), d.ID, MarkPickCompleteRequest{
		OverallPick: 1,
		ManagerID:   d.DraftOrder[0].ManagerID,
		PlayerID:    playerID,
	})
	if err != nil {
		t.Fatalf("MarkPickComplete: %v", err)
	}

	pos := updated.PositionByOverall(1)
	if !pos.Complete {
		t.Error("pick should be complete")
	}
	if pos.PlayerID == nil || *pos.PlayerID != playerID {
		t.Errorf("player = %v, want %s", pos.PlayerID, playerID)
	}
	if !outbox.has("PickMade") {
		t.Error("PickMade event not emitted")
	}
}

func TestMarkPickCompleteRequiresPlayer(t *testing.T) {
	app, _, _ := newTestApp()
	d := createTestDraft(t, app, 4, 2)

	_, err := app.MarkPickComplete(context.Background(), d.ID, MarkPickCompleteRequest{OverallPick: 1})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestClearPickSelection(t *testing.T) {
	app, _, _ := newTestApp()
	d := createTestDraft(t, app, 4, 2)
	if _, err := app.MarkPickComplete(context.Background(), d.ID, MarkPickCompleteRequest{
		OverallPick: 1, PlayerID: uuid.New(),
	}); err != nil {
		t.Fatalf("MarkPickComplete: %v", err)
	}

	updated, err := app.ClearPickSelection(context.Background(), d.ID, 1)
	if err != nil {
		t.Fatalf("ClearPickSelection: %v", err)
	}

	pos := updated.PositionByOverall(1)
	if pos.Complete || pos.PlayerID != nil {
		t.Errorf("pick should be cleared, got complete=%v player=%v", pos.Complete, pos.PlayerID)
	}
}

func TestGetCurrentPickNilWhenOffBoard(t *testing.T) {
	app, repo, _ := newTestApp()
	d := createTestDraft(t, app, 2, 1)

	// Push the current cursor past the end of the board
	stored := repo.drafts[d.ID]
	stored.CurrentOverallPick = 3

	pick, err := app.GetCurrentPick(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("GetCurrentPick: %v", err)
	}
	if pick != nil {
		t.Errorf("pick = %+v, want nil", pick)
	}
}

func TestGetNextPick(t *testing.T) {
	app, _, _ := newTestApp()
	d := createTestDraft(t, app, 4, 2)
	for _, overall := range []int{2, 3} {
		if _, err := app.MarkPickComplete(context.Background(), d.ID, MarkPickCompleteRequest{
			OverallPick: overall, PlayerID: uuid.New(),
		}); err != nil {
			t.Fatalf("MarkPickComplete: %v", err)
		}
	}

	cases := []struct {
		name          string
		from          int
		skipCompleted bool
		wantOverall   int
		wantNil       bool
	}{
		{"next in sequence", 1, false, 2, false},
		{"skip completed", 1, true, 4, false},
		{"from zero", 0, false, 1, false},
		{"past the end", 8, false, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pick, err := app.GetNextPick(context.Background(), d.ID, tc.from, tc.skipCompleted)
			if err != nil {
				t.Fatalf("GetNextPick: %v", err)
			}
			if tc.wantNil {
				if pick != nil {
					t.Fatalf("pick = %+v, want nil", pick)
				}
				return
			}
			if pick == nil || pick.OverallPick != tc.wantOverall {
				t.Fatalf("pick = %+v, want overall %d", pick, tc.wantOverall)
			}
		})
	}
}

func TestAddRoundContinuesNumbering(t *testing.T) {
	app, _, _ := newTestApp()
	d := createTestDraft(t, app, 4, 2)

	updated, err := app.AddRound(context.Background(), d.ID)
	if err != nil {
		t.Fatalf("AddRound: %v", err)
	}

	if len(updated.Rounds) != 3 {
		t.Fatalf("rounds = %d, want 3", len(updated.Rounds))
	}
	// Round 3 is odd: linear order, overall numbers continue at 9
	if got := updated.Rounds[2].Picks[0].OverallPick; got != 9 {
		t.Errorf("first overall of round 3 = %d, want 9", got)
	}
}

func TestRemoveRoundGuards(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses the only round", func(t *testing.T) {
		app, _, _ := newTestApp()
		d := createTestDraft(t, app, 4, 1)

		_, err := app.RemoveRound(ctx, d.ID)
		var conflict *StateConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("err = %v, want StateConflictError", err)
		}
	})

	t.Run("refuses a round with completed picks", func(t *testing.T) {
		app, _, _ := newTestApp()
		d := createTestDraft(t, app, 4, 2)
		if _, err := app.MarkPickComplete(ctx, d.ID, MarkPickCompleteRequest{
			OverallPick: 6, PlayerID: uuid.New(),
		}); err != nil {
			t.Fatalf("MarkPickComplete: %v", err)
		}

		_, err := app.RemoveRound(ctx, d.ID)
		var conflict *StateConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("err = %v, want StateConflictError", err)
		}
	})

	t.Run("refuses a round with traded picks", func(t *testing.T) {
		app, _, _ := newTestApp()
		d := createTestDraft(t, app, 4, 2)
		if _, err := app.TransferOwnership(ctx, d.ID, 6, uuid.New()); err != nil {
			t.Fatalf("TransferOwnership: %v", err)
		}

		_, err := app.RemoveRound(ctx, d.ID)
		var conflict *StateConflictError
		if !errors.As(err, &conflict) {
			t.Fatalf("err = %v, want StateConflictError", err)
		}
	})

	t.Run("removes a clean tail round", func(t *testing.T) {
		app, _, _ := newTestApp()
		d := createTestDraft(t, app, 4, 2)
		if _, err := app.MarkPickComplete(ctx, d.ID, MarkPickCompleteRequest{
			OverallPick: 1, PlayerID: uuid.New(),
		}); err != nil {
			t.Fatalf("MarkPickComplete: %v", err)
		}

		updated, err := app.RemoveRound(ctx, d.ID)
		if err != nil {
			t.Fatalf("RemoveRound: %v", err)
		}
		if len(updated.Rounds) != 1 {
			t.Errorf("rounds = %d, want 1", len(updated.Rounds))
		}
	})
}

func TestResetDraftClearsEverything(t *testing.T) {
	app, _, outbox := newTestApp()
	d := createTestDraft(t, app, 4, 2)
	ctx := context.Background()

	if _, err := app.MarkPickComplete(ctx, d.ID, MarkPickCompleteRequest{
		OverallPick: 1, PlayerID: uuid.New(),
	}); err != nil {
		t.Fatalf("MarkPickComplete: %v", err)
	}
	if _, err := app.TransferOwnership(ctx, d.ID, 5, uuid.New()); err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	if _, err := app.UpdatePickState(ctx, d.ID, UpdatePickStateRequest{Round: 2, Pick: 1}); err != nil {
		t.Fatalf("UpdatePickState: %v", err)
	}

	reset, err := app.ResetDraft(ctx, d.ID)
	if err != nil {
		t.Fatalf("ResetDraft: %v", err)
	}

	for _, round := range reset.Rounds {
		for _, p := range round.Picks {
			if p.Complete || p.PlayerID != nil || len(p.TradedTo) != 0 {
				t.Fatalf("slot %d not reset: %+v", p.OverallPick, p)
			}
		}
	}
	if reset.CurrentOverallPick != 1 || reset.ActiveOverallPick != 1 {
		t.Errorf("cursors = %d/%d, want 1/1", reset.CurrentOverallPick, reset.ActiveOverallPick)
	}
	if !outbox.has("DraftReset") {
		t.Error("DraftReset event not emitted")
	}
}

func TestOwnershipTransferAndRevert(t *testing.T) {
	app, _, _ := newTestApp()
	d := createTestDraft(t, app, 4, 2)
	ctx := context.Background()
	original := d.PositionByOverall(3).ManagerID
	managerB := uuid.New()
	managerC := uuid.New()

	updated, err := app.TransferOwnership(ctx, d.ID, 3, managerB)
	if err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	if owner := updated.PositionByOverall(3).CurrentOwner(); owner != managerB {
		t.Errorf("owner = %s, want %s", owner, managerB)
	}

	updated, err = app.TransferOwnership(ctx, d.ID, 3, managerC)
	if err != nil {
		t.Fatalf("TransferOwnership: %v", err)
	}
	if owner := updated.PositionByOverall(3).CurrentOwner(); owner != managerC {
		t.Errorf("owner = %s, want %s", owner, managerC)
	}

	// LIFO: reverting peels C off first, then B, restoring the original
	updated, err = app.RevertOwnership(ctx, d.ID, 3)
	if err != nil {
		t.Fatalf("RevertOwnership: %v", err)
	}
	if owner := updated.PositionByOverall(3).CurrentOwner(); owner != managerB {
		t.Errorf("owner after revert = %s, want %s", owner, managerB)
	}

	updated, err = app.RevertOwnership(ctx, d.ID, 3)
	if err != nil {
		t.Fatalf("RevertOwnership: %v", err)
	}
	if owner := updated.PositionByOverall(3).CurrentOwner(); owner != original {
		t.Errorf("owner after full revert = %s, want original %s", owner, original)
	}

	_, err = app.RevertOwnership(ctx, d.ID, 3)
	var conflict *StateConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("revert on empty history: err = %v, want StateConflictError", err)
	}
}

func TestTransferOwnershipRefusesCompletedPick(t *testing.T) {
	app, _, _ := newTestApp()
	d := createTestDraft(t, app, 4, 2)

	if _, err := app.MarkPickComplete(context.Background(), d.ID, MarkPickCompleteRequest{
		OverallPick: 2, PlayerID: uuid.New(),
	}); err != nil {
		t.Fatalf("MarkPickComplete: %v", err)
	}

	_, err := app.TransferOwnership(context.Background(), d.ID, 2, uuid.New())
	var conflict *StateConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want StateConflictError", err)
	}
}

func TestDeleteDraft(t *testing.T) {
	app, _, _ := newTestApp()
	d := createTestDraft(t, app, 4, 2)

	if err := app.DeleteDraft(context.Background(), d.ID); err != nil {
		t.Fatalf("DeleteDraft: %v", err)
	}
	_, err := app.GetDraft(context.Background(), d.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
