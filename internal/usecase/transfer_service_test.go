package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/transfer"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
)

func TestTransferService_DropPickupAdvanceFlow(t *testing.T) {
	f := newServiceFixture(t)
	f.runDraft(t)
	f.startWindow(t, 1)
	ctx := t.Context()

	status, err := f.transfer.Status(ctx, testLeagueID)
	require.NoError(t, err)
	require.Equal(t, transfer.StatusActive, status.Window.Status)
	require.Equal(t, "A", status.Window.CurrentTurn)
	require.Len(t, status.Upcoming, 2)
	assert.Equal(t, "Alpha", status.TeamNames["A"])

	f.tick()
	dropped, err := f.transfer.Drop(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 10, dropped.GoalsAtDrop)
	assert.Equal(t, transfer.StepPickup, dropped.NextStep)
	assert.True(t, dropped.DroppedAt.Equal(f.now))

	_, err = f.transfer.Drop(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "B", PlayerID: "p2"})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, turn.ErrNotYourTurn)

	f.tick()
	picked, err := f.transfer.Pickup(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p7"})
	require.NoError(t, err)
	assert.Equal(t, 2, picked.GoalsBeforePickup)
	assert.Equal(t, TurnAdvance{PreviousTurn: "A", CurrentTurn: "B", Round: 1}, picked.Turn)

	row, ok, err := f.rosters.Get(ctx, testLeagueID, "p1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, row.Dropped)
	assert.True(t, row.AvailableForPickup)
	assert.Equal(t, 10, row.GoalsAtDrop)

	row, ok, err = f.rosters.Get(ctx, testLeagueID, "p7")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", row.TeamDraftedBy)
	assert.True(t, row.PickedUp)
	assert.Equal(t, 2, row.GoalsBeforePickup)

	_, err = f.transfer.Pickup(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "B", PlayerID: "p8"})
	require.ErrorIs(t, err, transfer.ErrWrongStep)

	_, err = f.transfer.Drop(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "B", PlayerID: "p2"})
	require.NoError(t, err)
	picked, err = f.transfer.Pickup(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "B", PlayerID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 10, picked.GoalsBeforePickup)
	assert.Equal(t, "C", picked.Turn.CurrentTurn)

	row, _, _ = f.rosters.Get(ctx, testLeagueID, "p1")
	require.Len(t, row.History, 1)
	assert.Equal(t, roster.Stint{TeamID: "A", GoalsFrom: 0, GoalsTo: 10, From: row.History[0].From, To: row.History[0].To}, row.History[0])

	advanced, err := f.transfer.Advance(ctx, testLeagueID)
	require.NoError(t, err)
	assert.True(t, advanced.Completed)
	assert.Equal(t, "C", advanced.CurrentTurn)

	_, err = f.transfer.Advance(ctx, testLeagueID)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.transfer.Drop(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "C", PlayerID: "p3"})
	require.ErrorIs(t, err, transfer.ErrWindowNotActive)

	status, err = f.transfer.Status(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusCompleted, status.Window.Status)
	assert.Equal(t, "C", status.Window.CurrentTurn)
	assert.Empty(t, status.Upcoming)

	gotTypes := make([]transfer.ActionType, 0, len(status.Window.Actions))
	for _, action := range status.Window.Actions {
		gotTypes = append(gotTypes, action.Type)
	}
	assert.Equal(t, []transfer.ActionType{
		transfer.ActionWindowStarted,
		transfer.ActionDrop,
		transfer.ActionPickup,
		transfer.ActionTurnAdvanced,
		transfer.ActionDrop,
		transfer.ActionPickup,
		transfer.ActionTurnAdvanced,
		transfer.ActionWindowCompleted,
	}, gotTypes)
}

func TestTransferService_MarkDoneSkipsFinishedTeams(t *testing.T) {
	f := newServiceFixture(t)
	f.runDraft(t)
	f.startWindow(t, 2)
	ctx := t.Context()

	done, err := f.transfer.MarkDone(ctx, testLeagueID, "B")
	require.NoError(t, err)
	assert.Nil(t, done.Turn)
	assert.Equal(t, []string{"B"}, done.Finished)

	_, err = f.transfer.MarkDone(ctx, testLeagueID, "B")
	require.ErrorIs(t, err, transfer.ErrTeamFinished)

	_, err = f.transfer.Drop(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p6"})
	require.NoError(t, err)
	picked, err := f.transfer.Pickup(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p8"})
	require.NoError(t, err)
	assert.Equal(t, "C", picked.Turn.CurrentTurn)
	assert.Equal(t, 1, picked.Turn.Round)
	assert.Equal(t, []string{"B"}, picked.Turn.Skipped)

	advanced, err := f.transfer.Advance(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, "C", advanced.CurrentTurn)
	assert.Equal(t, 2, advanced.Round)

	advanced, err = f.transfer.Advance(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, "A", advanced.CurrentTurn)
	assert.Equal(t, 2, advanced.Round, "round must not increment twice when skipping")

	done, err = f.transfer.MarkDone(ctx, testLeagueID, "A")
	require.NoError(t, err)
	require.NotNil(t, done.Turn)
	assert.True(t, done.Turn.Completed)
	assert.Equal(t, transfer.StatusCompleted, done.Status)
}

func TestTransferService_PickupConflictLeavesStateUntouched(t *testing.T) {
	f := newServiceFixture(t)
	f.runDraft(t)
	f.startWindow(t, 1)
	ctx := t.Context()

	_, err := f.transfer.Drop(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p1"})
	require.NoError(t, err)

	_, err = f.transfer.Pickup(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p2"})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, roster.ErrConflict)

	status, err := f.transfer.Status(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, "A", status.Window.CurrentTurn)
	assert.Equal(t, transfer.StepPickup, status.Window.StepFor("A").Step)
	assert.Equal(t, "p1", status.Window.StepFor("A").DroppedPlayerID)

	row, _, _ := f.rosters.Get(ctx, testLeagueID, "p2")
	assert.Equal(t, "B", row.TeamDraftedBy)
	assert.False(t, row.Dropped)

	_, err = f.transfer.Drop(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p6"})
	require.ErrorIs(t, err, transfer.ErrWrongStep)
}

func TestTransferService_DropRequiresOwnership(t *testing.T) {
	f := newServiceFixture(t)
	f.runDraft(t)
	f.startWindow(t, 1)

	_, err := f.transfer.Drop(t.Context(), TransferMoveInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p2"})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, roster.ErrConflict)

	status, err := f.transfer.Status(t.Context(), testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, transfer.StepDrop, status.Window.StepFor("A").Step)
	assert.Len(t, status.Window.Actions, 1)
}

func TestTransferService_StartValidation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := t.Context()

	_, err := f.transfer.Start(ctx, StartTransferInput{LeagueID: testLeagueID, MaxRounds: 1})
	require.ErrorIs(t, err, ErrInvalidInput, "no draft order yet")

	_, err = f.transfer.Start(ctx, StartTransferInput{LeagueID: testLeagueID, DraftOrder: []string{"A", "B"}, MaxRounds: 0})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.transfer.Start(ctx, StartTransferInput{LeagueID: testLeagueID, DraftOrder: []string{"A", "X"}, MaxRounds: 1})
	require.ErrorIs(t, err, ErrInvalidInput)

	past := f.now.Add(-time.Hour)
	_, err = f.transfer.Start(ctx, StartTransferInput{LeagueID: testLeagueID, DraftOrder: []string{"A", "B"}, MaxRounds: 1, ClosesAt: &past})
	require.ErrorIs(t, err, ErrInvalidInput)

	status, err := f.transfer.Start(ctx, StartTransferInput{LeagueID: testLeagueID, DraftOrder: []string{"B", "A"}, MaxRounds: 1})
	require.NoError(t, err)
	assert.Equal(t, "B", status.Window.CurrentTurn)

	_, err = f.transfer.Start(ctx, StartTransferInput{LeagueID: testLeagueID, DraftOrder: []string{"B", "A"}, MaxRounds: 1})
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, transfer.ErrWindowActive)

	_, err = f.transfer.Status(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTransferService_DeadlineCompletesWindow(t *testing.T) {
	f := newServiceFixture(t)
	f.runDraft(t)
	ctx := t.Context()

	closesAt := f.now.Add(time.Hour)
	_, err := f.transfer.Start(ctx, StartTransferInput{LeagueID: testLeagueID, MaxRounds: 2, Snake: true, ClosesAt: &closesAt})
	require.NoError(t, err)

	f.now = f.now.Add(2 * time.Hour)

	status, err := f.transfer.Status(ctx, testLeagueID)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusCompleted, status.Window.Status)
	require.NotNil(t, status.Window.EndedAt)
	assert.True(t, status.Window.EndedAt.Equal(closesAt))

	_, err = f.transfer.Drop(ctx, TransferMoveInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p1"})
	require.ErrorIs(t, err, transfer.ErrWindowNotActive)

	_, err = f.transfer.Start(ctx, StartTransferInput{LeagueID: testLeagueID, MaxRounds: 1})
	require.NoError(t, err, "an expired window can be reopened")
}

func TestTransferService_ErrorsKeepDomainCause(t *testing.T) {
	f := newServiceFixture(t)
	f.runDraft(t)

	_, err := f.transfer.MarkDone(t.Context(), testLeagueID, "A")
	if !errors.Is(err, ErrConflict) || !errors.Is(err, transfer.ErrWindowNotActive) {
		t.Fatalf("expected window not active conflict, got %v", err)
	}
}
