package transfer

import (
	"errors"
	"testing"
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
)

var now = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func startedWindow(t *testing.T, maxRounds int, snake bool) Window {
	t.Helper()

	var w Window
	if err := w.Start([]string{"A", "B", "C"}, maxRounds, snake, nil, now); err != nil {
		t.Fatalf("start window: %v", err)
	}
	return w
}

func TestWindow_DropPickupCycle(t *testing.T) {
	t.Parallel()

	w := startedWindow(t, 2, true)
	if w.CurrentTurn != "A" || w.Round != 1 {
		t.Fatalf("expected (A,1) after start, got (%s,%d)", w.CurrentTurn, w.Round)
	}

	if err := w.RecordPickup("A"); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected wrong step for pickup before drop, got %v", err)
	}
	if err := w.RecordDrop("A", "p1", now); err != nil {
		t.Fatalf("record drop: %v", err)
	}
	if state := w.StepFor("A"); state.Step != StepPickup || state.DroppedPlayerID != "p1" {
		t.Fatalf("unexpected state after drop: %+v", state)
	}
	if err := w.RecordDrop("A", "p2", now); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected wrong step for second drop, got %v", err)
	}
	if err := w.RecordPickup("A"); err != nil {
		t.Fatalf("record pickup: %v", err)
	}
	if _, ok := w.Teams["A"]; ok {
		t.Fatalf("expected team state to be cleared after pickup")
	}
}

func TestWindow_RejectsWrongTeam(t *testing.T) {
	t.Parallel()

	w := startedWindow(t, 1, false)
	if err := w.RecordDrop("B", "p1", now); !errors.Is(err, turn.ErrNotYourTurn) {
		t.Fatalf("expected not your turn, got %v", err)
	}
	if err := w.RecordDrop("Z", "p1", now); !errors.Is(err, turn.ErrTeamNotInOrder) {
		t.Fatalf("expected team not in order, got %v", err)
	}
}

func TestWindow_AdvanceCompletesWithoutMovingTurn(t *testing.T) {
	t.Parallel()

	w := startedWindow(t, 1, false)
	for _, want := range []string{"B", "C"} {
		res, err := w.Advance(now)
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if res.Team != want {
			t.Fatalf("expected %s, got %s", want, res.Team)
		}
	}

	res, err := w.Advance(now)
	if err != nil {
		t.Fatalf("final advance: %v", err)
	}
	if !res.Completed || w.Status != StatusCompleted {
		t.Fatalf("expected completed window, got status=%s completed=%t", w.Status, res.Completed)
	}
	if w.CurrentTurn != "C" {
		t.Fatalf("completion must not move the turn, got %s", w.CurrentTurn)
	}
	if w.EndedAt == nil {
		t.Fatalf("expected ended_at to be set")
	}
	if _, err := w.Advance(now); !errors.Is(err, ErrWindowNotActive) {
		t.Fatalf("expected window not active after completion, got %v", err)
	}
}

func TestWindow_MarkDone(t *testing.T) {
	t.Parallel()

	w := startedWindow(t, 3, false)

	res, err := w.MarkDone("C", now)
	if err != nil {
		t.Fatalf("mark C done: %v", err)
	}
	if res != nil {
		t.Fatalf("marking an off-turn team must not advance")
	}

	if _, err := w.Advance(now); err != nil {
		t.Fatalf("advance to B: %v", err)
	}
	adv, err := w.Advance(now)
	if err != nil {
		t.Fatalf("advance past C: %v", err)
	}
	if adv.Team != "A" || adv.Round != 2 {
		t.Fatalf("expected (A,2), got (%s,%d)", adv.Team, adv.Round)
	}

	res, err = w.MarkDone("A", now)
	if err != nil {
		t.Fatalf("mark A done: %v", err)
	}
	if res == nil || res.Team != "B" {
		t.Fatalf("expected turn to move to B, got %+v", res)
	}

	if _, err := w.MarkDone("A", now); !errors.Is(err, ErrTeamFinished) {
		t.Fatalf("expected team finished error, got %v", err)
	}

	res, err = w.MarkDone("B", now)
	if err != nil {
		t.Fatalf("mark B done: %v", err)
	}
	if res == nil || !res.Completed || w.Status != StatusCompleted {
		t.Fatalf("expected completion once every team is done")
	}
}

func TestWindow_MarkDoneRequiresPickupFirst(t *testing.T) {
	t.Parallel()

	w := startedWindow(t, 1, false)
	if err := w.RecordDrop("A", "p1", now); err != nil {
		t.Fatalf("record drop: %v", err)
	}
	if _, err := w.MarkDone("A", now); !errors.Is(err, ErrWrongStep) {
		t.Fatalf("expected wrong step, got %v", err)
	}
}

func TestWindow_StartValidation(t *testing.T) {
	t.Parallel()

	var w Window
	if err := w.Start(nil, 1, false, nil, now); !errors.Is(err, turn.ErrInvalidOrder) {
		t.Fatalf("expected invalid order, got %v", err)
	}
	if err := w.Start([]string{"A"}, 0, false, nil, now); !errors.Is(err, turn.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	past := now.Add(-time.Hour)
	if err := w.Start([]string{"A"}, 1, false, &past, now); !errors.Is(err, turn.ErrInvalidInput) {
		t.Fatalf("expected invalid input for past deadline, got %v", err)
	}

	w = startedWindow(t, 1, false)
	if err := w.Start([]string{"A"}, 1, false, nil, now); !errors.Is(err, ErrWindowActive) {
		t.Fatalf("expected window active, got %v", err)
	}
}

func TestWindow_RestartKeepsActionLog(t *testing.T) {
	t.Parallel()

	w := startedWindow(t, 1, false)
	w.Actions = append(w.Actions,
		Action{ID: "a1", TeamID: "A", Type: ActionDrop, PlayerID: "p1", Round: 1, At: now},
		Action{ID: "a2", Type: ActionWindowCompleted, Round: 1, At: now},
	)
	w.Complete(now.Add(time.Hour))

	if err := w.Start([]string{"B", "A"}, 2, true, nil, now.Add(24*time.Hour)); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if w.Status != StatusActive || w.CurrentTurn != "B" || w.Round != 1 || w.EndedAt != nil {
		t.Fatalf("unexpected restarted window: %+v", w)
	}
	if len(w.Actions) != 2 || w.Actions[0].ID != "a1" || w.Actions[1].ID != "a2" {
		t.Fatalf("expected earlier actions to survive restart, got %+v", w.Actions)
	}
}

func TestWindow_ExpireIfPastDeadline(t *testing.T) {
	t.Parallel()

	closes := now.Add(time.Hour)
	var w Window
	if err := w.Start([]string{"A", "B"}, 1, false, &closes, now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if w.ExpireIfPastDeadline(now.Add(30 * time.Minute)) {
		t.Fatalf("window must stay open before the deadline")
	}
	if !w.ExpireIfPastDeadline(now.Add(2 * time.Hour)) {
		t.Fatalf("expected expiry after the deadline")
	}
	if w.Status != StatusCompleted || w.EndedAt == nil || !w.EndedAt.Equal(closes) {
		t.Fatalf("unexpected window after expiry: status=%s ended=%v", w.Status, w.EndedAt)
	}
}

func TestWindow_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	w := startedWindow(t, 1, false)
	if err := w.RecordDrop("A", "p1", now); err != nil {
		t.Fatalf("record drop: %v", err)
	}
	c := w.Clone()
	c.ClearAfterPickup("A")
	c.Order[0] = "Z"

	if _, ok := w.Teams["A"]; !ok {
		t.Fatalf("clone mutation leaked into original teams")
	}
	if w.Order[0] != "A" {
		t.Fatalf("clone mutation leaked into original order")
	}
}
