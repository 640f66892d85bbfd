package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
)

func TestDraftService_SnakeDraftToCompletion(t *testing.T) {
	f := newServiceFixture(t)

	view, err := f.draft.UpdateSettings(t.Context(), UpdateDraftSettingsInput{
		LeagueID:    testLeagueID,
		DraftOrder:  []string{"A", "B", "C"},
		TotalRounds: 2,
		Snake:       true,
		Start:       true,
	})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if view.State.Status != draft.StatusActive || view.State.CurrentTeam != "A" {
		t.Fatalf("expected active draft with A on the clock, got %+v", view.State)
	}
	if len(view.Upcoming) != 3 || view.Upcoming[0].Team != "B" || view.Upcoming[2].Team != "C" || view.Upcoming[2].Round != 2 {
		t.Fatalf("unexpected upcoming preview: %+v", view.Upcoming)
	}

	wantOrder := []string{"A", "B", "C", "C", "B", "A"}
	players := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	var last DraftPickResult
	for i, team := range wantOrder {
		f.tick()
		last, err = f.draft.DraftPlayer(t.Context(), DraftPlayerInput{LeagueID: testLeagueID, TeamID: team, PlayerID: players[i]})
		if err != nil {
			t.Fatalf("pick %d by %s: %v", i+1, team, err)
		}
		if last.OverallPick != i+1 {
			t.Fatalf("pick %d: unexpected overall pick %d", i+1, last.OverallPick)
		}
	}
	if !last.Completed || last.NextTeam != "" {
		t.Fatalf("expected completed draft after last pick, got %+v", last)
	}

	got, err := f.draft.Get(t.Context(), testLeagueID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if got.State.Status != draft.StatusCompleted || got.State.PicksMade != 6 || got.Upcoming != nil {
		t.Fatalf("unexpected final state: %+v", got)
	}

	row, ok, _ := f.rosters.Get(t.Context(), testLeagueID, "p4")
	if !ok || row.TeamDraftedBy != "C" || !row.DraftedAt.Equal(f.now.Add(-2*time.Minute)) {
		t.Fatalf("unexpected roster row for p4: %+v", row)
	}
}

func TestDraftService_DraftPlayer_Conflicts(t *testing.T) {
	f := newServiceFixture(t)
	if _, err := f.draft.UpdateSettings(t.Context(), UpdateDraftSettingsInput{
		LeagueID:    testLeagueID,
		DraftOrder:  []string{"A", "B", "C"},
		TotalRounds: 2,
		Snake:       true,
		Start:       true,
	}); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	_, err := f.draft.DraftPlayer(t.Context(), DraftPlayerInput{LeagueID: testLeagueID, TeamID: "B", PlayerID: "p1"})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, turn.ErrNotYourTurn) {
		t.Fatalf("expected not-your-turn conflict, got %v", err)
	}

	if _, err := f.draft.DraftPlayer(t.Context(), DraftPlayerInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p1"}); err != nil {
		t.Fatalf("first pick: %v", err)
	}

	_, err = f.draft.DraftPlayer(t.Context(), DraftPlayerInput{LeagueID: testLeagueID, TeamID: "B", PlayerID: "p1"})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, roster.ErrConflict) {
		t.Fatalf("expected duplicate pick conflict, got %v", err)
	}

	view, err := f.draft.Get(t.Context(), testLeagueID)
	if err != nil {
		t.Fatalf("get draft: %v", err)
	}
	if view.State.CurrentTeam != "B" || view.State.PicksMade != 1 {
		t.Fatalf("rejected pick must not advance the draft, got %+v", view.State)
	}
}

func TestDraftService_InvalidInput(t *testing.T) {
	f := newServiceFixture(t)

	tests := []struct {
		name  string
		input UpdateDraftSettingsInput
		want  error
	}{
		{
			name:  "empty order",
			input: UpdateDraftSettingsInput{LeagueID: testLeagueID, TotalRounds: 2},
			want:  ErrInvalidInput,
		},
		{
			name:  "zero rounds",
			input: UpdateDraftSettingsInput{LeagueID: testLeagueID, DraftOrder: []string{"A"}},
			want:  ErrInvalidInput,
		},
		{
			name:  "team outside league",
			input: UpdateDraftSettingsInput{LeagueID: testLeagueID, DraftOrder: []string{"A", "Z"}, TotalRounds: 1},
			want:  ErrInvalidInput,
		},
		{
			name:  "duplicate team",
			input: UpdateDraftSettingsInput{LeagueID: testLeagueID, DraftOrder: []string{"A", "A"}, TotalRounds: 1},
			want:  ErrInvalidInput,
		},
		{
			name:  "unknown league",
			input: UpdateDraftSettingsInput{LeagueID: "missing", DraftOrder: []string{"A"}, TotalRounds: 1},
			want:  ErrNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.draft.UpdateSettings(t.Context(), tc.input); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if _, err := f.draft.DraftPlayer(t.Context(), DraftPlayerInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "nobody"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown player, got %v", err)
	}
	if _, err := f.draft.DraftPlayer(t.Context(), DraftPlayerInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p1"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict before the draft starts, got %v", err)
	}
}

func TestDraftService_SettingsLockedAfterFirstPick(t *testing.T) {
	f := newServiceFixture(t)
	if _, err := f.draft.UpdateSettings(t.Context(), UpdateDraftSettingsInput{
		LeagueID:    testLeagueID,
		DraftOrder:  []string{"A", "B", "C"},
		TotalRounds: 1,
		Start:       true,
	}); err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if _, err := f.draft.DraftPlayer(t.Context(), DraftPlayerInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p1"}); err != nil {
		t.Fatalf("pick: %v", err)
	}

	_, err := f.draft.UpdateSettings(t.Context(), UpdateDraftSettingsInput{
		LeagueID:    testLeagueID,
		DraftOrder:  []string{"C", "B", "A"},
		TotalRounds: 1,
	})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, draft.ErrDraftStarted) {
		t.Fatalf("expected draft started conflict, got %v", err)
	}
}

type failingDeleteRosterRepo struct {
	roster.Repository
	failures int
}

func (r *failingDeleteRosterRepo) DeleteByLeague(ctx context.Context, leagueID string) (int, error) {
	if r.failures > 0 {
		r.failures--
		return 0, errors.New("provisioned throughput exceeded")
	}
	return r.Repository.DeleteByLeague(ctx, leagueID)
}

func TestDraftService_ResetRetryAfterRosterDeleteFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.runDraft(t)

	rosters := &failingDeleteRosterRepo{Repository: f.rosters, failures: 1}
	svc := NewDraftService(f.writer, f.draft.directory, rosters, f.draft.logger)

	_, err := svc.Reset(t.Context(), testLeagueID)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "retry the reset") {
		t.Fatalf("expected retry hint in error, got %q", err.Error())
	}

	rows, err := f.rosters.ListByLeague(t.Context(), testLeagueID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected stale rows to remain after failed delete, got %d", len(rows))
	}

	result, err := svc.Reset(t.Context(), testLeagueID)
	if err != nil {
		t.Fatalf("retry reset: %v", err)
	}
	if result.RosterRowsGone != 6 || result.State.Status != draft.StatusNotStarted {
		t.Fatalf("unexpected retry result: %+v", result)
	}
}

func TestDraftService_Reset(t *testing.T) {
	f := newServiceFixture(t)
	f.runDraft(t)
	f.startWindow(t, 1)

	result, err := f.draft.Reset(t.Context(), testLeagueID)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if result.RosterRowsGone != 6 {
		t.Fatalf("expected 6 roster rows removed, got %d", result.RosterRowsGone)
	}
	if result.State.Status != draft.StatusNotStarted || result.State.PicksMade != 0 {
		t.Fatalf("unexpected state after reset: %+v", result.State)
	}
	if len(result.State.Order) != 3 || result.State.TotalRounds != 2 {
		t.Fatalf("reset must keep settings, got %+v", result.State)
	}

	status, err := f.transfer.Status(t.Context(), testLeagueID)
	if err != nil {
		t.Fatalf("transfer status: %v", err)
	}
	if status.Window.Status != "not_started" {
		t.Fatalf("expected transfer window reset, got %s", status.Window.Status)
	}

	if _, err := f.draft.Start(t.Context(), testLeagueID); err != nil {
		t.Fatalf("restart draft: %v", err)
	}
	if _, err := f.draft.DraftPlayer(t.Context(), DraftPlayerInput{LeagueID: testLeagueID, TeamID: "A", PlayerID: "p2"}); err != nil {
		t.Fatalf("pick after reset: %v", err)
	}
}

func TestDraftService_PublishesEvents(t *testing.T) {
	f := newServiceFixture(t)
	f.runDraft(t)

	types := f.events.types()
	if len(types) != 7 || types[0] != EventDraftUpdated || types[6] != EventDraftPick {
		t.Fatalf("unexpected events: %v", types)
	}
	if f.events.events[6].Version != 7 {
		t.Fatalf("expected event version 7, got %d", f.events.events[6].Version)
	}
}
