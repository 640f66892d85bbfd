package draft

import (
	"errors"
	"testing"
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
)

var now = time.Date(2026, 2, 20, 20, 0, 0, 0, time.UTC)

func TestState_FullSnakeDraft(t *testing.T) {
	t.Parallel()

	s := State{Status: StatusNotStarted}
	if err := s.Configure([]string{"A", "B", "C"}, 2, true); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := s.Start(now); err != nil {
		t.Fatalf("start: %v", err)
	}

	want := []string{"A", "B", "C", "C", "B", "A"}
	for i, team := range want {
		if s.CurrentTeam != team {
			t.Fatalf("pick %d: expected %s on the clock, got %s", i+1, team, s.CurrentTeam)
		}
		if s.CurrentPick != i+1 {
			t.Fatalf("pick %d: unexpected current pick %d", i+1, s.CurrentPick)
		}
		if _, err := s.RecordPick(team, now); err != nil {
			t.Fatalf("pick %d: %v", i+1, err)
		}
	}

	if s.Status != StatusCompleted {
		t.Fatalf("expected completed draft, got %s", s.Status)
	}
	if s.PicksMade != s.TotalPicks() {
		t.Fatalf("expected %d picks made, got %d", s.TotalPicks(), s.PicksMade)
	}
	if _, err := s.RecordPick("A", now); !errors.Is(err, ErrDraftNotActive) {
		t.Fatalf("expected draft not active, got %v", err)
	}
}

func TestState_RecordPickRejectsOffClockTeam(t *testing.T) {
	t.Parallel()

	s := State{}
	if err := s.Configure([]string{"A", "B"}, 1, false); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := s.Start(now); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := s.RecordPick("B", now); !errors.Is(err, turn.ErrNotYourTurn) {
		t.Fatalf("expected not your turn, got %v", err)
	}
	if _, err := s.RecordPick("X", now); !errors.Is(err, turn.ErrTeamNotInOrder) {
		t.Fatalf("expected team not in order, got %v", err)
	}
}

func TestState_ConfigureAfterPicksFails(t *testing.T) {
	t.Parallel()

	s := State{}
	if err := s.Configure([]string{"A", "B"}, 2, false); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := s.Start(now); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := s.RecordPick("A", now); err != nil {
		t.Fatalf("pick: %v", err)
	}
	if err := s.Configure([]string{"B", "A"}, 2, false); !errors.Is(err, ErrDraftStarted) {
		t.Fatalf("expected draft started, got %v", err)
	}

	s.Reset()
	if s.Status != StatusNotStarted || s.PicksMade != 0 || s.CurrentTeam != "" {
		t.Fatalf("unexpected state after reset: %+v", s)
	}
	if len(s.Order) != 2 {
		t.Fatalf("reset must keep the configured order")
	}
	if err := s.Configure([]string{"B", "A"}, 3, true); err != nil {
		t.Fatalf("configure after reset: %v", err)
	}
}

func TestState_StartRequiresSettings(t *testing.T) {
	t.Parallel()

	s := State{}
	if err := s.Start(now); !errors.Is(err, turn.ErrInvalidOrder) {
		t.Fatalf("expected invalid order, got %v", err)
	}
}
