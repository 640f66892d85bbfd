package turn

import (
	"errors"
	"testing"
)

func TestNext_SnakeExampleSequence(t *testing.T) {
	t.Parallel()

	in := Input{
		Order:        []string{"A", "B", "C"},
		CurrentTeam:  "A",
		CurrentRound: 1,
		MaxRounds:    2,
		Snake:        true,
	}

	want := []struct {
		team  string
		round int
	}{
		{"B", 1},
		{"C", 1},
		{"C", 2},
		{"B", 2},
		{"A", 2},
	}

	for i, step := range want {
		res, err := Next(in)
		if err != nil {
			t.Fatalf("step %d: next: %v", i, err)
		}
		if res.Completed {
			t.Fatalf("step %d: unexpected completion", i)
		}
		if res.Team != step.team || res.Round != step.round {
			t.Fatalf("step %d: got (%s,%d) want (%s,%d)", i, res.Team, res.Round, step.team, step.round)
		}
		in.CurrentTeam = res.Team
		in.CurrentRound = res.Round
	}

	res, err := Next(in)
	if err != nil {
		t.Fatalf("final next: %v", err)
	}
	if !res.Completed {
		t.Fatalf("expected completion after last pick, got (%s,%d)", res.Team, res.Round)
	}
	if res.Team != "A" || res.Round != 2 {
		t.Fatalf("completed result must keep current position, got (%s,%d)", res.Team, res.Round)
	}
}

func TestNext_NonSnakeVisitsEveryTeamOncePerRound(t *testing.T) {
	t.Parallel()

	order := []string{"A", "B", "C", "D"}
	in := Input{Order: order, CurrentTeam: "A", CurrentRound: 1, MaxRounds: 3}

	visits := map[string]int{}
	for i := 0; i < len(order); i++ {
		res, err := Next(in)
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
		visits[res.Team]++
		in.CurrentTeam = res.Team
		in.CurrentRound = res.Round
	}

	for _, team := range order {
		if visits[team] != 1 {
			t.Fatalf("team %s visited %d times, want 1", team, visits[team])
		}
	}
	if in.CurrentTeam != "A" || in.CurrentRound != 2 {
		t.Fatalf("expected (A,2) after %d advances, got (%s,%d)", len(order), in.CurrentTeam, in.CurrentRound)
	}
}

func TestNext_SnakeRoundDirections(t *testing.T) {
	t.Parallel()

	order := []string{"A", "B", "C"}
	in := Input{Order: order, CurrentTeam: "A", CurrentRound: 1, MaxRounds: 3, Snake: true}

	var seen []string
	seen = append(seen, in.CurrentTeam)
	for {
		res, err := Next(in)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if res.Completed {
			break
		}
		seen = append(seen, res.Team)
		in.CurrentTeam = res.Team
		in.CurrentRound = res.Round
	}

	want := []string{"A", "B", "C", "C", "B", "A", "A", "B", "C"}
	if len(seen) != len(want) {
		t.Fatalf("unexpected sequence length: got=%v want=%v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("sequence mismatch at %d: got=%v want=%v", i, seen, want)
		}
	}
}

func TestNext_SkipsFinishedTeamWithoutDoubleRoundIncrement(t *testing.T) {
	t.Parallel()

	res, err := Next(Input{
		Order:        []string{"A", "B", "C"},
		CurrentTeam:  "B",
		CurrentRound: 1,
		MaxRounds:    3,
		Finished:     []string{"C"},
	})
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if res.Team != "A" || res.Round != 2 {
		t.Fatalf("expected (A,2), got (%s,%d)", res.Team, res.Round)
	}
	if len(res.Skipped) != 1 || res.Skipped[0] != "C" {
		t.Fatalf("expected C to be skipped, got %v", res.Skipped)
	}
}

func TestNext_AllTeamsFinishedCompletes(t *testing.T) {
	t.Parallel()

	res, err := Next(Input{
		Order:        []string{"A", "B"},
		CurrentTeam:  "A",
		CurrentRound: 1,
		MaxRounds:    5,
		Finished:     []string{"A", "B"},
	})
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !res.Completed {
		t.Fatalf("expected completion when every team is finished")
	}
}

func TestNext_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{
			name: "team not in order",
			in:   Input{Order: []string{"A", "B"}, CurrentTeam: "Z", CurrentRound: 1, MaxRounds: 2},
			want: ErrTeamNotInOrder,
		},
		{
			name: "empty order",
			in:   Input{CurrentTeam: "A", CurrentRound: 1, MaxRounds: 2},
			want: ErrInvalidOrder,
		},
		{
			name: "duplicate team",
			in:   Input{Order: []string{"A", "A"}, CurrentTeam: "A", CurrentRound: 1, MaxRounds: 2},
			want: ErrInvalidOrder,
		},
		{
			name: "round beyond max",
			in:   Input{Order: []string{"A"}, CurrentTeam: "A", CurrentRound: 3, MaxRounds: 2},
			want: ErrInvalidInput,
		},
		{
			name: "zero max rounds",
			in:   Input{Order: []string{"A"}, CurrentTeam: "A", CurrentRound: 1},
			want: ErrInvalidInput,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Next(tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestPickAt(t *testing.T) {
	t.Parallel()

	order := []string{"A", "B", "C"}
	tests := []struct {
		overall int
		snake   bool
		team    string
		round   int
	}{
		{overall: 1, snake: true, team: "A", round: 1},
		{overall: 3, snake: true, team: "C", round: 1},
		{overall: 4, snake: true, team: "C", round: 2},
		{overall: 6, snake: true, team: "A", round: 2},
		{overall: 7, snake: true, team: "A", round: 3},
		{overall: 4, snake: false, team: "A", round: 2},
	}

	for _, tc := range tests {
		slot, err := PickAt(order, tc.overall, tc.snake)
		if err != nil {
			t.Fatalf("pick %d: %v", tc.overall, err)
		}
		if slot.Team != tc.team || slot.Round != tc.round {
			t.Fatalf("pick %d snake=%t: got (%s,%d) want (%s,%d)", tc.overall, tc.snake, slot.Team, slot.Round, tc.team, tc.round)
		}
	}

	if _, err := PickAt(order, 0, true); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for pick 0, got %v", err)
	}
}

func TestUpcoming_StopsAtCompletion(t *testing.T) {
	t.Parallel()

	slots, err := Upcoming(Input{
		Order:        []string{"A", "B", "C"},
		CurrentTeam:  "B",
		CurrentRound: 2,
		MaxRounds:    2,
		Snake:        true,
	}, 5)
	if err != nil {
		t.Fatalf("upcoming: %v", err)
	}
	if len(slots) != 1 || slots[0].Team != "A" || slots[0].OverallPick != 6 {
		t.Fatalf("unexpected preview: %+v", slots)
	}
}
