package turn

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidOrder   = errors.New("invalid draft order")
	ErrInvalidInput   = errors.New("invalid turn input")
	ErrTeamNotInOrder = errors.New("team is not in draft order")
	ErrNotYourTurn    = errors.New("not this team's turn")
)

// Input is the turn position to advance from.
type Input struct {
	Order        []string
	CurrentTeam  string
	CurrentRound int
	MaxRounds    int
	Snake        bool
	// Finished lists teams that ended their turns early and must be skipped.
	Finished []string
}

// Result is the outcome of a single advance. When Completed is true, Team
// and Round still hold the position that was advanced from.
type Result struct {
	PreviousTeam  string
	PreviousRound int
	Team          string
	Round         int
	OverallPick   int
	Completed     bool
	Skipped       []string
}

// Slot identifies one pick in the sequence.
type Slot struct {
	Team        string
	Round       int
	Position    int
	OverallPick int
}

func ValidateOrder(order []string) error {
	if len(order) == 0 {
		return fmt.Errorf("%w: order is empty", ErrInvalidOrder)
	}

	seen := make(map[string]struct{}, len(order))
	for i, team := range order {
		if strings.TrimSpace(team) == "" {
			return fmt.Errorf("%w: empty team id at index %d", ErrInvalidOrder, i)
		}
		if _, ok := seen[team]; ok {
			return fmt.Errorf("%w: duplicate team id %s", ErrInvalidOrder, team)
		}
		seen[team] = struct{}{}
	}

	return nil
}

// RoundOrder returns the effective order for a round. Snake drafts reverse
// every even round.
func RoundOrder(order []string, round int, snake bool) []string {
	out := append([]string(nil), order...)
	if !snake || round%2 == 1 {
		return out
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// Position finds the zero-based index of team within the effective order of round.
func Position(order []string, team string, round int, snake bool) (int, error) {
	for i, candidate := range RoundOrder(order, round, snake) {
		if candidate == team {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrTeamNotInOrder, team)
}

func OverallPick(teamCount, round, position int) int {
	return (round-1)*teamCount + position + 1
}

// PickAt resolves a one-based overall pick number into its slot.
func PickAt(order []string, overallPick int, snake bool) (Slot, error) {
	if err := ValidateOrder(order); err != nil {
		return Slot{}, err
	}
	if overallPick < 1 {
		return Slot{}, fmt.Errorf("%w: overall pick must be >= 1", ErrInvalidInput)
	}

	n := len(order)
	round := (overallPick-1)/n + 1
	position := (overallPick - 1) % n

	return Slot{
		Team:        RoundOrder(order, round, snake)[position],
		Round:       round,
		Position:    position,
		OverallPick: overallPick,
	}, nil
}

// Next advances one turn. Teams in Finished are skipped, bounded by one
// attempt per team so a fully finished league terminates.
func Next(in Input) (Result, error) {
	if err := ValidateOrder(in.Order); err != nil {
		return Result{}, err
	}
	if in.MaxRounds < 1 {
		return Result{}, fmt.Errorf("%w: max rounds must be >= 1", ErrInvalidInput)
	}
	if in.CurrentRound < 1 || in.CurrentRound > in.MaxRounds {
		return Result{}, fmt.Errorf("%w: current round %d outside 1..%d", ErrInvalidInput, in.CurrentRound, in.MaxRounds)
	}

	position, err := Position(in.Order, in.CurrentTeam, in.CurrentRound, in.Snake)
	if err != nil {
		return Result{}, err
	}

	finished := make(map[string]struct{}, len(in.Finished))
	for _, team := range in.Finished {
		finished[team] = struct{}{}
	}

	res := Result{
		PreviousTeam:  in.CurrentTeam,
		PreviousRound: in.CurrentRound,
		Team:          in.CurrentTeam,
		Round:         in.CurrentRound,
		OverallPick:   OverallPick(len(in.Order), in.CurrentRound, position),
	}

	n := len(in.Order)
	limit := in.MaxRounds * n
	round := in.CurrentRound
	for attempt := 0; attempt < n; attempt++ {
		position++
		if position >= n {
			position = 0
			round++
		}

		overall := OverallPick(n, round, position)
		if overall > limit {
			res.Completed = true
			return res, nil
		}

		candidate := RoundOrder(in.Order, round, in.Snake)[position]
		if _, done := finished[candidate]; done {
			res.Skipped = append(res.Skipped, candidate)
			continue
		}

		res.Team = candidate
		res.Round = round
		res.OverallPick = overall
		return res, nil
	}

	res.Completed = true
	return res, nil
}

// Upcoming previews up to count turns after the given position.
func Upcoming(in Input, count int) ([]Slot, error) {
	out := make([]Slot, 0, count)
	cursor := in
	for len(out) < count {
		res, err := Next(cursor)
		if err != nil {
			return nil, err
		}
		if res.Completed {
			break
		}

		position, err := Position(in.Order, res.Team, res.Round, in.Snake)
		if err != nil {
			return nil, err
		}
		out = append(out, Slot{
			Team:        res.Team,
			Round:       res.Round,
			Position:    position,
			OverallPick: res.OverallPick,
		})
		cursor.CurrentTeam = res.Team
		cursor.CurrentRound = res.Round
	}

	return out, nil
}
