package draft

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/transfer"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
)

var (
	ErrDraftNotActive  = errors.New("draft is not active")
	ErrDraftStarted    = errors.New("draft already started")
	ErrVersionConflict = errors.New("league record changed concurrently")
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
)

// State is the snake draft progress of one league.
type State struct {
	Status       Status
	Order        []string
	TotalRounds  int
	Snake        bool
	CurrentRound int
	CurrentTeam  string
	CurrentPick  int
	PicksMade    int
	StartedAt    *time.Time
	CompletedAt  *time.Time
}

// TotalPicks is rounds times teams.
func (s State) TotalPicks() int {
	return s.TotalRounds * len(s.Order)
}

func (s State) Clone() State {
	out := s
	out.Order = append([]string(nil), s.Order...)
	return out
}

// Configure replaces draft settings. Only allowed before the first pick.
func (s *State) Configure(order []string, totalRounds int, snake bool) error {
	if s.Status == StatusActive && s.PicksMade > 0 {
		return fmt.Errorf("%w: %d picks already made", ErrDraftStarted, s.PicksMade)
	}
	if s.Status == StatusCompleted {
		return fmt.Errorf("%w: draft is completed, reset it first", ErrDraftStarted)
	}
	if err := turn.ValidateOrder(order); err != nil {
		return err
	}
	if totalRounds < 1 {
		return fmt.Errorf("%w: total rounds must be >= 1", turn.ErrInvalidInput)
	}

	s.Order = append([]string(nil), order...)
	s.TotalRounds = totalRounds
	s.Snake = snake
	if s.Status == StatusActive {
		s.CurrentRound = 1
		s.CurrentTeam = s.Order[0]
		s.CurrentPick = 1
	}
	return nil
}

// Start puts the first team on the clock.
func (s *State) Start(at time.Time) error {
	if s.Status != StatusNotStarted && s.Status != "" {
		return fmt.Errorf("%w: status is %s", ErrDraftStarted, s.Status)
	}
	if err := turn.ValidateOrder(s.Order); err != nil {
		return err
	}
	if s.TotalRounds < 1 {
		return fmt.Errorf("%w: total rounds must be >= 1", turn.ErrInvalidInput)
	}

	started := at.UTC()
	s.Status = StatusActive
	s.CurrentRound = 1
	s.CurrentTeam = s.Order[0]
	s.CurrentPick = 1
	s.PicksMade = 0
	s.StartedAt = &started
	s.CompletedAt = nil
	return nil
}

// RecordPick validates that teamID is on the clock and advances the pointer
// through the shared sequencer.
func (s *State) RecordPick(teamID string, at time.Time) (turn.Result, error) {
	if s.Status != StatusActive {
		return turn.Result{}, ErrDraftNotActive
	}
	if !slices.Contains(s.Order, teamID) {
		return turn.Result{}, fmt.Errorf("%w: %s", turn.ErrTeamNotInOrder, teamID)
	}
	if s.CurrentTeam != teamID {
		return turn.Result{}, fmt.Errorf("%w: %s is on the clock", turn.ErrNotYourTurn, s.CurrentTeam)
	}

	res, err := turn.Next(turn.Input{
		Order:        s.Order,
		CurrentTeam:  s.CurrentTeam,
		CurrentRound: s.CurrentRound,
		MaxRounds:    s.TotalRounds,
		Snake:        s.Snake,
	})
	if err != nil {
		return turn.Result{}, err
	}

	s.PicksMade++
	if res.Completed {
		completed := at.UTC()
		s.Status = StatusCompleted
		s.CompletedAt = &completed
		return res, nil
	}

	s.CurrentTeam = res.Team
	s.CurrentRound = res.Round
	s.CurrentPick = res.OverallPick
	return res, nil
}

// Reset clears progress but keeps the configured order and rounds.
func (s *State) Reset() {
	s.Status = StatusNotStarted
	s.CurrentRound = 0
	s.CurrentTeam = ""
	s.CurrentPick = 0
	s.PicksMade = 0
	s.StartedAt = nil
	s.CompletedAt = nil
}

// Record is the per-league singleton holding draft and transfer state.
type Record struct {
	LeagueID  string
	Draft     State
	Transfer  transfer.Window
	Version   int64
	UpdatedAt time.Time
}

func NewRecord(leagueID string) Record {
	return Record{
		LeagueID: leagueID,
		Draft:    State{Status: StatusNotStarted},
		Transfer: transfer.Window{Status: transfer.StatusNotStarted},
	}
}

func (r Record) Clone() Record {
	out := r
	out.Draft = r.Draft.Clone()
	out.Transfer = r.Transfer.Clone()
	return out
}
