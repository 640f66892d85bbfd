package transfer

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
)

var (
	ErrWindowNotActive = errors.New("transfer window is not active")
	ErrWindowActive    = errors.New("transfer window is already active")
	ErrWrongStep       = errors.New("transfer step out of sequence")
	ErrTeamFinished    = errors.New("team already finished transfers")
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusCompleted  Status = "completed"
)

// Step is where a team stands inside its own turn.
type Step string

const (
	StepDrop   Step = "drop"
	StepPickup Step = "pickup"
)

type TeamState struct {
	Step            Step
	DroppedPlayerID string
	DroppedAt       *time.Time
}

type ActionType string

const (
	ActionWindowStarted   ActionType = "window_started"
	ActionDrop            ActionType = "drop"
	ActionPickup          ActionType = "pickup"
	ActionTurnAdvanced    ActionType = "turn_advanced"
	ActionTeamDone        ActionType = "team_done"
	ActionWindowCompleted ActionType = "window_completed"
)

// Action is an immutable audit entry of the transfer window.
type Action struct {
	ID       string
	TeamID   string
	Type     ActionType
	PlayerID string
	Round    int
	At       time.Time
}

// Window is the transfer window state of one league.
type Window struct {
	Status      Status
	Order       []string
	Round       int
	MaxRounds   int
	Snake       bool
	CurrentTurn string
	Teams       map[string]TeamState
	Finished    []string
	Actions     []Action
	StartedAt   *time.Time
	EndedAt     *time.Time
	ClosesAt    *time.Time
}

func (w Window) Clone() Window {
	out := w
	out.Order = append([]string(nil), w.Order...)
	out.Finished = append([]string(nil), w.Finished...)
	out.Actions = append([]Action(nil), w.Actions...)
	if w.Teams != nil {
		out.Teams = make(map[string]TeamState, len(w.Teams))
		for k, v := range w.Teams {
			out.Teams[k] = v
		}
	}
	return out
}

// StepFor returns the team's pending step. Teams without state start at drop.
func (w Window) StepFor(teamID string) TeamState {
	if state, ok := w.Teams[teamID]; ok {
		return state
	}
	return TeamState{Step: StepDrop}
}

func (w Window) IsFinished(teamID string) bool {
	return slices.Contains(w.Finished, teamID)
}

func (w Window) turnInput() turn.Input {
	return turn.Input{
		Order:        w.Order,
		CurrentTeam:  w.CurrentTurn,
		CurrentRound: w.Round,
		MaxRounds:    w.MaxRounds,
		Snake:        w.Snake,
		Finished:     w.Finished,
	}
}

// Upcoming previews the next turns without changing state.
func (w Window) Upcoming(count int) ([]turn.Slot, error) {
	if w.Status != StatusActive {
		return nil, nil
	}
	return turn.Upcoming(w.turnInput(), count)
}

// Start opens a new window. Turn state is replaced; the action log of earlier
// windows is kept and the new window appends after it.
func (w *Window) Start(order []string, maxRounds int, snake bool, closesAt *time.Time, at time.Time) error {
	if w.Status == StatusActive {
		return ErrWindowActive
	}
	if err := turn.ValidateOrder(order); err != nil {
		return err
	}
	if maxRounds < 1 {
		return fmt.Errorf("%w: max rounds must be >= 1", turn.ErrInvalidInput)
	}
	if closesAt != nil && !closesAt.After(at) {
		return fmt.Errorf("%w: closes_at must be in the future", turn.ErrInvalidInput)
	}

	started := at.UTC()
	*w = Window{
		Status:      StatusActive,
		Order:       append([]string(nil), order...),
		Round:       1,
		MaxRounds:   maxRounds,
		Snake:       snake,
		CurrentTurn: order[0],
		Teams:       map[string]TeamState{},
		StartedAt:   &started,
		ClosesAt:    closesAt,
		Actions:     w.Actions,
	}
	return nil
}

func (w *Window) requireTurn(teamID string) error {
	if w.Status != StatusActive {
		return ErrWindowNotActive
	}
	if !slices.Contains(w.Order, teamID) {
		return fmt.Errorf("%w: %s", turn.ErrTeamNotInOrder, teamID)
	}
	if w.IsFinished(teamID) {
		return fmt.Errorf("%w: %s", ErrTeamFinished, teamID)
	}
	if w.CurrentTurn != teamID {
		return fmt.Errorf("%w: current turn is %s", turn.ErrNotYourTurn, w.CurrentTurn)
	}
	return nil
}

// RecordDrop moves the team from its drop step to its pickup step.
func (w *Window) RecordDrop(teamID, playerID string, at time.Time) error {
	if err := w.requireTurn(teamID); err != nil {
		return err
	}
	if state := w.StepFor(teamID); state.Step != StepDrop {
		return fmt.Errorf("%w: team %s already dropped %s", ErrWrongStep, teamID, state.DroppedPlayerID)
	}

	droppedAt := at.UTC()
	if w.Teams == nil {
		w.Teams = map[string]TeamState{}
	}
	w.Teams[teamID] = TeamState{
		Step:            StepPickup,
		DroppedPlayerID: playerID,
		DroppedAt:       &droppedAt,
	}
	return nil
}

// RecordPickup validates the pickup step and clears the team's state.
func (w *Window) RecordPickup(teamID string) error {
	if err := w.requireTurn(teamID); err != nil {
		return err
	}
	if state := w.StepFor(teamID); state.Step != StepPickup {
		return fmt.Errorf("%w: team %s must drop a player before picking up", ErrWrongStep, teamID)
	}

	w.ClearAfterPickup(teamID)
	return nil
}

func (w *Window) ClearAfterPickup(teamID string) {
	delete(w.Teams, teamID)
}

// Advance moves the turn pointer through the shared sequencer. Exhaustion
// completes the window and leaves the current turn untouched.
func (w *Window) Advance(at time.Time) (turn.Result, error) {
	if w.Status != StatusActive {
		return turn.Result{}, ErrWindowNotActive
	}

	res, err := turn.Next(w.turnInput())
	if err != nil {
		return turn.Result{}, err
	}
	if res.Completed {
		w.Complete(at)
		return res, nil
	}

	w.CurrentTurn = res.Team
	w.Round = res.Round
	return res, nil
}

// MarkDone ends a team's transfers early. When it is that team's turn the
// pointer advances; the returned result is nil otherwise.
func (w *Window) MarkDone(teamID string, at time.Time) (*turn.Result, error) {
	if w.Status != StatusActive {
		return nil, ErrWindowNotActive
	}
	if !slices.Contains(w.Order, teamID) {
		return nil, fmt.Errorf("%w: %s", turn.ErrTeamNotInOrder, teamID)
	}
	if w.IsFinished(teamID) {
		return nil, fmt.Errorf("%w: %s", ErrTeamFinished, teamID)
	}
	if state := w.StepFor(teamID); state.Step == StepPickup {
		return nil, fmt.Errorf("%w: team %s must pick up before finishing", ErrWrongStep, teamID)
	}

	w.Finished = append(w.Finished, teamID)
	if len(w.Finished) == len(w.Order) {
		w.Complete(at)
		return &turn.Result{PreviousTeam: w.CurrentTurn, PreviousRound: w.Round, Team: w.CurrentTurn, Round: w.Round, Completed: true}, nil
	}
	if w.CurrentTurn != teamID {
		return nil, nil
	}

	res, err := w.Advance(at)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (w *Window) Complete(at time.Time) {
	ended := at.UTC()
	w.Status = StatusCompleted
	w.EndedAt = &ended
}

// ExpireIfPastDeadline completes an active window whose deadline passed.
func (w *Window) ExpireIfPastDeadline(now time.Time) bool {
	if w.Status != StatusActive || w.ClosesAt == nil || now.Before(*w.ClosesAt) {
		return false
	}
	w.Complete(*w.ClosesAt)
	return true
}

func (w *Window) AppendAction(action Action) {
	action.At = action.At.UTC()
	w.Actions = append(w.Actions, action)
}
