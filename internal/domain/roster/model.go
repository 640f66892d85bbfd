package roster

import (
	"errors"
	"fmt"
	"time"
)

// ErrConflict reports that a conditional roster write did not hold.
var ErrConflict = errors.New("roster conflict")

// Stint is a closed period of ownership kept after a dropped player is picked
// up by another team.
type Stint struct {
	TeamID    string
	GoalsFrom int
	GoalsTo   int
	From      time.Time
	To        time.Time
}

// Assignment is one player's roster row within a league.
type Assignment struct {
	LeagueID           string
	PlayerID           string
	TeamDraftedBy      string
	DraftedAt          time.Time
	Dropped            bool
	DroppedAt          *time.Time
	AvailableForPickup bool
	PickedUp           bool
	PickedUpAt         *time.Time
	GoalsAtDrop        int
	GoalsBeforePickup  int
	History            []Stint
	Revision           int64
}

// Owned reports whether the row has a current owner.
func (a Assignment) Owned() bool {
	return a.TeamDraftedBy != "" && !a.Dropped
}

func (a Assignment) OwnedBy(teamID string) bool {
	return a.Owned() && a.TeamDraftedBy == teamID
}

// Baseline is the goal count the current owner started counting from.
func (a Assignment) Baseline() int {
	if a.PickedUp {
		return a.GoalsBeforePickup
	}
	return 0
}

func (a Assignment) Clone() Assignment {
	out := a
	out.History = append([]Stint(nil), a.History...)
	if a.DroppedAt != nil {
		at := *a.DroppedAt
		out.DroppedAt = &at
	}
	if a.PickedUpAt != nil {
		at := *a.PickedUpAt
		out.PickedUpAt = &at
	}
	return out
}

type ChangeKind string

const (
	ChangeDraft  ChangeKind = "draft"
	ChangeDrop   ChangeKind = "drop"
	ChangePickup ChangeKind = "pickup"
)

// Change is a conditional roster write. Goals carries the player's season
// goals at the moment of the change.
type Change struct {
	Kind     ChangeKind
	LeagueID string
	PlayerID string
	TeamID   string
	Goals    int
	At       time.Time
}

func (c Change) Validate() error {
	switch c.Kind {
	case ChangeDraft, ChangeDrop, ChangePickup:
	default:
		return fmt.Errorf("unknown roster change kind %q", c.Kind)
	}
	if c.LeagueID == "" || c.PlayerID == "" || c.TeamID == "" {
		return fmt.Errorf("roster change requires league, player and team ids")
	}
	if c.Goals < 0 {
		return fmt.Errorf("roster change goals cannot be negative")
	}
	return nil
}

// Apply evaluates the write conditions of change against the current row and
// returns the row to persist. exists is false when no row is stored yet.
func Apply(current Assignment, exists bool, change Change) (Assignment, error) {
	if err := change.Validate(); err != nil {
		return Assignment{}, err
	}

	at := change.At.UTC()
	switch change.Kind {
	case ChangeDraft:
		if exists && current.Owned() {
			return Assignment{}, fmt.Errorf("%w: player %s already drafted by %s", ErrConflict, change.PlayerID, current.TeamDraftedBy)
		}
		if exists && current.AvailableForPickup {
			return Assignment{}, fmt.Errorf("%w: player %s is on waivers, use pickup", ErrConflict, change.PlayerID)
		}
		return Assignment{
			LeagueID:      change.LeagueID,
			PlayerID:      change.PlayerID,
			TeamDraftedBy: change.TeamID,
			DraftedAt:     at,
			Revision:      current.Revision + 1,
		}, nil

	case ChangeDrop:
		if !exists {
			return Assignment{}, fmt.Errorf("%w: player %s is not on any roster", ErrConflict, change.PlayerID)
		}
		if current.TeamDraftedBy != change.TeamID {
			return Assignment{}, fmt.Errorf("%w: player %s is not owned by team %s", ErrConflict, change.PlayerID, change.TeamID)
		}
		if current.Dropped {
			return Assignment{}, fmt.Errorf("%w: player %s already dropped", ErrConflict, change.PlayerID)
		}

		next := current.Clone()
		next.Dropped = true
		next.DroppedAt = &at
		next.AvailableForPickup = true
		next.GoalsAtDrop = change.Goals
		next.Revision++
		return next, nil

	case ChangePickup:
		if !exists {
			return Assignment{
				LeagueID:          change.LeagueID,
				PlayerID:          change.PlayerID,
				TeamDraftedBy:     change.TeamID,
				DraftedAt:         at,
				PickedUp:          true,
				PickedUpAt:        &at,
				GoalsBeforePickup: change.Goals,
				Revision:          1,
			}, nil
		}
		if !current.AvailableForPickup {
			return Assignment{}, fmt.Errorf("%w: player %s is not available for pickup", ErrConflict, change.PlayerID)
		}

		next := current.Clone()
		if current.TeamDraftedBy != "" {
			stint := Stint{
				TeamID:    current.TeamDraftedBy,
				GoalsFrom: current.Baseline(),
				GoalsTo:   current.GoalsAtDrop,
				From:      current.DraftedAt,
			}
			if current.PickedUpAt != nil {
				stint.From = *current.PickedUpAt
			}
			if current.DroppedAt != nil {
				stint.To = *current.DroppedAt
			}
			next.History = append(next.History, stint)
		}
		next.TeamDraftedBy = change.TeamID
		next.Dropped = false
		next.DroppedAt = nil
		next.AvailableForPickup = false
		next.PickedUp = true
		next.PickedUpAt = &at
		next.GoalsBeforePickup = change.Goals
		next.GoalsAtDrop = 0
		next.Revision++
		return next, nil
	}

	return Assignment{}, fmt.Errorf("unknown roster change kind %q", change.Kind)
}
