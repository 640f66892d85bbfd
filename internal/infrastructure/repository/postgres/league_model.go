package postgres

import (
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/transfer"
)

const (
	tableLeagueDrafts      = "league_drafts"
	tableRosterAssignments = "roster_assignments"
	tablePlayers           = "players"
	tableFantasyTeams      = "fantasy_teams"
)

var leagueDraftColumns = []string{"league_id", "version", "draft_state", "transfer_state", "updated_at"}

var rosterColumns = []string{
	"league_id",
	"player_id",
	"team_drafted_by",
	"drafted_at",
	"dropped",
	"dropped_at",
	"available_for_pickup",
	"picked_up",
	"picked_up_at",
	"goals_at_drop",
	"goals_before_pickup",
	"history",
	"revision",
}

type leagueDraftTableModel struct {
	LeagueID      string    `db:"league_id"`
	Version       int64     `db:"version"`
	DraftState    []byte    `db:"draft_state"`
	TransferState []byte    `db:"transfer_state"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type rosterTableModel struct {
	LeagueID           string     `db:"league_id"`
	PlayerID           string     `db:"player_id"`
	TeamDraftedBy      string     `db:"team_drafted_by"`
	DraftedAt          time.Time  `db:"drafted_at"`
	Dropped            bool       `db:"dropped"`
	DroppedAt          *time.Time `db:"dropped_at"`
	AvailableForPickup bool       `db:"available_for_pickup"`
	PickedUp           bool       `db:"picked_up"`
	PickedUpAt         *time.Time `db:"picked_up_at"`
	GoalsAtDrop        int        `db:"goals_at_drop"`
	GoalsBeforePickup  int        `db:"goals_before_pickup"`
	History            []byte     `db:"history"`
	Revision           int64      `db:"revision"`
}

type draftStateJSON struct {
	Status       string     `json:"status"`
	Order        []string   `json:"draft_order"`
	TotalRounds  int        `json:"total_rounds"`
	Snake        bool       `json:"snake_order"`
	CurrentRound int        `json:"current_round"`
	CurrentTeam  string     `json:"current_team,omitempty"`
	CurrentPick  int        `json:"current_pick"`
	PicksMade    int        `json:"picks_made"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

type transferStateJSON struct {
	Status      string                   `json:"status"`
	Order       []string                 `json:"draft_order"`
	Round       int                      `json:"round"`
	MaxRounds   int                      `json:"max_rounds"`
	Snake       bool                     `json:"snake_order"`
	CurrentTurn string                   `json:"current_turn,omitempty"`
	Teams       map[string]teamStateJSON `json:"teams,omitempty"`
	Finished    []string                 `json:"finished,omitempty"`
	Actions     []actionJSON             `json:"actions,omitempty"`
	StartedAt   *time.Time               `json:"started_at,omitempty"`
	EndedAt     *time.Time               `json:"ended_at,omitempty"`
	ClosesAt    *time.Time               `json:"closes_at,omitempty"`
}

type teamStateJSON struct {
	Step            string     `json:"step"`
	DroppedPlayerID string     `json:"dropped_player_id,omitempty"`
	DroppedAt       *time.Time `json:"dropped_at,omitempty"`
}

type actionJSON struct {
	ID       string    `json:"id"`
	TeamID   string    `json:"team_id,omitempty"`
	Type     string    `json:"type"`
	PlayerID string    `json:"player_id,omitempty"`
	Round    int       `json:"round"`
	At       time.Time `json:"at"`
}

type stintJSON struct {
	TeamID    string    `json:"team_id"`
	GoalsFrom int       `json:"goals_from"`
	GoalsTo   int       `json:"goals_to"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
}

func leagueDraftModelFromDomain(r draft.Record) (leagueDraftTableModel, error) {
	d := r.Draft
	draftState, err := sonic.Marshal(draftStateJSON{
		Status:       string(d.Status),
		Order:        d.Order,
		TotalRounds:  d.TotalRounds,
		Snake:        d.Snake,
		CurrentRound: d.CurrentRound,
		CurrentTeam:  d.CurrentTeam,
		CurrentPick:  d.CurrentPick,
		PicksMade:    d.PicksMade,
		StartedAt:    d.StartedAt,
		CompletedAt:  d.CompletedAt,
	})
	if err != nil {
		return leagueDraftTableModel{}, crerr.Wrap(err, "encode draft state")
	}

	w := r.Transfer
	window := transferStateJSON{
		Status:      string(w.Status),
		Order:       w.Order,
		Round:       w.Round,
		MaxRounds:   w.MaxRounds,
		Snake:       w.Snake,
		CurrentTurn: w.CurrentTurn,
		Finished:    w.Finished,
		StartedAt:   w.StartedAt,
		EndedAt:     w.EndedAt,
		ClosesAt:    w.ClosesAt,
	}
	if len(w.Teams) > 0 {
		window.Teams = make(map[string]teamStateJSON, len(w.Teams))
		for teamID, state := range w.Teams {
			window.Teams[teamID] = teamStateJSON{
				Step:            string(state.Step),
				DroppedPlayerID: state.DroppedPlayerID,
				DroppedAt:       state.DroppedAt,
			}
		}
	}
	for _, a := range w.Actions {
		window.Actions = append(window.Actions, actionJSON{
			ID:       a.ID,
			TeamID:   a.TeamID,
			Type:     string(a.Type),
			PlayerID: a.PlayerID,
			Round:    a.Round,
			At:       a.At.UTC(),
		})
	}
	transferState, err := sonic.Marshal(window)
	if err != nil {
		return leagueDraftTableModel{}, crerr.Wrap(err, "encode transfer state")
	}

	return leagueDraftTableModel{
		LeagueID:      r.LeagueID,
		Version:       r.Version,
		DraftState:    draftState,
		TransferState: transferState,
		UpdatedAt:     r.UpdatedAt.UTC(),
	}, nil
}

func (m leagueDraftTableModel) toDomain() (draft.Record, error) {
	var d draftStateJSON
	if err := sonic.Unmarshal(m.DraftState, &d); err != nil {
		return draft.Record{}, crerr.Wrapf(err, "decode draft state league=%s", m.LeagueID)
	}
	var w transferStateJSON
	if err := sonic.Unmarshal(m.TransferState, &w); err != nil {
		return draft.Record{}, crerr.Wrapf(err, "decode transfer state league=%s", m.LeagueID)
	}

	out := draft.NewRecord(m.LeagueID)
	out.Version = m.Version
	out.UpdatedAt = m.UpdatedAt
	out.Draft = draft.State{
		Status:       draft.Status(d.Status),
		Order:        d.Order,
		TotalRounds:  d.TotalRounds,
		Snake:        d.Snake,
		CurrentRound: d.CurrentRound,
		CurrentTeam:  d.CurrentTeam,
		CurrentPick:  d.CurrentPick,
		PicksMade:    d.PicksMade,
		StartedAt:    d.StartedAt,
		CompletedAt:  d.CompletedAt,
	}
	out.Transfer = transfer.Window{
		Status:      transfer.Status(w.Status),
		Order:       w.Order,
		Round:       w.Round,
		MaxRounds:   w.MaxRounds,
		Snake:       w.Snake,
		CurrentTurn: w.CurrentTurn,
		Finished:    w.Finished,
		StartedAt:   w.StartedAt,
		EndedAt:     w.EndedAt,
		ClosesAt:    w.ClosesAt,
	}
	if len(w.Teams) > 0 {
		out.Transfer.Teams = make(map[string]transfer.TeamState, len(w.Teams))
		for teamID, state := range w.Teams {
			out.Transfer.Teams[teamID] = transfer.TeamState{
				Step:            transfer.Step(state.Step),
				DroppedPlayerID: state.DroppedPlayerID,
				DroppedAt:       state.DroppedAt,
			}
		}
	}
	for _, a := range w.Actions {
		out.Transfer.Actions = append(out.Transfer.Actions, transfer.Action{
			ID:       a.ID,
			TeamID:   a.TeamID,
			Type:     transfer.ActionType(a.Type),
			PlayerID: a.PlayerID,
			Round:    a.Round,
			At:       a.At,
		})
	}
	return out, nil
}

func rosterModelFromDomain(a roster.Assignment) (rosterTableModel, error) {
	history := make([]stintJSON, 0, len(a.History))
	for _, s := range a.History {
		history = append(history, stintJSON(s))
	}
	raw, err := sonic.Marshal(history)
	if err != nil {
		return rosterTableModel{}, crerr.Wrapf(err, "encode roster history player=%s", a.PlayerID)
	}

	return rosterTableModel{
		LeagueID:           a.LeagueID,
		PlayerID:           a.PlayerID,
		TeamDraftedBy:      a.TeamDraftedBy,
		DraftedAt:          a.DraftedAt.UTC(),
		Dropped:            a.Dropped,
		DroppedAt:          a.DroppedAt,
		AvailableForPickup: a.AvailableForPickup,
		PickedUp:           a.PickedUp,
		PickedUpAt:         a.PickedUpAt,
		GoalsAtDrop:        a.GoalsAtDrop,
		GoalsBeforePickup:  a.GoalsBeforePickup,
		History:            raw,
		Revision:           a.Revision,
	}, nil
}

func (m rosterTableModel) toDomain() (roster.Assignment, error) {
	out := roster.Assignment{
		LeagueID:           m.LeagueID,
		PlayerID:           m.PlayerID,
		TeamDraftedBy:      m.TeamDraftedBy,
		DraftedAt:          m.DraftedAt,
		Dropped:            m.Dropped,
		DroppedAt:          m.DroppedAt,
		AvailableForPickup: m.AvailableForPickup,
		PickedUp:           m.PickedUp,
		PickedUpAt:         m.PickedUpAt,
		GoalsAtDrop:        m.GoalsAtDrop,
		GoalsBeforePickup:  m.GoalsBeforePickup,
		Revision:           m.Revision,
	}
	if len(m.History) == 0 {
		return out, nil
	}

	var history []stintJSON
	if err := sonic.Unmarshal(m.History, &history); err != nil {
		return roster.Assignment{}, crerr.Wrapf(err, "decode roster history player=%s", m.PlayerID)
	}
	for _, s := range history {
		out.History = append(out.History, roster.Stint(s))
	}
	return out, nil
}
