package dynamo

import (
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/transfer"
)

const (
	attrLeagueID = "league_id"
	attrPlayerID = "player_id"
	attrVersion  = "version"
	attrRevision = "revision"
)

type recordItem struct {
	LeagueID  string     `dynamodbav:"league_id"`
	Version   int64      `dynamodbav:"version"`
	UpdatedAt time.Time  `dynamodbav:"updated_at"`
	Draft     draftItem  `dynamodbav:"draft"`
	Transfer  windowItem `dynamodbav:"transfer"`
}

type draftItem struct {
	Status       string     `dynamodbav:"status"`
	Order        []string   `dynamodbav:"draft_order,omitempty"`
	TotalRounds  int        `dynamodbav:"total_rounds"`
	Snake        bool       `dynamodbav:"snake_order"`
	CurrentRound int        `dynamodbav:"current_round"`
	CurrentTeam  string     `dynamodbav:"current_team,omitempty"`
	CurrentPick  int        `dynamodbav:"current_pick"`
	PicksMade    int        `dynamodbav:"picks_made"`
	StartedAt    *time.Time `dynamodbav:"started_at,omitempty"`
	CompletedAt  *time.Time `dynamodbav:"completed_at,omitempty"`
}

type windowItem struct {
	Status      string                   `dynamodbav:"status"`
	Order       []string                 `dynamodbav:"draft_order,omitempty"`
	Round       int                      `dynamodbav:"round"`
	MaxRounds   int                      `dynamodbav:"max_rounds"`
	Snake       bool                     `dynamodbav:"snake_order"`
	CurrentTurn string                   `dynamodbav:"current_turn,omitempty"`
	Teams       map[string]teamStateItem `dynamodbav:"teams,omitempty"`
	Finished    []string                 `dynamodbav:"finished,omitempty"`
	Actions     []actionItem             `dynamodbav:"actions,omitempty"`
	StartedAt   *time.Time               `dynamodbav:"started_at,omitempty"`
	EndedAt     *time.Time               `dynamodbav:"ended_at,omitempty"`
	ClosesAt    *time.Time               `dynamodbav:"closes_at,omitempty"`
}

type teamStateItem struct {
	Step            string     `dynamodbav:"step"`
	DroppedPlayerID string     `dynamodbav:"dropped_player_id,omitempty"`
	DroppedAt       *time.Time `dynamodbav:"dropped_at,omitempty"`
}

type actionItem struct {
	ID       string    `dynamodbav:"id"`
	TeamID   string    `dynamodbav:"team_id,omitempty"`
	Type     string    `dynamodbav:"type"`
	PlayerID string    `dynamodbav:"player_id,omitempty"`
	Round    int       `dynamodbav:"round"`
	At       time.Time `dynamodbav:"at"`
}

type rosterItem struct {
	LeagueID           string      `dynamodbav:"league_id"`
	PlayerID           string      `dynamodbav:"player_id"`
	TeamDraftedBy      string      `dynamodbav:"team_drafted_by,omitempty"`
	DraftedAt          time.Time   `dynamodbav:"drafted_at"`
	Dropped            bool        `dynamodbav:"dropped"`
	DroppedAt          *time.Time  `dynamodbav:"dropped_at,omitempty"`
	AvailableForPickup bool        `dynamodbav:"available_for_pickup"`
	PickedUp           bool        `dynamodbav:"picked_up"`
	PickedUpAt         *time.Time  `dynamodbav:"picked_up_at,omitempty"`
	GoalsAtDrop        int         `dynamodbav:"goals_at_drop"`
	GoalsBeforePickup  int         `dynamodbav:"goals_before_pickup"`
	History            []stintItem `dynamodbav:"history,omitempty"`
	Revision           int64       `dynamodbav:"revision"`
}

type stintItem struct {
	TeamID    string    `dynamodbav:"team_id"`
	GoalsFrom int       `dynamodbav:"goals_from"`
	GoalsTo   int       `dynamodbav:"goals_to"`
	From      time.Time `dynamodbav:"from"`
	To        time.Time `dynamodbav:"to"`
}

type playerItem struct {
	PlayerID string `dynamodbav:"player_id"`
	Name     string `dynamodbav:"name"`
	Club     string `dynamodbav:"club"`
	Position string `dynamodbav:"position"`
	Goals    int    `dynamodbav:"goals"`
}

type teamItem struct {
	LeagueID  string `dynamodbav:"league_id"`
	TeamID    string `dynamodbav:"team_id"`
	Name      string `dynamodbav:"name"`
	OwnerName string `dynamodbav:"owner_name"`
}

func recordToItem(r draft.Record) recordItem {
	w := r.Transfer
	item := recordItem{
		LeagueID:  r.LeagueID,
		Version:   r.Version,
		UpdatedAt: r.UpdatedAt.UTC(),
		Draft: draftItem{
			Status:       string(r.Draft.Status),
			Order:        r.Draft.Order,
			TotalRounds:  r.Draft.TotalRounds,
			Snake:        r.Draft.Snake,
			CurrentRound: r.Draft.CurrentRound,
			CurrentTeam:  r.Draft.CurrentTeam,
			CurrentPick:  r.Draft.CurrentPick,
			PicksMade:    r.Draft.PicksMade,
			StartedAt:    r.Draft.StartedAt,
			CompletedAt:  r.Draft.CompletedAt,
		},
		Transfer: windowItem{
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
		},
	}

	if len(w.Teams) > 0 {
		item.Transfer.Teams = make(map[string]teamStateItem, len(w.Teams))
		for teamID, state := range w.Teams {
			item.Transfer.Teams[teamID] = teamStateItem{
				Step:            string(state.Step),
				DroppedPlayerID: state.DroppedPlayerID,
				DroppedAt:       state.DroppedAt,
			}
		}
	}
	for _, a := range w.Actions {
		item.Transfer.Actions = append(item.Transfer.Actions, actionItem{
			ID:       a.ID,
			TeamID:   a.TeamID,
			Type:     string(a.Type),
			PlayerID: a.PlayerID,
			Round:    a.Round,
			At:       a.At.UTC(),
		})
	}

	return item
}

func recordFromItem(item recordItem) draft.Record {
	out := draft.Record{
		LeagueID:  item.LeagueID,
		Version:   item.Version,
		UpdatedAt: item.UpdatedAt,
		Draft: draft.State{
			Status:       draft.Status(item.Draft.Status),
			Order:        item.Draft.Order,
			TotalRounds:  item.Draft.TotalRounds,
			Snake:        item.Draft.Snake,
			CurrentRound: item.Draft.CurrentRound,
			CurrentTeam:  item.Draft.CurrentTeam,
			CurrentPick:  item.Draft.CurrentPick,
			PicksMade:    item.Draft.PicksMade,
			StartedAt:    item.Draft.StartedAt,
			CompletedAt:  item.Draft.CompletedAt,
		},
		Transfer: transfer.Window{
			Status:      transfer.Status(item.Transfer.Status),
			Order:       item.Transfer.Order,
			Round:       item.Transfer.Round,
			MaxRounds:   item.Transfer.MaxRounds,
			Snake:       item.Transfer.Snake,
			CurrentTurn: item.Transfer.CurrentTurn,
			Finished:    item.Transfer.Finished,
			StartedAt:   item.Transfer.StartedAt,
			EndedAt:     item.Transfer.EndedAt,
			ClosesAt:    item.Transfer.ClosesAt,
		},
	}
	if out.Draft.Status == "" {
		out.Draft.Status = draft.StatusNotStarted
	}
	if out.Transfer.Status == "" {
		out.Transfer.Status = transfer.StatusNotStarted
	}

	if len(item.Transfer.Teams) > 0 {
		out.Transfer.Teams = make(map[string]transfer.TeamState, len(item.Transfer.Teams))
		for teamID, state := range item.Transfer.Teams {
			out.Transfer.Teams[teamID] = transfer.TeamState{
				Step:            transfer.Step(state.Step),
				DroppedPlayerID: state.DroppedPlayerID,
				DroppedAt:       state.DroppedAt,
			}
		}
	}
	for _, a := range item.Transfer.Actions {
		out.Transfer.Actions = append(out.Transfer.Actions, transfer.Action{
			ID:       a.ID,
			TeamID:   a.TeamID,
			Type:     transfer.ActionType(a.Type),
			PlayerID: a.PlayerID,
			Round:    a.Round,
			At:       a.At,
		})
	}

	return out
}

func rosterToItem(a roster.Assignment) rosterItem {
	item := rosterItem{
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
		Revision:           a.Revision,
	}
	for _, s := range a.History {
		item.History = append(item.History, stintItem(s))
	}
	return item
}

func rosterFromItem(item rosterItem) roster.Assignment {
	out := roster.Assignment{
		LeagueID:           item.LeagueID,
		PlayerID:           item.PlayerID,
		TeamDraftedBy:      item.TeamDraftedBy,
		DraftedAt:          item.DraftedAt,
		Dropped:            item.Dropped,
		DroppedAt:          item.DroppedAt,
		AvailableForPickup: item.AvailableForPickup,
		PickedUp:           item.PickedUp,
		PickedUpAt:         item.PickedUpAt,
		GoalsAtDrop:        item.GoalsAtDrop,
		GoalsBeforePickup:  item.GoalsBeforePickup,
		Revision:           item.Revision,
	}
	for _, s := range item.History {
		out.History = append(out.History, roster.Stint(s))
	}
	return out
}

func playerFromItem(item playerItem) player.Player {
	return player.Player{
		ID:       item.PlayerID,
		Name:     item.Name,
		Club:     item.Club,
		Position: player.Position(item.Position),
		Goals:    item.Goals,
	}
}

func teamFromItem(item teamItem) fantasyteam.Team {
	return fantasyteam.Team{
		ID:        item.TeamID,
		LeagueID:  item.LeagueID,
		Name:      item.Name,
		OwnerName: item.OwnerName,
	}
}
