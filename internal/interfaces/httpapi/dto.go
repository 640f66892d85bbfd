package httpapi

import (
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/standings"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/transfer"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
	"github.com/derekensign/mls-fantasy-sub000/internal/usecase"
)

type updateDraftSettingsRequest struct {
	DraftOrder  []string `json:"draft_order" validate:"required,min=1,dive,required"`
	TotalRounds int      `json:"total_rounds" validate:"required,min=1,max=50"`
	SnakeOrder  bool     `json:"snake_order"`
	Start       bool     `json:"start"`
}

type playerMoveRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	TeamID   string `json:"team_id" validate:"required"`
}

type markDoneRequest struct {
	TeamID string `json:"team_id" validate:"required"`
}

type startTransferRequest struct {
	MaxRounds  int        `json:"max_rounds" validate:"required,min=1,max=50"`
	SnakeOrder bool       `json:"snake_order"`
	ClosesAt   *time.Time `json:"closes_at,omitempty"`
	DraftOrder []string   `json:"draft_order,omitempty" validate:"omitempty,dive,required"`
}

type slotDTO struct {
	Team        string `json:"team"`
	Round       int    `json:"round"`
	Position    int    `json:"position"`
	OverallPick int    `json:"overall_pick"`
}

type draftStateDTO struct {
	LeagueID     string     `json:"league_id"`
	Status       string     `json:"status"`
	DraftOrder   []string   `json:"draft_order"`
	TotalRounds  int        `json:"total_rounds"`
	SnakeOrder   bool       `json:"snake_order"`
	CurrentRound int        `json:"current_round"`
	CurrentTurn  string     `json:"current_turn,omitempty"`
	CurrentPick  int        `json:"current_pick"`
	PicksMade    int        `json:"picks_made"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	Upcoming     []slotDTO  `json:"upcoming,omitempty"`
	Version      int64      `json:"version,omitempty"`
}

type draftPickDTO struct {
	LeagueID    string    `json:"league_id"`
	TeamID      string    `json:"team_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	Round       int       `json:"round"`
	OverallPick int       `json:"overall_pick"`
	DraftedAt   time.Time `json:"drafted_at"`
	NextTurn    string    `json:"next_turn,omitempty"`
	NextRound   int       `json:"next_round,omitempty"`
	Completed   bool      `json:"completed"`
}

type draftResetDTO struct {
	Draft          draftStateDTO `json:"draft"`
	RosterRowsGone int           `json:"roster_rows_removed"`
}

type teamStepDTO struct {
	Step            string     `json:"step"`
	DroppedPlayerID string     `json:"dropped_player_id,omitempty"`
	DroppedAt       *time.Time `json:"dropped_at,omitempty"`
}

type transferActionDTO struct {
	ID       string    `json:"id"`
	TeamID   string    `json:"team_id,omitempty"`
	Type     string    `json:"type"`
	PlayerID string    `json:"player_id,omitempty"`
	Round    int       `json:"round"`
	At       time.Time `json:"at"`
}

type transferStatusDTO struct {
	LeagueID      string                 `json:"league_id"`
	Status        string                 `json:"status"`
	CurrentTurn   string                 `json:"current_turn,omitempty"`
	CurrentTeam   string                 `json:"current_team_name,omitempty"`
	Round         int                    `json:"round"`
	MaxRounds     int                    `json:"max_rounds"`
	SnakeOrder    bool                   `json:"snake_order"`
	DraftOrder    []string               `json:"draft_order"`
	Steps         map[string]teamStepDTO `json:"steps"`
	FinishedTeams []string               `json:"finished_teams"`
	Actions       []transferActionDTO    `json:"actions"`
	Upcoming      []slotDTO              `json:"upcoming,omitempty"`
	StartedAt     *time.Time             `json:"started_at,omitempty"`
	EndedAt       *time.Time             `json:"ended_at,omitempty"`
	ClosesAt      *time.Time             `json:"closes_at,omitempty"`
	Version       int64                  `json:"version"`
}

type turnAdvanceDTO struct {
	PreviousTurn string   `json:"previousTurn,omitempty"`
	CurrentTurn  string   `json:"currentTurn,omitempty"`
	Round        int      `json:"round,omitempty"`
	Completed    bool     `json:"completed"`
	Skipped      []string `json:"skipped,omitempty"`
}

type dropDTO struct {
	LeagueID    string    `json:"league_id"`
	TeamID      string    `json:"team_id"`
	PlayerID    string    `json:"player_id"`
	PlayerName  string    `json:"player_name"`
	GoalsAtDrop int       `json:"goals_at_drop"`
	DroppedAt   time.Time `json:"dropped_at"`
	NextStep    string    `json:"next_step"`
}

type pickupDTO struct {
	LeagueID          string         `json:"league_id"`
	TeamID            string         `json:"team_id"`
	PlayerID          string         `json:"player_id"`
	PlayerName        string         `json:"player_name"`
	GoalsBeforePickup int            `json:"goals_before_pickup"`
	PickedUpAt        time.Time      `json:"picked_up_at"`
	Turn              turnAdvanceDTO `json:"turn"`
}

type markDoneDTO struct {
	LeagueID      string          `json:"league_id"`
	TeamID        string          `json:"team_id"`
	FinishedTeams []string        `json:"finished_teams"`
	Status        string          `json:"status"`
	Turn          *turnAdvanceDTO `json:"turn,omitempty"`
}

type standingLineDTO struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Club       string `json:"club,omitempty"`
	Status     string `json:"status"`
	PickedUp   bool   `json:"picked_up"`
	Goals      int    `json:"goals"`
}

type teamStandingDTO struct {
	Rank      int               `json:"rank"`
	TeamID    string            `json:"team_id"`
	TeamName  string            `json:"team_name"`
	OwnerName string            `json:"owner_name,omitempty"`
	Goals     int               `json:"goals"`
	Players   []standingLineDTO `json:"players"`
}

type goldenBootDTO struct {
	Rank          int    `json:"rank"`
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	Club          string `json:"club,omitempty"`
	Goals         int    `json:"goals"`
	OwnerTeamID   string `json:"owner_team_id,omitempty"`
	OwnerTeamName string `json:"owner_team_name,omitempty"`
}

type playerDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Club          string `json:"club"`
	Position      string `json:"position"`
	Goals         int    `json:"goals"`
	OwnerTeamID   string `json:"owner_team_id,omitempty"`
	OwnerTeamName string `json:"owner_team_name,omitempty"`
	OnWaivers     bool   `json:"on_waivers"`
	Available     bool   `json:"available"`
}

type fantasyTeamDTO struct {
	ID        string `json:"id"`
	LeagueID  string `json:"league_id"`
	Name      string `json:"name"`
	OwnerName string `json:"owner_name,omitempty"`
}

func slotsToDTO(slots []turn.Slot) []slotDTO {
	if len(slots) == 0 {
		return nil
	}

	out := make([]slotDTO, 0, len(slots))
	for _, s := range slots {
		out = append(out, slotDTO{
			Team:        s.Team,
			Round:       s.Round,
			Position:    s.Position,
			OverallPick: s.OverallPick,
		})
	}
	return out
}

func draftViewToDTO(leagueID string, state draft.State, upcoming []turn.Slot, version int64) draftStateDTO {
	order := state.Order
	if order == nil {
		order = []string{}
	}

	return draftStateDTO{
		LeagueID:     leagueID,
		Status:       string(state.Status),
		DraftOrder:   order,
		TotalRounds:  state.TotalRounds,
		SnakeOrder:   state.Snake,
		CurrentRound: state.CurrentRound,
		CurrentTurn:  state.CurrentTeam,
		CurrentPick:  state.CurrentPick,
		PicksMade:    state.PicksMade,
		StartedAt:    state.StartedAt,
		CompletedAt:  state.CompletedAt,
		Upcoming:     slotsToDTO(upcoming),
		Version:      version,
	}
}

func draftPickToDTO(result usecase.DraftPickResult) draftPickDTO {
	return draftPickDTO{
		LeagueID:    result.LeagueID,
		TeamID:      result.TeamID,
		PlayerID:    result.PlayerID,
		PlayerName:  result.PlayerName,
		Round:       result.Round,
		OverallPick: result.OverallPick,
		DraftedAt:   result.DraftedAt,
		NextTurn:    result.NextTeam,
		NextRound:   result.NextRound,
		Completed:   result.Completed,
	}
}

func transferStatusToDTO(status usecase.TransferStatus) transferStatusDTO {
	w := status.Window

	steps := make(map[string]teamStepDTO, len(w.Teams))
	for teamID, state := range w.Teams {
		steps[teamID] = teamStepDTO{
			Step:            string(state.Step),
			DroppedPlayerID: state.DroppedPlayerID,
			DroppedAt:       state.DroppedAt,
		}
	}

	actions := make([]transferActionDTO, 0, len(w.Actions))
	for _, a := range w.Actions {
		actions = append(actions, transferActionToDTO(a))
	}

	return transferStatusDTO{
		LeagueID:      status.LeagueID,
		Status:        string(w.Status),
		CurrentTurn:   w.CurrentTurn,
		CurrentTeam:   status.TeamNames[w.CurrentTurn],
		Round:         w.Round,
		MaxRounds:     w.MaxRounds,
		SnakeOrder:    w.Snake,
		DraftOrder:    nonNilStrings(w.Order),
		Steps:         steps,
		FinishedTeams: nonNilStrings(w.Finished),
		Actions:       actions,
		Upcoming:      slotsToDTO(status.Upcoming),
		StartedAt:     w.StartedAt,
		EndedAt:       w.EndedAt,
		ClosesAt:      w.ClosesAt,
		Version:       status.Version,
	}
}

func transferActionToDTO(a transfer.Action) transferActionDTO {
	return transferActionDTO{
		ID:       a.ID,
		TeamID:   a.TeamID,
		Type:     string(a.Type),
		PlayerID: a.PlayerID,
		Round:    a.Round,
		At:       a.At,
	}
}

func turnAdvanceToDTO(t usecase.TurnAdvance) turnAdvanceDTO {
	if t.Completed {
		return turnAdvanceDTO{PreviousTurn: t.PreviousTurn, Completed: true, Skipped: t.Skipped}
	}
	return turnAdvanceDTO{
		PreviousTurn: t.PreviousTurn,
		CurrentTurn:  t.CurrentTurn,
		Round:        t.Round,
		Skipped:      t.Skipped,
	}
}

func standingsToDTO(items []standings.TeamStanding) []teamStandingDTO {
	out := make([]teamStandingDTO, 0, len(items))
	for _, item := range items {
		lines := make([]standingLineDTO, 0, len(item.Lines))
		for _, line := range item.Lines {
			lines = append(lines, standingLineDTO{
				PlayerID:   line.PlayerID,
				PlayerName: line.PlayerName,
				Club:       line.Club,
				Status:     string(line.Status),
				PickedUp:   line.PickedUp,
				Goals:      line.Goals,
			})
		}
		out = append(out, teamStandingDTO{
			Rank:      item.Rank,
			TeamID:    item.TeamID,
			TeamName:  item.TeamName,
			OwnerName: item.OwnerName,
			Goals:     item.Goals,
			Players:   lines,
		})
	}
	return out
}

func goldenBootToDTO(items []standings.GoldenBootEntry) []goldenBootDTO {
	out := make([]goldenBootDTO, 0, len(items))
	for _, item := range items {
		out = append(out, goldenBootDTO{
			Rank:          item.Rank,
			PlayerID:      item.PlayerID,
			PlayerName:    item.PlayerName,
			Club:          item.Club,
			Goals:         item.Goals,
			OwnerTeamID:   item.OwnerTeamID,
			OwnerTeamName: item.OwnerTeamName,
		})
	}
	return out
}

func playersToDTO(items []usecase.PlayerAvailability) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, item := range items {
		out = append(out, playerDTO{
			ID:            item.Player.ID,
			Name:          item.Player.Name,
			Club:          item.Player.Club,
			Position:      string(item.Player.Position),
			Goals:         item.Player.Goals,
			OwnerTeamID:   item.OwnerTeamID,
			OwnerTeamName: item.OwnerTeamName,
			OnWaivers:     item.OnWaivers,
			Available:     item.Available,
		})
	}
	return out
}

func teamsToDTO(items []fantasyteam.Team) []fantasyTeamDTO {
	out := make([]fantasyTeamDTO, 0, len(items))
	for _, item := range items {
		out = append(out, fantasyTeamDTO{
			ID:        item.ID,
			LeagueID:  item.LeagueID,
			Name:      item.Name,
			OwnerName: item.OwnerName,
		})
	}
	return out
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
