package memory

import (
	"fmt"
	"os"

	sonic "github.com/bytedance/sonic"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
)

const LeagueIDDemo = "mls-friends-2025"

// Seed is reference data loaded into the memory backend.
type Seed struct {
	Players []player.Player
	Teams   []fantasyteam.Team
}

type seedFile struct {
	Players []seedPlayer      `json:"players"`
	Teams   []seedFantasyTeam `json:"fantasy_teams"`
}

type seedPlayer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Club     string `json:"club"`
	Position string `json:"position"`
	Goals    int    `json:"goals"`
}

type seedFantasyTeam struct {
	ID        string `json:"id"`
	LeagueID  string `json:"league_id"`
	Name      string `json:"name"`
	OwnerName string `json:"owner_name"`
}

func DemoSeed() Seed {
	return Seed{Players: SeedPlayers(), Teams: SeedFantasyTeams()}
}

func SeedFantasyTeams() []fantasyteam.Team {
	return []fantasyteam.Team{
		{ID: "team-golazo", LeagueID: LeagueIDDemo, Name: "Golazo FC", OwnerName: "Derek"},
		{ID: "team-offside", LeagueID: LeagueIDDemo, Name: "Offside Trap", OwnerName: "Maya"},
		{ID: "team-nutmeg", LeagueID: LeagueIDDemo, Name: "Nutmeg United", OwnerName: "Sam"},
		{ID: "team-bicycle", LeagueID: LeagueIDDemo, Name: "Bicycle Kicks", OwnerName: "Jordan"},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "mls-fwd-01", Name: "Denis Bouanga", Club: "LAFC", Position: player.PositionForward, Goals: 20},
		{ID: "mls-fwd-02", Name: "Christian Benteke", Club: "D.C. United", Position: player.PositionForward, Goals: 23},
		{ID: "mls-fwd-03", Name: "Cucho Hernandez", Club: "Columbus Crew", Position: player.PositionForward, Goals: 19},
		{ID: "mls-fwd-04", Name: "Luis Suarez", Club: "Inter Miami", Position: player.PositionForward, Goals: 20},
		{ID: "mls-fwd-05", Name: "Sam Surridge", Club: "Nashville SC", Position: player.PositionForward, Goals: 18},
		{ID: "mls-fwd-06", Name: "Petar Musa", Club: "FC Dallas", Position: player.PositionForward, Goals: 17},
		{ID: "mls-fwd-07", Name: "Brian White", Club: "Vancouver Whitecaps", Position: player.PositionForward, Goals: 15},
		{ID: "mls-fwd-08", Name: "Hany Mukhtar", Club: "Nashville SC", Position: player.PositionForward, Goals: 11},
		{ID: "mls-mid-01", Name: "Lionel Messi", Club: "Inter Miami", Position: player.PositionMidfielder, Goals: 20},
		{ID: "mls-mid-02", Name: "Evander", Club: "Portland Timbers", Position: player.PositionMidfielder, Goals: 15},
		{ID: "mls-mid-03", Name: "Diego Rossi", Club: "Columbus Crew", Position: player.PositionMidfielder, Goals: 12},
		{ID: "mls-mid-04", Name: "Emmanuel Latte Lath", Club: "Atlanta United", Position: player.PositionMidfielder, Goals: 8},
		{ID: "mls-mid-05", Name: "Riqui Puig", Club: "LA Galaxy", Position: player.PositionMidfielder, Goals: 6},
		{ID: "mls-mid-06", Name: "Carles Gil", Club: "New England Revolution", Position: player.PositionMidfielder, Goals: 7},
		{ID: "mls-mid-07", Name: "Sebastian Driussi", Club: "Austin FC", Position: player.PositionMidfielder, Goals: 9},
		{ID: "mls-mid-08", Name: "Thiago Almada", Club: "Atlanta United", Position: player.PositionMidfielder, Goals: 5},
		{ID: "mls-def-01", Name: "Kai Wagner", Club: "Philadelphia Union", Position: player.PositionDefender, Goals: 2},
		{ID: "mls-def-02", Name: "Walker Zimmerman", Club: "Nashville SC", Position: player.PositionDefender, Goals: 3},
		{ID: "mls-gk-01", Name: "Brad Stuver", Club: "Austin FC", Position: player.PositionGoalkeeper, Goals: 0},
		{ID: "mls-gk-02", Name: "Roman Celentano", Club: "FC Cincinnati", Position: player.PositionGoalkeeper, Goals: 0},
	}
}

// LoadSeedFile reads players and fantasy teams from a JSON file.
func LoadSeedFile(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file %s: %w", path, err)
	}

	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (Seed, error) {
	var file seedFile
	if err := sonic.Unmarshal(raw, &file); err != nil {
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}

	out := Seed{
		Players: make([]player.Player, 0, len(file.Players)),
		Teams:   make([]fantasyteam.Team, 0, len(file.Teams)),
	}
	for _, item := range file.Players {
		p := player.Player{
			ID:       item.ID,
			Name:     item.Name,
			Club:     item.Club,
			Position: player.Position(item.Position),
			Goals:    item.Goals,
		}
		if err := p.Validate(); err != nil {
			return Seed{}, fmt.Errorf("seed player %q: %w", item.ID, err)
		}
		out.Players = append(out.Players, p)
	}
	for _, item := range file.Teams {
		t := fantasyteam.Team{
			ID:        item.ID,
			LeagueID:  item.LeagueID,
			Name:      item.Name,
			OwnerName: item.OwnerName,
		}
		if err := t.Validate(); err != nil {
			return Seed{}, fmt.Errorf("seed fantasy team %q: %w", item.ID, err)
		}
		out.Teams = append(out.Teams, t)
	}

	return out, nil
}
