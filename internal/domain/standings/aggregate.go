package standings

import (
	"sort"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
)

type LineStatus string

const (
	LineActive  LineStatus = "active"
	LineDropped LineStatus = "dropped"
	LineFormer  LineStatus = "former"
)

// Line is one player's contribution to one fantasy team.
type Line struct {
	PlayerID   string
	PlayerName string
	Club       string
	Status     LineStatus
	PickedUp   bool
	Goals      int
}

type TeamStanding struct {
	Rank      int
	TeamID    string
	TeamName  string
	OwnerName string
	Goals     int
	Lines     []Line
}

type GoldenBootEntry struct {
	Rank          int
	PlayerID      string
	PlayerName    string
	Club          string
	Goals         int
	OwnerTeamID   string
	OwnerTeamName string
}

type contribution struct {
	teamID string
	line   Line
}

// contributions splits a roster row into per-team goal credits. The current
// owner counts from its baseline, dropped rows freeze at goals_at_drop, and
// closed stints count their own window.
func contributions(row roster.Assignment, p player.Player) []contribution {
	out := make([]contribution, 0, len(row.History)+1)
	for _, stint := range row.History {
		out = append(out, contribution{
			teamID: stint.TeamID,
			line: Line{
				PlayerID: row.PlayerID,
				Status:   LineFormer,
				Goals:    nonNegative(stint.GoalsTo - stint.GoalsFrom),
			},
		})
	}

	if row.TeamDraftedBy == "" {
		return out
	}

	line := Line{
		PlayerID: row.PlayerID,
		Status:   LineActive,
		PickedUp: row.PickedUp,
	}
	if row.Dropped {
		line.Status = LineDropped
		line.Goals = nonNegative(row.GoalsAtDrop - row.Baseline())
	} else {
		line.Goals = nonNegative(p.Goals - row.Baseline())
	}

	return append(out, contribution{teamID: row.TeamDraftedBy, line: line})
}

// Aggregate computes goal standings for every team of the league. Rows owned
// by teams outside the list are ignored.
func Aggregate(teams []fantasyteam.Team, rows []roster.Assignment, players map[string]player.Player) []TeamStanding {
	byTeam := make(map[string]*TeamStanding, len(teams))
	out := make([]TeamStanding, len(teams))
	for i, t := range teams {
		out[i] = TeamStanding{
			TeamID:    t.ID,
			TeamName:  t.Name,
			OwnerName: t.OwnerName,
		}
		byTeam[t.ID] = &out[i]
	}

	for _, row := range rows {
		p := players[row.PlayerID]
		for _, c := range contributions(row, p) {
			standing, ok := byTeam[c.teamID]
			if !ok {
				continue
			}
			c.line.PlayerName = p.Name
			c.line.Club = p.Club
			standing.Goals += c.line.Goals
			standing.Lines = append(standing.Lines, c.line)
		}
	}

	for i := range out {
		lines := out[i].Lines
		sort.SliceStable(lines, func(a, b int) bool {
			if lines[a].Goals != lines[b].Goals {
				return lines[a].Goals > lines[b].Goals
			}
			return lines[a].PlayerName < lines[b].PlayerName
		})
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Goals != out[b].Goals {
			return out[a].Goals > out[b].Goals
		}
		return out[a].TeamName < out[b].TeamName
	})
	rankStandings(out)

	return out
}

// rankStandings assigns competition ranks (1, 2, 2, 4).
func rankStandings(items []TeamStanding) {
	for i := range items {
		if i > 0 && items[i].Goals == items[i-1].Goals {
			items[i].Rank = items[i-1].Rank
			continue
		}
		items[i].Rank = i + 1
	}
}

// GoldenBoot ranks players by season goals and attaches their current owner.
// limit <= 0 returns every player with at least one goal.
func GoldenBoot(players []player.Player, rows []roster.Assignment, teams []fantasyteam.Team, limit int) []GoldenBootEntry {
	owners := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Owned() {
			owners[row.PlayerID] = row.TeamDraftedBy
		}
	}
	teamByID := fantasyteam.IndexByID(teams)

	out := make([]GoldenBootEntry, 0, len(players))
	for _, p := range players {
		if p.Goals <= 0 {
			continue
		}
		entry := GoldenBootEntry{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			Club:        p.Club,
			Goals:       p.Goals,
			OwnerTeamID: owners[p.ID],
		}
		if owner, ok := teamByID[entry.OwnerTeamID]; ok {
			entry.OwnerTeamName = owner.Name
		}
		out = append(out, entry)
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Goals != out[b].Goals {
			return out[a].Goals > out[b].Goals
		}
		return out[a].PlayerName < out[b].PlayerName
	})
	for i := range out {
		if i > 0 && out[i].Goals == out[i-1].Goals {
			out[i].Rank = out[i-1].Rank
			continue
		}
		out[i].Rank = i + 1
	}

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
