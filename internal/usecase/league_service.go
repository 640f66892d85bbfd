package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
)

// PlayerAvailability is a player as the draft board shows it within a league.
type PlayerAvailability struct {
	Player        player.Player
	OwnerTeamID   string
	OwnerTeamName string
	// OnWaivers is true for dropped players waiting for a pickup.
	OnWaivers bool
	Available bool
}

type LeagueService struct {
	directory  *LeagueDirectory
	rosterRepo roster.Repository
}

func NewLeagueService(directory *LeagueDirectory, rosterRepo roster.Repository) *LeagueService {
	return &LeagueService{
		directory:  directory,
		rosterRepo: rosterRepo,
	}
}

func (s *LeagueService) ListTeams(ctx context.Context, leagueID string) ([]fantasyteam.Team, error) {
	teams, err := s.directory.Teams(ctx, strings.TrimSpace(leagueID))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].Name < teams[j].Name
	})
	return teams, nil
}

// ListPlayers returns every player with the league's ownership flags. With
// availableOnly set, owned players are left out.
func (s *LeagueService) ListPlayers(ctx context.Context, leagueID string, availableOnly bool) ([]PlayerAvailability, error) {
	leagueID = strings.TrimSpace(leagueID)
	teams, err := s.directory.Teams(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	players, err := s.directory.Players(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, classify(fmt.Errorf("list roster league=%s: %w", leagueID, err))
	}

	rowByPlayer := make(map[string]roster.Assignment, len(rows))
	for _, row := range rows {
		rowByPlayer[row.PlayerID] = row
	}
	teamByID := fantasyteam.IndexByID(teams)

	out := make([]PlayerAvailability, 0, len(players))
	for _, p := range players {
		item := PlayerAvailability{Player: p, Available: true}
		if row, ok := rowByPlayer[p.ID]; ok {
			if row.Owned() {
				item.OwnerTeamID = row.TeamDraftedBy
				item.OwnerTeamName = teamByID[row.TeamDraftedBy].Name
				item.Available = false
			}
			item.OnWaivers = row.AvailableForPickup
		}
		if availableOnly && !item.Available {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Player.Goals != out[j].Player.Goals {
			return out[i].Player.Goals > out[j].Player.Goals
		}
		return out[i].Player.Name < out[j].Player.Name
	})

	return out, nil
}
