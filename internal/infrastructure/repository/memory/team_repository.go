package memory

import (
	"context"
	"sync"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
)

type FantasyTeamRepository struct {
	mu       sync.RWMutex
	byLeague map[string][]fantasyteam.Team
}

func NewFantasyTeamRepository(teams []fantasyteam.Team) *FantasyTeamRepository {
	byLeague := make(map[string][]fantasyteam.Team)
	for _, t := range teams {
		byLeague[t.LeagueID] = append(byLeague[t.LeagueID], t)
	}

	return &FantasyTeamRepository{byLeague: byLeague}
}

func (r *FantasyTeamRepository) ListByLeague(_ context.Context, leagueID string) ([]fantasyteam.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := r.byLeague[leagueID]
	out := make([]fantasyteam.Team, 0, len(teams))
	out = append(out, teams...)

	return out, nil
}
