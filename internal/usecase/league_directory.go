package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/cache"
)

const (
	cacheKeyPlayers     = "players:all"
	cacheKeyTeamsPrefix = "teams:"
)

// LeagueDirectory reads fantasy teams and players, the reference data every
// league operation resolves ids against.
type LeagueDirectory struct {
	teamRepo   fantasyteam.Repository
	playerRepo player.Repository
	cache      *cache.Store
}

// NewLeagueDirectory builds a directory. A nil cache disables caching.
func NewLeagueDirectory(teamRepo fantasyteam.Repository, playerRepo player.Repository, store *cache.Store) *LeagueDirectory {
	return &LeagueDirectory{
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		cache:      store,
	}
}

// Teams lists a league's fantasy teams. A league without teams does not exist.
func (d *LeagueDirectory) Teams(ctx context.Context, leagueID string) ([]fantasyteam.Team, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	teams, err := cache.Load(ctx, d.cache, cacheKeyTeamsPrefix+leagueID, func(ctx context.Context) ([]fantasyteam.Team, error) {
		return d.teamRepo.ListByLeague(ctx, leagueID)
	})
	if err != nil {
		return nil, classify(fmt.Errorf("list fantasy teams league=%s: %w", leagueID, err))
	}
	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	out := make([]fantasyteam.Team, len(teams))
	copy(out, teams)
	return out, nil
}

// RequireTeams checks that every id belongs to the league.
func (d *LeagueDirectory) RequireTeams(ctx context.Context, leagueID string, teamIDs ...string) (map[string]fantasyteam.Team, error) {
	teams, err := d.Teams(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	byID := fantasyteam.IndexByID(teams)
	for _, teamID := range teamIDs {
		if _, ok := byID[teamID]; !ok {
			return nil, fmt.Errorf("%w: team %s is not in league=%s", ErrInvalidInput, teamID, leagueID)
		}
	}
	return byID, nil
}

// Players lists every player. The list may lag the stats feed by the cache TTL.
func (d *LeagueDirectory) Players(ctx context.Context) ([]player.Player, error) {
	players, err := cache.Load(ctx, d.cache, cacheKeyPlayers, d.playerRepo.List)
	if err != nil {
		return nil, classify(fmt.Errorf("list players: %w", err))
	}

	out := make([]player.Player, len(players))
	copy(out, players)
	return out, nil
}

// Player reads one player straight from the repository so goal snapshots
// taken at drop and pickup time are current.
func (d *LeagueDirectory) Player(ctx context.Context, playerID string) (player.Player, error) {
	p, ok, err := d.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, classify(fmt.Errorf("get player id=%s: %w", playerID, err))
	}
	if !ok {
		return player.Player{}, fmt.Errorf("%w: player id=%s", ErrNotFound, playerID)
	}
	return p, nil
}
