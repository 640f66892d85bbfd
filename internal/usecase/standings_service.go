package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/standings"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
)

const defaultGoldenBootLimit = 25

type leagueSnapshot struct {
	teams   []fantasyteam.Team
	rows    []roster.Assignment
	players []player.Player
}

// StandingsService recomputes goal standings from roster rows on every call.
type StandingsService struct {
	directory  *LeagueDirectory
	rosterRepo roster.Repository
	logger     *logging.Logger
}

func NewStandingsService(directory *LeagueDirectory, rosterRepo roster.Repository, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		directory:  directory,
		rosterRepo: rosterRepo,
		logger:     logger,
	}
}

func (s *StandingsService) Standings(ctx context.Context, leagueID string) (items []standings.TeamStanding, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Standings", leagueID)
	defer func() { endUsecaseSpan(span, err) }()

	snap, err := s.load(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	return standings.Aggregate(snap.teams, snap.rows, player.IndexByID(snap.players)), nil
}

// GoldenBoot lists top scorers with their current fantasy owner. limit <= 0
// uses the default size.
func (s *StandingsService) GoldenBoot(ctx context.Context, leagueID string, limit int) (items []standings.GoldenBootEntry, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GoldenBoot", leagueID)
	defer func() { endUsecaseSpan(span, err) }()

	if limit <= 0 {
		limit = defaultGoldenBootLimit
	}

	snap, err := s.load(ctx, leagueID)
	if err != nil {
		return nil, err
	}

	return standings.GoldenBoot(snap.players, snap.rows, snap.teams, limit), nil
}

func (s *StandingsService) load(ctx context.Context, leagueID string) (leagueSnapshot, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return leagueSnapshot{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	var snap leagueSnapshot
	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		teams, err := s.directory.Teams(ctx, leagueID)
		snap.teams = teams
		return err
	})
	p.Go(func(ctx context.Context) error {
		rows, err := s.rosterRepo.ListByLeague(ctx, leagueID)
		if err != nil {
			return classify(fmt.Errorf("list roster league=%s: %w", leagueID, err))
		}
		snap.rows = rows
		return nil
	})
	p.Go(func(ctx context.Context) error {
		players, err := s.directory.Players(ctx)
		snap.players = players
		return err
	})
	if err := p.Wait(); err != nil {
		s.logger.WarnContext(ctx, "load standings snapshot failed", "league_id", leagueID, "error", err)
		return leagueSnapshot{}, err
	}

	return snap, nil
}
