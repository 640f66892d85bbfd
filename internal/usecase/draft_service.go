package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/transfer"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
)

const upcomingPreviewSize = 3

// UpdateDraftSettingsInput replaces the draft order and rounds. Start puts
// the first team on the clock in the same commit.
type UpdateDraftSettingsInput struct {
	LeagueID    string
	DraftOrder  []string
	TotalRounds int
	Snake       bool
	Start       bool
}

type DraftPlayerInput struct {
	LeagueID string
	TeamID   string
	PlayerID string
}

// DraftView is the draft state plus a preview of the next picks.
type DraftView struct {
	LeagueID string
	State    draft.State
	Upcoming []turn.Slot
	Version  int64
}

type DraftPickResult struct {
	LeagueID    string
	TeamID      string
	PlayerID    string
	PlayerName  string
	Round       int
	OverallPick int
	DraftedAt   time.Time
	NextTeam    string
	NextRound   int
	Completed   bool
}

type DraftResetResult struct {
	LeagueID       string
	State          draft.State
	RosterRowsGone int
}

type DraftService struct {
	writer     *LeagueWriter
	directory  *LeagueDirectory
	rosterRepo roster.Repository
	logger     *logging.Logger
}

func NewDraftService(
	writer *LeagueWriter,
	directory *LeagueDirectory,
	rosterRepo roster.Repository,
	logger *logging.Logger,
) *DraftService {
	if logger == nil {
		logger = logging.Default()
	}

	return &DraftService{
		writer:     writer,
		directory:  directory,
		rosterRepo: rosterRepo,
		logger:     logger,
	}
}

func (s *DraftService) Get(ctx context.Context, leagueID string) (view DraftView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Get", leagueID)
	defer func() { endUsecaseSpan(span, err) }()

	leagueID = strings.TrimSpace(leagueID)
	if _, err := s.directory.Teams(ctx, leagueID); err != nil {
		return DraftView{}, err
	}

	record, err := s.writer.read(ctx, leagueID)
	if err != nil {
		return DraftView{}, err
	}

	return newDraftView(record)
}

func (s *DraftService) UpdateSettings(ctx context.Context, input UpdateDraftSettingsInput) (view DraftView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.UpdateSettings", input.LeagueID)
	defer func() { endUsecaseSpan(span, err) }()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	order := cleanIDs(input.DraftOrder)
	if len(order) == 0 {
		return DraftView{}, fmt.Errorf("%w: draft order is required", ErrInvalidInput)
	}
	if input.TotalRounds < 1 {
		return DraftView{}, fmt.Errorf("%w: total rounds must be >= 1", ErrInvalidInput)
	}
	if _, err := s.directory.RequireTeams(ctx, input.LeagueID, order...); err != nil {
		return DraftView{}, err
	}

	record, _, err := s.writer.mutate(ctx, input.LeagueID, func(record *draft.Record, now time.Time) ([]roster.Change, error) {
		if err := record.Draft.Configure(order, input.TotalRounds, input.Snake); err != nil {
			return nil, err
		}
		if input.Start && record.Draft.Status == draft.StatusNotStarted {
			return nil, record.Draft.Start(now)
		}
		return nil, nil
	})
	if err != nil {
		return DraftView{}, err
	}

	s.logger.InfoContext(ctx, "draft settings updated",
		"league_id", input.LeagueID,
		"teams", len(order),
		"total_rounds", input.TotalRounds,
		"snake", input.Snake,
		"status", string(record.Draft.Status),
	)
	s.writer.publish(ctx, record, EventDraftUpdated, map[string]any{
		"status":        string(record.Draft.Status),
		"draft_order":   record.Draft.Order,
		"total_rounds":  record.Draft.TotalRounds,
		"snake_order":   record.Draft.Snake,
		"current_team":  record.Draft.CurrentTeam,
		"current_round": record.Draft.CurrentRound,
	})

	return newDraftView(record)
}

func (s *DraftService) Start(ctx context.Context, leagueID string) (view DraftView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Start", leagueID)
	defer func() { endUsecaseSpan(span, err) }()

	leagueID = strings.TrimSpace(leagueID)
	if _, err := s.directory.Teams(ctx, leagueID); err != nil {
		return DraftView{}, err
	}

	record, _, err := s.writer.mutate(ctx, leagueID, func(record *draft.Record, now time.Time) ([]roster.Change, error) {
		return nil, record.Draft.Start(now)
	})
	if err != nil {
		return DraftView{}, err
	}

	s.logger.InfoContext(ctx, "draft started", "league_id", leagueID, "current_team", record.Draft.CurrentTeam)
	s.writer.publish(ctx, record, EventDraftUpdated, map[string]any{
		"status":        string(record.Draft.Status),
		"current_team":  record.Draft.CurrentTeam,
		"current_round": record.Draft.CurrentRound,
	})

	return newDraftView(record)
}

// DraftPlayer validates the turn, claims the player and advances the pointer
// in one commit. A player that already has an owner is a conflict.
func (s *DraftService) DraftPlayer(ctx context.Context, input DraftPlayerInput) (result DraftPickResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.DraftPlayer", input.LeagueID)
	defer func() { endUsecaseSpan(span, err) }()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.TeamID == "" || input.PlayerID == "" {
		return DraftPickResult{}, fmt.Errorf("%w: team id and player id are required", ErrInvalidInput)
	}
	if _, err := s.directory.RequireTeams(ctx, input.LeagueID, input.TeamID); err != nil {
		return DraftPickResult{}, err
	}
	p, err := s.directory.Player(ctx, input.PlayerID)
	if err != nil {
		return DraftPickResult{}, err
	}

	var picked turn.Result
	var overall int
	record, _, err := s.writer.mutate(ctx, input.LeagueID, func(record *draft.Record, now time.Time) ([]roster.Change, error) {
		overall = record.Draft.CurrentPick
		res, err := record.Draft.RecordPick(input.TeamID, now)
		if err != nil {
			return nil, err
		}
		picked = res

		return []roster.Change{{
			Kind:     roster.ChangeDraft,
			LeagueID: input.LeagueID,
			PlayerID: input.PlayerID,
			TeamID:   input.TeamID,
			Goals:    p.Goals,
			At:       now,
		}}, nil
	})
	if err != nil {
		return DraftPickResult{}, err
	}

	result = DraftPickResult{
		LeagueID:    input.LeagueID,
		TeamID:      input.TeamID,
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		Round:       picked.PreviousRound,
		OverallPick: overall,
		DraftedAt:   record.UpdatedAt,
		Completed:   picked.Completed,
	}
	if !picked.Completed {
		result.NextTeam = picked.Team
		result.NextRound = picked.Round
	}

	s.logger.InfoContext(ctx, "player drafted",
		"league_id", input.LeagueID,
		"team_id", input.TeamID,
		"player_id", input.PlayerID,
		"overall_pick", overall,
		"completed", picked.Completed,
	)
	s.writer.publish(ctx, record, EventDraftPick, map[string]any{
		"team_id":       input.TeamID,
		"player_id":     input.PlayerID,
		"overall_pick":  overall,
		"current_team":  result.NextTeam,
		"current_round": result.NextRound,
		"completed":     picked.Completed,
	})

	return result, nil
}

// Reset clears draft progress, the transfer window and every roster row of
// the league. Settings are kept.
func (s *DraftService) Reset(ctx context.Context, leagueID string) (result DraftResetResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DraftService.Reset", leagueID)
	defer func() { endUsecaseSpan(span, err) }()

	leagueID = strings.TrimSpace(leagueID)
	if _, err := s.directory.Teams(ctx, leagueID); err != nil {
		return DraftResetResult{}, err
	}

	record, _, err := s.writer.mutate(ctx, leagueID, func(record *draft.Record, _ time.Time) ([]roster.Change, error) {
		record.Draft.Reset()
		record.Transfer = transfer.Window{Status: transfer.StatusNotStarted}
		return nil, nil
	})
	if err != nil {
		return DraftResetResult{}, err
	}

	// The draft is no longer active here, so no pick can recreate rows. A
	// failed delete leaves stale rows behind; Reset is repeatable and clears them.
	removed, err := s.rosterRepo.DeleteByLeague(ctx, leagueID)
	if err != nil {
		s.logger.WarnContext(ctx, "draft reset left roster rows", "league_id", leagueID, "error", err)
		return DraftResetResult{}, fmt.Errorf(
			"%w: draft reset but roster rows of league=%s were not cleared, retry the reset: %w",
			ErrDependencyUnavailable, leagueID, err,
		)
	}

	s.logger.InfoContext(ctx, "draft reset", "league_id", leagueID, "roster_rows_removed", removed)
	s.writer.publish(ctx, record, EventDraftReset, map[string]any{
		"status":              string(record.Draft.Status),
		"roster_rows_removed": removed,
	})

	return DraftResetResult{
		LeagueID:       leagueID,
		State:          record.Draft,
		RosterRowsGone: removed,
	}, nil
}

func newDraftView(record draft.Record) (DraftView, error) {
	view := DraftView{
		LeagueID: record.LeagueID,
		State:    record.Draft,
		Version:  record.Version,
	}
	if record.Draft.Status != draft.StatusActive {
		return view, nil
	}

	upcoming, err := turn.Upcoming(turn.Input{
		Order:        record.Draft.Order,
		CurrentTeam:  record.Draft.CurrentTeam,
		CurrentRound: record.Draft.CurrentRound,
		MaxRounds:    record.Draft.TotalRounds,
		Snake:        record.Draft.Snake,
	}, upcomingPreviewSize)
	if err != nil {
		return DraftView{}, classify(err)
	}
	view.Upcoming = upcoming
	return view, nil
}

func cleanIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		out = append(out, id)
	}
	return out
}
