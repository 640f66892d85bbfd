package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/transfer"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/turn"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
)

// StartTransferInput opens a transfer window. An empty order reuses the
// draft order.
type StartTransferInput struct {
	LeagueID   string
	DraftOrder []string
	MaxRounds  int
	Snake      bool
	ClosesAt   *time.Time
}

type TransferMoveInput struct {
	LeagueID string
	TeamID   string
	PlayerID string
}

// TransferStatus is the read model of a league's transfer window.
type TransferStatus struct {
	LeagueID  string
	Window    transfer.Window
	TeamNames map[string]string
	Upcoming  []turn.Slot
	Version   int64
}

// TurnAdvance reports where the pointer moved. CurrentTurn is unchanged when
// the window completed.
type TurnAdvance struct {
	PreviousTurn string
	CurrentTurn  string
	Round        int
	Completed    bool
	Skipped      []string
}

type DropResult struct {
	LeagueID    string
	TeamID      string
	PlayerID    string
	PlayerName  string
	GoalsAtDrop int
	DroppedAt   time.Time
	NextStep    transfer.Step
}

type PickupResult struct {
	LeagueID          string
	TeamID            string
	PlayerID          string
	PlayerName        string
	GoalsBeforePickup int
	PickedUpAt        time.Time
	Turn              TurnAdvance
}

type MarkDoneResult struct {
	LeagueID string
	TeamID   string
	Finished []string
	Status   transfer.Status
	Turn     *TurnAdvance
}

type TransferService struct {
	writer    *LeagueWriter
	directory *LeagueDirectory
	logger    *logging.Logger
}

func NewTransferService(writer *LeagueWriter, directory *LeagueDirectory, logger *logging.Logger) *TransferService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TransferService{
		writer:    writer,
		directory: directory,
		logger:    logger,
	}
}

func (s *TransferService) Start(ctx context.Context, input StartTransferInput) (status TransferStatus, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Start", input.LeagueID)
	defer func() { endUsecaseSpan(span, err) }()

	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.MaxRounds < 1 {
		return TransferStatus{}, fmt.Errorf("%w: max rounds must be >= 1", ErrInvalidInput)
	}
	order := cleanIDs(input.DraftOrder)
	teamsByID, err := s.directory.RequireTeams(ctx, input.LeagueID, order...)
	if err != nil {
		return TransferStatus{}, err
	}

	record, _, err := s.writer.mutate(ctx, input.LeagueID, func(record *draft.Record, now time.Time) ([]roster.Change, error) {
		windowOrder := order
		if len(windowOrder) == 0 {
			windowOrder = record.Draft.Order
		}
		if len(windowOrder) == 0 {
			return nil, fmt.Errorf("%w: draft order is required before the first draft", ErrInvalidInput)
		}
		if err := record.Transfer.Start(windowOrder, input.MaxRounds, input.Snake, input.ClosesAt, now); err != nil {
			return nil, err
		}
		return nil, s.writer.appendAction(&record.Transfer, "", transfer.ActionWindowStarted, "", now)
	})
	if err != nil {
		return TransferStatus{}, err
	}

	s.logger.InfoContext(ctx, "transfer window started",
		"league_id", input.LeagueID,
		"max_rounds", input.MaxRounds,
		"snake", input.Snake,
		"current_turn", record.Transfer.CurrentTurn,
	)
	s.writer.publish(ctx, record, EventTransferStarted, map[string]any{
		"current_turn": record.Transfer.CurrentTurn,
		"round":        record.Transfer.Round,
		"max_rounds":   record.Transfer.MaxRounds,
	})

	return newTransferStatus(record, teamsByID)
}

func (s *TransferService) Status(ctx context.Context, leagueID string) (status TransferStatus, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Status", leagueID)
	defer func() { endUsecaseSpan(span, err) }()

	leagueID = strings.TrimSpace(leagueID)
	teamsByID, err := s.directory.RequireTeams(ctx, leagueID)
	if err != nil {
		return TransferStatus{}, err
	}

	record, err := s.writer.read(ctx, leagueID)
	if err != nil {
		return TransferStatus{}, err
	}

	return newTransferStatus(record, teamsByID)
}

// Drop releases a player from the team on turn and moves the team to its
// pickup step.
func (s *TransferService) Drop(ctx context.Context, input TransferMoveInput) (result DropResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Drop", input.LeagueID)
	defer func() { endUsecaseSpan(span, err) }()

	input, err = s.validateMove(ctx, input)
	if err != nil {
		return DropResult{}, err
	}
	p, err := s.directory.Player(ctx, input.PlayerID)
	if err != nil {
		return DropResult{}, err
	}

	record, rows, err := s.writer.mutate(ctx, input.LeagueID, func(record *draft.Record, now time.Time) ([]roster.Change, error) {
		if err := record.Transfer.RecordDrop(input.TeamID, input.PlayerID, now); err != nil {
			return nil, err
		}
		if err := s.writer.appendAction(&record.Transfer, input.TeamID, transfer.ActionDrop, input.PlayerID, now); err != nil {
			return nil, err
		}

		return []roster.Change{{
			Kind:     roster.ChangeDrop,
			LeagueID: input.LeagueID,
			PlayerID: input.PlayerID,
			TeamID:   input.TeamID,
			Goals:    p.Goals,
			At:       now,
		}}, nil
	})
	if err != nil {
		return DropResult{}, err
	}

	result = DropResult{
		LeagueID:    input.LeagueID,
		TeamID:      input.TeamID,
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		GoalsAtDrop: p.Goals,
		DroppedAt:   record.UpdatedAt,
		NextStep:    transfer.StepPickup,
	}
	if len(rows) == 1 && rows[0].DroppedAt != nil {
		result.GoalsAtDrop = rows[0].GoalsAtDrop
		result.DroppedAt = *rows[0].DroppedAt
	}

	s.logger.InfoContext(ctx, "player dropped",
		"league_id", input.LeagueID,
		"team_id", input.TeamID,
		"player_id", input.PlayerID,
		"goals_at_drop", result.GoalsAtDrop,
	)
	s.writer.publish(ctx, record, EventTransferDrop, map[string]any{
		"team_id":   input.TeamID,
		"player_id": input.PlayerID,
		"next_step": string(transfer.StepPickup),
	})

	return result, nil
}

// Pickup claims an available player for the team on turn, clears the team's
// step and advances the turn, all in one commit.
func (s *TransferService) Pickup(ctx context.Context, input TransferMoveInput) (result PickupResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Pickup", input.LeagueID)
	defer func() { endUsecaseSpan(span, err) }()

	input, err = s.validateMove(ctx, input)
	if err != nil {
		return PickupResult{}, err
	}
	p, err := s.directory.Player(ctx, input.PlayerID)
	if err != nil {
		return PickupResult{}, err
	}

	var advanced turn.Result
	record, _, err := s.writer.mutate(ctx, input.LeagueID, func(record *draft.Record, now time.Time) ([]roster.Change, error) {
		if err := record.Transfer.RecordPickup(input.TeamID); err != nil {
			return nil, err
		}
		if err := s.writer.appendAction(&record.Transfer, input.TeamID, transfer.ActionPickup, input.PlayerID, now); err != nil {
			return nil, err
		}

		res, err := s.advance(&record.Transfer, now)
		if err != nil {
			return nil, err
		}
		advanced = res

		return []roster.Change{{
			Kind:     roster.ChangePickup,
			LeagueID: input.LeagueID,
			PlayerID: input.PlayerID,
			TeamID:   input.TeamID,
			Goals:    p.Goals,
			At:       now,
		}}, nil
	})
	if err != nil {
		return PickupResult{}, err
	}

	result = PickupResult{
		LeagueID:          input.LeagueID,
		TeamID:            input.TeamID,
		PlayerID:          p.ID,
		PlayerName:        p.Name,
		GoalsBeforePickup: p.Goals,
		PickedUpAt:        record.UpdatedAt,
		Turn:              newTurnAdvance(advanced),
	}

	s.logger.InfoContext(ctx, "player picked up",
		"league_id", input.LeagueID,
		"team_id", input.TeamID,
		"player_id", input.PlayerID,
		"goals_before_pickup", p.Goals,
		"current_turn", result.Turn.CurrentTurn,
		"completed", result.Turn.Completed,
	)
	s.writer.publish(ctx, record, EventTransferPickup, map[string]any{
		"team_id":      input.TeamID,
		"player_id":    input.PlayerID,
		"current_turn": result.Turn.CurrentTurn,
		"round":        result.Turn.Round,
		"completed":    result.Turn.Completed,
	})

	return result, nil
}

// Advance passes the turn. Advancing a completed window is invalid input and
// changes nothing.
func (s *TransferService) Advance(ctx context.Context, leagueID string) (result TurnAdvance, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.Advance", leagueID)
	defer func() { endUsecaseSpan(span, err) }()

	leagueID = strings.TrimSpace(leagueID)
	if _, err := s.directory.Teams(ctx, leagueID); err != nil {
		return TurnAdvance{}, err
	}

	var advanced turn.Result
	record, _, err := s.writer.mutate(ctx, leagueID, func(record *draft.Record, now time.Time) ([]roster.Change, error) {
		if record.Transfer.Status == transfer.StatusCompleted {
			return nil, fmt.Errorf("%w: transfer window already completed", ErrInvalidInput)
		}

		res, err := s.advance(&record.Transfer, now)
		if err != nil {
			return nil, err
		}
		advanced = res
		return nil, nil
	})
	if err != nil {
		return TurnAdvance{}, err
	}

	result = newTurnAdvance(advanced)
	s.logger.InfoContext(ctx, "transfer turn advanced",
		"league_id", leagueID,
		"previous_turn", result.PreviousTurn,
		"current_turn", result.CurrentTurn,
		"round", result.Round,
		"completed", result.Completed,
	)
	s.writer.publish(ctx, record, EventTransferAdvance, map[string]any{
		"previous_turn": result.PreviousTurn,
		"current_turn":  result.CurrentTurn,
		"round":         result.Round,
		"completed":     result.Completed,
	})

	return result, nil
}

// MarkDone ends a team's transfers early. The turn moves on when the team was
// on the clock.
func (s *TransferService) MarkDone(ctx context.Context, leagueID, teamID string) (result MarkDoneResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.MarkDone", leagueID)
	defer func() { endUsecaseSpan(span, err) }()

	leagueID = strings.TrimSpace(leagueID)
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return MarkDoneResult{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if _, err := s.directory.RequireTeams(ctx, leagueID, teamID); err != nil {
		return MarkDoneResult{}, err
	}

	var advanced *turn.Result
	record, _, err := s.writer.mutate(ctx, leagueID, func(record *draft.Record, now time.Time) ([]roster.Change, error) {
		res, err := record.Transfer.MarkDone(teamID, now)
		if err != nil {
			return nil, err
		}
		advanced = res

		if err := s.writer.appendAction(&record.Transfer, teamID, transfer.ActionTeamDone, "", now); err != nil {
			return nil, err
		}
		if res != nil {
			return nil, s.recordAdvance(&record.Transfer, *res, now)
		}
		return nil, nil
	})
	if err != nil {
		return MarkDoneResult{}, err
	}

	result = MarkDoneResult{
		LeagueID: leagueID,
		TeamID:   teamID,
		Finished: append([]string(nil), record.Transfer.Finished...),
		Status:   record.Transfer.Status,
	}
	if advanced != nil {
		turnAdvance := newTurnAdvance(*advanced)
		result.Turn = &turnAdvance
	}

	s.logger.InfoContext(ctx, "team finished transfers",
		"league_id", leagueID,
		"team_id", teamID,
		"status", string(record.Transfer.Status),
	)
	payload := map[string]any{
		"team_id": teamID,
		"status":  string(record.Transfer.Status),
	}
	if result.Turn != nil {
		payload["current_turn"] = result.Turn.CurrentTurn
		payload["round"] = result.Turn.Round
		payload["completed"] = result.Turn.Completed
	}
	s.writer.publish(ctx, record, EventTransferDone, payload)

	return result, nil
}

func (s *TransferService) validateMove(ctx context.Context, input TransferMoveInput) (TransferMoveInput, error) {
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.TeamID == "" || input.PlayerID == "" {
		return input, fmt.Errorf("%w: team id and player id are required", ErrInvalidInput)
	}
	if _, err := s.directory.RequireTeams(ctx, input.LeagueID, input.TeamID); err != nil {
		return input, err
	}
	return input, nil
}

func (s *TransferService) advance(window *transfer.Window, now time.Time) (turn.Result, error) {
	res, err := window.Advance(now)
	if err != nil {
		return turn.Result{}, err
	}
	return res, s.recordAdvance(window, res, now)
}

func (s *TransferService) recordAdvance(window *transfer.Window, res turn.Result, now time.Time) error {
	if res.Completed {
		return s.writer.appendAction(window, res.PreviousTeam, transfer.ActionWindowCompleted, "", now)
	}
	return s.writer.appendAction(window, res.Team, transfer.ActionTurnAdvanced, "", now)
}

func newTurnAdvance(res turn.Result) TurnAdvance {
	return TurnAdvance{
		PreviousTurn: res.PreviousTeam,
		CurrentTurn:  res.Team,
		Round:        res.Round,
		Completed:    res.Completed,
		Skipped:      append([]string(nil), res.Skipped...),
	}
}

func newTransferStatus(record draft.Record, teamsByID map[string]fantasyteam.Team) (TransferStatus, error) {
	names := make(map[string]string, len(teamsByID))
	for id, team := range teamsByID {
		names[id] = team.Name
	}

	upcoming, err := record.Transfer.Upcoming(upcomingPreviewSize)
	if err != nil {
		return TransferStatus{}, classify(err)
	}

	return TransferStatus{
		LeagueID:  record.LeagueID,
		Window:    record.Transfer,
		TeamNames: names,
		Upcoming:  upcoming,
		Version:   record.Version,
	}, nil
}
