package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/transfer"
	idgen "github.com/derekensign/mls-fantasy-sub000/internal/platform/id"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/realtime"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/resilience"
)

const defaultCommitMaxRetries = 3

// Event types pushed to realtime subscribers.
const (
	EventDraftUpdated    = "draft.updated"
	EventDraftPick       = "draft.pick"
	EventDraftReset      = "draft.reset"
	EventTransferStarted = "transfer.started"
	EventTransferDrop    = "transfer.drop"
	EventTransferPickup  = "transfer.pickup"
	EventTransferAdvance = "transfer.advance"
	EventTransferDone    = "transfer.done"
)

// EventPublisher receives league events after a successful commit.
type EventPublisher interface {
	Publish(event realtime.Event) bool
}

type mutationFunc func(record *draft.Record, now time.Time) ([]roster.Change, error)

// LeagueWriter is the single write path for league records. Writes for one
// league are serialized in process; version conflicts from other processes
// are retried against a fresh read.
type LeagueWriter struct {
	store      draft.Store
	locks      *resilience.KeyedMutex
	idGen      idgen.Generator
	events     EventPublisher
	logger     *logging.Logger
	maxRetries int
	now        func() time.Time
}

func NewLeagueWriter(
	store draft.Store,
	idGen idgen.Generator,
	events EventPublisher,
	logger *logging.Logger,
	maxRetries int,
) *LeagueWriter {
	if logger == nil {
		logger = logging.Default()
	}
	if maxRetries < 1 {
		maxRetries = defaultCommitMaxRetries
	}

	return &LeagueWriter{
		store:      store,
		locks:      resilience.NewKeyedMutex(),
		idGen:      idGen,
		events:     events,
		logger:     logger,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

// read returns the stored record, or a fresh one at version zero. A window
// past its deadline is reported as completed.
func (w *LeagueWriter) read(ctx context.Context, leagueID string) (draft.Record, error) {
	record, exists, err := w.store.Get(ctx, leagueID)
	if err != nil {
		return draft.Record{}, classify(fmt.Errorf("get league record: %w", err))
	}
	if !exists {
		record = draft.NewRecord(leagueID)
	}
	record.Transfer.ExpireIfPastDeadline(w.now().UTC())

	return record, nil
}

func (w *LeagueWriter) mutate(ctx context.Context, leagueID string, fn mutationFunc) (draft.Record, []roster.Assignment, error) {
	unlock, err := w.locks.Lock(ctx, leagueID)
	if err != nil {
		return draft.Record{}, nil, fmt.Errorf("lock league=%s: %w", leagueID, err)
	}
	defer unlock()

	var lastErr error
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		current, exists, err := w.store.Get(ctx, leagueID)
		if err != nil {
			return draft.Record{}, nil, classify(fmt.Errorf("get league record: %w", err))
		}
		if !exists {
			current = draft.NewRecord(leagueID)
		}

		now := w.now().UTC()
		next := current.Clone()
		if next.Transfer.ExpireIfPastDeadline(now) {
			if err := w.appendAction(&next.Transfer, "", transfer.ActionWindowCompleted, "", *next.Transfer.ClosesAt); err != nil {
				return draft.Record{}, nil, err
			}
		}

		changes, err := fn(&next, now)
		if err != nil {
			return draft.Record{}, nil, classify(err)
		}
		next.LeagueID = leagueID
		next.UpdatedAt = now

		saved, rows, err := w.store.Commit(ctx, draft.Mutation{
			Record:          next,
			ExpectedVersion: current.Version,
			Roster:          changes,
		})
		if errors.Is(err, draft.ErrVersionConflict) {
			lastErr = err
			w.logger.WarnContext(ctx, "league commit version conflict, retrying",
				"league_id", leagueID,
				"attempt", attempt,
				"expected_version", current.Version,
			)
			continue
		}
		if err != nil {
			return draft.Record{}, nil, classify(fmt.Errorf("commit league record: %w", err))
		}

		return saved, rows, nil
	}

	return draft.Record{}, nil, classify(fmt.Errorf("commit league=%s after %d attempts: %w", leagueID, w.maxRetries, lastErr))
}

func (w *LeagueWriter) appendAction(window *transfer.Window, teamID string, actionType transfer.ActionType, playerID string, at time.Time) error {
	actionID, err := w.idGen.NewID()
	if err != nil {
		return fmt.Errorf("generate action id: %w", err)
	}

	window.AppendAction(transfer.Action{
		ID:       actionID,
		TeamID:   teamID,
		Type:     actionType,
		PlayerID: playerID,
		Round:    window.Round,
		At:       at,
	})
	return nil
}

// publish is best effort; a dropped event only costs clients a refresh.
func (w *LeagueWriter) publish(ctx context.Context, record draft.Record, eventType string, payload map[string]any) {
	if w.events == nil {
		return
	}

	ok := w.events.Publish(realtime.Event{
		LeagueID: record.LeagueID,
		Type:     eventType,
		Version:  record.Version,
		Payload:  payload,
		At:       record.UpdatedAt,
	})
	if !ok {
		w.logger.WarnContext(ctx, "drop league event",
			"league_id", record.LeagueID,
			"event_type", eventType,
			"version", record.Version,
		)
	}
}
