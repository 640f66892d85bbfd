package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	draftmock "github.com/derekensign/mls-fantasy-sub000/internal/mocks/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/logging"
	"github.com/derekensign/mls-fantasy-sub000/internal/platform/resilience"
)

func TestLeagueWriter_RetriesVersionConflict(t *testing.T) {
	t.Parallel()

	store := draftmock.NewStore(t)
	writer := NewLeagueWriter(store, &sequenceIDGenerator{}, nil, logging.NewNop(), 3)
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	writer.now = func() time.Time { return now }

	stale := draft.NewRecord("l1")
	stale.Version = 4
	fresh := stale.Clone()
	fresh.Version = 5

	store.On("Get", mock.Anything, "l1").Return(stale, true, nil).Once()
	store.On("Get", mock.Anything, "l1").Return(fresh, true, nil).Once()
	store.
		On("Commit", mock.Anything, mock.MatchedBy(func(m draft.Mutation) bool { return m.ExpectedVersion == 4 })).
		Return(draft.Record{}, nil, fmt.Errorf("%w: moved on", draft.ErrVersionConflict)).
		Once()
	store.
		On("Commit", mock.Anything, mock.MatchedBy(func(m draft.Mutation) bool {
			return m.ExpectedVersion == 5 && m.Record.UpdatedAt.Equal(now)
		})).
		Return(draft.Record{LeagueID: "l1", Version: 6}, nil, nil).
		Once()

	calls := 0
	saved, _, err := writer.mutate(t.Context(), "l1", func(record *draft.Record, _ time.Time) ([]roster.Change, error) {
		calls++
		return nil, nil
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}
	if saved.Version != 6 {
		t.Fatalf("expected version 6, got %d", saved.Version)
	}
	if calls != 2 {
		t.Fatalf("expected mutation to be re-applied on fresh read, got %d calls", calls)
	}
}

func TestLeagueWriter_GivesUpAfterMaxRetries(t *testing.T) {
	t.Parallel()

	store := draftmock.NewStore(t)
	writer := NewLeagueWriter(store, &sequenceIDGenerator{}, nil, logging.NewNop(), 2)

	store.On("Get", mock.Anything, "l1").Return(draft.Record{}, false, nil).Times(2)
	store.On("Commit", mock.Anything, mock.Anything).Return(draft.Record{}, nil, draft.ErrVersionConflict).Times(2)

	_, _, err := writer.mutate(t.Context(), "l1", func(*draft.Record, time.Time) ([]roster.Change, error) {
		return nil, nil
	})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, draft.ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
}

func TestLeagueWriter_RosterConflictIsNotRetried(t *testing.T) {
	t.Parallel()

	store := draftmock.NewStore(t)
	writer := NewLeagueWriter(store, &sequenceIDGenerator{}, nil, logging.NewNop(), 3)

	store.On("Get", mock.Anything, "l1").Return(draft.Record{}, false, nil).Once()
	store.On("Commit", mock.Anything, mock.Anything).Return(draft.Record{}, nil, roster.ErrConflict).Once()

	_, _, err := writer.mutate(t.Context(), "l1", func(*draft.Record, time.Time) ([]roster.Change, error) {
		return nil, nil
	})
	if !errors.Is(err, ErrConflict) || !errors.Is(err, roster.ErrConflict) {
		t.Fatalf("expected roster conflict, got %v", err)
	}
}

func TestLeagueWriter_OpenCircuitIsDependencyUnavailable(t *testing.T) {
	t.Parallel()

	store := draftmock.NewStore(t)
	writer := NewLeagueWriter(store, &sequenceIDGenerator{}, nil, logging.NewNop(), 3)
	store.On("Get", mock.Anything, "l1").Return(draft.Record{}, false, resilience.ErrCircuitOpen).Once()

	_, err := writer.read(t.Context(), "l1")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestLeagueWriter_LockHonoursContext(t *testing.T) {
	t.Parallel()

	store := draftmock.NewStore(t)
	writer := NewLeagueWriter(store, &sequenceIDGenerator{}, nil, logging.NewNop(), 3)

	unlock, err := writer.locks.Lock(t.Context(), "l1")
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	_, _, err = writer.mutate(ctx, "l1", func(*draft.Record, time.Time) ([]roster.Change, error) {
		t.Fatalf("mutation must not run while the league is locked")
		return nil, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
