package draft

import (
	"context"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
)

// Mutation is one atomic unit of work against a league: the new record,
// guarded by the version it was derived from, plus conditional roster writes.
// ExpectedVersion zero means the record must not exist yet.
type Mutation struct {
	Record          Record
	ExpectedVersion int64
	Roster          []roster.Change
}

// Store persists league records. Commit applies every part of the mutation or
// none of it, returning ErrVersionConflict or roster.ErrConflict when a guard
// fails. The returned record carries the new version.
type Store interface {
	Get(ctx context.Context, leagueID string) (Record, bool, error)
	Commit(ctx context.Context, m Mutation) (Record, []roster.Assignment, error)
}
