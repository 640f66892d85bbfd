package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/draft"
	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	qb "github.com/derekensign/mls-fantasy-sub000/internal/platform/querybuilder"
)

// LeagueStore commits the league record and its roster rows in one SQL
// transaction. The record row is locked for the duration of the commit.
type LeagueStore struct {
	db *sqlx.DB
}

func NewLeagueStore(db *sqlx.DB) *LeagueStore {
	return &LeagueStore{db: db}
}

func (s *LeagueStore) Get(ctx context.Context, leagueID string) (draft.Record, bool, error) {
	query, args, err := qb.Select(leagueDraftColumns...).From(tableLeagueDrafts).
		Where(qb.Eq("league_id", leagueID)).
		ToSQL()
	if err != nil {
		return draft.Record{}, false, crerr.Wrap(err, "build get league draft query")
	}

	var row leagueDraftTableModel
	if err := s.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return draft.Record{}, false, nil
		}
		return draft.Record{}, false, crerr.Wrapf(err, "get league draft league=%s", leagueID)
	}

	record, err := row.toDomain()
	if err != nil {
		return draft.Record{}, false, err
	}
	return record, true, nil
}

func (s *LeagueStore) Commit(ctx context.Context, m draft.Mutation) (draft.Record, []roster.Assignment, error) {
	leagueID := m.Record.LeagueID
	if leagueID == "" {
		return draft.Record{}, nil, crerr.New("league id is required")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return draft.Record{}, nil, crerr.Wrap(err, "begin league commit tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := checkVersion(ctx, tx, leagueID, m.ExpectedVersion); err != nil {
		return draft.Record{}, nil, err
	}

	staged := make(map[string]roster.Assignment, len(m.Roster))
	stored := make(map[string]int64, len(m.Roster))
	order := make([]string, 0, len(m.Roster))
	written := make([]roster.Assignment, 0, len(m.Roster))
	for _, change := range m.Roster {
		if change.LeagueID != leagueID {
			return draft.Record{}, nil, fmt.Errorf("%w: change for league %s inside league %s", roster.ErrConflict, change.LeagueID, leagueID)
		}

		row, ok := staged[change.PlayerID]
		if !ok {
			loaded, found, err := getRosterRow(ctx, tx, leagueID, change.PlayerID, true)
			if err != nil {
				return draft.Record{}, nil, err
			}
			row, ok = loaded, found
			stored[change.PlayerID] = 0
			if found {
				stored[change.PlayerID] = loaded.Revision
			}
			order = append(order, change.PlayerID)
		}

		next, err := roster.Apply(row, ok, change)
		if err != nil {
			return draft.Record{}, nil, err
		}
		staged[change.PlayerID] = next
		written = append(written, next)
	}

	next := m.Record.Clone()
	next.Version = m.ExpectedVersion + 1
	if err := writeRecord(ctx, tx, next, m.ExpectedVersion); err != nil {
		return draft.Record{}, nil, err
	}
	for _, playerID := range order {
		if err := writeRosterRow(ctx, tx, staged[playerID], stored[playerID]); err != nil {
			return draft.Record{}, nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		if isRetryableTxError(err) {
			return draft.Record{}, nil, fmt.Errorf("%w: league=%s: %v", draft.ErrVersionConflict, leagueID, err)
		}
		return draft.Record{}, nil, crerr.Wrapf(err, "commit league=%s", leagueID)
	}
	return next, written, nil
}

func checkVersion(ctx context.Context, tx *sqlx.Tx, leagueID string, expected int64) error {
	query, args, err := qb.Select("version").From(tableLeagueDrafts).
		Where(qb.Eq("league_id", leagueID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return crerr.Wrap(err, "build lock league draft query")
	}

	var current int64
	if err := tx.GetContext(ctx, &current, query, args...); err != nil && !isNotFound(err) {
		return crerr.Wrapf(err, "lock league draft league=%s", leagueID)
	}
	if current != expected {
		return fmt.Errorf("%w: league=%s expected version %d, stored %d", draft.ErrVersionConflict, leagueID, expected, current)
	}
	return nil
}

// writeRecord inserts the first version or updates the expected one. A lost
// race shows up as zero affected rows.
func writeRecord(ctx context.Context, tx *sqlx.Tx, record draft.Record, expected int64) error {
	model, err := leagueDraftModelFromDomain(record)
	if err != nil {
		return err
	}

	var (
		query string
		args  []any
	)
	if expected == 0 {
		query, args, err = qb.InsertModel(tableLeagueDrafts, model, "ON CONFLICT (league_id) DO NOTHING")
	} else {
		b := qb.Update(tableLeagueDrafts)
		if err = b.SetModel(model, "league_id"); err == nil {
			query, args, err = b.Where(qb.Eq("league_id", record.LeagueID), qb.Eq("version", expected)).ToSQL()
		}
	}
	if err != nil {
		return crerr.Wrap(err, "build write league draft query")
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return crerr.Wrapf(err, "write league draft league=%s", record.LeagueID)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return fmt.Errorf("%w: league=%s version %d already replaced", draft.ErrVersionConflict, record.LeagueID, expected)
	}
	return nil
}

// writeRosterRow inserts a new row when storedRevision is zero, otherwise
// updates the row only if its revision is unchanged.
func writeRosterRow(ctx context.Context, tx *sqlx.Tx, row roster.Assignment, storedRevision int64) error {
	model, err := rosterModelFromDomain(row)
	if err != nil {
		return err
	}

	var (
		query string
		args  []any
	)
	if storedRevision == 0 {
		query, args, err = qb.InsertModel(tableRosterAssignments, model, "ON CONFLICT (league_id, player_id) DO NOTHING")
	} else {
		b := qb.Update(tableRosterAssignments)
		if err = b.SetModel(model, "league_id", "player_id"); err == nil {
			query, args, err = b.Where(
				qb.Eq("league_id", row.LeagueID),
				qb.Eq("player_id", row.PlayerID),
				qb.Eq("revision", storedRevision),
			).ToSQL()
		}
	}
	if err != nil {
		return crerr.Wrap(err, "build write roster row query")
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: player %s written concurrently", roster.ErrConflict, row.PlayerID)
		}
		return crerr.Wrapf(err, "write roster row player=%s", row.PlayerID)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return fmt.Errorf("%w: player %s changed concurrently", roster.ErrConflict, row.PlayerID)
	}
	return nil
}
