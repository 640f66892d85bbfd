package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/roster"
	qb "github.com/derekensign/mls-fantasy-sub000/internal/platform/querybuilder"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID string) ([]roster.Assignment, error) {
	query, args, err := qb.Select(rosterColumns...).From(tableRosterAssignments).
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list roster query")
	}

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list roster league=%s", leagueID)
	}

	out := make([]roster.Assignment, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *RosterRepository) Get(ctx context.Context, leagueID, playerID string) (roster.Assignment, bool, error) {
	return getRosterRow(ctx, r.db, leagueID, playerID, false)
}

func (r *RosterRepository) DeleteByLeague(ctx context.Context, leagueID string) (int, error) {
	query, args, err := qb.DeleteFrom(tableRosterAssignments).Where(qb.Eq("league_id", leagueID)).ToSQL()
	if err != nil {
		return 0, crerr.Wrap(err, "build delete roster query")
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, crerr.Wrapf(err, "delete roster league=%s", leagueID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, crerr.Wrap(err, "read deleted roster rows")
	}
	return int(n), nil
}

func getRosterRow(ctx context.Context, q sqlx.QueryerContext, leagueID, playerID string, forUpdate bool) (roster.Assignment, bool, error) {
	b := qb.Select(rosterColumns...).From(tableRosterAssignments).
		Where(qb.Eq("league_id", leagueID), qb.Eq("player_id", playerID))
	if forUpdate {
		b = b.ForUpdate()
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return roster.Assignment{}, false, crerr.Wrap(err, "build get roster row query")
	}

	var row rosterTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Assignment{}, false, nil
		}
		return roster.Assignment{}, false, crerr.Wrapf(err, "get roster row league=%s player=%s", leagueID, playerID)
	}

	item, err := row.toDomain()
	if err != nil {
		return roster.Assignment{}, false, err
	}
	return item, true, nil
}
