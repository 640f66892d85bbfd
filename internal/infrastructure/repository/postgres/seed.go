package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/derekensign/mls-fantasy-sub000/internal/infrastructure/repository/memory"
	qb "github.com/derekensign/mls-fantasy-sub000/internal/platform/querybuilder"
)

// BootstrapSeed loads reference players and fantasy teams into an empty
// database. Existing rows are left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, seed memory.Seed) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM players`); err != nil {
		return crerr.Wrap(err, "count players for bootstrap seed")
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin seed tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, p := range seed.Players {
		query, args, err := qb.InsertModel(tablePlayers, playerTableModel{
			PlayerID: p.ID,
			Name:     p.Name,
			Club:     p.Club,
			Position: string(p.Position),
			Goals:    p.Goals,
		}, "ON CONFLICT (player_id) DO NOTHING")
		if err != nil {
			return crerr.Wrapf(err, "build seed player %s query", p.ID)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "seed player %s", p.ID)
		}
	}

	for _, t := range seed.Teams {
		query, args, err := qb.InsertModel(tableFantasyTeams, fantasyTeamTableModel{
			TeamID:    t.ID,
			LeagueID:  t.LeagueID,
			Name:      t.Name,
			OwnerName: t.OwnerName,
		}, "ON CONFLICT (team_id) DO NOTHING")
		if err != nil {
			return crerr.Wrapf(err, "build seed team %s query", t.ID)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return crerr.Wrapf(err, "seed team %s", t.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit seed tx")
	}
	return nil
}
