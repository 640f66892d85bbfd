package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/fantasyteam"
	qb "github.com/derekensign/mls-fantasy-sub000/internal/platform/querybuilder"
)

type fantasyTeamTableModel struct {
	TeamID    string `db:"team_id"`
	LeagueID  string `db:"league_id"`
	Name      string `db:"name"`
	OwnerName string `db:"owner_name"`
}

type FantasyTeamRepository struct {
	db *sqlx.DB
}

func NewFantasyTeamRepository(db *sqlx.DB) *FantasyTeamRepository {
	return &FantasyTeamRepository{db: db}
}

func (r *FantasyTeamRepository) ListByLeague(ctx context.Context, leagueID string) ([]fantasyteam.Team, error) {
	query, args, err := qb.Select("team_id", "league_id", "name", "owner_name").From(tableFantasyTeams).
		Where(qb.Eq("league_id", leagueID)).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list fantasy teams query")
	}

	var rows []fantasyTeamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrapf(err, "list fantasy teams league=%s", leagueID)
	}

	out := make([]fantasyteam.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, fantasyteam.Team{
			ID:        row.TeamID,
			LeagueID:  row.LeagueID,
			Name:      row.Name,
			OwnerName: row.OwnerName,
		})
	}
	return out, nil
}
