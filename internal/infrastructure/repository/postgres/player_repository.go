package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"

	"github.com/derekensign/mls-fantasy-sub000/internal/domain/player"
	qb "github.com/derekensign/mls-fantasy-sub000/internal/platform/querybuilder"
)

var playerSelectColumns = []string{"player_id", "name", "club", "position", "goals"}

type playerTableModel struct {
	PlayerID string `db:"player_id"`
	Name     string `db:"name"`
	Club     string `db:"club"`
	Position string `db:"position"`
	Goals    int    `db:"goals"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:       m.PlayerID,
		Name:     m.Name,
		Club:     m.Club,
		Position: player.Position(m.Position),
		Goals:    m.Goals,
	}
}

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(tablePlayers).OrderBy("player_id").ToSQL()
	if err != nil {
		return nil, crerr.Wrap(err, "build list players query")
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, crerr.Wrap(err, "list players")
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, playerID string) (player.Player, bool, error) {
	query, args, err := qb.Select(playerSelectColumns...).From(tablePlayers).
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, crerr.Wrap(err, "build get player query")
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, crerr.Wrapf(err, "get player id=%s", playerID)
	}
	return row.toDomain(), true, nil
}
