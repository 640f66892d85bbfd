package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("league_id", "version").
		From("league_drafts").
		Where(Eq("league_id", "l1"), Expr("version >= ?", 2)).
		OrderBy("league_id").
		Limit(10).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT league_id, version FROM league_drafts WHERE league_id = $1 AND version >= $2 ORDER BY league_id LIMIT 10 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{"l1", 2}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("player_id").From("players").Where(In("player_id", []string{})).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT player_id FROM players WHERE 1=0" || len(args) != 0 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		LeagueID string `db:"league_id"`
		PlayerID string `db:"player_id"`
		Revision int64  `db:"revision"`
		internal string
		Skipped  string `db:"-"`
	}

	query, args, err := InsertModel("roster_assignments", row{LeagueID: "l1", PlayerID: "p1", Revision: 1}, "ON CONFLICT DO NOTHING")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO roster_assignments (league_id, player_id, revision) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{"l1", "p1", int64(1)}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	type row struct {
		LeagueID string `db:"league_id"`
		Version  int64  `db:"version"`
	}

	b := Update("league_drafts")
	if err := b.SetModel(row{LeagueID: "l1", Version: 4}, "league_id"); err != nil {
		t.Fatalf("set model: %v", err)
	}
	query, args, err := b.
		SetExpr("updated_at", "NOW()").
		Where(Eq("league_id", "l1"), Eq("version", int64(3))).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE league_drafts SET version = $1, updated_at = NOW() WHERE league_id = $2 AND version = $3"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if !reflect.DeepEqual(args, []any{int64(4), "l1", int64(3)}) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestDeleteBuilder(t *testing.T) {
	if _, _, err := DeleteFrom("roster_assignments").ToSQL(); err == nil {
		t.Fatalf("expected unconditional delete to be rejected")
	}

	query, args, err := DeleteFrom("roster_assignments").Where(Eq("league_id", "l1")).ToSQL()
	if err != nil {
		t.Fatalf("build delete query: %v", err)
	}
	if query != "DELETE FROM roster_assignments WHERE league_id = $1" || len(args) != 1 {
		t.Fatalf("unexpected query %q args %+v", query, args)
	}
}
