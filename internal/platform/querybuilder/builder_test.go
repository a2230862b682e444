package querybuilder

import (
	"testing"
	"time"
)

func TestSelectBuilder(t *testing.T) {
	from := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	to := from.Add(60 * time.Minute)

	query, args, err := Select("id", "league_id", "kickoff_utc").
		From("fixtures").
		Where(Eq("league_id", 262), Gt("kickoff_utc", from), Lte("kickoff_utc", to)).
		OrderBy("kickoff_utc").
		Limit(50).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, league_id, kickoff_utc FROM fixtures WHERE league_id = $1 AND kickoff_utc > $2 AND kickoff_utc <= $3 ORDER BY kickoff_utc LIMIT 50"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 3 || args[0] != 262 || args[1] != from || args[2] != to {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_IsNullAndIn(t *testing.T) {
	query, args, err := Select("fixture_id", "outcome").
		From("value_bets").
		Where(In("status", []any{"detected", "failed"}), IsNull("sent_at")).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT fixture_id, outcome FROM value_bets WHERE status IN ($1, $2) AND sent_at IS NULL"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "detected" || args[1] != "failed" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("team_mappings").
		Columns("api_football_id", "footystats_id").
		Values(33, 251).
		Suffix("ON CONFLICT (api_football_id) DO UPDATE SET footystats_id = EXCLUDED.footystats_id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO team_mappings (api_football_id, footystats_id) VALUES ($1, $2) ON CONFLICT (api_football_id) DO UPDATE SET footystats_id = EXCLUDED.footystats_id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != 33 || args[1] != 251 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("value_bets").
		Set("status", "sent").
		SetExpr("sent_at", "NOW()").
		Where(Eq("id", "vb1")).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE value_bets SET status = $1, sent_at = NOW() WHERE id = $2"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "sent" || args[1] != "vb1" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID       string `db:"id"`
		LeagueID int    `db:"league_id"`
		Ignored  string `db:"-"`
	}

	query, args, err := InsertModel("fixtures", row{ID: "f1", LeagueID: 262}, "")
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO fixtures (id, league_id) VALUES ($1, $2)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 2 || args[0] != "f1" || args[1] != 262 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestModelColumns(t *testing.T) {
	type row struct {
		FixtureID int       `db:"fixture_id"`
		Outcome   string    `db:"outcome"`
		Kickoff   time.Time `db:"kickoff_utc"`
	}

	cols, err := ModelColumns(row{})
	if err != nil {
		t.Fatalf("model columns: %v", err)
	}

	want := []string{"fixture_id", "outcome", "kickoff_utc"}
	if len(cols) != len(want) {
		t.Fatalf("unexpected columns: %+v", cols)
	}
	for i := range want {
		if cols[i] != want[i] {
			t.Fatalf("column %d = %q, want %q", i, cols[i], want[i])
		}
	}
}
