package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	qb "github.com/riskibarqy/value-radar/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

const fixtureUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	league_id = EXCLUDED.league_id,
	season = EXCLUDED.season,
	kickoff_utc = EXCLUDED.kickoff_utc,
	status = EXCLUDED.status,
	home_team_id = EXCLUDED.home_team_id,
	home_team_name = EXCLUDED.home_team_name,
	away_team_id = EXCLUDED.away_team_id,
	away_team_name = EXCLUDED.away_team_name,
	venue = EXCLUDED.venue,
	last_refreshed_at = EXCLUDED.last_refreshed_at`

func (r *FixtureRepository) UpsertBatch(ctx context.Context, fixtures []fixture.Fixture) error {
	if len(fixtures) == 0 {
		return nil
	}

	builder := qb.InsertInto("fixtures").Columns(
		"id", "league_id", "season", "kickoff_utc", "status",
		"home_team_id", "home_team_name", "away_team_id", "away_team_name",
		"venue", "last_refreshed_at",
	)
	for _, f := range fixtures {
		builder.Values(
			f.ID, f.LeagueID, f.Season, f.KickoffUTC.UTC(), f.Status,
			f.HomeTeamID, f.HomeTeamName, f.AwayTeamID, f.AwayTeamName,
			f.Venue, f.LastRefreshedAt.UTC(),
		)
	}

	query, args, err := builder.Suffix(fixtureUpsertSuffix).ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert fixtures query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert fixtures: %w", err)
	}
	return nil
}

func (r *FixtureRepository) GetByID(ctx context.Context, id int64) (fixture.Fixture, bool, error) {
	query, args, err := qb.Select("*").From("fixtures").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fixture.Fixture{}, false, fmt.Errorf("build select fixture query: %w", err)
	}

	var row fixtureTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fixture.Fixture{}, false, nil
		}
		return fixture.Fixture{}, false, fmt.Errorf("select fixture: %w", err)
	}
	return mapFixtureRow(row), true, nil
}

func (r *FixtureRepository) ListUpcomingWindow(ctx context.Context, leagueIDs []int, from, to time.Time) ([]fixture.Fixture, error) {
	conditions := []qb.Condition{
		qb.Gte("kickoff_utc", from.UTC()),
		qb.Lte("kickoff_utc", to.UTC()),
	}
	if len(leagueIDs) > 0 {
		values := make([]any, 0, len(leagueIDs))
		for _, id := range leagueIDs {
			values = append(values, id)
		}
		conditions = append(conditions, qb.In("league_id", values))
	}

	query, args, err := qb.Select("*").From("fixtures").
		Where(conditions...).
		OrderBy("kickoff_utc", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming fixtures query: %w", err)
	}

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select upcoming fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapFixtureRow(row))
	}
	return out, nil
}

func mapFixtureRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		ID:              row.ID,
		LeagueID:        row.LeagueID,
		Season:          row.Season,
		KickoffUTC:      row.KickoffUTC,
		Status:          row.Status,
		HomeTeamID:      row.HomeTeamID,
		HomeTeamName:    row.HomeTeamName,
		AwayTeamID:      row.AwayTeamID,
		AwayTeamName:    row.AwayTeamName,
		Venue:           row.Venue,
		LastRefreshedAt: row.LastRefreshedAt,
	}
}
