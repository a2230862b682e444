package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/value-radar/internal/domain/league"
	qb "github.com/riskibarqy/value-radar/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

const leagueUpsertSuffix = `ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	country = EXCLUDED.country,
	avg_goals_per_match = EXCLUDED.avg_goals_per_match,
	calendar_year = EXCLUDED.calendar_year,
	enabled = EXCLUDED.enabled`

func (r *LeagueRepository) UpsertBatch(ctx context.Context, leagues []league.League) error {
	if len(leagues) == 0 {
		return nil
	}

	builder := qb.InsertInto("leagues").Columns(
		"id", "name", "country", "avg_goals_per_match", "calendar_year", "enabled",
	)
	for _, l := range leagues {
		builder.Values(l.ID, l.Name, l.Country, l.AvgGoalsPerMatch, l.CalendarYear, l.Enabled)
	}

	query, args, err := builder.Suffix(leagueUpsertSuffix).ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert leagues query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert leagues: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", leagueID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league: %w", err)
	}
	return mapLeagueRow(row), true, nil
}

func (r *LeagueRepository) ListEnabled(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("enabled", true)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select enabled leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select enabled leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapLeagueRow(row))
	}
	return out, nil
}

func mapLeagueRow(row leagueTableModel) league.League {
	return league.League{
		ID:               row.ID,
		Name:             row.Name,
		Country:          row.Country,
		AvgGoalsPerMatch: row.AvgGoalsPerMatch,
		CalendarYear:     row.CalendarYear,
		Enabled:          row.Enabled,
	}
}
