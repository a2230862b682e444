package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/value-radar/internal/domain/teamstats"
	qb "github.com/riskibarqy/value-radar/internal/platform/querybuilder"
)

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

const teamStatsUpsertSuffix = `ON CONFLICT (team_id, league_id, season) DO UPDATE SET
	team_name = EXCLUDED.team_name,
	matches_home = EXCLUDED.matches_home,
	matches_away = EXCLUDED.matches_away,
	matches_total = EXCLUDED.matches_total,
	goals_for_home = EXCLUDED.goals_for_home,
	goals_for_away = EXCLUDED.goals_for_away,
	goals_against_home = EXCLUDED.goals_against_home,
	goals_against_away = EXCLUDED.goals_against_away,
	clean_sheets = EXCLUDED.clean_sheets,
	failed_to_score = EXCLUDED.failed_to_score,
	form = EXCLUDED.form,
	fetched_at = EXCLUDED.fetched_at`

func (r *TeamStatsRepository) Upsert(ctx context.Context, stats teamstats.SeasonStats) error {
	row := teamStatsTableModel{
		TeamID:           stats.TeamID,
		TeamName:         stats.TeamName,
		LeagueID:         stats.LeagueID,
		Season:           stats.Season,
		MatchesHome:      stats.MatchesHome,
		MatchesAway:      stats.MatchesAway,
		MatchesTotal:     stats.MatchesTotal,
		GoalsForHome:     stats.GoalsForHome,
		GoalsForAway:     stats.GoalsForAway,
		GoalsAgainstHome: stats.GoalsAgainstHome,
		GoalsAgainstAway: stats.GoalsAgainstAway,
		CleanSheets:      stats.CleanSheets,
		FailedToScore:    stats.FailedToScore,
		Form:             stats.Form,
		FetchedAt:        stats.FetchedAt.UTC(),
	}

	query, args, err := qb.InsertModel("team_season_stats", row, teamStatsUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert team stats query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team stats: %w", err)
	}
	return nil
}

func (r *TeamStatsRepository) Get(ctx context.Context, teamID int64, leagueID, season int) (teamstats.SeasonStats, bool, error) {
	query, args, err := qb.Select("*").From("team_season_stats").
		Where(
			qb.Eq("team_id", teamID),
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
		).
		ToSQL()
	if err != nil {
		return teamstats.SeasonStats{}, false, fmt.Errorf("build select team stats query: %w", err)
	}

	var row teamStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return teamstats.SeasonStats{}, false, nil
		}
		return teamstats.SeasonStats{}, false, fmt.Errorf("select team stats: %w", err)
	}
	return mapTeamStatsRow(row), true, nil
}

func (r *TeamStatsRepository) ListStale(ctx context.Context, leagueID, season int, cutoff time.Time) ([]teamstats.SeasonStats, error) {
	query, args, err := qb.Select("*").From("team_season_stats").
		Where(
			qb.Eq("league_id", leagueID),
			qb.Eq("season", season),
			qb.Lt("fetched_at", cutoff.UTC()),
		).
		OrderBy("fetched_at", "team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select stale team stats query: %w", err)
	}

	var rows []teamStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select stale team stats: %w", err)
	}

	out := make([]teamstats.SeasonStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTeamStatsRow(row))
	}
	return out, nil
}

func mapTeamStatsRow(row teamStatsTableModel) teamstats.SeasonStats {
	return teamstats.SeasonStats{
		TeamID:           row.TeamID,
		TeamName:         row.TeamName,
		LeagueID:         row.LeagueID,
		Season:           row.Season,
		MatchesHome:      row.MatchesHome,
		MatchesAway:      row.MatchesAway,
		MatchesTotal:     row.MatchesTotal,
		GoalsForHome:     row.GoalsForHome,
		GoalsForAway:     row.GoalsForAway,
		GoalsAgainstHome: row.GoalsAgainstHome,
		GoalsAgainstAway: row.GoalsAgainstAway,
		CleanSheets:      row.CleanSheets,
		FailedToScore:    row.FailedToScore,
		Form:             row.Form,
		FetchedAt:        row.FetchedAt,
	}
}
