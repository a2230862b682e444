package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/value-radar/internal/domain/teammap"
	qb "github.com/riskibarqy/value-radar/internal/platform/querybuilder"
)

const teamMappingUpsertSuffix = `ON CONFLICT (primary_team_id) DO UPDATE SET
	enrichment_team_id = EXCLUDED.enrichment_team_id,
	team_name = EXCLUDED.team_name,
	confidence = EXCLUDED.confidence,
	verified = EXCLUDED.verified`

type TeamMappingRepository struct {
	db *sqlx.DB
}

func NewTeamMappingRepository(db *sqlx.DB) *TeamMappingRepository {
	return &TeamMappingRepository{db: db}
}

func (r *TeamMappingRepository) Get(ctx context.Context, primaryTeamID int64) (teammap.Mapping, bool, error) {
	query, args, err := qb.Select("*").From("team_mappings").
		Where(qb.Eq("primary_team_id", primaryTeamID)).
		ToSQL()
	if err != nil {
		return teammap.Mapping{}, false, fmt.Errorf("build select team mapping query: %w", err)
	}

	var row teamMappingTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return teammap.Mapping{}, false, nil
		}
		return teammap.Mapping{}, false, fmt.Errorf("select team mapping: %w", err)
	}
	return teammap.Mapping{
		PrimaryTeamID:    row.PrimaryTeamID,
		EnrichmentTeamID: row.EnrichmentTeamID,
		TeamName:         row.TeamName,
		Confidence:       row.Confidence,
		Verified:         row.Verified,
		CreatedAt:        row.CreatedAt,
	}, true, nil
}

func (r *TeamMappingRepository) Upsert(ctx context.Context, mapping teammap.Mapping) error {
	row := teamMappingTableModel{
		PrimaryTeamID:    mapping.PrimaryTeamID,
		EnrichmentTeamID: mapping.EnrichmentTeamID,
		TeamName:         mapping.TeamName,
		Confidence:       mapping.Confidence,
		Verified:         mapping.Verified,
		CreatedAt:        mapping.CreatedAt.UTC(),
	}

	query, args, err := qb.InsertModel("team_mappings", row, teamMappingUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert team mapping query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert team mapping: %w", err)
	}
	return nil
}
