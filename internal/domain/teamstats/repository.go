package teamstats

import (
	"context"
	"time"
)

type Repository interface {
	Upsert(ctx context.Context, stats SeasonStats) error
	Get(ctx context.Context, teamID int64, leagueID, season int) (SeasonStats, bool, error)
	ListStale(ctx context.Context, leagueID, season int, cutoff time.Time) ([]SeasonStats, error)
}
