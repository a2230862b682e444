// Package cache wraps read-mostly repositories with an in-process TTL store.
// Only tables whose rows change rarely between scheduler cycles are wrapped;
// bet and notification state is always read straight from storage.
package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/league"
	"github.com/riskibarqy/value-radar/internal/domain/teammap"
	"github.com/riskibarqy/value-radar/internal/domain/teamstats"
	basecache "github.com/riskibarqy/value-radar/internal/platform/cache"
)

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) UpsertBatch(ctx context.Context, leagues []league.League) error {
	if err := r.next.UpsertBatch(ctx, leagues); err != nil {
		return err
	}
	r.cache.Delete(ctx, "league:enabled")
	for _, l := range leagues {
		r.cache.Delete(ctx, leagueByIDKey(l.ID))
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int) (league.League, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, leagueByIDKey(leagueID), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, leagueID)
		if err != nil {
			return nil, err
		}
		return cachedLeagueByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeagueByID)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) ListEnabled(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:enabled", func(ctx context.Context) (any, error) {
		items, err := r.next.ListEnabled(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

type cachedLeagueByID struct {
	value  league.League
	exists bool
}

func leagueByIDKey(leagueID int) string {
	return "league:id:" + strconv.Itoa(leagueID)
}

type TeamStatsRepository struct {
	next  teamstats.Repository
	cache *basecache.Store
}

func NewTeamStatsRepository(next teamstats.Repository, cache *basecache.Store) *TeamStatsRepository {
	return &TeamStatsRepository{next: next, cache: cache}
}

func (r *TeamStatsRepository) Upsert(ctx context.Context, stats teamstats.SeasonStats) error {
	if err := r.next.Upsert(ctx, stats); err != nil {
		return err
	}
	r.cache.Delete(ctx, teamStatsKey(stats.TeamID, stats.LeagueID, stats.Season))
	return nil
}

func (r *TeamStatsRepository) Get(ctx context.Context, teamID int64, leagueID, season int) (teamstats.SeasonStats, bool, error) {
	key := teamStatsKey(teamID, leagueID, season)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx, teamID, leagueID, season)
		if err != nil {
			return nil, err
		}
		return cachedTeamStats{value: item, exists: exists}, nil
	})
	if err != nil {
		return teamstats.SeasonStats{}, false, err
	}

	cached, _ := v.(cachedTeamStats)
	return cached.value, cached.exists, nil
}

// ListStale bypasses the cache: staleness sweeps must see current rows.
func (r *TeamStatsRepository) ListStale(ctx context.Context, leagueID, season int, cutoff time.Time) ([]teamstats.SeasonStats, error) {
	return r.next.ListStale(ctx, leagueID, season, cutoff)
}

type cachedTeamStats struct {
	value  teamstats.SeasonStats
	exists bool
}

func teamStatsKey(teamID int64, leagueID, season int) string {
	return "team-stats:" + strconv.FormatInt(teamID, 10) + ":" + strconv.Itoa(leagueID) + ":" + strconv.Itoa(season)
}

type TeamMappingRepository struct {
	next  teammap.Repository
	cache *basecache.Store
}

func NewTeamMappingRepository(next teammap.Repository, cache *basecache.Store) *TeamMappingRepository {
	return &TeamMappingRepository{next: next, cache: cache}
}

func (r *TeamMappingRepository) Get(ctx context.Context, primaryTeamID int64) (teammap.Mapping, bool, error) {
	key := "team-map:" + strconv.FormatInt(primaryTeamID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.Get(ctx, primaryTeamID)
		if err != nil {
			return nil, err
		}
		return cachedTeamMapping{value: item, exists: exists}, nil
	})
	if err != nil {
		return teammap.Mapping{}, false, err
	}

	cached, _ := v.(cachedTeamMapping)
	return cached.value, cached.exists, nil
}

func (r *TeamMappingRepository) Upsert(ctx context.Context, mapping teammap.Mapping) error {
	if err := r.next.Upsert(ctx, mapping); err != nil {
		return err
	}
	r.cache.Delete(ctx, "team-map:"+strconv.FormatInt(mapping.PrimaryTeamID, 10))
	return nil
}

type cachedTeamMapping struct {
	value  teammap.Mapping
	exists bool
}
