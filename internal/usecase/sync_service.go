package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/league"
	"github.com/riskibarqy/value-radar/internal/domain/teamstats"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

const defaultSyncWorkers = 4

// SyncResult summarizes one league/statistics synchronization run.
type SyncResult struct {
	LeaguesSynced  int
	TeamsRefreshed int
	TeamsFailed    int
}

// SyncService keeps leagues and team statistics current. League sync runs at
// startup and daily; statistics prefetch fans out over a bounded worker pool
// while the provider rate limiter still serializes the quota.
type SyncService struct {
	provider    SportDataProvider
	leagueRepo  league.Repository
	fixtureRepo fixture.Repository
	statsRepo   teamstats.Repository
	analysis    *AnalysisService

	enabledLeagues []int
	workers        int
	log            *logging.Logger
	now            func() time.Time
}

func NewSyncService(
	provider SportDataProvider,
	leagueRepo league.Repository,
	fixtureRepo fixture.Repository,
	statsRepo teamstats.Repository,
	analysis *AnalysisService,
	enabledLeagues []int,
	log *logging.Logger,
) *SyncService {
	if log == nil {
		log = logging.Default()
	}
	return &SyncService{
		provider:       provider,
		leagueRepo:     leagueRepo,
		fixtureRepo:    fixtureRepo,
		statsRepo:      statsRepo,
		analysis:       analysis,
		enabledLeagues: enabledLeagues,
		workers:        defaultSyncWorkers,
		log:            log.Named("sync-service"),
		now:            time.Now,
	}
}

// SyncLeagues pulls the provider's league catalog and upserts the configured
// set, enabled. Leagues the provider no longer lists keep their stored row.
func (s *SyncService) SyncLeagues(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.SyncLeagues")
	defer span.End()

	external, err := s.provider.FetchLeagues(ctx)
	if err != nil {
		return SyncResult{}, fmt.Errorf("fetch leagues: %w", err)
	}

	enabled := make(map[int]bool, len(s.enabledLeagues))
	for _, id := range s.enabledLeagues {
		enabled[id] = true
	}

	batch := make([]league.League, 0, len(s.enabledLeagues))
	for _, el := range external {
		if !enabled[el.ID] {
			continue
		}
		batch = append(batch, league.League{
			ID:           el.ID,
			Name:         el.Name,
			Country:      el.Country,
			CalendarYear: league.IsCalendarYear(el.ID),
			Enabled:      true,
		})
	}
	if len(batch) == 0 {
		s.log.WarnContext(ctx, "provider returned none of the enabled leagues",
			"enabled", s.enabledLeagues)
		return SyncResult{}, nil
	}

	if err := s.leagueRepo.UpsertBatch(ctx, batch); err != nil {
		return SyncResult{}, fmt.Errorf("upsert leagues: %w", err)
	}
	s.log.InfoContext(ctx, "leagues synced", "count", len(batch))
	return SyncResult{LeaguesSynced: len(batch)}, nil
}

type statsTarget struct {
	teamID   int64
	leagueID int
	season   int
}

// PrefetchTeamStatistics warms season statistics for every team appearing in
// the upcoming window so cycle-time analysis rarely waits on the provider.
func (s *SyncService) PrefetchTeamStatistics(ctx context.Context, fixtures []fixture.Fixture) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.PrefetchTeamStatistics")
	defer span.End()

	seen := make(map[int64]bool)
	var targets []statsTarget
	for _, fx := range fixtures {
		for _, teamID := range []int64{fx.HomeTeamID, fx.AwayTeamID} {
			if seen[teamID] {
				continue
			}
			seen[teamID] = true
			targets = append(targets, statsTarget{teamID: teamID, leagueID: fx.LeagueID, season: fx.Season})
		}
	}

	result, err := s.refreshTargets(ctx, targets)
	if err != nil {
		return SyncResult{}, err
	}
	if len(targets) > 0 {
		s.log.InfoContext(ctx, "team statistics prefetched",
			"teams", len(targets), "refreshed", result.TeamsRefreshed, "failed", result.TeamsFailed)
	}
	return result, nil
}

// RefreshStaleStatistics re-fetches stored season statistics that have aged
// past the analysis freshness window, one enabled league at a time. Runs with
// the daily resync so quiet teams do not drift stale between fixtures.
func (s *SyncService) RefreshStaleStatistics(ctx context.Context) (SyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "SyncService.RefreshStaleStatistics")
	defer span.End()

	now := s.now()
	cutoff := now.Add(-s.analysis.statsMaxAge)

	var targets []statsTarget
	for _, leagueID := range s.enabledLeagues {
		season := league.SeasonFor(leagueID, now)
		stale, err := s.statsRepo.ListStale(ctx, leagueID, season, cutoff)
		if err != nil {
			return SyncResult{}, fmt.Errorf("list stale statistics league=%d: %w", leagueID, err)
		}
		for _, st := range stale {
			targets = append(targets, statsTarget{teamID: st.TeamID, leagueID: leagueID, season: season})
		}
	}

	result, err := s.refreshTargets(ctx, targets)
	if err != nil {
		return SyncResult{}, err
	}
	if len(targets) > 0 {
		s.log.InfoContext(ctx, "stale statistics refreshed",
			"teams", len(targets), "refreshed", result.TeamsRefreshed, "failed", result.TeamsFailed)
	}
	return result, nil
}

// refreshTargets fans the loads out over a bounded pool. The provider rate
// limiter still serializes the quota, so the pool bounds memory, not rate.
func (s *SyncService) refreshTargets(ctx context.Context, targets []statsTarget) (SyncResult, error) {
	if len(targets) == 0 {
		return SyncResult{}, nil
	}

	var refreshed atomic.Int32
	var failed atomic.Int32

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return SyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, t := range targets {
		t := t
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if ctx.Err() != nil {
				return
			}
			if _, ok, err := s.analysis.loadStats(ctx, t.teamID, t.leagueID, t.season); err != nil || !ok {
				failed.Add(1)
				return
			}
			refreshed.Add(1)
		}); err != nil {
			workers.Done()
			return SyncResult{}, fmt.Errorf("submit refresh task: %w", err)
		}
	}
	workers.Wait()

	return SyncResult{
		TeamsRefreshed: int(refreshed.Load()),
		TeamsFailed:    int(failed.Load()),
	}, nil
}
