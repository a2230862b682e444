package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/teamstats"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
	"github.com/riskibarqy/value-radar/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

type syncHarness struct {
	svc       *SyncService
	provider  *stubAnalysisProvider
	statsRepo *memory.TeamStatsRepository
}

func newSyncHarness(now time.Time, seed ...teamstats.SeasonStats) *syncHarness {
	provider := &stubAnalysisProvider{stats: map[int64]ExternalTeamStatistics{}}
	statsRepo := memory.NewTeamStatsRepository(seed...)
	leagueRepo := memory.NewLeagueRepository(enabledLeague())

	analysis := NewAnalysisService(AnalysisServiceParams{
		Provider:       provider,
		Enrichment:     &stubEnrichment{},
		StatsRepo:      statsRepo,
		PredictionRepo: memory.NewPredictionRepository(),
		OddsRepo:       memory.NewOddsRepository(),
		LeagueRepo:     leagueRepo,
		TeamMapRepo:    memory.NewTeamMappingRepository(),
		Detector: valuebet.NewDetector(valuebet.Config{
			MinEdge:          0.05,
			MinSampleMatches: 5,
			Bankroll:         decimal.NewFromInt(1000),
			KellyFraction:    0.25,
			MaxStakePct:      0.05,
		}),
		MinSample: 3,
		Log:       logging.NewNop(),
	})
	analysis.now = func() time.Time { return now }

	svc := NewSyncService(provider, leagueRepo, memory.NewFixtureRepository(), statsRepo, analysis, []int{39}, logging.NewNop())
	svc.now = func() time.Time { return now }

	return &syncHarness{svc: svc, provider: provider, statsRepo: statsRepo}
}

func externalStats(teamID int64, name string) ExternalTeamStatistics {
	return ExternalTeamStatistics{
		TeamID:           teamID,
		TeamName:         name,
		LeagueID:         39,
		Season:           2026,
		MatchesHome:      10,
		MatchesAway:      10,
		MatchesTotal:     20,
		GoalsForHome:     15,
		GoalsForAway:     12,
		GoalsAgainstHome: 8,
		GoalsAgainstAway: 11,
		Form:             "WDWLW",
	}
}

func prefetchFixture(id, homeID, awayID int64) fixture.Fixture {
	return fixture.Fixture{
		ID:         id,
		LeagueID:   39,
		Season:     2026,
		Status:     "NS",
		HomeTeamID: homeID,
		AwayTeamID: awayID,
	}
}

func TestSyncService_PrefetchTeamStatistics_DedupsAndStores(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	h := newSyncHarness(now)
	h.provider.stats = map[int64]ExternalTeamStatistics{
		40: externalStats(40, "Liverpool"),
		50: externalStats(50, "Manchester City"),
		60: externalStats(60, "Arsenal"),
	}

	// Team 50 appears in both fixtures and must be fetched once.
	res, err := h.svc.PrefetchTeamStatistics(context.Background(), []fixture.Fixture{
		prefetchFixture(1001, 40, 50),
		prefetchFixture(1002, 50, 60),
	})
	if err != nil {
		t.Fatalf("PrefetchTeamStatistics error: %v", err)
	}
	if res.TeamsRefreshed != 3 {
		t.Fatalf("TeamsRefreshed: got=%d want=3", res.TeamsRefreshed)
	}
	if res.TeamsFailed != 0 {
		t.Fatalf("TeamsFailed: got=%d want=0", res.TeamsFailed)
	}
	if calls := h.provider.statsCalls.Load(); calls != 3 {
		t.Fatalf("provider calls: got=%d want=3", calls)
	}

	for _, teamID := range []int64{40, 50, 60} {
		stored, exists, err := h.statsRepo.Get(context.Background(), teamID, 39, 2026)
		if err != nil || !exists {
			t.Fatalf("team %d not stored after prefetch: exists=%v err=%v", teamID, exists, err)
		}
		if !stored.FetchedAt.Equal(now) {
			t.Fatalf("team %d FetchedAt: got=%v want=%v", teamID, stored.FetchedAt, now)
		}
	}
}

func TestSyncService_PrefetchTeamStatistics_CountsMissingTeams(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	h := newSyncHarness(now)
	h.provider.stats = map[int64]ExternalTeamStatistics{
		40: externalStats(40, "Liverpool"),
	}

	res, err := h.svc.PrefetchTeamStatistics(context.Background(), []fixture.Fixture{
		prefetchFixture(1001, 40, 999),
	})
	if err != nil {
		t.Fatalf("PrefetchTeamStatistics error: %v", err)
	}
	if res.TeamsRefreshed != 1 {
		t.Fatalf("TeamsRefreshed: got=%d want=1", res.TeamsRefreshed)
	}
	if res.TeamsFailed != 1 {
		t.Fatalf("TeamsFailed: got=%d want=1", res.TeamsFailed)
	}
}

func TestSyncService_PrefetchTeamStatistics_NoFixturesIsNoop(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	h := newSyncHarness(now)

	res, err := h.svc.PrefetchTeamStatistics(context.Background(), nil)
	if err != nil {
		t.Fatalf("PrefetchTeamStatistics error: %v", err)
	}
	if res != (SyncResult{}) {
		t.Fatalf("expected an empty result, got %+v", res)
	}
	if calls := h.provider.statsCalls.Load(); calls != 0 {
		t.Fatalf("provider calls: got=%d want=0", calls)
	}
}

func TestSyncService_RefreshStaleStatistics_OnlyStaleRowsRefetched(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	h := newSyncHarness(now,
		seasonStats(40, "Liverpool", 22, 8, now.Add(-48*time.Hour)),
		seasonStats(50, "Manchester City", 14, 14, now.Add(-time.Hour)),
	)
	h.provider.stats = map[int64]ExternalTeamStatistics{
		40: externalStats(40, "Liverpool"),
		50: externalStats(50, "Manchester City"),
	}

	res, err := h.svc.RefreshStaleStatistics(context.Background())
	if err != nil {
		t.Fatalf("RefreshStaleStatistics error: %v", err)
	}
	if res.TeamsRefreshed != 1 {
		t.Fatalf("TeamsRefreshed: got=%d want=1", res.TeamsRefreshed)
	}
	if calls := h.provider.statsCalls.Load(); calls != 1 {
		t.Fatalf("provider calls: got=%d want=1, fresh rows must not be refetched", calls)
	}

	refreshed, _, err := h.statsRepo.Get(context.Background(), 40, 39, 2026)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !refreshed.FetchedAt.Equal(now) {
		t.Fatalf("stale row not refreshed: FetchedAt=%v want=%v", refreshed.FetchedAt, now)
	}
	fresh, _, err := h.statsRepo.Get(context.Background(), 50, 39, 2026)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !fresh.FetchedAt.Equal(now.Add(-time.Hour)) {
		t.Fatalf("fresh row must keep its FetchedAt, got %v", fresh.FetchedAt)
	}
}
