package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/league"
	fixturemock "github.com/riskibarqy/value-radar/internal/mocks/domain/fixture"
	leaguemock "github.com/riskibarqy/value-radar/internal/mocks/domain/league"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

type stubFixtureProvider struct {
	fixtures []ExternalFixture
	err      error
	calls    int
}

func (p *stubFixtureProvider) FetchFixtures(_ context.Context, _, _ int, _, _ time.Time) ([]ExternalFixture, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.fixtures, nil
}

func (p *stubFixtureProvider) FetchTeamStatistics(_ context.Context, _ int64, _, _ int) (ExternalTeamStatistics, bool, error) {
	return ExternalTeamStatistics{}, false, nil
}

func (p *stubFixtureProvider) FetchOdds(_ context.Context, _ int64) ([]ExternalOddsBook, error) {
	return nil, nil
}

func (p *stubFixtureProvider) FetchLeagues(_ context.Context) ([]ExternalLeague, error) {
	return nil, nil
}

func TestFixtureService_GetUpcomingFixtures_DirectNeverFetchesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	provider := &stubFixtureProvider{}
	leagueRepo := leaguemock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)

	// A deliberately ancient snapshot: direct mode must still serve it.
	stored := []fixture.Fixture{{
		ID:              1001,
		LeagueID:        39,
		KickoffUTC:      now.Add(2 * time.Hour),
		Status:          "NS",
		LastRefreshedAt: now.Add(-48 * time.Hour),
	}}

	leagueRepo.On("ListEnabled", mock.Anything).
		Return([]league.League{{ID: 39, Enabled: true}}, nil).Once()
	fixtureRepo.On("ListUpcomingWindow", mock.Anything, []int{39}, now, now.Add(6*time.Hour)).
		Return(stored, nil).Once()

	svc := NewFixtureService(provider, fixtureRepo, leagueRepo, 3*time.Hour, logging.NewNop())
	svc.now = func() time.Time { return now }

	got, err := svc.GetUpcomingFixtures(ctx, 6*time.Hour, ReadDirect)
	if err != nil {
		t.Fatalf("GetUpcomingFixtures error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1001 {
		t.Fatalf("unexpected fixtures: %+v", got)
	}
	if provider.calls != 0 {
		t.Fatalf("direct mode must not reach the provider, calls=%d", provider.calls)
	}
}

func TestFixtureService_GetUpcomingFixtures_FreshnessRefreshesStaleUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	kickoff := now.Add(2 * time.Hour)
	provider := &stubFixtureProvider{fixtures: []ExternalFixture{{
		ID:         1001,
		LeagueID:   39,
		Season:     2026,
		KickoffUTC: kickoff,
		Status:     "NS",
	}}}
	leagueRepo := leaguemock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)

	stale := []fixture.Fixture{{
		ID:              1001,
		LeagueID:        39,
		KickoffUTC:      kickoff,
		Status:          "NS",
		LastRefreshedAt: now.Add(-4 * time.Hour),
	}}
	refreshed := []fixture.Fixture{{
		ID:              1001,
		LeagueID:        39,
		KickoffUTC:      kickoff,
		Status:          "NS",
		LastRefreshedAt: now,
	}}

	leagueRepo.On("ListEnabled", mock.Anything).
		Return([]league.League{{ID: 39, Enabled: true}}, nil).Once()
	fixtureRepo.On("ListUpcomingWindow", mock.Anything, []int{39}, now, now.Add(6*time.Hour)).
		Return(stale, nil).Once()
	fixtureRepo.On("UpsertBatch", mock.Anything, mock.AnythingOfType("[]fixture.Fixture")).
		Return(nil).Once()
	fixtureRepo.On("ListUpcomingWindow", mock.Anything, []int{39}, now, now.Add(6*time.Hour)).
		Return(refreshed, nil).Once()

	svc := NewFixtureService(provider, fixtureRepo, leagueRepo, 3*time.Hour, logging.NewNop())
	svc.now = func() time.Time { return now }

	got, err := svc.GetUpcomingFixtures(ctx, 6*time.Hour, ReadFreshnessChecked)
	if err != nil {
		t.Fatalf("GetUpcomingFixtures error: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("expected 1 provider fetch for a stale window, calls=%d", provider.calls)
	}
	if len(got) != 1 || !got[0].LastRefreshedAt.Equal(now) {
		t.Fatalf("expected the refreshed snapshot, got %+v", got)
	}
}

func TestFixtureService_GetUpcomingFixtures_FreshnessServesFreshStoreUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	provider := &stubFixtureProvider{}
	leagueRepo := leaguemock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)

	fresh := []fixture.Fixture{{
		ID:              1001,
		LeagueID:        39,
		KickoffUTC:      now.Add(2 * time.Hour),
		Status:          "NS",
		LastRefreshedAt: now.Add(-30 * time.Minute),
	}}

	leagueRepo.On("ListEnabled", mock.Anything).
		Return([]league.League{{ID: 39, Enabled: true}}, nil).Once()
	fixtureRepo.On("ListUpcomingWindow", mock.Anything, []int{39}, now, now.Add(6*time.Hour)).
		Return(fresh, nil).Once()

	svc := NewFixtureService(provider, fixtureRepo, leagueRepo, 3*time.Hour, logging.NewNop())
	svc.now = func() time.Time { return now }

	got, err := svc.GetUpcomingFixtures(ctx, 6*time.Hour, ReadFreshnessChecked)
	if err != nil {
		t.Fatalf("GetUpcomingFixtures error: %v", err)
	}
	if provider.calls != 0 {
		t.Fatalf("a fresh snapshot must not trigger a fetch, calls=%d", provider.calls)
	}
	if len(got) != 1 {
		t.Fatalf("unexpected fixtures: %+v", got)
	}
}

func TestFixtureService_GetUpcomingFixtures_EmptyStoreFetchesUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	provider := &stubFixtureProvider{fixtures: []ExternalFixture{{
		ID:         1002,
		LeagueID:   39,
		Season:     2026,
		KickoffUTC: now.Add(3 * time.Hour),
		Status:     "NS",
	}}}
	leagueRepo := leaguemock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)

	leagueRepo.On("ListEnabled", mock.Anything).
		Return([]league.League{{ID: 39, Enabled: true}}, nil).Once()
	fixtureRepo.On("ListUpcomingWindow", mock.Anything, []int{39}, now, now.Add(6*time.Hour)).
		Return(nil, nil).Once()
	fixtureRepo.On("UpsertBatch", mock.Anything, mock.AnythingOfType("[]fixture.Fixture")).
		Return(nil).Once()
	fixtureRepo.On("ListUpcomingWindow", mock.Anything, []int{39}, now, now.Add(6*time.Hour)).
		Return([]fixture.Fixture{{ID: 1002, LeagueID: 39, LastRefreshedAt: now}}, nil).Once()

	svc := NewFixtureService(provider, fixtureRepo, leagueRepo, 3*time.Hour, logging.NewNop())
	svc.now = func() time.Time { return now }

	got, err := svc.GetUpcomingFixtures(ctx, 6*time.Hour, ReadFreshnessChecked)
	if err != nil {
		t.Fatalf("GetUpcomingFixtures error: %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("an empty store must fetch in freshness mode, calls=%d", provider.calls)
	}
	if len(got) != 1 || got[0].ID != 1002 {
		t.Fatalf("unexpected fixtures: %+v", got)
	}
}
