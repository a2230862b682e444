package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/league"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

// FixtureService is the freshness-aware read path over the fixture store.
// Reads in ReadDirect mode never touch the network; ReadFreshnessChecked
// refreshes through the provider when the stored snapshot is stale.
type FixtureService struct {
	provider    SportDataProvider
	fixtureRepo fixture.Repository
	leagueRepo  league.Repository
	staleness   time.Duration
	log         *logging.Logger
	now         func() time.Time
}

func NewFixtureService(
	provider SportDataProvider,
	fixtureRepo fixture.Repository,
	leagueRepo league.Repository,
	staleness time.Duration,
	log *logging.Logger,
) *FixtureService {
	if staleness <= 0 {
		staleness = 3 * time.Hour
	}
	if log == nil {
		log = logging.Default()
	}
	return &FixtureService{
		provider:    provider,
		fixtureRepo: fixtureRepo,
		leagueRepo:  leagueRepo,
		staleness:   staleness,
		log:         log.Named("fixture-service"),
		now:         time.Now,
	}
}

// GetUpcomingFixtures returns fixtures kicking off within the window.
// ReadDirect returns the store content as is, including an empty slice for
// an empty store. ReadFreshnessChecked refreshes first when the newest
// stored snapshot is older than the staleness threshold, or the store is
// empty for the window.
func (s *FixtureService) GetUpcomingFixtures(ctx context.Context, window time.Duration, mode ReadMode) ([]fixture.Fixture, error) {
	ctx, span := startUsecaseSpan(ctx, "FixtureService.GetUpcomingFixtures")
	defer span.End()

	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be positive", ErrInvalidInput)
	}

	leagues, err := s.leagueRepo.ListEnabled(ctx)
	if err != nil {
		return nil, fmt.Errorf("list enabled leagues: %w", err)
	}
	leagueIDs := make([]int, 0, len(leagues))
	for _, l := range leagues {
		leagueIDs = append(leagueIDs, l.ID)
	}

	now := s.now()
	from, to := now, now.Add(window)

	stored, err := s.fixtureRepo.ListUpcomingWindow(ctx, leagueIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("list upcoming fixtures: %w", err)
	}

	if mode == ReadDirect {
		return stored, nil
	}

	if !s.needsRefresh(stored, now) {
		return stored, nil
	}

	if err := s.refresh(ctx, leagues, from, to, now); err != nil {
		return nil, err
	}

	refreshed, err := s.fixtureRepo.ListUpcomingWindow(ctx, leagueIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("list upcoming fixtures after refresh: %w", err)
	}
	return refreshed, nil
}

// needsRefresh applies the staleness policy to the newest stored snapshot.
// An empty window always refreshes.
func (s *FixtureService) needsRefresh(stored []fixture.Fixture, now time.Time) bool {
	if len(stored) == 0 {
		return true
	}
	newest := stored[0]
	for _, f := range stored[1:] {
		if f.LastRefreshedAt.After(newest.LastRefreshedAt) {
			newest = f
		}
	}
	return newest.StaleAt(now, s.staleness)
}

func (s *FixtureService) refresh(ctx context.Context, leagues []league.League, from, to time.Time, now time.Time) error {
	for _, l := range leagues {
		if err := ctx.Err(); err != nil {
			return err
		}

		season := league.SeasonFor(l.ID, now)
		external, err := s.provider.FetchFixtures(ctx, l.ID, season, from, to)
		if err != nil {
			return fmt.Errorf("fetch fixtures league=%d season=%d: %w", l.ID, season, err)
		}
		if len(external) == 0 {
			s.log.DebugContext(ctx, "no fixtures in window", "league_id", l.ID, "season", season)
			continue
		}

		batch := make([]fixture.Fixture, 0, len(external))
		for _, ef := range external {
			batch = append(batch, fixtureFromExternal(ef, now))
		}
		if err := s.fixtureRepo.UpsertBatch(ctx, batch); err != nil {
			return fmt.Errorf("upsert fixtures league=%d: %w", l.ID, err)
		}
		s.log.InfoContext(ctx, "fixtures refreshed", "league_id", l.ID, "season", season, "count", len(batch))
	}
	return nil
}

func fixtureFromExternal(ef ExternalFixture, refreshedAt time.Time) fixture.Fixture {
	return fixture.Fixture{
		ID:              ef.ID,
		LeagueID:        ef.LeagueID,
		Season:          ef.Season,
		KickoffUTC:      ef.KickoffUTC.UTC(),
		Status:          fixture.NormalizeStatus(ef.Status),
		HomeTeamID:      ef.HomeTeamID,
		HomeTeamName:    ef.HomeTeamName,
		AwayTeamID:      ef.AwayTeamID,
		AwayTeamName:    ef.AwayTeamName,
		Venue:           ef.Venue,
		LastRefreshedAt: refreshedAt,
	}
}
