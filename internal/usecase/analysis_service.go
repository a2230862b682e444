package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/league"
	"github.com/riskibarqy/value-radar/internal/domain/odds"
	"github.com/riskibarqy/value-radar/internal/domain/prediction"
	"github.com/riskibarqy/value-radar/internal/domain/teammap"
	"github.com/riskibarqy/value-radar/internal/domain/teamstats"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
	"github.com/riskibarqy/value-radar/internal/platform/id"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

// Enrichment signals may only shift confidence when they agree with the
// model within this probability distance. Anything further apart is treated
// as absent.
const enrichmentMaxDivergence = 0.35

const defaultStatsMaxAge = 24 * time.Hour

// AnalysisResult is one fixture's full model run: the stored prediction and
// every outcome that cleared the edge threshold, still unpersisted.
type AnalysisResult struct {
	Prediction        prediction.Prediction
	Bets              []valuebet.ValueBet
	EnrichmentApplied bool
}

// AnalysisService runs statistics, model and detector for one fixture.
// It owns team statistics freshness and the enrichment consistency gate.
type AnalysisService struct {
	provider       SportDataProvider
	enrichment     EnrichmentProvider
	statsRepo      teamstats.Repository
	predictionRepo prediction.Repository
	oddsRepo       odds.Repository
	leagueRepo     league.Repository
	teammapRepo    teammap.Repository
	detector       *valuebet.Detector
	ids            id.Generator

	minSample   int
	statsMaxAge time.Duration
	log         *logging.Logger
	now         func() time.Time
}

type AnalysisServiceParams struct {
	Provider       SportDataProvider
	Enrichment     EnrichmentProvider
	StatsRepo      teamstats.Repository
	PredictionRepo prediction.Repository
	OddsRepo       odds.Repository
	LeagueRepo     league.Repository
	TeamMapRepo    teammap.Repository
	Detector       *valuebet.Detector
	IDs            id.Generator
	MinSample      int
	StatsMaxAge    time.Duration
	Log            *logging.Logger
}

func NewAnalysisService(p AnalysisServiceParams) *AnalysisService {
	if p.MinSample <= 0 {
		p.MinSample = 3
	}
	if p.StatsMaxAge <= 0 {
		p.StatsMaxAge = defaultStatsMaxAge
	}
	if p.Log == nil {
		p.Log = logging.Default()
	}
	if p.IDs == nil {
		p.IDs = id.NewRandomGenerator()
	}
	return &AnalysisService{
		provider:       p.Provider,
		enrichment:     p.Enrichment,
		statsRepo:      p.StatsRepo,
		predictionRepo: p.PredictionRepo,
		oddsRepo:       p.OddsRepo,
		leagueRepo:     p.LeagueRepo,
		teammapRepo:    p.TeamMapRepo,
		detector:       p.Detector,
		ids:            p.IDs,
		minSample:      p.MinSample,
		statsMaxAge:    p.StatsMaxAge,
		log:            p.Log.Named("analysis-service"),
		now:            time.Now,
	}
}

// AnalyzeFixture loads both teams' statistics, computes the prediction,
// records the latest odds and evaluates every market against it. A fixture
// with no market data returns valuebet.ErrNoMarketData; missing statistics
// return ErrNotFound. Neither case ever substitutes fabricated numbers.
func (s *AnalysisService) AnalyzeFixture(ctx context.Context, fx fixture.Fixture) (AnalysisResult, error) {
	ctx, span := startUsecaseSpan(ctx, "AnalysisService.AnalyzeFixture")
	defer span.End()

	now := s.now()

	home, ok, err := s.loadStats(ctx, fx.HomeTeamID, fx.LeagueID, fx.Season)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("home statistics team=%d: %w", fx.HomeTeamID, err)
	}
	if !ok {
		return AnalysisResult{}, fmt.Errorf("%w: statistics team=%d league=%d season=%d", ErrNotFound, fx.HomeTeamID, fx.LeagueID, fx.Season)
	}

	away, ok, err := s.loadStats(ctx, fx.AwayTeamID, fx.LeagueID, fx.Season)
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("away statistics team=%d: %w", fx.AwayTeamID, err)
	}
	if !ok {
		return AnalysisResult{}, fmt.Errorf("%w: statistics team=%d league=%d season=%d", ErrNotFound, fx.AwayTeamID, fx.LeagueID, fx.Season)
	}

	avgGoals := s.leagueAverage(ctx, fx.LeagueID)

	pred := prediction.Compute(fx.ID, home, away, avgGoals, s.minSample, now)
	predID, err := id.NewPrefixedID(s.ids, "prd")
	if err != nil {
		return AnalysisResult{}, fmt.Errorf("prediction id: %w", err)
	}
	pred.ID = predID
	if err := s.predictionRepo.Insert(ctx, pred); err != nil {
		return AnalysisResult{}, fmt.Errorf("insert prediction: %w", err)
	}

	books, err := s.fetchOdds(ctx, fx.ID, now)
	if err != nil {
		return AnalysisResult{}, err
	}
	if len(books) == 0 {
		return AnalysisResult{Prediction: pred}, valuebet.ErrNoMarketData
	}

	boost, applied := s.enrichmentBoost(ctx, fx, pred, home, away)

	var bets []valuebet.ValueBet
	for _, book := range books {
		found, err := s.detector.Evaluate(pred, book, boost, now)
		if err != nil {
			continue
		}
		for i := range found {
			found[i].KickoffUTC = fx.KickoffUTC
		}
		bets = append(bets, found...)
	}
	if len(bets) == 0 && allBooksEmpty(books) {
		return AnalysisResult{Prediction: pred}, valuebet.ErrNoMarketData
	}

	return AnalysisResult{Prediction: pred, Bets: bets, EnrichmentApplied: applied}, nil
}

// loadStats serves from the store when fresh, refreshes through the provider
// otherwise. A provider "no data" answer falls back to the stored record when
// one exists.
func (s *AnalysisService) loadStats(ctx context.Context, teamID int64, leagueID, season int) (teamstats.SeasonStats, bool, error) {
	stored, exists, err := s.statsRepo.Get(ctx, teamID, leagueID, season)
	if err != nil {
		return teamstats.SeasonStats{}, false, fmt.Errorf("get statistics: %w", err)
	}

	now := s.now()
	if exists && !stored.StaleAt(now, s.statsMaxAge) {
		return stored, true, nil
	}

	fetched, ok, err := s.provider.FetchTeamStatistics(ctx, teamID, leagueID, season)
	if err != nil {
		if exists {
			s.log.WarnContext(ctx, "statistics refresh failed, using stored record",
				"team_id", teamID, "league_id", leagueID, "error", err)
			return stored, true, nil
		}
		return teamstats.SeasonStats{}, false, fmt.Errorf("fetch statistics: %w", err)
	}
	if !ok {
		return stored, exists, nil
	}

	stats := statsFromExternal(fetched, now)
	if err := s.statsRepo.Upsert(ctx, stats); err != nil {
		return teamstats.SeasonStats{}, false, fmt.Errorf("upsert statistics: %w", err)
	}
	return stats, true, nil
}

func (s *AnalysisService) leagueAverage(ctx context.Context, leagueID int) float64 {
	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil || !exists {
		l = league.League{ID: leagueID}
	}
	return l.AvgGoals()
}

// fetchOdds records every returned book before detection so the audit trail
// exists even when no edge clears the threshold.
func (s *AnalysisService) fetchOdds(ctx context.Context, fixtureID int64, now time.Time) ([]odds.Book, error) {
	external, err := s.provider.FetchOdds(ctx, fixtureID)
	if err != nil {
		return nil, fmt.Errorf("fetch odds fixture=%d: %w", fixtureID, err)
	}

	books := make([]odds.Book, 0, len(external))
	for _, eb := range external {
		quotes := make([]odds.Quote, 0, len(eb.Quotes))
		for _, q := range eb.Quotes {
			quotes = append(quotes, odds.Quote{
				Outcome:   odds.Outcome(q.Outcome),
				Price:     q.Price,
				Bookmaker: q.Bookmaker,
			})
		}
		book := odds.Book{
			FixtureID: eb.FixtureID,
			Market:    odds.Market(eb.Market),
			Quotes:    quotes,
			FetchedAt: now,
		}
		if err := s.oddsRepo.RecordBook(ctx, book); err != nil {
			return nil, fmt.Errorf("record odds fixture=%d market=%s: %w", fixtureID, book.Market, err)
		}
		books = append(books, book)
	}
	return books, nil
}

func allBooksEmpty(books []odds.Book) bool {
	for _, b := range books {
		if len(b.BestPrices()) > 0 {
			return false
		}
	}
	return true
}

// enrichmentBoost runs the consistency gate: both teams must be mapped, the
// secondary source must answer for both, every probability must sit in (0,1)
// and the BTTS / over-2.5 pair must stay within enrichmentMaxDivergence of
// the model's values. Anything else is discarded as absent.
func (s *AnalysisService) enrichmentBoost(ctx context.Context, fx fixture.Fixture, pred prediction.Prediction, home, away teamstats.SeasonStats) (float64, bool) {
	if s.enrichment == nil || !s.enrichment.Enabled() {
		return 0, false
	}

	homeMap, ok := s.mapping(ctx, fx.HomeTeamID)
	if !ok {
		return 0, false
	}
	awayMap, ok := s.mapping(ctx, fx.AwayTeamID)
	if !ok {
		return 0, false
	}

	homeEnrich, ok := s.enrichTeam(ctx, homeMap.EnrichmentTeamID)
	if !ok {
		return 0, false
	}
	awayEnrich, ok := s.enrichTeam(ctx, awayMap.EnrichmentTeamID)
	if !ok {
		return 0, false
	}

	enrichBTTS := (homeEnrich.BTTSRate + awayEnrich.BTTSRate) / 2
	enrichOver25 := (homeEnrich.Over25Rate + awayEnrich.Over25Rate) / 2
	if !probabilityOpen(enrichBTTS) || !probabilityOpen(enrichOver25) {
		s.log.WarnContext(ctx, "enrichment discarded, probability out of range",
			"fixture_id", fx.ID, "btts", enrichBTTS, "over25", enrichOver25)
		return 0, false
	}
	if math.Abs(enrichBTTS-pred.BTTSYes) > enrichmentMaxDivergence ||
		math.Abs(enrichOver25-pred.Over25) > enrichmentMaxDivergence {
		s.log.WarnContext(ctx, "enrichment discarded, diverges from model",
			"fixture_id", fx.ID,
			"enrich_btts", enrichBTTS, "model_btts", pred.BTTSYes,
			"enrich_over25", enrichOver25, "model_over25", pred.Over25)
		return 0, false
	}

	quality := (homeEnrich.QualityScore + awayEnrich.QualityScore) / 2
	homeForm := teamstats.FormScore(home.Form, 5)
	awayForm := teamstats.FormScore(away.Form, 5)
	formDiff := math.Abs(homeForm - awayForm)

	s.log.InfoContext(ctx, "enrichment applied",
		"fixture_id", fx.ID,
		"quality", quality,
		"form_advantage", teamstats.FormAdvantage(homeForm, awayForm),
		"home_momentum", teamstats.Momentum(home.Form),
		"away_momentum", teamstats.Momentum(away.Form))

	return valuebet.EnrichmentBoost(quality, formDiff), true
}

func (s *AnalysisService) mapping(ctx context.Context, teamID int64) (teammap.Mapping, bool) {
	m, exists, err := s.teammapRepo.Get(ctx, teamID)
	if err != nil {
		s.log.WarnContext(ctx, "team mapping lookup failed", "team_id", teamID, "error", err)
		return teammap.Mapping{}, false
	}
	return m, exists
}

func (s *AnalysisService) enrichTeam(ctx context.Context, enrichmentTeamID int64) (TeamEnrichment, bool) {
	e, ok, err := s.enrichment.FetchTeam(ctx, enrichmentTeamID)
	if err != nil {
		s.log.DebugContext(ctx, "enrichment fetch skipped", "enrichment_team_id", enrichmentTeamID, "error", err)
		return TeamEnrichment{}, false
	}
	return e, ok
}

func probabilityOpen(p float64) bool {
	return p > 0 && p < 1
}

func statsFromExternal(e ExternalTeamStatistics, fetchedAt time.Time) teamstats.SeasonStats {
	return teamstats.SeasonStats{
		TeamID:           e.TeamID,
		TeamName:         e.TeamName,
		LeagueID:         e.LeagueID,
		Season:           e.Season,
		MatchesHome:      e.MatchesHome,
		MatchesAway:      e.MatchesAway,
		MatchesTotal:     e.MatchesTotal,
		GoalsForHome:     e.GoalsForHome,
		GoalsForAway:     e.GoalsForAway,
		GoalsAgainstHome: e.GoalsAgainstHome,
		GoalsAgainstAway: e.GoalsAgainstAway,
		CleanSheets:      e.CleanSheets,
		FailedToScore:    e.FailedToScore,
		Form:             e.Form,
		FetchedAt:        fetchedAt,
	}
}
