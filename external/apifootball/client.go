package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/value-radar/internal/platform/logging"
	"github.com/riskibarqy/value-radar/internal/platform/ratelimit"
	"github.com/riskibarqy/value-radar/internal/platform/resilience"
	"github.com/riskibarqy/value-radar/internal/usecase"
)

const (
	defaultBaseURL    = "https://v3.football.api-sports.io"
	statusNotStarted  = "NS"
	maxResponseBytes  = 6 << 20
	defaultMaxRetries = 2
)

// Bet catalog ids for the markets the detector understands.
const (
	betMatchWinner    = 1
	betGoalsOverUnder = 5
	betBTTS           = 8
)

var apiKeyHeaderRegex = regexp.MustCompile(`(?i)x-apisports-key:\s*\S+`)
var errTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Limiter        *ratelimit.Limiter
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks API-Football v3. Every request passes the shared rate
// limiter, the circuit breaker and single-flight dedup. Failures map onto
// the pipeline's transient/fatal taxonomy; a malformed payload is "no
// data", never zero values.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	limiter        *ratelimit.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxRetries,
		limiter:        cfg.Limiter,
		logger:         logger.Named("apifootball"),
		breaker:        resilience.NewCircuitBreaker("apifootball", breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// FetchFixtures lists not-started fixtures for a league season inside the
// date window.
func (c *Client) FetchFixtures(ctx context.Context, leagueID, season int, from, to time.Time) ([]usecase.ExternalFixture, error) {
	if leagueID <= 0 || season <= 0 {
		return nil, fmt.Errorf("league and season must be greater than zero")
	}

	query := map[string]string{
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(season),
		"from":   from.UTC().Format("2006-01-02"),
		"to":     to.UTC().Format("2006-01-02"),
		"status": statusNotStarted,
	}

	var envelope fixturesEnvelope
	if err := c.doJSON(ctx, "/fixtures", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch fixtures league=%d season=%d: %w", leagueID, season, err)
	}
	if err := classifyEnvelope(envelope.Errors); err != nil {
		return nil, fmt.Errorf("fetch fixtures league=%d season=%d: %w", leagueID, season, err)
	}

	out := make([]usecase.ExternalFixture, 0, len(envelope.Response))
	for _, entry := range envelope.Response {
		kickoff, ok := parseProviderTime(entry.Fixture.Date)
		if !ok || entry.Fixture.ID <= 0 || entry.Teams.Home.ID <= 0 || entry.Teams.Away.ID <= 0 {
			continue
		}
		out = append(out, usecase.ExternalFixture{
			ID:           entry.Fixture.ID,
			LeagueID:     entry.League.ID,
			Season:       entry.League.Season,
			KickoffUTC:   kickoff,
			Status:       strings.TrimSpace(entry.Fixture.Status.Short),
			HomeTeamID:   entry.Teams.Home.ID,
			HomeTeamName: strings.TrimSpace(entry.Teams.Home.Name),
			AwayTeamID:   entry.Teams.Away.ID,
			AwayTeamName: strings.TrimSpace(entry.Teams.Away.Name),
			Venue:        strings.TrimSpace(entry.Fixture.Venue.Name),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].KickoffUTC.Equal(out[j].KickoffUTC) {
			return out[i].KickoffUTC.Before(out[j].KickoffUTC)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// FetchTeamStatistics returns the season aggregate for one team. A team the
// provider has no rows for reports ok=false with no error.
func (c *Client) FetchTeamStatistics(ctx context.Context, teamID int64, leagueID, season int) (usecase.ExternalTeamStatistics, bool, error) {
	if teamID <= 0 || leagueID <= 0 || season <= 0 {
		return usecase.ExternalTeamStatistics{}, false, fmt.Errorf("team, league and season must be greater than zero")
	}

	query := map[string]string{
		"team":   strconv.FormatInt(teamID, 10),
		"league": strconv.Itoa(leagueID),
		"season": strconv.Itoa(season),
	}

	var envelope teamStatsEnvelope
	if err := c.doJSON(ctx, "/teams/statistics", query, &envelope); err != nil {
		return usecase.ExternalTeamStatistics{}, false, fmt.Errorf("fetch team statistics team=%d: %w", teamID, err)
	}
	if err := classifyEnvelope(envelope.Errors); err != nil {
		return usecase.ExternalTeamStatistics{}, false, fmt.Errorf("fetch team statistics team=%d: %w", teamID, err)
	}
	if !envelope.Response.populated() {
		return usecase.ExternalTeamStatistics{}, false, nil
	}

	entry := envelope.Response
	return usecase.ExternalTeamStatistics{
		TeamID:           entry.Team.ID,
		TeamName:         strings.TrimSpace(entry.Team.Name),
		LeagueID:         entry.League.ID,
		Season:           entry.League.Season,
		MatchesHome:      entry.Fixtures.Played.Home,
		MatchesAway:      entry.Fixtures.Played.Away,
		MatchesTotal:     entry.Fixtures.Played.Total,
		GoalsForHome:     entry.Goals.For.Total.Home,
		GoalsForAway:     entry.Goals.For.Total.Away,
		GoalsAgainstHome: entry.Goals.Against.Total.Home,
		GoalsAgainstAway: entry.Goals.Against.Total.Away,
		CleanSheets:      entry.CleanSheet.Total,
		FailedToScore:    entry.FailedToScore.Total,
		Form:             strings.TrimSpace(entry.Form),
	}, true, nil
}

// FetchOdds collects every bookmaker quote for the markets the detector
// understands. An empty slice means the provider has no odds yet.
func (c *Client) FetchOdds(ctx context.Context, fixtureID int64) ([]usecase.ExternalOddsBook, error) {
	if fixtureID <= 0 {
		return nil, fmt.Errorf("fixture id must be greater than zero")
	}

	query := map[string]string{
		"fixture": strconv.FormatInt(fixtureID, 10),
	}

	var envelope oddsEnvelope
	if err := c.doJSON(ctx, "/odds", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch odds fixture=%d: %w", fixtureID, err)
	}
	if err := classifyEnvelope(envelope.Errors); err != nil {
		return nil, fmt.Errorf("fetch odds fixture=%d: %w", fixtureID, err)
	}

	quotesByMarket := make(map[string][]usecase.ExternalQuote, 3)
	for _, entry := range envelope.Response {
		if entry.Fixture.ID != fixtureID {
			continue
		}
		for _, bookmaker := range entry.Bookmakers {
			name := strings.TrimSpace(bookmaker.Name)
			for _, bet := range bookmaker.Bets {
				market, ok := marketForBet(bet.ID)
				if !ok {
					continue
				}
				for _, value := range bet.Values {
					outcome, ok := outcomeForValue(bet.ID, value.Value)
					if !ok {
						continue
					}
					price, ok := value.price()
					if !ok {
						continue
					}
					quotesByMarket[market] = append(quotesByMarket[market], usecase.ExternalQuote{
						Outcome:   outcome,
						Price:     price,
						Bookmaker: name,
					})
				}
			}
		}
	}

	markets := make([]string, 0, len(quotesByMarket))
	for market := range quotesByMarket {
		markets = append(markets, market)
	}
	sort.Strings(markets)

	out := make([]usecase.ExternalOddsBook, 0, len(markets))
	for _, market := range markets {
		out = append(out, usecase.ExternalOddsBook{
			FixtureID: fixtureID,
			Market:    market,
			Quotes:    quotesByMarket[market],
		})
	}
	return out, nil
}

// FetchLeagues lists the provider's league catalog with each league's
// current season.
func (c *Client) FetchLeagues(ctx context.Context) ([]usecase.ExternalLeague, error) {
	query := map[string]string{"current": "true"}

	var envelope leaguesEnvelope
	if err := c.doJSON(ctx, "/leagues", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch leagues: %w", err)
	}
	if err := classifyEnvelope(envelope.Errors); err != nil {
		return nil, fmt.Errorf("fetch leagues: %w", err)
	}

	out := make([]usecase.ExternalLeague, 0, len(envelope.Response))
	for _, entry := range envelope.Response {
		if entry.League.ID <= 0 || strings.TrimSpace(entry.League.Name) == "" {
			continue
		}
		out = append(out, usecase.ExternalLeague{
			ID:      entry.League.ID,
			Name:    strings.TrimSpace(entry.League.Name),
			Country: strings.TrimSpace(entry.Country.Name),
			Season:  entry.currentSeason(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func marketForBet(betID int) (string, bool) {
	switch betID {
	case betMatchWinner:
		return "1X2", true
	case betGoalsOverUnder:
		return "OU_2_5", true
	case betBTTS:
		return "BTTS", true
	}
	return "", false
}

func outcomeForValue(betID int, value string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch betID {
	case betMatchWinner:
		switch normalized {
		case "home":
			return "HOME", true
		case "draw":
			return "DRAW", true
		case "away":
			return "AWAY", true
		}
	case betGoalsOverUnder:
		switch normalized {
		case "over 2.5":
			return "OVER_2_5", true
		case "under 2.5":
			return "UNDER_2_5", true
		}
	case betBTTS:
		switch normalized {
		case "yes":
			return "BTTS_YES", true
		case "no":
			return "BTTS_NO", true
		}
	}
	return "", false
}

// classifyEnvelope maps the provider's errors object onto the pipeline
// taxonomy. Credential and plan problems are fatal; everything else is
// worth retrying on a later cycle.
func classifyEnvelope(errs apiErrors) error {
	if errs.empty() {
		return nil
	}
	if errs.fatal() {
		return fmt.Errorf("%w: provider rejected credentials: %s", usecase.ErrFatalFetch, errs.message())
	}
	return fmt.Errorf("%w: provider reported: %s", usecase.ErrTransientFetch, errs.message())
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "circuit breaker rejected request", "path", path, "state", c.breaker.State())
			return fmt.Errorf("%w: sport data provider is temporarily unavailable", usecase.ErrTransientFetch)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if crerr.Is(err, errTransient) {
			return fmt.Errorf("%w: %s", usecase.ErrTransientFetch, c.redact(err.Error()))
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

// executeRequest retries transient failures with linear backoff. Rate
// limiting happens per attempt so retries cannot starve the shared quota.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-apisports-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, c.redact(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
				return nil, fmt.Errorf("%w: provider status=%d", usecase.ErrFatalFetch, resp.StatusCode)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: provider request failed", errTransient)
	}
	c.logger.WarnContext(ctx, "request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests || status == http.StatusRequestTimeout {
		return true
	}
	return status >= 500
}

func (c *Client) redact(value string) string {
	value = strings.TrimSpace(value)
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return apiKeyHeaderRegex.ReplaceAllString(value, "x-apisports-key: REDACTED")
}

// Snapshot exposes breaker and limiter state for the ops status endpoint.
func (c *Client) Snapshot() (resilience.CircuitSnapshot, ratelimit.Snapshot) {
	var limiter ratelimit.Snapshot
	if c.limiter != nil {
		limiter = c.limiter.Snapshot()
	}
	return c.breaker.Snapshot(), limiter
}

func abbreviateBody(raw []byte) string {
	const limit = 300
	body := strings.TrimSpace(string(raw))
	if len(body) > limit {
		return body[:limit] + "..."
	}
	return body
}

func parseProviderTime(raw string) (time.Time, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}
