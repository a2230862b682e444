package footystats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/value-radar/internal/platform/cache"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
	"github.com/riskibarqy/value-radar/internal/platform/ratelimit"
	"github.com/riskibarqy/value-radar/internal/platform/resilience"
	"github.com/riskibarqy/value-radar/internal/usecase"
)

const (
	defaultBaseURL  = "https://api.football-data-api.com"
	defaultCacheTTL = 6 * time.Hour
)

var keyParamRegex = regexp.MustCompile(`key=[^&\s"']+`)

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	CacheTTL       time.Duration
	Limiter        *ratelimit.Limiter
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client reads the secondary statistics source. Everything here is
// best-effort: the client is disabled without a key, team payloads are
// cached, and any failure surfaces as an error the caller treats as a soft
// skip. The core pipeline never waits on this provider's availability.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	limiter        *ratelimit.Limiter
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	teamCache      *cache.Store
	validate       *validator.Validate
	now            func() time.Time
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
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		limiter:        cfg.Limiter,
		logger:         logger.Named("footystats"),
		breaker:        resilience.NewCircuitBreaker("footystats", breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		teamCache:      cache.NewStore(ttl),
		validate:       validator.New(),
		now:            time.Now,
	}
}

// Enabled reports whether a key is configured. A disabled client makes the
// enrichment path a no-op without any conditionals upstream.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// FetchTeam loads one team's season view from the secondary source. Cached
// per team; ok=false when the provider has nothing usable.
func (c *Client) FetchTeam(ctx context.Context, enrichmentTeamID int64) (usecase.TeamEnrichment, bool, error) {
	if !c.Enabled() {
		return usecase.TeamEnrichment{}, false, nil
	}
	if enrichmentTeamID <= 0 {
		return usecase.TeamEnrichment{}, false, fmt.Errorf("team id must be greater than zero")
	}

	cacheKey := "team:" + strconv.FormatInt(enrichmentTeamID, 10)
	out, err := c.teamCache.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		return c.fetchTeamUncached(ctx, enrichmentTeamID)
	})
	if err != nil {
		return usecase.TeamEnrichment{}, false, err
	}

	enrichment, ok := out.(usecase.TeamEnrichment)
	if !ok || enrichment.TeamID == 0 {
		return usecase.TeamEnrichment{}, false, nil
	}
	return enrichment, true, nil
}

func (c *Client) fetchTeamUncached(ctx context.Context, teamID int64) (usecase.TeamEnrichment, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return usecase.TeamEnrichment{}, fmt.Errorf("enrichment provider unavailable: %v", err)
		}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return usecase.TeamEnrichment{}, err
		}
	}

	values := url.Values{}
	values.Set("key", c.apiKey)
	values.Set("team_id", strconv.FormatInt(teamID, 10))
	values.Set("include", "stats")
	fullURL := c.baseURL + "/team?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return usecase.TeamEnrichment{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		return usecase.TeamEnrichment{}, fmt.Errorf("send request: %s", c.redact(err.Error()))
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	_ = resp.Body.Close()
	if readErr != nil {
		c.recordFailure()
		return usecase.TeamEnrichment{}, fmt.Errorf("read response body: %w", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.recordFailure()
		return usecase.TeamEnrichment{}, fmt.Errorf("provider status=%d", resp.StatusCode)
	}
	c.recordSuccess()

	var envelope teamEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return usecase.TeamEnrichment{}, fmt.Errorf("decode provider payload: %w", err)
	}
	if !envelope.Success || len(envelope.Data) == 0 {
		return usecase.TeamEnrichment{}, nil
	}

	entry := envelope.Data[0]
	if err := c.validate.Struct(entry); err != nil {
		c.logger.DebugContext(ctx, "enrichment payload failed validation", "team_id", teamID, "error", err)
		return usecase.TeamEnrichment{}, nil
	}

	return usecase.TeamEnrichment{
		TeamID:       entry.ID,
		QualityScore: qualityScore(entry.Stats),
		FormScore:    formScore(entry.Stats),
		BTTSRate:     entry.Stats.BTTSPercentage / 100,
		Over25Rate:   entry.Stats.Over25Percentage / 100,
		FetchedAt:    c.now().UTC(),
	}, nil
}

// qualityScore maps season points-per-game onto 0..100, discounted when the
// sample is thin.
func qualityScore(s teamStats) float64 {
	score := s.SeasonPPG / 3 * 100
	if s.MatchesPlayed < 5 {
		score *= 0.5
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// formScore maps the recent-run points-per-game onto 0..100.
func formScore(s teamStats) float64 {
	score := s.Last5PPG / 3 * 100
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func (c *Client) recordFailure() {
	if c.circuitEnabled {
		c.breaker.RecordFailure()
	}
}

func (c *Client) recordSuccess() {
	if c.circuitEnabled {
		c.breaker.RecordSuccess()
	}
}

func (c *Client) redact(value string) string {
	value = strings.TrimSpace(value)
	if c.apiKey != "" {
		value = strings.ReplaceAll(value, c.apiKey, "REDACTED")
	}
	return keyParamRegex.ReplaceAllString(value, "key=REDACTED")
}

// Snapshot exposes breaker and cache state for the ops status endpoint.
func (c *Client) Snapshot() (resilience.CircuitSnapshot, cache.Stats) {
	return c.breaker.Snapshot(), c.teamCache.Stats()
}
