package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	OpsAPIToken             string
	DBURL                   string
	DBDisablePreparedBinary bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	LogLevel                logging.Level

	APIFootballBaseURL               string
	APIFootballKey                   string
	APIFootballTimeout               time.Duration
	APIFootballMaxRetries            int
	APIFootballRateLimit             int
	APIFootballRateWindow            time.Duration
	APIFootballCircuitEnabled        bool
	APIFootballCircuitFailureCount   int
	APIFootballCircuitOpenTimeout    time.Duration
	APIFootballCircuitHalfOpenMaxReq int

	FootyStatsEnabled                bool
	FootyStatsBaseURL                string
	FootyStatsKey                    string
	FootyStatsTimeout                time.Duration
	FootyStatsRateLimit              int
	FootyStatsRateWindow             time.Duration
	FootyStatsCircuitEnabled         bool
	FootyStatsCircuitFailureCount    int
	FootyStatsCircuitOpenTimeout     time.Duration
	FootyStatsCircuitHalfOpenMaxReq  int

	TelegramBotToken string
	TelegramChatID   int64

	AlertHorizon       time.Duration
	CycleInterval      time.Duration
	StalenessThreshold time.Duration
	Lookahead          time.Duration
	MinimumEdge        float64
	MinConfidence      int
	MinSampleMatches   int
	MaxAlertsPerDay    int
	Bankroll           decimal.Decimal
	KellyFraction      float64
	MaxStakePct        float64
	EnabledLeagues     []int
	SummaryHourUTC     int
	ResyncHourUTC      int

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	UptraceLogsEnabled         bool
	UptraceCaptureRequestBody  bool
	UptraceRequestBodyMaxBytes int
	BetterStackEnabled         bool
	BetterStackEndpoint        string
	BetterStackToken           string
	BetterStackTimeout         time.Duration
	BetterStackMinLevel        logging.Level
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}

	dbURL := strings.TrimSpace(getEnv("DATABASE_URL", ""))
	if dbURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	apiFootballKey := strings.TrimSpace(getEnv("APIFOOTBALL_API_KEY", ""))
	if apiFootballKey == "" {
		return Config{}, fmt.Errorf("APIFOOTBALL_API_KEY is required")
	}
	apiFootballTimeout, err := time.ParseDuration(getEnv("APIFOOTBALL_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_TIMEOUT: %w", err)
	}
	if apiFootballTimeout <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_TIMEOUT must be > 0")
	}
	apiFootballMaxRetries, err := getEnvAsInt("APIFOOTBALL_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_MAX_RETRIES: %w", err)
	}
	if apiFootballMaxRetries < 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_MAX_RETRIES must be >= 0")
	}
	apiFootballRateLimit, err := getEnvAsInt("APIFOOTBALL_RATE_LIMIT", 250)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_RATE_LIMIT: %w", err)
	}
	if apiFootballRateLimit < 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_RATE_LIMIT must be >= 1")
	}
	apiFootballRateWindow, err := time.ParseDuration(getEnv("APIFOOTBALL_RATE_WINDOW", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_RATE_WINDOW: %w", err)
	}
	if apiFootballRateWindow <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_RATE_WINDOW must be > 0")
	}
	apiFootballCircuitEnabled, err := strconv.ParseBool(getEnv("APIFOOTBALL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_ENABLED: %w", err)
	}
	apiFootballCircuitFailureCount, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if apiFootballCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	apiFootballCircuitOpenTimeout, err := time.ParseDuration(getEnv("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if apiFootballCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	apiFootballCircuitHalfOpenMaxReq, err := getEnvAsInt("APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if apiFootballCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	footyStatsKey := strings.TrimSpace(getEnv("FOOTYSTATS_API_KEY", ""))
	footyStatsTimeout, err := time.ParseDuration(getEnv("FOOTYSTATS_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_TIMEOUT: %w", err)
	}
	if footyStatsTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTYSTATS_TIMEOUT must be > 0")
	}
	footyStatsRateLimit, err := getEnvAsInt("FOOTYSTATS_RATE_LIMIT", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_RATE_LIMIT: %w", err)
	}
	if footyStatsRateLimit < 1 {
		return Config{}, fmt.Errorf("FOOTYSTATS_RATE_LIMIT must be >= 1")
	}
	footyStatsRateWindow, err := time.ParseDuration(getEnv("FOOTYSTATS_RATE_WINDOW", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_RATE_WINDOW: %w", err)
	}
	if footyStatsRateWindow <= 0 {
		return Config{}, fmt.Errorf("FOOTYSTATS_RATE_WINDOW must be > 0")
	}
	footyStatsCircuitEnabled, err := strconv.ParseBool(getEnv("FOOTYSTATS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_CIRCUIT_ENABLED: %w", err)
	}
	footyStatsCircuitFailureCount, err := getEnvAsInt("FOOTYSTATS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if footyStatsCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("FOOTYSTATS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	footyStatsCircuitOpenTimeout, err := time.ParseDuration(getEnv("FOOTYSTATS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if footyStatsCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("FOOTYSTATS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	footyStatsCircuitHalfOpenMaxReq, err := getEnvAsInt("FOOTYSTATS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse FOOTYSTATS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if footyStatsCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("FOOTYSTATS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	telegramBotToken := strings.TrimSpace(getEnv("TELEGRAM_BOT_TOKEN", ""))
	if telegramBotToken == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	telegramChatID, err := strconv.ParseInt(strings.TrimSpace(getEnv("TELEGRAM_CHAT_ID", "")), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
	}

	alertHorizonMinutes, err := getEnvAsInt("ALERT_HORIZON_MINUTES", 60)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALERT_HORIZON_MINUTES: %w", err)
	}
	if alertHorizonMinutes < 1 {
		return Config{}, fmt.Errorf("ALERT_HORIZON_MINUTES must be >= 1")
	}
	cycleIntervalMinutes, err := getEnvAsInt("CYCLE_INTERVAL_MINUTES", 30)
	if err != nil {
		return Config{}, fmt.Errorf("parse CYCLE_INTERVAL_MINUTES: %w", err)
	}
	if cycleIntervalMinutes < 1 {
		return Config{}, fmt.Errorf("CYCLE_INTERVAL_MINUTES must be >= 1")
	}
	stalenessHours, err := getEnvAsInt("STALENESS_THRESHOLD_HOURS", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse STALENESS_THRESHOLD_HOURS: %w", err)
	}
	if stalenessHours < 1 {
		return Config{}, fmt.Errorf("STALENESS_THRESHOLD_HOURS must be >= 1")
	}
	lookaheadHours, err := getEnvAsInt("LOOKAHEAD_HOURS", 168)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOOKAHEAD_HOURS: %w", err)
	}
	if lookaheadHours < 1 {
		return Config{}, fmt.Errorf("LOOKAHEAD_HOURS must be >= 1")
	}

	minimumEdge, err := getEnvAsFloat("MINIMUM_EDGE", 0.05)
	if err != nil {
		return Config{}, fmt.Errorf("parse MINIMUM_EDGE: %w", err)
	}
	if minimumEdge < 0.01 || minimumEdge > 0.5 {
		return Config{}, fmt.Errorf("MINIMUM_EDGE must be between 0.01 and 0.5, got %v", minimumEdge)
	}
	minConfidence, err := getEnvAsInt("MIN_CONFIDENCE", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse MIN_CONFIDENCE: %w", err)
	}
	if minConfidence < 1 || minConfidence > 5 {
		return Config{}, fmt.Errorf("MIN_CONFIDENCE must be between 1 and 5, got %d", minConfidence)
	}
	minSampleMatches, err := getEnvAsInt("MIN_SAMPLE_MATCHES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse MIN_SAMPLE_MATCHES: %w", err)
	}
	if minSampleMatches < 1 {
		return Config{}, fmt.Errorf("MIN_SAMPLE_MATCHES must be >= 1")
	}
	maxAlertsPerDay, err := getEnvAsInt("MAX_ALERTS_PER_DAY", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_ALERTS_PER_DAY: %w", err)
	}
	if maxAlertsPerDay < 1 {
		return Config{}, fmt.Errorf("MAX_ALERTS_PER_DAY must be >= 1")
	}

	bankroll, err := decimal.NewFromString(getEnv("BANKROLL", "1000"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BANKROLL: %w", err)
	}
	if !bankroll.IsPositive() {
		return Config{}, fmt.Errorf("BANKROLL must be > 0")
	}
	kellyFraction, err := getEnvAsFloat("KELLY_FRACTION", 0.25)
	if err != nil {
		return Config{}, fmt.Errorf("parse KELLY_FRACTION: %w", err)
	}
	if kellyFraction <= 0 || kellyFraction > 0.5 {
		return Config{}, fmt.Errorf("KELLY_FRACTION must be between 0 and 0.5, got %v", kellyFraction)
	}
	maxStakePct, err := getEnvAsFloat("MAX_STAKE_PCT", 0.05)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAX_STAKE_PCT: %w", err)
	}
	if maxStakePct <= 0 || maxStakePct > 1 {
		return Config{}, fmt.Errorf("MAX_STAKE_PCT must be between 0 and 1, got %v", maxStakePct)
	}

	enabledLeagues, err := parseIntList(getEnv("ENABLED_LEAGUES", "262"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ENABLED_LEAGUES: %w", err)
	}
	if len(enabledLeagues) == 0 {
		return Config{}, fmt.Errorf("ENABLED_LEAGUES cannot be empty")
	}

	summaryHourUTC, err := getEnvAsInt("SUMMARY_HOUR_UTC", 9)
	if err != nil {
		return Config{}, fmt.Errorf("parse SUMMARY_HOUR_UTC: %w", err)
	}
	if summaryHourUTC < 0 || summaryHourUTC > 23 {
		return Config{}, fmt.Errorf("SUMMARY_HOUR_UTC must be between 0 and 23, got %d", summaryHourUTC)
	}
	resyncHourUTC, err := getEnvAsInt("RESYNC_HOUR_UTC", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse RESYNC_HOUR_UTC: %w", err)
	}
	if resyncHourUTC < 0 || resyncHourUTC > 23 {
		return Config{}, fmt.Errorf("RESYNC_HOUR_UTC must be between 0 and 23, got %d", resyncHourUTC)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}
	uptraceCaptureRequestBody, err := strconv.ParseBool(getEnv("UPTRACE_CAPTURE_REQUEST_BODY", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_CAPTURE_REQUEST_BODY: %w", err)
	}
	uptraceRequestBodyMaxBytes, err := getEnvAsInt("UPTRACE_REQUEST_BODY_MAX_BYTES", 8192)
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_REQUEST_BODY_MAX_BYTES: %w", err)
	}
	if uptraceRequestBodyMaxBytes <= 0 {
		return Config{}, fmt.Errorf("UPTRACE_REQUEST_BODY_MAX_BYTES must be > 0")
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackEndpoint := strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if betterStackEnabled && betterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}
	if betterStackTimeout <= 0 {
		return Config{}, fmt.Errorf("BETTERSTACK_TIMEOUT must be > 0")
	}
	betterStackMinLevel, err := logging.ParseLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_MIN_LEVEL: %w", err)
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "value-radar-bot"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("HTTP_ADDR", ":8000"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		OpsAPIToken:             strings.TrimSpace(getEnv("OPS_API_TOKEN", "")),
		DBURL:                   dbURL,
		DBDisablePreparedBinary: dbDisablePreparedBinary,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		LogLevel:                logLevel,

		APIFootballBaseURL:               strings.TrimSpace(getEnv("APIFOOTBALL_BASE_URL", "https://v3.football.api-sports.io")),
		APIFootballKey:                   apiFootballKey,
		APIFootballTimeout:               apiFootballTimeout,
		APIFootballMaxRetries:            apiFootballMaxRetries,
		APIFootballRateLimit:             apiFootballRateLimit,
		APIFootballRateWindow:            apiFootballRateWindow,
		APIFootballCircuitEnabled:        apiFootballCircuitEnabled,
		APIFootballCircuitFailureCount:   apiFootballCircuitFailureCount,
		APIFootballCircuitOpenTimeout:    apiFootballCircuitOpenTimeout,
		APIFootballCircuitHalfOpenMaxReq: apiFootballCircuitHalfOpenMaxReq,

		FootyStatsEnabled:               footyStatsKey != "",
		FootyStatsBaseURL:               strings.TrimSpace(getEnv("FOOTYSTATS_BASE_URL", "https://api.football-data-api.com")),
		FootyStatsKey:                   footyStatsKey,
		FootyStatsTimeout:               footyStatsTimeout,
		FootyStatsRateLimit:             footyStatsRateLimit,
		FootyStatsRateWindow:            footyStatsRateWindow,
		FootyStatsCircuitEnabled:        footyStatsCircuitEnabled,
		FootyStatsCircuitFailureCount:   footyStatsCircuitFailureCount,
		FootyStatsCircuitOpenTimeout:    footyStatsCircuitOpenTimeout,
		FootyStatsCircuitHalfOpenMaxReq: footyStatsCircuitHalfOpenMaxReq,

		TelegramBotToken: telegramBotToken,
		TelegramChatID:   telegramChatID,

		AlertHorizon:       time.Duration(alertHorizonMinutes) * time.Minute,
		CycleInterval:      time.Duration(cycleIntervalMinutes) * time.Minute,
		StalenessThreshold: time.Duration(stalenessHours) * time.Hour,
		Lookahead:          time.Duration(lookaheadHours) * time.Hour,
		MinimumEdge:        minimumEdge,
		MinConfidence:      minConfidence,
		MinSampleMatches:   minSampleMatches,
		MaxAlertsPerDay:    maxAlertsPerDay,
		Bankroll:           bankroll,
		KellyFraction:      kellyFraction,
		MaxStakePct:        maxStakePct,
		EnabledLeagues:     enabledLeagues,
		SummaryHourUTC:     summaryHourUTC,
		ResyncHourUTC:      resyncHourUTC,

		PprofEnabled:               pprofEnabled,
		PprofAddr:                  pprofAddr,
		UptraceEnabled:             uptraceEnabled,
		UptraceDSN:                 uptraceDSN,
		UptraceLogsEnabled:         uptraceLogsEnabled,
		UptraceCaptureRequestBody:  uptraceCaptureRequestBody,
		UptraceRequestBodyMaxBytes: uptraceRequestBodyMaxBytes,
		BetterStackEnabled:         betterStackEnabled,
		BetterStackEndpoint:        betterStackEndpoint,
		BetterStackToken:           strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:         betterStackTimeout,
		BetterStackMinLevel:        betterStackMinLevel,
		PyroscopeEnabled:           pyroscopeEnabled,
		PyroscopeServerAddress:     pyroscopeServerAddress,
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:        pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func parseIntList(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	seen := make(map[int]struct{}, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		value, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid list item %q: %w", item, err)
		}
		if value <= 0 {
			return nil, fmt.Errorf("list item must be > 0, got %q", item)
		}
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}

	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	case "development":
		return EnvDev, nil
	case "production":
		return EnvProd, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
