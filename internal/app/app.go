package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/riskibarqy/value-radar/external/apifootball"
	"github.com/riskibarqy/value-radar/external/footystats"
	"github.com/riskibarqy/value-radar/internal/config"
	"github.com/riskibarqy/value-radar/internal/domain/league"
	"github.com/riskibarqy/value-radar/internal/domain/teammap"
	"github.com/riskibarqy/value-radar/internal/domain/teamstats"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
	cacherepo "github.com/riskibarqy/value-radar/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/value-radar/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/value-radar/internal/interfaces/opsapi"
	"github.com/riskibarqy/value-radar/internal/notifier/telegram"
	platformcache "github.com/riskibarqy/value-radar/internal/platform/cache"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
	"github.com/riskibarqy/value-radar/internal/platform/ratelimit"
	"github.com/riskibarqy/value-radar/internal/platform/resilience"
	"github.com/riskibarqy/value-radar/internal/usecase"
)

// App owns every long-lived component: the database handle, the detection
// scheduler and the ops HTTP server. Run blocks until the context is
// cancelled, then shuts everything down in order.
type App struct {
	cfg       config.Config
	log       *logging.Logger
	db        *sqlx.DB
	scheduler *usecase.SchedulerService
	alerts    *usecase.AlertService
	server    *http.Server
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	fixtureRepo := postgres.NewFixtureRepository(db)
	oddsRepo := postgres.NewOddsRepository(db)
	predictionRepo := postgres.NewPredictionRepository(db)
	betRepo := postgres.NewValueBetRepository(db)
	notifRepo := postgres.NewNotificationRepository(db)
	cycleRepo := postgres.NewCycleLogRepository(db)

	var leagueRepo league.Repository = postgres.NewLeagueRepository(db)
	var statsRepo teamstats.Repository = postgres.NewTeamStatsRepository(db)
	var teamMapRepo teammap.Repository = postgres.NewTeamMappingRepository(db)
	if cfg.CacheEnabled {
		store := platformcache.NewStore(cfg.CacheTTL)
		leagueRepo = cacherepo.NewLeagueRepository(leagueRepo, store)
		statsRepo = cacherepo.NewTeamStatsRepository(statsRepo, store)
		teamMapRepo = cacherepo.NewTeamMappingRepository(teamMapRepo, store)
	}

	primary := apifootball.NewClient(apifootball.ClientConfig{
		HTTPClient: tracedHTTPClient(cfg.APIFootballTimeout),
		BaseURL:    cfg.APIFootballBaseURL,
		APIKey:     cfg.APIFootballKey,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Limiter:    ratelimit.New("apifootball", cfg.APIFootballRateLimit, cfg.APIFootballRateWindow),
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	footyStatsKey := cfg.FootyStatsKey
	if !cfg.FootyStatsEnabled {
		footyStatsKey = ""
	}
	enrichment := footystats.NewClient(footystats.ClientConfig{
		HTTPClient: tracedHTTPClient(cfg.FootyStatsTimeout),
		BaseURL:    cfg.FootyStatsBaseURL,
		APIKey:     footyStatsKey,
		Timeout:    cfg.FootyStatsTimeout,
		CacheTTL:   cfg.CacheTTL,
		Limiter:    ratelimit.New("footystats", cfg.FootyStatsRateLimit, cfg.FootyStatsRateWindow),
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FootyStatsCircuitEnabled,
			FailureThreshold: cfg.FootyStatsCircuitFailureCount,
			OpenTimeout:      cfg.FootyStatsCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.FootyStatsCircuitHalfOpenMaxReq,
		},
	})

	deliverer, err := telegram.NewDeliverer(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("build telegram deliverer: %w", err)
	}

	detector := valuebet.NewDetector(valuebet.Config{
		MinEdge:          cfg.MinimumEdge,
		MinSampleMatches: cfg.MinSampleMatches,
		Bankroll:         cfg.Bankroll,
		KellyFraction:    cfg.KellyFraction,
		MaxStakePct:      cfg.MaxStakePct,
	})

	fixtures := usecase.NewFixtureService(primary, fixtureRepo, leagueRepo, cfg.StalenessThreshold, logger)
	analysis := usecase.NewAnalysisService(usecase.AnalysisServiceParams{
		Provider:       primary,
		Enrichment:     enrichment,
		StatsRepo:      statsRepo,
		PredictionRepo: predictionRepo,
		OddsRepo:       oddsRepo,
		LeagueRepo:     leagueRepo,
		TeamMapRepo:    teamMapRepo,
		Detector:       detector,
		MinSample:      cfg.MinSampleMatches,
		Log:            logger,
	})
	alerts := usecase.NewAlertService(usecase.AlertServiceParams{
		BetRepo:         betRepo,
		NotifRepo:       notifRepo,
		FixtureRepo:     fixtureRepo,
		Deliverer:       deliverer,
		Renderer:        telegram.NewFormatter(),
		MinConfidence:   cfg.MinConfidence,
		MaxAlertsPerDay: cfg.MaxAlertsPerDay,
		Log:             logger,
	})
	syncSvc := usecase.NewSyncService(primary, leagueRepo, fixtureRepo, statsRepo, analysis, cfg.EnabledLeagues, logger)
	scheduler := usecase.NewSchedulerService(usecase.SchedulerServiceParams{
		Fixtures:      fixtures,
		Analysis:      analysis,
		Alerts:        alerts,
		Sync:          syncSvc,
		BetRepo:       betRepo,
		Cycles:        cycleRepo,
		CycleInterval: cfg.CycleInterval,
		AlertHorizon:  cfg.AlertHorizon,
		Lookahead:     cfg.Lookahead,
		SummaryHour:   cfg.SummaryHourUTC,
		ResyncHour:    cfg.ResyncHourUTC,
		Log:           logger,
	})

	handler := opsapi.NewHandler(scheduler, primary, enrichment, logger)
	router := opsapi.NewRouter(handler, logger, cfg.OpsAPIToken)
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		_ = db.Close()
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{
		cfg:       cfg,
		log:       logger.Named("app"),
		db:        db,
		scheduler: scheduler,
		alerts:    alerts,
		server:    server,
	}, nil
}

// Run announces the service, starts the ops HTTP server and blocks in the
// scheduler loop until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.alerts.NotifyStartup(ctx, a.cfg.ServiceName, a.cfg.ServiceVersion, a.cfg.EnabledLeagues)

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info("ops server starting", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	schedulerDone := make(chan error, 1)
	go func() {
		schedulerDone <- a.scheduler.Run(ctx)
	}()

	var runErr error
	select {
	case runErr = <-serverErr:
		a.log.Error("ops server failed", "error", runErr)
	case runErr = <-schedulerDone:
	case <-ctx.Done():
		runErr = <-schedulerDone
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.log.Error("ops server shutdown failed", "error", err)
	}
	if err := a.db.Close(); err != nil {
		a.log.Error("close database failed", "error", err)
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}
	return nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", dsn, opts...)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// tracedHTTPClient gives provider clients an otel-instrumented transport so
// outbound calls show up as spans next to the database and server traces.
func tracedHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
