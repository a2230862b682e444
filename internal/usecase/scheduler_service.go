package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/panics"

	"github.com/riskibarqy/value-radar/internal/domain/cyclelog"
	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
	"github.com/riskibarqy/value-radar/internal/platform/id"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
)

// SchedulerStatus is the ops-facing snapshot of the loop.
type SchedulerStatus struct {
	Running     bool
	Degraded    bool
	CyclesRun   int64
	LastCycle   *cyclelog.Record
	NextCycleAt time.Time
}

// CycleStats is what one cycle run reports back.
type CycleStats struct {
	FixturesExamined int
	FixturesAnalyzed int
	BetsDetected     int
	AlertsSent       int
	AlertsFailed     int
	SkippedNoData    int
}

// SchedulerService drives the detection loop. One goroutine owns the loop so
// cycles never overlap; a tick that arrives mid-cycle simply waits for the
// next one. Stop is cooperative: cancellation is observed between fixtures
// and the in-flight fixture always completes its send-then-persist sequence.
type SchedulerService struct {
	fixtures *FixtureService
	analysis *AnalysisService
	alerts   *AlertService
	sync     *SyncService
	betRepo  valuebet.Repository
	cycles   cyclelog.Repository
	ids      id.Generator

	cycleInterval time.Duration
	alertHorizon  time.Duration
	lookahead     time.Duration
	summaryHour   int
	resyncHour    int

	log *logging.Logger
	now func() time.Time

	mu        sync.Mutex
	runNow    chan string
	running   atomic.Bool
	degraded  atomic.Bool
	cyclesRun atomic.Int64
	nextAt    atomic.Pointer[time.Time]
}

type SchedulerServiceParams struct {
	Fixtures *FixtureService
	Analysis *AnalysisService
	Alerts   *AlertService
	Sync     *SyncService
	BetRepo  valuebet.Repository
	Cycles   cyclelog.Repository
	IDs      id.Generator

	CycleInterval time.Duration
	AlertHorizon  time.Duration
	Lookahead     time.Duration
	SummaryHour   int
	ResyncHour    int
	Log           *logging.Logger
}

func NewSchedulerService(p SchedulerServiceParams) *SchedulerService {
	if p.CycleInterval <= 0 {
		p.CycleInterval = 30 * time.Minute
	}
	if p.AlertHorizon <= 0 {
		p.AlertHorizon = time.Hour
	}
	if p.Lookahead <= 0 {
		p.Lookahead = 168 * time.Hour
	}
	if p.Log == nil {
		p.Log = logging.Default()
	}
	if p.IDs == nil {
		p.IDs = id.NewRandomGenerator()
	}
	return &SchedulerService{
		fixtures:      p.Fixtures,
		analysis:      p.Analysis,
		alerts:        p.Alerts,
		sync:          p.Sync,
		betRepo:       p.BetRepo,
		cycles:        p.Cycles,
		ids:           p.IDs,
		cycleInterval: p.CycleInterval,
		alertHorizon:  p.AlertHorizon,
		lookahead:     p.Lookahead,
		summaryHour:   p.SummaryHour,
		resyncHour:    p.ResyncHour,
		log:           p.Log.Named("scheduler"),
		now:           time.Now,
		runNow:        make(chan string, 1),
	}
}

// Run blocks until ctx is cancelled. It syncs the league catalog, executes a
// startup cycle, then one cycle per interval plus any manual triggers, plus
// the daily summary and league resync at their configured UTC hours.
func (s *SchedulerService) Run(ctx context.Context) error {
	s.running.Store(true)
	defer s.running.Store(false)

	// A fresh store has no enabled leagues, so the startup cycle would find
	// nothing to examine. A failed sync is retried at the daily resync hour.
	if _, err := s.sync.SyncLeagues(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.log.ErrorContext(ctx, "startup league sync failed", "error", err)
	}

	if _, err := s.RunCycle(ctx, cyclelog.TriggerStartup); err != nil && !errors.Is(err, context.Canceled) {
		s.log.ErrorContext(ctx, "startup cycle failed", "error", err)
	}

	ticker := time.NewTicker(s.cycleInterval)
	defer ticker.Stop()
	daily := time.NewTicker(time.Minute)
	defer daily.Stop()

	s.storeNextAt(s.now().Add(s.cycleInterval))

	var lastSummaryDay, lastResyncDay int
	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.RunCycle(ctx, cyclelog.TriggerInterval); err != nil && !errors.Is(err, context.Canceled) {
				s.log.ErrorContext(ctx, "cycle failed", "error", err)
			}
			s.storeNextAt(s.now().Add(s.cycleInterval))
		case trigger := <-s.runNow:
			if _, err := s.RunCycle(ctx, trigger); err != nil && !errors.Is(err, context.Canceled) {
				s.log.ErrorContext(ctx, "manual cycle failed", "error", err)
			}
		case <-daily.C:
			now := s.now().UTC()
			if now.Hour() == s.summaryHour && now.YearDay() != lastSummaryDay {
				lastSummaryDay = now.YearDay()
				if err := s.alerts.SendSummary(ctx); err != nil {
					s.log.ErrorContext(ctx, "daily summary failed", "error", err)
				}
			}
			if now.Hour() == s.resyncHour && now.YearDay() != lastResyncDay {
				lastResyncDay = now.YearDay()
				if _, err := s.sync.SyncLeagues(ctx); err != nil {
					s.log.ErrorContext(ctx, "daily league resync failed", "error", err)
				}
				if _, err := s.sync.RefreshStaleStatistics(ctx); err != nil {
					s.log.ErrorContext(ctx, "stale statistics refresh failed", "error", err)
				}
			}
		}
	}
}

// TriggerCycle queues a manual run. Returns false when a manual run is
// already queued.
func (s *SchedulerService) TriggerCycle() bool {
	select {
	case s.runNow <- cyclelog.TriggerManual:
		return true
	default:
		return false
	}
}

func (s *SchedulerService) Status() SchedulerStatus {
	status := SchedulerStatus{
		Running:   s.running.Load(),
		Degraded:  s.degraded.Load(),
		CyclesRun: s.cyclesRun.Load(),
	}
	if next := s.nextAt.Load(); next != nil {
		status.NextCycleAt = *next
	}
	if last, exists, err := s.cycles.GetLatest(context.Background()); err == nil && exists {
		status.LastCycle = &last
	}
	return status
}

// RunCycle executes one full detection cycle. Serialized by a mutex so a
// manual trigger can never overlap an interval run.
func (s *SchedulerService) RunCycle(ctx context.Context, trigger string) (CycleStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := startUsecaseSpan(ctx, "SchedulerService.RunCycle")
	defer span.End()

	started := s.now()
	recordID, err := id.NewPrefixedID(s.ids, "cyc")
	if err != nil {
		return CycleStats{}, fmt.Errorf("cycle id: %w", err)
	}
	record := cyclelog.Record{
		ID:        recordID,
		Trigger:   trigger,
		StartedAt: started,
		Status:    cyclelog.StatusRunning,
	}
	if err := s.cycles.Insert(ctx, record); err != nil {
		s.log.WarnContext(ctx, "cycle record insert failed", "error", err)
	}

	stats, runErr := s.runCycleBody(ctx)

	finished := s.now()
	record.FinishedAt = &finished
	record.FixturesExamined = stats.FixturesExamined
	record.FixturesAnalyzed = stats.FixturesAnalyzed
	record.BetsDetected = stats.BetsDetected
	record.AlertsSent = stats.AlertsSent
	record.AlertsFailed = stats.AlertsFailed
	record.SkippedNoData = stats.SkippedNoData
	record.Status = cyclelog.StatusSucceeded
	if runErr != nil {
		record.Status = cyclelog.StatusFailed
		record.ErrorMessage = runErr.Error()
	}
	if err := s.cycles.Update(ctx, record); err != nil {
		s.log.WarnContext(ctx, "cycle record update failed", "error", err)
	}

	s.cyclesRun.Add(1)
	s.log.InfoContext(ctx, "cycle finished",
		"trigger", trigger,
		"status", record.Status,
		"examined", stats.FixturesExamined,
		"analyzed", stats.FixturesAnalyzed,
		"detected", stats.BetsDetected,
		"sent", stats.AlertsSent,
		"failed", stats.AlertsFailed,
		"no_data", stats.SkippedNoData,
		"duration", finished.Sub(started))
	return stats, runErr
}

func (s *SchedulerService) runCycleBody(ctx context.Context) (CycleStats, error) {
	var stats CycleStats

	if expired, err := s.betRepo.MarkExpired(ctx, s.now()); err != nil {
		s.log.WarnContext(ctx, "expire sweep failed", "error", err)
	} else if expired > 0 {
		s.log.InfoContext(ctx, "unsent bets expired", "count", expired)
	}

	upcoming, err := s.fixtures.GetUpcomingFixtures(ctx, s.lookahead, ReadFreshnessChecked)
	if err != nil {
		if errors.Is(err, ErrFatalFetch) {
			s.enterDegraded(ctx, err)
		}
		return stats, fmt.Errorf("collect fixtures: %w", err)
	}
	stats.FixturesExamined = len(upcoming)

	now := s.now()
	var selected []fixture.Fixture
	for _, fx := range upcoming {
		if fixture.IsUpcoming(fx.Status) && fx.WithinAlertWindow(now, s.alertHorizon) {
			selected = append(selected, fx)
		}
	}
	if len(selected) == 0 {
		s.degraded.Store(false)
		return stats, nil
	}

	// Warm statistics for the selected fixtures so the per-fixture loop below
	// rarely waits on the provider. Prefetch failures are not cycle failures;
	// loadStats retries inline during analysis.
	if _, err := s.sync.PrefetchTeamStatistics(ctx, selected); err != nil {
		s.log.WarnContext(ctx, "statistics prefetch failed", "error", err)
	}

	for _, fx := range selected {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var (
			result AnalysisResult
			runErr error
		)
		var catcher panics.Catcher
		catcher.Try(func() {
			result, runErr = s.analysis.AnalyzeFixture(ctx, fx)
		})
		if recovered := catcher.Recovered(); recovered != nil {
			s.log.ErrorContext(ctx, "fixture analysis panicked",
				"fixture_id", fx.ID, "panic", recovered.String())
			continue
		}

		switch {
		case runErr == nil:
		case errors.Is(runErr, valuebet.ErrNoMarketData):
			stats.SkippedNoData++
			s.log.InfoContext(ctx, "no market data", "fixture_id", fx.ID)
			continue
		case errors.Is(runErr, ErrFatalFetch):
			s.enterDegraded(ctx, runErr)
			return stats, runErr
		default:
			s.log.WarnContext(ctx, "fixture analysis failed",
				"fixture_id", fx.ID, "error", runErr)
			continue
		}

		stats.FixturesAnalyzed++
		stats.BetsDetected += len(result.Bets)
		if len(result.Bets) == 0 {
			continue
		}

		outcome, err := s.alerts.DispatchBets(ctx, fx, result.Prediction, result.Bets)
		stats.AlertsSent += outcome.Sent
		stats.AlertsFailed += outcome.Failed
		if err != nil {
			if ctx.Err() != nil {
				return stats, err
			}
			s.log.WarnContext(ctx, "dispatch failed", "fixture_id", fx.ID, "error", err)
		}
	}

	s.degraded.Store(false)
	return stats, nil
}

// enterDegraded flips the ops status and pushes an operational notice. New
// analysis halts until a later cycle succeeds.
func (s *SchedulerService) enterDegraded(ctx context.Context, cause error) {
	if s.degraded.Swap(true) {
		return
	}
	s.log.ErrorContext(ctx, "fatal provider failure, pipeline degraded", "error", cause)
	s.alerts.NotifyFatal(ctx, cause.Error())
}

func (s *SchedulerService) storeNextAt(t time.Time) {
	s.nextAt.Store(&t)
}
