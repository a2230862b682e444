package opsapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/value-radar/internal/domain/cyclelog"
	"github.com/riskibarqy/value-radar/internal/platform/cache"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
	"github.com/riskibarqy/value-radar/internal/platform/ratelimit"
	"github.com/riskibarqy/value-radar/internal/platform/resilience"
	"github.com/riskibarqy/value-radar/internal/usecase"
)

type stubScheduler struct {
	status   usecase.SchedulerStatus
	queueOK  bool
	triggers int
}

func (s *stubScheduler) Status() usecase.SchedulerStatus { return s.status }

func (s *stubScheduler) TriggerCycle() bool {
	s.triggers++
	return s.queueOK
}

type stubPrimarySource struct{}

func (stubPrimarySource) Snapshot() (resilience.CircuitSnapshot, ratelimit.Snapshot) {
	return resilience.CircuitSnapshot{Name: "apifootball", State: resilience.CircuitStateClosed},
		ratelimit.Snapshot{Name: "apifootball", MaxCalls: 10, WindowSec: 60, Available: 10}
}

type stubEnrichmentSource struct {
	enabled bool
}

func (s stubEnrichmentSource) Enabled() bool { return s.enabled }

func (stubEnrichmentSource) Snapshot() (resilience.CircuitSnapshot, cache.Stats) {
	return resilience.CircuitSnapshot{Name: "footystats", State: resilience.CircuitStateClosed},
		cache.Stats{Entries: 3, Hits: 7, Misses: 2}
}

func newTestRouter(scheduler *stubScheduler, opsToken string) http.Handler {
	handler := NewHandler(scheduler, stubPrimarySource{}, stubEnrichmentSource{enabled: true}, logging.NewNop())
	return NewRouter(handler, logging.NewNop(), opsToken)
}

func TestStatus_AggregatesSnapshots(t *testing.T) {
	finished := time.Date(2026, 8, 30, 11, 30, 0, 0, time.UTC)
	scheduler := &stubScheduler{
		status: usecase.SchedulerStatus{
			Running:     true,
			Degraded:    false,
			CyclesRun:   4,
			NextCycleAt: finished.Add(30 * time.Minute),
			LastCycle: &cyclelog.Record{
				ID:               "cyc_1",
				Trigger:          cyclelog.TriggerInterval,
				StartedAt:        finished.Add(-time.Minute),
				FinishedAt:       &finished,
				FixturesExamined: 5,
				AlertsSent:       2,
				Status:           cyclelog.StatusSucceeded,
			},
		},
	}
	router := newTestRouter(scheduler, "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body struct {
		Data statusDTO `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if !body.Data.Scheduler.Running {
		t.Fatalf("expected scheduler running")
	}
	if body.Data.Scheduler.CyclesRun != 4 {
		t.Fatalf("expected 4 cycles run, got %d", body.Data.Scheduler.CyclesRun)
	}
	if body.Data.Scheduler.LastCycle == nil || body.Data.Scheduler.LastCycle.AlertsSent != 2 {
		t.Fatalf("expected last cycle with 2 alerts sent, got %+v", body.Data.Scheduler.LastCycle)
	}
	if body.Data.PrimarySource == nil || body.Data.PrimarySource.Circuit.Name != "apifootball" {
		t.Fatalf("expected primary source snapshot, got %+v", body.Data.PrimarySource)
	}
	if body.Data.Enrichment == nil || !body.Data.Enrichment.Enabled {
		t.Fatalf("expected enrichment snapshot with enabled=true, got %+v", body.Data.Enrichment)
	}
	if body.Data.Enrichment.Cache.Hits != 7 {
		t.Fatalf("expected 7 cache hits, got %d", body.Data.Enrichment.Cache.Hits)
	}
}

func TestTriggerCycle_RequiresOpsToken(t *testing.T) {
	scheduler := &stubScheduler{queueOK: true}
	router := newTestRouter(scheduler, "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cycles", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401 without token, got %d", rec.Code)
	}
	if scheduler.triggers != 0 {
		t.Fatalf("expected no trigger without token, got %d", scheduler.triggers)
	}
}

func TestTriggerCycle_UnconfiguredTokenDisablesRoute(t *testing.T) {
	scheduler := &stubScheduler{queueOK: true}
	router := newTestRouter(scheduler, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cycles", nil)
	req.Header.Set("X-Ops-Token", "anything")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503 for unset token, got %d", rec.Code)
	}
}

func TestTriggerCycle_QueuesManualRun(t *testing.T) {
	scheduler := &stubScheduler{queueOK: true}
	router := newTestRouter(scheduler, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cycles", strings.NewReader(`{"reason":"match day"}`))
	req.Header.Set("X-Ops-Token", "secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", rec.Code)
	}
	if scheduler.triggers != 1 {
		t.Fatalf("expected 1 trigger, got %d", scheduler.triggers)
	}

	var body struct {
		Data triggerCycleResponse `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	if !body.Data.Queued {
		t.Fatalf("expected queued=true")
	}
}

func TestTriggerCycle_AlreadyQueuedConflicts(t *testing.T) {
	scheduler := &stubScheduler{queueOK: false}
	router := newTestRouter(scheduler, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cycles", nil)
	req.Header.Set("X-Ops-Token", "secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
}

func TestTriggerCycle_RejectsUnknownFields(t *testing.T) {
	scheduler := &stubScheduler{queueOK: true}
	router := newTestRouter(scheduler, "secret")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cycles", strings.NewReader(`{"force":true}`))
	req.Header.Set("X-Ops-Token", "secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for unknown field, got %d", rec.Code)
	}
	if scheduler.triggers != 0 {
		t.Fatalf("expected no trigger on invalid payload, got %d", scheduler.triggers)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubScheduler{}, "secret")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("expected ok status payload, got %s", rec.Body.String())
	}
}
