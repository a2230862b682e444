package opsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/riskibarqy/value-radar/internal/domain/cyclelog"
	"github.com/riskibarqy/value-radar/internal/platform/cache"
	"github.com/riskibarqy/value-radar/internal/platform/logging"
	"github.com/riskibarqy/value-radar/internal/platform/ratelimit"
	"github.com/riskibarqy/value-radar/internal/platform/resilience"
	"github.com/riskibarqy/value-radar/internal/usecase"
)

// Scheduler is the slice of the scheduler the ops surface needs.
type Scheduler interface {
	Status() usecase.SchedulerStatus
	TriggerCycle() bool
}

// PrimarySource reports fixture/odds gateway health.
type PrimarySource interface {
	Snapshot() (resilience.CircuitSnapshot, ratelimit.Snapshot)
}

// EnrichmentSource reports enrichment gateway health.
type EnrichmentSource interface {
	Enabled() bool
	Snapshot() (resilience.CircuitSnapshot, cache.Stats)
}

type Handler struct {
	scheduler  Scheduler
	primary    PrimarySource
	enrichment EnrichmentSource
	logger     *logging.Logger
	validator  *validator.Validate
}

func NewHandler(
	scheduler Scheduler,
	primary PrimarySource,
	enrichment EnrichmentSource,
	logger *logging.Logger,
) *Handler {
	return &Handler{
		scheduler:  scheduler,
		primary:    primary,
		enrichment: enrichment,
		logger:     logger,
		validator:  validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "opsapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "opsapi.Handler.Status")
	defer span.End()

	status := h.scheduler.Status()
	dto := statusDTO{
		Scheduler: schedulerDTO{
			Running:   status.Running,
			Degraded:  status.Degraded,
			CyclesRun: status.CyclesRun,
		},
	}
	if !status.NextCycleAt.IsZero() {
		next := status.NextCycleAt
		dto.Scheduler.NextCycleAt = &next
	}
	if status.LastCycle != nil {
		cycle := cycleRecordToDTO(*status.LastCycle)
		dto.Scheduler.LastCycle = &cycle
	}

	if h.primary != nil {
		circuit, limiter := h.primary.Snapshot()
		dto.PrimarySource = &primarySourceDTO{
			Circuit:   circuit,
			RateLimit: limiter,
		}
	}
	if h.enrichment != nil {
		circuit, stats := h.enrichment.Snapshot()
		dto.Enrichment = &enrichmentSourceDTO{
			Enabled: h.enrichment.Enabled(),
			Circuit: circuit,
			Cache:   stats,
		}
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) TriggerCycle(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "opsapi.Handler.TriggerCycle")
	defer span.End()

	req, err := decodeTriggerCycleRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	queued := h.scheduler.TriggerCycle()
	if !queued {
		h.logger.WarnContext(ctx, "manual cycle rejected, run already queued", "reason", req.Reason)
		writeSuccess(ctx, w, http.StatusConflict, triggerCycleResponse{Queued: false})
		return
	}

	h.logger.InfoContext(ctx, "manual cycle queued", "reason", req.Reason)
	writeSuccess(ctx, w, http.StatusAccepted, triggerCycleResponse{Queued: true})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "opsapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type triggerCycleRequest struct {
	Reason string `json:"reason" validate:"max=200"`
}

type triggerCycleResponse struct {
	Queued bool `json:"queued"`
}

func decodeTriggerCycleRequest(r *http.Request) (triggerCycleRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req triggerCycleRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return triggerCycleRequest{}, nil
		}
		return triggerCycleRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

type statusDTO struct {
	Scheduler     schedulerDTO         `json:"scheduler"`
	PrimarySource *primarySourceDTO    `json:"primary_source,omitempty"`
	Enrichment    *enrichmentSourceDTO `json:"enrichment,omitempty"`
}

type schedulerDTO struct {
	Running     bool            `json:"running"`
	Degraded    bool            `json:"degraded"`
	CyclesRun   int64           `json:"cycles_run"`
	NextCycleAt *time.Time      `json:"next_cycle_at,omitempty"`
	LastCycle   *cycleRecordDTO `json:"last_cycle,omitempty"`
}

type primarySourceDTO struct {
	Circuit   resilience.CircuitSnapshot `json:"circuit"`
	RateLimit ratelimit.Snapshot         `json:"rate_limit"`
}

type enrichmentSourceDTO struct {
	Enabled bool                       `json:"enabled"`
	Circuit resilience.CircuitSnapshot `json:"circuit"`
	Cache   cache.Stats                `json:"cache"`
}

type cycleRecordDTO struct {
	ID               string     `json:"id"`
	Trigger          string     `json:"trigger"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	FixturesExamined int        `json:"fixtures_examined"`
	FixturesAnalyzed int        `json:"fixtures_analyzed"`
	BetsDetected     int        `json:"bets_detected"`
	AlertsSent       int        `json:"alerts_sent"`
	AlertsFailed     int        `json:"alerts_failed"`
	SkippedNoData    int        `json:"skipped_no_data"`
	Status           string     `json:"status"`
	ErrorMessage     string     `json:"error_message,omitempty"`
}

func cycleRecordToDTO(record cyclelog.Record) cycleRecordDTO {
	return cycleRecordDTO{
		ID:               record.ID,
		Trigger:          record.Trigger,
		StartedAt:        record.StartedAt,
		FinishedAt:       record.FinishedAt,
		FixturesExamined: record.FixturesExamined,
		FixturesAnalyzed: record.FixturesAnalyzed,
		BetsDetected:     record.BetsDetected,
		AlertsSent:       record.AlertsSent,
		AlertsFailed:     record.AlertsFailed,
		SkippedNoData:    record.SkippedNoData,
		Status:           string(record.Status),
		ErrorMessage:     record.ErrorMessage,
	}
}
