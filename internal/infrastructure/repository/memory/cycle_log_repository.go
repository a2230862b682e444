package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/cyclelog"
)

type CycleLogRepository struct {
	mu      sync.RWMutex
	records []cyclelog.Record
}

func NewCycleLogRepository() *CycleLogRepository {
	return &CycleLogRepository{}
}

func (r *CycleLogRepository) Insert(_ context.Context, record cyclelog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	return nil
}

func (r *CycleLogRepository) Update(_ context.Context, record cyclelog.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.records {
		if r.records[i].ID == record.ID {
			r.records[i] = record
			return nil
		}
	}
	return fmt.Errorf("cycle record %s not found", record.ID)
}

func (r *CycleLogRepository) GetLatest(_ context.Context) (cyclelog.Record, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.records) == 0 {
		return cyclelog.Record{}, false, nil
	}

	latest := r.records[0]
	for _, rec := range r.records[1:] {
		if rec.StartedAt.After(latest.StartedAt) {
			latest = rec
		}
	}
	return latest, true, nil
}

func (r *CycleLogRepository) ListSince(_ context.Context, since time.Time) ([]cyclelog.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]cyclelog.Record, 0)
	for _, rec := range r.records {
		if !rec.StartedAt.Before(since) {
			out = append(out, rec)
		}
	}
	return out, nil
}
