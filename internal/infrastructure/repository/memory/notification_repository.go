package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/notification"
)

type NotificationRepository struct {
	mu      sync.RWMutex
	records []notification.Record
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Insert(_ context.Context, record notification.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	return nil
}

func (r *NotificationRepository) CountSince(_ context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rec := range r.records {
		if !rec.SentAt.Before(since) {
			count++
		}
	}
	return count, nil
}

// Records returns a copy of everything written so far, for assertions.
func (r *NotificationRepository) Records() []notification.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]notification.Record(nil), r.records...)
}
