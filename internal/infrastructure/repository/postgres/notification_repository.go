package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/value-radar/internal/domain/notification"
	qb "github.com/riskibarqy/value-radar/internal/platform/querybuilder"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Insert(ctx context.Context, record notification.Record) error {
	row := notificationTableModel{
		ID:         record.ID,
		ValueBetID: record.ValueBetID,
		MessageID:  record.MessageID,
		Channel:    record.Channel,
		SentAt:     record.SentAt.UTC(),
	}

	query, args, err := qb.InsertModel("notifications", row, "")
	if err != nil {
		return fmt.Errorf("build insert notification query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepository) CountSince(ctx context.Context, since time.Time) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("notifications").
		Where(qb.Gte("sent_at", since.UTC())).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count notifications query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
