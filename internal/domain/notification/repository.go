package notification

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, record Record) error
	CountSince(ctx context.Context, since time.Time) (int, error)
}
