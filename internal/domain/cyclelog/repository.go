package cyclelog

import (
	"context"
	"time"
)

type Repository interface {
	Insert(ctx context.Context, record Record) error
	Update(ctx context.Context, record Record) error
	GetLatest(ctx context.Context) (Record, bool, error)
	ListSince(ctx context.Context, since time.Time) ([]Record, error)
}
