package valuebet

import (
	"context"
	"time"
)

// Repository persists value bet lifecycle state. The scheduler is the only
// writer; the sent transition happens through MarkSent so the delivery
// confirmation and the message id land together.
type Repository interface {
	Insert(ctx context.Context, bet ValueBet) (string, error)
	GetByID(ctx context.Context, id string) (ValueBet, bool, error)
	// HasSent reports whether a sent bet already exists for the
	// fixture/outcome pair, the duplicate guard consulted before delivery.
	HasSent(ctx context.Context, fixtureID int64, outcome string) (bool, error)
	MarkSent(ctx context.Context, id string, sentAt time.Time) error
	MarkFailed(ctx context.Context, id string, reason string) error
	MarkExpired(ctx context.Context, cutoff time.Time) (int, error)
	CountSentSince(ctx context.Context, since time.Time) (int, error)
	ListSentSince(ctx context.Context, since time.Time) ([]ValueBet, error)
}
