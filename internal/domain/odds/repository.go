package odds

import "context"

// Repository appends snapshots and serves the most recent book per market.
type Repository interface {
	RecordBook(ctx context.Context, book Book) error
	GetLatestBook(ctx context.Context, fixtureID int64, market Market) (Book, bool, error)
}
