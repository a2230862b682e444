package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	UpsertBatch(ctx context.Context, leagues []League) error
	GetByID(ctx context.Context, leagueID int) (League, bool, error)
	ListEnabled(ctx context.Context) ([]League, error)
}
