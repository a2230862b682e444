package fixture

import (
	"context"
	"time"
)

// Repository exposes fixture persistence. Reads never reach the network;
// refresh decisions belong to the cache layer above.
type Repository interface {
	UpsertBatch(ctx context.Context, fixtures []Fixture) error
	GetByID(ctx context.Context, fixtureID int64) (Fixture, bool, error)
	ListUpcomingWindow(ctx context.Context, leagueIDs []int, from, to time.Time) ([]Fixture, error)
}
