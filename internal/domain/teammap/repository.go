package teammap

import "context"

// Repository is read-mostly at runtime. A missing mapping is the expected
// case for unmapped clubs and is reported through the boolean, not an error.
type Repository interface {
	Get(ctx context.Context, primaryTeamID int64) (Mapping, bool, error)
	Upsert(ctx context.Context, mapping Mapping) error
}
