package prediction

import "context"

// Repository is append-only; a new model run supersedes older rows.
type Repository interface {
	Insert(ctx context.Context, p Prediction) error
	GetLatestByFixture(ctx context.Context, fixtureID int64) (Prediction, bool, error)
}
