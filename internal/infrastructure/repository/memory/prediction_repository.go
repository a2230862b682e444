package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/value-radar/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[int64][]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[int64][]prediction.Prediction)}
}

func (r *PredictionRepository) Insert(_ context.Context, p prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[p.FixtureID] = append(r.items[p.FixtureID], p)
	return nil
}

func (r *PredictionRepository) GetLatestByFixture(_ context.Context, fixtureID int64) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := r.items[fixtureID]
	if len(runs) == 0 {
		return prediction.Prediction{}, false, nil
	}

	latest := runs[0]
	for _, p := range runs[1:] {
		if p.ComputedAt.After(latest.ComputedAt) {
			latest = p
		}
	}
	return latest, true, nil
}
