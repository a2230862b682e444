package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	items map[int64]fixture.Fixture
}

func NewFixtureRepository(fixtures ...fixture.Fixture) *FixtureRepository {
	items := make(map[int64]fixture.Fixture, len(fixtures))
	for _, f := range fixtures {
		items[f.ID] = f
	}
	return &FixtureRepository{items: items}
}

func (r *FixtureRepository) UpsertBatch(_ context.Context, fixtures []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range fixtures {
		r.items[f.ID] = f
	}
	return nil
}

func (r *FixtureRepository) GetByID(_ context.Context, fixtureID int64) (fixture.Fixture, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.items[fixtureID]
	return f, ok, nil
}

func (r *FixtureRepository) ListUpcomingWindow(_ context.Context, leagueIDs []int, from, to time.Time) ([]fixture.Fixture, error) {
	wanted := make(map[int]struct{}, len(leagueIDs))
	for _, id := range leagueIDs {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]fixture.Fixture, 0)
	for _, f := range r.items {
		if len(wanted) > 0 {
			if _, ok := wanted[f.LeagueID]; !ok {
				continue
			}
		}
		if f.KickoffUTC.Before(from) || f.KickoffUTC.After(to) {
			continue
		}
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].KickoffUTC.Equal(out[j].KickoffUTC) {
			return out[i].ID < out[j].ID
		}
		return out[i].KickoffUTC.Before(out[j].KickoffUTC)
	})
	return out, nil
}
