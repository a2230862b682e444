package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/value-radar/internal/domain/league"
)

type LeagueRepository struct {
	mu    sync.RWMutex
	items map[int]league.League
}

func NewLeagueRepository(leagues ...league.League) *LeagueRepository {
	items := make(map[int]league.League, len(leagues))
	for _, l := range leagues {
		items[l.ID] = l
	}
	return &LeagueRepository{items: items}
}

func (r *LeagueRepository) UpsertBatch(_ context.Context, leagues []league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range leagues {
		r.items[l.ID] = l
	}
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	return l, ok, nil
}

func (r *LeagueRepository) ListEnabled(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.items))
	for _, l := range r.items {
		if l.Enabled {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
