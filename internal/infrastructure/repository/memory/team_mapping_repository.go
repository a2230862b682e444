package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/value-radar/internal/domain/teammap"
)

type TeamMappingRepository struct {
	mu    sync.RWMutex
	items map[int64]teammap.Mapping
}

func NewTeamMappingRepository(mappings ...teammap.Mapping) *TeamMappingRepository {
	items := make(map[int64]teammap.Mapping, len(mappings))
	for _, m := range mappings {
		items[m.PrimaryTeamID] = m
	}
	return &TeamMappingRepository{items: items}
}

func (r *TeamMappingRepository) Get(_ context.Context, primaryTeamID int64) (teammap.Mapping, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[primaryTeamID]
	return m, ok, nil
}

func (r *TeamMappingRepository) Upsert(_ context.Context, mapping teammap.Mapping) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[mapping.PrimaryTeamID] = mapping
	return nil
}
