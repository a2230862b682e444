package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/teamstats"
)

type teamStatsKey struct {
	teamID   int64
	leagueID int
	season   int
}

type TeamStatsRepository struct {
	mu    sync.RWMutex
	items map[teamStatsKey]teamstats.SeasonStats
}

func NewTeamStatsRepository(stats ...teamstats.SeasonStats) *TeamStatsRepository {
	items := make(map[teamStatsKey]teamstats.SeasonStats, len(stats))
	for _, s := range stats {
		items[teamStatsKey{s.TeamID, s.LeagueID, s.Season}] = s
	}
	return &TeamStatsRepository{items: items}
}

func (r *TeamStatsRepository) Upsert(_ context.Context, stats teamstats.SeasonStats) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[teamStatsKey{stats.TeamID, stats.LeagueID, stats.Season}] = stats
	return nil
}

func (r *TeamStatsRepository) Get(_ context.Context, teamID int64, leagueID, season int) (teamstats.SeasonStats, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[teamStatsKey{teamID, leagueID, season}]
	return s, ok, nil
}

func (r *TeamStatsRepository) ListStale(_ context.Context, leagueID, season int, cutoff time.Time) ([]teamstats.SeasonStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]teamstats.SeasonStats, 0)
	for key, s := range r.items {
		if key.leagueID != leagueID || key.season != season {
			continue
		}
		if s.FetchedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })
	return out, nil
}
