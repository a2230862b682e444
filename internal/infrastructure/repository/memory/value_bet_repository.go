package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
)

type ValueBetRepository struct {
	mu    sync.RWMutex
	items map[string]valuebet.ValueBet
}

func NewValueBetRepository() *ValueBetRepository {
	return &ValueBetRepository{items: make(map[string]valuebet.ValueBet)}
}

func (r *ValueBetRepository) Insert(_ context.Context, bet valuebet.ValueBet) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[bet.ID]; exists {
		return "", fmt.Errorf("value bet %s already exists", bet.ID)
	}
	r.items[bet.ID] = bet
	return bet.ID, nil
}

func (r *ValueBetRepository) GetByID(_ context.Context, id string) (valuebet.ValueBet, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bet, ok := r.items[id]
	return bet, ok, nil
}

func (r *ValueBetRepository) HasSent(_ context.Context, fixtureID int64, outcome string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, bet := range r.items {
		if bet.FixtureID == fixtureID && string(bet.Outcome) == outcome && bet.Status == valuebet.StatusSent {
			return true, nil
		}
	}
	return false, nil
}

func (r *ValueBetRepository) MarkSent(_ context.Context, id string, sentAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bet, ok := r.items[id]
	if !ok {
		return fmt.Errorf("value bet %s not found", id)
	}
	if !valuebet.ValidTransition(bet.Status, valuebet.StatusSent) {
		return fmt.Errorf("value bet %s is not in detected state", id)
	}
	// Mirrors the partial unique index on (fixture_id, outcome) WHERE sent.
	for otherID, other := range r.items {
		if otherID == id {
			continue
		}
		if other.FixtureID == bet.FixtureID && other.Outcome == bet.Outcome && other.Status == valuebet.StatusSent {
			return fmt.Errorf("value bet already sent for fixture %d outcome %s", bet.FixtureID, bet.Outcome)
		}
	}
	bet.Status = valuebet.StatusSent
	at := sentAt
	bet.SentAt = &at
	r.items[id] = bet
	return nil
}

func (r *ValueBetRepository) MarkFailed(_ context.Context, id string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	bet, ok := r.items[id]
	if !ok {
		return fmt.Errorf("value bet %s not found", id)
	}
	bet.Status = valuebet.StatusFailed
	bet.FailureReason = reason
	r.items[id] = bet
	return nil
}

func (r *ValueBetRepository) MarkExpired(_ context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	expired := 0
	for id, bet := range r.items {
		if bet.Status != valuebet.StatusDetected && bet.Status != valuebet.StatusFailed {
			continue
		}
		if bet.KickoffUTC.Before(cutoff) {
			bet.Status = valuebet.StatusExpired
			r.items[id] = bet
			expired++
		}
	}
	return expired, nil
}

func (r *ValueBetRepository) CountSentSince(_ context.Context, since time.Time) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, bet := range r.items {
		if bet.Status == valuebet.StatusSent && bet.SentAt != nil && !bet.SentAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *ValueBetRepository) ListSentSince(_ context.Context, since time.Time) ([]valuebet.ValueBet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]valuebet.ValueBet, 0)
	for _, bet := range r.items {
		if bet.Status == valuebet.StatusSent && bet.SentAt != nil && !bet.SentAt.Before(since) {
			out = append(out, bet)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SentAt.Equal(*out[j].SentAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].SentAt.Before(*out[j].SentAt)
	})
	return out, nil
}
