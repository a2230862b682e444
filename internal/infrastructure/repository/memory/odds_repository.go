package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/value-radar/internal/domain/odds"
)

type oddsKey struct {
	fixtureID int64
	market    odds.Market
}

type OddsRepository struct {
	mu    sync.RWMutex
	books map[oddsKey][]odds.Book
}

func NewOddsRepository() *OddsRepository {
	return &OddsRepository{books: make(map[oddsKey][]odds.Book)}
}

func (r *OddsRepository) RecordBook(_ context.Context, book odds.Book) error {
	if len(book.Quotes) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := oddsKey{book.FixtureID, book.Market}
	copied := book
	copied.Quotes = append([]odds.Quote(nil), book.Quotes...)
	r.books[key] = append(r.books[key], copied)
	return nil
}

func (r *OddsRepository) GetLatestBook(_ context.Context, fixtureID int64, market odds.Market) (odds.Book, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshots := r.books[oddsKey{fixtureID, market}]
	if len(snapshots) == 0 {
		return odds.Book{}, false, nil
	}

	latest := snapshots[0]
	for _, b := range snapshots[1:] {
		if b.FetchedAt.After(latest.FetchedAt) {
			latest = b
		}
	}
	latest.Quotes = append([]odds.Quote(nil), latest.Quotes...)
	return latest, true, nil
}
