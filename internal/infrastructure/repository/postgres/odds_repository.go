package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/value-radar/internal/domain/odds"
	qb "github.com/riskibarqy/value-radar/internal/platform/querybuilder"
)

// OddsRepository appends snapshot rows; nothing is ever updated or deleted.
// The latest book for a market is the set of rows sharing the newest
// fetched_at.
type OddsRepository struct {
	db *sqlx.DB
}

func NewOddsRepository(db *sqlx.DB) *OddsRepository {
	return &OddsRepository{db: db}
}

func (r *OddsRepository) RecordBook(ctx context.Context, book odds.Book) error {
	if len(book.Quotes) == 0 {
		return nil
	}

	builder := qb.InsertInto("odds_snapshots").Columns(
		"fixture_id", "market", "outcome", "bookmaker", "price", "fetched_at",
	)
	for _, q := range book.Quotes {
		builder.Values(book.FixtureID, string(book.Market), string(q.Outcome), q.Bookmaker, q.Price, book.FetchedAt.UTC())
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build insert odds snapshot query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert odds snapshot: %w", err)
	}
	return nil
}

func (r *OddsRepository) GetLatestBook(ctx context.Context, fixtureID int64, market odds.Market) (odds.Book, bool, error) {
	latestQuery, latestArgs, err := qb.Select("MAX(fetched_at) AS fetched_at").From("odds_snapshots").
		Where(
			qb.Eq("fixture_id", fixtureID),
			qb.Eq("market", string(market)),
		).
		ToSQL()
	if err != nil {
		return odds.Book{}, false, fmt.Errorf("build select latest odds timestamp query: %w", err)
	}

	var latest *time.Time
	if err := r.db.GetContext(ctx, &latest, latestQuery, latestArgs...); err != nil {
		if isNotFound(err) {
			return odds.Book{}, false, nil
		}
		return odds.Book{}, false, fmt.Errorf("select latest odds timestamp: %w", err)
	}
	if latest == nil {
		return odds.Book{}, false, nil
	}

	query, args, err := qb.Select("*").From("odds_snapshots").
		Where(
			qb.Eq("fixture_id", fixtureID),
			qb.Eq("market", string(market)),
			qb.Eq("fetched_at", latest.UTC()),
		).
		OrderBy("outcome", "bookmaker").
		ToSQL()
	if err != nil {
		return odds.Book{}, false, fmt.Errorf("build select odds book query: %w", err)
	}

	var rows []oddsQuoteTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return odds.Book{}, false, fmt.Errorf("select odds book: %w", err)
	}
	if len(rows) == 0 {
		return odds.Book{}, false, nil
	}

	quotes := make([]odds.Quote, 0, len(rows))
	for _, row := range rows {
		quotes = append(quotes, odds.Quote{
			Outcome:   odds.Outcome(row.Outcome),
			Price:     row.Price,
			Bookmaker: row.Bookmaker,
		})
	}
	return odds.Book{
		FixtureID: fixtureID,
		Market:    market,
		Quotes:    quotes,
		FetchedAt: rows[0].FetchedAt,
	}, true, nil
}
