package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/value-radar/internal/domain/odds"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
	qb "github.com/riskibarqy/value-radar/internal/platform/querybuilder"
)

type ValueBetRepository struct {
	db *sqlx.DB
}

func NewValueBetRepository(db *sqlx.DB) *ValueBetRepository {
	return &ValueBetRepository{db: db}
}

func (r *ValueBetRepository) Insert(ctx context.Context, bet valuebet.ValueBet) (string, error) {
	row := valueBetTableModel{
		ID:               bet.ID,
		FixtureID:        bet.FixtureID,
		PredictionID:     bet.PredictionID,
		Market:           string(bet.Market),
		Outcome:          string(bet.Outcome),
		ModelProbability: bet.ModelProbability,
		FairProbability:  bet.FairProbability,
		Price:            bet.Price,
		Bookmaker:        bet.Bookmaker,
		Edge:             bet.Edge,
		Confidence:       bet.Confidence,
		SuggestedStake:   bet.SuggestedStake,
		Status:           string(bet.Status),
		KickoffUTC:       bet.KickoffUTC.UTC(),
		DetectedAt:       bet.DetectedAt.UTC(),
		SentAt:           bet.SentAt,
		FailureReason:    sql.NullString{String: bet.FailureReason, Valid: bet.FailureReason != ""},
	}

	query, args, err := qb.InsertModel("value_bets", row, "")
	if err != nil {
		return "", fmt.Errorf("build insert value bet query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert value bet: %w", err)
	}
	return bet.ID, nil
}

func (r *ValueBetRepository) GetByID(ctx context.Context, id string) (valuebet.ValueBet, bool, error) {
	query, args, err := qb.Select("*").From("value_bets").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return valuebet.ValueBet{}, false, fmt.Errorf("build select value bet query: %w", err)
	}

	var row valueBetTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return valuebet.ValueBet{}, false, nil
		}
		return valuebet.ValueBet{}, false, fmt.Errorf("select value bet: %w", err)
	}
	return mapValueBetRow(row), true, nil
}

func (r *ValueBetRepository) HasSent(ctx context.Context, fixtureID int64, outcome string) (bool, error) {
	query, args, err := qb.Select("COUNT(*)").From("value_bets").
		Where(
			qb.Eq("fixture_id", fixtureID),
			qb.Eq("outcome", outcome),
			qb.Eq("status", string(valuebet.StatusSent)),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build count sent bets query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("count sent bets: %w", err)
	}
	return count > 0, nil
}

func (r *ValueBetRepository) MarkSent(ctx context.Context, id string, sentAt time.Time) error {
	query, args, err := qb.Update("value_bets").
		Set("status", string(valuebet.StatusSent)).
		Set("sent_at", sentAt.UTC()).
		Where(
			qb.Eq("id", id),
			qb.Eq("status", string(valuebet.StatusDetected)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark sent query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark value bet sent: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("value bet %s is not in detected state", id)
	}
	return nil
}

func (r *ValueBetRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	query, args, err := qb.Update("value_bets").
		Set("status", string(valuebet.StatusFailed)).
		Set("failure_reason", reason).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build mark failed query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("mark value bet failed: %w", err)
	}
	return nil
}

func (r *ValueBetRepository) MarkExpired(ctx context.Context, cutoff time.Time) (int, error) {
	query, args, err := qb.Update("value_bets").
		Set("status", string(valuebet.StatusExpired)).
		Where(
			qb.In("status", []any{string(valuebet.StatusDetected), string(valuebet.StatusFailed)}),
			qb.Lt("kickoff_utc", cutoff.UTC()),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build mark expired query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark value bets expired: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

func (r *ValueBetRepository) CountSentSince(ctx context.Context, since time.Time) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("value_bets").
		Where(
			qb.Eq("status", string(valuebet.StatusSent)),
			qb.Gte("sent_at", since.UTC()),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count sent since query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count sent since: %w", err)
	}
	return count, nil
}

func (r *ValueBetRepository) ListSentSince(ctx context.Context, since time.Time) ([]valuebet.ValueBet, error) {
	query, args, err := qb.Select("*").From("value_bets").
		Where(
			qb.Eq("status", string(valuebet.StatusSent)),
			qb.Gte("sent_at", since.UTC()),
		).
		OrderBy("sent_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list sent since query: %w", err)
	}

	var rows []valueBetTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sent since: %w", err)
	}

	out := make([]valuebet.ValueBet, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapValueBetRow(row))
	}
	return out, nil
}

func mapValueBetRow(row valueBetTableModel) valuebet.ValueBet {
	return valuebet.ValueBet{
		ID:               row.ID,
		FixtureID:        row.FixtureID,
		PredictionID:     row.PredictionID,
		Market:           odds.Market(row.Market),
		Outcome:          odds.Outcome(row.Outcome),
		ModelProbability: row.ModelProbability,
		FairProbability:  row.FairProbability,
		Price:            row.Price,
		Bookmaker:        row.Bookmaker,
		Edge:             row.Edge,
		Confidence:       row.Confidence,
		SuggestedStake:   row.SuggestedStake,
		Status:           valuebet.Status(row.Status),
		KickoffUTC:       row.KickoffUTC,
		DetectedAt:       row.DetectedAt,
		SentAt:           row.SentAt,
		FailureReason:    row.FailureReason.String,
	}
}
