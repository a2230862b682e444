package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/value-radar/internal/domain/cyclelog"
	qb "github.com/riskibarqy/value-radar/internal/platform/querybuilder"
)

type CycleLogRepository struct {
	db *sqlx.DB
}

func NewCycleLogRepository(db *sqlx.DB) *CycleLogRepository {
	return &CycleLogRepository{db: db}
}

func (r *CycleLogRepository) Insert(ctx context.Context, record cyclelog.Record) error {
	row := mapCycleRecordModel(record)

	query, args, err := qb.InsertModel("cycle_records", row, "")
	if err != nil {
		return fmt.Errorf("build insert cycle record query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert cycle record: %w", err)
	}
	return nil
}

func (r *CycleLogRepository) Update(ctx context.Context, record cyclelog.Record) error {
	builder := qb.Update("cycle_records").
		Set("finished_at", record.FinishedAt).
		Set("fixtures_examined", record.FixturesExamined).
		Set("fixtures_analyzed", record.FixturesAnalyzed).
		Set("bets_detected", record.BetsDetected).
		Set("alerts_sent", record.AlertsSent).
		Set("alerts_failed", record.AlertsFailed).
		Set("skipped_no_data", record.SkippedNoData).
		Set("status", string(record.Status)).
		Set("error_message", sql.NullString{String: record.ErrorMessage, Valid: record.ErrorMessage != ""}).
		Where(qb.Eq("id", record.ID))

	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build update cycle record query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update cycle record: %w", err)
	}
	return nil
}

func (r *CycleLogRepository) GetLatest(ctx context.Context) (cyclelog.Record, bool, error) {
	query, args, err := qb.Select("*").From("cycle_records").
		OrderBy("started_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return cyclelog.Record{}, false, fmt.Errorf("build latest cycle record query: %w", err)
	}

	var row cycleRecordTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return cyclelog.Record{}, false, nil
		}
		return cyclelog.Record{}, false, fmt.Errorf("select latest cycle record: %w", err)
	}
	return mapCycleRecordRow(row), true, nil
}

func (r *CycleLogRepository) ListSince(ctx context.Context, since time.Time) ([]cyclelog.Record, error) {
	query, args, err := qb.Select("*").From("cycle_records").
		Where(qb.Gte("started_at", since.UTC())).
		OrderBy("started_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list cycle records query: %w", err)
	}

	var rows []cycleRecordTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list cycle records: %w", err)
	}

	out := make([]cyclelog.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapCycleRecordRow(row))
	}
	return out, nil
}

func mapCycleRecordModel(record cyclelog.Record) cycleRecordTableModel {
	return cycleRecordTableModel{
		ID:               record.ID,
		Trigger:          record.Trigger,
		StartedAt:        record.StartedAt.UTC(),
		FinishedAt:       record.FinishedAt,
		FixturesExamined: record.FixturesExamined,
		FixturesAnalyzed: record.FixturesAnalyzed,
		BetsDetected:     record.BetsDetected,
		AlertsSent:       record.AlertsSent,
		AlertsFailed:     record.AlertsFailed,
		SkippedNoData:    record.SkippedNoData,
		Status:           string(record.Status),
		ErrorMessage:     sql.NullString{String: record.ErrorMessage, Valid: record.ErrorMessage != ""},
	}
}

func mapCycleRecordRow(row cycleRecordTableModel) cyclelog.Record {
	return cyclelog.Record{
		ID:               row.ID,
		Trigger:          row.Trigger,
		StartedAt:        row.StartedAt,
		FinishedAt:       row.FinishedAt,
		FixturesExamined: row.FixturesExamined,
		FixturesAnalyzed: row.FixturesAnalyzed,
		BetsDetected:     row.BetsDetected,
		AlertsSent:       row.AlertsSent,
		AlertsFailed:     row.AlertsFailed,
		SkippedNoData:    row.SkippedNoData,
		Status:           cyclelog.Status(row.Status),
		ErrorMessage:     row.ErrorMessage.String,
	}
}
