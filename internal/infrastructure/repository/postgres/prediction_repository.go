package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/value-radar/internal/domain/prediction"
	qb "github.com/riskibarqy/value-radar/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) Insert(ctx context.Context, p prediction.Prediction) error {
	row := predictionTableModel{
		ID:            p.ID,
		FixtureID:     p.FixtureID,
		LambdaHome:    p.LambdaHome,
		LambdaAway:    p.LambdaAway,
		ProbHome:      p.Outcomes.Home,
		ProbDraw:      p.Outcomes.Draw,
		ProbAway:      p.Outcomes.Away,
		BucketZeroOne: p.Buckets.ZeroToOne,
		BucketTwoTri:  p.Buckets.TwoToThree,
		BucketFour:    p.Buckets.FourPlus,
		Over25:        p.Over25,
		Under25:       p.Under25,
		BTTSYes:       p.BTTSYes,
		BTTSNo:        p.BTTSNo,
		LowConfidence: p.LowConfidence,
		SampleHome:    p.SampleHome,
		SampleAway:    p.SampleAway,
		ComputedAt:    p.ComputedAt.UTC(),
	}

	query, args, err := qb.InsertModel("predictions", row, "")
	if err != nil {
		return fmt.Errorf("build insert prediction query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prediction: %w", err)
	}
	return nil
}

func (r *PredictionRepository) GetLatestByFixture(ctx context.Context, fixtureID int64) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").
		Where(qb.Eq("fixture_id", fixtureID)).
		OrderBy("computed_at DESC", "id DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build select latest prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("select latest prediction: %w", err)
	}

	return prediction.Prediction{
		ID:         row.ID,
		FixtureID:  row.FixtureID,
		LambdaHome: row.LambdaHome,
		LambdaAway: row.LambdaAway,
		Outcomes: prediction.OutcomeProbs{
			Home: row.ProbHome,
			Draw: row.ProbDraw,
			Away: row.ProbAway,
		},
		Buckets: prediction.GoalBuckets{
			ZeroToOne:  row.BucketZeroOne,
			TwoToThree: row.BucketTwoTri,
			FourPlus:   row.BucketFour,
		},
		Over25:        row.Over25,
		Under25:       row.Under25,
		BTTSYes:       row.BTTSYes,
		BTTSNo:        row.BTTSNo,
		LowConfidence: row.LowConfidence,
		SampleHome:    row.SampleHome,
		SampleAway:    row.SampleAway,
		ComputedAt:    row.ComputedAt,
	}, true, nil
}
