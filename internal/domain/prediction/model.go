package prediction

import (
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/teamstats"
)

// Prediction is one immutable model run for a fixture. A changed input
// produces a new record; existing records are never rewritten.
type Prediction struct {
	ID         string
	FixtureID  int64
	LambdaHome float64
	LambdaAway float64
	Outcomes   OutcomeProbs
	Buckets    GoalBuckets
	Over25     float64
	Under25    float64
	BTTSYes    float64
	BTTSNo     float64

	// LowConfidence marks degenerate inputs: thin sample or a non-positive
	// scoring average. Probabilities are still computed but must not be
	// trusted at full confidence.
	LowConfidence bool
	SampleHome    int
	SampleAway    int
	ComputedAt    time.Time
}

// Compute runs the full model for one fixture. Pure; no I/O.
func Compute(fixtureID int64, home, away teamstats.SeasonStats, leagueAvgGoals float64, minSample int, now time.Time) Prediction {
	lambdaHome, lambdaAway := ExpectedGoals(home, away, leagueAvgGoals)
	over, under := OverUnderProbabilities(lambdaHome, lambdaAway, 2.5)
	btts := BTTSProbability(lambdaHome, lambdaAway)

	return Prediction{
		FixtureID:     fixtureID,
		LambdaHome:    lambdaHome,
		LambdaAway:    lambdaAway,
		Outcomes:      OutcomeProbabilities(lambdaHome, lambdaAway, DefaultMaxGoals),
		Buckets:       TotalGoalsBuckets(lambdaHome, lambdaAway),
		Over25:        over,
		Under25:       under,
		BTTSYes:       btts,
		BTTSNo:        1 - btts,
		LowConfidence: degenerate(home, away, minSample),
		SampleHome:    home.SampleSize(),
		SampleAway:    away.SampleSize(),
		ComputedAt:    now,
	}
}

func degenerate(home, away teamstats.SeasonStats, minSample int) bool {
	if home.SampleSize() < minSample || away.SampleSize() < minSample {
		return true
	}
	if home.AttackAvgHome() <= 0 || away.AttackAvgAway() <= 0 {
		return true
	}
	return false
}
