package prediction

import (
	"math"

	"github.com/riskibarqy/value-radar/internal/domain/teamstats"
)

const (
	// HomeAdvantage scales the home side's expected goals. Top-league data
	// puts the home effect between 1.05 and 1.15; 1.10 is the midpoint.
	HomeAdvantage = 1.10

	// DefaultMaxGoals bounds the score grid in OutcomeProbabilities. With
	// per-side rates up to 3.5 the truncated tail mass stays below 1e-3,
	// inside the tolerance the sum-to-one invariant allows.
	DefaultMaxGoals = 10

	fallbackLeagueAvg = 2.5
)

// ExpectedGoals derives each side's Poisson rate from attack and defense
// strength relative to the league's goals-per-match average, with the fixed
// home-advantage multiplier on the home side.
func ExpectedGoals(home, away teamstats.SeasonStats, leagueAvgGoals float64) (lambdaHome, lambdaAway float64) {
	if leagueAvgGoals <= 0 {
		leagueAvgGoals = fallbackLeagueAvg
	}

	homeAttack := home.AttackAvgHome() / leagueAvgGoals
	homeDefense := home.DefenseAvgHome() / leagueAvgGoals
	awayAttack := away.AttackAvgAway() / leagueAvgGoals
	awayDefense := away.DefenseAvgAway() / leagueAvgGoals

	lambdaHome = homeAttack * awayDefense * leagueAvgGoals * HomeAdvantage
	lambdaAway = awayAttack * homeDefense * leagueAvgGoals

	return lambdaHome, lambdaAway
}

// OutcomeProbs is the 1X2 distribution.
type OutcomeProbs struct {
	Home float64
	Draw float64
	Away float64
}

func (p OutcomeProbs) Sum() float64 {
	return p.Home + p.Draw + p.Away
}

func (p OutcomeProbs) For(label string) float64 {
	switch label {
	case "HOME":
		return p.Home
	case "DRAW":
		return p.Draw
	case "AWAY":
		return p.Away
	default:
		return 0
	}
}

// OutcomeProbabilities sums the independent Poisson product mass over all
// score pairs up to maxGoals per side: home wins where h > a, draw where
// h == a, away wins where h < a.
func OutcomeProbabilities(lambdaHome, lambdaAway float64, maxGoals int) OutcomeProbs {
	if maxGoals <= 0 {
		maxGoals = DefaultMaxGoals
	}

	homePMF := pmfTable(lambdaHome, maxGoals)
	awayPMF := pmfTable(lambdaAway, maxGoals)

	var out OutcomeProbs
	for h := 0; h <= maxGoals; h++ {
		for a := 0; a <= maxGoals; a++ {
			p := homePMF[h] * awayPMF[a]
			switch {
			case h > a:
				out.Home += p
			case h == a:
				out.Draw += p
			default:
				out.Away += p
			}
		}
	}

	return out
}

// GoalBuckets are disjoint total-goals ranges computed in closed form from
// the CDF of the summed rate, exact up to floating point.
type GoalBuckets struct {
	ZeroToOne  float64
	TwoToThree float64
	FourPlus   float64
}

func (b GoalBuckets) Sum() float64 {
	return b.ZeroToOne + b.TwoToThree + b.FourPlus
}

func TotalGoalsBuckets(lambdaHome, lambdaAway float64) GoalBuckets {
	total := lambdaHome + lambdaAway
	cdf1 := poissonCDF(1, total)
	cdf3 := poissonCDF(3, total)

	return GoalBuckets{
		ZeroToOne:  cdf1,
		TwoToThree: cdf3 - cdf1,
		FourPlus:   1 - cdf3,
	}
}

// OverUnderProbabilities returns P(total > threshold) and its complement for
// a half-goal threshold such as 2.5.
func OverUnderProbabilities(lambdaHome, lambdaAway, threshold float64) (over, under float64) {
	total := lambdaHome + lambdaAway
	under = poissonCDF(int(math.Floor(threshold)), total)
	return 1 - under, under
}

// BTTSProbability is the chance both sides score at least once.
func BTTSProbability(lambdaHome, lambdaAway float64) float64 {
	homeBlank := poissonPMF(0, lambdaHome)
	awayBlank := poissonPMF(0, lambdaAway)
	return 1 - homeBlank - awayBlank + homeBlank*awayBlank
}

func poissonPMF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	term := math.Exp(-lambda)
	for i := 1; i <= k; i++ {
		term *= lambda / float64(i)
	}
	return term
}

func poissonCDF(k int, lambda float64) float64 {
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += poissonPMF(i, lambda)
	}
	return sum
}

func pmfTable(lambda float64, maxGoals int) []float64 {
	table := make([]float64, maxGoals+1)
	term := math.Exp(-lambda)
	table[0] = term
	for i := 1; i <= maxGoals; i++ {
		term *= lambda / float64(i)
		table[i] = term
	}
	return table
}
