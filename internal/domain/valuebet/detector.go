package valuebet

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/value-radar/internal/domain/odds"
	"github.com/riskibarqy/value-radar/internal/domain/prediction"
)

// Edge is the model's advantage over a decimal price: positive when the model
// assigns more probability than the market's implied 1/price.
func Edge(modelProbability, price float64) float64 {
	return modelProbability*price - 1
}

// ExpectedValue is the mean return of one bet at the given stake.
func ExpectedValue(modelProbability, price, stake float64) float64 {
	win := modelProbability * (price - 1) * stake
	loss := (1 - modelProbability) * stake
	return win - loss
}

// Confidence tier thresholds on edge magnitude.
const (
	tier5Edge = 0.15
	tier4Edge = 0.10
	tier3Edge = 0.07
	tier2Edge = 0.05
)

// ConfidenceTier buckets an edge into tiers 1..5, downgrading one tier on a
// thin sample and adding the enrichment boost when present. Monotonic in
// edge for fixed sample and boost.
func ConfidenceTier(edge float64, sampleSize, minSample int, degraded bool, boost float64) int {
	var base int
	switch {
	case edge >= tier5Edge:
		base = 5
	case edge >= tier4Edge:
		base = 4
	case edge >= tier3Edge:
		base = 3
	case edge >= tier2Edge:
		base = 2
	default:
		base = 1
	}

	if sampleSize < minSample || degraded {
		base--
	}

	tier := int(math.Round(float64(base) + boost))
	if tier < 1 {
		return 1
	}
	if tier > 5 {
		return 5
	}
	return tier
}

// EnrichmentBoost converts enrichment quality (0..100) and the form
// differential favoring the bet side into a fractional tier boost.
func EnrichmentBoost(qualityScore, formDiff float64) float64 {
	boost := 0.0
	switch {
	case qualityScore >= 70:
		boost++
	case qualityScore >= 50:
		boost += 0.5
	}
	switch {
	case formDiff > 30:
		boost++
	case formDiff > 15:
		boost += 0.5
	}
	return boost
}

// KellyStake sizes a stake by fractional Kelly, capped at a bankroll share.
// Negative or zero Kelly means no bet.
func KellyStake(modelProbability, price float64, bankroll decimal.Decimal, fraction, maxPct float64) decimal.Decimal {
	b := price - 1
	if b <= 0 {
		return decimal.Zero
	}

	p := modelProbability
	q := 1 - p
	kelly := (b*p - q) / b * fraction
	if kelly <= 0 {
		return decimal.Zero
	}
	if kelly > maxPct {
		kelly = maxPct
	}

	return bankroll.Mul(decimal.NewFromFloat(kelly)).Round(2)
}

// Config carries the detection thresholds and staking policy.
type Config struct {
	MinEdge          float64
	MinSampleMatches int
	Bankroll         decimal.Decimal
	KellyFraction    float64
	MaxStakePct      float64
}

type Detector struct {
	cfg Config
}

func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Evaluate compares the model distribution against the best real price per
// outcome and returns every outcome clearing the minimum edge, in detected
// state. An empty book is ErrNoMarketData: analysis for the fixture aborts
// rather than comparing against invented numbers.
func (d *Detector) Evaluate(p prediction.Prediction, book odds.Book, boost float64, now time.Time) ([]ValueBet, error) {
	best := book.BestPrices()
	if len(best) == 0 {
		return nil, ErrNoMarketData
	}
	fair := fairProbabilities(book.Market, best)

	sample := p.SampleHome
	if p.SampleAway < sample {
		sample = p.SampleAway
	}

	var out []ValueBet
	for outcome, quote := range best {
		modelProb, ok := modelProbabilityFor(p, book.Market, outcome)
		if !ok {
			continue
		}

		edge := Edge(modelProb, quote.Price)
		if edge < d.cfg.MinEdge {
			continue
		}

		out = append(out, ValueBet{
			FixtureID:        p.FixtureID,
			PredictionID:     p.ID,
			Market:           book.Market,
			Outcome:          outcome,
			ModelProbability: modelProb,
			FairProbability:  fair[outcome],
			Price:            quote.Price,
			Bookmaker:        quote.Bookmaker,
			Edge:             edge,
			Confidence:       ConfidenceTier(edge, sample, d.cfg.MinSampleMatches, p.LowConfidence, boost),
			SuggestedStake:   KellyStake(modelProb, quote.Price, d.cfg.Bankroll, d.cfg.KellyFraction, d.cfg.MaxStakePct),
			Status:           StatusDetected,
			DetectedAt:       now,
		})
	}

	return out, nil
}

// fairProbabilities de-vigs the best-price board for reporting. A partial
// board yields no fair numbers rather than a fabricated completion.
func fairProbabilities(market odds.Market, best map[odds.Outcome]odds.Quote) map[odds.Outcome]float64 {
	outcomes := market.Outcomes()
	if len(outcomes) == 0 || len(best) < len(outcomes) {
		return nil
	}

	prices := make([]float64, len(outcomes))
	for i, o := range outcomes {
		q, ok := best[o]
		if !ok {
			return nil
		}
		prices[i] = q.Price
	}

	fair, err := odds.RemoveMargin(prices)
	if err != nil {
		return nil
	}

	out := make(map[odds.Outcome]float64, len(outcomes))
	for i, o := range outcomes {
		out[o] = fair[i]
	}
	return out
}

func modelProbabilityFor(p prediction.Prediction, market odds.Market, outcome odds.Outcome) (float64, bool) {
	switch market {
	case odds.MarketMatchWinner:
		switch outcome {
		case odds.OutcomeHome:
			return p.Outcomes.Home, true
		case odds.OutcomeDraw:
			return p.Outcomes.Draw, true
		case odds.OutcomeAway:
			return p.Outcomes.Away, true
		}
	case odds.MarketOverUnder25:
		switch outcome {
		case odds.OutcomeOver25:
			return p.Over25, true
		case odds.OutcomeUnder25:
			return p.Under25, true
		}
	case odds.MarketBTTS:
		switch outcome {
		case odds.OutcomeBTTSYes:
			return p.BTTSYes, true
		case odds.OutcomeBTTSNo:
			return p.BTTSNo, true
		}
	}
	return 0, false
}
