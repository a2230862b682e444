package valuebet

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/value-radar/internal/domain/odds"
	"github.com/riskibarqy/value-radar/internal/domain/prediction"
)

func TestEdge_WorkedExample(t *testing.T) {
	t.Parallel()

	got := Edge(0.55, 2.10)
	if math.Abs(got-0.155) > 1e-9 {
		t.Fatalf("Edge(0.55, 2.10) = %v, want 0.155", got)
	}
}

func TestEdge_MonotonicInPrice(t *testing.T) {
	t.Parallel()

	prev := Edge(0.40, 1.10)
	for price := 1.20; price <= 6.0; price += 0.10 {
		cur := Edge(0.40, price)
		if cur <= prev {
			t.Fatalf("edge not increasing in price at %v: %v <= %v", price, cur, prev)
		}
		prev = cur
	}
}

func TestEdge_MonotonicInProbability(t *testing.T) {
	t.Parallel()

	prev := Edge(0.05, 2.50)
	for p := 0.10; p <= 0.95; p += 0.05 {
		cur := Edge(p, 2.50)
		if cur <= prev {
			t.Fatalf("edge not increasing in probability at %v: %v <= %v", p, cur, prev)
		}
		prev = cur
	}
}

func TestConfidenceTier_MonotonicInEdge(t *testing.T) {
	t.Parallel()

	edges := []float64{0.02, 0.05, 0.07, 0.10, 0.15, 0.30}
	prev := 0
	for _, edge := range edges {
		tier := ConfidenceTier(edge, 20, 3, false, 0)
		if tier < prev {
			t.Fatalf("tier decreased at edge=%v: %d < %d", edge, tier, prev)
		}
		prev = tier
	}
}

func TestConfidenceTier_ThinSampleDowngrades(t *testing.T) {
	t.Parallel()

	full := ConfidenceTier(0.12, 20, 3, false, 0)
	thin := ConfidenceTier(0.12, 2, 3, false, 0)
	if thin != full-1 {
		t.Fatalf("thin sample tier = %d, want %d", thin, full-1)
	}
}

func TestConfidenceTier_BoundedOneToFive(t *testing.T) {
	t.Parallel()

	if got := ConfidenceTier(0.01, 1, 3, true, 0); got != 1 {
		t.Fatalf("floor tier = %d, want 1", got)
	}
	if got := ConfidenceTier(0.40, 30, 3, false, 2.0); got != 5 {
		t.Fatalf("ceiling tier = %d, want 5", got)
	}
}

func TestEnrichmentBoost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		quality  float64
		formDiff float64
		want     float64
	}{
		{"no signals", 0, 0, 0},
		{"high quality only", 80, 0, 1},
		{"medium quality only", 55, 0, 0.5},
		{"strong form only", 0, 35, 1},
		{"moderate form only", 0, 20, 0.5},
		{"both strong", 80, 35, 2},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := EnrichmentBoost(tc.quality, tc.formDiff)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("EnrichmentBoost(%v, %v) = %v, want %v", tc.quality, tc.formDiff, got, tc.want)
			}
		})
	}
}

func TestKellyStake(t *testing.T) {
	t.Parallel()

	bankroll := decimal.NewFromInt(1000)

	// p=0.55 at 2.10: kelly = (1.1*0.55 - 0.45)/1.1 = 0.140909..,
	// quarter-kelly 0.03522.. stays under the 5% cap.
	stake := KellyStake(0.55, 2.10, bankroll, 0.25, 0.05)
	want := decimal.NewFromFloat(35.23)
	if !stake.Equal(want) {
		t.Fatalf("stake = %s, want %s", stake, want)
	}

	// Large edge hits the bankroll cap.
	capped := KellyStake(0.80, 3.00, bankroll, 0.5, 0.05)
	if !capped.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("capped stake = %s, want 50", capped)
	}

	// Negative kelly means no bet.
	if got := KellyStake(0.20, 1.50, bankroll, 0.25, 0.05); !got.IsZero() {
		t.Fatalf("negative-kelly stake = %s, want 0", got)
	}
}

func TestDetector_Evaluate_NoMarketData(t *testing.T) {
	t.Parallel()

	detector := NewDetector(Config{MinEdge: 0.05, MinSampleMatches: 3, Bankroll: decimal.NewFromInt(1000), KellyFraction: 0.25, MaxStakePct: 0.05})

	pred := prediction.Prediction{FixtureID: 9, Outcomes: prediction.OutcomeProbs{Home: 0.5, Draw: 0.3, Away: 0.2}}
	_, err := detector.Evaluate(pred, odds.Book{FixtureID: 9, Market: odds.MarketMatchWinner}, 0, time.Now())
	if !errors.Is(err, ErrNoMarketData) {
		t.Fatalf("expected ErrNoMarketData, got %v", err)
	}
}

func TestDetector_Evaluate_InvalidQuotesAreDroppedNotDefaulted(t *testing.T) {
	t.Parallel()

	detector := NewDetector(Config{MinEdge: 0.05, MinSampleMatches: 3, Bankroll: decimal.NewFromInt(1000), KellyFraction: 0.25, MaxStakePct: 0.05})

	pred := prediction.Prediction{
		FixtureID:  9,
		SampleHome: 20,
		SampleAway: 20,
		Outcomes:   prediction.OutcomeProbs{Home: 0.9, Draw: 0.05, Away: 0.05},
	}
	book := odds.Book{
		FixtureID: 9,
		Market:    odds.MarketMatchWinner,
		Quotes: []odds.Quote{
			{Outcome: odds.OutcomeHome, Price: 0.0, Bookmaker: "broken"},
			{Outcome: odds.OutcomeHome, Price: 1.0, Bookmaker: "also broken"},
		},
	}

	_, err := detector.Evaluate(pred, book, 0, time.Now())
	if !errors.Is(err, ErrNoMarketData) {
		t.Fatalf("a book with only invalid prices must be no-data, got %v", err)
	}
}

func TestDetector_Evaluate_FindsValueOnBestPrice(t *testing.T) {
	t.Parallel()

	detector := NewDetector(Config{MinEdge: 0.05, MinSampleMatches: 3, Bankroll: decimal.NewFromInt(1000), KellyFraction: 0.25, MaxStakePct: 0.05})

	pred := prediction.Prediction{
		ID:         "prd_1",
		FixtureID:  42,
		SampleHome: 20,
		SampleAway: 18,
		Outcomes:   prediction.OutcomeProbs{Home: 0.55, Draw: 0.25, Away: 0.20},
	}
	book := odds.Book{
		FixtureID: 42,
		Market:    odds.MarketMatchWinner,
		Quotes: []odds.Quote{
			{Outcome: odds.OutcomeHome, Price: 1.95, Bookmaker: "low"},
			{Outcome: odds.OutcomeHome, Price: 2.10, Bookmaker: "best"},
			{Outcome: odds.OutcomeDraw, Price: 3.20, Bookmaker: "best"},
			{Outcome: odds.OutcomeAway, Price: 4.00, Bookmaker: "best"},
		},
	}

	bets, err := detector.Evaluate(pred, book, 0, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(bets) != 1 {
		t.Fatalf("expected one value bet, got %d", len(bets))
	}

	bet := bets[0]
	if bet.Outcome != odds.OutcomeHome {
		t.Fatalf("outcome = %s, want HOME", bet.Outcome)
	}
	if bet.Bookmaker != "best" {
		t.Fatalf("bookmaker = %s, want best price source", bet.Bookmaker)
	}
	if math.Abs(bet.Edge-0.155) > 1e-9 {
		t.Fatalf("edge = %v, want 0.155", bet.Edge)
	}
	if bet.Status != StatusDetected {
		t.Fatalf("status = %s, want detected", bet.Status)
	}
	if bet.Confidence != 5 {
		t.Fatalf("confidence = %d, want 5 for a 15.5%% edge", bet.Confidence)
	}
}

func TestDetector_Evaluate_FairProbabilityFromFullBoard(t *testing.T) {
	t.Parallel()

	detector := NewDetector(Config{MinEdge: 0.05, MinSampleMatches: 3, Bankroll: decimal.NewFromInt(1000), KellyFraction: 0.25, MaxStakePct: 0.05})

	pred := prediction.Prediction{
		FixtureID:  42,
		SampleHome: 20,
		SampleAway: 18,
		Outcomes:   prediction.OutcomeProbs{Home: 0.55, Draw: 0.25, Away: 0.20},
	}
	book := odds.Book{
		FixtureID: 42,
		Market:    odds.MarketMatchWinner,
		Quotes: []odds.Quote{
			{Outcome: odds.OutcomeHome, Price: 2.10, Bookmaker: "best"},
			{Outcome: odds.OutcomeDraw, Price: 3.20, Bookmaker: "best"},
			{Outcome: odds.OutcomeAway, Price: 4.00, Bookmaker: "best"},
		},
	}

	bets, err := detector.Evaluate(pred, book, 0, time.Now())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(bets) != 1 {
		t.Fatalf("expected one value bet, got %d", len(bets))
	}

	// De-vig by proportional normalization of the best-price board.
	overround := 1/2.10 + 1/3.20 + 1/4.00
	want := (1 / 2.10) / overround
	if math.Abs(bets[0].FairProbability-want) > 1e-9 {
		t.Fatalf("fair probability = %v, want %v", bets[0].FairProbability, want)
	}
}

func TestDetector_Evaluate_PartialBoardHasNoFairProbability(t *testing.T) {
	t.Parallel()

	detector := NewDetector(Config{MinEdge: 0.05, MinSampleMatches: 3, Bankroll: decimal.NewFromInt(1000), KellyFraction: 0.25, MaxStakePct: 0.05})

	pred := prediction.Prediction{
		FixtureID:  42,
		SampleHome: 20,
		SampleAway: 18,
		Outcomes:   prediction.OutcomeProbs{Home: 0.55, Draw: 0.25, Away: 0.20},
	}
	// Draw and away quotes are missing, so de-vigging would fabricate a
	// completion. The bet still stands, the fair number stays zero.
	book := odds.Book{
		FixtureID: 42,
		Market:    odds.MarketMatchWinner,
		Quotes:    []odds.Quote{{Outcome: odds.OutcomeHome, Price: 2.10, Bookmaker: "best"}},
	}

	bets, err := detector.Evaluate(pred, book, 0, time.Now())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(bets) != 1 {
		t.Fatalf("expected one value bet, got %d", len(bets))
	}
	if bets[0].FairProbability != 0 {
		t.Fatalf("fair probability = %v, want 0 on a partial board", bets[0].FairProbability)
	}
}

func TestDetector_Evaluate_BelowMinEdgeYieldsNothing(t *testing.T) {
	t.Parallel()

	detector := NewDetector(Config{MinEdge: 0.05, MinSampleMatches: 3, Bankroll: decimal.NewFromInt(1000), KellyFraction: 0.25, MaxStakePct: 0.05})

	// Fair market: every edge is ~0.
	pred := prediction.Prediction{
		FixtureID:  7,
		SampleHome: 20,
		SampleAway: 20,
		Outcomes:   prediction.OutcomeProbs{Home: 0.50, Draw: 0.25, Away: 0.25},
	}
	book := odds.Book{
		FixtureID: 7,
		Market:    odds.MarketMatchWinner,
		Quotes: []odds.Quote{
			{Outcome: odds.OutcomeHome, Price: 2.00, Bookmaker: "fair"},
			{Outcome: odds.OutcomeDraw, Price: 4.00, Bookmaker: "fair"},
			{Outcome: odds.OutcomeAway, Price: 4.00, Bookmaker: "fair"},
		},
	}

	bets, err := detector.Evaluate(pred, book, 0, time.Now())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(bets) != 0 {
		t.Fatalf("expected no bets on a fair book, got %d", len(bets))
	}
}
