package odds

import (
	"fmt"
	"time"
)

// Outcome labels one side of a market.
type Outcome string

const (
	OutcomeHome    Outcome = "HOME"
	OutcomeDraw    Outcome = "DRAW"
	OutcomeAway    Outcome = "AWAY"
	OutcomeOver25  Outcome = "OVER_2_5"
	OutcomeUnder25 Outcome = "UNDER_2_5"
	OutcomeBTTSYes Outcome = "BTTS_YES"
	OutcomeBTTSNo  Outcome = "BTTS_NO"
)

// Market identifies the priced question.
type Market string

const (
	MarketMatchWinner Market = "1X2"
	MarketOverUnder25 Market = "OU_2_5"
	MarketBTTS        Market = "BTTS"
)

// Outcomes lists the market's full board in reporting order.
func (m Market) Outcomes() []Outcome {
	switch m {
	case MarketMatchWinner:
		return []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}
	case MarketOverUnder25:
		return []Outcome{OutcomeOver25, OutcomeUnder25}
	case MarketBTTS:
		return []Outcome{OutcomeBTTSYes, OutcomeBTTSNo}
	}
	return nil
}

// Quote is one bookmaker's decimal price for one outcome.
type Quote struct {
	Outcome   Outcome
	Price     float64
	Bookmaker string
}

// Book is the latest priced view of one market on one fixture. Snapshots are
// append-only in storage; detection uses only the most recent book.
type Book struct {
	FixtureID int64
	Market    Market
	Quotes    []Quote
	FetchedAt time.Time
}

// ValidatePrice enforces the decimal-odds invariant: a price at or below 1.0
// implies probability >= 100% and cannot be a real market quote.
func ValidatePrice(price float64) error {
	if price <= 1.0 {
		return fmt.Errorf("decimal price must be > 1.0, got %v", price)
	}
	return nil
}

// ImpliedProbability is 1/price for a valid decimal price.
func ImpliedProbability(price float64) (float64, error) {
	if err := ValidatePrice(price); err != nil {
		return 0, err
	}
	return 1 / price, nil
}

// BestPrices picks the highest valid price per outcome across bookmakers.
// Invalid quotes are dropped, never defaulted.
func (b Book) BestPrices() map[Outcome]Quote {
	best := make(map[Outcome]Quote, len(b.Quotes))
	for _, q := range b.Quotes {
		if ValidatePrice(q.Price) != nil {
			continue
		}
		cur, ok := best[q.Outcome]
		if !ok || q.Price > cur.Price {
			best[q.Outcome] = q
		}
	}
	return best
}

// RemoveMargin strips the bookmaker overround multiplicatively: each implied
// probability is divided by the board total, so fair probabilities sum to 1.
// The full board must be present; partial boards return an error rather than
// a fabricated completion.
func RemoveMargin(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, fmt.Errorf("margin removal needs a full board, got %d prices", len(prices))
	}

	total := 0.0
	for _, p := range prices {
		implied, err := ImpliedProbability(p)
		if err != nil {
			return nil, err
		}
		total += implied
	}

	fair := make([]float64, len(prices))
	for i, p := range prices {
		fair[i] = (1 / p) / total
	}
	return fair, nil
}
