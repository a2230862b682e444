package valuebet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/value-radar/internal/domain/odds"
)

// ErrNoMarketData signals that no real market price exists for an outcome.
// Analysis must abort for that fixture/outcome; a placeholder price is never
// an acceptable substitute.
var ErrNoMarketData = errors.New("no market data")

type Status string

const (
	StatusDetected Status = "detected"
	StatusSent     Status = "sent"
	StatusFailed   Status = "failed"
	StatusExpired  Status = "expired"
)

// ValidTransition encodes the lifecycle: detected bets either send, fail and
// retry, or expire; sent is terminal.
func ValidTransition(from, to Status) bool {
	switch from {
	case StatusDetected:
		return to == StatusSent || to == StatusFailed || to == StatusExpired
	case StatusFailed:
		return to == StatusDetected || to == StatusExpired
	default:
		return false
	}
}

// ValueBet is a priced outcome where the model sees an edge over the market.
type ValueBet struct {
	ID               string
	FixtureID        int64
	PredictionID     string
	Market           odds.Market
	Outcome          odds.Outcome
	ModelProbability float64
	FairProbability  float64 // de-vigged market probability, zero when the board was incomplete
	Price            float64
	Bookmaker        string
	Edge             float64
	Confidence       int
	SuggestedStake   decimal.Decimal
	Status           Status
	KickoffUTC       time.Time
	DetectedAt       time.Time
	SentAt           *time.Time
	FailureReason    string
}
