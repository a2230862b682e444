package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/value-radar/internal/domain/fixture"
	"github.com/riskibarqy/value-radar/internal/domain/prediction"
	"github.com/riskibarqy/value-radar/internal/domain/valuebet"
)

// ReadMode selects how fixture reads treat cached data.
type ReadMode string

const (
	// ReadDirect returns whatever the store holds without freshness checks.
	ReadDirect ReadMode = "direct"
	// ReadFreshnessChecked refreshes fixtures whose stored snapshot is past
	// the staleness threshold before returning them.
	ReadFreshnessChecked ReadMode = "freshness_checked"
)

// ExternalFixture is a provider-shaped fixture row, normalized from the
// upstream payload but not yet persisted.
type ExternalFixture struct {
	ID           int64
	LeagueID     int
	Season       int
	KickoffUTC   time.Time
	Status       string
	HomeTeamID   int64
	HomeTeamName string
	AwayTeamID   int64
	AwayTeamName string
	Venue        string
}

// ExternalTeamStatistics carries a season aggregate for one team in one league.
type ExternalTeamStatistics struct {
	TeamID           int64
	TeamName         string
	LeagueID         int
	Season           int
	MatchesHome      int
	MatchesAway      int
	MatchesTotal     int
	GoalsForHome     int
	GoalsForAway     int
	GoalsAgainstHome int
	GoalsAgainstAway int
	CleanSheets      int
	FailedToScore    int
	Form             string
}

// ExternalQuote is a single bookmaker price for one outcome.
type ExternalQuote struct {
	Outcome   string
	Price     float64
	Bookmaker string
}

// ExternalOddsBook groups every quote the provider returned for one
// fixture and market.
type ExternalOddsBook struct {
	FixtureID int64
	Market    string
	Quotes    []ExternalQuote
}

// ExternalLeague is a provider-shaped league row.
type ExternalLeague struct {
	ID      int
	Name    string
	Country string
	Season  int
}

// SportDataProvider is the primary upstream data source. Implementations
// classify failures: ErrTransientFetch for retryable conditions,
// ErrFatalFetch for auth or configuration problems. An empty result with a
// nil error means the provider genuinely had no rows.
type SportDataProvider interface {
	FetchFixtures(ctx context.Context, leagueID, season int, from, to time.Time) ([]ExternalFixture, error)
	FetchTeamStatistics(ctx context.Context, teamID int64, leagueID, season int) (ExternalTeamStatistics, bool, error)
	FetchOdds(ctx context.Context, fixtureID int64) ([]ExternalOddsBook, error)
	FetchLeagues(ctx context.Context) ([]ExternalLeague, error)
}

// TeamEnrichment is the optional secondary-source view of a team used to
// lift or sink alert confidence. QualityScore is 0..100.
type TeamEnrichment struct {
	TeamID       int64
	QualityScore float64
	FormScore    float64
	BTTSRate     float64
	Over25Rate   float64
	FetchedAt    time.Time
}

// EnrichmentProvider is the secondary data source. It is optional: the
// pipeline runs without it and treats every failure as a soft skip.
type EnrichmentProvider interface {
	Enabled() bool
	FetchTeam(ctx context.Context, enrichmentTeamID int64) (TeamEnrichment, bool, error)
}

// AlertMessage is a rendered notification ready to send.
type AlertMessage struct {
	Text string
}

// DeliveryReceipt identifies a confirmed send on the destination channel.
type DeliveryReceipt struct {
	MessageID int64
	Channel   string
	SentAt    time.Time
}

// AlertDeliverer sends rendered messages to the configured destination.
// Send returns a receipt only when the channel confirmed the message;
// any error means nothing may be recorded as sent.
type AlertDeliverer interface {
	Send(ctx context.Context, msg AlertMessage) (DeliveryReceipt, error)
}

// DailySummary aggregates the last day of detections for the summary message.
type DailySummary struct {
	Date          time.Time
	AlertsSent    int
	Opportunities int
	BestBet       *valuebet.ValueBet
	BestFixture   *fixture.Fixture
}

// MessageRenderer turns pipeline events into channel-ready messages.
type MessageRenderer interface {
	Alert(fx fixture.Fixture, bet valuebet.ValueBet, pred prediction.Prediction, minutesToKickoff int) AlertMessage
	Summary(s DailySummary) AlertMessage
	Startup(serviceName, version string, leagueIDs []int) AlertMessage
	FatalNotice(reason string) AlertMessage
}
