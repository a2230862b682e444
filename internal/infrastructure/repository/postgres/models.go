package postgres

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type fixtureTableModel struct {
	ID              int64     `db:"id"`
	LeagueID        int       `db:"league_id"`
	Season          int       `db:"season"`
	KickoffUTC      time.Time `db:"kickoff_utc"`
	Status          string    `db:"status"`
	HomeTeamID      int64     `db:"home_team_id"`
	HomeTeamName    string    `db:"home_team_name"`
	AwayTeamID      int64     `db:"away_team_id"`
	AwayTeamName    string    `db:"away_team_name"`
	Venue           string    `db:"venue"`
	LastRefreshedAt time.Time `db:"last_refreshed_at"`
}

type teamStatsTableModel struct {
	TeamID           int64     `db:"team_id"`
	TeamName         string    `db:"team_name"`
	LeagueID         int       `db:"league_id"`
	Season           int       `db:"season"`
	MatchesHome      int       `db:"matches_home"`
	MatchesAway      int       `db:"matches_away"`
	MatchesTotal     int       `db:"matches_total"`
	GoalsForHome     int       `db:"goals_for_home"`
	GoalsForAway     int       `db:"goals_for_away"`
	GoalsAgainstHome int       `db:"goals_against_home"`
	GoalsAgainstAway int       `db:"goals_against_away"`
	CleanSheets      int       `db:"clean_sheets"`
	FailedToScore    int       `db:"failed_to_score"`
	Form             string    `db:"form"`
	FetchedAt        time.Time `db:"fetched_at"`
}

type leagueTableModel struct {
	ID               int     `db:"id"`
	Name             string  `db:"name"`
	Country          string  `db:"country"`
	AvgGoalsPerMatch float64 `db:"avg_goals_per_match"`
	CalendarYear     bool    `db:"calendar_year"`
	Enabled          bool    `db:"enabled"`
}

type oddsQuoteTableModel struct {
	FixtureID int64     `db:"fixture_id"`
	Market    string    `db:"market"`
	Outcome   string    `db:"outcome"`
	Bookmaker string    `db:"bookmaker"`
	Price     float64   `db:"price"`
	FetchedAt time.Time `db:"fetched_at"`
}

type predictionTableModel struct {
	ID            string    `db:"id"`
	FixtureID     int64     `db:"fixture_id"`
	LambdaHome    float64   `db:"lambda_home"`
	LambdaAway    float64   `db:"lambda_away"`
	ProbHome      float64   `db:"prob_home"`
	ProbDraw      float64   `db:"prob_draw"`
	ProbAway      float64   `db:"prob_away"`
	BucketZeroOne float64   `db:"bucket_zero_one"`
	BucketTwoTri  float64   `db:"bucket_two_three"`
	BucketFour    float64   `db:"bucket_four_plus"`
	Over25        float64   `db:"over_2_5"`
	Under25       float64   `db:"under_2_5"`
	BTTSYes       float64   `db:"btts_yes"`
	BTTSNo        float64   `db:"btts_no"`
	LowConfidence bool      `db:"low_confidence"`
	SampleHome    int       `db:"sample_home"`
	SampleAway    int       `db:"sample_away"`
	ComputedAt    time.Time `db:"computed_at"`
}

type valueBetTableModel struct {
	ID               string          `db:"id"`
	FixtureID        int64           `db:"fixture_id"`
	PredictionID     string          `db:"prediction_id"`
	Market           string          `db:"market"`
	Outcome          string          `db:"outcome"`
	ModelProbability float64         `db:"model_probability"`
	FairProbability  float64         `db:"fair_probability"`
	Price            float64         `db:"price"`
	Bookmaker        string          `db:"bookmaker"`
	Edge             float64         `db:"edge"`
	Confidence       int             `db:"confidence"`
	SuggestedStake   decimal.Decimal `db:"suggested_stake"`
	Status           string          `db:"status"`
	KickoffUTC       time.Time       `db:"kickoff_utc"`
	DetectedAt       time.Time       `db:"detected_at"`
	SentAt           *time.Time      `db:"sent_at"`
	FailureReason    sql.NullString  `db:"failure_reason"`
}

type notificationTableModel struct {
	ID         string    `db:"id"`
	ValueBetID string    `db:"value_bet_id"`
	MessageID  int64     `db:"message_id"`
	Channel    string    `db:"channel"`
	SentAt     time.Time `db:"sent_at"`
}

type teamMappingTableModel struct {
	PrimaryTeamID    int64     `db:"primary_team_id"`
	EnrichmentTeamID int64     `db:"enrichment_team_id"`
	TeamName         string    `db:"team_name"`
	Confidence       float64   `db:"confidence"`
	Verified         bool      `db:"verified"`
	CreatedAt        time.Time `db:"created_at"`
}

type cycleRecordTableModel struct {
	ID               string         `db:"id"`
	Trigger          string         `db:"cycle_trigger"`
	StartedAt        time.Time      `db:"started_at"`
	FinishedAt       *time.Time     `db:"finished_at"`
	FixturesExamined int            `db:"fixtures_examined"`
	FixturesAnalyzed int            `db:"fixtures_analyzed"`
	BetsDetected     int            `db:"bets_detected"`
	AlertsSent       int            `db:"alerts_sent"`
	AlertsFailed     int            `db:"alerts_failed"`
	SkippedNoData    int            `db:"skipped_no_data"`
	Status           string         `db:"status"`
	ErrorMessage     sql.NullString `db:"error_message"`
}
