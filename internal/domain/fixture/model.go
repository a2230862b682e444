package fixture

import (
	"strings"
	"time"
)

// Short status codes as reported by the provider.
const (
	StatusNotStarted  = "NS"
	StatusToBeDefined = "TBD"
	StatusFullTime    = "FT"
	StatusPostponed   = "PST"
	StatusCancelled   = "CANC"
	StatusAbandoned   = "ABD"
)

// Fixture is one scheduled match. Identity fields are immutable after first
// ingest; Status and LastRefreshedAt change on refresh.
type Fixture struct {
	ID              int64
	LeagueID        int
	Season          int
	KickoffUTC      time.Time
	Status          string
	HomeTeamID      int64
	HomeTeamName    string
	AwayTeamID      int64
	AwayTeamName    string
	Venue           string
	LastRefreshedAt time.Time
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

// IsUpcoming reports whether the match has not started and is still expected
// to be played.
func IsUpcoming(status string) bool {
	switch NormalizeStatus(status) {
	case StatusNotStarted, StatusToBeDefined:
		return true
	default:
		return false
	}
}

func IsLiveStatus(status string) bool {
	switch NormalizeStatus(status) {
	case "1H", "HT", "2H", "ET", "BT", "P", "LIVE", "INT":
		return true
	default:
		return false
	}
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFullTime, "AET", "PEN", "AWD", "WO":
		return true
	default:
		return false
	}
}

// WithinAlertWindow reports whether the fixture is due for analysis now:
// kickoff strictly in the future and no further away than horizon. The upper
// bound is inclusive so a fixture crossing the horizon between two cycles is
// picked up by whichever cycle sees it inside the window.
func (f Fixture) WithinAlertWindow(now time.Time, horizon time.Duration) bool {
	lead := f.KickoffUTC.Sub(now)
	return lead > 0 && lead <= horizon
}

// StaleAt reports whether the stored record is older than threshold. A
// refresh timestamp more than five minutes in the future counts as stale,
// guarding against clock skew between writers.
func (f Fixture) StaleAt(now time.Time, threshold time.Duration) bool {
	if f.LastRefreshedAt.IsZero() {
		return true
	}
	if f.LastRefreshedAt.After(now.Add(clockSkewTolerance)) {
		return true
	}
	return now.Sub(f.LastRefreshedAt) > threshold
}

const clockSkewTolerance = 5 * time.Minute
