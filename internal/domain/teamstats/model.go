package teamstats

import "time"

// SeasonStats is one team's aggregated season record for a league, with the
// home/away split the goal model needs.
type SeasonStats struct {
	TeamID   int64
	TeamName string
	LeagueID int
	Season   int

	MatchesHome  int
	MatchesAway  int
	MatchesTotal int

	GoalsForHome     int
	GoalsForAway     int
	GoalsAgainstHome int
	GoalsAgainstAway int

	CleanSheets   int
	FailedToScore int
	Form          string

	FetchedAt time.Time
}

// AttackAvgHome is the team's average goals scored per home match.
func (s SeasonStats) AttackAvgHome() float64 {
	return perMatch(s.GoalsForHome, s.MatchesHome)
}

func (s SeasonStats) AttackAvgAway() float64 {
	return perMatch(s.GoalsForAway, s.MatchesAway)
}

func (s SeasonStats) DefenseAvgHome() float64 {
	return perMatch(s.GoalsAgainstHome, s.MatchesHome)
}

func (s SeasonStats) DefenseAvgAway() float64 {
	return perMatch(s.GoalsAgainstAway, s.MatchesAway)
}

func perMatch(goals, matches int) float64 {
	if matches < 1 {
		matches = 1
	}
	return float64(goals) / float64(matches)
}

// SampleSize is the number of matches backing the averages; the detector
// downgrades confidence below a configured floor.
func (s SeasonStats) SampleSize() int {
	return s.MatchesTotal
}

// StaleAt reports whether the record needs a refresh. A fetch timestamp more
// than five minutes ahead of now counts as stale (clock skew guard).
func (s SeasonStats) StaleAt(now time.Time, threshold time.Duration) bool {
	if s.FetchedAt.IsZero() {
		return true
	}
	if s.FetchedAt.After(now.Add(clockSkewTolerance)) {
		return true
	}
	return now.Sub(s.FetchedAt) > threshold
}

const clockSkewTolerance = 5 * time.Minute
