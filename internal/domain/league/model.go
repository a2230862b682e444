package league

import "fmt"

// League is a football competition the pipeline watches.
type League struct {
	ID               int
	Name             string
	Country          string
	AvgGoalsPerMatch float64
	CalendarYear     bool
	Enabled          bool
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id must be > 0")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.AvgGoalsPerMatch < 0 {
		return fmt.Errorf("league avg goals cannot be negative")
	}

	return nil
}

// AvgGoals returns the league's average total goals per match, falling back
// to the measured defaults when the stored value is unset.
func (l League) AvgGoals() float64 {
	if l.AvgGoalsPerMatch > 0 {
		return l.AvgGoalsPerMatch
	}

	return DefaultAvgGoals(l.ID)
}

// Measured goals-per-match averages for the supported top leagues.
var defaultAvgGoals = map[int]float64{
	262: 2.3, // Liga MX
	39:  2.8, // Premier League
	140: 2.6, // La Liga
	78:  3.0, // Bundesliga
	135: 2.7, // Serie A
	61:  2.6, // Ligue 1
}

const fallbackAvgGoals = 2.5

func DefaultAvgGoals(leagueID int) float64 {
	if avg, ok := defaultAvgGoals[leagueID]; ok {
		return avg
	}

	return fallbackAvgGoals
}
