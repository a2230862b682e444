package league

import "time"

// Leagues whose season label follows the calendar year: Liga MX
// (Apertura/Clausura halves share one year), Eliteserien, J1 League.
var calendarYearLeagues = map[int]struct{}{
	262: {},
	103: {},
	98:  {},
}

// IsCalendarYear reports whether the league's season label follows the
// calendar year instead of the European August split.
func IsCalendarYear(leagueID int) bool {
	_, ok := calendarYearLeagues[leagueID]
	return ok
}

// SeasonFor resolves the season year a provider expects for a league at a
// given instant. European competitions roll over in August; calendar-year
// leagues always use the current year.
func SeasonFor(leagueID int, now time.Time) int {
	now = now.UTC()
	if _, ok := calendarYearLeagues[leagueID]; ok {
		return now.Year()
	}
	if now.Month() >= time.August {
		return now.Year()
	}

	return now.Year() - 1
}
