package teamstats

import "strings"

// FormScore turns a recent-results string ("WWDLW", newest last) into a
// 0..100 score: points taken over the last n results divided by the maximum.
// An empty string scores zero.
func FormScore(form string, n int) float64 {
	results := lastResults(form, n)
	if len(results) == 0 {
		return 0
	}

	points := 0
	for _, r := range results {
		switch r {
		case 'W':
			points += 3
		case 'D':
			points++
		}
	}

	return float64(points) / float64(len(results)*3) * 100
}

// Momentum compares the most recent three results against the three before
// them; positive means improving form. Fewer than six results is neutral.
func Momentum(form string) float64 {
	results := lastResults(form, 6)
	if len(results) < 6 {
		return 0
	}

	older := string(results[:3])
	recent := string(results[3:])

	return FormScore(recent, 3) - FormScore(older, 3)
}

// FormAdvantage classifies the home-minus-away form differential.
func FormAdvantage(homeScore, awayScore float64) string {
	diff := homeScore - awayScore
	switch {
	case diff > 20:
		return "strong_home"
	case diff > 10:
		return "moderate_home"
	case diff < -20:
		return "strong_away"
	case diff < -10:
		return "moderate_away"
	default:
		return "balanced"
	}
}

func lastResults(form string, n int) []byte {
	cleaned := make([]byte, 0, len(form))
	for _, r := range strings.ToUpper(strings.TrimSpace(form)) {
		switch r {
		case 'W', 'D', 'L':
			cleaned = append(cleaned, byte(r))
		}
	}
	if n > 0 && len(cleaned) > n {
		cleaned = cleaned[len(cleaned)-n:]
	}

	return cleaned
}
