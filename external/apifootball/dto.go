package apifootball

import (
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// apiErrors tolerates the provider's two encodings of the errors field: an
// empty array when clean and an object of code to message when not.
type apiErrors map[string]string

func (e *apiErrors) UnmarshalJSON(raw []byte) error {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" || strings.HasPrefix(trimmed, "[") {
		*e = nil
		return nil
	}
	var m map[string]string
	if err := sonic.Unmarshal(raw, &m); err != nil {
		// A shape we cannot read is treated as no reported errors; the
		// envelope's response array still decides whether data exists.
		*e = nil
		return nil
	}
	*e = m
	return nil
}

func (e apiErrors) empty() bool { return len(e) == 0 }

// fatal reports whether the provider's error codes point at credentials or
// plan limits rather than a transient condition.
func (e apiErrors) fatal() bool {
	for code := range e {
		switch strings.ToLower(strings.TrimSpace(code)) {
		case "token", "access", "plan", "subscription":
			return true
		}
	}
	return false
}

func (e apiErrors) message() string {
	parts := make([]string, 0, len(e))
	for code, msg := range e {
		parts = append(parts, code+": "+msg)
	}
	return strings.Join(parts, "; ")
}

type teamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type fixturesEnvelope struct {
	Errors   apiErrors      `json:"errors"`
	Results  int            `json:"results"`
	Response []fixtureEntry `json:"response"`
}

type fixtureEntry struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		ID     int `json:"id"`
		Season int `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
}

type teamStatsEnvelope struct {
	Errors   apiErrors      `json:"errors"`
	Response teamStatsEntry `json:"response"`
}

type homeAwayTotalInt struct {
	Home  int `json:"home"`
	Away  int `json:"away"`
	Total int `json:"total"`
}

type teamStatsEntry struct {
	Team   teamRef `json:"team"`
	League struct {
		ID     int `json:"id"`
		Season int `json:"season"`
	} `json:"league"`
	Form     string `json:"form"`
	Fixtures struct {
		Played homeAwayTotalInt `json:"played"`
	} `json:"fixtures"`
	Goals struct {
		For struct {
			Total homeAwayTotalInt `json:"total"`
		} `json:"for"`
		Against struct {
			Total homeAwayTotalInt `json:"total"`
		} `json:"against"`
	} `json:"goals"`
	CleanSheet    homeAwayTotalInt `json:"clean_sheet"`
	FailedToScore homeAwayTotalInt `json:"failed_to_score"`
}

func (t teamStatsEntry) populated() bool {
	return t.Team.ID > 0 && t.Fixtures.Played.Total > 0
}

type oddsEnvelope struct {
	Errors   apiErrors   `json:"errors"`
	Response []oddsEntry `json:"response"`
}

type oddsEntry struct {
	Fixture struct {
		ID int64 `json:"id"`
	} `json:"fixture"`
	Bookmakers []bookmakerEntry `json:"bookmakers"`
}

type bookmakerEntry struct {
	ID   int        `json:"id"`
	Name string     `json:"name"`
	Bets []betEntry `json:"bets"`
}

type betEntry struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Values []betValue `json:"values"`
}

type betValue struct {
	Value string `json:"value"`
	Odd   string `json:"odd"`
}

// price parses the provider's string odds. Anything unparseable or at or
// below even money is reported as absent.
func (v betValue) price() (float64, bool) {
	p, err := strconv.ParseFloat(strings.TrimSpace(v.Odd), 64)
	if err != nil || p <= 1.0 {
		return 0, false
	}
	return p, true
}

type leaguesEnvelope struct {
	Errors   apiErrors     `json:"errors"`
	Response []leagueEntry `json:"response"`
}

type leagueEntry struct {
	League struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
	} `json:"country"`
	Seasons []struct {
		Year    int  `json:"year"`
		Current bool `json:"current"`
	} `json:"seasons"`
}

func (l leagueEntry) currentSeason() int {
	for _, s := range l.Seasons {
		if s.Current {
			return s.Year
		}
	}
	if n := len(l.Seasons); n > 0 {
		return l.Seasons[n-1].Year
	}
	return 0
}
