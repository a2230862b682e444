package league

import (
	"testing"
	"time"
)

func TestSeasonFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		leagueID int
		now      time.Time
		want     int
	}{
		{
			name:     "premier league before august uses previous year",
			leagueID: 39,
			now:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
			want:     2025,
		},
		{
			name:     "premier league in august rolls over",
			leagueID: 39,
			now:      time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			want:     2026,
		},
		{
			name:     "liga mx clausura stays on calendar year",
			leagueID: 262,
			now:      time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
			want:     2026,
		},
		{
			name:     "liga mx apertura stays on calendar year",
			leagueID: 262,
			now:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			want:     2026,
		},
		{
			name:     "eliteserien uses calendar year",
			leagueID: 103,
			now:      time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			want:     2026,
		},
		{
			name:     "unknown league defaults to european split",
			leagueID: 999,
			now:      time.Date(2026, 7, 31, 23, 59, 0, 0, time.UTC),
			want:     2025,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := SeasonFor(tc.leagueID, tc.now); got != tc.want {
				t.Fatalf("SeasonFor(%d, %s) = %d, want %d", tc.leagueID, tc.now, got, tc.want)
			}
		})
	}
}

func TestLeague_AvgGoals(t *testing.T) {
	t.Parallel()

	stored := League{ID: 39, Name: "Premier League", AvgGoalsPerMatch: 2.9}
	if got := stored.AvgGoals(); got != 2.9 {
		t.Fatalf("AvgGoals() = %v, want stored 2.9", got)
	}

	unset := League{ID: 78, Name: "Bundesliga"}
	if got := unset.AvgGoals(); got != 3.0 {
		t.Fatalf("AvgGoals() = %v, want default 3.0", got)
	}

	unknown := League{ID: 999, Name: "Elsewhere"}
	if got := unknown.AvgGoals(); got != 2.5 {
		t.Fatalf("AvgGoals() = %v, want fallback 2.5", got)
	}
}

func TestLeague_Validate(t *testing.T) {
	t.Parallel()

	valid := League{ID: 262, Name: "Liga MX", Country: "Mexico", AvgGoalsPerMatch: 2.3}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if err := (League{Name: "No ID"}).Validate(); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if err := (League{ID: 1}).Validate(); err == nil {
		t.Fatalf("expected error for missing name")
	}
}
