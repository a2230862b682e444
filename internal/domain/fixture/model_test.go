package fixture

import (
	"testing"
	"time"
)

func TestWithinAlertWindow(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	horizon := 60 * time.Minute

	cases := []struct {
		name    string
		kickoff time.Time
		want    bool
	}{
		{name: "inside window", kickoff: now.Add(35 * time.Minute), want: true},
		{name: "exactly at horizon is included", kickoff: now.Add(60 * time.Minute), want: true},
		{name: "just beyond horizon", kickoff: now.Add(60*time.Minute + time.Second), want: false},
		{name: "kickoff exactly now already started", kickoff: now, want: false},
		{name: "kickoff in the past", kickoff: now.Add(-5 * time.Minute), want: false},
		{name: "one second before horizon", kickoff: now.Add(time.Second), want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := Fixture{ID: 1001, KickoffUTC: tc.kickoff}
			if got := f.WithinAlertWindow(now, horizon); got != tc.want {
				t.Fatalf("WithinAlertWindow(%s) = %v, want %v", tc.kickoff, got, tc.want)
			}
		})
	}
}

func TestWithinAlertWindow_ConsecutiveCyclesNeverSkip(t *testing.T) {
	t.Parallel()

	// A fixture 65 minutes out at the first run and 35 at the next must be
	// selected at least once when runs are 30 minutes apart.
	firstRun := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	secondRun := firstRun.Add(30 * time.Minute)
	f := Fixture{ID: 77, KickoffUTC: firstRun.Add(65 * time.Minute)}
	horizon := 60 * time.Minute

	selectedFirst := f.WithinAlertWindow(firstRun, horizon)
	selectedSecond := f.WithinAlertWindow(secondRun, horizon)
	if !selectedFirst && !selectedSecond {
		t.Fatalf("fixture crossing the horizon was never selected")
	}
	if selectedFirst {
		t.Fatalf("fixture 65 minutes out should not be selected yet")
	}
	if !selectedSecond {
		t.Fatalf("fixture 35 minutes out should be selected")
	}
}

func TestStaleAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	threshold := 3 * time.Hour

	cases := []struct {
		name        string
		refreshedAt time.Time
		want        bool
	}{
		{name: "fresh", refreshedAt: now.Add(-time.Hour), want: false},
		{name: "exactly at threshold is still fresh", refreshedAt: now.Add(-3 * time.Hour), want: false},
		{name: "past threshold", refreshedAt: now.Add(-3*time.Hour - time.Minute), want: true},
		{name: "never refreshed", refreshedAt: time.Time{}, want: true},
		{name: "slightly in the future tolerated", refreshedAt: now.Add(2 * time.Minute), want: false},
		{name: "far future is clock skew", refreshedAt: now.Add(10 * time.Minute), want: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := Fixture{ID: 1, LastRefreshedAt: tc.refreshedAt}
			if got := f.StaleAt(now, threshold); got != tc.want {
				t.Fatalf("StaleAt() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	t.Parallel()

	if !IsUpcoming("NS") || !IsUpcoming(" tbd ") || !IsUpcoming("") {
		t.Fatalf("expected NS/TBD/empty to be upcoming")
	}
	if IsUpcoming("FT") || IsUpcoming("1H") {
		t.Fatalf("started fixtures must not be upcoming")
	}
	if !IsLiveStatus("HT") || !IsLiveStatus("2h") {
		t.Fatalf("expected HT/2H to be live")
	}
	if !IsFinishedStatus("FT") || !IsFinishedStatus("pen") {
		t.Fatalf("expected FT/PEN to be finished")
	}
	if IsFinishedStatus("NS") {
		t.Fatalf("NS must not be finished")
	}
}
