package valuebet

import "testing"

func TestValidTransition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		from Status
		to   Status
		want bool
	}{
		{StatusDetected, StatusSent, true},
		{StatusDetected, StatusFailed, true},
		{StatusDetected, StatusExpired, true},
		{StatusFailed, StatusDetected, true},
		{StatusFailed, StatusExpired, true},
		{StatusFailed, StatusSent, false},
		{StatusSent, StatusDetected, false},
		{StatusSent, StatusFailed, false},
		{StatusSent, StatusExpired, false},
		{StatusExpired, StatusDetected, false},
	}

	for _, tc := range cases {
		if got := ValidTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("ValidTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}
