package timeutil

import (
	"fmt"
	"testing"
)

func TestCanonicalDate_Formats(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want string
	}{
		{"iso", "2025-03-10", "2025-03-10"},
		{"iso with time", "2025-03-10T09:30:00Z", "2025-03-10"},
		{"day first dashes", "10-03-2025", "2025-03-10"},
		{"day first slashes", "10/03/2025", "2025-03-10"},
		{"single digit day and month", "5/3/2025", "2025-03-05"},
		{"int tuple", []int{2025, 3, 10}, "2025-03-10"},
		{"float tuple from json", []float64{2025, 3, 10}, "2025-03-10"},
		{"any tuple with trailing fields", []any{float64(2025), float64(3), float64(10), float64(9), float64(30)}, "2025-03-10"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanonicalDate(tc.in); got != tc.want {
				t.Fatalf("CanonicalDate(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalDate_UnparseableReturnedUnchanged(t *testing.T) {
	for _, in := range []string{"next tuesday", "", "2025/03/10 maybe"} {
		if got := CanonicalDate(in); got != in {
			t.Fatalf("CanonicalDate(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestCanonicalDate_Idempotent(t *testing.T) {
	inputs := []string{"2025-03-10", "10-03-2025", "10/03/2025", "garbage"}
	for _, in := range inputs {
		once := CanonicalDate(in)
		if twice := CanonicalDate(once); twice != once {
			t.Fatalf("CanonicalDate not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestTo24Hour(t *testing.T) {
	cases := map[string]string{
		"09:00 AM": "09:00",
		"9:00 am":  "09:00",
		"12:00 AM": "00:00",
		"12:30 PM": "12:30",
		"01:15 PM": "13:15",
		"11:59 PM": "23:59",
	}
	for in, want := range cases {
		if got := To24Hour(in); got != want {
			t.Fatalf("To24Hour(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTo24Hour_LossyTruncation(t *testing.T) {
	if got := To24Hour("09:00:00"); got != "09:00" {
		t.Fatalf("expected truncation to 09:00, got %q", got)
	}
	if got := To24Hour("morning slot"); got != "morni" {
		t.Fatalf("expected five-rune truncation, got %q", got)
	}
}

func TestTo12Hour(t *testing.T) {
	cases := map[string]string{
		"00:15": "12:15 AM",
		"09:30": "09:30 AM",
		"12:00": "12:00 PM",
		"13:45": "01:45 PM",
		"23:59": "11:59 PM",
	}
	for in, want := range cases {
		if got := To12Hour(in); got != want {
			t.Fatalf("To12Hour(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClockRoundTrip(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for _, minute := range []int{0, 15, 30, 45} {
			hhmm := fmt.Sprintf("%02d:%02d", hour, minute)
			if got := To24Hour(To12Hour(hhmm)); got != hhmm {
				t.Fatalf("round trip failed for %q: got %q", hhmm, got)
			}
		}
	}
}

func TestTwelveHourRoundTrip(t *testing.T) {
	for _, label := range []string{"09:00 AM", "12:15 AM", "12:00 PM", "04:45 PM"} {
		if got := To12Hour(To24Hour(label)); got != label {
			t.Fatalf("round trip failed for %q: got %q", label, got)
		}
	}
}

func TestPadClock(t *testing.T) {
	if got := PadClock("9:30"); got != "09:30" {
		t.Fatalf("PadClock(9:30) = %q", got)
	}
	if got := PadClock("whenever"); got != "whenever" {
		t.Fatalf("PadClock should pass through non-clock input, got %q", got)
	}
}
