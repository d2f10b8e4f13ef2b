package services

import "testing"

func TestItineraryDateForDay(t *testing.T) {
	cases := []struct {
		start string
		day   int
		want  string
	}{
		{"2024-06-01", 1, "2024-06-01"},
		{"2024-06-01", 3, "2024-06-03"},
		{"2024-06-01", 5, "2024-06-05"},
		{"2024-06-29", 3, "2024-07-01"}, // month rollover
		{"2024-02-28", 2, "2024-02-29"}, // leap year
	}
	for _, tc := range cases {
		got, err := ItineraryDateForDay(tc.start, tc.day)
		if err != nil {
			t.Fatalf("ItineraryDateForDay(%q, %d): %v", tc.start, tc.day, err)
		}
		if got != tc.want {
			t.Errorf("ItineraryDateForDay(%q, %d) = %q, expected %q", tc.start, tc.day, got, tc.want)
		}
	}
}

func TestItineraryDateForDayRejectsBadInput(t *testing.T) {
	if _, err := ItineraryDateForDay("2024-06-01", 0); err == nil {
		t.Fatal("expected error for day 0")
	}
	if _, err := ItineraryDateForDay("June first", 1); err == nil {
		t.Fatal("expected error for unparseable start date")
	}
}

func TestTripDurationDays(t *testing.T) {
	cases := []struct {
		start, end string
		want       int
	}{
		{"2024-06-01", "2024-06-01", 1},
		{"2024-06-01", "2024-06-05", 5},
		{"2024-06-28", "2024-07-02", 5},
	}
	for _, tc := range cases {
		got, err := TripDurationDays(tc.start, tc.end)
		if err != nil {
			t.Fatalf("TripDurationDays(%q, %q): %v", tc.start, tc.end, err)
		}
		if got != tc.want {
			t.Errorf("TripDurationDays(%q, %q) = %d, expected %d", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestTripDurationDaysEndBeforeStart(t *testing.T) {
	if _, err := TripDurationDays("2024-06-05", "2024-06-01"); err == nil {
		t.Fatal("expected error for end before start")
	}
}
