package services

import (
	"testing"

	"tripmate-server/models"
)

func TestSanitizeItemTime(t *testing.T) {
	cases := []struct {
		raw   string
		index int
		want  string
	}{
		{"09:30", 0, "09:30"},
		{"9:30", 0, "09:30"},
		{"14:00", 0, "14:00"},
		{"", 0, "09:00"},
		{"Morning", 0, "09:00"},
		{"after breakfast", 0, "09:00"},
		{"Lunch time", 0, "13:00"},
		{"early afternoon", 0, "13:00"},
		{"Evening", 0, "18:00"},
		{"dinner", 0, "18:00"},
		{"late night", 0, "20:00"},
		{"Flexible", 0, "09:00"},
		{"Flexible", 3, "12:00"},
		{"anytime", 8, "09:00"}, // index wraps mod 8
		{"around 15", 0, "15:00"},
		{"total nonsense", 0, "09:00"},
	}
	for _, tc := range cases {
		if got := SanitizeItemTime(tc.raw, tc.index); got != tc.want {
			t.Errorf("SanitizeItemTime(%q, %d) = %q, expected %q", tc.raw, tc.index, got, tc.want)
		}
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"[1,2]", "[1,2]"},
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n[1,2]\n```", "[1,2]"},
		{"  ```json\n[1,2]\n```  ", "[1,2]"},
	}
	for _, tc := range cases {
		if got := StripCodeFences(tc.in); got != tc.want {
			t.Errorf("StripCodeFences(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestParseGeneratedItinerary(t *testing.T) {
	trip := &models.Trip{ID: 5, Location: "Lisbon", StartDate: "2024-06-01", EndDate: "2024-06-03"}
	raw := "```json\n" + `[
		{"day": 1, "title": "Alfama walking tour", "description": "Explore the old town", "time": "Morning", "location": "Alfama", "cost_estimate": "free"},
		{"day": 2, "title": "", "description": "", "time": "19:00", "location": ""}
	]` + "\n```"

	items, err := ParseGeneratedItinerary(raw, trip, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.TripID != 5 || first.CreatedBy != 9 {
		t.Fatalf("item not bound to trip and creator: %+v", first)
	}
	if first.Date != "2024-06-01" {
		t.Errorf("expected date 2024-06-01, got %s", first.Date)
	}
	if first.Time != "09:00" {
		t.Errorf("expected sanitized time 09:00, got %s", first.Time)
	}
	if first.OrderIndex != 0 {
		t.Errorf("expected order index 0, got %d", first.OrderIndex)
	}

	second := items[1]
	if second.Date != "2024-06-02" {
		t.Errorf("expected date 2024-06-02, got %s", second.Date)
	}
	if second.Title != "Activity 2" {
		t.Errorf("expected fallback title, got %q", second.Title)
	}
	if second.Location != "Lisbon" {
		t.Errorf("expected trip location fallback, got %q", second.Location)
	}
}

func TestParseGeneratedItineraryFillsMissingDays(t *testing.T) {
	trip := &models.Trip{ID: 1, StartDate: "2024-06-01"}
	raw := `[{"title":"a"},{"title":"b"},{"title":"c"},{"title":"d"}]`

	items, err := ParseGeneratedItinerary(raw, trip, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Three items per fallback day.
	wantDays := []int{1, 1, 1, 2}
	for i, item := range items {
		if item.Day != wantDays[i] {
			t.Errorf("item %d: expected day %d, got %d", i, wantDays[i], item.Day)
		}
	}
}

func TestParseGeneratedItineraryRejectsNonArray(t *testing.T) {
	trip := &models.Trip{ID: 1, StartDate: "2024-06-01"}
	if _, err := ParseGeneratedItinerary(`{"day": 1}`, trip, 1); err == nil {
		t.Fatal("expected error for non-array response")
	}
}
